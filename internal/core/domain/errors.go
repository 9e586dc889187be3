package domain

import "errors"

// ============================================================================
// Template Lookup Errors
// ============================================================================

// Not found errors
var (
	ErrInvalidTemplatePath = errors.New("invalid template path")
	ErrTemplateNotFound    = errors.New("template not found")
	ErrEmptyTemplate       = errors.New("template is empty")
)

// Source errors
var (
	ErrUpstreamUnavailable = errors.New("upstream template server not available")
)

// ============================================================================
// Transform Errors
// ============================================================================

var (
	ErrAttributeParse = errors.New("cannot parse attributes")
)

// ============================================================================
// Customization Errors
// ============================================================================

var (
	ErrCustomizationsDisabled = errors.New("template customizations need a database")
)

// ============================================================================
// Cache Errors
// ============================================================================

var (
	ErrCacheMiss = errors.New("cache miss")
)
