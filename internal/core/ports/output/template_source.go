package ports

import (
	"context"

	"etemplate-service/internal/core/domain"
)

// ============================================================================
// Template Sources
// ============================================================================

// TemplateSource knows where legacy templates live.
type TemplateSource interface {
	// Name identifies the source in logs.
	Name() string
	// Stat returns domain.ErrTemplateNotFound when the source has no such template.
	Stat(ctx context.Context, ref domain.TemplateRef) (*domain.TemplateInfo, error)
	Read(ctx context.Context, info *domain.TemplateInfo) ([]byte, error)
}

// TemplateLister is implemented by sources able to enumerate their templates.
type TemplateLister interface {
	List(ctx context.Context) ([]domain.TemplateRef, error)
}
