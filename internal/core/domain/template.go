package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	// DefaultTemplateSet is the set every lookup falls back to.
	DefaultTemplateSet = "default"
	// TemplateExt is the file extension of eTemplate files.
	TemplateExt = ".xet"
)

var pathSegment = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// TemplateRef identifies a template by the path info it was requested with:
// /<app>/templates/<set>/<name>.xet
type TemplateRef struct {
	App      string
	Set      string
	Name     string // file name without .xet
	PathInfo string
}

// ParsePathInfo validates a request path and splits it into its parts.
func ParsePathInfo(pathInfo string) (TemplateRef, error) {
	parts := strings.Split(pathInfo, "/")
	if len(parts) != 5 || parts[0] != "" || parts[2] != "templates" {
		return TemplateRef{}, fmt.Errorf("%w: %q", ErrInvalidTemplatePath, pathInfo)
	}
	for _, p := range parts[1:] {
		if !pathSegment.MatchString(p) || strings.Contains(p, "..") {
			return TemplateRef{}, fmt.Errorf("%w: %q", ErrInvalidTemplatePath, pathInfo)
		}
	}
	file := parts[4]
	if !strings.HasSuffix(file, TemplateExt) || len(file) == len(TemplateExt) {
		return TemplateRef{}, fmt.Errorf("%w: %q", ErrInvalidTemplatePath, pathInfo)
	}

	return TemplateRef{
		App:      parts[1],
		Set:      parts[3],
		Name:     strings.TrimSuffix(file, TemplateExt),
		PathInfo: pathInfo,
	}, nil
}

// FileName returns the requested file name, e.g. "edit.xet".
func (r TemplateRef) FileName() string {
	return r.Name + TemplateExt
}

// TemplateName returns the dotted eTemplate name, e.g. "addressbook.edit".
func (r TemplateRef) TemplateName() string {
	return r.App + "." + r.Name
}

// RelPath returns the install-relative path of the template in the given set.
func (r TemplateRef) RelPath(set string) string {
	return "/" + r.App + "/templates/" + set + "/" + r.FileName()
}

// WithSet returns a copy of the reference pointing at another template set.
func (r TemplateRef) WithSet(set string) TemplateRef {
	r.Set = set
	r.PathInfo = r.RelPath(set)
	return r
}

// TemplateInfo is a template some source knows about.
type TemplateInfo struct {
	Ref     TemplateRef
	Origin  string
	ModTime time.Time
}

// CacheEntry is a previously transformed template.
type CacheEntry struct {
	Body    []byte
	ModTime time.Time
}

// CacheKey builds the key a transformed template is cached under.
func CacheKey(installID, pathInfo string) string {
	return "eT2-Cache-" + installID + "-" + strings.ReplaceAll(pathInfo, "/", "-")
}

// Timing records where the time of a load went.
type Timing struct {
	Resolve    time.Duration
	CacheRead  time.Duration
	Processing time.Duration
}

// Rendered is a transformed template ready to be sent.
type Rendered struct {
	Ref      TemplateRef
	Info     *TemplateInfo
	Body     []byte
	ETag     string
	CacheHit bool
	Timing   Timing
}
