package ports

import (
	"context"

	"etemplate-service/internal/core/domain"
)

// CustomizationStore persists operator overrides of shipped templates.
type CustomizationStore interface {
	Save(ctx context.Context, ref domain.TemplateRef, body []byte) error
	// Delete returns domain.ErrTemplateNotFound when there is no override.
	Delete(ctx context.Context, ref domain.TemplateRef) error
}
