package services

import (
	"bytes"
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"etemplate-service/internal/core/domain"
	output "etemplate-service/internal/core/ports/output"
	"etemplate-service/internal/core/transform"
)

// CustomizationService manages overrides of shipped templates. Every change
// drops the cached conversion of the template, so the next load converts
// whatever is now served.
type CustomizationService struct {
	store     output.CustomizationStore
	cache     output.CacheStore
	pipeline  *transform.Pipeline
	installID string
}

// NewCustomizationService accepts a nil store when no database is
// configured; every call then fails with domain.ErrCustomizationsDisabled.
// cache may be nil when caching is off.
func NewCustomizationService(
	store output.CustomizationStore,
	cache output.CacheStore,
	pipeline *transform.Pipeline,
	installID string,
) *CustomizationService {
	return &CustomizationService{
		store:     store,
		cache:     cache,
		pipeline:  pipeline,
		installID: installID,
	}
}

// Save stores body as the override of pathInfo. The body must convert
// cleanly.
func (s *CustomizationService) Save(ctx context.Context, pathInfo string, body []byte) (domain.TemplateRef, error) {
	ref, err := domain.ParsePathInfo(pathInfo)
	if err != nil {
		return domain.TemplateRef{}, err
	}
	if s.store == nil {
		return domain.TemplateRef{}, domain.ErrCustomizationsDisabled
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return domain.TemplateRef{}, fmt.Errorf("%w: %s", domain.ErrEmptyTemplate, pathInfo)
	}
	if _, err := s.pipeline.Run(string(body), transform.Options{TemplateName: ref.FileName()}); err != nil {
		return domain.TemplateRef{}, fmt.Errorf("convert %s: %w", pathInfo, err)
	}

	if err := s.store.Save(ctx, ref, body); err != nil {
		return domain.TemplateRef{}, err
	}
	if err := s.invalidate(ctx, ref); err != nil {
		return domain.TemplateRef{}, err
	}

	log.WithField("template", ref.PathInfo).Info("template customized")
	return ref, nil
}

// Delete removes the override of pathInfo.
func (s *CustomizationService) Delete(ctx context.Context, pathInfo string) error {
	ref, err := domain.ParsePathInfo(pathInfo)
	if err != nil {
		return err
	}
	if s.store == nil {
		return domain.ErrCustomizationsDisabled
	}
	if err := s.store.Delete(ctx, ref); err != nil {
		return err
	}
	if err := s.invalidate(ctx, ref); err != nil {
		return err
	}

	log.WithField("template", ref.PathInfo).Info("template customization removed")
	return nil
}

func (s *CustomizationService) invalidate(ctx context.Context, ref domain.TemplateRef) error {
	if s.cache == nil {
		return nil
	}
	key := domain.CacheKey(s.installID, ref.PathInfo)
	if err := s.cache.Delete(ctx, key); err != nil {
		return fmt.Errorf("invalidate %s: %w", key, err)
	}
	return nil
}
