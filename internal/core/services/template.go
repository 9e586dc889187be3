package services

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"etemplate-service/internal/core/domain"
	output "etemplate-service/internal/core/ports/output"
	"etemplate-service/internal/core/transform"
)

// TemplateServiceConfig holds the settings of the template loader.
type TemplateServiceConfig struct {
	// InstallID separates cache entries of installs sharing a cache.
	InstallID string
	// DefaultSet is the template set used when the requested one lacks a template.
	DefaultSet string
	// PipelineModTime invalidates every cache entry written before it.
	PipelineModTime time.Time
}

// TemplateService loads legacy templates, converts them and keeps the
// converted output cached.
type TemplateService struct {
	sources  []output.TemplateSource
	cache    output.CacheStore
	pipeline *transform.Pipeline
	recorder output.Recorder
	cfg      TemplateServiceConfig
}

// NewTemplateService wires the loader. cache may be nil to disable caching;
// recorder may be nil. Request results are counted by the caller, the
// service only records transform time and cache write failures.
func NewTemplateService(
	sources []output.TemplateSource,
	cache output.CacheStore,
	pipeline *transform.Pipeline,
	recorder output.Recorder,
	cfg TemplateServiceConfig,
) *TemplateService {
	if recorder == nil {
		recorder = output.NopRecorder{}
	}
	if cfg.DefaultSet == "" {
		cfg.DefaultSet = domain.DefaultTemplateSet
	}
	return &TemplateService{
		sources:  sources,
		cache:    cache,
		pipeline: pipeline,
		recorder: recorder,
		cfg:      cfg,
	}
}

// Load returns the converted template requested with pathInfo
// (/<app>/templates/<set>/<name>.xet).
func (s *TemplateService) Load(ctx context.Context, pathInfo string) (*domain.Rendered, error) {
	start := time.Now()

	ref, err := domain.ParsePathInfo(pathInfo)
	if err != nil {
		return nil, err
	}

	info, src, err := s.resolve(ctx, ref)
	if err != nil {
		return nil, err
	}

	rendered := &domain.Rendered{Ref: ref, Info: info}
	rendered.Timing.Resolve = time.Since(start)

	// keyed by the template actually found, so a set falling back to
	// default shares the default entry
	key := domain.CacheKey(s.cfg.InstallID, info.Ref.PathInfo)
	if body, ok := s.cached(ctx, key, info); ok {
		rendered.Body = body
		rendered.CacheHit = true
		rendered.Timing.CacheRead = time.Since(start) - rendered.Timing.Resolve
	} else {
		body, err := s.render(ctx, src, info)
		if err != nil {
			return nil, err
		}
		rendered.Body = body
		rendered.Timing.Processing = time.Since(start) - rendered.Timing.Resolve
		if len(body) > 0 {
			s.store(ctx, key, body)
		}
	}

	if len(rendered.Body) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrEmptyTemplate, info.Origin)
	}
	rendered.ETag = ETag(rendered.Body)

	log.WithFields(log.Fields{
		"template":  ref.PathInfo,
		"origin":    info.Origin,
		"cache_hit": rendered.CacheHit,
	}).Debug("template loaded")

	return rendered, nil
}

// Convert runs the pipeline over a raw template outside of any source.
func (s *TemplateService) Convert(raw []byte, fileName string) ([]byte, error) {
	out, err := s.pipeline.Run(string(raw), transform.Options{TemplateName: fileName})
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", fileName, err)
	}
	return []byte(out), nil
}

// Warm loads every given template so the cache holds its converted form.
func (s *TemplateService) Warm(ctx context.Context, pathInfos []string) error {
	var errs []error
	for _, p := range pathInfos {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if _, err := s.Load(ctx, p); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p, err))
		}
	}
	return errors.Join(errs...)
}

// WarmAll loads every template the listing sources know and returns how
// many there were.
func (s *TemplateService) WarmAll(ctx context.Context) (int, error) {
	refs, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	paths := make([]string, 0, len(refs))
	for _, ref := range refs {
		paths = append(paths, ref.PathInfo)
	}
	return len(paths), s.Warm(ctx, paths)
}

// List returns every template the listing sources know, first source wins.
func (s *TemplateService) List(ctx context.Context) ([]domain.TemplateRef, error) {
	seen := make(map[string]bool)
	var refs []domain.TemplateRef
	for _, src := range s.sources {
		lister, ok := src.(output.TemplateLister)
		if !ok {
			continue
		}
		found, err := lister.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", src.Name(), err)
		}
		for _, ref := range found {
			if !seen[ref.PathInfo] {
				seen[ref.PathInfo] = true
				refs = append(refs, ref)
			}
		}
	}
	return refs, nil
}

// resolve asks the sources in order for the requested set, then for the
// default set. Source failures are skipped so a broken optional source does
// not hide templates shipped on disk.
func (s *TemplateService) resolve(ctx context.Context, ref domain.TemplateRef) (*domain.TemplateInfo, output.TemplateSource, error) {
	candidates := []domain.TemplateRef{ref}
	if ref.Set != s.cfg.DefaultSet {
		candidates = append(candidates, ref.WithSet(s.cfg.DefaultSet))
	}

	var lastErr error
	for _, candidate := range candidates {
		for _, src := range s.sources {
			info, err := src.Stat(ctx, candidate)
			if err == nil {
				return info, src, nil
			}
			if errors.Is(err, domain.ErrTemplateNotFound) {
				continue
			}
			log.WithError(err).WithFields(log.Fields{
				"source":   src.Name(),
				"template": candidate.PathInfo,
			}).Warn("template source failed")
			lastErr = err
		}
	}
	if lastErr != nil {
		return nil, nil, lastErr
	}
	return nil, nil, fmt.Errorf("%w: %s", domain.ErrTemplateNotFound, ref.PathInfo)
}

func (s *TemplateService) cached(ctx context.Context, key string, info *domain.TemplateInfo) ([]byte, bool) {
	if s.cache == nil {
		return nil, false
	}
	entry, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			log.WithError(err).WithField("key", key).Warn("cache read failed")
		}
		return nil, false
	}

	newest := info.ModTime
	if s.cfg.PipelineModTime.After(newest) {
		newest = s.cfg.PipelineModTime
	}
	if !entry.ModTime.After(newest) {
		return nil, false
	}
	return entry.Body, true
}

func (s *TemplateService) render(ctx context.Context, src output.TemplateSource, info *domain.TemplateInfo) ([]byte, error) {
	raw, err := src.Read(ctx, info)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", info.Origin, err)
	}

	start := time.Now()
	out, err := s.pipeline.Run(string(raw), transform.Options{TemplateName: info.Ref.FileName()})
	s.recorder.ObserveTransform(time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("transform %s: %w", info.Origin, err)
	}
	return []byte(out), nil
}

func (s *TemplateService) store(ctx context.Context, key string, body []byte) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Put(ctx, key, body); err != nil {
		s.recorder.CacheWriteFailed()
		log.WithError(err).WithField("key", key).Warn("cache write failed")
	}
}

// ETag returns the strong entity tag of a body.
func ETag(body []byte) string {
	sum := md5.Sum(body)
	return `"` + hex.EncodeToString(sum[:]) + `"`
}
