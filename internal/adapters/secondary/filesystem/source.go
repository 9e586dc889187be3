package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"etemplate-service/internal/core/domain"
	output "etemplate-service/internal/core/ports/output"
)

type templateSource struct {
	root string
}

// NewTemplateSource serves templates shipped with an install:
// <root>/<app>/templates/<set>/<name>.xet
func NewTemplateSource(root string) output.TemplateSource {
	return &templateSource{root: filepath.Clean(root)}
}

func (s *templateSource) Name() string {
	return "filesystem"
}

func (s *templateSource) Stat(ctx context.Context, ref domain.TemplateRef) (*domain.TemplateInfo, error) {
	path, err := s.path(ref)
	if err != nil {
		return nil, err
	}

	fi, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrTemplateNotFound, ref.PathInfo)
		}
		return nil, fmt.Errorf("stat template: %w", err)
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("%w: %s", domain.ErrTemplateNotFound, ref.PathInfo)
	}

	return &domain.TemplateInfo{Ref: ref, Origin: path, ModTime: fi.ModTime()}, nil
}

func (s *templateSource) Read(ctx context.Context, info *domain.TemplateInfo) ([]byte, error) {
	data, err := os.ReadFile(info.Origin)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrTemplateNotFound, info.Ref.PathInfo)
		}
		return nil, fmt.Errorf("read template: %w", err)
	}
	return data, nil
}

// List returns every template below the root.
func (s *templateSource) List(ctx context.Context) ([]domain.TemplateRef, error) {
	matches, err := filepath.Glob(filepath.Join(s.root, "*", "templates", "*", "*"+domain.TemplateExt))
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}

	refs := make([]domain.TemplateRef, 0, len(matches))
	for _, m := range matches {
		rel, err := filepath.Rel(s.root, m)
		if err != nil {
			continue
		}
		ref, err := domain.ParsePathInfo("/" + filepath.ToSlash(rel))
		if err != nil {
			continue
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func (s *templateSource) path(ref domain.TemplateRef) (string, error) {
	path := filepath.Join(s.root, filepath.FromSlash(ref.RelPath(ref.Set)))
	rel, err := filepath.Rel(s.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", domain.ErrInvalidTemplatePath, ref.PathInfo)
	}
	return path, nil
}
