package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"etemplate-service/internal/core/domain"
	output "etemplate-service/internal/core/ports/output"
)

type templateSource struct {
	httpClient  *http.Client
	upstreamURL string
}

// NewTemplateSource fetches templates from another install serving the
// same tree, e.g. http://egw.internal/egroupware.
func NewTemplateSource(upstreamURL string, timeout time.Duration) output.TemplateSource {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &templateSource{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		upstreamURL: strings.TrimRight(upstreamURL, "/"),
	}
}

func (s *templateSource) Name() string {
	return "upstream"
}

// Stat issues a HEAD request; Last-Modified becomes the template age.
// Without it the template counts as modified now and is never served from
// cache.
func (s *templateSource) Stat(ctx context.Context, ref domain.TemplateRef) (*domain.TemplateInfo, error) {
	url := s.upstreamURL + ref.RelPath(ref.Set)

	resp, err := s.do(ctx, http.MethodHead, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, ref); err != nil {
		return nil, err
	}

	modTime := time.Now()
	if lm := resp.Header.Get("Last-Modified"); lm != "" {
		if t, err := http.ParseTime(lm); err == nil {
			modTime = t
		}
	}

	return &domain.TemplateInfo{Ref: ref, Origin: url, ModTime: modTime}, nil
}

func (s *templateSource) Read(ctx context.Context, info *domain.TemplateInfo) ([]byte, error) {
	resp, err := s.do(ctx, http.MethodGet, info.Origin)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, info.Ref); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", domain.ErrUpstreamUnavailable, err)
	}
	return body, nil
}

func (s *templateSource) do(ctx context.Context, method, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create upstream request: %w", err)
	}

	log.WithFields(log.Fields{
		"method": method,
		"url":    url,
	}).Debug("requesting template from upstream")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	return resp, nil
}

func checkStatus(resp *http.Response, ref domain.TemplateRef) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return fmt.Errorf("%w: %s", domain.ErrTemplateNotFound, ref.PathInfo)
	default:
		return fmt.Errorf("%w: status %d for %s", domain.ErrUpstreamUnavailable, resp.StatusCode, ref.PathInfo)
	}
}
