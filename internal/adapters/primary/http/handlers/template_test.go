package handlers

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"etemplate-service/internal/core/domain"
	output "etemplate-service/internal/core/ports/output"
	"etemplate-service/internal/core/services"
	"etemplate-service/internal/core/transform"
	"etemplate-service/internal/testutil"
)

const (
	routePrefix   = "/api/etemplate.php"
	editPath      = "/addressbook/templates/default/edit.xet"
	legacyBody    = `<overlay><description value="x"/></overlay>`
	convertedBody = `<overlay><et2-description value="x"></et2-description></overlay>`
)

func setupTemplateRouter(t *testing.T) (*testutil.MockTemplateSource, *testutil.MockRecorder, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	src := new(testutil.MockTemplateSource)
	rec := testutil.NewMockRecorder()
	svc := services.NewTemplateService([]output.TemplateSource{src}, nil, transform.New(), rec,
		services.TemplateServiceConfig{InstallID: "test"})

	h := New(svc, nil, rec, 24*time.Hour)
	r := gin.New()
	h.RegisterRoutes(r.Group(routePrefix))

	return src, rec, r
}

func expectTemplate(t *testing.T, src *testutil.MockTemplateSource, body string) {
	t.Helper()
	ref, err := domain.ParsePathInfo(editPath)
	require.NoError(t, err)
	info := &domain.TemplateInfo{Ref: ref, Origin: "disk", ModTime: time.Now().Add(-time.Hour)}
	src.On("Stat", mock.Anything, ref).Return(info, nil)
	src.On("Read", mock.Anything, info).Return([]byte(body), nil)
}

func serve(r *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, routePrefix+path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetTemplate(t *testing.T) {
	src, _, r := setupTemplateRouter(t)
	expectTemplate(t, src, legacyBody)

	w := serve(r, http.MethodGet, editPath, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, convertedBody, w.Body.String())
	assert.Equal(t, "application/xml; charset=UTF-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "private, max-age=86400", w.Header().Get("Cache-Control"))
	assert.Equal(t, services.ETag([]byte(convertedBody)), w.Header().Get("ETag"))
	assert.Equal(t, strconv.Itoa(len(convertedBody)), w.Header().Get("Content-Length"))
	assert.Empty(t, w.Header().Get("Content-Encoding"))

	expires, err := http.ParseTime(w.Header().Get("Expires"))
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), expires, time.Minute)

	timing := w.Header().Get("X-Timing")
	assert.True(t, strings.HasPrefix(timing, "resolve="), timing)
	assert.Contains(t, timing, ", processing=")
	assert.Contains(t, timing, ", total=")
	assert.NotContains(t, timing, "cache-read=")
}

func TestGetTemplate_NotModified(t *testing.T) {
	src, rec, r := setupTemplateRouter(t)
	expectTemplate(t, src, legacyBody)

	w := serve(r, http.MethodGet, editPath, map[string]string{
		"If-None-Match": services.ETag([]byte(convertedBody)),
	})

	assert.Equal(t, http.StatusNotModified, w.Code)
	assert.Empty(t, w.Body.String())
	assert.Equal(t, services.ETag([]byte(convertedBody)), w.Header().Get("ETag"))
	assert.Equal(t, "private, max-age=86400", w.Header().Get("Cache-Control"))
	rec.AssertNumberOfCalls(t, "NotModified", 1)
	rec.AssertNotCalled(t, "CacheHit")
	rec.AssertNotCalled(t, "CacheMiss")
}

func TestGetTemplate_CountsOneResultPerRequest(t *testing.T) {
	src, rec, r := setupTemplateRouter(t)
	expectTemplate(t, src, legacyBody)

	require.Equal(t, http.StatusOK, serve(r, http.MethodGet, editPath, nil).Code)
	rec.AssertNumberOfCalls(t, "CacheMiss", 1)

	src.On("Stat", mock.Anything, mock.Anything).Return(nil, domain.ErrTemplateNotFound)
	require.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/addressbook/templates/default/missing.xet", nil).Code)
	require.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/addressbook/inc/class.xet", nil).Code)

	rec.AssertNumberOfCalls(t, "NotFound", 2)
	rec.AssertNumberOfCalls(t, "CacheMiss", 1)
	rec.AssertNotCalled(t, "CacheHit")
	rec.AssertNotCalled(t, "NotModified")
}

func TestGetTemplate_ETagMismatch(t *testing.T) {
	src, rec, r := setupTemplateRouter(t)
	expectTemplate(t, src, legacyBody)

	w := serve(r, http.MethodGet, editPath, map[string]string{"If-None-Match": `"stale"`})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, convertedBody, w.Body.String())
	rec.AssertNotCalled(t, "NotModified")
}

func TestGetTemplate_Gzip(t *testing.T) {
	src, _, r := setupTemplateRouter(t)
	expectTemplate(t, src, legacyBody)

	w := serve(r, http.MethodGet, editPath, map[string]string{"Accept-Encoding": "deflate, gzip;q=0.8, br"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
	assert.Equal(t, "Accept-Encoding", w.Header().Get("Vary"))
	assert.Equal(t, strconv.Itoa(w.Body.Len()), w.Header().Get("Content-Length"))

	zr, err := gzip.NewReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	plain, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, convertedBody, string(plain))
}

func TestGetTemplate_Head(t *testing.T) {
	src, _, r := setupTemplateRouter(t)
	expectTemplate(t, src, legacyBody)

	w := serve(r, http.MethodHead, editPath, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
	assert.Equal(t, strconv.Itoa(len(convertedBody)), w.Header().Get("Content-Length"))
	assert.NotEmpty(t, w.Header().Get("ETag"))
}

func TestGetTemplate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		setup  func(src *testutil.MockTemplateSource)
		status int
	}{
		{
			name: "not found",
			path: editPath,
			setup: func(src *testutil.MockTemplateSource) {
				src.On("Stat", mock.Anything, mock.Anything).Return(nil, domain.ErrTemplateNotFound)
			},
			status: http.StatusNotFound,
		},
		{
			name:   "path traversal",
			path:   "/addressbook/templates/../../etc/passwd.xet",
			setup:  func(*testutil.MockTemplateSource) {},
			status: http.StatusNotFound,
		},
		{
			name:   "not a template",
			path:   "/addressbook/inc/class.xet",
			setup:  func(*testutil.MockTemplateSource) {},
			status: http.StatusNotFound,
		},
		{
			name: "empty template",
			path: editPath,
			setup: func(src *testutil.MockTemplateSource) {
				src.On("Stat", mock.Anything, mock.Anything).Return(&domain.TemplateInfo{Origin: "disk"}, nil)
				src.On("Read", mock.Anything, mock.Anything).Return([]byte(""), nil)
			},
			status: http.StatusNotFound,
		},
		{
			name: "upstream unavailable",
			path: editPath,
			setup: func(src *testutil.MockTemplateSource) {
				src.On("Stat", mock.Anything, mock.Anything).Return(nil, domain.ErrUpstreamUnavailable)
			},
			status: http.StatusBadGateway,
		},
		{
			name: "unparseable attributes",
			path: editPath,
			setup: func(src *testutil.MockTemplateSource) {
				src.On("Stat", mock.Anything, mock.Anything).Return(&domain.TemplateInfo{Origin: "disk"}, nil)
				src.On("Read", mock.Anything, mock.Anything).Return([]byte(`<overlay><split>x</split></overlay>`), nil)
			},
			status: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, _, r := setupTemplateRouter(t)
			tt.setup(src)

			w := serve(r, http.MethodGet, tt.path, nil)

			assert.Equal(t, tt.status, w.Code)
			assert.Empty(t, w.Body.String())
		})
	}
}
