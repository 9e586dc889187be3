package prometheus

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewRecorder(reg).(*recorder)

	rec.CacheHit()
	rec.CacheHit()
	rec.CacheMiss()
	rec.NotModified()
	rec.NotFound()
	rec.CacheWriteFailed()
	rec.ObserveTransform(3 * time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(rec.requests.WithLabelValues(ResultHit)))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.requests.WithLabelValues(ResultMiss)))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.requests.WithLabelValues(ResultNotModified)))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.requests.WithLabelValues(ResultNotFound)))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.cacheWriteFailures))

	expected := `
# HELP etemplate_cache_write_failures_total Converted templates that could not be written to the cache
# TYPE etemplate_cache_write_failures_total counter
etemplate_cache_write_failures_total 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "etemplate_cache_write_failures_total"))
	assert.Equal(t, 1, testutil.CollectAndCount(rec.transformDuration))
}

func TestRecorder_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewRecorder(reg)

	assert.Panics(t, func() { NewRecorder(reg) })
}
