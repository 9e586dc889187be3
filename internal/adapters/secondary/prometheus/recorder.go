package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	output "etemplate-service/internal/core/ports/output"
)

// request results
const (
	ResultHit         = "hit"
	ResultMiss        = "miss"
	ResultNotModified = "not_modified"
	ResultNotFound    = "not_found"
)

type recorder struct {
	requests           *prometheus.CounterVec
	cacheWriteFailures prometheus.Counter
	transformDuration  prometheus.Histogram
}

// NewRecorder registers the template delivery metrics with reg.
func NewRecorder(reg prometheus.Registerer) output.Recorder {
	factory := promauto.With(reg)
	return &recorder{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "etemplate_requests_total",
			Help: "Template requests by result",
		}, []string{"result"}),
		cacheWriteFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "etemplate_cache_write_failures_total",
			Help: "Converted templates that could not be written to the cache",
		}),
		transformDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "etemplate_transform_duration_seconds",
			Help:    "Duration of a full rewrite of one template",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}),
	}
}

func (r *recorder) CacheHit()         { r.requests.WithLabelValues(ResultHit).Inc() }
func (r *recorder) CacheMiss()        { r.requests.WithLabelValues(ResultMiss).Inc() }
func (r *recorder) NotModified()      { r.requests.WithLabelValues(ResultNotModified).Inc() }
func (r *recorder) NotFound()         { r.requests.WithLabelValues(ResultNotFound).Inc() }
func (r *recorder) CacheWriteFailed() { r.cacheWriteFailures.Inc() }

func (r *recorder) ObserveTransform(d time.Duration) {
	r.transformDuration.Observe(d.Seconds())
}
