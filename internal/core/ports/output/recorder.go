package ports

import "time"

// Recorder collects template delivery metrics.
type Recorder interface {
	CacheHit()
	CacheMiss()
	NotModified()
	NotFound()
	CacheWriteFailed()
	ObserveTransform(d time.Duration)
}

// NopRecorder discards everything.
type NopRecorder struct{}

func (NopRecorder) CacheHit()                      {}
func (NopRecorder) CacheMiss()                     {}
func (NopRecorder) NotModified()                   {}
func (NopRecorder) NotFound()                      {}
func (NopRecorder) CacheWriteFailed()              {}
func (NopRecorder) ObserveTransform(time.Duration) {}
