package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"etemplate-service/internal/core/domain"
)

const contentTypeXML = "application/xml; charset=UTF-8"

// GetTemplate sends a converted template. The response is cacheable by the
// browser and revalidated with If-None-Match; the body is gzip encoded here
// so Content-Length matches what goes over the wire. Each request counts
// once: not found, not modified, cache hit or cache miss.
func (h *Handler) GetTemplate(c *gin.Context) {
	start := time.Now()

	rendered, err := h.templateSvc.Load(c.Request.Context(), c.Param("path"))
	if err != nil {
		if isNotFound(err) {
			h.recorder.NotFound()
		}
		mapDomainError(c, err)
		return
	}

	c.Header("Content-Type", contentTypeXML)
	c.Header("Cache-Control", fmt.Sprintf("private, max-age=%d", int64(h.maxAge/time.Second)))
	c.Header("Expires", start.Add(h.maxAge).UTC().Format(http.TimeFormat))
	c.Header("ETag", rendered.ETag)
	c.Header("Vary", "Accept-Encoding")

	if c.GetHeader("If-None-Match") == rendered.ETag {
		h.recorder.NotModified()
		c.Status(http.StatusNotModified)
		return
	}
	if rendered.CacheHit {
		h.recorder.CacheHit()
	} else {
		h.recorder.CacheMiss()
	}

	body := rendered.Body
	var gzipping time.Duration
	if acceptsGzip(c.GetHeader("Accept-Encoding")) {
		gzipStart := time.Now()
		body, err = gzipEncode(body)
		if err != nil {
			mapDomainError(c, err)
			return
		}
		gzipping = time.Since(gzipStart)
		c.Header("Content-Encoding", "gzip")
	}

	c.Header("X-Timing", formatTiming(rendered, gzipping, time.Since(start)))
	c.Header("Content-Length", strconv.Itoa(len(body)))

	if c.Request.Method == http.MethodHead {
		c.Status(http.StatusOK)
		return
	}
	c.Data(http.StatusOK, contentTypeXML, body)
}

// formatTiming renders seconds with millisecond precision:
// resolve=0.001, processing=0.004, gziping=0.000, total=0.006
func formatTiming(r *domain.Rendered, gzipping, total time.Duration) string {
	parts := []string{"resolve=" + seconds(r.Timing.Resolve)}
	if r.CacheHit {
		parts = append(parts, "cache-read="+seconds(r.Timing.CacheRead))
	} else {
		parts = append(parts, "processing="+seconds(r.Timing.Processing))
	}
	if gzipping > 0 {
		parts = append(parts, "gziping="+seconds(gzipping))
	}
	parts = append(parts, "total="+seconds(total))
	return strings.Join(parts, ", ")
}

func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}
