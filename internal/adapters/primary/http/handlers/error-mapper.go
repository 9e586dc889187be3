package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"etemplate-service/internal/core/domain"
)

// mapDomainError answers a failed template request. Clients only ever see
// a status code; the cause is logged.
func mapDomainError(c *gin.Context, err error) {
	switch {
	// Not found errors
	case isNotFound(err):
		c.AbortWithStatus(http.StatusNotFound)

	// Upstream errors
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		log.WithError(err).WithField("path", c.Request.URL.Path).Error("upstream template source failed")
		c.AbortWithStatus(http.StatusBadGateway)

	default:
		log.WithError(err).WithField("path", c.Request.URL.Path).Error("template request failed")
		c.AbortWithStatus(http.StatusInternalServerError)
	}
}

// isNotFound reports errors a template request answers with 404.
func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrInvalidTemplatePath) ||
		errors.Is(err, domain.ErrTemplateNotFound) ||
		errors.Is(err, domain.ErrEmptyTemplate)
}

// mapAdminError answers a failed management request with a JSON error.
func mapAdminError(c *gin.Context, err error) {
	switch {
	// Not found errors
	case errors.Is(err, domain.ErrTemplateNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	// Bad request / validation errors
	case errors.Is(err, domain.ErrInvalidTemplatePath),
		errors.Is(err, domain.ErrEmptyTemplate),
		errors.Is(err, domain.ErrAttributeParse):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	// Service unavailable errors
	case errors.Is(err, domain.ErrCustomizationsDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})

	default:
		log.WithError(err).WithField("path", c.Request.URL.Path).Error("admin request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
