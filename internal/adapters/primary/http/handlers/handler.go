package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	output "etemplate-service/internal/core/ports/output"
	"etemplate-service/internal/core/services"
)

type Handler struct {
	templateSvc      *services.TemplateService
	customizationSvc *services.CustomizationService
	recorder         output.Recorder
	maxAge           time.Duration
}

func New(
	templateSvc *services.TemplateService,
	customizationSvc *services.CustomizationService,
	recorder output.Recorder,
	maxAge time.Duration,
) *Handler {
	if recorder == nil {
		recorder = output.NopRecorder{}
	}
	return &Handler{
		templateSvc:      templateSvc,
		customizationSvc: customizationSvc,
		recorder:         recorder,
		maxAge:           maxAge,
	}
}

// RegisterRoutes mounts the template endpoint, e.g. on /api/etemplate.php:
// /api/etemplate.php/<app>/templates/<set>/<name>.xet
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/*path", h.GetTemplate)
	r.HEAD("/*path", h.GetTemplate)
}

// RegisterAdminRoutes mounts the JSON management API.
func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	// Templates
	r.GET("/templates", h.ListTemplates)
	r.POST("/convert", h.ConvertTemplate)
	r.POST("/warm", h.WarmTemplates)

	// Customizations
	r.PUT("/customizations/*path", h.PutCustomization)
	r.DELETE("/customizations/*path", h.DeleteCustomization)
}
