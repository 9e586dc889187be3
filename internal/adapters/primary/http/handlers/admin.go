package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"etemplate-service/internal/adapters/primary/http/dto"
	"etemplate-service/internal/core/services"
)

const maxTemplateSize = 4 << 20

func (h *Handler) ListTemplates(c *gin.Context) {
	refs, err := h.templateSvc.List(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("list templates failed")
		mapAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListTemplatesResponse(refs))
}

func (h *Handler) ConvertTemplate(c *gin.Context) {
	var req dto.ConvertTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	out, err := h.templateSvc.Convert([]byte(req.Template), req.Name)
	if err != nil {
		mapAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ConvertTemplateResponse{
		Name:     req.Name,
		Template: string(out),
		ETag:     services.ETag(out),
	})
}

func (h *Handler) WarmTemplates(c *gin.Context) {
	n, err := h.templateSvc.WarmAll(c.Request.Context())
	resp := dto.WarmResponse{Templates: n}
	if err != nil {
		if n == 0 {
			mapAdminError(c, err)
			return
		}
		resp.Errors = strings.Split(err.Error(), "\n")
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) PutCustomization(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxTemplateSize))
	if err != nil {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "template too large"})
		return
	}

	ref, err := h.customizationSvc.Save(c.Request.Context(), c.Param("path"), body)
	if err != nil {
		mapAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTemplateResponse(ref))
}

func (h *Handler) DeleteCustomization(c *gin.Context) {
	if err := h.customizationSvc.Delete(c.Request.Context(), c.Param("path")); err != nil {
		mapAdminError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
