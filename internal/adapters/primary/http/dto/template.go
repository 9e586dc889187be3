package dto

import (
	"etemplate-service/internal/core/domain"
)

type TemplateResponse struct {
	Path string `json:"path"`
	App  string `json:"app"`
	Set  string `json:"template_set"`
	Name string `json:"name"`
}

type ListTemplatesResponse struct {
	Items []TemplateResponse `json:"items"`
	Total int                `json:"total"`
}

type ConvertTemplateRequest struct {
	Name     string `json:"name" binding:"required,endswith=.xet"`
	Template string `json:"template" binding:"required"`
}

type ConvertTemplateResponse struct {
	Name     string `json:"name"`
	Template string `json:"template"`
	ETag     string `json:"etag"`
}

type WarmResponse struct {
	Templates int      `json:"templates"`
	Errors    []string `json:"errors,omitempty"`
}

func ToTemplateResponse(ref domain.TemplateRef) TemplateResponse {
	return TemplateResponse{
		Path: ref.PathInfo,
		App:  ref.App,
		Set:  ref.Set,
		Name: ref.Name,
	}
}

func ToListTemplatesResponse(refs []domain.TemplateRef) ListTemplatesResponse {
	items := make([]TemplateResponse, 0, len(refs))
	for _, ref := range refs {
		items = append(items, ToTemplateResponse(ref))
	}
	return ListTemplatesResponse{Items: items, Total: len(items)}
}
