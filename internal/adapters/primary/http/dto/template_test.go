package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"etemplate-service/internal/core/domain"
)

func TestToListTemplatesResponse(t *testing.T) {
	ref, err := domain.ParsePathInfo("/addressbook/templates/pixelegg/edit.xet")
	require.NoError(t, err)

	resp := ToListTemplatesResponse([]domain.TemplateRef{ref})

	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, TemplateResponse{
		Path: "/addressbook/templates/pixelegg/edit.xet",
		App:  "addressbook",
		Set:  "pixelegg",
		Name: "edit",
	}, resp.Items[0])
}

func TestToListTemplatesResponse_EmptyIsArray(t *testing.T) {
	data, err := json.Marshal(ToListTemplatesResponse(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[],"total":0}`, string(data))
}
