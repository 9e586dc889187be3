package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"etemplate-service/internal/core/domain"
)

func TestParseAttrs(t *testing.T) {
	attrs, err := ParseAttrs(` id="a" label="Name" ID2="x"/`)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "label", "ID2"}, attrs.Names())
	assert.Equal(t, "Name", attrs.Get("label"))
	assert.Equal(t, `id="a" label="Name" ID2="x"`, attrs.String())
}

func TestParseAttrs_DuplicateKeepsFirstPosition(t *testing.T) {
	attrs, err := ParseAttrs(`id="a" label="b" id="c"`)
	require.NoError(t, err)
	assert.Equal(t, `id="c" label="b"`, attrs.String())
}

func TestParseAttrs_NoAttributes(t *testing.T) {
	_, err := ParseAttrs(` /`)
	assert.ErrorIs(t, err, domain.ErrAttributeParse)
}

func TestAttrs_SetAfterDeleteAppends(t *testing.T) {
	attrs, err := ParseAttrs(`a="1" b="2" c="3"`)
	require.NoError(t, err)

	attrs.Set("b", "two")
	assert.Equal(t, `a="1" b="two" c="3"`, attrs.String())

	attrs.Delete("a")
	attrs.Set("a", "one")
	assert.Equal(t, `b="two" c="3" a="one"`, attrs.String())

	attrs.Delete("missing", "c")
	assert.Equal(t, 2, attrs.Len())
	assert.False(t, attrs.Has("c"))
}

func TestCSVSplit(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want []string
	}{
		{"plain", "a,b,c", 0, []string{"a", "b", "c"}},
		{"limited", "a,b,c", 2, []string{"a", "b,c"}},
		{"quoted comma", `"a,b",c`, 0, []string{"a,b", "c"}},
		{"escaped quotes", `x,"say ""hi""",z`, 0, []string{"x", `say "hi"`, "z"}},
		{"quoted limited", `"a,b",c,d`, 2, []string{"a,b", "c,d"}},
		{"empty", "", 3, []string{""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CSVSplit(tt.in, tt.max))
		})
	}
}

func TestIntval(t *testing.T) {
	assert.Equal(t, 12, intval("12px"))
	assert.Equal(t, 0, intval("abc"))
	assert.Equal(t, -3, intval(" -3"))
	assert.Equal(t, 0, intval(""))
}
