package printing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPrintParams(t *testing.T) {
	t.Run("defaults to receipt width", func(t *testing.T) {
		params := buildPrintParams(&RenderRequest{HTML: "<p>x</p>"})

		assert.InDelta(t, mmToInches(ReceiptPaperWidthMM), params.paperWidth, 0.001)
		assert.InDelta(t, mmToInches(continuousPageHeightMM), params.paperHeight, 0.001)
		assert.Zero(t, params.margin)
	})

	t.Run("explicit width and margin", func(t *testing.T) {
		params := buildPrintParams(&RenderRequest{HTML: "<p>x</p>", PaperWidthMM: 58, MarginMM: 2.54})

		assert.InDelta(t, mmToInches(58), params.paperWidth, 0.001)
		assert.InDelta(t, 0.1, params.margin, 0.001)
	})
}

func TestBuildCompleteHTML(t *testing.T) {
	full := "<!DOCTYPE html><html><body>x</body></html>"
	assert.Equal(t, full, buildCompleteHTML(&RenderRequest{HTML: full}))

	wrapped := buildCompleteHTML(&RenderRequest{HTML: "<p>hi</p>", Title: "A & B"})
	assert.Contains(t, wrapped, "<title>A &amp; B</title>")
	assert.Contains(t, wrapped, "<body><p>hi</p></body>")
}

func TestChromedpRenderer_RejectsEmptyHTML(t *testing.T) {
	r := NewChromedpRenderer(ChromedpConfig{})
	t.Cleanup(func() { _ = r.Close() })

	for _, req := range []*RenderRequest{nil, {HTML: "   "}} {
		_, err := r.Render(context.Background(), req)

		var re *RenderError
		require.True(t, errors.As(err, &re))
		assert.Equal(t, ErrCodeInvalidHTML, re.Code)
	}
}

func TestRenderError(t *testing.T) {
	cause := errors.New("boom")
	err := NewRenderError(ErrCodeRenderFailed, "chromedp execution failed", cause)

	assert.Equal(t, "chromedp execution failed: boom", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "generated PDF is empty", NewRenderError(ErrCodeRenderFailed, "generated PDF is empty", nil).Error())
}
