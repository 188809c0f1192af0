// Package printing renders receipts to PDF through a headless Chrome.
package printing

import (
	"context"
	"time"
)

// ReceiptPaperWidthMM is the width of a standard thermal receipt roll
const ReceiptPaperWidthMM = 80

// RenderRequest contains the parameters for rendering HTML to PDF
type RenderRequest struct {
	HTML  string
	Title string
	// PaperWidthMM is the page width. Pages are tall enough that a receipt
	// never breaks across pages.
	PaperWidthMM float64
	// MarginMM applies to every side
	MarginMM float64
	// Timeout overrides the default rendering timeout
	Timeout time.Duration
}

// PDFRenderer converts HTML documents to PDF
type PDFRenderer interface {
	Render(ctx context.Context, req *RenderRequest) ([]byte, error)
	Close() error
}

// RenderError represents an error during PDF rendering
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Error codes for rendering failures
const (
	ErrCodeRenderTimeout = "RENDER_TIMEOUT"
	ErrCodeRenderFailed  = "RENDER_FAILED"
	ErrCodeInvalidHTML   = "INVALID_HTML"
	ErrCodeTemplate      = "TEMPLATE_FAILED"
)

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}
