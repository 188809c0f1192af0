package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/menuhub/backend/internal/infrastructure/storage"
)

// isMultipart reports whether the request carries a multipart form
func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// readImage loads the uploaded file in field. It returns nil when the form
// has no such file. At most maxSize+1 bytes are read so that oversized files
// are still rejected by storage.ValidateImage.
func readImage(c *gin.Context, field string, maxSize int64) (*storage.Image, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, shared.NewValidationError("Invalid upload: %v", err)
	}
	if maxSize <= 0 {
		maxSize = storage.DefaultMaxImageSize
	}

	f, err := fh.Open()
	if err != nil {
		return nil, shared.NewValidationError("Invalid upload: %v", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxSize+1))
	if err != nil {
		return nil, shared.NewValidationError("Invalid upload: %v", err)
	}
	return &storage.Image{Filename: fh.Filename, Data: data}, nil
}

// formValue returns a pointer to a multipart field, or nil when the field is absent
func formValue(c *gin.Context, key string) *string {
	v, ok := c.GetPostForm(key)
	if !ok {
		return nil
	}
	return &v
}
