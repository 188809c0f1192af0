package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeReferenceNotFound, http.StatusBadRequest},
		{ErrCodeBadRequest, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeTokenExpired, http.StatusUnauthorized},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeRequestTooLarge, http.StatusRequestEntityTooLarge},
		{ErrCodePersistence, http.StatusInternalServerError},
		{ErrCodeInternal, http.StatusInternalServerError},
		// Unknown code should return 500
		{"PASSWORD_HASH_ERROR", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNewListResponse_NilBecomesEmptyArray(t *testing.T) {
	var items []string
	body, err := json.Marshal(NewListResponse(items))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"count":0,"data":[]}`, string(body))
}

func TestNewErrorResponse_Shape(t *testing.T) {
	body, err := json.Marshal(NewErrorResponse(ErrCodeNotFound, "Order not found: 42"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"error":"Order not found: 42","code":"NOT_FOUND"}`, string(body))
}

func TestNewValidationErrorResponse(t *testing.T) {
	resp := NewValidationErrorResponse("Request validation failed", "req-1", []ValidationDetail{
		{Field: "name", Message: "This field is required"},
	})

	assert.False(t, resp.Success)
	assert.Equal(t, ErrCodeValidation, resp.Code)
	assert.Equal(t, "req-1", resp.RequestID)
	assert.Len(t, resp.Details, 1)
}
