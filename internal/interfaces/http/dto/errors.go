package dto

import (
	"net/http"

	"github.com/menuhub/backend/internal/domain/shared"
)

// Error codes returned in the "code" field. Domain codes pass through unchanged.
const (
	ErrCodeValidation        = shared.CodeValidation
	ErrCodeNotFound          = shared.CodeNotFound
	ErrCodeReferenceNotFound = shared.CodeReferenceNotFound
	ErrCodePersistence       = shared.CodePersistence
	ErrCodeUnauthorized      = shared.CodeUnauthorized
	ErrCodeAlreadyExists     = shared.CodeAlreadyExists

	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeTokenExpired    = "TOKEN_EXPIRED"
	ErrCodeInvalidToken    = "INVALID_TOKEN"
	ErrCodeTokenRevoked    = "TOKEN_REVOKED"
	ErrCodeRouteNotFound   = "ROUTE_NOT_FOUND"
	ErrCodeRateLimited     = "RATE_LIMIT_EXCEEDED"
	ErrCodeForbidden       = "FORBIDDEN"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// Client input -> 400
	ErrCodeValidation:        http.StatusBadRequest,
	ErrCodeReferenceNotFound: http.StatusBadRequest,
	ErrCodeBadRequest:        http.StatusBadRequest,

	// Auth -> 401
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeInvalidToken: http.StatusUnauthorized,
	ErrCodeTokenRevoked: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,

	// Resources
	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeRouteNotFound: http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,

	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited:     http.StatusTooManyRequests,

	// Server -> 500
	ErrCodePersistence: http.StatusInternalServerError,
	ErrCodeInternal:    http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes are server errors.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
