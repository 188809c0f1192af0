package dto

// Response is the success envelope. Count accompanies list payloads.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ErrorResponse is the failure envelope
type ErrorResponse struct {
	Success   bool               `json:"success"`
	Error     string             `json:"error"`
	Code      string             `json:"code"`
	RequestID string             `json:"requestId,omitempty"`
	Details   []ValidationDetail `json:"details,omitempty"`
}

// ValidationDetail describes one rejected request field
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ReceiptResponse answers order placement and order updates
type ReceiptResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Receipt any    `json:"receipt"`
}

// TokenResponse answers register and login
type TokenResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	Data    any    `json:"data"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data any) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// NewListResponse creates a success response carrying the item count
func NewListResponse[T any](items []T) Response {
	if items == nil {
		items = []T{}
	}
	n := len(items)
	return Response{
		Success: true,
		Count:   &n,
		Data:    items,
	}
}

// NewMessageResponse creates a success response with only a message
func NewMessageResponse(message string) Response {
	return Response{
		Success: true,
		Message: message,
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Success: false,
		Error:   message,
		Code:    code,
	}
}

// NewErrorResponseWithRequestID creates an error response tagged with the request id
func NewErrorResponseWithRequestID(code, message, requestID string) ErrorResponse {
	resp := NewErrorResponse(code, message)
	resp.RequestID = requestID
	return resp
}

// NewValidationErrorResponse creates a 400 body listing the rejected fields
func NewValidationErrorResponse(message, requestID string, details []ValidationDetail) ErrorResponse {
	resp := NewErrorResponseWithRequestID(ErrCodeValidation, message, requestID)
	resp.Details = details
	return resp
}
