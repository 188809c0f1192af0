package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/menuhub/backend/internal/infrastructure/logger"
	"github.com/menuhub/backend/internal/interfaces/http/dto"
	"github.com/menuhub/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a 200 response carrying data
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 response carrying data and a message
func (h *BaseHandler) Created(c *gin.Context, message string, data any) {
	resp := dto.NewSuccessResponse(data)
	resp.Message = message
	c.JSON(http.StatusCreated, resp)
}

// Message sends a 200 response with only a message
func (h *BaseHandler) Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, dto.NewMessageResponse(message))
}

// Error sends an error response, deriving the status from the code
func (h *BaseHandler) Error(c *gin.Context, code, message string) {
	c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, dto.ErrCodeBadRequest, message)
}

// HandleError converts service errors to responses. Domain errors keep their
// code and message. Persistence faults and unknown errors are logged and
// answered with 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) && domainErr.Code != shared.CodePersistence {
		h.Error(c, domainErr.Code, domainErr.Message)
		return
	}

	logger.FromContext(c.Request.Context()).Error("Request failed",
		zap.String("route", c.FullPath()),
		zap.Error(err),
	)
	if domainErr != nil {
		h.Error(c, dto.ErrCodePersistence, domainErr.Message)
		return
	}
	h.Error(c, dto.ErrCodeInternal, "An unexpected error occurred")
}

// bindJSON binds and validates the request body, writing the 400 response itself on failure
func (h *BaseHandler) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// parseID parses the :name path parameter as a UUID. A malformed id cannot
// address any resource, so it is answered as not found.
func (h *BaseHandler) parseID(c *gin.Context, name, resource string) (uuid.UUID, bool) {
	raw := c.Param(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		h.Error(c, dto.ErrCodeNotFound, resource+" not found: "+raw)
		return uuid.Nil, false
	}
	return id, true
}
