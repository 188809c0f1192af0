package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	identityapp "github.com/menuhub/backend/internal/application/identity"
	"github.com/menuhub/backend/internal/interfaces/http/dto"
	"github.com/menuhub/backend/internal/interfaces/http/middleware"
)

// AuthHandler handles account registration and sessions
type AuthHandler struct {
	BaseHandler
	authService *identityapp.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *identityapp.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register godoc
// @Summary      Register a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body identityapp.RegisterRequest true "Account"
// @Success      201 {object} dto.TokenResponse{data=identityapp.UserResponse}
// @Failure      400 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Router       /users/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req identityapp.RegisterRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.TokenResponse{Success: true, Token: result.Token, Data: result.User})
}

// Login godoc
// @Summary      Log in
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body identityapp.LoginRequest true "Credentials"
// @Success      200 {object} dto.TokenResponse{data=identityapp.UserResponse}
// @Failure      401 {object} dto.ErrorResponse
// @Router       /users/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req identityapp.LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.TokenResponse{Success: true, Token: result.Token, Data: result.User})
}

// Me godoc
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Success      200 {object} dto.Response{data=identityapp.UserResponse}
// @Failure      401 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /users/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	user, err := h.authService.Me(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Logout godoc
// @Summary      Log out
// @Description  Revokes the presented token until it would have expired
// @Tags         users
// @Produce      json
// @Success      200 {object} dto.Response
// @Failure      401 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /users/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	claims := middleware.GetJWTClaims(c)
	input := identityapp.LogoutInput{UserID: userID, TokenJTI: claims.ID}
	if claims.ExpiresAt != nil {
		input.ExpiresAt = claims.ExpiresAt.Time
	}
	if err := h.authService.Logout(c.Request.Context(), input); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Logged out successfully")
}

func (h *AuthHandler) currentUserID(c *gin.Context) (uuid.UUID, bool) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Error(c, dto.ErrCodeUnauthorized, "Not authorized, no token")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		h.Error(c, dto.ErrCodeInvalidToken, "Not authorized, token failed")
		return uuid.Nil, false
	}
	return id, true
}
