// Package handler provides HTTP handlers for user endpoints.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/bookclub/internal/auth"
	"github.com/festy23/bookclub/internal/response"
	"github.com/festy23/bookclub/internal/user/model"
	"github.com/festy23/bookclub/internal/user/service"
)

// Handler handles HTTP requests for user endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new user handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Signup handles POST /users/signup request.
// @Summary Create an account
// @Tags Users
// @Accept json
// @Produce json
// @Param request body model.SignupRequest true "Request"
// @Success 201 {object} map[string]model.UserResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /users/signup [post].
func (h *Handler) Signup(c *gin.Context) {
	var req model.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	user, err := h.service.Signup(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrEmailTaken):
			response.Error(c, http.StatusConflict, response.CodeUserExists, "email already registered")
		case errors.Is(err, model.ErrNicknameTaken):
			response.Error(c, http.StatusConflict, response.CodeUserExists, "nickname already taken")
		case errors.Is(err, model.ErrUserExists):
			response.Error(c, http.StatusConflict, response.CodeUserExists, "user already exists")
		default:
			response.Internal(c, h.logger, "signup failed", err)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// Login handles POST /users/login request.
// @Summary Exchange credentials for an access token
// @Tags Users
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "Request"
// @Success 200 {object} model.LoginResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /users/login [post].
func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			response.Unauthorized(c, "invalid email or password")
			return
		}
		response.Internal(c, h.logger, "login failed", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Me handles GET /users/me request.
func (h *Handler) Me(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		response.Unauthorized(c, "missing access token")
		return
	}

	user, err := h.service.Me(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		response.Internal(c, h.logger, "get current user failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
