// Package handler provides HTTP handlers for community endpoints.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/bookclub/internal/auth"
	"github.com/festy23/bookclub/internal/community/model"
	"github.com/festy23/bookclub/internal/community/service"
	membershipModel "github.com/festy23/bookclub/internal/membership/model"
	"github.com/festy23/bookclub/internal/response"
	userModel "github.com/festy23/bookclub/internal/user/model"
)

// Handler handles HTTP requests for community endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new community handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// CreateCommunity handles POST /communities request.
// @Summary Start a recruitment
// @Tags Communities
// @Accept json
// @Produce json
// @Param request body model.CreateCommunityRequest true "Request"
// @Success 201 {object} model.CreateCommunityResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse "User not found"
// @Router /communities [post].
func (h *Handler) CreateCommunity(c *gin.Context) {
	userID, ok := auth.RequireUserID(c)
	if !ok {
		return
	}

	var req model.CreateCommunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	resp, err := h.service.CreateCommunity(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleError(c, err, "create community failed")
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetCommunity handles GET /communities/:communityId request.
func (h *Handler) GetCommunity(c *gin.Context) {
	communityID, ok := response.IDParam(c, "communityId")
	if !ok {
		return
	}

	resp, err := h.service.GetCommunity(c.Request.Context(), communityID)
	if err != nil {
		h.handleError(c, err, "get community failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"community": resp})
}

// ListCommunities handles GET /communities request.
// @Param status query string false "RECRUITING, ACTIVE or CLOSED"
func (h *Handler) ListCommunities(c *gin.Context) {
	var filter *model.TeamStatus
	if raw := c.Query("status"); raw != "" {
		status, ok := model.ParseTeamStatus(raw)
		if !ok {
			response.BadRequest(c, "invalid status filter")
			return
		}
		filter = &status
	}

	communities, err := h.service.ListCommunities(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err, "list communities failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"communities": communities})
}

// ListMembers handles GET /communities/:communityId/members request.
func (h *Handler) ListMembers(c *gin.Context) {
	userID, ok := auth.RequireUserID(c)
	if !ok {
		return
	}
	communityID, ok := response.IDParam(c, "communityId")
	if !ok {
		return
	}

	members, err := h.service.ListMembers(c.Request.Context(), communityID, userID)
	if err != nil {
		h.handleError(c, err, "list members failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": members})
}

// UpdateRecruitment handles PUT /communities/:communityId request.
func (h *Handler) UpdateRecruitment(c *gin.Context) {
	userID, ok := auth.RequireUserID(c)
	if !ok {
		return
	}
	communityID, ok := response.IDParam(c, "communityId")
	if !ok {
		return
	}

	var req model.UpdateRecruitmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	resp, err := h.service.UpdateRecruitment(c.Request.Context(), communityID, userID, &req)
	if err != nil {
		h.handleError(c, err, "update recruitment failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"community": resp})
}

// EndRecruitment handles POST /communities/:communityId/end request.
func (h *Handler) EndRecruitment(c *gin.Context) {
	userID, ok := auth.RequireUserID(c)
	if !ok {
		return
	}
	communityID, ok := response.IDParam(c, "communityId")
	if !ok {
		return
	}

	resp, err := h.service.EndRecruitment(c.Request.Context(), communityID, userID)
	if err != nil {
		h.handleError(c, err, "end recruitment failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"community": resp})
}

// CancelRecruitment handles DELETE /communities/:communityId request.
// @Summary Cancel a recruitment and delete everything attached to it
// @Tags Communities
// @Produce json
// @Param communityId path int true "Community ID"
// @Success 200 {object} map[string]string
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse "Only leader"
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /communities/{communityId} [delete].
func (h *Handler) CancelRecruitment(c *gin.Context) {
	userID, ok := auth.RequireUserID(c)
	if !ok {
		return
	}
	communityID, ok := response.IDParam(c, "communityId")
	if !ok {
		return
	}

	if err := h.service.CancelRecruitment(c.Request.Context(), communityID, userID); err != nil {
		h.handleError(c, err, "cancel recruitment failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "recruitment cancelled"})
}

func (h *Handler) handleError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, model.ErrCommunityNotFound):
		response.NotFound(c, "community not found")
	case errors.Is(err, model.ErrPostNotFound):
		response.NotFound(c, "recruitment post not found")
	case errors.Is(err, userModel.ErrUserNotFound):
		response.NotFound(c, "user not found")
	case errors.Is(err, model.ErrTeardownIncomplete):
		response.NotFound(c, model.ErrTeardownIncomplete.Error())
	case errors.Is(err, membershipModel.ErrNotLeader):
		response.Forbidden(c, "only leader")
	case errors.Is(err, membershipModel.ErrNotMember):
		response.Forbidden(c, "not a team member")
	case errors.Is(err, model.ErrInvalidTitle), errors.Is(err, model.ErrInvalidCapacity):
		response.BadRequest(c, err.Error())
	case errors.Is(err, model.ErrNotRecruiting):
		response.Error(c, http.StatusBadRequest, response.CodeNotRecruiting, "not recruiting")
	case errors.Is(err, model.ErrNotEnoughMembers):
		response.Error(c, http.StatusBadRequest, response.CodeNotEnoughMembers, err.Error())
	case errors.Is(err, model.ErrCapacityTooLow):
		response.Error(c, http.StatusConflict, response.CodeCapacityTooLow, err.Error())
	default:
		response.Internal(c, h.logger, msg, err)
	}
}
