// Package handler provides HTTP handlers for join-application endpoints.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/bookclub/internal/application/model"
	"github.com/festy23/bookclub/internal/application/service"
	"github.com/festy23/bookclub/internal/auth"
	communityModel "github.com/festy23/bookclub/internal/community/model"
	membershipModel "github.com/festy23/bookclub/internal/membership/model"
	"github.com/festy23/bookclub/internal/response"
)

// Handler handles HTTP requests for application endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new application handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Apply handles POST /communities/:communityId/apply request.
// @Summary Apply to join a community
// @Tags Applications
// @Accept json
// @Produce json
// @Param communityId path int true "Community ID"
// @Param request body model.ApplyRequest false "Request"
// @Success 201 {object} model.Application
// @Failure 400 {object} response.ErrorResponse "Not recruiting"
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse "Already applied, already member or full"
// @Router /communities/{communityId}/apply [post].
func (h *Handler) Apply(c *gin.Context) {
	userID, ok := auth.RequireUserID(c)
	if !ok {
		return
	}
	communityID, ok := response.IDParam(c, "communityId")
	if !ok {
		return
	}

	var req model.ApplyRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "invalid request body")
			return
		}
	}

	app, err := h.service.CreateApplication(c.Request.Context(), communityID, userID, req.ApplicationMessage)
	if err != nil {
		h.handleError(c, err, "create application failed")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"application": app})
}

// ListApplicants handles GET /communities/:communityId/applicants request.
func (h *Handler) ListApplicants(c *gin.Context) {
	userID, ok := auth.RequireUserID(c)
	if !ok {
		return
	}
	communityID, ok := response.IDParam(c, "communityId")
	if !ok {
		return
	}

	applicants, err := h.service.FindApplicants(c.Request.Context(), communityID, userID)
	if err != nil {
		h.handleError(c, err, "list applicants failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"applicants": applicants})
}

// UpdateStatus handles PUT /communities/:communityId/applicants/:userId request.
// @Summary Accept or reject an applicant
// @Tags Applications
// @Accept json
// @Produce json
// @Param communityId path int true "Community ID"
// @Param userId path int true "Applicant user ID"
// @Param request body model.UpdateStatusRequest true "accepted or rejected"
// @Success 200 {object} model.DecisionResponse
// @Failure 400 {object} response.ErrorResponse "Invalid status or already processed"
// @Failure 403 {object} response.ErrorResponse "Only leader"
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse "Already member or full"
// @Router /communities/{communityId}/applicants/{userId} [put].
func (h *Handler) UpdateStatus(c *gin.Context) {
	userID, ok := auth.RequireUserID(c)
	if !ok {
		return
	}
	communityID, ok := response.IDParam(c, "communityId")
	if !ok {
		return
	}
	applicantID, ok := response.IDParam(c, "userId")
	if !ok {
		return
	}

	var req model.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	decision, err := model.ParseDecision(req.Status)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.UpdateApplicationStatus(c.Request.Context(), communityID, applicantID, decision, userID)
	if err != nil {
		h.handleError(c, err, "update application status failed")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Cancel handles DELETE /applications/:applicationId request.
func (h *Handler) Cancel(c *gin.Context) {
	userID, ok := auth.RequireUserID(c)
	if !ok {
		return
	}
	applicationID, ok := response.IDParam(c, "applicationId")
	if !ok {
		return
	}

	if err := h.service.CancelApplication(c.Request.Context(), applicationID, userID); err != nil {
		h.handleError(c, err, "cancel application failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "application cancelled"})
}

// ListMine handles GET /applications/me request.
func (h *Handler) ListMine(c *gin.Context) {
	userID, ok := auth.RequireUserID(c)
	if !ok {
		return
	}

	apps, err := h.service.ListMyApplications(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err, "list my applications failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"applications": apps})
}

func (h *Handler) handleError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, communityModel.ErrCommunityNotFound):
		response.NotFound(c, "community not found")
	case errors.Is(err, communityModel.ErrPostNotFound):
		response.NotFound(c, "recruitment post not found")
	case errors.Is(err, model.ErrApplicationNotFound):
		response.NotFound(c, "application not found")
	case errors.Is(err, communityModel.ErrNotRecruiting):
		response.Error(c, http.StatusBadRequest, response.CodeNotRecruiting, "not recruiting")
	case errors.Is(err, model.ErrAlreadyProcessed):
		response.Error(c, http.StatusBadRequest, response.CodeAlreadyProcessed, "already processed")
	case errors.Is(err, model.ErrNotPending):
		response.Error(c, http.StatusBadRequest, response.CodeNotPending, err.Error())
	case errors.Is(err, model.ErrInvalidDecision), errors.Is(err, model.ErrMessageTooLong):
		response.BadRequest(c, err.Error())
	case errors.Is(err, membershipModel.ErrNotLeader):
		response.Forbidden(c, "only leader")
	case errors.Is(err, model.ErrNotOwner):
		response.Forbidden(c, "only own")
	case errors.Is(err, model.ErrAlreadyApplied):
		response.Error(c, http.StatusConflict, response.CodeAlreadyApplied, "already applied")
	case errors.Is(err, membershipModel.ErrAlreadyMember):
		response.Error(c, http.StatusConflict, response.CodeAlreadyMember, "already a member")
	case errors.Is(err, model.ErrCommunityFull):
		response.Error(c, http.StatusConflict, response.CodeCommunityFull, "full")
	default:
		response.Internal(c, h.logger, msg, err)
	}
}
