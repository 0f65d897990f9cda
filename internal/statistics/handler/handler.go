// Package handler provides HTTP handlers for statistics endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/bookclub/internal/response"
	"github.com/festy23/bookclub/internal/statistics/service"
)

// Handler handles HTTP requests for statistics endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new statistics handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// GetRecruitmentStatistics handles GET /statistics/recruitment request.
// @Summary Get recruitment statistics
// @Tags Statistics
// @Produce json
// @Success 200 {object} model.RecruitmentStatisticsResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /statistics/recruitment [get] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) GetRecruitmentStatistics(c *gin.Context) {
	resp, err := h.service.GetRecruitmentStatistics(c.Request.Context())
	if err != nil {
		response.Internal(c, h.logger, "error getting recruitment statistics", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetCommunitiesStatistics handles GET /statistics/communities request.
// @Summary Get seat usage per community
// @Tags Statistics
// @Produce json
// @Success 200 {object} model.CommunitiesStatisticsResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /statistics/communities [get] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) GetCommunitiesStatistics(c *gin.Context) {
	resp, err := h.service.GetCommunitiesStatistics(c.Request.Context())
	if err != nil {
		response.Internal(c, h.logger, "error getting communities statistics", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
