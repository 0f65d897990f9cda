// Package router provides community module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/bookclub/internal/community/handler"
	"github.com/festy23/bookclub/internal/community/repository"
	"github.com/festy23/bookclub/internal/community/service"
	"github.com/festy23/bookclub/internal/metrics"
	userRepository "github.com/festy23/bookclub/internal/user/repository"
)

// RegisterRoutes registers community module routes.
func RegisterRoutes(
	r gin.IRouter,
	db *gorm.DB,
	recorder metrics.Recorder,
	requireAuth gin.HandlerFunc,
	logger *zap.SugaredLogger,
) {
	repo := repository.New(db, logger)
	svc := service.New(repo, userRepository.New(db, logger), db, recorder, logger)
	h := handler.New(svc, logger)

	communities := r.Group("/communities")
	communities.GET("", h.ListCommunities)
	communities.GET("/:communityId", h.GetCommunity)

	authed := communities.Group("", requireAuth)
	authed.POST("", h.CreateCommunity)
	authed.GET("/:communityId/members", h.ListMembers)
	authed.PUT("/:communityId", h.UpdateRecruitment)
	authed.POST("/:communityId/end", h.EndRecruitment)
	authed.DELETE("/:communityId", h.CancelRecruitment)
}
