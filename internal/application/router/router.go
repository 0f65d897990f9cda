// Package router provides application module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/bookclub/internal/application/handler"
	"github.com/festy23/bookclub/internal/application/repository"
	"github.com/festy23/bookclub/internal/application/service"
	"github.com/festy23/bookclub/internal/metrics"
)

// RegisterRoutes registers application module routes. Every route requires
// an authenticated caller.
func RegisterRoutes(
	r gin.IRouter,
	db *gorm.DB,
	recorder metrics.Recorder,
	requireAuth gin.HandlerFunc,
	logger *zap.SugaredLogger,
) {
	repo := repository.New(db, logger)
	svc := service.New(repo, db, recorder, logger)
	h := handler.New(svc, logger)

	communities := r.Group("/communities/:communityId", requireAuth)
	communities.POST("/apply", h.Apply)
	communities.GET("/applicants", h.ListApplicants)
	communities.PUT("/applicants/:userId", h.UpdateStatus)

	applications := r.Group("/applications", requireAuth)
	applications.GET("/me", h.ListMine)
	applications.DELETE("/:applicationId", h.Cancel)
}
