// Package router provides team content routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	communityRepository "github.com/festy23/bookclub/internal/community/repository"
	"github.com/festy23/bookclub/internal/membership/guard"
	membershipRepository "github.com/festy23/bookclub/internal/membership/repository"
	"github.com/festy23/bookclub/internal/teampost/handler"
	"github.com/festy23/bookclub/internal/teampost/repository"
	"github.com/festy23/bookclub/internal/teampost/service"
)

// RegisterRoutes registers team post and comment routes. Every route
// requires an authenticated member.
func RegisterRoutes(r gin.IRouter, db *gorm.DB, requireAuth gin.HandlerFunc, logger *zap.SugaredLogger) {
	g := guard.New(membershipRepository.New(db, logger), logger)
	svc := service.New(repository.New(db, logger), communityRepository.New(db, logger), g, logger)
	h := handler.New(svc, logger)

	posts := r.Group("/communities/:communityId/posts", requireAuth)
	posts.POST("", h.CreatePost)
	posts.GET("", h.ListPosts)
	posts.GET("/:postId", h.GetPost)
	posts.PUT("/:postId", h.UpdatePost)
	posts.DELETE("/:postId", h.DeletePost)
	posts.POST("/:postId/comments", h.CreateComment)
	posts.GET("/:postId/comments", h.ListComments)
	posts.PUT("/:postId/comments/:commentId", h.UpdateComment)
	posts.DELETE("/:postId/comments/:commentId", h.DeleteComment)
}
