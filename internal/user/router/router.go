// Package router provides user module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/bookclub/internal/user/handler"
	"github.com/festy23/bookclub/internal/user/repository"
	"github.com/festy23/bookclub/internal/user/service"
)

// RegisterRoutes registers user module routes.
func RegisterRoutes(
	r gin.IRouter,
	db *gorm.DB,
	tokens service.TokenIssuer,
	requireAuth gin.HandlerFunc,
	logger *zap.SugaredLogger,
) {
	repo := repository.New(db, logger)
	svc := service.New(repo, tokens, logger)
	h := handler.New(svc, logger)

	users := r.Group("/users")
	users.POST("/signup", h.Signup)
	users.POST("/login", h.Login)
	users.GET("/me", requireAuth, h.Me)
}
