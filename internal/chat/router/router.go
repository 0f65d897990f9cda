// Package router provides chat route registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/bookclub/internal/chat/handler"
	"github.com/festy23/bookclub/internal/chat/hub"
	communityRepository "github.com/festy23/bookclub/internal/community/repository"
	"github.com/festy23/bookclub/internal/membership/guard"
	membershipRepository "github.com/festy23/bookclub/internal/membership/repository"
	userRepository "github.com/festy23/bookclub/internal/user/repository"
)

// RegisterRoutes registers the chat websocket route on the given hub.
func RegisterRoutes(
	r gin.IRouter,
	db *gorm.DB,
	h *hub.Hub,
	requireAuth gin.HandlerFunc,
	logger *zap.SugaredLogger,
) {
	g := guard.New(membershipRepository.New(db, logger), logger)
	chat := handler.New(h, communityRepository.New(db, logger), g, userRepository.New(db, logger), logger)

	r.GET("/communities/:communityId/chat", requireAuth, chat.Connect)
}
