package main

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	applicationRouter "github.com/festy23/bookclub/internal/application/router"
	"github.com/festy23/bookclub/internal/auth"
	"github.com/festy23/bookclub/internal/chat/hub"
	chatRouter "github.com/festy23/bookclub/internal/chat/router"
	communityRouter "github.com/festy23/bookclub/internal/community/router"
	"github.com/festy23/bookclub/internal/config"
	"github.com/festy23/bookclub/internal/health"
	"github.com/festy23/bookclub/internal/metrics"
	"github.com/festy23/bookclub/internal/middleware"
	statisticsRouter "github.com/festy23/bookclub/internal/statistics/router"
	teampostRouter "github.com/festy23/bookclub/internal/teampost/router"
	userRouter "github.com/festy23/bookclub/internal/user/router"
)

// deps are the long-lived collaborators shared by every module.
type deps struct {
	db      *gorm.DB
	tokens  *auth.TokenManager
	metrics *metrics.Metrics
	chat    *hub.Hub
	logger  *zap.SugaredLogger
}

// newEngine builds the gin engine with the middleware chain and every
// module's routes.
func newEngine(cfg config.Config, d deps) *gin.Engine {
	gin.SetMode(cfg.GinMode)

	r := gin.New()
	r.Use(middleware.Recovery(d.logger))
	r.Use(d.metrics.Middleware())
	r.Use(auth.OptionalMiddleware(d.tokens))
	r.Use(middleware.Logger(d.logger))
	if cfg.RateLimit.Enabled {
		r.Use(middleware.NewRateLimiter(cfg.RateLimit, d.logger).Handler())
	}

	requireAuth := auth.Middleware(d.tokens, d.logger)

	r.GET("/health", health.New(d.db, d.chat, d.logger).Check)
	r.GET("/metrics", d.metrics.Handler())

	userRouter.RegisterRoutes(r, d.db, d.tokens, requireAuth, d.logger)
	communityRouter.RegisterRoutes(r, d.db, d.metrics, requireAuth, d.logger)
	applicationRouter.RegisterRoutes(r, d.db, d.metrics, requireAuth, d.logger)
	teampostRouter.RegisterRoutes(r, d.db, requireAuth, d.logger)
	chatRouter.RegisterRoutes(r, d.db, d.chat, requireAuth, d.logger)
	statisticsRouter.RegisterRoutes(r, d.db, d.logger)

	return r
}
