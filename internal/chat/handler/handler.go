// Package handler upgrades team members to the chat websocket.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/festy23/bookclub/internal/auth"
	"github.com/festy23/bookclub/internal/chat/hub"
	communityModel "github.com/festy23/bookclub/internal/community/model"
	communityRepository "github.com/festy23/bookclub/internal/community/repository"
	"github.com/festy23/bookclub/internal/membership/guard"
	membershipModel "github.com/festy23/bookclub/internal/membership/model"
	"github.com/festy23/bookclub/internal/response"
	userRepository "github.com/festy23/bookclub/internal/user/repository"
)

// Handler serves GET /communities/:communityId/chat.
type Handler struct {
	hub      *hub.Hub
	teams    communityRepository.Repository
	guard    guard.Guard
	users    userRepository.Repository
	upgrader websocket.Upgrader
	logger   *zap.SugaredLogger
}

// New creates a chat handler.
func New(
	h *hub.Hub,
	teams communityRepository.Repository,
	g guard.Guard,
	users userRepository.Repository,
	logger *zap.SugaredLogger,
) *Handler {
	return &Handler{
		hub:   h,
		teams: teams,
		guard: g,
		users: users,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// callers authenticate with a token, not cookies
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Connect checks membership, then upgrades the request and joins the team's room.
func (h *Handler) Connect(c *gin.Context) {
	userID, ok := auth.RequireUserID(c)
	if !ok {
		return
	}
	teamID, ok := response.IDParam(c, "communityId")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if _, err := h.teams.GetTeam(ctx, teamID); err != nil {
		h.handleError(c, err)
		return
	}
	if _, err := h.guard.RequireMember(ctx, userID, teamID); err != nil {
		h.handleError(c, err)
		return
	}
	user, err := h.users.GetByID(ctx, userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// the upgrader has already written the error response
		h.logger.Debugw("chat upgrade failed", "team_id", teamID, "user_id", userID, "error", err)
		return
	}

	h.hub.Attach(conn, teamID, userID, user.Nickname)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, communityModel.ErrCommunityNotFound):
		response.NotFound(c, "community not found")
	case errors.Is(err, membershipModel.ErrNotMember):
		response.Forbidden(c, "not a team member")
	default:
		response.Internal(c, h.logger, "chat connect failed", err)
	}
}
