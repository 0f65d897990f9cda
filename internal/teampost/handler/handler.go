// Package handler provides HTTP handlers for team posts and comments.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/bookclub/internal/auth"
	communityModel "github.com/festy23/bookclub/internal/community/model"
	membershipModel "github.com/festy23/bookclub/internal/membership/model"
	"github.com/festy23/bookclub/internal/response"
	"github.com/festy23/bookclub/internal/teampost/model"
	"github.com/festy23/bookclub/internal/teampost/service"
)

// Handler handles HTTP requests for team content endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new team content handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// target holds the caller and path ids shared by every endpoint.
type target struct {
	userID    int64
	teamID    int64
	postID    int64
	commentID int64
}

// parse reads the caller and the requested path ids, writing the error
// response itself when any is missing.
func parse(c *gin.Context, withPost, withComment bool) (target, bool) {
	var t target
	var ok bool
	if t.userID, ok = auth.RequireUserID(c); !ok {
		return t, false
	}
	if t.teamID, ok = response.IDParam(c, "communityId"); !ok {
		return t, false
	}
	if withPost {
		if t.postID, ok = response.IDParam(c, "postId"); !ok {
			return t, false
		}
	}
	if withComment {
		if t.commentID, ok = response.IDParam(c, "commentId"); !ok {
			return t, false
		}
	}
	return t, true
}

// CreatePost handles POST /communities/:communityId/posts request.
func (h *Handler) CreatePost(c *gin.Context) {
	t, ok := parse(c, false, false)
	if !ok {
		return
	}
	var req model.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	post, err := h.service.CreatePost(c.Request.Context(), t.teamID, t.userID, &req)
	if err != nil {
		h.handleError(c, err, "create team post failed")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"post": post})
}

// ListPosts handles GET /communities/:communityId/posts request.
func (h *Handler) ListPosts(c *gin.Context) {
	t, ok := parse(c, false, false)
	if !ok {
		return
	}

	posts, err := h.service.ListPosts(c.Request.Context(), t.teamID, t.userID)
	if err != nil {
		h.handleError(c, err, "list team posts failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// GetPost handles GET /communities/:communityId/posts/:postId request.
func (h *Handler) GetPost(c *gin.Context) {
	t, ok := parse(c, true, false)
	if !ok {
		return
	}

	post, err := h.service.GetPost(c.Request.Context(), t.teamID, t.postID, t.userID)
	if err != nil {
		h.handleError(c, err, "get team post failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

// UpdatePost handles PUT /communities/:communityId/posts/:postId request.
func (h *Handler) UpdatePost(c *gin.Context) {
	t, ok := parse(c, true, false)
	if !ok {
		return
	}
	var req model.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	post, err := h.service.UpdatePost(c.Request.Context(), t.teamID, t.postID, t.userID, &req)
	if err != nil {
		h.handleError(c, err, "update team post failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

// DeletePost handles DELETE /communities/:communityId/posts/:postId request.
func (h *Handler) DeletePost(c *gin.Context) {
	t, ok := parse(c, true, false)
	if !ok {
		return
	}

	if err := h.service.DeletePost(c.Request.Context(), t.teamID, t.postID, t.userID); err != nil {
		h.handleError(c, err, "delete team post failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "post deleted"})
}

// CreateComment handles POST /communities/:communityId/posts/:postId/comments request.
func (h *Handler) CreateComment(c *gin.Context) {
	t, ok := parse(c, true, false)
	if !ok {
		return
	}
	var req model.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	comment, err := h.service.CreateComment(c.Request.Context(), t.teamID, t.postID, t.userID, &req)
	if err != nil {
		h.handleError(c, err, "create comment failed")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

// ListComments handles GET /communities/:communityId/posts/:postId/comments request.
func (h *Handler) ListComments(c *gin.Context) {
	t, ok := parse(c, true, false)
	if !ok {
		return
	}

	comments, err := h.service.ListComments(c.Request.Context(), t.teamID, t.postID, t.userID)
	if err != nil {
		h.handleError(c, err, "list comments failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// UpdateComment handles PUT /communities/:communityId/posts/:postId/comments/:commentId request.
func (h *Handler) UpdateComment(c *gin.Context) {
	t, ok := parse(c, true, true)
	if !ok {
		return
	}
	var req model.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	comment, err := h.service.UpdateComment(c.Request.Context(), t.teamID, t.postID, t.commentID, t.userID, &req)
	if err != nil {
		h.handleError(c, err, "update comment failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"comment": comment})
}

// DeleteComment handles DELETE /communities/:communityId/posts/:postId/comments/:commentId request.
func (h *Handler) DeleteComment(c *gin.Context) {
	t, ok := parse(c, true, true)
	if !ok {
		return
	}

	if err := h.service.DeleteComment(c.Request.Context(), t.teamID, t.postID, t.commentID, t.userID); err != nil {
		h.handleError(c, err, "delete comment failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "comment deleted"})
}

func (h *Handler) handleError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, communityModel.ErrCommunityNotFound):
		response.NotFound(c, "community not found")
	case errors.Is(err, model.ErrPostNotFound):
		response.NotFound(c, "post not found")
	case errors.Is(err, model.ErrCommentNotFound):
		response.NotFound(c, "comment not found")
	case errors.Is(err, membershipModel.ErrNotMember):
		response.Forbidden(c, "not a team member")
	case errors.Is(err, membershipModel.ErrNotAuthorOrLeader):
		response.Forbidden(c, "must be author or leader")
	case errors.Is(err, model.ErrEmptyUpdate),
		errors.Is(err, model.ErrEmptyTitle),
		errors.Is(err, model.ErrEmptyComment):
		response.BadRequest(c, err.Error())
	default:
		response.Internal(c, h.logger, msg, err)
	}
}
