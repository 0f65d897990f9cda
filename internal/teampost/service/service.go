// Package service provides team-scoped posts and comments. Every operation
// passes the membership guard before touching content.
package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	communityRepository "github.com/festy23/bookclub/internal/community/repository"
	"github.com/festy23/bookclub/internal/membership/guard"
	"github.com/festy23/bookclub/internal/teampost/model"
	"github.com/festy23/bookclub/internal/teampost/repository"
)

// Service defines the interface for team content operations.
type Service interface {
	CreatePost(ctx context.Context, teamID, userID int64, req *model.CreatePostRequest) (*model.PostView, error)
	ListPosts(ctx context.Context, teamID, userID int64) ([]model.PostView, error)
	GetPost(ctx context.Context, teamID, postID, userID int64) (*model.PostView, error)
	UpdatePost(ctx context.Context, teamID, postID, userID int64, req *model.UpdatePostRequest) (*model.PostView, error)
	DeletePost(ctx context.Context, teamID, postID, userID int64) error

	CreateComment(ctx context.Context, teamID, postID, userID int64, req *model.CommentRequest) (*model.TeamComment, error)
	ListComments(ctx context.Context, teamID, postID, userID int64) ([]model.CommentView, error)
	UpdateComment(
		ctx context.Context,
		teamID, postID, commentID, userID int64,
		req *model.CommentRequest,
	) (*model.TeamComment, error)
	DeleteComment(ctx context.Context, teamID, postID, commentID, userID int64) error
}

type service struct {
	repo   repository.Repository
	teams  communityRepository.Repository
	guard  guard.Guard
	logger *zap.SugaredLogger
}

// New creates a new team content service instance.
func New(
	repo repository.Repository,
	teams communityRepository.Repository,
	g guard.Guard,
	logger *zap.SugaredLogger,
) Service {
	return &service{repo: repo, teams: teams, guard: g, logger: logger}
}

// requireMember checks that the team exists and userID belongs to it.
func (s *service) requireMember(ctx context.Context, teamID, userID int64) error {
	if _, err := s.teams.GetTeam(ctx, teamID); err != nil {
		return err
	}
	_, err := s.guard.RequireMember(ctx, userID, teamID)
	return err
}

// editablePost loads a post of the team that userID may modify.
func (s *service) editablePost(ctx context.Context, teamID, postID, userID int64) (*model.TeamPost, error) {
	if err := s.requireMember(ctx, teamID, userID); err != nil {
		return nil, err
	}
	post, err := s.repo.GetPost(ctx, teamID, postID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.RequireAuthorOrLeader(ctx, userID, teamID, post.UserID); err != nil {
		return nil, err
	}
	return post, nil
}

// CreatePost writes a post as userID.
func (s *service) CreatePost(
	ctx context.Context,
	teamID, userID int64,
	req *model.CreatePostRequest,
) (*model.PostView, error) {
	s.logger.Debugw("CreatePost called", "team_id", teamID, "user_id", userID)

	if err := s.requireMember(ctx, teamID, userID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	post := &model.TeamPost{
		TeamID:    teamID,
		UserID:    userID,
		Title:     strings.TrimSpace(req.Title),
		Content:   req.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if post.Title == "" {
		return nil, model.ErrEmptyTitle
	}
	if err := s.repo.CreatePost(ctx, post); err != nil {
		return nil, err
	}

	s.logger.Infow("CreatePost completed", "team_id", teamID, "post_id", post.ID)
	return s.repo.GetPostView(ctx, teamID, post.ID)
}

// ListPosts returns the team's posts, newest first.
func (s *service) ListPosts(ctx context.Context, teamID, userID int64) ([]model.PostView, error) {
	if err := s.requireMember(ctx, teamID, userID); err != nil {
		return nil, err
	}
	return s.repo.ListPosts(ctx, teamID)
}

// GetPost returns one post of the team.
func (s *service) GetPost(ctx context.Context, teamID, postID, userID int64) (*model.PostView, error) {
	if err := s.requireMember(ctx, teamID, userID); err != nil {
		return nil, err
	}
	return s.repo.GetPostView(ctx, teamID, postID)
}

// UpdatePost edits title or content; author or leader only.
func (s *service) UpdatePost(
	ctx context.Context,
	teamID, postID, userID int64,
	req *model.UpdatePostRequest,
) (*model.PostView, error) {
	fields := map[string]interface{}{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, model.ErrEmptyTitle
		}
		fields["title"] = title
	}
	if req.Content != nil {
		fields["content"] = *req.Content
	}
	if len(fields) == 0 {
		return nil, model.ErrEmptyUpdate
	}

	post, err := s.editablePost(ctx, teamID, postID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdatePost(ctx, post.ID, fields); err != nil {
		return nil, err
	}

	s.logger.Infow("UpdatePost completed", "team_id", teamID, "post_id", postID, "user_id", userID)
	return s.repo.GetPostView(ctx, teamID, postID)
}

// DeletePost removes a post and its comments; author or leader only.
func (s *service) DeletePost(ctx context.Context, teamID, postID, userID int64) error {
	post, err := s.editablePost(ctx, teamID, postID, userID)
	if err != nil {
		return err
	}
	if err := s.repo.DeletePost(ctx, post.ID); err != nil {
		s.logger.Errorw("DeletePost failed", "team_id", teamID, "post_id", postID, "error", err)
		return err
	}

	s.logger.Infow("DeletePost completed", "team_id", teamID, "post_id", postID, "user_id", userID)
	return nil
}

// CreateComment comments on a post of the team.
func (s *service) CreateComment(
	ctx context.Context,
	teamID, postID, userID int64,
	req *model.CommentRequest,
) (*model.TeamComment, error) {
	if err := s.requireMember(ctx, teamID, userID); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetPost(ctx, teamID, postID); err != nil {
		return nil, err
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, model.ErrEmptyComment
	}

	now := time.Now().UTC()
	comment := &model.TeamComment{
		TeamPostID: postID,
		UserID:     userID,
		Content:    content,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	s.logger.Infow("CreateComment completed", "team_id", teamID, "post_id", postID, "comment_id", comment.ID)
	return comment, nil
}

// ListComments returns the post's comments, oldest first.
func (s *service) ListComments(ctx context.Context, teamID, postID, userID int64) ([]model.CommentView, error) {
	if err := s.requireMember(ctx, teamID, userID); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetPost(ctx, teamID, postID); err != nil {
		return nil, err
	}
	return s.repo.ListComments(ctx, postID)
}

// editableComment loads a comment of the team's post that userID may modify.
func (s *service) editableComment(
	ctx context.Context,
	teamID, postID, commentID, userID int64,
) (*model.TeamComment, error) {
	if err := s.requireMember(ctx, teamID, userID); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetPost(ctx, teamID, postID); err != nil {
		return nil, err
	}
	comment, err := s.repo.GetComment(ctx, postID, commentID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.RequireAuthorOrLeader(ctx, userID, teamID, comment.UserID); err != nil {
		return nil, err
	}
	return comment, nil
}

// UpdateComment replaces a comment's content; author or leader only.
func (s *service) UpdateComment(
	ctx context.Context,
	teamID, postID, commentID, userID int64,
	req *model.CommentRequest,
) (*model.TeamComment, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, model.ErrEmptyComment
	}

	comment, err := s.editableComment(ctx, teamID, postID, commentID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateComment(ctx, comment.ID, content); err != nil {
		return nil, err
	}

	s.logger.Infow("UpdateComment completed", "comment_id", commentID, "user_id", userID)
	return s.repo.GetComment(ctx, postID, commentID)
}

// DeleteComment removes a comment; author or leader only.
func (s *service) DeleteComment(ctx context.Context, teamID, postID, commentID, userID int64) error {
	comment, err := s.editableComment(ctx, teamID, postID, commentID, userID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteComment(ctx, comment.ID); err != nil {
		return err
	}

	s.logger.Infow("DeleteComment completed", "comment_id", commentID, "user_id", userID)
	return nil
}
