// Package repository provides data access layer for team posts and comments.
package repository

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/bookclub/internal/teampost/model"
)

// Repository defines the interface for team content data access operations.
type Repository interface {
	// CreatePost inserts a team post.
	CreatePost(ctx context.Context, post *model.TeamPost) error

	// GetPost finds a post that belongs to the team.
	GetPost(ctx context.Context, teamID, postID int64) (*model.TeamPost, error)

	// GetPostView finds a post view that belongs to the team.
	GetPostView(ctx context.Context, teamID, postID int64) (*model.PostView, error)

	// ListPosts returns the team's posts, newest first.
	ListPosts(ctx context.Context, teamID int64) ([]model.PostView, error)

	// UpdatePost applies column updates to a post.
	UpdatePost(ctx context.Context, postID int64, fields map[string]interface{}) error

	// DeletePost removes a post and its comments.
	DeletePost(ctx context.Context, postID int64) error

	// CreateComment inserts a comment.
	CreateComment(ctx context.Context, comment *model.TeamComment) error

	// GetComment finds a comment that belongs to the post.
	GetComment(ctx context.Context, postID, commentID int64) (*model.TeamComment, error)

	// ListComments returns the post's comments, oldest first.
	ListComments(ctx context.Context, postID int64) ([]model.CommentView, error)

	// UpdateComment replaces a comment's content.
	UpdateComment(ctx context.Context, commentID int64, content string) error

	// DeleteComment removes a comment.
	DeleteComment(ctx context.Context, commentID int64) error

	// DeleteCommentsByTeam removes every comment under the team's posts.
	DeleteCommentsByTeam(ctx context.Context, teamID int64) (int64, error)

	// DeleteByTeam removes every post of the team. Comments must be gone first.
	DeleteByTeam(ctx context.Context, teamID int64) (int64, error)
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new team content repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{db: db, logger: logger}
}

// CreatePost inserts a team post.
func (r *repository) CreatePost(ctx context.Context, post *model.TeamPost) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		r.logger.Errorw("CreatePost database error", "team_id", post.TeamID, "error", err)
		return err
	}
	return nil
}

// GetPost finds a post that belongs to the team.
func (r *repository) GetPost(ctx context.Context, teamID, postID int64) (*model.TeamPost, error) {
	var post model.TeamPost
	err := r.db.WithContext(ctx).
		Where("id = ? AND team_id = ?", postID, teamID).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrPostNotFound
		}
		r.logger.Errorw("GetPost database error", "team_id", teamID, "post_id", postID, "error", err)
		return nil, err
	}
	return &post, nil
}

func (r *repository) postViews(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("team_posts").
		Select(`team_posts.id,
			team_posts.team_id,
			team_posts.user_id,
			users.nickname AS author_nickname,
			team_posts.title,
			team_posts.content,
			(SELECT COUNT(*) FROM team_comments WHERE team_comments.team_post_id = team_posts.id) AS comment_count,
			team_posts.created_at,
			team_posts.updated_at`).
		Joins("JOIN users ON users.id = team_posts.user_id")
}

// GetPostView finds a post view that belongs to the team.
func (r *repository) GetPostView(ctx context.Context, teamID, postID int64) (*model.PostView, error) {
	var views []model.PostView
	err := r.postViews(ctx).
		Where("team_posts.id = ? AND team_posts.team_id = ?", postID, teamID).
		Limit(1).
		Scan(&views).Error
	if err != nil {
		r.logger.Errorw("GetPostView database error", "team_id", teamID, "post_id", postID, "error", err)
		return nil, err
	}
	if len(views) == 0 {
		return nil, model.ErrPostNotFound
	}
	return &views[0], nil
}

// ListPosts returns the team's posts, newest first.
func (r *repository) ListPosts(ctx context.Context, teamID int64) ([]model.PostView, error) {
	views := make([]model.PostView, 0)
	err := r.postViews(ctx).
		Where("team_posts.team_id = ?", teamID).
		Order("team_posts.created_at DESC, team_posts.id DESC").
		Scan(&views).Error
	if err != nil {
		r.logger.Errorw("ListPosts database error", "team_id", teamID, "error", err)
		return nil, err
	}
	return views, nil
}

// UpdatePost applies column updates to a post.
func (r *repository) UpdatePost(ctx context.Context, postID int64, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now().UTC()
	result := r.db.WithContext(ctx).
		Model(&model.TeamPost{}).
		Where("id = ?", postID).
		Updates(fields)
	if result.Error != nil {
		r.logger.Errorw("UpdatePost database error", "post_id", postID, "error", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.ErrPostNotFound
	}
	return nil
}

// DeletePost removes a post and its comments.
func (r *repository) DeletePost(ctx context.Context, postID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_post_id = ?", postID).Delete(&model.TeamComment{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", postID).Delete(&model.TeamPost{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return model.ErrPostNotFound
		}
		return nil
	})
}

// CreateComment inserts a comment.
func (r *repository) CreateComment(ctx context.Context, comment *model.TeamComment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		r.logger.Errorw("CreateComment database error", "post_id", comment.TeamPostID, "error", err)
		return err
	}
	return nil
}

// GetComment finds a comment that belongs to the post.
func (r *repository) GetComment(ctx context.Context, postID, commentID int64) (*model.TeamComment, error) {
	var comment model.TeamComment
	err := r.db.WithContext(ctx).
		Where("id = ? AND team_post_id = ?", commentID, postID).
		First(&comment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrCommentNotFound
		}
		r.logger.Errorw("GetComment database error", "post_id", postID, "comment_id", commentID, "error", err)
		return nil, err
	}
	return &comment, nil
}

// ListComments returns the post's comments, oldest first.
func (r *repository) ListComments(ctx context.Context, postID int64) ([]model.CommentView, error) {
	views := make([]model.CommentView, 0)
	err := r.db.WithContext(ctx).
		Table("team_comments").
		Select(`team_comments.id,
			team_comments.team_post_id,
			team_comments.user_id,
			users.nickname AS author_nickname,
			team_comments.content,
			team_comments.created_at,
			team_comments.updated_at`).
		Joins("JOIN users ON users.id = team_comments.user_id").
		Where("team_comments.team_post_id = ?", postID).
		Order("team_comments.created_at ASC, team_comments.id ASC").
		Scan(&views).Error
	if err != nil {
		r.logger.Errorw("ListComments database error", "post_id", postID, "error", err)
		return nil, err
	}
	return views, nil
}

// UpdateComment replaces a comment's content.
func (r *repository) UpdateComment(ctx context.Context, commentID int64, content string) error {
	result := r.db.WithContext(ctx).
		Model(&model.TeamComment{}).
		Where("id = ?", commentID).
		Updates(map[string]interface{}{"content": content, "updated_at": time.Now().UTC()})
	if result.Error != nil {
		r.logger.Errorw("UpdateComment database error", "comment_id", commentID, "error", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.ErrCommentNotFound
	}
	return nil
}

// DeleteComment removes a comment.
func (r *repository) DeleteComment(ctx context.Context, commentID int64) error {
	result := r.db.WithContext(ctx).Where("id = ?", commentID).Delete(&model.TeamComment{})
	if result.Error != nil {
		r.logger.Errorw("DeleteComment database error", "comment_id", commentID, "error", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.ErrCommentNotFound
	}
	return nil
}

// DeleteCommentsByTeam removes every comment under the team's posts.
func (r *repository) DeleteCommentsByTeam(ctx context.Context, teamID int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("team_post_id IN (?)", r.db.Model(&model.TeamPost{}).Select("id").Where("team_id = ?", teamID)).
		Delete(&model.TeamComment{})
	if result.Error != nil {
		r.logger.Errorw("DeleteCommentsByTeam database error", "team_id", teamID, "error", result.Error)
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DeleteByTeam removes every post of the team.
func (r *repository) DeleteByTeam(ctx context.Context, teamID int64) (int64, error) {
	result := r.db.WithContext(ctx).Where("team_id = ?", teamID).Delete(&model.TeamPost{})
	if result.Error != nil {
		r.logger.Errorw("DeleteByTeam database error", "team_id", teamID, "error", result.Error)
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
