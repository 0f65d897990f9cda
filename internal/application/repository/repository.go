// Package repository provides data access layer for team applications.
package repository

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/bookclub/internal/application/model"
	"github.com/festy23/bookclub/internal/database/database"
)

// Repository defines the interface for application data access operations.
type Repository interface {
	// Create inserts a PENDING application. A second application for the
	// same user and post fails with model.ErrAlreadyApplied.
	Create(ctx context.Context, userID, postID int64, message string) (*model.Application, error)

	// GetByID finds an application by id.
	GetByID(ctx context.Context, applicationID int64) (*model.Application, error)

	// GetByUserAndPost finds the application keyed by user and post.
	GetByUserAndPost(ctx context.Context, userID, postID int64) (*model.Application, error)

	// ListByPost returns applications joined with nicknames, oldest first.
	ListByPost(ctx context.Context, postID int64) ([]model.ApplicantView, error)

	// ListByUser returns the user's applications with their communities, newest first.
	ListByUser(ctx context.Context, userID int64) ([]model.MyApplicationView, error)

	// Decide moves a PENDING application to status. It fails with
	// model.ErrAlreadyProcessed when the row is no longer pending.
	Decide(ctx context.Context, applicationID int64, status model.Status, processedAt time.Time) error

	// DeletePending removes the application only while it is PENDING.
	DeletePending(ctx context.Context, applicationID int64) (int64, error)

	// DeleteByPost removes every application for the post.
	DeleteByPost(ctx context.Context, postID int64) (int64, error)
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new application repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{db: db, logger: logger}
}

// Create inserts a PENDING application.
func (r *repository) Create(ctx context.Context, userID, postID int64, message string) (*model.Application, error) {
	app := &model.Application{
		UserID:    userID,
		PostID:    postID,
		Status:    model.StatusPending,
		Message:   message,
		AppliedAt: time.Now().UTC(),
	}

	if err := r.db.WithContext(ctx).Create(app).Error; err != nil {
		if database.IsDuplicateError(err) {
			r.logger.Debugw("Create duplicate application", "user_id", userID, "post_id", postID)
			return nil, model.ErrAlreadyApplied
		}
		r.logger.Errorw("Create database error", "user_id", userID, "post_id", postID, "error", err)
		return nil, err
	}

	return app, nil
}

// GetByID finds an application by id.
func (r *repository) GetByID(ctx context.Context, applicationID int64) (*model.Application, error) {
	return r.first(ctx, "id = ?", applicationID)
}

// GetByUserAndPost finds the application keyed by user and post.
func (r *repository) GetByUserAndPost(ctx context.Context, userID, postID int64) (*model.Application, error) {
	return r.first(ctx, "user_id = ? AND post_id = ?", userID, postID)
}

func (r *repository) first(ctx context.Context, query string, args ...interface{}) (*model.Application, error) {
	var app model.Application
	err := r.db.WithContext(ctx).Where(query, args...).First(&app).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrApplicationNotFound
		}
		r.logger.Errorw("application lookup database error", "query", query, "error", err)
		return nil, err
	}
	return &app, nil
}

// ListByPost returns applications joined with nicknames, oldest first.
func (r *repository) ListByPost(ctx context.Context, postID int64) ([]model.ApplicantView, error) {
	applicants := make([]model.ApplicantView, 0)
	err := r.db.WithContext(ctx).
		Table("team_applications").
		Select(`team_applications.id AS application_id,
			team_applications.user_id,
			users.nickname,
			team_applications.status,
			team_applications.message,
			team_applications.applied_at,
			team_applications.processed_at`).
		Joins("JOIN users ON users.id = team_applications.user_id").
		Where("team_applications.post_id = ?", postID).
		Order("team_applications.applied_at ASC, team_applications.id ASC").
		Scan(&applicants).Error
	if err != nil {
		r.logger.Errorw("ListByPost database error", "post_id", postID, "error", err)
		return nil, err
	}
	return applicants, nil
}

// ListByUser returns the user's applications with their communities, newest first.
func (r *repository) ListByUser(ctx context.Context, userID int64) ([]model.MyApplicationView, error) {
	apps := make([]model.MyApplicationView, 0)
	err := r.db.WithContext(ctx).
		Table("team_applications").
		Select(`team_applications.id AS application_id,
			teams.id AS community_id,
			teams.title AS community_title,
			team_applications.status,
			team_applications.message,
			team_applications.applied_at,
			team_applications.processed_at`).
		Joins("JOIN teams ON teams.post_id = team_applications.post_id").
		Where("team_applications.user_id = ?", userID).
		Order("team_applications.applied_at DESC, team_applications.id DESC").
		Scan(&apps).Error
	if err != nil {
		r.logger.Errorw("ListByUser database error", "user_id", userID, "error", err)
		return nil, err
	}
	return apps, nil
}

// Decide moves a PENDING application to status.
func (r *repository) Decide(ctx context.Context, applicationID int64, status model.Status, processedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&model.Application{}).
		Where("id = ? AND status = ?", applicationID, model.StatusPending).
		Updates(map[string]interface{}{
			"status":       status,
			"processed_at": processedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("Decide database error", "application_id", applicationID, "error", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.ErrAlreadyProcessed
	}
	return nil
}

// DeletePending removes the application only while it is PENDING.
func (r *repository) DeletePending(ctx context.Context, applicationID int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", applicationID, model.StatusPending).
		Delete(&model.Application{})
	if result.Error != nil {
		r.logger.Errorw("DeletePending database error", "application_id", applicationID, "error", result.Error)
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DeleteByPost removes every application for the post.
func (r *repository) DeleteByPost(ctx context.Context, postID int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Delete(&model.Application{})
	if result.Error != nil {
		r.logger.Errorw("DeleteByPost database error", "post_id", postID, "error", result.Error)
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
