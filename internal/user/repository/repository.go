// Package repository provides data access layer for user module.
package repository

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/bookclub/internal/database/database"
	"github.com/festy23/bookclub/internal/user/model"
)

// Repository defines the interface for user data access operations.
type Repository interface {
	// Create inserts a new account.
	Create(ctx context.Context, user *model.User) error

	// GetByID finds user by id.
	GetByID(ctx context.Context, userID int64) (*model.User, error)

	// GetByEmail finds user by email.
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// ExistsByEmail reports whether an account uses the email.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// ExistsByNickname reports whether an account uses the nickname.
	ExistsByNickname(ctx context.Context, nickname string) (bool, error)
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new user repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{db: db, logger: logger}
}

// Create inserts a new account.
func (r *repository) Create(ctx context.Context, user *model.User) error {
	r.logger.Debugw("Create called", "email", user.Email, "nickname", user.Nickname)

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if database.IsDuplicateError(err) {
			return duplicateCause(err)
		}
		r.logger.Errorw("Create database error", "email", user.Email, "error", err)
		return err
	}

	return nil
}

func duplicateCause(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "email"):
		return model.ErrEmailTaken
	case strings.Contains(msg, "nickname"):
		return model.ErrNicknameTaken
	default:
		return model.ErrUserExists
	}
}

// GetByID finds user by id.
func (r *repository) GetByID(ctx context.Context, userID int64) (*model.User, error) {
	r.logger.Debugw("GetByID called", "user_id", userID)

	var user model.User
	err := r.db.WithContext(ctx).
		Where("id = ?", userID).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.logger.Debugw("GetByID user not found", "user_id", userID)
			return nil, model.ErrUserNotFound
		}
		r.logger.Errorw("GetByID database error", "user_id", userID, "error", err)
		return nil, err
	}

	return &user, nil
}

// GetByEmail finds user by email.
func (r *repository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrUserNotFound
		}
		r.logger.Errorw("GetByEmail database error", "error", err)
		return nil, err
	}

	return &user, nil
}

// ExistsByEmail reports whether an account uses the email.
func (r *repository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", email)
}

// ExistsByNickname reports whether an account uses the nickname.
func (r *repository) ExistsByNickname(ctx context.Context, nickname string) (bool, error) {
	return r.exists(ctx, "nickname = ?", nickname)
}

func (r *repository) exists(ctx context.Context, query string, arg string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where(query, arg).
		Count(&count).Error
	if err != nil {
		r.logger.Errorw("exists database error", "query", query, "error", err)
		return false, err
	}
	return count > 0, nil
}
