// Package repository provides data access layer for team membership.
package repository

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/bookclub/internal/database/database"
	"github.com/festy23/bookclub/internal/membership/model"
)

// Repository defines the interface for membership data access operations.
type Repository interface {
	// Add inserts a membership row. A second row for the same user and team
	// fails with model.ErrAlreadyMember.
	Add(ctx context.Context, teamID, userID int64, role model.Role) (*model.TeamMember, error)

	// Get finds the membership keyed by user and team.
	Get(ctx context.Context, userID, teamID int64) (*model.TeamMember, error)

	// CountByTeam returns the current number of members including the leader.
	CountByTeam(ctx context.Context, teamID int64) (int64, error)

	// ListByTeam returns members joined with their nicknames, leader first.
	ListByTeam(ctx context.Context, teamID int64) ([]model.MemberView, error)

	// DeleteByTeam removes every membership of the team.
	DeleteByTeam(ctx context.Context, teamID int64) (int64, error)
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new membership repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{db: db, logger: logger}
}

// Add inserts a membership row.
func (r *repository) Add(ctx context.Context, teamID, userID int64, role model.Role) (*model.TeamMember, error) {
	member := &model.TeamMember{
		TeamID:   teamID,
		UserID:   userID,
		Role:     role,
		JoinedAt: time.Now().UTC(),
	}

	if err := r.db.WithContext(ctx).Create(member).Error; err != nil {
		if database.IsDuplicateError(err) {
			r.logger.Debugw("Add duplicate membership", "team_id", teamID, "user_id", userID)
			return nil, model.ErrAlreadyMember
		}
		r.logger.Errorw("Add database error", "team_id", teamID, "user_id", userID, "error", err)
		return nil, err
	}

	return member, nil
}

// Get finds the membership keyed by user and team.
func (r *repository) Get(ctx context.Context, userID, teamID int64) (*model.TeamMember, error) {
	var member model.TeamMember
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND team_id = ?", userID, teamID).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrMemberNotFound
		}
		r.logger.Errorw("Get database error", "team_id", teamID, "user_id", userID, "error", err)
		return nil, err
	}

	return &member, nil
}

// CountByTeam returns the current number of members including the leader.
func (r *repository) CountByTeam(ctx context.Context, teamID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.TeamMember{}).
		Where("team_id = ?", teamID).
		Count(&count).Error
	if err != nil {
		r.logger.Errorw("CountByTeam database error", "team_id", teamID, "error", err)
		return 0, err
	}
	return count, nil
}

// ListByTeam returns members joined with their nicknames, leader first.
func (r *repository) ListByTeam(ctx context.Context, teamID int64) ([]model.MemberView, error) {
	members := make([]model.MemberView, 0)
	err := r.db.WithContext(ctx).
		Table("team_members").
		Select("team_members.user_id, users.nickname, team_members.role, team_members.joined_at").
		Joins("JOIN users ON users.id = team_members.user_id").
		Where("team_members.team_id = ?", teamID).
		Order("CASE WHEN team_members.role = 'LEADER' THEN 0 ELSE 1 END, team_members.joined_at ASC, team_members.id ASC").
		Scan(&members).Error
	if err != nil {
		r.logger.Errorw("ListByTeam database error", "team_id", teamID, "error", err)
		return nil, err
	}
	return members, nil
}

// DeleteByTeam removes every membership of the team.
func (r *repository) DeleteByTeam(ctx context.Context, teamID int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Delete(&model.TeamMember{})
	if result.Error != nil {
		r.logger.Errorw("DeleteByTeam database error", "team_id", teamID, "error", result.Error)
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
