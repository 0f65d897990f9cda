// Package repository provides data access layer for statistics module.
package repository

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/bookclub/internal/statistics/model"
)

// Repository defines the interface for statistics data access operations.
type Repository interface {
	// GetCommunityFill returns seat usage for every community, fullest first.
	GetCommunityFill(ctx context.Context) ([]model.CommunityFill, error)

	// GetStatusCounts counts communities and applications by status.
	GetStatusCounts(ctx context.Context) (*model.StatusCounts, error)
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new statistics repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{
		db:     db,
		logger: logger,
	}
}

// GetCommunityFill returns seat usage for every community.
func (r *repository) GetCommunityFill(ctx context.Context) ([]model.CommunityFill, error) {
	r.logger.Debugw("GetCommunityFill called")

	var rows []model.CommunityFill

	err := r.db.WithContext(ctx).
		Table("teams").
		Select(`
			teams.id AS community_id,
			teams.title,
			teams.status,
			COALESCE(member_counts.member_count, 0) AS member_count,
			COALESCE(posts.max_members, 0) AS max_members
		`).
		Joins("JOIN posts ON posts.id = teams.post_id").
		Joins(`
			LEFT JOIN (
				SELECT team_id, COUNT(*) AS member_count
				FROM team_members
				GROUP BY team_id
			) member_counts ON member_counts.team_id = teams.id
		`).
		Order("member_count DESC, teams.id ASC").
		Scan(&rows).Error

	if err != nil {
		r.logger.Errorw("GetCommunityFill database error", "error", err)
		return nil, err
	}

	if rows == nil {
		rows = []model.CommunityFill{}
	}
	for i := range rows {
		if rows[i].MaxMembers > 0 {
			rows[i].Fill = float64(rows[i].MemberCount) / float64(rows[i].MaxMembers)
		}
	}

	r.logger.Debugw("GetCommunityFill completed", "count", len(rows))
	return rows, nil
}

// GetStatusCounts counts communities and applications by status.
func (r *repository) GetStatusCounts(ctx context.Context) (*model.StatusCounts, error) {
	r.logger.Debugw("GetStatusCounts called")

	var teams struct {
		Total      int64 `gorm:"column:total"`
		Recruiting int64 `gorm:"column:recruiting"`
		Active     int64 `gorm:"column:active"`
	}
	err := r.db.WithContext(ctx).
		Table("teams").
		Select(`
			COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN status = 'RECRUITING' THEN 1 ELSE 0 END), 0) AS recruiting,
			COALESCE(SUM(CASE WHEN status = 'ACTIVE' THEN 1 ELSE 0 END), 0) AS active
		`).
		Scan(&teams).Error
	if err != nil {
		r.logger.Errorw("GetStatusCounts teams database error", "error", err)
		return nil, err
	}

	var apps struct {
		Total    int64 `gorm:"column:total"`
		Pending  int64 `gorm:"column:pending"`
		Accepted int64 `gorm:"column:accepted"`
		Rejected int64 `gorm:"column:rejected"`
	}
	err = r.db.WithContext(ctx).
		Table("team_applications").
		Select(`
			COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN status = 'PENDING' THEN 1 ELSE 0 END), 0) AS pending,
			COALESCE(SUM(CASE WHEN status = 'ACCEPTED' THEN 1 ELSE 0 END), 0) AS accepted,
			COALESCE(SUM(CASE WHEN status = 'REJECTED' THEN 1 ELSE 0 END), 0) AS rejected
		`).
		Scan(&apps).Error
	if err != nil {
		r.logger.Errorw("GetStatusCounts applications database error", "error", err)
		return nil, err
	}

	return &model.StatusCounts{
		TotalCommunities:      teams.Total,
		RecruitingCommunities: teams.Recruiting,
		ActiveCommunities:     teams.Active,
		TotalApplications:     apps.Total,
		PendingApplications:   apps.Pending,
		AcceptedApplications:  apps.Accepted,
		RejectedApplications:  apps.Rejected,
	}, nil
}
