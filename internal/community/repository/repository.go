// Package repository provides data access layer for communities and their
// recruitment posts.
package repository

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/bookclub/internal/community/model"
	"github.com/festy23/bookclub/internal/database/database"
)

// Repository defines the interface for community data access operations.
type Repository interface {
	// CreatePost inserts a post.
	CreatePost(ctx context.Context, post *model.Post) error

	// CreateTeam inserts a team paired with an existing post.
	CreateTeam(ctx context.Context, team *model.Team) error

	// GetTeam finds a team by id.
	GetTeam(ctx context.Context, teamID int64) (*model.Team, error)

	// GetTeamForUpdate finds a team by id and locks the row until the
	// surrounding transaction ends.
	GetTeamForUpdate(ctx context.Context, teamID int64) (*model.Team, error)

	// TeamExists reports whether the team row is present.
	TeamExists(ctx context.Context, teamID int64) (bool, error)

	// GetPost finds a post by id.
	GetPost(ctx context.Context, postID int64) (*model.Post, error)

	// GetDetail returns the team joined with its post and member count.
	GetDetail(ctx context.Context, teamID int64) (*model.CommunityRow, error)

	// List returns teams joined with their posts, newest first.
	List(ctx context.Context, status *model.TeamStatus) ([]model.CommunityRow, error)

	// UpdateTeamStatus sets the team status.
	UpdateTeamStatus(ctx context.Context, teamID int64, status model.TeamStatus) error

	// UpdateRecruitmentStatus sets the post recruitment status.
	UpdateRecruitmentStatus(ctx context.Context, postID int64, status model.RecruitmentStatus) error

	// CloseRecruitment moves the team to ACTIVE and its post to CLOSED.
	CloseRecruitment(ctx context.Context, team *model.Team) error

	// UpdatePostFields applies column updates to the post.
	UpdatePostFields(ctx context.Context, postID int64, fields map[string]interface{}) error

	// UpdateTeamFields applies column updates to the team.
	UpdateTeamFields(ctx context.Context, teamID int64, fields map[string]interface{}) error

	// DeletePost removes the post row.
	DeletePost(ctx context.Context, postID int64) (int64, error)

	// DeleteTeam removes the team row.
	DeleteTeam(ctx context.Context, teamID int64) (int64, error)
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new community repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{db: db, logger: logger}
}

// CreatePost inserts a post.
func (r *repository) CreatePost(ctx context.Context, post *model.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		r.logger.Errorw("CreatePost database error", "user_id", post.UserID, "error", err)
		return err
	}
	return nil
}

// CreateTeam inserts a team paired with an existing post.
func (r *repository) CreateTeam(ctx context.Context, team *model.Team) error {
	if err := r.db.WithContext(ctx).Create(team).Error; err != nil {
		r.logger.Errorw("CreateTeam database error", "post_id", team.PostID, "error", err)
		return err
	}
	return nil
}

// GetTeam finds a team by id.
func (r *repository) GetTeam(ctx context.Context, teamID int64) (*model.Team, error) {
	return r.getTeam(r.db.WithContext(ctx), teamID)
}

// GetTeamForUpdate finds a team by id and locks the row.
func (r *repository) GetTeamForUpdate(ctx context.Context, teamID int64) (*model.Team, error) {
	return r.getTeam(database.ForUpdate(r.db.WithContext(ctx)), teamID)
}

func (r *repository) getTeam(db *gorm.DB, teamID int64) (*model.Team, error) {
	var team model.Team
	err := db.Where("id = ?", teamID).First(&team).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.logger.Debugw("team not found", "team_id", teamID)
			return nil, model.ErrCommunityNotFound
		}
		r.logger.Errorw("getTeam database error", "team_id", teamID, "error", err)
		return nil, err
	}
	return &team, nil
}

// TeamExists reports whether the team row is present.
func (r *repository) TeamExists(ctx context.Context, teamID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Team{}).
		Where("id = ?", teamID).
		Count(&count).Error
	if err != nil {
		r.logger.Errorw("TeamExists database error", "team_id", teamID, "error", err)
		return false, err
	}
	return count > 0, nil
}

// GetPost finds a post by id.
func (r *repository) GetPost(ctx context.Context, postID int64) (*model.Post, error) {
	var post model.Post
	err := r.db.WithContext(ctx).Where("id = ?", postID).First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrPostNotFound
		}
		r.logger.Errorw("GetPost database error", "post_id", postID, "error", err)
		return nil, err
	}
	return &post, nil
}

func (r *repository) detailQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("teams").
		Select(`teams.*,
			posts.user_id AS leader_id,
			posts.max_members,
			posts.recruitment_status,
			(SELECT COUNT(*) FROM team_members WHERE team_members.team_id = teams.id) AS member_count`).
		Joins("JOIN posts ON posts.id = teams.post_id")
}

// GetDetail returns the team joined with its post and member count.
func (r *repository) GetDetail(ctx context.Context, teamID int64) (*model.CommunityRow, error) {
	var rows []model.CommunityRow
	err := r.detailQuery(ctx).
		Where("teams.id = ?", teamID).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		r.logger.Errorw("GetDetail database error", "team_id", teamID, "error", err)
		return nil, err
	}
	if len(rows) == 0 {
		return nil, model.ErrCommunityNotFound
	}
	return &rows[0], nil
}

// List returns teams joined with their posts, newest first.
func (r *repository) List(ctx context.Context, status *model.TeamStatus) ([]model.CommunityRow, error) {
	q := r.detailQuery(ctx)
	if status != nil {
		q = q.Where("teams.status = ?", *status)
	}

	rows := make([]model.CommunityRow, 0)
	err := q.Order("teams.created_at DESC, teams.id DESC").Scan(&rows).Error
	if err != nil {
		r.logger.Errorw("List database error", "error", err)
		return nil, err
	}
	return rows, nil
}

// UpdateTeamStatus sets the team status.
func (r *repository) UpdateTeamStatus(ctx context.Context, teamID int64, status model.TeamStatus) error {
	return r.UpdateTeamFields(ctx, teamID, map[string]interface{}{"status": status})
}

// UpdateRecruitmentStatus sets the post recruitment status.
func (r *repository) UpdateRecruitmentStatus(ctx context.Context, postID int64, status model.RecruitmentStatus) error {
	return r.UpdatePostFields(ctx, postID, map[string]interface{}{"recruitment_status": status})
}

// CloseRecruitment moves the team to ACTIVE and its post to CLOSED.
func (r *repository) CloseRecruitment(ctx context.Context, team *model.Team) error {
	if err := r.UpdateTeamStatus(ctx, team.ID, model.TeamActive); err != nil {
		return err
	}
	if err := r.UpdateRecruitmentStatus(ctx, team.PostID, model.RecruitmentClosed); err != nil {
		return err
	}
	team.Status = model.TeamActive
	return nil
}

// UpdatePostFields applies column updates to the post.
func (r *repository) UpdatePostFields(ctx context.Context, postID int64, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now().UTC()
	result := r.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("id = ?", postID).
		Updates(fields)
	if result.Error != nil {
		r.logger.Errorw("UpdatePostFields database error", "post_id", postID, "error", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.ErrPostNotFound
	}
	return nil
}

// UpdateTeamFields applies column updates to the team.
func (r *repository) UpdateTeamFields(ctx context.Context, teamID int64, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now().UTC()
	result := r.db.WithContext(ctx).
		Model(&model.Team{}).
		Where("id = ?", teamID).
		Updates(fields)
	if result.Error != nil {
		r.logger.Errorw("UpdateTeamFields database error", "team_id", teamID, "error", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.ErrCommunityNotFound
	}
	return nil
}

// DeletePost removes the post row.
func (r *repository) DeletePost(ctx context.Context, postID int64) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", postID).Delete(&model.Post{})
	if result.Error != nil {
		r.logger.Errorw("DeletePost database error", "post_id", postID, "error", result.Error)
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DeleteTeam removes the team row.
func (r *repository) DeleteTeam(ctx context.Context, teamID int64) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", teamID).Delete(&model.Team{})
	if result.Error != nil {
		r.logger.Errorw("DeleteTeam database error", "team_id", teamID, "error", result.Error)
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
