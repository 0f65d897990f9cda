// Package service provides business logic for communities: starting a
// recruitment, editing or ending it, and tearing it down.
package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	applicationRepository "github.com/festy23/bookclub/internal/application/repository"
	"github.com/festy23/bookclub/internal/community/model"
	"github.com/festy23/bookclub/internal/community/repository"
	"github.com/festy23/bookclub/internal/membership/guard"
	membershipModel "github.com/festy23/bookclub/internal/membership/model"
	membershipRepository "github.com/festy23/bookclub/internal/membership/repository"
	"github.com/festy23/bookclub/internal/metrics"
	teampostRepository "github.com/festy23/bookclub/internal/teampost/repository"
	userRepository "github.com/festy23/bookclub/internal/user/repository"
)

const maxTitleLength = 200

// Service defines the interface for community business logic operations.
type Service interface {
	// CreateCommunity creates a recruitment post, its team and the leader
	// membership in one transaction.
	CreateCommunity(
		ctx context.Context,
		userID int64,
		req *model.CreateCommunityRequest,
	) (*model.CreateCommunityResponse, error)

	// GetCommunity returns a community with its member count.
	GetCommunity(ctx context.Context, communityID int64) (*model.CommunityResponse, error)

	// ListCommunities returns communities, newest first, optionally filtered by status.
	ListCommunities(ctx context.Context, status *model.TeamStatus) ([]model.CommunityResponse, error)

	// ListMembers returns the roster; members only.
	ListMembers(ctx context.Context, communityID, userID int64) ([]membershipModel.MemberView, error)

	// UpdateRecruitment edits title, content or capacity; leader only.
	UpdateRecruitment(
		ctx context.Context,
		communityID, userID int64,
		req *model.UpdateRecruitmentRequest,
	) (*model.CommunityResponse, error)

	// EndRecruitment moves a recruiting team with at least two members to ACTIVE; leader only.
	EndRecruitment(ctx context.Context, communityID, userID int64) (*model.CommunityResponse, error)

	// CancelRecruitment tears the community down; leader only.
	CancelRecruitment(ctx context.Context, communityID, userID int64) error
}

// stores groups the repositories a transaction works with.
type stores struct {
	communities  repository.Repository
	members      membershipRepository.Repository
	guard        guard.Guard
	applications applicationRepository.Repository
	content      teampostRepository.Repository
}

type service struct {
	repo     repository.Repository
	users    userRepository.Repository
	db       *gorm.DB
	recorder metrics.Recorder
	logger   *zap.SugaredLogger
	storesOf func(tx *gorm.DB) stores
}

// New creates a new community service instance.
func New(
	repo repository.Repository,
	users userRepository.Repository,
	db *gorm.DB,
	recorder metrics.Recorder,
	logger *zap.SugaredLogger,
) Service {
	s := &service{
		repo:     repo,
		users:    users,
		db:       db,
		recorder: recorder,
		logger:   logger,
	}
	s.storesOf = s.defaultStores
	return s
}

func (s *service) defaultStores(tx *gorm.DB) stores {
	members := membershipRepository.New(tx, s.logger)
	return stores{
		communities:  repository.New(tx, s.logger),
		members:      members,
		guard:        guard.New(members, s.logger),
		applications: applicationRepository.New(tx, s.logger),
		content:      teampostRepository.New(tx, s.logger),
	}
}

// CreateCommunity creates a recruitment post, its team and the leader membership.
func (s *service) CreateCommunity(
	ctx context.Context,
	userID int64,
	req *model.CreateCommunityRequest,
) (*model.CreateCommunityResponse, error) {
	s.logger.Debugw("CreateCommunity called", "user_id", userID, "max_members", req.MaxMembers)

	title := strings.TrimSpace(req.Title)
	if title == "" || len(title) > maxTitleLength {
		return nil, model.ErrInvalidTitle
	}
	if req.MaxMembers < 1 {
		return nil, model.ErrInvalidCapacity
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var resp *model.CreateCommunityResponse
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		st := s.storesOf(tx)
		now := time.Now().UTC()
		maxMembers := req.MaxMembers
		recruiting := model.RecruitmentOpen

		post := &model.Post{
			UserID:            userID,
			Type:              model.PostTypeRecruitment,
			Title:             title,
			Content:           req.Content,
			ISBN:              strings.TrimSpace(req.ISBN),
			MaxMembers:        &maxMembers,
			RecruitmentStatus: &recruiting,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if err := st.communities.CreatePost(ctx, post); err != nil {
			return err
		}

		team := &model.Team{
			PostID:         post.ID,
			Status:         model.TeamRecruiting,
			Title:          post.Title,
			Content:        post.Content,
			ISBN:           post.ISBN,
			LeaderNickname: user.Nickname,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := st.communities.CreateTeam(ctx, team); err != nil {
			return err
		}

		if _, err := st.members.Add(ctx, team.ID, userID, membershipModel.RoleLeader); err != nil {
			return err
		}

		// a capacity of one is reached by the leader alone
		if post.IsFull(1) {
			if err := st.communities.CloseRecruitment(ctx, team); err != nil {
				return err
			}
		}

		resp = &model.CreateCommunityResponse{CommunityID: team.ID, PostID: post.ID}
		return nil
	})
	if err != nil {
		s.logger.Errorw("CreateCommunity failed", "user_id", userID, "error", err)
		return nil, err
	}

	s.logger.Infow("CreateCommunity completed", "user_id", userID, "community_id", resp.CommunityID)
	return resp, nil
}

// GetCommunity returns a community with its member count.
func (s *service) GetCommunity(ctx context.Context, communityID int64) (*model.CommunityResponse, error) {
	row, err := s.repo.GetDetail(ctx, communityID)
	if err != nil {
		return nil, err
	}
	resp := row.ToResponse()
	return &resp, nil
}

// ListCommunities returns communities, newest first.
func (s *service) ListCommunities(ctx context.Context, status *model.TeamStatus) ([]model.CommunityResponse, error) {
	rows, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, err
	}

	out := make([]model.CommunityResponse, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToResponse())
	}
	return out, nil
}

// ListMembers returns the roster; members only.
func (s *service) ListMembers(ctx context.Context, communityID, userID int64) ([]membershipModel.MemberView, error) {
	st := s.storesOf(s.db)

	if _, err := st.communities.GetTeam(ctx, communityID); err != nil {
		return nil, err
	}
	if _, err := st.guard.RequireMember(ctx, userID, communityID); err != nil {
		return nil, err
	}

	return st.members.ListByTeam(ctx, communityID)
}

// UpdateRecruitment edits title, content or capacity; leader only.
func (s *service) UpdateRecruitment(
	ctx context.Context,
	communityID, userID int64,
	req *model.UpdateRecruitmentRequest,
) (*model.CommunityResponse, error) {
	s.logger.Debugw("UpdateRecruitment called", "community_id", communityID, "user_id", userID)

	postFields := map[string]interface{}{}
	teamFields := map[string]interface{}{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" || len(title) > maxTitleLength {
			return nil, model.ErrInvalidTitle
		}
		postFields["title"] = title
		teamFields["title"] = title
	}
	if req.Content != nil {
		postFields["content"] = *req.Content
		teamFields["content"] = *req.Content
	}
	if req.MaxMembers != nil {
		if *req.MaxMembers < 1 {
			return nil, model.ErrInvalidCapacity
		}
		postFields["max_members"] = *req.MaxMembers
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		st := s.storesOf(tx)

		team, err := st.communities.GetTeamForUpdate(ctx, communityID)
		if err != nil {
			return err
		}
		if err := st.guard.RequireLeader(ctx, userID, team.ID); err != nil {
			return err
		}
		if !team.IsRecruiting() {
			return model.ErrNotRecruiting
		}
		if len(postFields) == 0 {
			return nil
		}

		count, err := st.members.CountByTeam(ctx, team.ID)
		if err != nil {
			return err
		}
		if req.MaxMembers != nil && int64(*req.MaxMembers) < count {
			return model.ErrCapacityTooLow
		}

		if err := st.communities.UpdatePostFields(ctx, team.PostID, postFields); err != nil {
			return err
		}
		if len(teamFields) > 0 {
			if err := st.communities.UpdateTeamFields(ctx, team.ID, teamFields); err != nil {
				return err
			}
		}

		if req.MaxMembers != nil && int64(*req.MaxMembers) == count {
			return st.communities.CloseRecruitment(ctx, team)
		}
		return nil
	})
	if err != nil {
		s.logger.Debugw("UpdateRecruitment rejected", "community_id", communityID, "error", err)
		return nil, err
	}

	s.logger.Infow("UpdateRecruitment completed", "community_id", communityID)
	return s.GetCommunity(ctx, communityID)
}

// EndRecruitment moves a recruiting team with at least two members to ACTIVE.
func (s *service) EndRecruitment(ctx context.Context, communityID, userID int64) (*model.CommunityResponse, error) {
	s.logger.Debugw("EndRecruitment called", "community_id", communityID, "user_id", userID)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		st := s.storesOf(tx)

		team, err := st.communities.GetTeamForUpdate(ctx, communityID)
		if err != nil {
			return err
		}
		if err := st.guard.RequireLeader(ctx, userID, team.ID); err != nil {
			return err
		}
		if !team.IsRecruiting() {
			return model.ErrNotRecruiting
		}

		count, err := st.members.CountByTeam(ctx, team.ID)
		if err != nil {
			return err
		}
		if count < 2 {
			return model.ErrNotEnoughMembers
		}

		return st.communities.CloseRecruitment(ctx, team)
	})
	if err != nil {
		s.logger.Debugw("EndRecruitment rejected", "community_id", communityID, "error", err)
		return nil, err
	}

	s.logger.Infow("EndRecruitment completed", "community_id", communityID)
	return s.GetCommunity(ctx, communityID)
}
