// Package service implements the join-application lifecycle: applying,
// the leader's decision, and self-cancellation.
package service

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/bookclub/internal/application/model"
	"github.com/festy23/bookclub/internal/application/repository"
	communityModel "github.com/festy23/bookclub/internal/community/model"
	communityRepository "github.com/festy23/bookclub/internal/community/repository"
	"github.com/festy23/bookclub/internal/membership/guard"
	membershipModel "github.com/festy23/bookclub/internal/membership/model"
	membershipRepository "github.com/festy23/bookclub/internal/membership/repository"
	"github.com/festy23/bookclub/internal/metrics"
)

const maxMessageLength = 1000

// Service defines the interface for application business logic operations.
type Service interface {
	// CreateApplication submits a PENDING application to a recruiting community.
	CreateApplication(ctx context.Context, communityID, userID int64, message string) (*model.Application, error)

	// FindApplicants lists the community's applications, oldest first; leader only.
	FindApplicants(ctx context.Context, communityID, userID int64) ([]model.ApplicantView, error)

	// UpdateApplicationStatus accepts or rejects the applicant's pending
	// application; leader only.
	UpdateApplicationStatus(
		ctx context.Context,
		communityID, applicantID int64,
		decision model.Decision,
		userID int64,
	) (*model.DecisionResponse, error)

	// CancelApplication deletes the caller's own pending application.
	CancelApplication(ctx context.Context, applicationID, userID int64) error

	// ListMyApplications returns the caller's applications, newest first.
	ListMyApplications(ctx context.Context, userID int64) ([]model.MyApplicationView, error)
}

type stores struct {
	applications repository.Repository
	communities  communityRepository.Repository
	members      membershipRepository.Repository
	guard        guard.Guard
}

type service struct {
	repo     repository.Repository
	db       *gorm.DB
	recorder metrics.Recorder
	logger   *zap.SugaredLogger
	storesOf func(tx *gorm.DB) stores
}

// New creates a new application service instance.
func New(repo repository.Repository, db *gorm.DB, recorder metrics.Recorder, logger *zap.SugaredLogger) Service {
	s := &service{
		repo:     repo,
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
		applications: repository.New(tx, s.logger),
		communities:  communityRepository.New(tx, s.logger),
		members:      members,
		guard:        guard.New(members, s.logger),
	}
}

// CreateApplication submits a PENDING application. The team row stays locked
// until commit so a concurrent teardown or accept cannot interleave.
func (s *service) CreateApplication(
	ctx context.Context,
	communityID, userID int64,
	message string,
) (*model.Application, error) {
	s.logger.Debugw("CreateApplication called", "community_id", communityID, "user_id", userID)

	if utf8.RuneCountInString(message) > maxMessageLength {
		return nil, model.ErrMessageTooLong
	}

	var app *model.Application
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		st := s.storesOf(tx)

		team, err := st.communities.GetTeamForUpdate(ctx, communityID)
		if err != nil {
			return err
		}
		if !team.IsRecruiting() {
			return communityModel.ErrNotRecruiting
		}

		isMember, err := st.guard.IsMember(ctx, userID, team.ID)
		if err != nil {
			return err
		}
		if isMember {
			return membershipModel.ErrAlreadyMember
		}

		if _, err := st.applications.GetByUserAndPost(ctx, userID, team.PostID); err == nil {
			return model.ErrAlreadyApplied
		} else if !errors.Is(err, model.ErrApplicationNotFound) {
			return err
		}

		post, err := st.communities.GetPost(ctx, team.PostID)
		if err != nil {
			return err
		}
		if !post.IsRecruitment() {
			return communityModel.ErrPostNotFound
		}

		count, err := st.members.CountByTeam(ctx, team.ID)
		if err != nil {
			return err
		}
		if post.IsFull(count) {
			return model.ErrCommunityFull
		}

		app, err = st.applications.Create(ctx, userID, team.PostID, message)
		return err
	})
	if err != nil {
		s.logger.Debugw("CreateApplication rejected", "community_id", communityID, "user_id", userID, "error", err)
		return nil, err
	}

	s.recorder.ApplicationEvent(metrics.ActionApplied)
	s.logger.Infow("CreateApplication completed",
		"community_id", communityID,
		"user_id", userID,
		"application_id", app.ID,
	)
	return app, nil
}

// FindApplicants lists the community's applications; leader only.
func (s *service) FindApplicants(ctx context.Context, communityID, userID int64) ([]model.ApplicantView, error) {
	st := s.storesOf(s.db)

	team, err := st.communities.GetTeam(ctx, communityID)
	if err != nil {
		return nil, err
	}
	if err := st.guard.RequireLeader(ctx, userID, team.ID); err != nil {
		return nil, err
	}

	return s.repo.ListByPost(ctx, team.PostID)
}

// UpdateApplicationStatus persists the leader's decision. Acceptance
// re-checks capacity under the team row lock, seats the applicant and closes
// recruitment once the team is full.
func (s *service) UpdateApplicationStatus(
	ctx context.Context,
	communityID, applicantID int64,
	decision model.Decision,
	userID int64,
) (*model.DecisionResponse, error) {
	s.logger.Debugw("UpdateApplicationStatus called",
		"community_id", communityID,
		"applicant_id", applicantID,
		"decision", decision,
		"user_id", userID,
	)

	var resp *model.DecisionResponse
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		st := s.storesOf(tx)

		team, err := st.communities.GetTeamForUpdate(ctx, communityID)
		if err != nil {
			return err
		}
		if err := st.guard.RequireLeader(ctx, userID, team.ID); err != nil {
			return err
		}

		app, err := st.applications.GetByUserAndPost(ctx, applicantID, team.PostID)
		if err != nil {
			return err
		}
		if !app.IsPending() {
			return model.ErrAlreadyProcessed
		}

		var post *communityModel.Post
		var count int64
		if decision == model.DecisionAccept {
			isMember, err := st.guard.IsMember(ctx, applicantID, team.ID)
			if err != nil {
				return err
			}
			if isMember {
				return membershipModel.ErrAlreadyMember
			}

			post, err = st.communities.GetPost(ctx, team.PostID)
			if err != nil {
				return err
			}
			count, err = st.members.CountByTeam(ctx, team.ID)
			if err != nil {
				return err
			}
			if post.IsFull(count) {
				return model.ErrCommunityFull
			}
		}

		processedAt := time.Now().UTC()
		if err := st.applications.Decide(ctx, app.ID, decision.Status(), processedAt); err != nil {
			return err
		}
		app.Status = decision.Status()
		app.ProcessedAt = &processedAt

		resp = &model.DecisionResponse{Application: app, CommunityID: team.ID}
		if decision != model.DecisionAccept {
			resp.MemberCount, err = st.members.CountByTeam(ctx, team.ID)
			return err
		}

		if _, err := st.members.Add(ctx, team.ID, applicantID, membershipModel.RoleMember); err != nil {
			return err
		}
		count++
		resp.MemberCount = count

		if post.IsFull(count) {
			resp.CommunityFull = true
			if team.IsRecruiting() {
				return st.communities.CloseRecruitment(ctx, team)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Debugw("UpdateApplicationStatus rejected",
			"community_id", communityID,
			"applicant_id", applicantID,
			"error", err,
		)
		return nil, err
	}

	if decision == model.DecisionAccept {
		s.recorder.ApplicationEvent(metrics.ActionAccepted)
	} else {
		s.recorder.ApplicationEvent(metrics.ActionRejected)
	}
	s.logger.Infow("UpdateApplicationStatus completed",
		"community_id", communityID,
		"applicant_id", applicantID,
		"status", resp.Application.Status,
		"member_count", resp.MemberCount,
		"community_full", resp.CommunityFull,
	)
	return resp, nil
}

// CancelApplication deletes the caller's own pending application. The delete
// is conditional on PENDING, so a lost race reports not found.
func (s *service) CancelApplication(ctx context.Context, applicationID, userID int64) error {
	s.logger.Debugw("CancelApplication called", "application_id", applicationID, "user_id", userID)

	app, err := s.repo.GetByID(ctx, applicationID)
	if err != nil {
		return err
	}
	if app.UserID != userID {
		return model.ErrNotOwner
	}
	if !app.IsPending() {
		return model.ErrNotPending
	}

	n, err := s.repo.DeletePending(ctx, applicationID)
	if err != nil {
		s.logger.Errorw("CancelApplication failed", "application_id", applicationID, "error", err)
		return err
	}
	if n == 0 {
		return model.ErrApplicationNotFound
	}

	s.recorder.ApplicationEvent(metrics.ActionCancelled)
	s.logger.Infow("CancelApplication completed", "application_id", applicationID, "user_id", userID)
	return nil
}

// ListMyApplications returns the caller's applications, newest first.
func (s *service) ListMyApplications(ctx context.Context, userID int64) ([]model.MyApplicationView, error) {
	return s.repo.ListByUser(ctx, userID)
}
