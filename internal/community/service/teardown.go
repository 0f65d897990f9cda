package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/festy23/bookclub/internal/community/model"
	"github.com/festy23/bookclub/internal/metrics"
)

// teardownStep is one ordered deletion of the cascade.
type teardownStep struct {
	name string
	run  func(ctx context.Context, st stores, team *model.Team) (int64, error)
}

// teardownSteps deletes children before parents. teams.post_id is a
// deferred constraint so the post may go before the team.
var teardownSteps = []teardownStep{
	{"delete team comments", func(ctx context.Context, st stores, team *model.Team) (int64, error) {
		return st.content.DeleteCommentsByTeam(ctx, team.ID)
	}},
	{"delete team posts", func(ctx context.Context, st stores, team *model.Team) (int64, error) {
		return st.content.DeleteByTeam(ctx, team.ID)
	}},
	{"delete team members", func(ctx context.Context, st stores, team *model.Team) (int64, error) {
		return st.members.DeleteByTeam(ctx, team.ID)
	}},
	{"delete applications", func(ctx context.Context, st stores, team *model.Team) (int64, error) {
		return st.applications.DeleteByPost(ctx, team.PostID)
	}},
	{"delete recruitment post", func(ctx context.Context, st stores, team *model.Team) (int64, error) {
		return st.communities.DeletePost(ctx, team.PostID)
	}},
	{"delete team", func(ctx context.Context, st stores, team *model.Team) (int64, error) {
		return st.communities.DeleteTeam(ctx, team.ID)
	}},
}

// CancelRecruitment runs the whole cascade in one transaction holding the
// team row lock, then re-reads the team row before committing. Any failure
// rolls every step back.
func (s *service) CancelRecruitment(ctx context.Context, communityID, userID int64) error {
	s.logger.Debugw("CancelRecruitment called", "community_id", communityID, "user_id", userID)

	var preconditionErr bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		st := s.storesOf(tx)

		team, err := st.communities.GetTeamForUpdate(ctx, communityID)
		if err != nil {
			preconditionErr = true
			return err
		}
		if err := st.guard.RequireLeader(ctx, userID, team.ID); err != nil {
			preconditionErr = true
			return err
		}

		for i, step := range teardownSteps {
			n, err := step.run(ctx, st, team)
			if err != nil {
				return fmt.Errorf("teardown step %d (%s): %w", i+1, step.name, err)
			}
			s.logger.Debugw("teardown step completed",
				"community_id", team.ID,
				"step", step.name,
				"rows", n,
			)
		}

		exists, err := st.communities.TeamExists(ctx, team.ID)
		if err != nil {
			return fmt.Errorf("teardown postcondition: %w", err)
		}
		if exists {
			return model.ErrTeardownIncomplete
		}
		return nil
	})

	switch {
	case err == nil:
		s.recorder.TeardownEvent(metrics.TeardownSucceeded)
		s.logger.Infow("CancelRecruitment completed", "community_id", communityID, "user_id", userID)
		return nil
	case preconditionErr:
		s.logger.Debugw("CancelRecruitment rejected", "community_id", communityID, "user_id", userID, "error", err)
		return err
	case errors.Is(err, model.ErrTeardownIncomplete):
		s.recorder.TeardownEvent(metrics.TeardownIncomplete)
		s.logger.Errorw("CancelRecruitment left the community in place", "community_id", communityID)
		return err
	default:
		s.recorder.TeardownEvent(metrics.TeardownFailed)
		s.logger.Errorw("CancelRecruitment failed", "community_id", communityID, "error", err)
		return err
	}
}
