// Package guard implements the authorization checks shared by every
// team-scoped operation.
package guard

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/festy23/bookclub/internal/membership/model"
	"github.com/festy23/bookclub/internal/membership/repository"
)

// Guard answers membership questions with one lookup on the
// (user_id, team_id) key. Nothing is cached between calls.
type Guard interface {
	// IsMember reports whether userID holds any role in teamID.
	IsMember(ctx context.Context, userID, teamID int64) (bool, error)

	// RequireMember fails with model.ErrNotMember unless userID belongs to teamID.
	RequireMember(ctx context.Context, userID, teamID int64) (*model.TeamMember, error)

	// RequireLeader fails with model.ErrNotLeader unless userID leads teamID.
	RequireLeader(ctx context.Context, userID, teamID int64) error

	// RequireAuthorOrLeader fails with model.ErrNotMember for outsiders and
	// model.ErrNotAuthorOrLeader for members who neither wrote the content
	// nor lead the team.
	RequireAuthorOrLeader(ctx context.Context, userID, teamID, authorID int64) error
}

type guard struct {
	repo   repository.Repository
	logger *zap.SugaredLogger
}

// New creates a guard over the given membership repository.
func New(repo repository.Repository, logger *zap.SugaredLogger) Guard {
	return &guard{repo: repo, logger: logger}
}

func (g *guard) lookup(ctx context.Context, userID, teamID int64) (*model.TeamMember, error) {
	member, err := g.repo.Get(ctx, userID, teamID)
	if errors.Is(err, model.ErrMemberNotFound) {
		return nil, nil
	}
	return member, err
}

// IsMember reports whether userID holds any role in teamID.
func (g *guard) IsMember(ctx context.Context, userID, teamID int64) (bool, error) {
	member, err := g.lookup(ctx, userID, teamID)
	if err != nil {
		return false, err
	}
	return member != nil, nil
}

// RequireMember fails unless userID belongs to teamID.
func (g *guard) RequireMember(ctx context.Context, userID, teamID int64) (*model.TeamMember, error) {
	member, err := g.lookup(ctx, userID, teamID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		g.logger.Debugw("membership required", "user_id", userID, "team_id", teamID)
		return nil, model.ErrNotMember
	}
	return member, nil
}

// RequireLeader fails unless userID leads teamID.
func (g *guard) RequireLeader(ctx context.Context, userID, teamID int64) error {
	member, err := g.lookup(ctx, userID, teamID)
	if err != nil {
		return err
	}
	if member == nil || !member.IsLeader() {
		g.logger.Debugw("leader required", "user_id", userID, "team_id", teamID)
		return model.ErrNotLeader
	}
	return nil
}

// RequireAuthorOrLeader fails unless userID wrote the content or leads teamID.
func (g *guard) RequireAuthorOrLeader(ctx context.Context, userID, teamID, authorID int64) error {
	member, err := g.RequireMember(ctx, userID, teamID)
	if err != nil {
		return err
	}
	if member.UserID == authorID || member.IsLeader() {
		return nil
	}
	g.logger.Debugw("author or leader required", "user_id", userID, "team_id", teamID, "author_id", authorID)
	return model.ErrNotAuthorOrLeader
}
