// Package service provides business logic layer for user module.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/festy23/bookclub/internal/auth"
	"github.com/festy23/bookclub/internal/user/model"
	"github.com/festy23/bookclub/internal/user/repository"
)

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID int64) (*auth.Token, error)
}

// Service defines the interface for user business logic operations.
type Service interface {
	// Signup creates an account with a bcrypt password hash.
	Signup(ctx context.Context, req *model.SignupRequest) (*model.UserResponse, error)

	// Login verifies credentials and issues an access token.
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)

	// Me returns the account of the authenticated principal.
	Me(ctx context.Context, userID int64) (*model.UserResponse, error)
}

type service struct {
	repo     repository.Repository
	tokens   TokenIssuer
	logger   *zap.SugaredLogger
	hashCost int
}

// New creates a new user service instance.
func New(repo repository.Repository, tokens TokenIssuer, logger *zap.SugaredLogger) Service {
	return &service{
		repo:     repo,
		tokens:   tokens,
		logger:   logger,
		hashCost: bcrypt.DefaultCost,
	}
}

// Signup creates an account with a bcrypt password hash.
func (s *service) Signup(ctx context.Context, req *model.SignupRequest) (*model.UserResponse, error) {
	email := normalizeEmail(req.Email)
	nickname := strings.TrimSpace(req.Nickname)
	s.logger.Debugw("Signup called", "email", email, "nickname", nickname)

	var emailTaken, nicknameTaken bool
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		emailTaken, err = s.repo.ExistsByEmail(gctx, email)
		return err
	})
	g.Go(func() error {
		var err error
		nicknameTaken, err = s.repo.ExistsByNickname(gctx, nickname)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Errorw("Signup duplicate lookup failed", "email", email, "error", err)
		return nil, err
	}
	if emailTaken {
		return nil, model.ErrEmailTaken
	}
	if nicknameTaken {
		return nil, model.ErrNicknameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		s.logger.Errorw("Signup password hashing failed", "error", err)
		return nil, err
	}

	now := time.Now().UTC()
	user := &model.User{
		Email:        email,
		Nickname:     nickname,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Infow("Signup completed", "user_id", user.ID, "nickname", nickname)
	return user.ToResponse(), nil
}

// Login verifies credentials and issues an access token.
func (s *service) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	email := normalizeEmail(req.Email)

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			s.logger.Debugw("Login unknown email", "email", email)
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Debugw("Login wrong password", "user_id", user.ID)
		return nil, model.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.logger.Errorw("Login token issue failed", "user_id", user.ID, "error", err)
		return nil, err
	}

	s.logger.Infow("Login completed", "user_id", user.ID)
	return &model.LoginResponse{
		AccessToken: token.AccessToken,
		TokenType:   "Bearer",
		ExpiresAt:   token.ExpiresAt,
	}, nil
}

// Me returns the account of the authenticated principal.
func (s *service) Me(ctx context.Context, userID int64) (*model.UserResponse, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.ToResponse(), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
