// Package service provides business logic layer for statistics module.
package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/festy23/bookclub/internal/statistics/model"
	"github.com/festy23/bookclub/internal/statistics/repository"
)

// Service defines the interface for statistics business logic operations.
type Service interface {
	// GetCommunitiesStatistics returns seat usage per community.
	GetCommunitiesStatistics(ctx context.Context) (*model.CommunitiesStatisticsResponse, error)

	// GetRecruitmentStatistics returns the recruitment summary.
	GetRecruitmentStatistics(ctx context.Context) (*model.RecruitmentStatisticsResponse, error)
}

type service struct {
	repo   repository.Repository
	logger *zap.SugaredLogger
}

// New creates a new statistics service instance.
func New(repo repository.Repository, logger *zap.SugaredLogger) Service {
	return &service{
		repo:   repo,
		logger: logger,
	}
}

// GetCommunitiesStatistics returns seat usage per community.
func (s *service) GetCommunitiesStatistics(ctx context.Context) (*model.CommunitiesStatisticsResponse, error) {
	s.logger.Debugw("GetCommunitiesStatistics called")

	communities, err := s.repo.GetCommunityFill(ctx)
	if err != nil {
		s.logger.Errorw("GetCommunitiesStatistics failed", "error", err)
		return nil, err
	}

	if communities == nil {
		communities = []model.CommunityFill{}
	}

	s.logger.Infow("GetCommunitiesStatistics completed", "count", len(communities))
	return &model.CommunitiesStatisticsResponse{
		Communities: communities,
		Total:       len(communities),
	}, nil
}

// GetRecruitmentStatistics returns the recruitment summary. Average fill
// covers communities that declare a capacity.
func (s *service) GetRecruitmentStatistics(ctx context.Context) (*model.RecruitmentStatisticsResponse, error) {
	s.logger.Debugw("GetRecruitmentStatistics called")

	counts, err := s.repo.GetStatusCounts(ctx)
	if err != nil {
		s.logger.Errorw("GetRecruitmentStatistics failed", "error", err)
		return nil, err
	}
	communities, err := s.repo.GetCommunityFill(ctx)
	if err != nil {
		s.logger.Errorw("GetRecruitmentStatistics failed", "error", err)
		return nil, err
	}

	stats := model.RecruitmentStatistics{StatusCounts: *counts}
	var fillSum float64
	var withCapacity int
	for _, c := range communities {
		stats.TotalMembers += c.MemberCount
		if c.MaxMembers == 0 {
			continue
		}
		withCapacity++
		fillSum += c.Fill
		if c.MemberCount >= c.MaxMembers {
			stats.FullCount++
		}
	}
	if withCapacity > 0 {
		stats.AverageFill = fillSum / float64(withCapacity)
	}

	s.logger.Infow("GetRecruitmentStatistics completed",
		"total_communities", stats.TotalCommunities,
		"average_fill", stats.AverageFill,
	)
	return &model.RecruitmentStatisticsResponse{Statistics: stats}, nil
}
