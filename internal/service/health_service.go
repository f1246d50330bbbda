package service

import (
	"context"
	"errors"

	"github.com/blaisecz/insight-engine/internal/domain"
	"github.com/google/uuid"
)

// HealthService projects persisted engine state for dashboards. It never
// writes and never triggers a pass.
type HealthService interface {
	Get(ctx context.Context, userID uuid.UUID) (*domain.Health, error)
}

type healthService struct {
	repos Repositories
	now   Clock
}

func NewHealthService(repos Repositories, now Clock) HealthService {
	return &healthService{repos: repos, now: now}
}

func (s *healthService) Get(ctx context.Context, userID uuid.UUID) (*domain.Health, error) {
	now := s.now()
	health := &domain.Health{UserID: userID, ComputedAt: now}

	retentionDays := domain.DefaultRetentionDays
	cfg, err := s.repos.Configurations.Get(ctx, userID)
	switch {
	case err == nil:
		health.ConfigLoaded = true
		retentionDays = cfg.RetentionDays
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	if health.PatternCount, err = s.repos.Patterns.Count(ctx, userID); err != nil {
		return nil, err
	}
	if health.ActiveRuleCount, err = s.repos.Rules.CountActive(ctx, userID); err != nil {
		return nil, err
	}
	if health.ActiveInsightCount, err = s.repos.Insights.CountActive(ctx, userID, now); err != nil {
		return nil, err
	}
	if health.LastDataPointAt, err = s.repos.DataPoints.LatestTimestamp(ctx, userID); err != nil {
		return nil, err
	}

	health.HasPatterns = health.PatternCount > 0
	health.HasActiveInsights = health.ActiveInsightCount > 0
	health.DataCollectedRecently = health.LastDataPointAt != nil &&
		!health.LastDataPointAt.Before(now.AddDate(0, 0, -retentionDays))
	return health, nil
}
