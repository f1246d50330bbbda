package service

import (
	"context"

	"github.com/blaisecz/insight-engine/internal/domain"
	"github.com/blaisecz/insight-engine/internal/repository"
	"github.com/google/uuid"
)

// PatternService lists what the engine has learned about a user, for audit.
type PatternService interface {
	ListPatterns(ctx context.Context, userID uuid.UUID) ([]domain.Pattern, error)
	ListRules(ctx context.Context, userID uuid.UUID) ([]domain.PredictiveRule, error)
}

type patternService struct {
	patterns repository.PatternRepository
	rules    repository.RuleRepository
}

func NewPatternService(patterns repository.PatternRepository, rules repository.RuleRepository) PatternService {
	return &patternService{patterns: patterns, rules: rules}
}

func (s *patternService) ListPatterns(ctx context.Context, userID uuid.UUID) ([]domain.Pattern, error) {
	patterns, err := s.patterns.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if patterns == nil {
		patterns = []domain.Pattern{}
	}
	return patterns, nil
}

func (s *patternService) ListRules(ctx context.Context, userID uuid.UUID) ([]domain.PredictiveRule, error) {
	rules, err := s.rules.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if rules == nil {
		rules = []domain.PredictiveRule{}
	}
	return rules, nil
}
