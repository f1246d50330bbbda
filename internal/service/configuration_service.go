package service

import (
	"context"

	"github.com/blaisecz/insight-engine/internal/domain"
	"github.com/blaisecz/insight-engine/internal/repository"
	"github.com/google/uuid"
)

type ConfigurationService interface {
	// Get returns the user's configuration, persisting defaults on first use.
	Get(ctx context.Context, userID uuid.UUID) (*domain.Configuration, error)
	// Update applies a partial update. Nothing is written when any field is invalid.
	Update(ctx context.Context, userID uuid.UUID, patch *domain.ConfigurationPatch) (*domain.Configuration, error)
}

type configurationService struct {
	repo repository.ConfigurationRepository
}

func NewConfigurationService(repo repository.ConfigurationRepository) ConfigurationService {
	return &configurationService{repo: repo}
}

func (s *configurationService) Get(ctx context.Context, userID uuid.UUID) (*domain.Configuration, error) {
	return s.repo.GetOrCreate(ctx, userID)
}

func (s *configurationService) Update(ctx context.Context, userID uuid.UUID, patch *domain.ConfigurationPatch) (*domain.Configuration, error) {
	current, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	updated := *current
	if err := patch.Apply(&updated); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
