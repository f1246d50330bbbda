package repository

import (
	"context"
	"errors"

	"github.com/blaisecz/insight-engine/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ConfigurationRepository interface {
	Get(ctx context.Context, userID uuid.UUID) (*domain.Configuration, error)
	// GetOrCreate returns the stored configuration, inserting defaults first if none exists.
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*domain.Configuration, error)
	Save(ctx context.Context, cfg *domain.Configuration) error
	Exists(ctx context.Context, userID uuid.UUID) (bool, error)
}

type configurationRepository struct {
	db *gorm.DB
}

func NewConfigurationRepository(db *gorm.DB) ConfigurationRepository {
	return &configurationRepository{db: db}
}

func (r *configurationRepository) Get(ctx context.Context, userID uuid.UUID) (*domain.Configuration, error) {
	var cfg domain.Configuration
	err := r.db.WithContext(ctx).First(&cfg, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &cfg, nil
}

func (r *configurationRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*domain.Configuration, error) {
	defaults := domain.DefaultConfiguration(userID)
	// Concurrent first reads race here; DoNothing keeps whichever row landed first.
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(defaults).Error
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, userID)
}

func (r *configurationRepository) Save(ctx context.Context, cfg *domain.Configuration) error {
	return r.db.WithContext(ctx).Save(cfg).Error
}

func (r *configurationRepository) Exists(ctx context.Context, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Configuration{}).Where("user_id = ?", userID).Count(&count).Error
	return count > 0, err
}
