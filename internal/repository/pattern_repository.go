package repository

import (
	"context"
	"errors"

	"github.com/blaisecz/insight-engine/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PatternRepository interface {
	// FindByKey returns the pattern with the given identity, or nil if none exists.
	FindByKey(ctx context.Context, userID uuid.UUID, dataType domain.DataType, kind domain.PatternKind, key string) (*domain.Pattern, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Pattern, error)
	Create(ctx context.Context, p *domain.Pattern) error
	Update(ctx context.Context, p *domain.Pattern) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Pattern, error)
	Count(ctx context.Context, userID uuid.UUID) (int64, error)
}

type patternRepository struct {
	db *gorm.DB
}

func NewPatternRepository(db *gorm.DB) PatternRepository {
	return &patternRepository{db: db}
}

func (r *patternRepository) FindByKey(ctx context.Context, userID uuid.UUID, dataType domain.DataType, kind domain.PatternKind, key string) (*domain.Pattern, error) {
	var p domain.Pattern
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND data_type = ? AND kind = ? AND pattern_key = ?", userID, dataType, kind, key).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *patternRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Pattern, error) {
	var p domain.Pattern
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *patternRepository) Create(ctx context.Context, p *domain.Pattern) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	err := r.db.WithContext(ctx).Create(p).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrConflict
	}
	return err
}

func (r *patternRepository) Update(ctx context.Context, p *domain.Pattern) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *patternRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Pattern, error) {
	var patterns []domain.Pattern
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("last_updated DESC").
		Find(&patterns).Error
	return patterns, err
}

func (r *patternRepository) Count(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Pattern{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
