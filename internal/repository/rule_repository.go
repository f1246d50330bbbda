package repository

import (
	"context"
	"errors"
	"time"

	"github.com/blaisecz/insight-engine/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RuleRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PredictiveRule, error)
	// FindLatestByPattern returns the most recent rule derived from a pattern in any state, or nil.
	FindLatestByPattern(ctx context.Context, patternID uuid.UUID) (*domain.PredictiveRule, error)
	Create(ctx context.Context, rule *domain.PredictiveRule) error
	Update(ctx context.Context, rule *domain.PredictiveRule) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.PredictiveRule, error)
	// ListActive returns the user's active rules, optionally narrowed to one event type.
	ListActive(ctx context.Context, userID uuid.UUID, eventType string) ([]domain.PredictiveRule, error)
	// ListDueForRevalidation returns non-retired rules last validated before the given time.
	ListDueForRevalidation(ctx context.Context, userID uuid.UUID, before time.Time) ([]domain.PredictiveRule, error)
	// ListUsersDueForRevalidation returns users owning at least one rule ListDueForRevalidation would return.
	ListUsersDueForRevalidation(ctx context.Context, before time.Time) ([]uuid.UUID, error)
	CountActive(ctx context.Context, userID uuid.UUID) (int64, error)
}

type ruleRepository struct {
	db *gorm.DB
}

func NewRuleRepository(db *gorm.DB) RuleRepository {
	return &ruleRepository{db: db}
}

func (r *ruleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.PredictiveRule, error) {
	return getRule(r.db.WithContext(ctx), id)
}

func getRule(db *gorm.DB, id uuid.UUID) (*domain.PredictiveRule, error) {
	var rule domain.PredictiveRule
	err := db.First(&rule, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &rule, nil
}

func (r *ruleRepository) FindLatestByPattern(ctx context.Context, patternID uuid.UUID) (*domain.PredictiveRule, error) {
	var rule domain.PredictiveRule
	err := r.db.WithContext(ctx).
		Where("pattern_id = ?", patternID).
		Order("created_at DESC").
		First(&rule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

func (r *ruleRepository) Create(ctx context.Context, rule *domain.PredictiveRule) error {
	if rule.ID == uuid.Nil {
		rule.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(rule).Error
}

func (r *ruleRepository) Update(ctx context.Context, rule *domain.PredictiveRule) error {
	return r.db.WithContext(ctx).Save(rule).Error
}

func (r *ruleRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.PredictiveRule, error) {
	var rules []domain.PredictiveRule
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rules).Error
	return rules, err
}

func (r *ruleRepository) ListActive(ctx context.Context, userID uuid.UUID, eventType string) ([]domain.PredictiveRule, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ? AND state = ?", userID, domain.RuleStateActive)
	if eventType != "" {
		query = query.Where("event_type = ?", eventType)
	}
	var rules []domain.PredictiveRule
	err := query.Order("confidence DESC").Find(&rules).Error
	return rules, err
}

func (r *ruleRepository) ListDueForRevalidation(ctx context.Context, userID uuid.UUID, before time.Time) ([]domain.PredictiveRule, error) {
	var rules []domain.PredictiveRule
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND state <> ? AND last_validated < ?", userID, domain.RuleStateRetired, before).
		Find(&rules).Error
	return rules, err
}

func (r *ruleRepository) ListUsersDueForRevalidation(ctx context.Context, before time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&domain.PredictiveRule{}).
		Where("state <> ? AND last_validated < ?", domain.RuleStateRetired, before).
		Distinct("user_id").
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *ruleRepository) CountActive(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.PredictiveRule{}).
		Where("user_id = ? AND state = ?", userID, domain.RuleStateActive).
		Count(&count).Error
	return count, err
}
