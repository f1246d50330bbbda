package repository

import (
	"context"
	"errors"
	"time"

	"github.com/blaisecz/insight-engine/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateOutcome reports what CreateGated did with a candidate insight.
type CreateOutcome int

const (
	// OutcomeCreated means the insight was inserted.
	OutcomeCreated CreateOutcome = iota
	// OutcomeDuplicate means a live insight for the same rule and event already exists.
	OutcomeDuplicate
	// OutcomeRuleIneligible means the source rule no longer clears the gate.
	OutcomeRuleIneligible
)

func (o CreateOutcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeRuleIneligible:
		return "rule_ineligible"
	}
	return "unknown"
}

const priorityOrderSQL = "CASE priority WHEN 'critical' THEN 3 WHEN 'high' THEN 2 WHEN 'medium' THEN 1 ELSE 0 END DESC"

type InsightRepository interface {
	// CreateGated re-checks the source rule against the hard confidence floor and
	// the deduplication key, then inserts, all in one transaction.
	CreateGated(ctx context.Context, insight *domain.Insight) (CreateOutcome, error)
	// HasLive reports whether a non-expired, non-dismissed insight exists for the key.
	HasLive(ctx context.Context, userID, ruleID, eventID uuid.UUID) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Insight, error)
	Update(ctx context.Context, insight *domain.Insight) error
	// ListActive returns live, unexpired insights by priority then recency.
	ListActive(ctx context.Context, userID uuid.UUID, now time.Time) ([]domain.Insight, error)
	// ListDue returns candidates whose delivery time has come.
	ListDue(ctx context.Context, userID uuid.UUID, now time.Time) ([]domain.Insight, error)
	// ExpireStale moves candidate and delivered insights past expiration to expired.
	// A nil userID applies to every user.
	ExpireStale(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error)
	CountCreatedSince(ctx context.Context, userID uuid.UUID, since time.Time) (int64, error)
	CountActive(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error)
}

type insightRepository struct {
	db *gorm.DB
}

func NewInsightRepository(db *gorm.DB) InsightRepository {
	return &insightRepository{db: db}
}

func (r *insightRepository) CreateGated(ctx context.Context, insight *domain.Insight) (CreateOutcome, error) {
	if insight.ID == uuid.Nil {
		insight.ID = uuid.New()
	}

	outcome := OutcomeCreated
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rule, err := getRule(tx, insight.RuleID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				outcome = OutcomeRuleIneligible
				return nil
			}
			return err
		}
		if !rule.Eligible() || rule.Confidence < domain.HardConfidenceFloor {
			outcome = OutcomeRuleIneligible
			return nil
		}

		exists, err := hasLive(tx, insight.UserID, insight.RuleID, insight.TriggerEventID)
		if err != nil {
			return err
		}
		if exists {
			outcome = OutcomeDuplicate
			return nil
		}

		return tx.Create(insight).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// A concurrent pass won the race; the existing row is kept.
		return OutcomeDuplicate, nil
	}
	if err != nil {
		return outcome, err
	}
	return outcome, nil
}

func (r *insightRepository) HasLive(ctx context.Context, userID, ruleID, eventID uuid.UUID) (bool, error) {
	return hasLive(r.db.WithContext(ctx), userID, ruleID, eventID)
}

func hasLive(db *gorm.DB, userID, ruleID, eventID uuid.UUID) (bool, error) {
	var count int64
	err := db.Model(&domain.Insight{}).
		Where("user_id = ? AND rule_id = ? AND trigger_event_id = ?", userID, ruleID, eventID).
		Where("status IN ?", domain.LiveInsightStatuses).
		Count(&count).Error
	return count > 0, err
}

func (r *insightRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Insight, error) {
	var insight domain.Insight
	err := r.db.WithContext(ctx).First(&insight, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &insight, nil
}

func (r *insightRepository) Update(ctx context.Context, insight *domain.Insight) error {
	return r.db.WithContext(ctx).Save(insight).Error
}

func (r *insightRepository) ListActive(ctx context.Context, userID uuid.UUID, now time.Time) ([]domain.Insight, error) {
	var insights []domain.Insight
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status IN ? AND expiration_time > ?", userID, domain.LiveInsightStatuses, now).
		Order(priorityOrderSQL).
		Order("trigger_time DESC").
		Order("created_at DESC").
		Find(&insights).Error
	return insights, err
}

func (r *insightRepository) ListDue(ctx context.Context, userID uuid.UUID, now time.Time) ([]domain.Insight, error) {
	var insights []domain.Insight
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, domain.InsightCandidate).
		Where("delivery_time <= ? AND expiration_time > ?", now, now).
		Order(priorityOrderSQL).
		Order("delivery_time ASC").
		Find(&insights).Error
	return insights, err
}

func (r *insightRepository) ExpireStale(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&domain.Insight{}).
		Where("status IN ? AND expiration_time <= ?", []domain.InsightStatus{domain.InsightCandidate, domain.InsightDelivered}, now)
	if userID != uuid.Nil {
		query = query.Where("user_id = ?", userID)
	}
	res := query.Update("status", domain.InsightExpired)
	return res.RowsAffected, res.Error
}

func (r *insightRepository) CountCreatedSince(ctx context.Context, userID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Insight{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Count(&count).Error
	return count, err
}

func (r *insightRepository) CountActive(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Insight{}).
		Where("user_id = ? AND status IN ? AND expiration_time > ?", userID, domain.LiveInsightStatuses, now).
		Count(&count).Error
	return count, err
}
