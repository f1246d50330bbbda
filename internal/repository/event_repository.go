package repository

import (
	"context"
	"errors"
	"time"

	"github.com/blaisecz/insight-engine/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EventRepository is the local mirror of the external event catalog.
type EventRepository interface {
	Upsert(ctx context.Context, events []domain.AstrologicalEvent) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.AstrologicalEvent, error)
	// ListForUser returns catalog-wide events and events specific to the user
	// that start in [from, to), oldest first.
	ListForUser(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]domain.AstrologicalEvent, error)
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

// Upsert writes feed entries keyed by external ID so ephemeris corrections overwrite older values.
func (r *eventRepository) Upsert(ctx context.Context, events []domain.AstrologicalEvent) error {
	if len(events) == 0 {
		return nil
	}
	for i := range events {
		if events[i].ID == uuid.Nil {
			events[i].ID = uuid.New()
		}
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "external_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"user_id", "event_type", "category", "name", "start_time",
				"end_time", "intensity", "personal_relevance", "updated_at",
			}),
		}).
		Create(&events).Error
}

func (r *eventRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.AstrologicalEvent, error) {
	var ev domain.AstrologicalEvent
	err := r.db.WithContext(ctx).First(&ev, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &ev, nil
}

func (r *eventRepository) ListForUser(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]domain.AstrologicalEvent, error) {
	var events []domain.AstrologicalEvent
	err := r.db.WithContext(ctx).
		Where("user_id IS NULL OR user_id = ?", userID).
		Where("start_time >= ? AND start_time < ?", from, to).
		Order("start_time ASC").
		Find(&events).Error
	return events, err
}
