package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventCategory classifies an astrological event.
type EventCategory string

const (
	EventCategoryPlanetary EventCategory = "planetary"
	EventCategoryLunar     EventCategory = "lunar"
	EventCategoryAspect    EventCategory = "aspect"
	EventCategoryTransit   EventCategory = "transit"
)

// AstrologicalEvent mirrors one entry of the external ephemeris feed.
// A nil UserID marks a catalog-wide event; otherwise PersonalRelevance is specific to that user.
type AstrologicalEvent struct {
	ID                uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	ExternalID        string        `gorm:"type:varchar(255);not null;uniqueIndex" json:"external_id"`
	UserID            *uuid.UUID    `gorm:"type:uuid;index" json:"user_id,omitempty"`
	EventType         string        `gorm:"type:varchar(64);not null;index" json:"event_type"`
	Category          EventCategory `gorm:"type:varchar(16);not null" json:"category"`
	Name              string        `gorm:"type:varchar(255)" json:"name"`
	StartTime         time.Time     `gorm:"not null;index" json:"start_time"`
	EndTime           *time.Time    `json:"end_time,omitempty"`
	Intensity         float64       `gorm:"not null;default:0.5" json:"intensity"`
	PersonalRelevance float64       `gorm:"not null;default:0.5" json:"personal_relevance"`
	UpdatedAt         time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

func (AstrologicalEvent) TableName() string {
	return "astrological_events"
}

// End returns the event end, falling back to the start for instantaneous events.
func (e *AstrologicalEvent) End() time.Time {
	if e.EndTime != nil && e.EndTime.After(e.StartTime) {
		return *e.EndTime
	}
	return e.StartTime
}

// RelevanceEnd is the end of the window during which the event can still affect the user.
func (e *AstrologicalEvent) RelevanceEnd(window time.Duration) time.Time {
	return e.End().Add(window)
}

// RelevantAt reports whether the event is upcoming within window or still active at now.
func (e *AstrologicalEvent) RelevantAt(now time.Time, window time.Duration) bool {
	return !now.Before(e.StartTime.Add(-window)) && now.Before(e.RelevanceEnd(window))
}

// UpsertEventRequest is one feed entry pushed by the ephemeris sync.
// @Description Astrological event from the external feed.
type UpsertEventRequest struct {
	ExternalID        string        `json:"external_id" validate:"required,max=255" example:"full_moon-2024-01-25"`
	UserID            *uuid.UUID    `json:"user_id,omitempty"`
	EventType         string        `json:"event_type" validate:"required,max=64" example:"full_moon"`
	Category          EventCategory `json:"category" validate:"required,oneof=planetary lunar aspect transit" example:"lunar"`
	Name              string        `json:"name,omitempty" validate:"max=255" example:"Full Moon in Leo"`
	StartTime         time.Time     `json:"start_time" validate:"required" example:"2024-01-25T17:54:00Z"`
	EndTime           *time.Time    `json:"end_time,omitempty" validate:"omitempty,gtfield=StartTime"`
	Intensity         float64       `json:"intensity" validate:"min=0,max=1" example:"0.8"`
	PersonalRelevance float64       `json:"personal_relevance" validate:"min=0,max=1" example:"0.6"`
}

// UpsertEventsRequest is a batch of feed entries.
type UpsertEventsRequest struct {
	Events []UpsertEventRequest `json:"events" validate:"required,min=1,max=1000,dive"`
}

// UpsertEventsResponse reports how many feed entries were stored.
type UpsertEventsResponse struct {
	Upserted int `json:"upserted" example:"12"`
}
