package domain

import (
	"time"

	"github.com/google/uuid"
)

// InsightType is the user-facing framing of an insight.
type InsightType string

const (
	InsightWarning     InsightType = "warning"
	InsightOpportunity InsightType = "opportunity"
	InsightPreparation InsightType = "preparation"
	InsightAwareness   InsightType = "awareness"
)

// Priority orders insights for delivery and display.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

var priorityOrder = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

// Rank returns a sortable weight, higher is more urgent.
func (p Priority) Rank() int {
	for i, prio := range priorityOrder {
		if prio == p {
			return i
		}
	}
	return 0
}

// Shift moves the priority by steps, clamped to low..high. Shifting never yields critical.
func (p Priority) Shift(steps int) Priority {
	rank := p.Rank() + steps
	if rank < 0 {
		rank = 0
	}
	if high := PriorityHigh.Rank(); rank > high {
		rank = high
	}
	return priorityOrder[rank]
}

// InsightStatus is the lifecycle state of an insight.
type InsightStatus string

const (
	InsightCandidate    InsightStatus = "candidate"
	InsightDelivered    InsightStatus = "delivered"
	InsightAcknowledged InsightStatus = "acknowledged"
	InsightExpired      InsightStatus = "expired"
	InsightDismissed    InsightStatus = "dismissed"
)

// Terminal reports whether no further transition is possible.
func (s InsightStatus) Terminal() bool {
	return s == InsightAcknowledged || s == InsightExpired || s == InsightDismissed
}

// Live reports whether the status counts for deduplication and active listings.
func (s InsightStatus) Live() bool {
	return s == InsightCandidate || s == InsightDelivered || s == InsightAcknowledged
}

// LiveInsightStatuses are the statuses that block a duplicate for the same rule and event.
var LiveInsightStatuses = []InsightStatus{InsightCandidate, InsightDelivered, InsightAcknowledged}

// Feedback is the user's judgement of an insight.
type Feedback string

const (
	FeedbackHelpful         Feedback = "helpful"
	FeedbackSomewhatHelpful Feedback = "somewhat_helpful"
	FeedbackNotHelpful      Feedback = "not_helpful"
	FeedbackInaccurate      Feedback = "inaccurate"
)

// Valid reports whether f is a known feedback value.
func (f Feedback) Valid() bool {
	switch f {
	case FeedbackHelpful, FeedbackSomewhatHelpful, FeedbackNotHelpful, FeedbackInaccurate:
		return true
	}
	return false
}

// Score maps feedback onto 0..1 for external scoring.
func (f Feedback) Score() float64 {
	switch f {
	case FeedbackHelpful:
		return 1
	case FeedbackSomewhatHelpful:
		return 0.5
	default:
		return 0
	}
}

// Insight is one rule firing against one event occurrence.
type Insight struct {
	ID             uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID     `gorm:"type:uuid;not null;index;uniqueIndex:idx_insights_dedup,where:status <> 'expired' AND status <> 'dismissed'" json:"user_id"`
	PatternID      uuid.UUID     `gorm:"type:uuid;not null" json:"pattern_id"`
	RuleID         uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_insights_dedup" json:"rule_id"`
	TriggerEventID uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_insights_dedup" json:"trigger_event_id"`
	DataType       DataType      `gorm:"type:varchar(32);not null" json:"data_type"`
	Title          string        `gorm:"type:varchar(255)" json:"title"`
	Message        string        `gorm:"type:text" json:"message"`
	Type           InsightType   `gorm:"column:insight_type;type:varchar(16);not null" json:"insight_type"`
	Priority       Priority      `gorm:"type:varchar(16);not null" json:"priority"`
	TriggerTime    time.Time     `gorm:"not null" json:"trigger_time"`
	DeliveryTime   time.Time     `gorm:"not null;index" json:"delivery_time"`
	ExpirationTime time.Time     `gorm:"not null;index" json:"expiration_time"`
	Confidence     float64       `gorm:"not null" json:"confidence"`
	Status         InsightStatus `gorm:"type:varchar(16);not null;index" json:"status"`
	Delivered      bool          `gorm:"not null;default:false" json:"delivered"`
	DeliveredAt    *time.Time    `json:"delivered_at,omitempty"`
	DeliveryMethod string        `gorm:"type:varchar(16)" json:"delivery_method,omitempty"`
	Acknowledged   bool          `gorm:"not null;default:false" json:"acknowledged"`
	AcknowledgedAt *time.Time    `json:"acknowledged_at,omitempty"`
	Feedback       *Feedback     `gorm:"type:varchar(24)" json:"feedback,omitempty"`
	FeedbackAt     *time.Time    `json:"feedback_at,omitempty"`
	Personalized   bool          `gorm:"not null;default:false" json:"personalized"`
	CreatedAt      time.Time     `gorm:"not null" json:"created_at"`
}

func (Insight) TableName() string {
	return "insights"
}

// ActiveAt reports whether the insight is shown to the user at now.
func (i *Insight) ActiveAt(now time.Time) bool {
	return i.Status.Live() && now.Before(i.ExpirationTime)
}

// MarkDelivered moves a candidate to delivered. Repeating it is a no-op.
func (i *Insight) MarkDelivered(now time.Time, method string) error {
	switch i.Status {
	case InsightDelivered, InsightAcknowledged:
		return nil
	case InsightCandidate:
		i.Status = InsightDelivered
		i.Delivered = true
		i.DeliveredAt = &now
		if method != "" {
			i.DeliveryMethod = method
		}
		return nil
	}
	return ErrInvalidTransition
}

// Acknowledge moves the insight to acknowledged. An undelivered candidate is
// treated as delivered at the same instant. Repeating it is a no-op.
func (i *Insight) Acknowledge(now time.Time) error {
	switch i.Status {
	case InsightAcknowledged:
		return nil
	case InsightCandidate:
		if err := i.MarkDelivered(now, ""); err != nil {
			return err
		}
		fallthrough
	case InsightDelivered:
		i.Status = InsightAcknowledged
		i.Acknowledged = true
		i.AcknowledgedAt = &now
		return nil
	}
	return ErrInvalidTransition
}

// Dismiss moves a non-terminal insight to dismissed. Repeating it is a no-op.
func (i *Insight) Dismiss() error {
	switch i.Status {
	case InsightDismissed:
		return nil
	case InsightCandidate, InsightDelivered:
		i.Status = InsightDismissed
		return nil
	}
	return ErrInvalidTransition
}

// Expire moves a non-terminal insight past its expiration time to expired.
// It returns false when nothing changed.
func (i *Insight) Expire(now time.Time) bool {
	if i.Status.Terminal() || now.Before(i.ExpirationTime) {
		return false
	}
	i.Status = InsightExpired
	return true
}

// SetFeedback records the user's feedback; the latest value wins.
func (i *Insight) SetFeedback(f Feedback, now time.Time) (changed bool) {
	if i.Feedback != nil && *i.Feedback == f {
		return false
	}
	i.Feedback = &f
	i.FeedbackAt = &now
	return true
}

// FeedbackRequest is the request body for insight feedback.
// @Description User feedback on an insight.
type FeedbackRequest struct {
	Feedback Feedback `json:"feedback" validate:"required,oneof=helpful somewhat_helpful not_helpful inaccurate" example:"helpful"`
}

// MarkDeliveredRequest is sent by a delivery surface after it delivered an insight.
type MarkDeliveredRequest struct {
	Method string `json:"method,omitempty" validate:"omitempty,oneof=chat push email" example:"push"`
}

// InsightListResponse wraps a list of insights.
// @Description Insights for a user, most urgent first.
type InsightListResponse struct {
	Data []Insight `json:"data"`
}
