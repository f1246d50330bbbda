package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Direction is the expected sign of the effect a rule predicts.
type Direction string

const (
	DirectionPositive Direction = "positive"
	DirectionNegative Direction = "negative"
	DirectionNeutral  Direction = "neutral"
)

// RuleState decides whether a rule may fire.
type RuleState string

const (
	// RuleStateActive rules are eligible for the insight gate.
	RuleStateActive RuleState = "active"
	// RuleStateInactive rules are stored but below DefaultConfidenceThreshold.
	RuleStateInactive RuleState = "inactive"
	// RuleStateRetired rules never fire again and are kept for history.
	RuleStateRetired RuleState = "retired"
)

// RuleConditions constrain when a rule applies.
type RuleConditions struct {
	TimeWindowHours int        `json:"time_window_hours"`
	MinOccurrences  int        `json:"min_occurrences"`
	DataTypes       []DataType `json:"data_types"`
}

// TimeWindow returns the window around an event in which the rule applies.
func (c RuleConditions) TimeWindow() time.Duration {
	hours := c.TimeWindowHours
	if hours <= 0 {
		hours = DefaultEventWindowHours
	}
	return time.Duration(hours) * time.Hour
}

// PredictiveRule is an independently revalidated derivative of a pattern.
type PredictiveRule struct {
	ID                 uuid.UUID                          `gorm:"type:uuid;primaryKey" json:"id"`
	UserID             uuid.UUID                          `gorm:"type:uuid;not null;index:idx_rules_user_event" json:"user_id"`
	PatternID          uuid.UUID                          `gorm:"type:uuid;not null;index" json:"pattern_id"`
	EventType          string                             `gorm:"type:varchar(64);index:idx_rules_user_event" json:"event_type"`
	DataType           DataType                           `gorm:"type:varchar(32);not null" json:"data_type"`
	Direction          Direction                          `gorm:"type:varchar(16);not null" json:"direction"`
	Magnitude          float64                            `gorm:"not null" json:"magnitude"`
	Confidence         float64                            `gorm:"not null" json:"confidence"`
	Significance       float64                            `gorm:"not null" json:"significance"`
	Conditions         datatypes.JSONType[RuleConditions] `json:"conditions"`
	State              RuleState                          `gorm:"type:varchar(16);not null;index" json:"state"`
	PatternConfidence  float64                            `gorm:"not null" json:"pattern_confidence"`
	SourceCorrelation  float64                            `gorm:"not null" json:"-"`
	SourceSignificance float64                            `gorm:"not null" json:"-"`
	CreatedAt          time.Time                          `gorm:"not null" json:"created_at"`
	LastValidated      time.Time                          `gorm:"not null" json:"last_validated"`
	RetiredAt          *time.Time                         `json:"retired_at,omitempty"`
}

func (PredictiveRule) TableName() string {
	return "predictive_rules"
}

// Eligible is the single decision point for whether a rule may fire.
func (r *PredictiveRule) Eligible() bool {
	return r.State == RuleStateActive && r.Confidence >= DefaultConfidenceThreshold
}

// Retired reports whether the rule is kept for history only.
func (r *PredictiveRule) Retired() bool {
	return r.State == RuleStateRetired
}

// Window is the rule's applicable time window around its event.
func (r *PredictiveRule) Window() time.Duration {
	return r.Conditions.Data().TimeWindow()
}

// Retire moves the rule to its terminal state.
func (r *PredictiveRule) Retire(now time.Time) {
	if r.State == RuleStateRetired {
		return
	}
	r.State = RuleStateRetired
	r.RetiredAt = &now
}

// RuleListResponse wraps a list of predictive rules.
type RuleListResponse struct {
	Data []PredictiveRule `json:"data"`
}
