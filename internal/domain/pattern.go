package domain

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// PatternKind is the shape of a detected regularity.
type PatternKind string

const (
	PatternCyclic         PatternKind = "cyclic"
	PatternEventTriggered PatternKind = "event_triggered"
	PatternCorrelation    PatternKind = "correlation"
	PatternSeasonal       PatternKind = "seasonal"
)

// Pattern is a statistically validated regularity for one user and data type.
// (UserID, DataType, Kind, Key) identifies it across detection passes.
type Pattern struct {
	ID                  uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID              uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_patterns_key" json:"user_id"`
	DataType            DataType    `gorm:"type:varchar(32);not null;uniqueIndex:idx_patterns_key" json:"data_type"`
	Kind                PatternKind `gorm:"type:varchar(32);not null;uniqueIndex:idx_patterns_key" json:"kind"`
	Key                 string      `gorm:"column:pattern_key;type:varchar(96);not null;uniqueIndex:idx_patterns_key" json:"key"`
	Significance        float64     `gorm:"not null" json:"significance"`
	Confidence          float64     `gorm:"not null" json:"confidence"`
	SampleSize          int         `gorm:"not null" json:"sample_size"`
	CorrelationStrength float64     `gorm:"not null" json:"correlation_strength"`
	CyclePeriodDays     *float64    `json:"cycle_period_days,omitempty"`
	EventType           *string     `gorm:"type:varchar(64)" json:"event_type,omitempty"`
	DetectedAt          time.Time   `gorm:"not null" json:"detected_at"`
	LastUpdated         time.Time   `gorm:"not null" json:"last_updated"`
	ValidUntil          *time.Time  `json:"valid_until,omitempty"`
}

func (Pattern) TableName() string {
	return "patterns"
}

// PatternKey returns the identifying key of an event-triggered or cyclic pattern.
func PatternKey(kind PatternKind, eventType string, periodDays float64) string {
	if kind == PatternCyclic {
		return strconv.FormatFloat(periodDays, 'f', -1, 64) + "d"
	}
	return eventType
}

// Accepted reports whether the pattern satisfies the persistence invariant.
func (p *Pattern) Accepted() bool {
	return p.SampleSize >= MinimumDataPoints && p.Significance <= SignificanceThreshold
}

func (p *Pattern) String() string {
	return fmt.Sprintf("%s/%s/%s", p.DataType, p.Kind, p.Key)
}

// PatternListResponse wraps a list of detected patterns.
type PatternListResponse struct {
	Data []Pattern `json:"data"`
}
