package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Sensitivity trades recall for precision in pattern detection.
type Sensitivity string

const (
	SensitivityConservative Sensitivity = "conservative"
	SensitivityModerate     Sensitivity = "moderate"
	SensitivitySensitive    Sensitivity = "sensitive"
)

// Thresholds returns the p-value ceiling and minimum absolute effect for the sensitivity.
// None of them is looser than SignificanceThreshold.
func (s Sensitivity) Thresholds() (maxP, minEffect float64) {
	switch s {
	case SensitivityConservative:
		return 0.01, 0.5
	case SensitivitySensitive:
		return SignificanceThreshold, 0.2
	default:
		return SignificanceThreshold, 0.3
	}
}

// DeliveryMethod is a delivery surface an insight may be routed to.
type DeliveryMethod string

const (
	DeliveryChat  DeliveryMethod = "chat"
	DeliveryPush  DeliveryMethod = "push"
	DeliveryEmail DeliveryMethod = "email"
)

// DeliveryTiming controls when insights are handed to delivery surfaces.
type DeliveryTiming string

const (
	TimingImmediate     DeliveryTiming = "immediate"
	TimingDailyDigest   DeliveryTiming = "daily_digest"
	TimingWeeklySummary DeliveryTiming = "weekly_summary"
)

// QuietHours is a daily local-time window ("HH:MM") during which delivery is deferred.
// Start after End wraps midnight.
type QuietHours struct {
	Enabled bool   `json:"enabled"`
	Start   string `json:"start" validate:"omitempty,hhmm" example:"22:00"`
	End     string `json:"end" validate:"omitempty,hhmm" example:"08:00"`
}

// ContentPreferences tune what insights contain and how many are produced.
type ContentPreferences struct {
	IncludeAstrologicalContext bool   `json:"include_astrological_context"`
	Tone                       string `json:"tone" validate:"omitempty,oneof=gentle direct playful" example:"gentle"`
	MaxInsightsPerDay          int    `json:"max_insights_per_day" validate:"min=0,max=50" example:"3"`
}

// Configuration holds per-user engine settings. Only the user or an admin mutates it.
type Configuration struct {
	UserID             uuid.UUID                              `gorm:"type:uuid;primaryKey" json:"user_id"`
	Enabled            bool                                   `gorm:"not null" json:"enabled"`
	MinimumConfidence  float64                                `gorm:"not null" json:"minimum_confidence"`
	PatternSensitivity Sensitivity                            `gorm:"type:varchar(16);not null" json:"pattern_sensitivity"`
	DeliveryMethods    datatypes.JSONSlice[DeliveryMethod]    `json:"delivery_methods"`
	DeliveryTiming     DeliveryTiming                         `gorm:"type:varchar(16);not null" json:"delivery_timing"`
	DigestHour         int                                    `gorm:"not null" json:"digest_hour"`
	QuietHours         datatypes.JSONType[QuietHours]         `json:"quiet_hours"`
	Timezone           string                                 `gorm:"type:varchar(64);not null;default:'UTC'" json:"timezone"`
	ContentPreferences datatypes.JSONType[ContentPreferences] `json:"content_preferences"`
	DataTypes          datatypes.JSONSlice[DataType]          `json:"data_types"`
	RetentionDays      int                                    `gorm:"not null" json:"retention_days"`
	CreatedAt          time.Time                              `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time                              `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Configuration) TableName() string {
	return "configurations"
}

// DefaultConfiguration returns the settings synthesized on first use.
func DefaultConfiguration(userID uuid.UUID) *Configuration {
	return &Configuration{
		UserID:             userID,
		Enabled:            true,
		MinimumConfidence:  HardConfidenceFloor,
		PatternSensitivity: SensitivityModerate,
		DeliveryMethods:    datatypes.JSONSlice[DeliveryMethod]{DeliveryChat},
		DeliveryTiming:     TimingImmediate,
		DigestHour:         9,
		QuietHours:         datatypes.NewJSONType(QuietHours{Enabled: true, Start: "22:00", End: "08:00"}),
		Timezone:           "UTC",
		ContentPreferences: datatypes.NewJSONType(ContentPreferences{IncludeAstrologicalContext: true, Tone: "gentle", MaxInsightsPerDay: 5}),
		DataTypes:          append(datatypes.JSONSlice[DataType]{}, AllDataTypes...),
		RetentionDays:      DefaultRetentionDays,
	}
}

// Tracks reports whether the configuration tracks data type t.
func (c *Configuration) Tracks(t DataType) bool {
	for _, dt := range c.DataTypes {
		if dt == t {
			return true
		}
	}
	return false
}

// Location resolves the configured timezone, falling back to UTC.
func (c *Configuration) Location() *time.Location {
	if c.Timezone != "" {
		if loc, err := time.LoadLocation(c.Timezone); err == nil {
			return loc
		}
	}
	return time.UTC
}

// EffectiveMinimumConfidence never drops below HardConfidenceFloor.
func (c *Configuration) EffectiveMinimumConfidence() float64 {
	if c.MinimumConfidence < HardConfidenceFloor {
		return HardConfidenceFloor
	}
	return c.MinimumConfidence
}

// PrimaryDeliveryMethod is the first configured delivery surface.
func (c *Configuration) PrimaryDeliveryMethod() DeliveryMethod {
	if len(c.DeliveryMethods) == 0 {
		return DeliveryChat
	}
	return c.DeliveryMethods[0]
}

// ConfigurationPatch is a partial update; nil fields are left unchanged.
// @Description Partial configuration update.
type ConfigurationPatch struct {
	Enabled            *bool               `json:"enabled,omitempty"`
	MinimumConfidence  *float64            `json:"minimum_confidence,omitempty" validate:"omitempty,min=0.7,max=1" example:"0.75"`
	PatternSensitivity *Sensitivity        `json:"pattern_sensitivity,omitempty" validate:"omitempty,oneof=conservative moderate sensitive"`
	DeliveryMethods    []DeliveryMethod    `json:"delivery_methods,omitempty" validate:"omitempty,min=1,dive,oneof=chat push email"`
	DeliveryTiming     *DeliveryTiming     `json:"delivery_timing,omitempty" validate:"omitempty,oneof=immediate daily_digest weekly_summary"`
	DigestHour         *int                `json:"digest_hour,omitempty" validate:"omitempty,min=0,max=23"`
	QuietHours         *QuietHours         `json:"quiet_hours,omitempty"`
	Timezone           *string             `json:"timezone,omitempty" validate:"omitempty,timezone" example:"Europe/Prague"`
	ContentPreferences *ContentPreferences `json:"content_preferences,omitempty"`
	DataTypes          []DataType          `json:"data_types,omitempty" validate:"omitempty,dive,oneof=mood productivity energy sleep sentiment activity"`
	RetentionDays      *int                `json:"retention_days,omitempty" validate:"omitempty,min=7,max=3650"`
}

// Apply copies the set fields of p onto c.
func (p *ConfigurationPatch) Apply(c *Configuration) error {
	if p.Enabled != nil {
		c.Enabled = *p.Enabled
	}
	if p.MinimumConfidence != nil {
		if *p.MinimumConfidence < HardConfidenceFloor || *p.MinimumConfidence > 1 {
			return Invalid("minimum_confidence", "must be between %.2f and 1", HardConfidenceFloor)
		}
		c.MinimumConfidence = *p.MinimumConfidence
	}
	if p.PatternSensitivity != nil {
		c.PatternSensitivity = *p.PatternSensitivity
	}
	if p.DeliveryMethods != nil {
		c.DeliveryMethods = append(datatypes.JSONSlice[DeliveryMethod]{}, p.DeliveryMethods...)
	}
	if p.DeliveryTiming != nil {
		c.DeliveryTiming = *p.DeliveryTiming
	}
	if p.DigestHour != nil {
		c.DigestHour = *p.DigestHour
	}
	if p.QuietHours != nil {
		qh := *p.QuietHours
		if qh.Enabled {
			if _, err := ParseClock(qh.Start); err != nil {
				return Invalid("quiet_hours.start", "must be HH:MM")
			}
			if _, err := ParseClock(qh.End); err != nil {
				return Invalid("quiet_hours.end", "must be HH:MM")
			}
		}
		c.QuietHours = datatypes.NewJSONType(qh)
	}
	if p.Timezone != nil {
		if _, err := time.LoadLocation(*p.Timezone); err != nil {
			return Invalid("timezone", "must be a valid IANA timezone")
		}
		c.Timezone = *p.Timezone
	}
	if p.ContentPreferences != nil {
		c.ContentPreferences = datatypes.NewJSONType(*p.ContentPreferences)
	}
	if p.DataTypes != nil {
		for _, dt := range p.DataTypes {
			if !dt.Valid() {
				return Invalid("data_types", "contains unknown data type %q", dt)
			}
		}
		c.DataTypes = append(datatypes.JSONSlice[DataType]{}, p.DataTypes...)
	}
	if p.RetentionDays != nil {
		c.RetentionDays = *p.RetentionDays
	}
	return nil
}

// ParseClock parses "HH:MM" into minutes after midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}
