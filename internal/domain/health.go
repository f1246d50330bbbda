package domain

import (
	"time"

	"github.com/google/uuid"
)

// Health is a read-only projection of a user's persisted engine state.
// @Description Engine health for external dashboards.
type Health struct {
	UserID                uuid.UUID  `json:"user_id"`
	ConfigLoaded          bool       `json:"config_loaded"`
	HasActiveInsights     bool       `json:"has_active_insights"`
	HasPatterns           bool       `json:"has_patterns"`
	DataCollectedRecently bool       `json:"data_collected_recently"`
	PatternCount          int64      `json:"pattern_count"`
	ActiveRuleCount       int64      `json:"active_rule_count"`
	ActiveInsightCount    int64      `json:"active_insight_count"`
	LastDataPointAt       *time.Time `json:"last_data_point_at,omitempty"`
	ComputedAt            time.Time  `json:"computed_at"`
}

// PassResult summarises one detection pass.
// @Description Counts produced by a detection pass.
type PassResult struct {
	UserID          uuid.UUID      `json:"user_id"`
	PatternsCreated int            `json:"patterns_created"`
	PatternsUpdated int            `json:"patterns_updated"`
	RulesCreated    int            `json:"rules_created"`
	RulesUpdated    int            `json:"rules_updated"`
	InsightsEmitted int            `json:"insights_emitted"`
	InsightsExpired int            `json:"insights_expired"`
	Suppressed      map[string]int `json:"suppressed,omitempty"`
	StartedAt       time.Time      `json:"started_at"`
	FinishedAt      time.Time      `json:"finished_at"`
}
