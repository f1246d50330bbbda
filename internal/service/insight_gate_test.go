package service

import (
	"context"
	"testing"
	"time"

	"github.com/blaisecz/insight-engine/internal/domain"
	"github.com/blaisecz/insight-engine/internal/langfuse"
	"github.com/blaisecz/insight-engine/internal/llm"
	"github.com/blaisecz/insight-engine/internal/logger"
	"github.com/blaisecz/insight-engine/internal/notify"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestPriorityFor(t *testing.T) {
	tests := []struct {
		name       string
		typ        domain.InsightType
		confidence float64
		intensity  float64
		want       domain.Priority
	}{
		{"critical needs confidence and intensity", domain.InsightOpportunity, 0.85, 0.9, domain.PriorityCritical},
		{"warning at gate", domain.InsightWarning, 0.71, 0.2, domain.PriorityHigh},
		{"opportunity at gate", domain.InsightOpportunity, 0.72, 0.5, domain.PriorityHigh},
		{"opportunity mid bucket", domain.InsightOpportunity, 0.76, 0.5, domain.PriorityHigh},
		{"opportunity high confidence", domain.InsightOpportunity, 0.85, 0.5, domain.PriorityHigh},
		{"preparation base", domain.InsightPreparation, 0.72, 0.2, domain.PriorityMedium},
		{"awareness base", domain.InsightAwareness, 0.77, 0.2, domain.PriorityLow},
		{"high confidence raises preparation", domain.InsightPreparation, 0.82, 0.2, domain.PriorityHigh},
		{"high confidence raises awareness", domain.InsightAwareness, 0.82, 0.9, domain.PriorityMedium},
		{"high confidence never reaches critical alone", domain.InsightWarning, 0.95, 0.2, domain.PriorityHigh},
		{"intense event without confidence", domain.InsightPreparation, 0.78, 0.95, domain.PriorityMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, priorityFor(tt.typ, tt.confidence, tt.intensity))
		})
	}
}

func TestInsightTypeFor(t *testing.T) {
	ev := &domain.AstrologicalEvent{StartTime: testNow}

	assert.Equal(t, domain.InsightPreparation, insightTypeFor(domain.DirectionNegative, ev, testNow.Add(-time.Hour)))
	assert.Equal(t, domain.InsightWarning, insightTypeFor(domain.DirectionNegative, ev, testNow))
	assert.Equal(t, domain.InsightWarning, insightTypeFor(domain.DirectionNegative, ev, testNow.Add(time.Hour)))
	assert.Equal(t, domain.InsightOpportunity, insightTypeFor(domain.DirectionPositive, ev, testNow.Add(-time.Hour)))
	assert.Equal(t, domain.InsightAwareness, insightTypeFor(domain.DirectionNeutral, ev, testNow))
}

func TestDeferQuietHours(t *testing.T) {
	night := domain.QuietHours{Enabled: true, Start: "22:00", End: "08:00"}
	lunch := domain.QuietHours{Enabled: true, Start: "12:00", End: "13:00"}
	at := func(h, m int) time.Time { return time.Date(2024, 3, 1, h, m, 0, 0, time.UTC) }

	tests := []struct {
		name string
		qh   domain.QuietHours
		in   time.Time
		want time.Time
	}{
		{"before wrap window", night, at(21, 59), at(21, 59)},
		{"window start is quiet", night, at(22, 0), at(8, 0).AddDate(0, 0, 1)},
		{"after midnight", night, at(3, 30), at(8, 0)},
		{"window end is not quiet", night, at(8, 0), at(8, 0)},
		{"same-day window", lunch, at(12, 30), at(13, 0)},
		{"outside same-day window", lunch, at(13, 0), at(13, 0)},
		{"disabled", domain.QuietHours{Start: "22:00", End: "08:00"}, at(23, 0), at(23, 0)},
		{"empty window", domain.QuietHours{Enabled: true, Start: "10:00", End: "10:00"}, at(10, 0), at(10, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, deferQuietHours(tt.qh, tt.in))
		})
	}
}

func TestDeliveryTime(t *testing.T) {
	userID := uuid.New()
	// Friday 2024-03-01 12:00 UTC.
	now := testNow

	t.Run("immediate", func(t *testing.T) {
		cfg := domain.DefaultConfiguration(userID)
		assert.Equal(t, now, deliveryTime(cfg, now))
	})

	t.Run("daily digest later today", func(t *testing.T) {
		cfg := domain.DefaultConfiguration(userID)
		cfg.DeliveryTiming = domain.TimingDailyDigest
		cfg.DigestHour = 18
		assert.Equal(t, time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC), deliveryTime(cfg, now))
	})

	t.Run("daily digest tomorrow", func(t *testing.T) {
		cfg := domain.DefaultConfiguration(userID)
		cfg.DeliveryTiming = domain.TimingDailyDigest
		cfg.DigestHour = 9
		assert.Equal(t, time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC), deliveryTime(cfg, now))
	})

	t.Run("weekly summary on monday", func(t *testing.T) {
		cfg := domain.DefaultConfiguration(userID)
		cfg.DeliveryTiming = domain.TimingWeeklySummary
		cfg.DigestHour = 9
		got := deliveryTime(cfg, now)
		assert.Equal(t, time.Monday, got.Weekday())
		assert.Equal(t, time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC), got)
	})

	t.Run("digest hour inside quiet hours is deferred", func(t *testing.T) {
		cfg := domain.DefaultConfiguration(userID)
		cfg.DeliveryTiming = domain.TimingDailyDigest
		cfg.DigestHour = 23
		assert.Equal(t, time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC), deliveryTime(cfg, now))
	})

	t.Run("quiet hours in user timezone", func(t *testing.T) {
		cfg := domain.DefaultConfiguration(userID)
		cfg.Timezone = "Asia/Tokyo"
		// 13:30 UTC is 22:30 in Tokyo, quiet until 08:00 local.
		late := time.Date(2024, 3, 1, 13, 30, 0, 0, time.UTC)
		assert.Equal(t, time.Date(2024, 3, 1, 23, 0, 0, 0, time.UTC), deliveryTime(cfg, late))
	})
}

func TestAdmit_HardFloorHolds(t *testing.T) {
	userID := uuid.New()
	cfg := domain.DefaultConfiguration(userID)
	// Even a misconfigured minimum below the floor cannot let a weak rule through.
	cfg.MinimumConfidence = 0.1

	for c := 0.0; c <= 1.0; c += 0.01 {
		rule := &domain.PredictiveRule{
			DataType:   domain.DataTypeMood,
			Confidence: c,
			State:      domain.RuleStateActive,
		}
		reason := admit(cfg, rule)
		if c < domain.HardConfidenceFloor {
			assert.Equal(t, SuppressHardFloor, reason, "confidence %.2f", c)
		} else {
			assert.Empty(t, reason, "confidence %.2f", c)
		}
	}
}

func TestAdmit(t *testing.T) {
	userID := uuid.New()
	rule := func(state domain.RuleState, c float64, dt domain.DataType) *domain.PredictiveRule {
		return &domain.PredictiveRule{DataType: dt, Confidence: c, State: state}
	}
	strict := domain.DefaultConfiguration(userID)
	strict.MinimumConfidence = 0.9
	moodOnly := domain.DefaultConfiguration(userID)
	moodOnly.DataTypes = datatypes.JSONSlice[domain.DataType]{domain.DataTypeMood}

	assert.Equal(t, SuppressIneligible, admit(domain.DefaultConfiguration(userID), rule(domain.RuleStateInactive, 0.8, domain.DataTypeMood)))
	assert.Equal(t, SuppressIneligible, admit(domain.DefaultConfiguration(userID), rule(domain.RuleStateRetired, 0.8, domain.DataTypeMood)))
	assert.Equal(t, SuppressBelowMinimum, admit(strict, rule(domain.RuleStateActive, 0.85, domain.DataTypeMood)))
	assert.Equal(t, SuppressUntracked, admit(moodOnly, rule(domain.RuleStateActive, 0.85, domain.DataTypeSleep)))
	assert.Empty(t, admit(moodOnly, rule(domain.RuleStateActive, 0.85, domain.DataTypeMood)))
}

func gateRule(userID uuid.UUID, confidence float64) domain.PredictiveRule {
	return domain.PredictiveRule{
		ID:         uuid.New(),
		UserID:     userID,
		PatternID:  uuid.New(),
		EventType:  "mercury_retrograde",
		DataType:   domain.DataTypeProductivity,
		Direction:  domain.DirectionNegative,
		Magnitude:  0.4,
		Confidence: confidence,
		Conditions: datatypes.NewJSONType(domain.RuleConditions{TimeWindowHours: 48, MinOccurrences: 3}),
		State:      domain.RuleStateActive,
	}
}

func TestInsightGate_Evaluate(t *testing.T) {
	userID := uuid.New()
	log := logger.Nop()
	tracer := &MockLangfuseClient{}
	insights := NewMockInsightRepository()
	gate := NewInsightGate(insights, llm.NewFallbackRenderer(nil, 0, log), notify.Noop(), tracer, nil, log)

	cfg := domain.DefaultConfiguration(userID)
	event := domain.AstrologicalEvent{
		ID:        uuid.New(),
		EventType: "mercury_retrograde",
		Name:      "Mercury Retrograde",
		StartTime: testNow.Add(12 * time.Hour),
		Intensity: 0.9,
	}
	unrelated := domain.AstrologicalEvent{ID: uuid.New(), EventType: "eclipse", StartTime: testNow}
	rules := []domain.PredictiveRule{
		gateRule(userID, 0.65),
		gateRule(userID, 0.76),
		gateRule(userID, 0.86),
	}

	result, err := gate.Evaluate(context.Background(), cfg, rules, []domain.AstrologicalEvent{event, unrelated}, testNow)
	require.NoError(t, err)
	require.Len(t, result.Emitted, 2)
	assert.Equal(t, 1, result.Suppressed[SuppressHardFloor])

	// Strongest rule first.
	first := result.Emitted[0]
	assert.Equal(t, rules[2].ID, first.RuleID)
	assert.Equal(t, domain.InsightPreparation, first.Type)
	assert.Equal(t, domain.PriorityCritical, first.Priority)
	assert.Equal(t, event.StartTime.Add(48*time.Hour), first.ExpirationTime)
	assert.Equal(t, domain.InsightCandidate, first.Status)
	assert.NotEqual(t, uuid.Nil, first.ID)

	second := result.Emitted[1]
	assert.Equal(t, domain.PriorityMedium, second.Priority)
	assert.Len(t, insights.insights, 2)
	assert.Empty(t, tracer.traces, "template renderings are not traced")
}

func TestInsightGate_SuppressesWhenExpiringBeforeDelivery(t *testing.T) {
	userID := uuid.New()
	log := logger.Nop()
	gate := NewInsightGate(NewMockInsightRepository(), llm.TemplateRenderer{}, notify.Noop(), langfuse.NewClient(langfuse.Config{}, log), nil, log)

	cfg := domain.DefaultConfiguration(userID)
	cfg.DeliveryTiming = domain.TimingWeeklySummary
	event := domain.AstrologicalEvent{ID: uuid.New(), EventType: "mercury_retrograde", StartTime: testNow.Add(-40 * time.Hour)}

	result, err := gate.Evaluate(context.Background(), cfg, []domain.PredictiveRule{gateRule(userID, 0.8)}, []domain.AstrologicalEvent{event}, testNow)
	require.NoError(t, err)
	assert.Empty(t, result.Emitted)
	assert.Equal(t, 1, result.Suppressed[SuppressExpiresBefore])
}

func TestInsightGate_DailyCap(t *testing.T) {
	userID := uuid.New()
	log := logger.Nop()
	gate := NewInsightGate(NewMockInsightRepository(), llm.TemplateRenderer{}, notify.Noop(), langfuse.NewClient(langfuse.Config{}, log), nil, log)

	cfg := domain.DefaultConfiguration(userID)
	prefs := cfg.ContentPreferences.Data()
	prefs.MaxInsightsPerDay = 1
	cfg.ContentPreferences = datatypes.NewJSONType(prefs)

	event := domain.AstrologicalEvent{ID: uuid.New(), EventType: "mercury_retrograde", StartTime: testNow}
	rules := []domain.PredictiveRule{gateRule(userID, 0.75), gateRule(userID, 0.9)}

	result, err := gate.Evaluate(context.Background(), cfg, rules, []domain.AstrologicalEvent{event}, testNow)
	require.NoError(t, err)
	require.Len(t, result.Emitted, 1)
	assert.Equal(t, rules[1].ID, result.Emitted[0].RuleID)
	assert.Equal(t, 1, result.Suppressed[SuppressDailyCap])
}
