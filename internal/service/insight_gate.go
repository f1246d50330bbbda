package service

import (
	"context"
	"sort"
	"time"

	"github.com/blaisecz/insight-engine/internal/domain"
	"github.com/blaisecz/insight-engine/internal/langfuse"
	"github.com/blaisecz/insight-engine/internal/llm"
	"github.com/blaisecz/insight-engine/internal/logger"
	"github.com/blaisecz/insight-engine/internal/notify"
	"github.com/blaisecz/insight-engine/internal/repository"
	"github.com/blaisecz/insight-engine/internal/telemetry"
	"github.com/google/uuid"
)

// Suppression reasons reported by the gate.
const (
	SuppressHardFloor     = "hard_floor"
	SuppressIneligible    = "ineligible"
	SuppressDisabled      = "disabled"
	SuppressBelowMinimum  = "below_user_minimum"
	SuppressUntracked     = "untracked"
	SuppressDuplicate     = "duplicate"
	SuppressDailyCap      = "daily_cap"
	SuppressExpiresBefore = "expires_before_delivery"
)

// GateResult lists what one gate run emitted and why the rest was dropped.
type GateResult struct {
	Emitted    []domain.Insight
	Suppressed map[string]int
}

func (r *GateResult) suppress(reason string) {
	if r.Suppressed == nil {
		r.Suppressed = make(map[string]int)
	}
	r.Suppressed[reason]++
}

type InsightGate interface {
	// Evaluate pairs the user's rules with events relevant at now and emits the
	// insights that clear every gate.
	Evaluate(ctx context.Context, cfg *domain.Configuration, rules []domain.PredictiveRule, events []domain.AstrologicalEvent, now time.Time) (*GateResult, error)
}

type insightGate struct {
	insights  repository.InsightRepository
	renderer  llm.Renderer
	publisher notify.Publisher
	tracer    langfuse.Client
	metrics   *telemetry.Metrics
	log       *logger.Logger
}

func NewInsightGate(
	insights repository.InsightRepository,
	renderer llm.Renderer,
	publisher notify.Publisher,
	tracer langfuse.Client,
	metrics *telemetry.Metrics,
	log *logger.Logger,
) InsightGate {
	return &insightGate{
		insights:  insights,
		renderer:  renderer,
		publisher: publisher,
		tracer:    tracer,
		metrics:   metrics,
		log:       log.With("component", "InsightGate"),
	}
}

type firing struct {
	rule  *domain.PredictiveRule
	event *domain.AstrologicalEvent
}

func (g *insightGate) Evaluate(ctx context.Context, cfg *domain.Configuration, rules []domain.PredictiveRule, events []domain.AstrologicalEvent, now time.Time) (*GateResult, error) {
	result := &GateResult{}

	var firings []firing
	for i := range rules {
		rule := &rules[i]
		if rule.EventType == "" {
			continue
		}
		for j := range events {
			ev := &events[j]
			if ev.EventType == rule.EventType && ev.RelevantAt(now, rule.Window()) {
				firings = append(firings, firing{rule: rule, event: ev})
			}
		}
	}
	// Strongest first, so the daily cap keeps the best insights.
	sort.SliceStable(firings, func(i, j int) bool {
		if firings[i].rule.Confidence != firings[j].rule.Confidence {
			return firings[i].rule.Confidence > firings[j].rule.Confidence
		}
		return firings[i].event.StartTime.Before(firings[j].event.StartTime)
	})

	var emittedToday int64 = -1
	for _, f := range firings {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if reason := admit(cfg, f.rule); reason != "" {
			g.drop(result, reason)
			continue
		}

		live, err := g.insights.HasLive(ctx, cfg.UserID, f.rule.ID, f.event.ID)
		if err != nil {
			return result, err
		}
		if live {
			g.drop(result, SuppressDuplicate)
			continue
		}

		prefs := cfg.ContentPreferences.Data()
		if prefs.MaxInsightsPerDay > 0 {
			if emittedToday < 0 {
				emittedToday, err = g.insights.CountCreatedSince(ctx, cfg.UserID, startOfLocalDay(now, cfg.Location()))
				if err != nil {
					return result, err
				}
			}
			if emittedToday >= int64(prefs.MaxInsightsPerDay) {
				g.drop(result, SuppressDailyCap)
				continue
			}
		}

		insight := buildInsight(cfg, f.rule, f.event, now)
		if !insight.DeliveryTime.Before(insight.ExpirationTime) {
			g.drop(result, SuppressExpiresBefore)
			continue
		}

		rendered, err := g.renderer.Render(ctx, renderInput(insight, f.rule, f.event, prefs, now))
		if err != nil {
			return result, err
		}
		insight.Title = rendered.Title
		insight.Message = rendered.Message
		insight.Personalized = rendered.Personalized

		outcome, err := g.insights.CreateGated(ctx, insight)
		if err != nil {
			return result, err
		}
		switch outcome {
		case repository.OutcomeDuplicate:
			g.drop(result, SuppressDuplicate)
			continue
		case repository.OutcomeRuleIneligible:
			g.drop(result, SuppressIneligible)
			continue
		}

		if emittedToday >= 0 {
			emittedToday++
		}
		result.Emitted = append(result.Emitted, *insight)
		g.metrics.RecordInsightEmitted(string(insight.Type), string(insight.Priority))
		g.announce(ctx, insight, f)
	}

	return result, nil
}

func (g *insightGate) drop(result *GateResult, reason string) {
	result.suppress(reason)
	g.metrics.RecordInsightSuppressed(reason)
}

// announce publishes the insight and records its rendering in Langfuse. Both are
// best-effort; failures are logged and never undo the insert.
func (g *insightGate) announce(ctx context.Context, insight *domain.Insight, f firing) {
	if err := g.publisher.Publish(ctx, insight); err != nil {
		g.log.Warn("Failed to publish insight", "insight_id", insight.ID, "error", err)
	}
	if !insight.Personalized || !g.tracer.IsEnabled() {
		return
	}
	_, err := g.tracer.CreateTrace(ctx, langfuse.TraceInput{
		ID:     insight.ID.String(),
		UserID: insight.UserID.String(),
		Name:   "insight-render",
		Input: map[string]any{
			"rule_id":    f.rule.ID,
			"event_type": f.event.EventType,
			"direction":  f.rule.Direction,
			"confidence": f.rule.Confidence,
		},
		Output: map[string]any{"title": insight.Title, "message": insight.Message},
		Tags:   []string{"pie", string(insight.Type)},
	})
	if err != nil {
		g.log.Warn("Failed to trace insight", "insight_id", insight.ID, "error", err)
	}
}

// admit applies the hard floor, rule eligibility and the user's configuration.
// It returns the suppression reason, or "" when the rule may fire.
func admit(cfg *domain.Configuration, rule *domain.PredictiveRule) string {
	switch {
	case rule.Confidence < domain.HardConfidenceFloor:
		return SuppressHardFloor
	case !rule.Eligible():
		return SuppressIneligible
	case !cfg.Enabled:
		return SuppressDisabled
	case rule.Confidence < cfg.EffectiveMinimumConfidence():
		return SuppressBelowMinimum
	case !cfg.Tracks(rule.DataType):
		return SuppressUntracked
	}
	return ""
}

func buildInsight(cfg *domain.Configuration, rule *domain.PredictiveRule, ev *domain.AstrologicalEvent, now time.Time) *domain.Insight {
	insightType := insightTypeFor(rule.Direction, ev, now)
	return &domain.Insight{
		ID:             uuid.New(),
		UserID:         cfg.UserID,
		PatternID:      rule.PatternID,
		RuleID:         rule.ID,
		TriggerEventID: ev.ID,
		DataType:       rule.DataType,
		Type:           insightType,
		Priority:       priorityFor(insightType, rule.Confidence, ev.Intensity),
		TriggerTime:    now,
		DeliveryTime:   deliveryTime(cfg, now),
		ExpirationTime: ev.RelevanceEnd(rule.Window()),
		Confidence:     rule.Confidence,
		Status:         domain.InsightCandidate,
		CreatedAt:      now,
	}
}

func renderInput(insight *domain.Insight, rule *domain.PredictiveRule, ev *domain.AstrologicalEvent, prefs domain.ContentPreferences, now time.Time) llm.RenderInput {
	return llm.RenderInput{
		InsightID:           insight.ID,
		UserID:              insight.UserID,
		DataType:            rule.DataType,
		InsightType:         insight.Type,
		Priority:            insight.Priority,
		Direction:           rule.Direction,
		Magnitude:           rule.Magnitude,
		Confidence:          rule.Confidence,
		EventType:           ev.EventType,
		EventName:           ev.Name,
		EventStart:          ev.StartTime,
		EventStarted:        !now.Before(ev.StartTime),
		Tone:                prefs.Tone,
		IncludeAstroContext: prefs.IncludeAstrologicalContext,
	}
}

func insightTypeFor(dir domain.Direction, ev *domain.AstrologicalEvent, now time.Time) domain.InsightType {
	switch dir {
	case domain.DirectionNegative:
		if now.Before(ev.StartTime) {
			return domain.InsightPreparation
		}
		return domain.InsightWarning
	case domain.DirectionPositive:
		return domain.InsightOpportunity
	default:
		return domain.InsightAwareness
	}
}

// basePriority is the priority of an insight that just cleared the hard
// confidence floor. Actionable types start at high.
var basePriority = map[domain.InsightType]domain.Priority{
	domain.InsightWarning:     domain.PriorityHigh,
	domain.InsightOpportunity: domain.PriorityHigh,
	domain.InsightPreparation: domain.PriorityMedium,
	domain.InsightAwareness:   domain.PriorityLow,
}

func priorityFor(t domain.InsightType, confidence, intensity float64) domain.Priority {
	if confidence >= domain.HighPriorityThreshold && intensity >= domain.HighIntensityThreshold {
		return domain.PriorityCritical
	}
	p, ok := basePriority[t]
	if !ok {
		p = domain.PriorityLow
	}
	if confidence >= domain.HighPriorityThreshold {
		return p.Shift(1)
	}
	return p
}

// deliveryTime applies the delivery timing, then defers out of quiet hours.
func deliveryTime(cfg *domain.Configuration, now time.Time) time.Time {
	loc := cfg.Location()
	local := now.In(loc)

	at := local
	switch cfg.DeliveryTiming {
	case domain.TimingDailyDigest:
		at = nextAt(local, cfg.DigestHour, 0)
	case domain.TimingWeeklySummary:
		at = nextAt(local, cfg.DigestHour, 0)
		for at.Weekday() != time.Monday {
			at = at.AddDate(0, 0, 1)
		}
	}

	return deferQuietHours(cfg.QuietHours.Data(), at).UTC()
}

// nextAt returns the first hour:minute wall-clock time at or after t in t's location.
func nextAt(t time.Time, hour, minute int) time.Time {
	at := time.Date(t.Year(), t.Month(), t.Day(), hour, minute, 0, 0, t.Location())
	if at.Before(t) {
		at = time.Date(t.Year(), t.Month(), t.Day()+1, hour, minute, 0, 0, t.Location())
	}
	return at
}

// deferQuietHours moves t to the end of quiet hours when it falls in [start, end).
// A start after end wraps midnight; start equal to end disables the window.
func deferQuietHours(qh domain.QuietHours, t time.Time) time.Time {
	if !qh.Enabled {
		return t
	}
	start, err := domain.ParseClock(qh.Start)
	if err != nil {
		return t
	}
	end, err := domain.ParseClock(qh.End)
	if err != nil || start == end {
		return t
	}

	minute := t.Hour()*60 + t.Minute()
	endToday := time.Date(t.Year(), t.Month(), t.Day(), end/60, end%60, 0, 0, t.Location())
	switch {
	case start < end:
		if minute >= start && minute < end {
			return endToday
		}
	case minute >= start:
		return endToday.AddDate(0, 0, 1)
	case minute < end:
		return endToday
	}
	return t
}

func startOfLocalDay(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc).UTC()
}
