package service

import (
	"context"
	"math"
	"time"

	"github.com/blaisecz/insight-engine/internal/domain"
	"github.com/blaisecz/insight-engine/internal/logger"
	"github.com/blaisecz/insight-engine/internal/repository"
	"github.com/blaisecz/insight-engine/internal/significance"
	"github.com/blaisecz/insight-engine/internal/telemetry"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	// materialChange is how far significance or correlation must move before a
	// rule is re-derived from its pattern.
	materialChange = 0.01
	// neutralBand is the correlation magnitude below which a rule has no direction.
	neutralBand = 0.05
	// decayFactor scales a rule's confidence down when recent data disagrees.
	decayFactor = 0.8
)

// retirementFloor is the confidence below which a rule is retired.
var retirementFloor = domain.DefaultConfidenceThreshold * significance.SampleAdequacy(domain.MinimumPatternOccurrences)

// SynthesisOutcome reports what Synthesize did.
type SynthesisOutcome string

const (
	SynthesisUnchanged SynthesisOutcome = "unchanged"
	SynthesisCreated   SynthesisOutcome = "created"
	SynthesisUpdated   SynthesisOutcome = "updated"
	SynthesisSkipped   SynthesisOutcome = "skipped"
)

// RevalidationResult counts what one revalidation run changed.
type RevalidationResult struct {
	UserID       uuid.UUID `json:"user_id"`
	Checked      int       `json:"checked"`
	Confirmed    int       `json:"confirmed"`
	Weakened     int       `json:"weakened"`
	Retired      int       `json:"retired"`
	Inconclusive int       `json:"inconclusive"`
}

type RuleSynthesizer interface {
	// Synthesize derives or refreshes the rule for a pattern.
	Synthesize(ctx context.Context, pattern *domain.Pattern, now time.Time) (*domain.PredictiveRule, SynthesisOutcome, error)
	// Revalidate re-tests rules that were last validated before the revalidation
	// interval against recent data.
	Revalidate(ctx context.Context, userID uuid.UUID, now time.Time) (*RevalidationResult, error)
}

// RevalidationSettings controls Revalidate.
type RevalidationSettings struct {
	// After is how long a rule stays trusted before it is re-tested.
	After time.Duration
	// Lookback is the span of recent data a rule is re-tested on.
	Lookback time.Duration
}

type ruleSynthesizer struct {
	rules    repository.RuleRepository
	patterns repository.PatternRepository
	points   repository.DataPointRepository
	events   repository.EventRepository
	window   time.Duration
	settings RevalidationSettings
	metrics  *telemetry.Metrics
	log      *logger.Logger
}

func NewRuleSynthesizer(
	rules repository.RuleRepository,
	patterns repository.PatternRepository,
	points repository.DataPointRepository,
	events repository.EventRepository,
	window time.Duration,
	settings RevalidationSettings,
	metrics *telemetry.Metrics,
	log *logger.Logger,
) RuleSynthesizer {
	return &ruleSynthesizer{
		rules:    rules,
		patterns: patterns,
		points:   points,
		events:   events,
		window:   window,
		settings: settings,
		metrics:  metrics,
		log:      log.With("component", "RuleSynthesizer"),
	}
}

func (s *ruleSynthesizer) Synthesize(ctx context.Context, pattern *domain.Pattern, now time.Time) (*domain.PredictiveRule, SynthesisOutcome, error) {
	latest, err := s.rules.FindLatestByPattern(ctx, pattern.ID)
	if err != nil {
		return nil, "", err
	}
	if latest != nil && !materiallyChanged(latest, pattern) {
		return latest, SynthesisUnchanged, nil
	}

	confidence := ruleConfidence(pattern)
	state := stateFor(confidence)

	if latest == nil || latest.Retired() {
		if state == domain.RuleStateRetired {
			return nil, SynthesisSkipped, nil
		}
		rule := &domain.PredictiveRule{
			UserID:    pattern.UserID,
			PatternID: pattern.ID,
			DataType:  pattern.DataType,
			Conditions: datatypes.NewJSONType(domain.RuleConditions{
				TimeWindowHours: int(s.window / time.Hour),
				MinOccurrences:  domain.MinimumPatternOccurrences,
				DataTypes:       []domain.DataType{pattern.DataType},
			}),
			CreatedAt: now,
		}
		if pattern.EventType != nil {
			rule.EventType = *pattern.EventType
		}
		applyPattern(rule, pattern, confidence, state, now)
		if err := s.rules.Create(ctx, rule); err != nil {
			return nil, "", err
		}
		s.metrics.RecordRule(string(rule.State), "created")
		return rule, SynthesisCreated, nil
	}

	applyPattern(latest, pattern, confidence, state, now)
	if err := s.rules.Update(ctx, latest); err != nil {
		return nil, "", err
	}
	s.metrics.RecordRule(string(latest.State), "updated")
	return latest, SynthesisUpdated, nil
}

func applyPattern(rule *domain.PredictiveRule, pattern *domain.Pattern, confidence float64, state domain.RuleState, now time.Time) {
	rule.Direction = direction(pattern.CorrelationStrength)
	rule.Magnitude = math.Abs(pattern.CorrelationStrength)
	rule.Confidence = confidence
	rule.Significance = pattern.Significance
	rule.PatternConfidence = pattern.Confidence
	rule.SourceCorrelation = pattern.CorrelationStrength
	rule.SourceSignificance = pattern.Significance
	rule.LastValidated = now
	setState(rule, state, now)
}

func setState(rule *domain.PredictiveRule, state domain.RuleState, now time.Time) {
	if state == domain.RuleStateRetired {
		rule.Retire(now)
		return
	}
	if !rule.Retired() {
		rule.State = state
	}
}

// ruleConfidence discounts the pattern confidence by sample adequacy, so it never exceeds it.
func ruleConfidence(p *domain.Pattern) float64 {
	return p.Confidence * significance.SampleAdequacy(p.SampleSize)
}

func stateFor(confidence float64) domain.RuleState {
	switch {
	case confidence >= domain.DefaultConfidenceThreshold:
		return domain.RuleStateActive
	case confidence >= retirementFloor:
		return domain.RuleStateInactive
	default:
		return domain.RuleStateRetired
	}
}

func direction(effect float64) domain.Direction {
	switch {
	case effect > neutralBand:
		return domain.DirectionPositive
	case effect < -neutralBand:
		return domain.DirectionNegative
	default:
		return domain.DirectionNeutral
	}
}

func materiallyChanged(rule *domain.PredictiveRule, p *domain.Pattern) bool {
	return math.Abs(rule.SourceSignificance-p.Significance) > materialChange ||
		math.Abs(rule.SourceCorrelation-p.CorrelationStrength) > materialChange
}

func (s *ruleSynthesizer) Revalidate(ctx context.Context, userID uuid.UUID, now time.Time) (*RevalidationResult, error) {
	result := &RevalidationResult{UserID: userID}

	due, err := s.rules.ListDueForRevalidation(ctx, userID, now.Add(-s.settings.After))
	if err != nil {
		return nil, err
	}
	if len(due) == 0 {
		return result, nil
	}

	from := now.Add(-s.settings.Lookback)
	events, err := s.events.ListForUser(ctx, userID, from.Add(-s.window), now)
	if err != nil {
		return nil, domain.Upstream("event catalog", err)
	}
	byType := occurrencesByType(events, now)
	pointsByType := make(map[domain.DataType][]domain.DataPoint)

	for i := range due {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		rule := &due[i]
		result.Checked++

		// Cyclic rules have no event to re-test against; only their timestamp moves.
		if rule.EventType == "" {
			rule.LastValidated = now
			if err := s.rules.Update(ctx, rule); err != nil {
				return result, err
			}
			continue
		}

		occurrences := byType[rule.EventType]
		if len(occurrences) < rule.Conditions.Data().MinOccurrences {
			result.Inconclusive++
			continue
		}

		points, ok := pointsByType[rule.DataType]
		if !ok {
			points, err = s.points.ListByRange(ctx, userID, rule.DataType, from, now)
			if err != nil {
				return result, domain.Upstream("data points", err)
			}
			pointsByType[rule.DataType] = points
		}

		shift, err := eventShift(points, occurrences, rule.Window(), rule.DataType.Baseline())
		if err != nil {
			result.Inconclusive++
			continue
		}

		pattern, err := s.patterns.GetByID(ctx, rule.PatternID)
		if err != nil {
			return result, err
		}
		ceiling := ruleConfidence(pattern)

		consistent := shift.PValue <= domain.SignificanceThreshold && direction(shift.Effect) == rule.Direction
		if consistent {
			rule.Confidence = math.Min(ceiling, rule.Confidence/decayFactor)
			result.Confirmed++
		} else {
			rule.Confidence *= decayFactor
			result.Weakened++
		}
		rule.LastValidated = now
		setState(rule, stateFor(rule.Confidence), now)
		if rule.Retired() {
			result.Retired++
		}

		if err := s.rules.Update(ctx, rule); err != nil {
			return result, err
		}
		s.metrics.RecordRule(string(rule.State), "revalidated")
		s.log.Debug("Rule revalidated", "rule_id", rule.ID, "consistent", consistent, "confidence", rule.Confidence, "state", rule.State)
	}

	return result, nil
}
