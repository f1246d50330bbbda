package service

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/blaisecz/insight-engine/internal/domain"
	"github.com/blaisecz/insight-engine/internal/logger"
	"github.com/blaisecz/insight-engine/internal/repository"
	"github.com/blaisecz/insight-engine/internal/significance"
	"github.com/blaisecz/insight-engine/internal/telemetry"
	"github.com/google/uuid"
)

// cyclePeriods are the candidate cycle lengths in days; 29.5 is the synodic month.
var cyclePeriods = []float64{7, 14, 28, 29.5}

// Candidate is a statistically accepted regularity that has not been stored yet.
type Candidate struct {
	Kind       domain.PatternKind
	EventType  string
	PeriodDays float64
	Effect     float64
	PValue     float64
	SampleSize int
}

// Key identifies the candidate among a user's patterns of one data type.
func (c Candidate) Key() string {
	return domain.PatternKey(c.Kind, c.EventType, c.PeriodDays)
}

// Confidence blends effect size with significance: |r|·(1−p).
func (c Candidate) Confidence() float64 {
	return math.Abs(c.Effect) * (1 - c.PValue)
}

type PatternDetector interface {
	// Scan finds accepted candidates in one data type's points. It is pure and
	// stops with ctx.Err() at the next candidate boundary once ctx is done.
	Scan(ctx context.Context, dataType domain.DataType, sensitivity domain.Sensitivity, points []domain.DataPoint, events []domain.AstrologicalEvent, now time.Time) ([]Candidate, error)
	// Persist upserts a candidate on its pattern key and reports whether it was new.
	Persist(ctx context.Context, userID uuid.UUID, dataType domain.DataType, c Candidate, now time.Time) (*domain.Pattern, bool, error)
}

type patternDetector struct {
	repo     repository.PatternRepository
	window   time.Duration
	lookback time.Duration
	metrics  *telemetry.Metrics
	log      *logger.Logger
}

func NewPatternDetector(repo repository.PatternRepository, window, lookback time.Duration, metrics *telemetry.Metrics, log *logger.Logger) PatternDetector {
	return &patternDetector{
		repo:     repo,
		window:   window,
		lookback: lookback,
		metrics:  metrics,
		log:      log.With("component", "PatternDetector"),
	}
}

func (d *patternDetector) Scan(ctx context.Context, dataType domain.DataType, sensitivity domain.Sensitivity, points []domain.DataPoint, events []domain.AstrologicalEvent, now time.Time) ([]Candidate, error) {
	var out []Candidate

	cyclic, err := d.scanCyclic(ctx, sensitivity, points)
	if err != nil {
		return nil, err
	}
	if cyclic != nil {
		out = append(out, *cyclic)
	}

	byType := occurrencesByType(events, now)
	types := make([]string, 0, len(byType))
	for t := range byType {
		types = append(types, t)
	}
	sort.Strings(types)

	baseline := dataType.Baseline()
	for _, eventType := range types {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		occurrences := byType[eventType]
		if len(occurrences) < domain.MinimumPatternOccurrences {
			continue
		}
		shift, err := eventShift(points, occurrences, d.window, baseline)
		if err != nil {
			continue
		}
		if !accepted(sensitivity, shift.SampleSize, shift.PValue, shift.Effect) {
			continue
		}
		out = append(out, Candidate{
			Kind:       domain.PatternEventTriggered,
			EventType:  eventType,
			Effect:     shift.Effect,
			PValue:     shift.PValue,
			SampleSize: shift.SampleSize,
		})
	}
	return out, nil
}

// scanCyclic returns the strongest accepted positive autocorrelation, or nil.
func (d *patternDetector) scanCyclic(ctx context.Context, sensitivity domain.Sensitivity, points []domain.DataPoint) (*Candidate, error) {
	series := dailySeries(points)
	var best *Candidate
	for _, period := range cyclePeriods {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		samples := significance.LagSamples(series, period)
		r, err := significance.CorrelationStrength(samples)
		if err != nil || r <= 0 {
			continue
		}
		p := significance.EstimateSignificance(samples)
		if !accepted(sensitivity, len(samples), p, r) {
			continue
		}
		if best == nil || r > best.Effect {
			best = &Candidate{
				Kind:       domain.PatternCyclic,
				PeriodDays: period,
				Effect:     r,
				PValue:     p,
				SampleSize: len(samples),
			}
		}
	}
	return best, nil
}

func (d *patternDetector) Persist(ctx context.Context, userID uuid.UUID, dataType domain.DataType, c Candidate, now time.Time) (*domain.Pattern, bool, error) {
	existing, err := d.repo.FindByKey(ctx, userID, dataType, c.Kind, c.Key())
	if err != nil {
		return nil, false, err
	}

	validUntil := now.Add(d.lookback)
	if existing != nil {
		existing.Significance = c.PValue
		existing.CorrelationStrength = c.Effect
		existing.Confidence = c.Confidence()
		existing.SampleSize = c.SampleSize
		existing.LastUpdated = now
		existing.ValidUntil = &validUntil
		if err := d.repo.Update(ctx, existing); err != nil {
			return nil, false, err
		}
		d.metrics.RecordPattern(string(c.Kind), "updated")
		return existing, false, nil
	}

	p := &domain.Pattern{
		UserID:              userID,
		DataType:            dataType,
		Kind:                c.Kind,
		Key:                 c.Key(),
		Significance:        c.PValue,
		Confidence:          c.Confidence(),
		SampleSize:          c.SampleSize,
		CorrelationStrength: c.Effect,
		DetectedAt:          now,
		LastUpdated:         now,
		ValidUntil:          &validUntil,
	}
	switch c.Kind {
	case domain.PatternCyclic:
		period := c.PeriodDays
		p.CyclePeriodDays = &period
	default:
		eventType := c.EventType
		p.EventType = &eventType
	}
	if err := d.repo.Create(ctx, p); err != nil {
		return nil, false, err
	}
	d.metrics.RecordPattern(string(c.Kind), "created")
	d.log.Info("Pattern detected", "user_id", userID, "pattern", p.String(), "confidence", p.Confidence, "n", p.SampleSize)
	return p, true, nil
}

// accepted applies the persistence invariant and the sensitivity thresholds.
func accepted(sensitivity domain.Sensitivity, n int, p, effect float64) bool {
	maxP, minEffect := sensitivity.Thresholds()
	return significance.IsStatisticallyValid(n, p) && p <= maxP && math.Abs(effect) >= minEffect
}

// occurrencesByType groups events that have already started by event type.
func occurrencesByType(events []domain.AstrologicalEvent, now time.Time) map[string][]domain.AstrologicalEvent {
	out := make(map[string][]domain.AstrologicalEvent)
	for _, ev := range events {
		if ev.StartTime.After(now) {
			continue
		}
		out[ev.EventType] = append(out[ev.EventType], ev)
	}
	return out
}

// eventShift compares points in [start, start+window) of any occurrence with
// points in [start−window, start) that are not themselves exposed.
func eventShift(points []domain.DataPoint, occurrences []domain.AstrologicalEvent, window time.Duration, baseline float64) (significance.Shift, error) {
	var exposed, control []float64
	for _, p := range points {
		inExposed, inControl := false, false
		for _, ev := range occurrences {
			start := ev.StartTime
			switch {
			case !p.Timestamp.Before(start) && p.Timestamp.Before(start.Add(window)):
				inExposed = true
			case !p.Timestamp.Before(start.Add(-window)) && p.Timestamp.Before(start):
				inControl = true
			}
		}
		switch {
		case inExposed:
			exposed = append(exposed, p.Value)
		case inControl:
			control = append(control, p.Value)
		}
	}
	return significance.MeanShift(exposed, control, baseline)
}

// dailySeries averages points per UTC day from the first to the last day.
// Days without points are NaN.
func dailySeries(points []domain.DataPoint) []float64 {
	if len(points) == 0 {
		return nil
	}
	day := func(t time.Time) int64 {
		return t.UTC().Unix() / 86400
	}

	first, last := day(points[0].Timestamp), day(points[0].Timestamp)
	for _, p := range points {
		d := day(p.Timestamp)
		if d < first {
			first = d
		}
		if d > last {
			last = d
		}
	}

	sums := make([]float64, last-first+1)
	counts := make([]int, len(sums))
	for _, p := range points {
		i := day(p.Timestamp) - first
		sums[i] += p.Value
		counts[i]++
	}
	series := make([]float64, len(sums))
	for i := range sums {
		if counts[i] == 0 {
			series[i] = math.NaN()
			continue
		}
		series[i] = sums[i] / float64(counts[i])
	}
	return series
}
