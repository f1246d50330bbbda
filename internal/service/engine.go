package service

import (
	"context"
	"errors"
	"time"

	"github.com/blaisecz/insight-engine/internal/domain"
	"github.com/blaisecz/insight-engine/internal/lock"
	"github.com/blaisecz/insight-engine/internal/logger"
	"github.com/blaisecz/insight-engine/internal/repository"
	"github.com/blaisecz/insight-engine/internal/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Engine runs the per-user pipeline: detection, rule synthesis and the insight gate.
// Every operation holds the user's lock for its whole duration.
type Engine interface {
	RunDetectionPass(ctx context.Context, userID uuid.UUID) (*domain.PassResult, error)
	Revalidate(ctx context.Context, userID uuid.UUID) (*RevalidationResult, error)
	// Purge deletes data points older than the user's retention window.
	Purge(ctx context.Context, userID uuid.UUID) (int64, error)
}

// EngineSettings are the time spans a pass works over.
type EngineSettings struct {
	EventWindow      time.Duration
	AnalysisLookback time.Duration
}

// Repositories groups the stores the engine reads and writes.
type Repositories struct {
	DataPoints     repository.DataPointRepository
	Events         repository.EventRepository
	Patterns       repository.PatternRepository
	Rules          repository.RuleRepository
	Insights       repository.InsightRepository
	Configurations repository.ConfigurationRepository
}

type engine struct {
	repos       Repositories
	locker      lock.Locker
	detector    PatternDetector
	synthesizer RuleSynthesizer
	gate        InsightGate
	settings    EngineSettings
	metrics     *telemetry.Metrics
	log         *logger.Logger
	now         Clock
}

func NewEngine(
	repos Repositories,
	locker lock.Locker,
	detector PatternDetector,
	synthesizer RuleSynthesizer,
	gate InsightGate,
	settings EngineSettings,
	metrics *telemetry.Metrics,
	log *logger.Logger,
	now Clock,
) Engine {
	return &engine{
		repos:       repos,
		locker:      locker,
		detector:    detector,
		synthesizer: synthesizer,
		gate:        gate,
		settings:    settings,
		metrics:     metrics,
		log:         log.With("component", "Engine"),
		now:         now,
	}
}

func (e *engine) RunDetectionPass(ctx context.Context, userID uuid.UUID) (*domain.PassResult, error) {
	ctx, span := otel.Tracer("pie/engine").Start(ctx, "Engine.RunDetectionPass",
		trace.WithAttributes(attribute.String("user.id", userID.String())),
	)
	defer span.End()

	started := time.Now()
	release, err := e.locker.Acquire(ctx, userID)
	if err != nil {
		e.metrics.RecordPass("busy", time.Since(started))
		return nil, err
	}
	defer release()

	result, err := e.runPass(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		e.metrics.RecordPass("error", time.Since(started))
		e.log.Error("Detection pass failed", "user_id", userID, "error", err)
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("pie.patterns_created", result.PatternsCreated),
		attribute.Int("pie.rules_created", result.RulesCreated),
		attribute.Int("pie.insights_emitted", result.InsightsEmitted),
	)
	e.metrics.RecordPass("ok", time.Since(started))
	e.log.Info("Detection pass finished",
		"user_id", userID,
		"patterns_created", result.PatternsCreated,
		"patterns_updated", result.PatternsUpdated,
		"rules_created", result.RulesCreated,
		"insights_emitted", result.InsightsEmitted,
		"insights_expired", result.InsightsExpired,
	)
	return result, nil
}

func (e *engine) runPass(ctx context.Context, userID uuid.UUID) (*domain.PassResult, error) {
	now := e.now()
	result := &domain.PassResult{UserID: userID, StartedAt: now}

	cfg, err := e.configuration(ctx, userID)
	if err != nil {
		return nil, err
	}

	// All reads happen before the first write, so an unavailable store leaves nothing half-done.
	window, lookback := e.settings.EventWindow, e.settings.AnalysisLookback
	events, err := e.repos.Events.ListForUser(ctx, userID, now.Add(-lookback-window), now.Add(window))
	if err != nil {
		return nil, domain.Upstream("event catalog", err)
	}
	points := make(map[domain.DataType][]domain.DataPoint)
	for _, dt := range domain.AllDataTypes {
		if !cfg.Tracks(dt) {
			continue
		}
		series, err := e.repos.DataPoints.ListByRange(ctx, userID, dt, now.Add(-lookback), now)
		if err != nil {
			return nil, domain.Upstream("data points", err)
		}
		points[dt] = series
	}

	expired, err := e.repos.Insights.ExpireStale(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	result.InsightsExpired = int(expired)

	for _, dt := range domain.AllDataTypes {
		series, ok := points[dt]
		if !ok || len(series) < domain.MinimumDataPoints {
			continue
		}
		candidates, err := e.detector.Scan(ctx, dt, cfg.PatternSensitivity, series, events, now)
		if err != nil {
			return nil, err
		}
		for _, c := range candidates {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			pattern, created, err := e.detector.Persist(ctx, userID, dt, c, now)
			if err != nil {
				return nil, err
			}
			if created {
				result.PatternsCreated++
			} else {
				result.PatternsUpdated++
			}

			_, outcome, err := e.synthesizer.Synthesize(ctx, pattern, now)
			if err != nil {
				return nil, err
			}
			switch outcome {
			case SynthesisCreated:
				result.RulesCreated++
			case SynthesisUpdated:
				result.RulesUpdated++
			}
		}
	}

	rules, err := e.repos.Rules.ListActive(ctx, userID, "")
	if err != nil {
		return nil, err
	}
	gate, err := e.gate.Evaluate(ctx, cfg, rules, events, now)
	if err != nil {
		return nil, err
	}
	result.InsightsEmitted = len(gate.Emitted)
	result.Suppressed = gate.Suppressed
	result.FinishedAt = e.now()

	return result, nil
}

// configuration reads the stored settings without creating them, so a pass
// never writes before its reads.
func (e *engine) configuration(ctx context.Context, userID uuid.UUID) (*domain.Configuration, error) {
	cfg, err := e.repos.Configurations.Get(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.DefaultConfiguration(userID), nil
	}
	return cfg, err
}

func (e *engine) Revalidate(ctx context.Context, userID uuid.UUID) (*RevalidationResult, error) {
	ctx, span := otel.Tracer("pie/engine").Start(ctx, "Engine.Revalidate",
		trace.WithAttributes(attribute.String("user.id", userID.String())),
	)
	defer span.End()

	release, err := e.locker.Acquire(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer release()

	result, err := e.synthesizer.Revalidate(ctx, userID, e.now())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if result.Checked > 0 {
		e.log.Info("Rules revalidated",
			"user_id", userID,
			"checked", result.Checked,
			"weakened", result.Weakened,
			"retired", result.Retired,
		)
	}
	return result, nil
}

func (e *engine) Purge(ctx context.Context, userID uuid.UUID) (int64, error) {
	release, err := e.locker.Acquire(ctx, userID)
	if err != nil {
		return 0, err
	}
	defer release()

	cfg, err := e.configuration(ctx, userID)
	if err != nil {
		return 0, err
	}
	cutoff := e.now().AddDate(0, 0, -cfg.RetentionDays)
	deleted, err := e.repos.DataPoints.DeleteOlderThan(ctx, userID, cutoff)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		e.log.Info("Purged data points", "user_id", userID, "deleted", deleted, "cutoff", cutoff)
	}
	return deleted, nil
}
