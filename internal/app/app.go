// Package app assembles the engine, its services and HTTP handlers from
// configuration. Both the API server and piectl build on it.
package app

import (
	"context"

	"github.com/blaisecz/insight-engine/internal/api"
	"github.com/blaisecz/insight-engine/internal/api/handler"
	"github.com/blaisecz/insight-engine/internal/config"
	"github.com/blaisecz/insight-engine/internal/langfuse"
	"github.com/blaisecz/insight-engine/internal/llm"
	"github.com/blaisecz/insight-engine/internal/lock"
	"github.com/blaisecz/insight-engine/internal/logger"
	"github.com/blaisecz/insight-engine/internal/notify"
	"github.com/blaisecz/insight-engine/internal/repository"
	"github.com/blaisecz/insight-engine/internal/scheduler"
	"github.com/blaisecz/insight-engine/internal/service"
	"github.com/blaisecz/insight-engine/internal/telemetry"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the process-level resources the application is built from.
// Redis, Renderer and Langfuse are optional.
type Deps struct {
	Config   *config.Config
	DB       *gorm.DB
	Redis    *goredis.Client
	Log      *logger.Logger
	Metrics  *telemetry.Metrics
	Renderer llm.Renderer
	Langfuse langfuse.Client
	Now      service.Clock
}

type App struct {
	Repos         service.Repositories
	Engine        service.Engine
	DataPoints    service.DataPointService
	Insights      service.InsightService
	Configuration service.ConfigurationService
	Health        service.HealthService
	Events        service.EventService
	Patterns      service.PatternService
	Scheduler     *scheduler.Scheduler

	log     *logger.Logger
	metrics *telemetry.Metrics
	db      *gorm.DB
}

func New(d Deps) *App {
	cfg := d.Config
	log := d.Log
	if log == nil {
		log = logger.Nop()
	}
	now := d.Now
	if now == nil {
		now = service.SystemClock
	}
	tracer := d.Langfuse
	if tracer == nil {
		tracer = langfuse.NewClient(langfuse.Config{}, log)
	}

	repos := service.Repositories{
		DataPoints:     repository.NewDataPointRepository(d.DB),
		Events:         repository.NewEventRepository(d.DB),
		Patterns:       repository.NewPatternRepository(d.DB),
		Rules:          repository.NewRuleRepository(d.DB),
		Insights:       repository.NewInsightRepository(d.DB),
		Configurations: repository.NewConfigurationRepository(d.DB),
	}

	// Redis shares locks between replicas and fans insights out to delivery
	// surfaces; without it both stay in-process.
	var locker lock.Locker = lock.NewLocalLocker()
	publisher := notify.Noop()
	if d.Redis != nil {
		locker = lock.NewRedisLocker(log, d.Redis, 2*cfg.Scheduler.PassTimeout)
		publisher = notify.NewRedisPublisher(log, d.Redis, cfg.RedisChannel)
	}

	renderer := llm.NewFallbackRenderer(d.Renderer, cfg.OpenAIRenderTimeout, log)

	detector := service.NewPatternDetector(repos.Patterns, cfg.Engine.EventWindow, cfg.Engine.AnalysisLookback, d.Metrics, log)
	synthesizer := service.NewRuleSynthesizer(repos.Rules, repos.Patterns, repos.DataPoints, repos.Events,
		cfg.Engine.EventWindow,
		service.RevalidationSettings{After: cfg.Engine.RevalidationAfter, Lookback: cfg.Engine.RevalidationSpan},
		d.Metrics, log)
	gate := service.NewInsightGate(repos.Insights, renderer, publisher, tracer, d.Metrics, log)
	engine := service.NewEngine(repos, locker, detector, synthesizer, gate,
		service.EngineSettings{EventWindow: cfg.Engine.EventWindow, AnalysisLookback: cfg.Engine.AnalysisLookback},
		d.Metrics, log, now)

	a := &App{
		Repos:         repos,
		Engine:        engine,
		DataPoints:    service.NewDataPointService(repos.DataPoints, d.Metrics, now),
		Insights:      service.NewInsightService(repos.Insights, tracer, d.Metrics, log, now),
		Configuration: service.NewConfigurationService(repos.Configurations),
		Health:        service.NewHealthService(repos, now),
		Events:        service.NewEventService(repos.Events),
		Patterns:      service.NewPatternService(repos.Patterns, repos.Rules),
		log:           log,
		metrics:       d.Metrics,
		db:            d.DB,
	}

	if cfg.Scheduler.Enabled {
		a.Scheduler = scheduler.New(engine, repos.DataPoints, repos.Rules, repos.Insights, scheduler.Settings{
			Interval:        cfg.Scheduler.Interval,
			PassTimeout:     cfg.Scheduler.PassTimeout,
			Concurrency:     cfg.Scheduler.Concurrency,
			ActiveWindow:    cfg.Engine.AnalysisLookback,
			RevalidateAfter: cfg.Engine.RevalidationAfter,
			PurgeInterval:   cfg.Scheduler.PurgeInterval,
		}, log, now)
	}

	return a
}

// Router returns the HTTP router serving every endpoint of the application.
func (a *App) Router() *api.Router {
	return api.NewRouter(api.Handlers{
		DataPoints:    handler.NewDataPointHandler(a.DataPoints),
		Engine:        handler.NewEngineHandler(a.Engine),
		Insights:      handler.NewInsightHandler(a.Insights),
		Patterns:      handler.NewPatternHandler(a.Patterns),
		Configuration: handler.NewConfigurationHandler(a.Configuration),
		Health:        handler.NewHealthHandler(a.Health),
		Events:        handler.NewEventHandler(a.Events),
	}, a.log, a.metrics, a.ping)
}

func (a *App) ping(ctx context.Context) error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
