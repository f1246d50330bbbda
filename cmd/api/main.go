// Proactive Insight Engine API
//
// Learns per-user links between behavioral signals and astrological events
// and turns them into timely, confidence-gated insights.
//
//	@title			Proactive Insight Engine API
//	@version		1.0
//	@description	Ingest behavioral data, sync the astrological event feed, and manage proactive insights.
//
//	@BasePath	/v1
//
//	@tag.name			data-points
//	@tag.description	Behavioral observation ingestion
//
//	@tag.name			insights
//	@tag.description	Proactive insight lifecycle
//
//	@tag.name			engine
//	@tag.description	Detection passes and rule revalidation
package main

//go:generate swag init -g cmd/api/main.go -o docs -d ../..

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blaisecz/insight-engine/internal/app"
	"github.com/blaisecz/insight-engine/internal/config"
	"github.com/blaisecz/insight-engine/internal/langfuse"
	"github.com/blaisecz/insight-engine/internal/llm"
	"github.com/blaisecz/insight-engine/internal/logger"
	"github.com/blaisecz/insight-engine/internal/repository"
	"github.com/blaisecz/insight-engine/internal/seed"
	"github.com/blaisecz/insight-engine/internal/service"
	"github.com/blaisecz/insight-engine/internal/telemetry"
)

const serviceName = "pie-api"

func main() {
	// Load configuration
	cfg := config.Load()

	log, err := logger.New(cfg.LogMode, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.InitTracer(ctx, cfg, serviceName)
	if err != nil {
		log.Fatal("Failed to initialize tracing", "error", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(flushCtx); err != nil {
			log.Warn("Tracer shutdown failed", "error", err)
		}
	}()

	metrics := telemetry.NewMetrics(nil)

	// Connect to database
	db, err := config.NewDatabase(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database", "error", err)
	}

	// Auto-migrate database schema
	if err := repository.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database", "error", err)
	}
	log.Info("Database migration completed")

	if cfg.Seed {
		log.Info("Seeding database with demo data (SEED=true)")
		if err := seed.Run(ctx, db, service.SystemClock(), log); err != nil {
			log.Fatal("Failed to seed database", "error", err)
		}
	}

	rdb, err := config.NewRedis(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to connect to Redis", "error", err)
	}
	if rdb == nil {
		log.Warn("REDIS_ADDR not set, using process-local locks and no insight fan-out")
	} else {
		defer rdb.Close()
	}

	langfuseCfg := langfuse.Config{
		BaseURL:     cfg.LangfuseBaseURL,
		PublicKey:   cfg.LangfusePublicKey,
		SecretKey:   cfg.LangfuseSecretKey,
		Environment: cfg.LangfuseEnv,
	}

	deps := app.Deps{
		Config:   cfg,
		DB:       db,
		Redis:    rdb,
		Log:      log,
		Metrics:  metrics,
		Langfuse: langfuse.NewClient(langfuseCfg, log),
	}

	// Initialize OpenAI renderer (template rendering only if not configured)
	if cfg.OpenAIAPIKey != "" {
		prompt, err := langfuse.LoadPrompt(ctx, log, langfuseCfg, langfuse.PromptRequest{
			Name:      cfg.LangfusePromptName,
			Label:     cfg.LangfusePromptLabel,
			CachePath: cfg.PromptCachePath,
			Fallback:  llm.DefaultSystemPrompt,
		})
		if err != nil {
			log.Warn("Using built-in insight prompt", "error", err)
			prompt = langfuse.Prompt{Text: llm.DefaultSystemPrompt, Source: langfuse.PromptFromFallback}
		}
		model := cfg.OpenAIInsightModel
		if prompt.Model != "" {
			model = prompt.Model
		}
		log.Info("Insight prompt loaded", "source", prompt.Source, "version", prompt.Version, "model", model)
		deps.Renderer = llm.NewOpenAIRenderer(cfg.OpenAIAPIKey, model, prompt.Text)
	} else {
		log.Warn("OpenAI API key not configured, insights use template text")
	}

	application := app.New(deps)

	if application.Scheduler != nil {
		if err := application.Scheduler.Start(); err != nil {
			log.Fatal("Failed to start scheduler", "error", err)
		}
	}

	// Start server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           application.Router().Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			log.Error("Server failed", "error", err)
		}
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP shutdown failed", "error", err)
	}
	if application.Scheduler != nil {
		if err := application.Scheduler.Stop(shutdownCtx); err != nil {
			log.Error("Scheduler shutdown failed", "error", err)
		}
	}
	log.Info("Server stopped")
}
