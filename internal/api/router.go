package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	_ "github.com/blaisecz/insight-engine/docs"
	"github.com/blaisecz/insight-engine/internal/api/handler"
	"github.com/blaisecz/insight-engine/internal/api/middleware"
	"github.com/blaisecz/insight-engine/internal/logger"
	"github.com/blaisecz/insight-engine/internal/telemetry"
	"github.com/blaisecz/insight-engine/pkg/problem"
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// Handlers groups the HTTP handlers mounted under /v1.
type Handlers struct {
	DataPoints    *handler.DataPointHandler
	Engine        *handler.EngineHandler
	Insights      *handler.InsightHandler
	Patterns      *handler.PatternHandler
	Configuration *handler.ConfigurationHandler
	Health        *handler.HealthHandler
	Events        *handler.EventHandler
}

// ReadinessCheck reports whether a backing store is reachable.
type ReadinessCheck func(ctx context.Context) error

type Router struct {
	handlers Handlers
	log      *logger.Logger
	metrics  *telemetry.Metrics
	ready    ReadinessCheck
}

func NewRouter(handlers Handlers, log *logger.Logger, metrics *telemetry.Metrics, ready ReadinessCheck) *Router {
	return &Router{
		handlers: handlers,
		log:      log,
		metrics:  metrics,
		ready:    ready,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Recovery(rt.log))
	r.Use(middleware.Tracing)
	r.Use(middleware.RequestLogger(rt.log, rt.metrics))

	// Liveness and readiness
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	r.Get("/ready", rt.readiness)

	r.Method(http.MethodGet, "/metrics", rt.metrics.Handler())

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		r.Put("/events", rt.handlers.Events.Upsert)

		r.Route("/users/{userId}", func(r chi.Router) {
			r.Route("/data-points", func(r chi.Router) {
				r.Post("/", rt.handlers.DataPoints.Create)
				r.Get("/", rt.handlers.DataPoints.List)
			})

			r.Post("/detection-passes", rt.handlers.Engine.RunPass)
			r.Post("/revalidations", rt.handlers.Engine.Revalidate)

			r.Get("/insights", rt.handlers.Insights.ListActive)
			r.Get("/insights/due", rt.handlers.Insights.ListDue)

			r.Get("/patterns", rt.handlers.Patterns.ListPatterns)
			r.Get("/rules", rt.handlers.Patterns.ListRules)

			r.Get("/configuration", rt.handlers.Configuration.Get)
			r.Patch("/configuration", rt.handlers.Configuration.Update)

			r.Get("/health", rt.handlers.Health.Get)
		})

		r.Route("/insights/{insightId}", func(r chi.Router) {
			r.Post("/delivered", rt.handlers.Insights.MarkDelivered)
			r.Post("/acknowledge", rt.handlers.Insights.Acknowledge)
			r.Post("/dismiss", rt.handlers.Insights.Dismiss)
			r.Post("/feedback", rt.handlers.Insights.PostFeedback)
		})
	})

	return r
}

func (rt *Router) readiness(w http.ResponseWriter, r *http.Request) {
	if rt.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := rt.ready(ctx); err != nil {
			rt.log.Warn("readiness check failed", "error", err)
			problem.ServiceUnavailable("Database is not reachable").Write(w)
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
}
