package middleware

import (
	"net/http"
	"time"

	"github.com/blaisecz/insight-engine/internal/logger"
	"github.com/blaisecz/insight-engine/internal/telemetry"
	"github.com/go-chi/chi/v5"
)

// RequestLogger logs one line per request and records its latency under the
// matched chi route pattern, which keeps metric cardinality bounded.
func RequestLogger(log *logger.Logger, metrics *telemetry.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}
			start := time.Now()

			next.ServeHTTP(sw, r)

			duration := time.Since(start)
			route := routePattern(r)
			metrics.RecordHTTPRequest(route, r.Method, sw.statusCode, duration)

			fields := []interface{}{
				"method", r.Method,
				"route", route,
				"status", sw.statusCode,
				"duration_ms", duration.Milliseconds(),
			}
			if sw.statusCode >= http.StatusInternalServerError {
				log.Warn("request failed", fields...)
				return
			}
			log.Debug("request", fields...)
		})
	}
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

type statusWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (sw *statusWriter) WriteHeader(code int) {
	if !sw.wroteHeader {
		sw.statusCode = code
		sw.wroteHeader = true
	}
	sw.ResponseWriter.WriteHeader(code)
}
