package config

import (
	"testing"
	"time"
)

func TestGetEnv(t *testing.T) {
    t.Setenv("CFG_VALUE", "custom")
    if got := getEnv("CFG_VALUE", "default"); got != "custom" {
        t.Fatalf("getEnv returned %q, want custom", got)
    }

    // Empty environment value should fall back to default
    t.Setenv("CFG_EMPTY", "")
    if got := getEnv("CFG_EMPTY", "fallback"); got != "fallback" {
        t.Fatalf("getEnv returned %q, want fallback", got)
    }
}

func TestTypedEnv(t *testing.T) {
    t.Setenv("CFG_INT", "12")
    t.Setenv("CFG_BAD_INT", "twelve")
    t.Setenv("CFG_NEG_INT", "-3")
    if got := getEnvInt("CFG_INT", 1); got != 12 {
        t.Fatalf("getEnvInt returned %d, want 12", got)
    }
    if got := getEnvInt("CFG_BAD_INT", 1); got != 1 {
        t.Fatalf("getEnvInt on garbage returned %d, want 1", got)
    }
    if got := getEnvInt("CFG_NEG_INT", 1); got != 1 {
        t.Fatalf("getEnvInt on negative returned %d, want 1", got)
    }

    t.Setenv("CFG_BOOL", "false")
    if getEnvBool("CFG_BOOL", true) {
        t.Fatalf("getEnvBool ignored explicit false")
    }

    t.Setenv("CFG_DUR", "90s")
    if got := getEnvDuration("CFG_DUR", time.Minute); got != 90*time.Second {
        t.Fatalf("getEnvDuration returned %v, want 90s", got)
    }
}

func TestLoad(t *testing.T) {
    // Ensure defaults when env vars are empty.
    for _, key := range []string{
        "PORT", "DATABASE_URL", "LOG_LEVEL", "LOG_MODE", "SEED", "REDIS_ADDR",
        "OPENAI_API_KEY", "OPENAI_INSIGHT_MODEL", "PIE_EVENT_WINDOW_HOURS",
        "PIE_SCHEDULER_INTERVAL", "PIE_SCHEDULER_CONCURRENCY", "PIE_SCHEDULER_ENABLED",
        "DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS", "DB_CONN_MAX_LIFETIME",
    } {
        t.Setenv(key, "")
    }

    cfg := Load()
    if cfg.Port != "8080" || cfg.DatabaseURL == "" || cfg.LogLevel != "info" {
        t.Fatalf("defaults not applied: %+v", cfg)
    }
    if cfg.Seed {
        t.Fatalf("expected Seed default false")
    }
    if cfg.DBMaxOpenConns != 20 || cfg.DBMaxIdleConns != 5 || cfg.DBConnMaxLifetime != 30*time.Minute {
        t.Fatalf("pool defaults not applied: %+v", cfg)
    }
    if cfg.Engine.EventWindow != 48*time.Hour || cfg.Engine.AnalysisLookback != 180*24*time.Hour {
        t.Fatalf("engine defaults not applied: %+v", cfg.Engine)
    }
    if !cfg.Scheduler.Enabled || cfg.Scheduler.Interval != 15*time.Minute || cfg.Scheduler.Concurrency != 4 {
        t.Fatalf("scheduler defaults not applied: %+v", cfg.Scheduler)
    }

    // Custom values override defaults
    t.Setenv("PORT", "9090")
    t.Setenv("DATABASE_URL", "postgres://example")
    t.Setenv("LOG_LEVEL", "debug")
    t.Setenv("SEED", "true")
    t.Setenv("REDIS_ADDR", "localhost:6379")
    t.Setenv("OPENAI_API_KEY", "key")
    t.Setenv("OPENAI_INSIGHT_MODEL", "model")
    t.Setenv("PIE_EVENT_WINDOW_HOURS", "24")
    t.Setenv("PIE_SCHEDULER_ENABLED", "false")
    t.Setenv("PIE_SCHEDULER_CONCURRENCY", "8")

    cfg = Load()
    if cfg.Port != "9090" || cfg.DatabaseURL != "postgres://example" || cfg.LogLevel != "debug" || !cfg.Seed {
        t.Fatalf("env overrides not applied: %+v", cfg)
    }
    if cfg.OpenAIAPIKey != "key" || cfg.OpenAIInsightModel != "model" {
        t.Fatalf("openai env overrides missing: %+v", cfg)
    }
    if cfg.RedisAddr != "localhost:6379" {
        t.Fatalf("redis override missing: %+v", cfg)
    }
    if cfg.Engine.EventWindow != 24*time.Hour || cfg.Scheduler.Enabled || cfg.Scheduler.Concurrency != 8 {
        t.Fatalf("engine overrides missing: %+v %+v", cfg.Engine, cfg.Scheduler)
    }
}
