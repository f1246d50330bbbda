// Command piectl runs engine maintenance from the shell: schema migration,
// demo seeding, and one-off passes for a single user or the whole fleet.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/blaisecz/insight-engine/internal/app"
	"github.com/blaisecz/insight-engine/internal/config"
	"github.com/blaisecz/insight-engine/internal/logger"
	"github.com/blaisecz/insight-engine/internal/repository"
	"github.com/blaisecz/insight-engine/internal/telemetry"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	logLevel string
	rootCmd  = &cobra.Command{
		Use:           "piectl",
		Short:         "Proactive insight engine maintenance",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(detectCmd())
	rootCmd.AddCommand(revalidateCmd())
	rootCmd.AddCommand(purgeCmd())
	rootCmd.AddCommand(tickCmd())
	rootCmd.AddCommand(healthCmd())
	rootCmd.AddCommand(langfuseCheckCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// env is what every command runs against.
type env struct {
	cfg *config.Config
	log *logger.Logger
	db  *gorm.DB
}

func openEnv() (*env, error) {
	cfg := config.Load()
	log, err := logger.New("development", logLevel)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	db, err := config.NewDatabase(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := repository.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return &env{cfg: cfg, log: log, db: db}, nil
}

// application builds the engine without the background scheduler or an LLM;
// one-off passes render insights from templates.
func (e *env) application(ctx context.Context) (*app.App, func(), error) {
	e.cfg.Scheduler.Enabled = false
	rdb, err := config.NewRedis(ctx, e.cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if rdb != nil {
			_ = rdb.Close()
		}
		e.log.Sync()
	}
	return app.New(app.Deps{
		Config:  e.cfg,
		DB:      e.db,
		Redis:   rdb,
		Log:     e.log,
		Metrics: telemetry.NewMetrics(nil),
	}), cleanup, nil
}
