package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/blaisecz/insight-engine/internal/scheduler"
	"github.com/blaisecz/insight-engine/internal/seed"
	"github.com/blaisecz/insight-engine/internal/service"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func userFlag(cmd *cobra.Command) (uuid.UUID, error) {
	raw, _ := cmd.Flags().GetString("user")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("--user must be a UUID: %w", err)
	}
	return id, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			e.log.Info("Database migration completed")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the lunar event catalog and demo users",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			return seed.Run(cmd.Context(), e.db, service.SystemClock(), e.log)
		},
	}
}

func detectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Run a detection pass for one user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			userID, err := userFlag(cmd)
			if err != nil {
				return err
			}
			e, err := openEnv()
			if err != nil {
				return err
			}
			a, cleanup, err := e.application(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := a.Engine.RunDetectionPass(cmd.Context(), userID)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().String("user", "", "user UUID")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func revalidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "revalidate",
		Short: "Re-test a user's rules that are due",
		RunE: func(cmd *cobra.Command, _ []string) error {
			userID, err := userFlag(cmd)
			if err != nil {
				return err
			}
			e, err := openEnv()
			if err != nil {
				return err
			}
			a, cleanup, err := e.application(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := a.Engine.Revalidate(cmd.Context(), userID)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().String("user", "", "user UUID")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func purgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete a user's data points older than their retention window",
		RunE: func(cmd *cobra.Command, _ []string) error {
			userID, err := userFlag(cmd)
			if err != nil {
				return err
			}
			e, err := openEnv()
			if err != nil {
				return err
			}
			a, cleanup, err := e.application(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			deleted, err := a.Engine.Purge(cmd.Context(), userID)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{"user_id": userID, "deleted": deleted})
		},
	}
	cmd.Flags().String("user", "", "user UUID")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func tickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tick",
		Short: "Run one scheduler tick over every active user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			a, cleanup, err := e.application(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			s := scheduler.New(a.Engine, a.Repos.DataPoints, a.Repos.Rules, a.Repos.Insights, scheduler.Settings{
				PassTimeout:     e.cfg.Scheduler.PassTimeout,
				Concurrency:     e.cfg.Scheduler.Concurrency,
				ActiveWindow:    e.cfg.Engine.AnalysisLookback,
				RevalidateAfter: e.cfg.Engine.RevalidationAfter,
			}, e.log, service.SystemClock)

			start := time.Now()
			result, err := s.Tick(cmd.Context())
			if err != nil {
				return err
			}
			e.log.Info("Tick completed", "duration", time.Since(start))
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
}

func healthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Show engine health for one user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			userID, err := userFlag(cmd)
			if err != nil {
				return err
			}
			e, err := openEnv()
			if err != nil {
				return err
			}
			a, cleanup, err := e.application(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			health, err := a.Health.Get(cmd.Context(), userID)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), health)
		},
	}
	cmd.Flags().String("user", "", "user UUID")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
