package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/blaisecz/insight-engine/internal/config"
	"github.com/blaisecz/insight-engine/internal/langfuse"
	"github.com/blaisecz/insight-engine/internal/logger"
	"github.com/spf13/cobra"
)

func langfuseCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "langfuse-check",
		Short: "Verify Langfuse credentials by sending a test trace",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			lf := langfuse.Config{
				BaseURL:     cfg.LangfuseBaseURL,
				PublicKey:   cfg.LangfusePublicKey,
				SecretKey:   cfg.LangfuseSecretKey,
				Environment: cfg.LangfuseEnv,
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Base URL:    %s\n", lf.BaseURL)
			fmt.Fprintf(out, "Public Key:  %s\n", maskKey(lf.PublicKey))
			fmt.Fprintf(out, "Secret Key:  %s\n", maskKey(lf.SecretKey))
			fmt.Fprintf(out, "Environment: %s\n", lf.Environment)

			client := langfuse.NewClient(lf, logger.Nop())
			if !client.IsEnabled() {
				return errors.New("langfuse client is disabled, set LANGFUSE_BASE_URL, LANGFUSE_PUBLIC_KEY and LANGFUSE_SECRET_KEY")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			traceID, err := client.CreateTrace(ctx, langfuse.TraceInput{
				UserID: "piectl",
				Name:   "connectivity-check",
				Input:  map[string]any{"time": time.Now().UTC().Format(time.RFC3339)},
				Output: map[string]any{"status": "success"},
				Tags:   []string{"piectl", "check"},
			})
			if err != nil {
				return fmt.Errorf("create trace: %w", err)
			}

			fmt.Fprintf(out, "Trace created: %s/trace/%s\n", lf.BaseURL, traceID)
			return nil
		},
	}
}

func maskKey(key string) string {
	if len(key) < 8 {
		if key == "" {
			return "(empty)"
		}
		return "***"
	}
	return key[:8] + "..."
}
