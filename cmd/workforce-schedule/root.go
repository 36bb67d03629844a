package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/workforce-eng/shiftsched/pkg/config"
)

var (
	logger *slog.Logger
	cfg    *config.Config
)

type commandContext struct {
	correlationID uuid.UUID
	startedAt     time.Time
}

type commandContextKey struct{}

var rootCmd = &cobra.Command{
	Use:   "workforce-schedule",
	Short: "Workforce scheduling kernel demos",
	Long: `workforce-schedule generates and validates associate shift
schedules against the operating-window, labor, and fairness rules of the
scheduling kernel.

It never reads or writes a real roster; its verbs synthesize a
reproducible demo roster and print the resulting schedule.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if logger == nil {
			logger = slog.Default()
		}
		info := commandContext{correlationID: uuid.New(), startedAt: time.Now()}
		cmd.SetContext(context.WithValue(cmd.Context(), commandContextKey{}, info))
		logger.Info("command start", "command", cmd.CommandPath(), "correlation_id", info.correlationID.String())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		info, ok := cmd.Context().Value(commandContextKey{}).(commandContext)
		if !ok {
			return
		}
		logger.Info("command end",
			"command", cmd.CommandPath(),
			"correlation_id", info.correlationID.String(),
			"duration_ms", time.Since(info.startedAt).Milliseconds(),
		)
	},
}

// Execute runs the root command against ctx, exiting the process on error.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setLogger(l *slog.Logger) { logger = l }
func setConfig(c *config.Config) { cfg = c }

func init() {
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(weeklyDemoCmd)
	rootCmd.AddCommand(demandDemoCmd)
	rootCmd.AddCommand(healthCmd)
}
