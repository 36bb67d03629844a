package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/workforce-eng/shiftsched/pkg/scheduling"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that all solving engines are wired and responsive",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range []string{"heuristic", "cpsat", "hybrid"} {
			status, err := scheduling.EngineHealth(cmd.Context(), name)
			if err != nil {
				return fmt.Errorf("engine %q: %w", name, err)
			}
			fmt.Printf("%-10s healthy=%t %s\n", name, status.Healthy, status.Message)
		}
		return nil
	},
}
