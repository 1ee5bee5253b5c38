package cli

import (
	"fmt"

	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/breaker"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show breaker states and coverage progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		states, err := dbClient.ListBreakerStates(ctx)
		if err != nil {
			return fmt.Errorf("list breaker states: %w", err)
		}

		if len(states) == 0 {
			fmt.Println("No breaker state recorded")
		}
		for i := range states {
			fmt.Println(breaker.FormatStatus(&states[i]))
		}

		covered, total, err := dbClient.CoverageStats(ctx)
		if err != nil {
			return fmt.Errorf("coverage stats: %w", err)
		}
		if total > 0 {
			fmt.Printf("Coverage: %d/%d target queries (%.0f%%)\n",
				covered, total, float64(covered)/float64(total)*100)
		} else {
			fmt.Println("Coverage: no target queries synced yet")
		}
		return nil
	},
}
