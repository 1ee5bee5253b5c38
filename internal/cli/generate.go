package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run a generation batch from the queue",
	Long: `Generate claims pending queue items and produces content through the
LLM API. Every item passes the budget, cap, breaker and quality
guardrails; a blocked run exits cleanly with the block reason.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		o, err := newOrchestrator()
		if err != nil {
			return err
		}

		summary, err := o.Run(cmd.Context())
		if err != nil {
			return fmt.Errorf("generation run: %w", err)
		}

		if summary.Blocked {
			fmt.Printf("Run blocked: %s\n", summary.BlockReason)
			return nil
		}

		fmt.Printf("Attempted: %d  Completed: %d  Failed: %d\n",
			summary.Attempted, summary.Completed, summary.Failed)
		fmt.Printf("Skipped: %d cap, %d budget, %d breaker\n",
			summary.SkippedCap, summary.SkippedBudget, summary.SkippedBreaker)
		fmt.Printf("Cost: $%.4f (projected $%.4f)\n", summary.TotalCost, summary.ProjectedCost)
		return nil
	},
}
