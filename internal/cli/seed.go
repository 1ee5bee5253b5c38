package cli

import (
	"fmt"

	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/pipeline"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the content queue from coverage gaps",
	Long: `Seed scans uncovered target queries, classifies each by search intent
and enqueues new work up to the per-type daily caps. Already pending and
already completed items count against the headroom.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		seeder := pipeline.NewSeeder(dbClient, cliLogger())

		summary, err := seeder.Run(cmd.Context())
		if err != nil {
			return fmt.Errorf("seed run: %w", err)
		}

		fmt.Printf("Scanned %d uncovered queries, enqueued %d, skipped %d\n",
			summary.Scanned, summary.Total(), summary.Skipped)
		for t, n := range summary.Enqueued {
			fmt.Printf("  %-16s %d\n", t, n)
		}
		return nil
	},
}
