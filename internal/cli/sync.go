package cli

import (
	"fmt"

	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/pipeline"
	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/strategy"
	"github.com/spf13/cobra"
)

var syncStrategyPath string

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync coverage tracker from the strategy document",
	Long: `Sync parses the strategy YAML and upserts one coverage row per target
query, preserving covered state on rows that already exist.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := syncStrategyPath
		if path == "" {
			path = cfg.StrategyPath
		}

		strat, err := strategy.Load(path)
		if err != nil {
			return fmt.Errorf("load strategy: %w", err)
		}

		syncer := pipeline.NewCoverageSyncer(dbClient, cliLogger())
		summary, err := syncer.Run(cmd.Context(), strat)
		if err != nil {
			return fmt.Errorf("coverage sync: %w", err)
		}

		fmt.Printf("Synced %d target queries (%d upserted, %d failed)\n",
			summary.Queries, summary.Upserted, summary.Failed)
		return nil
	},
}

func init() {
	syncCmd.Flags().StringVar(&syncStrategyPath, "strategy", "", "path to strategy YAML (defaults to STRATEGY_PATH)")
}
