package cli

import (
	"fmt"
	"time"

	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/cost"
	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/models"
	"github.com/spf13/cobra"
)

var costsDay string

var costsCmd = &cobra.Command{
	Use:   "costs",
	Short: "Show spend against the daily budget",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		day := costsDay
		if day == "" {
			day = models.DayKey(time.Now())
		}

		total, err := dbClient.SpendForDay(ctx, day)
		if err != nil {
			return fmt.Errorf("spend for day: %w", err)
		}
		byType, err := dbClient.SpendByType(ctx, day)
		if err != nil {
			return fmt.Errorf("spend by type: %w", err)
		}

		fmt.Printf("Spend for %s: $%.4f of $%.2f budget\n", day, total, cfg.DailyBudgetUSD)
		if len(byType) > 0 {
			fmt.Print(cost.FormatBreakdown(byType))
		}
		return nil
	},
}

func init() {
	costsCmd.Flags().StringVar(&costsDay, "day", "", "UTC day to report (YYYY-MM-DD, defaults to today)")
}
