package cli

import (
	"fmt"

	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/models"
	"github.com/spf13/cobra"
)

var queueLimit int

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "List content queue items",
	RunE: func(cmd *cobra.Command, args []string) error {
		items, err := dbClient.ListItems(cmd.Context(), queueLimit)
		if err != nil {
			return fmt.Errorf("list queue: %w", err)
		}

		if len(items) == 0 {
			fmt.Println("Queue is empty")
			return nil
		}

		fmt.Printf("%-12s %-16s %-10s %-8s %s\n", "ID", "TYPE", "STATUS", "ATTEMPTS", "TOPIC")
		for _, item := range items {
			id, err := models.RecordIDString(item.ID)
			if err != nil {
				id = "?"
			}
			topic := item.Topic
			if len(topic) > 60 {
				topic = topic[:57] + "..."
			}
			fmt.Printf("%-12s %-16s %-10s %-8d %s\n", id, item.ContentType, item.Status, item.Attempts, topic)
			if item.FailReason != nil {
				fmt.Printf("             last failure: %s\n", *item.FailReason)
			}
		}
		return nil
	},
}

func init() {
	queueCmd.Flags().IntVar(&queueLimit, "limit", 50, "maximum items to list")
}
