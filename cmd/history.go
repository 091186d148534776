package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/lofi-cli/internal/adapters/storage"
)

var historyLimit int

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently finished sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if historyLimit < 1 {
			return fmt.Errorf("--limit must be at least 1, got %d", historyLimit)
		}
		records, err := newClient().History(cmd.Context(), historyLimit)
		if err != nil {
			return remoteError("load history", err)
		}
		return app.ui.History(records)
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", storage.DefaultHistoryLimit, "Number of sessions to show")
}
