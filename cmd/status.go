package cmd

import (
	"github.com/spf13/cobra"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the timer, stats and checklist",
	Long:  `Display the running lofi server's session, today's totals and the checklist.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := newClient().Snapshot(cmd.Context())
		if err != nil {
			return remoteError("get status", err)
		}
		return app.ui.Snapshot(snap)
	},
}
