package cmd

import (
	"github.com/spf13/cobra"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List checklist items",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := newClient().Snapshot(cmd.Context())
		if err != nil {
			return remoteError("list items", err)
		}
		return app.ui.Items(snap.Checklist, snap.Stats)
	},
}
