package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Add a checklist item",
	Long:  `Append an item to the checklist. All arguments are joined with spaces.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		item, err := newClient().AddItem(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return remoteError("add item", err)
		}
		if app.ui.Structured() {
			return app.ui.Encode(item)
		}
		app.ui.Success("Added: %s (ID: %s)", item.Text, item.ID)
		return nil
	},
}
