package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:     "delete <item>",
	Aliases: []string{"rm"},
	Short:   "Remove a checklist item",
	Long: `Remove a checklist item. The item may be given by its position in
"lofi list", its ID, or a fuzzy match on its text.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c := newClient()

		item, err := resolveItem(ctx, c, strings.Join(args, " "))
		if err != nil {
			return err
		}
		snap, err := c.DeleteItem(ctx, item.ID)
		if err != nil {
			return remoteError("delete item", err)
		}
		if app.ui.Structured() {
			return app.ui.Encode(snap.Checklist)
		}
		app.ui.Success("Deleted: %s", item.Text)
		return nil
	},
}
