package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/lofi-cli/internal/output"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow the timer as it changes",
	Long: `Stream snapshots from the running lofi server and print one line per
update. Structured output prints one session document per update.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext(cmd)
		defer stop()

		updates, err := newClient().Watch(ctx)
		if err != nil {
			return remoteError("watch timer", err)
		}
		for snap := range updates {
			if app.ui.Structured() {
				if err := app.ui.Encode(snap.Session); err != nil {
					return err
				}
				continue
			}
			fmt.Fprintf(app.ui.Out, "%s  %s  %d/%d done\n",
				output.ModeColor(snap.Session), snap.Session.Remaining,
				snap.Stats.CompletedItems, snap.Stats.TotalItems)
		}
		return nil
	},
}
