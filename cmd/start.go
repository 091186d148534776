package cmd

import (
	"github.com/spf13/cobra"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start or resume the timer",
	Long: `Start the timer in its current mode. Starting a work session picks a
new random track and plays it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := newClient().Start(cmd.Context())
		if err != nil {
			return remoteError("start timer", err)
		}
		return printSession(snap, "%s started", snap.Session.Label)
	},
}
