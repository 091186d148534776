package cmd

import (
	"github.com/spf13/cobra"
)

// pauseCmd represents the pause command
var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause the timer and the music",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := newClient().Pause(cmd.Context())
		if err != nil {
			return remoteError("pause timer", err)
		}
		return printSession(snap, "Paused at %s", snap.Session.Remaining)
	},
}
