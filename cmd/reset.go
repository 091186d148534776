package cmd

import (
	"github.com/spf13/cobra"
)

// resetCmd represents the reset command
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset to the start of a work session",
	Long: `Stop the timer and the music and return to the start of a work session.
Accumulated work and break totals are kept.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := newClient().Reset(cmd.Context())
		if err != nil {
			return remoteError("reset timer", err)
		}
		return printSession(snap, "Timer reset")
	},
}
