package cmd

import (
	"github.com/spf13/cobra"
)

// workCmd represents the work command
var workCmd = &cobra.Command{
	Use:   "work <minutes>",
	Short: "Set the work session length",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		minutes, err := parseMinutes(args[0])
		if err != nil {
			return err
		}
		snap, err := newClient().SetWorkMinutes(cmd.Context(), minutes)
		if err != nil {
			return remoteError("set work length", err)
		}
		return printSession(snap, "Work sessions are now %d minutes", minutes)
	},
}
