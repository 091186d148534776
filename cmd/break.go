package cmd

import (
	"github.com/spf13/cobra"
)

// breakCmd represents the break command
var breakCmd = &cobra.Command{
	Use:   "break <minutes>",
	Short: "Set the break session length",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		minutes, err := parseMinutes(args[0])
		if err != nil {
			return err
		}
		snap, err := newClient().SetBreakMinutes(cmd.Context(), minutes)
		if err != nil {
			return remoteError("set break length", err)
		}
		return printSession(snap, "Breaks are now %d minutes", minutes)
	},
}
