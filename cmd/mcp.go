package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/xvierd/lofi-cli/internal/adapters/mcp"
	"github.com/xvierd/lofi-cli/internal/services"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol (MCP) server for integration with AI assistants.
The server owns its own timer and checklist and exposes them as tools over stdio.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// stdout carries the protocol; anything for humans goes to stderr.
		fmt.Fprintln(cmd.ErrOrStderr(), "Starting lofi MCP server on stdio (Ctrl+C to stop)")

		ctx, stop := signalContext(cmd)
		defer stop()

		w, err := buildWidget()
		if err != nil {
			return err
		}
		runner := services.NewRunner(w, app.logger)

		done := make(chan error, 1)
		go func() { done <- runner.Run(ctx) }()

		server := mcp.NewServer(runner)
		serveErr := server.ServeStdio(ctx, os.Stdin, os.Stdout)
		interrupted := ctx.Err() != nil
		stop()
		<-done

		if serveErr != nil && !interrupted {
			return fmt.Errorf("MCP server error: %w", serveErr)
		}
		return nil
	},
}
