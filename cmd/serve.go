package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/lofi-cli/internal/adapters/httpapi"
	"github.com/xvierd/lofi-cli/internal/services"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the timer headless behind an HTTP API",
	Long: `Run the timer without a terminal UI. The timer, music and checklist are
driven over HTTP (and a WebSocket snapshot stream at /ws), which is what the
status, start, pause, add and other client commands talk to.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext(cmd)
		defer stop()

		w, err := buildWidget()
		if err != nil {
			return err
		}
		runner := services.NewRunner(w, app.logger)

		done := make(chan error, 1)
		go func() { done <- runner.Run(ctx) }()

		addr := app.config.Server.Addr
		srv := httpapi.NewServer(addr, runner, app.logger, time.Duration(app.config.Server.ShutdownTimeout), app.config.Server.AllowedOrigins)
		app.ui.Info("lofi listening on http://%s (Ctrl+C to stop)", addr)

		serveErr := srv.ListenAndServe(ctx)
		stop()
		if err := <-done; err != nil && serveErr == nil {
			serveErr = err
		}
		return serveErr
	},
}
