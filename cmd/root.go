// Package cmd provides the CLI commands for lofi.
package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/xvierd/lofi-cli/internal/adapters/tui"
)

var (
	// Version info (set at build time via ldflags)
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"

	// Global flags
	configPath   string
	dbPath       string
	jsonOutput   bool
	outputFormat string
	serverAddr   string
	logFile      string
	logLevel     string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lofi",
	Short: "lofi - a work/break timer with music and a checklist",
	Long: `lofi alternates work and break sessions, plays a random lofi track
while you work, and keeps a small checklist next to the clock.

Run "lofi" with no arguments to open the timer. Run "lofi serve" to keep the
timer running headless and drive it with the other commands or over MCP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A missing .env is fine; LOFI_* variables may come from the shell.
		_ = godotenv.Load()
		return initializeServices(cmd)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return cleanupServices()
	},
	RunE: runTUI,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the config file (default: ~/.lofi/config.toml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the database file (default: in memory)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "Output format: text, json, yaml")
	rootCmd.PersistentFlags().StringVar(&serverAddr, "addr", "", "Address of the lofi server (default: server.addr from config)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", `Log file path, "-" for stderr (default: log.file from config)`)
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: DEBUG, INFO, WARN, ERROR")

	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("lofi\nVersion: {{.Version}}\n")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(pauseCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(workCmd)
	rootCmd.AddCommand(breakCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(tracksCmd)
	rootCmd.AddCommand(configCmd)
}

// runTUI opens the full-screen timer for the bare "lofi" command.
func runTUI(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext(cmd)
	defer stop()

	w, err := buildWidget()
	if err != nil {
		return err
	}

	app.logger.Info("tui started", "work_minutes", app.config.Timer.WorkMinutes, "break_minutes", app.config.Timer.BreakMinutes)
	if err := tui.Run(ctx, w, &app.config.Theme); err != nil {
		return fmt.Errorf("timer error: %w", err)
	}
	return nil
}
