package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/xvierd/lofi-cli/internal/adapters/audio"
	"github.com/xvierd/lofi-cli/internal/adapters/client"
	"github.com/xvierd/lofi-cli/internal/adapters/notification"
	"github.com/xvierd/lofi-cli/internal/adapters/storage"
	"github.com/xvierd/lofi-cli/internal/config"
	"github.com/xvierd/lofi-cli/internal/domain"
	"github.com/xvierd/lofi-cli/internal/logging"
	"github.com/xvierd/lofi-cli/internal/output"
	"github.com/xvierd/lofi-cli/internal/ports"
	"github.com/xvierd/lofi-cli/internal/services"
)

// appDeps groups all dependencies initialized at startup.
type appDeps struct {
	config     *config.Config
	configPath string
	logger     *logging.Logger
	ui         *output.UI
	storage    ports.Storage
	audio      ports.AudioSink
	player     *audio.Player
	notifier   *notification.Notifier
}

// app holds all initialized dependencies.
// Populated by initializeServices() and accessible to all commands.
var app appDeps

// initializeServices loads the configuration, applies flag overrides and
// sets up logging and output. The widget itself is built lazily by the
// commands that own one.
func initializeServices(cmd *cobra.Command) error {
	app = appDeps{}

	path := configPath
	if path == "" {
		var err error
		path, err = config.GetConfigPath()
		if err != nil {
			return err
		}
	}
	app.configPath = path

	cfg, err := config.LoadFrom(path)
	if err != nil {
		return err
	}
	applyFlagOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	app.config = cfg

	format := output.FormatText
	if outputFormat != "" {
		format, err = output.ParseFormat(outputFormat)
		if err != nil {
			return err
		}
	}
	if jsonOutput {
		format = output.FormatJSON
	}
	app.ui = output.New(format)
	app.ui.Out = cmd.OutOrStdout()
	app.ui.ErrOut = cmd.ErrOrStderr()

	app.logger, err = logging.NewLogger(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return err
	}
	app.logger.Debug("configuration loaded", "path", path, "command", cmd.Name())
	return nil
}

func applyFlagOverrides(cfg *config.Config) {
	if dbPath != "" {
		cfg.Storage.DBPath = dbPath
	}
	if serverAddr != "" {
		cfg.Server.Addr = serverAddr
	}
	if logFile != "" {
		cfg.Log.File = logFile
	}
	if logLevel != "" {
		cfg.Log.Level = logging.ParseLevel(logLevel)
	}
}

// buildWidget opens storage and audio and wires a Widget from the loaded
// configuration. Resources are released by cleanupServices.
func buildWidget() (*services.Widget, error) {
	cfg := app.config

	if cfg.Storage.DBPath != storage.MemoryPath {
		if err := os.MkdirAll(filepath.Dir(cfg.Storage.DBPath), 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	store, err := storage.New(cfg.Storage.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	app.storage = store

	if cfg.Audio.Enabled {
		app.player = audio.NewPlayer(cfg.Audio, app.logger)
		app.audio = app.player
	} else {
		app.audio = audio.Silent{}
	}

	app.notifier = notification.New(&cfg.Notifications)

	selector := domain.NewTrackSelector(domain.DefaultTrackPool(), nil)
	timer := domain.NewSessionTimer(cfg.TimerDomainConfig(), selector)

	return services.NewWidget(app.storage, timer, app.audio, app.notifier, app.logger), nil
}

// newClient returns the HTTP client for the configured lofi server.
func newClient() *client.Client {
	return client.New(app.config.Server.Addr)
}

// cleanupServices closes all resources.
func cleanupServices() error {
	if app.player != nil {
		_ = app.player.Close()
	}
	var err error
	if app.storage != nil {
		err = app.storage.Close()
	}
	if app.logger != nil {
		_ = app.logger.Close()
	}
	return err
}

// signalContext returns the command context, cancelled on interrupt signals.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}
