package cmd

import (
	"github.com/spf13/cobra"
	"github.com/xvierd/lofi-cli/internal/adapters/audio"
	"github.com/xvierd/lofi-cli/internal/domain"
)

// tracksCmd represents the tracks command
var tracksCmd = &cobra.Command{
	Use:   "tracks",
	Short: "Show the track pool and the audio player in use",
	Long: `List the tracks lofi picks from, whether each file exists in the music
directory, and which audio player will play them.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := app.config
		pool := domain.DefaultTrackPool()

		app.ui.Info("Music directory: %s", cfg.Audio.MusicDir)
		if !cfg.Audio.Enabled {
			app.ui.Warning("Audio is disabled (audio.enabled = false)")
		} else {
			app.player = audio.NewPlayer(cfg.Audio, app.logger)
			if name := app.player.Name(); name != "" {
				app.ui.Info("Player: %s", name)
			} else {
				app.ui.Warning("No audio player found; install mpv, ffplay, afplay or paplay")
			}
		}

		return app.ui.Tracks(audio.Catalog(cfg.Audio.MusicDir, pool))
	},
}
