package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xvierd/lofi-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Print every configuration key with its effective value, after the config
file, LOFI_* environment variables and command-line flags are applied.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		values := app.config.Values()
		if app.ui.Structured() {
			return app.ui.Encode(values)
		}

		keys := make([]string, 0, len(values))
		for key := range values {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		table := app.ui.Table([]string{"Key", "Value"})
		for _, key := range keys {
			if err := table.Append([]string{key, fmt.Sprint(values[key])}); err != nil {
				return fmt.Errorf("failed to render config: %w", err)
			}
		}
		return table.Render()
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(app.ui.Out, app.configPath)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting in the config file",
	Long: `Write one dotted key, such as timer.work_minutes or audio.player, to the
config file. Run "lofi config" to list the keys.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Set(app.configPath, args[0], args[1])
		if err != nil {
			return err
		}
		app.config = cfg
		key := strings.ToLower(args[0])
		app.ui.Success("%s = %v", key, cfg.Values()[key])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSetCmd)
}
