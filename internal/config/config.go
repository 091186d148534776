// Package config provides configuration management for lofi.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"github.com/xvierd/lofi-cli/internal/domain"
)

// EnvPrefix prefixes environment overrides, e.g. LOFI_TIMER_WORK_MINUTES.
const EnvPrefix = "LOFI"

// Config holds all configuration for the lofi application.
type Config struct {
	Timer         TimerConfig        `mapstructure:"timer"`
	Audio         AudioConfig        `mapstructure:"audio"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Server        ServerConfig       `mapstructure:"server"`
	Storage       StorageConfig      `mapstructure:"storage"`
	Log           LogConfig          `mapstructure:"log"`
	Theme         ThemeConfig        `mapstructure:"theme"`
}

// TimerConfig holds session lengths in minutes.
type TimerConfig struct {
	WorkMinutes  int `mapstructure:"work_minutes"`
	BreakMinutes int `mapstructure:"break_minutes"`
}

// AudioConfig selects the music directory and player.
// An empty Player means the first supported player found on PATH.
type AudioConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	MusicDir string `mapstructure:"music_dir"`
	Player   string `mapstructure:"player"`
}

// NotificationConfig holds notification settings.
type NotificationConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// ServerConfig holds the headless HTTP server settings.
type ServerConfig struct {
	Addr            string   `mapstructure:"addr"`
	ShutdownTimeout Duration `mapstructure:"shutdown_timeout"`
	// AllowedOrigins are host[:port] patterns for browser clients.
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`
	DBPath  string `mapstructure:"db_path"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// ThemeConfig holds theme customization settings (colors and icons).
type ThemeConfig struct {
	ColorWork           string `mapstructure:"color_work"`
	ColorBreak          string `mapstructure:"color_break"`
	ColorPaused         string `mapstructure:"color_paused"`
	ColorTitle          string `mapstructure:"color_title"`
	ColorItem           string `mapstructure:"color_item"`
	ColorDone           string `mapstructure:"color_done"`
	ColorHelp           string `mapstructure:"color_help"`
	WorkGradientStart   string `mapstructure:"work_gradient_start"`
	WorkGradientEnd     string `mapstructure:"work_gradient_end"`
	BreakGradientStart  string `mapstructure:"break_gradient_start"`
	BreakGradientEnd    string `mapstructure:"break_gradient_end"`
	PausedGradientStart string `mapstructure:"paused_gradient_start"`
	PausedGradientEnd   string `mapstructure:"paused_gradient_end"`
	IconApp             string `mapstructure:"icon_app"`
	IconMusic           string `mapstructure:"icon_music"`
	IconStats           string `mapstructure:"icon_stats"`
	IconPaused          string `mapstructure:"icon_paused"`
}

// DefaultThemeConfig returns the default theme configuration.
func DefaultThemeConfig() ThemeConfig {
	return ThemeConfig{
		ColorWork:           "#7C6FE0",
		ColorBreak:          "#4ECDC4",
		ColorPaused:         "#6B7280",
		ColorTitle:          "#6B7280",
		ColorItem:           "#A0AEC0",
		ColorDone:           "#4B5563",
		ColorHelp:           "#95A5A6",
		WorkGradientStart:   "#7C6FE0",
		WorkGradientEnd:     "#A78BFA",
		BreakGradientStart:  "#4ECDC4",
		BreakGradientEnd:    "#2ECC71",
		PausedGradientStart: "#6B7280",
		PausedGradientEnd:   "#4B5563",
		IconApp:             "🎧",
		IconMusic:           "♪",
		IconStats:           "📊",
		IconPaused:          "⏸",
	}
}

// Duration is a wrapper around time.Duration for TOML parsing.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(duration)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// String returns the string representation of the duration.
func (d Duration) String() string {
	return time.Duration(d).String()
}

const defaultDataDir = "~/.lofi"

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Timer: TimerConfig{
			WorkMinutes:  domain.DefaultWorkMinutes,
			BreakMinutes: domain.DefaultBreakMinutes,
		},
		Audio: AudioConfig{
			Enabled:  true,
			MusicDir: filepath.Join(defaultDataDir, "music"),
		},
		Notifications: NotificationConfig{
			Enabled: true,
		},
		Server: ServerConfig{
			Addr:            "127.0.0.1:7465",
			ShutdownTimeout: Duration(5 * time.Second),
			AllowedOrigins:  []string{"localhost", "localhost:*", "127.0.0.1", "127.0.0.1:*"},
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir,
			DBPath:  ":memory:",
		},
		Log: LogConfig{
			Level: "INFO",
		},
		Theme: DefaultThemeConfig(),
	}
}

// Load loads the configuration from ~/.lofi/config.toml, creating it with
// defaults on first run.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from an explicit file path.
func LoadFrom(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	v := newViper(configPath)

	// If config file doesn't exist, create it with defaults
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := SaveTo(configPath, DefaultConfig()); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Set stores one dotted key in the config file at configPath, creating the
// file with defaults if needed. The value is decoded and validated before
// anything is written.
func Set(configPath, key, value string) (*Config, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	if _, ok := DefaultConfig().Values()[key]; !ok {
		return nil, fmt.Errorf("unknown config key %q", key)
	}
	if _, err := LoadFrom(configPath); err != nil {
		return nil, err
	}

	// No env binding here: LOFI_* overrides must not leak into the file.
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	setDefaults(v)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	v.Set(key, value)

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("invalid value %q for %s: %w", value, key, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := v.WriteConfigAs(configPath); err != nil {
		return nil, fmt.Errorf("failed to write config: %w", err)
	}
	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func decodeHook() viper.DecoderConfigOption {
	return viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
}

func newViper(configPath string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// expandPaths resolves ~ and fills paths derived from the data directory.
func (c *Config) expandPaths() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	if c.Storage.DataDir == "" {
		c.Storage.DataDir = defaultDataDir
	}
	c.Storage.DataDir = expandHome(c.Storage.DataDir, homeDir)

	if c.Audio.MusicDir == "" {
		c.Audio.MusicDir = filepath.Join(c.Storage.DataDir, "music")
	}
	c.Audio.MusicDir = expandHome(c.Audio.MusicDir, homeDir)

	if c.Log.File == "" {
		c.Log.File = filepath.Join(c.Storage.DataDir, "lofi.log")
	}
	c.Log.File = expandHome(c.Log.File, homeDir)

	if c.Storage.DBPath == "" {
		c.Storage.DBPath = ":memory:"
	}
	if c.Storage.DBPath != ":memory:" {
		c.Storage.DBPath = expandHome(c.Storage.DBPath, homeDir)
	}
	return nil
}

func expandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}

// Save saves the configuration to the default config file.
func Save(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	return SaveTo(configPath, cfg)
}

// SaveTo writes cfg as TOML to configPath.
func SaveTo(configPath string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")

	for key, value := range cfg.Values() {
		v.Set(key, value)
	}

	if err := v.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Values flattens the configuration into dotted viper keys.
func (c *Config) Values() map[string]any {
	return map[string]any{
		"timer.work_minutes":          c.Timer.WorkMinutes,
		"timer.break_minutes":         c.Timer.BreakMinutes,
		"audio.enabled":               c.Audio.Enabled,
		"audio.music_dir":             c.Audio.MusicDir,
		"audio.player":                c.Audio.Player,
		"notifications.enabled":       c.Notifications.Enabled,
		"server.addr":                 c.Server.Addr,
		"server.shutdown_timeout":     c.Server.ShutdownTimeout.String(),
		"server.allowed_origins":      c.Server.AllowedOrigins,
		"storage.data_dir":            c.Storage.DataDir,
		"storage.db_path":             c.Storage.DBPath,
		"log.level":                   c.Log.Level,
		"log.file":                    c.Log.File,
		"theme.color_work":            c.Theme.ColorWork,
		"theme.color_break":           c.Theme.ColorBreak,
		"theme.color_paused":          c.Theme.ColorPaused,
		"theme.color_title":           c.Theme.ColorTitle,
		"theme.color_item":            c.Theme.ColorItem,
		"theme.color_done":            c.Theme.ColorDone,
		"theme.color_help":            c.Theme.ColorHelp,
		"theme.work_gradient_start":   c.Theme.WorkGradientStart,
		"theme.work_gradient_end":     c.Theme.WorkGradientEnd,
		"theme.break_gradient_start":  c.Theme.BreakGradientStart,
		"theme.break_gradient_end":    c.Theme.BreakGradientEnd,
		"theme.paused_gradient_start": c.Theme.PausedGradientStart,
		"theme.paused_gradient_end":   c.Theme.PausedGradientEnd,
		"theme.icon_app":              c.Theme.IconApp,
		"theme.icon_music":            c.Theme.IconMusic,
		"theme.icon_stats":            c.Theme.IconStats,
		"theme.icon_paused":           c.Theme.IconPaused,
	}
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".lofi", "config.toml"), nil
}

// setDefaults sets default values so every key is known to viper,
// which AutomaticEnv needs to apply LOFI_* overrides on Unmarshal.
func setDefaults(v *viper.Viper) {
	for key, value := range DefaultConfig().Values() {
		v.SetDefault(key, value)
	}
}

// TimerDomainConfig converts the config to the domain timer configuration.
func (c *Config) TimerDomainConfig() domain.TimerConfig {
	return domain.TimerConfig{
		WorkMinutes:  c.Timer.WorkMinutes,
		BreakMinutes: c.Timer.BreakMinutes,
	}
}

// Validate rejects settings the timer cannot run with.
func (c *Config) Validate() error {
	if !domain.ValidMinutes(c.Timer.WorkMinutes) {
		return fmt.Errorf("timer.work_minutes: %w", domain.ErrInvalidDuration)
	}
	if !domain.ValidMinutes(c.Timer.BreakMinutes) {
		return fmt.Errorf("timer.break_minutes: %w", domain.ErrInvalidDuration)
	}
	return nil
}
