package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/lofi-cli/internal/domain"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 25, cfg.Timer.WorkMinutes)
	assert.Equal(t, 5, cfg.Timer.BreakMinutes)
	assert.True(t, cfg.Audio.Enabled)
	assert.True(t, cfg.Notifications.Enabled)
	assert.Equal(t, ":memory:", cfg.Storage.DBPath)
	assert.Equal(t, "127.0.0.1:7465", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, time.Duration(cfg.Server.ShutdownTimeout))
	assert.Equal(t, []string{"localhost", "localhost:*", "127.0.0.1", "127.0.0.1:*"}, cfg.Server.AllowedOrigins)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromCreatesDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := filepath.Join(home, ".lofi", "config.toml")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	_, statErr := os.Stat(path)
	assert.NoError(t, statErr, "config file should be created on first run")

	assert.Equal(t, 25, cfg.Timer.WorkMinutes)
	assert.Equal(t, filepath.Join(home, ".lofi"), cfg.Storage.DataDir)
	assert.Equal(t, filepath.Join(home, ".lofi", "music"), cfg.Audio.MusicDir)
	assert.Equal(t, filepath.Join(home, ".lofi", "lofi.log"), cfg.Log.File)
	assert.Equal(t, ":memory:", cfg.Storage.DBPath)
	assert.Equal(t, DefaultThemeConfig().ColorWork, cfg.Theme.ColorWork)
}

func TestLoadFromReadsFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := filepath.Join(home, "custom.toml")

	content := `
[timer]
work_minutes = 50
break_minutes = 10

[audio]
player = "mpv"

[server]
shutdown_timeout = "2s"

[storage]
db_path = "~/lofi.db"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Timer.WorkMinutes)
	assert.Equal(t, 10, cfg.Timer.BreakMinutes)
	assert.Equal(t, "mpv", cfg.Audio.Player)
	assert.Equal(t, 2*time.Second, time.Duration(cfg.Server.ShutdownTimeout))
	assert.Equal(t, filepath.Join(home, "lofi.db"), cfg.Storage.DBPath)
	// Keys missing from the file fall back to defaults.
	assert.True(t, cfg.Notifications.Enabled)
	assert.Equal(t, "INFO", cfg.Log.Level)
}

func TestLoadFromEnvOverride(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("LOFI_TIMER_WORK_MINUTES", "45")

	cfg, err := LoadFrom(filepath.Join(home, "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, 45, cfg.Timer.WorkMinutes)
}

func TestLoadFromAllowedOrigins(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := filepath.Join(home, "config.toml")

	content := `
[server]
allowed_origins = ["app.example:8443"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"app.example:8443"}, cfg.Server.AllowedOrigins)

	t.Setenv("LOFI_SERVER_ALLOWED_ORIGINS", "a.example,b.example:*")
	cfg, err = LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.example", "b.example:*"}, cfg.Server.AllowedOrigins)
}

func TestSaveToRoundTrip(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := filepath.Join(home, "config.toml")

	cfg := DefaultConfig()
	cfg.Timer.BreakMinutes = 7
	cfg.Audio.Enabled = false
	require.NoError(t, SaveTo(path, cfg))

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 7, loaded.Timer.BreakMinutes)
	assert.False(t, loaded.Audio.Enabled)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timer.WorkMinutes = 0
	assert.ErrorIs(t, cfg.Validate(), domain.ErrInvalidDuration)

	cfg = DefaultConfig()
	cfg.Timer.BreakMinutes = -1
	assert.ErrorIs(t, cfg.Validate(), domain.ErrInvalidDuration)

	cfg = DefaultConfig()
	cfg.Timer.WorkMinutes = domain.MaxDurationMinutes + 1
	assert.ErrorIs(t, cfg.Validate(), domain.ErrInvalidDuration)

	cfg = DefaultConfig()
	cfg.Timer.BreakMinutes = domain.MaxDurationMinutes
	assert.NoError(t, cfg.Validate())
}

func TestTimerDomainConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timer.WorkMinutes = 30
	got := cfg.TimerDomainConfig()
	assert.Equal(t, domain.TimerConfig{WorkMinutes: 30, BreakMinutes: 5}, got)
}

func TestDurationText(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("1m30s")))
	assert.Equal(t, 90*time.Second, time.Duration(d))

	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1m30s", string(text))

	assert.Error(t, d.UnmarshalText([]byte("soon")))
}

func TestSet(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := filepath.Join(home, ".lofi", "config.toml")

	cfg, err := Set(path, "timer.work_minutes", "45")
	require.NoError(t, err)
	assert.Equal(t, 45, cfg.Timer.WorkMinutes)

	cfg, err = Set(path, "Audio.Player", "ffplay")
	require.NoError(t, err)
	assert.Equal(t, "ffplay", cfg.Audio.Player)

	reloaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 45, reloaded.Timer.WorkMinutes)
	assert.Equal(t, "ffplay", reloaded.Audio.Player)
	assert.Equal(t, filepath.Join(home, ".lofi", "music"), reloaded.Audio.MusicDir)
}

func TestSetRejects(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := filepath.Join(home, ".lofi", "config.toml")

	tests := []struct {
		name    string
		key     string
		value   string
		wantErr error
	}{
		{name: "unknown key", key: "timer.long_break", value: "15"},
		{name: "not a number", key: "timer.break_minutes", value: "soon"},
		{name: "zero minutes", key: "timer.work_minutes", value: "0", wantErr: domain.ErrInvalidDuration},
		{name: "over a day", key: "timer.break_minutes", value: "1441", wantErr: domain.ErrInvalidDuration},
		{name: "bad duration", key: "server.shutdown_timeout", value: "forever"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Set(path, tt.key, tt.value)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Timer.WorkMinutes, "rejected values must not be written")
}
