package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, int64(0), cfg.Seed)
	assert.Equal(t, 8, cfg.Battles)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, uint32(20000), cfg.MaxTicks)
	assert.Equal(t, "", cfg.SavePath)
	assert.False(t, cfg.Telemetry)
	assert.Equal(t, "turncore", cfg.HoneycombDataset)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TURNCORE_SEED", "1234")
	t.Setenv("TURNCORE_BATTLES", "50")
	t.Setenv("TURNCORE_WORKERS", "2")
	t.Setenv("TURNCORE_MAX_TICKS", "900")
	t.Setenv("TURNCORE_LOG_LEVEL", "debug")
	t.Setenv("TURNCORE_SAVE_PATH", "/tmp/turncore.db")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Config{
		Seed:             1234,
		Battles:          50,
		Workers:          2,
		MaxTicks:         900,
		LogLevel:         "debug",
		SavePath:         "/tmp/turncore.db",
		HoneycombDataset: "turncore",
	}, cfg)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
		want string
	}{
		{"not a number", "TURNCORE_BATTLES", "many", "parse env:"},
		{"no battles", "TURNCORE_BATTLES", "0", "TURNCORE_BATTLES"},
		{"no workers", "TURNCORE_WORKERS", "-1", "TURNCORE_WORKERS"},
		{"bad level", "TURNCORE_LOG_LEVEL", "loud", "TURNCORE_LOG_LEVEL"},
		{"telemetry without key", "TURNCORE_TELEMETRY", "true", "HONEYCOMB_TURNCORE_API_KEY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{" warn ", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info+2", slog.LevelInfo + 2},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Config{LogLevel: tt.in}.Level()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
