package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	require.Equal(t, "skopeo", cfg.SkopeoPath)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "", cfg.RunRoot)
	require.Equal(t, slog.LevelInfo, cfg.Level())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CONTAINERSTORE_SKOPEO", "/usr/local/bin/skopeo")
	t.Setenv("CONTAINERSTORE_LOG_LEVEL", "debug")
	t.Setenv("CONTAINERSTORE_RUN_ROOT", "/tmp/run")

	cfg := Load()
	require.Equal(t, "/usr/local/bin/skopeo", cfg.SkopeoPath)
	require.Equal(t, slog.LevelDebug, cfg.Level())
	require.Equal(t, "/tmp/run", cfg.RunRoot)
}

func TestLevelUnknownFallsBack(t *testing.T) {
	cfg := &Config{LogLevel: "chatty"}
	require.Equal(t, slog.LevelInfo, cfg.Level())
}
