package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taigrr/vitrine/pkg/viewer"
)

func parse(t *testing.T, args ...string) (viewer.Config, error) {
	t.Helper()
	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags(args))
	var opts options
	opts.configPath, _ = cmd.Flags().GetString("config")
	opts.headless, _ = cmd.Flags().GetBool("headless")
	return loadConfig(cmd, cmd.Flags().Args(), opts)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := parse(t)
	require.NoError(t, err)
	assert.Equal(t, viewer.DefaultConfig(), cfg)
}

func TestLoadConfigFlagsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vitrine.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fps: 24\nfov: 60\nbackground: \"1,2,3\"\n"), 0o644))

	cfg, err := parse(t, "--config", path, "--fps", "30", "--play", "--flat", "--snapshot", "out.png", "robot.glb")
	require.NoError(t, err)

	assert.Equal(t, "robot.glb", cfg.Model)
	assert.Equal(t, 30, cfg.FPS, "flag wins over file")
	assert.Equal(t, 60.0, cfg.FOV, "file wins over default")
	assert.Equal(t, "1,2,3", cfg.Background)
	assert.True(t, cfg.Autoplay)
	assert.True(t, cfg.FlatShading)
	assert.Equal(t, "out.png", cfg.Headless.Snapshot)
}

func TestLoadConfigInvalid(t *testing.T) {
	_, err := parse(t, "--bg", "purple")
	assert.Error(t, err)

	_, err = parse(t, "--fps", "0")
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	cfg := viewer.DefaultConfig()
	cfg.LogLevel = "DEBUG"
	cfg.LogFile = filepath.Join(t.TempDir(), "vitrine.log")

	logger, closer, err := newLogger(cfg, false)
	require.NoError(t, err)
	assert.True(t, logger.Enabled(t.Context(), slog.LevelDebug))
	logger.Info("hello", "n", 1)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "msg=hello")

	cfg.LogLevel = "loud"
	_, _, err = newLogger(cfg, true)
	assert.Error(t, err)

	cfg.LogLevel = "warn"
	cfg.LogFile = ""
	logger, _, err = newLogger(cfg, false)
	require.NoError(t, err)
	assert.False(t, logger.Enabled(t.Context(), slog.LevelError), "terminal mode without a log file discards")
}
