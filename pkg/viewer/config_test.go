package viewer

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "scene.glb", cfg.Model)
	assert.Equal(t, 45.0, cfg.FOV)
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vitrine.yaml")
	data := []byte(`
model: https://example.com/robot.glb
fps: 30
background: "10, 20, 30"
wireframe: true
flat: true
headless:
  frames: 5
  snapshot: out.png
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/robot.glb", cfg.Model)
	assert.Equal(t, 30, cfg.FPS)
	assert.True(t, cfg.Wireframe)
	assert.True(t, cfg.FlatShading)
	assert.Equal(t, 5, cfg.Headless.Frames)
	assert.Equal(t, "out.png", cfg.Headless.Snapshot)

	// untouched keys keep their defaults
	assert.Equal(t, 45.0, cfg.FOV)
	assert.Equal(t, 320, cfg.Headless.Width)
	assert.Equal(t, "info", cfg.LogLevel)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vitrine.toml")
	data := []byte(`
model = "robot.glb"
fov = 60.0
hud = true

[headless]
width = 640
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "robot.glb", cfg.Model)
	assert.Equal(t, 60.0, cfg.FOV)
	assert.True(t, cfg.ShowHUD)
	assert.Equal(t, 640, cfg.Headless.Width)
	assert.Equal(t, 180, cfg.Headless.Height)
	assert.Equal(t, 60, cfg.FPS)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fps: [1, 2"), 0o644))
	_, err = LoadConfig(path)
	assert.Error(t, err)
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{"119,119,119", color.RGBA{119, 119, 119, 255}, false},
		{" 1, 2 ,3 ", color.RGBA{1, 2, 3, 255}, false},
		{"0,0,0", color.RGBA{0, 0, 0, 255}, false},
		{"256,0,0", color.RGBA{}, true},
		{"1,2", color.RGBA{}, true},
		{"red", color.RGBA{}, true},
		{"", color.RGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no model", func(c *Config) { c.Model = "" }},
		{"zero fps", func(c *Config) { c.FPS = 0 }},
		{"flat fov", func(c *Config) { c.FOV = 0 }},
		{"wide fov", func(c *Config) { c.FOV = 180 }},
		{"bad background", func(c *Config) { c.Background = "1,2,x" }},
		{"headless size", func(c *Config) { c.Headless.Width = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
