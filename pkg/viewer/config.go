// Package viewer ties the loader, animation, controls and renderer into one
// interactive session and drives it from a single render loop.
package viewer

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds every user-tunable setting of a session.
type Config struct {
	// Model is a path, file:// URL or http(s) URL of a GLB asset.
	Model string `yaml:"model" toml:"model"`
	// FPS is the render loop rate.
	FPS int `yaml:"fps" toml:"fps"`
	// FOV is the vertical field of view in degrees.
	FOV float64 `yaml:"fov" toml:"fov"`
	// Background is the clear color as "R,G,B".
	Background string `yaml:"background" toml:"background"`
	// Texture optionally replaces the material textures of every mesh
	// that has texture coordinates.
	Texture string `yaml:"texture" toml:"texture"`
	// FlatShading generates per-face normals for meshes that carry none.
	FlatShading bool `yaml:"flat" toml:"flat"`
	// Autoplay starts every animation as soon as the model is ready.
	Autoplay bool `yaml:"autoplay" toml:"autoplay"`

	ShowHUD   bool `yaml:"hud" toml:"hud"`
	Wireframe bool `yaml:"wireframe" toml:"wireframe"`
	Bounds    bool `yaml:"bounds" toml:"bounds"`

	Headless HeadlessConfig `yaml:"headless" toml:"headless"`

	LogLevel string `yaml:"log_level" toml:"log_level"`
	LogFile  string `yaml:"log_file" toml:"log_file"`
}

// HeadlessConfig controls runs without a terminal.
type HeadlessConfig struct {
	Width  int `yaml:"width" toml:"width"`
	Height int `yaml:"height" toml:"height"`
	// Frames is how many frames to render after the model is ready.
	Frames int `yaml:"frames" toml:"frames"`
	// Snapshot is a PNG path for the last frame; empty skips it.
	Snapshot string `yaml:"snapshot" toml:"snapshot"`
}

// DefaultModel is loaded when no model is configured.
const DefaultModel = "scene.glb"

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Model:      DefaultModel,
		FPS:        60,
		FOV:        45,
		Background: "119,119,119",
		Headless: HeadlessConfig{
			Width:  320,
			Height: 180,
			Frames: 60,
		},
		LogLevel: "info",
	}
}

// LoadConfig reads a config file over the defaults. Files ending in .toml
// are TOML, anything else is YAML. Keys missing from the file keep their
// default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	unmarshal := yaml.Unmarshal
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		unmarshal = toml.Unmarshal
	}
	if err := unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Model == "" {
		return errors.New("no model given")
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.FPS)
	}
	if c.FOV <= 0 || c.FOV >= 180 {
		return fmt.Errorf("fov must be between 0 and 180 degrees, got %g", c.FOV)
	}
	if _, err := ParseColor(c.Background); err != nil {
		return err
	}
	if c.Headless.Width <= 0 || c.Headless.Height <= 0 {
		return fmt.Errorf("headless size must be positive, got %dx%d", c.Headless.Width, c.Headless.Height)
	}
	return nil
}

// ParseColor parses "R,G,B" with components in 0..255.
func ParseColor(s string) (color.RGBA, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return color.RGBA{}, fmt.Errorf("color %q: want R,G,B", s)
	}
	var rgb [3]uint8
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("color %q: %w", s, err)
		}
		rgb[i] = uint8(v)
	}
	return color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}, nil
}
