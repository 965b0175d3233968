// vitrine - terminal viewer for animated glTF models.
//
// Controls:
//
//	Mouse drag  - Orbit the camera
//	Scroll, +/- - Zoom in/out
//	W/A/S/D     - Orbit (arrow keys work too)
//	P           - Play all animations from the start
//	R           - Reset animations to the first frame
//	V           - Reset the view
//	T           - Toggle texture
//	X           - Toggle wireframe (x-ray)
//	B           - Toggle bounds and axes
//	?           - Toggle HUD overlay
//	Esc         - Quit
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/taigrr/vitrine/pkg/viewer"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fang.Execute(ctx, newRootCmd()); err != nil {
		stop()
		os.Exit(1)
	}
}

type options struct {
	configPath string
	headless   bool
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "vitrine [model.glb|url]",
		Short: "View an animated glTF model in your terminal",
		Long: `vitrine loads a binary glTF model from a path or an http(s) URL,
frames it, and lets you orbit around it and play its animations.

With --headless it renders off screen and can save the last frame as a PNG.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, args, opts)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, opts.headless)
		},
	}

	defaults := viewer.DefaultConfig()
	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "Config file (YAML, or TOML by .toml extension)")
	f.BoolVar(&opts.headless, "headless", false, "Render off screen instead of in the terminal")
	f.Int("fps", defaults.FPS, "Target FPS")
	f.Float64("fov", defaults.FOV, "Vertical field of view in degrees")
	f.String("bg", defaults.Background, "Background color (R,G,B)")
	f.String("texture", "", "Texture image for every mesh with UVs (PNG/JPG/WebP/BMP)")
	f.Bool("flat", false, "Flat-shade meshes that have no normals")
	f.Bool("play", false, "Play all animations once the model is loaded")
	f.Bool("hud", false, "Show the HUD overlay")
	f.Bool("wireframe", false, "Start in wireframe mode")
	f.Bool("bounds", false, "Show bounds and axes")
	f.Int("width", defaults.Headless.Width, "Headless framebuffer width")
	f.Int("height", defaults.Headless.Height, "Headless framebuffer height")
	f.Int("frames", defaults.Headless.Frames, "Headless frames to render after loading")
	f.String("snapshot", "", "Headless PNG output for the last frame")
	f.String("log-file", "", "Write logs to this file")
	f.String("log-level", defaults.LogLevel, "Log level (debug, info, warn, error)")
	return cmd
}

// loadConfig reads the config file, if any, and applies the flags that were
// set on the command line over it.
func loadConfig(cmd *cobra.Command, args []string, opts options) (viewer.Config, error) {
	cfg := viewer.DefaultConfig()
	if opts.configPath != "" {
		var err error
		cfg, err = viewer.LoadConfig(opts.configPath)
		if err != nil {
			return cfg, err
		}
	}
	if len(args) > 0 {
		cfg.Model = args[0]
	}

	// Getters cannot fail here: every name is registered with its type.
	f := cmd.Flags()
	if f.Changed("fps") {
		cfg.FPS, _ = f.GetInt("fps")
	}
	if f.Changed("fov") {
		cfg.FOV, _ = f.GetFloat64("fov")
	}
	if f.Changed("bg") {
		cfg.Background, _ = f.GetString("bg")
	}
	if f.Changed("texture") {
		cfg.Texture, _ = f.GetString("texture")
	}
	if f.Changed("flat") {
		cfg.FlatShading, _ = f.GetBool("flat")
	}
	if f.Changed("play") {
		cfg.Autoplay, _ = f.GetBool("play")
	}
	if f.Changed("hud") {
		cfg.ShowHUD, _ = f.GetBool("hud")
	}
	if f.Changed("wireframe") {
		cfg.Wireframe, _ = f.GetBool("wireframe")
	}
	if f.Changed("bounds") {
		cfg.Bounds, _ = f.GetBool("bounds")
	}
	if f.Changed("width") {
		cfg.Headless.Width, _ = f.GetInt("width")
	}
	if f.Changed("height") {
		cfg.Headless.Height, _ = f.GetInt("height")
	}
	if f.Changed("frames") {
		cfg.Headless.Frames, _ = f.GetInt("frames")
	}
	if f.Changed("snapshot") {
		cfg.Headless.Snapshot, _ = f.GetString("snapshot")
	}
	if f.Changed("log-file") {
		cfg.LogFile, _ = f.GetString("log-file")
	}
	if f.Changed("log-level") {
		cfg.LogLevel, _ = f.GetString("log-level")
	}
	return cfg, cfg.Validate()
}

// newLogger builds the process logger. In the terminal, logs would corrupt
// the screen, so they go to the log file or nowhere.
func newLogger(cfg viewer.Config, headless bool) (*slog.Logger, io.Closer, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(cfg.LogLevel))); err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}
	hopts := &slog.HandlerOptions{Level: level}

	switch {
	case cfg.LogFile != "":
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		return slog.New(slog.NewTextHandler(f, hopts)), f, nil
	case headless:
		return slog.New(slog.NewTextHandler(os.Stderr, hopts)), io.NopCloser(nil), nil
	default:
		return slog.New(slog.DiscardHandler), io.NopCloser(nil), nil
	}
}

func run(ctx context.Context, cfg viewer.Config, headless bool) error {
	logger, closer, err := newLogger(cfg, headless)
	if err != nil {
		return err
	}
	defer closer.Close()

	session, err := viewer.NewSession(cfg, logger)
	if err != nil {
		return err
	}

	var surf viewer.Surface
	if headless {
		surf = viewer.NewHeadlessSurface(cfg.Headless, logger)
	} else {
		term, err := viewer.NewTerminalSurface()
		if err != nil {
			return err
		}
		surf = term
	}
	defer surf.Close()

	return session.Run(ctx, surf)
}
