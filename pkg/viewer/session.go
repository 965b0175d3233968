package viewer

import (
	"fmt"
	"log/slog"
	"path/filepath"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/vitrine/pkg/animation"
	"github.com/taigrr/vitrine/pkg/controls"
	"github.com/taigrr/vitrine/pkg/loader"
	"github.com/taigrr/vitrine/pkg/math3d"
	"github.com/taigrr/vitrine/pkg/models"
	"github.com/taigrr/vitrine/pkg/render"
)

// Camera clip planes.
const (
	nearPlane = 0.1
	farPlane  = 1000
)

// ViewState holds the display toggles.
type ViewState struct {
	Texture   bool
	Wireframe bool
	Bounds    bool
	HUD       bool
}

// Session is one viewer: a scene with at most one model, a camera with
// orbit controls, the animation controller and the on-screen controls.
// A session is owned by the goroutine running it; none of its methods are
// safe for concurrent use.
type Session struct {
	cfg    Config
	logger *slog.Logger
	loader *loader.Loader

	camera     *render.Camera
	fb         *render.Framebuffer
	rasterizer *render.Rasterizer
	background render.Color

	scene   *models.Node
	model   *models.Node
	clips   []*models.Clip
	mixer   *animation.Mixer
	anim    *animation.Controller
	orbit   *controls.Orbit
	framing Framing

	override *render.Texture
	textures map[*models.Texture]*render.Texture
	loaded   bool
	loadErr  error

	ui   *UI
	hud  *HUD
	view ViewState
	drag dragState
}

// NewSession validates cfg and builds an empty scene. The model is loaded
// by Run.
func NewSession(cfg Config, logger *slog.Logger) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	bg, err := ParseColor(cfg.Background)
	if err != nil {
		return nil, err
	}

	camera := render.NewCamera()
	camera.SetFOVDegrees(cfg.FOV)
	camera.SetClipPlanes(nearPlane, farPlane)

	ld := loader.New(logger)
	ld.GLTF.SmoothNormals = !cfg.FlatShading

	s := &Session{
		cfg:        cfg,
		logger:     logger,
		loader:     ld,
		camera:     camera,
		background: bg,
		scene:      models.NewNode("scene"),
		anim:       animation.NewController(),
		orbit:      controls.NewOrbit(camera, cfg.FPS),
		textures:   make(map[*models.Texture]*render.Texture),
		ui:         NewUI(),
		hud:        NewHUD(filepath.Base(cfg.Model)),
		view: ViewState{
			Texture:   true,
			Wireframe: cfg.Wireframe,
			Bounds:    cfg.Bounds,
			HUD:       cfg.ShowHUD,
		},
	}

	if cfg.Texture != "" {
		tex, err := render.LoadTexture(cfg.Texture)
		if err != nil {
			logger.Warn("could not load texture", "path", cfg.Texture, "error", err)
		} else {
			s.override = tex
		}
	}

	s.ResizePixels(cfg.Headless.Width, cfg.Headless.Height)
	return s, nil
}

// HandleLoad applies one loader event.
func (s *Session) HandleLoad(ev loader.Event) {
	switch ev := ev.(type) {
	case loader.ProgressEvent:
		if ev.Total > 0 {
			s.ui.SetProgress(ev.Percent)
		}
	case loader.DoneEvent:
		if !ev.OK() {
			s.loadErr = ev.Err
			s.ui.LoadFailed()
			return
		}
		s.onLoaded(ev.Asset)
	}
}

func (s *Session) onLoaded(asset *models.Asset) {
	s.model = asset.Root
	s.clips = asset.Clips
	s.scene.Add(s.model)

	s.framing = Frame(s.camera, s.model, s.orbit)
	s.orbit.MinDistance = s.framing.MaxDim * 0.05
	s.scene.UpdateWorld(math3d.Identity())

	s.convertTextures()

	if len(asset.Clips) > 0 {
		s.mixer = animation.NewMixer(s.model)
	}
	show := s.anim.Setup(asset.Clips, s.mixer)
	s.ui.LoadSucceeded(show)

	tris := s.model.TriangleCount()
	s.hud.SetTriangles(tris)
	s.loaded = true

	s.logger.Info("model ready",
		"clips", len(asset.Clips),
		"triangles", tris,
		"size", s.framing.Size,
		"distance", s.framing.Distance,
	)

	if s.cfg.Autoplay {
		s.PlayAll()
	}
}

// PlayAll restarts every animation. It does nothing before the model has
// animations.
func (s *Session) PlayAll() {
	if !s.anim.HasActions() {
		return
	}
	s.logger.Debug("play animations", "count", len(s.anim.Actions()))
	s.anim.PlayAll()
}

// ResetAll stops every animation and poses the model on the first frame.
func (s *Session) ResetAll() {
	if !s.anim.HasActions() {
		return
	}
	s.logger.Debug("reset animations")
	s.anim.ResetAll()
}

// ResetView puts the camera back where the framer placed it.
func (s *Session) ResetView() {
	if !s.loaded {
		return
	}
	s.orbit.Stop()
	s.camera.SetPosition(s.framing.Position)
	s.orbit.SetTarget(math3d.Zero3())
	s.orbit.Update(0)
}

// ResizePixels replaces the framebuffer and rasterizer with ones of the
// given pixel size and updates the camera aspect.
func (s *Session) ResizePixels(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.fb = render.NewFramebuffer(width, height)
	s.rasterizer = render.NewRasterizer(s.camera, s.fb)
	s.camera.SetAspectRatio(float64(width) / float64(height))
	s.logger.Debug("resize", "width", width, "height", height)
}

// Tick advances the session by dt seconds and draws a frame.
func (s *Session) Tick(dt float64) {
	if s.mixer != nil {
		s.mixer.Update(dt)
	}
	s.orbit.Update(dt)
	s.scene.UpdateWorld(math3d.Identity())
	s.hud.Tick(dt)
	s.draw()
}

func (s *Session) draw() {
	r := s.rasterizer
	r.BeginFrame(s.background)
	if s.model == nil {
		return
	}

	s.scene.Walk(func(n *models.Node) bool {
		for _, m := range n.Meshes {
			if s.view.Wireframe {
				r.DrawMeshWireframe(m, n.World(), render.ColorWire)
			} else {
				r.DrawMesh(m, n.World(), meshColor(m), s.meshTexture(m))
			}
		}
		return true
	})

	if s.view.Bounds {
		r.DrawBox(s.model.WorldBounds(), render.ColorWhite)
		r.DrawAxes(s.framing.MaxDim * 0.5)
	}
}

// convertTextures turns every material texture of the model into a render
// texture once. Meshes sharing a material texture share the result.
func (s *Session) convertTextures() {
	s.model.Walk(func(n *models.Node) bool {
		for _, m := range n.Meshes {
			mt := m.Texture
			if mt == nil || s.textures[mt] != nil {
				continue
			}
			tex := render.TextureFromImage(mt.Image)
			tex.WrapU = wrapMode(mt.WrapS)
			tex.WrapV = wrapMode(mt.WrapT)
			if !mt.Nearest {
				tex.Filter = render.FilterBilinear
			}
			s.textures[mt] = tex
			s.logger.Debug("texture", "name", mt.Name, "width", tex.Width, "height", tex.Height)
		}
		return true
	})
}

// meshTexture returns the texture to draw m with, or nil for flat color.
// The override replaces material textures on every mesh that has UVs.
func (s *Session) meshTexture(m *models.Mesh) *render.Texture {
	switch {
	case !s.view.Texture || !m.HasUVs():
		return nil
	case s.override != nil:
		return s.override
	case m.Texture != nil:
		return s.textures[m.Texture]
	default:
		return nil
	}
}

func wrapMode(w models.Wrap) render.WrapMode {
	switch w {
	case models.WrapClamp:
		return render.WrapClamp
	case models.WrapMirror:
		return render.WrapMirror
	default:
		return render.WrapRepeat
	}
}

// DrawOverlay paints the controls and, when enabled, the HUD.
func (s *Session) DrawOverlay(scr uv.Screen) {
	if s.view.HUD {
		st := HUDState{
			View:      s.view,
			Animation: s.anim.State().String(),
			Clips:     len(s.clips),
		}
		if s.mixer != nil {
			st.Time = s.mixer.Time()
		}
		s.hud.Draw(scr, s.ui.cols, s.ui.rows, st)
	}
	s.ui.Draw(scr)
}

func meshColor(m *models.Mesh) render.Color {
	c := m.BaseColor
	return render.RGB(unit8(c[0]), unit8(c[1]), unit8(c[2]))
}

func unit8(v float64) uint8 {
	return uint8(min(max(v, 0), 1)*255 + 0.5)
}

// Camera returns the session camera.
func (s *Session) Camera() *render.Camera { return s.camera }

// Model returns the loaded model, or nil.
func (s *Session) Model() *models.Node { return s.model }

// Framing returns the pose chosen when the model was loaded.
func (s *Session) Framing() Framing { return s.framing }

// Animation returns the animation controller.
func (s *Session) Animation() *animation.Controller { return s.anim }

// UI returns the on-screen controls.
func (s *Session) UI() *UI { return s.ui }

// View returns the display toggles.
func (s *Session) View() ViewState { return s.view }

// Framebuffer returns the current frame.
func (s *Session) Framebuffer() *render.Framebuffer { return s.fb }

// Loaded reports whether the model has been loaded.
func (s *Session) Loaded() bool { return s.loaded }

// Err returns the load error, if loading failed.
func (s *Session) Err() error { return s.loadErr }
