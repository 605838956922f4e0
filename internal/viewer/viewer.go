// Package viewer implements the interactive model viewer loop.
package viewer

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/objview/internal/assets"
	"github.com/Faultbox/objview/internal/config"
	"github.com/Faultbox/objview/internal/engine/camera"
	"github.com/Faultbox/objview/internal/engine/debug"
	"github.com/Faultbox/objview/internal/engine/gpu"
	"github.com/Faultbox/objview/internal/engine/input"
	"github.com/Faultbox/objview/internal/engine/lighting"
	"github.com/Faultbox/objview/internal/engine/renderer"
	"github.com/Faultbox/objview/internal/engine/scene"
	"github.com/Faultbox/objview/internal/engine/texture"
	"github.com/Faultbox/objview/internal/engine/window"
	"github.com/Faultbox/objview/internal/logger"
)

// Viewer owns the window, the GPU resources and the view state of one model.
type Viewer struct {
	cfg      *config.Config
	scene    *scene.Scene
	window   *window.Window
	device   *gpu.Device
	uploader gpu.TextureUploader
	renderer *renderer.Renderer
	input    *input.Input
	view     *camera.ViewState
	shots    *debug.ScreenshotCapture
	aspect   float32
}

// New opens a window for sc and uploads it to the GPU.
func New(cfg *config.Config, sc *scene.Scene) (*Viewer, error) {
	log := logger.Named("viewer")

	v := &Viewer{
		cfg:   cfg,
		scene: sc,
		input: input.New(),
		view:  ViewStateFor(cfg),
	}

	var err error
	v.window, err = window.New(window.Config{
		Title:      Title(sc.Path),
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
		MSAA:       cfg.Graphics.MSAA,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Device AFTER window, since the OpenGL context must exist
	v.device, err = gpu.New(gpu.Config{
		Background: cfg.Viewer.Background,
		Light:      LightFor(cfg),
		MSAA:       cfg.Graphics.MSAA > 0,
	})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create device: %w", err)
	}

	if cfg.Textures.Enabled {
		v.loadTextures()
	}

	v.renderer, err = renderer.New(v.device, sc, ProjectionFor(cfg))
	if err != nil {
		sc.Release(v.uploader)
		v.device.Release()
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	format, err := debug.ParseFormat(cfg.Screenshot.Format)
	if err != nil {
		format = debug.FormatPNG
	}
	v.shots = debug.NewScreenshotCapture(cfg.Screenshot.Dir, screenshotPrefix(sc.Path), format)

	v.resize()

	log.Info("viewer initialized",
		zap.String("model", sc.Path),
		zap.Int("triangles", v.renderer.DrawList().Triangles()),
		zap.Int("materials", len(sc.Materials)))
	return v, nil
}

// loadTextures resolves diffuse maps relative to the model directory.
func (v *Viewer) loadTextures() {
	mgr := assets.NewManager()
	defer mgr.Close()

	if err := mgr.AddDir(filepath.Dir(v.scene.Path)); err != nil {
		logger.Warn("model directory unavailable for textures", zap.Error(err))
	}

	dec := texture.NewFileDecoder(mgr, v.cfg.Textures.FlipV)
	handles, errs := texture.Resolve(v.scene.Materials, dec, v.uploader)
	v.scene.SetTextures(handles)

	hits, misses := mgr.CacheStats()
	logger.Debug("texture files read",
		zap.Int("cache_hits", hits),
		zap.Int("cache_misses", misses))

	if len(errs) > 0 {
		logger.Info("some textures could not be loaded",
			zap.Int("loaded", len(handles)),
			zap.Int("failed", len(errs)))
	}
}

// Run drives the frame loop until the window is closed or Escape is pressed.
func (v *Viewer) Run() error {
	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting render loop")

	for {
		quit := v.window.Poll(v.input)
		actions := input.Apply(v.view, v.input.Events())
		if quit || actions.Quit {
			return nil
		}

		if actions.Resized {
			v.resize()
		}

		stats := v.renderer.RenderFrame(v.view, v.aspect)

		// Read back before the swap, the back buffer is undefined after it
		if actions.Screenshot {
			v.screenshot()
		}

		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			logger.Debug("fps",
				zap.Int("count", frameCount),
				zap.Int("draw_calls", stats.DrawCalls),
				zap.Int("triangles", stats.Triangles))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}
}

// resize matches the viewport and aspect ratio to the drawable size.
func (v *Viewer) resize() {
	v.device.Resize(v.window.DrawableSize())
	v.aspect = v.window.Aspect()
}

func (v *Viewer) screenshot() {
	w, h := v.window.DrawableSize()
	path, err := v.shots.CaptureFromPixels(v.device.ReadPixels(w, h), w, h)
	if err != nil {
		logger.Error("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

// Close releases textures, GPU buffers and the window, in that order.
func (v *Viewer) Close() {
	logger.Info("closing viewer")

	if v.scene != nil {
		v.scene.Release(v.uploader)
	}
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}

// Title returns the window title for the model at path.
func Title(path string) string {
	return "OBJ Viewer: " + filepath.Base(path)
}

func screenshotPrefix(path string) string {
	base := filepath.Base(path)
	if name := strings.TrimSuffix(base, filepath.Ext(base)); name != "" && name != "." {
		return name
	}
	return "screenshot"
}

// ProjectionFor returns the lens configured in cfg.
func ProjectionFor(cfg *config.Config) renderer.Projection {
	return renderer.Projection{
		FovY:     cfg.Viewer.FOV,
		Near:     cfg.Viewer.Near,
		Far:      cfg.Viewer.Far,
		Distance: cfg.Viewer.CameraDistance,
	}
}

// ViewStateFor returns the initial view with the configured interaction
// settings.
func ViewStateFor(cfg *config.Config) *camera.ViewState {
	vs := camera.NewViewState()
	vs.Sensitivity = cfg.Viewer.DragSensitivity
	vs.ZoomBase = cfg.Viewer.ZoomBase
	vs.MinZoom = cfg.Viewer.MinZoom
	vs.MaxZoom = cfg.Viewer.MaxZoom
	return vs
}

// LightFor returns the directional light configured in cfg.
func LightFor(cfg *config.Config) lighting.Directional {
	return lighting.Directional{
		Direction: cfg.Lighting.Direction,
		Ambient:   cfg.Lighting.Ambient,
		Diffuse:   cfg.Lighting.Diffuse,
		Specular:  cfg.Lighting.Specular,
	}
}
