// Package app implements the interactive frame loop: terrain, camera,
// drawing controller and renderer wired together in one window.
package app

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/fieldplot/internal/config"
	"github.com/Faultbox/fieldplot/internal/drawing"
	"github.com/Faultbox/fieldplot/internal/engine/camera"
	"github.com/Faultbox/fieldplot/internal/engine/debug"
	"github.com/Faultbox/fieldplot/internal/engine/input"
	"github.com/Faultbox/fieldplot/internal/engine/renderer"
	"github.com/Faultbox/fieldplot/internal/engine/scene"
	"github.com/Faultbox/fieldplot/internal/engine/terrain"
	"github.com/Faultbox/fieldplot/internal/engine/window"
	"github.com/Faultbox/fieldplot/internal/logger"
	"github.com/Faultbox/fieldplot/internal/mesh"
	"github.com/Faultbox/fieldplot/pkg/math"
)

const (
	title = "FieldPlot"

	terrainTileCells = 4    // Terrain cells per grid tile
	outlineLift      = 0.15 // Freeform outline height above the points
	panSpeed         = 1.0  // Keyboard pan per frame, scaled by camera distance
	screenshotDir    = "screenshots"
	msaaSamples      = 4 // Keeps thin field edges readable
)

// App is the interactive field drawing tool.
type App struct {
	cfg     *config.Config
	running bool
	log     *zap.Logger

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	camera   *camera.OrbitCamera

	scene      *scene.Scene
	sched      *drawing.Scheduler
	coord      *drawing.Coordinator
	controller *drawing.Controller

	watcher    *config.Watcher
	screenshot *debug.ScreenshotCapture

	terrainBounds mesh.Bounds

	fields   int
	lastHUD  string
	hovered  drawing.MeshHandle
	hoverSet bool
}

// New opens the window and builds the scene. configPath, when set, is
// watched for changes.
func New(cfg *config.Config, configPath string) (*App, error) {
	a := &App{
		cfg:        cfg,
		log:        logger.Named("app"),
		input:      input.New(),
		camera:     camera.NewOrbitCamera(),
		sched:      drawing.NewScheduler(),
		screenshot: debug.NewScreenshotCapture(screenshotDir, "fieldplot", cfg.Graphics.ScreenshotFormat),
	}

	var err error
	a.scene, err = scene.New(cfg)
	if err != nil {
		return nil, err
	}

	// Create window (this also creates OpenGL context)
	a.window, err = window.New(window.Config{
		Title:      title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
		Samples:    msaaSamples,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	width, height := a.window.Size()
	a.renderer, err = renderer.New(renderer.Config{
		Width:  width,
		Height: height,
		VSync:  cfg.Graphics.VSync,
	})
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	ground := terrain.BuildMesh(a.scene.Terrain, terrainTileCells)
	if err := a.renderer.SetTerrain(ground, 1); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to upload terrain: %w", err)
	}

	a.camera.FOV = cfg.Graphics.FOV
	a.camera.SetViewport(width, height)
	a.terrainBounds = ground.WorldBounds()
	a.camera.FitToBounds(a.terrainBounds)

	a.coord = a.scene.NewCoordinator(a.renderer, drawing.OptionsFromConfig(cfg.Drawing), a.sched)
	a.controller = drawing.NewController(a.coord, drawing.PickerFunc(a.pickGround), drawing.KindBox)
	a.controller.OnFinalize = a.onFinalize

	if configPath != "" {
		if a.watcher, err = config.Watch(configPath); err != nil {
			a.log.Warn("config hot reload disabled", zap.Error(err))
		}
	}

	a.log.Info("app initialized",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Stringer("mode", a.controller.Kind()),
	)
	return a, nil
}

// Run starts the main loop.
func (a *App) Run() error {
	a.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	a.log.Info("starting main loop")

	for a.running {
		now := time.Now()
		dt := now.Sub(lastTime)
		lastTime = now

		// 1. Process input
		if a.input.Update() {
			a.running = false
			break
		}
		for _, event := range a.input.Events() {
			a.handleEvent(event)
		}

		// 2. Update drawing state
		a.update(dt)

		// 3. Render
		a.render()
		a.window.SwapBuffers()

		// FPS counter
		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			a.log.Debug("fps", zap.Int("count", frameCount), zap.Duration("dt", dt))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// Close releases the window and GL resources.
func (a *App) Close() {
	a.log.Info("closing app")

	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			a.log.Warn("closing config watcher", zap.Error(err))
		}
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}

func (a *App) handleEvent(event input.Event) {
	switch event.Type {
	case input.EventWindowResize:
		width, height := a.window.Size()
		a.renderer.Resize(width, height)
		a.camera.SetViewport(width, height)
	case input.EventMouseWheel:
		a.camera.HandleZoom(float32(event.Wheel))
	case input.EventKeyDown:
		switch event.Key {
		case sdl.SCANCODE_F12:
			a.takeScreenshot()
		case sdl.SCANCODE_F11:
			a.window.ToggleFullscreen()
		case sdl.SCANCODE_F:
			a.camera.FitToBounds(a.terrainBounds)
		case sdl.SCANCODE_DELETE:
			a.removeHovered()
		}
	}
}

func (a *App) update(dt time.Duration) {
	a.applyConfigUpdates()

	a.sched.Tick(dt)
	a.controller.Update(drawingInput{in: a.input})

	if a.input.IsButtonDown(sdl.BUTTON_MIDDLE) {
		dx, dy := a.input.MouseDelta()
		a.camera.HandleDrag(float32(dx), float32(dy))
	}
	a.camera.HandleMovement(a.axis(sdl.SCANCODE_W, sdl.SCANCODE_S)*panSpeed,
		a.axis(sdl.SCANCODE_D, sdl.SCANCODE_A)*panSpeed,
		a.axis(sdl.SCANCODE_E, sdl.SCANCODE_Q)*panSpeed)

	a.updateHover()
	a.updateHUD()
}

func (a *App) axis(pos, neg sdl.Scancode) float32 {
	var v float32
	if a.input.IsKeyDown(pos) {
		v++
	}
	if a.input.IsKeyDown(neg) {
		v--
	}
	return v
}

// applyConfigUpdates drains the watcher once per frame so drawing settings
// only change between frames.
func (a *App) applyConfigUpdates() {
	if a.watcher == nil {
		return
	}
	select {
	case cfg := <-a.watcher.Updates():
		if notices := cfg.Normalize(); notices != nil {
			for _, n := range multierr.Errors(notices) {
				a.log.Warn("config adjusted", zap.Error(n))
			}
		}
		if err := a.scene.Apply(cfg.Drawing); err != nil {
			a.log.Warn("config update rejected", zap.Error(err))
			return
		}
		a.cfg = cfg
		a.coord.SetOptions(drawing.OptionsFromConfig(cfg.Drawing))
		a.log.Info("drawing settings applied")
	default:
	}
}

func (a *App) pickGround(x, y float32) (math.Vec3, bool) {
	width, height := a.window.GetSize()
	return a.scene.PickGround(a.camera.ScreenRay(x, y, width, height))
}

func (a *App) updateHover() {
	x, y := a.input.MousePosition()
	width, height := a.window.GetSize()
	id, ok := a.scene.PickField(a.camera.ScreenRay(float32(x), float32(y), width, height))
	h := drawing.MeshHandle(id)
	if ok == a.hoverSet && h == a.hovered {
		return
	}
	a.hovered, a.hoverSet = h, ok

	var lines []float32
	if b, found := a.renderer.FieldBounds(h); ok && found {
		lines = debug.BoundsWireframe(b, debug.DefaultBBoxPadding)
	}
	a.renderer.SetLines("hover", lines, renderer.MaterialSelection)
}

// removeHovered deletes the field under the pointer.
func (a *App) removeHovered() {
	if !a.hoverSet || !a.scene.RemoveField(uint32(a.hovered)) {
		return
	}
	a.renderer.Release(a.hovered)
	a.fields--
	a.hoverSet = false
	a.renderer.SetLines("hover", nil, renderer.MaterialSelection)
}

func (a *App) onFinalize(res drawing.Result) {
	a.fields++
	for _, w := range res.Warnings {
		a.log.Warn("field placed with warning", zap.Uint32("handle", uint32(res.Handle)), zap.String("warning", w))
	}
}

func (a *App) render() {
	s := a.coord.Active()
	var points []math.Vec3
	if s != nil {
		m, valid := s.Preview()
		a.renderer.SetPreview(m, valid && !a.coord.InvalidFeedbackVisible())
		points = s.Points()
	} else {
		a.renderer.SetPreview(nil, false)
	}

	var outline []float32
	if a.controller.Kind() == drawing.KindFreeform && len(points) > 1 {
		outline = debug.Polyline(points, false, outlineLift)
	}
	a.renderer.SetLines("outline", outline, renderer.MaterialOutline)

	a.renderer.Draw(a.camera.ViewProj())
}

func (a *App) updateHUD() {
	hud := hudTitle(a.controller.Kind(), a.coord.Active(), a.coord.InvalidFeedbackVisible(), a.fields)
	if hud != a.lastHUD {
		a.window.SetTitle(hud)
		a.lastHUD = hud
	}
}

func (a *App) takeScreenshot() {
	pixels, width, height := a.renderer.ReadPixels()
	path, err := a.screenshot.CaptureFromPixels(pixels, width, height)
	if err != nil {
		a.log.Error("screenshot failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", zap.String("path", path))
}
