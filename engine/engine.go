package engine

import (
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/spaghettifunk/meshview/engine/assets"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/platform"
	"github.com/spaghettifunk/meshview/engine/renderer"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
	"github.com/spaghettifunk/meshview/engine/renderer/vulkan"
	"github.com/spaghettifunk/meshview/engine/systems"
	"github.com/spaghettifunk/meshview/engine/ui"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
	// Engine released everything it owned
	EngineStageShutdown
)

type Engine struct {
	currentStage  Stage
	gameInstance  *Game
	config        *Config
	isRunning     bool
	isSuspended   bool
	events        *core.EventSystem
	input         *core.InputState
	platform      *platform.Platform
	assetManager  *assets.AssetManager
	renderer      *renderer.Renderer
	overlay       *ui.Overlay
	systemManager *systems.SystemManager
	width         uint32
	height        uint32
	clock         *core.Clock
	metrics       *core.FrameMetrics
	lastTime      float64
}

func New(g *Game) (*Engine, error) {
	if g.Config == nil {
		g.Config = DefaultConfig()
	}
	cfg := g.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := core.SetLogLevel(cfg.Application.LogLevel); err != nil {
		core.LogWarn("invalid log level %q, keeping the default: %s", cfg.Application.LogLevel, err)
	}

	events := core.NewEventSystem()
	input := core.NewInputState(events)

	p, err := platform.New(input, events)
	if err != nil {
		return nil, err
	}

	am, err := assets.NewAssetManager(cfg.Application.AssetPath)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	return &Engine{
		currentStage: EngineStageUninitialized,
		gameInstance: g,
		config:       cfg,
		events:       events,
		input:        input,
		platform:     p,
		assetManager: am,
		clock:        core.NewClock(),
		metrics:      core.NewFrameMetrics(),
		isRunning:    true,
		width:        cfg.Application.StartWidth,
		height:       cfg.Application.StartHeight,
	}, nil
}

/**
 * @brief Starts every subsystem in dependency order: window, assets,
 * renderer, overlay, systems and finally the game. A failure leaves the
 * engine in a state Shutdown can unwind.
 */
func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing
	cfg := e.config

	e.events.Register(core.EVENT_CODE_APPLICATION_QUIT, e, e.onEvent)
	e.events.Register(core.EVENT_CODE_RESIZED, e, e.onResized)
	e.events.Register(core.EVENT_CODE_ASSET_CHANGED, e, e.onAssetChanged)

	if err := e.platform.Startup(cfg.Application.Name,
		cfg.Application.StartPosX,
		cfg.Application.StartPosY,
		cfg.Application.StartWidth,
		cfg.Application.StartHeight); err != nil {
		return err
	}
	// The framebuffer may differ from the window size on high DPI displays.
	e.width, e.height = e.platform.FramebufferSize()

	if err := e.assetManager.Initialize(); err != nil {
		return err
	}
	if cfg.Scene.WatchModels {
		dir := filepath.Join(cfg.Application.AssetPath, "models")
		if err := e.assetManager.Watch(dir); err != nil {
			core.LogWarn("not watching %s for changes: %s", dir, err)
		}
	}

	vertex, err := e.loadShader(cfg.Renderer.VertexShader)
	if err != nil {
		return err
	}
	fragment, err := e.loadShader(cfg.Renderer.FragmentShader)
	if err != nil {
		return err
	}
	cullMode, err := cfg.Renderer.FaceCullMode()
	if err != nil {
		return err
	}
	r, err := renderer.New(renderer.Vulkan, e.platform, vulkan.VulkanRendererConfig{
		ApplicationName: cfg.Application.Name,
		Validation:      cfg.Renderer.Validation,
		PreferMailbox:   cfg.Renderer.PreferMailbox,
		Wireframe:       cfg.Renderer.Wireframe,
		CullMode:        cullMode,
		ClearColor:      cfg.Renderer.ClearColor,
		VertexShader:    vertex,
		FragmentShader:  fragment,
	})
	if err != nil {
		return err
	}
	e.renderer = r
	if err := r.Initialize(); err != nil {
		return err
	}

	if cfg.Overlay.Enabled {
		if err := e.initializeOverlay(); err != nil {
			return err
		}
	}

	sm, err := systems.NewSystemManager(cfg.Systems(), e.renderer, e.assetManager)
	if err != nil {
		return err
	}
	if err := sm.Initialize(); err != nil {
		return err
	}
	e.systemManager = sm
	sm.CameraSystem.GetDefault().SetAspectRatio(e.width, e.height)

	g := e.gameInstance
	g.SystemManager = sm
	g.Input = e.input
	g.Events = e.events
	g.Metrics = e.metrics
	g.Camera = sm.CameraSystem.GetDefault()

	if g.FnInitialize != nil {
		if err := g.FnInitialize(); err != nil {
			return err
		}
	}
	if g.FnOnResize != nil {
		if err := g.FnOnResize(e.width, e.height); err != nil {
			return err
		}
	}
	e.currentStage = EngineStageInitialized
	return nil
}

func (e *Engine) loadShader(name string) ([]uint32, error) {
	res, err := e.assetManager.LoadAsset(name, metadata.ResourceTypeShader, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "loading shader %s", name)
	}
	code, ok := res.Data.([]uint32)
	if !ok {
		return nil, errors.Wrapf(core.ErrShaderInvalid, "shader %s", name)
	}
	return code, nil
}

func (e *Engine) initializeOverlay() error {
	cfg := e.config.Overlay
	vertex, err := e.loadShader(cfg.VertexShader)
	if err != nil {
		return err
	}
	fragment, err := e.loadShader(cfg.FragmentShader)
	if err != nil {
		return err
	}
	overlay := ui.NewOverlay(ui.OverlayConfig{
		Margin:         cfg.Margin,
		VertexShader:   vertex,
		FragmentShader: fragment,
	}, e.loadRasterizer())
	if err := overlay.Initialize(e.renderer.Context()); err != nil {
		return err
	}
	e.overlay = overlay
	return nil
}

// loadRasterizer falls back to the built-in face when the configured font cannot be used.
func (e *Engine) loadRasterizer() ui.TextRasterizer {
	cfg := e.config.Overlay
	if cfg.Font == "" {
		return nil
	}

	var (
		r   ui.TextRasterizer
		err error
	)
	switch strings.ToLower(filepath.Ext(cfg.Font)) {
	case ".fnt":
		var res *metadata.Resource
		if res, err = e.assetManager.LoadAsset(cfg.Font, metadata.ResourceTypeBitmapFont, nil); err == nil {
			r, err = ui.NewBitmapRasterizer(res.Data.(*metadata.BitmapFontResourceData))
		}
	case ".ttf", ".otf":
		var res *metadata.Resource
		if res, err = e.assetManager.LoadAsset(cfg.Font, metadata.ResourceTypeSystemFont, nil); err == nil {
			r, err = ui.NewTrueTypeRasterizer(res.Data.(*metadata.SystemFontResourceData), cfg.FontSize)
		}
	default:
		err = errors.Newf("unsupported font type %q", filepath.Ext(cfg.Font))
	}
	if err != nil {
		core.LogWarn("overlay font %s unavailable, using the built-in face: %s", cfg.Font, err)
		return nil
	}
	return r
}

func (e *Engine) Run() error {
	e.currentStage = EngineStageRunning
	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	g := e.gameInstance
	camera := e.systemManager.CameraSystem.GetDefault()
	scene := e.systemManager.SceneSystem

	for e.isRunning {
		e.platform.PumpMessages()
		if e.platform.ShouldClose() {
			e.isRunning = false
			break
		}

		if e.isSuspended {
			// Nothing to draw while minimized; sleep until the window changes.
			e.platform.WaitEvents()
			continue
		}

		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := currentTime - e.lastTime
		frameStartTime := currentTime

		// Finished loads are applied here, on the thread that owns the renderer.
		e.systemManager.Update()
		for _, path := range e.assetManager.PollChanges() {
			e.events.Fire(core.EventContext{
				Type: core.EVENT_CODE_ASSET_CHANGED,
				Data: &core.AssetEvent{Path: path},
			})
		}

		if g.FnUpdate != nil {
			if err := g.FnUpdate(delta); err != nil {
				core.LogFatal("Game update failed, shutting down: %s", err)
				return err
			}
		}
		if !e.isRunning {
			break
		}

		var uiRecorder vulkan.UIRecorder
		if e.overlay != nil {
			e.overlay.BeginFrame()
			uiRecorder = e.overlay
		}
		if g.FnRender != nil {
			if err := g.FnRender(e.overlay, delta); err != nil {
				core.LogFatal("Game render failed, shutting down: %s", err)
				return err
			}
		}
		if e.overlay != nil {
			e.overlay.EndFrame()
		}

		if err := e.renderer.DrawFrame(camera, scene, uiRecorder); err != nil {
			if errors.Is(err, core.ErrWindowClosing) {
				core.LogInfo("Window is closing, leaving the frame loop.")
				e.isRunning = false
				break
			}
			core.LogFatal("Frame failed, shutting down: %s", err)
			return err
		}

		e.clock.Update()
		e.metrics.Update(e.clock.Elapsed() - frameStartTime)

		// NOTE: Input update/state copying should always be handled
		// after any input should be recorded; I.E. before this line.
		// As a safety, input is the last thing to be updated before
		// this frame ends.
		e.input.Update(delta)
		e.lastTime = currentTime
	}
	return nil
}

// Stop ends the frame loop after the current frame. Safe to call from any goroutine.
func (e *Engine) Stop() {
	e.platform.RequestClose()
}

/**
 * @brief Tears everything down in reverse order of creation. The device is
 * drained first so no frame in flight references what is being destroyed.
 */
func (e *Engine) Shutdown() error {
	if e.currentStage == EngineStageShutdown {
		return nil
	}
	e.currentStage = EngineStageShuttingDown
	var errs error

	if g := e.gameInstance; g.FnShutdown != nil {
		errs = errors.CombineErrors(errs, g.FnShutdown())
	}
	if e.renderer != nil {
		errs = errors.CombineErrors(errs, e.renderer.WaitIdle())
	}
	if e.overlay != nil {
		e.overlay.Destroy()
		e.overlay = nil
	}
	if e.systemManager != nil {
		errs = errors.CombineErrors(errs, e.systemManager.Shutdown())
	}
	if e.renderer != nil {
		errs = errors.CombineErrors(errs, e.renderer.Shutdown())
		e.renderer = nil
	}
	errs = errors.CombineErrors(errs, e.assetManager.Shutdown())
	errs = errors.CombineErrors(errs, e.platform.Shutdown())
	errs = errors.CombineErrors(errs, e.events.Shutdown())

	e.currentStage = EngineStageShutdown
	return errs
}

// GetFramebufferSize returns the width and height (in this order)
// of the application framebuffer
func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.width, e.height
}

func (e *Engine) onEvent(context core.EventContext) bool {
	switch context.Type {
	case core.EVENT_CODE_APPLICATION_QUIT:
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.isRunning = false
		return true
	}
	return false
}

func (e *Engine) onAssetChanged(context core.EventContext) bool {
	ae, ok := context.Data.(*core.AssetEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}
	if e.systemManager.MeshLoaderSystem.Reload(ae.Path) {
		core.LogInfo("Reloading %s", ae.Path)
	}
	// Other listeners may care about the same file.
	return false
}

func (e *Engine) onResized(context core.EventContext) bool {
	se, ok := context.Data.(*core.SystemEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}

	width := se.WindowWidth
	height := se.WindowHeight
	if width == e.width && height == e.height {
		return false
	}
	e.width = width
	e.height = height
	core.LogDebug("Window resize: %d, %d", width, height)

	// Handle minimization
	if width == 0 || height == 0 {
		core.LogInfo("Window minimized, suspending application.")
		e.isSuspended = true
		return true
	}
	if e.isSuspended {
		core.LogInfo("Window restored, resuming application.")
		e.isSuspended = false
	}
	if e.renderer != nil {
		e.renderer.OnResize(width, height)
	}
	if e.systemManager != nil {
		e.systemManager.CameraSystem.GetDefault().SetAspectRatio(width, height)
	}
	if fn := e.gameInstance.FnOnResize; fn != nil {
		if err := fn(width, height); err != nil {
			core.LogError("game resize handler failed: %s", err)
		}
	}
	return true
}
