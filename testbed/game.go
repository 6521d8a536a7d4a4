package testbed

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/meshview/engine"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/renderer/components"
	"github.com/spaghettifunk/meshview/engine/systems"
	"github.com/spaghettifunk/meshview/engine/ui"
)

type TestGame struct {
	*engine.Game
}

type gameState struct {
	WorldCamera *components.Camera

	width  uint32
	height uint32

	// Frame the scene once the first configured model arrives.
	framed bool
}

func NewTestGame(config *engine.Config) *TestGame {
	tg := &TestGame{
		Game: &engine.Game{
			Config: config,
			State:  &gameState{},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnRender = tg.Render
	tg.FnOnResize = tg.OnResize
	tg.FnShutdown = tg.Shutdown

	return tg
}

func (g *TestGame) Initialize() error {
	core.LogDebug("TestGame Initialize fn....")

	if g.SystemManager == nil {
		return errors.New("the engine is not yet initialized with all the system managers")
	}

	state := g.State.(*gameState)
	state.WorldCamera = g.Camera
	g.loadModels()
	return nil
}

// loadModels queues every configured model. Failures are logged and skipped.
func (g *TestGame) loadModels() {
	for _, m := range g.Config.Scene.Models {
		if err := g.SystemManager.MeshLoaderSystem.Load(m.Path, m.Transform()); err != nil {
			core.LogWarn("skipping model %s: %s", m.Path, err)
		}
	}
}

func (g *TestGame) Update(deltaTime float64) error {
	state := g.State.(*gameState)
	scene := g.SystemManager.SceneSystem

	applyCameraControls(g.Input, state.WorldCamera, deltaTime)

	if !state.framed && !scene.Bounds().IsEmpty() {
		frameScene(state.WorldCamera, scene)
		state.framed = true
	}

	switch {
	case g.Input.KeyPressedThisFrame(core.KEY_ESCAPE):
		g.Events.Fire(core.EventContext{Type: core.EVENT_CODE_APPLICATION_QUIT})
	case g.Input.KeyPressedThisFrame(core.KEY_F):
		frameScene(state.WorldCamera, scene)
	case g.Input.KeyPressedThisFrame(core.KEY_R):
		state.WorldCamera.Reset()
	case g.Input.KeyPressedThisFrame(core.KEY_C):
		if err := scene.Clear(); err != nil {
			core.LogError("clearing scene: %s", err)
		}
	case g.Input.KeyPressedThisFrame(core.KEY_L):
		state.framed = false
		g.loadModels()
	case g.Input.KeyPressedThisFrame(core.KEY_DELETE):
		if last := scene.Last(); last != nil {
			core.LogInfo("Removing %s", last.Name)
			if err := scene.RemoveEntity(last.ID); err != nil {
				core.LogError("removing %s: %s", last.Name, err)
			}
		}
	}
	return nil
}

func (g *TestGame) Render(overlay *ui.Overlay, deltaTime float64) error {
	if overlay == nil {
		return nil
	}
	state := g.State.(*gameState)
	for _, line := range statusLines(g.Metrics, g.SystemManager.SceneSystem.Count(), state.WorldCamera.Position()) {
		overlay.Text("%s", line)
	}
	return nil
}

func (g *TestGame) OnResize(width uint32, height uint32) error {
	state := g.State.(*gameState)
	state.width = width
	state.height = height
	return nil
}

func (g *TestGame) Shutdown() error {
	core.LogDebug("TestGame Shutdown fn....")
	return nil
}

// Left drag orbits, right drag pans and the wheel zooms. WASD walks.
func applyCameraControls(input *core.InputState, camera *components.Camera, deltaTime float64) {
	dx, dy := input.MouseDelta()
	if dx != 0 || dy != 0 {
		switch {
		case input.IsButtonDown(core.BUTTON_LEFT):
			camera.Orbit(float32(dx), float32(dy))
		case input.IsButtonDown(core.BUTTON_RIGHT):
			camera.Pan(float32(dx), float32(dy))
		}
	}
	if wheel := input.WheelDelta(); wheel != 0 {
		camera.Zoom(float32(wheel))
	}

	var forward, right float32
	if input.IsKeyDown(core.KEY_W) {
		forward++
	}
	if input.IsKeyDown(core.KEY_S) {
		forward--
	}
	if input.IsKeyDown(core.KEY_D) {
		right++
	}
	if input.IsKeyDown(core.KEY_A) {
		right--
	}
	if forward != 0 || right != 0 {
		camera.Move(forward, right, float32(deltaTime))
	}
}

func frameScene(camera *components.Camera, scene *systems.SceneSystem) {
	bounds := scene.Bounds()
	if bounds.IsEmpty() {
		return
	}
	camera.FrameBounds(bounds.Min, bounds.Max)
}

func statusLines(metrics *core.FrameMetrics, entities int, position mgl32.Vec3) []string {
	return []string{
		fmt.Sprintf("FPS: %.0f (%.2f ms)", metrics.FPS(), metrics.FrameTime()),
		fmt.Sprintf("Entities: %d", entities),
		fmt.Sprintf("Camera: [%.2f, %.2f, %.2f]", position.X(), position.Y(), position.Z()),
	}
}
