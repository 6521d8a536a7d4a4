package engine

import (
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/renderer/components"
	"github.com/spaghettifunk/meshview/engine/systems"
	"github.com/spaghettifunk/meshview/engine/ui"
)

/**
 * @brief The application the engine drives. The engine fills in the
 * runtime fields before FnInitialize is called.
 */
type Game struct {
	Config *Config

	// Set by the engine.
	SystemManager *systems.SystemManager
	Input         *core.InputState
	Events        *core.EventSystem
	Metrics       *core.FrameMetrics
	Camera        *components.Camera

	State        interface{}
	FnInitialize Initialize
	FnUpdate     Update
	FnRender     Render
	FnOnResize   OnResize
	FnShutdown   Shutdown
}

type Initialize func() error
type Update func(deltaTime float64) error

// Render adds the frame's overlay text. overlay is nil when the overlay is disabled.
type Render func(overlay *ui.Overlay, deltaTime float64) error
type OnResize func(width uint32, height uint32) error
type Shutdown func() error
