package systems

import (
	"github.com/cockroachdb/errors"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/renderer/components"
)

var ErrCameraSlotsExhausted = errors.New("no free camera slot; raise MaxCameraCount")

type CameraSystem struct {
	Config  *CameraSystemConfig
	Lookup  map[string]uint16
	Cameras []*components.CameraLookup
	// A default, non-registered camera that always exists as a fallback.
	DefaultCamera *components.Camera
}

/** @brief The camera system configuration. */
type CameraSystemConfig struct {
	/**
	 * @brief The maximum number of named cameras that can be managed by
	 * the system. The default camera does not count.
	 */
	MaxCameraCount uint16
	/** @brief Settings every newly created camera starts with. */
	Defaults components.CameraSettings
}

const invalidCameraID = ^uint16(0)

func NewCameraSystem(config *CameraSystemConfig) (*CameraSystem, error) {
	if config.MaxCameraCount == 0 {
		err := errors.New("func NewCameraSystem - config.MaxCameraCount must be > 0")
		core.LogError(err.Error())
		return nil, err
	}
	cs := &CameraSystem{
		Config:  config,
		Cameras: make([]*components.CameraLookup, config.MaxCameraCount),
		Lookup:  make(map[string]uint16, config.MaxCameraCount),
	}
	for i := range cs.Cameras {
		cs.Cameras[i] = &components.CameraLookup{ID: invalidCameraID}
	}
	cs.DefaultCamera = components.NewCameraWithSettings(config.Defaults)
	return cs, nil
}

func (cs *CameraSystem) Initialize() error {
	core.LogInfo("Camera system initialized with %d slots.", cs.Config.MaxCameraCount)
	return nil
}

func (cs *CameraSystem) Shutdown() error {
	clear(cs.Lookup)
	for _, c := range cs.Cameras {
		c.ID = invalidCameraID
		c.ReferenceCount = 0
		c.Camera = nil
	}
	return nil
}

/**
 * @brief Acquires a camera by name. If one is not found, a new one is
 * created. The internal reference counter is incremented.
 */
func (cs *CameraSystem) Acquire(name string) (*components.Camera, error) {
	if name == components.DEFAULT_CAMERA_NAME {
		return cs.DefaultCamera, nil
	}
	id, ok := cs.Lookup[name]
	if !ok {
		id = invalidCameraID
		for i, c := range cs.Cameras {
			if c.ID == invalidCameraID {
				id = uint16(i)
				break
			}
		}
		if id == invalidCameraID {
			core.LogError("camera '%s' could not be acquired: %s", name, ErrCameraSlotsExhausted)
			return nil, ErrCameraSlotsExhausted
		}
		core.LogDebug("Creating new camera named '%s'...", name)
		cs.Cameras[id].Camera = components.NewCameraWithSettings(cs.Config.Defaults)
		cs.Cameras[id].ID = id
		cs.Lookup[name] = id
	}
	cs.Cameras[id].ReferenceCount++
	return cs.Cameras[id].Camera, nil
}

/**
 * @brief Releases a camera with the given name. When the reference count
 * reaches 0 the slot becomes usable by a new camera.
 */
func (cs *CameraSystem) Release(name string) {
	if name == components.DEFAULT_CAMERA_NAME {
		core.LogDebug("Cannot release default camera. Nothing was done.")
		return
	}
	id, ok := cs.Lookup[name]
	if !ok {
		core.LogWarn("CameraSystemRelease failed lookup for '%s'. Nothing was done.", name)
		return
	}
	lookup := cs.Cameras[id]
	lookup.ReferenceCount--
	if lookup.ReferenceCount < 1 {
		lookup.ID = invalidCameraID
		lookup.Camera = nil
		delete(cs.Lookup, name)
	}
}

func (cs *CameraSystem) GetDefault() *components.Camera {
	return cs.DefaultCamera
}
