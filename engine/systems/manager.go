package systems

import (
	"github.com/cockroachdb/errors"
	"github.com/spaghettifunk/meshview/engine/core"
)

type System interface {
	Initialize() error
	Shutdown() error
}

type SystemManagerConfig struct {
	Camera CameraSystemConfig
	Jobs   JobSystemConfig
}

/**
 * @brief Owns the engine systems. They are initialized in dependency order
 * and shut down in reverse.
 */
type SystemManager struct {
	CameraSystem     *CameraSystem
	JobSystem        *JobSystem
	SceneSystem      *SceneSystem
	MeshLoaderSystem *MeshLoaderSystem

	order       []System
	initialized int
}

func NewSystemManager(config SystemManagerConfig, renderer MeshRenderer, assets ModelSource) (*SystemManager, error) {
	js, err := NewJobSystem(config.Jobs)
	if err != nil {
		return nil, err
	}
	cs, err := NewCameraSystem(&config.Camera)
	if err != nil {
		return nil, err
	}
	ss := NewSceneSystem(renderer)
	mls, err := NewMeshLoaderSystem(js, ss, assets)
	if err != nil {
		return nil, err
	}
	return &SystemManager{
		CameraSystem:     cs,
		JobSystem:        js,
		SceneSystem:      ss,
		MeshLoaderSystem: mls,
		order:            []System{js, cs, ss, mls},
	}, nil
}

// Initialize stops at the first failure and shuts down what already started.
func (sm *SystemManager) Initialize() error {
	for _, s := range sm.order {
		if err := s.Initialize(); err != nil {
			core.LogError("system %T failed to initialize: %s", s, err)
			return errors.CombineErrors(err, sm.Shutdown())
		}
		sm.initialized++
	}
	return nil
}

func (sm *SystemManager) Shutdown() error {
	var errs error
	for i := sm.initialized - 1; i >= 0; i-- {
		if err := sm.order[i].Shutdown(); err != nil {
			errs = errors.CombineErrors(errs, errors.Wrapf(err, "shutting down %T", sm.order[i]))
		}
	}
	sm.initialized = 0
	return errs
}

// Update dispatches finished job callbacks. Main thread only.
func (sm *SystemManager) Update() {
	sm.JobSystem.Update()
}
