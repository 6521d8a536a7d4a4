package systems

import (
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/math"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

// ModelSource resolves and parses model files. Implemented by assets.AssetManager.
type ModelSource interface {
	Resolve(name string, resourceType metadata.ResourceType) (string, error)
	LoadAsset(name string, resourceType metadata.ResourceType, params interface{}) (*metadata.Resource, error)
	UnloadAsset(resource *metadata.Resource) error
}

/**
 * @brief Parses models on the job system and hands the geometry to the
 * scene from the main thread.
 */
type MeshLoaderSystem struct {
	jobSystem   *JobSystem
	sceneSystem *SceneSystem
	assets      ModelSource
}

func NewMeshLoaderSystem(js *JobSystem, ss *SceneSystem, assets ModelSource) (*MeshLoaderSystem, error) {
	if js == nil || ss == nil || assets == nil {
		return nil, errors.New("mesh loader system requires jobs, scene and assets")
	}
	return &MeshLoaderSystem{
		jobSystem:   js,
		sceneSystem: ss,
		assets:      assets,
	}, nil
}

func (mls *MeshLoaderSystem) Initialize() error {
	return nil
}

func (mls *MeshLoaderSystem) Shutdown() error {
	return nil
}

/**
 * @brief Queues a load of the named model. When parsing succeeds a new
 * entity with the given transform receives the geometry.
 */
func (mls *MeshLoaderSystem) Load(name string, transform *math.Transform) error {
	path, err := mls.assets.Resolve(name, metadata.ResourceTypeModel)
	if err != nil {
		core.LogError("Failed to load mesh '%s': %s", name, err)
		return err
	}
	params := &metadata.MeshLoadParams{ResourceName: path, Transform: transform}
	return mls.submit(params, func() {
		e := mls.sceneSystem.CreateEntity(modelName(path), params.Transform)
		e.SourcePath = path
		mls.apply(e, params)
	})
}

/**
 * @brief Re-parses path and replaces the geometry of every entity loaded
 * from it. Returns false when no entity uses path.
 */
func (mls *MeshLoaderSystem) Reload(path string) bool {
	if len(mls.sceneSystem.FindBySource(path)) == 0 {
		return false
	}
	params := &metadata.MeshLoadParams{ResourceName: path}
	err := mls.submit(params, func() {
		// Entities may have been removed while the job ran.
		for _, e := range mls.sceneSystem.FindBySource(path) {
			mls.apply(e, params)
		}
	})
	if err != nil {
		core.LogError("Failed to queue reload of '%s': %s", path, err)
		return false
	}
	core.LogInfo("Reloading mesh '%s'.", path)
	return true
}

func (mls *MeshLoaderSystem) submit(params *metadata.MeshLoadParams, onSuccess func()) error {
	_, err := mls.jobSystem.Submit(metadata.JobTask{
		JobType: metadata.JOB_TYPE_RESOURCE_LOAD,
		Run: func() (interface{}, error) {
			return mls.meshLoadJobStart(params)
		},
		OnComplete: func(result interface{}) {
			params.OutMesh = result.(*metadata.MeshData)
			onSuccess()
		},
		OnFailure: func(err error) {
			mls.meshLoadJobFail(params, err)
		},
	})
	return err
}

// meshLoadJobStart runs on a worker. It parses the file and releases the resource wrapper.
func (mls *MeshLoaderSystem) meshLoadJobStart(params *metadata.MeshLoadParams) (*metadata.MeshData, error) {
	res, err := mls.assets.LoadAsset(params.ResourceName, metadata.ResourceTypeModel, nil)
	if err != nil {
		return nil, err
	}
	mesh, ok := res.Data.(*metadata.MeshData)
	if !ok {
		return nil, errors.Newf("model loader returned %T", res.Data)
	}
	if err := mls.assets.UnloadAsset(res); err != nil {
		core.LogWarn("unloading model resource '%s': %s", params.ResourceName, err)
	}
	return mesh, nil
}

func (mls *MeshLoaderSystem) meshLoadJobFail(params *metadata.MeshLoadParams, err error) {
	core.LogError("Failed to load mesh '%s': %s", params.ResourceName, err)
}

// apply uploads the parsed geometry on the main thread.
func (mls *MeshLoaderSystem) apply(e *Entity, params *metadata.MeshLoadParams) {
	if err := mls.sceneSystem.SetMesh(e.ID, params.OutMesh); err != nil {
		if !errors.Is(err, core.ErrEmptyMesh) {
			core.LogError("Failed to upload mesh '%s': %s", params.ResourceName, err)
		}
		return
	}
	core.LogDebug("Successfully loaded mesh '%s'.", params.ResourceName)
}

func modelName(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}
