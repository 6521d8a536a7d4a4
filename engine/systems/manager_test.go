package systems

import (
	"testing"

	"github.com/spaghettifunk/meshview/engine/renderer/components"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemManagerLifecycle(t *testing.T) {
	r := newRecordingRenderer()
	models := &memoryModels{models: map[string]*metadata.MeshData{}}
	sm, err := NewSystemManager(SystemManagerConfig{
		Camera: CameraSystemConfig{MaxCameraCount: 4, Defaults: components.DefaultCameraSettings()},
		Jobs:   JobSystemConfig{Workers: 1, QueueSize: 4},
	}, r, models)
	require.NoError(t, err)
	require.NoError(t, sm.Initialize())

	models.set("a.obj", triangleData(0))
	require.NoError(t, sm.MeshLoaderSystem.Load("a.obj", nil))
	drain(t, sm.JobSystem)
	require.Equal(t, 1, sm.SceneSystem.Count())
	assert.Len(t, r.live, 1)

	// The scene releases its meshes before the job system stops.
	require.NoError(t, sm.Shutdown())
	assert.Empty(t, r.live)
	assert.Zero(t, sm.SceneSystem.Count())

	_, err = sm.JobSystem.Submit(metadata.JobTask{Run: func() (interface{}, error) { return nil, nil }})
	assert.ErrorIs(t, err, ErrJobSystemStopped)

	require.NoError(t, sm.Shutdown())
}

func TestSystemManagerRejectsBadConfig(t *testing.T) {
	models := &memoryModels{models: map[string]*metadata.MeshData{}}
	_, err := NewSystemManager(SystemManagerConfig{
		Camera: CameraSystemConfig{MaxCameraCount: 4},
	}, newRecordingRenderer(), models)
	assert.ErrorIs(t, err, ErrNoWorkers)

	_, err = NewSystemManager(SystemManagerConfig{
		Jobs: JobSystemConfig{Workers: 1},
	}, newRecordingRenderer(), models)
	assert.Error(t, err)
}
