package systems

import (
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/math"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryModels serves MeshData by path. Safe for use from job workers.
type memoryModels struct {
	mu      sync.Mutex
	models  map[string]*metadata.MeshData
	loadErr error
}

func (m *memoryModels) set(path string, data *metadata.MeshData) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.models[path] = data
}

func (m *memoryModels) Resolve(name string, resourceType metadata.ResourceType) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.models[name]; !ok {
		return "", core.ErrAssetNotFound
	}
	return name, nil
}

func (m *memoryModels) LoadAsset(name string, resourceType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	data, ok := m.models[name]
	if !ok {
		return nil, errors.Wrap(core.ErrAssetNotFound, name)
	}
	return &metadata.Resource{LoaderType: resourceType, FullPath: name, Data: data}, nil
}

func (m *memoryModels) UnloadAsset(resource *metadata.Resource) error {
	resource.Data = nil
	return nil
}

func newMeshLoaderFixture(t *testing.T) (*MeshLoaderSystem, *SceneSystem, *recordingRenderer, *memoryModels, *JobSystem) {
	t.Helper()
	js := newRunningJobSystem(t, 2)
	r := newRecordingRenderer()
	scene := NewSceneSystem(r)
	models := &memoryModels{models: map[string]*metadata.MeshData{}}
	mls, err := NewMeshLoaderSystem(js, scene, models)
	require.NoError(t, err)
	return mls, scene, r, models, js
}

func TestMeshLoaderLoadCreatesEntity(t *testing.T) {
	mls, scene, r, models, js := newMeshLoaderFixture(t)
	models.set("/models/tri.obj", triangleData(0))

	transform := math.TransformFromPosition(mgl32.Vec3{0, 0, -2})
	require.NoError(t, mls.Load("/models/tri.obj", transform))
	assert.Zero(t, scene.Count(), "entity appears only once the job is dispatched")

	drain(t, js)
	require.Equal(t, 1, scene.Count())
	e := scene.Last()
	assert.Equal(t, "tri", e.Name)
	assert.Equal(t, "/models/tri.obj", e.SourcePath)
	assert.Same(t, transform, e.Transform)
	assert.NotNil(t, e.Mesh)
	assert.Len(t, r.live, 1)
}

func TestMeshLoaderLoadMissingModel(t *testing.T) {
	mls, scene, _, _, _ := newMeshLoaderFixture(t)
	assert.ErrorIs(t, mls.Load("missing.obj", nil), core.ErrAssetNotFound)
	assert.Zero(t, scene.Count())
}

func TestMeshLoaderReloadReplacesGeometry(t *testing.T) {
	mls, scene, r, models, js := newMeshLoaderFixture(t)
	models.set("m.obj", triangleData(0))
	require.NoError(t, mls.Load("m.obj", nil))
	drain(t, js)
	e := scene.Last()
	first := e.Mesh

	models.set("m.obj", triangleData(3))
	assert.True(t, mls.Reload("m.obj"))
	drain(t, js)

	assert.NotSame(t, first, e.Mesh)
	assert.Equal(t, 1, r.replaces)
	assert.Len(t, r.live, 1)
	assert.Equal(t, float32(3), e.Bounds.Min.X())

	assert.False(t, mls.Reload("unrelated.obj"))
}

func TestMeshLoaderReloadToEmptyClearsMesh(t *testing.T) {
	mls, scene, r, models, js := newMeshLoaderFixture(t)
	models.set("m.obj", triangleData(0))
	require.NoError(t, mls.Load("m.obj", nil))
	drain(t, js)

	models.set("m.obj", &metadata.MeshData{})
	require.True(t, mls.Reload("m.obj"))
	drain(t, js)

	e := scene.Last()
	require.NotNil(t, e)
	assert.Nil(t, e.Mesh)
	assert.Empty(t, r.live)
}

func TestMeshLoaderFailedParseLeavesSceneAlone(t *testing.T) {
	mls, scene, r, models, js := newMeshLoaderFixture(t)
	models.set("m.obj", triangleData(0))
	models.loadErr = errors.New("line 3: bad number")

	require.NoError(t, mls.Load("m.obj", nil))
	drain(t, js)

	assert.Zero(t, scene.Count())
	assert.Zero(t, r.uploads)
}
