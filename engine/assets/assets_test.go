package assets

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const triangleOBJ = "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"

func newTestAssetManager(t *testing.T) (*AssetManager, string) {
	t.Helper()
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "models"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(base, "models", "tri.obj"), []byte(triangleOBJ), 0o644))

	am, err := NewAssetManager(base)
	require.NoError(t, err)
	require.NoError(t, am.Initialize())
	t.Cleanup(func() { _ = am.Shutdown() })
	return am, base
}

func TestAssetManagerLoadsModelByName(t *testing.T) {
	am, base := newTestAssetManager(t)

	res, err := am.LoadAsset("tri.obj", metadata.ResourceTypeModel, nil)
	require.NoError(t, err)
	mesh, ok := res.Data.(*metadata.MeshData)
	require.True(t, ok)
	assert.Len(t, mesh.Indices, 3)

	want, err := filepath.Abs(filepath.Join(base, "models", "tri.obj"))
	require.NoError(t, err)
	assert.Equal(t, want, res.FullPath)

	info, ok := am.Info(want)
	require.True(t, ok)
	assert.Equal(t, metadata.ResourceTypeModel, info.Type)
	assert.False(t, info.LastLoaded.IsZero())

	require.NoError(t, am.UnloadAsset(res))
	assert.Nil(t, res.Data)
}

func TestAssetManagerResolve(t *testing.T) {
	am, base := newTestAssetManager(t)
	direct := filepath.Join(base, "models", "tri.obj")

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"by name", "tri.obj", false},
		{"direct path", direct, false},
		{"missing", "nope.obj", true},
		{"directory", filepath.Join(base, "models"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := am.Resolve(tt.input, metadata.ResourceTypeModel)
			if tt.wantErr {
				assert.ErrorIs(t, err, core.ErrAssetNotFound)
				return
			}
			require.NoError(t, err)
			assert.True(t, filepath.IsAbs(got))
			assert.Equal(t, "tri.obj", filepath.Base(got))
		})
	}
}

func TestAssetManagerRejectsUnregisteredType(t *testing.T) {
	am, base := newTestAssetManager(t)
	path := filepath.Join(base, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hi"), 0o644))

	_, err := am.LoadAsset(path, metadata.ResourceTypeText, nil)
	assert.ErrorContains(t, err, "no loader registered")
}

func TestAssetManagerReportsChangedModels(t *testing.T) {
	am, base := newTestAssetManager(t)
	models := filepath.Join(base, "models")
	require.NoError(t, am.Watch(models))

	target := filepath.Join(models, "tri.obj")
	want, err := filepath.Abs(target)
	require.NoError(t, err)

	var seen []string
	require.Eventually(t, func() bool {
		// Keep touching the file in case the first write raced the watch.
		_ = os.WriteFile(target, []byte(triangleOBJ), 0o644)
		_ = os.WriteFile(filepath.Join(models, "ignored.txt"), []byte("x"), 0o644)
		seen = append(seen, am.PollChanges()...)
		return slices.Contains(seen, want)
	}, 5*time.Second, 20*time.Millisecond)

	for _, p := range seen {
		assert.Equal(t, ".obj", filepath.Ext(p))
	}
}

func TestAssetManagerShutdownIsIdempotent(t *testing.T) {
	am, base := newTestAssetManager(t)
	require.NoError(t, am.Watch(base))
	require.NoError(t, am.Shutdown())
	require.NoError(t, am.Shutdown())
	assert.Error(t, am.Watch(base))
}
