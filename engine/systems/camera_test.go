package systems

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/meshview/engine/renderer/components"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCameraSystem(t *testing.T, max uint16) *CameraSystem {
	t.Helper()
	defaults := components.DefaultCameraSettings()
	defaults.Position = mgl32.Vec3{0, 1, 10}
	cs, err := NewCameraSystem(&CameraSystemConfig{MaxCameraCount: max, Defaults: defaults})
	require.NoError(t, err)
	require.NoError(t, cs.Initialize())
	return cs
}

func TestCameraSystemRejectsZeroSlots(t *testing.T) {
	_, err := NewCameraSystem(&CameraSystemConfig{})
	assert.Error(t, err)
}

func TestCameraSystemDefaultCameraUsesConfig(t *testing.T) {
	cs := newCameraSystem(t, 1)
	def, err := cs.Acquire(components.DEFAULT_CAMERA_NAME)
	require.NoError(t, err)
	assert.Same(t, cs.GetDefault(), def)
	assert.Equal(t, mgl32.Vec3{0, 1, 10}, def.Position())

	// Releasing the default camera is a no-op.
	cs.Release(components.DEFAULT_CAMERA_NAME)
	assert.Same(t, def, cs.GetDefault())
}

func TestCameraSystemReferenceCounting(t *testing.T) {
	cs := newCameraSystem(t, 2)

	a, err := cs.Acquire("inspect")
	require.NoError(t, err)
	again, err := cs.Acquire("inspect")
	require.NoError(t, err)
	assert.Same(t, a, again)

	_, err = cs.Acquire("top")
	require.NoError(t, err)
	_, err = cs.Acquire("side")
	assert.ErrorIs(t, err, ErrCameraSlotsExhausted)

	cs.Release("inspect")
	_, err = cs.Acquire("side")
	assert.ErrorIs(t, err, ErrCameraSlotsExhausted, "one reference is still held")

	cs.Release("inspect")
	side, err := cs.Acquire("side")
	require.NoError(t, err)
	assert.NotSame(t, a, side)

	// Unknown names are ignored.
	cs.Release("never-acquired")
	require.NoError(t, cs.Shutdown())
	assert.Empty(t, cs.Lookup)
}
