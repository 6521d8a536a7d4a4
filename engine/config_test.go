package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/meshview/engine/renderer/vulkan"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[application]
name = "viewer"
start_width = 800

[renderer]
cull_mode = "none"
prefer_mailbox = true
clear_color = [0.0, 0.0, 0.0, 1.0]

[camera]
fov = 60.0

[[scene.models]]
path = "cube.obj"
position = [1.0, 2.0, 3.0]

[[scene.models]]
path = "teapot.obj"
scale = [2.0, 2.0, 2.0]

[jobs]
workers = 4
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "viewer", cfg.Application.Name)
	assert.Equal(t, uint32(800), cfg.Application.StartWidth)
	// Untouched keys keep their defaults.
	assert.Equal(t, uint32(720), cfg.Application.StartHeight)
	assert.True(t, cfg.Renderer.PreferMailbox)
	assert.Equal(t, [4]float32{0, 0, 0, 1}, cfg.Renderer.ClearColor)
	assert.Equal(t, float32(60), cfg.Camera.FOVDegrees)
	assert.Equal(t, 4, cfg.Jobs.Workers)

	mode, err := cfg.Renderer.FaceCullMode()
	require.NoError(t, err)
	assert.Equal(t, vulkan.FaceCullModeNone, mode)

	require.Len(t, cfg.Scene.Models, 2)
	assert.Equal(t, [3]float32{1, 1, 1}, cfg.Scene.Models[0].Scale)
	assert.Equal(t, [3]float32{2, 2, 2}, cfg.Scene.Models[1].Scale)
	world := cfg.Scene.Models[0].Transform().GetWorld()
	assert.InDelta(t, 1.0, world.Col(3).X(), 1e-6)
	assert.InDelta(t, 3.0, world.Col(3).Z(), 1e-6)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	for name, content := range map[string]string{
		"syntax":     "[application\nname = 1",
		"cull mode":  "[renderer]\ncull_mode = \"sideways\"",
		"clip":       "[camera]\nnear = 10.0\nfar = 1.0",
		"fov":        "[camera]\nfov = 180.0",
		"workers":    "[jobs]\nworkers = 0",
		"move speed": "[camera]\nmove_speed = -1.0",
		"model path": "[[scene.models]]\nposition = [0.0, 0.0, 0.0]",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, content))
			assert.Error(t, err)
		})
	}
}

func TestModelTransformRotation(t *testing.T) {
	m := ModelConfig{RotationDegrees: [3]float32{0, 90, 0}, Scale: [3]float32{1, 1, 1}}
	world := m.Transform().GetWorld()
	x := world.Mul4x1(mgl32.Vec4{1, 0, 0, 0})
	assert.InDelta(t, 0.0, x.X(), 1e-5)
	assert.InDelta(t, -1.0, x.Z(), 1e-5)
}

func TestParseFlags(t *testing.T) {
	path, err := ParseFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfigPath, path)

	path, err = ParseFlags([]string{"-config", "custom.toml"})
	require.NoError(t, err)
	assert.Equal(t, "custom.toml", path)

	_, err = ParseFlags([]string{"-bogus"})
	assert.Error(t, err)
}

func TestCameraSettingsRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	sys := cfg.Systems()
	assert.Equal(t, cfg.Camera.MaxCameras, sys.Camera.MaxCameraCount)
	assert.Equal(t, cfg.Camera.FOVDegrees, sys.Camera.Defaults.FOVDegrees)
	assert.Equal(t, cfg.Camera.MoveSpeed, sys.Camera.Defaults.MoveSpeed)
	assert.Equal(t, cfg.Jobs.Workers, sys.Jobs.Workers)
}
