package loaders

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quadOBJ = `# a unit quad
o quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 2
s off
f 1/1/1 2/2/1 3/3/1 4/4/1
`

func TestParseOBJQuadIsFanTriangulated(t *testing.T) {
	mesh, err := ParseOBJ(strings.NewReader(quadOBJ), "quad")
	require.NoError(t, err)

	assert.Equal(t, "quad", mesh.Name)
	assert.Len(t, mesh.Vertices, 4)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, mesh.Indices)

	v := mesh.Vertices[2]
	assert.Equal(t, mgl32.Vec3{1, 1, 0}, v.Position)
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, v.Normal)
	// V is flipped for Vulkan image space.
	assert.Equal(t, mgl32.Vec2{1, 0}, v.TexCoord)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, v.Color)

	assert.Equal(t, mgl32.Vec3{0, 0, 0}, mesh.Extents.Min)
	assert.Equal(t, mgl32.Vec3{1, 1, 0}, mesh.Extents.Max)
}

func TestParseOBJDefaultsAndColors(t *testing.T) {
	src := "v 0 0 0 1 0 0\nv 1 0 0 0 1 0\nv 0 1 0 0 0 1\nf 1 2 3\n"
	mesh, err := ParseOBJ(strings.NewReader(src), "tri")
	require.NoError(t, err)

	require.Len(t, mesh.Vertices, 3)
	for _, v := range mesh.Vertices {
		// Generated from the counter clockwise winding.
		assert.Equal(t, mgl32.Vec3{0, 0, 1}, v.Normal)
		assert.Equal(t, mgl32.Vec2{0, 0}, v.TexCoord)
	}
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, mesh.Vertices[0].Color)
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, mesh.Vertices[2].Color)
}

func TestParseOBJNegativeIndicesAndDedup(t *testing.T) {
	src := `v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f -4 -3 -2
f 1 3 4
`
	mesh, err := ParseOBJ(strings.NewReader(src), "neg")
	require.NoError(t, err)

	assert.Len(t, mesh.Vertices, 4)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, mesh.Indices)
}

func TestParseOBJGeneratedNormalsAreSmooth(t *testing.T) {
	// Two perpendicular triangles sharing the edge from (1,0,0) to (1,1,0).
	src := `v 0 0 0
v 1 0 0
v 1 1 0
v 1 0 -1
f 1 2 3
f 2 4 3
`
	mesh, err := ParseOBJ(strings.NewReader(src), "edge")
	require.NoError(t, err)
	require.Len(t, mesh.Vertices, 4)

	assert.Equal(t, mgl32.Vec3{0, 0, 1}, mesh.Vertices[0].Normal)
	shared := mesh.Vertices[1].Normal
	assert.InDelta(t, 0.7071, shared.X(), 1e-3)
	assert.InDelta(t, 0.0, shared.Y(), 1e-6)
	assert.InDelta(t, 0.7071, shared.Z(), 1e-3)
}

func TestParseOBJDegenerateFaceKeepsDefaultNormal(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 2 0 0\nf 1 2 3\n"
	mesh, err := ParseOBJ(strings.NewReader(src), "line")
	require.NoError(t, err)
	for _, v := range mesh.Vertices {
		assert.Equal(t, mgl32.Vec3{0, 1, 0}, v.Normal)
	}
}

func TestParseOBJNormalOnlyForm(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nvn 1 0 0\nf 1//1 2//1 3//1\n"
	mesh, err := ParseOBJ(strings.NewReader(src), "n")
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, mesh.Vertices[1].Normal)
}

func TestParseOBJErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"short vertex", "v 1 2\n", "line 1"},
		{"bad number", "v 1 x 3\n", "bad number"},
		{"index zero", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n", "index 0"},
		{"out of range", "v 0 0 0\nv 1 0 0\nf 1 2 3\n", "out of range"},
		{"missing normal", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1//1 2//1 3//1\n", "normal"},
		{"degenerate face", "v 0 0 0\nv 1 0 0\nf 1 2\n", "at least 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOBJ(strings.NewReader(tt.src), tt.name)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseOBJWithoutFacesIsEmpty(t *testing.T) {
	mesh, err := ParseOBJ(strings.NewReader("# nothing\nv 0 0 0\n"), "empty")
	require.NoError(t, err)
	assert.True(t, mesh.IsEmpty())
	assert.True(t, mesh.Extents.IsEmpty())
}

func TestModelLoaderLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quad.obj")
	require.NoError(t, os.WriteFile(path, []byte(quadOBJ), 0o644))

	loader := &ModelLoader{}
	res, err := loader.Load(path, metadata.ResourceTypeModel, nil)
	require.NoError(t, err)
	assert.Equal(t, "quad", res.Name)
	assert.Equal(t, metadata.ResourceTypeModel, res.LoaderType)
	mesh, ok := res.Data.(*metadata.MeshData)
	require.True(t, ok)
	assert.Len(t, mesh.Indices, 6)

	require.NoError(t, loader.Unload(res))
	assert.Nil(t, res.Data)

	_, err = loader.Load(filepath.Join(t.TempDir(), "missing.obj"), metadata.ResourceTypeModel, nil)
	assert.Error(t, err)
}

func TestParseSPIRV(t *testing.T) {
	valid := []byte{0x03, 0x02, 0x23, 0x07, 0, 0, 1, 0}
	code, err := ParseSPIRV(valid)
	require.NoError(t, err)
	assert.Equal(t, []uint32{0x07230203, 0x00010000}, code)

	for _, bad := range [][]byte{nil, {1, 2, 3}, {0, 0, 0, 0}} {
		_, err := ParseSPIRV(bad)
		assert.ErrorIs(t, err, core.ErrShaderInvalid)
	}
}
