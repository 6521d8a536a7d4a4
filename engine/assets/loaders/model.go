package loaders

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/math"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

var (
	defaultNormal = mgl32.Vec3{0, 1, 0}
	defaultColor  = mgl32.Vec3{1, 1, 1}
)

/**
 * @brief Loads Wavefront OBJ geometry into a single indexed mesh. The
 * resource data is a *metadata.MeshData.
 */
type ModelLoader struct{}

func (ml *ModelLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening model %s", path)
	}
	defer file.Close()

	name := resourceName(path, params)
	mesh, err := ParseOBJ(file, name)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing model %s", path)
	}
	core.LogDebug("Parsed model '%s': %d vertices, %d indices.", name, len(mesh.Vertices), len(mesh.Indices))

	return &metadata.Resource{
		LoaderType: metadata.ResourceTypeModel,
		Name:       name,
		FullPath:   path,
		DataSize:   uint64(len(metadata.VertexBytes(mesh.Vertices)) + len(mesh.Indices)*4),
		Data:       mesh,
	}, nil
}

func (ml *ModelLoader) Unload(resource *metadata.Resource) error {
	return unloadResource(resource)
}

type objParser struct {
	positions []mgl32.Vec3
	colors    []mgl32.Vec3
	normals   []mgl32.Vec3
	texCoords []mgl32.Vec2

	mesh   *metadata.MeshData
	lookup map[metadata.Vertex]uint32
	// Vertices whose face element named no normal.
	missingNormals []uint32
}

/**
 * @brief Parses OBJ text. Supports v (with optional r g b), vn, vt and f
 * with any of the v, v/t, v//n and v/t/n forms. Polygons are triangulated
 * as fans and negative indices count back from the latest element.
 * Identical vertices are shared. Unsupported statements are ignored.
 * Vertices without a normal get a smooth one generated from their faces.
 */
func ParseOBJ(r io.Reader, name string) (*metadata.MeshData, error) {
	p := &objParser{
		mesh: &metadata.MeshData{
			Name:    name,
			Extents: math.EmptyExtents(),
		},
		lookup: make(map[metadata.Vertex]uint32),
	}

	scanner := bufio.NewScanner(r)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if err := p.parseLine(fields[0], fields[1:]); err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNumber)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	p.generateNormals()
	return p.mesh, nil
}

// generateNormals fills in missing normals. Degenerate geometry keeps the default.
func (p *objParser) generateNormals() {
	if len(p.missingNormals) == 0 {
		return
	}
	vertices := p.mesh.Vertices
	positions := make([]mgl32.Vec3, len(vertices))
	for i := range vertices {
		positions[i] = vertices[i].Position
	}
	normals := math.GenerateNormals(positions, p.mesh.Indices)
	for _, i := range p.missingNormals {
		if n := normals[i]; n != (mgl32.Vec3{}) {
			vertices[i].Normal = n
		}
	}
}

func (p *objParser) parseLine(keyword string, args []string) error {
	switch keyword {
	case "v":
		if len(args) != 3 && len(args) != 6 {
			return errors.Newf("vertex needs 3 or 6 values, got %d", len(args))
		}
		values, err := parseFloats(args)
		if err != nil {
			return err
		}
		p.positions = append(p.positions, mgl32.Vec3{values[0], values[1], values[2]})
		color := defaultColor
		if len(values) == 6 {
			color = mgl32.Vec3{values[3], values[4], values[5]}
		}
		p.colors = append(p.colors, color)
	case "vn":
		if len(args) != 3 {
			return errors.Newf("normal needs 3 values, got %d", len(args))
		}
		values, err := parseFloats(args)
		if err != nil {
			return err
		}
		n := mgl32.Vec3{values[0], values[1], values[2]}
		if n.Len() == 0 {
			n = defaultNormal
		}
		p.normals = append(p.normals, n.Normalize())
	case "vt":
		if len(args) < 2 {
			return errors.Newf("texture coordinate needs at least 2 values, got %d", len(args))
		}
		values, err := parseFloats(args[:2])
		if err != nil {
			return err
		}
		p.texCoords = append(p.texCoords, mgl32.Vec2{values[0], 1 - values[1]})
	case "f":
		return p.parseFace(args)
	}
	return nil
}

func (p *objParser) parseFace(args []string) error {
	if len(args) < 3 {
		return errors.Newf("face needs at least 3 vertices, got %d", len(args))
	}
	corners := make([]uint32, 0, len(args))
	for _, arg := range args {
		index, err := p.corner(arg)
		if err != nil {
			return err
		}
		corners = append(corners, index)
	}
	for i := 1; i+1 < len(corners); i++ {
		p.mesh.Indices = append(p.mesh.Indices, corners[0], corners[i], corners[i+1])
	}
	return nil
}

// corner resolves one face element to a deduplicated vertex index.
func (p *objParser) corner(arg string) (uint32, error) {
	parts := strings.Split(arg, "/")
	if len(parts) > 3 {
		return 0, errors.Newf("malformed face element %q", arg)
	}

	pi, err := resolveIndex(parts[0], len(p.positions))
	if err != nil {
		return 0, errors.Wrapf(err, "position of %q", arg)
	}
	v := metadata.Vertex{
		Position: p.positions[pi],
		Normal:   defaultNormal,
		Color:    p.colors[pi],
	}
	if len(parts) > 1 && parts[1] != "" {
		ti, err := resolveIndex(parts[1], len(p.texCoords))
		if err != nil {
			return 0, errors.Wrapf(err, "texture coordinate of %q", arg)
		}
		v.TexCoord = p.texCoords[ti]
	}
	if len(parts) > 2 && parts[2] != "" {
		ni, err := resolveIndex(parts[2], len(p.normals))
		if err != nil {
			return 0, errors.Wrapf(err, "normal of %q", arg)
		}
		v.Normal = p.normals[ni]
	}

	if index, ok := p.lookup[v]; ok {
		return index, nil
	}
	index := uint32(len(p.mesh.Vertices))
	if len(parts) < 3 || parts[2] == "" {
		p.missingNormals = append(p.missingNormals, index)
	}
	p.mesh.Vertices = append(p.mesh.Vertices, v)
	p.mesh.Extents.Expand(v.Position)
	p.lookup[v] = index
	return index, nil
}

// resolveIndex turns a 1 based or negative OBJ index into a 0 based one.
func resolveIndex(s string, count int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Wrapf(err, "bad index %q", s)
	}
	switch {
	case i > 0:
		i--
	case i < 0:
		i += count
	default:
		return 0, errors.New("index 0 is not valid")
	}
	if i < 0 || i >= count {
		return 0, errors.Newf("index %s out of range (%d defined)", s, count)
	}
	return i, nil
}

func parseFloats(args []string) ([]float32, error) {
	out := make([]float32, len(args))
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "bad number %q", a)
		}
		out[i] = float32(f)
	}
	return out, nil
}
