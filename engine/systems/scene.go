package systems

import (
	"iter"

	"github.com/cockroachdb/errors"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/math"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
	"github.com/spaghettifunk/meshview/engine/renderer/vulkan"
)

// MeshRenderer is the part of the renderer frontend the scene needs.
type MeshRenderer interface {
	UploadMesh(data *metadata.MeshData) (*vulkan.VulkanMesh, error)
	ReplaceMesh(previous *vulkan.VulkanMesh, data *metadata.MeshData) (*vulkan.VulkanMesh, error)
	ReleaseMesh(mesh *vulkan.VulkanMesh) error
}

/**
 * @brief A drawable object. Mesh is nil until geometry has been uploaded
 * and again after it was cleared.
 */
type Entity struct {
	ID         core.Identifier
	Name       string
	Transform  *math.Transform
	Mesh       *vulkan.VulkanMesh
	Bounds     math.Extents3D
	SourcePath string
}

type SceneSystem struct {
	renderer MeshRenderer
	entities map[core.Identifier]*Entity
	// Insertion order, so draws and picks are stable.
	order []core.Identifier
}

func NewSceneSystem(renderer MeshRenderer) *SceneSystem {
	return &SceneSystem{
		renderer: renderer,
		entities: make(map[core.Identifier]*Entity),
	}
}

func (ss *SceneSystem) Initialize() error {
	return nil
}

// Shutdown releases every entity mesh. It must run before the renderer shuts down.
func (ss *SceneSystem) Shutdown() error {
	return ss.Clear()
}

func (ss *SceneSystem) CreateEntity(name string, transform *math.Transform) *Entity {
	if transform == nil {
		transform = math.TransformCreate()
	}
	e := &Entity{
		ID:        core.NewIdentifier(),
		Name:      name,
		Transform: transform,
		Bounds:    math.EmptyExtents(),
	}
	ss.entities[e.ID] = e
	ss.order = append(ss.order, e.ID)
	core.LogDebug("Created entity '%s' (%s).", name, e.ID)
	return e
}

func (ss *SceneSystem) Get(id core.Identifier) (*Entity, error) {
	e, ok := ss.entities[id]
	if !ok {
		return nil, errors.Wrapf(core.ErrEntityNotFound, "entity %s", id)
	}
	return e, nil
}

// FindBySource returns every entity whose geometry came from path.
func (ss *SceneSystem) FindBySource(path string) []*Entity {
	var out []*Entity
	for _, id := range ss.order {
		if e := ss.entities[id]; e.SourcePath == path {
			out = append(out, e)
		}
	}
	return out
}

// Last returns the most recently created entity, or nil on an empty scene.
func (ss *SceneSystem) Last() *Entity {
	if len(ss.order) == 0 {
		return nil
	}
	return ss.entities[ss.order[len(ss.order)-1]]
}

func (ss *SceneSystem) Count() int {
	return len(ss.order)
}

/**
 * @brief Uploads data as the entity's geometry. A previous mesh is replaced
 * in place, so the entity never owns more than one buffer pair. Empty data
 * clears the entity's mesh and returns core.ErrEmptyMesh.
 */
func (ss *SceneSystem) SetMesh(id core.Identifier, data *metadata.MeshData) error {
	e, err := ss.Get(id)
	if err != nil {
		return err
	}
	var mesh *vulkan.VulkanMesh
	if e.Mesh == nil {
		mesh, err = ss.renderer.UploadMesh(data)
	} else {
		mesh, err = ss.renderer.ReplaceMesh(e.Mesh, data)
	}
	// On failure mesh is either nil or the untouched previous mesh.
	e.Mesh = mesh
	if err != nil {
		if mesh != nil {
			core.LogError("Entity '%s' keeps its previous mesh: %s", e.Name, err)
			return err
		}
		e.Bounds = math.EmptyExtents()
		if errors.Is(err, core.ErrEmptyMesh) {
			core.LogWarn("Entity '%s' received empty geometry; mesh cleared.", e.Name)
		}
		return err
	}
	e.Bounds = data.Extents
	return nil
}

// RemoveEntity drops the entity and hands its mesh to deferred release.
func (ss *SceneSystem) RemoveEntity(id core.Identifier) error {
	e, err := ss.Get(id)
	if err != nil {
		return err
	}
	delete(ss.entities, id)
	for i, oid := range ss.order {
		if oid == id {
			ss.order = append(ss.order[:i], ss.order[i+1:]...)
			break
		}
	}
	if e.Mesh != nil {
		if err := ss.renderer.ReleaseMesh(e.Mesh); err != nil {
			return err
		}
		e.Mesh = nil
	}
	core.LogDebug("Removed entity '%s'.", e.Name)
	return nil
}

func (ss *SceneSystem) Clear() error {
	var errs error
	for _, id := range ss.order {
		e := ss.entities[id]
		if e.Mesh == nil {
			continue
		}
		if err := ss.renderer.ReleaseMesh(e.Mesh); err != nil {
			errs = errors.CombineErrors(errs, err)
		}
		e.Mesh = nil
	}
	clear(ss.entities)
	ss.order = ss.order[:0]
	return errs
}

// Renderables yields the world matrix and mesh of every entity that has geometry.
func (ss *SceneSystem) Renderables() iter.Seq2[mgl32.Mat4, *vulkan.VulkanMesh] {
	return func(yield func(mgl32.Mat4, *vulkan.VulkanMesh) bool) {
		for _, id := range ss.order {
			e := ss.entities[id]
			if e.Mesh == nil {
				continue
			}
			if !yield(e.Transform.GetWorld(), e.Mesh) {
				return
			}
		}
	}
}

// Bounds is the world space union of all entity bounds.
func (ss *SceneSystem) Bounds() math.Extents3D {
	out := math.EmptyExtents()
	for _, id := range ss.order {
		e := ss.entities[id]
		out.Union(e.Bounds.Transform(e.Transform.GetWorld()))
	}
	return out
}

var _ vulkan.SceneIterator = (*SceneSystem)(nil)
