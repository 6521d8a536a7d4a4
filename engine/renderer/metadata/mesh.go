package metadata

import (
	"github.com/spaghettifunk/meshview/engine/math"
)

// Also used as result_data from job.
type MeshLoadParams struct {
	ResourceName string
	Transform    *math.Transform
	OutMesh      *MeshData
}
