package assets

import "github.com/spaghettifunk/meshview/engine/renderer/metadata"

// Loader turns a resolved file into a resource. Loaders run on job workers
// and must not touch GPU state.
type Loader interface {
	Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) // `interface{}` here allows loaders to return various asset types
	Unload(*metadata.Resource) error
}
