package loaders

import (
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

// resourceName prefers a "name" param and falls back to the file name without extension.
func resourceName(path string, params interface{}) string {
	if p, ok := params.(map[string]string); ok {
		if name, ok := p["name"]; ok && name != "" {
			return name
		}
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func unloadResource(resource *metadata.Resource) error {
	if resource == nil {
		return errors.New("unload called with nil resource")
	}
	resource.Data = nil
	resource.DataSize = 0
	resource.FullPath = ""
	return nil
}
