package loaders

import (
	"os"

	"github.com/cockroachdb/errors"
	"golang.org/x/image/font/opentype"

	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

/**
 * @brief Loads a TrueType or OpenType file. The bytes are parsed once here
 * so a broken font fails at load time rather than when the overlay builds
 * its face.
 */
type SystemFontLoader struct{}

func (fl *SystemFontLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	fontBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading font %s", path)
	}
	collection, err := opentype.ParseCollection(fontBytes)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing font %s", path)
	}
	if collection.NumFonts() == 0 {
		return nil, errors.Newf("font %s contains no faces", path)
	}

	return &metadata.Resource{
		LoaderType: metadata.ResourceTypeSystemFont,
		Name:       resourceName(path, params),
		FullPath:   path,
		DataSize:   uint64(len(fontBytes)),
		Data: &metadata.SystemFontResourceData{
			Name:   resourceName(path, params),
			Binary: fontBytes,
		},
	}, nil
}

func (fl *SystemFontLoader) Unload(resource *metadata.Resource) error {
	return unloadResource(resource)
}
