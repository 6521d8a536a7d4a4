package loaders

import (
	"image"
	_ "image/png"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

type TextureLoader struct{}

func (tl *TextureLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening image %s", path)
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding image %s", path)
	}
	b := img.Bounds()
	return &metadata.Resource{
		LoaderType: metadata.ResourceTypeImage,
		Name:       resourceName(path, params) + "." + format,
		FullPath:   path,
		// Size once expanded to RGBA8.
		DataSize: uint64(b.Dx() * b.Dy() * 4),
		Data:     img,
	}, nil
}

func (tl *TextureLoader) Unload(resource *metadata.Resource) error {
	return unloadResource(resource)
}
