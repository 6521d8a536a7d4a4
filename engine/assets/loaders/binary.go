package loaders

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

type BinaryLoader struct{}

func (bl *BinaryLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading binary asset %s", path)
	}
	return &metadata.Resource{
		LoaderType: metadata.ResourceTypeBinary,
		Name:       resourceName(path, params),
		FullPath:   path,
		DataSize:   uint64(len(buf)),
		Data:       buf,
	}, nil
}

func (bl *BinaryLoader) Unload(resource *metadata.Resource) error {
	return unloadResource(resource)
}

// bytesToBytecode packs little endian bytes into 32 bit words. Trailing bytes are dropped.
func bytesToBytecode(b []byte) []uint32 {
	byteCode := make([]uint32, len(b)/4)
	for i := 0; i < len(byteCode); i++ {
		byteIndex := i * 4
		byteCode[i] = 0
		byteCode[i] |= uint32(b[byteIndex])
		byteCode[i] |= uint32(b[byteIndex+1]) << 8
		byteCode[i] |= uint32(b[byteIndex+2]) << 16
		byteCode[i] |= uint32(b[byteIndex+3]) << 24
	}

	return byteCode
}
