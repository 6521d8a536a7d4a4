package loaders

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

// First word of every SPIR-V module.
const spirvMagic uint32 = 0x07230203

/**
 * @brief Loads compiled SPIR-V modules. The resource data is the code as
 * 32 bit words, ready for vkCreateShaderModule.
 */
type ShaderLoader struct{}

func (sl *ShaderLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading shader %s", path)
	}
	code, err := ParseSPIRV(data)
	if err != nil {
		return nil, errors.Wrapf(err, "shader %s", path)
	}
	return &metadata.Resource{
		LoaderType: metadata.ResourceTypeShader,
		Name:       resourceName(path, params),
		FullPath:   path,
		DataSize:   uint64(len(data)),
		Data:       code,
	}, nil
}

func (sl *ShaderLoader) Unload(resource *metadata.Resource) error {
	return unloadResource(resource)
}

// ParseSPIRV validates the module header and returns the code words.
func ParseSPIRV(data []byte) ([]uint32, error) {
	if len(data) == 0 || len(data)%4 != 0 {
		return nil, errors.Wrapf(core.ErrShaderInvalid, "size %d is not a positive multiple of 4", len(data))
	}
	code := bytesToBytecode(data)
	if code[0] != spirvMagic {
		return nil, errors.Wrapf(core.ErrShaderInvalid, "bad magic 0x%08x", code[0])
	}
	return code, nil
}
