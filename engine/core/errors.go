package core

import (
	"github.com/cockroachdb/errors"
)

var (
	ErrEmptyMesh            = errors.New("mesh has no vertices or no indices")
	ErrNoSuitableDevice     = errors.New("no physical device meets the renderer requirements")
	ErrWindowClosing        = errors.New("window is closing")
	ErrSurfaceFormatChanged = errors.New("surface format changed across swapchain recreation")
	ErrShaderInvalid        = errors.New("shader binary is not valid SPIR-V")
	ErrAssetNotFound        = errors.New("asset not found")
	ErrEntityNotFound       = errors.New("entity not found")
	ErrUnknown              = errors.New("unknown")
)
