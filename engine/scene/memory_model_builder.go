package scene

import (
	"github.com/Carmen-Shannon/oxy-viewport/engine/camera"
	"github.com/go-gl/mathgl/mgl64"
)

// MemoryModelBuilderOption is a functional option for configuring a MemoryModel.
// Use the With* functions to create options.
type MemoryModelBuilderOption func(m *memoryModelImpl)

// WithGridSize sets the snapping grid. Zero disables snapping.
//
// Parameters:
//   - size: grid spacing in world units
//
// Returns:
//   - MemoryModelBuilderOption: option function to apply
func WithGridSize(size float64) MemoryModelBuilderOption {
	return func(m *memoryModelImpl) {
		m.grid = size
	}
}

// WithRelativeTransform makes moves and placements follow the focused piece's local frame.
//
// Parameters:
//   - relative: true for local-frame transforms
//
// Returns:
//   - MemoryModelBuilderOption: option function to apply
func WithRelativeTransform(relative bool) MemoryModelBuilderOption {
	return func(m *memoryModelImpl) {
		m.relative = relative
	}
}

// WithSubmodelTransform sets the transform of the sub-assembly being edited. Pivots are
// reported through it.
//
// Parameters:
//   - transform: the sub-assembly's local-to-world transform
//
// Returns:
//   - MemoryModelBuilderOption: option function to apply
func WithSubmodelTransform(transform mgl64.Mat4) MemoryModelBuilderOption {
	return func(m *memoryModelImpl) {
		m.submodel = transform
	}
}

// WithCameras registers named cameras. Cameras with an empty name are ignored.
//
// Parameters:
//   - cameras: the cameras to add
//
// Returns:
//   - MemoryModelBuilderOption: option function to apply
func WithCameras(cameras ...camera.Camera) MemoryModelBuilderOption {
	return func(m *memoryModelImpl) {
		for _, c := range cameras {
			if c.Name() != "" {
				m.cameras[c.Name()] = c
			}
		}
	}
}

// WithColor sets the color applied by the paint tool.
//
// Parameters:
//   - color: the color index
//
// Returns:
//   - MemoryModelBuilderOption: option function to apply
func WithColor(color int) MemoryModelBuilderOption {
	return func(m *memoryModelImpl) {
		m.color = color
	}
}
