package surface

import (
	"image/color"

	"github.com/cogentcore/webgpu/wgpu"
)

// DefaultClearColor is the background drawn behind transparent frame pixels.
var DefaultClearColor = color.NRGBA{R: 26, G: 26, B: 26, A: 255}

// SurfaceBuilderOption is a functional option for configuring a Surface.
type SurfaceBuilderOption func(*surfaceImpl)

// WithPresentMode sets the swap chain present mode. Defaults to wgpu.PresentModeFifo.
//
// Parameters:
//   - mode: the present mode
//
// Returns:
//   - SurfaceBuilderOption: option function to apply
func WithPresentMode(mode wgpu.PresentMode) SurfaceBuilderOption {
	return func(s *surfaceImpl) {
		s.presentMode = mode
	}
}

// WithFallbackAdapter forces the software adapter, for machines without a usable GPU.
//
// Parameters:
//   - enabled: if true, requests the fallback adapter
//
// Returns:
//   - SurfaceBuilderOption: option function to apply
func WithFallbackAdapter(enabled bool) SurfaceBuilderOption {
	return func(s *surfaceImpl) {
		s.fallbackAdapter = enabled
	}
}

// WithClearColor sets the background drawn behind transparent frame pixels.
//
// Parameters:
//   - c: the background color
//
// Returns:
//   - SurfaceBuilderOption: option function to apply
func WithClearColor(c color.NRGBA) SurfaceBuilderOption {
	return func(s *surfaceImpl) {
		s.clear = c
	}
}
