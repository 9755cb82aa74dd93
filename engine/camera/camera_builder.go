package camera

import (
	"github.com/go-gl/mathgl/mgl64"
)

type CameraBuilderOption func(*cameraImpl)

// WithName sets the camera's name. Named cameras are owned by the active model.
//
// Parameters:
//   - name: the camera name
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's name
func WithName(name string) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.name = name
	}
}

// WithPosition sets the eye position.
//
// Parameters:
//   - p: the eye position in world space
//
// Returns:
//   - CameraBuilderOption: a function that sets the eye position
func WithPosition(p mgl64.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.state.Position = p
	}
}

// WithTarget sets the look-at target.
//
// Parameters:
//   - t: the target in world space
//
// Returns:
//   - CameraBuilderOption: a function that sets the target
func WithTarget(t mgl64.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.state.Target = t
	}
}

// WithUp sets the camera's up vector. It is orthonormalized against the view direction
// when the camera is built.
//
// Parameters:
//   - u: the up vector
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's up vector
func WithUp(u mgl64.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.state.Up = u
	}
}

// WithFOV sets the camera's vertical field of view in degrees.
//
// Parameters:
//   - fov: field of view in degrees
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's field of view
func WithFOV(fov float64) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.state.FOV = fov
	}
}

// WithClipPlanes sets the near and far clipping distances.
//
// Parameters:
//   - near: near plane distance
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets the clip planes
func WithClipPlanes(near, far float64) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.state.ZNear = near
		c.state.ZFar = far
	}
}

// WithOrtho switches the camera to orthographic projection with the given view height.
//
// Parameters:
//   - height: the orthographic view height in world units
//
// Returns:
//   - CameraBuilderOption: a function that enables orthographic projection
func WithOrtho(height float64) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.state.Ortho = true
		c.state.OrthoHeight = height
	}
}

// WithState copies every property from a snapshot.
//
// Parameters:
//   - s: the snapshot to copy
//
// Returns:
//   - CameraBuilderOption: a function that applies the snapshot
func WithState(s State) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.state = s
	}
}
