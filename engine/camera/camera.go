package camera

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-viewport/common"
	"github.com/go-gl/mathgl/mgl64"
)

// ErrInvalidCamera is returned by Validate when a camera violates its invariants.
var ErrInvalidCamera = errors.New("invalid camera")

// WorldUp is the scene's vertical axis. Viewpoint presets and orbit yaw are measured about it.
var WorldUp = mgl64.Vec3{0, 0, 1}

// State is a plain snapshot of every camera property. It is used to clone cameras and to
// restore them when a navigation drag is cancelled.
type State struct {
	Position    mgl64.Vec3
	Target      mgl64.Vec3
	Up          mgl64.Vec3
	FOV         float64 // degrees
	ZNear       float64
	ZFar        float64
	Ortho       bool
	OrthoHeight float64
}

type cameraImpl struct {
	mu *sync.Mutex

	name  string
	state State
}

// Camera is the viewport camera entity: an eye position, a look-at target, an up vector and
// the projection parameters. A camera with an empty name is private to the viewport that
// created it; named cameras belong to the active model and may be shared by several
// viewports at once.
type Camera interface {
	// Name returns the camera's name. Empty for private viewport cameras.
	//
	// Returns:
	//   - string: the camera name
	Name() string

	// SetName renames the camera.
	//
	// Parameters:
	//   - name: the new name, empty to make the camera private
	SetName(name string)

	// Position returns the eye position.
	//
	// Returns:
	//   - mgl64.Vec3: the eye position in world space
	Position() mgl64.Vec3

	// Target returns the look-at target.
	//
	// Returns:
	//   - mgl64.Vec3: the target in world space
	Target() mgl64.Vec3

	// Up returns the up vector as stored.
	//
	// Returns:
	//   - mgl64.Vec3: the up vector
	Up() mgl64.Vec3

	// FOV returns the vertical field of view in degrees.
	//
	// Returns:
	//   - float64: field of view in degrees
	FOV() float64

	// ZNear returns the near clipping plane distance.
	//
	// Returns:
	//   - float64: near plane distance
	ZNear() float64

	// ZFar returns the far clipping plane distance.
	//
	// Returns:
	//   - float64: far plane distance
	ZFar() float64

	// IsOrtho reports whether the camera uses an orthographic projection.
	//
	// Returns:
	//   - bool: true for orthographic projection
	IsOrtho() bool

	// OrthoHeight returns the height of the orthographic view volume in world units.
	//
	// Returns:
	//   - float64: the orthographic view height
	OrthoHeight() float64

	// ViewMatrix returns look-at(Position, Target, Up).
	//
	// Returns:
	//   - mgl64.Mat4: the view matrix (column-major)
	ViewMatrix() mgl64.Mat4

	// ViewDirection returns the unit vector from Position to Target.
	//
	// Returns:
	//   - mgl64.Vec3: the normalized view direction
	ViewDirection() mgl64.Vec3

	// ScreenAxes returns the world-space directions of the screen's X (right) and Y (up)
	// axes for this camera.
	//
	// Returns:
	//   - mgl64.Vec3: screen X axis
	//   - mgl64.Vec3: screen Y axis
	ScreenAxes() (mgl64.Vec3, mgl64.Vec3)

	// State returns a snapshot of all camera properties.
	//
	// Returns:
	//   - State: the snapshot
	State() State

	// SetState replaces all camera properties with s.
	//
	// Parameters:
	//   - s: the snapshot to apply
	SetState(s State)

	// SetPosition sets the eye position.
	//
	// Parameters:
	//   - p: the new eye position
	SetPosition(p mgl64.Vec3)

	// SetTarget sets the look-at target.
	//
	// Parameters:
	//   - t: the new target
	SetTarget(t mgl64.Vec3)

	// SetUp sets the up vector.
	//
	// Parameters:
	//   - u: the new up vector
	SetUp(u mgl64.Vec3)

	// SetFOV sets the vertical field of view in degrees.
	//
	// Parameters:
	//   - fov: field of view in degrees
	SetFOV(fov float64)

	// SetClipPlanes sets the near and far clipping distances.
	//
	// Parameters:
	//   - near: near plane distance
	//   - far: far plane distance
	SetClipPlanes(near, far float64)

	// SetOrtho switches between orthographic and perspective projection. Switching to
	// orthographic with no height set derives one that frames the target at its current
	// distance.
	//
	// Parameters:
	//   - ortho: true for orthographic projection
	SetOrtho(ortho bool)

	// SetOrthoHeight sets the orthographic view height.
	//
	// Parameters:
	//   - h: the view height in world units
	SetOrthoHeight(h float64)

	// Clone returns a private, unnamed copy of the camera.
	//
	// Returns:
	//   - Camera: the copy
	Clone() Camera

	// Validate checks the camera invariants.
	//
	// Returns:
	//   - error: an error wrapping ErrInvalidCamera describing the first violation, or nil
	Validate() error

	// Orbit rotates the eye, target and up vector about center: yaw by -dx around WorldUp and
	// pitch by dy around the camera's right axis. Distances to center are preserved.
	//
	// Parameters:
	//   - dx: yaw in radians
	//   - dy: pitch in radians
	//   - center: the orbit center
	Orbit(dx, dy float64, center mgl64.Vec3)

	// Pan translates both eye and target by v.
	//
	// Parameters:
	//   - v: world-space translation
	Pan(v mgl64.Vec3)

	// Zoom moves the eye toward the target by amount for perspective cameras, or shrinks
	// the orthographic view height. Negative values zoom out.
	//
	// Parameters:
	//   - amount: zoom amount in world units
	Zoom(amount float64)

	// Roll rotates the up vector about the view direction.
	//
	// Parameters:
	//   - angle: roll angle in radians
	Roll(angle float64)

	// SetViewpoint moves the eye to a preset direction around the target, keeping its
	// distance.
	//
	// Parameters:
	//   - vp: the viewpoint preset
	SetViewpoint(vp Viewpoint)

	// SetAngles places the eye on the sphere around the target at the given latitude and
	// longitude in degrees, keeping its distance.
	//
	// Parameters:
	//   - latitude: elevation above the XY plane in degrees
	//   - longitude: angle around WorldUp from +X in degrees
	SetAngles(latitude, longitude float64)

	// LookAt turns the camera toward point without moving the eye.
	//
	// Parameters:
	//   - point: the new target
	LookAt(point mgl64.Vec3)

	// ZoomExtents keeps the view direction and frames box for the given aspect ratio.
	//
	// Parameters:
	//   - aspect: viewport width / height
	//   - box: the world-space box to frame
	ZoomExtents(aspect float64, box common.BoundingBox)

	// ZoomRegion frames a rectangular region lying in the target plane.
	//
	// Parameters:
	//   - aspect: viewport width / height
	//   - region: the region to frame
	ZoomRegion(aspect float64, region Region)
}

// Compile-time interface compliance check
var _ Camera = &cameraImpl{}

// NewCamera creates a new private camera with sensible defaults: the home viewpoint looking
// at the origin, a 30 degree field of view and perspective projection.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu: &sync.Mutex{},
		state: State{
			Position:    mgl64.Vec3{-250, -250, 75},
			Target:      mgl64.Vec3{0, 0, 0},
			Up:          WorldUp,
			FOV:         30,
			ZNear:       25,
			ZFar:        50000,
			OrthoHeight: 0,
		},
	}

	for _, option := range options {
		option(c)
	}

	if up := common.Orthonormalize(c.forward(), c.state.Up); up != (mgl64.Vec3{}) {
		c.state.Up = up
	}
	if c.state.OrthoHeight <= 0 {
		c.state.OrthoHeight = c.defaultOrthoHeight()
	}
	return c
}

func (c *cameraImpl) Name() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.name
}

func (c *cameraImpl) SetName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.name = name
}

func (c *cameraImpl) Position() mgl64.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Position
}

func (c *cameraImpl) Target() mgl64.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Target
}

func (c *cameraImpl) Up() mgl64.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Up
}

func (c *cameraImpl) FOV() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.FOV
}

func (c *cameraImpl) ZNear() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.ZNear
}

func (c *cameraImpl) ZFar() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.ZFar
}

func (c *cameraImpl) IsOrtho() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Ortho
}

func (c *cameraImpl) OrthoHeight() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.OrthoHeight
}

func (c *cameraImpl) ViewMatrix() mgl64.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return mgl64.LookAtV(c.state.Position, c.state.Target, c.state.Up)
}

func (c *cameraImpl) ViewDirection() mgl64.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.forward()
}

func (c *cameraImpl) ScreenAxes() (mgl64.Vec3, mgl64.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	right, up, _ := c.localAxes()
	return right, up
}

func (c *cameraImpl) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *cameraImpl) SetState(s State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = s
}

func (c *cameraImpl) SetPosition(p mgl64.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Position = p
}

func (c *cameraImpl) SetTarget(t mgl64.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Target = t
}

func (c *cameraImpl) SetUp(u mgl64.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Up = u
}

func (c *cameraImpl) SetFOV(fov float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.FOV = fov
}

func (c *cameraImpl) SetClipPlanes(near, far float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.ZNear = near
	c.state.ZFar = far
}

func (c *cameraImpl) SetOrtho(ortho bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Ortho = ortho
	if ortho && c.state.OrthoHeight <= 0 {
		c.state.OrthoHeight = c.defaultOrthoHeight()
	}
}

func (c *cameraImpl) SetOrthoHeight(h float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.OrthoHeight = h
}

func (c *cameraImpl) Clone() Camera {
	return NewCamera(WithState(c.State()))
}

func (c *cameraImpl) Validate() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	switch {
	case s.ZNear <= 0:
		return fmt.Errorf("camera: zNear %v must be positive: %w", s.ZNear, ErrInvalidCamera)
	case s.ZFar <= s.ZNear:
		return fmt.Errorf("camera: zFar %v must exceed zNear %v: %w", s.ZFar, s.ZNear, ErrInvalidCamera)
	case !s.Ortho && (s.FOV <= 0 || s.FOV >= 180):
		return fmt.Errorf("camera: field of view %v out of range: %w", s.FOV, ErrInvalidCamera)
	case s.Ortho && s.OrthoHeight <= 0:
		return fmt.Errorf("camera: ortho height %v must be positive: %w", s.OrthoHeight, ErrInvalidCamera)
	case s.Target.Sub(s.Position).Len() < common.Epsilon:
		return fmt.Errorf("camera: position and target coincide: %w", ErrInvalidCamera)
	case common.Orthonormalize(c.forward(), s.Up) == (mgl64.Vec3{}):
		return fmt.Errorf("camera: up vector is parallel to the view direction: %w", ErrInvalidCamera)
	}
	return nil
}

// --- internal helpers ---

// forward returns the normalized view direction.
// Caller must hold the mutex.
func (c *cameraImpl) forward() mgl64.Vec3 {
	d := c.state.Target.Sub(c.state.Position)
	if d.Len() < common.Epsilon {
		return mgl64.Vec3{}
	}
	return d.Normalize()
}

// distance returns the eye-to-target distance.
// Caller must hold the mutex.
func (c *cameraImpl) distance() float64 {
	return c.state.Target.Sub(c.state.Position).Len()
}

// localAxes computes the camera's local coordinate axes consistent with the LookAt matrix.
// Returns right, up and forward. If position and target coincide, or the up vector is
// parallel to the view direction, all returned vectors are zero.
// Caller must hold the mutex.
func (c *cameraImpl) localAxes() (right, up, forward mgl64.Vec3) {
	forward = c.forward()
	up = common.Orthonormalize(forward, c.state.Up)
	if up == (mgl64.Vec3{}) {
		return mgl64.Vec3{}, mgl64.Vec3{}, mgl64.Vec3{}
	}
	right = forward.Cross(up).Normalize()
	return right, up, forward
}

// defaultOrthoHeight returns a view height that frames the target at the current distance
// with the current field of view.
// Caller must hold the mutex.
func (c *cameraImpl) defaultOrthoHeight() float64 {
	h := 2 * c.distance() * math.Tan(mgl64.DegToRad(c.state.FOV)/2)
	if h <= 0 || math.IsNaN(h) {
		return 1
	}
	return h
}
