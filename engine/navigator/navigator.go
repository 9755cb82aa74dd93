// Package navigator turns pointer drags and wheel notches into camera moves. Every move goes
// through the active model so it can record or veto it.
package navigator

import (
	"fmt"
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-viewport/common"
	"github.com/Carmen-Shannon/oxy-viewport/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewport/engine/projection"
	"github.com/Carmen-Shannon/oxy-viewport/engine/scene"
	"github.com/Carmen-Shannon/oxy-viewport/engine/tracktool"
	"github.com/Carmen-Shannon/oxy-viewport/engine/transform"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	OrbitRate = 0.1
	ZoomRate  = 2.0
	RollRate  = 2.0

	WheelStep     = 10.0
	WheelStepFast = 100.0

	// PanFallbackDistance is how far along the mouse-down ray the pan plane is placed when
	// the plane through the model center cannot be used.
	PanFallbackDistance = 10.0
)

// Navigator drives the camera of one viewport.
type Navigator interface {
	// Drag applies the camera part of a drag: orbit, pan, zoom or roll. Updates are totals
	// from the session's mouse-down position; other track tools are ignored.
	//
	// Parameters:
	//   - session: the drag in progress
	//   - x, y: the current pointer position in viewport pixels
	//
	// Returns:
	//   - error: an error wrapping common.ErrNoIntersection or projection.ErrSingularMatrix
	//     when a pan frame was skipped
	Drag(session tracktool.DragSession, x, y float64) error

	// Wheel zooms cam by one step per notch.
	//
	// Parameters:
	//   - cam: the viewport camera
	//   - notches: wheel notches, positive toward the scene
	//   - modifiers: the held modifiers; Control selects the large step
	Wheel(cam camera.Camera, notches float64, modifiers common.Modifier)

	// ZoomRegion frames the rectangle dragged out by a ZoomRegion session.
	//
	// Parameters:
	//   - session: the finished drag
	//   - x, y: the pointer position at release
	//
	// Returns:
	//   - error: an error wrapping projection.ErrSingularMatrix if the rectangle cannot be
	//     unprojected
	ZoomRegion(session tracktool.DragSession, x, y float64) error

	// SetViewpoint moves cam to a preset.
	SetViewpoint(cam camera.Camera, viewpoint camera.Viewpoint)

	// LookAt aims cam at the focus or selection center.
	LookAt(cam camera.Camera)

	// ZoomExtents frames the whole model.
	ZoomExtents(cam camera.Camera, aspect float64)

	// SetMouseSensitivity changes the 1-20 sensitivity setting.
	SetMouseSensitivity(setting int)

	// Sensitivity returns the drag multiplier derived from the setting.
	Sensitivity() float64
}

type navigatorImpl struct {
	mu          *sync.Mutex
	model       scene.ActiveModel
	sensitivity float64

	wheelStep     float64
	wheelStepFast float64
}

var _ Navigator = &navigatorImpl{}

// NewNavigator creates a Navigator that moves cameras through model.
//
// Parameters:
//   - model: the active model, must not be nil
//   - options: functional options to configure the navigator
//
// Returns:
//   - Navigator: the navigator
func NewNavigator(model scene.ActiveModel, options ...NavigatorBuilderOption) Navigator {
	if model == nil {
		panic("navigator: NewNavigator requires a model")
	}

	n := &navigatorImpl{
		mu:          &sync.Mutex{},
		model:       model,
		sensitivity: transform.MouseSensitivity(transform.DefaultMouseSensitivity),

		wheelStep:     WheelStep,
		wheelStepFast: WheelStepFast,
	}

	for _, option := range options {
		option(n)
	}
	return n
}

// OrbitDelta returns the orbit angles in radians for a drag. OrbitX only turns about the
// vertical axis and OrbitY only tilts.
func OrbitDelta(tool tracktool.TrackTool, dx, dy, sensitivity float64) (float64, float64) {
	ox, oy := OrbitRate*sensitivity*dx, OrbitRate*sensitivity*dy
	switch tool {
	case tracktool.TrackToolOrbitX:
		return ox, 0
	case tracktool.TrackToolOrbitY:
		return 0, oy
	}
	return ox, oy
}

// ZoomDelta returns the zoom amount for a vertical drag.
func ZoomDelta(dy, sensitivity float64) float64 {
	return ZoomRate * sensitivity * dy
}

// RollDelta returns the roll angle in radians for a horizontal drag.
func RollDelta(dx, sensitivity float64) float64 {
	return RollRate * sensitivity * dx * math.Pi / 180
}

// PanVector returns the world-space distance to pan so the point under the mouse-down ray
// follows the pointer. Both rays are intersected with the plane through center facing the
// camera; if either misses, the plane is moved to PanFallbackDistance along the mouse-down
// ray.
//
// Parameters:
//   - center: the selection or model center
//   - viewDirection: the camera's view direction
//   - down: the pointer ray at mouse-down
//   - current: the current pointer ray
//
// Returns:
//   - mgl64.Vec3: the pan distance
//   - error: an error wrapping common.ErrNoIntersection if neither plane works
func PanVector(center, viewDirection mgl64.Vec3, down, current common.Ray) (mgl64.Vec3, error) {
	if v, err := panDelta(common.PlaneFromPointNormal(center, viewDirection), down, current); err == nil {
		return v, nil
	}

	fallback := down.Start.Add(down.Direction().Mul(PanFallbackDistance))
	v, err := panDelta(common.PlaneFromPointNormal(fallback, viewDirection), down, current)
	if err != nil {
		return mgl64.Vec3{}, fmt.Errorf("navigator: pan: %w", err)
	}
	return v, nil
}

func panDelta(plane common.Plane, down, current common.Ray) (mgl64.Vec3, error) {
	from, err := common.SegmentPlaneIntersection(down.Start, down.End, plane)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	to, err := common.SegmentPlaneIntersection(current.Start, current.End, plane)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	return from.Sub(to), nil
}

func (n *navigatorImpl) SetMouseSensitivity(setting int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sensitivity = transform.MouseSensitivity(setting)
}

func (n *navigatorImpl) Sensitivity() float64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.sensitivity
}

func (n *navigatorImpl) Drag(session tracktool.DragSession, x, y float64) error {
	cam := session.Camera
	if cam == nil {
		return nil
	}
	s := n.Sensitivity()
	dx, dy := x-session.DownX, y-session.DownY

	switch session.Tool {
	case tracktool.TrackToolOrbitX, tracktool.TrackToolOrbitY, tracktool.TrackToolOrbitXY:
		ox, oy := OrbitDelta(session.Tool, dx, dy, s)
		n.model.UpdateOrbitTool(cam, ox, oy)

	case tracktool.TrackToolZoom:
		n.model.UpdateZoomTool(cam, ZoomDelta(dy, s))

	case tracktool.TrackToolRoll:
		n.model.UpdateRollTool(cam, RollDelta(dx, s))

	case tracktool.TrackToolPan:
		down, err := session.Projector.PointerRay(session.DownX, session.DownY)
		if err != nil {
			return fmt.Errorf("navigator: pan: %w", err)
		}
		current, err := session.Projector.PointerRay(x, y)
		if err != nil {
			return fmt.Errorf("navigator: pan: %w", err)
		}
		v, err := PanVector(n.model.SelectionOrModelCenter(), cam.ViewDirection(), down, current)
		if err != nil {
			return err
		}
		n.model.UpdatePanTool(cam, v)
	}
	return nil
}

func (n *navigatorImpl) Wheel(cam camera.Camera, notches float64, modifiers common.Modifier) {
	if cam == nil || notches == 0 {
		return
	}
	n.mu.Lock()
	step := n.wheelStep
	if modifiers.Has(common.ModifierControl) {
		step = n.wheelStepFast
	}
	n.mu.Unlock()
	n.model.Zoom(cam, step*notches)
}

func (n *navigatorImpl) ZoomRegion(session tracktool.DragSession, x, y float64) error {
	cam := session.Camera
	if cam == nil {
		return nil
	}
	region, err := RegionFromRect(session.Projector, cam.Target(), session.DownX, session.DownY, x, y)
	if err != nil {
		return err
	}
	n.model.ZoomRegionToolClicked(cam, session.Projector.Viewport.Aspect(), region)
	return nil
}

// RegionFromRect unprojects a screen rectangle onto the plane at the depth of target.
//
// Parameters:
//   - proj: the viewport projector
//   - target: the camera target, which fixes the depth
//   - x1, y1, x2, y2: two opposite corners in viewport pixels
//
// Returns:
//   - camera.Region: the rectangle's center and edge midpoints in world space
//   - error: an error wrapping projection.ErrSingularMatrix if unprojection fails
func RegionFromRect(proj projection.Projector, target mgl64.Vec3, x1, y1, x2, y2 float64) (camera.Region, error) {
	depth := proj.Project(target).Z()
	cx, cy := (x1+x2)/2, (y1+y2)/2

	points := []mgl64.Vec3{
		{cx, cy, depth},
		{math.Max(x1, x2), cy, depth},
		{cx, math.Max(y1, y2), depth},
	}
	if err := proj.UnprojectPoints(points); err != nil {
		return camera.Region{}, fmt.Errorf("navigator: zoom region: %w", err)
	}
	return camera.Region{Center: points[0], Right: points[1], Top: points[2]}, nil
}

func (n *navigatorImpl) SetViewpoint(cam camera.Camera, viewpoint camera.Viewpoint) {
	if cam != nil {
		n.model.SetViewpoint(cam, viewpoint)
	}
}

func (n *navigatorImpl) LookAt(cam camera.Camera) {
	if cam != nil {
		n.model.LookAt(cam)
	}
}

func (n *navigatorImpl) ZoomExtents(cam camera.Camera, aspect float64) {
	if cam != nil {
		n.model.ZoomExtents(cam, aspect)
	}
}
