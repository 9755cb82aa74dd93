// Package overlay holds the transform gizmo's logical geometry. The renderer builds the
// gizmo mesh from Layout and the track tool resolver hit-tests against the same values, so
// the two never drift apart.
package overlay

import (
	"github.com/Carmen-Shannon/oxy-viewport/engine/projection"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// ScalePixelOffset is the screen-space offset used to measure world units per pixel.
	ScalePixelOffset = 10.0
	// ScaleFactor converts the measured offset into the gizmo scale.
	ScaleFactor = 5.0
)

// Layout describes the gizmo in gizmo-local units. Multiply by the overlay scale to get
// world units.
type Layout struct {
	MovePlaneSize      float64
	MoveArrowSize      float64
	MoveArrowCapRadius float64
	RotateArrowStart   float64
	RotateArrowEnd     float64
	RotateRadius       float64
	RotateEpsilon      float64
	ScaleStart         float64
	ScaleRadius        float64
}

// DefaultLayout is the gizmo geometry shared by every viewport.
var DefaultLayout = Layout{
	MovePlaneSize:      0.5,
	MoveArrowSize:      1.5,
	MoveArrowCapRadius: 0.1,
	RotateArrowStart:   1.0,
	RotateArrowEnd:     1.5,
	RotateRadius:       2.0,
	RotateEpsilon:      0.25,
	ScaleStart:         2.0,
	ScaleRadius:        0.125,
}

// Scale returns the factor that keeps the gizmo at a constant on-screen size at anchor.
// It projects anchor, offsets it by ScalePixelOffset pixels along screen X, unprojects the
// result and returns ScaleFactor times the world distance between the two points. A failed
// unprojection yields 0, which disables every gizmo hit test for the frame.
//
// Parameters:
//   - p: the projector for the viewport
//   - anchor: the world-space gizmo center
//
// Returns:
//   - float64: the overlay scale
func Scale(p projection.Projector, anchor mgl64.Vec3) float64 {
	screen := p.Project(anchor)
	screen[0] += ScalePixelOffset

	offset, err := p.Unproject(screen)
	if err != nil {
		return 0
	}
	return offset.Sub(anchor).Len() * ScaleFactor
}

// MoveArrow returns the local-space segment of the arrow along axis (0=X, 1=Y, 2=Z).
func (l Layout) MoveArrow(axis int, scale float64) (mgl64.Vec3, mgl64.Vec3) {
	var end mgl64.Vec3
	end[axis] = l.MoveArrowSize * scale
	return mgl64.Vec3{}, end
}

// MovePlaneQuad returns the local-space corners of the plane handle whose normal is axis.
func (l Layout) MovePlaneQuad(axis int, scale float64) [4]mgl64.Vec3 {
	a, b := (axis+1)%3, (axis+2)%3
	s := l.MovePlaneSize * scale

	var quad [4]mgl64.Vec3
	quad[1][a] = s
	quad[2][a], quad[2][b] = s, s
	quad[3][b] = s
	return quad
}

// RotateArc returns the inner and outer extent of the rotation ring quadrant.
func (l Layout) RotateArc(scale float64) (float64, float64) {
	return l.RotateArrowStart * scale, l.RotateArrowEnd * scale
}

// ScaleHandleRange returns the band along the scale axis occupied by the scale handle for a
// control point of the given strength.
func (l Layout) ScaleHandleRange(strength, scale float64) (float64, float64) {
	start := (l.ScaleStart-l.ScaleRadius)*scale + strength
	end := (l.ScaleStart+l.ScaleRadius)*scale + strength
	return start, end
}

const (
	// RotateViewRingRatio is the rotate-view ring radius as a fraction of the viewport's
	// smaller side.
	RotateViewRingRatio = 0.35
	// RotateViewMinSquare is the smallest size of the rotate-view ring handles in pixels.
	RotateViewMinSquare = 8.0
)

// RotateViewRing returns the rotate-view ring radius and the size of its square handles for
// a viewport of the given size.
//
// Parameters:
//   - width, height: viewport size in pixels
//
// Returns:
//   - float64: ring radius in pixels
//   - float64: handle square size in pixels
func RotateViewRing(width, height int) (float64, float64) {
	radius := RotateViewRingRatio * float64(min(width, height))
	square := max(RotateViewMinSquare, float64(width-2)/60)
	return radius, square
}
