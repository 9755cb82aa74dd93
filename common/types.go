package common

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Ray is a world-space line segment from Start to End, produced by unprojecting a pointer
// position at depth 0 and depth 1. Intersection helpers treat it as a segment, so hits behind
// the near plane or past the far plane are rejected.
type Ray struct {
	Start mgl64.Vec3
	End   mgl64.Vec3
}

// Direction returns the unit direction from Start to End.
//
// Returns:
//   - mgl64.Vec3: the normalized direction, or the zero vector for a degenerate ray
func (r Ray) Direction() mgl64.Vec3 {
	d := r.End.Sub(r.Start)
	if d.Len() < Epsilon {
		return mgl64.Vec3{}
	}
	return d.Normalize()
}

// At returns the point at parameter t, where t=0 is Start and t=1 is End.
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Start.Add(r.End.Sub(r.Start).Mul(t))
}

// Plane represents a plane in 3D space using the equation: n·x + d = 0
// where n is the unit normal and d is the signed distance term.
type Plane struct {
	Normal   mgl64.Vec3
	Distance float64
}

// PlaneFromPointNormal builds a plane through point with the given normal.
// The normal is normalized; a zero normal yields a zero plane that never intersects.
//
// Parameters:
//   - point: a point on the plane
//   - normal: the plane normal (need not be unit length)
//
// Returns:
//   - Plane: the plane through point
func PlaneFromPointNormal(point, normal mgl64.Vec3) Plane {
	if normal.Len() < Epsilon {
		return Plane{}
	}
	n := normal.Normalize()
	return Plane{Normal: n, Distance: -n.Dot(point)}
}

// SignedDistance returns the signed distance from p to the plane. Positive values lie on the
// side the normal points to.
func (p Plane) SignedDistance(v mgl64.Vec3) float64 {
	return p.Normal.Dot(v) + p.Distance
}

// Rect is an integer viewport rectangle in pixels.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Aspect returns Width/Height. Callers guarantee Height >= 1.
func (r Rect) Aspect() float64 {
	return float64(r.Width) / float64(r.Height)
}

// Center returns the rectangle center in pixel coordinates.
func (r Rect) Center() (float64, float64) {
	return float64(r.X) + float64(r.Width)/2, float64(r.Y) + float64(r.Height)/2
}

// BoundingBox is an axis-aligned box given by its minimum and maximum corners.
type BoundingBox struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// Center returns the midpoint of the box.
func (b BoundingBox) Center() mgl64.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Corners returns the eight corners of the box.
func (b BoundingBox) Corners() [8]mgl64.Vec3 {
	return [8]mgl64.Vec3{
		{b.Min[0], b.Min[1], b.Min[2]},
		{b.Max[0], b.Min[1], b.Min[2]},
		{b.Min[0], b.Max[1], b.Min[2]},
		{b.Max[0], b.Max[1], b.Min[2]},
		{b.Min[0], b.Min[1], b.Max[2]},
		{b.Max[0], b.Min[1], b.Max[2]},
		{b.Min[0], b.Max[1], b.Max[2]},
		{b.Max[0], b.Max[1], b.Max[2]},
	}
}

// Union returns the smallest box containing both b and other.
func (b BoundingBox) Union(other BoundingBox) BoundingBox {
	out := b
	for i := 0; i < 3; i++ {
		if other.Min[i] < out.Min[i] {
			out.Min[i] = other.Min[i]
		}
		if other.Max[i] > out.Max[i] {
			out.Max[i] = other.Max[i]
		}
	}
	return out
}

// Transform returns the axis-aligned box enclosing b after transforming its corners by m.
//
// Parameters:
//   - m: the affine transform to apply
//
// Returns:
//   - BoundingBox: the world-space enclosing box
func (b BoundingBox) Transform(m mgl64.Mat4) BoundingBox {
	corners := b.Corners()
	first := m.Mul4x1(corners[0].Vec4(1)).Vec3()
	out := BoundingBox{Min: first, Max: first}
	for _, c := range corners[1:] {
		p := m.Mul4x1(c.Vec4(1)).Vec3()
		out = out.Union(BoundingBox{Min: p, Max: p})
	}
	return out
}
