package common

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Frustum represents the six planes of a view frustum for picking.
// Planes are oriented so that positive half-space is inside the frustum.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

// FrustumPlane indices for clarity
const (
	FrustumLeft   = 0
	FrustumRight  = 1
	FrustumBottom = 2
	FrustumTop    = 3
	FrustumNear   = 4
	FrustumFar    = 5
)

// ExtractFrustumFromMatrix extracts frustum planes from a view-projection matrix.
// The matrix should be the combined Projection * View matrix.
// Uses the Gribb/Hartmann method for plane extraction.
//
// Reference: https://www8.cs.umu.se/kurser/5DV051/HT12/lab/plane_extraction.pdf
//
// Parameters:
//   - viewProj: the column-major view-projection matrix
//
// Returns:
//   - Frustum: the extracted frustum with normalized planes
func ExtractFrustumFromMatrix(viewProj mgl64.Mat4) Frustum {
	var f Frustum

	row := func(i int) mgl64.Vec4 {
		return mgl64.Vec4{viewProj.At(i, 0), viewProj.At(i, 1), viewProj.At(i, 2), viewProj.At(i, 3)}
	}
	r0, r1, r2, r3 := row(0), row(1), row(2), row(3)

	set := func(index int, v mgl64.Vec4) {
		f.Planes[index] = Plane{Normal: v.Vec3(), Distance: v.W()}
	}
	set(FrustumLeft, r3.Add(r0))
	set(FrustumRight, r3.Sub(r0))
	set(FrustumBottom, r3.Add(r1))
	set(FrustumTop, r3.Sub(r1))
	set(FrustumNear, r3.Add(r2))
	set(FrustumFar, r3.Sub(r2))

	for i := range f.Planes {
		f.normalizePlane(i)
	}

	return f
}

// FrustumFromCorners builds a frustum from the eight corners of a picking volume. The first
// four corners lie on the near plane and the last four on the far plane, both in the order
// bottom-left, bottom-right, top-right, top-left.
//
// Parameters:
//   - corners: the eight world-space corners
//
// Returns:
//   - Frustum: planes oriented so the volume's interior is on the positive side
func FrustumFromCorners(corners [8]mgl64.Vec3) Frustum {
	var centroid mgl64.Vec3
	for _, c := range corners {
		centroid = centroid.Add(c)
	}
	centroid = centroid.Mul(1.0 / 8.0)

	faces := [6][3]int{
		FrustumLeft:   {0, 3, 7},
		FrustumRight:  {1, 5, 6},
		FrustumBottom: {0, 4, 5},
		FrustumTop:    {3, 2, 6},
		FrustumNear:   {0, 1, 2},
		FrustumFar:    {4, 7, 6},
	}

	var f Frustum
	for i, idx := range faces {
		a, b, c := corners[idx[0]], corners[idx[1]], corners[idx[2]]
		p := PlaneFromPointNormal(a, b.Sub(a).Cross(c.Sub(a)))
		if p.SignedDistance(centroid) < 0 {
			p.Normal = p.Normal.Mul(-1)
			p.Distance = -p.Distance
		}
		f.Planes[i] = p
	}
	return f
}

// ContainsPoint reports whether p is on the inner side of all six planes.
func (f Frustum) ContainsPoint(p mgl64.Vec3) bool {
	for _, plane := range f.Planes {
		if plane.SignedDistance(p) < 0 {
			return false
		}
	}
	return true
}

// IntersectsBox reports whether the world-space box is at least partially inside the
// frustum. The test is conservative: a box is rejected only when all of its corners lie
// outside a single plane.
func (f Frustum) IntersectsBox(box BoundingBox) bool {
	corners := box.Corners()
	for _, plane := range f.Planes {
		outside := 0
		for _, c := range corners {
			if plane.SignedDistance(c) < 0 {
				outside++
			}
		}
		if outside == len(corners) {
			return false
		}
	}
	return true
}

// normalizePlane normalizes a frustum plane so that the normal has unit length.
func (f *Frustum) normalizePlane(index int) {
	p := &f.Planes[index]
	length := p.Normal.Len()

	if length > 0 {
		invLen := 1.0 / length
		p.Normal = p.Normal.Mul(invLen)
		p.Distance *= invLen
	}
}
