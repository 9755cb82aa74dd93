package common

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon is the tolerance used by the intersection helpers to detect parallel or
// degenerate configurations.
const Epsilon = 1e-9

// ErrNoIntersection is returned when a ray, line, or sphere test has no usable solution.
// Interactive callers treat it as "skip this frame".
var ErrNoIntersection = errors.New("no intersection")

// SegmentPlaneIntersection intersects the segment from start to end with plane p.
//
// Parameters:
//   - start: segment start point
//   - end: segment end point
//   - p: the plane to intersect
//
// Returns:
//   - mgl64.Vec3: the intersection point
//   - error: ErrNoIntersection if the segment is parallel to the plane or does not reach it
func SegmentPlaneIntersection(start, end mgl64.Vec3, p Plane) (mgl64.Vec3, error) {
	t, err := linePlaneParameter(start, end, p)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	if t < 0 || t > 1 {
		return mgl64.Vec3{}, ErrNoIntersection
	}
	return start.Add(end.Sub(start).Mul(t)), nil
}

// LinePlaneIntersection intersects the infinite line through start and end with plane p.
//
// Parameters:
//   - start: first point on the line
//   - end: second point on the line
//   - p: the plane to intersect
//
// Returns:
//   - mgl64.Vec3: the intersection point
//   - error: ErrNoIntersection if the line is parallel to the plane
func LinePlaneIntersection(start, end mgl64.Vec3, p Plane) (mgl64.Vec3, error) {
	t, err := linePlaneParameter(start, end, p)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	return start.Add(end.Sub(start).Mul(t)), nil
}

func linePlaneParameter(start, end mgl64.Vec3, p Plane) (float64, error) {
	dir := end.Sub(start)
	length := dir.Len()
	if length < Epsilon || p.Normal.Len() < Epsilon {
		return 0, ErrNoIntersection
	}
	denom := p.Normal.Dot(dir)
	if math.Abs(denom/length) < 1e-12 {
		return 0, ErrNoIntersection
	}
	return -(p.Normal.Dot(start) + p.Distance) / denom, nil
}

// ClosestPointsBetweenLines returns the pair of closest points between the infinite line
// through p1,p2 and the infinite line through q1,q2.
//
// Parameters:
//   - p1, p2: two points on the first line
//   - q1, q2: two points on the second line
//
// Returns:
//   - mgl64.Vec3: the point on the first line closest to the second line
//   - mgl64.Vec3: the point on the second line closest to the first line
//   - error: ErrNoIntersection if the lines are parallel or degenerate
func ClosestPointsBetweenLines(p1, p2, q1, q2 mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3, error) {
	d1 := p2.Sub(p1)
	d2 := q2.Sub(q1)
	r := p1.Sub(q1)

	a := d1.Dot(d1)
	e := d2.Dot(d2)
	if a < Epsilon || e < Epsilon {
		return mgl64.Vec3{}, mgl64.Vec3{}, ErrNoIntersection
	}
	b := d1.Dot(d2)
	c := d1.Dot(r)
	f := d2.Dot(r)

	denom := a*e - b*b
	if math.Abs(denom) < 1e-12*a*e {
		return mgl64.Vec3{}, mgl64.Vec3{}, ErrNoIntersection
	}

	s := (b*f - c*e) / denom
	t := (a*f - b*c) / denom
	return p1.Add(d1.Mul(s)), q1.Add(d2.Mul(t)), nil
}

// ClosestPointOnLine returns the point on the infinite line through start and end that is
// closest to point. A degenerate line returns start.
func ClosestPointOnLine(point, start, end mgl64.Vec3) mgl64.Vec3 {
	dir := end.Sub(start)
	lenSq := dir.Dot(dir)
	if lenSq < Epsilon {
		return start
	}
	u := point.Sub(start).Dot(dir) / lenSq
	return start.Add(dir.Mul(u))
}

// RaySphereIntersections solves the ray/sphere quadratic for the segment r and returns the
// intersection points ordered from the larger ray parameter to the smaller one. Points behind
// the ray start (negative parameter) are omitted.
//
// Parameters:
//   - r: the pointer ray
//   - center: sphere center
//   - radius: sphere radius
//
// Returns:
//   - []mgl64.Vec3: up to two intersection points
//   - error: ErrNoIntersection when the discriminant is negative or no point is in front
func RaySphereIntersections(r Ray, center mgl64.Vec3, radius float64) ([]mgl64.Vec3, error) {
	dir := r.End.Sub(r.Start)
	a := dir.Dot(dir)
	if a < Epsilon {
		return nil, ErrNoIntersection
	}
	oc := r.Start.Sub(center)
	b := 2 * dir.Dot(oc)
	c := oc.Dot(oc) - radius*radius

	disc := b*b - 4*a*c
	if disc < 0 {
		return nil, ErrNoIntersection
	}
	sq := math.Sqrt(disc)

	var points []mgl64.Vec3
	for _, t := range []float64{(-b + sq) / (2 * a), (-b - sq) / (2 * a)} {
		if t < 0 {
			continue
		}
		points = append(points, r.At(t))
	}
	if len(points) == 0 {
		return nil, ErrNoIntersection
	}
	return points, nil
}

// RayBoxIntersection runs a slab test of the segment r against box and returns the entry
// parameter and the index of the entry face (0..5 = -X,+X,-Y,+Y,-Z,+Z).
//
// Parameters:
//   - r: the ray, already expressed in the box's frame
//   - box: the axis-aligned box
//
// Returns:
//   - float64: the ray parameter at entry (0 when the start lies inside the box)
//   - int: the entry face index, or -1 when the start lies inside the box
//   - error: ErrNoIntersection if the segment misses the box
func RayBoxIntersection(r Ray, box BoundingBox) (float64, int, error) {
	dir := r.End.Sub(r.Start)
	tMin, tMax := 0.0, 1.0
	face := -1

	for i := 0; i < 3; i++ {
		if math.Abs(dir[i]) < Epsilon {
			if r.Start[i] < box.Min[i] || r.Start[i] > box.Max[i] {
				return 0, -1, ErrNoIntersection
			}
			continue
		}
		inv := 1 / dir[i]
		t1 := (box.Min[i] - r.Start[i]) * inv
		t2 := (box.Max[i] - r.Start[i]) * inv
		near := i * 2
		if t1 > t2 {
			t1, t2 = t2, t1
			near = i*2 + 1
		}
		if t1 > tMin {
			tMin = t1
			face = near
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return 0, -1, ErrNoIntersection
		}
	}
	return tMin, face, nil
}

// FaceNormal returns the outward unit normal of a box face index from RayBoxIntersection.
func FaceNormal(face int) mgl64.Vec3 {
	var n mgl64.Vec3
	if face < 0 || face > 5 {
		return n
	}
	n[face/2] = -1
	if face%2 == 1 {
		n[face/2] = 1
	}
	return n
}

// Orthonormalize returns an up vector perpendicular to forward, built from the hint up.
// When up is parallel to forward the result is the zero vector.
func Orthonormalize(forward, up mgl64.Vec3) mgl64.Vec3 {
	right := forward.Cross(up)
	if right.Len() < Epsilon {
		return mgl64.Vec3{}
	}
	return right.Cross(forward).Normalize()
}
