package common

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestExtractFrustumFromMatrix(t *testing.T) {
	proj := mgl64.Ortho(-10, 10, -10, 10, 1, 100)
	view := mgl64.LookAtV(mgl64.Vec3{0, 0, 50}, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0})
	f := ExtractFrustumFromMatrix(proj.Mul4(view))

	if !f.ContainsPoint(mgl64.Vec3{0, 0, 0}) {
		t.Errorf("ExtractFrustumFromMatrix failed: expected origin inside the frustum")
	}
	if f.ContainsPoint(mgl64.Vec3{20, 0, 0}) {
		t.Errorf("ExtractFrustumFromMatrix failed: expected (20,0,0) outside the frustum")
	}
	if f.ContainsPoint(mgl64.Vec3{0, 0, 60}) {
		t.Errorf("ExtractFrustumFromMatrix failed: expected a point behind the camera outside the frustum")
	}
}

func TestFrustumFromCorners(t *testing.T) {
	corners := [8]mgl64.Vec3{
		{-1, -1, 0}, {1, -1, 0}, {1, 1, 0}, {-1, 1, 0},
		{-1, -1, -10}, {1, -1, -10}, {1, 1, -10}, {-1, 1, -10},
	}
	f := FrustumFromCorners(corners)

	if !f.ContainsPoint(mgl64.Vec3{0, 0, -5}) {
		t.Errorf("FrustumFromCorners failed: expected center inside")
	}
	if f.ContainsPoint(mgl64.Vec3{2, 0, -5}) {
		t.Errorf("FrustumFromCorners failed: expected (2,0,-5) outside")
	}

	inside := BoundingBox{Min: mgl64.Vec3{0.5, 0.5, -6}, Max: mgl64.Vec3{3, 3, -4}}
	if !f.IntersectsBox(inside) {
		t.Errorf("IntersectsBox failed: expected a straddling box to intersect")
	}
	outside := BoundingBox{Min: mgl64.Vec3{2, 2, -6}, Max: mgl64.Vec3{3, 3, -4}}
	if f.IntersectsBox(outside) {
		t.Errorf("IntersectsBox failed: expected a disjoint box to be rejected")
	}
}
