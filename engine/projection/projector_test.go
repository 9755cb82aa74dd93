package projection

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-viewport/common"
	"github.com/Carmen-Shannon/oxy-viewport/engine/camera"
	"github.com/go-gl/mathgl/mgl64"
)

func testCameras() map[string]camera.Camera {
	return map[string]camera.Camera{
		"perspective": camera.NewCamera(
			camera.WithPosition(mgl64.Vec3{0, 0, -500}),
			camera.WithUp(mgl64.Vec3{0, 1, 0}),
			camera.WithFOV(30),
		),
		"ortho": camera.NewCamera(
			camera.WithPosition(mgl64.Vec3{0, 0, -500}),
			camera.WithUp(mgl64.Vec3{0, 1, 0}),
			camera.WithOrtho(100),
		),
	}
}

func TestProjectUnprojectRoundTrip(t *testing.T) {
	points := []mgl64.Vec3{
		{0, 0, 0},
		{12.5, -40, 30},
		{-100, 60, 400},
		{3, 3, -300},
	}

	for name, cam := range testCameras() {
		p := New(cam, common.Rect{Width: 800, Height: 600})
		for _, world := range points {
			got, err := p.Unproject(p.Project(world))
			if err != nil {
				t.Fatalf("%s: Unproject failed: %v", name, err)
			}
			if got.Sub(world).Len() > 1e-6*(1+world.Len()) {
				t.Errorf("%s round trip failed: expected %v, got %v", name, world, got)
			}
		}
	}
}

func TestUnprojectPointsMatchesUnproject(t *testing.T) {
	p := New(testCameras()["perspective"], common.Rect{X: 10, Y: 20, Width: 640, Height: 480})
	screen := []mgl64.Vec3{{100, 200, 0.3}, {330, 260, 0.9}}

	batch := append([]mgl64.Vec3(nil), screen...)
	if err := p.UnprojectPoints(batch); err != nil {
		t.Fatalf("UnprojectPoints failed: %v", err)
	}
	for i, s := range screen {
		want, err := p.Unproject(s)
		if err != nil {
			t.Fatalf("Unproject failed: %v", err)
		}
		if batch[i].Sub(want).Len() > 1e-6*(1+want.Len()) {
			t.Errorf("UnprojectPoints failed: expected %v, got %v", want, batch[i])
		}
	}
}

func TestPointerRayThroughCenter(t *testing.T) {
	p := New(testCameras()["perspective"], common.Rect{Width: 800, Height: 600})

	r, err := p.PointerRay(400, 300)
	if err != nil {
		t.Fatalf("PointerRay failed: %v", err)
	}
	if dir := r.Direction(); dir.Sub(mgl64.Vec3{0, 0, 1}).Len() > 1e-9 {
		t.Errorf("PointerRay failed: expected direction %v, got %v", mgl64.Vec3{0, 0, 1}, dir)
	}
}

func TestSingularMatrix(t *testing.T) {
	p := Projector{Viewport: common.Rect{Width: 10, Height: 10}}

	if _, err := p.PointerRay(1, 1); !errors.Is(err, ErrSingularMatrix) {
		t.Errorf("PointerRay failed: expected ErrSingularMatrix, got %v", err)
	}
	if _, err := p.Unproject(mgl64.Vec3{1, 1, 0}); !errors.Is(err, ErrSingularMatrix) {
		t.Errorf("Unproject failed: expected ErrSingularMatrix, got %v", err)
	}
}
