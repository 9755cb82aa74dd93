package picker

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-viewport/common"
	"github.com/Carmen-Shannon/oxy-viewport/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewport/engine/projection"
	"github.com/Carmen-Shannon/oxy-viewport/engine/scene"
	"github.com/go-gl/mathgl/mgl64"
)

var cube = scene.PieceInfo{
	Name:        "cube",
	BoundingBox: common.BoundingBox{Min: mgl64.Vec3{-10, -10, -10}, Max: mgl64.Vec3{10, 10, 10}},
}

func setup() (scene.MemoryModel, projection.Projector, *scene.Piece, *scene.Piece) {
	m := scene.NewMemoryModel()
	left := m.AddPiece(cube, mgl64.Translate3D(60, 0, 0))
	right := m.AddPiece(cube, mgl64.Translate3D(-60, 0, 0))

	cam := camera.NewCamera(
		camera.WithPosition(mgl64.Vec3{0, 0, -500}),
		camera.WithUp(mgl64.Vec3{0, 1, 0}),
	)
	return m, projection.New(cam, common.Rect{Width: 800, Height: 600}), left, right
}

func TestPickPointer(t *testing.T) {
	m, proj, left, _ := setup()
	p := New(m)

	screen := proj.Project(left.Translation())
	hit, err := p.PickPointer(proj, screen.X(), screen.Y(), false)
	if err != nil {
		t.Fatalf("PickPointer failed: %v", err)
	}
	if hit.Object == nil || hit.Object.ID() != left.ID() {
		t.Errorf("PickPointer failed: expected piece %d, got %v", left.ID(), hit.Object)
	}

	hit, _ = p.PickPointer(proj, 400, 590, false)
	if hit.Object != nil {
		t.Errorf("PickPointer failed: expected no hit near the top edge, got %v", hit.Object)
	}
}

func TestPickRect(t *testing.T) {
	m, proj, left, right := setup()
	p := New(m)

	// Looking down +Z with Y up puts +X on the left half of the screen.
	objs, err := p.PickRect(proj, 0, 0, 399, 599)
	if err != nil {
		t.Fatalf("PickRect failed: %v", err)
	}
	if len(objs) != 1 || objs[0].ID() != left.ID() {
		t.Errorf("PickRect failed: expected only piece %d, got %v", left.ID(), objs)
	}

	objs, _ = p.PickRect(proj, 799, 599, 400, 0)
	if len(objs) != 1 || objs[0].ID() != right.ID() {
		t.Errorf("PickRect failed: expected only piece %d with reversed corners, got %v", right.ID(), objs)
	}
}

func TestNewPanicsOnNilModel(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("New failed: expected a panic for a nil model")
		}
	}()
	New(nil)
}
