package transform

import (
	"errors"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-viewport/common"
	"github.com/Carmen-Shannon/oxy-viewport/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewport/engine/projection"
	"github.com/Carmen-Shannon/oxy-viewport/engine/scene"
	"github.com/Carmen-Shannon/oxy-viewport/engine/tracktool"
	"github.com/go-gl/mathgl/mgl64"
)

var brick = scene.PieceInfo{
	Name:        "3001.dat",
	BoundingBox: common.BoundingBox{Min: mgl64.Vec3{-40, -20, 0}, Max: mgl64.Vec3{40, 20, 24}},
}

var identityPivot = scene.Pivot{Rotation: mgl64.Ident3()}

func downRay(x, y float64) common.Ray {
	return common.Ray{Start: mgl64.Vec3{x, y, 100}, End: mgl64.Vec3{x, y, -100}}
}

// frontView looks down +Z at the origin from z=-500 with Y up.
func frontView() (camera.Camera, projection.Projector) {
	cam := camera.NewCamera(
		camera.WithPosition(mgl64.Vec3{0, 0, -500}),
		camera.WithUp(mgl64.Vec3{0, 1, 0}),
	)
	return cam, projection.New(cam, common.Rect{Width: 800, Height: 600})
}

func TestMouseSensitivity(t *testing.T) {
	cases := []struct {
		setting  int
		expected float64
	}{
		{1, 0.025},
		{11, 0.05},
		{20, 0.5},
		{-3, 0.025},
		{40, 0.5},
	}
	for _, c := range cases {
		if got := MouseSensitivity(c.setting); math.Abs(got-c.expected) > 1e-12 {
			t.Errorf("MouseSensitivity(%d) failed: expected %v, got %v", c.setting, c.expected, got)
		}
	}
}

func TestAxisMoveFollowsProjectedAxis(t *testing.T) {
	_, proj := frontView()
	from := proj.Project(mgl64.Vec3{0, 0, 0})
	to := proj.Project(mgl64.Vec3{50, 0, 0})

	down, _ := proj.PointerRay(from.X(), from.Y())
	along, _ := proj.PointerRay(to.X(), to.Y())

	delta, err := AxisMoveDelta(identityPivot, 0, down, along)
	if err != nil {
		t.Fatalf("AxisMoveDelta failed: %v", err)
	}
	if delta.Cross(mgl64.Vec3{1, 0, 0}).Len() > 1e-9 {
		t.Errorf("AxisMoveDelta failed: expected a vector parallel to X, got %v", delta)
	}
	if math.Abs(delta.X()-50) > 1e-6 {
		t.Errorf("AxisMoveDelta failed: expected 50 along X, got %v", delta.X())
	}

	// The same pixel distance perpendicular to the projected axis.
	pixels := math.Abs(to.X() - from.X())
	across, _ := proj.PointerRay(from.X(), from.Y()+pixels)
	delta, err = AxisMoveDelta(identityPivot, 0, down, across)
	if err != nil {
		t.Fatalf("AxisMoveDelta failed: %v", err)
	}
	if delta.Len() > 1e-6 {
		t.Errorf("AxisMoveDelta failed: expected a near-zero vector, got %v", delta)
	}
}

func TestAxisMoveParallelRay(t *testing.T) {
	_, err := AxisMoveDelta(identityPivot, 2, downRay(0, 0), downRay(5, 5))
	if !errors.Is(err, common.ErrNoIntersection) {
		t.Errorf("AxisMoveDelta failed: expected ErrNoIntersection, got %v", err)
	}
}

func TestPlaneMoveDelta(t *testing.T) {
	delta, err := PlaneMoveDelta(identityPivot, 2, downRay(0, 0), downRay(10, 5))
	if err != nil {
		t.Fatalf("PlaneMoveDelta failed: %v", err)
	}
	if delta.Sub(mgl64.Vec3{10, 5, 0}).Len() > 1e-9 {
		t.Errorf("PlaneMoveDelta failed: expected %v, got %v", mgl64.Vec3{10, 5, 0}, delta)
	}

	if _, err := PlaneMoveDelta(identityPivot, 0, downRay(0, 0), downRay(10, 5)); !errors.Is(err, common.ErrNoIntersection) {
		t.Errorf("PlaneMoveDelta failed: expected ErrNoIntersection for a parallel plane, got %v", err)
	}
}

func TestPlaneMoveDeltaRotatedPivot(t *testing.T) {
	pivot := scene.Pivot{Rotation: mgl64.HomogRotate3DZ(math.Pi / 2).Mat3()}
	delta, err := PlaneMoveDelta(pivot, 2, downRay(0, 0), downRay(0, 10))
	if err != nil {
		t.Fatalf("PlaneMoveDelta failed: %v", err)
	}
	// World +Y is the pivot's local +X after a quarter turn about Z.
	if delta.Sub(mgl64.Vec3{10, 0, 0}).Len() > 1e-9 {
		t.Errorf("PlaneMoveDelta failed: expected %v, got %v", mgl64.Vec3{10, 0, 0}, delta)
	}
}

func TestFreeMoveDelta(t *testing.T) {
	delta, err := FreeMoveDelta(identityPivot, mgl64.Vec3{0, 0, -1}, downRay(1, 2), downRay(4, -2))
	if err != nil {
		t.Fatalf("FreeMoveDelta failed: %v", err)
	}
	if delta.Sub(mgl64.Vec3{3, -4, 0}).Len() > 1e-9 {
		t.Errorf("FreeMoveDelta failed: expected %v, got %v", mgl64.Vec3{3, -4, 0}, delta)
	}
}

func TestRotateAngleIsLinear(t *testing.T) {
	s := MouseSensitivity(7)
	var sum float64
	for i := 0; i < 25; i++ {
		sum += RotateAngle(1, s)
	}
	if got := RotateAngle(25, s); math.Abs(got-sum) > 1e-9 {
		t.Errorf("RotateAngle failed: expected %v, got %v", sum, got)
	}
}

func TestRotateDeltaSingleAxis(t *testing.T) {
	right, up, view := mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 0, -1}
	s := 0.05

	// Y lines up with the screen's up axis, so only vertical motion rotates about Y.
	got := RotateDelta(tracktool.TrackToolRotateY, identityPivot, right, up, view, 10, 0, s)
	if got != (mgl64.Vec3{}) {
		t.Errorf("RotateDelta failed: expected no rotation, got %v", got)
	}
	got = RotateDelta(tracktool.TrackToolRotateY, identityPivot, right, up, view, 0, 10, s)
	if got.Sub(mgl64.Vec3{0, 18, 0}).Len() > 1e-9 {
		t.Errorf("RotateDelta failed: expected %v, got %v", mgl64.Vec3{0, 18, 0}, got)
	}

	got = RotateDelta(tracktool.TrackToolRotateX, identityPivot, mgl64.Vec3{-1, 0, 0}, up, view, 10, 0, s)
	if got.Sub(mgl64.Vec3{-18, 0, 0}).Len() > 1e-9 {
		t.Errorf("RotateDelta failed: expected %v, got %v", mgl64.Vec3{-18, 0, 0}, got)
	}
}

func TestRotateDeltaFree(t *testing.T) {
	right, up, view := mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 0, -1}

	got := RotateDelta(tracktool.TrackToolRotateXYZ, identityPivot, right, up, view, 100, 10, 0.05)
	if got.Sub(mgl64.Vec3{0, 0, -18}).Len() > 1e-9 {
		t.Errorf("RotateDelta failed: expected %v, got %v", mgl64.Vec3{0, 0, -18}, got)
	}

	got = RotateDelta(tracktool.TrackToolRotateXY, identityPivot, right, up, view, 10, 10, 0.05)
	if got.Sub(mgl64.Vec3{-18, 18, 0}).Len() > 1e-9 {
		t.Errorf("RotateDelta failed: expected %v, got %v", mgl64.Vec3{-18, 18, 0}, got)
	}

	got = RotateDelta(tracktool.TrackToolRotateStep, identityPivot, right, up, view, 0, 10, 0.05)
	if got.Sub(mgl64.Vec3{0, 0, -15}).Len() > 1e-9 {
		t.Errorf("RotateDelta failed: expected %v, got %v", mgl64.Vec3{0, 0, -15}, got)
	}
}

func TestScaleValue(t *testing.T) {
	pivot := scene.Pivot{Rotation: mgl64.Ident3(), ControlPoint: true, ControlPointStrength: 20}

	got, err := ScaleValue(tracktool.TrackToolScalePlus, pivot, downRay(20, 0), downRay(35, 3))
	if err != nil {
		t.Fatalf("ScaleValue failed: %v", err)
	}
	if math.Abs(got-35) > 1e-9 {
		t.Errorf("ScaleValue failed: expected 35, got %v", got)
	}

	got, _ = ScaleValue(tracktool.TrackToolScaleMinus, pivot, downRay(-20, 0), downRay(-35, 0))
	if math.Abs(got-35) > 1e-9 {
		t.Errorf("ScaleValue failed: expected 35 for the minus handle, got %v", got)
	}

	got, _ = ScaleValue(tracktool.TrackToolScalePlus, pivot, downRay(20, 0), downRay(-500, 0))
	if got != MinScale {
		t.Errorf("ScaleValue failed: expected %v, got %v", MinScale, got)
	}
	got, _ = ScaleValue(tracktool.TrackToolScalePlus, pivot, downRay(20, 0), downRay(5000, 0))
	if got != MaxScale {
		t.Errorf("ScaleValue failed: expected %v, got %v", MaxScale, got)
	}
}

// topView looks straight down -Z at the origin from z=500 with Y up.
func topView() projection.Projector {
	cam := camera.NewCamera(
		camera.WithPosition(mgl64.Vec3{0, 0, 500}),
		camera.WithUp(mgl64.Vec3{0, 1, 0}),
	)
	return projection.New(cam, common.Rect{Width: 800, Height: 600})
}

func TestInsertTransformStacksOnHitPiece(t *testing.T) {
	m := scene.NewMemoryModel(scene.WithGridSize(1))
	m.AddPiece(brick, mgl64.Ident4())

	got, err := InsertTransform(m, topView(), brick, 400, 300, false)
	if err != nil {
		t.Fatalf("InsertTransform failed: %v", err)
	}
	if got.Position.Sub(mgl64.Vec3{0, 0, 24}).Len() > 1e-9 {
		t.Errorf("InsertTransform failed: expected %v, got %v", mgl64.Vec3{0, 0, 24}, got.Position)
	}
	if got.Rotation != mgl64.Ident3() {
		t.Errorf("InsertTransform failed: expected an identity rotation, got %v", got.Rotation)
	}
}

func TestInsertTransformRelativeInheritsRotation(t *testing.T) {
	m := scene.NewMemoryModel(scene.WithGridSize(1), scene.WithRelativeTransform(true))
	base := mgl64.HomogRotate3DZ(math.Pi / 2)
	m.AddPiece(brick, base)

	got, err := InsertTransform(m, topView(), brick, 400, 300, false)
	if err != nil {
		t.Fatalf("InsertTransform failed: %v", err)
	}
	if got.Position.Sub(mgl64.Vec3{0, 0, 24}).Len() > 1e-9 {
		t.Errorf("InsertTransform failed: expected %v, got %v", mgl64.Vec3{0, 0, 24}, got.Position)
	}
	if want := base.Mat3(); !matricesNear(got.Rotation[:], want[:], 1e-9) {
		t.Errorf("InsertTransform failed: expected the hit piece's rotation, got %v", got.Rotation)
	}
}

func TestInsertTransformGroundPlane(t *testing.T) {
	m := scene.NewMemoryModel(scene.WithGridSize(1))
	raised := scene.PieceInfo{Name: "raised", BoundingBox: common.BoundingBox{Min: mgl64.Vec3{-5, -5, -8}, Max: mgl64.Vec3{5, 5, 0}}}

	got, err := InsertTransform(m, topView(), raised, 400, 300, false)
	if err != nil {
		t.Fatalf("InsertTransform failed: %v", err)
	}
	if got.Position.Sub(mgl64.Vec3{0, 0, 8}).Len() > 1e-9 {
		t.Errorf("InsertTransform failed: expected %v, got %v", mgl64.Vec3{0, 0, 8}, got.Position)
	}
}

func TestInsertTransformFacingPlane(t *testing.T) {
	// A level view above the ground never reaches the ground plane.
	cam := camera.NewCamera(
		camera.WithPosition(mgl64.Vec3{0, -500, 100}),
		camera.WithTarget(mgl64.Vec3{0, 0, 100}),
	)
	proj := projection.New(cam, common.Rect{Width: 800, Height: 600})

	m := scene.NewMemoryModel(scene.WithGridSize(1))
	got, err := InsertTransform(m, proj, scene.PieceInfo{Name: "flat"}, 400, 300, false)
	if err != nil {
		t.Fatalf("InsertTransform failed: %v", err)
	}
	if got.Position.Sub(mgl64.Vec3{0, 0, 100}).Len() > 1e-9 {
		t.Errorf("InsertTransform failed: expected %v, got %v", mgl64.Vec3{0, 0, 100}, got.Position)
	}
}

func TestCameraLightInsertPosition(t *testing.T) {
	m := scene.NewMemoryModel()
	m.AddPiece(brick, mgl64.Translate3D(0, 0, 100))

	got := CameraLightInsertPosition(m, downRay(30, 40))
	if got.Sub(mgl64.Vec3{30, 40, 112}).Len() > 1e-9 {
		t.Errorf("CameraLightInsertPosition failed: expected %v, got %v", mgl64.Vec3{30, 40, 112}, got)
	}
}

func TestUpdaterCancelRestoresTransform(t *testing.T) {
	m := scene.NewMemoryModel()
	p := m.AddPiece(brick, mgl64.Translate3D(0, 0, 0))
	m.Select(p.ID())
	before := p.WorldTransform()

	cam, proj := frontView()
	pivot, _ := m.Pivot()
	from := proj.Project(pivot.Center)
	to := proj.Project(pivot.Center.Add(mgl64.Vec3{60, 0, 0}))

	u := NewUpdater(m)
	session := tracktool.DragSession{
		Tool:     tracktool.TrackToolMoveX,
		Button:   common.MouseButtonLeft,
		DownX:    from.X(),
		DownY:    from.Y(),
		Camera:   cam,
		Pivot:    pivot,
		HasPivot: true,
	}

	m.BeginMouseTool(scene.MouseToolMove)
	if err := u.Update(session, proj, to.X(), to.Y()); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got := p.Translation(); math.Abs(got.X()-60) > 1e-6 {
		t.Fatalf("Update failed: expected the piece at x=60, got %v", got)
	}
	m.EndMouseTool(scene.MouseToolMove, false)

	if got := p.WorldTransform(); got != before {
		t.Errorf("EndMouseTool failed: expected %v, got %v", before, got)
	}
}

func TestUpdaterRotate(t *testing.T) {
	m := scene.NewMemoryModel()
	p := m.AddPiece(brick, mgl64.Ident4())
	m.Select(p.ID())

	cam, proj := frontView()
	pivot, _ := m.Pivot()
	u := NewUpdater(m, WithMouseSensitivity(11))

	session := tracktool.DragSession{Tool: tracktool.TrackToolRotateY, Button: common.MouseButtonLeft, DownX: 400, DownY: 300, Camera: cam, Pivot: pivot}
	m.BeginMouseTool(scene.MouseToolRotate)
	if err := u.Update(session, proj, 420, 320); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	// Y lines up with the screen's up axis, so only the vertical 50 pixels count.
	if err := u.Update(session, proj, 480, 350); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	m.EndMouseTool(scene.MouseToolRotate, true)

	expected := mgl64.HomogRotate3DY(math.Pi / 2).Mat3()
	if got := p.Rotation(); !matricesNear(got[:], expected[:], 1e-9) {
		t.Errorf("Update failed: expected %v, got %v", expected, got)
	}
	if got := p.Translation(); got.Len() > 1e-9 {
		t.Errorf("Update failed: expected the piece to stay at the pivot, got %v", got)
	}
}

func TestNewUpdaterPanicsOnNilModel(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("NewUpdater failed: expected a panic for a nil model")
		}
	}()
	NewUpdater(nil)
}

func matricesNear(a, b []float64, tol float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}
