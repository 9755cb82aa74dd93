package viewport

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-viewport/common"
	"github.com/Carmen-Shannon/oxy-viewport/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewport/engine/scene"
	"github.com/Carmen-Shannon/oxy-viewport/engine/tracktool"
	"github.com/go-gl/mathgl/mgl64"
)

var cube = scene.PieceInfo{
	Name:        "cube",
	BoundingBox: common.BoundingBox{Min: mgl64.Vec3{-10, -10, -10}, Max: mgl64.Vec3{10, 10, 10}},
}

// frontCamera looks down +Z at the origin from z=-500 with Y up, which puts +X on the left
// half of the screen.
func frontCamera(options ...camera.CameraBuilderOption) camera.Camera {
	return camera.NewCamera(append([]camera.CameraBuilderOption{
		camera.WithPosition(mgl64.Vec3{0, 0, -500}),
		camera.WithUp(mgl64.Vec3{0, 1, 0}),
	}, options...)...)
}

func newTestViewport(model scene.ActiveModel, options ...ViewportBuilderOption) (Manager, Viewport) {
	m := NewManager()
	options = append([]ViewportBuilderOption{WithCamera(frontCamera()), WithSize(800, 600)}, options...)
	return m, NewViewport(m, model, options...)
}

// moveToWorld places the pointer over a world-space point.
func moveToWorld(v Viewport, p mgl64.Vec3, modifiers common.Modifier) {
	screen := v.Projector().Project(p)
	v.OnMouseMove(screen.X(), screen.Y(), modifiers)
}

// hoverMoveX selects one cube at the origin and hovers the gizmo's X arrow.
func hoverMoveX(t *testing.T, options ...ViewportBuilderOption) (scene.MemoryModel, Viewport, *scene.Piece, scene.Pivot, float64) {
	t.Helper()
	model := scene.NewMemoryModel(scene.WithGridSize(1))
	p := model.AddPiece(cube, mgl64.Ident4())
	model.Select(p.ID())

	_, v := newTestViewport(model, append([]ViewportBuilderOption{WithTool(tracktool.ToolMove)}, options...)...)
	pivot, s, ok := v.Overlay()
	if !ok {
		t.Fatalf("Overlay failed: expected a gizmo for the selected cube")
	}
	moveToWorld(v, pivot.Center.Add(mgl64.Vec3{s, 0.05 * s, 0}), common.ModifierNone)
	if got := v.TrackTool(); got != tracktool.TrackToolMoveX {
		t.Fatalf("OnMouseMove failed: expected %v over the X arrow, got %v", tracktool.TrackToolMoveX, got)
	}
	return model, v, p, pivot, s
}

func TestHoverResolvesGizmo(t *testing.T) {
	_, v, _, pivot, s := hoverMoveX(t)
	if got := v.Cursor(); got != CursorMove {
		t.Errorf("Cursor failed: expected %v, got %v", CursorMove, got)
	}

	moveToWorld(v, pivot.Center.Add(mgl64.Vec3{0.05 * s, 1.4 * s, 0}), common.ModifierNone)
	if got := v.TrackTool(); got != tracktool.TrackToolMoveY {
		t.Errorf("OnMouseMove failed: expected %v over the Y arrow, got %v", tracktool.TrackToolMoveY, got)
	}

	v.OnMouseMove(5, 5, common.ModifierNone)
	if got := v.TrackTool(); got != tracktool.TrackToolMoveXYZ {
		t.Errorf("OnMouseMove failed: expected %v away from the gizmo, got %v", tracktool.TrackToolMoveXYZ, got)
	}
}

func TestDragMoveCommits(t *testing.T) {
	redraws := 0
	_, v, p, pivot, s := hoverMoveX(t, WithRedrawHandler(func() { redraws++ }))

	v.OnButtonDown(common.MouseButtonLeft)
	session, ok := v.Dragging()
	if !ok || session.Tool != tracktool.TrackToolMoveX {
		t.Fatalf("OnButtonDown failed: expected a %v drag, got %v (dragging=%v)", tracktool.TrackToolMoveX, session.Tool, ok)
	}

	moveToWorld(v, pivot.Center.Add(mgl64.Vec3{s + 40, 0.05 * s, 0}), common.ModifierNone)
	if got := p.Translation(); got.Sub(mgl64.Vec3{40, 0, 0}).Len() > 1e-9 {
		t.Errorf("OnMouseMove failed: expected the cube at (40,0,0) during the drag, got %v", got)
	}
	if got := v.TrackTool(); got != tracktool.TrackToolMoveX {
		t.Errorf("TrackTool failed: expected the drag tool while dragging, got %v", got)
	}

	v.OnButtonUp(common.MouseButtonLeft)
	if _, ok := v.Dragging(); ok {
		t.Errorf("OnButtonUp failed: expected the drag to end")
	}
	if got := p.Translation(); got.Sub(mgl64.Vec3{40, 0, 0}).Len() > 1e-9 {
		t.Errorf("OnButtonUp failed: expected the move committed at (40,0,0), got %v", got)
	}
	if redraws == 0 {
		t.Errorf("WithRedrawHandler failed: expected redraw requests during the drag")
	}
}

func TestDragCancelledByOtherButtonRelease(t *testing.T) {
	_, v, p, pivot, s := hoverMoveX(t)

	v.OnButtonDown(common.MouseButtonLeft)
	moveToWorld(v, pivot.Center.Add(mgl64.Vec3{s + 40, 0.05 * s, 0}), common.ModifierNone)
	v.OnButtonUp(common.MouseButtonRight)

	if _, ok := v.Dragging(); ok {
		t.Errorf("OnButtonUp failed: expected the drag to end")
	}
	if got := p.Translation(); got.Len() > 1e-9 {
		t.Errorf("OnButtonUp failed: expected the move reverted, got %v", got)
	}
}

func TestPressDuringDragCancels(t *testing.T) {
	_, v, p, pivot, s := hoverMoveX(t)

	v.OnButtonDown(common.MouseButtonLeft)
	moveToWorld(v, pivot.Center.Add(mgl64.Vec3{s + 40, 0.05 * s, 0}), common.ModifierNone)
	v.OnButtonDown(common.MouseButtonRight)

	if _, ok := v.Dragging(); ok {
		t.Errorf("OnButtonDown failed: expected a second press to cancel the drag")
	}
	if got := p.Translation(); got.Len() > 1e-9 {
		t.Errorf("OnButtonDown failed: expected the move reverted, got %v", got)
	}

	v.OnButtonUp(common.MouseButtonLeft)
	if got := p.Translation(); got.Len() > 1e-9 {
		t.Errorf("OnButtonUp failed: expected no edit after the cancelled drag, got %v", got)
	}
}

func TestCancelDrag(t *testing.T) {
	_, v, p, pivot, s := hoverMoveX(t)

	v.OnButtonDown(common.MouseButtonLeft)
	moveToWorld(v, pivot.Center.Add(mgl64.Vec3{s + 40, 0.05 * s, 0}), common.ModifierNone)
	v.SetTool(tracktool.ToolRotate)

	if _, ok := v.Dragging(); ok {
		t.Errorf("SetTool failed: expected the drag cancelled")
	}
	if got := p.Translation(); got.Len() > 1e-9 {
		t.Errorf("SetTool failed: expected the move reverted, got %v", got)
	}
	if got := v.Tool(); got != tracktool.ToolRotate {
		t.Errorf("SetTool failed: expected %v, got %v", tracktool.ToolRotate, got)
	}
}

func TestMoveWithoutSelectionDoesNothing(t *testing.T) {
	model := scene.NewMemoryModel()
	model.AddPiece(cube, mgl64.Ident4())
	_, v := newTestViewport(model, WithTool(tracktool.ToolMove))

	v.OnMouseMove(400, 300, common.ModifierNone)
	v.OnButtonDown(common.MouseButtonLeft)
	if _, ok := v.Dragging(); ok {
		t.Errorf("OnButtonDown failed: expected no drag without a selection")
	}
}

func TestClickAndMarqueeSelection(t *testing.T) {
	model := scene.NewMemoryModel()
	left := model.AddPiece(cube, mgl64.Translate3D(60, 0, 0))
	right := model.AddPiece(cube, mgl64.Translate3D(-60, 0, 0))
	_, v := newTestViewport(model)

	moveToWorld(v, left.Translation(), common.ModifierNone)
	v.OnButtonDown(common.MouseButtonLeft)
	v.OnButtonUp(common.MouseButtonLeft)
	if !left.IsSelected() || right.IsSelected() {
		t.Fatalf("click failed: expected only the left cube selected")
	}

	v.OnMouseMove(0, 0, common.ModifierNone)
	v.OnButtonDown(common.MouseButtonLeft)
	v.OnMouseMove(399, 599, common.ModifierNone)
	v.OnButtonUp(common.MouseButtonLeft)
	if !left.IsSelected() || right.IsSelected() {
		t.Errorf("marquee failed: expected only the left cube selected")
	}

	v.OnMouseMove(799, 599, common.ModifierControl)
	v.OnButtonDown(common.MouseButtonLeft)
	v.OnMouseMove(400, 0, common.ModifierControl)
	v.OnButtonUp(common.MouseButtonLeft)
	if !left.IsSelected() || !right.IsSelected() {
		t.Errorf("marquee failed: expected Control to add the right cube")
	}

	v.OnMouseMove(0, 0, common.ModifierShift)
	v.OnButtonDown(common.MouseButtonLeft)
	v.OnMouseMove(399, 599, common.ModifierShift)
	v.OnButtonUp(common.MouseButtonLeft)
	if left.IsSelected() || !right.IsSelected() {
		t.Errorf("marquee failed: expected Shift to remove the left cube")
	}
}

func TestDoubleClickFocuses(t *testing.T) {
	model := scene.NewMemoryModel()
	left := model.AddPiece(cube, mgl64.Translate3D(60, 0, 0))
	_, v := newTestViewport(model)

	moveToWorld(v, left.Translation(), common.ModifierNone)
	v.OnDoubleClick(common.MouseButtonLeft)
	if !left.IsSelected() || !left.IsFocused() {
		t.Errorf("OnDoubleClick failed: expected the cube selected and focused")
	}
}

// modeRecorder records the selection mode of every click the viewport forwards.
type modeRecorder struct {
	scene.MemoryModel
	modes []scene.SelectionMode
}

func (r *modeRecorder) SelectionToolClicked(section scene.ObjectSection, mode scene.SelectionMode) {
	r.modes = append(r.modes, mode)
	r.MemoryModel.SelectionToolClicked(section, mode)
}

func TestDoubleClickAfterPresses(t *testing.T) {
	model := &modeRecorder{MemoryModel: scene.NewMemoryModel()}
	left := model.AddPiece(cube, mgl64.Translate3D(60, 0, 0))
	_, v := newTestViewport(model)

	moveToWorld(v, left.Translation(), common.ModifierNone)
	v.OnButtonDown(common.MouseButtonLeft)
	v.OnButtonUp(common.MouseButtonLeft)
	v.OnButtonDown(common.MouseButtonLeft)
	v.OnDoubleClick(common.MouseButtonLeft)

	if _, dragging := v.Dragging(); dragging {
		t.Errorf("OnDoubleClick failed: expected the second press's session to be cancelled")
	}
	v.OnButtonUp(common.MouseButtonLeft)

	if n := len(model.modes); n == 0 || model.modes[n-1] != scene.SelectionFocus {
		t.Errorf("OnDoubleClick failed: expected a focus click last, got %v", model.modes)
	}
	if !left.IsSelected() || !left.IsFocused() {
		t.Errorf("OnDoubleClick failed: expected the cube selected and focused")
	}
	if got := left.Translation(); got.Sub(mgl64.Vec3{60, 0, 0}).Len() > 1e-9 {
		t.Errorf("OnDoubleClick failed: expected the cube to stay put, got %v", got)
	}
}

func TestDoubleClickKeepsConfirmedDrag(t *testing.T) {
	model := &modeRecorder{MemoryModel: scene.NewMemoryModel()}
	_, v := newTestViewport(model)

	v.OnMouseMove(10, 10, common.ModifierNone)
	v.OnButtonDown(common.MouseButtonLeft)
	v.OnMouseMove(200, 200, common.ModifierNone)
	v.OnDoubleClick(common.MouseButtonLeft)

	if _, dragging := v.Dragging(); !dragging {
		t.Errorf("OnDoubleClick failed: expected the marquee drag to continue")
	}
	for _, mode := range model.modes {
		if mode == scene.SelectionFocus {
			t.Errorf("OnDoubleClick failed: expected no focus click during a drag")
		}
	}
	v.CancelDrag()
}

func TestInsertReturnsToSelect(t *testing.T) {
	model := scene.NewMemoryModel()
	var changed []tracktool.Tool
	_, v := newTestViewport(model,
		WithTool(tracktool.ToolInsert),
		WithInsertPiece(cube),
		WithToolChangeHandler(func(tool tracktool.Tool) { changed = append(changed, tool) }),
	)

	v.OnMouseMove(400, 300, common.ModifierShift)
	v.OnButtonDown(common.MouseButtonLeft)
	v.OnButtonUp(common.MouseButtonLeft)
	if got := len(model.Pieces()); got != 1 {
		t.Fatalf("insert failed: expected 1 piece, got %d", got)
	}
	if v.Tool() != tracktool.ToolInsert || len(changed) != 0 {
		t.Errorf("insert failed: expected Shift to keep the Insert tool")
	}

	v.OnMouseMove(200, 300, common.ModifierNone)
	v.OnButtonDown(common.MouseButtonLeft)
	v.OnButtonUp(common.MouseButtonLeft)
	if got := len(model.Pieces()); got != 2 {
		t.Errorf("insert failed: expected 2 pieces, got %d", got)
	}
	if v.Tool() != tracktool.ToolSelect {
		t.Errorf("insert failed: expected the Select tool afterwards, got %v", v.Tool())
	}
	if len(changed) != 1 || changed[0] != tracktool.ToolSelect {
		t.Errorf("WithToolChangeHandler failed: expected one change to Select, got %v", changed)
	}
}

func TestInsertWithoutPieceDoesNothing(t *testing.T) {
	model := scene.NewMemoryModel()
	_, v := newTestViewport(model, WithTool(tracktool.ToolInsert))

	v.OnMouseMove(400, 300, common.ModifierNone)
	v.OnButtonDown(common.MouseButtonLeft)
	if got := len(model.Pieces()); got != 0 {
		t.Errorf("insert failed: expected no piece, got %d", got)
	}
	if v.Tool() != tracktool.ToolInsert {
		t.Errorf("insert failed: expected the Insert tool to stay, got %v", v.Tool())
	}
}

func TestDragAndDropInserts(t *testing.T) {
	model := scene.NewMemoryModel()
	_, v := newTestViewport(model)

	v.OnMouseMove(400, 300, common.ModifierNone)
	v.BeginDragAndDrop(cube)
	if got := v.TrackTool(); got != tracktool.TrackToolInsert {
		t.Errorf("BeginDragAndDrop failed: expected %v, got %v", tracktool.TrackToolInsert, got)
	}

	v.EndDragAndDrop(false)
	if got := len(model.Pieces()); got != 0 {
		t.Errorf("EndDragAndDrop failed: expected a rejected drop to insert nothing, got %d", got)
	}

	v.BeginDragAndDrop(cube)
	v.EndDragAndDrop(true)
	if got := len(model.Pieces()); got != 1 {
		t.Errorf("EndDragAndDrop failed: expected 1 piece, got %d", got)
	}
	if got := v.TrackTool(); got == tracktool.TrackToolInsert {
		t.Errorf("EndDragAndDrop failed: expected the hover tool restored, got %v", got)
	}
}

func TestContextMenu(t *testing.T) {
	model := scene.NewMemoryModel()
	var calls [][2]float64
	_, v := newTestViewport(model, WithContextMenuHandler(func(x, y float64) {
		calls = append(calls, [2]float64{x, y})
	}))

	v.OnMouseMove(120, 80, common.ModifierNone)
	v.OnButtonDown(common.MouseButtonRight)
	v.OnButtonUp(common.MouseButtonRight)
	if len(calls) != 1 || calls[0] != [2]float64{120, 80} {
		t.Fatalf("OnButtonUp failed: expected one context menu at (120, 80), got %v", calls)
	}

	// Alt+right starts a zoom drag; releasing without moving still opens the menu.
	v.OnMouseMove(120, 80, common.ModifierAlt)
	v.OnButtonDown(common.MouseButtonRight)
	if s, ok := v.Dragging(); !ok || s.Tool != tracktool.TrackToolZoom {
		t.Fatalf("OnButtonDown failed: expected a zoom drag, got %v (dragging=%v)", s.Tool, ok)
	}
	v.OnButtonUp(common.MouseButtonRight)
	if len(calls) != 2 {
		t.Errorf("OnButtonUp failed: expected a second context menu, got %v", calls)
	}

	v.OnButtonDown(common.MouseButtonRight)
	v.OnMouseMove(160, 80, common.ModifierAlt)
	v.OnButtonUp(common.MouseButtonRight)
	if len(calls) != 2 {
		t.Errorf("OnButtonUp failed: expected no menu after a real zoom drag, got %v", calls)
	}
}

func TestMiddleDragPansAndCancels(t *testing.T) {
	model := scene.NewMemoryModel()
	_, v := newTestViewport(model)
	before := v.Camera().State()

	v.OnMouseMove(400, 300, common.ModifierNone)
	v.OnButtonDown(common.MouseButtonMiddle)
	if s, ok := v.Dragging(); !ok || s.Tool != tracktool.TrackToolPan {
		t.Fatalf("OnButtonDown failed: expected a pan drag, got %v (dragging=%v)", s.Tool, ok)
	}
	v.OnMouseMove(450, 300, common.ModifierNone)
	if v.Camera().State().Position == before.Position {
		t.Errorf("OnMouseMove failed: expected the camera to pan")
	}

	v.OnButtonUp(common.MouseButtonLeft)
	if got := v.Camera().State(); got.Position.Sub(before.Position).Len() > 1e-9 {
		t.Errorf("OnButtonUp failed: expected the pan reverted to %v, got %v", before.Position, got.Position)
	}
}

func TestSharedCameraIsCopiedBeforeNavigation(t *testing.T) {
	m := NewManager()
	model := scene.NewMemoryModel()
	shared := frontCamera()
	before := shared.State()

	a := NewViewport(m, model, WithCamera(shared), WithSize(800, 600))
	b := NewViewport(m, model, WithCamera(shared), WithSize(800, 600))

	a.OnWheel(1)
	if a.Camera() == shared {
		t.Fatalf("OnWheel failed: expected a private camera copy")
	}
	if shared.State() != before {
		t.Errorf("OnWheel failed: expected the shared camera untouched")
	}
	if a.Camera().State() == before {
		t.Errorf("OnWheel failed: expected the private copy to zoom")
	}
	if got := m.RefCount(shared); got != 1 {
		t.Errorf("OnWheel failed: expected the shared camera released once, got refcount %d", got)
	}

	b.OnWheel(1)
	if b.Camera() != shared {
		t.Errorf("OnWheel failed: expected an unshared camera to be zoomed in place")
	}
}

func TestNamedCameras(t *testing.T) {
	named := frontCamera(camera.WithName("Main"))
	model := scene.NewMemoryModel(scene.WithCameras(named))
	_, v := newTestViewport(model)

	if err := v.SetCameraByName("Missing"); err == nil {
		t.Errorf("SetCameraByName failed: expected an error for an unknown camera")
	}
	if err := v.SetCameraByName("Main"); err != nil {
		t.Fatalf("SetCameraByName failed: %v", err)
	}
	if v.Camera() != named {
		t.Fatalf("SetCameraByName failed: expected the named camera")
	}

	before := named.State()
	v.SetViewpoint(camera.ViewpointTop)
	if v.Camera() == named || v.Camera().Name() != "" {
		t.Errorf("SetViewpoint failed: expected a private unnamed copy")
	}
	if named.State() != before {
		t.Errorf("SetViewpoint failed: expected the named camera untouched")
	}

	v.SetCamera(named)
	v.SetDefaultCamera()
	if v.Camera() == named {
		t.Errorf("SetDefaultCamera failed: expected a private copy of the named camera")
	}
	if got := v.Camera().State(); got != before {
		t.Errorf("SetDefaultCamera failed: expected the copy to keep the view, got %v", got)
	}
}

func TestSetSizeClamps(t *testing.T) {
	_, v := newTestViewport(scene.NewMemoryModel())
	v.SetSize(0, -5)
	if got := v.Size(); got.Width != 1 || got.Height != 1 {
		t.Errorf("SetSize failed: expected 1x1, got %dx%d", got.Width, got.Height)
	}
	if m := v.ProjectionMatrix(); math.IsNaN(m[0]) {
		t.Errorf("ProjectionMatrix failed: expected a finite matrix for a 1x1 viewport")
	}
}

func TestNewViewportPanicsOnNil(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("NewViewport failed: expected a panic for a nil model")
		}
	}()
	NewViewport(NewManager(), nil)
}
