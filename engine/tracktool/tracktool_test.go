package tracktool

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-viewport/common"
	"github.com/Carmen-Shannon/oxy-viewport/engine/scene"
)

func TestIsTrackToolAllowed(t *testing.T) {
	cases := []struct {
		tool     TrackTool
		mask     scene.TransformMask
		expected bool
	}{
		{TrackToolMoveX, scene.TransformMoveX, true},
		{TrackToolMoveXY, scene.TransformMoveX, false},
		{TrackToolMoveXYZ, scene.TransformMoveAll, true},
		{TrackToolRotateZ, scene.TransformMoveAll, false},
		{TrackToolScalePlus, scene.TransformScaleY, true},
		{TrackToolScaleMinus, scene.TransformMoveAll, false},
		{TrackToolRotateStep, scene.TransformRotateX, false},
		{TrackToolSelect, 0, true},
		{TrackToolPan, 0, true},
	}
	for _, c := range cases {
		if got := IsTrackToolAllowed(c.tool, c.mask); got != c.expected {
			t.Errorf("IsTrackToolAllowed(%v, %b) failed: expected %v, got %v", c.tool, c.mask, c.expected, got)
		}
	}
}

func TestParseTool(t *testing.T) {
	tool, err := ParseTool("rotateview")
	if err != nil || tool != ToolRotateView {
		t.Errorf("ParseTool failed: expected %v, got %v (%v)", ToolRotateView, tool, err)
	}
	if _, err := ParseTool("lasso"); err == nil {
		t.Errorf("ParseTool failed: expected an error for an unknown tool")
	}
}

func TestTrackToolGroups(t *testing.T) {
	if !TrackToolMoveXZ.IsMove() || TrackToolRotateX.IsMove() {
		t.Errorf("IsMove failed")
	}
	if !TrackToolRotateStep.IsRotate() {
		t.Errorf("IsRotate failed: expected RotateStep to be a rotation")
	}
	if !TrackToolOrbitXY.IsNavigation() || TrackToolInsert.IsNavigation() {
		t.Errorf("IsNavigation failed")
	}
	if TrackTool(99).String() != "TrackTool(99)" {
		t.Errorf("String failed: got %q", TrackTool(99).String())
	}
}

func TestBindingsOverride(t *testing.T) {
	b := DefaultBindings()
	if b.Len() != 4 {
		t.Fatalf("DefaultBindings failed: expected 4 bindings, got %d", b.Len())
	}

	got, ok := b.Override(Resolution{Tool: TrackToolSelect}, common.MouseButtonMiddle, common.ModifierNone)
	if !ok || got != TrackToolPan {
		t.Errorf("Override failed: expected %v, got %v (%v)", TrackToolPan, got, ok)
	}

	got, ok = b.Override(Resolution{Tool: TrackToolSelect}, common.MouseButtonLeft, common.ModifierAlt)
	if !ok || got != TrackToolOrbitXY {
		t.Errorf("Override failed: expected %v, got %v (%v)", TrackToolOrbitXY, got, ok)
	}

	if _, ok := b.Override(Resolution{Tool: TrackToolMoveX, FromOverlay: true}, common.MouseButtonMiddle, common.ModifierNone); ok {
		t.Errorf("Override failed: expected gizmo hits to win over bindings")
	}
	if _, ok := b.Override(Resolution{Tool: TrackToolSelect}, common.MouseButtonLeft, common.ModifierNone); ok {
		t.Errorf("Override failed: expected no binding for a plain left drag")
	}

	custom := NewBindings(
		Binding{Button: common.MouseButtonRight, Tool: ToolZoom},
		Binding{Button: common.MouseButtonRight, Tool: ToolPan},
	)
	if tool, _ := custom.Lookup(common.MouseButtonRight, common.ModifierNone); tool != ToolPan || custom.Len() != 1 {
		t.Errorf("NewBindings failed: expected the later binding to win, got %v", tool)
	}
}

func TestDragSessionConfirm(t *testing.T) {
	s := DragSession{Tool: TrackToolPan, Button: common.MouseButtonMiddle}
	c := s.Confirm()
	if s.Confirmed() || !c.Confirmed() {
		t.Errorf("Confirm failed: expected a confirmed copy")
	}
	if !c.AlternateButton() {
		t.Errorf("AlternateButton failed: expected true for the middle button")
	}
}
