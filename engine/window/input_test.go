package window

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-viewport/common"
	"github.com/Carmen-Shannon/oxy-viewport/engine/tracktool"
	"github.com/Carmen-Shannon/oxy-viewport/engine/viewport"
)

// recordingViewport logs the calls the router makes. Methods the router never calls are
// left to the nil embedded interface.
type recordingViewport struct {
	viewport.Viewport
	size     common.Rect
	dragging bool
	calls    []string
}

func (v *recordingViewport) Size() common.Rect { return v.size }

func (v *recordingViewport) SetSize(width, height int) {
	v.size = common.Rect{Width: width, Height: height}
	v.calls = append(v.calls, fmt.Sprintf("size %dx%d", width, height))
}

func (v *recordingViewport) OnMouseMove(x, y float64, modifiers common.Modifier) {
	v.calls = append(v.calls, fmt.Sprintf("move %.0f,%.0f %v", x, y, modifiers))
}

func (v *recordingViewport) OnButtonDown(button common.MouseButton) {
	v.calls = append(v.calls, fmt.Sprintf("down %v", button))
}

func (v *recordingViewport) OnButtonUp(button common.MouseButton) {
	v.calls = append(v.calls, fmt.Sprintf("up %v", button))
}

func (v *recordingViewport) OnDoubleClick(button common.MouseButton) {
	v.calls = append(v.calls, fmt.Sprintf("double %v", button))
}

func (v *recordingViewport) OnWheel(notches float64) {
	v.calls = append(v.calls, fmt.Sprintf("wheel %v", notches))
}

func (v *recordingViewport) Dragging() (tracktool.DragSession, bool) {
	return tracktool.DragSession{}, v.dragging
}

func (v *recordingViewport) CancelDrag() {
	v.dragging = false
	v.calls = append(v.calls, "cancel")
}

func (v *recordingViewport) Cursor() viewport.CursorShape { return viewport.CursorSelect }

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newRouter() (*InputRouter, *recordingViewport, *fakeClock, *[]viewport.CursorShape) {
	v := &recordingViewport{size: common.Rect{Width: 800, Height: 600}}
	clock := &fakeClock{t: time.Unix(1000, 0)}
	var cursors []viewport.CursorShape
	r := NewInputRouter(v, WithClock(clock.now), WithCursorHandler(func(s viewport.CursorShape) {
		cursors = append(cursors, s)
	}))
	return r, v, clock, &cursors
}

func TestRouterFlipsY(t *testing.T) {
	r, v, _, cursors := newRouter()
	r.MouseMove(10, 0, common.ModifierNone)
	r.MouseMove(10, 599, common.ModifierShift)

	expected := []string{"move 10,599 None", "move 10,0 Shift"}
	if !reflect.DeepEqual(v.calls, expected) {
		t.Errorf("MouseMove failed: expected %v, got %v", expected, v.calls)
	}
	if len(*cursors) != 2 {
		t.Errorf("MouseMove failed: expected a cursor update per move, got %d", len(*cursors))
	}
}

func TestRouterButtonAppliesPosition(t *testing.T) {
	r, v, _, _ := newRouter()
	r.MouseMove(10, 10, common.ModifierNone)
	r.MouseButton(common.MouseButtonLeft, true, 10, 10, common.ModifierNone)
	r.MouseButton(common.MouseButtonLeft, false, 30, 10, common.ModifierNone)

	expected := []string{"move 10,589 None", "down Left", "move 30,589 None", "up Left"}
	if !reflect.DeepEqual(v.calls, expected) {
		t.Errorf("MouseButton failed: expected %v, got %v", expected, v.calls)
	}
}

func TestRouterDoubleClick(t *testing.T) {
	r, v, clock, _ := newRouter()
	click := func() {
		r.MouseButton(common.MouseButtonLeft, true, 100, 100, common.ModifierNone)
		r.MouseButton(common.MouseButtonLeft, false, 100, 100, common.ModifierNone)
	}

	click()
	clock.t = clock.t.Add(200 * time.Millisecond)
	click()
	expected := []string{"move 100,499 None", "down Left", "up Left", "down Left", "double Left", "up Left"}
	if !reflect.DeepEqual(v.calls, expected) {
		t.Fatalf("MouseButton failed: expected %v, got %v", expected, v.calls)
	}

	// A third click starts a new pair rather than completing another double click.
	v.calls = nil
	clock.t = clock.t.Add(100 * time.Millisecond)
	click()
	if !reflect.DeepEqual(v.calls, []string{"down Left", "up Left"}) {
		t.Errorf("MouseButton failed: expected a single click, got %v", v.calls)
	}

	v.calls = nil
	clock.t = clock.t.Add(DoubleClickInterval + time.Millisecond)
	click()
	if !reflect.DeepEqual(v.calls, []string{"down Left", "up Left"}) {
		t.Errorf("MouseButton failed: expected a slow second click to stay single, got %v", v.calls)
	}
}

func TestRouterDoubleClickNeedsStillPointer(t *testing.T) {
	r, v, clock, _ := newRouter()
	r.MouseButton(common.MouseButtonLeft, true, 100, 100, common.ModifierNone)
	r.MouseButton(common.MouseButtonLeft, false, 100, 100, common.ModifierNone)
	clock.t = clock.t.Add(100 * time.Millisecond)
	r.MouseButton(common.MouseButtonLeft, true, 120, 100, common.ModifierNone)

	for _, c := range v.calls {
		if c == "double Left" {
			t.Errorf("MouseButton failed: expected no double click after the pointer moved, got %v", v.calls)
		}
	}
}

func TestRouterKeys(t *testing.T) {
	r, v, _, _ := newRouter()
	r.MouseMove(5, 5, common.ModifierNone)

	r.KeyDown(1000, common.ModifierControl)
	r.KeyDown(1000, common.ModifierControl)
	r.KeyUp(1000, common.ModifierNone)
	expected := []string{"move 5,594 None", "move 5,594 Control", "move 5,594 None"}
	if !reflect.DeepEqual(v.calls, expected) {
		t.Errorf("KeyDown failed: expected modifier changes re-sent as moves %v, got %v", expected, v.calls)
	}

	v.calls = nil
	r.KeyDown(KeyEscape, common.ModifierNone)
	if len(v.calls) != 0 {
		t.Errorf("KeyDown failed: expected Escape outside a drag to do nothing, got %v", v.calls)
	}
	v.dragging = true
	r.KeyDown(KeyEscape, common.ModifierNone)
	if !reflect.DeepEqual(v.calls, []string{"cancel"}) {
		t.Errorf("KeyDown failed: expected Escape to cancel the drag, got %v", v.calls)
	}
}

func TestRouterScrollAndResize(t *testing.T) {
	r, v, _, _ := newRouter()
	r.Scroll(0)
	r.Scroll(-2)
	r.Resize(1024, 768)
	r.MouseMove(0, 0, common.ModifierNone)

	expected := []string{"wheel -2", "size 1024x768", "move 0,767 None"}
	if !reflect.DeepEqual(v.calls, expected) {
		t.Errorf("Scroll/Resize failed: expected %v, got %v", expected, v.calls)
	}
}

func TestNewInputRouterPanicsOnNil(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("NewInputRouter failed: expected a panic for a nil viewport")
		}
	}()
	NewInputRouter(nil)
}
