package window

import (
	"math"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-viewport/common"
	"github.com/Carmen-Shannon/oxy-viewport/engine/viewport"
)

const (
	// DoubleClickInterval is the longest gap between two presses of one button that still
	// counts as a double click.
	DoubleClickInterval = 500 * time.Millisecond
	// DoubleClickDistance is how far, in pixels, the pointer may travel between the presses.
	DoubleClickDistance = 4.0
)

type press struct {
	at   time.Time
	x, y float64
}

// InputRouter forwards window events to a viewport. It flips pointer coordinates to the
// viewport's bottom-left origin, tracks modifiers between pointer events, synthesizes
// double clicks and keeps the window cursor in step with the viewport's track tool.
type InputRouter struct {
	mu *sync.Mutex

	view      viewport.Viewport
	height    int
	x, y      float64
	modifiers common.Modifier
	last      map[common.MouseButton]press

	now       func() time.Time
	setCursor func(shape viewport.CursorShape)
}

// NewInputRouter creates an InputRouter feeding view.
//
// Parameters:
//   - view: the viewport receiving the events, must not be nil
//   - options: functional options to configure the router
//
// Returns:
//   - *InputRouter: the router
func NewInputRouter(view viewport.Viewport, options ...InputRouterOption) *InputRouter {
	if view == nil {
		panic("window: NewInputRouter requires a viewport")
	}
	r := &InputRouter{
		mu:     &sync.Mutex{},
		view:   view,
		height: view.Size().Height,
		last:   make(map[common.MouseButton]press),
		now:    time.Now,
	}
	for _, option := range options {
		option(r)
	}
	return r
}

// Bind connects every input callback of w to a new router feeding view and sizes view to
// the window.
//
// Parameters:
//   - w: the window
//   - view: the viewport
//
// Returns:
//   - *InputRouter: the router
func Bind(w Window, view viewport.Viewport) *InputRouter {
	view.SetSize(w.Width(), w.Height())
	r := NewInputRouter(view, WithCursorHandler(w.SetCursor))

	w.SetMouseMoveCallback(r.MouseMove)
	w.SetMouseButtonCallback(r.MouseButton)
	w.SetScrollCallback(r.Scroll)
	w.SetResizeCallback(r.Resize)
	w.SetKeyDownCallback(r.KeyDown)
	w.SetKeyUpCallback(r.KeyUp)
	return r
}

// MouseMove handles a pointer move at (x, y) in top-left window pixels.
func (r *InputRouter) MouseMove(x, y float64, modifiers common.Modifier) {
	r.mu.Lock()
	r.x, r.y = x, r.flip(y)
	r.modifiers = modifiers
	vx, vy := r.x, r.y
	r.mu.Unlock()

	r.view.OnMouseMove(vx, vy, modifiers)
	r.syncCursor()
}

// MouseButton handles a press or release. The pointer position is applied first so the
// viewport acts at the click location even without a preceding move.
func (r *InputRouter) MouseButton(button common.MouseButton, pressed bool, x, y float64, modifiers common.Modifier) {
	r.mu.Lock()
	moved := r.x != x || r.y != r.flip(y) || r.modifiers != modifiers
	r.mu.Unlock()
	if moved {
		r.MouseMove(x, y, modifiers)
	}

	if !pressed {
		r.view.OnButtonUp(button)
		r.syncCursor()
		return
	}

	r.view.OnButtonDown(button)
	if r.doubleClicked(button) {
		r.view.OnDoubleClick(button)
	}
	r.syncCursor()
}

// Scroll handles wheel notches.
func (r *InputRouter) Scroll(notches float64) {
	if notches == 0 {
		return
	}
	r.view.OnWheel(notches)
}

// Resize resizes the viewport to the new framebuffer size.
func (r *InputRouter) Resize(width, height int) {
	r.mu.Lock()
	r.height = max(height, 1)
	r.mu.Unlock()
	r.view.SetSize(width, height)
}

// KeyDown cancels a drag on Escape and re-resolves the track tool when a modifier changes.
func (r *InputRouter) KeyDown(keyCode uint32, modifiers common.Modifier) {
	if keyCode == KeyEscape {
		if _, dragging := r.view.Dragging(); dragging {
			r.view.CancelDrag()
			r.syncCursor()
		}
		return
	}
	r.modifiersChanged(modifiers)
}

// KeyUp re-resolves the track tool when a modifier is released.
func (r *InputRouter) KeyUp(keyCode uint32, modifiers common.Modifier) {
	r.modifiersChanged(modifiers)
}

func (r *InputRouter) modifiersChanged(modifiers common.Modifier) {
	r.mu.Lock()
	if r.modifiers == modifiers {
		r.mu.Unlock()
		return
	}
	r.modifiers = modifiers
	x, y := r.x, r.y
	r.mu.Unlock()

	r.view.OnMouseMove(x, y, modifiers)
	r.syncCursor()
}

// doubleClicked records a press and reports whether it completes a double click.
func (r *InputRouter) doubleClicked(button common.MouseButton) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	prev, ok := r.last[button]
	if ok && now.Sub(prev.at) <= DoubleClickInterval &&
		math.Hypot(r.x-prev.x, r.y-prev.y) <= DoubleClickDistance {
		delete(r.last, button)
		return true
	}
	r.last[button] = press{at: now, x: r.x, y: r.y}
	return false
}

// flip converts a top-left window row into a bottom-left viewport row.
// Caller must hold the mutex.
func (r *InputRouter) flip(y float64) float64 {
	return float64(r.height) - 1 - y
}

func (r *InputRouter) syncCursor() {
	if r.setCursor != nil {
		r.setCursor(r.view.Cursor())
	}
}
