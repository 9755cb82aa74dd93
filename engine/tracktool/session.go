package tracktool

import (
	"github.com/Carmen-Shannon/oxy-viewport/common"
	"github.com/Carmen-Shannon/oxy-viewport/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewport/engine/projection"
	"github.com/Carmen-Shannon/oxy-viewport/engine/scene"
	"github.com/go-gl/mathgl/mgl64"
)

// Anchor records the piece grabbed for a free move and where it was when the drag started.
type Anchor struct {
	Object      scene.Object
	Translation mgl64.Vec3
}

// DragSession is everything captured when a drag starts. It is a value: the only state that
// changes during a drag, whether the pointer has moved, is advanced by Confirm returning a
// new session. Projector is the camera's projection at mouse-down; camera drags measure
// against it while the camera itself moves.
type DragSession struct {
	Tool         TrackTool
	Button       common.MouseButton
	Modifiers    common.Modifier
	DownX        float64
	DownY        float64
	Camera       camera.Camera
	Projector    projection.Projector
	Pivot        scene.Pivot
	HasPivot     bool
	OverlayScale float64
	Anchor       *Anchor
	FromOverlay  bool

	confirmed bool
}

// Confirmed reports whether the pointer moved after the button went down, which turns a
// click into a drag.
func (s DragSession) Confirmed() bool {
	return s.confirmed
}

// Confirm returns a copy of the session marked as a drag.
func (s DragSession) Confirm() DragSession {
	s.confirmed = true
	return s
}

// AlternateButton reports whether the drag was started with a button other than the left one.
func (s DragSession) AlternateButton() bool {
	return s.Button != common.MouseButtonLeft
}
