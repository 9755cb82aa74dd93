// Package viewport is the interaction controller of one 3D view. It turns pointer and wheel
// events into track tool hover feedback, drag sessions, model edits and camera moves.
package viewport

import (
	"fmt"
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-viewport/common"
	"github.com/Carmen-Shannon/oxy-viewport/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewport/engine/navigator"
	"github.com/Carmen-Shannon/oxy-viewport/engine/overlay"
	"github.com/Carmen-Shannon/oxy-viewport/engine/picker"
	"github.com/Carmen-Shannon/oxy-viewport/engine/projection"
	"github.com/Carmen-Shannon/oxy-viewport/engine/scene"
	"github.com/Carmen-Shannon/oxy-viewport/engine/tracktool"
	"github.com/Carmen-Shannon/oxy-viewport/engine/transform"
	"github.com/go-gl/mathgl/mgl64"
)

// PointerState is the last known pointer position, in viewport pixels with a bottom-left
// origin, and where the current button went down.
type PointerState struct {
	X, Y         float64
	DownX, DownY float64
	Modifiers    common.Modifier
	Button       common.MouseButton
}

// Viewport is the interaction controller of one view onto the active model.
type Viewport interface {
	// SetTool selects the high-level tool. A drag in progress is cancelled.
	//
	// Parameters:
	//   - tool: the tool
	SetTool(tool tracktool.Tool)

	// Tool returns the high-level tool.
	//
	// Returns:
	//   - tracktool.Tool: the tool
	Tool() tracktool.Tool

	// SetInsertPiece sets the piece the Insert tool places.
	//
	// Parameters:
	//   - info: the piece
	SetInsertPiece(info scene.PieceInfo)

	// SetMouseSensitivity changes the 1-20 sensitivity setting used by drags.
	//
	// Parameters:
	//   - setting: the user setting, clamped to [1, 20]
	SetMouseSensitivity(setting int)

	// SetBindings replaces the mouse shortcuts.
	//
	// Parameters:
	//   - bindings: the mouse shortcuts
	SetBindings(bindings tracktool.Bindings)

	// SetSize sets the viewport size in pixels. Sizes below 1 are clamped to 1.
	//
	// Parameters:
	//   - width, height: the size in pixels
	SetSize(width, height int)

	// Size returns the viewport rectangle.
	//
	// Returns:
	//   - common.Rect: the rectangle
	Size() common.Rect

	// OnMouseMove handles a pointer move. Outside a drag the track tool under the pointer is
	// resolved again; inside a drag the drag is updated.
	//
	// Parameters:
	//   - x, y: pointer position in viewport pixels, bottom-left origin
	//   - modifiers: the held modifiers
	OnMouseMove(x, y float64, modifiers common.Modifier)

	// OnButtonDown handles a button press at the last pointer position. A press during a
	// drag cancels that drag and does nothing else.
	//
	// Parameters:
	//   - button: the pressed button
	OnButtonDown(button common.MouseButton)

	// OnButtonUp handles a button release. Releasing the drag's button commits it; releasing
	// any other button cancels it.
	//
	// Parameters:
	//   - button: the released button
	OnButtonUp(button common.MouseButton)

	// OnWheel zooms by wheel notches.
	//
	// Parameters:
	//   - notches: wheel notches, positive toward the scene
	OnWheel(notches float64)

	// OnDoubleClick focuses the object under the pointer when the Select tool is active.
	// A session the second press started is cancelled first unless the pointer has moved.
	//
	// Parameters:
	//   - button: the double-clicked button
	OnDoubleClick(button common.MouseButton)

	// CancelDrag ends a drag in progress and reverts its edits.
	CancelDrag()

	// Dragging reports whether a drag session is active.
	//
	// Returns:
	//   - tracktool.DragSession: the session
	//   - bool: false when no drag is active
	Dragging() (tracktool.DragSession, bool)

	// SetViewpoint moves the camera to a preset. Named or shared cameras are first replaced
	// by a private copy.
	//
	// Parameters:
	//   - viewpoint: the preset
	SetViewpoint(viewpoint camera.Viewpoint)

	// LookAt aims the camera at the focus or selection center.
	LookAt()

	// ZoomExtents frames the whole model.
	ZoomExtents()

	// SetCamera points the viewport at cam, which may be shared with other viewports.
	//
	// Parameters:
	//   - cam: the camera, ignored when nil
	SetCamera(cam camera.Camera)

	// SetCameraByName points the viewport at one of the model's named cameras.
	//
	// Parameters:
	//   - name: the camera name
	//
	// Returns:
	//   - error: an error if the model has no camera with that name
	SetCameraByName(name string) error

	// SetDefaultCamera replaces a named camera with a private copy of it.
	SetDefaultCamera()

	// Camera returns the current camera.
	//
	// Returns:
	//   - camera.Camera: the camera
	Camera() camera.Camera

	// TrackTool returns the active track tool: the drag's tool while dragging, otherwise the
	// hover resolution.
	//
	// Returns:
	//   - tracktool.TrackTool: the track tool
	TrackTool() tracktool.TrackTool

	// Cursor returns the cursor shape for the active track tool.
	//
	// Returns:
	//   - CursorShape: the cursor
	Cursor() CursorShape

	// Pointer returns the pointer state.
	//
	// Returns:
	//   - PointerState: the pointer state
	Pointer() PointerState

	// BeginDragAndDrop starts dragging a piece in from outside the view. The track tool is
	// Insert until EndDragAndDrop.
	//
	// Parameters:
	//   - info: the piece being dragged
	BeginDragAndDrop(info scene.PieceInfo)

	// EndDragAndDrop finishes a drag-and-drop. With accept the piece is inserted at the
	// pointer.
	//
	// Parameters:
	//   - accept: insert the piece when true
	EndDragAndDrop(accept bool)

	// ProjectionMatrix returns the camera's projection for the viewport size.
	//
	// Returns:
	//   - mgl64.Mat4: the projection matrix
	ProjectionMatrix() mgl64.Mat4

	// Projector returns a projector for the current camera and size.
	//
	// Returns:
	//   - projection.Projector: the projector
	Projector() projection.Projector

	// Overlay returns the pivot and scale the transform gizmo is drawn with.
	//
	// Returns:
	//   - scene.Pivot: the pivot
	//   - float64: the overlay scale
	//   - bool: false when no gizmo is shown
	Overlay() (scene.Pivot, float64, bool)

	// Close unregisters the viewport and releases its camera.
	Close()
}

type viewportImpl struct {
	mu *sync.Mutex

	manager   Manager
	model     scene.ActiveModel
	resolver  *tracktool.Resolver
	bindings  tracktool.Bindings
	updater   transform.Updater
	navigator navigator.Navigator
	picker    *picker.Picker

	cam     camera.Camera
	size    common.Rect
	tool    tracktool.Tool
	current tracktool.Resolution
	session *tracktool.DragSession
	pointer PointerState

	insertInfo    scene.PieceInfo
	dragInfo      *scene.PieceInfo
	sensitivity   int
	wheelStep     float64
	wheelStepFast float64
	contextButton bool
	debug         bool

	onToolChange  func(tool tracktool.Tool)
	onContextMenu func(x, y float64)
	onRedraw      func()
}

var _ Viewport = &viewportImpl{}

// NewViewport creates a Viewport editing model and registers it with manager.
//
// Parameters:
//   - manager: the manager shared by the document's viewports, must not be nil
//   - model: the active model, must not be nil
//   - options: functional options to configure the viewport
//
// Returns:
//   - Viewport: the viewport
func NewViewport(manager Manager, model scene.ActiveModel, options ...ViewportBuilderOption) Viewport {
	if manager == nil {
		panic("viewport: NewViewport requires a manager")
	}
	if model == nil {
		panic("viewport: NewViewport requires a model")
	}

	v := &viewportImpl{
		mu:          &sync.Mutex{},
		manager:     manager,
		model:       model,
		bindings:    tracktool.DefaultBindings(),
		size:        common.Rect{Width: 1, Height: 1},
		tool:        tracktool.ToolSelect,
		current:     tracktool.Resolution{Tool: tracktool.TrackToolSelect},
		sensitivity: transform.DefaultMouseSensitivity,
	}

	for _, option := range options {
		option(v)
	}

	if v.cam == nil {
		v.cam = camera.NewCamera()
	}
	manager.Retain(v.cam)

	v.resolver = tracktool.NewResolver(tracktool.WithLayout(manager.Layout()))
	v.updater = transform.NewUpdater(model, transform.WithMouseSensitivity(v.sensitivity), transform.WithDebugLogging(v.debug))
	v.navigator = navigator.NewNavigator(model,
		navigator.WithMouseSensitivity(v.sensitivity),
		navigator.WithWheelSteps(v.wheelStep, v.wheelStepFast),
	)
	v.picker = picker.New(model)

	manager.Register(v)
	return v
}

// notifications are callbacks collected under the lock and run after it is released, so
// handlers may call back into the viewport.
type notifications []func()

func (n notifications) run() {
	for _, fn := range n {
		fn()
	}
}

func (v *viewportImpl) SetTool(tool tracktool.Tool) {
	v.mu.Lock()
	var after notifications
	if v.session != nil {
		after = append(after, v.stopTracking(false)...)
	}
	v.tool = tool
	v.updateTrackTool()
	after = append(after, v.redraw()...)
	v.mu.Unlock()
	after.run()
}

func (v *viewportImpl) Tool() tracktool.Tool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.tool
}

func (v *viewportImpl) SetInsertPiece(info scene.PieceInfo) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.insertInfo = info
}

func (v *viewportImpl) SetMouseSensitivity(setting int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sensitivity = setting
	v.updater.SetMouseSensitivity(setting)
	v.navigator.SetMouseSensitivity(setting)
}

func (v *viewportImpl) SetBindings(bindings tracktool.Bindings) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.bindings = bindings
}

func (v *viewportImpl) SetSize(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.size.Width = max(width, 1)
	v.size.Height = max(height, 1)
}

func (v *viewportImpl) Size() common.Rect {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.size
}

func (v *viewportImpl) OnMouseMove(x, y float64, modifiers common.Modifier) {
	v.mu.Lock()
	v.pointer.X, v.pointer.Y = x, y
	v.pointer.Modifiers = modifiers

	var after notifications
	if v.session == nil {
		v.updateTrackTool()
	} else {
		after = v.updateTracking()
	}
	v.mu.Unlock()
	after.run()
}

func (v *viewportImpl) OnButtonDown(button common.MouseButton) {
	v.mu.Lock()
	v.manager.SetFocus(v)

	var after notifications
	if v.session != nil {
		after = v.stopTracking(false)
	} else {
		v.pointer.Button = button
		v.pointer.DownX, v.pointer.DownY = v.pointer.X, v.pointer.Y
		after = v.buttonDown(button)
	}
	v.mu.Unlock()
	after.run()
}

func (v *viewportImpl) OnButtonUp(button common.MouseButton) {
	v.mu.Lock()
	var after notifications

	switch {
	case v.session != nil:
		s := *v.session
		after = v.stopTracking(button == s.Button)
		if button == common.MouseButtonRight && s.Button == common.MouseButtonRight && !s.Confirmed() {
			after = append(after, v.contextMenu()...)
		}
	case button == common.MouseButtonRight && v.contextButton:
		after = v.contextMenu()
	}
	v.contextButton = false
	v.pointer.Button = common.MouseButtonNone
	v.mu.Unlock()
	after.run()
}

func (v *viewportImpl) OnWheel(notches float64) {
	v.mu.Lock()
	v.ensureUnsharedCamera()
	v.navigator.Wheel(v.cam, notches, v.pointer.Modifiers)
	after := v.redraw()
	v.mu.Unlock()
	after.run()
}

func (v *viewportImpl) OnDoubleClick(button common.MouseButton) {
	v.mu.Lock()
	var after notifications
	// The second press of the pair has already started a session; drop it unless it became a drag.
	if button == common.MouseButtonLeft && v.session != nil && !v.session.Confirmed() {
		after = v.stopTracking(false)
	}
	if button == common.MouseButtonLeft && v.tool == tracktool.ToolSelect && v.session == nil {
		hit, err := v.picker.PickPointer(v.projector(), v.pointer.X, v.pointer.Y, false)
		if err == nil {
			v.model.SelectionToolClicked(hit, scene.SelectionFocus)
			after = append(after, v.redraw()...)
		}
	}
	v.mu.Unlock()
	after.run()
}

func (v *viewportImpl) CancelDrag() {
	v.mu.Lock()
	var after notifications
	if v.session != nil {
		after = v.stopTracking(false)
	}
	v.mu.Unlock()
	after.run()
}

func (v *viewportImpl) Dragging() (tracktool.DragSession, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.session == nil {
		return tracktool.DragSession{}, false
	}
	return *v.session, true
}

func (v *viewportImpl) SetViewpoint(viewpoint camera.Viewpoint) {
	v.mu.Lock()
	v.ensurePrivateCamera()
	v.navigator.SetViewpoint(v.cam, viewpoint)
	after := v.redraw()
	v.mu.Unlock()
	after.run()
}

func (v *viewportImpl) LookAt() {
	v.mu.Lock()
	v.ensureUnsharedCamera()
	v.navigator.LookAt(v.cam)
	after := v.redraw()
	v.mu.Unlock()
	after.run()
}

func (v *viewportImpl) ZoomExtents() {
	v.mu.Lock()
	v.ensureUnsharedCamera()
	v.navigator.ZoomExtents(v.cam, v.size.Aspect())
	after := v.redraw()
	v.mu.Unlock()
	after.run()
}

func (v *viewportImpl) SetCamera(cam camera.Camera) {
	if cam == nil {
		return
	}
	v.mu.Lock()
	v.setCamera(cam)
	after := v.redraw()
	v.mu.Unlock()
	after.run()
}

func (v *viewportImpl) SetCameraByName(name string) error {
	cam, ok := v.model.Camera(name)
	if !ok {
		return fmt.Errorf("viewport: unknown camera %q", name)
	}
	v.SetCamera(cam)
	return nil
}

func (v *viewportImpl) SetDefaultCamera() {
	v.mu.Lock()
	v.ensurePrivateCamera()
	v.mu.Unlock()
}

func (v *viewportImpl) Camera() camera.Camera {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cam
}

func (v *viewportImpl) TrackTool() tracktool.TrackTool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.trackTool()
}

func (v *viewportImpl) Cursor() CursorShape {
	v.mu.Lock()
	defer v.mu.Unlock()
	return CursorForTrackTool(v.trackTool(), v.pointer.Modifiers)
}

func (v *viewportImpl) Pointer() PointerState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pointer
}

func (v *viewportImpl) BeginDragAndDrop(info scene.PieceInfo) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.dragInfo = &info
	v.updateTrackTool()
}

func (v *viewportImpl) EndDragAndDrop(accept bool) {
	v.mu.Lock()
	var after notifications
	if v.dragInfo != nil {
		info := *v.dragInfo
		v.dragInfo = nil
		if accept {
			v.insertPiece(info)
			after = v.redraw()
		}
		v.updateTrackTool()
	}
	v.mu.Unlock()
	after.run()
}

func (v *viewportImpl) ProjectionMatrix() mgl64.Mat4 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return camera.ProjectionMatrix(v.cam, v.size.Width, v.size.Height)
}

func (v *viewportImpl) Projector() projection.Projector {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.projector()
}

func (v *viewportImpl) Overlay() (scene.Pivot, float64, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.session != nil && v.session.HasPivot {
		return v.session.Pivot, v.session.OverlayScale, true
	}
	pivot, ok := v.model.Pivot()
	if !ok {
		return scene.Pivot{}, 0, false
	}
	return pivot, overlay.Scale(v.projector(), pivot.Center), true
}

func (v *viewportImpl) Close() {
	v.mu.Lock()
	if v.session != nil {
		v.stopTracking(false)
	}
	v.manager.Release(v.cam)
	v.mu.Unlock()
	v.manager.Unregister(v)
}

// --- camera substitution ---
// Callers must hold the mutex.

func (v *viewportImpl) setCamera(cam camera.Camera) {
	if cam == v.cam {
		return
	}
	v.manager.Release(v.cam)
	v.manager.Retain(cam)
	v.cam = cam
	v.updateTrackTool()
}

// ensureUnsharedCamera swaps in a private copy when another viewport shows the same camera.
func (v *viewportImpl) ensureUnsharedCamera() {
	if v.manager.RefCount(v.cam) > 1 {
		v.substituteCamera()
	}
}

// ensurePrivateCamera swaps in a private copy of a named or shared camera.
func (v *viewportImpl) ensurePrivateCamera() {
	if v.cam.Name() != "" || v.manager.RefCount(v.cam) > 1 {
		v.substituteCamera()
	}
}

func (v *viewportImpl) substituteCamera() {
	old := v.cam
	v.setCamera(old.Clone())
	if v.debug {
		log.Printf("[Viewport] replaced camera %q with a private copy", old.Name())
	}
}

func (v *viewportImpl) projector() projection.Projector {
	return projection.New(v.cam, v.size)
}

func (v *viewportImpl) trackTool() tracktool.TrackTool {
	if v.session != nil {
		return v.session.Tool
	}
	return v.current.Tool
}

func (v *viewportImpl) redraw() notifications {
	if v.onRedraw == nil {
		return nil
	}
	return notifications{v.onRedraw}
}

func (v *viewportImpl) contextMenu() notifications {
	if v.onContextMenu == nil {
		return nil
	}
	x, y := v.pointer.X, v.pointer.Y
	return notifications{func() { v.onContextMenu(x, y) }}
}
