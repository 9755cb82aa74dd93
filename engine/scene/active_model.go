package scene

import (
	"github.com/Carmen-Shannon/oxy-viewport/common"
	"github.com/Carmen-Shannon/oxy-viewport/engine/camera"
	"github.com/go-gl/mathgl/mgl64"
)

// ActiveModel is the document a viewport edits. The viewport never owns geometry or
// selection state: it picks through RayTest and FrustumTest, reads the pivot, and reports
// every edit back through the Update* and *Clicked calls below.
type ActiveModel interface {
	// RayTest returns the nearest object hit by ray.
	//
	// Parameters:
	//   - ray: the world-space pointer ray
	//   - ignoreSelected: skip selected objects
	//
	// Returns:
	//   - ObjectSection: the hit, with a nil Object when nothing was hit
	RayTest(ray common.Ray, ignoreSelected bool) ObjectSection

	// FrustumTest returns every object inside or touching the frustum.
	//
	// Parameters:
	//   - f: the picking frustum
	//
	// Returns:
	//   - []Object: the contained objects
	FrustumTest(f common.Frustum) []Object

	// Pivot returns the selection pivot in world space, composed with the transform of the
	// sub-assembly being edited.
	//
	// Returns:
	//   - Pivot: the pivot
	//   - bool: false when nothing is selected
	Pivot() (Pivot, bool)

	// AnyPiecesSelected reports whether at least one piece is selected.
	AnyPiecesSelected() bool

	// AnyObjectsSelected reports whether any object of any kind is selected.
	AnyObjectsSelected() bool

	// AllowedTransforms returns the transforms the focused object accepts.
	AllowedTransforms() TransformMask

	// RelativeTransform reports whether moves and placements use the focused object's
	// local frame rather than world axes.
	RelativeTransform() bool

	// BeginMouseTool opens an edit transaction for a drag.
	//
	// Parameters:
	//   - tool: the kind of edit
	BeginMouseTool(tool MouseTool)

	// EndMouseTool closes the transaction opened by BeginMouseTool or by one of the
	// Begin*Tool placement calls. With accept=false every edit made since is reverted.
	//
	// Parameters:
	//   - tool: the kind of edit
	//   - accept: commit when true, revert when false
	EndMouseTool(tool MouseTool, accept bool)

	// UpdateMoveTool moves the selection by distance, expressed in pivot-local axes, from
	// where it was when the transaction began.
	UpdateMoveTool(distance mgl64.Vec3, alternateButtonDrag bool)

	// UpdateAnchoredMoveTool moves the selection by a world-space distance measured from
	// the drag anchor's original translation.
	UpdateAnchoredMoveTool(distance mgl64.Vec3, alternateButtonDrag bool)

	// UpdateRotateTool rotates the selection about the pivot by angles in degrees around
	// the pivot-local X, Y and Z axes, measured from the start of the transaction.
	UpdateRotateTool(angles mgl64.Vec3, alternateButtonDrag bool)

	// UpdateScaleTool sets the focused control point's strength.
	UpdateScaleTool(scale float64)

	// SnapPosition snaps a world position to the grid.
	SnapPosition(position mgl64.Vec3) mgl64.Vec3

	// PiecesBoundingBox returns the world box around every piece.
	//
	// Returns:
	//   - common.BoundingBox: the box
	//   - bool: false when the model has no pieces
	PiecesBoundingBox() (common.BoundingBox, bool)

	// PieceBoundingBox returns the world box of a single object.
	PieceBoundingBox(obj Object) common.BoundingBox

	// SelectionOrModelCenter returns the center of the selection, or of the whole model
	// when nothing is selected, or the origin for an empty model.
	SelectionOrModelCenter() mgl64.Vec3

	// FocusOrSelectionCenter returns the focused object's position or the selection center.
	//
	// Returns:
	//   - mgl64.Vec3: the center
	//   - bool: false when nothing is selected
	FocusOrSelectionCenter() (mgl64.Vec3, bool)

	// InsertPieceToolClicked adds a piece at placement.
	InsertPieceToolClicked(info PieceInfo, placement Placement)

	// PointLightToolClicked adds a point light.
	PointLightToolClicked(position mgl64.Vec3)

	// BeginDirectionalLightTool creates a light of kind aimed from position to target and
	// opens a transaction for dragging its target.
	BeginDirectionalLightTool(position, target mgl64.Vec3, kind LightKind)

	// UpdateDirectionalLightTool moves the pending light's target.
	UpdateDirectionalLightTool(target mgl64.Vec3)

	// BeginCameraTool creates a named camera and opens a transaction for dragging its target.
	BeginCameraTool(position, target mgl64.Vec3)

	// UpdateCameraTool moves the pending camera's target.
	UpdateCameraTool(target mgl64.Vec3)

	// EraserToolClicked deletes obj. A nil obj is ignored.
	EraserToolClicked(obj Object)

	// PaintToolClicked applies the current color to obj. A nil obj is ignored.
	PaintToolClicked(obj Object)

	// ColorPickerToolClicked makes obj's color current. A nil obj is ignored.
	ColorPickerToolClicked(obj Object)

	// SelectionToolClicked updates the selection after a click on section.
	SelectionToolClicked(section ObjectSection, mode SelectionMode)

	// SelectObjects updates the selection after a marquee drag.
	SelectObjects(objects []Object, mode SelectionMode)

	// UpdateOrbitTool orbits cam by the total drag amounts in radians.
	UpdateOrbitTool(cam camera.Camera, dx, dy float64)

	// UpdatePanTool pans cam by the total world-space drag vector.
	UpdatePanTool(cam camera.Camera, distance mgl64.Vec3)

	// UpdateZoomTool zooms cam by the total drag amount.
	UpdateZoomTool(cam camera.Camera, amount float64)

	// UpdateRollTool rolls cam by the total drag angle in radians.
	UpdateRollTool(cam camera.Camera, angle float64)

	// Zoom applies a one-off zoom step, as from the mouse wheel.
	Zoom(cam camera.Camera, amount float64)

	// ZoomRegionToolClicked frames region with cam.
	ZoomRegionToolClicked(cam camera.Camera, aspect float64, region camera.Region)

	// SetViewpoint moves cam to a preset viewpoint.
	SetViewpoint(cam camera.Camera, viewpoint camera.Viewpoint)

	// LookAt turns cam toward the focus or selection center.
	LookAt(cam camera.Camera)

	// ZoomExtents frames every piece with cam.
	ZoomExtents(cam camera.Camera, aspect float64)

	// Camera looks up a named camera.
	//
	// Returns:
	//   - camera.Camera: the camera
	//   - bool: false if no camera has that name
	Camera(name string) (camera.Camera, bool)
}
