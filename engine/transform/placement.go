package transform

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-viewport/common"
	"github.com/Carmen-Shannon/oxy-viewport/engine/projection"
	"github.com/Carmen-Shannon/oxy-viewport/engine/scene"
	"github.com/go-gl/mathgl/mgl64"
)

// FallbackDepth is the window depth used when a placement ray hits nothing at all.
const FallbackDepth = 0.9

// InsertTransform finds where a piece with info's bounding box would land under the pointer.
//
// A piece under the pointer gets the new piece placed flush against the face the ray
// entered through. With relative transforms that happens in the hit piece's frame and the
// new piece inherits its rotation; otherwise the hit piece's world box is used. With no
// piece under the pointer the new piece rests on the ground plane, then on a plane through
// the focus or selection center facing the camera, and as a last resort at a fixed depth.
// The position always passes through the model's grid snap.
//
// Parameters:
//   - model: the active model
//   - proj: the viewport projector
//   - info: the piece being placed
//   - x, y: the pointer position in viewport pixels
//   - ignoreSelected: skip selected pieces when hit testing, for moving the selection itself
//
// Returns:
//   - scene.Placement: the snapped placement
//   - error: an error if the pointer ray could not be built
func InsertTransform(model scene.ActiveModel, proj projection.Projector, info scene.PieceInfo, x, y float64, ignoreSelected bool) (scene.Placement, error) {
	ray, err := proj.PointerRay(x, y)
	if err != nil {
		return scene.Placement{}, fmt.Errorf("transform: insert transform: %w", err)
	}

	placement := scene.Placement{Rotation: mgl64.Ident3()}
	if hit := model.RayTest(ray, ignoreSelected); hit.Object != nil && hit.Object.Kind() == scene.ObjectPiece {
		if p, ok := flushPlacement(model, hit.Object, ray, info.BoundingBox); ok {
			p.Position = model.SnapPosition(p.Position)
			return p, nil
		}
	}

	ground := common.Plane{Normal: mgl64.Vec3{0, 0, 1}, Distance: info.BoundingBox.Min.Z()}
	if pos, err := common.SegmentPlaneIntersection(ray.Start, ray.End, ground); err == nil {
		placement.Position = model.SnapPosition(pos)
		return placement, nil
	}

	center, ok := model.FocusOrSelectionCenter()
	if !ok {
		center = model.SelectionOrModelCenter()
	}
	facing := common.PlaneFromPointNormal(center, ray.Direction())
	if pos, err := common.LinePlaneIntersection(ray.Start, ray.End, facing); err == nil {
		placement.Position = model.SnapPosition(pos)
		return placement, nil
	}

	pos, err := proj.Unproject(mgl64.Vec3{x, y, FallbackDepth})
	if err != nil {
		return scene.Placement{}, fmt.Errorf("transform: insert transform: %w", err)
	}
	placement.Position = model.SnapPosition(pos)
	return placement, nil
}

// flushPlacement puts a box of size newBox against the face of obj the ray enters through.
func flushPlacement(model scene.ActiveModel, obj scene.Object, ray common.Ray, newBox common.BoundingBox) (scene.Placement, bool) {
	if model.RelativeTransform() {
		world := obj.WorldTransform()
		inv := world.Inv()
		local := common.Ray{
			Start: inv.Mul4x1(ray.Start.Vec4(1)).Vec3(),
			End:   inv.Mul4x1(ray.End.Vec4(1)).Vec3(),
		}
		pos, ok := flushPosition(local, obj.BoundingBox(), newBox)
		if !ok {
			return scene.Placement{}, false
		}
		return scene.Placement{
			Position: world.Mul4x1(pos.Vec4(1)).Vec3(),
			Rotation: world.Mat3(),
		}, true
	}

	pos, ok := flushPosition(ray, model.PieceBoundingBox(obj), newBox)
	if !ok {
		return scene.Placement{}, false
	}
	return scene.Placement{Position: pos, Rotation: mgl64.Ident3()}, true
}

func flushPosition(ray common.Ray, box, newBox common.BoundingBox) (mgl64.Vec3, bool) {
	t, face, err := common.RayBoxIntersection(ray, box)
	if err != nil || face < 0 {
		return mgl64.Vec3{}, false
	}

	pos := ray.At(t)
	axis := face / 2
	if face%2 == 1 {
		pos[axis] = box.Max[axis] - newBox.Min[axis]
	} else {
		pos[axis] = box.Min[axis] - newBox.Max[axis]
	}
	return pos, true
}

// CameraLightInsertPosition returns the point on ray closest to the center of the model's
// pieces, or to the origin for an empty model. Camera and light drags place their target
// there.
//
// Parameters:
//   - model: the active model
//   - ray: the current pointer ray
//
// Returns:
//   - mgl64.Vec3: the world position
func CameraLightInsertPosition(model scene.ActiveModel, ray common.Ray) mgl64.Vec3 {
	var center mgl64.Vec3
	if box, ok := model.PiecesBoundingBox(); ok {
		center = box.Center()
	}
	return common.ClosestPointOnLine(center, ray.Start, ray.End)
}
