// Package transform turns pointer drags into model edits. The pure helpers in this package
// compute the total delta from the mouse-down pointer to the current one; the Updater feeds
// those deltas to the active model.
package transform

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-viewport/common"
	"github.com/Carmen-Shannon/oxy-viewport/engine/scene"
	"github.com/go-gl/mathgl/mgl64"
)

// AxisMoveDelta returns the move along one pivot axis that follows the pointer from down to
// current. Each ray is reduced to its closest point on the axis line through the pivot.
//
// Parameters:
//   - pivot: the pivot captured when the drag started
//   - axis: the local axis index (0=X, 1=Y, 2=Z)
//   - down: the pointer ray at mouse-down
//   - current: the current pointer ray
//
// Returns:
//   - mgl64.Vec3: the move in pivot-local axes, zero except for the axis component
//   - error: an error wrapping common.ErrNoIntersection if either ray is parallel to the axis
func AxisMoveDelta(pivot scene.Pivot, axis int, down, current common.Ray) (mgl64.Vec3, error) {
	start := pivot.Center
	end := start.Add(pivot.Axis(axis))

	from, _, err := common.ClosestPointsBetweenLines(start, end, down.Start, down.End)
	if err != nil {
		return mgl64.Vec3{}, fmt.Errorf("transform: axis %d at mouse-down: %w", axis, err)
	}
	to, _, err := common.ClosestPointsBetweenLines(start, end, current.Start, current.End)
	if err != nil {
		return mgl64.Vec3{}, fmt.Errorf("transform: axis %d: %w", axis, err)
	}

	local := pivot.WorldToLocal(to.Sub(from))
	var out mgl64.Vec3
	out[axis] = local[axis]
	return out, nil
}

// PlaneMoveDelta returns the move within the pivot plane whose normal is the excluded axis.
//
// Parameters:
//   - pivot: the pivot captured when the drag started
//   - excluded: the local axis index normal to the plane
//   - down: the pointer ray at mouse-down
//   - current: the current pointer ray
//
// Returns:
//   - mgl64.Vec3: the move in pivot-local axes with the excluded component zeroed
//   - error: an error wrapping common.ErrNoIntersection if either ray is parallel to the plane
func PlaneMoveDelta(pivot scene.Pivot, excluded int, down, current common.Ray) (mgl64.Vec3, error) {
	delta, err := planeDelta(common.PlaneFromPointNormal(pivot.Center, pivot.Axis(excluded)), down, current)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	local := pivot.WorldToLocal(delta)
	local[excluded] = 0
	return local, nil
}

// FreeMoveDelta returns the move within the plane through the pivot facing the camera.
//
// Parameters:
//   - pivot: the pivot captured when the drag started
//   - viewDirection: the camera's view direction
//   - down: the pointer ray at mouse-down
//   - current: the current pointer ray
//
// Returns:
//   - mgl64.Vec3: the move in pivot-local axes
//   - error: an error wrapping common.ErrNoIntersection if either ray is parallel to the plane
func FreeMoveDelta(pivot scene.Pivot, viewDirection mgl64.Vec3, down, current common.Ray) (mgl64.Vec3, error) {
	delta, err := planeDelta(common.PlaneFromPointNormal(pivot.Center, viewDirection), down, current)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	return pivot.WorldToLocal(delta), nil
}

func planeDelta(plane common.Plane, down, current common.Ray) (mgl64.Vec3, error) {
	from, err := common.LinePlaneIntersection(down.Start, down.End, plane)
	if err != nil {
		return mgl64.Vec3{}, fmt.Errorf("transform: plane at mouse-down: %w", err)
	}
	to, err := common.LinePlaneIntersection(current.Start, current.End, plane)
	if err != nil {
		return mgl64.Vec3{}, fmt.Errorf("transform: plane: %w", err)
	}
	return to.Sub(from), nil
}
