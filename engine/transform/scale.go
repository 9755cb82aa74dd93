package transform

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-viewport/common"
	"github.com/Carmen-Shannon/oxy-viewport/engine/scene"
	"github.com/Carmen-Shannon/oxy-viewport/engine/tracktool"
)

const (
	MinScale = 0.1
	MaxScale = 200.0
)

// ScaleValue returns the control point strength for a scale drag. Both rays are reduced to
// their closest points on the pivot's local X axis; the distance travelled along the axis,
// toward the grabbed handle, is added to the strength the drag started with.
//
// Parameters:
//   - tool: TrackToolScalePlus or TrackToolScaleMinus
//   - pivot: the pivot captured when the drag started
//   - down: the pointer ray at mouse-down
//   - current: the current pointer ray
//
// Returns:
//   - float64: the new strength, clamped to [MinScale, MaxScale]
//   - error: an error wrapping common.ErrNoIntersection if either ray is parallel to the axis
func ScaleValue(tool tracktool.TrackTool, pivot scene.Pivot, down, current common.Ray) (float64, error) {
	axis := pivot.Axis(0)
	start := pivot.Center
	end := start.Add(axis)

	from, _, err := common.ClosestPointsBetweenLines(start, end, down.Start, down.End)
	if err != nil {
		return 0, fmt.Errorf("transform: scale at mouse-down: %w", err)
	}
	to, _, err := common.ClosestPointsBetweenLines(start, end, current.Start, current.End)
	if err != nil {
		return 0, fmt.Errorf("transform: scale: %w", err)
	}

	travel := to.Sub(from).Dot(axis)
	if tool == tracktool.TrackToolScaleMinus {
		travel = -travel
	}
	return common.Clamp(pivot.ControlPointStrength+travel, MinScale, MaxScale), nil
}
