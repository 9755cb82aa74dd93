package transform

import (
	"math"

	"github.com/Carmen-Shannon/oxy-viewport/common"
	"github.com/Carmen-Shannon/oxy-viewport/engine/scene"
	"github.com/Carmen-Shannon/oxy-viewport/engine/tracktool"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// DegreesPerPixel is the rotation per pixel of drag at a sensitivity of 1.
	DegreesPerPixel = 36.0
	// RotateStepAngle is the increment the RotateStep tool snaps to, in degrees.
	RotateStepAngle = 15.0
)

// MouseSensitivity converts the user's 1-20 sensitivity setting into the drag multiplier.
// Settings outside the range are clamped.
func MouseSensitivity(setting int) float64 {
	return 0.5 / float64(21-common.Clamp(setting, 1, 20))
}

// RotateAngle returns the rotation in degrees for a pixel delta.
func RotateAngle(pixels, sensitivity float64) float64 {
	return DegreesPerPixel * pixels * sensitivity
}

// RotateDelta returns the Euler angles, in degrees about the pivot-local axes, for a rotate
// drag of (dx, dy) pixels.
//
// A single-axis rotate follows whichever screen axis lines up best with the rotation axis.
// A two-axis rotate turns about the screen's up axis for horizontal motion and its right axis
// for vertical motion. A free rotate turns about the view direction by the vertical delta.
//
// Parameters:
//   - tool: the rotate track tool
//   - pivot: the pivot captured when the drag started
//   - screenRight, screenUp: the camera's screen axes in world space
//   - viewDirection: the camera's view direction
//   - dx, dy: the pixel delta since mouse-down
//   - sensitivity: the value from MouseSensitivity
//
// Returns:
//   - mgl64.Vec3: the angles in degrees
func RotateDelta(tool tracktool.TrackTool, pivot scene.Pivot, screenRight, screenUp, viewDirection mgl64.Vec3, dx, dy, sensitivity float64) mgl64.Vec3 {
	switch tool {
	case tracktool.TrackToolRotateX, tracktool.TrackToolRotateY, tracktool.TrackToolRotateZ:
		axis := int(tool - tracktool.TrackToolRotateX)
		world := pivot.Axis(axis)

		alongX, alongY := screenRight.Dot(world), screenUp.Dot(world)
		var angle float64
		if math.Abs(alongX) > math.Abs(alongY) {
			angle = RotateAngle(dx, sensitivity) * sign(alongX)
		} else {
			angle = RotateAngle(dy, sensitivity) * sign(alongY)
		}

		var out mgl64.Vec3
		out[axis] = angle
		return out

	case tracktool.TrackToolRotateXY:
		world := screenUp.Mul(RotateAngle(dx, sensitivity)).Sub(screenRight.Mul(RotateAngle(dy, sensitivity)))
		return pivot.WorldToLocal(world)

	case tracktool.TrackToolRotateXYZ:
		return pivot.WorldToLocal(viewDirection.Normalize().Mul(RotateAngle(dy, sensitivity)))

	case tracktool.TrackToolRotateStep:
		angle := math.Round(RotateAngle(dy, sensitivity)/RotateStepAngle) * RotateStepAngle
		return pivot.WorldToLocal(viewDirection.Normalize().Mul(angle))
	}
	return mgl64.Vec3{}
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
