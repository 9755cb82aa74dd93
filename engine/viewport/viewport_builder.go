package viewport

import (
	"github.com/Carmen-Shannon/oxy-viewport/common"
	"github.com/Carmen-Shannon/oxy-viewport/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewport/engine/scene"
	"github.com/Carmen-Shannon/oxy-viewport/engine/tracktool"
)

// ViewportBuilderOption is a functional option for configuring a Viewport.
type ViewportBuilderOption func(v *viewportImpl)

// WithCamera sets the initial camera. Without it the viewport creates a private default
// camera.
//
// Parameters:
//   - cam: the camera
//
// Returns:
//   - ViewportBuilderOption: option function to apply
func WithCamera(cam camera.Camera) ViewportBuilderOption {
	return func(v *viewportImpl) {
		v.cam = cam
	}
}

// WithSize sets the initial viewport size in pixels.
//
// Parameters:
//   - width, height: the size, clamped to at least 1
//
// Returns:
//   - ViewportBuilderOption: option function to apply
func WithSize(width, height int) ViewportBuilderOption {
	return func(v *viewportImpl) {
		v.size = common.Rect{Width: max(width, 1), Height: max(height, 1)}
	}
}

// WithTool sets the initial high-level tool.
//
// Parameters:
//   - tool: the tool
//
// Returns:
//   - ViewportBuilderOption: option function to apply
func WithTool(tool tracktool.Tool) ViewportBuilderOption {
	return func(v *viewportImpl) {
		v.tool = tool
	}
}

// WithBindings replaces the default mouse shortcuts.
//
// Parameters:
//   - bindings: the mouse shortcuts
//
// Returns:
//   - ViewportBuilderOption: option function to apply
func WithBindings(bindings tracktool.Bindings) ViewportBuilderOption {
	return func(v *viewportImpl) {
		v.bindings = bindings
	}
}

// WithMouseSensitivity sets the 1-20 mouse sensitivity setting.
//
// Parameters:
//   - setting: the user setting
//
// Returns:
//   - ViewportBuilderOption: option function to apply
func WithMouseSensitivity(setting int) ViewportBuilderOption {
	return func(v *viewportImpl) {
		v.sensitivity = setting
	}
}

// WithWheelSteps sets the zoom per wheel notch, and with Control held.
//
// Parameters:
//   - step: the zoom per notch
//   - fast: the zoom per notch with Control held
//
// Returns:
//   - ViewportBuilderOption: option function to apply
func WithWheelSteps(step, fast float64) ViewportBuilderOption {
	return func(v *viewportImpl) {
		v.wheelStep, v.wheelStepFast = step, fast
	}
}

// WithInsertPiece sets the piece the Insert tool places.
//
// Parameters:
//   - info: the piece
//
// Returns:
//   - ViewportBuilderOption: option function to apply
func WithInsertPiece(info scene.PieceInfo) ViewportBuilderOption {
	return func(v *viewportImpl) {
		v.insertInfo = info
	}
}

// WithToolChangeHandler sets the function called when the viewport switches tools on its
// own, as after a placement click.
//
// Parameters:
//   - handler: receives the new tool
//
// Returns:
//   - ViewportBuilderOption: option function to apply
func WithToolChangeHandler(handler func(tool tracktool.Tool)) ViewportBuilderOption {
	return func(v *viewportImpl) {
		v.onToolChange = handler
	}
}

// WithContextMenuHandler sets the function called for a right click that did not drag.
//
// Parameters:
//   - handler: receives the pointer position
//
// Returns:
//   - ViewportBuilderOption: option function to apply
func WithContextMenuHandler(handler func(x, y float64)) ViewportBuilderOption {
	return func(v *viewportImpl) {
		v.onContextMenu = handler
	}
}

// WithRedrawHandler sets the function called whenever the view needs repainting.
//
// Parameters:
//   - handler: the redraw request
//
// Returns:
//   - ViewportBuilderOption: option function to apply
func WithRedrawHandler(handler func()) ViewportBuilderOption {
	return func(v *viewportImpl) {
		v.onRedraw = handler
	}
}

// WithDebugLogging logs drag starts and stops, camera substitutions and skipped frames.
//
// Parameters:
//   - enabled: whether to log
//
// Returns:
//   - ViewportBuilderOption: option function to apply
func WithDebugLogging(enabled bool) ViewportBuilderOption {
	return func(v *viewportImpl) {
		v.debug = enabled
	}
}
