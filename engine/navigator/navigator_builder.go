package navigator

import (
	"github.com/Carmen-Shannon/oxy-viewport/engine/transform"
)

// NavigatorBuilderOption is a functional option for configuring a Navigator.
type NavigatorBuilderOption func(n *navigatorImpl)

// WithMouseSensitivity sets the 1-20 mouse sensitivity setting.
//
// Parameters:
//   - setting: the user setting, clamped to [1, 20]
//
// Returns:
//   - NavigatorBuilderOption: option function to apply
func WithMouseSensitivity(setting int) NavigatorBuilderOption {
	return func(n *navigatorImpl) {
		n.sensitivity = transform.MouseSensitivity(setting)
	}
}

// WithWheelSteps sets the zoom per wheel notch, and with Control held. Non-positive values
// keep the defaults.
//
// Parameters:
//   - step: the zoom per notch
//   - fast: the zoom per notch with Control held
//
// Returns:
//   - NavigatorBuilderOption: option function to apply
func WithWheelSteps(step, fast float64) NavigatorBuilderOption {
	return func(n *navigatorImpl) {
		if step > 0 {
			n.wheelStep = step
		}
		if fast > 0 {
			n.wheelStepFast = fast
		}
	}
}
