package viewport

import (
	"github.com/Carmen-Shannon/oxy-viewport/engine/overlay"
)

// ManagerBuilderOption is a functional option for configuring a Manager.
type ManagerBuilderOption func(m *managerImpl)

// WithLayout sets the gizmo layout shared by every managed viewport.
//
// Parameters:
//   - layout: the gizmo layout
//
// Returns:
//   - ManagerBuilderOption: option function to apply
func WithLayout(layout overlay.Layout) ManagerBuilderOption {
	return func(m *managerImpl) {
		m.layout = layout
	}
}
