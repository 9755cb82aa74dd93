package viewport

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-viewport/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewport/engine/overlay"
)

// Manager owns the state every viewport of one document shares: which viewport has focus,
// how many viewports reference each camera, and the gizmo layout.
type Manager interface {
	// Register adds v to the managed viewports. The first registered viewport gets focus.
	//
	// Parameters:
	//   - v: the viewport
	Register(v Viewport)

	// Unregister removes v. If v had focus, focus moves to the earliest remaining viewport.
	//
	// Parameters:
	//   - v: the viewport
	Unregister(v Viewport)

	// SetFocus makes v the focused viewport. Unregistered viewports are ignored.
	//
	// Parameters:
	//   - v: the viewport
	SetFocus(v Viewport)

	// Focused returns the focused viewport, or nil when none is registered.
	//
	// Returns:
	//   - Viewport: the focused viewport
	Focused() Viewport

	// Viewports returns the registered viewports in registration order.
	//
	// Returns:
	//   - []Viewport: the viewports
	Viewports() []Viewport

	// Retain records one more viewport referencing cam.
	//
	// Parameters:
	//   - cam: the camera
	//
	// Returns:
	//   - int: the new reference count
	Retain(cam camera.Camera) int

	// Release drops one reference to cam and forgets it when none remain.
	//
	// Parameters:
	//   - cam: the camera
	//
	// Returns:
	//   - int: the remaining reference count
	Release(cam camera.Camera) int

	// RefCount returns how many viewports reference cam.
	//
	// Returns:
	//   - int: the reference count
	RefCount(cam camera.Camera) int

	// Layout returns the gizmo layout shared by the renderer and every viewport.
	//
	// Returns:
	//   - overlay.Layout: the layout
	Layout() overlay.Layout
}

type managerImpl struct {
	mu      *sync.Mutex
	views   []Viewport
	focused Viewport
	cameras map[camera.Camera]int
	layout  overlay.Layout
}

var _ Manager = &managerImpl{}

// NewManager creates an empty Manager.
//
// Parameters:
//   - options: functional options to configure the manager
//
// Returns:
//   - Manager: the manager
func NewManager(options ...ManagerBuilderOption) Manager {
	m := &managerImpl{
		mu:      &sync.Mutex{},
		cameras: make(map[camera.Camera]int),
		layout:  overlay.DefaultLayout,
	}

	for _, option := range options {
		option(m)
	}
	return m
}

func (m *managerImpl) Register(v Viewport) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.views {
		if existing == v {
			return
		}
	}
	m.views = append(m.views, v)
	if m.focused == nil {
		m.focused = v
	}
}

func (m *managerImpl) Unregister(v Viewport) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.views {
		if existing == v {
			m.views = append(m.views[:i], m.views[i+1:]...)
			break
		}
	}
	if m.focused == v {
		m.focused = nil
		if len(m.views) > 0 {
			m.focused = m.views[0]
		}
	}
}

func (m *managerImpl) SetFocus(v Viewport) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.views {
		if existing == v {
			m.focused = v
			return
		}
	}
}

func (m *managerImpl) Focused() Viewport {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.focused
}

func (m *managerImpl) Viewports() []Viewport {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Viewport, len(m.views))
	copy(out, m.views)
	return out
}

func (m *managerImpl) Retain(cam camera.Camera) int {
	if cam == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cameras[cam]++
	return m.cameras[cam]
}

func (m *managerImpl) Release(cam camera.Camera) int {
	if cam == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n := m.cameras[cam] - 1
	if n <= 0 {
		delete(m.cameras, cam)
		return 0
	}
	m.cameras[cam] = n
	return n
}

func (m *managerImpl) RefCount(cam camera.Camera) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cameras[cam]
}

func (m *managerImpl) Layout() overlay.Layout {
	return m.layout
}
