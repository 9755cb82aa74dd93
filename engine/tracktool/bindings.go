package tracktool

import (
	"github.com/Carmen-Shannon/oxy-viewport/common"
)

// Binding maps a mouse button and modifier combination to a tool that overrides the current
// one for the length of a drag.
type Binding struct {
	Button    common.MouseButton
	Modifiers common.Modifier
	Tool      Tool
}

type bindingKey struct {
	button    common.MouseButton
	modifiers common.Modifier
}

// Bindings is an immutable set of mouse overrides.
type Bindings struct {
	entries map[bindingKey]Tool
}

// NewBindings builds a binding set. Later bindings for the same button and modifiers win.
//
// Parameters:
//   - bindings: the bindings
//
// Returns:
//   - Bindings: the binding set
func NewBindings(bindings ...Binding) Bindings {
	b := Bindings{entries: make(map[bindingKey]Tool, len(bindings))}
	for _, binding := range bindings {
		b.entries[bindingKey{binding.Button, binding.Modifiers}] = binding.Tool
	}
	return b
}

// DefaultBindings returns the stock mouse overrides: middle drag pans, Alt+left orbits,
// Alt+middle pans and Alt+right zooms.
func DefaultBindings() Bindings {
	return NewBindings(
		Binding{Button: common.MouseButtonMiddle, Tool: ToolPan},
		Binding{Button: common.MouseButtonLeft, Modifiers: common.ModifierAlt, Tool: ToolRotateView},
		Binding{Button: common.MouseButtonMiddle, Modifiers: common.ModifierAlt, Tool: ToolPan},
		Binding{Button: common.MouseButtonRight, Modifiers: common.ModifierAlt, Tool: ToolZoom},
	)
}

// Lookup returns the tool bound to button and modifiers.
//
// Parameters:
//   - button: the pressed button
//   - modifiers: the held modifiers
//
// Returns:
//   - Tool: the bound tool
//   - bool: false if nothing is bound
func (b Bindings) Lookup(button common.MouseButton, modifiers common.Modifier) (Tool, bool) {
	t, ok := b.entries[bindingKey{button, modifiers}]
	return t, ok
}

// Override returns the track tool a button press should use instead of the hover
// resolution. Resolutions that came from the gizmo are never overridden.
//
// Parameters:
//   - current: the hover resolution
//   - button: the pressed button
//   - modifiers: the held modifiers
//
// Returns:
//   - TrackTool: the overriding track tool
//   - bool: false when the hover resolution stands
func (b Bindings) Override(current Resolution, button common.MouseButton, modifiers common.Modifier) (TrackTool, bool) {
	if current.FromOverlay {
		return TrackToolNone, false
	}
	tool, ok := b.Lookup(button, modifiers)
	if !ok {
		return TrackToolNone, false
	}
	return TrackToolFromTool(tool), true
}

// Len returns the number of bindings.
func (b Bindings) Len() int {
	return len(b.entries)
}
