package common

import "strings"

// Modifier is a bitset of keyboard modifiers held during a pointer event.
type Modifier uint8

const (
	ModifierNone    Modifier = 0
	ModifierShift   Modifier = 1 << 0
	ModifierControl Modifier = 1 << 1
	ModifierAlt     Modifier = 1 << 2
)

// Has reports whether all bits of flag are set.
func (m Modifier) Has(flag Modifier) bool {
	return m&flag == flag
}

// String returns a "+"-joined modifier list such as "Shift+Control".
func (m Modifier) String() string {
	if m == ModifierNone {
		return "None"
	}
	out := ""
	for _, f := range []struct {
		bit  Modifier
		name string
	}{{ModifierShift, "Shift"}, {ModifierControl, "Control"}, {ModifierAlt, "Alt"}} {
		if m.Has(f.bit) {
			if out != "" {
				out += "+"
			}
			out += f.name
		}
	}
	return out
}

// MouseButton identifies the button that started a drag.
type MouseButton uint8

const (
	MouseButtonNone MouseButton = iota
	MouseButtonLeft
	MouseButtonMiddle
	MouseButtonRight
)

var mouseButtonNames = map[MouseButton]string{
	MouseButtonNone:   "None",
	MouseButtonLeft:   "Left",
	MouseButtonMiddle: "Middle",
	MouseButtonRight:  "Right",
}

func (b MouseButton) String() string {
	if s, ok := mouseButtonNames[b]; ok {
		return s
	}
	return "Unknown"
}

// ParseMouseButton maps a button name ("left", "middle", "right") to a MouseButton.
func ParseMouseButton(name string) (MouseButton, bool) {
	for b, s := range mouseButtonNames {
		if b != MouseButtonNone && strings.EqualFold(s, name) {
			return b, true
		}
	}
	return MouseButtonNone, false
}

// ParseModifier maps a modifier name ("shift", "control"/"ctrl", "alt") to its flag.
func ParseModifier(name string) (Modifier, bool) {
	switch {
	case strings.EqualFold(name, "shift"):
		return ModifierShift, true
	case strings.EqualFold(name, "control"), strings.EqualFold(name, "ctrl"):
		return ModifierControl, true
	case strings.EqualFold(name, "alt"):
		return ModifierAlt, true
	}
	return ModifierNone, false
}
