package camera

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Viewpoint is a preset view direction.
type Viewpoint int

const (
	ViewpointFront Viewpoint = iota
	ViewpointBack
	ViewpointTop
	ViewpointBottom
	ViewpointLeft
	ViewpointRight
	ViewpointHome
)

// viewpointPreset is the offset direction from target to eye and the up vector for a preset.
type viewpointPreset struct {
	name      string
	direction mgl64.Vec3
	up        mgl64.Vec3
}

var viewpointPresets = map[Viewpoint]viewpointPreset{
	ViewpointFront:  {"front", mgl64.Vec3{0, -1, 0}, WorldUp},
	ViewpointBack:   {"back", mgl64.Vec3{0, 1, 0}, WorldUp},
	ViewpointTop:    {"top", mgl64.Vec3{0, 0, 1}, mgl64.Vec3{0, 1, 0}},
	ViewpointBottom: {"bottom", mgl64.Vec3{0, 0, -1}, mgl64.Vec3{0, -1, 0}},
	ViewpointLeft:   {"left", mgl64.Vec3{-1, 0, 0}, WorldUp},
	ViewpointRight:  {"right", mgl64.Vec3{1, 0, 0}, WorldUp},
	ViewpointHome:   {"home", mgl64.Vec3{-250, -250, 75}.Normalize(), WorldUp},
}

func (v Viewpoint) String() string {
	if p, ok := viewpointPresets[v]; ok {
		return p.name
	}
	return fmt.Sprintf("Viewpoint(%d)", int(v))
}

// ParseViewpoint maps a preset name such as "front" or "home" to its Viewpoint.
//
// Parameters:
//   - name: the preset name, case-insensitive
//
// Returns:
//   - Viewpoint: the preset
//   - error: an error if the name is unknown
func ParseViewpoint(name string) (Viewpoint, error) {
	for v, p := range viewpointPresets {
		if strings.EqualFold(p.name, name) {
			return v, nil
		}
	}
	return ViewpointHome, fmt.Errorf("camera: unknown viewpoint %q", name)
}
