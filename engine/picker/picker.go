// Package picker turns pointer positions and rectangles into hit-test queries against the
// active model. It owns no geometry of its own.
package picker

import (
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-viewport/common"
	"github.com/Carmen-Shannon/oxy-viewport/engine/projection"
	"github.com/Carmen-Shannon/oxy-viewport/engine/scene"
	"github.com/go-gl/mathgl/mgl64"
)

// Picker dispatches hit tests to a scene.ActiveModel.
type Picker struct {
	model scene.ActiveModel
}

// New creates a Picker for model.
//
// Parameters:
//   - model: the active model to query
//
// Returns:
//   - *Picker: the picker
func New(model scene.ActiveModel) *Picker {
	if model == nil {
		panic("picker: New requires a non-nil ActiveModel")
	}
	return &Picker{model: model}
}

// PickRay returns the object nearest along ray.
//
// Parameters:
//   - ray: the world-space pointer ray
//   - ignoreSelected: skip selected objects
//
// Returns:
//   - scene.ObjectSection: the hit, with a nil Object when nothing was hit
func (p *Picker) PickRay(ray common.Ray, ignoreSelected bool) scene.ObjectSection {
	return p.model.RayTest(ray, ignoreSelected)
}

// PickPointer casts the pointer ray at (x, y) and returns the nearest object.
//
// Parameters:
//   - proj: the viewport projector
//   - x, y: pointer position, bottom-left origin
//   - ignoreSelected: skip selected objects
//
// Returns:
//   - scene.ObjectSection: the hit, with a nil Object when nothing was hit
//   - error: an error if the pointer ray could not be built
func (p *Picker) PickPointer(proj projection.Projector, x, y float64, ignoreSelected bool) (scene.ObjectSection, error) {
	ray, err := proj.PointerRay(x, y)
	if err != nil {
		return scene.ObjectSection{}, fmt.Errorf("picker: %w", err)
	}
	return p.PickRay(ray, ignoreSelected), nil
}

// PickRect returns every object inside the screen rectangle spanned by (x1, y1) and (x2, y2).
// Degenerate rectangles are widened to one pixel.
//
// Parameters:
//   - proj: the viewport projector
//   - x1, y1, x2, y2: opposite rectangle corners, bottom-left origin
//
// Returns:
//   - []scene.Object: the contained objects
//   - error: an error if the rectangle could not be unprojected
func (p *Picker) PickRect(proj projection.Projector, x1, y1, x2, y2 float64) ([]scene.Object, error) {
	f, err := FrustumFromRect(proj, x1, y1, x2, y2)
	if err != nil {
		return nil, err
	}
	return p.model.FrustumTest(f), nil
}

// FrustumFromRect builds the six inward-facing planes of the picking volume under a screen
// rectangle.
//
// Parameters:
//   - proj: the viewport projector
//   - x1, y1, x2, y2: opposite rectangle corners, bottom-left origin
//
// Returns:
//   - common.Frustum: the picking frustum
//   - error: an error if the rectangle could not be unprojected
func FrustumFromRect(proj projection.Projector, x1, y1, x2, y2 float64) (common.Frustum, error) {
	left, right := math.Min(x1, x2), math.Max(x1, x2)
	bottom, top := math.Min(y1, y2), math.Max(y1, y2)
	if right-left < 1 {
		right = left + 1
	}
	if top-bottom < 1 {
		top = bottom + 1
	}

	corners := []mgl64.Vec3{
		{left, bottom, 0}, {right, bottom, 0}, {right, top, 0}, {left, top, 0},
		{left, bottom, 1}, {right, bottom, 1}, {right, top, 1}, {left, top, 1},
	}
	if err := proj.UnprojectPoints(corners); err != nil {
		return common.Frustum{}, fmt.Errorf("picker: rectangle: %w", err)
	}
	return common.FrustumFromCorners([8]mgl64.Vec3(corners)), nil
}
