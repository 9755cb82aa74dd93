package projection

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-viewport/common"
	"github.com/Carmen-Shannon/oxy-viewport/engine/camera"
	"github.com/go-gl/mathgl/mgl64"
)

// ErrSingularMatrix is returned when the combined view-projection matrix cannot be inverted.
var ErrSingularMatrix = errors.New("singular view-projection matrix")

// Projector maps between world space and viewport pixels for one camera and viewport
// rectangle. Pixel coordinates use a bottom-left origin and depth in [0,1].
type Projector struct {
	View       mgl64.Mat4
	Projection mgl64.Mat4
	Viewport   common.Rect
}

// New builds a Projector for cam rendered into viewport.
//
// Parameters:
//   - cam: the camera
//   - viewport: the viewport rectangle, width and height >= 1
//
// Returns:
//   - Projector: the projector
func New(cam camera.Camera, viewport common.Rect) Projector {
	return Projector{
		View:       cam.ViewMatrix(),
		Projection: camera.ProjectionMatrix(cam, viewport.Width, viewport.Height),
		Viewport:   viewport,
	}
}

// Project maps a world-space point to viewport pixels plus depth.
//
// Parameters:
//   - world: the world-space point
//
// Returns:
//   - mgl64.Vec3: (x, y, depth) in viewport coordinates
func (p Projector) Project(world mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Project(world, p.View, p.Projection, p.Viewport.X, p.Viewport.Y, p.Viewport.Width, p.Viewport.Height)
}

// Unproject maps viewport pixels plus depth back to world space.
//
// Parameters:
//   - screen: (x, y, depth) in viewport coordinates
//
// Returns:
//   - mgl64.Vec3: the world-space point
//   - error: an error wrapping ErrSingularMatrix if the matrices cannot be inverted
func (p Projector) Unproject(screen mgl64.Vec3) (mgl64.Vec3, error) {
	world, err := mgl64.UnProject(screen, p.View, p.Projection, p.Viewport.X, p.Viewport.Y, p.Viewport.Width, p.Viewport.Height)
	if err != nil {
		return mgl64.Vec3{}, fmt.Errorf("projection: unproject %v: %w", screen, ErrSingularMatrix)
	}
	return world, nil
}

// UnprojectPoints unprojects every point in place. On error the slice is left unchanged.
//
// Parameters:
//   - points: (x, y, depth) points, overwritten with world-space points
//
// Returns:
//   - error: an error wrapping ErrSingularMatrix if the matrices cannot be inverted
func (p Projector) UnprojectPoints(points []mgl64.Vec3) error {
	inv := p.Projection.Mul4(p.View).Inv()
	if inv == (mgl64.Mat4{}) {
		return fmt.Errorf("projection: unproject %d points: %w", len(points), ErrSingularMatrix)
	}

	vp := p.Viewport
	for i, s := range points {
		ndc := mgl64.Vec4{
			2*(s.X()-float64(vp.X))/float64(vp.Width) - 1,
			2*(s.Y()-float64(vp.Y))/float64(vp.Height) - 1,
			2*s.Z() - 1,
			1,
		}
		w := inv.Mul4x1(ndc)
		points[i] = w.Vec3().Mul(1 / w.W())
	}
	return nil
}

// PointerRay builds the world-space pointer ray by unprojecting (x, y, 0) and (x, y, 1).
//
// Parameters:
//   - x, y: pointer position in viewport pixels, bottom-left origin
//
// Returns:
//   - common.Ray: the ray from the near plane to the far plane
//   - error: an error wrapping ErrSingularMatrix if the matrices cannot be inverted
func (p Projector) PointerRay(x, y float64) (common.Ray, error) {
	points := []mgl64.Vec3{{x, y, 0}, {x, y, 1}}
	if err := p.UnprojectPoints(points); err != nil {
		return common.Ray{}, err
	}
	return common.Ray{Start: points[0], End: points[1]}, nil
}
