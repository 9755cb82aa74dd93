package camera

import (
	"math"

	"github.com/Carmen-Shannon/oxy-viewport/common"
	"github.com/go-gl/mathgl/mgl64"
)

// orthoZoomRate converts a zoom amount into a relative change of the orthographic height.
const orthoZoomRate = 0.005

// Region is a rectangle lying in the camera's target plane, described by its center and the
// midpoints of its right and top edges.
type Region struct {
	Center mgl64.Vec3
	Right  mgl64.Vec3
	Top    mgl64.Vec3
}

func (c *cameraImpl) Orbit(dx, dy float64, center mgl64.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()

	yaw := mgl64.QuatRotate(-dx, WorldUp)
	c.rotateAbout(yaw, center)

	right, _, _ := c.localAxes()
	if right == (mgl64.Vec3{}) {
		return
	}
	pitch := mgl64.QuatRotate(dy, right)
	c.rotateAbout(pitch, center)
}

func (c *cameraImpl) Pan(v mgl64.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Position = c.state.Position.Add(v)
	c.state.Target = c.state.Target.Add(v)
}

func (c *cameraImpl) Zoom(amount float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Ortho {
		c.state.OrthoHeight *= math.Exp(-amount * orthoZoomRate)
		return
	}

	fwd := c.forward()
	if fwd == (mgl64.Vec3{}) {
		return
	}
	c.state.Position = c.state.Position.Add(fwd.Mul(amount))
	// Never let the eye reach the target; push the target along instead.
	if d := c.state.Target.Sub(c.state.Position).Dot(fwd); d < c.state.ZNear {
		c.state.Target = c.state.Position.Add(fwd.Mul(c.state.ZNear))
	}
}

func (c *cameraImpl) Roll(angle float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, up, fwd := c.localAxes()
	if fwd == (mgl64.Vec3{}) {
		return
	}
	c.state.Up = mgl64.QuatRotate(angle, fwd).Rotate(up)
}

func (c *cameraImpl) SetViewpoint(vp Viewpoint) {
	preset, ok := viewpointPresets[vp]
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	dist := c.distance()
	if dist < common.Epsilon {
		dist = mgl64.Vec3{-250, -250, 75}.Len()
	}
	c.state.Position = c.state.Target.Add(preset.direction.Mul(dist))
	c.state.Up = common.Orthonormalize(preset.direction.Mul(-1), preset.up)
}

func (c *cameraImpl) SetAngles(latitude, longitude float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	lat := mgl64.DegToRad(latitude)
	lon := mgl64.DegToRad(longitude)
	dir := mgl64.Vec3{
		math.Cos(lat) * math.Cos(lon),
		math.Cos(lat) * math.Sin(lon),
		math.Sin(lat),
	}
	c.state.Position = c.state.Target.Add(dir.Mul(c.distance()))

	up := common.Orthonormalize(dir.Mul(-1), WorldUp)
	if up == (mgl64.Vec3{}) {
		// Straight above or below: keep screen-up pointing along the longitude.
		up = mgl64.Vec3{-math.Cos(lon), -math.Sin(lon), 0}.Mul(math.Copysign(1, lat))
	}
	c.state.Up = up
}

func (c *cameraImpl) LookAt(point mgl64.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if point.Sub(c.state.Position).Len() < common.Epsilon {
		return
	}
	c.state.Target = point
	if up := common.Orthonormalize(c.forward(), c.state.Up); up != (mgl64.Vec3{}) {
		c.state.Up = up
	}
}

func (c *cameraImpl) ZoomExtents(aspect float64, box common.BoundingBox) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fwd := c.forward()
	if fwd == (mgl64.Vec3{}) || aspect <= 0 {
		return
	}
	center := box.Center()
	radius := box.Max.Sub(box.Min).Len() / 2
	if radius < common.Epsilon {
		radius = 1
	}

	halfY := mgl64.DegToRad(c.state.FOV) / 2
	halfX := math.Atan(math.Tan(halfY) * aspect)
	dist := radius / math.Sin(math.Min(halfX, halfY))

	c.state.Target = center
	c.state.Position = center.Sub(fwd.Mul(dist))
	if c.state.Ortho {
		c.state.OrthoHeight = 2 * radius * math.Max(1, 1/aspect)
	}
}

func (c *cameraImpl) ZoomRegion(aspect float64, region Region) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fwd := c.forward()
	if fwd == (mgl64.Vec3{}) || aspect <= 0 {
		return
	}
	halfW := region.Right.Sub(region.Center).Len()
	halfH := region.Top.Sub(region.Center).Len()
	h := math.Max(halfH, halfW/aspect)
	if h < common.Epsilon {
		return
	}

	dist := c.distance()
	if c.state.Ortho {
		c.state.OrthoHeight = 2 * h
	} else {
		dist = h / math.Tan(mgl64.DegToRad(c.state.FOV)/2)
	}
	c.state.Target = region.Center
	c.state.Position = region.Center.Sub(fwd.Mul(dist))
}

// rotateAbout rotates eye and target about center, and the up vector in place.
// Caller must hold the mutex.
func (c *cameraImpl) rotateAbout(q mgl64.Quat, center mgl64.Vec3) {
	c.state.Position = center.Add(q.Rotate(c.state.Position.Sub(center)))
	c.state.Target = center.Add(q.Rotate(c.state.Target.Sub(center)))
	c.state.Up = q.Rotate(c.state.Up)
}
