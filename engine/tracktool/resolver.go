package tracktool

import (
	"math"

	"github.com/Carmen-Shannon/oxy-viewport/common"
	"github.com/Carmen-Shannon/oxy-viewport/engine/overlay"
	"github.com/Carmen-Shannon/oxy-viewport/engine/scene"
	"github.com/go-gl/mathgl/mgl64"
)

// Input is everything the resolver looks at for one pointer position.
type Input struct {
	Tool      Tool
	Ray       common.Ray
	X, Y      float64
	Viewport  common.Rect
	Modifiers common.Modifier

	Pivot         scene.Pivot
	HasPivot      bool
	OverlayScale  float64
	ViewDirection mgl64.Vec3

	AnyPiecesSelected  bool
	AnyObjectsSelected bool
	Allowed            scene.TransformMask

	// Hover returns the object under the pointer. It is only called when a rule needs it.
	Hover func() scene.ObjectSection

	DragAndDrop bool
}

// Resolution is the outcome of resolving a pointer position.
type Resolution struct {
	Tool        TrackTool
	FromOverlay bool
	Anchor      *Anchor
}

type resolveFunc func(r *Resolver, in Input) Resolution

// Resolver maps pointer input to track tools with one rule per high-level tool.
type Resolver struct {
	layout overlay.Layout
	table  map[Tool]resolveFunc
}

// plane, ring and arrow results for the plane whose normal is axis 0, 1, 2.
var (
	planeModes  = [3]TrackTool{TrackToolMoveYZ, TrackToolMoveXZ, TrackToolMoveXY}
	ringModes   = [3]TrackTool{TrackToolRotateX, TrackToolRotateY, TrackToolRotateZ}
	arrowModesA = [3]TrackTool{TrackToolMoveZ, TrackToolMoveX, TrackToolMoveY}
	arrowModesB = [3]TrackTool{TrackToolMoveY, TrackToolMoveZ, TrackToolMoveX}
)

// NewResolver creates a Resolver using overlay.DefaultLayout unless overridden.
//
// Parameters:
//   - options: functional options to configure the resolver
//
// Returns:
//   - *Resolver: the resolver
func NewResolver(options ...ResolverBuilderOption) *Resolver {
	r := &Resolver{
		layout: overlay.DefaultLayout,
		table: map[Tool]resolveFunc{
			ToolInsert:           fixed(TrackToolInsert),
			ToolPointLight:       fixed(TrackToolPointLight),
			ToolSpotLight:        fixed(TrackToolSpotLight),
			ToolDirectionalLight: fixed(TrackToolDirectionalLight),
			ToolAreaLight:        fixed(TrackToolAreaLight),
			ToolCamera:           fixed(TrackToolCamera),
			ToolSelect:           (*Resolver).resolveMove,
			ToolMove:             (*Resolver).resolveMove,
			ToolRotate:           (*Resolver).resolveRotate,
			ToolEraser:           fixed(TrackToolEraser),
			ToolPaint:            fixed(TrackToolPaint),
			ToolColorPicker:      fixed(TrackToolColorPicker),
			ToolZoom:             fixed(TrackToolZoom),
			ToolPan:              fixed(TrackToolPan),
			ToolRotateView:       (*Resolver).resolveRotateView,
			ToolRoll:             fixed(TrackToolRoll),
			ToolZoomRegion:       fixed(TrackToolZoomRegion),
			ToolRotateStep:       fixed(TrackToolRotateStep),
		},
	}

	for _, option := range options {
		option(r)
	}
	return r
}

// Layout returns the gizmo layout in use.
func (r *Resolver) Layout() overlay.Layout {
	return r.layout
}

// Resolve returns the track tool under the pointer. A drag-and-drop in progress always
// resolves to Insert, and a tool the allowed-transform mask forbids falls back to Select.
//
// Parameters:
//   - in: the pointer and selection state
//
// Returns:
//   - Resolution: the resolved track tool
func (r *Resolver) Resolve(in Input) Resolution {
	if in.DragAndDrop {
		return Resolution{Tool: TrackToolInsert}
	}
	fn, ok := r.table[in.Tool]
	if !ok {
		return Resolution{Tool: TrackToolNone}
	}
	res := fn(r, in)
	if !IsTrackToolAllowed(res.Tool, in.Allowed) {
		return Resolution{Tool: TrackToolSelect}
	}
	return res
}

func fixed(tool TrackTool) resolveFunc {
	return func(*Resolver, Input) Resolution {
		return Resolution{Tool: tool}
	}
}

// resolveMove hit-tests the move gizmo for the Select and Move tools. Each of the three
// planes through the pivot is intersected with the pointer ray; a later match on a plane
// that is at least as close replaces an earlier one.
func (r *Resolver) resolveMove(in Input) Resolution {
	def := TrackToolSelect
	if in.Tool == ToolMove {
		def = TrackToolMoveXYZ
	}
	if !in.HasPivot || !in.AnyObjectsSelected || in.OverlayScale <= 0 {
		return r.anchorOrDefault(in, def)
	}

	l, s := r.layout, in.OverlayScale
	center := in.Pivot.Center
	normals := [3]mgl64.Vec3{in.Pivot.Axis(0), in.Pivot.Axis(1), in.Pivot.Axis(2)}

	closest := math.MaxFloat64
	var res Resolution
	matched := false

	for axis := 0; axis < 3; axis++ {
		hit, err := common.SegmentPlaneIntersection(in.Ray.Start, in.Ray.End, common.PlaneFromPointNormal(center, normals[axis]))
		if err != nil {
			continue
		}
		dist := hit.Sub(in.Ray.Start).LenSqr()
		if dist > closest {
			continue
		}

		dir := hit.Sub(center)
		p1 := dir.Dot(normals[(axis+1)%3])
		p2 := dir.Dot(normals[(axis+2)%3])

		try := func(tool TrackTool) {
			if IsTrackToolAllowed(tool, in.Allowed) {
				res = Resolution{Tool: tool, FromOverlay: true}
				closest = dist
				matched = true
			}
		}

		if p1 > 0 && p1 < l.MovePlaneSize*s && p2 > 0 && p2 < l.MovePlaneSize*s {
			try(planeModes[axis])
		}

		if in.Tool == ToolSelect && in.AnyPiecesSelected {
			start, end := l.RotateArc(s)
			if p1 > start && p1 < end && p2 > start && p2 < end {
				try(ringModes[axis])
			}
		}

		if math.Abs(p1) < l.MoveArrowCapRadius*s && p2 > 0 && p2 < l.MoveArrowSize*s {
			try(arrowModesA[axis])
		}
		if math.Abs(p2) < l.MoveArrowCapRadius*s && p1 > 0 && p1 < l.MoveArrowSize*s {
			try(arrowModesB[axis])
		}

		if in.Pivot.ControlPoint {
			if tool, ok := r.scaleHandle(axis, p1, p2, in.Pivot.ControlPointStrength, s); ok {
				try(tool)
			}
		}
	}

	if matched {
		return res
	}
	return r.anchorOrDefault(in, def)
}

// scaleHandle tests the scale handles, which sit on the pivot's local X axis beyond the
// control point strength. They are visible from the planes whose normals are Y and Z.
func (r *Resolver) scaleHandle(axis int, p1, p2, strength, s float64) (TrackTool, bool) {
	start, end := r.layout.ScaleHandleRange(strength, s)
	radius := r.layout.ScaleRadius * s

	var across, along float64
	switch axis {
	case 1:
		across, along = p1, p2
	case 2:
		across, along = p2, p1
	default:
		return TrackToolNone, false
	}
	if math.Abs(across) >= radius {
		return TrackToolNone, false
	}
	switch {
	case along > start && along < end:
		return TrackToolScalePlus, true
	case along < -start && along > -end:
		return TrackToolScaleMinus, true
	}
	return TrackToolNone, false
}

// anchorOrDefault lets a plain Select hover over the focused, selected piece grab it for a
// free move.
func (r *Resolver) anchorOrDefault(in Input, def TrackTool) Resolution {
	if in.Tool != ToolSelect || in.Modifiers != common.ModifierNone || in.Hover == nil {
		return Resolution{Tool: def}
	}

	hit := in.Hover()
	if hit.Object == nil || hit.Object.Kind() != scene.ObjectPiece || hit.Section != scene.SectionPosition {
		return Resolution{Tool: def}
	}
	if !hit.Object.IsSelected() || !hit.Object.IsFocused() {
		return Resolution{Tool: def}
	}

	return Resolution{
		Tool: TrackToolMoveXYZ,
		Anchor: &Anchor{
			Object:      hit.Object,
			Translation: hit.Object.WorldTransform().Col(3).Vec3(),
		},
	}
}

// resolveRotate picks a single rotation axis when the pointer is on one of the gizmo's
// great circles, and free rotation everywhere else.
func (r *Resolver) resolveRotate(in Input) Resolution {
	free := Resolution{Tool: TrackToolRotateXYZ}
	if !in.HasPivot || in.OverlayScale <= 0 {
		return free
	}

	l, s := r.layout, in.OverlayScale
	center := in.Pivot.Center
	radius := l.RotateRadius * s
	epsilon := l.RotateEpsilon * s

	nearest := common.ClosestPointOnLine(center, in.Ray.Start, in.Ray.End)
	if nearest.Sub(center).Len() > radius+epsilon {
		return free
	}

	points, err := common.RaySphereIntersections(in.Ray, center, radius)
	if err != nil {
		return free
	}

	for _, p := range points {
		offset := p.Sub(center)
		if in.ViewDirection.Dot(offset) > 0 {
			continue
		}

		tool, d := nearestRotateAxis(in.Pivot.WorldToLocal(offset))
		if d < epsilon {
			if IsTrackToolAllowed(tool, in.Allowed) {
				return Resolution{Tool: tool, FromOverlay: true}
			}
			return free
		}
	}
	return free
}

// resolveRotateView partitions the viewport around the rotate-view ring.
func (r *Resolver) resolveRotateView(in Input) Resolution {
	radius, square := overlay.RotateViewRing(in.Viewport.Width, in.Viewport.Height)
	x := in.X - float64(in.Viewport.Width)/2
	y := in.Y - float64(in.Viewport.Height)/2
	d := math.Hypot(x, y)

	if math.Abs(d-radius) < square {
		if math.Abs(x) < square {
			return Resolution{Tool: TrackToolOrbitY, FromOverlay: true}
		}
		if math.Abs(y) < square {
			return Resolution{Tool: TrackToolOrbitX, FromOverlay: true}
		}
	}
	if d < radius {
		return Resolution{Tool: TrackToolOrbitXY, FromOverlay: true}
	}
	return Resolution{Tool: TrackToolRoll, FromOverlay: true}
}

// nearestRotateAxis returns the rotate tool whose circle passes closest to the pivot-local
// offset, and that distance. Ties go to X, then Y, then Z.
func nearestRotateAxis(local mgl64.Vec3) (TrackTool, float64) {
	dx, dy, dz := math.Abs(local.X()), math.Abs(local.Y()), math.Abs(local.Z())
	switch {
	case dx <= dy && dx <= dz:
		return TrackToolRotateX, dx
	case dy <= dz:
		return TrackToolRotateY, dy
	}
	return TrackToolRotateZ, dz
}
