package viewport

import (
	"log"

	"github.com/Carmen-Shannon/oxy-viewport/common"
	"github.com/Carmen-Shannon/oxy-viewport/engine/overlay"
	"github.com/Carmen-Shannon/oxy-viewport/engine/scene"
	"github.com/Carmen-Shannon/oxy-viewport/engine/tracktool"
	"github.com/Carmen-Shannon/oxy-viewport/engine/transform"
	"github.com/go-gl/mathgl/mgl64"
)

// Everything in this file expects the mutex held.

// mouseTools maps the track tools that edit inside a model transaction to that transaction.
var mouseTools = map[tracktool.TrackTool]scene.MouseTool{
	tracktool.TrackToolSpotLight:        scene.MouseToolLight,
	tracktool.TrackToolDirectionalLight: scene.MouseToolLight,
	tracktool.TrackToolAreaLight:        scene.MouseToolLight,
	tracktool.TrackToolCamera:           scene.MouseToolCamera,
	tracktool.TrackToolMoveX:            scene.MouseToolMove,
	tracktool.TrackToolMoveY:            scene.MouseToolMove,
	tracktool.TrackToolMoveZ:            scene.MouseToolMove,
	tracktool.TrackToolMoveXY:           scene.MouseToolMove,
	tracktool.TrackToolMoveXZ:           scene.MouseToolMove,
	tracktool.TrackToolMoveYZ:           scene.MouseToolMove,
	tracktool.TrackToolMoveXYZ:          scene.MouseToolMove,
	tracktool.TrackToolRotateX:          scene.MouseToolRotate,
	tracktool.TrackToolRotateY:          scene.MouseToolRotate,
	tracktool.TrackToolRotateZ:          scene.MouseToolRotate,
	tracktool.TrackToolRotateXY:         scene.MouseToolRotate,
	tracktool.TrackToolRotateXYZ:        scene.MouseToolRotate,
	tracktool.TrackToolRotateStep:       scene.MouseToolRotate,
	tracktool.TrackToolScalePlus:        scene.MouseToolScale,
	tracktool.TrackToolScaleMinus:       scene.MouseToolScale,
	tracktool.TrackToolZoom:             scene.MouseToolZoom,
	tracktool.TrackToolPan:              scene.MouseToolPan,
	tracktool.TrackToolOrbitX:           scene.MouseToolOrbit,
	tracktool.TrackToolOrbitY:           scene.MouseToolOrbit,
	tracktool.TrackToolOrbitXY:          scene.MouseToolOrbit,
	tracktool.TrackToolRoll:             scene.MouseToolRoll,
}

// updateTrackTool resolves the track tool under the pointer. A frame whose pointer ray
// cannot be built keeps the previous resolution.
func (v *viewportImpl) updateTrackTool() {
	proj := v.projector()
	ray, err := proj.PointerRay(v.pointer.X, v.pointer.Y)
	if err != nil {
		if v.debug {
			log.Printf("[Viewport] skipped hover update: %v", err)
		}
		return
	}

	in := tracktool.Input{
		Tool:               v.tool,
		Ray:                ray,
		X:                  v.pointer.X,
		Y:                  v.pointer.Y,
		Viewport:           v.size,
		Modifiers:          v.pointer.Modifiers,
		ViewDirection:      v.cam.ViewDirection(),
		AnyPiecesSelected:  v.model.AnyPiecesSelected(),
		AnyObjectsSelected: v.model.AnyObjectsSelected(),
		Allowed:            v.model.AllowedTransforms(),
		DragAndDrop:        v.dragInfo != nil,
		Hover: func() scene.ObjectSection {
			return v.picker.PickRay(ray, false)
		},
	}
	if pivot, ok := v.model.Pivot(); ok {
		in.Pivot = pivot
		in.HasPivot = true
		in.OverlayScale = overlay.Scale(proj, pivot.Center)
	}

	v.current = v.resolver.Resolve(in)
}

func (v *viewportImpl) buttonDown(button common.MouseButton) notifications {
	v.updateTrackTool()

	res := v.current
	if tool, ok := v.bindings.Override(res, button, v.pointer.Modifiers); ok {
		res = tracktool.Resolution{Tool: tool}
	} else if button != common.MouseButtonLeft {
		v.contextButton = button == common.MouseButtonRight
		return nil
	}
	return v.startTracking(res, button)
}

func (v *viewportImpl) startTracking(res tracktool.Resolution, button common.MouseButton) notifications {
	x, y := v.pointer.X, v.pointer.Y
	proj := v.projector()
	tool := res.Tool

	switch {
	case tool == tracktool.TrackToolNone:
		return nil

	case tool == tracktool.TrackToolSelect:
		hit, err := v.picker.PickPointer(proj, x, y, false)
		if err == nil {
			v.model.SelectionToolClicked(hit, clickSelectionMode(v.pointer.Modifiers))
		}

	case tool == tracktool.TrackToolInsert:
		if v.insertInfo.Name == "" {
			return nil
		}
		v.insertPiece(v.insertInfo)
		return append(v.finishPlacement(), v.redraw()...)

	case tool == tracktool.TrackToolPointLight:
		ray, err := proj.PointerRay(x, y)
		if err != nil {
			return nil
		}
		v.model.PointLightToolClicked(transform.CameraLightInsertPosition(v.model, ray))
		return append(v.finishPlacement(), v.redraw()...)

	case tool == tracktool.TrackToolCamera, isDirectionalLight(tool):
		ray, err := proj.PointerRay(x, y)
		if err != nil {
			return nil
		}
		position := transform.CameraLightInsertPosition(v.model, ray)
		target := position.Add(mgl64.Vec3{0.1, 0.1, 0.1})
		if tool == tracktool.TrackToolCamera {
			v.model.BeginCameraTool(position, target)
		} else {
			v.model.BeginDirectionalLightTool(position, target, lightKinds[tool])
		}

	case tool.IsMove(), tool.IsRotate(), tool.IsScale():
		if !v.model.AnyObjectsSelected() {
			return nil
		}
		v.model.BeginMouseTool(mouseTools[tool])

	case tool == tracktool.TrackToolEraser, tool == tracktool.TrackToolPaint, tool == tracktool.TrackToolColorPicker:
		hit, err := v.picker.PickPointer(proj, x, y, false)
		if err != nil || hit.Object == nil {
			return nil
		}
		switch tool {
		case tracktool.TrackToolEraser:
			v.model.EraserToolClicked(hit.Object)
		case tracktool.TrackToolPaint:
			v.model.PaintToolClicked(hit.Object)
		default:
			v.model.ColorPickerToolClicked(hit.Object)
		}
		return v.redraw()

	case tool.IsNavigation() && tool != tracktool.TrackToolZoomRegion:
		v.ensureUnsharedCamera()
		proj = v.projector()
		v.model.BeginMouseTool(mouseTools[tool])
	}

	session := tracktool.DragSession{
		Tool:        tool,
		Button:      button,
		Modifiers:   v.pointer.Modifiers,
		DownX:       x,
		DownY:       y,
		Camera:      v.cam,
		Projector:   proj,
		FromOverlay: res.FromOverlay,
		Anchor:      res.Anchor,
	}
	if pivot, ok := v.model.Pivot(); ok {
		session.Pivot = pivot
		session.HasPivot = true
		session.OverlayScale = overlay.Scale(proj, pivot.Center)
	}
	v.session = &session

	if v.debug {
		log.Printf("[Viewport] started %v drag with %v button at (%.1f, %.1f)", tool, button, x, y)
	}
	return v.redraw()
}

var lightKinds = map[tracktool.TrackTool]scene.LightKind{
	tracktool.TrackToolSpotLight:        scene.LightSpot,
	tracktool.TrackToolDirectionalLight: scene.LightDirectional,
	tracktool.TrackToolAreaLight:        scene.LightArea,
}

func isDirectionalLight(tool tracktool.TrackTool) bool {
	_, ok := lightKinds[tool]
	return ok
}

func (v *viewportImpl) updateTracking() notifications {
	s := v.session
	x, y := v.pointer.X, v.pointer.Y
	if !s.Confirmed() && (x != s.DownX || y != s.DownY) {
		*s = s.Confirm()
	}

	var err error
	switch {
	case s.Tool == tracktool.TrackToolSelect, s.Tool == tracktool.TrackToolZoomRegion:
	case s.Tool.IsNavigation():
		err = v.navigator.Drag(*s, x, y)
	case s.Tool.IsMove(), s.Tool.IsRotate(), s.Tool.IsScale(), s.Tool == tracktool.TrackToolCamera, isDirectionalLight(s.Tool):
		err = v.updater.Update(*s, v.projector(), x, y)
	default:
		return nil
	}

	if err != nil && v.debug {
		log.Printf("[Viewport] skipped %v drag update: %v", s.Tool, err)
	}
	return v.redraw()
}

func (v *viewportImpl) stopTracking(accept bool) notifications {
	s := *v.session
	v.session = nil
	x, y := v.pointer.X, v.pointer.Y

	switch {
	case s.Tool == tracktool.TrackToolSelect:
		if accept && s.Confirmed() {
			objs, err := v.picker.PickRect(s.Projector, s.DownX, s.DownY, x, y)
			if err == nil {
				v.model.SelectObjects(objs, marqueeSelectionMode(s.Modifiers))
			}
		}

	case s.Tool == tracktool.TrackToolZoomRegion:
		if accept && s.Confirmed() {
			if err := v.navigator.ZoomRegion(s, x, y); err != nil && v.debug {
				log.Printf("[Viewport] skipped zoom region: %v", err)
			}
		}

	default:
		if kind, ok := mouseTools[s.Tool]; ok {
			v.model.EndMouseTool(kind, accept)
		}
	}

	if v.debug {
		log.Printf("[Viewport] stopped %v drag, accept=%v", s.Tool, accept)
	}
	v.updateTrackTool()
	return v.redraw()
}

func (v *viewportImpl) insertPiece(info scene.PieceInfo) {
	placement, err := transform.InsertTransform(v.model, v.projector(), info, v.pointer.X, v.pointer.Y, false)
	if err != nil {
		if v.debug {
			log.Printf("[Viewport] skipped insert: %v", err)
		}
		return
	}
	v.model.InsertPieceToolClicked(info, placement)
}

// finishPlacement returns to the Select tool after a placement click unless Shift is held.
func (v *viewportImpl) finishPlacement() notifications {
	if v.pointer.Modifiers.Has(common.ModifierShift) {
		return nil
	}
	v.tool = tracktool.ToolSelect
	v.updateTrackTool()
	if v.onToolChange == nil {
		return nil
	}
	return notifications{func() { v.onToolChange(tracktool.ToolSelect) }}
}

func clickSelectionMode(modifiers common.Modifier) scene.SelectionMode {
	switch {
	case modifiers.Has(common.ModifierControl):
		return scene.SelectionToggle
	case modifiers.Has(common.ModifierShift):
		return scene.SelectionRemove
	}
	return scene.SelectionReplace
}

func marqueeSelectionMode(modifiers common.Modifier) scene.SelectionMode {
	switch {
	case modifiers.Has(common.ModifierControl):
		return scene.SelectionAdd
	case modifiers.Has(common.ModifierShift):
		return scene.SelectionRemove
	}
	return scene.SelectionReplace
}
