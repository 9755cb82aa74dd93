package viewport

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-viewport/common"
	"github.com/Carmen-Shannon/oxy-viewport/engine/tracktool"
)

// CursorShape selects the OS cursor the surrounding application should show.
type CursorShape int

const (
	CursorDefault CursorShape = iota
	CursorBrick
	CursorLight
	CursorSpotlight
	CursorSunlight
	CursorAreaLight
	CursorCamera
	CursorSelect
	CursorSelectAdd
	CursorSelectRemove
	CursorMove
	CursorRotate
	CursorRotateX
	CursorRotateY
	CursorDelete
	CursorPaint
	CursorColorPicker
	CursorZoom
	CursorZoomRegion
	CursorPan
	CursorRoll
	CursorRotateView
)

var cursorNames = [...]string{
	"Default", "Brick", "Light", "Spotlight", "Sunlight", "AreaLight", "Camera",
	"Select", "SelectAdd", "SelectRemove", "Move", "Rotate", "RotateX", "RotateY",
	"Delete", "Paint", "ColorPicker", "Zoom", "ZoomRegion", "Pan", "Roll", "RotateView",
}

func (c CursorShape) String() string {
	if int(c) >= 0 && int(c) < len(cursorNames) {
		return cursorNames[c]
	}
	return fmt.Sprintf("CursorShape(%d)", int(c))
}

var trackToolCursors = map[tracktool.TrackTool]CursorShape{
	tracktool.TrackToolNone:             CursorDefault,
	tracktool.TrackToolSelect:           CursorSelect,
	tracktool.TrackToolInsert:           CursorBrick,
	tracktool.TrackToolPointLight:       CursorLight,
	tracktool.TrackToolSpotLight:        CursorSpotlight,
	tracktool.TrackToolDirectionalLight: CursorSunlight,
	tracktool.TrackToolAreaLight:        CursorAreaLight,
	tracktool.TrackToolCamera:           CursorCamera,
	tracktool.TrackToolMoveX:            CursorMove,
	tracktool.TrackToolMoveY:            CursorMove,
	tracktool.TrackToolMoveZ:            CursorMove,
	tracktool.TrackToolMoveXY:           CursorMove,
	tracktool.TrackToolMoveXZ:           CursorMove,
	tracktool.TrackToolMoveYZ:           CursorMove,
	tracktool.TrackToolMoveXYZ:          CursorMove,
	tracktool.TrackToolRotateX:          CursorRotate,
	tracktool.TrackToolRotateY:          CursorRotate,
	tracktool.TrackToolRotateZ:          CursorRotate,
	tracktool.TrackToolRotateXY:         CursorRotate,
	tracktool.TrackToolRotateXYZ:        CursorRotate,
	tracktool.TrackToolScalePlus:        CursorMove,
	tracktool.TrackToolScaleMinus:       CursorMove,
	tracktool.TrackToolEraser:           CursorDelete,
	tracktool.TrackToolPaint:            CursorPaint,
	tracktool.TrackToolColorPicker:      CursorColorPicker,
	tracktool.TrackToolZoom:             CursorZoom,
	tracktool.TrackToolPan:              CursorPan,
	tracktool.TrackToolOrbitX:           CursorRotateX,
	tracktool.TrackToolOrbitY:           CursorRotateY,
	tracktool.TrackToolOrbitXY:          CursorRotateView,
	tracktool.TrackToolRoll:             CursorRoll,
	tracktool.TrackToolZoomRegion:       CursorZoomRegion,
	tracktool.TrackToolRotateStep:       CursorRotate,
}

// CursorForTrackTool returns the cursor for a track tool. The select cursor shows whether a
// click adds to or removes from the selection.
//
// Parameters:
//   - tool: the active track tool
//   - modifiers: the held modifiers
//
// Returns:
//   - CursorShape: the cursor
func CursorForTrackTool(tool tracktool.TrackTool, modifiers common.Modifier) CursorShape {
	if tool == tracktool.TrackToolSelect {
		switch {
		case modifiers.Has(common.ModifierControl):
			return CursorSelectAdd
		case modifiers.Has(common.ModifierShift):
			return CursorSelectRemove
		}
	}
	if c, ok := trackToolCursors[tool]; ok {
		return c
	}
	return CursorDefault
}
