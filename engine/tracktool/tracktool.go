// Package tracktool resolves the fine-grained interaction mode under the pointer. A Tool is
// what the user picked from the command surface; a TrackTool is what a drag starting at the
// current pointer position would do.
package tracktool

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-viewport/engine/scene"
)

// TrackTool is the interaction mode a drag would use.
type TrackTool int

const (
	TrackToolNone TrackTool = iota
	TrackToolSelect
	TrackToolInsert
	TrackToolPointLight
	TrackToolSpotLight
	TrackToolDirectionalLight
	TrackToolAreaLight
	TrackToolCamera
	TrackToolMoveX
	TrackToolMoveY
	TrackToolMoveZ
	TrackToolMoveXY
	TrackToolMoveXZ
	TrackToolMoveYZ
	TrackToolMoveXYZ
	TrackToolRotateX
	TrackToolRotateY
	TrackToolRotateZ
	TrackToolRotateXY
	TrackToolRotateXYZ
	TrackToolScalePlus
	TrackToolScaleMinus
	TrackToolEraser
	TrackToolPaint
	TrackToolColorPicker
	TrackToolZoom
	TrackToolPan
	TrackToolOrbitX
	TrackToolOrbitY
	TrackToolOrbitXY
	TrackToolRoll
	TrackToolZoomRegion
	TrackToolRotateStep
)

var trackToolNames = [...]string{
	"None", "Select", "Insert", "PointLight", "SpotLight", "DirectionalLight", "AreaLight", "Camera",
	"MoveX", "MoveY", "MoveZ", "MoveXY", "MoveXZ", "MoveYZ", "MoveXYZ",
	"RotateX", "RotateY", "RotateZ", "RotateXY", "RotateXYZ",
	"ScalePlus", "ScaleMinus", "Eraser", "Paint", "ColorPicker",
	"Zoom", "Pan", "OrbitX", "OrbitY", "OrbitXY", "Roll", "ZoomRegion", "RotateStep",
}

func (t TrackTool) String() string {
	if int(t) >= 0 && int(t) < len(trackToolNames) {
		return trackToolNames[t]
	}
	return fmt.Sprintf("TrackTool(%d)", int(t))
}

// IsMove reports whether t is one of the move track tools.
func (t TrackTool) IsMove() bool {
	return t >= TrackToolMoveX && t <= TrackToolMoveXYZ
}

// IsRotate reports whether t is one of the rotate track tools.
func (t TrackTool) IsRotate() bool {
	return (t >= TrackToolRotateX && t <= TrackToolRotateXYZ) || t == TrackToolRotateStep
}

// IsScale reports whether t is one of the scale track tools.
func (t TrackTool) IsScale() bool {
	return t == TrackToolScalePlus || t == TrackToolScaleMinus
}

// IsNavigation reports whether t changes the camera rather than the model.
func (t TrackTool) IsNavigation() bool {
	switch t {
	case TrackToolZoom, TrackToolPan, TrackToolOrbitX, TrackToolOrbitY, TrackToolOrbitXY, TrackToolRoll, TrackToolZoomRegion:
		return true
	}
	return false
}

// Tool is the high-level tool chosen by the user.
type Tool int

const (
	ToolInsert Tool = iota
	ToolPointLight
	ToolSpotLight
	ToolDirectionalLight
	ToolAreaLight
	ToolCamera
	ToolSelect
	ToolMove
	ToolRotate
	ToolEraser
	ToolPaint
	ToolColorPicker
	ToolZoom
	ToolPan
	ToolRotateView
	ToolRoll
	ToolZoomRegion
	ToolRotateStep
)

var toolNames = [...]string{
	"Insert", "PointLight", "SpotLight", "DirectionalLight", "AreaLight", "Camera",
	"Select", "Move", "Rotate", "Eraser", "Paint", "ColorPicker",
	"Zoom", "Pan", "RotateView", "Roll", "ZoomRegion", "RotateStep",
}

func (t Tool) String() string {
	if int(t) >= 0 && int(t) < len(toolNames) {
		return toolNames[t]
	}
	return fmt.Sprintf("Tool(%d)", int(t))
}

// ParseTool maps a tool name such as "move" or "RotateView" to its Tool.
//
// Parameters:
//   - name: the tool name, case-insensitive
//
// Returns:
//   - Tool: the tool
//   - error: an error if the name is unknown
func ParseTool(name string) (Tool, error) {
	for i, n := range toolNames {
		if strings.EqualFold(n, name) {
			return Tool(i), nil
		}
	}
	return ToolSelect, fmt.Errorf("tracktool: unknown tool %q", name)
}

var trackToolFromTool = map[Tool]TrackTool{
	ToolInsert:           TrackToolInsert,
	ToolPointLight:       TrackToolPointLight,
	ToolSpotLight:        TrackToolSpotLight,
	ToolDirectionalLight: TrackToolDirectionalLight,
	ToolAreaLight:        TrackToolAreaLight,
	ToolCamera:           TrackToolCamera,
	ToolSelect:           TrackToolSelect,
	ToolMove:             TrackToolMoveXYZ,
	ToolRotate:           TrackToolRotateXYZ,
	ToolEraser:           TrackToolEraser,
	ToolPaint:            TrackToolPaint,
	ToolColorPicker:      TrackToolColorPicker,
	ToolZoom:             TrackToolZoom,
	ToolPan:              TrackToolPan,
	ToolRotateView:       TrackToolOrbitXY,
	ToolRoll:             TrackToolRoll,
	ToolZoomRegion:       TrackToolZoomRegion,
	ToolRotateStep:       TrackToolRotateStep,
}

// TrackToolFromTool returns the track tool a high-level tool uses when no geometric test
// applies.
func TrackToolFromTool(tool Tool) TrackTool {
	if t, ok := trackToolFromTool[tool]; ok {
		return t
	}
	return TrackToolNone
}

var requiredTransforms = map[TrackTool]scene.TransformMask{
	TrackToolMoveX:      scene.TransformMoveX,
	TrackToolMoveY:      scene.TransformMoveY,
	TrackToolMoveZ:      scene.TransformMoveZ,
	TrackToolMoveXY:     scene.TransformMoveX | scene.TransformMoveY,
	TrackToolMoveXZ:     scene.TransformMoveX | scene.TransformMoveZ,
	TrackToolMoveYZ:     scene.TransformMoveY | scene.TransformMoveZ,
	TrackToolMoveXYZ:    scene.TransformMoveAll,
	TrackToolRotateX:    scene.TransformRotateX,
	TrackToolRotateY:    scene.TransformRotateY,
	TrackToolRotateZ:    scene.TransformRotateZ,
	TrackToolRotateXY:   scene.TransformRotateX | scene.TransformRotateY,
	TrackToolRotateXYZ:  scene.TransformRotateAll,
	TrackToolRotateStep: scene.TransformRotateAll,
}

// IsTrackToolAllowed reports whether mask permits tool. Move and rotate tools need every
// axis they touch; scale tools need any scale bit; every other tool is always allowed.
//
// Parameters:
//   - tool: the track tool
//   - mask: the focused object's allowed transforms
//
// Returns:
//   - bool: true if the tool may be used
func IsTrackToolAllowed(tool TrackTool, mask scene.TransformMask) bool {
	if tool.IsScale() {
		return mask.HasAny(scene.TransformScaleAll)
	}
	if required, ok := requiredTransforms[tool]; ok {
		return mask.Has(required)
	}
	return true
}
