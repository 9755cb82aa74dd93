package scene

import (
	"github.com/Carmen-Shannon/oxy-viewport/common"
	"github.com/go-gl/mathgl/mgl64"
)

// ObjectKind distinguishes the objects an ActiveModel can return from hit tests.
type ObjectKind int

const (
	ObjectPiece ObjectKind = iota
	ObjectLight
	ObjectCamera
)

// Section identifies which part of an object a hit test landed on.
type Section int

const (
	SectionPosition Section = iota
	SectionTarget
	SectionUpVector
	SectionControlPoint
)

// Object is anything in the scene that can be picked.
type Object interface {
	// ID returns the object's unique identifier.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// Kind returns what sort of object this is.
	//
	// Returns:
	//   - ObjectKind: the object kind
	Kind() ObjectKind

	// IsSelected reports whether the object is part of the current selection.
	//
	// Returns:
	//   - bool: true if selected
	IsSelected() bool

	// IsFocused reports whether the object is the selection's focus, the one a plain click
	// on the selection grabs.
	//
	// Returns:
	//   - bool: true if focused
	IsFocused() bool

	// WorldTransform returns the object's local-to-world transform.
	//
	// Returns:
	//   - mgl64.Mat4: the world transform
	WorldTransform() mgl64.Mat4

	// BoundingBox returns the object's bounding box in its local frame.
	//
	// Returns:
	//   - common.BoundingBox: the local bounding box
	BoundingBox() common.BoundingBox
}

// ObjectSection is the result of a ray hit test. Object is nil when nothing was hit.
type ObjectSection struct {
	Object   Object
	Section  Section
	Distance float64
}

// Pivot is the point and orientation the transform gizmo is drawn around. Rotation's columns
// are the gizmo's local X, Y and Z axes in world space.
type Pivot struct {
	Center               mgl64.Vec3
	Rotation             mgl64.Mat3
	ControlPoint         bool
	ControlPointStrength float64
}

// LocalToWorld converts a pivot-local vector to world space.
func (p Pivot) LocalToWorld(v mgl64.Vec3) mgl64.Vec3 {
	return p.Rotation.Mul3x1(v)
}

// WorldToLocal converts a world-space vector to pivot-local axes.
func (p Pivot) WorldToLocal(v mgl64.Vec3) mgl64.Vec3 {
	return p.Rotation.Transpose().Mul3x1(v)
}

// Axis returns the world-space direction of local axis i (0=X, 1=Y, 2=Z).
func (p Pivot) Axis(i int) mgl64.Vec3 {
	return p.Rotation.Col(i)
}

// TransformMask is the set of transforms the focused object accepts.
type TransformMask uint16

const (
	TransformMoveX TransformMask = 1 << iota
	TransformMoveY
	TransformMoveZ
	TransformRotateX
	TransformRotateY
	TransformRotateZ
	TransformScaleX
	TransformScaleY
	TransformScaleZ
)

const (
	TransformMoveAll   = TransformMoveX | TransformMoveY | TransformMoveZ
	TransformRotateAll = TransformRotateX | TransformRotateY | TransformRotateZ
	TransformScaleAll  = TransformScaleX | TransformScaleY | TransformScaleZ
	AllTransforms      = TransformMoveAll | TransformRotateAll | TransformScaleAll
)

// Has reports whether every bit of flags is set.
func (m TransformMask) Has(flags TransformMask) bool {
	return m&flags == flags
}

// HasAny reports whether at least one bit of flags is set.
func (m TransformMask) HasAny(flags TransformMask) bool {
	return m&flags != 0
}

// SelectionMode says how a click or marquee combines with the current selection.
type SelectionMode int

const (
	SelectionReplace SelectionMode = iota
	SelectionAdd
	SelectionToggle
	SelectionRemove
	SelectionFocus
)

// MouseTool groups model edits made during one drag into a single undoable transaction.
type MouseTool int

const (
	MouseToolMove MouseTool = iota
	MouseToolRotate
	MouseToolScale
	MouseToolLight
	MouseToolCamera
	MouseToolOrbit
	MouseToolPan
	MouseToolZoom
	MouseToolRoll
)

var mouseToolNames = [...]string{"Move", "Rotate", "Scale", "Light", "Camera", "Orbit", "Pan", "Zoom", "Roll"}

func (t MouseTool) String() string {
	if int(t) >= 0 && int(t) < len(mouseToolNames) {
		return mouseToolNames[t]
	}
	return "Unknown"
}

// LightKind is the type of light created by the directional light tools.
type LightKind int

const (
	LightPoint LightKind = iota
	LightSpot
	LightDirectional
	LightArea
)

// PieceInfo describes a part that can be inserted.
type PieceInfo struct {
	Name        string
	BoundingBox common.BoundingBox
}

// Placement is the position and orientation computed for a new or moved piece.
type Placement struct {
	Position mgl64.Vec3
	Rotation mgl64.Mat3
}

// Transform returns the placement as a world transform.
func (p Placement) Transform() mgl64.Mat4 {
	m := p.Rotation.Mat4()
	m.SetCol(3, p.Position.Vec4(1))
	return m
}
