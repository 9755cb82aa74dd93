package scene

import (
	"github.com/Carmen-Shannon/oxy-viewport/common"
	"github.com/go-gl/mathgl/mgl64"
)

// Piece is a part instance held by a MemoryModel. Its fields are only modified by the model
// that owns it.
type Piece struct {
	id       uint64
	info     PieceInfo
	world    mgl64.Mat4
	color    int
	selected bool
	focused  bool
	allowed  TransformMask

	controlPoint bool
	strength     float64
}

var _ Object = &Piece{}

func (p *Piece) ID() uint64                       { return p.id }
func (p *Piece) Kind() ObjectKind                 { return ObjectPiece }
func (p *Piece) IsSelected() bool                 { return p.selected }
func (p *Piece) IsFocused() bool                  { return p.focused }
func (p *Piece) WorldTransform() mgl64.Mat4       { return p.world }
func (p *Piece) BoundingBox() common.BoundingBox  { return p.info.BoundingBox }
func (p *Piece) Info() PieceInfo                  { return p.info }
func (p *Piece) Color() int                       { return p.color }
func (p *Piece) AllowedTransforms() TransformMask { return p.allowed }
func (p *Piece) ControlPointStrength() float64    { return p.strength }

// Translation returns the world position of the piece's origin.
func (p *Piece) Translation() mgl64.Vec3 {
	return p.world.Col(3).Vec3()
}

// Rotation returns the rotation part of the piece's world transform.
func (p *Piece) Rotation() mgl64.Mat3 {
	return p.world.Mat3()
}

// WorldBoundingBox returns the axis-aligned world box around the piece.
func (p *Piece) WorldBoundingBox() common.BoundingBox {
	return p.info.BoundingBox.Transform(p.world)
}

// Light is a light source held by a MemoryModel.
type Light struct {
	id       uint64
	kind     LightKind
	position mgl64.Vec3
	target   mgl64.Vec3
	selected bool
}

var _ Object = &Light{}

// lightExtent is the half size of the box used to pick lights.
const lightExtent = 5.0

func (l *Light) ID() uint64           { return l.id }
func (l *Light) Kind() ObjectKind     { return ObjectLight }
func (l *Light) IsSelected() bool     { return l.selected }
func (l *Light) IsFocused() bool      { return false }
func (l *Light) LightKind() LightKind { return l.kind }
func (l *Light) Position() mgl64.Vec3 { return l.position }
func (l *Light) Target() mgl64.Vec3   { return l.target }

func (l *Light) WorldTransform() mgl64.Mat4 {
	return mgl64.Translate3D(l.position.X(), l.position.Y(), l.position.Z())
}

func (l *Light) BoundingBox() common.BoundingBox {
	e := mgl64.Vec3{lightExtent, lightExtent, lightExtent}
	return common.BoundingBox{Min: e.Mul(-1), Max: e}
}
