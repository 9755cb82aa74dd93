package scene

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/Carmen-Shannon/oxy-viewport/common"
	"github.com/Carmen-Shannon/oxy-viewport/engine/camera"
	"github.com/go-gl/mathgl/mgl64"
)

// MemoryModel is an in-memory ActiveModel: pieces are oriented boxes, lights are small
// boxes, and named cameras are kept in a map. It implements the transaction semantics the
// viewport relies on, reverting every edit when a drag is cancelled.
type MemoryModel interface {
	ActiveModel

	// AddPiece adds a piece with the given world transform.
	//
	// Parameters:
	//   - info: the part description
	//   - world: the local-to-world transform
	//
	// Returns:
	//   - *Piece: the new piece
	AddPiece(info PieceInfo, world mgl64.Mat4) *Piece

	// Piece returns the piece with the given ID, or nil.
	Piece(id uint64) *Piece

	// Pieces returns every piece ordered by ID.
	Pieces() []*Piece

	// Lights returns every light ordered by ID.
	Lights() []*Light

	// Cameras returns every named camera ordered by name.
	Cameras() []camera.Camera

	// AddCamera registers a named camera.
	//
	// Returns:
	//   - error: an error if the camera is unnamed or the name is taken
	AddCamera(cam camera.Camera) error

	// Select replaces the selection with the given pieces and focuses the last one.
	Select(ids ...uint64)

	// SetAllowedTransforms restricts the transforms a piece accepts.
	SetAllowedTransforms(id uint64, mask TransformMask)

	// SetControlPoint marks a piece as a control point with the given strength.
	SetControlPoint(id uint64, strength float64)

	// CurrentColor returns the color applied by the paint tool.
	CurrentColor() int
}

type memoryModelImpl struct {
	mu *sync.Mutex

	registry map[uint64]*Piece
	lights   map[uint64]*Light
	cameras  map[string]camera.Camera
	nextID   uint64

	grid     float64
	relative bool
	submodel mgl64.Mat4
	color    int

	tx *transaction
}

// transaction holds what EndMouseTool(accept=false) restores.
type transaction struct {
	tool    MouseTool
	pivot   Pivot
	pieces  map[uint64]mgl64.Mat4
	focus   *Piece
	focusCP float64
	cameras map[camera.Camera]camera.State

	light      *Light
	cameraName string
}

// Compile-time interface compliance check
var _ MemoryModel = &memoryModelImpl{}

// NewMemoryModel creates an empty in-memory model.
//
// Parameters:
//   - options: functional options to configure the model
//
// Returns:
//   - MemoryModel: the new model
func NewMemoryModel(options ...MemoryModelBuilderOption) MemoryModel {
	m := &memoryModelImpl{
		mu:       &sync.Mutex{},
		registry: make(map[uint64]*Piece),
		lights:   make(map[uint64]*Light),
		cameras:  make(map[string]camera.Camera),
		nextID:   1,
		submodel: mgl64.Ident4(),
	}

	for _, option := range options {
		option(m)
	}
	return m
}

// --- model management ---

func (m *memoryModelImpl) AddPiece(info PieceInfo, world mgl64.Mat4) *Piece {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.addPiece(info, world)
}

func (m *memoryModelImpl) Piece(id uint64) *Piece {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.registry[id]
}

func (m *memoryModelImpl) Pieces() []*Piece {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sortedPieces()
}

func (m *memoryModelImpl) Lights() []*Light {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Light, 0, len(m.lights))
	for _, l := range m.lights {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

func (m *memoryModelImpl) Cameras() []camera.Camera {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.cameras))
	for name := range m.cameras {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]camera.Camera, 0, len(names))
	for _, name := range names {
		out = append(out, m.cameras[name])
	}
	return out
}

func (m *memoryModelImpl) AddCamera(cam camera.Camera) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	name := cam.Name()
	if name == "" {
		return fmt.Errorf("scene: cannot add an unnamed camera")
	}
	if _, exists := m.cameras[name]; exists {
		return fmt.Errorf("scene: camera %q already exists", name)
	}
	m.cameras[name] = cam
	return nil
}

func (m *memoryModelImpl) Select(ids ...uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearSelection()
	for _, id := range ids {
		if p, ok := m.registry[id]; ok {
			p.selected = true
			m.setFocus(p)
		}
	}
}

func (m *memoryModelImpl) SetAllowedTransforms(id uint64, mask TransformMask) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.registry[id]; ok {
		p.allowed = mask
	}
}

func (m *memoryModelImpl) SetControlPoint(id uint64, strength float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.registry[id]; ok {
		p.controlPoint = true
		p.strength = strength
	}
}

func (m *memoryModelImpl) CurrentColor() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.color
}

// --- picking ---

func (m *memoryModelImpl) RayTest(ray common.Ray, ignoreSelected bool) ObjectSection {
	m.mu.Lock()
	defer m.mu.Unlock()

	best := ObjectSection{Distance: math.MaxFloat64}
	length := ray.End.Sub(ray.Start).Len()

	for _, p := range m.sortedPieces() {
		if ignoreSelected && p.selected {
			continue
		}
		inv := p.world.Inv()
		local := common.Ray{
			Start: inv.Mul4x1(ray.Start.Vec4(1)).Vec3(),
			End:   inv.Mul4x1(ray.End.Vec4(1)).Vec3(),
		}
		t, _, err := common.RayBoxIntersection(local, p.info.BoundingBox)
		if err != nil {
			continue
		}
		if d := t * length; d < best.Distance {
			best = ObjectSection{Object: p, Section: SectionPosition, Distance: d}
		}
	}

	if best.Object == nil {
		return ObjectSection{}
	}
	return best
}

func (m *memoryModelImpl) FrustumTest(f common.Frustum) []Object {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Object
	for _, p := range m.sortedPieces() {
		if f.IntersectsBox(p.WorldBoundingBox()) {
			out = append(out, p)
		}
	}
	return out
}

// --- selection state ---

func (m *memoryModelImpl) Pivot() (Pivot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pivot()
}

func (m *memoryModelImpl) AnyPiecesSelected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.selectedPieces()) > 0
}

func (m *memoryModelImpl) AnyObjectsSelected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.selectedPieces()) > 0 {
		return true
	}
	for _, l := range m.lights {
		if l.selected {
			return true
		}
	}
	return false
}

func (m *memoryModelImpl) AllowedTransforms() TransformMask {
	m.mu.Lock()
	defer m.mu.Unlock()

	if f := m.focus(); f != nil {
		return f.allowed
	}
	selected := m.selectedPieces()
	if len(selected) == 0 {
		return AllTransforms
	}
	mask := AllTransforms
	for _, p := range selected {
		mask &= p.allowed
	}
	return mask
}

func (m *memoryModelImpl) RelativeTransform() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.relative
}

// --- transactions ---

func (m *memoryModelImpl) BeginMouseTool(tool MouseTool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.begin(tool)
}

func (m *memoryModelImpl) EndMouseTool(tool MouseTool, accept bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := m.tx
	m.tx = nil
	if tx == nil || accept {
		return
	}

	for id, world := range tx.pieces {
		if p, ok := m.registry[id]; ok {
			p.world = world
		}
	}
	if tx.focus != nil {
		tx.focus.strength = tx.focusCP
	}
	for cam, state := range tx.cameras {
		cam.SetState(state)
	}
	if tx.light != nil {
		delete(m.lights, tx.light.id)
	}
	if tx.cameraName != "" {
		delete(m.cameras, tx.cameraName)
	}
}

func (m *memoryModelImpl) UpdateMoveTool(distance mgl64.Vec3, alternateButtonDrag bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tx == nil {
		return
	}
	m.moveSelection(m.tx.pivot.LocalToWorld(m.snapDistance(distance)))
}

func (m *memoryModelImpl) UpdateAnchoredMoveTool(distance mgl64.Vec3, alternateButtonDrag bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tx == nil {
		return
	}
	m.moveSelection(distance)
}

func (m *memoryModelImpl) UpdateRotateTool(angles mgl64.Vec3, alternateButtonDrag bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tx == nil {
		return
	}

	local := mgl64.HomogRotate3DX(mgl64.DegToRad(angles.X())).
		Mul4(mgl64.HomogRotate3DY(mgl64.DegToRad(angles.Y()))).
		Mul4(mgl64.HomogRotate3DZ(mgl64.DegToRad(angles.Z())))
	frame := m.tx.pivot.Rotation.Mat4()
	world := frame.Mul4(local).Mul4(frame.Transpose())

	c := m.tx.pivot.Center
	about := mgl64.Translate3D(c.X(), c.Y(), c.Z()).Mul4(world).Mul4(mgl64.Translate3D(-c.X(), -c.Y(), -c.Z()))
	for id, start := range m.tx.pieces {
		if p, ok := m.registry[id]; ok && p.selected {
			p.world = about.Mul4(start)
		}
	}
}

func (m *memoryModelImpl) UpdateScaleTool(scale float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if f := m.focus(); f != nil && f.controlPoint {
		f.strength = scale
	}
}

func (m *memoryModelImpl) SnapPosition(position mgl64.Vec3) mgl64.Vec3 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapDistance(position)
}

// --- bounds ---

func (m *memoryModelImpl) PiecesBoundingBox() (common.BoundingBox, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return boundsOf(m.sortedPieces())
}

func (m *memoryModelImpl) PieceBoundingBox(obj Object) common.BoundingBox {
	return obj.BoundingBox().Transform(obj.WorldTransform())
}

func (m *memoryModelImpl) SelectionOrModelCenter() mgl64.Vec3 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if box, ok := boundsOf(m.selectedPieces()); ok {
		return box.Center()
	}
	if box, ok := boundsOf(m.sortedPieces()); ok {
		return box.Center()
	}
	return mgl64.Vec3{}
}

func (m *memoryModelImpl) FocusOrSelectionCenter() (mgl64.Vec3, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if f := m.focus(); f != nil {
		return f.Translation(), true
	}
	if box, ok := boundsOf(m.selectedPieces()); ok {
		return box.Center(), true
	}
	return mgl64.Vec3{}, false
}

// --- placement tools ---

func (m *memoryModelImpl) InsertPieceToolClicked(info PieceInfo, placement Placement) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.addPiece(info, placement.Transform())
	m.clearSelection()
	p.selected = true
	m.setFocus(p)
}

func (m *memoryModelImpl) PointLightToolClicked(position mgl64.Vec3) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addLight(LightPoint, position, position)
}

func (m *memoryModelImpl) BeginDirectionalLightTool(position, target mgl64.Vec3, kind LightKind) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.begin(MouseToolLight)
	m.tx.light = m.addLight(kind, position, target)
}

func (m *memoryModelImpl) UpdateDirectionalLightTool(target mgl64.Vec3) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tx != nil && m.tx.light != nil {
		m.tx.light.target = target
	}
}

func (m *memoryModelImpl) BeginCameraTool(position, target mgl64.Vec3) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.begin(MouseToolCamera)

	name := ""
	for i := 1; name == ""; i++ {
		candidate := fmt.Sprintf("Camera %d", i)
		if _, taken := m.cameras[candidate]; !taken {
			name = candidate
		}
	}
	m.cameras[name] = camera.NewCamera(
		camera.WithName(name),
		camera.WithPosition(position),
		camera.WithTarget(target),
	)
	m.tx.cameraName = name
}

func (m *memoryModelImpl) UpdateCameraTool(target mgl64.Vec3) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tx == nil || m.tx.cameraName == "" {
		return
	}
	if cam, ok := m.cameras[m.tx.cameraName]; ok {
		cam.SetTarget(target)
	}
}

// --- click tools ---

func (m *memoryModelImpl) EraserToolClicked(obj Object) {
	if obj == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.registry, obj.ID())
	delete(m.lights, obj.ID())
}

func (m *memoryModelImpl) PaintToolClicked(obj Object) {
	if obj == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.registry[obj.ID()]; ok {
		p.color = m.color
	}
}

func (m *memoryModelImpl) ColorPickerToolClicked(obj Object) {
	if obj == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.registry[obj.ID()]; ok {
		m.color = p.color
	}
}

func (m *memoryModelImpl) SelectionToolClicked(section ObjectSection, mode SelectionMode) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var p *Piece
	if section.Object != nil {
		p = m.registry[section.Object.ID()]
	}

	switch mode {
	case SelectionReplace:
		m.clearSelection()
		if p != nil {
			p.selected = true
			m.setFocus(p)
		}
	case SelectionAdd, SelectionFocus:
		if p != nil {
			p.selected = true
			m.setFocus(p)
		}
	case SelectionToggle:
		if p == nil {
			return
		}
		if p.selected && p.focused {
			p.selected = false
			p.focused = false
		} else {
			p.selected = true
			m.setFocus(p)
		}
	case SelectionRemove:
		if p != nil {
			p.selected = false
			p.focused = false
		}
	}
}

func (m *memoryModelImpl) SelectObjects(objects []Object, mode SelectionMode) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if mode == SelectionReplace {
		m.clearSelection()
	}
	for _, obj := range objects {
		p, ok := m.registry[obj.ID()]
		if !ok {
			continue
		}
		switch mode {
		case SelectionReplace, SelectionAdd, SelectionFocus:
			p.selected = true
		case SelectionToggle:
			p.selected = !p.selected
		case SelectionRemove:
			p.selected = false
		}
		if !p.selected {
			p.focused = false
		}
	}
}

// --- camera tools ---

func (m *memoryModelImpl) UpdateOrbitTool(cam camera.Camera, dx, dy float64) {
	center, ok := m.FocusOrSelectionCenter()
	m.restoreCamera(cam)
	if !ok {
		center = cam.Target()
	}
	cam.Orbit(dx, dy, center)
}

func (m *memoryModelImpl) UpdatePanTool(cam camera.Camera, distance mgl64.Vec3) {
	m.restoreCamera(cam)
	cam.Pan(distance)
}

func (m *memoryModelImpl) UpdateZoomTool(cam camera.Camera, amount float64) {
	m.restoreCamera(cam)
	cam.Zoom(amount)
}

func (m *memoryModelImpl) UpdateRollTool(cam camera.Camera, angle float64) {
	m.restoreCamera(cam)
	cam.Roll(angle)
}

func (m *memoryModelImpl) Zoom(cam camera.Camera, amount float64) {
	cam.Zoom(amount)
}

func (m *memoryModelImpl) ZoomRegionToolClicked(cam camera.Camera, aspect float64, region camera.Region) {
	cam.ZoomRegion(aspect, region)
}

func (m *memoryModelImpl) SetViewpoint(cam camera.Camera, viewpoint camera.Viewpoint) {
	cam.SetViewpoint(viewpoint)
}

func (m *memoryModelImpl) LookAt(cam camera.Camera) {
	center, ok := m.FocusOrSelectionCenter()
	if !ok {
		center = m.SelectionOrModelCenter()
	}
	cam.LookAt(center)
}

func (m *memoryModelImpl) ZoomExtents(cam camera.Camera, aspect float64) {
	box, ok := m.PiecesBoundingBox()
	if !ok {
		return
	}
	cam.ZoomExtents(aspect, box)
}

func (m *memoryModelImpl) Camera(name string) (camera.Camera, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cam, ok := m.cameras[name]
	return cam, ok
}

// --- internal helpers ---
// Callers must hold the mutex unless noted.

func (m *memoryModelImpl) addPiece(info PieceInfo, world mgl64.Mat4) *Piece {
	p := &Piece{id: m.nextID, info: info, world: world, allowed: AllTransforms}
	m.registry[p.id] = p
	m.nextID++
	return p
}

func (m *memoryModelImpl) addLight(kind LightKind, position, target mgl64.Vec3) *Light {
	l := &Light{id: m.nextID, kind: kind, position: position, target: target}
	m.lights[l.id] = l
	m.nextID++
	return l
}

func (m *memoryModelImpl) sortedPieces() []*Piece {
	out := make([]*Piece, 0, len(m.registry))
	for _, p := range m.registry {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

func (m *memoryModelImpl) selectedPieces() []*Piece {
	var out []*Piece
	for _, p := range m.sortedPieces() {
		if p.selected {
			out = append(out, p)
		}
	}
	return out
}

func (m *memoryModelImpl) focus() *Piece {
	for _, p := range m.registry {
		if p.focused && p.selected {
			return p
		}
	}
	return nil
}

func (m *memoryModelImpl) setFocus(p *Piece) {
	for _, other := range m.registry {
		other.focused = false
	}
	p.focused = true
}

func (m *memoryModelImpl) clearSelection() {
	for _, p := range m.registry {
		p.selected = false
		p.focused = false
	}
}

func (m *memoryModelImpl) pivot() (Pivot, bool) {
	var pv Pivot
	if f := m.focus(); f != nil {
		pv.Center = f.Translation()
		pv.Rotation = mgl64.Ident3()
		if m.relative {
			pv.Rotation = f.Rotation()
		}
		pv.ControlPoint = f.controlPoint
		pv.ControlPointStrength = f.strength
	} else {
		box, ok := boundsOf(m.selectedPieces())
		if !ok {
			return Pivot{}, false
		}
		pv.Center = box.Center()
		pv.Rotation = mgl64.Ident3()
	}

	pv.Center = m.submodel.Mul4x1(pv.Center.Vec4(1)).Vec3()
	pv.Rotation = m.submodel.Mat3().Mul3(pv.Rotation)
	return pv, true
}

func (m *memoryModelImpl) begin(tool MouseTool) {
	pv, _ := m.pivot()
	tx := &transaction{
		tool:    tool,
		pivot:   pv,
		pieces:  make(map[uint64]mgl64.Mat4, len(m.registry)),
		cameras: make(map[camera.Camera]camera.State),
	}
	for id, p := range m.registry {
		tx.pieces[id] = p.world
	}
	if f := m.focus(); f != nil {
		tx.focus = f
		tx.focusCP = f.strength
	}
	m.tx = tx
}

func (m *memoryModelImpl) moveSelection(world mgl64.Vec3) {
	for id, start := range m.tx.pieces {
		p, ok := m.registry[id]
		if !ok || !p.selected {
			continue
		}
		moved := start
		moved.SetCol(3, start.Col(3).Vec3().Add(world).Vec4(1))
		p.world = moved
	}
}

func (m *memoryModelImpl) snapDistance(v mgl64.Vec3) mgl64.Vec3 {
	if m.grid <= 0 {
		return v
	}
	for i := range v {
		v[i] = math.Round(v[i]/m.grid) * m.grid
	}
	return v
}

// restoreCamera records cam's state the first time a transaction touches it and restores
// that state on later calls, so camera drags always apply totals from the drag start.
// Takes the mutex itself.
func (m *memoryModelImpl) restoreCamera(cam camera.Camera) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tx == nil {
		return
	}
	if state, ok := m.tx.cameras[cam]; ok {
		cam.SetState(state)
		return
	}
	m.tx.cameras[cam] = cam.State()
}

func boundsOf(pieces []*Piece) (common.BoundingBox, bool) {
	if len(pieces) == 0 {
		return common.BoundingBox{}, false
	}
	box := pieces[0].WorldBoundingBox()
	for _, p := range pieces[1:] {
		box = box.Union(p.WorldBoundingBox())
	}
	return box, true
}
