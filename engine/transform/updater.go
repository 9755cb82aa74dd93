package transform

import (
	"fmt"
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-viewport/common"
	"github.com/Carmen-Shannon/oxy-viewport/engine/projection"
	"github.com/Carmen-Shannon/oxy-viewport/engine/scene"
	"github.com/Carmen-Shannon/oxy-viewport/engine/tracktool"
	"github.com/go-gl/mathgl/mgl64"
)

// DefaultMouseSensitivity is the sensitivity setting used when none is configured.
const DefaultMouseSensitivity = 11

// Updater applies the model-editing part of a drag on every pointer move.
type Updater interface {
	// Update recomputes the total edit from the session's mouse-down pointer to (x, y) and
	// reports it to the model. Camera navigation track tools are ignored.
	//
	// Parameters:
	//   - session: the drag in progress
	//   - proj: the viewport projector
	//   - x, y: the current pointer position in viewport pixels
	//
	// Returns:
	//   - error: an error wrapping common.ErrNoIntersection or projection.ErrSingularMatrix
	//     when the frame was skipped
	Update(session tracktool.DragSession, proj projection.Projector, x, y float64) error

	// SetMouseSensitivity changes the 1-20 sensitivity setting.
	//
	// Parameters:
	//   - setting: the user setting, clamped to [1, 20]
	SetMouseSensitivity(setting int)

	// Sensitivity returns the drag multiplier derived from the setting.
	//
	// Returns:
	//   - float64: the multiplier
	Sensitivity() float64
}

type updaterImpl struct {
	mu          *sync.Mutex
	model       scene.ActiveModel
	sensitivity float64
	debug       bool
}

var _ Updater = &updaterImpl{}

// NewUpdater creates an Updater that edits model.
//
// Parameters:
//   - model: the active model, must not be nil
//   - options: functional options to configure the updater
//
// Returns:
//   - Updater: the updater
func NewUpdater(model scene.ActiveModel, options ...UpdaterBuilderOption) Updater {
	if model == nil {
		panic("transform: NewUpdater requires a model")
	}

	u := &updaterImpl{
		mu:          &sync.Mutex{},
		model:       model,
		sensitivity: MouseSensitivity(DefaultMouseSensitivity),
	}

	for _, option := range options {
		option(u)
	}
	return u
}

func (u *updaterImpl) SetMouseSensitivity(setting int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.sensitivity = MouseSensitivity(setting)
}

func (u *updaterImpl) Sensitivity() float64 {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.sensitivity
}

func (u *updaterImpl) Update(session tracktool.DragSession, proj projection.Projector, x, y float64) error {
	err := u.update(session, proj, x, y)
	if err != nil && u.debug {
		log.Printf("[Transform] skipped %v update at (%.1f, %.1f): %v", session.Tool, x, y, err)
	}
	return err
}

func (u *updaterImpl) update(session tracktool.DragSession, proj projection.Projector, x, y float64) error {
	tool := session.Tool
	alt := session.AlternateButton()

	current, err := proj.PointerRay(x, y)
	if err != nil {
		return fmt.Errorf("transform: pointer ray: %w", err)
	}

	switch {
	case tool == tracktool.TrackToolMoveXYZ && session.Anchor != nil:
		info := scene.PieceInfo{BoundingBox: session.Anchor.Object.BoundingBox()}
		placement, err := InsertTransform(u.model, proj, info, x, y, true)
		if err != nil {
			return err
		}
		u.model.UpdateAnchoredMoveTool(placement.Position.Sub(session.Anchor.Translation), alt)
		return nil

	case tool.IsMove(), tool.IsScale():
		down, err := proj.PointerRay(session.DownX, session.DownY)
		if err != nil {
			return fmt.Errorf("transform: mouse-down ray: %w", err)
		}
		if tool.IsScale() {
			value, err := ScaleValue(tool, session.Pivot, down, current)
			if err != nil {
				return err
			}
			u.model.UpdateScaleTool(value)
			return nil
		}
		delta, err := moveDelta(session, down, current)
		if err != nil {
			return err
		}
		u.model.UpdateMoveTool(delta, alt)
		return nil

	case tool.IsRotate():
		right, up := session.Camera.ScreenAxes()
		angles := RotateDelta(tool, session.Pivot, right, up, session.Camera.ViewDirection(), x-session.DownX, y-session.DownY, u.Sensitivity())
		u.model.UpdateRotateTool(angles, alt)
		return nil

	case tool == tracktool.TrackToolSpotLight, tool == tracktool.TrackToolDirectionalLight, tool == tracktool.TrackToolAreaLight:
		u.model.UpdateDirectionalLightTool(CameraLightInsertPosition(u.model, current))
		return nil

	case tool == tracktool.TrackToolCamera:
		u.model.UpdateCameraTool(CameraLightInsertPosition(u.model, current))
		return nil
	}
	return nil
}

func moveDelta(session tracktool.DragSession, down, current common.Ray) (mgl64.Vec3, error) {
	switch session.Tool {
	case tracktool.TrackToolMoveX:
		return AxisMoveDelta(session.Pivot, 0, down, current)
	case tracktool.TrackToolMoveY:
		return AxisMoveDelta(session.Pivot, 1, down, current)
	case tracktool.TrackToolMoveZ:
		return AxisMoveDelta(session.Pivot, 2, down, current)
	case tracktool.TrackToolMoveYZ:
		return PlaneMoveDelta(session.Pivot, 0, down, current)
	case tracktool.TrackToolMoveXZ:
		return PlaneMoveDelta(session.Pivot, 1, down, current)
	case tracktool.TrackToolMoveXY:
		return PlaneMoveDelta(session.Pivot, 2, down, current)
	}
	return FreeMoveDelta(session.Pivot, session.Camera.ViewDirection(), down, current)
}
