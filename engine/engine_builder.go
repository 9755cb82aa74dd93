package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-viewport/engine/config"
	"github.com/Carmen-Shannon/oxy-viewport/engine/profiler"
	"github.com/Carmen-Shannon/oxy-viewport/engine/scene"
	"github.com/Carmen-Shannon/oxy-viewport/engine/surface"
	"github.com/Carmen-Shannon/oxy-viewport/engine/viewport"
	"github.com/Carmen-Shannon/oxy-viewport/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfiler replaces the default profiler.
//
// Parameters:
//   - p: the profiler
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
	}
}

// WithTickRate sets the engine tick rate in frames per second.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			fps = 60.0
		}
		e.engineTickRate = time.Duration(float64(time.Second) / fps)
	}
}

// WithWindow sets the window whose input drives the main viewport.
// Without a window the engine runs headless.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithModel sets the model the viewports edit.
//
// Parameters:
//   - model: the active model
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithModel(model scene.ActiveModel) EngineBuilderOption {
	return func(e *engine) {
		e.model = model
	}
}

// WithPreferences replaces the default preferences. They are validated by NewEngine.
//
// Parameters:
//   - prefs: the preferences
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithPreferences(prefs config.Preferences) EngineBuilderOption {
	return func(e *engine) {
		e.prefs = prefs
	}
}

// WithViewportOptions adds options for the main viewport, applied after the
// preference-derived ones.
//
// Parameters:
//   - options: the viewport options
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithViewportOptions(options ...viewport.ViewportBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.viewOptions = append(e.viewOptions, options...)
	}
}

// WithManager sets the viewport manager, for sharing focus and cameras with viewports the
// engine does not own.
//
// Parameters:
//   - m: the manager
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithManager(m viewport.Manager) EngineBuilderOption {
	return func(e *engine) {
		if m != nil {
			e.manager = m
		}
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per second.
// Pass 0 to uncap the render loop (default).
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			e.renderFrameLimit = 0
			return
		}
		e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
	}
}

// WithSurfaceOptions configures the WebGPU surface created for the window.
//
// Parameters:
//   - options: the surface options
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithSurfaceOptions(options ...surface.SurfaceBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.surfaceOptions = append(e.surfaceOptions, options...)
	}
}

// WithPreviewScale renders window frames at 1/scale of the viewport size; the surface
// stretches them back up. Values below 1 are treated as 1.
//
// Parameters:
//   - scale: the divisor
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithPreviewScale(scale int) EngineBuilderOption {
	return func(e *engine) {
		e.previewScale = max(scale, 1)
	}
}
