package engine

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-viewport/engine/config"
	"github.com/Carmen-Shannon/oxy-viewport/engine/export"
	"github.com/Carmen-Shannon/oxy-viewport/engine/profiler"
	"github.com/Carmen-Shannon/oxy-viewport/engine/scene"
	"github.com/Carmen-Shannon/oxy-viewport/engine/surface"
	"github.com/Carmen-Shannon/oxy-viewport/engine/viewport"
	"github.com/Carmen-Shannon/oxy-viewport/engine/window"
)

// ErrNoViewport is returned by Export when every viewport has been closed.
var ErrNoViewport = errors.New("no viewport")

// engine implements the Engine interface.
// Coordinates the tick loop, the redraw loop and the window's event pump.
type engine struct {
	mu              *sync.Mutex
	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running atomic.Bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window         window.Window
	router         *window.InputRouter
	surface        surface.Surface
	surfaceOptions []surface.SurfaceBuilderOption

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32)

	prefs       config.Preferences
	model       scene.ActiveModel
	manager     viewport.Manager
	view        viewport.Viewport
	viewOptions []viewport.ViewportBuilderOption
	needsRedraw atomic.Bool
	exp         export.Exporter // created by the first Export, reused after

	frameRenderer *export.RaycastRenderer
	previewScale  int // window frames render at 1/previewScale of the viewport size

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// Engine is the main entry point of an editing session.
// It owns the model, the viewport manager and the main viewport, routes window input to the
// focused viewport and runs the tick and redraw loops.
type Engine interface {
	// Window returns the underlying window, or nil when running headless.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Model returns the model every viewport edits.
	//
	// Returns:
	//   - scene.ActiveModel: the model
	Model() scene.ActiveModel

	// Manager returns the viewport manager.
	//
	// Returns:
	//   - viewport.Manager: the manager
	Manager() viewport.Manager

	// Viewport returns the main viewport, the one bound to the window.
	//
	// Returns:
	//   - viewport.Viewport: the viewport
	Viewport() viewport.Viewport

	// Preferences returns the preferences the engine was built with.
	//
	// Returns:
	//   - config.Preferences: the preferences
	Preferences() config.Preferences

	// AddViewport opens another viewport on the same model with the engine's preferences.
	// It shares the main viewport's camera until one of them navigates.
	//
	// Parameters:
	//   - options: extra viewport options, applied after the preference-derived ones
	//
	// Returns:
	//   - viewport.Viewport: the new viewport
	AddViewport(options ...viewport.ViewportBuilderOption) viewport.Viewport

	// Surface returns the WebGPU surface presenting the main viewport, or nil when running
	// headless.
	//
	// Returns:
	//   - surface.Surface: the surface
	Surface() surface.Surface

	// RequestRedraw marks the viewport as needing a repaint on the next render frame.
	RequestRedraw()

	// RenderFrame renders the main viewport's current view with the preview renderer, at the
	// viewport size divided by the preview scale. With a window every repaint presents this
	// frame on the surface before the render callback runs.
	//
	// Parameters:
	//   - ctx: cancels the render
	//
	// Returns:
	//   - *image.NRGBA: the frame, top row first
	//   - error: an error from planning or rendering the frame
	RenderFrame(ctx context.Context) (*image.NRGBA, error)

	// Export renders the focused viewport's camera at width x height and encodes the image
	// to w using the export preferences.
	//
	// Parameters:
	//   - ctx: cancels the render
	//   - width, height: the output size in pixels
	//   - w: the destination
	//
	// Returns:
	//   - error: ErrNoViewport, or an error from rendering or encoding
	Export(ctx context.Context, width, height int, w io.Writer) error

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in frames per second.
	//
	// Parameters:
	//   - fps: target frames per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each engine tick.
	//
	// Parameters:
	//   - callback: function to call at the configured tick rate, receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called for each frame that needs a repaint.
	//
	// Parameters:
	//   - callback: function to call each repainted frame, receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop.
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run starts the loops and blocks until the window closes, or until Quit when headless.
	Run()

	// Quit signals all engine goroutines to stop.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
// Without WithModel the engine edits an empty MemoryModel configured from the preferences.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
//   - error: an error if the preferences fail validation
func NewEngine(options ...EngineBuilderOption) (Engine, error) {
	e := &engine{
		mu:               &sync.Mutex{},
		tickRateChannel:  make(chan time.Duration, 1),
		quitChannel:      make(chan struct{}),
		wg:               sync.WaitGroup{},
		profilingEnabled: false,
		engineTickRate:   time.Second / 60,
		prefs:            config.Default(),
		manager:          viewport.NewManager(),
		previewScale:     1,
	}

	for _, opt := range options {
		opt(e)
	}

	if err := e.prefs.Validate(); err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler()
	}
	if e.model == nil {
		e.model = scene.NewMemoryModel(ModelOptions(e.prefs)...)
	}

	viewOptions, err := ViewportOptions(e.prefs)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	viewOptions = append(viewOptions, viewport.WithRedrawHandler(e.RequestRedraw))
	viewOptions = append(viewOptions, e.viewOptions...)
	e.view = viewport.NewViewport(e.manager, e.model, viewOptions...)

	e.frameRenderer = export.NewRaycastRenderer(e.model)

	if e.window != nil {
		e.router = window.Bind(e.window, e.view)
		surf, err := surface.NewSurface(e.window, e.surfaceOptions...)
		if err != nil {
			e.view.Close()
			return nil, fmt.Errorf("engine: %w", err)
		}
		e.surface = surf
		e.window.SetResizeCallback(func(width, height int) {
			e.router.Resize(width, height)
			e.surface.Resize(width, height)
		})
	}
	e.needsRedraw.Store(true)

	return e, nil
}

// ViewportOptions converts preferences into viewport options.
//
// Parameters:
//   - prefs: the preferences
//
// Returns:
//   - []viewport.ViewportBuilderOption: the options
//   - error: an error if the mouse shortcuts do not parse
func ViewportOptions(prefs config.Preferences) ([]viewport.ViewportBuilderOption, error) {
	bindings, err := prefs.Bindings()
	if err != nil {
		return nil, err
	}
	return []viewport.ViewportBuilderOption{
		viewport.WithBindings(bindings),
		viewport.WithMouseSensitivity(prefs.MouseSensitivity),
		viewport.WithWheelSteps(prefs.WheelStep, prefs.WheelStepFast),
		viewport.WithDebugLogging(prefs.Debug),
	}, nil
}

// ModelOptions converts preferences into options for the default MemoryModel.
//
// Parameters:
//   - prefs: the preferences
//
// Returns:
//   - []scene.MemoryModelBuilderOption: the options
func ModelOptions(prefs config.Preferences) []scene.MemoryModelBuilderOption {
	return []scene.MemoryModelBuilderOption{
		scene.WithGridSize(prefs.GridSize),
		scene.WithRelativeTransform(prefs.RelativeTransform),
	}
}

// ExporterOptions converts the export preferences into exporter options and the output format.
//
// Parameters:
//   - prefs: the preferences
//
// Returns:
//   - []export.ExporterBuilderOption: the options
//   - export.Format: the encoding
//   - error: an error if the format name is unknown
func ExporterOptions(prefs config.Preferences) ([]export.ExporterBuilderOption, export.Format, error) {
	format, err := export.ParseFormat(prefs.Export.Format)
	if err != nil {
		return nil, 0, err
	}
	return []export.ExporterBuilderOption{
		export.WithTileSize(prefs.Export.TileSize),
		export.WithWorkers(prefs.Export.Workers),
		export.WithSupersample(prefs.Export.Supersample),
	}, format, nil
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Model() scene.ActiveModel {
	return e.model
}

func (e *engine) Manager() viewport.Manager {
	return e.manager
}

func (e *engine) Viewport() viewport.Viewport {
	return e.view
}

func (e *engine) Preferences() config.Preferences {
	return e.prefs
}

func (e *engine) AddViewport(options ...viewport.ViewportBuilderOption) viewport.Viewport {
	// Preferences were validated in NewEngine.
	viewOptions, _ := ViewportOptions(e.prefs)
	viewOptions = append(viewOptions,
		viewport.WithCamera(e.view.Camera()),
		viewport.WithRedrawHandler(e.RequestRedraw),
	)
	viewOptions = append(viewOptions, options...)
	return viewport.NewViewport(e.manager, e.model, viewOptions...)
}

func (e *engine) Surface() surface.Surface {
	return e.surface
}

func (e *engine) RenderFrame(ctx context.Context) (*image.NRGBA, error) {
	e.mu.Lock()
	scale := e.previewScale
	e.mu.Unlock()

	size := e.view.Size()
	width, height := max(size.Width/scale, 1), max(size.Height/scale, 1)
	tiles, err := export.Plan(e.view.Camera().Clone(), width, height, width, height)
	if err != nil {
		return nil, fmt.Errorf("engine: frame: %w", err)
	}
	return e.frameRenderer.RenderTile(ctx, tiles[0])
}

// present renders the main viewport and shows it on the surface.
func (e *engine) present() {
	frame, err := e.RenderFrame(context.Background())
	if err == nil {
		err = e.surface.Present(frame)
	}
	if err != nil {
		log.Printf("[Engine] present: %v", err)
	}
}

func (e *engine) RequestRedraw() {
	e.needsRedraw.Store(true)
}

func (e *engine) Export(ctx context.Context, width, height int, w io.Writer) error {
	focused := e.manager.Focused()
	if focused == nil {
		return fmt.Errorf("engine: export: %w", ErrNoViewport)
	}
	exp, format, err := e.exporter()
	if err != nil {
		return fmt.Errorf("engine: export: %w", err)
	}

	// Render from a snapshot so navigation during the export does not tear tiles.
	if err := exp.Export(ctx, focused.Camera().Clone(), width, height, w, format); err != nil {
		return fmt.Errorf("engine: export: %w", err)
	}
	return nil
}

// exporter returns the engine's exporter, creating it and its worker pool on first use.
func (e *engine) exporter() (export.Exporter, export.Format, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	exportOptions, format, err := ExporterOptions(e.prefs)
	if err != nil {
		return nil, 0, err
	}
	if e.exp == nil {
		e.exp = export.NewExporter(export.NewRaycastRenderer(e.model), exportOptions...)
	}
	return e.exp, format, nil
}

// Run starts the loops. With a window it pumps window messages on the calling goroutine
// until the window closes or Quit is called; headless it blocks until Quit.
func (e *engine) Run() {
	e.running.Store(true)
	e.handle()
	if e.window != nil {
		e.pumpWindow()
	} else {
		<-e.quitChannel
	}
	e.wg.Wait()
	e.view.Close()
	if e.surface != nil {
		e.surface.Release()
	}
}

// pumpWindow runs the window's message loop. The window is created, polled and destroyed on
// the calling goroutine only.
func (e *engine) pumpWindow() {
	closed := false
	e.window.SetUpdateCallback(func() {
		select {
		case <-e.quitChannel:
			if !closed {
				closed = true
				if err := e.window.Close(); err != nil {
					log.Printf("[Engine] closing window: %v", err)
				}
			}
		default:
		}
	})
	e.window.ProcessMessages()
	e.signalQuit()
	if !closed {
		if err := e.window.Close(); err != nil {
			log.Printf("[Engine] closing window: %v", err)
		}
	}
}

// Quit signals all engine goroutines to stop and shuts down the engine.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.running.Store(false)
		close(e.quitChannel)
	})
}

// handle launches the tick and render goroutines.
// Each goroutine is tracked by the engine's WaitGroup.
func (e *engine) handle() {
	e.wg.Add(2)
	go e.handleEngine()
	go e.handleRender()
}

// handleEngine runs the fixed-rate engine tick loop in its own goroutine.
// Fires the tick callback at the configured tick rate and listens for dynamic rate changes
// via tickRateChannel. Exits when the quit channel is closed.
func (e *engine) handleEngine() {
	defer e.wg.Done()

	e.mu.Lock()
	rate := e.engineTickRate
	e.mu.Unlock()
	ticker := time.NewTicker(rate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			e.mu.Lock()
			callback := e.tickCallback
			e.mu.Unlock()
			if callback != nil {
				callback(dt)
			}
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.mu.Lock()
			e.engineTickRate = newRate
			e.mu.Unlock()
		}
	}
}

// handleRender runs the redraw loop in its own goroutine. Frames only call the render
// callback when a viewport asked for a repaint since the previous frame.
// Recovers from panics to avoid crashing the process and signals quit on recovery.
func (e *engine) handleRender() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Engine] render goroutine recovered from panic: %v", r)
			e.signalQuit()
		}
	}()

	lastRender := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
			frameStart := time.Now()
			dt := float32(frameStart.Sub(lastRender).Seconds())

			e.mu.Lock()
			callback := e.renderCallback
			profiling := e.profilingEnabled
			limit := e.renderFrameLimit
			e.mu.Unlock()

			redrawn := e.needsRedraw.Swap(false)
			if redrawn {
				lastRender = frameStart
				if e.surface != nil {
					e.present()
				}
				if callback != nil {
					callback(dt)
				}
			}

			if profiling {
				e.profiler.Tick(redrawn)
			}

			// Frame rate limiting. An uncapped loop still yields between idle frames.
			if limit <= 0 && !redrawn {
				limit = time.Millisecond
			}
			if remaining := limit - time.Since(frameStart); remaining > 0 {
				time.Sleep(remaining)
			}
		}
	}
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = false
}

// SetTickRate sets the engine tick rate in frames per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Duration(float64(time.Second) / fps)

	if e.running.Load() {
		// Non-blocking send - if channel is full, replace the pending value
		select {
		case e.tickRateChannel <- newRate:
		default:
			select {
			case <-e.tickRateChannel:
			default:
			}
			e.tickRateChannel <- newRate
		}
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.engineTickRate = newRate
}

// SetTickCallback registers the function called each engine tick.
func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tickCallback = callback
}

// SetRenderCallback registers the function called each repainted frame.
func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.renderCallback = callback
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}
