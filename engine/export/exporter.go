package export

import (
	"context"
	"fmt"
	"image"
	"io"
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-viewport/engine/camera"
	"golang.org/x/image/draw"
)

const (
	// queueSize bounds the tasks waiting in the worker pool.
	queueSize = 256

	// DefaultTileSize is the nominal tile edge in pixels.
	DefaultTileSize = 512
	// DefaultWorkers is the number of tiles rendered at once.
	DefaultWorkers = 4
	// MaxSupersample bounds the supersampling factor.
	MaxSupersample = 4
)

// Exporter renders camera views through a TileRenderer at any resolution.
type Exporter interface {
	// Render renders cam at width x height. With supersampling the tiles are rendered at a
	// multiple of the size and the stitched image is scaled down.
	//
	// Parameters:
	//   - ctx: cancels the render
	//   - cam: the camera
	//   - width, height: the output size in pixels
	//
	// Returns:
	//   - *image.NRGBA: the stitched image
	//   - error: an error wrapping ErrInvalidTileSize for bad sizes, or the first tile error
	Render(ctx context.Context, cam camera.Camera, width, height int) (*image.NRGBA, error)

	// Export renders cam and encodes the result to w.
	//
	// Parameters:
	//   - ctx: cancels the render
	//   - cam: the camera
	//   - width, height: the output size in pixels
	//   - w: the destination
	//   - format: the image format
	//
	// Returns:
	//   - error: an error if rendering or encoding failed
	Export(ctx context.Context, cam camera.Camera, width, height int, w io.Writer, format Format) error
}

type exporterImpl struct {
	mu *sync.Mutex

	renderer    TileRenderer
	tileSize    int
	workers     int
	supersample int
	pool        worker.DynamicWorkerPool
}

var _ Exporter = &exporterImpl{}

// NewExporter creates an Exporter drawing tiles with renderer. The exporter's worker pool
// runs for the life of the process, so callers keep one exporter and reuse it.
//
// Parameters:
//   - renderer: the tile renderer, must not be nil
//   - options: functional options to configure the exporter
//
// Returns:
//   - Exporter: the exporter
func NewExporter(renderer TileRenderer, options ...ExporterBuilderOption) Exporter {
	if renderer == nil {
		panic("export: NewExporter requires a tile renderer")
	}
	e := &exporterImpl{
		mu:          &sync.Mutex{},
		renderer:    renderer,
		tileSize:    DefaultTileSize,
		workers:     DefaultWorkers,
		supersample: 1,
	}

	for _, option := range options {
		option(e)
	}

	// Created after the options so WithWorkers can size the pool.
	e.pool = worker.NewDynamicWorkerPool(e.workers, queueSize, 1*time.Second)
	return e
}

func (e *exporterImpl) Render(ctx context.Context, cam camera.Camera, width, height int) (*image.NRGBA, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ss := e.supersample
	tiles, err := Plan(cam, width*ss, height*ss, e.tileSize, e.tileSize)
	if err != nil {
		return nil, err
	}
	log.Printf("[Export] rendering %dx%d (x%d) in %d tiles on %d workers", width, height, ss, len(tiles), e.workers)

	canvas := image.NewNRGBA(image.Rect(0, 0, width*ss, height*ss))
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		errMu    sync.Mutex
		firstErr error
		done     int
	)
	fail := func(err error) {
		errMu.Lock()
		defer errMu.Unlock()
		if firstErr == nil {
			firstErr = err
			cancel()
		}
	}

	start := time.Now()
	slots := make(chan struct{}, queueSize)
	for i, tile := range tiles {
		slots <- struct{}{}
		wg.Add(1)
		t := tile
		e.pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer func() {
					<-slots
					wg.Done()
				}()
				if err := ctx.Err(); err != nil {
					fail(err)
					return nil, err
				}

				img, err := e.renderer.RenderTile(ctx, t)
				if err != nil {
					err = fmt.Errorf("export: tile %d,%d: %w", t.Row, t.Col, err)
					fail(err)
					return nil, err
				}
				if b := img.Bounds(); b.Dx() != t.Width || b.Dy() != t.Height {
					err = fmt.Errorf("export: tile %d,%d is %dx%d, expected %dx%d: %w", t.Row, t.Col, b.Dx(), b.Dy(), t.Width, t.Height, ErrInvalidTileSize)
					fail(err)
					return nil, err
				}

				// Tiles never overlap, so the copies need no lock.
				draw.Draw(canvas, image.Rect(t.X, t.Y, t.X+t.Width, t.Y+t.Height), img, img.Bounds().Min, draw.Src)

				errMu.Lock()
				done++
				errMu.Unlock()
				return nil, nil
			},
		})
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	log.Printf("[Export] rendered %d tiles in %v", done, time.Since(start))

	if ss > 1 {
		return Downsample(canvas, width, height), nil
	}
	return canvas, nil
}

func (e *exporterImpl) Export(ctx context.Context, cam camera.Camera, width, height int, w io.Writer, format Format) error {
	img, err := e.Render(ctx, cam, width, height)
	if err != nil {
		return err
	}
	return Encode(w, img, format)
}

// Downsample scales img to width x height with Catmull-Rom filtering. The filter runs on
// premultiplied alpha so transparent background does not bleed dark fringes into edges.
//
// Parameters:
//   - img: the source image
//   - width, height: the target size
//
// Returns:
//   - *image.NRGBA: the scaled image
func Downsample(img *image.NRGBA, width, height int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return img
	}

	premul := image.NewRGBA(b)
	draw.Draw(premul, b, img, b.Min, draw.Src)

	scaled := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), premul, b, draw.Src, nil)

	out := image.NewNRGBA(scaled.Bounds())
	draw.Draw(out, out.Bounds(), scaled, image.Point{}, draw.Src)
	return out
}
