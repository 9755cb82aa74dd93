package export

import (
	"context"
	"image"
	"image/color"
	"math"

	"github.com/Carmen-Shannon/oxy-viewport/engine/scene"
)

// TileRenderer draws one tile. Implementations must be safe for concurrent use; the
// exporter renders several tiles at once.
type TileRenderer interface {
	// RenderTile renders tile into a new image of the tile's size.
	//
	// Parameters:
	//   - ctx: cancels the render
	//   - tile: the tile to render
	//
	// Returns:
	//   - *image.NRGBA: the tile image, bounds (0,0)-(Width,Height)
	//   - error: an error if rendering failed
	RenderTile(ctx context.Context, tile Tile) (*image.NRGBA, error)
}

// palette colors pieces by ID. Selected pieces use highlight instead.
var (
	palette = []color.NRGBA{
		{R: 201, G: 26, B: 9, A: 255},
		{R: 0, G: 85, B: 191, A: 255},
		{R: 35, G: 120, B: 65, A: 255},
		{R: 242, G: 205, B: 55, A: 255},
		{R: 160, G: 165, B: 169, A: 255},
		{R: 88, G: 42, B: 18, A: 255},
	}
	highlight = color.NRGBA{R: 255, G: 128, B: 0, A: 255}
)

// RaycastRenderer is a software TileRenderer that shades every pixel by casting its
// pointer ray into the model. It renders flat-colored bounding boxes darkened with depth,
// enough for previews and for testing the tiling.
type RaycastRenderer struct {
	model scene.ActiveModel
}

var _ TileRenderer = &RaycastRenderer{}

// NewRaycastRenderer creates a RaycastRenderer over model.
//
// Parameters:
//   - model: the model to render, must not be nil
//
// Returns:
//   - *RaycastRenderer: the renderer
func NewRaycastRenderer(model scene.ActiveModel) *RaycastRenderer {
	if model == nil {
		panic("export: NewRaycastRenderer requires a model")
	}
	return &RaycastRenderer{model: model}
}

func (r *RaycastRenderer) RenderTile(ctx context.Context, tile Tile) (*image.NRGBA, error) {
	img := image.NewNRGBA(image.Rect(0, 0, tile.Width, tile.Height))
	proj := tile.Projector()

	for py := 0; py < tile.Height; py++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for px := 0; px < tile.Width; px++ {
			// Image rows run top-down, projector rows bottom-up.
			ray, err := proj.PointerRay(float64(px)+0.5, float64(tile.Height-py)-0.5)
			if err != nil {
				return nil, err
			}
			hit := r.model.RayTest(ray, false)
			if hit.Object == nil {
				continue
			}
			depth := hit.Distance / ray.End.Sub(ray.Start).Len()
			img.SetNRGBA(px, py, shade(hit.Object, depth))
		}
	}
	return img, nil
}

func shade(obj scene.Object, depth float64) color.NRGBA {
	c := palette[obj.ID()%uint64(len(palette))]
	if obj.IsSelected() {
		c = highlight
	}
	f := 1 - 0.5*math.Min(math.Max(depth, 0), 1)
	return color.NRGBA{
		R: uint8(float64(c.R) * f),
		G: uint8(float64(c.G) * f),
		B: uint8(float64(c.B) * f),
		A: c.A,
	}
}
