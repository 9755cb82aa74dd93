// Package export renders a camera view at an arbitrary resolution by splitting the image
// into tiles, rendering the tiles concurrently and stitching the result.
package export

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-viewport/common"
	"github.com/Carmen-Shannon/oxy-viewport/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewport/engine/projection"
	"github.com/go-gl/mathgl/mgl64"
)

// ErrInvalidTileSize is returned when an image or tile dimension is below one pixel.
var ErrInvalidTileSize = errors.New("invalid tile size")

// Tile is one piece of a tiled render. X and Y locate the tile inside the full image with
// a top-left origin; Width and Height are the tile's true size, smaller than the nominal
// size on the right and bottom edges.
type Tile struct {
	Row, Col      int
	X, Y          int
	Width, Height int

	View       mgl64.Mat4
	Projection mgl64.Mat4
}

// Projector returns the projector that maps the tile's own pixels, bottom-left origin.
func (t Tile) Projector() projection.Projector {
	return projection.Projector{
		View:       t.View,
		Projection: t.Projection,
		Viewport:   common.Rect{Width: t.Width, Height: t.Height},
	}
}

// Plan splits a width x height render of cam into tiles of at most tileW x tileH pixels,
// ordered row by row from the top-left corner.
//
// Parameters:
//   - cam: the camera
//   - width, height: the full image size in pixels
//   - tileW, tileH: the nominal tile size in pixels
//
// Returns:
//   - []Tile: the tiles
//   - error: an error wrapping ErrInvalidTileSize if any size is below 1
func Plan(cam camera.Camera, width, height, tileW, tileH int) ([]Tile, error) {
	if width < 1 || height < 1 || tileW < 1 || tileH < 1 {
		return nil, fmt.Errorf("export: plan %dx%d in %dx%d tiles: %w", width, height, tileW, tileH, ErrInvalidTileSize)
	}

	view := cam.ViewMatrix()
	rows, cols := camera.TileCount(width, height, tileW, tileH)
	tiles := make([]Tile, 0, rows*cols)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			x, y, w, h := camera.TileRect(width, height, row, col, tileW, tileH)
			tiles = append(tiles, Tile{
				Row:        row,
				Col:        col,
				X:          x,
				Y:          y,
				Width:      w,
				Height:     h,
				View:       view,
				Projection: camera.TileProjectionMatrix(cam, width, height, row, col, tileW, tileH),
			})
		}
	}
	return tiles, nil
}
