package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// OrthoFarScale widens the far plane of orthographic projections so that distant content is
// not clipped.
const OrthoFarScale = 4.0

// ProjectionMatrix builds the projection for cam rendered into a viewport of the given size.
// Orthographic cameras use a view volume OrthoHeight tall with the viewport's aspect ratio
// and a far plane scaled by OrthoFarScale. Callers guarantee width and height >= 1.
//
// Parameters:
//   - cam: the camera
//   - width: viewport width in pixels
//   - height: viewport height in pixels
//
// Returns:
//   - mgl64.Mat4: the projection matrix (column-major, OpenGL clip space)
func ProjectionMatrix(cam Camera, width, height int) mgl64.Mat4 {
	s := cam.State()
	aspect := float64(width) / float64(height)

	if s.Ortho {
		halfH := s.OrthoHeight / 2
		halfW := halfH * aspect
		return mgl64.Ortho(-halfW, halfW, -halfH, halfH, s.ZNear, s.ZFar*OrthoFarScale)
	}
	return mgl64.Perspective(mgl64.DegToRad(s.FOV), aspect, s.ZNear, s.ZFar)
}

// TileProjectionMatrix builds the off-axis projection for one tile of a larger image. Row 0
// is the top row of the image. Edge tiles use the remaining width and height rather than the
// nominal tile size, so stitching every tile reproduces the full-image projection exactly.
//
// Parameters:
//   - cam: the camera
//   - imageW, imageH: size of the full image in pixels
//   - row, col: the tile's row and column
//   - tileW, tileH: nominal tile size in pixels
//
// Returns:
//   - mgl64.Mat4: the tile's projection matrix
func TileProjectionMatrix(cam Camera, imageW, imageH, row, col, tileW, tileH int) mgl64.Mat4 {
	s := cam.State()
	aspect := float64(imageW) / float64(imageH)

	var top float64
	far := s.ZFar
	if s.Ortho {
		top = s.OrthoHeight / 2
		far *= OrthoFarScale
	} else {
		top = math.Tan(mgl64.DegToRad(s.FOV)/2) * s.ZNear
	}
	bottom := -top
	right := top * aspect
	left := -right

	x, y, w, h := TileRect(imageW, imageH, row, col, tileW, tileH)

	tileLeft := left + (right-left)*float64(x)/float64(imageW)
	tileRight := left + (right-left)*float64(x+w)/float64(imageW)
	tileTop := top - (top-bottom)*float64(y)/float64(imageH)
	tileBottom := top - (top-bottom)*float64(y+h)/float64(imageH)

	if s.Ortho {
		return mgl64.Ortho(tileLeft, tileRight, tileBottom, tileTop, s.ZNear, far)
	}
	return mgl64.Frustum(tileLeft, tileRight, tileBottom, tileTop, s.ZNear, far)
}

// TileCount returns the number of tile rows and columns needed to cover an image.
//
// Parameters:
//   - imageW, imageH: size of the full image in pixels
//   - tileW, tileH: nominal tile size in pixels, both >= 1
//
// Returns:
//   - int: number of rows
//   - int: number of columns
func TileCount(imageW, imageH, tileW, tileH int) (int, int) {
	return (imageH + tileH - 1) / tileH, (imageW + tileW - 1) / tileW
}

// TileRect returns the pixel rectangle of a tile inside the full image, with a top-left
// origin. Edge tiles are clipped to the image.
//
// Parameters:
//   - imageW, imageH: size of the full image in pixels
//   - row, col: the tile's row and column
//   - tileW, tileH: nominal tile size in pixels
//
// Returns:
//   - x, y: top-left corner of the tile
//   - w, h: the tile's true width and height
func TileRect(imageW, imageH, row, col, tileW, tileH int) (x, y, w, h int) {
	x = col * tileW
	y = row * tileH
	w = min(tileW, imageW-x)
	h = min(tileH, imageH-y)
	return x, y, w, h
}
