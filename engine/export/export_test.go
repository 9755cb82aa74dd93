package export

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-viewport/common"
	"github.com/Carmen-Shannon/oxy-viewport/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewport/engine/projection"
	"github.com/Carmen-Shannon/oxy-viewport/engine/scene"
	"github.com/go-gl/mathgl/mgl64"
)

func frontCamera(options ...camera.CameraBuilderOption) camera.Camera {
	return camera.NewCamera(append([]camera.CameraBuilderOption{
		camera.WithPosition(mgl64.Vec3{0, 0, -500}),
		camera.WithUp(mgl64.Vec3{0, 1, 0}),
	}, options...)...)
}

// tileColor encodes a tile's row and column so stitched output can be checked.
func tileColor(row, col int) color.NRGBA {
	return color.NRGBA{R: uint8(row * 10), G: uint8(col * 10), B: 200, A: 255}
}

type fillRenderer struct {
	mu    sync.Mutex
	calls int
	fail  func(Tile) error
	size  func(Tile) (int, int)
}

func (r *fillRenderer) RenderTile(ctx context.Context, tile Tile) (*image.NRGBA, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()

	if r.fail != nil {
		if err := r.fail(tile); err != nil {
			return nil, err
		}
	}
	w, h := tile.Width, tile.Height
	if r.size != nil {
		w, h = r.size(tile)
	}
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	c := tileColor(tile.Row, tile.Col)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img, nil
}

func TestPlanCoversImage(t *testing.T) {
	tiles, err := Plan(frontCamera(), 1000, 700, 256, 256)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if len(tiles) != 12 {
		t.Fatalf("Plan failed: expected 12 tiles, got %d", len(tiles))
	}

	covered := make([]int, 1000*700)
	for _, tile := range tiles {
		for y := tile.Y; y < tile.Y+tile.Height; y++ {
			for x := tile.X; x < tile.X+tile.Width; x++ {
				covered[y*1000+x]++
			}
		}
	}
	for i, n := range covered {
		if n != 1 {
			t.Fatalf("Plan failed: expected pixel %d covered once, got %d", i, n)
		}
	}

	last := tiles[len(tiles)-1]
	if last.Row != 2 || last.Col != 3 || last.Width != 232 || last.Height != 188 {
		t.Errorf("Plan failed: expected the last tile at 2,3 sized 232x188, got %d,%d sized %dx%d",
			last.Row, last.Col, last.Width, last.Height)
	}
}

func TestPlanRejectsBadSizes(t *testing.T) {
	for _, size := range [][4]int{{0, 10, 8, 8}, {10, 10, 0, 8}, {10, -1, 8, 8}} {
		if _, err := Plan(frontCamera(), size[0], size[1], size[2], size[3]); !errors.Is(err, ErrInvalidTileSize) {
			t.Errorf("Plan(%v) failed: expected ErrInvalidTileSize, got %v", size, err)
		}
	}
}

func TestTileRaysMatchFullImage(t *testing.T) {
	const width, height = 300, 200
	cams := map[string]camera.Camera{
		"perspective": frontCamera(),
		"ortho":       frontCamera(camera.WithOrtho(150)),
	}

	for name, cam := range cams {
		full := projection.New(cam, common.Rect{Width: width, Height: height})
		tiles, err := Plan(cam, width, height, 128, 96)
		if err != nil {
			t.Fatalf("Plan failed: %v", err)
		}

		for _, tile := range tiles {
			for _, p := range [][2]int{{0, 0}, {tile.Width - 1, tile.Height - 1}, {tile.Width / 2, tile.Height / 3}} {
				px, py := p[0], p[1]
				got, err := tile.Projector().PointerRay(float64(px)+0.5, float64(tile.Height-py)-0.5)
				if err != nil {
					t.Fatalf("PointerRay failed: %v", err)
				}
				want, _ := full.PointerRay(float64(tile.X+px)+0.5, float64(height-tile.Y-py)-0.5)

				if got.Start.Sub(want.Start).Len() > 1e-6 {
					t.Errorf("%s tile %d,%d pixel %v failed: expected start %v, got %v", name, tile.Row, tile.Col, p, want.Start, got.Start)
				}
				dg := got.End.Sub(got.Start).Normalize()
				dw := want.End.Sub(want.Start).Normalize()
				if dg.Sub(dw).Len() > 1e-7 {
					t.Errorf("%s tile %d,%d pixel %v failed: expected direction %v, got %v", name, tile.Row, tile.Col, p, dw, dg)
				}
			}
		}
	}
}

func TestExporterStitchesTiles(t *testing.T) {
	r := &fillRenderer{}
	e := NewExporter(r, WithTileSize(32), WithWorkers(3))

	img, err := e.Render(context.Background(), frontCamera(), 100, 60)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 60 {
		t.Fatalf("Render failed: expected 100x60, got %v", b)
	}
	if r.calls != 8 {
		t.Errorf("Render failed: expected 8 tiles rendered, got %d", r.calls)
	}

	for _, p := range [][2]int{{0, 0}, {31, 31}, {32, 0}, {99, 59}, {70, 40}} {
		want := tileColor(p[1]/32, p[0]/32)
		if got := img.NRGBAAt(p[0], p[1]); got != want {
			t.Errorf("Render failed: expected pixel %v to be %v, got %v", p, want, got)
		}
	}
}

func TestExporterReturnsTileError(t *testing.T) {
	boom := errors.New("boom")
	r := &fillRenderer{fail: func(tile Tile) error {
		if tile.Row == 1 && tile.Col == 1 {
			return boom
		}
		return nil
	}}
	e := NewExporter(r, WithTileSize(16))

	if _, err := e.Render(context.Background(), frontCamera(), 64, 64); !errors.Is(err, boom) {
		t.Errorf("Render failed: expected the tile error, got %v", err)
	}
}

func TestExporterRejectsWrongTileSize(t *testing.T) {
	r := &fillRenderer{size: func(Tile) (int, int) { return 3, 3 }}
	e := NewExporter(r, WithTileSize(16))

	if _, err := e.Render(context.Background(), frontCamera(), 32, 32); !errors.Is(err, ErrInvalidTileSize) {
		t.Errorf("Render failed: expected ErrInvalidTileSize, got %v", err)
	}
}

func TestExporterCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := NewExporter(&fillRenderer{}, WithTileSize(16))

	if _, err := e.Render(ctx, frontCamera(), 32, 32); !errors.Is(err, context.Canceled) {
		t.Errorf("Render failed: expected context.Canceled, got %v", err)
	}
}

func TestExporterSupersample(t *testing.T) {
	r := &fillRenderer{}
	e := NewExporter(r, WithTileSize(512), WithSupersample(2))

	img, err := e.Render(context.Background(), frontCamera(), 50, 30)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 50 || b.Dy() != 30 {
		t.Fatalf("Render failed: expected 50x30 after downsampling, got %v", b)
	}

	want := tileColor(0, 0)
	got := img.NRGBAAt(25, 15)
	for i, pair := range [][2]uint8{{got.R, want.R}, {got.G, want.G}, {got.B, want.B}, {got.A, want.A}} {
		if d := int(pair[0]) - int(pair[1]); d < -1 || d > 1 {
			t.Errorf("Downsample failed: channel %d expected %d, got %d", i, pair[1], pair[0])
		}
	}
}

func TestRaycastRenderer(t *testing.T) {
	model := scene.NewMemoryModel()
	p := model.AddPiece(scene.PieceInfo{
		Name:        "slab",
		BoundingBox: common.BoundingBox{Min: mgl64.Vec3{-100, -100, -10}, Max: mgl64.Vec3{100, 100, 10}},
	}, mgl64.Ident4())
	model.Select(p.ID())

	e := NewExporter(NewRaycastRenderer(model), WithTileSize(16), WithWorkers(2))
	img, err := e.Render(context.Background(), frontCamera(), 40, 30)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	center := img.NRGBAAt(20, 15)
	if center.A != 255 || center.R <= center.B {
		t.Errorf("RenderTile failed: expected an opaque highlighted center, got %v", center)
	}
	if corner := img.NRGBAAt(0, 0); corner.A != 0 {
		t.Errorf("RenderTile failed: expected a transparent corner, got %v", corner)
	}
}

func TestEncode(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 4))
	img.SetNRGBA(1, 1, color.NRGBA{R: 255, A: 255})

	var buf bytes.Buffer
	if err := Encode(&buf, img, FormatWebP); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if b := buf.Bytes(); len(b) < 12 || string(b[0:4]) != "RIFF" || string(b[8:12]) != "WEBP" {
		t.Errorf("Encode failed: expected a RIFF/WEBP header")
	}

	buf.Reset()
	if err := Encode(&buf, img, FormatTGA); err != nil || buf.Len() == 0 {
		t.Errorf("Encode failed: expected TGA output, got %d bytes and %v", buf.Len(), err)
	}

	if err := Encode(&buf, img, Format(42)); err == nil {
		t.Errorf("Encode failed: expected an error for an unknown format")
	}
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{"webp": FormatWebP, ".PNG": FormatPNG, "tga": FormatTGA}
	for name, want := range cases {
		got, err := ParseFormat(name)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) failed: expected %v, got %v (%v)", name, want, got, err)
		}
	}
	if _, err := ParseFormat("bmp"); err == nil {
		t.Errorf("ParseFormat failed: expected an error for bmp")
	}
}

func TestWriteFile(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 5, 7))
	path := filepath.Join(t.TempDir(), "out", "view.png")
	if err := WriteFile(path, img); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	defer f.Close()
	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatalf("WriteFile failed: expected a PNG, got %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != 5 || b.Dy() != 7 {
		t.Errorf("WriteFile failed: expected 5x7, got %v", b)
	}

	if err := WriteFile(filepath.Join(t.TempDir(), "view.gif"), img); err == nil {
		t.Errorf("WriteFile failed: expected an error for an unknown extension")
	}
}

func TestNewExporterPanicsOnNil(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("NewExporter failed: expected a panic for a nil renderer")
		}
	}()
	NewExporter(nil)
}
