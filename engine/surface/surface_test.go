package surface

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

type closedWindow struct{}

func (closedWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }
func (closedWindow) Width() int                                 { return 800 }
func (closedWindow) Height() int                                { return 600 }

func TestNewSurfaceWithoutWindow(t *testing.T) {
	_, err := NewSurface(closedWindow{})
	if !errors.Is(err, ErrNoSurface) {
		t.Errorf("NewSurface failed: expected ErrNoSurface, got %v", err)
	}
}

func TestPickFormats(t *testing.T) {
	tests := []struct {
		name    string
		formats []wgpu.TextureFormat
		surface wgpu.TextureFormat
		frame   wgpu.TextureFormat
	}{
		{"prefers linear", []wgpu.TextureFormat{wgpu.TextureFormatBGRA8UnormSrgb, wgpu.TextureFormatBGRA8Unorm}, wgpu.TextureFormatBGRA8Unorm, wgpu.TextureFormatRGBA8Unorm},
		{"srgb only", []wgpu.TextureFormat{wgpu.TextureFormatRGBA8UnormSrgb}, wgpu.TextureFormatRGBA8UnormSrgb, wgpu.TextureFormatRGBA8UnormSrgb},
		{"unknown", []wgpu.TextureFormat{wgpu.TextureFormatRGBA16Float}, wgpu.TextureFormatRGBA16Float, wgpu.TextureFormatRGBA8Unorm},
	}
	for _, tt := range tests {
		surface, frame := PickFormats(tt.formats)
		if surface != tt.surface || frame != tt.frame {
			t.Errorf("%s: PickFormats failed: expected %v/%v, got %v/%v", tt.name, tt.surface, tt.frame, surface, frame)
		}
	}
}

func TestFramePixelsPacked(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.SetNRGBA(2, 1, color.NRGBA{R: 9, A: 255})

	got := FramePixels(img)
	if len(got) != 24 {
		t.Fatalf("FramePixels failed: expected 24 bytes, got %d", len(got))
	}
	if &got[0] != &img.Pix[0] {
		t.Errorf("FramePixels failed: expected the packed image to be returned without copying")
	}
}

func TestFramePixelsSubImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.SetNRGBA(1, 1, color.NRGBA{R: 1, G: 2, B: 3, A: 4})
	img.SetNRGBA(2, 2, color.NRGBA{R: 5, G: 6, B: 7, A: 8})
	sub := img.SubImage(image.Rect(1, 1, 3, 3)).(*image.NRGBA)

	expected := []byte{1, 2, 3, 4, 0, 0, 0, 0, 0, 0, 0, 0, 5, 6, 7, 8}
	if got := FramePixels(sub); !bytes.Equal(got, expected) {
		t.Errorf("FramePixels failed: expected %v, got %v", expected, got)
	}
}

func TestClearValue(t *testing.T) {
	got := ClearValue(color.NRGBA{R: 255, G: 0, B: 51, A: 255})
	if got != (wgpu.Color{R: 1, G: 0, B: 0.2, A: 1}) {
		t.Errorf("ClearValue failed: expected {1 0 0.2 1}, got %v", got)
	}
}

func TestFrameShaderEntryPoints(t *testing.T) {
	for _, entry := range []string{"fn vs_main", "fn fs_main", "@binding(0)", "@binding(1)"} {
		if !strings.Contains(FrameShaderSource, entry) {
			t.Errorf("FrameShaderSource failed: expected %q in the shader", entry)
		}
	}
}
