package export

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
)

// Format is an output image format.
type Format int

const (
	FormatWebP Format = iota
	FormatPNG
	FormatTGA
)

var formatNames = map[Format]string{
	FormatWebP: "webp",
	FormatPNG:  "png",
	FormatTGA:  "tga",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat maps a format name or file extension, with or without the dot, to a Format.
//
// Parameters:
//   - name: e.g. "webp", ".png" or "TGA"
//
// Returns:
//   - Format: the format
//   - error: an error if the name is unknown
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimPrefix(name, "."))
	for f, n := range formatNames {
		if n == name {
			return f, nil
		}
	}
	return FormatWebP, fmt.Errorf("export: unknown image format %q", name)
}

// Encode writes img to w in format.
//
// Parameters:
//   - w: the destination
//   - img: the image
//   - format: the format
//
// Returns:
//   - error: an error if encoding failed or the format is unknown
func Encode(w io.Writer, img image.Image, format Format) error {
	var err error
	switch format {
	case FormatWebP:
		err = nativewebp.Encode(w, img, nil)
	case FormatPNG:
		err = png.Encode(w, img)
	case FormatTGA:
		err = tga.Encode(w, img)
	default:
		return fmt.Errorf("export: unknown image format %v", format)
	}
	if err != nil {
		return fmt.Errorf("export: encode %v: %w", format, err)
	}
	return nil
}

// WriteFile encodes img to path, choosing the format from the file extension and creating
// missing directories.
//
// Parameters:
//   - path: the output file
//   - img: the image
//
// Returns:
//   - error: an error if the extension is unknown or writing failed
func WriteFile(path string, img image.Image) error {
	format, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := Encode(f, img, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
