package output

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"

	"github.com/df07/go-sphere-tracer/pkg/renderer"
)

// ErrUnsupportedFormat reports an output extension with no encoder
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Options controls how a frame is written
type Options struct {
	Scale float64 // Output size factor; 0 or 1 writes the native size
}

// Formats lists the supported encoder names
var Formats = []string{"png", "ppm", "bmp", "tiff", "webp", "tga"}

// FormatFromPath maps a file extension to an encoder name
func FormatFromPath(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "png", "ppm", "bmp", "webp", "tga":
		return ext, nil
	case "tif", "tiff":
		return "tiff", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Save writes img to path, creating parent directories and picking the encoder by extension
func Save(path string, img *renderer.Image, opts Options) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("output: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("output: %w", err)
	}
	w := bufio.NewWriter(f)
	if err := Encode(w, format, img, opts); err != nil {
		f.Close()
		return fmt.Errorf("output: %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("output: %s: %w", path, err)
	}
	return f.Close()
}

// Encode writes img to w in the named format
func Encode(w io.Writer, format string, img *renderer.Image, opts Options) error {
	// PPM is written straight from the RGB buffer when no resampling is needed
	if format == "ppm" && !resizes(opts) {
		return writePPM(w, img.Width, img.Height, img.Pix)
	}

	rgba := Rescale(img.RGBA(), opts.Scale)
	switch format {
	case "png":
		return png.Encode(w, rgba)
	case "ppm":
		return writePPM(w, rgba.Bounds().Dx(), rgba.Bounds().Dy(), rgbFromRGBA(rgba))
	case "bmp":
		return bmp.Encode(w, rgba)
	case "tiff":
		return tiff.Encode(w, rgba, &tiff.Options{Compression: tiff.Deflate})
	case "webp":
		return nativewebp.Encode(w, rgba, nil)
	case "tga":
		return tga.Encode(w, rgba)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func resizes(opts Options) bool {
	return opts.Scale > 0 && opts.Scale != 1
}

// Rescale resizes img by factor with Catmull-Rom filtering.
// Factors of 0 or 1 return img unchanged. The result is at least 1x1.
func Rescale(img *image.RGBA, factor float64) *image.RGBA {
	if !(factor > 0) || factor == 1 {
		return img
	}
	b := img.Bounds()
	w := max(1, int(float64(b.Dx())*factor+0.5))
	h := max(1, int(float64(b.Dy())*factor+0.5))

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// writePPM writes a binary P6 portable pixmap
func writePPM(w io.Writer, width, height int, rgb []byte) error {
	if _, err := fmt.Fprintf(w, "P6\n%d %d\n255\n", width, height); err != nil {
		return err
	}
	_, err := w.Write(rgb)
	return err
}

func rgbFromRGBA(img *image.RGBA) []byte {
	b := img.Bounds()
	out := make([]byte, 0, b.Dx()*b.Dy()*3)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):]
		for x := 0; x < b.Dx(); x++ {
			out = append(out, row[x*4], row[x*4+1], row[x*4+2])
		}
	}
	return out
}

// FramePath returns the numbered file name for one frame of an animation,
// e.g. "out/render.png" -> "out/render_0003.png"
func FramePath(path string, frame int) string {
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s_%04d%s", strings.TrimSuffix(path, ext), frame, ext)
}
