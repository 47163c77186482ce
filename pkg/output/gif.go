package output

import (
	"errors"
	"fmt"
	"image"
	"image/color/palette"
	"image/gif"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"

	"github.com/df07/go-sphere-tracer/pkg/renderer"
)

// EncodeGIF writes the frames as a looping animated GIF.
// delay is in 100ths of a second (e.g., 5 => 20 fps).
func EncodeGIF(w io.Writer, frames []*renderer.Image, delay int, opts Options) error {
	if len(frames) == 0 {
		return errors.New("gif: no frames")
	}

	out := &gif.GIF{
		Image:     make([]*image.Paletted, 0, len(frames)),
		Delay:     make([]int, 0, len(frames)),
		LoopCount: 0,
	}
	for _, frame := range frames {
		rgba := Rescale(frame.RGBA(), opts.Scale)

		// Quantize to paletted for GIF
		pimg := image.NewPaletted(rgba.Bounds(), palette.Plan9)
		draw.FloydSteinberg.Draw(pimg, pimg.Bounds(), rgba, image.Point{})

		out.Image = append(out.Image, pimg)
		out.Delay = append(out.Delay, delay)
	}
	return gif.EncodeAll(w, out)
}

// SaveGIF writes the frames as an animated GIF at path
func SaveGIF(path string, frames []*renderer.Image, delay int, opts Options) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("output: %w", err)
	}
	if err := EncodeGIF(f, frames, delay, opts); err != nil {
		f.Close()
		return fmt.Errorf("output: %s: %w", path, err)
	}
	return f.Close()
}
