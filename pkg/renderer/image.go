package renderer

import (
	"image"
	"image/color"
)

// Image is a packed 8-bit RGB frame buffer. Row 0 is the top of the picture.
type Image struct {
	Width  int
	Height int
	Pix    []byte // Row-major R, G, B triplets
}

// NewImage allocates a black image
func NewImage(width, height int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*3),
	}
}

// RGBAt returns the pixel at column x, row y
func (img *Image) RGBAt(x, y int) color.RGBA {
	i := (y*img.Width + x) * 3
	return color.RGBA{R: img.Pix[i], G: img.Pix[i+1], B: img.Pix[i+2], A: 255}
}

// RGBA converts the buffer to an opaque image.RGBA for encoders
func (img *Image) RGBA() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for i, j := 0, 0; i < len(img.Pix); i, j = i+3, j+4 {
		out.Pix[j] = img.Pix[i]
		out.Pix[j+1] = img.Pix[i+1]
		out.Pix[j+2] = img.Pix[i+2]
		out.Pix[j+3] = 255
	}
	return out
}
