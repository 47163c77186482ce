package renderer

import (
	"math/rand"

	"github.com/df07/go-sphere-tracer/pkg/core"
)

// Band is a horizontal strip of image rows rendered by a single worker
type Band struct {
	ID     int        // Index from the top of the image
	Y0, Y1 int        // Rows [Y0, Y1)
	Pix    []byte     // The band's own slice of the frame buffer
	Random *rand.Rand // Band-specific random generator for deterministic results
}

// NewBand creates a band whose random stream depends only on (seed, frame, id)
func NewBand(id, y0, y1 int, pix []byte, seed int64, frame int) *Band {
	return &Band{
		ID:     id,
		Y0:     y0,
		Y1:     y1,
		Pix:    pix,
		Random: rand.New(rand.NewSource(core.MixSeed(seed, frame, id))),
	}
}

// NewBandGrid splits img into bands of bandHeight rows. The last band may be shorter.
// Bands never share bytes of img.Pix.
func NewBandGrid(img *Image, bandHeight int, seed int64, frame int) []*Band {
	if bandHeight <= 0 {
		bandHeight = 1
	}
	stride := img.Width * 3

	bands := make([]*Band, 0, (img.Height+bandHeight-1)/bandHeight)
	for y0 := 0; y0 < img.Height; y0 += bandHeight {
		y1 := min(y0+bandHeight, img.Height)
		pix := img.Pix[y0*stride : y1*stride : y1*stride]
		bands = append(bands, NewBand(len(bands), y0, y1, pix, seed, frame))
	}
	return bands
}
