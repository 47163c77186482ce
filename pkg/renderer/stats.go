package renderer

import (
	"time"

	"github.com/df07/go-sphere-tracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels  int           // Total number of pixels rendered
	TotalSamples int           // Total number of camera samples taken
	Bands        int           // Number of bands the frame was split into
	Workers      int           // Number of workers that rendered them
	Duration     time.Duration // Wall time for the frame
}

// SamplesPerSecond returns the camera sample throughput
func (s RenderStats) SamplesPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.TotalSamples) / s.Duration.Seconds()
}

// Add accumulates another frame's statistics. Bands and Workers keep the larger value.
func (s RenderStats) Add(other RenderStats) RenderStats {
	return RenderStats{
		TotalPixels:  s.TotalPixels + other.TotalPixels,
		TotalSamples: s.TotalSamples + other.TotalSamples,
		Bands:        max(s.Bands, other.Bands),
		Workers:      max(s.Workers, other.Workers),
		Duration:     s.Duration + other.Duration,
	}
}

// CalculateAverageLuminance returns the mean Rec. 709 luminance of img in [0, 1]
func CalculateAverageLuminance(img *Image) float64 {
	if len(img.Pix) == 0 {
		return 0
	}
	var total float64
	for i := 0; i < len(img.Pix); i += 3 {
		c := core.NewColor(float64(img.Pix[i]), float64(img.Pix[i+1]), float64(img.Pix[i+2]))
		total += c.Divide(255.0).Luminance()
	}
	return total / float64(len(img.Pix)/3)
}
