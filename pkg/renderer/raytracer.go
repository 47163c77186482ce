package renderer

import (
	"fmt"
	"math"
	"time"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/geometry"
	"github.com/df07/go-sphere-tracer/pkg/integrator"
	"github.com/df07/go-sphere-tracer/pkg/scene"
)

// BandProgress describes one finished band
type BandProgress struct {
	Frame     int
	BandID    int
	Completed int // Bands finished so far in this frame
	Total     int // Bands in this frame
}

// Config contains rendering configuration that is not part of the scene
type Config struct {
	NumWorkers          int                // Number of parallel workers (0 = logical CPU count)
	BandHeight          int                // Rows per band (0 or 1 = one band per row)
	DirectLightSampling bool               // Enable the light-biased shortcut on early bounces
	OnBand              func(BandProgress) // Optional; called from the rendering goroutine, never concurrently
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		NumWorkers: 0, // Auto-detect CPU count
		BandHeight: 1, // One band per image row
	}
}

// Raytracer renders the frames of one scene state
type Raytracer struct {
	state      *scene.State
	config     Config
	camera     *geometry.Camera
	integrator integrator.Integrator
	width      int
	height     int
}

// NewRaytracer validates the state and prepares the camera and integrator.
// The state must not be modified while the raytracer is in use.
func NewRaytracer(state *scene.State, config Config) (*Raytracer, error) {
	if err := state.Validate(); err != nil {
		return nil, err
	}
	camera, err := geometry.NewCamera(state.Camera)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", scene.ErrInvalidState, err)
	}

	integratorConfig := integrator.DefaultConfig()
	integratorConfig.MaxDepth = state.MaxDepth
	integratorConfig.BackgroundTop = state.Background.Top
	integratorConfig.BackgroundBottom = state.Background.Bottom
	integratorConfig.DirectLightSampling = config.DirectLightSampling

	if config.BandHeight <= 0 {
		config.BandHeight = 1
	}

	return &Raytracer{
		state:      state,
		config:     config,
		camera:     camera,
		integrator: integrator.NewPathTracingIntegrator(integratorConfig),
		width:      state.Width,
		height:     state.Height,
	}, nil
}

// Render renders the first frame of state
func Render(state *scene.State, config Config) (*Image, RenderStats, error) {
	rt, err := NewRaytracer(state, config)
	if err != nil {
		return nil, RenderStats{}, err
	}
	return rt.RenderFrame(0)
}

// RenderFrames renders every frame of state in order and hands each image to fn.
// Rendering stops at the first error returned by fn.
func RenderFrames(state *scene.State, config Config, fn func(frame int, img *Image, stats RenderStats) error) error {
	rt, err := NewRaytracer(state, config)
	if err != nil {
		return err
	}
	for frame := 0; frame < state.Frames; frame++ {
		img, stats, err := rt.RenderFrame(frame)
		if err != nil {
			return err
		}
		if err := fn(frame, img, stats); err != nil {
			return fmt.Errorf("frame %d: %w", frame, err)
		}
	}
	return nil
}

// RenderFrame renders a single frame using parallel processing.
// Animations are applied to a private copy of the world before any worker starts.
func (rt *Raytracer) RenderFrame(frame int) (*Image, RenderStats, error) {
	start := time.Now()
	logger := core.Logger()

	world, err := rt.state.WorldAt(frame)
	if err != nil {
		return nil, RenderStats{}, err
	}
	lights, err := world.Lookup(rt.state.Lights)
	if err != nil {
		return nil, RenderStats{}, fmt.Errorf("%w: %w", scene.ErrInvalidState, err)
	}
	fs := &frameScene{frame: frame, world: world, lights: lights}

	img := NewImage(rt.width, rt.height)
	bands := NewBandGrid(img, rt.config.BandHeight, rt.state.Seed, frame)

	numWorkers := rt.config.NumWorkers
	if numWorkers <= 0 {
		numWorkers = DefaultWorkerCount()
	}
	numWorkers = min(numWorkers, len(bands))

	logger.Info("rendering frame",
		"frame", frame, "width", rt.width, "height", rt.height,
		"samples", rt.state.SamplesPerPixel, "bands", len(bands), "workers", numWorkers)

	pool := NewWorkerPool(rt, numWorkers, len(bands))
	pool.Start()
	for i, band := range bands {
		pool.SubmitTask(BandTask{Band: band, TaskID: i, scene: fs})
	}

	stats := RenderStats{Bands: len(bands), Workers: numWorkers}
	for completed := 1; completed <= len(bands); completed++ {
		result, ok := pool.GetResult()
		if !ok {
			return nil, RenderStats{}, fmt.Errorf("worker pool closed unexpectedly")
		}
		stats.TotalPixels += result.Pixels
		stats.TotalSamples += result.Samples

		logger.Debug("band done", "frame", frame, "band", result.TaskID, "completed", completed, "total", len(bands))
		if rt.config.OnBand != nil {
			rt.config.OnBand(BandProgress{Frame: frame, BandID: result.TaskID, Completed: completed, Total: len(bands)})
		}
	}
	pool.Stop()

	stats.Duration = time.Since(start)
	logger.Info("frame done", "frame", frame, "duration", stats.Duration, "samples", stats.TotalSamples)
	return img, stats, nil
}

// renderBand samples every pixel of a band and returns the number of camera samples taken
func (rt *Raytracer) renderBand(fs *frameScene, band *Band) int {
	sampler := core.NewRandomSampler(band.Random)
	samplesPerPixel := rt.state.SamplesPerPixel
	maxDepth := rt.state.MaxDepth
	scale := 1.0 / float64(samplesPerPixel)

	// A single column or row maps to u or v = jitter alone
	uDenom := float64(max(rt.width-1, 1))
	vDenom := float64(max(rt.height-1, 1))

	i := 0
	for y := band.Y0; y < band.Y1; y++ {
		// Row 0 is the top of the image, where v is largest
		row := float64(rt.height - 1 - y)
		for x := 0; x < rt.width; x++ {
			var colorAccum core.Color
			for s := 0; s < samplesPerPixel; s++ {
				u := (float64(x) + sampler.Get1D()) / uDenom
				v := (row + sampler.Get1D()) / vDenom
				ray := rt.camera.GetRay(u, v)
				colorAccum = colorAccum.Add(rt.integrator.RayColor(ray, fs.world, fs.lights, maxDepth, sampler))
			}

			c := colorAccum.Multiply(scale)
			band.Pix[i] = quantize(c.X)
			band.Pix[i+1] = quantize(c.Y)
			band.Pix[i+2] = quantize(c.Z)
			i += 3
		}
	}

	return (band.Y1 - band.Y0) * rt.width * samplesPerPixel
}

// quantize applies gamma 2 and maps a linear channel to 8 bits via floor(256 * clamp(c, 0, 0.999))
func quantize(c float64) byte {
	// Also catches NaN
	if !(c > 0) {
		return 0
	}
	c = math.Min(math.Sqrt(c), 0.999)
	return byte(256 * c)
}
