package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/output"
	"github.com/df07/go-sphere-tracer/pkg/renderer"
	"github.com/df07/go-sphere-tracer/pkg/scene"
)

// options holds the parsed command line
type options struct {
	sceneType  string
	outPath    string
	overrides  scene.Overrides
	workers    int
	bandHeight int
	direct     bool
	scale      float64
	gif        bool
	gifDelay   int
	verbose    bool
}

func main() {
	// Parse command line flags
	sceneType := flag.String("scene", "default", "Built-in scene name or path to a .json scene file")
	outPath := flag.String("out", "", "Output file (.png .ppm .bmp .tiff .webp .tga); default output/<scene>/render_<timestamp>.png")
	width := flag.Int("width", 0, "Override image width (height follows the aspect ratio)")
	height := flag.Int("height", 0, "Override image height")
	samples := flag.Int("samples", 0, "Override samples per pixel")
	depth := flag.Int("depth", 0, "Override maximum bounce depth")
	frames := flag.Int("frames", 0, "Override frame count")
	seed := flag.Int64("seed", 0, "Override the random seed")
	workers := flag.Int("workers", 0, "Number of parallel workers (0 = logical CPU count)")
	bandHeight := flag.Int("band", 1, "Rows per render band")
	direct := flag.Bool("direct", false, "Enable direct light sampling on early bounces")
	scale := flag.Float64("scale", 1, "Resize the output by this factor")
	gif := flag.Bool("gif", false, "Also write an animated GIF when rendering several frames")
	gifDelay := flag.Int("delay", 5, "GIF frame delay in 100ths of a second")
	verbose := flag.Bool("v", false, "Log per-band progress")
	list := flag.Bool("list", false, "List available scenes and exit")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	// Show help if requested
	if *help {
		fmt.Println("Sphere Tracer")
		fmt.Println("Usage: sphere-tracer [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		printScenes(os.Stdout)
		return
	}
	if *list {
		printScenes(os.Stdout)
		return
	}

	opts := options{
		sceneType: *sceneType,
		outPath:   *outPath,
		overrides: scene.Overrides{
			Width:           *width,
			Height:          *height,
			Frames:          *frames,
			SamplesPerPixel: *samples,
			MaxDepth:        *depth,
			Seed:            *seed,
		},
		workers:    *workers,
		bandHeight: *bandHeight,
		direct:     *direct,
		scale:      *scale,
		gif:        *gif,
		gifDelay:   *gifDelay,
		verbose:    *verbose,
	}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			opts.overrides.HasSeed = true
		}
	})

	if err := run(opts, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run loads the scene, renders every frame and writes the results
func run(opts options, stdout, stderr io.Writer) error {
	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	core.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))
	defer core.SetLogger(nil)

	state, err := createScene(opts.sceneType)
	if err != nil {
		return err
	}
	state.ApplyOverrides(opts.overrides)

	outPath := opts.outPath
	if outPath == "" {
		timestamp := time.Now().Format("20060102_150405")
		outPath = filepath.Join(createOutputDir(opts.sceneType), fmt.Sprintf("render_%s.png", timestamp))
	}
	if _, err := output.FormatFromPath(outPath); err != nil {
		return err
	}

	config := renderer.DefaultConfig()
	config.NumWorkers = opts.workers
	config.BandHeight = opts.bandHeight
	config.DirectLightSampling = opts.direct
	sinkOpts := output.Options{Scale: opts.scale}

	var total renderer.RenderStats
	var luminance float64
	var animation []*renderer.Image
	var written []string
	err = renderer.RenderFrames(state, config, func(frame int, img *renderer.Image, stats renderer.RenderStats) error {
		total = total.Add(stats)
		luminance += renderer.CalculateAverageLuminance(img)
		path := outPath
		if state.Frames > 1 {
			path = output.FramePath(outPath, frame)
		}
		if err := output.Save(path, img, sinkOpts); err != nil {
			return err
		}
		written = append(written, path)
		if opts.gif && state.Frames > 1 {
			animation = append(animation, img)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if len(animation) > 0 {
		gifPath := strings.TrimSuffix(outPath, filepath.Ext(outPath)) + ".gif"
		if err := output.SaveGIF(gifPath, animation, opts.gifDelay, sinkOpts); err != nil {
			return err
		}
		written = append(written, gifPath)
	}

	p := message.NewPrinter(language.English)
	p.Fprintf(stdout, "Rendered %d frame(s) of %dx%d in %v\n", state.Frames, state.Width, state.Height, total.Duration.Round(time.Millisecond))
	p.Fprintf(stdout, "Samples: %d (%.0f per second, %d workers)\n", total.TotalSamples, total.SamplesPerSecond(), total.Workers)
	p.Fprintf(stdout, "Average luminance: %.3f\n", luminance/float64(state.Frames))
	for _, path := range written {
		fmt.Fprintf(stdout, "Render saved as %s\n", path)
	}
	return nil
}

// createScene resolves a built-in scene name or a scene file path
func createScene(sceneType string) (*scene.State, error) {
	if sceneType == "" {
		return nil, fmt.Errorf("no scene given")
	}
	if strings.HasSuffix(strings.ToLower(sceneType), ".json") {
		return scene.Load(sceneType)
	}
	return scene.Builtin(sceneType)
}

// createOutputDir returns output/<scene base name>
func createOutputDir(sceneType string) string {
	base := strings.TrimSuffix(filepath.Base(sceneType), filepath.Ext(sceneType))
	if base == "" || base == "." {
		base = "scene"
	}
	return filepath.Join("output", base)
}

func printScenes(w io.Writer) {
	fmt.Fprintln(w, "Available scenes:")
	scenes, err := scene.ListAllScenes("scenes")
	if err != nil {
		fmt.Fprintf(w, "  (scene directory unreadable: %v)\n", err)
		scenes = scene.ListBuiltinScenes()
	}
	for _, info := range scenes {
		name := info.ID
		if info.FilePath != "" {
			name = info.FilePath
		}
		fmt.Fprintf(w, "  %-20s %s\n", name, info.Description)
	}
}
