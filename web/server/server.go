package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/output"
	"github.com/df07/go-sphere-tracer/pkg/renderer"
	"github.com/df07/go-sphere-tracer/pkg/scene"
)

// Render request limits
const (
	maxWidth       = 2000
	maxSamples     = 10000
	maxRequestBody = 1 << 20
)

// Server handles web requests for the sphere tracer
type Server struct {
	port     int
	sceneDir string
	console  *ConsoleLog
	echo     *echo.Echo
}

// NewServer creates a new web server. Scene files are listed from sceneDir;
// console receives the server's log lines and may be nil.
func NewServer(port int, sceneDir string, console *ConsoleLog) *Server {
	if console == nil {
		console = NewConsoleLog(200)
	}
	s := &Server{port: port, sceneDir: sceneDir, console: console}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(corsMiddleware)

	e.GET("/api/health", s.handleHealth)
	e.GET("/api/system", s.handleSystem)
	e.GET("/api/scenes", s.handleScenes)
	e.GET("/api/scenes/:name", s.handleSceneConfig)
	e.GET("/api/render/:name", s.handleRenderBuiltin)
	e.POST("/api/render", s.handleRenderScene)
	e.GET("/api/console", s.handleConsole)
	s.echo = e

	return s
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start starts the web server and blocks until it stops
func (s *Server) Start() error {
	err := s.echo.Start(fmt.Sprintf(":%d", s.port))
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func corsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set("Access-Control-Allow-Origin", "*")
		c.Response().Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Response().Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")

		if c.Request().Method == http.MethodOptions {
			return c.NoContent(http.StatusOK)
		}
		return next(c)
	}
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// SystemInfo describes the host the renderer runs on
type SystemInfo struct {
	CPUModel      string  `json:"cpuModel"`
	ClockGHz      float64 `json:"clockGHz"`
	LogicalCores  int     `json:"logicalCores"`
	TotalMemoryGB uint64  `json:"totalMemoryGB"`
	Workers       int     `json:"workers"`
}

func (s *Server) handleSystem(c echo.Context) error {
	info := SystemInfo{Workers: renderer.DefaultWorkerCount()}

	cpuInfo, err := cpu.Info()
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, fmt.Sprintf("cpu info: %v", err))
	}
	if len(cpuInfo) > 0 {
		info.CPUModel = cpuInfo[0].ModelName
		info.ClockGHz = cpuInfo[0].Mhz / 1000
	}
	if info.LogicalCores, err = cpu.Counts(true); err != nil {
		info.LogicalCores = len(cpuInfo)
	}

	memInfo, err := mem.VirtualMemory()
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, fmt.Sprintf("memory info: %v", err))
	}
	info.TotalMemoryGB = memInfo.Total / (1024 * 1024 * 1024)

	return c.JSON(http.StatusOK, info)
}

func (s *Server) handleScenes(c echo.Context) error {
	scenes, err := scene.ListAllScenes(s.sceneDir)
	if err != nil {
		core.Logger().Warn("scene directory unreadable", "dir", s.sceneDir, "err", err)
		scenes = scene.ListBuiltinScenes()
	}
	return c.JSON(http.StatusOK, scenes)
}

// handleSceneConfig returns a built-in scene as a JSON scene document
func (s *Server) handleSceneConfig(c echo.Context) error {
	state, err := scene.Builtin(c.Param("name"))
	if err != nil {
		return errorJSON(c, http.StatusNotFound, err.Error())
	}
	var buf bytes.Buffer
	if err := scene.Encode(&buf, state); err != nil {
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, buf.Bytes())
}

// handleRenderBuiltin renders the first frame of a built-in scene.
// Query parameters: width, samples, depth, seed, format.
func (s *Server) handleRenderBuiltin(c echo.Context) error {
	state, err := scene.Builtin(c.Param("name"))
	if err != nil {
		return errorJSON(c, http.StatusNotFound, err.Error())
	}

	query := c.QueryParams()
	var overrides scene.Overrides
	if overrides.Width, err = parseIntParam(query, "width", 0, 1, maxWidth); err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}
	if overrides.SamplesPerPixel, err = parseIntParam(query, "samples", 0, 1, maxSamples); err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}
	if overrides.MaxDepth, err = parseIntParam(query, "depth", 0, 1, scene.MaxDepthLimit); err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}
	if value := query.Get("seed"); value != "" {
		if overrides.Seed, err = strconv.ParseInt(value, 10, 64); err != nil {
			return errorJSON(c, http.StatusBadRequest, fmt.Sprintf("invalid seed: %s", value))
		}
		overrides.HasSeed = true
	}
	state.ApplyOverrides(overrides)

	return s.render(c, state)
}

// handleRenderScene renders the first frame of a JSON scene document posted as the body
func (s *Server) handleRenderScene(c echo.Context) error {
	body := http.MaxBytesReader(c.Response(), c.Request().Body, maxRequestBody)
	state, err := scene.Parse(body)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}
	return s.render(c, state)
}

func (s *Server) render(c echo.Context, state *scene.State) error {
	format := c.QueryParam("format")
	if format == "" {
		format = "png"
	}
	if format == "ppm" {
		return errorJSON(c, http.StatusBadRequest, "ppm is not served over http")
	}
	if _, err := output.FormatFromPath("render." + format); err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}
	if state.Width > maxWidth || state.Height > maxWidth || state.SamplesPerPixel > maxSamples {
		return errorJSON(c, http.StatusBadRequest,
			fmt.Sprintf("render too large: %dx%d at %d samples", state.Width, state.Height, state.SamplesPerPixel))
	}

	start := time.Now()
	img, stats, err := renderer.Render(state, renderer.DefaultConfig())
	if err != nil {
		if errors.Is(err, scene.ErrInvalidState) {
			return errorJSON(c, http.StatusBadRequest, err.Error())
		}
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}

	var buf bytes.Buffer
	if err := output.Encode(&buf, format, img, output.Options{}); err != nil {
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}

	core.Logger().Info("served render", "scene", state.Name, "width", state.Width, "height", state.Height,
		"samples", stats.TotalSamples, "elapsed", time.Since(start))
	c.Response().Header().Set("X-Render-Samples", strconv.Itoa(stats.TotalSamples))
	return c.Blob(http.StatusOK, contentTypes[format], buf.Bytes())
}

var contentTypes = map[string]string{
	"png":  "image/png",
	"bmp":  "image/bmp",
	"tiff": "image/tiff",
	"webp": "image/webp",
	"tga":  "image/x-tga",
}

func (s *Server) handleConsole(c echo.Context) error {
	return c.JSON(http.StatusOK, s.console.Messages())
}

func errorJSON(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{"error": message})
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}
