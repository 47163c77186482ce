package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/geometry"
)

// ErrInvalidState reports a scene description that cannot be rendered
var ErrInvalidState = errors.New("invalid scene state")

// ErrUnknownScene reports a built-in scene name that does not exist
var ErrUnknownScene = errors.New("unknown scene")

const (
	defaultSamplesPerPixel = 100
	defaultMaxDepth        = 50
	defaultSeed            = 42
	defaultVFov            = 90.0

	// MaxDepthLimit bounds the path recursion so a scene file cannot exhaust the goroutine stack
	MaxDepthLimit = 1000
)

// Background holds the sky gradient seen by rays that escape the scene
type Background struct {
	Top    core.Color // Looking straight up
	Bottom core.Color // Looking straight down
}

// DefaultBackground returns the white-to-blue sky
func DefaultBackground() Background {
	return Background{
		Top:    core.NewColor(0.7, 0.7, 1.0),
		Bottom: core.NewColor(1.0, 1.0, 1.0),
	}
}

// Animation moves one sphere by Velocity units per frame
type Animation struct {
	Sphere   geometry.Handle
	Velocity core.Vec3
}

// State is a complete, renderable scene description
type State struct {
	Name            string
	AspectRatio     float64
	Width           int
	Height          int // 0 derives Width / AspectRatio
	Frames          int
	SamplesPerPixel int
	MaxDepth        int
	Seed            int64
	Camera          geometry.CameraConfig
	Background      Background
	World           *geometry.World
	Lights          []geometry.Handle // Spheres used by direct light sampling
	Animations      []Animation
}

// Normalize fills derived and defaulted fields in place
func (s *State) Normalize() {
	if s.AspectRatio <= 0 && s.Width > 0 && s.Height > 0 {
		s.AspectRatio = float64(s.Width) / float64(s.Height)
	}
	if s.Height == 0 && s.AspectRatio > 0 {
		s.Height = deriveHeight(s.Width, s.AspectRatio)
	}
	if s.Frames == 0 {
		s.Frames = 1
	}
	if s.SamplesPerPixel == 0 {
		s.SamplesPerPixel = defaultSamplesPerPixel
	}
	if s.MaxDepth == 0 {
		s.MaxDepth = defaultMaxDepth
	}
	if s.Camera.AspectRatio == 0 {
		s.Camera.AspectRatio = s.AspectRatio
	}
	if s.Camera.Up == (core.Vec3{}) {
		s.Camera.Up = core.NewVec3(0, 1, 0)
	}
	if s.Camera.VFov == 0 {
		s.Camera.VFov = defaultVFov
	}
	if s.World == nil {
		s.World = geometry.NewWorld()
	}
}

func deriveHeight(width int, aspectRatio float64) int {
	return int(float64(width) / aspectRatio)
}

// Validate rejects states that would produce degenerate geometry or empty images
func (s *State) Validate() error {
	switch {
	case s.Width < 1 || s.Height < 1:
		return fmt.Errorf("%w: image size %dx%d", ErrInvalidState, s.Width, s.Height)
	case s.AspectRatio <= 0:
		return fmt.Errorf("%w: aspect ratio %g", ErrInvalidState, s.AspectRatio)
	case s.Frames < 1:
		return fmt.Errorf("%w: frames %d", ErrInvalidState, s.Frames)
	case s.SamplesPerPixel < 1:
		return fmt.Errorf("%w: samples per pixel %d", ErrInvalidState, s.SamplesPerPixel)
	case s.MaxDepth < 1 || s.MaxDepth > MaxDepthLimit:
		return fmt.Errorf("%w: max depth %d (1 to %d)", ErrInvalidState, s.MaxDepth, MaxDepthLimit)
	case s.World == nil:
		return fmt.Errorf("%w: no world", ErrInvalidState)
	}

	if err := s.World.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidState, err)
	}
	if _, err := geometry.NewCamera(s.Camera); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidState, err)
	}
	if _, err := s.World.Lookup(s.Lights); err != nil {
		return fmt.Errorf("%w: light: %w", ErrInvalidState, err)
	}
	for _, a := range s.Animations {
		if _, err := s.World.Get(a.Sphere); err != nil {
			return fmt.Errorf("%w: animation: %w", ErrInvalidState, err)
		}
		if !a.Velocity.IsFinite() {
			return fmt.Errorf("%w: animation velocity %v", ErrInvalidState, a.Velocity)
		}
	}
	return nil
}

// WorldAt returns a copy of the world with every animation advanced to frame.
// The stored world is never modified.
func (s *State) WorldAt(frame int) (*geometry.World, error) {
	world := s.World.Clone()
	for _, a := range s.Animations {
		if err := world.Translate(a.Sphere, a.Velocity.Multiply(float64(frame))); err != nil {
			return nil, fmt.Errorf("frame %d: %w", frame, err)
		}
	}
	return world, nil
}

// Overrides holds command line values that replace scene file settings.
// Zero values leave the scene untouched.
type Overrides struct {
	Width           int
	Height          int
	Frames          int
	SamplesPerPixel int
	MaxDepth        int
	Seed            int64
	HasSeed         bool // Seed 0 is a valid seed
}

// ApplyOverrides replaces scene settings with any non-zero override.
// A new width without a new height re-derives the height from the aspect ratio.
func (s *State) ApplyOverrides(o Overrides) {
	if o.Width > 0 {
		s.Width = o.Width
		if o.Height <= 0 && s.AspectRatio > 0 {
			s.Height = deriveHeight(s.Width, s.AspectRatio)
		}
	}
	if o.Height > 0 {
		s.Height = o.Height
	}
	if o.Frames > 0 {
		s.Frames = o.Frames
	}
	if o.SamplesPerPixel > 0 {
		s.SamplesPerPixel = o.SamplesPerPixel
	}
	if o.MaxDepth > 0 {
		s.MaxDepth = o.MaxDepth
	}
	if o.HasSeed {
		s.Seed = o.Seed
	}
}
