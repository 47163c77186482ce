package scene

import (
	"errors"
	"testing"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/geometry"
	"github.com/df07/go-sphere-tracer/pkg/material"
)

func testState() *State {
	s := &State{
		AspectRatio: 2.0,
		Width:       40,
		Camera: geometry.CameraConfig{
			LookFrom: core.NewVec3(0, 0, 0),
			LookAt:   core.NewVec3(0, 0, -1),
		},
		Background: DefaultBackground(),
		World: geometry.NewWorld(
			geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewColor(0.5, 0.5, 0.5))),
		),
	}
	s.Normalize()
	return s
}

func TestNormalize_Defaults(t *testing.T) {
	s := testState()

	if s.Height != 20 {
		t.Errorf("Expected derived height 20, got %d", s.Height)
	}
	if s.Frames != 1 || s.SamplesPerPixel != defaultSamplesPerPixel || s.MaxDepth != defaultMaxDepth {
		t.Errorf("Unexpected defaults: frames=%d samples=%d depth=%d", s.Frames, s.SamplesPerPixel, s.MaxDepth)
	}
	if s.Camera.AspectRatio != 2.0 || s.Camera.VFov != defaultVFov || s.Camera.Up != core.NewVec3(0, 1, 0) {
		t.Errorf("Unexpected camera defaults: %+v", s.Camera)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Expected valid state, got %v", err)
	}
}

func TestNormalize_HeightFloorsAndAspectFromSize(t *testing.T) {
	s := &State{AspectRatio: 16.0 / 9.0, Width: 401}
	s.Normalize()
	if s.Height != 225 {
		t.Errorf("Expected floor(401 / (16/9)) = 225, got %d", s.Height)
	}

	s = &State{Width: 300, Height: 100}
	s.Normalize()
	if s.AspectRatio != 3 {
		t.Errorf("Expected aspect ratio 3 from the image size, got %f", s.AspectRatio)
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*State)
		cause  error
	}{
		{"zero width", func(s *State) { s.Width = 0 }, nil},
		{"zero height", func(s *State) { s.Height = 0 }, nil},
		{"zero samples", func(s *State) { s.SamplesPerPixel = 0 }, nil},
		{"negative depth", func(s *State) { s.MaxDepth = -1 }, nil},
		{"depth over limit", func(s *State) { s.MaxDepth = MaxDepthLimit + 1 }, nil},
		{"zero frames", func(s *State) { s.Frames = 0 }, nil},
		{"no world", func(s *State) { s.World = nil }, nil},
		{"zero radius", func(s *State) {
			s.World.Add(geometry.NewSphere(core.NewVec3(1, 0, 0), 0, material.NewLambertian(core.Color{})))
		}, geometry.ErrInvalidRadius},
		{"coincident camera", func(s *State) { s.Camera.LookAt = s.Camera.LookFrom }, geometry.ErrDegenerateCamera},
		{"bad light handle", func(s *State) { s.Lights = []geometry.Handle{4} }, geometry.ErrInvalidHandle},
		{"bad animation handle", func(s *State) {
			s.Animations = []Animation{{Sphere: -1, Velocity: core.NewVec3(0, 1, 0)}}
		}, geometry.ErrInvalidHandle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testState()
			tt.mutate(s)
			err := s.Validate()
			if !errors.Is(err, ErrInvalidState) {
				t.Fatalf("Expected ErrInvalidState, got %v", err)
			}
			if tt.cause != nil && !errors.Is(err, tt.cause) {
				t.Errorf("Expected wrapped %v, got %v", tt.cause, err)
			}
		})
	}
}

func TestWorldAt_AppliesVelocityPerFrame(t *testing.T) {
	s := testState()
	s.Animations = []Animation{{Sphere: 0, Velocity: core.NewVec3(0, 0.5, 0)}}

	world, err := s.WorldAt(3)
	if err != nil {
		t.Fatalf("WorldAt failed: %v", err)
	}
	moved, _ := world.Get(0)
	if moved.Center != core.NewVec3(0, 1.5, -1) {
		t.Errorf("Expected center (0,1.5,-1) at frame 3, got %v", moved.Center)
	}

	original, _ := s.World.Get(0)
	if original.Center != core.NewVec3(0, 0, -1) {
		t.Errorf("WorldAt modified the stored world: %v", original.Center)
	}

	first, _ := s.WorldAt(0)
	still, _ := first.Get(0)
	if still.Center != original.Center {
		t.Errorf("Frame 0 should match the stored world, got %v", still.Center)
	}
}

func TestApplyOverrides(t *testing.T) {
	tests := []struct {
		name      string
		overrides Overrides
		check     func(*testing.T, *State)
	}{
		{"empty overrides keep the scene", Overrides{}, func(t *testing.T, s *State) {
			if s.Width != 40 || s.Height != 20 || s.Seed != 0 {
				t.Errorf("Scene changed: %dx%d seed %d", s.Width, s.Height, s.Seed)
			}
		}},
		{"width re-derives height", Overrides{Width: 100}, func(t *testing.T, s *State) {
			if s.Width != 100 || s.Height != 50 {
				t.Errorf("Expected 100x50, got %dx%d", s.Width, s.Height)
			}
		}},
		{"explicit height wins", Overrides{Width: 100, Height: 10}, func(t *testing.T, s *State) {
			if s.Height != 10 {
				t.Errorf("Expected height 10, got %d", s.Height)
			}
		}},
		{"sampling", Overrides{SamplesPerPixel: 8, MaxDepth: 3, Frames: 4}, func(t *testing.T, s *State) {
			if s.SamplesPerPixel != 8 || s.MaxDepth != 3 || s.Frames != 4 {
				t.Errorf("Unexpected sampling %d/%d/%d", s.SamplesPerPixel, s.MaxDepth, s.Frames)
			}
		}},
		{"seed zero is applied", Overrides{Seed: 0, HasSeed: true}, func(t *testing.T, s *State) {
			if s.Seed != 0 {
				t.Errorf("Expected seed 0, got %d", s.Seed)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testState()
			if tt.overrides.HasSeed {
				s.Seed = 99
			}
			s.ApplyOverrides(tt.overrides)
			tt.check(t, s)
		})
	}
}
