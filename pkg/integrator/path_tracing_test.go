package integrator

import (
	"math/rand"
	"testing"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/geometry"
	"github.com/df07/go-sphere-tracer/pkg/material"
)

// createTestWorld creates a simple world with a single diffuse sphere
func createTestWorld() *geometry.World {
	lambertian := material.NewLambertian(core.NewColor(0.7, 0.3, 0.3))
	return geometry.NewWorld(geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, lambertian))
}

func newSampler(seed int64) core.Sampler {
	return core.NewRandomSampler(rand.New(rand.NewSource(seed)))
}

func withinUnit(c core.Color) bool {
	return c.X >= 0 && c.X <= 1 && c.Y >= 0 && c.Y <= 1 && c.Z >= 0 && c.Z <= 1
}

// TestPathTracingDepthTermination tests that ray depth is properly limited
func TestPathTracingDepthTermination(t *testing.T) {
	world := createTestWorld()
	integrator := NewPathTracingIntegrator(DefaultConfig())

	rays := []core.Ray{
		core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)), // hits the sphere
		core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0)),  // sky
	}
	for _, ray := range rays {
		for _, depth := range []int{0, -3} {
			if got := integrator.RayColor(ray, world, nil, depth, newSampler(42)); got != (core.Color{}) {
				t.Errorf("Expected black for depth %d, got %v", depth, got)
			}
		}
	}
}

func TestPathTracingBackgroundGradient(t *testing.T) {
	config := DefaultConfig()
	integrator := NewPathTracingIntegrator(config)
	world := geometry.NewWorld()

	up := integrator.RayColor(core.NewRay(core.Vec3{}, core.NewVec3(0, 3, 0)), world, nil, 5, newSampler(1))
	if up != config.BackgroundTop {
		t.Errorf("Looking up: expected %v, got %v", config.BackgroundTop, up)
	}

	down := integrator.RayColor(core.NewRay(core.Vec3{}, core.NewVec3(0, -2, 0)), world, nil, 5, newSampler(1))
	if down != config.BackgroundBottom {
		t.Errorf("Looking down: expected %v, got %v", config.BackgroundBottom, down)
	}

	horizon := integrator.Background(core.NewRay(core.Vec3{}, core.NewVec3(1, 0, 0)))
	expected := config.BackgroundBottom.Lerp(config.BackgroundTop, 0.5)
	if horizon.Subtract(expected).Length() > 1e-12 {
		t.Errorf("At the horizon: expected %v, got %v", expected, horizon)
	}
}

func TestPathTracingSingleBounceIsBlack(t *testing.T) {
	integrator := NewPathTracingIntegrator(DefaultConfig())
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	// The scattered ray has no depth left, so the diffuse surface returns black
	if got := integrator.RayColor(ray, createTestWorld(), nil, 1, newSampler(42)); got != (core.Color{}) {
		t.Errorf("Expected black with a single bounce, got %v", got)
	}
}

func TestPathTracingDiffuseIsDimmedAlbedo(t *testing.T) {
	world := createTestWorld()
	integrator := NewPathTracingIntegrator(DefaultConfig())
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	sampler := newSampler(42)

	var sum core.Color
	const samples = 200
	for i := 0; i < samples; i++ {
		c := integrator.RayColor(ray, world, nil, 2, sampler)
		if !withinUnit(c) {
			t.Fatalf("Color %v outside [0,1]", c)
		}
		// One diffuse bounce followed by at most a white sky
		if c.X > 0.7+1e-12 || c.Y > 0.3+1e-12 || c.Z > 0.3+1e-12 {
			t.Fatalf("Color %v exceeds albedo", c)
		}
		sum = sum.Add(c)
	}
	mean := sum.Multiply(1.0 / samples)
	if mean.X <= mean.Y || mean.Y == 0 {
		t.Errorf("Expected a reddish, non-black average, got %v", mean)
	}
}

func TestPathTracingLightEmission(t *testing.T) {
	emission := core.NewColor(4, 2, 0.5)
	world := geometry.NewWorld(geometry.NewSphere(core.NewVec3(0, 0, -3), 1, material.NewLight(emission)))
	integrator := NewPathTracingIntegrator(DefaultConfig())

	got := integrator.RayColor(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), world, nil, 10, newSampler(42))
	expected := core.NewColor(1, 1, 0.5)
	if got != expected {
		t.Errorf("Expected clamped emission %v, got %v", expected, got)
	}
}

func TestPathTracingOneBounceOutcomes(t *testing.T) {
	// Shadow rays are traced with depth 1: emission, black behind a blocker, sky on a miss
	config := DefaultConfig()
	world := geometry.NewWorld(
		geometry.NewSphere(core.NewVec3(0, 0, -3), 1, material.NewLight(core.NewColor(0.9, 0.9, 0.9))),
		geometry.NewSphere(core.NewVec3(3, 0, 0), 1, material.NewLambertian(core.NewColor(0.8, 0.8, 0.8))),
	)
	integrator := NewPathTracingIntegrator(config)

	tests := []struct {
		name      string
		direction core.Vec3
		expected  core.Color
	}{
		{"light", core.NewVec3(0, 0, -1), core.NewColor(0.9, 0.9, 0.9)},
		{"blocked", core.NewVec3(1, 0, 0), core.Color{}},
		{"grazing miss", core.NewVec3(0, 1, 0), config.BackgroundTop},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := integrator.RayColor(core.NewRay(core.Vec3{}, tt.direction), world, nil, 1, newSampler(42))
			if got.Subtract(tt.expected).Length() > 1e-12 {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestPathTracingMirrorReflectsSky(t *testing.T) {
	// A perfect mirror seen head-on reflects the ray straight back: horizontal sky color
	config := DefaultConfig()
	albedo := core.NewColor(0.8, 0.8, 0.8)
	world := geometry.NewWorld(geometry.NewSphere(core.NewVec3(0, 0, -2), 1, material.NewMetal(albedo, 0)))
	integrator := NewPathTracingIntegrator(config)

	got := integrator.RayColor(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), world, nil, 5, newSampler(42))
	expected := albedo.MultiplyVec(config.BackgroundBottom.Lerp(config.BackgroundTop, 0.5))
	if got.Subtract(expected).Length() > 1e-12 {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

// createLitWorld creates a diffuse floor under a bright light with a black sky
func createLitWorld() (*geometry.World, []geometry.Sphere, Config) {
	floor := geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, material.NewLambertian(core.NewColor(0.8, 0.8, 0.8)))
	light := geometry.NewSphere(core.NewVec3(0, 3, 0), 0.5, material.NewLight(core.NewColor(1, 1, 1)))
	world := geometry.NewWorld(floor, light)

	config := DefaultConfig()
	config.MaxDepth = 5
	config.BackgroundTop = core.Color{}
	config.BackgroundBottom = core.Color{}

	// Ten entries make the shortcut fire on every eligible bounce
	lights := make([]geometry.Sphere, 10)
	for i := range lights {
		lights[i] = light
	}
	return world, lights, config
}

func TestPathTracingDirectLightSampling(t *testing.T) {
	world, lights, config := createLitWorld()
	ray := core.NewRay(core.NewVec3(0, 1, 3), core.NewVec3(0, -1, -3))

	average := func(cfg Config) core.Color {
		integrator := NewPathTracingIntegrator(cfg)
		sampler := newSampler(7)
		var sum core.Color
		const samples = 2000
		for i := 0; i < samples; i++ {
			c := integrator.RayColor(ray, world, lights, cfg.MaxDepth, sampler)
			if !withinUnit(c) {
				t.Fatalf("Color %v outside [0,1]", c)
			}
			sum = sum.Add(c)
		}
		return sum.Multiply(1.0 / samples)
	}

	indirectOnly := average(config)
	config.DirectLightSampling = true
	withDirect := average(config)

	if withDirect.Luminance() <= indirectOnly.Luminance() {
		t.Errorf("Expected direct light sampling to brighten the floor: %v vs %v", withDirect, indirectOnly)
	}
}

func TestPathTracingDirectLightSamplingNeedsLights(t *testing.T) {
	world, _, config := createLitWorld()
	ray := core.NewRay(core.NewVec3(0, 1, 3), core.NewVec3(0, -1, -3))

	disabled := NewPathTracingIntegrator(config)
	config.DirectLightSampling = true
	enabled := NewPathTracingIntegrator(config)

	// Without a light list the shortcut must not consume random numbers
	for seed := int64(0); seed < 20; seed++ {
		a := disabled.RayColor(ray, world, nil, config.MaxDepth, newSampler(seed))
		b := enabled.RayColor(ray, world, nil, config.MaxDepth, newSampler(seed))
		if a != b {
			t.Fatalf("Seed %d: results differ without lights: %v vs %v", seed, a, b)
		}
	}
}
