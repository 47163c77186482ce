package integrator

import (
	"math"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/geometry"
	"github.com/df07/go-sphere-tracer/pkg/material"
)

const (
	// directLightBounces is how many bounces from the camera may take the light shortcut
	directLightBounces = 2
	// directLightChancePerLight scales the shortcut probability by the light count
	directLightChancePerLight = 0.1
)

var _ Integrator = (*PathTracingIntegrator)(nil)

// PathTracingIntegrator implements depth-limited unidirectional path tracing
type PathTracingIntegrator struct {
	config Config
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(config Config) *PathTracingIntegrator {
	return &PathTracingIntegrator{config: config}
}

// RayColor computes the color for a single ray. Call it with depth = MaxDepth for camera rays.
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, world geometry.Hittable, lights []geometry.Sphere, depth int, sampler core.Sampler) core.Color {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return core.Color{}
	}

	hit, isHit := world.Hit(ray, pt.config.TMin, math.Inf(1))
	if !isHit {
		return pt.Background(ray)
	}

	if hit.Material.IsEmissive() {
		return hit.Material.Emission.Clamp(0, 1)
	}

	scatter, didScatter := hit.Material.Scatter(ray, hit, sampler)
	if !didScatter {
		// Absorbed
		return core.Color{}
	}

	color := scatter.Attenuation.MultiplyVec(
		pt.RayColor(scatter.Scattered, world, lights, depth-1, sampler))

	if direct, sampled := pt.sampleLights(hit, scatter.Attenuation, world, lights, depth, sampler); sampled {
		color = color.Add(direct)
	}

	return color.Clamp(0, 1)
}

// Background returns the vertical sky gradient for a ray that escaped the scene
func (pt *PathTracingIntegrator) Background(ray core.Ray) core.Color {
	unitDirection := ray.Direction.Unit()
	t := math.Max(0, math.Min(1, 0.5*(unitDirection.Y+1.0)))
	return pt.config.BackgroundBottom.Lerp(pt.config.BackgroundTop, t)
}

// sampleLights aims one extra ray at a random point of every light near the start of a path.
// The shortcut fires with probability 0.1 per light and returns false when it did not run.
func (pt *PathTracingIntegrator) sampleLights(hit material.HitRecord, attenuation core.Color, world geometry.Hittable, lights []geometry.Sphere, depth int, sampler core.Sampler) (core.Color, bool) {
	if !pt.config.DirectLightSampling || len(lights) == 0 {
		return core.Color{}, false
	}
	if pt.config.MaxDepth-depth >= directLightBounces {
		return core.Color{}, false
	}
	chance := math.Min(1, directLightChancePerLight*float64(len(lights)))
	if sampler.Get1D() >= chance {
		return core.Color{}, false
	}

	var sum core.Color
	for _, light := range lights {
		target := light.Center.Add(core.RandomUnitVector(sampler).Multiply(math.Abs(light.Radius)))
		toLight := target.Subtract(hit.Point)
		// Lights behind the surface contribute nothing
		if toLight.Dot(hit.Normal) <= 0 {
			continue
		}
		// One bounce deep: the light's emission when unoccluded, black when a surface blocks it,
		// and the sky when a grazing ray slips past the light sphere
		incoming := pt.RayColor(core.NewRay(hit.Point, toLight), world, nil, 1, sampler)
		sum = sum.Add(attenuation.MultiplyVec(incoming))
	}

	return sum.Divide(float64(len(lights))), true
}
