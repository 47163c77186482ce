package integrator

import (
	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/geometry"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor returns the radiance carried back along ray with depth bounces remaining
	RayColor(ray core.Ray, world geometry.Hittable, lights []geometry.Sphere, depth int, sampler core.Sampler) core.Color
}

// Config contains integrator configuration
type Config struct {
	MaxDepth            int        // Maximum ray bounce depth
	TMin                float64    // Lower hit bound, keeps scattered rays off their own surface
	BackgroundTop       core.Color // Sky color looking straight up
	BackgroundBottom    core.Color // Sky color looking straight down
	DirectLightSampling bool       // Enable the light-biased shortcut on early bounces
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		MaxDepth:         50,
		TMin:             0.0001,
		BackgroundTop:    core.NewColor(0.7, 0.7, 1.0),
		BackgroundBottom: core.NewColor(1.0, 1.0, 1.0),
	}
}
