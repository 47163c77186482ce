package scene

import (
	"math"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/geometry"
	"github.com/df07/go-sphere-tracer/pkg/material"
)

// oklchToRGB converts OKLCH color values to RGB
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Color {
	hRad := h * math.Pi / 180.0

	// OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to cubed LMS
	lp := l + 0.3963377774*a + 0.2158037573*b
	mp := l - 0.1055613458*a - 0.0638541728*b
	sp := l - 0.0894841775*a - 1.2914855480*b
	lp, mp, sp = lp*lp*lp, mp*mp*mp, sp*sp*sp

	// LMS to linear RGB
	rgb := core.NewColor(
		+4.0767416621*lp-3.3077115913*mp+0.2309699292*sp,
		-1.2684380046*lp+2.6097574011*mp-0.3413193965*sp,
		-0.0041960863*lp-0.7034186147*mp+1.7076147010*sp,
	)
	return rgb.Clamp(0, 1)
}

// NewSphereGridScene creates a gridSize x gridSize field of colored metal spheres under a sphere light
func NewSphereGridScene(gridSize int) *State {
	if gridSize < 1 {
		gridSize = 1
	}

	s := &State{
		Name:            "grid",
		AspectRatio:     16.0 / 9.0,
		Width:           800,
		SamplesPerPixel: 100,
		MaxDepth:        40,
		Seed:            defaultSeed,
		Camera: geometry.CameraConfig{
			LookFrom: core.NewVec3(4.5, 6, 18),
			LookAt:   core.NewVec3(4.5, 0.8, 4.5),
			Up:       core.NewVec3(0, 1, 0),
			VFov:     40.0,
		},
		Background: Background{
			Top:    core.NewColor(0.5, 0.7, 1.0),
			Bottom: core.NewColor(1.0, 1.0, 1.0),
		},
		World: geometry.NewWorld(),
	}

	// A bright sun-like light, high and to the side
	sun := s.World.Add(geometry.NewSphere(core.NewVec3(20, 25, 20), 8, material.NewLight(core.NewColor(12.0, 11.5, 10.0))))
	s.Lights = append(s.Lights, sun)

	s.World.Add(geometry.NewSphere(core.NewVec3(4.5, -1000, 4.5), 1000, material.NewLambertian(core.NewColor(0.5, 0.5, 0.5))))

	// Fit the grid into a roughly 9x9 unit area around x=z=4.5
	targetArea := 9.0
	spacing := targetArea
	if gridSize > 1 {
		spacing = targetArea / float64(gridSize-1)
	}
	sphereRadius := math.Max(0.02, math.Min(0.35, spacing*0.35))

	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			x := float64(i)*spacing - targetArea/2.0 + 4.5
			z := float64(j)*spacing - targetArea/2.0 + 4.5

			// Hue varies across X, chroma across Z
			fi, fj := gridFraction(i, gridSize), gridFraction(j, gridSize)
			hue := fi * 360.0
			chroma := 0.05 + fj*(0.25-0.05)
			lightness := 0.65 + 0.1*math.Sin(float64(i+j)*0.5)

			roughness := 0.05 + 0.1*float64((i+j)%3)/2.0
			metal := material.NewMetal(oklchToRGB(lightness, chroma, hue), roughness)
			s.World.Add(geometry.NewSphere(core.NewVec3(x, sphereRadius, z), sphereRadius, metal))
		}
	}

	s.Normalize()
	return s
}

func gridFraction(i, n int) float64 {
	if n <= 1 {
		return 0
	}
	return float64(i) / float64(n-1)
}
