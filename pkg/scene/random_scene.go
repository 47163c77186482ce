package scene

import (
	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/geometry"
	"github.com/df07/go-sphere-tracer/pkg/material"
)

// NewRandomScene creates the procedural field of small spheres around three large ones.
// The layout is a pure function of seed. Some diffuse spheres rise over time when
// rendered with more than one frame.
func NewRandomScene(seed int64) *State {
	s := &State{
		Name:            "random",
		AspectRatio:     3.0 / 2.0,
		Width:           600,
		SamplesPerPixel: 50,
		MaxDepth:        50,
		Seed:            seed,
		Camera: geometry.CameraConfig{
			LookFrom: core.NewVec3(13, 2, 3),
			LookAt:   core.NewVec3(0, 0, 0),
			Up:       core.NewVec3(0, 1, 0),
			VFov:     20.0,
		},
		Background: DefaultBackground(),
		World:      geometry.NewWorld(),
	}

	sampler := core.NewSeededSampler(seed)
	random := sampler.Get1D

	s.World.Add(geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, material.NewLambertian(core.NewColor(0.5, 0.5, 0.5))))

	clearing := core.NewVec3(4, 0.2, 0)
	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			chooseMat := random()
			center := core.NewVec3(float64(a)+0.9*random(), 0.2, float64(b)+0.9*random())
			if center.Subtract(clearing).Length() <= 0.9 {
				continue
			}

			switch {
			case chooseMat < 0.8:
				albedo := sampler.Get3D().MultiplyVec(sampler.Get3D())
				h := s.World.Add(geometry.NewSphere(center, 0.2, material.NewLambertian(albedo)))
				if random() < 0.25 {
					s.Animations = append(s.Animations, Animation{
						Sphere:   h,
						Velocity: core.NewVec3(0, 0.1*random(), 0),
					})
				}
			case chooseMat < 0.95:
				albedo := sampler.Get3D().Multiply(0.5).Add(core.NewColor(0.5, 0.5, 0.5))
				s.World.Add(geometry.NewSphere(center, 0.2, material.NewMetal(albedo, 0.5*random())))
			default:
				s.World.Add(geometry.NewSphere(center, 0.2, material.NewDielectric(1.5)))
			}
		}
	}

	s.World.Add(geometry.NewSphere(core.NewVec3(0, 1, 0), 1.0, material.NewDielectric(1.5)))
	s.World.Add(geometry.NewSphere(core.NewVec3(-4, 1, 0), 1.0, material.NewLambertian(core.NewColor(0.4, 0.2, 0.1))))
	s.World.Add(geometry.NewSphere(core.NewVec3(4, 1, 0), 1.0, material.NewMetal(core.NewColor(0.7, 0.6, 0.5), 0.0)))

	// Overhead light used by direct light sampling
	light := s.World.Add(geometry.NewSphere(core.NewVec3(0, 12, 0), 3, material.NewLight(core.NewColor(4, 4, 4))))
	s.Lights = append(s.Lights, light)

	s.Normalize()
	return s
}
