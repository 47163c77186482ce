package scene

import (
	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/geometry"
	"github.com/df07/go-sphere-tracer/pkg/material"
)

// NewDefaultScene creates three spheres resting on a large ground sphere
func NewDefaultScene() *State {
	s := &State{
		Name:            "default",
		AspectRatio:     16.0 / 9.0,
		Width:           400,
		SamplesPerPixel: 100,
		MaxDepth:        50,
		Seed:            defaultSeed,
		Camera: geometry.CameraConfig{
			LookFrom: core.NewVec3(-2, 2, 1),
			LookAt:   core.NewVec3(0, 0, -1),
			Up:       core.NewVec3(0, 1, 0),
			VFov:     40.0,
		},
		Background: DefaultBackground(),
		World:      geometry.NewWorld(),
	}

	// Create materials
	lambertianGround := material.NewLambertian(core.NewColor(0.8, 0.8, 0.0))
	lambertianBlue := material.NewLambertian(core.NewColor(0.1, 0.2, 0.5))
	metalGold := material.NewMetal(core.NewColor(0.8, 0.6, 0.2), 0.0)
	materialGlass := material.NewDielectric(1.5)

	s.World.Add(geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, lambertianGround))
	s.World.Add(geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, lambertianBlue))
	s.World.Add(geometry.NewSphere(core.NewVec3(1, 0, -1), 0.5, metalGold))

	// Hollow glass sphere: the negative radius flips the inner surface normals
	s.World.Add(geometry.NewSphere(core.NewVec3(-1, 0, -1), 0.5, materialGlass))
	s.World.Add(geometry.NewSphere(core.NewVec3(-1, 0, -1), -0.45, materialGlass))

	s.Normalize()
	return s
}
