package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/material"
)

var grey = material.NewLambertian(core.NewColor(0.5, 0.5, 0.5))

func TestSphere_Hit_Miss(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, grey)
	// Closest approach is 2 > radius
	ray := core.NewRay(core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0))

	hit, isHit := sphere.Hit(ray, 0.001, 1000.0)
	if isHit {
		t.Errorf("Expected miss, but got hit at t=%f", hit.T)
	}
}

func TestSphere_Hit_ZeroDirectionMisses(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, grey)
	// Origin inside the sphere: both roots are NaN
	ray := core.NewRay(core.NewVec3(0, 0, 0.5), core.Vec3{})

	if hit, isHit := sphere.Hit(ray, 0.001, 1e9); isHit {
		t.Errorf("Expected miss for a zero-length direction, got hit at t=%f", hit.T)
	}
}

func TestSphere_Hit_RootsThroughCenter(t *testing.T) {
	center := core.NewVec3(0, 0, -5)
	radius := 1.5
	sphere := NewSphere(center, radius, grey)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	distance := 5.0

	near, isHit := sphere.Hit(ray, 0.0001, math.Inf(1))
	if !isHit {
		t.Fatal("Expected hit on near root")
	}
	if math.Abs(near.T-(distance-radius)) > 1e-9 {
		t.Errorf("Expected near root t=%f, got %f", distance-radius, near.T)
	}

	// Excluding the near root leaves the far one
	far, isHit := sphere.Hit(ray, near.T, math.Inf(1))
	if !isHit {
		t.Fatal("Expected hit on far root")
	}
	if math.Abs(far.T-(distance+radius)) > 1e-9 {
		t.Errorf("Expected far root t=%f, got %f", distance+radius, far.T)
	}
	if far.FrontFace {
		t.Error("Far root is reached from inside, expected back face")
	}
}

func TestSphere_Hit_FrontAndBackFace(t *testing.T) {
	tests := []struct {
		name           string
		radius         float64
		rayOrigin      core.Vec3
		rayDirection   core.Vec3
		expectedT      float64
		expectedFront  bool
		expectedNormal core.Vec3
	}{
		{
			name:           "front face hit",
			radius:         1.0,
			rayOrigin:      core.NewVec3(0, 0, 2),
			rayDirection:   core.NewVec3(0, 0, -1),
			expectedT:      1.0,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
		{
			name:           "back face hit",
			radius:         1.0,
			rayOrigin:      core.NewVec3(0, 0, 0),
			rayDirection:   core.NewVec3(0, 0, 1),
			expectedT:      1.0,
			expectedFront:  false,
			expectedNormal: core.NewVec3(0, 0, -1),
		},
		{
			name:           "hollow sphere from outside",
			radius:         -1.0,
			rayOrigin:      core.NewVec3(0, 0, 2),
			rayDirection:   core.NewVec3(0, 0, -1),
			expectedT:      1.0,
			expectedFront:  false,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
		{
			name:           "hollow sphere from inside",
			radius:         -1.0,
			rayOrigin:      core.NewVec3(0, 0, 0),
			rayDirection:   core.NewVec3(0, 0, 1),
			expectedT:      1.0,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 0, -1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sphere := NewSphere(core.NewVec3(0, 0, 0), tt.radius, grey)
			hit, isHit := sphere.Hit(core.NewRay(tt.rayOrigin, tt.rayDirection), 0.001, 1000.0)
			if !isHit {
				t.Fatal("Expected hit, but got miss")
			}
			if math.Abs(hit.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, hit.T)
			}
			if hit.FrontFace != tt.expectedFront {
				t.Errorf("Expected front face %t, got %t", tt.expectedFront, hit.FrontFace)
			}
			if hit.Normal.Subtract(tt.expectedNormal).Length() > 1e-9 {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, hit.Normal)
			}
			// The stored normal always opposes the incoming ray
			if hit.Normal.Dot(tt.rayDirection) > 0 {
				t.Errorf("Normal %v faces along the ray", hit.Normal)
			}
		})
	}
}

func TestSphere_Hit_Bounds(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, grey)
	ray := core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1))

	if hit, isHit := sphere.Hit(ray, 0.001, 0.5); isHit {
		t.Errorf("Expected miss due to tMax bound, but got hit at t=%f", hit.T)
	}
	if hit, isHit := sphere.Hit(ray, 3.5, 1000.0); isHit {
		t.Errorf("Expected miss due to tMin bound, but got hit at t=%f", hit.T)
	}
	// Intervals are open: a root equal to a bound is rejected
	if hit, isHit := sphere.Hit(ray, 0.001, 1.0); isHit {
		t.Errorf("Expected miss with tMax equal to root, got t=%f", hit.T)
	}
}

func TestSphere_Hit_MaterialAndUV(t *testing.T) {
	metal := material.NewMetal(core.NewColor(0.8, 0.6, 0.2), 0.1)
	sphere := NewSphere(core.NewVec3(0, 0, -5), 1.0, metal)

	hit, isHit := sphere.Hit(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1))
	if !isHit {
		t.Fatal("Expected hit")
	}
	if hit.Material != metal {
		t.Errorf("Expected material %v, got %v", metal, hit.Material)
	}
	if math.Abs(hit.U-0.5) > 1e-12 || math.Abs(hit.V-0.5) > 1e-12 {
		t.Errorf("Expected (u,v)=(0.5,0.5), got (%f,%f)", hit.U, hit.V)
	}

	top, isHit := sphere.Hit(core.NewRay(core.NewVec3(0, 5, -5), core.NewVec3(0, -1, 0)), 0.001, math.Inf(1))
	if !isHit {
		t.Fatal("Expected hit from above")
	}
	if math.Abs(top.V-1.0) > 1e-12 {
		t.Errorf("Expected v=1 at the pole, got %f", top.V)
	}
}

func TestSphere_Validate(t *testing.T) {
	tests := []struct {
		name     string
		sphere   Sphere
		expected error
	}{
		{"valid", NewSphere(core.NewVec3(0, 0, 0), 1, grey), nil},
		{"hollow is valid", NewSphere(core.NewVec3(0, 0, 0), -0.4, grey), nil},
		{"zero radius", NewSphere(core.NewVec3(0, 0, 0), 0, grey), ErrInvalidRadius},
		{"nan radius", NewSphere(core.NewVec3(0, 0, 0), math.NaN(), grey), ErrInvalidRadius},
		{"infinite center", NewSphere(core.NewVec3(math.Inf(1), 0, 0), 1, grey), ErrInvalidCenter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sphere.Validate()
			if tt.expected == nil && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
			if tt.expected != nil && !errors.Is(err, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, err)
			}
		})
	}
}
