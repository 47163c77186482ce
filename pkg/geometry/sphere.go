package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/material"
)

// Sphere represents a sphere shape.
// A negative radius keeps the same surface but flips the outward normal inward,
// which is how hollow glass shells are modelled.
type Sphere struct {
	Center   core.Point3
	Radius   float64
	Material material.Material
}

// NewSphere creates a new sphere
func NewSphere(center core.Point3, radius float64, mat material.Material) Sphere {
	return Sphere{
		Center:   center,
		Radius:   radius,
		Material: mat,
	}
}

// Validate rejects spheres that would poison the integrator with NaNs
func (s Sphere) Validate() error {
	if s.Radius == 0 || math.IsNaN(s.Radius) || math.IsInf(s.Radius, 0) {
		return fmt.Errorf("%w: %g", ErrInvalidRadius, s.Radius)
	}
	if !s.Center.IsFinite() {
		return fmt.Errorf("%w: %v", ErrInvalidCenter, s.Center)
	}
	return nil
}

// Hit tests if a ray intersects with the sphere strictly inside (tMin, tMax)
func (s Sphere) Hit(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
	// Vector from sphere center to ray origin
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + 2·halfB·t + c = 0
	a := ray.Direction.LengthSquared()
	halfB := oc.Dot(ray.Direction)
	c := oc.LengthSquared() - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return material.HitRecord{}, false
	}

	sqrtD := math.Sqrt(discriminant)

	// Try the closer intersection point first
	root := (-halfB - sqrtD) / a
	// Written so NaN roots (zero-length direction) are rejected too
	if !(root > tMin && root < tMax) {
		root = (-halfB + sqrtD) / a
		if !(root > tMin && root < tMax) {
			return material.HitRecord{}, false
		}
	}

	hit := material.HitRecord{
		T:        root,
		Point:    ray.At(root),
		Material: s.Material,
	}

	// Dividing by the signed radius flips the normal of hollow spheres
	outwardNormal := hit.Point.Subtract(s.Center).Divide(s.Radius)
	hit.SetFaceNormal(ray, outwardNormal)
	hit.U, hit.V = sphereUV(hit.Point.Subtract(s.Center).Divide(math.Abs(s.Radius)))

	return hit, true
}

// sphereUV maps a point on the unit sphere to (u, v) in [0,1]
func sphereUV(p core.Vec3) (u, v float64) {
	u = math.Atan2(p.X, p.Z)/(2*math.Pi) + 0.5
	v = p.Y*0.5 + 0.5
	return u, v
}
