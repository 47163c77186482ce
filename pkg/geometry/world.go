package geometry

import (
	"fmt"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/material"
)

// Handle addresses a sphere stored in a World
type Handle int

// World is an arena of spheres addressed by Handle.
// It is built and mutated single-threaded, then shared read-only by render workers.
type World struct {
	spheres []Sphere
}

// NewWorld creates a world holding the given spheres in order
func NewWorld(spheres ...Sphere) *World {
	w := &World{spheres: make([]Sphere, 0, len(spheres))}
	for _, s := range spheres {
		w.Add(s)
	}
	return w
}

// Add appends a sphere and returns its handle
func (w *World) Add(s Sphere) Handle {
	w.spheres = append(w.spheres, s)
	return Handle(len(w.spheres) - 1)
}

// Len returns the number of spheres
func (w *World) Len() int {
	return len(w.spheres)
}

// Get returns the sphere for a handle
func (w *World) Get(h Handle) (Sphere, error) {
	if !w.valid(h) {
		return Sphere{}, fmt.Errorf("%w: %d", ErrInvalidHandle, h)
	}
	return w.spheres[h], nil
}

// Spheres returns a copy of the stored spheres in handle order
func (w *World) Spheres() []Sphere {
	return append([]Sphere(nil), w.spheres...)
}

// Lookup resolves a list of handles, e.g. the light set of a scene
func (w *World) Lookup(handles []Handle) ([]Sphere, error) {
	out := make([]Sphere, 0, len(handles))
	for _, h := range handles {
		s, err := w.Get(h)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Translate moves a sphere by delta. Never call it while a render is reading the world.
func (w *World) Translate(h Handle, delta core.Vec3) error {
	if !w.valid(h) {
		return fmt.Errorf("%w: %d", ErrInvalidHandle, h)
	}
	w.spheres[h].Center = w.spheres[h].Center.Add(delta)
	return nil
}

// Clone returns an independent copy of the world
func (w *World) Clone() *World {
	return &World{spheres: w.Spheres()}
}

// Validate checks every sphere and reports the first failure with its handle
func (w *World) Validate() error {
	for i, s := range w.spheres {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("sphere %d: %w", i, err)
		}
	}
	return nil
}

// Hit returns the closest intersection over all spheres inside (tMin, tMax)
func (w *World) Hit(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
	var closestHit material.HitRecord
	closestSoFar := tMax
	hitAnything := false

	for i := range w.spheres {
		if hit, isHit := w.spheres[i].Hit(ray, tMin, closestSoFar); isHit {
			hitAnything = true
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, hitAnything
}

func (w *World) valid(h Handle) bool {
	return h >= 0 && int(h) < len(w.spheres)
}
