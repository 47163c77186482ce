package geometry

import (
	"errors"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/material"
)

var (
	// ErrInvalidRadius is returned for zero or non-finite sphere radii
	ErrInvalidRadius = errors.New("invalid sphere radius")
	// ErrInvalidCenter is returned for non-finite sphere centers
	ErrInvalidCenter = errors.New("invalid sphere center")
	// ErrDegenerateCamera is returned when the camera basis cannot be built
	ErrDegenerateCamera = errors.New("degenerate camera")
	// ErrInvalidHandle is returned for handles outside the world arena
	ErrInvalidHandle = errors.New("invalid primitive handle")
)

// Hittable is anything a ray can be tested against
type Hittable interface {
	Hit(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool)
}
