package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-sphere-tracer/pkg/core"
)

// CameraConfig describes a pinhole camera
type CameraConfig struct {
	LookFrom    core.Point3 // Camera position
	LookAt      core.Point3 // Point the camera looks at
	Up          core.Vec3   // View-up direction
	VFov        float64     // Vertical field of view in degrees
	AspectRatio float64     // Width / height
}

// Camera generates primary rays for viewport coordinates
type Camera struct {
	origin          core.Point3
	lowerLeftCorner core.Point3
	horizontal      core.Vec3
	vertical        core.Vec3
}

// NewCamera builds the viewport basis, rejecting configurations with no defined basis
func NewCamera(config CameraConfig) (*Camera, error) {
	if config.VFov <= 0 || config.VFov >= 180 || math.IsNaN(config.VFov) {
		return nil, fmt.Errorf("%w: vertical fov %g outside (0, 180)", ErrDegenerateCamera, config.VFov)
	}
	if !(config.AspectRatio > 0) || math.IsInf(config.AspectRatio, 0) {
		return nil, fmt.Errorf("%w: aspect ratio %g", ErrDegenerateCamera, config.AspectRatio)
	}

	viewDir := config.LookFrom.Subtract(config.LookAt)
	if viewDir.NearZero() {
		return nil, fmt.Errorf("%w: look-from and look-at coincide at %v", ErrDegenerateCamera, config.LookFrom)
	}
	if config.Up.NearZero() || config.Up.Cross(viewDir).NearZero() {
		return nil, fmt.Errorf("%w: up vector %v is parallel to the view direction", ErrDegenerateCamera, config.Up)
	}

	theta := config.VFov * math.Pi / 180.0
	h := math.Tan(theta / 2)
	viewportHeight := 2.0 * h
	viewportWidth := config.AspectRatio * viewportHeight

	w := viewDir.Unit()
	u := config.Up.Cross(w).Unit()
	v := w.Cross(u)

	origin := config.LookFrom
	horizontal := u.Multiply(viewportWidth)
	vertical := v.Multiply(viewportHeight)
	lowerLeftCorner := origin.
		Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(w)

	return &Camera{
		origin:          origin,
		horizontal:      horizontal,
		vertical:        vertical,
		lowerLeftCorner: lowerLeftCorner,
	}, nil
}

// GetRay generates a ray for viewport coordinates (u, v) where 0 <= u,v <= 1
// and (0, 0) is the lower-left corner
func (c *Camera) GetRay(u, v float64) core.Ray {
	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(u)).
		Add(c.vertical.Multiply(v)).
		Subtract(c.origin)

	return core.NewRay(c.origin, direction)
}
