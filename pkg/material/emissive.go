package material

import (
	"github.com/df07/go-sphere-tracer/pkg/core"
)

// NewLight creates a light-emitting material. It never scatters.
func NewLight(emission core.Color) Material {
	return Material{Kind: KindLight, Emission: emission}
}
