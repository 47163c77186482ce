package material

import (
	"fmt"

	"github.com/df07/go-sphere-tracer/pkg/core"
)

// Kind identifies the variant held by a Material
type Kind uint8

const (
	KindLambertian Kind = iota
	KindMetal
	KindDielectric
	KindLight
)

var kindNames = [...]string{
	KindLambertian: "lambertian",
	KindMetal:      "metal",
	KindDielectric: "dielectric",
	KindLight:      "light",
}

// String returns the lowercase name used in scene files
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// ParseKind maps a scene-file name back to a Kind
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown material type %q", name)
}

// Material is a closed variant over the supported surface kinds.
// Only the fields of the active Kind are meaningful. The zero value is a black Lambertian.
type Material struct {
	Kind            Kind
	Albedo          core.Color // Lambertian, Metal
	Fuzz            float64    // Metal: 0.0 = perfect mirror, 1.0 = very fuzzy
	RefractiveIndex float64    // Dielectric
	Emission        core.Color // Light
}

// Scatter computes the continuation ray and attenuation for a ray hitting this material.
// It returns false when the path ends here; the attenuation then holds the emitted color
// (black for absorption).
func (m Material) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	switch m.Kind {
	case KindLambertian:
		return m.scatterLambertian(hit, sampler)
	case KindMetal:
		return m.scatterMetal(rayIn, hit, sampler)
	case KindDielectric:
		return m.scatterDielectric(rayIn, hit, sampler)
	case KindLight:
		return ScatterResult{Attenuation: m.Emission}, false
	default:
		return ScatterResult{}, false
	}
}

// IsEmissive reports whether the material ends paths with its own light
func (m Material) IsEmissive() bool {
	return m.Kind == KindLight
}

func (m Material) String() string {
	switch m.Kind {
	case KindLambertian:
		return fmt.Sprintf("lambertian(albedo=%v)", m.Albedo)
	case KindMetal:
		return fmt.Sprintf("metal(albedo=%v, fuzz=%g)", m.Albedo, m.Fuzz)
	case KindDielectric:
		return fmt.Sprintf("dielectric(ir=%g)", m.RefractiveIndex)
	case KindLight:
		return fmt.Sprintf("light(emission=%v)", m.Emission)
	default:
		return m.Kind.String()
	}
}
