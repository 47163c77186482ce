package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/geometry"
	"github.com/df07/go-sphere-tracer/pkg/material"
)

// vec3JSON is a vector written as a three element array
type vec3JSON [3]float64

func (v vec3JSON) vec() core.Vec3 { return core.NewVec3(v[0], v[1], v[2]) }

func toJSON(v core.Vec3) vec3JSON { return vec3JSON{v.X, v.Y, v.Z} }

type cameraJSON struct {
	LookFrom vec3JSON  `json:"look_from"`
	LookAt   vec3JSON  `json:"look_at"`
	Up       *vec3JSON `json:"up,omitempty"`
	VFov     float64   `json:"vfov,omitempty"`
}

type backgroundJSON struct {
	Top    vec3JSON `json:"top"`
	Bottom vec3JSON `json:"bottom"`
}

type materialJSON struct {
	Type   string    `json:"type"`
	Albedo *vec3JSON `json:"albedo,omitempty"`
	Fuzz   float64   `json:"fuzz,omitempty"`
	IR     float64   `json:"ir,omitempty"`
	Emit   *vec3JSON `json:"emit,omitempty"`
}

type sphereJSON struct {
	Center   vec3JSON     `json:"center"`
	Radius   float64      `json:"radius"`
	Material materialJSON `json:"material"`
	Velocity *vec3JSON    `json:"velocity,omitempty"`
}

type stateJSON struct {
	Name            string          `json:"name,omitempty"`
	AspectRatio     float64         `json:"aspect_ratio"`
	Width           int             `json:"width"`
	Height          int             `json:"height,omitempty"`
	Frames          int             `json:"frames,omitempty"`
	SamplesPerPixel int             `json:"samples_per_pixel,omitempty"`
	MaxDepth        int             `json:"max_depth,omitempty"`
	Seed            *int64          `json:"seed,omitempty"`
	Camera          cameraJSON      `json:"camera"`
	Background      *backgroundJSON `json:"background,omitempty"`
	Spheres         []sphereJSON    `json:"spheres"`
	Lights          []int           `json:"lights,omitempty"`
}

// Load reads and validates a JSON scene file
func Load(path string) (*State, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("scene: open %s: %w", path, err)
	}
	defer f.Close()

	state, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("scene: %s: %w", path, err)
	}
	if state.Name == "" {
		state.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return state, nil
}

// Parse decodes a JSON scene description, fills defaults and validates it
func Parse(r io.Reader) (*State, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var doc stateJSON
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrInvalidState, err)
	}

	state, err := doc.state()
	if err != nil {
		return nil, err
	}
	state.Normalize()
	if err := state.Validate(); err != nil {
		return nil, err
	}
	return state, nil
}

func (doc stateJSON) state() (*State, error) {
	state := &State{
		Name:            doc.Name,
		AspectRatio:     doc.AspectRatio,
		Width:           doc.Width,
		Height:          doc.Height,
		Frames:          doc.Frames,
		SamplesPerPixel: doc.SamplesPerPixel,
		MaxDepth:        doc.MaxDepth,
		Seed:            defaultSeed,
		Camera: geometry.CameraConfig{
			LookFrom: doc.Camera.LookFrom.vec(),
			LookAt:   doc.Camera.LookAt.vec(),
			VFov:     doc.Camera.VFov,
		},
		Background: DefaultBackground(),
		World:      geometry.NewWorld(),
	}
	if doc.Seed != nil {
		state.Seed = *doc.Seed
	}
	if doc.Camera.Up != nil {
		state.Camera.Up = doc.Camera.Up.vec()
	}
	if doc.Background != nil {
		state.Background = Background{Top: doc.Background.Top.vec(), Bottom: doc.Background.Bottom.vec()}
	}

	for i, sj := range doc.Spheres {
		mat, err := sj.Material.material()
		if err != nil {
			return nil, fmt.Errorf("%w: sphere %d: %w", ErrInvalidState, i, err)
		}
		h := state.World.Add(geometry.NewSphere(sj.Center.vec(), sj.Radius, mat))
		if sj.Velocity != nil {
			state.Animations = append(state.Animations, Animation{Sphere: h, Velocity: sj.Velocity.vec()})
		}
	}
	for _, l := range doc.Lights {
		state.Lights = append(state.Lights, geometry.Handle(l))
	}
	return state, nil
}

func (mj materialJSON) material() (material.Material, error) {
	kind, err := material.ParseKind(mj.Type)
	if err != nil {
		return material.Material{}, err
	}

	switch kind {
	case material.KindLambertian, material.KindMetal:
		if mj.Albedo == nil {
			return material.Material{}, fmt.Errorf("%s material needs an albedo", kind)
		}
		if kind == material.KindMetal {
			return material.NewMetal(mj.Albedo.vec(), mj.Fuzz), nil
		}
		return material.NewLambertian(mj.Albedo.vec()), nil
	case material.KindDielectric:
		if mj.IR <= 0 {
			return material.Material{}, fmt.Errorf("dielectric refractive index %g", mj.IR)
		}
		return material.NewDielectric(mj.IR), nil
	default:
		if mj.Emit == nil {
			return material.Material{}, fmt.Errorf("light material needs an emit color")
		}
		return material.NewLight(mj.Emit.vec()), nil
	}
}

// Encode writes the state as a JSON document accepted by Parse
func Encode(w io.Writer, s *State) error {
	up := toJSON(s.Camera.Up)
	doc := stateJSON{
		Name:            s.Name,
		AspectRatio:     s.AspectRatio,
		Width:           s.Width,
		Height:          s.Height,
		Frames:          s.Frames,
		SamplesPerPixel: s.SamplesPerPixel,
		MaxDepth:        s.MaxDepth,
		Seed:            &s.Seed,
		Camera: cameraJSON{
			LookFrom: toJSON(s.Camera.LookFrom),
			LookAt:   toJSON(s.Camera.LookAt),
			Up:       &up,
			VFov:     s.Camera.VFov,
		},
		Background: &backgroundJSON{Top: toJSON(s.Background.Top), Bottom: toJSON(s.Background.Bottom)},
	}

	velocities := make(map[geometry.Handle]core.Vec3, len(s.Animations))
	for _, a := range s.Animations {
		velocities[a.Sphere] = velocities[a.Sphere].Add(a.Velocity)
	}
	for i, sphere := range s.World.Spheres() {
		sj := sphereJSON{
			Center:   toJSON(sphere.Center),
			Radius:   sphere.Radius,
			Material: encodeMaterial(sphere.Material),
		}
		if v, ok := velocities[geometry.Handle(i)]; ok {
			vj := toJSON(v)
			sj.Velocity = &vj
		}
		doc.Spheres = append(doc.Spheres, sj)
	}
	for _, h := range s.Lights {
		doc.Lights = append(doc.Lights, int(h))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func encodeMaterial(m material.Material) materialJSON {
	mj := materialJSON{Type: m.Kind.String()}
	switch m.Kind {
	case material.KindLambertian:
		albedo := toJSON(m.Albedo)
		mj.Albedo = &albedo
	case material.KindMetal:
		albedo := toJSON(m.Albedo)
		mj.Albedo = &albedo
		mj.Fuzz = m.Fuzz
	case material.KindDielectric:
		mj.IR = m.RefractiveIndex
	case material.KindLight:
		emit := toJSON(m.Emission)
		mj.Emit = &emit
	}
	return mj
}
