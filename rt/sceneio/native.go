// Package sceneio is the scene-file collaborator the core never calls
// directly: it reads and writes the native serialized scene format and
// ingests the ASCII PLY subset, handing the core a fully built
// primitive list and material table.
//
// The native format's shape — a flat list of typed, tagged entities
// with nested vector fields round-tripped to a text file — follows the
// teacher's own preset serialization (mod_presets.go's EntityData,
// struct-tagged and marshaled entity-by-entity); this package swaps
// encoding/json for gopkg.in/yaml.v3 since a hand-authored scene
// description reads more naturally as YAML, and yaml.v3 is already
// present in the teacher's dependency graph.
package sceneio

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lumenrt/tracer/rt/material"
	"github.com/lumenrt/tracer/rt/primitives"
	"gopkg.in/yaml.v3"
)

// Vec3 is the [x,y,z] wire shape for every point/vector field.
type Vec3 [3]float64

func (v Vec3) toMgl() mgl64.Vec3 { return mgl64.Vec3{v[0], v[1], v[2]} }

func fromMgl(v mgl64.Vec3) Vec3 { return Vec3{v.X(), v.Y(), v.Z()} }

// MaterialDef is the on-disk shape of one material table entry.
type MaterialDef struct {
	Kind            string  `yaml:"kind"`
	Albedo          Vec3    `yaml:"albedo,omitempty"`
	Fuzz            float64 `yaml:"fuzz,omitempty"`
	RefractionIndex float64 `yaml:"refraction_index,omitempty"`
}

// PrimitiveDef is the on-disk shape of one primitive entry. Material
// is an index into the SceneDef's Materials list.
type PrimitiveDef struct {
	Kind     string `yaml:"kind"`
	Material int    `yaml:"material"`

	Center Vec3    `yaml:"center,omitempty"`
	Radius float64 `yaml:"radius,omitempty"`

	V0 Vec3 `yaml:"v0,omitempty"`
	V1 Vec3 `yaml:"v1,omitempty"`
	V2 Vec3 `yaml:"v2,omitempty"`
}

// SceneDef is the full on-disk scene: materials first (so primitives
// can reference them by index), then primitives.
type SceneDef struct {
	Materials  []MaterialDef  `yaml:"materials"`
	Primitives []PrimitiveDef `yaml:"primitives"`
}

// Load reads and parses a native scene file. It does not build
// engine-ready primitives/materials; call Build for that, so a caller
// can inspect or rewrite the definition first.
func Load(path string) (*SceneDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sceneio: reading %s: %w", path, err)
	}
	var def SceneDef
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("sceneio: parsing %s: %w", path, err)
	}
	return &def, nil
}

// Build converts a parsed SceneDef into a material table and primitive
// list ready for scene.New. Errors here are scene-loader concerns, not
// the core's — the core never sees a malformed definition.
func (d *SceneDef) Build() ([]primitives.Primitive, *material.Table, error) {
	mats := &material.Table{}
	for i, md := range d.Materials {
		m, err := md.build()
		if err != nil {
			return nil, nil, fmt.Errorf("sceneio: material %d: %w", i, err)
		}
		mats.Add(m)
	}

	prims := make([]primitives.Primitive, 0, len(d.Primitives))
	for i, pd := range d.Primitives {
		if pd.Material < 0 || pd.Material >= mats.Len() {
			return nil, nil, fmt.Errorf("sceneio: primitive %d references unknown material %d", i, pd.Material)
		}
		h := material.Handle(pd.Material)
		switch pd.Kind {
		case "sphere":
			prims = append(prims, primitives.NewSphere(pd.Center.toMgl(), pd.Radius, h))
		case "triangle":
			prims = append(prims, primitives.NewTriangle(pd.V0.toMgl(), pd.V1.toMgl(), pd.V2.toMgl(), h))
		default:
			return nil, nil, fmt.Errorf("sceneio: primitive %d has unknown kind %q", i, pd.Kind)
		}
	}
	return prims, mats, nil
}

func (md *MaterialDef) build() (material.Material, error) {
	switch md.Kind {
	case "lambertian":
		return material.NewLambertian(md.Albedo.toMgl()), nil
	case "metal":
		return material.NewMetal(md.Albedo.toMgl(), md.Fuzz), nil
	case "dielectric":
		return material.NewDielectric(md.RefractionIndex), nil
	}
	return material.Material{}, fmt.Errorf("unknown material kind %q", md.Kind)
}

// Save writes prims/mats back out in the native format, the inverse of
// Build.
func Save(path string, prims []primitives.Primitive, mats *material.Table) error {
	def := SceneDef{}
	for _, m := range mats.All() {
		def.Materials = append(def.Materials, materialToDef(m))
	}
	for _, p := range prims {
		def.Primitives = append(def.Primitives, primitiveToDef(p))
	}

	data, err := yaml.Marshal(&def)
	if err != nil {
		return fmt.Errorf("sceneio: marshaling scene: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("sceneio: writing %s: %w", path, err)
	}
	return nil
}

func materialToDef(m material.Material) MaterialDef {
	switch m.Kind {
	case material.Lambertian:
		return MaterialDef{Kind: "lambertian", Albedo: fromMgl(m.Albedo)}
	case material.Metal:
		return MaterialDef{Kind: "metal", Albedo: fromMgl(m.Albedo), Fuzz: m.Fuzz}
	case material.Dielectric:
		return MaterialDef{Kind: "dielectric", RefractionIndex: m.RefractIx}
	}
	return MaterialDef{}
}

func primitiveToDef(p primitives.Primitive) PrimitiveDef {
	switch p.Kind {
	case primitives.KindSphere:
		return PrimitiveDef{Kind: "sphere", Material: int(p.Mat), Center: fromMgl(p.Center), Radius: p.Radius}
	case primitives.KindTriangle:
		return PrimitiveDef{
			Kind: "triangle", Material: int(p.Mat),
			V0: fromMgl(p.V0), V1: fromMgl(p.V1), V2: fromMgl(p.V2),
		}
	}
	return PrimitiveDef{}
}
