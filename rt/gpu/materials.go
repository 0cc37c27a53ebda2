package gpu

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/lumenrt/tracer/rt/material"
)

// materialFields maps a material.Material onto the fields
// wavefront_shade.wgsl's Material struct expects. Dielectric has no
// albedo (it transmits rather than tints), so albedo comes back zero
// for that kind.
func materialFields(m material.Material) (kind uint32, albedo mgl64.Vec3, fuzz, refractIx float64) {
	switch m.Kind {
	case material.Lambertian:
		return 0, m.Albedo, 0, 0
	case material.Metal:
		return 1, m.Albedo, m.Fuzz, 0
	case material.Dielectric:
		return 2, mgl64.Vec3{}, 0, m.RefractIx
	}
	return 0, mgl64.Vec3{}, 0, 0
}
