// Package material implements the three scattering laws ray_color
// dispatches to: Lambertian, Metal and Dielectric. Materials are
// value types held in a scene-owned table and referenced from
// primitives by a small integer Handle, never by pointer or
// reference-counted wrapper (spec: shared materials, no smart
// pointers).
package material

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
)

// Handle indexes into a Table. The zero Handle is a valid material
// (the table's first entry); there is no sentinel "no material."
type Handle int

// Kind tags which scattering law a Material implements.
type Kind uint8

const (
	Lambertian Kind = iota
	Metal
	Dielectric
)

// Material is a tagged union over the three supported scattering laws.
// Only the fields relevant to Kind are meaningful.
type Material struct {
	Kind      Kind
	Albedo    mgl64.Vec3 // Lambertian, Metal
	Fuzz      float64    // Metal, clamped to [0, 1]
	RefractIx float64    // Dielectric
}

func NewLambertian(albedo mgl64.Vec3) Material {
	return Material{Kind: Lambertian, Albedo: albedo}
}

func NewMetal(albedo mgl64.Vec3, fuzz float64) Material {
	if fuzz > 1 {
		fuzz = 1
	}
	if fuzz < 0 {
		fuzz = 0
	}
	return Material{Kind: Metal, Albedo: albedo, Fuzz: fuzz}
}

func NewDielectric(refractionIndex float64) Material {
	return Material{Kind: Dielectric, RefractIx: refractionIndex}
}

// Table holds the scene's materials; primitives reference entries by
// Handle so many primitives can share one Material value.
type Table struct {
	entries []Material
}

func (t *Table) Add(m Material) Handle {
	t.entries = append(t.entries, m)
	return Handle(len(t.entries) - 1)
}

func (t *Table) Get(h Handle) Material {
	return t.entries[h]
}

func (t *Table) Len() int {
	return len(t.entries)
}

// All returns the table's entries in handle order, for the scene
// loader/writer collaborator to serialize. The returned slice is a
// copy; mutating it does not affect the table.
func (t *Table) All() []Material {
	out := make([]Material, len(t.entries))
	copy(out, t.entries)
	return out
}

// HitInfo is the subset of a HitRecord a material's Scatter needs. It
// decouples this package from rt/primitives so primitives can depend
// on material, not the reverse.
type HitInfo struct {
	Point      mgl64.Vec3
	Normal     mgl64.Vec3 // unit normal, already flipped to face the ray
	FrontFace  bool
}

// Scatter computes the outgoing ray and its attenuation for an
// incoming ray direction `in` hitting at `hit`. ok is false when the
// ray is absorbed (Metal only: reflection below the surface).
func (m Material) Scatter(in mgl64.Vec3, hit HitInfo, rng *rand.Rand) (scattered mgl64.Vec3, attenuation mgl64.Vec3, ok bool) {
	switch m.Kind {
	case Lambertian:
		dir := hit.Normal.Add(randomUnitVector(rng))
		if nearZero(dir) {
			dir = hit.Normal
		}
		return dir, m.Albedo, true

	case Metal:
		reflected := reflect(in, hit.Normal)
		reflected = reflected.Add(randomUnitVector(rng).Mul(m.Fuzz))
		ok := reflected.Dot(hit.Normal) > 0
		return reflected, m.Albedo, ok

	case Dielectric:
		eta := m.RefractIx
		if hit.FrontFace {
			eta = 1.0 / m.RefractIx
		}

		unitDir := in.Normalize()
		cosTheta := math.Min(unitDir.Mul(-1).Dot(hit.Normal), 1.0)
		sinTheta := math.Sqrt(1.0 - cosTheta*cosTheta)

		var dir mgl64.Vec3
		if eta*sinTheta > 1.0 || schlickReflectance(cosTheta, eta) > rng.Float64() {
			dir = reflect(unitDir, hit.Normal)
		} else {
			dir = refract(unitDir, hit.Normal, eta)
		}
		return dir, mgl64.Vec3{1, 1, 1}, true
	}

	return mgl64.Vec3{}, mgl64.Vec3{}, false
}

func reflect(v, n mgl64.Vec3) mgl64.Vec3 {
	return v.Sub(n.Mul(2 * v.Dot(n)))
}

// refract implements Snell's law; etaiOverEtat is the ratio of the
// incident medium's refractive index to the transmitted medium's.
func refract(uv, n mgl64.Vec3, etaiOverEtat float64) mgl64.Vec3 {
	cosTheta := math.Min(uv.Mul(-1).Dot(n), 1.0)
	rOutPerp := uv.Add(n.Mul(cosTheta)).Mul(etaiOverEtat)
	rOutParallel := n.Mul(-math.Sqrt(math.Abs(1.0 - rOutPerp.LenSqr())))
	return rOutPerp.Add(rOutParallel)
}

func schlickReflectance(cosine, refractionIndex float64) float64 {
	r0 := (1 - refractionIndex) / (1 + refractionIndex)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}

func nearZero(v mgl64.Vec3) bool {
	const eps = 1e-8
	return math.Abs(v.X()) < eps && math.Abs(v.Y()) < eps && math.Abs(v.Z()) < eps
}

// randomUnitVector samples a uniformly distributed point on the unit
// sphere via rejection sampling inside the unit cube.
func randomUnitVector(rng *rand.Rand) mgl64.Vec3 {
	for {
		p := mgl64.Vec3{
			2*rng.Float64() - 1,
			2*rng.Float64() - 1,
			2*rng.Float64() - 1,
		}
		lsq := p.LenSqr()
		if lsq > 1e-160 && lsq <= 1 {
			return p.Mul(1 / math.Sqrt(lsq))
		}
	}
}

// RandomInUnitDisk samples uniformly inside the unit disk in the XY
// plane, used by the camera's defocus jitter.
func RandomInUnitDisk(rng *rand.Rand) mgl64.Vec3 {
	for {
		p := mgl64.Vec3{2*rng.Float64() - 1, 2*rng.Float64() - 1, 0}
		if p.LenSqr() < 1 {
			return p
		}
	}
}
