// Package scene holds the primitive list plus the selected
// acceleration strategy, and drives the ray-color shading recursion
// that turns a hit (or miss) into a pixel color.
package scene

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lumenrt/tracer/rt/aabb"
	"github.com/lumenrt/tracer/rt/bvh"
	"github.com/lumenrt/tracer/rt/grid"
	"github.com/lumenrt/tracer/rt/interval"
	"github.com/lumenrt/tracer/rt/material"
	"github.com/lumenrt/tracer/rt/primitives"
	"github.com/lumenrt/tracer/rt/stats"
)

// Algorithm selects which intersection strategy Scene.Hit dispatches
// to.
type Algorithm int

const (
	Linear Algorithm = iota
	BVH
	Grid
)

func (a Algorithm) String() string {
	switch a {
	case Linear:
		return "linear"
	case BVH:
		return "bvh"
	case Grid:
		return "grid"
	}
	return "unknown"
}

// ConfigError reports a scene misconfiguration caught at construction
// time, before any rendering begins — the only error class the core's
// taxonomy treats as fatal rather than a silent miss.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return "scene config: " + e.Reason }

// Options configures scene construction. BVHMode is only consulted
// when Algorithm == BVH; GridVoxelSize only when Algorithm == Grid.
type Options struct {
	Algorithm     Algorithm
	BVHMode       bvh.Mode
	GridVoxelSize float64
	DrawBoxes     bool
}

// drawBoxesEpsilon is the spec's fixed proximity threshold for the
// draw_boxes debug visualization.
const drawBoxesEpsilon = 1e-2

// Scene is an immutable, fully built container: once New returns, its
// primitive list, material table, and any precomputed BVH/grid never
// change for the lifetime of a render.
type Scene struct {
	Primitives []primitives.Primitive
	Materials  *material.Table
	opts       Options

	bvhTree  *bvh.BVH
	gridTree *grid.Grid
}

// New validates opts and precomputes the selected acceleration
// structure. An empty primitive list is a ConfigError here — caught
// before bvh.Build/grid.Build's own empty-scene panics would ever
// fire, since those panics guard an invariant this constructor has
// already enforced.
func New(prims []primitives.Primitive, mats *material.Table, opts Options) (*Scene, error) {
	if len(prims) == 0 {
		return nil, &ConfigError{Reason: "scene has no primitives"}
	}
	if opts.Algorithm == Grid && opts.GridVoxelSize <= 0 {
		return nil, &ConfigError{Reason: fmt.Sprintf("grid_voxel_size must be positive, got %v", opts.GridVoxelSize)}
	}

	s := &Scene{Primitives: prims, Materials: mats, opts: opts}

	switch opts.Algorithm {
	case BVH:
		s.bvhTree = bvh.Build(prims, opts.BVHMode)
	case Grid:
		s.gridTree = grid.Build(prims, opts.GridVoxelSize)
	case Linear:
		// no precomputation
	default:
		return nil, &ConfigError{Reason: fmt.Sprintf("unknown algorithm %d", opts.Algorithm)}
	}
	return s, nil
}

// Hit dispatches to the configured strategy, then (when draw_boxes is
// enabled) flags the record if the hit point lies within epsilon of
// its own primitive's AABB boundary on two or more axes.
func (s *Scene) Hit(r primitives.Ray, rayT interval.Interval, rec *primitives.HitRecord, counters *stats.Counters) bool {
	var hit bool
	switch s.opts.Algorithm {
	case Linear:
		hit = s.hitLinear(r, rayT, rec, counters)
	case BVH:
		hit = s.bvhTree.Hit(r, rayT, s.Primitives, rec, counters)
	case Grid:
		hit = s.gridTree.Hit(r, rayT, s.Primitives, rec, counters)
	}
	if hit && s.opts.DrawBoxes {
		rec.NearEdge = nearEdge(rec.P, s.Primitives[rec.PrimIndex].BoundingBox(), drawBoxesEpsilon)
	}
	return hit
}

func (s *Scene) hitLinear(r primitives.Ray, rayT interval.Interval, rec *primitives.HitRecord, counters *stats.Counters) bool {
	hitAnything := false
	closest := rayT.Max
	for i, p := range s.Primitives {
		if counters != nil {
			counters.AddPrimitiveCheck()
		}
		var tmp primitives.HitRecord
		if p.Hit(r, interval.New(rayT.Min, closest), &tmp) {
			hitAnything = true
			closest = tmp.T
			tmp.PrimIndex = i
			*rec = tmp
		}
	}
	return hitAnything
}

// nearEdge reports whether p lies within eps of box's boundary on two
// or more axes.
func nearEdge(p mgl64.Vec3, box aabb.AABB, eps float64) bool {
	near := 0
	for a := 0; a < 3; a++ {
		if math.Abs(p[a]-box.Min[a]) < eps || math.Abs(p[a]-box.Max[a]) < eps {
			near++
		}
	}
	return near >= 2
}

// skyColor is the background gradient returned when a ray hits
// nothing: a vertical lerp from white to light blue by the ray's
// normalized y-direction.
func skyColor(dir mgl64.Vec3) mgl64.Vec3 {
	unit := dir.Normalize()
	a := 0.5 * (unit.Y() + 1.0)
	white := mgl64.Vec3{1, 1, 1}
	blue := mgl64.Vec3{0.5, 0.7, 1.0}
	return white.Mul(1 - a).Add(blue.Mul(a))
}

func mulVec3(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{a.X() * b.X(), a.Y() * b.Y(), a.Z() * b.Z()}
}

// bounceTMin is the global epsilon on scattered-ray intervals that
// absorbs self-intersection noise right after a bounce.
const bounceTMin = 0.001

// RayColor shades one primary ray. Written as an explicit loop over an
// attenuation accumulator rather than true recursion, per the
// recommendation against deep call stacks on the hot path: each
// iteration consumes one bounce of maxDepth until the ray escapes to
// the sky, is absorbed, or the depth budget runs out (in which case
// the contribution is black, same as absorption).
func (s *Scene) RayColor(r primitives.Ray, maxDepth int, rng *rand.Rand, counters *stats.Counters) mgl64.Vec3 {
	accum := mgl64.Vec3{1, 1, 1}
	cur := r

	for depth := maxDepth; depth > 0; depth-- {
		var rec primitives.HitRecord
		if !s.Hit(cur, interval.New(bounceTMin, math.Inf(1)), &rec, counters) {
			return mulVec3(accum, skyColor(cur.Dir))
		}

		if s.opts.DrawBoxes && rec.NearEdge {
			return mulVec3(accum, mgl64.Vec3{1, 0, 0})
		}

		if counters != nil {
			counters.AddScatterRay()
		}

		mat := s.Materials.Get(rec.Mat)
		// Triangle hits store a non-unit normal; Scatter needs a unit one.
		hitInfo := material.HitInfo{Point: rec.P, Normal: rec.Normal.Normalize(), FrontFace: rec.FrontFace}
		scatteredDir, attenuation, ok := mat.Scatter(cur.Dir, hitInfo, rng)
		if !ok {
			return mgl64.Vec3{0, 0, 0}
		}

		accum = mulVec3(accum, attenuation)
		cur = primitives.Ray{Origin: rec.P, Dir: scatteredDir}
	}

	return mgl64.Vec3{0, 0, 0}
}
