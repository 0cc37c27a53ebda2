// Package grid implements a uniform voxel acceleration structure over a
// primitive list: each primitive is conservatively bucketed into every
// voxel its AABB overlaps, and a ray is walked voxel-by-voxel with the
// classical Amanatides-Woo 3D-DDA.
//
// The step-to-next-boundary idiom here is grounded on the teacher's
// voxelrt/rt/volume/xbrickmap.go RayMarch/stepToNext pair, which steps
// a ray through nested sector/brick/microcell levels by re-deriving the
// distance to the next axis boundary on every iteration. This package
// flattens that to one level (primitive-index buckets instead of
// voxel payloads) and replaces the re-derive-each-step approach with
// the standard tMax/tDelta DDA formulation the spec requires, which
// tracks each axis's next crossing incrementally instead of
// recomputing it from scratch every voxel.
package grid

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lumenrt/tracer/rt/aabb"
	"github.com/lumenrt/tracer/rt/interval"
	"github.com/lumenrt/tracer/rt/primitives"
	"github.com/lumenrt/tracer/rt/stats"
)

// Grid buckets primitive indices into a regular voxel lattice covering
// the scene's overall bounding box.
type Grid struct {
	Bounds   aabb.AABB
	Dims     [3]int
	CellSize mgl64.Vec3
	Voxels   [][]int // len == Dims[0]*Dims[1]*Dims[2]
}

// maxDim bounds the per-axis voxel count so a pathologically small
// voxelSize over a large scene cannot allocate an unbounded number of
// buckets.
const maxDim = 128

// Build constructs a uniform grid over prims with the given per-axis
// voxel size: origin and end are the union of every primitive's AABB
// (both world-space corners, per the grid's data model), and voxel
// counts are derived from them as n_a = (end_a - origin_a) / size_a,
// rounded up so the lattice fully covers the scene bounds. Panics on
// an empty primitive list, mirroring bvh.Build; voxelSize is assumed
// already validated positive by the caller (scene.New's ConfigError
// check runs before this).
func Build(prims []primitives.Primitive, voxelSize float64) *Grid {
	if len(prims) == 0 {
		panic("grid.Build: cannot build over an empty primitive list")
	}

	bounds := aabb.Empty()
	for _, p := range prims {
		bounds = aabb.Union(bounds, p.BoundingBox())
	}

	size := bounds.Max.Sub(bounds.Min)
	dims := [3]int{
		dimFor(size.X(), voxelSize),
		dimFor(size.Y(), voxelSize),
		dimFor(size.Z(), voxelSize),
	}

	// Stretch the bounds out to an exact multiple of voxelSize per
	// axis, since dimFor rounds the raw extent up. An axis that dimFor
	// capped at maxDim keeps its bounds and widens its cells instead.
	cell := mgl64.Vec3{voxelSize, voxelSize, voxelSize}
	for a := 0; a < 3; a++ {
		if float64(dims[a])*voxelSize < size[a] {
			cell[a] = size[a] / float64(dims[a])
			continue
		}
		bounds.Max[a] = bounds.Min[a] + float64(dims[a])*voxelSize
	}

	g := &Grid{
		Bounds:   bounds,
		Dims:     dims,
		CellSize: cell,
		Voxels:   make([][]int, dims[0]*dims[1]*dims[2]),
	}

	for i, p := range prims {
		box := p.BoundingBox()
		minCell := g.cellOf(box.Min)
		maxCell := g.cellOf(box.Max)
		for x := minCell[0]; x <= maxCell[0]; x++ {
			for y := minCell[1]; y <= maxCell[1]; y++ {
				for z := minCell[2]; z <= maxCell[2]; z++ {
					idx := g.index(x, y, z)
					g.Voxels[idx] = append(g.Voxels[idx], i)
				}
			}
		}
	}
	return g
}

// dimFor computes n_a = ceil(extent/voxelSize), clamped to [1, maxDim].
func dimFor(extent, voxelSize float64) int {
	n := int(math.Ceil(extent / voxelSize))
	if n < 1 {
		n = 1
	}
	if n > maxDim {
		n = maxDim
	}
	return n
}

func (g *Grid) index(x, y, z int) int {
	return x + y*g.Dims[0] + z*g.Dims[0]*g.Dims[1]
}

// cellOf clamps a world point into a valid voxel coordinate, for
// bucketing primitive bounding boxes that may (by floating point
// roundoff) sit exactly on or fractionally outside the grid bounds.
func (g *Grid) cellOf(p mgl64.Vec3) [3]int {
	rel := p.Sub(g.Bounds.Min)
	cx := int(math.Floor(rel.X() / g.CellSize.X()))
	cy := int(math.Floor(rel.Y() / g.CellSize.Y()))
	cz := int(math.Floor(rel.Z() / g.CellSize.Z()))
	return [3]int{
		clampIndex(cx, g.Dims[0]),
		clampIndex(cy, g.Dims[1]),
		clampIndex(cz, g.Dims[2]),
	}
}

func clampIndex(v, dim int) int {
	if v < 0 {
		return 0
	}
	if v >= dim {
		return dim - 1
	}
	return v
}

// Hit performs a classical Amanatides-Woo 3D-DDA walk: once the ray's
// overall entry/exit into Bounds is found, it steps one voxel at a
// time along whichever axis has the smaller accumulated tMax, testing
// every primitive bucketed into that voxel. The walk accepts the
// nearest hit over the whole ray rather than stopping at the first
// occupied voxel, since a primitive can straddle a voxel boundary and
// be hit behind the near face of a voxel that reported no hit.
func (g *Grid) Hit(r primitives.Ray, rayT interval.Interval, prims []primitives.Primitive, rec *primitives.HitRecord, counters *stats.Counters) bool {
	ar := aabb.Ray{Origin: r.Origin, Dir: r.Dir}
	entered, tEnter, tExit := g.Bounds.EnterExit(ar, rayT)
	if !entered {
		return false
	}
	if tEnter < rayT.Min {
		tEnter = rayT.Min
	}
	if tExit > rayT.Max {
		tExit = rayT.Max
	}
	if tEnter > tExit {
		return false
	}

	entryPoint := r.At(tEnter + 1e-9)
	cell := g.cellOf(entryPoint)

	var step [3]int
	var tMax, tDelta [3]float64
	for a := 0; a < 3; a++ {
		d := r.Dir[a]
		switch {
		case d > 0:
			step[a] = 1
			voxelBoundary := g.Bounds.Min[a] + float64(cell[a]+1)*g.cellSizeAxis(a)
			tMax[a] = tEnter + (voxelBoundary-entryPoint[a])/d
			tDelta[a] = g.cellSizeAxis(a) / d
		case d < 0:
			step[a] = -1
			voxelBoundary := g.Bounds.Min[a] + float64(cell[a])*g.cellSizeAxis(a)
			tMax[a] = tEnter + (voxelBoundary-entryPoint[a])/d
			tDelta[a] = -g.cellSizeAxis(a) / d
		default:
			step[a] = 0
			tMax[a] = math.Inf(1)
			tDelta[a] = math.Inf(1)
		}
	}

	hitAnything := false
	closest := rayT.Max
	maxSteps := g.Dims[0] + g.Dims[1] + g.Dims[2] + 3

	for i := 0; i < maxSteps; i++ {
		if counters != nil {
			counters.AddTraversalStep()
		}
		if cell[0] < 0 || cell[0] >= g.Dims[0] || cell[1] < 0 || cell[1] >= g.Dims[1] || cell[2] < 0 || cell[2] >= g.Dims[2] {
			break
		}

		idx := g.index(cell[0], cell[1], cell[2])
		for _, primIdx := range g.Voxels[idx] {
			if counters != nil {
				counters.AddGridVoxelCheck()
				counters.AddPrimitiveCheck()
			}
			var tmp primitives.HitRecord
			if prims[primIdx].Hit(r, interval.New(rayT.Min, closest), &tmp) {
				hitAnything = true
				closest = tmp.T
				tmp.PrimIndex = primIdx
				*rec = tmp
			}
		}

		// Accept the nearest hit across the whole ray: keep walking
		// voxels (rather than returning on first occupied voxel) since
		// a hit can land beyond the current voxel's far face.
		if hitAnything && closest <= minOf3(tMax) {
			break
		}

		axis := 0
		if tMax[1] < tMax[axis] {
			axis = 1
		}
		if tMax[2] < tMax[axis] {
			axis = 2
		}
		cell[axis] += step[axis]
		tMax[axis] += tDelta[axis]

		if !hitAnything && minOf3(tMax) > tExit {
			break
		}
	}

	return hitAnything
}

func (g *Grid) cellSizeAxis(a int) float64 { return g.CellSize[a] }

func minOf3(v [3]float64) float64 {
	m := v[0]
	if v[1] < m {
		m = v[1]
	}
	if v[2] < m {
		m = v[2]
	}
	return m
}
