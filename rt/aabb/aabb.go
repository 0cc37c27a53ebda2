// Package aabb implements the axis-aligned bounding box primitive: the
// slab test, the enter/exit query used by grid traversal, containment,
// and the union operator the BVH and grid builders fold boxes through.
package aabb

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lumenrt/tracer/rt/interval"
)

// Ray is the minimal ray shape the geometry kernel needs. It mirrors
// rt/primitives.Ray but lives here too so aabb has no import on
// primitives (primitives imports aabb, not the other way around).
type Ray struct {
	Origin, Dir mgl64.Vec3
}

func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// AABB is a rectangular region with sides parallel to the coordinate
// axes. The invariant Min[i] <= Max[i] must hold for every axis.
type AABB struct {
	Min, Max mgl64.Vec3
}

// New builds an AABB from two opposite corners, without reordering
// them; callers constructing from arbitrary points should use
// FromPoints instead.
func New(min, max mgl64.Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// FromPoints builds an AABB containing exactly the two given points,
// regardless of which corner is "min" and which is "max".
func FromPoints(a, b mgl64.Vec3) AABB {
	return AABB{
		Min: mgl64.Vec3{math.Min(a.X(), b.X()), math.Min(a.Y(), b.Y()), math.Min(a.Z(), b.Z())},
		Max: mgl64.Vec3{math.Max(a.X(), b.X()), math.Max(a.Y(), b.Y()), math.Max(a.Z(), b.Z())},
	}
}

// Empty returns a degenerate box that contains nothing and unions away
// to nothing (the identity element for Union).
func Empty() AABB {
	inf := math.Inf(1)
	return AABB{
		Min: mgl64.Vec3{inf, inf, inf},
		Max: mgl64.Vec3{-inf, -inf, -inf},
	}
}

// Union returns the smallest box containing both a and b. Commutative
// and associative by construction (element-wise min/max).
func Union(a, b AABB) AABB {
	return AABB{
		Min: mgl64.Vec3{
			math.Min(a.Min.X(), b.Min.X()),
			math.Min(a.Min.Y(), b.Min.Y()),
			math.Min(a.Min.Z(), b.Min.Z()),
		},
		Max: mgl64.Vec3{
			math.Max(a.Max.X(), b.Max.X()),
			math.Max(a.Max.Y(), b.Max.Y()),
			math.Max(a.Max.Z(), b.Max.Z()),
		},
	}
}

// Centroid returns the box's geometric center. The BVH builder does not
// use it; primitives supply their own, better-behaved centroid
// (triangle: vertex mean, not AABB center).
func (b AABB) Centroid() mgl64.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// SurfaceArea is the SAH cost term: total area of the box's six faces.
func (b AABB) SurfaceArea() float64 {
	d := b.Max.Sub(b.Min)
	if d.X() < 0 || d.Y() < 0 || d.Z() < 0 {
		return 0
	}
	return 2 * (d.X()*d.Y() + d.Y()*d.Z() + d.Z()*d.X())
}

// Contains reports whether p lies within the box on every axis,
// inclusive.
func (b AABB) Contains(p mgl64.Vec3) bool {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] || p[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// Intersects reports whether two boxes overlap on every axis.
func (b AABB) Intersects(o AABB) bool {
	for i := 0; i < 3; i++ {
		if b.Min[i] > o.Max[i] || o.Min[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// Hit runs the per-axis slab test and returns the sub-interval of the
// ray's t during which it lies inside the box, plus the exit axis and
// its sign (grid DDA needs both; BVH traversal only needs the ok flag
// and the narrowed interval).
//
// Exit axis/sign: whichever axis's upper t bound (t1) determined the
// final ray_t.Max is the exit axis; its sign is +1 if the ray exits
// through the box's Max face (positive direction component), else -1.
func (b AABB) Hit(r Ray, rayT interval.Interval) (hit bool, out interval.Interval, exitAxis int, exitSign int) {
	out = rayT
	exitAxis = 0
	exitSign = 1

	for a := 0; a < 3; a++ {
		invD := 1.0 / r.Dir[a]
		t0 := (b.Min[a] - r.Origin[a]) * invD
		t1 := (b.Max[a] - r.Origin[a]) * invD
		sign := 1
		if invD < 0 {
			t0, t1 = t1, t0
			sign = -1
		}

		if t0 > out.Min {
			out.Min = t0
		}
		if t1 < out.Max {
			out.Max = t1
			exitAxis = a
			exitSign = sign
		}

		if out.IsEmpty() {
			return false, out, exitAxis, exitSign
		}
	}

	return true, out, exitAxis, exitSign
}

// EnterExit returns the two t values at which the ray meets the box
// (entry, exit), without needing the caller to pre-seed a running
// interval. Used by the grid's outer-box entry query.
func (b AABB) EnterExit(r Ray, rayT interval.Interval) (hit bool, tEnter, tExit float64) {
	ok, out, _, _ := b.Hit(r, rayT)
	return ok, out.Min, out.Max
}
