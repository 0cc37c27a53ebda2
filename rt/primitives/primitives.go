// Package primitives implements the two hittable shapes the tracer
// supports — Sphere and Triangle — behind a single tagged-variant type
// so the hot path in rt/scene dispatches with one branch instead of an
// interface call (spec design note: prefer a tagged variant over a
// Hittable trait object for branch prediction).
package primitives

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lumenrt/tracer/rt/aabb"
	"github.com/lumenrt/tracer/rt/interval"
	"github.com/lumenrt/tracer/rt/material"
)

// Ray is a cast ray; Dir need not be unit length.
type Ray struct {
	Origin, Dir mgl64.Vec3
}

func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

func (r Ray) toAABB() aabb.Ray {
	return aabb.Ray{Origin: r.Origin, Dir: r.Dir}
}

// HitRecord is the mutable scratch state an intersection test fills in
// on success. Reused by the caller across tests via a shrinking
// interval.Max (closest-hit-so-far).
type HitRecord struct {
	P         mgl64.Vec3
	Normal    mgl64.Vec3 // outward normal, flipped to face the ray; unit length for spheres only
	T         float64
	FrontFace bool
	Mat       material.Handle
	// PrimIndex is the index into the scene's primitive slice of the
	// primitive that produced this hit. Set by the caller (scene's
	// linear scan, bvh leaf test, or grid voxel test), not by the
	// primitive itself, since a Primitive value has no notion of its
	// own position in the list.
	PrimIndex int
	// NearEdge flags a hit within epsilon of its primitive's own AABB
	// edge on two or more axes, for draw_boxes debug visualization.
	// Set by the scene dispatch layer after intersection.
	NearEdge bool
}

// SetFaceNormal orients Normal to face the incoming ray and records
// whether the ray struck the front or back of the surface.
// outwardNormal is stored as given, without normalizing it.
func (h *HitRecord) SetFaceNormal(r Ray, outwardNormal mgl64.Vec3) {
	h.FrontFace = r.Dir.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Mul(-1)
	}
}

// Kind tags which shape a Primitive is.
type Kind uint8

const (
	KindSphere Kind = iota
	KindTriangle
)

// Primitive is a tagged union over Sphere and Triangle. Only the
// fields relevant to Kind are meaningful.
type Primitive struct {
	Kind Kind
	Mat  material.Handle

	// Sphere
	Center mgl64.Vec3
	Radius float64

	// Triangle
	V0, V1, V2 mgl64.Vec3
}

func NewSphere(center mgl64.Vec3, radius float64, mat material.Handle) Primitive {
	if radius < 0 {
		radius = 0
	}
	return Primitive{Kind: KindSphere, Center: center, Radius: radius, Mat: mat}
}

func NewTriangle(v0, v1, v2 mgl64.Vec3, mat material.Handle) Primitive {
	return Primitive{Kind: KindTriangle, V0: v0, V1: v1, V2: v2, Mat: mat}
}

// Hit dispatches to the shape-specific intersection test.
func (p Primitive) Hit(r Ray, rayT interval.Interval, rec *HitRecord) bool {
	switch p.Kind {
	case KindSphere:
		return p.hitSphere(r, rayT, rec)
	case KindTriangle:
		return p.hitTriangle(r, rayT, rec)
	}
	return false
}

// hitSphere solves |O + t*D - C|^2 = r^2 analytically and keeps the
// smaller root that falls in rayT, falling back to the larger root.
func (p Primitive) hitSphere(r Ray, rayT interval.Interval, rec *HitRecord) bool {
	oc := p.Center.Sub(r.Origin)
	a := r.Dir.LenSqr()
	if a == 0 {
		return false
	}
	h := r.Dir.Dot(oc)
	c := oc.LenSqr() - p.Radius*p.Radius

	discriminant := h*h - a*c
	if discriminant < 0 {
		return false
	}
	sqrtD := math.Sqrt(discriminant)

	root := (h - sqrtD) / a
	if !rayT.Surrounds(root) {
		root = (h + sqrtD) / a
		if !rayT.Surrounds(root) {
			return false
		}
	}

	rec.T = root
	rec.P = r.At(root)
	outward := rec.P.Sub(p.Center).Mul(1 / p.Radius)
	rec.SetFaceNormal(r, outward)
	rec.Mat = p.Mat
	return true
}

// triangleParallelEpsilon bounds the "ray parallel to the triangle's
// plane" rejection. The original source used interval.surrounds(n.dir),
// which conflates parallelism with a large dot product; this is the
// corrected form the spec mandates.
const triangleParallelEpsilon = 1e-8

// hitTriangle computes the plane hit via the (non-unit) face normal,
// then an inside/outside edge test using consistent winding.
func (p Primitive) hitTriangle(r Ray, rayT interval.Interval, rec *HitRecord) bool {
	v0v1 := p.V1.Sub(p.V0)
	v0v2 := p.V2.Sub(p.V0)
	n := v0v1.Cross(v0v2)

	nDotDir := n.Dot(r.Dir)
	if math.Abs(nDotDir) < triangleParallelEpsilon {
		return false
	}

	d := -n.Dot(p.V0)
	t := -(n.Dot(r.Origin) + d) / nDotDir
	if t < 0 || !rayT.Surrounds(t) {
		return false
	}

	point := r.At(t)

	v0p := point.Sub(p.V0)
	if n.Dot(v0v1.Cross(v0p)) <= 0 {
		return false
	}
	v1v2 := p.V2.Sub(p.V1)
	v1p := point.Sub(p.V1)
	if n.Dot(v1v2.Cross(v1p)) <= 0 {
		return false
	}
	v2v0 := p.V0.Sub(p.V2)
	v2p := point.Sub(p.V2)
	if n.Dot(v2v0.Cross(v2p)) <= 0 {
		return false
	}

	rec.T = t
	rec.P = point
	// n is the raw cross-product normal (magnitude = 2 * triangle
	// area), not unitized. Callers must not assume rec.Normal is unit
	// length for a triangle hit, only for a sphere hit.
	rec.SetFaceNormal(r, n)
	rec.Mat = p.Mat
	return true
}

// BoundingBox returns the primitive's AABB; the spec invariant that
// every primitive's AABB strictly contains the primitive holds by
// construction here (sphere: center +/- r; triangle: vertex min/max).
func (p Primitive) BoundingBox() aabb.AABB {
	switch p.Kind {
	case KindSphere:
		rVec := mgl64.Vec3{p.Radius, p.Radius, p.Radius}
		return aabb.New(p.Center.Sub(rVec), p.Center.Add(rVec))
	case KindTriangle:
		box := aabb.FromPoints(p.V0, p.V1)
		return aabb.Union(box, aabb.FromPoints(p.V2, p.V2))
	}
	return aabb.Empty()
}

// Centroid returns the representative point used for BVH/grid
// partitioning: the sphere's center, or the triangle's vertex mean
// (not its AABB center — a skewed triangle's AABB center can fall far
// from its actual mass, hurting split quality).
func (p Primitive) Centroid() mgl64.Vec3 {
	switch p.Kind {
	case KindSphere:
		return p.Center
	case KindTriangle:
		return p.V0.Add(p.V1).Add(p.V2).Mul(1.0 / 3.0)
	}
	return mgl64.Vec3{}
}
