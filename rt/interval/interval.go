// Package interval implements the closed interval on the ray parameter t
// shared by the AABB slab test, the primitive hit contracts, the BVH
// traversal and the grid DDA.
package interval

import "math"

// Interval is a closed range [Min, Max] on t. A zero-width interval
// (Max == Min) is a valid tangent contact for most callers but is
// treated as empty by AABB.Hit (spec: strict emptiness).
type Interval struct {
	Min, Max float64
}

// New returns the interval [min, max]. Callers are responsible for
// min <= max; the zero value is not a valid interval.
func New(min, max float64) Interval {
	return Interval{Min: min, Max: max}
}

// Empty returns the canonical empty interval: no t satisfies it.
func Empty() Interval {
	return Interval{Min: math.Inf(1), Max: math.Inf(-1)}
}

// Universe returns the canonical interval containing every t.
func Universe() Interval {
	return Interval{Min: math.Inf(-1), Max: math.Inf(1)}
}

func (iv Interval) Size() float64 {
	return iv.Max - iv.Min
}

// Contains reports whether x lies in [Min, Max], inclusive.
func (iv Interval) Contains(x float64) bool {
	return iv.Min <= x && x <= iv.Max
}

// Surrounds reports whether x lies strictly inside (Min, Max).
func (iv Interval) Surrounds(x float64) bool {
	return iv.Min < x && x < iv.Max
}

func (iv Interval) Clamp(x float64) float64 {
	if x < iv.Min {
		return iv.Min
	}
	if x > iv.Max {
		return iv.Max
	}
	return x
}

// IsEmpty reports whether the interval is degenerate under the spec's
// strict rule: a zero-width slab is a miss, not a tangent hit.
func (iv Interval) IsEmpty() bool {
	return iv.Max <= iv.Min
}
