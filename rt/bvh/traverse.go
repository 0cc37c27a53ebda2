package bvh

import (
	"github.com/lumenrt/tracer/rt/aabb"
	"github.com/lumenrt/tracer/rt/interval"
	"github.com/lumenrt/tracer/rt/primitives"
	"github.com/lumenrt/tracer/rt/stats"
)

func toAABBRay(r primitives.Ray) aabb.Ray {
	return aabb.Ray{Origin: r.Origin, Dir: r.Dir}
}

// Hit walks the tree, descending into the nearer child first so that a
// hit found in the near subtree can prune the far subtree's AABB test
// outright (skipped whenever its entry t already exceeds the closest
// hit found so far). prims is the scene's original (unreordered)
// primitive slice; b.Indices maps a leaf's [First:First+Count) range
// back into it.
func (b *BVH) Hit(r primitives.Ray, rayT interval.Interval, prims []primitives.Primitive, rec *primitives.HitRecord, counters *stats.Counters) bool {
	if len(b.Nodes) == 0 {
		return false
	}
	ar := toAABBRay(r)
	return b.hitNode(0, ar, r, rayT, prims, rec, counters)
}

func (b *BVH) hitNode(nodeIdx int32, ar aabb.Ray, r primitives.Ray, rayT interval.Interval, prims []primitives.Primitive, rec *primitives.HitRecord, counters *stats.Counters) bool {
	node := &b.Nodes[nodeIdx]
	if counters != nil {
		counters.AddAABBCheck()
	}
	ok, _, _, _ := node.AABB.Hit(ar, rayT)
	if !ok {
		return false
	}

	if node.IsLeaf() {
		hitAnything := false
		closest := rayT.Max
		for i := int32(0); i < node.Count; i++ {
			primIdx := b.Indices[node.First+i]
			if counters != nil {
				counters.AddPrimitiveCheck()
			}
			var tmp primitives.HitRecord
			if prims[primIdx].Hit(r, interval.New(rayT.Min, closest), &tmp) {
				hitAnything = true
				closest = tmp.T
				tmp.PrimIndex = int(primIdx)
				*rec = tmp
			}
		}
		return hitAnything
	}

	leftNode := &b.Nodes[node.Left]
	rightNode := &b.Nodes[node.Right]

	if counters != nil {
		counters.AddAABBCheck()
		counters.AddAABBCheck()
	}
	leftHit, leftRange, _, _ := leftNode.AABB.Hit(ar, rayT)
	rightHit, rightRange, _, _ := rightNode.AABB.Hit(ar, rayT)

	if leftHit && rightHit && leftNode.AABB.Intersects(rightNode.AABB) && counters != nil {
		counters.AddOverlappingAABB()
	}

	// Nearest-child-first: visit whichever child's AABB the ray enters
	// sooner, so a hit there can shrink rayT.Max before the farther
	// child's subtree is even descended into.
	firstIdx, secondIdx := node.Left, node.Right
	firstHit, secondHit := leftHit, rightHit
	secondEnter := rightRange.Min
	if rightHit && (!leftHit || rightRange.Min < leftRange.Min) {
		firstIdx, secondIdx = node.Right, node.Left
		firstHit, secondHit = rightHit, leftHit
		secondEnter = leftRange.Min
	}

	hitAnything := false
	if firstHit {
		if counters != nil {
			counters.AddTraversalStep()
		}
		if b.hitNode(firstIdx, ar, r, rayT, prims, rec, counters) {
			hitAnything = true
			rayT.Max = rec.T
		}
	}
	if secondHit && secondEnter <= rayT.Max {
		if counters != nil {
			counters.AddTraversalStep()
		}
		if b.hitNode(secondIdx, ar, r, rayT, prims, rec, counters) {
			hitAnything = true
		}
	}
	return hitAnything
}
