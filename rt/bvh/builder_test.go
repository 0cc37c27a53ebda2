package bvh

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lumenrt/tracer/rt/interval"
	"github.com/lumenrt/tracer/rt/primitives"
	"github.com/lumenrt/tracer/rt/stats"
)

func TestBuildPanicsOnEmptyScene(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected Build to panic on an empty primitive list")
		}
	}()
	Build(nil, SAHFull)
}

func TestSmallSceneStaysOneLeaf(t *testing.T) {
	prims := []primitives.Primitive{
		primitives.NewSphere(mgl64.Vec3{0, 0, 0}, 1, 0),
		primitives.NewSphere(mgl64.Vec3{5, 0, 0}, 1, 0),
	}
	b := Build(prims, SAHFull)
	if len(b.Nodes) != 1 {
		t.Fatalf("expected a single leaf node for a 2-primitive scene, got %d nodes", len(b.Nodes))
	}
	if !b.Nodes[0].IsLeaf() || b.Nodes[0].Count != 2 {
		t.Fatalf("expected root leaf with count 2, got %+v", b.Nodes[0])
	}
}

func linearHit(prims []primitives.Primitive, r primitives.Ray, rayT interval.Interval) (bool, primitives.HitRecord) {
	var best primitives.HitRecord
	hitAnything := false
	closest := rayT.Max
	for _, p := range prims {
		var tmp primitives.HitRecord
		if p.Hit(r, interval.New(rayT.Min, closest), &tmp) {
			hitAnything = true
			closest = tmp.T
			best = tmp
		}
	}
	return hitAnything, best
}

func randomScene(n int, seed int64) []primitives.Primitive {
	rng := rand.New(rand.NewSource(seed))
	prims := make([]primitives.Primitive, n)
	for i := 0; i < n; i++ {
		center := mgl64.Vec3{
			(rng.Float64() - 0.5) * 20,
			(rng.Float64() - 0.5) * 20,
			(rng.Float64() - 0.5) * 20,
		}
		radius := 0.2 + rng.Float64()*0.8
		prims[i] = primitives.NewSphere(center, radius, 0)
	}
	return prims
}

func TestBVHAgreesWithLinearScan(t *testing.T) {
	for _, mode := range []Mode{Naive, SAHPlane, SAHFull} {
		prims := randomScene(200, 42)
		b := Build(prims, mode)

		rng := rand.New(rand.NewSource(99))
		for i := 0; i < 500; i++ {
			origin := mgl64.Vec3{
				(rng.Float64() - 0.5) * 30,
				(rng.Float64() - 0.5) * 30,
				(rng.Float64() - 0.5) * 30,
			}
			dir := mgl64.Vec3{
				rng.Float64() - 0.5,
				rng.Float64() - 0.5,
				rng.Float64() - 0.5,
			}
			if dir.LenSqr() < 1e-12 {
				continue
			}
			r := primitives.Ray{Origin: origin, Dir: dir}
			rayT := interval.New(0.001, math.Inf(1))

			wantHit, wantRec := linearHit(prims, r, rayT)

			var gotRec primitives.HitRecord
			gotHit := b.Hit(r, rayT, prims, &gotRec, nil)

			if gotHit != wantHit {
				t.Fatalf("mode %v: hit mismatch on iter %d: bvh=%v linear=%v", mode, i, gotHit, wantHit)
			}
			if gotHit && math.Abs(gotRec.T-wantRec.T) > 1e-6 {
				t.Fatalf("mode %v: t mismatch on iter %d: bvh=%v linear=%v", mode, i, gotRec.T, wantRec.T)
			}
		}
	}
}

func TestSAHFullVisitsFewerAABBsThanNaive(t *testing.T) {
	prims := randomScene(300, 7)
	naive := Build(prims, Naive)
	sah := Build(prims, SAHFull)

	rng := rand.New(rand.NewSource(123))
	var naiveChecks, sahChecks int
	for i := 0; i < 300; i++ {
		origin := mgl64.Vec3{(rng.Float64() - 0.5) * 30, (rng.Float64() - 0.5) * 30, (rng.Float64() - 0.5) * 30}
		dir := mgl64.Vec3{rng.Float64() - 0.5, rng.Float64() - 0.5, rng.Float64() - 0.5}
		if dir.LenSqr() < 1e-12 {
			continue
		}
		r := primitives.Ray{Origin: origin, Dir: dir}
		rayT := interval.New(0.001, math.Inf(1))

		cn := stats.New()
		var rec primitives.HitRecord
		naive.Hit(r, rayT, prims, &rec, cn)
		naiveChecks += int(cn.AABBChecks)

		cs := stats.New()
		rec = primitives.HitRecord{}
		sah.Hit(r, rayT, prims, &rec, cs)
		sahChecks += int(cs.AABBChecks)
	}

	if sahChecks >= naiveChecks {
		t.Errorf("expected SAHFull to perform fewer total AABB checks than Naive over the same rays: sah=%d naive=%d", sahChecks, naiveChecks)
	}
}
