package grid

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lumenrt/tracer/rt/interval"
	"github.com/lumenrt/tracer/rt/primitives"
)

func TestBuildPanicsOnEmptyScene(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected Build to panic on an empty primitive list")
		}
	}()
	Build(nil, 1.0)
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

func TestGridAgreesWithLinearScan(t *testing.T) {
	prims := randomScene(250, 11)
	g := Build(prims, 1.0)

	rng := rand.New(rand.NewSource(55))
	for i := 0; i < 500; i++ {
		origin := mgl64.Vec3{
			(rng.Float64() - 0.5) * 40,
			(rng.Float64() - 0.5) * 40,
			(rng.Float64() - 0.5) * 40,
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
		gotHit := g.Hit(r, rayT, prims, &gotRec, nil)

		if gotHit != wantHit {
			t.Fatalf("hit mismatch on iter %d: grid=%v linear=%v", i, gotHit, wantHit)
		}
		if gotHit && math.Abs(gotRec.T-wantRec.T) > 1e-6 {
			t.Fatalf("t mismatch on iter %d: grid=%v linear=%v", i, gotRec.T, wantRec.T)
		}
	}
}

func TestEveryPrimitiveIndexedInItsOverlappingVoxels(t *testing.T) {
	prims := randomScene(40, 3)
	g := Build(prims, 1.0)

	for i, p := range prims {
		box := p.BoundingBox()
		found := false
		for _, bucket := range g.Voxels {
			for _, idx := range bucket {
				if idx == i {
					found = true
				}
			}
		}
		if !found {
			t.Fatalf("primitive %d with box %+v was not bucketed into any voxel", i, box)
		}
	}
}

func TestMissOutsideBounds(t *testing.T) {
	prims := []primitives.Primitive{primitives.NewSphere(mgl64.Vec3{0, 0, 0}, 1, 0)}
	g := Build(prims, 0.5)

	r := primitives.Ray{Origin: mgl64.Vec3{100, 100, 100}, Dir: mgl64.Vec3{1, 0, 0}}
	var rec primitives.HitRecord
	if g.Hit(r, interval.New(0.001, math.Inf(1)), prims, &rec, nil) {
		t.Fatal("expected miss for a ray never entering the grid bounds")
	}
}
