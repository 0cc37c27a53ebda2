package primitives

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lumenrt/tracer/rt/interval"
)

func approxVec(a, b mgl64.Vec3, eps float64) bool {
	return math.Abs(a.X()-b.X()) < eps && math.Abs(a.Y()-b.Y()) < eps && math.Abs(a.Z()-b.Z()) < eps
}

func TestSphereHit(t *testing.T) {
	s := NewSphere(mgl64.Vec3{0, 0, -1}, 0.5, 0)
	r := Ray{Origin: mgl64.Vec3{0, 0, 0}, Dir: mgl64.Vec3{0, 0, -1}}

	var rec HitRecord
	if !s.Hit(r, interval.New(0.001, math.Inf(1)), &rec) {
		t.Fatal("expected hit")
	}

	if math.Abs(rec.T-0.5) > 1e-9 {
		t.Errorf("t = %v, want ~0.5", rec.T)
	}
	if !approxVec(rec.P, mgl64.Vec3{0, 0, -0.5}, 1e-9) {
		t.Errorf("point = %v, want ~(0,0,-0.5)", rec.P)
	}
	if !rec.FrontFace {
		t.Error("expected front_face = true")
	}
	if !approxVec(rec.Normal, mgl64.Vec3{0, 0, 1}, 1e-9) {
		t.Errorf("normal = %v, want ~(0,0,1)", rec.Normal)
	}
}

func TestSphereMiss(t *testing.T) {
	s := NewSphere(mgl64.Vec3{0, 0, -1}, 0.5, 0)
	r := Ray{Origin: mgl64.Vec3{5, 5, 0}, Dir: mgl64.Vec3{0, 0, -1}}
	var rec HitRecord
	if s.Hit(r, interval.New(0.001, math.Inf(1)), &rec) {
		t.Fatal("expected miss")
	}
}

func TestTriangleFrontFaceFlips(t *testing.T) {
	tri := NewTriangle(
		mgl64.Vec3{1, 0, -2},
		mgl64.Vec3{-1, 0, -2},
		mgl64.Vec3{0, 1.5, -2},
		0,
	)

	var rec1 HitRecord
	r1 := Ray{Origin: mgl64.Vec3{0, 0.5, 0}, Dir: mgl64.Vec3{0, 0, -1}}
	hit1 := tri.Hit(r1, interval.New(0.001, math.Inf(1)), &rec1)

	var rec2 HitRecord
	r2 := Ray{Origin: mgl64.Vec3{0, 0.5, -4}, Dir: mgl64.Vec3{0, 0, 1}}
	hit2 := tri.Hit(r2, interval.New(0.001, math.Inf(1)), &rec2)

	if !hit1 || !hit2 {
		t.Fatalf("expected both rays to hit: hit1=%v hit2=%v", hit1, hit2)
	}
	if rec1.FrontFace == rec2.FrontFace {
		t.Errorf("expected front_face to flip between opposite ray directions, got %v and %v",
			rec1.FrontFace, rec2.FrontFace)
	}
}

func TestTriangleParallelMiss(t *testing.T) {
	tri := NewTriangle(
		mgl64.Vec3{-1, 0, -2},
		mgl64.Vec3{1, 0, -2},
		mgl64.Vec3{0, 1, -2},
		0,
	)
	// Ray travels in the triangle's own plane (z = -2 constant), so
	// n.dir == 0 exactly: must miss, not divide by zero into a bogus t.
	r := Ray{Origin: mgl64.Vec3{0, 0.2, -2}, Dir: mgl64.Vec3{1, 0, 0}}
	var rec HitRecord
	if tri.Hit(r, interval.New(0.001, math.Inf(1)), &rec) {
		t.Fatal("expected miss for ray parallel to triangle plane")
	}
}

func TestBoundingBoxContainsPrimitive(t *testing.T) {
	s := NewSphere(mgl64.Vec3{2, -3, 1}, 1.5, 0)
	box := s.BoundingBox()
	if !box.Contains(s.Center) {
		t.Fatal("sphere bounding box must contain its center")
	}

	tri := NewTriangle(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{4, 0, 0}, mgl64.Vec3{0, 4, 0}, 0)
	tbox := tri.BoundingBox()
	for _, v := range []mgl64.Vec3{tri.V0, tri.V1, tri.V2} {
		if !tbox.Contains(v) {
			t.Fatalf("triangle bounding box must contain vertex %v", v)
		}
	}
}

func TestTriangleCentroidIsVertexMean(t *testing.T) {
	tri := NewTriangle(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{3, 0, 0}, mgl64.Vec3{0, 3, 0}, 0)
	want := mgl64.Vec3{1, 1, 0}
	if !approxVec(tri.Centroid(), want, 1e-9) {
		t.Errorf("centroid = %v, want %v", tri.Centroid(), want)
	}
}
