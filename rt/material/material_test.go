package material

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestRandomUnitVectorIsUnit(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		v := randomUnitVector(rng)
		if math.Abs(v.Len()-1.0) > 1e-9 {
			t.Fatalf("random unit vector has length %v, want 1", v.Len())
		}
	}
}

func TestMetalReflectZeroFuzz(t *testing.T) {
	m := NewMetal(mgl64.Vec3{1, 1, 1}, 0)
	rng := rand.New(rand.NewSource(1))

	in := mgl64.Vec3{1, -1, 0}
	normal := mgl64.Vec3{0, 1, 0}

	scattered, _, ok := m.Scatter(in, HitInfo{Normal: normal}, rng)
	if !ok {
		t.Fatal("expected metal scatter to succeed")
	}

	got := scattered.Dot(normal)
	want := -in.Dot(normal)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("reflect(d,n).n = %v, want -d.n = %v", got, want)
	}
}

func TestDielectricAttenuationIsWhite(t *testing.T) {
	m := NewDielectric(1.5)
	rng := rand.New(rand.NewSource(7))

	in := mgl64.Vec3{0, -1, 0}
	hit := HitInfo{Normal: mgl64.Vec3{0, 1, 0}, FrontFace: true}

	_, atten, ok := m.Scatter(in, hit, rng)
	if !ok {
		t.Fatal("dielectric scatter should never report absorption")
	}
	if atten != (mgl64.Vec3{1, 1, 1}) {
		t.Errorf("attenuation = %v, want white", atten)
	}
}

func TestDielectricTotalInternalReflection(t *testing.T) {
	m := NewDielectric(1.5)
	rng := rand.New(rand.NewSource(3))

	// Grazing ray striking the sphere from the inside: front_face=false
	// so eta = ior = 1.5, well past the critical angle.
	in := mgl64.Vec3{1, -0.1, 0}
	normal := mgl64.Vec3{0, 1, 0}
	hit := HitInfo{Normal: normal, FrontFace: false}

	scattered, _, _ := m.Scatter(in, hit, rng)

	unitIn := in.Normalize()
	reflected := reflect(unitIn, normal)

	if !approxVec(scattered, reflected, 1e-9) {
		t.Fatalf("expected pure reflection under TIR, got %v want %v", scattered, reflected)
	}
	if math.Abs(reflected.Dot(normal)-(-unitIn.Dot(normal))) > 1e-9 {
		t.Error("reflect(in,n).n should equal -in.n")
	}
}

func approxVec(a, b mgl64.Vec3, eps float64) bool {
	return math.Abs(a.X()-b.X()) < eps && math.Abs(a.Y()-b.Y()) < eps && math.Abs(a.Z()-b.Z()) < eps
}
