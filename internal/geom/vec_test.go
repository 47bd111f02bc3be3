package geom

import (
	"math"
	"testing"
)

func nearly(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func vecAlmostEq(a, b Vec3, tol float64) bool {
	return a.Sub(b).Len() <= tol
}

func TestCrossOrthogonality(t *testing.T) {
	pairs := [][2]Vec3{
		{{1, 0, 0}, {0, 1, 0}},
		{{1, 2, 3}, {-2, 0.5, 4}},
		{{0, 0, 1}, {1, 1, 1}},
	}
	for _, p := range pairs {
		c := p[0].Cross(p[1])
		if !nearly(c.Dot(p[0]), 0, 1e-12) || !nearly(c.Dot(p[1]), 0, 1e-12) {
			t.Fatalf("cross not orthogonal to inputs: %+v x %+v = %+v", p[0], p[1], c)
		}
	}
	// right-handedness
	z := Vec3{1, 0, 0}.Cross(Vec3{0, 1, 0})
	if !vecAlmostEq(z, Vec3{0, 0, 1}, 1e-15) {
		t.Fatalf("x cross y != z, got %+v", z)
	}
}

func TestNormUnitLength(t *testing.T) {
	vs := []Vec3{{3, 0, 4}, {1, 1, 1}, {-0.2, 5, 0.001}}
	for _, v := range vs {
		if !nearly(v.Norm().Len(), 1, 1e-14) {
			t.Fatalf("norm length != 1 for %+v", v)
		}
	}
	zero := Vec3{}
	if zero.Norm() != zero {
		t.Fatal("norm of zero vector should be unchanged")
	}
}

func TestRotateAboutProperties(t *testing.T) {
	m := Vec3{1, 2, -1}.Norm()
	v := Vec3{0.3, -4, 2.5}
	for _, phi := range []float64{0, math.Pi / 7, math.Pi / 2, 3} {
		r := v.RotateAbout(m, phi)
		// length preserved
		if !nearly(r.Len(), v.Len(), 1e-12) {
			t.Fatalf("rotation changed length: %v -> %v", v.Len(), r.Len())
		}
		// component along the axis preserved
		if !nearly(r.Dot(m), v.Dot(m), 1e-12) {
			t.Fatalf("rotation changed axis component: %v -> %v", v.Dot(m), r.Dot(m))
		}
	}
	// quarter turn about z maps x to y
	got := Vec3{1, 0, 0}.RotateAbout(Vec3{0, 0, 1}, math.Pi/2)
	if !vecAlmostEq(got, Vec3{0, 1, 0}, 1e-14) {
		t.Fatalf("quarter turn about z: got %+v", got)
	}
}
