package types

import (
	"math"
	"testing"
)

func TestVec3Normalize(t *testing.T) {
	type spec struct {
		in     Vec3
		expLen float32
	}
	specs := []spec{
		{Vec3{3, 0, 4}, 1},
		{Vec3{-1, -1, -1}, 1},
		{Vec3{0.001, 0, 0}, 1},
		{Vec3{}, 0},
		{Vec3{1e-9, 0, 0}, 0},
	}

	for index, s := range specs {
		got := s.in.Normalize().Len()
		if math.Abs(float64(got-s.expLen)) > 1e-5 {
			t.Fatalf("[spec %d] expected normalized length %f; got %f", index, s.expLen, got)
		}
	}
}

func TestVec3Cross(t *testing.T) {
	x := XYZ(1, 0, 0)
	y := XYZ(0, 1, 0)

	if got := x.Cross(y); got != XYZ(0, 0, 1) {
		t.Fatalf("expected x × y to be +z; got %v", got)
	}
	if got := y.Cross(x); got != XYZ(0, 0, -1) {
		t.Fatalf("expected y × x to be -z; got %v", got)
	}
}

func TestVec3Ops(t *testing.T) {
	a := XYZ(1, 2, 3)
	b := XYZ(4, 5, 6)

	if got := a.Dot(b); got != 32 {
		t.Fatalf("expected dot product 32; got %f", got)
	}
	if got := a.MulVec(b); got != XYZ(4, 10, 18) {
		t.Fatalf("expected component-wise product (4, 10, 18); got %v", got)
	}
	if got := a.Lerp(b, 0.5); got != XYZ(2.5, 3.5, 4.5) {
		t.Fatalf("expected midpoint (2.5, 3.5, 4.5); got %v", got)
	}
	if got := MinVec3(a, XYZ(0, 5, 1)); got != XYZ(0, 2, 1) {
		t.Fatalf("expected min (0, 2, 1); got %v", got)
	}
	if got := MaxVec3(a, XYZ(0, 5, 1)); got != XYZ(1, 5, 3) {
		t.Fatalf("expected max (1, 5, 3); got %v", got)
	}
}

func TestVec3IsFiniteNonNegative(t *testing.T) {
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))

	type spec struct {
		in  Vec3
		exp bool
	}
	specs := []spec{
		{Vec3{0, 0, 0}, true},
		{Vec3{4, 1, 0.5}, true},
		{Vec3{-0.1, 0, 0}, false},
		{Vec3{nan, 0, 0}, false},
		{Vec3{0, inf, 0}, false},
	}
	for index, s := range specs {
		if got := s.in.IsFiniteNonNegative(); got != s.exp {
			t.Fatalf("[spec %d] expected %t; got %t", index, s.exp, got)
		}
	}
}
