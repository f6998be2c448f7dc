package renderer

import (
	"image/color"
	"math"
	"testing"

	"github.com/achilleasa/go-chunktrace/types"
)

func TestClampToneMap(t *testing.T) {
	type spec struct {
		exposure float32
		in       types.Vec3
		exp      color.RGBA
	}
	specs := []spec{
		{1, types.XYZ(0, 0, 0), color.RGBA{0, 0, 0, 255}},
		{1, types.XYZ(1, 1, 1), color.RGBA{255, 255, 255, 255}},
		{1, types.XYZ(0.5, 2, -1), color.RGBA{128, 255, 0, 255}},
		{2, types.XYZ(0.25, 0.5, 1), color.RGBA{128, 255, 255, 255}},
		{1, types.XYZ(float32(math.NaN()), 0, 0), color.RGBA{0, 0, 0, 255}},
	}

	for index, s := range specs {
		if got := ClampToneMap(s.exposure)(s.in); got != s.exp {
			t.Fatalf("[spec %d] expected %v; got %v", index, s.exp, got)
		}
	}
}

func TestReinhardToneMap(t *testing.T) {
	tm := ReinhardToneMap(1.0)

	if got := tm(types.Vec3{}); got != (color.RGBA{0, 0, 0, 255}) {
		t.Fatalf("expected black; got %v", got)
	}

	// Reinhard never saturates and preserves ordering
	prev := tm(types.XYZ(0.1, 0.1, 0.1))
	for _, v := range []float32{0.5, 1, 4, 16} {
		got := tm(types.XYZ(v, v, v))
		if got.R < prev.R {
			t.Fatalf("expected tone mapping to be monotonic; %v mapped to %d after %d", v, got.R, prev.R)
		}
		prev = got
	}
	if prev.R == 0 {
		t.Fatal("expected bright input to map to a non-zero value")
	}
}

func TestToneMapperByName(t *testing.T) {
	for _, name := range []string{"clamp", "reinhard"} {
		if _, ok := ToneMapperByName(name, 1); !ok {
			t.Fatalf("expected tone mapper %q to be known", name)
		}
	}
	if _, ok := ToneMapperByName("aces", 1); ok {
		t.Fatal("expected unknown tone mapper lookup to fail")
	}
}
