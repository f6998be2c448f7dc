package accumulator

import (
	"errors"
	"image"
	"math"
	"math/rand"
	"testing"

	"github.com/achilleasa/go-chunktrace/types"
)

func TestNewBufferErrors(t *testing.T) {
	type spec struct {
		w, h, chunk int
		expErr      error
	}
	specs := []spec{
		{0, 10, 10, ErrInvalidFrameDims},
		{10, -1, 10, ErrInvalidFrameDims},
		{10, 10, 0, ErrInvalidChunkSize},
		{10, 10, -5, ErrInvalidChunkSize},
	}

	for index, s := range specs {
		_, err := New(s.w, s.h, s.chunk, 0)
		if !errors.Is(err, s.expErr) {
			t.Fatalf("[spec %d] expected error %v; got %v", index, s.expErr, err)
		}
	}
}

func TestBlockGrid(t *testing.T) {
	buf, err := New(25, 12, 10, 0)
	if err != nil {
		t.Fatal(err)
	}

	if buf.BlockCols() != 3 || buf.BlockRows() != 2 {
		t.Fatalf("expected a 3x2 block grid; got %dx%d", buf.BlockCols(), buf.BlockRows())
	}
	if len(buf.Blocks()) != 6 {
		t.Fatalf("expected 6 blocks; got %d", len(buf.Blocks()))
	}

	// Blocks must tile the frame without overlaps
	covered := make([]int, 25*12)
	for _, block := range buf.Blocks() {
		for y := block.Bounds.Min.Y; y < block.Bounds.Max.Y; y++ {
			for x := block.Bounds.Min.X; x < block.Bounds.Max.X; x++ {
				covered[y*25+x]++
			}
		}
	}
	for idx, c := range covered {
		if c != 1 {
			t.Fatalf("expected pixel %d to be covered exactly once; got %d", idx, c)
		}
	}

	edge := buf.RowBlocks(1)[2]
	if exp := image.Rect(20, 10, 25, 12); edge.Bounds != exp {
		t.Fatalf("expected clipped edge block %v; got %v", exp, edge.Bounds)
	}
	if got := buf.BlockAt(21, 11); got != edge {
		t.Fatalf("expected pixel (21, 11) to map to block %d; got %d", edge.ID, got.ID)
	}
	if buf.RowBlocks(2) != nil || buf.BlockAt(25, 0) != nil {
		t.Fatal("expected out of range lookups to return nil")
	}
}

func TestFoldRunningMean(t *testing.T) {
	buf, err := New(4, 4, 2, 0)
	if err != nil {
		t.Fatal(err)
	}
	block := buf.BlockAt(3, 3)

	samples := []types.Vec3{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
		{1, 1, 1},
	}
	var sum types.Vec3
	for index, sample := range samples {
		buf.Fold(block, sample)
		sum = sum.Add(sample)
		expMean := sum.Mul(1.0 / float32(index+1))

		for y := 2; y < 4; y++ {
			for x := 2; x < 4; x++ {
				got := buf.Color(x, y)
				for c := 0; c < 3; c++ {
					if math.Abs(float64(got[c]-expMean[c])) > 1e-6 {
						t.Fatalf("[sample %d] expected pixel (%d, %d) to be %v; got %v", index, x, y, expMean, got)
					}
				}
				if buf.Count(x, y) != uint32(index+1) {
					t.Fatalf("[sample %d] expected count %d; got %d", index, index+1, buf.Count(x, y))
				}
			}
		}
	}

	// Pixels outside the block are untouched
	if buf.Count(0, 0) != 0 || buf.Color(1, 1) != (types.Vec3{}) {
		t.Fatal("expected pixels outside the folded block to remain untouched")
	}

	stats := buf.Stats()
	if stats.MinSamples != 0 || stats.MaxSamples != 4 || stats.MeanSamples != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestFirstFoldIsExact(t *testing.T) {
	buf, _ := New(10, 10, 10, 0)
	sample := types.XYZ(0.3, 0.7, 1.9)
	buf.Fold(buf.Blocks()[0], sample)

	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			if got := buf.Color(x, y); got != sample {
				t.Fatalf("expected pixel (%d, %d) to equal the first sample %v; got %v", x, y, sample, got)
			}
		}
	}
}

func TestResetAndResize(t *testing.T) {
	buf, _ := New(8, 8, 4, 7)
	for _, block := range buf.Blocks() {
		buf.Fold(block, types.XYZ(1, 1, 1))
	}
	first := buf.Blocks()[0].Random.Int63()

	buf.Reset()
	for idx, c := range buf.Pixels() {
		if c != (types.Vec3{}) {
			t.Fatalf("expected pixel %d to be black after reset; got %v", idx, c)
		}
	}
	if buf.Stats().MaxSamples != 0 {
		t.Fatal("expected all counts to be zero after reset")
	}
	if got := buf.Blocks()[0].Random.Int63(); got != first {
		t.Fatalf("expected block random source to be re-seeded; got %d, want %d", got, first)
	}

	buf.Fold(buf.Blocks()[0], types.XYZ(1, 1, 1))
	if err := buf.Resize(12, 6); err != nil {
		t.Fatal(err)
	}
	if buf.Width() != 12 || buf.Height() != 6 || len(buf.Pixels()) != 72 {
		t.Fatalf("expected a 12x6 buffer; got %dx%d", buf.Width(), buf.Height())
	}
	for y := 0; y < 6; y++ {
		for x := 0; x < 12; x++ {
			if buf.Count(x, y) != 0 || buf.Color(x, y) != (types.Vec3{}) {
				t.Fatalf("expected pixel (%d, %d) to be cleared after resize", x, y)
			}
		}
	}
	if len(buf.Blocks()) != 6 {
		t.Fatalf("expected 3x2 blocks after resize; got %d", len(buf.Blocks()))
	}

	if err := buf.Resize(0, 6); !errors.Is(err, ErrInvalidFrameDims) {
		t.Fatalf("expected ErrInvalidFrameDims; got %v", err)
	}
}

func TestConvergenceVarianceDecreases(t *testing.T) {
	// Fold noisy samples with a known mean into many independent blocks and
	// check that the spread of the block averages shrinks as N grows.
	const numBlocks = 200
	rng := rand.New(rand.NewSource(1))

	spread := func(n int) float64 {
		buf, _ := New(numBlocks, 1, 1, 0)
		for _, block := range buf.Blocks() {
			for i := 0; i < n; i++ {
				v := rng.Float32()
				buf.Fold(block, types.XYZ(v, v, v))
			}
		}

		var variance float64
		for _, c := range buf.Pixels() {
			d := float64(c[0]) - 0.5
			variance += d * d
		}
		return variance / numBlocks
	}

	v1 := spread(1)
	v16 := spread(16)
	v256 := spread(256)
	if !(v1 > v16 && v16 > v256) {
		t.Fatalf("expected variance to decrease with sample count; got %f, %f, %f", v1, v16, v256)
	}
}
