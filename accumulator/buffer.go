// Package accumulator implements a progressive running-average image buffer.
//
// The image is partitioned into square blocks of chunk x chunk pixels. Every
// sample folded into a block updates all of its pixels in lock-step so all
// pixels of a block always share the same average and sample count.
package accumulator

import (
	"errors"
	"fmt"
	"image"
	"math/rand"

	"github.com/achilleasa/go-chunktrace/types"
)

var (
	ErrInvalidFrameDims = errors.New("accumulator: frame dimensions must be positive")
	ErrInvalidChunkSize = errors.New("accumulator: chunk size must be positive")
)

// A rectangular group of pixels that shares a single sample per fold.
type Block struct {
	// Block index in row-major order.
	ID int

	// Block grid coordinates.
	Row, Col int

	// Pixel bounds. Blocks along the right and bottom frame edges are
	// clipped to the frame dimensions.
	Bounds image.Rectangle

	// A block-specific random source. Only the goroutine that currently
	// owns the block may use it.
	Random *rand.Rand
}

// The accumulation buffer stores a running-average color and a sample count
// for every pixel in the frame.
//
// The buffer performs no locking. Callers must ensure that each block is
// updated by a single goroutine at a time and that Reset and Resize are only
// invoked while no block updates are in flight.
type Buffer struct {
	width  int
	height int
	chunk  int
	seed   int64

	colors []types.Vec3
	counts []uint32

	blockRows int
	blockCols int
	blocks    []*Block
}

// Create a new accumulation buffer cleared to black. The seed value controls
// the per-block random sources.
func New(width, height, chunk int, seed int64) (*Buffer, error) {
	if chunk <= 0 {
		return nil, fmt.Errorf("%w; got %d", ErrInvalidChunkSize, chunk)
	}

	b := &Buffer{
		chunk: chunk,
		seed:  seed,
	}

	if err := b.Resize(width, height); err != nil {
		return nil, err
	}
	return b, nil
}

// Reallocate the buffer for a new frame size. Any accumulated data is
// discarded and the block grid is rebuilt.
func (b *Buffer) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w; got %dx%d", ErrInvalidFrameDims, width, height)
	}

	b.width = width
	b.height = height
	b.colors = make([]types.Vec3, width*height)
	b.counts = make([]uint32, width*height)

	b.blockCols = (width + b.chunk - 1) / b.chunk
	b.blockRows = (height + b.chunk - 1) / b.chunk
	b.blocks = make([]*Block, 0, b.blockRows*b.blockCols)
	for row := 0; row < b.blockRows; row++ {
		for col := 0; col < b.blockCols; col++ {
			x0 := col * b.chunk
			y0 := row * b.chunk
			b.blocks = append(b.blocks, &Block{
				ID:     len(b.blocks),
				Row:    row,
				Col:    col,
				Bounds: image.Rect(x0, y0, min(x0+b.chunk, width), min(y0+b.chunk, height)),
			})
		}
	}

	b.reseed()
	return nil
}

// Clear all pixels to black, zero all sample counts and re-seed the block
// random sources.
func (b *Buffer) Reset() {
	for i := range b.colors {
		b.colors[i] = types.Vec3{}
		b.counts[i] = 0
	}
	b.reseed()
}

func (b *Buffer) reseed() {
	for _, block := range b.blocks {
		block.Random = rand.New(rand.NewSource(b.seed + int64(block.ID)))
	}
}

// Fold a sample into every pixel of a block using an incremental mean:
//
//	avg' = (count * avg + sample) / (count + 1)
//
// and increment the sample count of each pixel.
func (b *Buffer) Fold(block *Block, sample types.Vec3) {
	for y := block.Bounds.Min.Y; y < block.Bounds.Max.Y; y++ {
		offset := y * b.width
		for x := block.Bounds.Min.X; x < block.Bounds.Max.X; x++ {
			idx := offset + x
			count := float32(b.counts[idx])
			b.colors[idx] = b.colors[idx].Mul(count).Add(sample).Mul(1.0 / (count + 1))
			b.counts[idx]++
		}
	}
}

// Get frame width.
func (b *Buffer) Width() int {
	return b.width
}

// Get frame height.
func (b *Buffer) Height() int {
	return b.height
}

// Get block size.
func (b *Buffer) Chunk() int {
	return b.chunk
}

// Get the number of block rows.
func (b *Buffer) BlockRows() int {
	return b.blockRows
}

// Get the number of block columns.
func (b *Buffer) BlockCols() int {
	return b.blockCols
}

// Get all blocks in row-major order.
func (b *Buffer) Blocks() []*Block {
	return b.blocks
}

// Get the blocks that belong to a block row.
func (b *Buffer) RowBlocks(row int) []*Block {
	if row < 0 || row >= b.blockRows {
		return nil
	}
	return b.blocks[row*b.blockCols : (row+1)*b.blockCols]
}

// Get the block that covers pixel (x, y).
func (b *Buffer) BlockAt(x, y int) *Block {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return nil
	}
	return b.blocks[(y/b.chunk)*b.blockCols+x/b.chunk]
}

// Get the running average color for pixel (x, y).
func (b *Buffer) Color(x, y int) types.Vec3 {
	return b.colors[y*b.width+x]
}

// Get the number of samples folded into pixel (x, y).
func (b *Buffer) Count(x, y int) uint32 {
	return b.counts[y*b.width+x]
}

// Get the linear RGB pixel data in row-major order. The returned slice is
// owned by the buffer and must be treated as read-only.
func (b *Buffer) Pixels() []types.Vec3 {
	return b.colors
}

// Sample count statistics across all pixels.
type Stats struct {
	MinSamples  uint32
	MaxSamples  uint32
	MeanSamples float64
}

// Collect sample count statistics.
func (b *Buffer) Stats() Stats {
	stats := Stats{MinSamples: b.counts[0]}
	var total uint64
	for _, count := range b.counts {
		total += uint64(count)
		stats.MinSamples = min(stats.MinSamples, count)
		stats.MaxSamples = max(stats.MaxSamples, count)
	}
	stats.MeanSamples = float64(total) / float64(len(b.counts))
	return stats
}
