package tracer

import "math"

// The BlockScheduler interface is implemented by all block scheduling algorithms.
type BlockScheduler interface {
	// Split the block grid rows among the pool of tracers using feedback
	// collected from previous frames.
	//
	// This function returns the block row assignment for each tracer
	// in the input list. The assignments always add up to blockRows.
	Schedule(tracers []Tracer, blockRows uint32) []uint32
}

// The naive scheduler distributes block rows using the tracer speed estimates.
type naiveScheduler struct {
	blockAssignment []uint32
}

// Create a new naive scheduler instance.
func NaiveScheduler() BlockScheduler {
	return &naiveScheduler{}
}

// Split block rows using the tracer speed estimates.
func (sch *naiveScheduler) Schedule(tracers []Tracer, blockRows uint32) []uint32 {
	if len(sch.blockAssignment) != len(tracers) {
		sch.blockAssignment = make([]uint32, len(tracers))
	}

	weights := make([]float64, len(tracers))
	for idx, tr := range tracers {
		weights[idx] = float64(tr.Speed())
	}

	distribute(sch.blockAssignment, weights, blockRows)
	return sch.blockAssignment
}

// The perfect scheduler assumes that the volume of tracing work between two
// subsequent frames is approximately the same.
type perfectScheduler struct {
	blockAssignment []uint32
}

// Create a new perfect scheduler instance
func PerfectScheduler() BlockScheduler {
	return &perfectScheduler{}
}

// Split block rows using feedback collected from previous frames.
//
// When previous frame information is available the scheduler uses the
// following formula for estimating the workload for tracer w and frame i+1:
// w_i, f_i+1 = (rows,w_i / time,w_i) / Σ(rows_i-1 / time,i-1)
func (sch *perfectScheduler) Schedule(tracers []Tracer, blockRows uint32) []uint32 {
	weights := make([]float64, len(tracers))

	// If this is the first time we try to schedule or the number of tracers
	// has changed we need to reset the block assignments and fall back to
	// the speed estimates.
	useStats := len(sch.blockAssignment) == len(tracers)
	if !useStats {
		sch.blockAssignment = make([]uint32, len(tracers))
	}

	if useStats {
		for idx, tr := range tracers {
			stats := tr.Stats()
			if stats.BlockRows == 0 || stats.BlockTime <= 0 {
				useStats = false
				break
			}
			weights[idx] = float64(stats.BlockRows) / float64(stats.BlockTime)
		}
	}

	if !useStats {
		for idx, tr := range tracers {
			weights[idx] = float64(tr.Speed())
		}
	}

	distribute(sch.blockAssignment, weights, blockRows)
	return sch.blockAssignment
}

// Distribute rows proportionally to the given weights. Each tracer gets at
// least one row while rows last; rows that don't add up are appended to the
// first tracer.
func distribute(out []uint32, weights []float64, rows uint32) {
	if len(out) == 0 {
		return
	}

	// Not enough rows to go around
	if int(rows) <= len(out) {
		for idx := range out {
			out[idx] = 0
			if uint32(idx) < rows {
				out[idx] = 1
			}
		}
		return
	}

	var total float64
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		for idx := range weights {
			weights[idx] = 1
		}
		total = float64(len(weights))
	}

	var scheduled uint32
	for idx, w := range weights {
		out[idx] = uint32(math.Max(1.0, math.Floor(w*float64(rows)/total)))
		scheduled += out[idx]
	}

	// Minimum row guarantees may overshoot; take the excess away from the
	// tracers with the largest assignments.
	for scheduled > rows {
		maxIdx := 0
		for idx := range out {
			if out[idx] > out[maxIdx] {
				maxIdx = idx
			}
		}
		out[maxIdx]--
		scheduled--
	}

	out[0] += rows - scheduled
}
