package benchmark

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Result is the immutable outcome of one benchmark run. Per-hash statistics
// are in seconds.
type Result struct {
	Iterations int           `json:"iterations" yaml:"iterations"`
	StartTime  time.Time     `json:"start_time" yaml:"start_time"`
	EndTime    time.Time     `json:"end_time" yaml:"end_time"`
	Elapsed    time.Duration `json:"elapsed_ns" yaml:"elapsed_ns"`

	// Durations holds one entry per invocation, in order.
	Durations []time.Duration `json:"-" yaml:"-"`

	Rate           float64 `json:"hash_rate" yaml:"hash_rate"`
	AveragePerHash float64 `json:"average_time_per_hash" yaml:"average_time_per_hash"`
	Min            float64 `json:"min_time_per_hash" yaml:"min_time_per_hash"`
	Max            float64 `json:"max_time_per_hash" yaml:"max_time_per_hash"`
	Mean           float64 `json:"average_hash_time" yaml:"average_hash_time"`

	StdDev float64 `json:"stddev" yaml:"stddev"`
	P50    float64 `json:"p50" yaml:"p50"`
	P95    float64 `json:"p95" yaml:"p95"`
	P99    float64 `json:"p99" yaml:"p99"`

	MemoryBeforeMB  float64 `json:"memory_before_mb" yaml:"memory_before_mb"`
	MemoryAfterMB   float64 `json:"memory_after_mb" yaml:"memory_after_mb"`
	MemoryAvailable bool    `json:"memory_available" yaml:"memory_available"`
	AllocBytes      uint64  `json:"alloc_bytes" yaml:"alloc_bytes"`
	AllocObjects    uint64  `json:"alloc_objects" yaml:"alloc_objects"`
}

func newResult(start, end time.Time, durations []time.Duration) *Result {
	elapsed := end.Sub(start)
	res := &Result{
		Iterations: len(durations),
		StartTime:  start,
		EndTime:    end,
		Elapsed:    elapsed,
		Durations:  durations,
	}
	if len(durations) == 0 {
		return res
	}

	n := float64(len(durations))
	if elapsed > 0 {
		res.Rate = n / elapsed.Seconds()
	}
	res.AveragePerHash = elapsed.Seconds() / n

	secs := res.Seconds()
	sorted := make([]float64, len(secs))
	copy(sorted, secs)
	sort.Float64s(sorted)

	res.Min = sorted[0]
	res.Max = sorted[len(sorted)-1]
	res.Mean = clamp(stat.Mean(secs, nil), res.Min, res.Max)
	if len(secs) > 1 {
		res.StdDev = stat.StdDev(secs, nil)
	}
	res.P50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	res.P95 = stat.Quantile(0.95, stat.Empirical, sorted, nil)
	res.P99 = stat.Quantile(0.99, stat.Empirical, sorted, nil)

	return res
}

// Seconds returns the per-invocation durations as floating-point seconds.
func (r *Result) Seconds() []float64 {
	secs := make([]float64, len(r.Durations))
	for i, d := range r.Durations {
		secs[i] = d.Seconds()
	}
	return secs
}

// MemoryDeltaMB is the change in resident memory over the run.
func (r *Result) MemoryDeltaMB() float64 {
	return r.MemoryAfterMB - r.MemoryBeforeMB
}

// clamp absorbs floating-point rounding in the mean of near-identical samples.
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
