package benchmark

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"
)

// ErrNoIterations is returned when a run is requested with fewer than one iteration.
var ErrNoIterations = errors.New("iterations must be at least 1")

// Workload is one unit of simulated hashing work.
type Workload interface {
	Run() []byte
}

// ProgressSink receives the number of completed invocations.
type ProgressSink interface {
	Advance(done int)
}

// MemorySampler reports the resident memory of the current process.
type MemorySampler interface {
	ResidentMB() (float64, error)
}

// Observer is notified after every invocation.
type Observer interface {
	ObserveInvocation(d time.Duration)
}

// Runner executes a workload a fixed number of times on the calling goroutine
// and aggregates timing statistics.
type Runner struct {
	logger     *zap.Logger
	workload   Workload
	iterations int
	progress   ProgressSink
	memory     MemorySampler
	observer   Observer
	now        func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithProgress publishes the iteration count after every invocation.
func WithProgress(p ProgressSink) Option {
	return func(r *Runner) {
		r.progress = p
	}
}

// WithMemorySampler sets the resident memory probe.
func WithMemorySampler(m MemorySampler) Option {
	return func(r *Runner) {
		r.memory = m
	}
}

// WithObserver attaches an invocation observer, e.g. a metrics recorder.
func WithObserver(o Observer) Option {
	return func(r *Runner) {
		r.observer = o
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		r.now = now
	}
}

// NewRunner creates a runner for the given workload and iteration count.
func NewRunner(logger *zap.Logger, workload Workload, iterations int, opts ...Option) *Runner {
	r := &Runner{
		logger:     logger,
		workload:   workload,
		iterations: iterations,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run performs the benchmark. Cancelling ctx aborts between invocations and
// discards the partial result.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if r.iterations < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrNoIterations, r.iterations)
	}

	r.logger.Debug("Running hash rate test", zap.Int("iterations", r.iterations))

	var memStatsBefore runtime.MemStats
	runtime.ReadMemStats(&memStatsBefore)

	start := r.now()
	memBefore, memBeforeErr := r.sampleMemory()

	durations := make([]time.Duration, 0, r.iterations)
	for i := 0; i < r.iterations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("benchmark aborted after %d of %d iterations: %w", i, r.iterations, err)
		}

		invStart := r.now()
		r.workload.Run()
		d := r.now().Sub(invStart)
		if d < 0 {
			d = 0
		}
		durations = append(durations, d)

		if r.progress != nil {
			r.progress.Advance(i + 1)
		}
		if r.observer != nil {
			r.observer.ObserveInvocation(d)
		}
	}

	end := r.now()
	memAfter, memAfterErr := r.sampleMemory()

	var memStatsAfter runtime.MemStats
	runtime.ReadMemStats(&memStatsAfter)

	result := newResult(start, end, durations)
	result.MemoryBeforeMB = memBefore
	result.MemoryAfterMB = memAfter
	result.MemoryAvailable = memBeforeErr == nil && memAfterErr == nil
	result.AllocBytes = memStatsAfter.TotalAlloc - memStatsBefore.TotalAlloc
	result.AllocObjects = memStatsAfter.Mallocs - memStatsBefore.Mallocs

	if err := errors.Join(memBeforeErr, memAfterErr); err != nil {
		r.logger.Warn("Resident memory unavailable", zap.Error(err))
	}

	r.logger.Debug("Hash rate test completed",
		zap.Duration("elapsed", result.Elapsed),
		zap.Float64("hash_rate", result.Rate),
	)
	return result, nil
}

func (r *Runner) sampleMemory() (float64, error) {
	if r.memory == nil {
		return 0, errors.New("no memory sampler configured")
	}
	return r.memory.ResidentMB()
}
