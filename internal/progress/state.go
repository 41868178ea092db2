package progress

import (
	"sync"
	"sync/atomic"
)

// State is the data shared between the benchmark runner and the repaint
// loops: a single-writer iteration counter and a one-shot stop signal.
type State struct {
	total int64
	done  atomic.Int64

	stopped  atomic.Bool
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewState creates state for a run of total iterations.
func NewState(total int) *State {
	return &State{
		total:  int64(total),
		stopCh: make(chan struct{}),
	}
}

// Advance records that done iterations have completed. Values outside
// [0, total] are clamped and the counter never moves backwards.
func (s *State) Advance(done int) {
	n := int64(done)
	if n < 0 {
		n = 0
	}
	if n > s.total {
		n = s.total
	}
	for {
		cur := s.done.Load()
		if n <= cur || s.done.CompareAndSwap(cur, n) {
			return
		}
	}
}

// Done returns the last recorded iteration count.
func (s *State) Done() int64 {
	return s.done.Load()
}

// Total returns the configured iteration count.
func (s *State) Total() int64 {
	return s.total
}

// Stop raises the stop signal. Only the first call has an effect.
func (s *State) Stop() {
	s.stopOnce.Do(func() {
		s.stopped.Store(true)
		close(s.stopCh)
	})
}

// Stopped reports whether Stop has been called.
func (s *State) Stopped() bool {
	return s.stopped.Load()
}

// StopCh is closed when the stop signal is raised.
func (s *State) StopCh() <-chan struct{} {
	return s.stopCh
}
