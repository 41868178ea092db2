package progress

import (
	"io"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultSpinInterval = 100 * time.Millisecond
	DefaultBarInterval  = 200 * time.Millisecond
)

// Reporter runs the animation and progress-bar repaint loops.
type Reporter struct {
	logger       *zap.Logger
	state        *State
	out          io.Writer
	outMu        sync.Mutex
	frames       []string
	spinInterval time.Duration
	barInterval  time.Duration
	width        int
	disabled     bool

	wg        sync.WaitGroup
	startOnce sync.Once
	stopOnce  sync.Once
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithIntervals overrides the animation and bar tick intervals.
func WithIntervals(spin, bar time.Duration) Option {
	return func(r *Reporter) {
		if spin > 0 {
			r.spinInterval = spin
		}
		if bar > 0 {
			r.barInterval = bar
		}
	}
}

// WithWidth sets the bar width in cells.
func WithWidth(width int) Option {
	return func(r *Reporter) {
		if width > 0 {
			r.width = width
		}
	}
}

// WithFrames replaces the animation frames.
func WithFrames(frames []string) Option {
	return func(r *Reporter) {
		if len(frames) > 0 {
			r.frames = frames
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Reporter) {
		r.logger = logger
	}
}

// Disabled makes Start a no-op. Stop still raises the signal.
func Disabled() Option {
	return func(r *Reporter) {
		r.disabled = true
	}
}

// NewReporter creates a reporter painting state to out.
func NewReporter(state *State, out io.Writer, opts ...Option) *Reporter {
	r := &Reporter{
		logger:       zap.NewNop(),
		state:        state,
		out:          out,
		frames:       Frames,
		spinInterval: DefaultSpinInterval,
		barInterval:  DefaultBarInterval,
		width:        DefaultBarWidth,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start launches both repaint loops in the background.
func (r *Reporter) Start() {
	r.startOnce.Do(func() {
		if r.disabled {
			r.logger.Debug("Progress repaint disabled")
			return
		}
		r.wg.Add(2)
		go r.animationLoop()
		go r.barLoop()
	})
}

// Stop raises the stop signal and waits for both loops to exit. It is safe
// to call more than once and before Start.
func (r *Reporter) Stop() {
	r.stopOnce.Do(func() {
		r.state.Stop()
		r.wg.Wait()
		r.logger.Debug("Progress repaint stopped", zap.Int64("done", r.state.Done()))
	})
}

func (r *Reporter) write(s string) {
	r.outMu.Lock()
	defer r.outMu.Unlock()

	// Rendering failures are not allowed to affect the benchmark.
	_, _ = io.WriteString(r.out, s)
}

func (r *Reporter) animationLoop() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.spinInterval)
	defer ticker.Stop()

	frame := 0
	for {
		r.write(r.frames[frame] + "\r")
		frame = (frame + 1) % len(r.frames)

		select {
		case <-r.state.StopCh():
			// Blank the last frame so the report does not start on top of it.
			r.write(strings.Repeat(" ", len(r.frames[0])) + "\r")
			return
		case <-ticker.C:
		}
	}
}

func (r *Reporter) barLoop() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.barInterval)
	defer ticker.Stop()

	total := r.state.Total()
	for {
		done := r.state.Done()
		r.write("\r" + RenderBar(done, total, r.width) + "\r")
		if done >= total {
			r.write("\n")
			return
		}

		select {
		case <-r.state.StopCh():
			// Aborted or stopped before the last tick saw completion:
			// paint the final count and terminate the line.
			r.write("\r" + RenderBar(r.state.Done(), total, r.width) + "\n")
			return
		case <-ticker.C:
		}
	}
}
