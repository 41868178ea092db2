package progress

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestStateAdvance(t *testing.T) {
	t.Parallel()

	s := NewState(10)
	assert.Equal(t, int64(0), s.Done())
	assert.Equal(t, int64(10), s.Total())

	s.Advance(3)
	assert.Equal(t, int64(3), s.Done())

	s.Advance(2) // never moves backwards
	assert.Equal(t, int64(3), s.Done())

	s.Advance(25)
	assert.Equal(t, int64(10), s.Done())

	s.Advance(-1)
	assert.Equal(t, int64(10), s.Done())
}

func TestStateStopOnce(t *testing.T) {
	t.Parallel()

	s := NewState(1)
	assert.False(t, s.Stopped())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Stop()
		}()
	}
	wg.Wait()

	assert.True(t, s.Stopped())
	select {
	case <-s.StopCh():
	default:
		t.Fatal("stop channel not closed")
	}
}

func TestRenderBar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		done    int64
		total   int64
		width   int
		filled  int
		percent string
	}{
		{name: "empty", done: 0, total: 40, width: 40, filled: 0, percent: "0.0%"},
		{name: "half", done: 20, total: 40, width: 40, filled: 20, percent: "50.0%"},
		{name: "third", done: 1, total: 3, width: 40, filled: 13, percent: "33.3%"},
		{name: "full", done: 7, total: 7, width: 10, filled: 10, percent: "100.0%"},
		{name: "zero total", done: 0, total: 0, width: 10, filled: 0, percent: "0.0%"},
		{name: "default width", done: 1, total: 1, width: 0, filled: DefaultBarWidth, percent: "100.0%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := RenderBar(tt.done, tt.total, tt.width)

			width := tt.width
			if width == 0 {
				width = DefaultBarWidth
			}
			cells := strings.Repeat("█", tt.filled) + strings.Repeat("-", width-tt.filled)
			assert.Equal(t, "Progress: |"+cells+"| "+tt.percent+" Complete", bar)
		})
	}
}

var percentRe = regexp.MustCompile(`(\d+\.\d)% Complete`)

func TestReporterLifecycle(t *testing.T) {
	t.Parallel()

	const total = 50
	var out bytes.Buffer
	state := NewState(total)
	r := NewReporter(state, &out,
		WithLogger(zaptest.NewLogger(t)),
		WithIntervals(time.Millisecond, 2*time.Millisecond),
	)

	r.Start()
	for i := 0; i < total; i++ {
		time.Sleep(200 * time.Microsecond)
		state.Advance(i + 1)
	}
	r.Stop()
	r.Stop()

	require.True(t, state.Stopped())
	written := out.String()

	// Nothing is painted once Stop has returned.
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, written, out.String())

	matches := percentRe.FindAllStringSubmatch(written, -1)
	require.NotEmpty(t, matches)

	last := -1.0
	for _, m := range matches {
		p, err := strconv.ParseFloat(m[1], 64)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 100.0)
		assert.GreaterOrEqual(t, p, last, "progress must not move backwards")
		last = p
	}
	assert.Equal(t, 100.0, last)
	assert.Equal(t, 1, strings.Count(written, "\n"), "bar line is finalized exactly once")
	assert.Contains(t, written, Frames[0])
}

func TestReporterStopBeforeCompletion(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	state := NewState(100)
	r := NewReporter(state, &out, WithIntervals(time.Millisecond, time.Millisecond), WithWidth(10))

	r.Start()
	state.Advance(30)
	time.Sleep(5 * time.Millisecond)
	r.Stop()

	written := out.String()
	assert.Contains(t, written, "30.0% Complete\n")
	assert.Equal(t, 1, strings.Count(written, "\n"))
	assert.Equal(t, int64(30), state.Done())
}

func TestReporterDisabled(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	state := NewState(5)
	r := NewReporter(state, &out, Disabled())

	r.Start()
	state.Advance(5)
	r.Stop()

	assert.Empty(t, out.String())
	assert.True(t, state.Stopped())
}

func TestReporterStopWithoutStart(t *testing.T) {
	t.Parallel()

	state := NewState(5)
	r := NewReporter(state, &bytes.Buffer{})

	done := make(chan struct{})
	go func() {
		r.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked without Start")
	}
	assert.True(t, state.Stopped())
}
