package sysinfo

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestReading(t *testing.T) {
	t.Parallel()

	ok := Available("42%")
	assert.True(t, ok.Available)
	assert.Equal(t, "42%", ok.String())

	missing := Unavailable(PlaceholderNA)
	assert.False(t, missing.Available)
	assert.Equal(t, "N/A", missing.String())
}

func TestProbePlaceholders(t *testing.T) {
	t.Parallel()

	c := NewCollector(zaptest.NewLogger(t))

	tests := []struct {
		name        string
		placeholder string
		fn          func() (string, error)
		want        Reading
	}{
		{
			name:        "value",
			placeholder: PlaceholderUnavailable,
			fn:          func() (string, error) { return "ok", nil },
			want:        Available("ok"),
		},
		{
			name:        "permission error",
			placeholder: PlaceholderUnavailable,
			fn:          func() (string, error) { return "", fs.ErrPermission },
			want:        Unavailable(PlaceholderPermission),
		},
		{
			name:        "wrapped permission error",
			placeholder: PlaceholderNA,
			fn: func() (string, error) {
				return "", &os.PathError{Op: "open", Path: "/proc/1/io", Err: os.ErrPermission}
			},
			want: Unavailable(PlaceholderPermission),
		},
		{
			name:        "flattened permission error",
			placeholder: PlaceholderUnavailable,
			fn: func() (string, error) {
				return "", fmt.Errorf("read /sys/class/hwmon: %s", "permission denied")
			},
			want: Unavailable(PlaceholderPermission),
		},
		{
			name:        "other error uses metric placeholder",
			placeholder: PlaceholderNA,
			fn:          func() (string, error) { return "", errors.New("no sensors") },
			want:        Unavailable(PlaceholderNA),
		},
		{
			name:        "unsupported platform",
			placeholder: PlaceholderUnavailable,
			fn:          func() (string, error) { return "", errUnsupported },
			want:        Unavailable(PlaceholderUnavailable),
		},
		{
			name:        "panic is contained",
			placeholder: PlaceholderUnavailable,
			fn:          func() (string, error) { panic("collector bug") },
			want:        Unavailable(PlaceholderUnavailable),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.probe(tt.name, tt.placeholder, tt.fn))
		})
	}
}

func labels(lines []Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Label
	}
	return out
}

func TestSystemInfoNeverEmpty(t *testing.T) {
	t.Parallel()

	c := NewCollector(zaptest.NewLogger(t))
	lines := c.SystemInfo(context.Background())

	assert.Equal(t, []string{
		"Platform", "Release", "Version", "Machine", "Processor",
		"CPU Count", "Physical Cores", "Physical Memory", "Go version",
	}, labels(lines))
	for _, l := range lines {
		assert.NotEmpty(t, l.Reading.String(), l.Label)
	}
}

func TestAdditionalNeverEmpty(t *testing.T) {
	t.Parallel()

	c := NewCollector(zaptest.NewLogger(t), WithCPUSample(10*time.Millisecond), WithTopProcesses(3))
	lines := c.Additional(context.Background())

	require.Len(t, lines, 15)
	assert.Equal(t, "CPU Usage", lines[0].Label)
	assert.Equal(t, "Hostname", lines[len(lines)-1].Label)
	for _, l := range lines {
		assert.NotEmpty(t, l.Reading.String(), l.Label)
	}
}

func TestProcessMemory(t *testing.T) {
	t.Parallel()

	m, err := NewProcessMemory()
	if err != nil {
		t.Skipf("process inspection unavailable: %v", err)
	}
	rss, err := m.ResidentMB()
	if err != nil {
		t.Skipf("resident memory unavailable: %v", err)
	}
	assert.Greater(t, rss, 0.0)
}

func TestPeakResident(t *testing.T) {
	t.Parallel()

	r := NewCollector(zaptest.NewLogger(t)).PeakResident()
	assert.NotEmpty(t, r.String())
}
