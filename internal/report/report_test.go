package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/shizukutanaka/hashbench/internal/benchmark"
	"github.com/shizukutanaka/hashbench/internal/sysinfo"
)

func sampleReport() *Report {
	start := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	return &Report{
		RunID:     "3f1c1f0e-8d1a-4c55-9a55-5c4c0b8f6a10",
		Intensity: "high",
		Rounds:    10000,
		Chain:     "sha256 > md5 > sha1 > blake2b > sha3-256",
		Result: &benchmark.Result{
			Iterations:      1,
			StartTime:       start,
			EndTime:         start.Add(250 * time.Millisecond),
			Elapsed:         250 * time.Millisecond,
			Durations:       []time.Duration{249 * time.Millisecond},
			Rate:            4,
			AveragePerHash:  0.25,
			Min:             0.249,
			Max:             0.249,
			Mean:            0.249,
			P50:             0.249,
			P95:             0.249,
			P99:             0.249,
			MemoryBeforeMB:  10,
			MemoryAfterMB:   11.5,
			MemoryAvailable: true,
			AllocBytes:      4096,
		},
		PeakResident: sysinfo.Available("12.00 MB"),
		System: []sysinfo.Line{
			{Label: "Platform", Reading: sysinfo.Available("linux")},
			{Label: "CPU Count", Reading: sysinfo.Available("8 logical cores")},
		},
		Additional: []sysinfo.Line{
			{Label: "CPU Usage", Reading: sysinfo.Unavailable(sysinfo.PlaceholderPermission)},
			{Label: "CPU Temperature", Reading: sysinfo.Unavailable(sysinfo.PlaceholderNA)},
			{Label: "Hostname", Reading: sysinfo.Available("bench-01")},
		},
	}
}

// sectionBody returns the lines under a section header up to the next blank line.
func sectionBody(t *testing.T, text, title string) []string {
	t.Helper()

	idx := strings.Index(text, "\n"+title+":\n")
	require.NotEqual(t, -1, idx, "section %q missing", title)
	rest := text[idx+len(title)+3:]
	if end := strings.Index(rest, "\n\n"); end >= 0 {
		rest = rest[:end]
	}
	return strings.Split(strings.TrimRight(rest, "\n"), "\n")
}

func TestParseOmit(t *testing.T) {
	t.Parallel()

	all, err := ParseOmit(nil)
	require.NoError(t, err)
	for _, s := range AllSections {
		assert.True(t, all.Has(s), s)
	}

	set, err := ParseOmit([]string{"memory, additional_info", ""})
	require.NoError(t, err)
	assert.True(t, set.Has(SectionTime))
	assert.True(t, set.Has(SectionSystemInfo))
	assert.True(t, set.Has(SectionDistribution))
	assert.False(t, set.Has(SectionMemory))
	assert.False(t, set.Has(SectionAdditionalInfo))

	_, err = ParseOmit([]string{"time", "battery"})
	assert.ErrorIs(t, err, ErrUnknownSection)
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Format{"": FormatText, "TEXT": FormatText, "json": FormatJSON, "yaml": FormatYAML} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("xml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestTextTimeSectionHasSixMetrics(t *testing.T) {
	t.Parallel()

	text := NewPrinter(FormatText, nil).Text(sampleReport())

	body := sectionBody(t, text, "Time Statistics")
	require.Len(t, body, 6)
	assert.Equal(t, "Total time taken: 0.250000 seconds", body[0])
	assert.Equal(t, "Hash rate: 4.00 hashes/second", body[1])
	assert.Equal(t, "Average time per hash: 0.2500000000 seconds", body[2])
	assert.True(t, strings.HasPrefix(body[3], "Min time for a single hash: "))
	assert.True(t, strings.HasPrefix(body[4], "Max time for a single hash: "))
	assert.True(t, strings.HasPrefix(body[5], "Average hash time: "))

	assert.Contains(t, text, "Running hash rate test with 1 iterations...\n")
	assert.Contains(t, text, "Memory usage before test: 10.00 MB\n")
	assert.Contains(t, text, "Memory change: +1.50 MB\n")
	assert.Contains(t, text, "Peak resident memory: 12.00 MB\n")
}

func TestTextOmitSections(t *testing.T) {
	t.Parallel()

	sections, err := ParseOmit([]string{"memory,additional_info"})
	require.NoError(t, err)

	text := NewPrinter(FormatText, sections).Text(sampleReport())

	assert.Contains(t, text, "Time Statistics:")
	assert.Contains(t, text, "System Information:")
	assert.NotContains(t, text, "Memory Usage:")
	assert.NotContains(t, text, "Memory usage before test")
	assert.NotContains(t, text, "Additional Information:")
	assert.NotContains(t, text, "Hostname:")
}

func TestTextShowsPlaceholders(t *testing.T) {
	t.Parallel()

	r := sampleReport()
	r.Result.MemoryAvailable = false

	text := NewPrinter(FormatText, nil).Text(r)

	assert.Contains(t, text, "CPU Usage: Permission Denied\n")
	assert.Contains(t, text, "CPU Temperature: N/A\n")
	assert.Contains(t, text, "Memory usage before test: Not available\n")
	assert.NotContains(t, text, "Memory change:")
}

func TestJSONRespectsSections(t *testing.T) {
	t.Parallel()

	sections, err := ParseOmit([]string{"memory", "additional_info"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, NewPrinter(FormatJSON, sections).Write(&buf, sampleReport()))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Contains(t, doc, "time")
	assert.Contains(t, doc, "system_info")
	assert.NotContains(t, doc, "memory")
	assert.NotContains(t, doc, "additional_info")
	assert.Equal(t, 4.0, doc["time"].(map[string]any)["hash_rate"])
}

func TestYAMLOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, NewPrinter(FormatYAML, nil).Write(&buf, sampleReport()))

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "high", doc["intensity"])
	assert.Contains(t, doc, "memory")
	assert.Contains(t, doc, "additional_info")
}

func TestSave(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	content := []byte(NewPrinter(FormatText, nil).Text(sampleReport()))

	plain := filepath.Join(dir, "report.txt")
	require.NoError(t, Save(plain, content))
	got, err := os.ReadFile(plain)
	require.NoError(t, err)
	assert.Equal(t, content, got)

	compressed := filepath.Join(dir, "report.txt.zst")
	require.NoError(t, Save(compressed, content))
	raw, err := os.ReadFile(compressed)
	require.NoError(t, err)

	dec, err := zstd.NewReader(nil)
	require.NoError(t, err)
	defer dec.Close()
	decoded, err := dec.DecodeAll(raw, nil)
	require.NoError(t, err)
	assert.Equal(t, content, decoded)

	assert.Error(t, Save(filepath.Join(dir, "missing", "report.txt"), content))
}

func TestWriteSystem(t *testing.T) {
	t.Parallel()

	r := sampleReport()

	var buf bytes.Buffer
	require.NoError(t, NewPrinter(FormatText, nil).WriteSystem(&buf, r.System, r.Additional))
	assert.Equal(t, "System Information:\n"+
		"Platform: linux\n"+
		"CPU Count: 8 logical cores\n"+
		"\n"+
		"Additional Information:\n"+
		"CPU Usage: Permission Denied\n"+
		"CPU Temperature: N/A\n"+
		"Hostname: bench-01\n", buf.String())

	sections, err := ParseOmit([]string{"system_info"})
	require.NoError(t, err)
	buf.Reset()
	require.NoError(t, NewPrinter(FormatJSON, sections).WriteSystem(&buf, r.System, r.Additional))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.NotContains(t, doc, "system_info")
	assert.Contains(t, doc, "additional_info")
}
