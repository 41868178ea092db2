package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/shizukutanaka/hashbench/internal/benchmark"
	"github.com/shizukutanaka/hashbench/internal/sysinfo"
)

// Report is everything the final output is rendered from.
type Report struct {
	RunID        string
	Intensity    string
	Rounds       int
	Chain        string
	Result       *benchmark.Result
	PeakResident sysinfo.Reading
	System       []sysinfo.Line
	Additional   []sysinfo.Line
}

// Printer renders reports restricted to a set of sections.
type Printer struct {
	format   Format
	sections SectionSet
}

// NewPrinter creates a printer. A nil set shows every section.
func NewPrinter(format Format, sections SectionSet) *Printer {
	if sections == nil {
		sections = AllSectionsSet()
	}
	return &Printer{format: format, sections: sections}
}

// Write renders r to w.
func (p *Printer) Write(w io.Writer, r *Report) error {
	switch p.format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(p.document(r))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(p.document(r)); err != nil {
			return err
		}
		return enc.Close()
	default:
		_, err := io.WriteString(w, p.Text(r))
		return err
	}
}

// Text renders the plain-text report.
func (p *Printer) Text(r *Report) string {
	var b strings.Builder
	res := r.Result

	fmt.Fprintf(&b, "Running hash rate test with %s iterations...\n", humanize.Comma(int64(res.Iterations)))
	if r.RunID != "" {
		fmt.Fprintf(&b, "Run ID: %s\n", r.RunID)
	}
	fmt.Fprintf(&b, "Iterations: %d\n", res.Iterations)
	fmt.Fprintf(&b, "Intensity: %s (%s rounds per hash)\n", r.Intensity, humanize.Comma(int64(r.Rounds)))
	fmt.Fprintf(&b, "Hash chain: %s\n", r.Chain)
	fmt.Fprintf(&b, "Number of threads used: 1\n")
	fmt.Fprintf(&b, "Start time: %s\n", res.StartTime.Local().Format(time.DateTime))
	fmt.Fprintf(&b, "End time: %s\n", res.EndTime.Local().Format(time.DateTime))

	for _, sec := range AllSections {
		if !p.sections.Has(sec) {
			continue
		}
		fmt.Fprintf(&b, "\n%s:\n", sec.Title())
		switch sec {
		case SectionTime:
			fmt.Fprintf(&b, "Total time taken: %.6f seconds\n", res.Elapsed.Seconds())
			fmt.Fprintf(&b, "Hash rate: %.2f hashes/second\n", res.Rate)
			fmt.Fprintf(&b, "Average time per hash: %.10f seconds\n", res.AveragePerHash)
			fmt.Fprintf(&b, "Min time for a single hash: %.10f seconds\n", res.Min)
			fmt.Fprintf(&b, "Max time for a single hash: %.10f seconds\n", res.Max)
			fmt.Fprintf(&b, "Average hash time: %.10f seconds\n", res.Mean)
		case SectionMemory:
			if res.MemoryAvailable {
				fmt.Fprintf(&b, "Memory usage before test: %.2f MB\n", res.MemoryBeforeMB)
				fmt.Fprintf(&b, "Memory usage after test: %.2f MB\n", res.MemoryAfterMB)
				fmt.Fprintf(&b, "Memory change: %+.2f MB\n", res.MemoryDeltaMB())
			} else {
				fmt.Fprintf(&b, "Memory usage before test: %s\n", sysinfo.PlaceholderUnavailable)
				fmt.Fprintf(&b, "Memory usage after test: %s\n", sysinfo.PlaceholderUnavailable)
			}
			fmt.Fprintf(&b, "Heap allocated during test: %s (%s objects)\n",
				humanize.IBytes(res.AllocBytes), humanize.Comma(int64(res.AllocObjects)))
			fmt.Fprintf(&b, "Peak resident memory: %s\n", orPlaceholder(r.PeakResident))
		case SectionDistribution:
			fmt.Fprintf(&b, "Standard deviation: %.10f seconds\n", res.StdDev)
			fmt.Fprintf(&b, "Median (p50): %.10f seconds\n", res.P50)
			fmt.Fprintf(&b, "95th percentile: %.10f seconds\n", res.P95)
			fmt.Fprintf(&b, "99th percentile: %.10f seconds\n", res.P99)
		case SectionSystemInfo:
			writeLines(&b, r.System)
		case SectionAdditionalInfo:
			writeLines(&b, r.Additional)
		}
	}
	return b.String()
}

func writeLines(b *strings.Builder, lines []sysinfo.Line) {
	for _, l := range lines {
		fmt.Fprintf(b, "%s: %s\n", l.Label, orPlaceholder(l.Reading))
	}
}

func orPlaceholder(r sysinfo.Reading) string {
	if s := r.String(); s != "" {
		return s
	}
	return sysinfo.PlaceholderUnavailable
}

type timeSection struct {
	TotalSeconds   float64 `json:"total_time_taken" yaml:"total_time_taken"`
	HashRate       float64 `json:"hash_rate" yaml:"hash_rate"`
	AveragePerHash float64 `json:"average_time_per_hash" yaml:"average_time_per_hash"`
	Min            float64 `json:"min_time_per_hash" yaml:"min_time_per_hash"`
	Max            float64 `json:"max_time_per_hash" yaml:"max_time_per_hash"`
	Mean           float64 `json:"average_hash_time" yaml:"average_hash_time"`
}

type memorySection struct {
	Available    bool            `json:"available" yaml:"available"`
	BeforeMB     float64         `json:"before_mb" yaml:"before_mb"`
	AfterMB      float64         `json:"after_mb" yaml:"after_mb"`
	AllocBytes   uint64          `json:"heap_alloc_bytes" yaml:"heap_alloc_bytes"`
	AllocObjects uint64          `json:"heap_alloc_objects" yaml:"heap_alloc_objects"`
	PeakResident sysinfo.Reading `json:"peak_resident" yaml:"peak_resident"`
}

type distributionSection struct {
	StdDev float64 `json:"stddev" yaml:"stddev"`
	P50    float64 `json:"p50" yaml:"p50"`
	P95    float64 `json:"p95" yaml:"p95"`
	P99    float64 `json:"p99" yaml:"p99"`
}

type document struct {
	RunID          string               `json:"run_id" yaml:"run_id"`
	Iterations     int                  `json:"iterations" yaml:"iterations"`
	Intensity      string               `json:"intensity" yaml:"intensity"`
	Rounds         int                  `json:"rounds" yaml:"rounds"`
	Chain          string               `json:"chain" yaml:"chain"`
	StartTime      time.Time            `json:"start_time" yaml:"start_time"`
	EndTime        time.Time            `json:"end_time" yaml:"end_time"`
	Time           *timeSection         `json:"time,omitempty" yaml:"time,omitempty"`
	Memory         *memorySection       `json:"memory,omitempty" yaml:"memory,omitempty"`
	Distribution   *distributionSection `json:"distribution,omitempty" yaml:"distribution,omitempty"`
	SystemInfo     []sysinfo.Line       `json:"system_info,omitempty" yaml:"system_info,omitempty"`
	AdditionalInfo []sysinfo.Line       `json:"additional_info,omitempty" yaml:"additional_info,omitempty"`
}

func (p *Printer) document(r *Report) document {
	res := r.Result
	doc := document{
		RunID:      r.RunID,
		Iterations: res.Iterations,
		Intensity:  r.Intensity,
		Rounds:     r.Rounds,
		Chain:      r.Chain,
		StartTime:  res.StartTime,
		EndTime:    res.EndTime,
	}
	if p.sections.Has(SectionTime) {
		doc.Time = &timeSection{
			TotalSeconds:   res.Elapsed.Seconds(),
			HashRate:       res.Rate,
			AveragePerHash: res.AveragePerHash,
			Min:            res.Min,
			Max:            res.Max,
			Mean:           res.Mean,
		}
	}
	if p.sections.Has(SectionMemory) {
		doc.Memory = &memorySection{
			Available:    res.MemoryAvailable,
			BeforeMB:     res.MemoryBeforeMB,
			AfterMB:      res.MemoryAfterMB,
			AllocBytes:   res.AllocBytes,
			AllocObjects: res.AllocObjects,
			PeakResident: r.PeakResident,
		}
	}
	if p.sections.Has(SectionDistribution) {
		doc.Distribution = &distributionSection{
			StdDev: res.StdDev,
			P50:    res.P50,
			P95:    res.P95,
			P99:    res.P99,
		}
	}
	if p.sections.Has(SectionSystemInfo) {
		doc.SystemInfo = r.System
	}
	if p.sections.Has(SectionAdditionalInfo) {
		doc.AdditionalInfo = r.Additional
	}
	return doc
}

type systemDocument struct {
	SystemInfo     []sysinfo.Line `json:"system_info,omitempty" yaml:"system_info,omitempty"`
	AdditionalInfo []sysinfo.Line `json:"additional_info,omitempty" yaml:"additional_info,omitempty"`
}

// WriteSystem renders only the system sections, without benchmark results.
func (p *Printer) WriteSystem(w io.Writer, system, additional []sysinfo.Line) error {
	if !p.sections.Has(SectionSystemInfo) {
		system = nil
	}
	if !p.sections.Has(SectionAdditionalInfo) {
		additional = nil
	}

	switch p.format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(systemDocument{SystemInfo: system, AdditionalInfo: additional})
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(systemDocument{SystemInfo: system, AdditionalInfo: additional}); err != nil {
			return err
		}
		return enc.Close()
	}

	var b strings.Builder
	for _, block := range []struct {
		sec   Section
		lines []sysinfo.Line
	}{{SectionSystemInfo, system}, {SectionAdditionalInfo, additional}} {
		if !p.sections.Has(block.sec) {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s:\n", block.sec.Title())
		writeLines(&b, block.lines)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
