// Package metrics exports benchmark results in the Prometheus exposition
// format so runs can be scraped through a node_exporter textfile collector.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/shizukutanaka/hashbench/internal/benchmark"
)

const namespace = "hashbench"

// Recorder holds the metrics of one benchmark run in a private registry.
type Recorder struct {
	logger   *zap.Logger
	registry *prometheus.Registry

	invocationDuration prometheus.Histogram
	invocations        prometheus.Counter
	hashRate           prometheus.Gauge
	elapsed            prometheus.Gauge
	memoryResident     *prometheus.GaugeVec
	heapAlloc          prometheus.Gauge
	lastRun            prometheus.Gauge
}

// Labels identify the run in every exported series.
type Labels struct {
	RunID     string
	Intensity string
	Chain     string
}

// NewRecorder creates a recorder whose series carry the given labels.
func NewRecorder(logger *zap.Logger, labels Labels) *Recorder {
	constLabels := prometheus.Labels{
		"run_id":    labels.RunID,
		"intensity": labels.Intensity,
		"chain":     labels.Chain,
	}

	r := &Recorder{
		logger:   logger,
		registry: prometheus.NewRegistry(),
		invocationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "invocation_duration_seconds",
			Help:        "Duration of a single workload invocation",
			Buckets:     prometheus.ExponentialBuckets(0.0001, 2, 16),
			ConstLabels: constLabels,
		}),
		invocations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "invocations_total",
			Help:        "Completed workload invocations",
			ConstLabels: constLabels,
		}),
		hashRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "hash_rate",
			Help:        "Invocations per second over the whole run",
			ConstLabels: constLabels,
		}),
		elapsed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "elapsed_seconds",
			Help:        "Wall-clock duration of the run",
			ConstLabels: constLabels,
		}),
		memoryResident: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "resident_memory_megabytes",
			Help:        "Resident memory of the benchmark process",
			ConstLabels: constLabels,
		}, []string{"phase"}),
		heapAlloc: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "heap_allocated_bytes",
			Help:        "Go heap bytes allocated during the run",
			ConstLabels: constLabels,
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "last_run_timestamp_seconds",
			Help:        "Unix time the run finished",
			ConstLabels: constLabels,
		}),
	}

	r.registry.MustRegister(
		r.invocationDuration,
		r.invocations,
		r.hashRate,
		r.elapsed,
		r.memoryResident,
		r.heapAlloc,
		r.lastRun,
	)
	return r
}

// ObserveInvocation records one completed invocation.
func (r *Recorder) ObserveInvocation(d time.Duration) {
	r.invocationDuration.Observe(d.Seconds())
	r.invocations.Inc()
}

// Record sets the run-level gauges from a finished result.
func (r *Recorder) Record(res *benchmark.Result) {
	r.hashRate.Set(res.Rate)
	r.elapsed.Set(res.Elapsed.Seconds())
	r.heapAlloc.Set(float64(res.AllocBytes))
	r.lastRun.Set(float64(res.EndTime.Unix()))
	if res.MemoryAvailable {
		r.memoryResident.WithLabelValues("before").Set(res.MemoryBeforeMB)
		r.memoryResident.WithLabelValues("after").Set(res.MemoryAfterMB)
	}
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes every series to path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	r.logger.Debug("Metrics textfile written", zap.String("path", path))
	return nil
}
