package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/shizukutanaka/hashbench/internal/benchmark"
	"github.com/shizukutanaka/hashbench/internal/config"
	"github.com/shizukutanaka/hashbench/internal/logging"
	"github.com/shizukutanaka/hashbench/internal/metrics"
	"github.com/shizukutanaka/hashbench/internal/progress"
	"github.com/shizukutanaka/hashbench/internal/report"
	"github.com/shizukutanaka/hashbench/internal/sysinfo"
	"github.com/shizukutanaka/hashbench/internal/workload"
)

func setup(cmd *cobra.Command, opts *rootOptions) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(opts.configPath, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func runBenchmark(cmd *cobra.Command, opts *rootOptions) error {
	cfg, logger, err := setup(cmd, opts)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runID := uuid.NewString()
	logger = logger.With(zap.String("run_id", runID))
	ctx = logging.ToContext(ctx, logger)

	gen := workload.NewGenerator(cfg.Digests, cfg.IntensityLevel)
	recorder := metrics.NewRecorder(logger, metrics.Labels{
		RunID:     runID,
		Intensity: cfg.IntensityLevel.String(),
		Chain:     gen.ChainName(),
	})

	logger.Info("Starting benchmark",
		zap.Int("iterations", cfg.Iterations),
		zap.Stringer("intensity", cfg.IntensityLevel),
		zap.String("chain", gen.ChainName()),
	)

	out := cmd.OutOrStdout()
	result, err := measure(ctx, cfg, gen, recorder, out)
	if err != nil {
		logger.Error("Benchmark failed", zap.Error(err))
		return err
	}
	recorder.Record(result)

	collector := newCollector(logger, cfg)
	rep := &report.Report{
		RunID:     runID,
		Intensity: cfg.IntensityLevel.String(),
		Rounds:    gen.Rounds(),
		Chain:     gen.ChainName(),
		Result:    result,
	}
	if cfg.Sections.Has(report.SectionMemory) {
		rep.PeakResident = collector.PeakResident()
	}
	if cfg.Sections.Has(report.SectionSystemInfo) {
		rep.System = collector.SystemInfo(ctx)
	}
	if cfg.Sections.Has(report.SectionAdditionalInfo) {
		rep.Additional = collector.Additional(ctx)
	}

	var buf bytes.Buffer
	if err := report.NewPrinter(cfg.Format, cfg.Sections).Write(&buf, rep); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	if _, err := out.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to print report: %w", err)
	}

	if cfg.Output.Path != "" {
		if err := report.Save(cfg.Output.Path, buf.Bytes()); err != nil {
			return err
		}
		logger.Info("Report saved", zap.String("path", cfg.Output.Path))
	}
	if cfg.Output.MetricsFile != "" {
		if err := recorder.WriteTextfile(cfg.Output.MetricsFile); err != nil {
			return err
		}
	}

	logger.Info("Benchmark complete",
		zap.Duration("elapsed", result.Elapsed),
		zap.Float64("hash_rate", result.Rate),
	)
	return nil
}

// measure runs the benchmark with the repaint loops active. The loops are
// stopped and joined before it returns on every path.
func measure(ctx context.Context, cfg *config.Config, gen *workload.Generator,
	recorder *metrics.Recorder, out io.Writer) (*benchmark.Result, error) {
	logger := logging.FromContext(ctx)
	state := progress.NewState(cfg.Iterations)

	reporterOpts := []progress.Option{
		progress.WithIntervals(cfg.Progress.SpinInterval, cfg.Progress.BarInterval),
		progress.WithWidth(cfg.Progress.Width),
		progress.WithLogger(logger),
	}
	if !cfg.ShowProgress(isTerminal(out)) {
		reporterOpts = append(reporterOpts, progress.Disabled())
	}
	reporter := progress.NewReporter(state, out, reporterOpts...)
	reporter.Start()
	defer reporter.Stop()

	runnerOpts := []benchmark.Option{
		benchmark.WithProgress(state),
		benchmark.WithObserver(recorder),
	}
	if mem, err := sysinfo.NewProcessMemory(); err != nil {
		logger.Warn("Process memory probe unavailable", zap.Error(err))
	} else {
		runnerOpts = append(runnerOpts, benchmark.WithMemorySampler(mem))
	}

	return benchmark.NewRunner(logger, gen, cfg.Iterations, runnerOpts...).Run(ctx)
}

func newCollector(logger *zap.Logger, cfg *config.Config) *sysinfo.Collector {
	return sysinfo.NewCollector(logger,
		sysinfo.WithDiskPath(cfg.System.DiskPath),
		sysinfo.WithCPUSample(cfg.System.CPUSample),
		sysinfo.WithTopProcesses(cfg.System.TopProcesses),
	)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
