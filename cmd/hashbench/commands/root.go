package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/shizukutanaka/hashbench/internal/config"
	"github.com/shizukutanaka/hashbench/internal/workload"
)

// Version is overridden at build time with -ldflags.
var Version = "1.0.0"

type rootOptions struct {
	configPath string
}

// NewRootCommand builds the hashbench command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "hashbench",
		Short: "Measure single-threaded hash throughput on this machine",
		Long: `hashbench runs a chained digest workload a fixed number of times,
reports the resulting hash rate and timing statistics, and prints
system and resource information gathered from the operating system.`,
		Version:      Version,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBenchmark(cmd, opts)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "config file (YAML)")
	pf.StringSlice("omit", nil, "comma-separated report sections to omit: time, memory, distribution, system_info, additional_info")
	pf.String("format", "text", "report format: text, json or yaml")
	pf.String("log-level", "info", "log level: debug, info, warn or error")
	pf.String("log-file", "", "also write JSON logs to this rotated file")

	f := cmd.Flags()
	f.Int("iterations", config.DefaultIterations, "number of workload invocations")
	f.String("intensity", string(workload.DefaultIntensity), "workload intensity: low, medium or high")
	f.StringSlice("chain", workload.DefaultChain, "digest chain applied every round")
	f.String("output", "", "also write the report to this file (.zst compresses)")
	f.String("metrics-file", "", "write Prometheus metrics to this textfile")
	f.String("progress", config.ProgressAuto, "progress display: auto, always or never")

	cmd.SetVersionTemplate(`hashbench {{.Version}}
`)

	cmd.AddCommand(
		newSysinfoCommand(opts),
		newDigestsCommand(),
	)
	return cmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
