package commands

import (
	"github.com/spf13/cobra"

	"github.com/shizukutanaka/hashbench/internal/report"
	"github.com/shizukutanaka/hashbench/internal/sysinfo"
)

func newSysinfoCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sysinfo",
		Short: "Print system information without running the benchmark",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			collector := newCollector(logger, cfg)
			var system, additional []sysinfo.Line
			if cfg.Sections.Has(report.SectionSystemInfo) {
				system = collector.SystemInfo(cmd.Context())
			}
			if cfg.Sections.Has(report.SectionAdditionalInfo) {
				additional = collector.Additional(cmd.Context())
			}

			return report.NewPrinter(cfg.Format, cfg.Sections).WriteSystem(cmd.OutOrStdout(), system, additional)
		},
	}
}
