package commands

import (
	"fmt"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shizukutanaka/hashbench/internal/workload"
)

func newDigestsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "digests",
		Short: "List the digest algorithms a chain can use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tALGORITHM\tSIZE\tDEFAULT CHAIN")
			for _, name := range workload.Names() {
				d, err := workload.Lookup(name)
				if err != nil {
					return err
				}
				position := "-"
				if i := slices.Index(workload.DefaultChain, name); i >= 0 {
					position = fmt.Sprintf("#%d", i+1)
				}
				fmt.Fprintf(tw, "%s\t%s\t%d bits\t%s\n", d.Name, d.DisplayName, d.Size*8, position)
			}
			return tw.Flush()
		},
	}
}
