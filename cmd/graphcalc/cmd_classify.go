package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gogpu/graphcalc/plot"
)

func newClassifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify line...",
		Short: "Show how lines are interpreted",
		Long: `Print the plot kind and free parameters of each line.

Examples:
  graphcalc classify "y = a*x^2" "x^2 + y^2 <= 4" "r = 2*theta"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "LINE\tKIND\tPARAMS\tERROR")
			for _, src := range args {
				c := plot.Classify(src, nil, 0)
				errText := ""
				if c.Err != nil {
					errText = c.Err.Error()
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", src, c.Kind, strings.Join(c.Params, ","), errText)
			}
			return tw.Flush()
		},
	}
	return cmd
}
