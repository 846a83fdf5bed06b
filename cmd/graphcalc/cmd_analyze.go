package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gogpu/graphcalc"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		sf     sessionFlags
		asJSON bool
		fit    bool
		width  int
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "List intercepts, extrema and intersections",
		Long: `Find the notable points of the visible explicit lines inside the viewport.

Examples:
  graphcalc analyze -e "y = x^2 - 4"
  graphcalc analyze -e "y = x" -e "y = x^2 - 2" --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := sf.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			g := graphcalc.New(sess, graphcalc.WithSize(width, graphcalc.DefaultHeight))
			defer g.Close()
			if fit {
				g.Fit()
			}
			pts := g.Analyze()

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(pts)
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KIND\tX\tY\tLINES")
			for _, p := range pts {
				fmt.Fprintf(tw, "%s\t%.6g\t%.6g\t%s\n", p.Kind, p.X, p.Y, strings.Join(p.Sources, ","))
			}
			return tw.Flush()
		},
	}

	sf.bind(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	cmd.Flags().BoolVar(&fit, "fit", false, "fit the y range before analyzing")
	cmd.Flags().IntVar(&width, "width", graphcalc.DefaultWidth, "sampling width in pixels")

	return cmd
}
