package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/graphcalc"
)

func newRenderCmd() *cobra.Command {
	var (
		sf            sessionFlags
		output        string
		width, height int
		fit           bool
		noMarkers     bool
		noLabels      bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a session to PNG",
		Long: `Render a session to a PNG image.

Lines come from -e flags, a YAML session file (-f) or a share blob (--blob).
Use -o - to write the image to stdout.

Examples:
  graphcalc render -e "y = sin(x)" -e "y = cos(x)" -o trig.png
  graphcalc render -f session.yaml --fit --theme dark`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := sf.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			opts := []graphcalc.Option{graphcalc.WithSize(width, height)}
			if noMarkers {
				opts = append(opts, graphcalc.WithoutMarkers())
			}
			if noLabels {
				opts = append(opts, graphcalc.WithoutLabels())
			}
			g := graphcalc.New(sess, opts...)
			defer g.Close()
			if fit {
				g.Fit()
			}
			for id, err := range g.Snapshot().Errors() {
				fmt.Fprintf(cmd.ErrOrStderr(), "line %s: %v\n", id, err)
			}

			if output == "-" {
				return g.WritePNG(cmd.Context(), cmd.OutOrStdout())
			}
			return writeFile(output, func(w io.Writer) error {
				return g.WritePNG(cmd.Context(), w)
			})
		},
	}

	sf.bind(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "graph.png", "output file, - for stdout")
	cmd.Flags().IntVar(&width, "width", graphcalc.DefaultWidth, "image width in pixels")
	cmd.Flags().IntVar(&height, "height", graphcalc.DefaultHeight, "image height in pixels")
	cmd.Flags().BoolVar(&fit, "fit", false, "fit the y range to the explicit lines")
	cmd.Flags().BoolVar(&noMarkers, "no-markers", false, "do not draw intercepts and extrema")
	cmd.Flags().BoolVar(&noLabels, "no-labels", false, "do not draw grid labels")

	return cmd
}

// writeFile creates path and writes it through a buffered writer.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	if err := write(bw); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
