package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gogpu/graphcalc/plot"
)

func newEvalCmd() *cobra.Command {
	var params map[string]string

	cmd := &cobra.Command{
		Use:   "eval [line...]",
		Short: "Evaluate calculator lines",
		Long: `Evaluate calculator lines top to bottom. Each result is stored in ans,
which the next line may use. Without arguments, lines are read from stdin.

Lines that are not calculator lines print their plot kind instead.

Examples:
  graphcalc eval "2 + 3*4" "ans + 1"
  echo "sqrt(2)" | graphcalc eval`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sources := args
			if len(sources) == 0 {
				var err error
				sources, err = readLines(cmd.InOrStdin())
				if err != nil {
					return err
				}
			}
			values, err := parseParams(params)
			if err != nil {
				return err
			}

			lines := make([]plot.Line, len(sources))
			for i, src := range sources {
				lines[i] = plot.Line{ID: strconv.Itoa(i + 1), Source: src}
			}
			compiled, _ := plot.CompileAll(lines, values)

			out := cmd.OutOrStdout()
			failed := 0
			for _, c := range compiled {
				switch {
				case c.Err != nil:
					failed++
					fmt.Fprintf(out, "error: %v\n", c.Err)
				case c.Kind == plot.KindScalar:
					fmt.Fprintln(out, strconv.FormatFloat(c.Curve.(*plot.Scalar).Value, 'g', -1, 64))
				case c.Kind == plot.KindEmpty:
					fmt.Fprintln(out)
				default:
					fmt.Fprintf(out, "(%s)\n", c.Kind)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d lines failed", failed, len(compiled))
			}
			return nil
		},
	}

	cmd.Flags().StringToStringVar(&params, "param", nil, "parameter values, e.g. a=2,b=-1")

	return cmd
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	return lines, sc.Err()
}

func parseParams(raw map[string]string) (map[string]float64, error) {
	out := make(map[string]float64, len(raw))
	for name, s := range raw {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("--param %s: %w", name, err)
		}
		out[name] = v
	}
	return out, nil
}
