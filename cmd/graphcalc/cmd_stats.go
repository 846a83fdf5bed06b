package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gogpu/graphcalc/stats"
)

func newStatsCmd() *cobra.Command {
	var (
		pdf      []float64
		cdf      []float64
		quantile []float64
		samples  int
	)

	cmd := &cobra.Command{
		Use:   "stats distribution",
		Short: "Evaluate a probability distribution",
		Long: `Evaluate the density, CDF or quantile function of a distribution, or draw
samples from it. The distribution is written as a call, e.g. normal(0, 1).

Distributions: normal(mu, sigma), studentT(nu), chiSquare(k),
binomial(n, p), poisson(lambda). For discrete distributions --pdf gives
the mass function; quantiles and sampling are continuous only.

Examples:
  graphcalc stats "normal(0, 1)" --pdf 0 --cdf 1.96 --quantile 0.975
  graphcalc stats "binomial(10, 0.5)" --pdf 5 --cdf 5
  graphcalc stats "chiSquare(3)" --sample 5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, params, err := stats.ParseCall(args[0])
			if err != nil {
				return err
			}
			d, err := stats.NewGonum().Distribution(name, params...)
			if err != nil {
				return err
			}
			cont, isCont := d.(stats.Continuous)
			if !isCont && (len(quantile) > 0 || samples > 0) {
				return errors.New("quantiles and samples need a continuous distribution")
			}

			out := cmd.OutOrStdout()
			density := "pdf"
			if d.Discrete() {
				density = "pmf"
			}
			for _, x := range pdf {
				var v float64
				if disc, ok := d.(stats.Discrete); ok {
					v = disc.PMF(x)
				} else {
					v = cont.PDF(x)
				}
				fmt.Fprintf(out, "%s(%s) = %s\n", density, num(x), num(v))
			}
			for _, x := range cdf {
				fmt.Fprintf(out, "cdf(%s) = %s\n", num(x), num(d.CDF(x)))
			}
			for _, p := range quantile {
				fmt.Fprintf(out, "quantile(%s) = %s\n", num(p), num(cont.InverseCDF(p)))
			}
			for range samples {
				fmt.Fprintln(out, num(cont.Sample()))
			}
			if len(pdf)+len(cdf)+len(quantile)+samples == 0 {
				fmt.Fprintf(out, "%s%v\n", d.Name(), d.Params())
			}
			return nil
		},
	}

	cmd.Flags().Float64SliceVar(&pdf, "pdf", nil, "evaluate the density or mass function at these points")
	cmd.Flags().Float64SliceVar(&cdf, "cdf", nil, "evaluate the CDF at these points")
	cmd.Flags().Float64SliceVar(&quantile, "quantile", nil, "evaluate the inverse CDF at these probabilities")
	cmd.Flags().IntVar(&samples, "sample", 0, "draw this many random samples")

	return cmd
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'g', 10, 64)
}
