package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gogpu/graphcalc/cas"
)

func newCASCmd() *cobra.Command {
	var variables []string

	cmd := &cobra.Command{
		Use:   "cas op expression...",
		Short: "Run an algebra action",
		Long: `Run an algebra action with the built-in numeric provider.

Operations: simplify, expand, factor, partialFractions, solve, solveSystem.
The numeric provider folds constants and solves single equations in one
variable; the other operations report that they are unsupported.

Examples:
  graphcalc cas simplify "2*3 + 1"
  graphcalc cas solve "x^2 = 9" --var x`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := cas.Request{Op: cas.Op(args[0]), Variables: variables}
			if req.Op == cas.OpSolveSystem {
				req.Equations = args[1:]
			} else {
				req.Expr = strings.Join(args[1:], " ")
			}
			text, err := cas.Do(cmd.Context(), cas.Numeric{}, req)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}

	cmd.Flags().StringSliceVar(&variables, "var", nil, "variables to solve for")
	return cmd
}
