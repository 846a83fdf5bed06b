// Command graphcalc renders and analyzes graphing-calculator sessions.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/graphcalc"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:     "graphcalc",
		Short:   "Plot, analyze and evaluate math expressions",
		Version: graphcalc.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if !verbose {
				graphcalc.SetLogger(nil)
				return
			}
			graphcalc.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: slog.LevelDebug,
			})))
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")

	rootCmd.AddCommand(newRenderCmd())
	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newEvalCmd())
	rootCmd.AddCommand(newClassifyCmd())
	rootCmd.AddCommand(newEncodeCmd())
	rootCmd.AddCommand(newDecodeCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newCASCmd())
	rootCmd.AddCommand(newPresetsCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newSaveCmd())
	rootCmd.AddCommand(newLoadCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newDeleteCmd())

	return rootCmd
}
