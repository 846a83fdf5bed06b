package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gogpu/graphcalc/server"
)

func newServeCmd() *cobra.Command {
	var (
		addr      string
		dbPath    string
		readLimit int64
		frames    int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve interactive graphs over websockets",
		Long: `Serve interactive graphs.

  GET /ws          websocket session (?name=, ?blob=, ?w=, ?h=)
  GET /frame.png   render a share blob (?blob=, ?name=, ?w=, ?h=)

With --db, sessions can be saved from a websocket and opened by name.

Examples:
  graphcalc serve --addr :8080
  graphcalc serve --db graphs.db`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			opts := []server.Option{server.WithReadLimit(readLimit), server.WithFrameCache(frames)}
			if dbPath != "" {
				st, err := openStore(dbPath)
				if err != nil {
					return err
				}
				defer st.Close()
				opts = append(opts, server.WithStore(st))
			}
			return server.New(opts...).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&dbPath, "db", "", "session database; saving is disabled without one")
	cmd.Flags().IntVar(&frames, "frame-cache", server.DefaultFrameCache, "rendered frames to keep, 0 disables")
	cmd.Flags().Int64Var(&readLimit, "read-limit", server.DefaultReadLimit, "largest client message in bytes")

	return cmd
}
