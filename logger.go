package graphcalc

import (
	"log/slog"

	"github.com/gogpu/gg"

	"github.com/gogpu/graphcalc/internal/logging"
)

// SetLogger configures the logger for graphcalc, all its sub-packages and
// the gg rasterizer. By default nothing is logged. Pass nil to restore the
// silent default.
//
// Log levels used by graphcalc:
//   - [slog.LevelDebug]: per-frame diagnostics (line counts, timings)
//   - [slog.LevelInfo]: lifecycle events (server listening, provider ready)
//   - [slog.LevelWarn]: non-fatal issues (font unavailable, provider failed)
//
// Example:
//
//	graphcalc.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	logging.SetLogger(l)
	gg.SetLogger(l)
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return logging.Logger()
}
