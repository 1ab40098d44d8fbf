package rtex

import (
	"log/slog"

	logx "github.com/gogpu/rtex/internal/log"
)

// SetLogger configures the logger for rtex and all its sub-packages.
// By default, rtex produces no log output. Call SetLogger to enable logging.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by rtex:
//   - [slog.LevelDebug]: internal diagnostics (buffer swaps, session state)
//   - [slog.LevelInfo]: important lifecycle events (target allocated)
//   - [slog.LevelWarn]: non-fatal issues (draw with lost context, backend fallback)
//
// Example:
//
//	// Enable info-level logging to stderr:
//	rtex.SetLogger(slog.Default())
//
//	// Enable debug-level logging for full diagnostics:
//	rtex.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	logx.Set(l)
}

// Logger returns the currently configured logger.
func Logger() *slog.Logger {
	return logx.Logger()
}
