package term

import (
	"log/slog"

	"github.com/gogpu/term/internal/logx"
)

// SetLogger configures the logger for term and all its sub-packages.
// By default, term produces no log output. Call SetLogger to enable
// logging.
//
// SetLogger is safe for concurrent use: it stores the new logger
// atomically. Pass nil to disable logging (restore default silent
// behavior).
//
// Log levels used by term:
//   - [slog.LevelDebug]: internal diagnostics (unhandled control
//     sequences, atlas state, texture uploads)
//   - [slog.LevelInfo]: important lifecycle events (GPU adapter
//     selected, shell started, atlas growth)
//   - [slog.LevelWarn]: non-fatal issues (rasterization failures,
//     resource release errors)
//
// Example:
//
//	// Enable info-level logging to stderr:
//	term.SetLogger(slog.Default())
//
//	// Enable debug-level logging for full diagnostics:
//	term.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	logx.Set(l)
}

// Logger returns the current logger used by term. Sub-packages share
// the same logger configuration.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return logx.Logger()
}
