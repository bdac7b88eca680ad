// Package logging provides module-scoped slog loggers for the library.
//
// Library code logs algorithm milestones at Debug only; nothing above Debug is
// ever emitted from a detection or extraction path. Debug output is enabled by
// setting TABLEWRIGHT_DEBUG to a truthy value.
package logging

import (
	"log/slog"
	"os"
	"strconv"
)

var root *slog.Logger

func init() {
	level := slog.LevelInfo
	if enabled, _ := strconv.ParseBool(os.Getenv("TABLEWRIGHT_DEBUG")); enabled {
		level = slog.LevelDebug
	}

	root = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// New returns a logger tagged with the given module name for easier filtering.
func New(module string) *slog.Logger {
	return root.With("module", module)
}
