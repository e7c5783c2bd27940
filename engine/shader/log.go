// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package shader

import (
	"log/slog"
	"sync/atomic"
)

var logger atomic.Pointer[slog.Logger]

// SetLogger sets the logger used for build and location
// diagnostics. A nil l restores slog.Default.
func SetLogger(l *slog.Logger) { logger.Store(l) }

func log() *slog.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return slog.Default()
}
