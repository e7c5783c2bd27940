// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gviegas/scenegl/engine/shader"
)

var (
	level  = new(slog.LevelVar)
	logPtr atomic.Pointer[slog.Logger]
)

// SetLogger sets the logger of the engine and of its
// shaders. A nil l restores the default logger, which
// writes to slog.Default's handler filtered by
// Config.LogLevel.
func SetLogger(l *slog.Logger) {
	logPtr.Store(l)
	shader.SetLogger(l)
}

func logger() *slog.Logger {
	if l := logPtr.Load(); l != nil {
		return l
	}
	return slog.New(levelHandler{slog.Default().Handler()})
}

// levelHandler filters records below the configured
// level.
type levelHandler struct{ slog.Handler }

func (h levelHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return l >= level.Level() && h.Handler.Enabled(ctx, l)
}

func (h levelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return levelHandler{h.Handler.WithAttrs(attrs)}
}

func (h levelHandler) WithGroup(name string) slog.Handler {
	return levelHandler{h.Handler.WithGroup(name)}
}
