package async

import (
	"context"
	"runtime/debug"

	"github.com/m-mizutani/ctxlog"
)

// Dispatch runs a handler on its own goroutine with panic recovery, so
// platform event handlers can acknowledge immediately while the work
// continues in background. The handler gets a fresh background context that
// keeps the logger of the originating event.
func Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	bg := detach(ctx)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ctxlog.From(bg).Error("Panic in async handler",
					"recover", r,
					"stack", string(debug.Stack()),
				)
			}
		}()

		if err := handler(bg); err != nil {
			ctxlog.From(bg).Error("Error in async handler", "error", err)
		}
	}()
}

// detach builds a background context carrying over the values that must
// survive the originating event's lifetime
func detach(ctx context.Context) context.Context {
	bg := context.Background()
	if logger := ctxlog.From(ctx); logger != nil {
		bg = ctxlog.With(bg, logger)
	}
	return bg
}
