// Package apperr centralizes best-effort error handling: platform call
// failures that must be logged but never abort the surrounding flow.
package apperr

import (
	"context"

	"github.com/m-mizutani/ctxlog"
)

// Handle logs an operational error and moves on
func Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}
	ctxlog.From(ctx).Error("application error", "error", err)
}
