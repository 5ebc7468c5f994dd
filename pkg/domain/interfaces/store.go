package interfaces

import (
	"context"

	"github.com/wicket-bot/wicket/pkg/domain/model"
)

// SettingsStore owns the configuration snapshot. Settings returns a copy of
// the current snapshot; Update applies a self-contained mutation to the
// authoritative snapshot and persists it before returning.
type SettingsStore interface {
	Settings() *model.Settings
	Update(ctx context.Context, mutate func(s *model.Settings)) error
}
