package usecase

import (
	"context"

	"github.com/wicket-bot/wicket/pkg/domain/interfaces"
	"github.com/wicket-bot/wicket/pkg/domain/model"
	"github.com/wicket-bot/wicket/pkg/domain/types"
	"github.com/wicket-bot/wicket/pkg/utils/apperr"
)

// Audit posts action embeds into the configured logs channel. Logging is
// best effort: an unset channel or a failed send never affects the flow that
// triggered it.
type Audit struct {
	store    interfaces.SettingsStore
	platform interfaces.Platform
}

// NewAudit creates an Audit service
func NewAudit(store interfaces.SettingsStore, platform interfaces.Platform) *Audit {
	return &Audit{store: store, platform: platform}
}

// Log sends an embed to the logs channel if one is configured
func (a *Audit) Log(ctx context.Context, embed *model.Embed) {
	s := a.store.Settings()
	if s.LogsChannelID == "" {
		return
	}
	if _, err := a.platform.SendEmbed(ctx, s.LogsChannelID, embed); err != nil {
		apperr.Handle(ctx, err)
	}
}

// truncate bounds a user-supplied string for embed fields
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}

// memberTag renders "name (<@id>)" for audit embeds, falling back to the
// mention alone when the display name is unknown
func memberTag(name string, id types.UserID) string {
	if name == "" {
		return id.Mention()
	}
	return name + " (" + id.Mention() + ")"
}
