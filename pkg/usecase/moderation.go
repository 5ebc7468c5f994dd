package usecase

import (
	"context"
	"strings"

	"github.com/wicket-bot/wicket/pkg/domain/interfaces"
	"github.com/wicket-bot/wicket/pkg/domain/model"
	"github.com/wicket-bot/wicket/pkg/utils/apperr"
)

// scamWords are deleted on sight when posted by non-staff members
var scamWords = []string{
	"scam", "scammer", "scammers", "scamming", "scammed", "skam", "scamm",
}

// Moderation removes flagged messages from regular members and records the
// removal in the logs channel.
type Moderation struct {
	platform interfaces.Platform
	audit    *Audit
	auth     *Auth
}

// NewModeration creates a Moderation service
func NewModeration(platform interfaces.Platform, audit *Audit, auth *Auth) *Moderation {
	return &Moderation{platform: platform, audit: audit, auth: auth}
}

// HandleMessage deletes msg if it contains a flagged word and the author is
// not staff. Returns whether the message was removed. Later handlers still
// run on the same message either way.
func (u *Moderation) HandleMessage(ctx context.Context, msg *model.InboundMessage) bool {
	if msg.Bot || u.auth.IsStaff(msg.AuthorID) {
		return false
	}
	word := flaggedWord(msg.Content)
	if word == "" {
		return false
	}

	if err := u.platform.DeleteMessage(ctx, msg.ChannelID, msg.ID); err != nil {
		apperr.Handle(ctx, err)
		return false
	}

	u.audit.Log(ctx, &model.Embed{
		Title: "message removed",
		Color: model.EmbedColorAlert,
		Fields: []model.EmbedField{
			{Name: "channel", Value: msg.ChannelID.Mention(), Inline: true},
			{Name: "author", Value: memberTag(msg.AuthorName, msg.AuthorID), Inline: true},
			{Name: "matched", Value: "`" + word + "`", Inline: true},
			{Name: "content", Value: truncate(msg.Content, 400)},
		},
		Timestamp: true,
	})
	return true
}

func flaggedWord(content string) string {
	lowered := strings.ToLower(content)
	for _, w := range scamWords {
		if strings.Contains(lowered, w) {
			return w
		}
	}
	return ""
}
