package usecase

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/wicket-bot/wicket/pkg/domain/interfaces"
	"github.com/wicket-bot/wicket/pkg/domain/model"
	"github.com/wicket-bot/wicket/pkg/domain/types"
	"github.com/wicket-bot/wicket/pkg/utils/apperr"
)

// userPlaceholder matches the {user} template marker, case-insensitively
var userPlaceholder = regexp.MustCompile(`(?i)\{user\}`)

// Autoresponder matches inbound text against configured trigger phrases and
// posts the mapped response. At most one response is sent per message.
type Autoresponder struct {
	store    interfaces.SettingsStore
	platform interfaces.Platform
	audit    *Audit
}

// NewAutoresponder creates an Autoresponder
func NewAutoresponder(store interfaces.SettingsStore, platform interfaces.Platform, audit *Audit) *Autoresponder {
	return &Autoresponder{store: store, platform: platform, audit: audit}
}

// HandleMessage checks msg against every configured trigger and answers the
// first match. Triggers are tried in sorted order so matching is
// deterministic. Returns whether a response was sent.
func (u *Autoresponder) HandleMessage(ctx context.Context, msg *model.InboundMessage) bool {
	s := u.store.Settings()
	if len(s.Autoresponders) == 0 {
		return false
	}

	triggers := make([]string, 0, len(s.Autoresponders))
	for key := range s.Autoresponders {
		triggers = append(triggers, key)
	}
	sort.Strings(triggers)

	content := strings.ToLower(msg.Content)
	for _, key := range triggers {
		trigger := strings.TrimSpace(strings.ToLower(key))
		if trigger == "" || !MatchTrigger(content, trigger) {
			continue
		}

		response := s.Autoresponders[key]
		if response == "" {
			return false
		}
		response = userPlaceholder.ReplaceAllString(response, msg.AuthorID.Mention())

		u.sendDelayed(ctx, msg.ChannelID, response, s.AutoDelaySeconds)

		u.audit.Log(ctx, &model.Embed{
			Title: "autoresponder used",
			Color: model.EmbedColorNeutral,
			Fields: []model.EmbedField{
				{Name: "channel", Value: msg.ChannelID.Mention(), Inline: true},
				{Name: "by", Value: memberTag(msg.AuthorName, msg.AuthorID), Inline: true},
				{Name: "trigger", Value: "`" + trigger + "`"},
				{Name: "user message", Value: truncate(msg.Content, 400)},
			},
			Timestamp: true,
		})
		return true
	}
	return false
}

// HandleChannelCreated implements auto-send: a fresh channel under the
// watched category gets the configured autoresponder text (without user
// placeholders) and a watcher ping.
func (u *Autoresponder) HandleChannelCreated(ctx context.Context, info *model.ChannelInfo) {
	s := u.store.Settings()
	if s.AutoSendCategoryID == "" || info.ParentID != s.AutoSendCategoryID {
		return
	}
	if s.AutoSendTrigger == "" {
		return
	}
	text, ok := s.Autoresponders[s.AutoSendTrigger]
	if !ok || text == "" {
		return
	}

	text = strings.TrimSpace(userPlaceholder.ReplaceAllString(text, ""))
	u.sendDelayed(ctx, info.ID, text, s.AutoDelaySeconds)
	u.pingWatchers(ctx, info, s)
}

// MatchTrigger reports whether lowercased content matches a lowercased
// trigger: whole-trigger substring match, or any individual trigger word of
// at least 3 characters appearing as a substring. The word fallback can
// over-match multi-word triggers; that is long-standing observable behavior
// and is kept as is.
func MatchTrigger(content, trigger string) bool {
	if strings.Contains(content, trigger) {
		return true
	}
	for _, word := range strings.Fields(trigger) {
		if len(word) < 3 {
			continue
		}
		if strings.Contains(content, word) {
			return true
		}
	}
	return false
}

func (u *Autoresponder) sendDelayed(ctx context.Context, ch types.ChannelID, text string, delaySeconds float64) {
	if delaySeconds > 0 {
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Duration(delaySeconds * float64(time.Second))):
		}
	}
	if _, err := u.platform.SendText(ctx, ch, text); err != nil {
		apperr.Handle(ctx, err)
	}
}

// pingWatchers mentions the notify role and every non-staff, non-bot member
// who can see the channel
func (u *Autoresponder) pingWatchers(ctx context.Context, info *model.ChannelInfo, s *model.Settings) {
	var mentions []string

	if s.NotifyRoleID != "" && u.platform.RoleExists(ctx, s.NotifyRoleID) {
		mentions = append(mentions, s.NotifyRoleID.Mention())
	}

	viewers, err := u.platform.ChannelViewers(ctx, info.ID)
	if err != nil {
		apperr.Handle(ctx, err)
	}
	for _, m := range viewers {
		if m.IsBot || m.IsAdmin {
			continue
		}
		mentions = append(mentions, m.ID.Mention())
	}

	if len(mentions) == 0 {
		return
	}
	if _, err := u.platform.SendText(ctx, info.ID, strings.Join(mentions, " ")); err != nil {
		apperr.Handle(ctx, err)
	}
}
