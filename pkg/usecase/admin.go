package usecase

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/m-mizutani/goerr/v2"
	"github.com/wicket-bot/wicket/pkg/domain/interfaces"
	"github.com/wicket-bot/wicket/pkg/domain/model"
	"github.com/wicket-bot/wicket/pkg/domain/types"
	"github.com/wicket-bot/wicket/pkg/utils/apperr"
	"golang.org/x/text/unicode/norm"
)

// Admin covers the prefix-command settings surface: category wiring,
// privileges, blacklist, autoresponder management, channel moves and
// renames. Every mutation persists immediately.
type Admin struct {
	store    interfaces.SettingsStore
	platform interfaces.Platform
	audit    *Audit
	auth     *Auth
}

// NewAdmin creates the admin use case
func NewAdmin(store interfaces.SettingsStore, platform interfaces.Platform, audit *Audit, auth *Auth) *Admin {
	return &Admin{store: store, platform: platform, audit: audit, auth: auth}
}

// SetMainCategory sets the main ticket category and prepends it to the
// ticket category list. Returns the category name.
func (u *Admin) SetMainCategory(ctx context.Context, cat types.CategoryID) (string, error) {
	info, err := u.platform.CategoryInfo(ctx, cat)
	if err != nil {
		return "", goerr.Wrap(model.ErrInvalidArgument, "not a valid category",
			goerr.V("categoryID", cat.String()))
	}
	if err := u.store.Update(ctx, func(s *model.Settings) {
		s.SetMainCategory(cat)
	}); err != nil {
		return "", err
	}
	return info.Name, nil
}

// SetImportantCategory sets the category used by the important command
func (u *Admin) SetImportantCategory(ctx context.Context, cat types.CategoryID) (string, error) {
	info, err := u.platform.CategoryInfo(ctx, cat)
	if err != nil {
		return "", goerr.Wrap(model.ErrInvalidArgument, "not a valid category",
			goerr.V("categoryID", cat.String()))
	}
	if err := u.store.Update(ctx, func(s *model.Settings) {
		s.ImportantCategoryID = cat
	}); err != nil {
		return "", err
	}
	return info.Name, nil
}

// AddAdmin grants a user the staff role for this bot
func (u *Admin) AddAdmin(ctx context.Context, user types.UserID) error {
	if user == "" {
		return goerr.Wrap(model.ErrInvalidArgument, "user is required")
	}
	return u.store.Update(ctx, func(s *model.Settings) {
		for _, id := range s.AdminIDs {
			if id == user {
				return
			}
		}
		s.AdminIDs = append(s.AdminIDs, user)
	})
}

// SetLogsChannel points the audit log at a text channel. Returns the
// channel name.
func (u *Admin) SetLogsChannel(ctx context.Context, ch types.ChannelID) (string, error) {
	info, err := u.platform.ChannelInfo(ctx, ch)
	if err != nil {
		return "", goerr.Wrap(model.ErrInvalidArgument, "not a valid text channel",
			goerr.V("channelID", ch.String()))
	}
	if err := u.store.Update(ctx, func(s *model.Settings) {
		s.LogsChannelID = ch
	}); err != nil {
		return "", err
	}
	return info.Name, nil
}

// SetNotifyRole sets the staff role pinged on new tickets
func (u *Admin) SetNotifyRole(ctx context.Context, role types.RoleID) error {
	if !u.platform.RoleExists(ctx, role) {
		return goerr.Wrap(model.ErrInvalidArgument, "not a valid role",
			goerr.V("roleID", role.String()))
	}
	return u.store.Update(ctx, func(s *model.Settings) {
		s.NotifyRoleID = role
	})
}

// ClearNotifyRole disables the automatic staff ping
func (u *Admin) ClearNotifyRole(ctx context.Context) error {
	return u.store.Update(ctx, func(s *model.Settings) {
		s.NotifyRoleID = ""
	})
}

// BlacklistAdd blocks a user from opening tickets. Adding a user twice
// fails with ErrInvalidArgument.
func (u *Admin) BlacklistAdd(ctx context.Context, user types.UserID) error {
	if user == "" {
		return goerr.Wrap(model.ErrInvalidArgument, "user is required")
	}
	if u.store.Settings().IsBlacklisted(user) {
		return goerr.Wrap(model.ErrInvalidArgument, "user is already blacklisted",
			goerr.V("userID", user.String()))
	}
	return u.store.Update(ctx, func(s *model.Settings) {
		s.Blacklist = append(s.Blacklist, user)
	})
}

// BlacklistRemove lifts the block
func (u *Admin) BlacklistRemove(ctx context.Context, user types.UserID) error {
	if !u.store.Settings().IsBlacklisted(user) {
		return goerr.Wrap(model.ErrInvalidArgument, "user is not blacklisted",
			goerr.V("userID", user.String()))
	}
	return u.store.Update(ctx, func(s *model.Settings) {
		kept := s.Blacklist[:0]
		for _, id := range s.Blacklist {
			if id != user {
				kept = append(kept, id)
			}
		}
		s.Blacklist = kept
	})
}

// BlacklistList returns the blacklisted users
func (u *Admin) BlacklistList() []types.UserID {
	s := u.store.Settings()
	out := make([]types.UserID, len(s.Blacklist))
	copy(out, s.Blacklist)
	return out
}

// SetAutoresponder registers or replaces a trigger/response pair. Triggers
// are stored lowercased.
func (u *Admin) SetAutoresponder(ctx context.Context, trigger, response string) error {
	trigger = strings.ToLower(strings.TrimSpace(trigger))
	response = strings.TrimSpace(response)
	if trigger == "" || response == "" {
		return goerr.Wrap(model.ErrInvalidArgument, "trigger and response are required")
	}
	return u.store.Update(ctx, func(s *model.Settings) {
		if s.Autoresponders == nil {
			s.Autoresponders = make(map[string]string)
		}
		s.Autoresponders[trigger] = response
	})
}

// DeleteAutoresponder removes a trigger. An unknown trigger fails with
// ErrInvalidArgument.
func (u *Admin) DeleteAutoresponder(ctx context.Context, trigger string) error {
	trigger = strings.ToLower(strings.TrimSpace(trigger))
	if _, ok := u.store.Settings().Autoresponders[trigger]; !ok {
		return goerr.Wrap(model.ErrInvalidArgument, "no autoresponder for trigger",
			goerr.V("trigger", trigger))
	}
	return u.store.Update(ctx, func(s *model.Settings) {
		delete(s.Autoresponders, trigger)
		if s.AutoSendTrigger == trigger {
			s.AutoSendTrigger = ""
		}
	})
}

// ListAutoresponders returns the configured triggers in sorted order
func (u *Admin) ListAutoresponders() []string {
	s := u.store.Settings()
	triggers := make([]string, 0, len(s.Autoresponders))
	for key := range s.Autoresponders {
		triggers = append(triggers, key)
	}
	sort.Strings(triggers)
	return triggers
}

// SetAutoSendTrigger selects which autoresponder fires on channel creation
// in the auto-send category. The trigger must already exist.
func (u *Admin) SetAutoSendTrigger(ctx context.Context, trigger string) error {
	trigger = strings.ToLower(strings.TrimSpace(trigger))
	if _, ok := u.store.Settings().Autoresponders[trigger]; !ok {
		return goerr.Wrap(model.ErrInvalidArgument, "no autoresponder for trigger",
			goerr.V("trigger", trigger))
	}
	return u.store.Update(ctx, func(s *model.Settings) {
		s.AutoSendTrigger = trigger
	})
}

// SetAutoSendCategory sets the category watched for new channels. Returns
// the category name.
func (u *Admin) SetAutoSendCategory(ctx context.Context, cat types.CategoryID) (string, error) {
	info, err := u.platform.CategoryInfo(ctx, cat)
	if err != nil {
		return "", goerr.Wrap(model.ErrInvalidArgument, "not a valid category",
			goerr.V("categoryID", cat.String()))
	}
	if err := u.store.Update(ctx, func(s *model.Settings) {
		s.AutoSendCategoryID = cat
	}); err != nil {
		return "", err
	}
	return info.Name, nil
}

// SetAutoDelay sets the pause before autoresponder and auto-send messages
func (u *Admin) SetAutoDelay(ctx context.Context, seconds float64) error {
	if seconds < 0 {
		return goerr.Wrap(model.ErrInvalidArgument, "delay must be non-negative",
			goerr.V("seconds", seconds))
	}
	return u.store.Update(ctx, func(s *model.Settings) {
		s.AutoDelaySeconds = seconds
	})
}

// SetCommandAlias remaps a base command to a new trigger word. Only known
// base commands can be renamed, and an alias may serve one base command at
// a time.
func (u *Admin) SetCommandAlias(ctx context.Context, base, alias string) error {
	base = strings.ToLower(strings.TrimSpace(base))
	alias = strings.ToLower(strings.TrimSpace(alias))
	if base == "" || alias == "" {
		return goerr.Wrap(model.ErrInvalidArgument, "base and alias are required")
	}
	if _, ok := model.DefaultAliases[base]; !ok {
		return goerr.Wrap(model.ErrInvalidArgument, "unknown base command",
			goerr.V("base", base))
	}
	for b, a := range u.store.Settings().CommandAliases {
		if b != base && strings.ToLower(a) == alias {
			return goerr.Wrap(model.ErrInvalidArgument, "alias is already in use",
				goerr.V("alias", alias), goerr.V("base", b))
		}
	}
	return u.store.Update(ctx, func(s *model.Settings) {
		if s.CommandAliases == nil {
			s.CommandAliases = make(map[string]string)
		}
		s.CommandAliases[base] = alias
	})
}

// SendOpenPanel posts the ticket panel with the open button into a channel
func (u *Admin) SendOpenPanel(ctx context.Context, ch types.ChannelID) error {
	embed := &model.Embed{
		Title:       "open a ticket",
		Description: "click the button below to open a ticket. please only open a ticket if you actually need help.",
		Color:       model.EmbedColorNeutral,
	}
	buttons := []model.Button{
		{ActionID: model.ActionOpenTicket, Label: "open a ticket", Style: model.ButtonPrimary},
	}
	if _, err := u.platform.SendPanel(ctx, ch, embed, buttons); err != nil {
		return goerr.Wrap(err, "failed to send ticket panel")
	}
	return nil
}

// MoveToMainCategory reparents a channel under the main ticket category
func (u *Admin) MoveToMainCategory(ctx context.Context, ch types.ChannelID, by types.UserID, byName string) error {
	s := u.store.Settings()
	if s.MainCategoryID == "" {
		return goerr.Wrap(model.ErrCategoryNotConfigured, "main ticket category is not set")
	}
	return u.moveChannel(ctx, ch, s.MainCategoryID, by, byName, "channel moved to ticket category")
}

// MarkImportant reparents a channel under the important category
func (u *Admin) MarkImportant(ctx context.Context, ch types.ChannelID, by types.UserID, byName string) error {
	s := u.store.Settings()
	if s.ImportantCategoryID == "" {
		return goerr.Wrap(model.ErrCategoryNotConfigured, "important category is not set")
	}
	return u.moveChannel(ctx, ch, s.ImportantCategoryID, by, byName, "channel marked important")
}

func (u *Admin) moveChannel(ctx context.Context, ch types.ChannelID, dest types.CategoryID, by types.UserID, byName, logTitle string) error {
	destInfo, err := u.platform.CategoryInfo(ctx, dest)
	if err != nil {
		return goerr.Wrap(model.ErrInvalidArgument, "the configured category is invalid",
			goerr.V("categoryID", dest.String()))
	}

	fromName := "no category"
	if info, err := u.platform.ChannelInfo(ctx, ch); err == nil && info.ParentID != "" {
		if parent, err := u.platform.CategoryInfo(ctx, info.ParentID); err == nil {
			fromName = parent.Name
		}
	}

	if err := u.platform.SetChannelParent(ctx, ch, dest); err != nil {
		return goerr.Wrap(err, "failed to move channel")
	}

	u.audit.Log(ctx, &model.Embed{
		Title: logTitle,
		Color: model.EmbedColorNeutral,
		Fields: []model.EmbedField{
			{Name: "channel", Value: ch.Mention(), Inline: true},
			{Name: "by", Value: memberTag(byName, by), Inline: true},
			{Name: "from", Value: fromName},
			{Name: "to", Value: destInfo.Name},
		},
		Timestamp: true,
	})
	return nil
}

// RenameFromText renames a channel after a message's content, normalized to
// a valid channel name. Returns the applied name.
func (u *Admin) RenameFromText(ctx context.Context, ch types.ChannelID, sourceText string, by types.UserID, byName string) (string, error) {
	oldName := ch.String()
	if info, err := u.platform.ChannelInfo(ctx, ch); err == nil {
		oldName = info.Name
	}

	newName := NormalizeChannelName(sourceText, fallbackChannelName(ch))
	if err := u.platform.SetChannelName(ctx, ch, newName); err != nil {
		return "", goerr.Wrap(err, "failed to rename channel")
	}

	source := sourceText
	if source == "" {
		source = "no content"
	}
	u.audit.Log(ctx, &model.Embed{
		Title: "channel renamed",
		Color: model.EmbedColorNeutral,
		Fields: []model.EmbedField{
			{Name: "channel", Value: ch.Mention(), Inline: true},
			{Name: "by", Value: memberTag(byName, by), Inline: true},
			{Name: "old name", Value: oldName},
			{Name: "new name", Value: newName},
			{Name: "from message", Value: truncate(source, 200)},
		},
		Timestamp: true,
	})
	return newName, nil
}

// DeleteChannel is the developer-only hard delete
func (u *Admin) DeleteChannel(ctx context.Context, ch types.ChannelID, by types.UserID, byName string) error {
	if !u.auth.IsDeveloper(by) {
		return goerr.Wrap(model.ErrUnauthorized, "this command is developer-only")
	}

	channelName := "(no name)"
	if info, err := u.platform.ChannelInfo(ctx, ch); err == nil {
		channelName = info.Name
	} else {
		apperr.Handle(ctx, err)
	}

	u.audit.Log(ctx, &model.Embed{
		Title: "channel deleted",
		Color: model.EmbedColorAlert,
		Fields: []model.EmbedField{
			{Name: "channel", Value: ch.Mention(), Inline: true},
			{Name: "by", Value: memberTag(byName, by), Inline: true},
			{Name: "name", Value: channelName},
		},
		Timestamp: true,
	})

	reason := fmt.Sprintf("deleted by %s (%s)", byName, by)
	if err := u.platform.DeleteChannel(ctx, ch, reason); err != nil {
		return goerr.Wrap(err, "failed to delete channel")
	}
	return nil
}

var channelNameJunk = regexp.MustCompile(`[^a-z0-9\s-]`)
var channelNameSpaces = regexp.MustCompile(`\s+`)

// NormalizeChannelName lowercases text, strips diacritics, collapses
// anything that is not a letter, digit or hyphen into hyphens, and caps the
// result at 90 characters. Empty results fall back to the given name.
func NormalizeChannelName(text, fallback string) string {
	name := strings.ToLower(text)
	name = norm.NFD.String(name)
	name = strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Mn, r) {
			return -1
		}
		return r
	}, name)
	name = channelNameJunk.ReplaceAllString(name, " ")
	name = channelNameSpaces.ReplaceAllString(strings.TrimSpace(name), "-")
	if name == "" {
		name = fallback
	}
	if len(name) > 90 {
		name = name[:90]
	}
	return name
}

func fallbackChannelName(ch types.ChannelID) string {
	id := ch.String()
	if len(id) > 4 {
		id = id[len(id)-4:]
	}
	return "chan-" + id
}
