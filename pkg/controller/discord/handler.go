// Package discord wires gateway events into the use cases: message routing,
// button interactions and channel-creation hooks.
package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/m-mizutani/ctxlog"
	"github.com/wicket-bot/wicket/pkg/domain/interfaces"
	"github.com/wicket-bot/wicket/pkg/domain/types"
	"github.com/wicket-bot/wicket/pkg/usecase"
)

// Handler receives gateway events for one guild and dispatches them
type Handler struct {
	ctx      context.Context
	store    interfaces.SettingsStore
	platform interfaces.Platform
	ticket   *usecase.Ticket
	admin    *usecase.Admin
	resp     *usecase.Autoresponder
	mod      *usecase.Moderation
	auth     *usecase.Auth

	guildID types.GuildID
	prefix  string
}

// New creates a gateway event handler. ctx is the base context every event
// handler derives from; canceling it stops in-flight background work.
func New(ctx context.Context, store interfaces.SettingsStore, platform interfaces.Platform, ticket *usecase.Ticket, admin *usecase.Admin, resp *usecase.Autoresponder, mod *usecase.Moderation, auth *usecase.Auth, guildID types.GuildID, prefix string) *Handler {
	return &Handler{
		ctx:      ctx,
		store:    store,
		platform: platform,
		ticket:   ticket,
		admin:    admin,
		resp:     resp,
		mod:      mod,
		auth:     auth,
		guildID:  guildID,
		prefix:   prefix,
	}
}

// Register attaches the gateway handlers to a session
func (h *Handler) Register(session *discordgo.Session) {
	session.AddHandler(h.onMessageCreate)
	session.AddHandler(h.onInteractionCreate)
	session.AddHandler(h.onChannelCreate)
}

// eventCtx tags a fresh context with a correlation ID for one gateway event
func (h *Handler) eventCtx(eventType string) context.Context {
	logger := ctxlog.From(h.ctx).With(
		"eventID", types.NewEventID().String(),
		"eventType", eventType,
	)
	return ctxlog.With(h.ctx, logger)
}

func (h *Handler) onChannelCreate(_ *discordgo.Session, ev *discordgo.ChannelCreate) {
	if ev.GuildID != h.guildID.String() || ev.Type != discordgo.ChannelTypeGuildText {
		return
	}
	ctx := h.eventCtx("channelCreate")
	info := channelInfoOf(ev.Channel)

	h.dispatch(ctx, func(ctx context.Context) error {
		h.resp.HandleChannelCreated(ctx, info)
		return nil
	})
}
