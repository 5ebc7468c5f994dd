package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/m-mizutani/goerr/v2"
	"github.com/wicket-bot/wicket/pkg/domain/model"
	"github.com/wicket-bot/wicket/pkg/domain/types"
	"github.com/wicket-bot/wicket/pkg/utils/apperr"
)

func (h *Handler) onInteractionCreate(s *discordgo.Session, ev *discordgo.InteractionCreate) {
	if ev.GuildID != h.guildID.String() || ev.Type != discordgo.InteractionMessageComponent {
		return
	}
	if ev.Member == nil || ev.Member.User == nil {
		return
	}
	ctx := h.eventCtx("interactionCreate")

	action := ev.MessageComponentData().CustomID
	userID := types.UserID(ev.Member.User.ID)
	userName := authorName(ev.Member.User)
	channelID := types.ChannelID(ev.ChannelID)

	switch action {
	case model.ActionOpenTicket:
		h.dispatch(ctx, func(ctx context.Context) error {
			h.onOpenTicket(ctx, s, ev, userID)
			return nil
		})

	case model.ActionTicketClose:
		h.respond(ctx, s, ev, "closing ticket...")
		h.dispatch(ctx, func(ctx context.Context) error {
			return h.ticket.Close(ctx, channelID, userID, userName, "")
		})

	case model.ActionTicketCloseReason:
		h.respond(ctx, s, ev, "send the close reason in this channel (you have 2 minutes).")
		h.dispatch(ctx, func(ctx context.Context) error {
			h.onCloseWithReason(ctx, channelID, userID, userName)
			return nil
		})

	case model.ActionTicketClaim:
		h.onClaim(ctx, s, ev, channelID, userID, userName)

	case model.ActionHelpPage1, model.ActionHelpPage2, model.ActionHelpPage3:
		h.onHelpPage(ctx, s, ev, action)

	case model.ActionHelpClose:
		h.onHelpClose(ctx, s, ev)
	}
}

// respond sends an ephemeral acknowledgement only the clicking user can see
func (h *Handler) respond(ctx context.Context, s *discordgo.Session, ev *discordgo.InteractionCreate, text string) {
	err := s.InteractionRespond(ev.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: text,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	}, discordgo.WithContext(ctx))
	if err != nil {
		apperr.Handle(ctx, goerr.Wrap(err, "failed to respond to interaction"))
	}
}

func (h *Handler) onOpenTicket(ctx context.Context, s *discordgo.Session, ev *discordgo.InteractionCreate, userID types.UserID) {
	channelID, err := h.ticket.Open(ctx, userID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrBlacklisted):
			h.respond(ctx, s, ev, "you are blacklisted from creating tickets.")
		case errors.Is(err, model.ErrDuplicateTicket):
			text := "you already have an open ticket."
			if ch, ok := goerr.Values(err)["channelID"].(string); ok {
				text = fmt.Sprintf("you already have an open ticket: %s", types.ChannelID(ch).Mention())
			}
			h.respond(ctx, s, ev, text)
		case errors.Is(err, model.ErrCategoryNotConfigured):
			h.respond(ctx, s, ev, "ticket category is not configured.")
		default:
			apperr.Handle(ctx, err)
			h.respond(ctx, s, ev, "could not create a ticket channel.")
		}
		return
	}
	h.respond(ctx, s, ev, fmt.Sprintf("ticket created: %s", channelID.Mention()))
}

func (h *Handler) onCloseWithReason(ctx context.Context, channelID types.ChannelID, userID types.UserID, userName string) {
	reason, ok := h.ticket.AwaitReason(ctx, channelID, userID)
	if !ok {
		h.reply(ctx, channelID, "no reason provided in time. closing without a reason.")
	}
	if err := h.ticket.Close(ctx, channelID, userID, userName, reason); err != nil {
		apperr.Handle(ctx, err)
	}
}

func (h *Handler) onClaim(ctx context.Context, s *discordgo.Session, ev *discordgo.InteractionCreate, channelID types.ChannelID, userID types.UserID, userName string) {
	if err := h.ticket.Claim(ctx, channelID, userID, userName); err != nil {
		switch {
		case errors.Is(err, model.ErrUnauthorized):
			h.respond(ctx, s, ev, "only staff can claim tickets.")
		case errors.Is(err, model.ErrAlreadyClaimed):
			text := "this ticket is already claimed."
			if by, ok := goerr.Values(err)["claimedBy"].(string); ok {
				text = fmt.Sprintf("this ticket is already claimed by %s.", types.UserID(by).Mention())
			}
			h.respond(ctx, s, ev, text)
		default:
			apperr.Handle(ctx, err)
			h.respond(ctx, s, ev, "could not claim this ticket.")
		}
		return
	}
	h.respond(ctx, s, ev, "you have claimed this ticket.")
}

func (h *Handler) onHelpPage(ctx context.Context, s *discordgo.Session, ev *discordgo.InteractionCreate, action string) {
	userID := types.UserID(ev.Member.User.ID)
	if !h.auth.IsStaff(userID) {
		h.respond(ctx, s, ev, "you are not allowed to use this.")
		return
	}

	page := 1
	switch action {
	case model.ActionHelpPage2:
		page = 2
	case model.ActionHelpPage3:
		page = 3
	}

	err := s.InteractionRespond(ev.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{helpPageEmbed(page, h.prefix)},
			Components: helpComponents(),
		},
	}, discordgo.WithContext(ctx))
	if err != nil {
		apperr.Handle(ctx, goerr.Wrap(err, "failed to update help page"))
	}
}

func (h *Handler) onHelpClose(ctx context.Context, s *discordgo.Session, ev *discordgo.InteractionCreate) {
	userID := types.UserID(ev.Member.User.ID)
	if !h.auth.IsStaff(userID) {
		h.respond(ctx, s, ev, "you are not allowed to use this.")
		return
	}

	err := s.InteractionRespond(ev.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	}, discordgo.WithContext(ctx))
	if err != nil {
		apperr.Handle(ctx, goerr.Wrap(err, "failed to acknowledge help close"))
	}
	if ev.Message != nil {
		if err := h.platform.DeleteMessage(ctx, types.ChannelID(ev.ChannelID), types.MessageID(ev.Message.ID)); err != nil {
			apperr.Handle(ctx, err)
		}
	}
}
