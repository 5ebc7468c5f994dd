// Package discord implements the platform interface on top of a discordgo
// session. All calls are scoped to a single guild.
package discord

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/jellydator/ttlcache/v3"
	"github.com/m-mizutani/goerr/v2"
	"github.com/wicket-bot/wicket/pkg/domain/interfaces"
	"github.com/wicket-bot/wicket/pkg/domain/model"
	"github.com/wicket-bot/wicket/pkg/domain/types"
)

// Client adapts a discordgo session to interfaces.Platform. Role and member
// listings are cached briefly to keep command handling off the REST API hot
// path.
type Client struct {
	session *discordgo.Session
	guildID types.GuildID

	roleCache   *ttlcache.Cache[string, []*discordgo.Role]
	memberCache *ttlcache.Cache[string, []*discordgo.Member]
}

// New creates a Client bound to one guild. The session must be connected
// before platform calls are made.
func New(session *discordgo.Session, guildID types.GuildID) interfaces.Platform {
	c := &Client{
		session:     session,
		guildID:     guildID,
		roleCache:   ttlcache.New(ttlcache.WithTTL[string, []*discordgo.Role](10 * time.Minute)),
		memberCache: ttlcache.New(ttlcache.WithTTL[string, []*discordgo.Member](time.Hour)),
	}
	go c.roleCache.Start()
	go c.memberCache.Start()
	return c
}

// BotUserID returns the connected bot account
func (c *Client) BotUserID() types.UserID {
	if c.session.State != nil && c.session.State.User != nil {
		return types.UserID(c.session.State.User.ID)
	}
	return ""
}

// SendText posts a plain text message
func (c *Client) SendText(ctx context.Context, ch types.ChannelID, text string) (types.MessageID, error) {
	msg, err := c.session.ChannelMessageSend(ch.String(), text, discordgo.WithContext(ctx))
	if err != nil {
		return "", goerr.Wrap(err, "failed to send message", goerr.V("channelID", ch.String()))
	}
	return types.MessageID(msg.ID), nil
}

// SendEmbed posts an embed message
func (c *Client) SendEmbed(ctx context.Context, ch types.ChannelID, embed *model.Embed) (types.MessageID, error) {
	msg, err := c.session.ChannelMessageSendEmbed(ch.String(), toMessageEmbed(embed), discordgo.WithContext(ctx))
	if err != nil {
		return "", goerr.Wrap(err, "failed to send embed", goerr.V("channelID", ch.String()))
	}
	return types.MessageID(msg.ID), nil
}

// SendPanel posts an embed with an attached button row
func (c *Client) SendPanel(ctx context.Context, ch types.ChannelID, embed *model.Embed, buttons []model.Button) (types.MessageID, error) {
	msg, err := c.session.ChannelMessageSendComplex(ch.String(), &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{toMessageEmbed(embed)},
		Components: []discordgo.MessageComponent{toButtonRow(buttons)},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", goerr.Wrap(err, "failed to send panel", goerr.V("channelID", ch.String()))
	}
	return types.MessageID(msg.ID), nil
}

// EditEmbed replaces the embed of an existing message
func (c *Client) EditEmbed(ctx context.Context, ch types.ChannelID, msg types.MessageID, embed *model.Embed) error {
	_, err := c.session.ChannelMessageEditEmbed(ch.String(), msg.String(), toMessageEmbed(embed), discordgo.WithContext(ctx))
	if err != nil {
		return goerr.Wrap(err, "failed to edit embed",
			goerr.V("channelID", ch.String()), goerr.V("messageID", msg.String()))
	}
	return nil
}

// DeleteMessage removes a message
func (c *Client) DeleteMessage(ctx context.Context, ch types.ChannelID, msg types.MessageID) error {
	if err := c.session.ChannelMessageDelete(ch.String(), msg.String(), discordgo.WithContext(ctx)); err != nil {
		return goerr.Wrap(err, "failed to delete message",
			goerr.V("channelID", ch.String()), goerr.V("messageID", msg.String()))
	}
	return nil
}

// PinMessage pins a message in its channel
func (c *Client) PinMessage(ctx context.Context, ch types.ChannelID, msg types.MessageID) error {
	if err := c.session.ChannelMessagePin(ch.String(), msg.String(), discordgo.WithContext(ctx)); err != nil {
		return goerr.Wrap(err, "failed to pin message",
			goerr.V("channelID", ch.String()), goerr.V("messageID", msg.String()))
	}
	return nil
}

// Message fetches a single message
func (c *Client) Message(ctx context.Context, ch types.ChannelID, msg types.MessageID) (*model.InboundMessage, error) {
	m, err := c.session.ChannelMessage(ch.String(), msg.String(), discordgo.WithContext(ctx))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch message",
			goerr.V("channelID", ch.String()), goerr.V("messageID", msg.String()))
	}
	out := &model.InboundMessage{
		ID:        types.MessageID(m.ID),
		ChannelID: types.ChannelID(m.ChannelID),
		Content:   m.Content,
	}
	if m.Author != nil {
		out.AuthorID = types.UserID(m.Author.ID)
		out.AuthorName = m.Author.Username
		out.Bot = m.Author.Bot
	}
	return out, nil
}

// PinnedMessages lists the pinned messages of a channel with their button
// action IDs extracted
func (c *Client) PinnedMessages(ctx context.Context, ch types.ChannelID) ([]*model.PinnedMessage, error) {
	msgs, err := c.session.ChannelMessagesPinned(ch.String(), discordgo.WithContext(ctx))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list pinned messages", goerr.V("channelID", ch.String()))
	}

	pins := make([]*model.PinnedMessage, 0, len(msgs))
	for _, m := range msgs {
		pin := &model.PinnedMessage{
			ID:        types.MessageID(m.ID),
			ActionIDs: actionIDs(m.Components),
		}
		if m.Author != nil {
			pin.AuthorID = types.UserID(m.Author.ID)
		}
		if len(m.Embeds) > 0 {
			pin.Embed = fromMessageEmbed(m.Embeds[0])
		}
		pins = append(pins, pin)
	}
	return pins, nil
}
