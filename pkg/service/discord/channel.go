package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/m-mizutani/goerr/v2"
	"github.com/wicket-bot/wicket/pkg/domain/model"
	"github.com/wicket-bot/wicket/pkg/domain/types"
)

const memberAccess = discordgo.PermissionViewChannel |
	discordgo.PermissionSendMessages |
	discordgo.PermissionReadMessageHistory

// CreateTicketChannel creates a private text channel under a category. The
// @everyone role is denied, the owner and staff get member access, and the
// bot keeps channel management for the close path.
func (c *Client) CreateTicketChannel(ctx context.Context, name string, parent types.CategoryID, access model.ChannelAccess) (types.ChannelID, error) {
	// the @everyone role shares its ID with the guild
	overwrites := []*discordgo.PermissionOverwrite{
		{
			ID:   c.guildID.String(),
			Type: discordgo.PermissionOverwriteTypeRole,
			Deny: discordgo.PermissionViewChannel,
		},
		{
			ID:    access.OwnerID.String(),
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: memberAccess,
		},
		{
			ID:    c.BotUserID().String(),
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: memberAccess | discordgo.PermissionManageChannels,
		},
	}
	for _, staffID := range access.StaffIDs {
		if staffID == access.OwnerID {
			continue
		}
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:    staffID.String(),
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: memberAccess,
		})
	}

	ch, err := c.session.GuildChannelCreateComplex(c.guildID.String(), discordgo.GuildChannelCreateData{
		Name:                 name,
		Type:                 discordgo.ChannelTypeGuildText,
		ParentID:             parent.String(),
		PermissionOverwrites: overwrites,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", goerr.Wrap(err, "failed to create ticket channel",
			goerr.V("name", name), goerr.V("parent", parent.String()))
	}
	return types.ChannelID(ch.ID), nil
}

// ChannelInfo fetches a text channel
func (c *Client) ChannelInfo(ctx context.Context, ch types.ChannelID) (*model.ChannelInfo, error) {
	channel, err := c.session.Channel(ch.String(), discordgo.WithContext(ctx))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch channel", goerr.V("channelID", ch.String()))
	}
	return &model.ChannelInfo{
		ID:       types.ChannelID(channel.ID),
		GuildID:  types.GuildID(channel.GuildID),
		Name:     channel.Name,
		ParentID: types.CategoryID(channel.ParentID),
		Position: channel.Position,
	}, nil
}

// CloneChannel creates a copy of a channel with the same name, parent,
// position and permission overwrites
func (c *Client) CloneChannel(ctx context.Context, ch types.ChannelID) (types.ChannelID, error) {
	src, err := c.session.Channel(ch.String(), discordgo.WithContext(ctx))
	if err != nil {
		return "", goerr.Wrap(err, "failed to fetch channel for clone", goerr.V("channelID", ch.String()))
	}

	clone, err := c.session.GuildChannelCreateComplex(c.guildID.String(), discordgo.GuildChannelCreateData{
		Name:                 src.Name,
		Type:                 src.Type,
		Topic:                src.Topic,
		NSFW:                 src.NSFW,
		RateLimitPerUser:     src.RateLimitPerUser,
		ParentID:             src.ParentID,
		PermissionOverwrites: src.PermissionOverwrites,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", goerr.Wrap(err, "failed to clone channel", goerr.V("channelID", ch.String()))
	}

	position := src.Position
	if _, err := c.session.ChannelEditComplex(clone.ID, &discordgo.ChannelEdit{
		Position: &position,
	}, discordgo.WithContext(ctx)); err != nil {
		return "", goerr.Wrap(err, "failed to position cloned channel", goerr.V("channelID", clone.ID))
	}
	return types.ChannelID(clone.ID), nil
}

// DeleteChannel removes a channel, recording the reason in the audit log
func (c *Client) DeleteChannel(ctx context.Context, ch types.ChannelID, reason string) error {
	opts := []discordgo.RequestOption{discordgo.WithContext(ctx)}
	if reason != "" {
		opts = append(opts, discordgo.WithAuditLogReason(reason))
	}
	if _, err := c.session.ChannelDelete(ch.String(), opts...); err != nil {
		return goerr.Wrap(err, "failed to delete channel", goerr.V("channelID", ch.String()))
	}
	return nil
}

// SetChannelParent reparents a channel without syncing permissions
func (c *Client) SetChannelParent(ctx context.Context, ch types.ChannelID, parent types.CategoryID) error {
	if _, err := c.session.ChannelEditComplex(ch.String(), &discordgo.ChannelEdit{
		ParentID: parent.String(),
	}, discordgo.WithContext(ctx)); err != nil {
		return goerr.Wrap(err, "failed to move channel",
			goerr.V("channelID", ch.String()), goerr.V("parent", parent.String()))
	}
	return nil
}

// SetChannelName renames a channel
func (c *Client) SetChannelName(ctx context.Context, ch types.ChannelID, name string) error {
	if _, err := c.session.ChannelEditComplex(ch.String(), &discordgo.ChannelEdit{
		Name: name,
	}, discordgo.WithContext(ctx)); err != nil {
		return goerr.Wrap(err, "failed to rename channel",
			goerr.V("channelID", ch.String()), goerr.V("name", name))
	}
	return nil
}

// CategoryInfo fetches a category channel. Non-category channels fail.
func (c *Client) CategoryInfo(ctx context.Context, cat types.CategoryID) (*model.CategoryInfo, error) {
	channel, err := c.session.Channel(cat.String(), discordgo.WithContext(ctx))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch category", goerr.V("categoryID", cat.String()))
	}
	if channel.Type != discordgo.ChannelTypeGuildCategory {
		return nil, goerr.New("channel is not a category", goerr.V("categoryID", cat.String()))
	}
	return &model.CategoryInfo{
		ID:   types.CategoryID(channel.ID),
		Name: channel.Name,
	}, nil
}

// CountCategoryChannels counts the direct children of a category
func (c *Client) CountCategoryChannels(ctx context.Context, cat types.CategoryID) (int, error) {
	channels, err := c.session.GuildChannels(c.guildID.String(), discordgo.WithContext(ctx))
	if err != nil {
		return 0, goerr.Wrap(err, "failed to list guild channels")
	}
	count := 0
	for _, ch := range channels {
		if ch.ParentID == cat.String() {
			count++
		}
	}
	return count, nil
}

// CreateCategory creates a new category channel
func (c *Client) CreateCategory(ctx context.Context, name string) (types.CategoryID, error) {
	ch, err := c.session.GuildChannelCreateComplex(c.guildID.String(), discordgo.GuildChannelCreateData{
		Name: name,
		Type: discordgo.ChannelTypeGuildCategory,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", goerr.Wrap(err, "failed to create category", goerr.V("name", name))
	}
	return types.CategoryID(ch.ID), nil
}
