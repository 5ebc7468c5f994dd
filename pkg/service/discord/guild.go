package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/jellydator/ttlcache/v3"
	"github.com/m-mizutani/goerr/v2"
	"github.com/wicket-bot/wicket/pkg/domain/model"
	"github.com/wicket-bot/wicket/pkg/domain/types"
)

const memberPageSize = 1000

// ChannelViewers lists the guild members who can see a channel
func (c *Client) ChannelViewers(ctx context.Context, ch types.ChannelID) ([]*model.Member, error) {
	members, err := c.guildMembers(ctx)
	if err != nil {
		return nil, err
	}

	viewers := make([]*model.Member, 0, len(members))
	for _, m := range members {
		if m.User == nil {
			continue
		}
		perms, err := c.session.UserChannelPermissions(m.User.ID, ch.String())
		if err != nil {
			continue
		}
		if perms&discordgo.PermissionViewChannel == 0 {
			continue
		}
		viewers = append(viewers, &model.Member{
			ID:          types.UserID(m.User.ID),
			DisplayName: displayName(m),
			IsBot:       m.User.Bot,
			IsAdmin:     perms&discordgo.PermissionAdministrator != 0,
		})
	}
	return viewers, nil
}

// RoleExists reports whether the guild has a role with the given ID
func (c *Client) RoleExists(ctx context.Context, role types.RoleID) bool {
	roles, err := c.guildRoles(ctx)
	if err != nil {
		return false
	}
	for _, r := range roles {
		if r.ID == role.String() {
			return true
		}
	}
	return false
}

func (c *Client) guildRoles(ctx context.Context) ([]*discordgo.Role, error) {
	key := c.guildID.String()
	if item := c.roleCache.Get(key); item != nil {
		return item.Value(), nil
	}

	roles, err := c.session.GuildRoles(key, discordgo.WithContext(ctx))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list guild roles")
	}
	c.roleCache.Set(key, roles, ttlcache.DefaultTTL)
	return roles, nil
}

func (c *Client) guildMembers(ctx context.Context) ([]*discordgo.Member, error) {
	key := c.guildID.String()
	if item := c.memberCache.Get(key); item != nil {
		return item.Value(), nil
	}

	var members []*discordgo.Member
	after := ""
	for {
		page, err := c.session.GuildMembers(key, after, memberPageSize, discordgo.WithContext(ctx))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list guild members")
		}
		members = append(members, page...)
		if len(page) < memberPageSize {
			break
		}
		after = page[len(page)-1].User.ID
	}
	c.memberCache.Set(key, members, ttlcache.DefaultTTL)
	return members, nil
}

func displayName(m *discordgo.Member) string {
	if m.Nick != "" {
		return m.Nick
	}
	if m.User.GlobalName != "" {
		return m.User.GlobalName
	}
	return m.User.Username
}
