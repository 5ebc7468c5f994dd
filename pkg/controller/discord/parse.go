package discord

import (
	"regexp"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/wicket-bot/wicket/pkg/domain/model"
	"github.com/wicket-bot/wicket/pkg/domain/types"
)

var (
	snowflakePattern      = regexp.MustCompile(`\d{17,20}`)
	channelMentionPattern = regexp.MustCompile(`<#(\d{17,20})>`)
	roleMentionPattern    = regexp.MustCompile(`<@&(\d{17,20})>`)
)

// extractSnowflake pulls the first Discord ID out of an argument, whether it
// is a bare ID or part of a mention
func extractSnowflake(s string) string {
	return snowflakePattern.FindString(s)
}

// channelArg resolves a channel reference from a mention or a raw ID
func channelArg(arg string) types.ChannelID {
	if m := channelMentionPattern.FindStringSubmatch(arg); m != nil {
		return types.ChannelID(m[1])
	}
	return types.ChannelID(extractSnowflake(arg))
}

// categoryArg resolves a category reference from a mention or a raw ID
func categoryArg(arg string) types.CategoryID {
	return types.CategoryID(channelArg(arg).String())
}

// roleArg resolves a role reference from a mention or a raw ID
func roleArg(arg string) types.RoleID {
	if m := roleMentionPattern.FindStringSubmatch(arg); m != nil {
		return types.RoleID(m[1])
	}
	return types.RoleID(extractSnowflake(arg))
}

// userArg resolves a user from the message mentions or a raw ID argument
func userArg(m *discordgo.MessageCreate, arg string) types.UserID {
	if len(m.Mentions) > 0 {
		return types.UserID(m.Mentions[0].ID)
	}
	return types.UserID(extractSnowflake(arg))
}

// splitCommand separates the command word from its arguments and keeps the
// raw remainder for commands that take free text
func splitCommand(content, prefix string) (cmd string, args []string, rest string) {
	trimmed := strings.TrimSpace(strings.TrimPrefix(content, prefix))
	fields := strings.Fields(trimmed)
	if len(fields) == 0 {
		return "", nil, ""
	}
	cmd = strings.ToLower(fields[0])
	args = fields[1:]
	rest = strings.TrimSpace(strings.TrimPrefix(trimmed, fields[0]))
	return cmd, args, rest
}

func inboundOf(m *discordgo.MessageCreate) *model.InboundMessage {
	msg := &model.InboundMessage{
		ID:        types.MessageID(m.ID),
		ChannelID: types.ChannelID(m.ChannelID),
		Content:   m.Content,
	}
	if m.Author != nil {
		msg.AuthorID = types.UserID(m.Author.ID)
		msg.AuthorName = authorName(m.Author)
		msg.Bot = m.Author.Bot
	}
	return msg
}

func authorName(u *discordgo.User) string {
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}

func channelInfoOf(ch *discordgo.Channel) *model.ChannelInfo {
	return &model.ChannelInfo{
		ID:       types.ChannelID(ch.ID),
		GuildID:  types.GuildID(ch.GuildID),
		Name:     ch.Name,
		ParentID: types.CategoryID(ch.ParentID),
		Position: ch.Position,
	}
}
