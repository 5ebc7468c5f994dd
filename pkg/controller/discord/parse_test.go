package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/m-mizutani/gt"
	"github.com/wicket-bot/wicket/pkg/domain/types"
)

func TestSplitCommand(t *testing.T) {
	cmd, args, rest := splitCommand(".ar set index, send your index", ".")
	gt.Equal(t, cmd, "ar")
	gt.Equal(t, args, []string{"set", "index,", "send", "your", "index"})
	gt.Equal(t, rest, "set index, send your index")

	cmd, args, rest = splitCommand(".PANEL", ".")
	gt.Equal(t, cmd, "panel")
	gt.Equal(t, len(args), 0)
	gt.Equal(t, rest, "")

	cmd, _, _ = splitCommand(".   ", ".")
	gt.Equal(t, cmd, "")
}

func TestChannelArg(t *testing.T) {
	gt.Equal(t, channelArg("<#123456789012345678>"), types.ChannelID("123456789012345678"))
	gt.Equal(t, channelArg("123456789012345678"), types.ChannelID("123456789012345678"))
	gt.Equal(t, channelArg("nonsense"), types.ChannelID(""))
}

func TestRoleArg(t *testing.T) {
	gt.Equal(t, roleArg("<@&987654321098765432>"), types.RoleID("987654321098765432"))
	gt.Equal(t, roleArg("987654321098765432"), types.RoleID("987654321098765432"))
	gt.Equal(t, roleArg("-"), types.RoleID(""))
}

func TestUserArgPrefersMention(t *testing.T) {
	ev := &discordgo.MessageCreate{Message: &discordgo.Message{
		Mentions: []*discordgo.User{{ID: "111111111111111111"}},
	}}
	gt.Equal(t, userArg(ev, "222222222222222222"), types.UserID("111111111111111111"))

	ev.Mentions = nil
	gt.Equal(t, userArg(ev, "222222222222222222"), types.UserID("222222222222222222"))
}

func TestInboundOf(t *testing.T) {
	ev := &discordgo.MessageCreate{Message: &discordgo.Message{
		ID:        "M1",
		ChannelID: "C1",
		Content:   "hello",
		Author:    &discordgo.User{ID: "U1", Username: "alice", GlobalName: "Alice"},
	}}
	msg := inboundOf(ev)
	gt.Equal(t, msg.ID, types.MessageID("M1"))
	gt.Equal(t, msg.ChannelID, types.ChannelID("C1"))
	gt.Equal(t, msg.AuthorID, types.UserID("U1"))
	gt.Equal(t, msg.AuthorName, "Alice")
	gt.False(t, msg.Bot)
}
