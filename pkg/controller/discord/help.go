package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/wicket-bot/wicket/pkg/domain/model"
	"github.com/wicket-bot/wicket/pkg/domain/types"
	discordsvc "github.com/wicket-bot/wicket/pkg/service/discord"
)

// sendHelp posts the paged help panel into a channel
func (h *Handler) sendHelp(ctx context.Context, ch types.ChannelID, page int) error {
	_, err := h.platform.SendPanel(ctx, ch, helpEmbed(page, h.prefix), helpButtons())
	return err
}

func helpEmbed(page int, prefix string) *model.Embed {
	embed := &model.Embed{
		Color:     model.EmbedColorNeutral,
		Timestamp: true,
	}

	switch page {
	case 2:
		embed.Title = "help – autoresponders (page 2/3)"
		embed.Fields = []model.EmbedField{
			{Name: prefix + "ar set word, response", Value: "reply with the response whenever a message matches the word. {user} in the response mentions the author."},
			{Name: prefix + "ar delete word", Value: "remove an autoresponder."},
			{Name: prefix + "ar list", Value: "list all configured trigger words."},
			{Name: prefix + "send word", Value: "pick the autoresponder that new channels post automatically."},
			{Name: prefix + "sendcategory <category>", Value: "category whose new channels post the auto-send message."},
			{Name: prefix + "delayset <seconds>", Value: "delay before autoresponder and auto-send messages. 0 disables the delay."},
		}
	case 3:
		embed.Title = "help – admin & setup (page 3/3)"
		embed.Fields = []model.EmbedField{
			{Name: prefix + "admin set <user>", Value: "grant a user admin access to the bot."},
			{Name: prefix + "admin category <category>", Value: "set the main ticket category."},
			{Name: prefix + "admin importantcategory <category>", Value: "set the important category."},
			{Name: prefix + "setlogs <channel>", Value: "channel where staff action logs are posted."},
			{Name: prefix + "pingrole <role>", Value: "role pinged when a ticket opens. use clear to disable."},
			{Name: prefix + "setcmd base alias", Value: "rename a command trigger, e.g. setcmd panel ticketpanel."},
			{Name: prefix + "hi (as a reply)", Value: "rename the channel from the replied message's text."},
		}
	default:
		embed.Title = "help – tickets & panels (page 1/3)"
		embed.Fields = []model.EmbedField{
			{Name: prefix + "panel [category]", Value: "post the open-ticket panel. the optional category also becomes the ticket category."},
			{Name: prefix + "setticketcategory <category>", Value: "set where new ticket channels are created."},
			{Name: prefix + "done", Value: "close the current ticket channel."},
			{Name: prefix + "nuke", Value: "recreate the current channel and restart its ticket flow."},
			{Name: prefix + "pingtickets", Value: "ping every open ticket's owner in their ticket."},
			{Name: prefix + "blacklist <user>", Value: "block a user from opening tickets. remove/list are supported."},
			{Name: prefix + "useless / " + prefix + "important [channel]", Value: "move a channel to the ticket or important category."},
		}
	}
	embed.FooterText = fmt.Sprintf("prefix: %s", prefix)
	return embed
}

func helpButtons() []model.Button {
	return []model.Button{
		{ActionID: model.ActionHelpPage1, Label: "1", Style: model.ButtonSecondary},
		{ActionID: model.ActionHelpPage2, Label: "2", Style: model.ButtonSecondary},
		{ActionID: model.ActionHelpPage3, Label: "3", Style: model.ButtonSecondary},
		{ActionID: model.ActionHelpClose, Label: "close", Style: model.ButtonDanger},
	}
}

func helpPageEmbed(page int, prefix string) *discordgo.MessageEmbed {
	return discordsvc.RenderEmbed(helpEmbed(page, prefix))
}

func helpComponents() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{discordsvc.RenderButtonRow(helpButtons())}
}
