package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/m-mizutani/gt"
	"github.com/wicket-bot/wicket/pkg/domain/model"
)

func TestToMessageEmbed(t *testing.T) {
	embed := &model.Embed{
		Title:       "ticket reminder",
		Description: "desc",
		Color:       model.EmbedColorNeutral,
		Fields: []model.EmbedField{
			{Name: "channel", Value: "<#C1>", Inline: true},
		},
		FooterText: "claimed by alice",
		Timestamp:  true,
	}

	got := toMessageEmbed(embed)
	gt.Equal(t, got.Title, "ticket reminder")
	gt.Equal(t, got.Color, model.EmbedColorNeutral)
	gt.Equal(t, len(got.Fields), 1)
	gt.Equal(t, got.Fields[0].Name, "channel")
	gt.True(t, got.Fields[0].Inline)
	gt.NotNil(t, got.Footer)
	gt.Equal(t, got.Footer.Text, "claimed by alice")
	gt.True(t, got.Timestamp != "")
}

func TestEmbedRoundTrip(t *testing.T) {
	in := &model.Embed{
		Title:      "thank you for opening a ticket.",
		FooterText: "claimed by bob",
		Fields:     []model.EmbedField{{Name: "by", Value: "x"}},
	}
	out := fromMessageEmbed(toMessageEmbed(in))
	gt.Equal(t, out.Title, in.Title)
	gt.Equal(t, out.FooterText, in.FooterText)
	gt.Equal(t, out.Fields, in.Fields)
}

func TestToButtonRow(t *testing.T) {
	row := toButtonRow([]model.Button{
		{ActionID: model.ActionTicketClose, Label: "Close", Style: model.ButtonDanger},
		{ActionID: model.ActionTicketClaim, Label: "Claim", Style: model.ButtonSuccess},
	})
	gt.Equal(t, len(row.Components), 2)

	btn, ok := row.Components[0].(discordgo.Button)
	gt.True(t, ok)
	gt.Equal(t, btn.CustomID, model.ActionTicketClose)
	gt.Equal(t, btn.Style, discordgo.DangerButton)
}

func TestActionIDs(t *testing.T) {
	components := []discordgo.MessageComponent{
		&discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				&discordgo.Button{CustomID: model.ActionTicketClose},
				&discordgo.Button{CustomID: model.ActionTicketClaim},
				&discordgo.Button{URL: "https://example.com"},
			},
		},
	}
	gt.Equal(t, actionIDs(components), []string{model.ActionTicketClose, model.ActionTicketClaim})
}
