package discord

import (
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/wicket-bot/wicket/pkg/domain/model"
)

func toMessageEmbed(embed *model.Embed) *discordgo.MessageEmbed {
	out := &discordgo.MessageEmbed{
		Title:       embed.Title,
		Description: embed.Description,
		Color:       embed.Color,
	}
	for _, f := range embed.Fields {
		out.Fields = append(out.Fields, &discordgo.MessageEmbedField{
			Name:   f.Name,
			Value:  f.Value,
			Inline: f.Inline,
		})
	}
	if embed.FooterText != "" {
		out.Footer = &discordgo.MessageEmbedFooter{Text: embed.FooterText}
	}
	if embed.Timestamp {
		out.Timestamp = time.Now().Format(time.RFC3339)
	}
	return out
}

func fromMessageEmbed(embed *discordgo.MessageEmbed) model.Embed {
	out := model.Embed{
		Title:       embed.Title,
		Description: embed.Description,
		Color:       embed.Color,
	}
	for _, f := range embed.Fields {
		out.Fields = append(out.Fields, model.EmbedField{
			Name:   f.Name,
			Value:  f.Value,
			Inline: f.Inline,
		})
	}
	if embed.Footer != nil {
		out.FooterText = embed.Footer.Text
	}
	return out
}

var buttonStyles = map[model.ButtonStyle]discordgo.ButtonStyle{
	model.ButtonPrimary:   discordgo.PrimaryButton,
	model.ButtonSecondary: discordgo.SecondaryButton,
	model.ButtonSuccess:   discordgo.SuccessButton,
	model.ButtonDanger:    discordgo.DangerButton,
}

func toButtonRow(buttons []model.Button) discordgo.ActionsRow {
	row := discordgo.ActionsRow{}
	for _, b := range buttons {
		style, ok := buttonStyles[b.Style]
		if !ok {
			style = discordgo.PrimaryButton
		}
		row.Components = append(row.Components, discordgo.Button{
			Label:    b.Label,
			Style:    style,
			CustomID: b.ActionID,
		})
	}
	return row
}

// RenderEmbed converts a neutral embed into the wire format. Exported for
// controllers that edit interaction messages in place.
func RenderEmbed(embed *model.Embed) *discordgo.MessageEmbed {
	return toMessageEmbed(embed)
}

// RenderButtonRow converts neutral buttons into a component row
func RenderButtonRow(buttons []model.Button) discordgo.ActionsRow {
	return toButtonRow(buttons)
}

// actionIDs walks message components and collects button custom IDs
func actionIDs(components []discordgo.MessageComponent) []string {
	var ids []string
	for _, comp := range components {
		row, ok := comp.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, inner := range row.Components {
			if btn, ok := inner.(*discordgo.Button); ok && btn.CustomID != "" {
				ids = append(ids, btn.CustomID)
			}
		}
	}
	return ids
}
