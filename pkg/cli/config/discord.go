package config

import (
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"github.com/wicket-bot/wicket/pkg/domain/types"
)

// Discord holds gateway connection configuration
type Discord struct {
	Token        string
	GuildID      string
	Prefix       string
	DeveloperIDs string
}

// Flags returns CLI flags for Discord configuration
func (d *Discord) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "discord-token",
			Usage:       "Discord bot token",
			Category:    "Discord",
			Sources:     cli.EnvVars("WICKET_DISCORD_TOKEN"),
			Destination: &d.Token,
		},
		&cli.StringFlag{
			Name:        "discord-guild-id",
			Usage:       "Guild (server) the bot operates in",
			Category:    "Discord",
			Sources:     cli.EnvVars("WICKET_DISCORD_GUILD_ID"),
			Destination: &d.GuildID,
		},
		&cli.StringFlag{
			Name:        "command-prefix",
			Usage:       "Prefix for staff commands",
			Category:    "Discord",
			Value:       ".",
			Sources:     cli.EnvVars("WICKET_COMMAND_PREFIX"),
			Destination: &d.Prefix,
		},
		&cli.StringFlag{
			Name:        "developer-ids",
			Usage:       "Comma-separated user IDs with developer access",
			Category:    "Discord",
			Sources:     cli.EnvVars("WICKET_DEVELOPER_IDS"),
			Destination: &d.DeveloperIDs,
		},
	}
}

// Validate checks the required connection settings
func (d *Discord) Validate() error {
	if d.Token == "" {
		return goerr.New("Discord token is required (WICKET_DISCORD_TOKEN)")
	}
	if d.GuildID == "" {
		return goerr.New("Discord guild ID is required (WICKET_DISCORD_GUILD_ID)")
	}
	return nil
}

// Configure opens a gateway session with the intents the bot needs
func (d *Discord) Configure() (*discordgo.Session, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	session, err := discordgo.New("Bot " + d.Token)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Discord session")
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentMessageContent
	return session, nil
}

// Developers parses the comma-separated developer ID list
func (d *Discord) Developers() []types.UserID {
	var ids []types.UserID
	for _, raw := range strings.Split(d.DeveloperIDs, ",") {
		if id := strings.TrimSpace(raw); id != "" {
			ids = append(ids, types.UserID(id))
		}
	}
	return ids
}

// LogValue returns structured log value without the token
func (d Discord) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("hasToken", d.Token != ""),
		slog.String("guildID", d.GuildID),
		slog.String("prefix", d.Prefix),
		slog.String("developerIDs", d.DeveloperIDs),
	)
}
