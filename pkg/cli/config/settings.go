package config

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"
	"github.com/wicket-bot/wicket/pkg/domain/interfaces"
	"github.com/wicket-bot/wicket/pkg/repository"
)

// Settings holds the configuration store location
type Settings struct {
	Path string
}

// Flags returns CLI flags for the settings store
func (s *Settings) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "settings-path",
			Usage:       "Path of the YAML settings snapshot",
			Category:    "Storage",
			Value:       "wicket.yml",
			Sources:     cli.EnvVars("WICKET_SETTINGS_PATH"),
			Destination: &s.Path,
		},
	}
}

// Configure opens the file-backed settings store
func (s *Settings) Configure(ctx context.Context) (interfaces.SettingsStore, error) {
	return repository.NewFile(ctx, s.Path)
}

// LogValue returns structured log value
func (s Settings) LogValue() slog.Value {
	return slog.GroupValue(slog.String("path", s.Path))
}
