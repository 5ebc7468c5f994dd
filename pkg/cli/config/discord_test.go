package config_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/wicket-bot/wicket/pkg/cli/config"
	"github.com/wicket-bot/wicket/pkg/domain/types"
)

func TestDiscordValidate(t *testing.T) {
	cfg := &config.Discord{}
	gt.Error(t, cfg.Validate())

	cfg.Token = "tok"
	gt.Error(t, cfg.Validate())

	cfg.GuildID = "G1"
	gt.NoError(t, cfg.Validate())
}

func TestDiscordDevelopers(t *testing.T) {
	cfg := &config.Discord{DeveloperIDs: " 111 , 222,,333 "}
	gt.Equal(t, cfg.Developers(), []types.UserID{"111", "222", "333"})

	cfg.DeveloperIDs = ""
	gt.Equal(t, len(cfg.Developers()), 0)
}

func TestLoggerConfigure(t *testing.T) {
	cfg := &config.Logger{Level: "debug", Format: "json"}
	logger, err := cfg.Configure()
	gt.NoError(t, err)
	gt.NotNil(t, logger)

	cfg.Format = "yaml"
	_, err = cfg.Configure()
	gt.Error(t, err)
}
