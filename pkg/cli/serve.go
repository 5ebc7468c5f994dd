package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"github.com/wicket-bot/wicket/pkg/cli/config"
	discordCtrl "github.com/wicket-bot/wicket/pkg/controller/discord"
	httpCtrl "github.com/wicket-bot/wicket/pkg/controller/http"
	"github.com/wicket-bot/wicket/pkg/domain/types"
	"github.com/wicket-bot/wicket/pkg/service/directory"
	discordSvc "github.com/wicket-bot/wicket/pkg/service/discord"
	"github.com/wicket-bot/wicket/pkg/service/scheduler"
	"github.com/wicket-bot/wicket/pkg/usecase"
)

func cmdServe() *cli.Command {
	var (
		serverCfg   config.Server
		discordCfg  config.Discord
		settingsCfg config.Settings
	)

	flags := joinFlags(
		serverCfg.Flags(),
		discordCfg.Flags(),
		settingsCfg.Flags(),
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Connect to the gateway and start the ops server",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting wicket",
				slog.String("addr", serverCfg.Addr),
				slog.Any("discord", discordCfg),
				slog.Any("settings", settingsCfg),
			)

			store, err := settingsCfg.Configure(ctx)
			if err != nil {
				return err
			}

			session, err := discordCfg.Configure()
			if err != nil {
				return err
			}
			guildID := types.GuildID(discordCfg.GuildID)

			sched := scheduler.New(ctx)
			defer sched.Stop()
			dir := directory.New()
			platform := discordSvc.New(session, guildID)

			auth := usecase.NewAuth(store, discordCfg.Developers())
			audit := usecase.NewAudit(store, platform)
			alloc := usecase.NewAllocator(store, platform)
			ticketUC := usecase.NewTicket(store, platform, dir, sched, alloc, audit, auth)
			adminUC := usecase.NewAdmin(store, platform, audit, auth)
			responderUC := usecase.NewAutoresponder(store, platform, audit)
			moderationUC := usecase.NewModeration(platform, audit, auth)

			handler := discordCtrl.New(ctx, store, platform, ticketUC, adminUC, responderUC, moderationUC, auth, guildID, discordCfg.Prefix)
			handler.Register(session)

			if err := session.Open(); err != nil {
				return goerr.Wrap(err, "failed to connect to the Discord gateway")
			}
			defer func() {
				if err := session.Close(); err != nil {
					logger.Error("Failed to close gateway session", slog.Any("error", err))
				}
			}()
			logger.Info("Gateway connected", slog.String("guildID", discordCfg.GuildID))

			server := httpCtrl.NewServer(ctx, serverCfg.Addr, ticketUC)
			go func() {
				logger.Info("Ops server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("Ops server error", slog.Any("error", err))
				}
			}()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown ops server gracefully")
			}

			logger.Info("Shutdown complete")
			return nil
		},
	}
}
