package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ehrlich-b/tabrelay/internal/config"
	"github.com/ehrlich-b/tabrelay/internal/discord"
	"github.com/ehrlich-b/tabrelay/internal/logger"
	"github.com/ehrlich-b/tabrelay/internal/presence"
	"github.com/ehrlich-b/tabrelay/internal/relay"
)

// newConnector opens the presence session. Tests replace it.
var newConnector = func(log *slog.Logger) presence.Connector {
	return presence.DiscordConnector{
		Logger: log,
		OnEvent: func(e discord.Event) {
			log.Debug("discord event", "event", e.Name)
		},
	}
}

// runRelay bootstraps the presence session, then binds the listener and
// serves until interrupted. No socket is bound if bootstrap fails.
func runRelay(ctx context.Context, cfg *config.Config) error {
	log, err := logger.Init(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	handle, err := presence.Bootstrap(ctx, newConnector(log), cfg.AppID, log)
	if err != nil {
		return fmt.Errorf("presence bootstrap: %w", err)
	}
	defer handle.Close()

	state := relay.NewState()
	state.SetConnected(true)

	ln, err := relay.Listen(cfg.Port)
	if err != nil {
		return err
	}

	srv := relay.NewServer(handle, state, log)
	if err := srv.Serve(ctx, ln); err != nil {
		return err
	}
	log.Info("shutting down")
	return nil
}
