package main

import (
	"context"

	"github.com/desertthunder/songbook/internal/server"
	"github.com/desertthunder/songbook/internal/services"
	"github.com/urfave/cli/v3"
)

// Serve runs the HTTP API until the context is cancelled.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Server
	if host := cmd.String("host"); host != "" {
		cfg.Host = host
	}
	if port := cmd.Int("port"); port != 0 {
		cfg.Port = port
	}

	store, err := r.openStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			r.logger.Warn("failed to close store", "error", err)
		}
	}()

	srv := server.New(server.Options{
		Config:   cfg,
		Songs:    services.NewSongService(store),
		Accounts: services.NewUserService(store),
		Logger:   r.logger,
	})

	r.logger.Info("starting server", "addr", cfg.Addr(), "store", r.config.Store.Backend)
	return srv.Run(ctx)
}
