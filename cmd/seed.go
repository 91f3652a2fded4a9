package main

import (
	"context"

	"github.com/desertthunder/songbook/internal/services"
	"github.com/desertthunder/songbook/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Seed fills the configured store with fake users and songs, bypassing the HTTP API.
func (r *Runner) Seed(ctx context.Context, cmd *cli.Command) error {
	store, err := r.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	seeder := tasks.NewSeeder(services.NewUserService(store), services.NewSongService(store))

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.SeedUsers:
				r.writePlain("👤 %s\n", update.Message)
			case tasks.SeedSongs:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	result, err := seeder.Seed(ctx, progressCh, tasks.SeedOpts{
		Users:        cmd.Int("users"),
		SongsPerUser: cmd.Int("songs"),
		Seed:         cmd.Int64("seed"),
	})
	close(progressCh)
	<-done

	if result != nil && len(result.Users) > 0 {
		r.writePlain("\n")
		r.writePlainHeader("Seeded Users")
		for _, u := range result.Users {
			r.writePlain("%d  %-24s password: %s\n", u.Profile.ID, u.Profile.Name, u.Password)
		}
		r.writePlain("\n%d users, %d songs\n", len(result.Users), result.Songs)
	}
	return err
}
