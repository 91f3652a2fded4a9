package main

import (
	"context"

	"github.com/desertthunder/songbook/internal/models"
	"github.com/desertthunder/songbook/internal/services"
	"github.com/urfave/cli/v3"
)

// Signup creates a user through the API.
func (r *Runner) Signup(ctx context.Context, cmd *cli.Command) error {
	in := services.SignupInput{
		Name:     cmd.String("name"),
		Email:    cmd.String("email"),
		Password: cmd.String("password"),
	}

	r.logger.Info("signing up", "name", in.Name)
	profile, err := r.client().Signup(ctx, in)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(profile, true)
	}
	r.writePlain("✓ Created user %s (ID: %d)\n", profile.Name, profile.ID)
	r.writePlain("Set client.user_id = %d in config.toml to make it the default user\n", profile.ID)
	return nil
}

// Profile prints a user's public profile.
func (r *Runner) Profile(ctx context.Context, cmd *cli.Command) error {
	id, err := r.userID(cmd)
	if err != nil {
		return err
	}

	profile, err := r.client().Profile(ctx, id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(profile, true)
	}

	r.writePlainHeader(profile.Name)
	r.writePlain("ID: %d\n", profile.ID)
	if profile.Email != "" {
		r.writePlain("Email: %s\n", profile.Email)
	}
	if profile.ProfileImage != "" {
		r.writePlain("Image: %s\n", profile.ProfileImage)
	}
	r.writePlainln("Favorite songs (%d):", len(profile.FavoriteSongs))
	r.printSongs(profile.FavoriteSongs)
	return nil
}

func (r *Runner) printSongs(songs []models.Song) {
	if len(songs) == 0 {
		r.writePlain("  (none)\n")
		return
	}
	for _, s := range songs {
		line := s.Title
		if s.Artist != "" {
			line = s.Artist + " - " + line
		}
		if s.Album != "" {
			line += " (" + s.Album + ")"
		}
		if s.Year != 0 {
			r.writePlain("  [%d] %s [%d]\n", s.ID, line, s.Year)
			continue
		}
		r.writePlain("  [%d] %s\n", s.ID, line)
	}
}
