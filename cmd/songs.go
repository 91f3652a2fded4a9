package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/songbook/internal/formatter"
	"github.com/desertthunder/songbook/internal/models"
	"github.com/desertthunder/songbook/internal/shared"
	"github.com/desertthunder/songbook/internal/tasks"
	"github.com/urfave/cli/v3"
)

func songInput(cmd *cli.Command) models.SongInput {
	return models.SongInput{
		ID:     cmd.Int64("id"),
		Title:  cmd.String("title"),
		Artist: cmd.String("artist"),
		Album:  cmd.String("album"),
		Year:   cmd.Int("year"),
	}
}

// SongsList prints a user's favorite songs.
func (r *Runner) SongsList(ctx context.Context, cmd *cli.Command) error {
	userID, err := r.userID(cmd)
	if err != nil {
		return err
	}

	songs, err := r.client().ListSongs(ctx, userID)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(songs, true)
	}
	r.writePlain("Favorite songs of user %d (%d):\n", userID, len(songs))
	r.printSongs(songs)
	return nil
}

// SongsAdd adds a song; the server assigns an id when --id is omitted.
func (r *Runner) SongsAdd(ctx context.Context, cmd *cli.Command) error {
	userID, err := r.userID(cmd)
	if err != nil {
		return err
	}

	song, err := r.client().AddSong(ctx, userID, songInput(cmd))
	if err != nil {
		return err
	}

	r.logger.Info("song added", "user", userID, "song", song.ID)
	r.writePlain("✓ Added [%d] %s\n", song.ID, song.Title)
	return nil
}

// SongsUpdate replaces the song with --id.
func (r *Runner) SongsUpdate(ctx context.Context, cmd *cli.Command) error {
	userID, err := r.userID(cmd)
	if err != nil {
		return err
	}

	song, err := r.client().UpdateSong(ctx, userID, songInput(cmd).Song(cmd.Int64("id")))
	if err != nil {
		return err
	}

	r.logger.Info("song updated", "user", userID, "song", song.ID)
	r.writePlain("✓ Updated [%d] %s\n", song.ID, song.Title)
	return nil
}

// SongsRemove deletes every song with --id.
func (r *Runner) SongsRemove(ctx context.Context, cmd *cli.Command) error {
	userID, err := r.userID(cmd)
	if err != nil {
		return err
	}

	songID := cmd.Int64("id")
	if err := r.client().RemoveSong(ctx, userID, songID); err != nil {
		return err
	}

	r.logger.Info("song removed", "user", userID, "song", songID)
	r.writePlain("✓ Removed song %d\n", songID)
	return nil
}

// SongsExport writes a user's songs to stdout or a file.
//
// Markdown exports with --output create a directory holding README.md and the profile image.
func (r *Runner) SongsExport(ctx context.Context, cmd *cli.Command) error {
	userID, err := r.userID(cmd)
	if err != nil {
		return err
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	profile, err := r.client().Profile(ctx, userID)
	if err != nil {
		return err
	}
	collection := formatter.FromProfile(*profile)

	output := cmd.String("output")
	switch {
	case output == "":
		return formatter.WriteExport(r.output, collection, format)
	case format == formatter.FormatMarkdown:
		result, err := formatter.WriteMarkdownExport(collection, output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Exported %d songs to %s (%d files)\n", len(collection.Songs), result.Directory, len(result.Files))
	default:
		path, err := formatter.WriteExportFile(collection, format, output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Exported %d songs to %s\n", len(collection.Songs), path)
	}
	return nil
}

// SongsImport adds every row of a CSV file through the API at a limited rate.
func (r *Runner) SongsImport(ctx context.Context, cmd *cli.Command) error {
	userID, err := r.userID(cmd)
	if err != nil {
		return err
	}

	path := cmd.String("file")
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: failed to open %s: %v", shared.ErrInvalidArgument, path, err)
	}
	defer f.Close()

	inputs, err := formatter.ParseCSV(f)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	r.logger.Info("importing songs", "user", userID, "file", path, "rows", len(inputs))

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			if update.Step == 0 {
				r.writePlain("📥 %s\n", update.Message)
				continue
			}
			r.writePlain("   %s\n", update.Message)
		}
	}()

	result, err := tasks.NewImporter(r.client()).Import(ctx, progressCh, userID, inputs, tasks.ImportOpts{
		NumWorkers: cmd.Int("workers"),
		RateLimit:  cmd.Float("rate"),
	})
	close(progressCh)
	<-done

	if result != nil {
		r.writePlain("\n")
		r.writePlainHeader("Import Complete")
		r.writePlain("Added: %d/%d\n", result.Added, result.Total)
		if result.Failed > 0 {
			r.writePlain("\nFailed rows:\n")
			for _, res := range result.Results {
				if res.Error != nil {
					r.writePlain("  - row %d %s - %s: %v\n", res.Index+1, res.Input.Artist, res.Input.Title, res.Error)
				}
			}
		}
	}
	return err
}
