// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func userFlag() cli.Flag {
	return &cli.Int64Flag{
		Name:    "user",
		Aliases: []string{"u"},
		Usage:   "User ID (defaults to client.user_id in config)",
	}
}

func songFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Song title"},
		&cli.StringFlag{Name: "artist", Aliases: []string{"a"}, Usage: "Song artist"},
		&cli.StringFlag{Name: "album", Usage: "Album name"},
		&cli.IntFlag{Name: "year", Usage: "Release year"},
	}
}

// serveCommand runs the HTTP API
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the songbook HTTP server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (overrides server.host)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Listen port (overrides server.port)",
			},
		},
		Action: r.Serve,
	}
}

// setupCommand writes the config file and initializes the configured store.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Write config.toml and initialize the record store",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "rollback",
				Usage: "Roll back the latest SQLite migration instead",
			},
		},
		Action: r.Setup,
	}
}

// signupCommand creates a user through the API
func signupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "signup",
		Usage: "Create a user",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Usage: "Display name", Required: true},
			&cli.StringFlag{Name: "email", Usage: "Email address"},
			&cli.StringFlag{Name: "password", Usage: "Password", Required: true},
			&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
		},
		Action: r.Signup,
	}
}

// profileCommand shows a user's public profile
func profileCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "Show a user's profile",
		Flags: []cli.Flag{
			userFlag(),
			&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
		},
		Action: r.Profile,
	}
}

// songsCommand handles favorite song operations
func songsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "songs",
		Aliases: []string{"s"},
		Usage:   "Manage a user's favorite songs",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List favorite songs",
				Flags: []cli.Flag{
					userFlag(),
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.SongsList,
			},
			{
				Name:  "add",
				Usage: "Add a favorite song",
				Flags: append([]cli.Flag{
					userFlag(),
					&cli.Int64Flag{Name: "id", Usage: "Song ID (assigned by the server when omitted)"},
				}, songFlags()...),
				Action: r.SongsAdd,
			},
			{
				Name:  "update",
				Usage: "Replace a favorite song; fields not given are cleared",
				Flags: append([]cli.Flag{
					userFlag(),
					&cli.Int64Flag{Name: "id", Usage: "Song ID", Required: true},
				}, songFlags()...),
				Action: r.SongsUpdate,
			},
			{
				Name:    "remove",
				Aliases: []string{"rm"},
				Usage:   "Remove a favorite song",
				Flags: []cli.Flag{
					userFlag(),
					&cli.Int64Flag{Name: "id", Usage: "Song ID", Required: true},
				},
				Action: r.SongsRemove,
			},
			{
				Name:  "export",
				Usage: "Export favorite songs",
				Flags: []cli.Flag{
					userFlag(),
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: csv, md, txt or json",
						Value:   "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file (a directory for md); prints to stdout when omitted",
					},
				},
				Action: r.SongsExport,
			},
			{
				Name:  "import",
				Usage: "Import favorite songs from CSV",
				Flags: []cli.Flag{
					userFlag(),
					&cli.StringFlag{Name: "file", Usage: "CSV file with a header row", Required: true},
					&cli.FloatFlag{Name: "rate", Usage: "Requests per second", Value: 5},
					&cli.IntFlag{Name: "workers", Usage: "Concurrent workers (more than 1 does not keep file order)", Value: 1},
				},
				Action: r.SongsImport,
			},
		},
	}
}

// seedCommand fills the local store with fake data
func seedCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Fill the configured store with fake users and songs",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "users", Usage: "Users to create", Value: 5},
			&cli.IntFlag{Name: "songs", Usage: "Songs per user", Value: 3},
			&cli.Int64Flag{Name: "seed", Usage: "Faker seed for reproducible data"},
		},
		Action: r.Seed,
	}
}

// tuiCommand returns the top-level TUI command for interactive song management.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for a user's favorite songs",
		Flags:   []cli.Flag{userFlag()},
		Action:  r.TUI,
	}
}
