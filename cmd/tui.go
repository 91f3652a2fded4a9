package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/songbook/internal/client"
	"github.com/desertthunder/songbook/internal/shared"
	"github.com/desertthunder/songbook/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for a user's favorite songs.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	userID, err := r.userID(cmd)
	if err != nil {
		return err
	}

	if err := r.client().Health(ctx); err != nil {
		return fmt.Errorf("server unreachable at %s: %w", r.config.Client.BaseURL, err)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	logPath := r.config.Log.TUIFile
	if logPath == "" {
		logPath = "./tmp/songbook-tui.log"
	}
	fileLogger, err := shared.NewFileLogger(logPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.ConfigureLogger(fileLogger, r.config.Log)
	r.SetLogger(fileLogger)

	notices := ui.NewNotices()
	ctrl := client.NewController(r.client(), userID, notices, shared.WithLogger(fileLogger, "user", userID))
	model := ui.NewModel(ctx, ctrl, notices)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
