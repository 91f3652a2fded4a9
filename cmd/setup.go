package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/songbook/internal/repositories"
	"github.com/desertthunder/songbook/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup writes config.toml when missing and initializes the configured store.
//
// Opening the store creates the JSON file or Bolt bucket and runs SQLite migrations.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := r.configPath
	if configPath == "" {
		configPath = "config.toml"
	}

	if _, err := os.Stat(configPath); err != nil {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}

		config, err := shared.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load created config: %w", err)
		}
		r.config = config
		r.writePlain("✓ Config written to %s\n", configPath)
	}

	if cmd.Bool("rollback") {
		return r.rollback()
	}

	r.logger.Info("initializing store", "backend", r.config.Store.Backend, "path", r.config.Store.Path)
	store, err := r.openStore(ctx)
	if err != nil {
		return err
	}
	if err := store.Close(); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}

	r.logger.Infof("setup complete for store: %v", r.config.Store.Path)
	r.writePlain("✓ %s store ready at %s\n", r.config.Store.Backend, r.config.Store.Path)
	return nil
}

func (r *Runner) rollback() error {
	if r.config.Store.Backend != repositories.BackendSQLite {
		return fmt.Errorf("%w: rollback only applies to the sqlite backend, not %q", shared.ErrInvalidArgument, r.config.Store.Backend)
	}

	db, err := shared.NewDatabase(r.config.Store.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	r.logger.Info("rolling back latest migration", "path", r.config.Store.Path)
	if err := shared.RollbackMigration(db); err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}

	r.writePlain("✓ Rolled back latest migration\n")
	return nil
}
