package repositories

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/desertthunder/songbook/internal/models"
	"github.com/desertthunder/songbook/internal/shared"
)

// RecordStore is the persistence boundary holding the full user collection.
type RecordStore interface {
	// ReadAll returns every user in stored order.
	ReadAll(ctx context.Context) ([]models.User, error)
	// WriteAll replaces the whole collection with users.
	WriteAll(ctx context.Context, users []models.User) error
	Get(ctx context.Context, id int64) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	// Update loads the user with the given id, passes it to fn and persists the result.
	// Nothing is written when fn returns an error.
	Update(ctx context.Context, id int64, fn func(*models.User) error) error
	Close() error
}

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendBolt   = "bolt"
)

// Open creates the store selected by cfg.Backend, creating its file (and parent directories) when missing.
func Open(ctx context.Context, cfg shared.StoreConfig) (RecordStore, error) {
	if err := ensureDir(cfg.Path); err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case BackendJSON, "":
		return NewJSONStore(cfg.Path)
	case BackendSQLite:
		db, err := shared.NewDatabase(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", shared.ErrStoreUnavailable, err)
		}
		shared.ConfigureDatabase(db, cfg.MaxOpenConns, cfg.MaxIdleConns)

		if err := shared.RunMigrationsContext(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("%w: %w", shared.ErrStoreUnavailable, err)
		}
		return NewSQLiteStore(db), nil
	case BackendBolt:
		return NewBoltStore(cfg.Path)
	default:
		return nil, fmt.Errorf("%w: unknown store backend %q", shared.ErrInvalidConfig, cfg.Backend)
	}
}

func ensureDir(path string) error {
	if path == "" || path == ":memory:" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("%w: create store directory: %w", shared.ErrStoreUnavailable, err)
	}
	return nil
}

func userNotFound(id int64) error {
	return fmt.Errorf("%w: %d", shared.ErrUserNotFound, id)
}

func duplicateUser(id int64) error {
	return fmt.Errorf("%w: %d", shared.ErrDuplicateUser, id)
}

// normalize gives every user a non-nil song list so the persisted form always carries an array.
func normalize(u *models.User) {
	if u.FavoriteSongs == nil {
		u.FavoriteSongs = []models.Song{}
	}
}

// checkUser rejects a decoded record that does not have the User shape.
func checkUser(u models.User) error {
	if u.ID <= 0 {
		return fmt.Errorf("%w: user has invalid id %d", shared.ErrStoreCorrupt, u.ID)
	}
	for _, song := range u.FavoriteSongs {
		if song.ID <= 0 {
			return fmt.Errorf("%w: user %d has song with invalid id %d", shared.ErrStoreCorrupt, u.ID, song.ID)
		}
	}
	return nil
}

// checkUsers applies checkUser to every record and requires user ids to be unique.
func checkUsers(users []models.User) error {
	seen := make(map[int64]struct{}, len(users))
	for _, u := range users {
		if err := checkUser(u); err != nil {
			return err
		}
		if _, ok := seen[u.ID]; ok {
			return fmt.Errorf("%w: duplicate user id %d", shared.ErrStoreCorrupt, u.ID)
		}
		seen[u.ID] = struct{}{}
	}
	return nil
}
