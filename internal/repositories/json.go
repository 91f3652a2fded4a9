package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/desertthunder/songbook/internal/models"
	"github.com/desertthunder/songbook/internal/shared"
)

// JSONStore keeps the whole user collection as a single JSON array on disk.
//
// Every call reads or writes the full file. Writes go to a temporary file that is renamed over
// the original, so a failed write leaves the previous snapshot in place. The mutex serializes
// read-modify-write cycles within one process only.
type JSONStore struct {
	path string
	mu   sync.Mutex
}

// NewJSONStore returns a store for the file at path, creating it with an empty array if absent.
func NewJSONStore(path string) (*JSONStore, error) {
	s := &JSONStore{path: path}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := s.writeAll([]models.User{}); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrStoreUnavailable, err)
	}

	return s, nil
}

// Path returns the backing file path.
func (s *JSONStore) Path() string { return s.path }

func (s *JSONStore) ReadAll(ctx context.Context) ([]models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readAll()
}

func (s *JSONStore) WriteAll(ctx context.Context, users []models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeAll(users)
}

func (s *JSONStore) Get(ctx context.Context, id int64) (*models.User, error) {
	users, err := s.ReadAll(ctx)
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		if u.ID == id {
			c := u.Clone()
			return &c, nil
		}
	}
	return nil, userNotFound(id)
}

func (s *JSONStore) Create(ctx context.Context, user *models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.readAll()
	if err != nil {
		return err
	}

	for _, u := range users {
		if u.ID == user.ID {
			return duplicateUser(user.ID)
		}
	}

	c := user.Clone()
	return s.writeAll(append(users, c))
}

func (s *JSONStore) Update(ctx context.Context, id int64, fn func(*models.User) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.readAll()
	if err != nil {
		return err
	}

	for i := range users {
		if users[i].ID != id {
			continue
		}

		u := users[i].Clone()
		if err := fn(&u); err != nil {
			return err
		}
		u.ID = id
		users[i] = u
		return s.writeAll(users)
	}

	return userNotFound(id)
}

// Close is a no-op; no handle is held between calls.
func (s *JSONStore) Close() error { return nil }

func (s *JSONStore) readAll() ([]models.User, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrStoreUnavailable, err)
	}

	var users []models.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", shared.ErrStoreCorrupt, s.path, err)
	}

	if err := checkUsers(users); err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}

	if users == nil {
		users = []models.User{}
	}
	for i := range users {
		normalize(&users[i])
	}
	return users, nil
}

func (s *JSONStore) writeAll(users []models.User) error {
	if users == nil {
		users = []models.User{}
	}
	for i := range users {
		normalize(&users[i])
	}

	data, err := shared.MarshalJSON(users, true)
	if err != nil {
		return fmt.Errorf("%w: encode users: %w", shared.ErrStoreUnavailable, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrStoreUnavailable, err)
	}
	tmpName := tmp.Name()

	mode := os.FileMode(0644)
	if info, err := os.Stat(s.path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %w", shared.ErrStoreUnavailable, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %w", shared.ErrStoreUnavailable, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %w", shared.ErrStoreUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %w", shared.ErrStoreUnavailable, err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %w", shared.ErrStoreUnavailable, err)
	}
	return nil
}
