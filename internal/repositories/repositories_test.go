package repositories

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"github.com/desertthunder/songbook/internal/models"
	"github.com/desertthunder/songbook/internal/shared"
)

// openStores returns one fresh store per backend, each closed at test cleanup.
func openStores(t *testing.T) map[string]RecordStore {
	t.Helper()
	dir := t.TempDir()

	configs := map[string]shared.StoreConfig{
		BackendJSON:   {Backend: BackendJSON, Path: filepath.Join(dir, "json", "users.json")},
		BackendSQLite: {Backend: BackendSQLite, Path: filepath.Join(dir, "sqlite", "songbook.db"), MaxOpenConns: 1, MaxIdleConns: 1},
		BackendBolt:   {Backend: BackendBolt, Path: filepath.Join(dir, "bolt", "songbook.bolt")},
	}

	stores := make(map[string]RecordStore, len(configs))
	for name, cfg := range configs {
		store, err := Open(context.Background(), cfg)
		require.NoError(t, err, "open %s store", name)
		t.Cleanup(func() { store.Close() })
		stores[name] = store
	}
	return stores
}

func TestRecordStoreContract(t *testing.T) {
	ctx := context.Background()

	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			users, err := store.ReadAll(ctx)
			require.NoError(t, err)
			require.Empty(t, users)
			require.NotNil(t, users)

			alice := models.User{ID: 1, Name: "Alice", Password: "hash"}
			require.NoError(t, store.Create(ctx, &alice))

			bob := models.User{ID: 2, Name: "Bob", FavoriteSongs: []models.Song{{ID: 7, Title: "Intro"}}}
			require.NoError(t, store.Create(ctx, &bob))

			err = store.Create(ctx, &models.User{ID: 1, Name: "Impostor"})
			require.ErrorIs(t, err, shared.ErrDuplicateUser)

			got, err := store.Get(ctx, 1)
			require.NoError(t, err)
			require.Equal(t, "Alice", got.Name)
			require.Equal(t, "hash", got.Password)
			require.NotNil(t, got.FavoriteSongs)
			require.Empty(t, got.FavoriteSongs)

			_, err = store.Get(ctx, 999)
			require.ErrorIs(t, err, shared.ErrUserNotFound)

			err = store.Update(ctx, 1, func(u *models.User) error {
				u.FavoriteSongs = append(u.FavoriteSongs,
					models.Song{ID: 100, Title: "A", Artist: "X"},
					models.Song{ID: 50, Title: "B"},
				)
				return nil
			})
			require.NoError(t, err)

			got, err = store.Get(ctx, 1)
			require.NoError(t, err)
			require.Equal(t, []models.Song{{ID: 100, Title: "A", Artist: "X"}, {ID: 50, Title: "B"}}, got.FavoriteSongs)

			boom := errors.New("boom")
			err = store.Update(ctx, 1, func(u *models.User) error {
				u.FavoriteSongs = nil
				return boom
			})
			require.ErrorIs(t, err, boom)

			got, err = store.Get(ctx, 1)
			require.NoError(t, err)
			require.Len(t, got.FavoriteSongs, 2, "failed update must not persist")

			err = store.Update(ctx, 999, func(*models.User) error { return nil })
			require.ErrorIs(t, err, shared.ErrUserNotFound)

			users, err = store.ReadAll(ctx)
			require.NoError(t, err)
			require.Len(t, users, 2)
			require.Equal(t, int64(1), users[0].ID)
			require.Equal(t, int64(2), users[1].ID)
			require.Equal(t, []models.Song{{ID: 7, Title: "Intro"}}, users[1].FavoriteSongs)

			replacement := []models.User{{ID: 3, Name: "Carol", FavoriteSongs: []models.Song{{ID: 1}, {ID: 1, Title: "dup"}}}}
			require.NoError(t, store.WriteAll(ctx, replacement))

			users, err = store.ReadAll(ctx)
			require.NoError(t, err)
			require.Len(t, users, 1)
			require.Equal(t, "Carol", users[0].Name)
			require.Equal(t, replacement[0].FavoriteSongs, users[0].FavoriteSongs)

			_, err = store.Get(ctx, 1)
			require.ErrorIs(t, err, shared.ErrUserNotFound)
		})
	}
}

func TestRecordStoreConcurrentUpdates(t *testing.T) {
	ctx := context.Background()

	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Create(ctx, &models.User{ID: 1, Name: "Alice"}))

			const writers = 20
			var wg sync.WaitGroup
			for i := range writers {
				wg.Add(1)
				go func(id int64) {
					defer wg.Done()
					err := store.Update(ctx, 1, func(u *models.User) error {
						u.FavoriteSongs = append(u.FavoriteSongs, models.Song{ID: id})
						return nil
					})
					assert.NoError(t, err)
				}(int64(i + 1))
			}
			wg.Wait()

			got, err := store.Get(ctx, 1)
			require.NoError(t, err)
			require.Len(t, got.FavoriteSongs, writers, "no update may be lost")
		})
	}
}

func TestOpen(t *testing.T) {
	t.Run("unknown backend", func(t *testing.T) {
		_, err := Open(context.Background(), shared.StoreConfig{Backend: "redis", Path: filepath.Join(t.TempDir(), "x")})
		require.ErrorIs(t, err, shared.ErrInvalidConfig)
	})

	t.Run("empty backend defaults to json", func(t *testing.T) {
		store, err := Open(context.Background(), shared.StoreConfig{Path: filepath.Join(t.TempDir(), "users.json")})
		require.NoError(t, err)
		defer store.Close()
		require.IsType(t, &JSONStore{}, store)
	})
}

func TestBoltStoreRejectsMalformedRecords(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name  string
		key   int64
		value string
	}{
		{"user without id", 7, `{"name": "x"}`},
		{"song without id", 1, `{"id": 1, "favoriteSongs": [{"title": "x"}]}`},
		{"not json", 1, `garbage`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := NewBoltStore(filepath.Join(t.TempDir(), "songbook.bolt"))
			require.NoError(t, err)
			defer store.Close()

			err = store.db.Update(func(tx *bbolt.Tx) error {
				return tx.Bucket(usersBucket).Put(userKey(tt.key), []byte(tt.value))
			})
			require.NoError(t, err)

			_, err = store.ReadAll(ctx)
			assert.ErrorIs(t, err, shared.ErrStoreCorrupt)

			_, err = store.Get(ctx, tt.key)
			assert.ErrorIs(t, err, shared.ErrStoreCorrupt)
		})
	}
}
