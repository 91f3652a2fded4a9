package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desertthunder/songbook/internal/models"
	"github.com/desertthunder/songbook/internal/repositories"
	"github.com/desertthunder/songbook/internal/shared"
	tu "github.com/desertthunder/songbook/internal/testing"
)

// newJSONService returns a service over a fresh JSON file seeded with users.
func newJSONService(t *testing.T, users ...models.User) (*SongService, repositories.RecordStore) {
	t.Helper()

	store, err := repositories.NewJSONStore(filepath.Join(t.TempDir(), "users.json"))
	require.NoError(t, err)
	require.NoError(t, store.WriteAll(context.Background(), users))
	return NewSongService(store), store
}

func TestSongService(t *testing.T) {
	ctx := context.Background()

	t.Run("add update list remove scenario", func(t *testing.T) {
		svc, _ := newJSONService(t, models.User{ID: 1, FavoriteSongs: []models.Song{}})

		added, err := svc.AddSong(ctx, 1, models.SongInput{ID: 100, Title: "A"})
		require.NoError(t, err)
		require.Equal(t, &models.Song{ID: 100, Title: "A"}, added)

		songs, err := svc.ListSongs(ctx, 1)
		require.NoError(t, err)
		require.Len(t, songs, 1)

		updated, err := svc.UpdateSong(ctx, 1, models.Song{ID: 100, Title: "B"})
		require.NoError(t, err)
		require.Equal(t, &models.Song{ID: 100, Title: "B"}, updated)

		songs, err = svc.ListSongs(ctx, 1)
		require.NoError(t, err)
		require.Equal(t, []models.Song{{ID: 100, Title: "B"}}, songs)

		require.NoError(t, svc.RemoveSong(ctx, 1, 100))

		songs, err = svc.ListSongs(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, songs)
		require.Empty(t, songs)
	})

	t.Run("list is idempotent and ordered", func(t *testing.T) {
		stored := []models.Song{{ID: 3, Title: "C"}, {ID: 1, Title: "A"}, {ID: 2, Title: "B"}}
		svc, _ := newJSONService(t, models.User{ID: 7, FavoriteSongs: stored})

		first, err := svc.ListSongs(ctx, 7)
		require.NoError(t, err)
		second, err := svc.ListSongs(ctx, 7)
		require.NoError(t, err)

		require.Equal(t, stored, first)
		require.Equal(t, first, second)
	})

	t.Run("unknown user fails every operation", func(t *testing.T) {
		svc, store := newJSONService(t, models.User{ID: 1})
		before, err := store.ReadAll(ctx)
		require.NoError(t, err)

		_, err = svc.ListSongs(ctx, 999)
		require.ErrorIs(t, err, shared.ErrUserNotFound)

		_, err = svc.AddSong(ctx, 999, models.SongInput{Title: "x"})
		require.ErrorIs(t, err, shared.ErrUserNotFound)

		_, err = svc.UpdateSong(ctx, 999, models.Song{ID: 1})
		require.ErrorIs(t, err, shared.ErrUserNotFound)

		err = svc.RemoveSong(ctx, 999, 1)
		require.ErrorIs(t, err, shared.ErrUserNotFound)

		after, err := store.ReadAll(ctx)
		require.NoError(t, err)
		require.Equal(t, before, after)
	})

	t.Run("update is a full overwrite at the first match", func(t *testing.T) {
		svc, _ := newJSONService(t, models.User{ID: 1, FavoriteSongs: []models.Song{
			{ID: 5, Title: "Old", Artist: "Someone", Album: "LP", Year: 1999},
			{ID: 5, Title: "Twin"},
		}})

		_, err := svc.UpdateSong(ctx, 1, models.Song{ID: 5, Title: "New"})
		require.NoError(t, err)

		songs, err := svc.ListSongs(ctx, 1)
		require.NoError(t, err)
		require.Equal(t, []models.Song{{ID: 5, Title: "New"}, {ID: 5, Title: "Twin"}}, songs)
	})

	t.Run("update of unknown song", func(t *testing.T) {
		svc, _ := newJSONService(t, models.User{ID: 1})

		_, err := svc.UpdateSong(ctx, 1, models.Song{ID: 42, Title: "nope"})
		require.ErrorIs(t, err, shared.ErrSongNotFound)
	})

	t.Run("remove drops every match and tolerates absent ids", func(t *testing.T) {
		svc, _ := newJSONService(t, models.User{ID: 1, FavoriteSongs: []models.Song{{ID: 1}, {ID: 2}, {ID: 1}}})

		require.NoError(t, svc.RemoveSong(ctx, 1, 404))
		songs, err := svc.ListSongs(ctx, 1)
		require.NoError(t, err)
		require.Len(t, songs, 3)

		require.NoError(t, svc.RemoveSong(ctx, 1, 1))
		songs, err = svc.ListSongs(ctx, 1)
		require.NoError(t, err)
		require.Equal(t, []models.Song{{ID: 2}}, songs)
	})

	t.Run("server assigns ids when none supplied", func(t *testing.T) {
		svc, _ := newJSONService(t, models.User{ID: 1, FavoriteSongs: []models.Song{{ID: 10}}})

		ids := []int64{10, 10, 11}
		svc.newID = func() int64 {
			id := ids[0]
			ids = ids[1:]
			return id
		}

		added, err := svc.AddSong(ctx, 1, models.SongInput{Title: "fresh"})
		require.NoError(t, err)
		require.Equal(t, int64(11), added.ID)
	})

	t.Run("duplicate caller id is rejected", func(t *testing.T) {
		svc, store := newJSONService(t, models.User{ID: 1, FavoriteSongs: []models.Song{{ID: 10, Title: "first"}}})

		_, err := svc.AddSong(ctx, 1, models.SongInput{ID: 10, Title: "second"})
		require.ErrorIs(t, err, shared.ErrDuplicateSong)

		user, err := store.Get(ctx, 1)
		require.NoError(t, err)
		require.Equal(t, []models.Song{{ID: 10, Title: "first"}}, user.FavoriteSongs)
	})

	t.Run("concurrent adds lose nothing", func(t *testing.T) {
		svc, _ := newJSONService(t, models.User{ID: 1})

		const n = 25
		var wg sync.WaitGroup
		for i := range n {
			wg.Add(1)
			go func(id int64) {
				defer wg.Done()
				_, err := svc.AddSong(ctx, 1, models.SongInput{ID: id, Title: "song"})
				assert.NoError(t, err)
			}(int64(i + 1))
		}
		wg.Wait()

		songs, err := svc.ListSongs(ctx, 1)
		require.NoError(t, err)
		require.Len(t, songs, n)
	})
}

func TestSongServiceValidation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		call func(svc *SongService) error
	}{
		{"list without user", func(svc *SongService) error {
			_, err := svc.ListSongs(ctx, 0)
			return err
		}},
		{"list with negative user", func(svc *SongService) error {
			_, err := svc.ListSongs(ctx, -4)
			return err
		}},
		{"add without user", func(svc *SongService) error {
			_, err := svc.AddSong(ctx, 0, models.SongInput{Title: "x"})
			return err
		}},
		{"add without song", func(svc *SongService) error {
			_, err := svc.AddSong(ctx, 1, models.SongInput{})
			return err
		}},
		{"add with negative id", func(svc *SongService) error {
			_, err := svc.AddSong(ctx, 1, models.SongInput{ID: -1, Title: "x"})
			return err
		}},
		{"update without song id", func(svc *SongService) error {
			_, err := svc.UpdateSong(ctx, 1, models.Song{Title: "x"})
			return err
		}},
		{"update without user", func(svc *SongService) error {
			_, err := svc.UpdateSong(ctx, 0, models.Song{ID: 1})
			return err
		}},
		{"remove without song id", func(svc *SongService) error {
			return svc.RemoveSong(ctx, 1, 0)
		}},
		{"remove without user", func(svc *SongService) error {
			return svc.RemoveSong(ctx, 0, 1)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := tu.NewMockStore(models.User{ID: 1})
			err := tt.call(NewSongService(store))

			require.ErrorIs(t, err, shared.ErrInvalidRequest)
			require.Zero(t, store.CallCount(), "validation must happen before any store access")
		})
	}
}

func TestSongServiceStoreFailures(t *testing.T) {
	ctx := context.Background()

	for _, sentinel := range []error{shared.ErrStoreUnavailable, shared.ErrStoreCorrupt} {
		t.Run(sentinel.Error(), func(t *testing.T) {
			store := tu.NewMockStore(models.User{ID: 1})
			store.Err = sentinel
			svc := NewSongService(store)

			_, err := svc.ListSongs(ctx, 1)
			require.ErrorIs(t, err, sentinel)

			_, err = svc.AddSong(ctx, 1, models.SongInput{Title: "x"})
			require.ErrorIs(t, err, sentinel)
		})
	}
}
