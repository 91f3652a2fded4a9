package services

import (
	"context"
	"fmt"

	"github.com/desertthunder/songbook/internal/models"
	"github.com/desertthunder/songbook/internal/repositories"
	"github.com/desertthunder/songbook/internal/shared"
)

// maxIDAttempts bounds the search for a server-assigned song id that is free within the user's list.
const maxIDAttempts = 32

// SongService implements [SongCollection] over a [repositories.RecordStore].
//
// Every mutation is a single [repositories.RecordStore.Update] call, so concurrent
// operations on one user are applied one after another instead of overwriting each other.
type SongService struct {
	store repositories.RecordStore
	newID func() int64
}

// NewSongService creates a [SongService] backed by store.
func NewSongService(store repositories.RecordStore) *SongService {
	return &SongService{store: store, newID: shared.NumericID}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{shared.ErrInvalidRequest}, args...)...)
}

func validateUserID(userID int64) error {
	if userID <= 0 {
		return invalid("userId must be a positive integer")
	}
	return nil
}

func validateAdd(userID int64, in models.SongInput) error {
	if err := validateUserID(userID); err != nil {
		return err
	}
	if in.Empty() {
		return invalid("song is required")
	}
	if in.ID < 0 {
		return invalid("song id must be positive when supplied")
	}
	return nil
}

func validateUpdate(userID int64, song models.Song) error {
	if err := validateUserID(userID); err != nil {
		return err
	}
	if song.ID <= 0 {
		return invalid("song id is required")
	}
	return nil
}

func validateRemove(userID, songID int64) error {
	if err := validateUserID(userID); err != nil {
		return err
	}
	if songID <= 0 {
		return invalid("songId is required")
	}
	return nil
}

func (s *SongService) ListSongs(ctx context.Context, userID int64) ([]models.Song, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	user, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Clone().FavoriteSongs, nil
}

func (s *SongService) AddSong(ctx context.Context, userID int64, in models.SongInput) (*models.Song, error) {
	if err := validateAdd(userID, in); err != nil {
		return nil, err
	}

	var stored models.Song
	err := s.store.Update(ctx, userID, func(u *models.User) error {
		id := in.ID
		switch {
		case id == 0:
			var err error
			if id, err = s.freeID(u); err != nil {
				return err
			}
		case u.HasSong(id):
			return fmt.Errorf("%w: song %d already exists for user %d", shared.ErrDuplicateSong, id, userID)
		}

		stored = in.Song(id)
		u.FavoriteSongs = append(u.FavoriteSongs, stored)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (s *SongService) UpdateSong(ctx context.Context, userID int64, song models.Song) (*models.Song, error) {
	if err := validateUpdate(userID, song); err != nil {
		return nil, err
	}

	err := s.store.Update(ctx, userID, func(u *models.User) error {
		idx := u.IndexOfSong(song.ID)
		if idx < 0 {
			return fmt.Errorf("%w: song %d for user %d", shared.ErrSongNotFound, song.ID, userID)
		}
		u.FavoriteSongs[idx] = song
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &song, nil
}

func (s *SongService) RemoveSong(ctx context.Context, userID, songID int64) error {
	if err := validateRemove(userID, songID); err != nil {
		return err
	}

	return s.store.Update(ctx, userID, func(u *models.User) error {
		kept := make([]models.Song, 0, len(u.FavoriteSongs))
		for _, song := range u.FavoriteSongs {
			if song.ID != songID {
				kept = append(kept, song)
			}
		}
		u.FavoriteSongs = kept
		return nil
	})
}

// freeID draws ids until one is unused in the user's collection.
func (s *SongService) freeID(u *models.User) (int64, error) {
	for range maxIDAttempts {
		if id := s.newID(); id > 0 && !u.HasSong(id) {
			return id, nil
		}
	}
	return 0, fmt.Errorf("%w: could not allocate a song id for user %d", shared.ErrDuplicateSong, u.ID)
}
