package services

import (
	"context"

	"github.com/desertthunder/songbook/internal/models"
)

// SongCollection is user-scoped CRUD over a user's favorite songs.
//
// Implementations validate their arguments before touching storage or the network,
// and report failures with the sentinels in the shared package.
type SongCollection interface {
	// ListSongs returns the user's favorite songs in stored order. The slice is never nil.
	ListSongs(ctx context.Context, userID int64) ([]models.Song, error)

	// AddSong appends a song to the end of the user's collection and returns the stored song.
	// A zero input id asks for a server-assigned id.
	AddSong(ctx context.Context, userID int64, in models.SongInput) (*models.Song, error)

	// UpdateSong replaces the first song with a matching id. Fields absent from song are not kept.
	UpdateSong(ctx context.Context, userID int64, song models.Song) (*models.Song, error)

	// RemoveSong drops every song with the given id. Removing an absent song succeeds.
	RemoveSong(ctx context.Context, userID, songID int64) error
}

// SignupInput carries the fields needed to create a user.
type SignupInput struct {
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

// AddSongRequest is the body of POST /api/users/songs.
type AddSongRequest struct {
	UserID int64             `json:"userId"`
	Song   *models.SongInput `json:"song"`
}

// UpdateSongRequest is the body of PUT /api/users/songs.
type UpdateSongRequest struct {
	UserID int64        `json:"userId"`
	Song   *models.Song `json:"song"`
}

// RemoveSongRequest is the body of DELETE /api/users/songs.
type RemoveSongRequest struct {
	UserID int64 `json:"userId"`
	SongID int64 `json:"songId"`
}

// MessageResponse is a plain confirmation body.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}
