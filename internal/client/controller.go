// Package client holds the interactive song list state and reconciles it with a song collection.
package client

import (
	"context"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/songbook/internal/models"
	"github.com/desertthunder/songbook/internal/services"
	"github.com/desertthunder/songbook/internal/shared"
)

// Notification texts shown to the user. Failures are reported per operation, never per error kind.
const (
	MsgFetchFailed  = "Failed to fetch songs."
	MsgAdded        = "Song added successfully!"
	MsgAddFailed    = "Failed to add song."
	MsgUpdated      = "Song updated successfully!"
	MsgUpdateFailed = "Failed to update song."
	MsgRemoved      = "Song removed successfully!"
	MsgRemoveFailed = "Failed to delete song."
)

// Notifier surfaces non-fatal messages to the user.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

type discardNotifier struct{}

func (discardNotifier) Success(string) {}
func (discardNotifier) Error(string)   {}

// Controller is the UI's copy of one user's song list.
//
// State changes only after the collection confirms an operation, so a failed call never needs
// a rollback. All methods are safe for concurrent use.
type Controller struct {
	mu             sync.Mutex
	userID         int64
	songs          []models.Song
	editing        *models.Song
	addFormVisible bool

	svc      services.SongCollection
	notifier Notifier
	logger   *log.Logger
	newID    func() int64
}

// NewController creates a controller for userID. A nil notifier or logger discards its output.
func NewController(svc services.SongCollection, userID int64, notifier Notifier, logger *log.Logger) *Controller {
	if notifier == nil {
		notifier = discardNotifier{}
	}
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}

	return &Controller{
		userID:   userID,
		songs:    []models.Song{},
		svc:      svc,
		notifier: notifier,
		logger:   logger,
		newID:    shared.ClientSongID,
	}
}

// UserID returns the user whose songs are shown.
func (c *Controller) UserID() int64 { return c.userID }

func (c *Controller) failed(op, msg string, err error) {
	c.logger.Error("song request failed", "op", op, "user", c.userID, "kind", shared.KindOf(err), "err", err)
	c.notifier.Error(msg)
}

// Mount loads the user's songs. On failure the list is left empty.
func (c *Controller) Mount(ctx context.Context) error {
	songs, err := c.svc.ListSongs(ctx, c.userID)
	if err != nil {
		c.mu.Lock()
		c.songs = []models.Song{}
		c.mu.Unlock()

		c.failed("list", MsgFetchFailed, err)
		return err
	}

	c.mu.Lock()
	c.songs = append([]models.Song{}, songs...)
	c.mu.Unlock()
	return nil
}

// RequestAdd stamps the input with a client-side id and asks the collection to store it.
// On success the returned song is appended and the add form closes.
func (c *Controller) RequestAdd(ctx context.Context, in models.SongInput) (*models.Song, error) {
	in.ID = c.newID()

	song, err := c.svc.AddSong(ctx, c.userID, in)
	if err != nil {
		c.failed("add", MsgAddFailed, err)
		return nil, err
	}

	c.mu.Lock()
	c.songs = append(c.songs, *song)
	c.addFormVisible = false
	c.mu.Unlock()

	c.notifier.Success(MsgAdded)
	return song, nil
}

// RequestUpdate replaces a song. On success the local entry with the same id is replaced
// and editing ends.
func (c *Controller) RequestUpdate(ctx context.Context, song models.Song) (*models.Song, error) {
	updated, err := c.svc.UpdateSong(ctx, c.userID, song)
	if err != nil {
		c.failed("update", MsgUpdateFailed, err)
		return nil, err
	}

	c.mu.Lock()
	for i := range c.songs {
		if c.songs[i].ID == updated.ID {
			c.songs[i] = *updated
			break
		}
	}
	c.editing = nil
	c.mu.Unlock()

	c.notifier.Success(MsgUpdated)
	return updated, nil
}

// RequestRemove deletes a song. On success every local entry with that id is dropped.
func (c *Controller) RequestRemove(ctx context.Context, songID int64) error {
	if err := c.svc.RemoveSong(ctx, c.userID, songID); err != nil {
		c.failed("remove", MsgRemoveFailed, err)
		return err
	}

	c.mu.Lock()
	kept := make([]models.Song, 0, len(c.songs))
	for _, s := range c.songs {
		if s.ID != songID {
			kept = append(kept, s)
		}
	}
	c.songs = kept
	if c.editing != nil && c.editing.ID == songID {
		c.editing = nil
	}
	c.mu.Unlock()

	c.notifier.Success(MsgRemoved)
	return nil
}

// ShowAddForm opens the add form.
func (c *Controller) ShowAddForm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.addFormVisible = true
}

// HideAddForm closes the add form without saving.
func (c *Controller) HideAddForm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.addFormVisible = false
}

// AddFormVisible reports whether the add form is open.
func (c *Controller) AddFormVisible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.addFormVisible
}

// BeginEdit puts the first song with the given id into edit mode, replacing any previous one.
// It reports false when no such song is loaded.
func (c *Controller) BeginEdit(songID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, s := range c.songs {
		if s.ID == songID {
			editing := s
			c.editing = &editing
			return true
		}
	}
	return false
}

// CancelEdit leaves edit mode without saving. The song list is not touched.
func (c *Controller) CancelEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editing = nil
}

// Editing returns a copy of the song in edit mode, or nil.
func (c *Controller) Editing() *models.Song {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.editing == nil {
		return nil
	}
	s := *c.editing
	return &s
}

// Songs returns a copy of the current list.
func (c *Controller) Songs() []models.Song {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Song{}, c.songs...)
}
