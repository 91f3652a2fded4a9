package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/songbook/internal/services"
	"github.com/desertthunder/songbook/internal/shared"
)

const songsPath = "/api/users/songs"

// SongsHandler exposes a [services.SongCollection] over HTTP.
type SongsHandler struct {
	songs   services.SongCollection
	metrics *Metrics
	logger  *log.Logger
}

// NewSongsHandler creates a [SongsHandler]. metrics may be nil.
func NewSongsHandler(songs services.SongCollection, metrics *Metrics, logger *log.Logger) *SongsHandler {
	return &SongsHandler{songs: songs, metrics: metrics, logger: logger}
}

// Routes returns the four song collection endpoints.
func (h *SongsHandler) Routes() []Route {
	return []Route{
		{Method: http.MethodGet, Path: songsPath, Handler: h.List},
		{Method: http.MethodPost, Path: songsPath, Handler: h.Add},
		{Method: http.MethodPut, Path: songsPath, Handler: h.Update},
		{Method: http.MethodDelete, Path: songsPath, Handler: h.Remove},
	}
}

func (h *SongsHandler) fail(w http.ResponseWriter, op string, err error) {
	h.metrics.ObserveSongOp(op, err)
	if StatusFor(err) >= http.StatusInternalServerError {
		h.logger.Error("song operation failed", "op", op, "kind", shared.KindOf(err), "err", err)
	}
	writeError(w, err)
}

// List handles GET /api/users/songs?userId=N.
func (h *SongsHandler) List(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.URL.Query().Get("userId"))
	if raw == "" {
		h.fail(w, "list", missingField("userId"))
		return
	}

	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.fail(w, "list", invalidParam("userId", raw))
		return
	}

	songs, err := h.songs.ListSongs(r.Context(), userID)
	if err != nil {
		h.fail(w, "list", err)
		return
	}

	h.metrics.ObserveSongOp("list", nil)
	writeJSON(w, http.StatusOK, songs)
}

// Add handles POST /api/users/songs with {userId, song}. A song without an id gets a fresh one;
// a caller-supplied id already in the user's collection is rejected with 409 and code duplicate_song.
func (h *SongsHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req services.AddSongRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, "add", err)
		return
	}
	if req.Song == nil {
		h.fail(w, "add", missingField("song"))
		return
	}

	song, err := h.songs.AddSong(r.Context(), req.UserID, *req.Song)
	if err != nil {
		h.fail(w, "add", err)
		return
	}

	h.metrics.ObserveSongOp("add", nil)
	writeJSON(w, http.StatusCreated, song)
}

// Update handles PUT /api/users/songs with {userId, song}.
func (h *SongsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req services.UpdateSongRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, "update", err)
		return
	}
	if req.Song == nil {
		h.fail(w, "update", missingField("song"))
		return
	}

	song, err := h.songs.UpdateSong(r.Context(), req.UserID, *req.Song)
	if err != nil {
		h.fail(w, "update", err)
		return
	}

	h.metrics.ObserveSongOp("update", nil)
	writeJSON(w, http.StatusOK, song)
}

// Remove handles DELETE /api/users/songs with {userId, songId}.
func (h *SongsHandler) Remove(w http.ResponseWriter, r *http.Request) {
	var req services.RemoveSongRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, "remove", err)
		return
	}

	if err := h.songs.RemoveSong(r.Context(), req.UserID, req.SongID); err != nil {
		h.fail(w, "remove", err)
		return
	}

	h.metrics.ObserveSongOp("remove", nil)
	writeJSON(w, http.StatusOK, services.MessageResponse{Message: "Song deleted successfully"})
}
