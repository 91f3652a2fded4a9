// API service for talking to the songbook HTTP server
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/desertthunder/songbook/internal/models"
	"github.com/desertthunder/songbook/internal/shared"
)

// APIService implements [SongCollection] against a remote songbook server.
type APIService struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIService creates a new API service instance for the server at baseURL.
func NewAPIService(baseURL string, client *http.Client) *APIService {
	if baseURL == "" {
		baseURL = "http://127.0.0.1:3000"
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &APIService{
		baseURL:    baseURL,
		httpClient: client,
	}
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the status code is 2xx.
func (r *APIResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Err converts a failed response into an error wrapping the matching shared sentinel.
// The error code in the body wins; the status code is the fallback.
func (r *APIResponse) Err() error {
	if r.OK() {
		return nil
	}

	var body ErrorResponse
	_ = json.Unmarshal(r.Body, &body)

	sentinel := shared.ErrorFromCode(body.Code)
	if sentinel == shared.ErrAPIRequest {
		sentinel = sentinelForStatus(r.StatusCode)
	}

	if body.Message == "" {
		body.Message = http.StatusText(r.StatusCode)
	}
	return fmt.Errorf("%w: %s (status %d)", sentinel, body.Message, r.StatusCode)
}

func sentinelForStatus(status int) error {
	switch status {
	case http.StatusBadRequest:
		return shared.ErrInvalidRequest
	case http.StatusNotFound:
		return shared.ErrUserNotFound
	case http.StatusConflict:
		return shared.ErrDuplicateSong
	case http.StatusTooManyRequests:
		return shared.ErrRateLimited
	case http.StatusServiceUnavailable:
		return shared.ErrStoreUnavailable
	default:
		return shared.ErrAPIRequest
	}
}

// Do sends a request with an optional JSON body and returns the raw response.
func (a *APIService) Do(ctx context.Context, method, path string, data []byte) (*APIResponse, error) {
	var body io.Reader
	if data != nil {
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", shared.ErrAPIRequest, err)
	}
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %w", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", shared.ErrAPIRequest, err)
	}

	return &APIResponse{StatusCode: resp.StatusCode, Body: raw}, nil
}

// call encodes payload, sends it and decodes a successful body into out.
func (a *APIService) call(ctx context.Context, method, path string, payload, out any) error {
	var data []byte
	if payload != nil {
		var err error
		if data, err = json.Marshal(payload); err != nil {
			return fmt.Errorf("%w: failed to encode request: %w", shared.ErrAPIRequest, err)
		}
	}

	resp, err := a.Do(ctx, method, path, data)
	if err != nil {
		return err
	}
	if err := resp.Err(); err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %w", shared.ErrAPIRequest, err)
	}
	return nil
}

func (a *APIService) ListSongs(ctx context.Context, userID int64) ([]models.Song, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	songs := []models.Song{}
	path := "/api/users/songs?" + url.Values{"userId": {strconv.FormatInt(userID, 10)}}.Encode()
	if err := a.call(ctx, http.MethodGet, path, nil, &songs); err != nil {
		return nil, err
	}
	if songs == nil {
		songs = []models.Song{}
	}
	return songs, nil
}

func (a *APIService) AddSong(ctx context.Context, userID int64, in models.SongInput) (*models.Song, error) {
	if err := validateAdd(userID, in); err != nil {
		return nil, err
	}

	var song models.Song
	if err := a.call(ctx, http.MethodPost, "/api/users/songs", AddSongRequest{UserID: userID, Song: &in}, &song); err != nil {
		return nil, err
	}
	return &song, nil
}

func (a *APIService) UpdateSong(ctx context.Context, userID int64, song models.Song) (*models.Song, error) {
	if err := validateUpdate(userID, song); err != nil {
		return nil, err
	}

	var updated models.Song
	if err := a.call(ctx, http.MethodPut, "/api/users/songs", UpdateSongRequest{UserID: userID, Song: &song}, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (a *APIService) RemoveSong(ctx context.Context, userID, songID int64) error {
	if err := validateRemove(userID, songID); err != nil {
		return err
	}

	var msg MessageResponse
	return a.call(ctx, http.MethodDelete, "/api/users/songs", RemoveSongRequest{UserID: userID, SongID: songID}, &msg)
}

// Signup creates a user on the server.
func (a *APIService) Signup(ctx context.Context, in SignupInput) (*models.Profile, error) {
	var profile models.Profile
	if err := a.call(ctx, http.MethodPost, "/api/auth/signup", in, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Profile fetches the public profile of a user.
func (a *APIService) Profile(ctx context.Context, id int64) (*models.Profile, error) {
	if err := validateUserID(id); err != nil {
		return nil, err
	}

	var profile models.Profile
	if err := a.call(ctx, http.MethodGet, "/api/users/"+strconv.FormatInt(id, 10), nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Health checks that the server is reachable and answering.
func (a *APIService) Health(ctx context.Context) error {
	var status map[string]string
	return a.call(ctx, http.MethodGet, "/health", nil, &status)
}
