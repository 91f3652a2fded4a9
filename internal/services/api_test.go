package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/songbook/internal/models"
	"github.com/desertthunder/songbook/internal/shared"
	tu "github.com/desertthunder/songbook/internal/testing"
)

func TestAPIService(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("With Custom BaseURL and Client", func(t *testing.T) {
			customClient := &http.Client{}
			srv := NewAPIService("http://example.com", customClient)

			if srv.baseURL != "http://example.com" {
				t.Errorf("expected baseURL 'http://example.com', got %s", srv.baseURL)
			}
			if srv.httpClient != customClient {
				t.Error("expected custom client to be used")
			}
		})

		t.Run("With Empty BaseURL and Nil Client", func(t *testing.T) {
			srv := NewAPIService("", nil)

			if srv.baseURL != "http://127.0.0.1:3000" {
				t.Errorf("expected default baseURL, got %s", srv.baseURL)
			}
			if srv.httpClient != http.DefaultClient {
				t.Error("expected http.DefaultClient to be used")
			}
		})
	})

	t.Run("Do", func(t *testing.T) {
		t.Run("Sends JSON Body", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if ct := r.Header.Get("Content-Type"); ct != "application/json" {
					t.Errorf("expected JSON content type, got %q", ct)
				}
				body, _ := io.ReadAll(r.Body)
				w.WriteHeader(http.StatusCreated)
				w.Write(body)
			}))
			defer server.Close()

			resp, err := NewAPIService(server.URL, nil).Do(context.Background(), http.MethodPost, "/echo", []byte(`{"a":1}`))
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if resp.StatusCode != http.StatusCreated || string(resp.Body) != `{"a":1}` {
				t.Errorf("unexpected response %d %s", resp.StatusCode, resp.Body)
			}
		})

		t.Run("No Content Type Without Body", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if ct := r.Header.Get("Content-Type"); ct != "" {
					t.Errorf("expected no content type, got %q", ct)
				}
				w.Write([]byte("plain text"))
			}))
			defer server.Close()

			resp, err := NewAPIService(server.URL, nil).Do(context.Background(), http.MethodGet, "/", nil)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !resp.OK() || string(resp.Body) != "plain text" {
				t.Errorf("unexpected response %d %s", resp.StatusCode, resp.Body)
			}
		})

		t.Run("Transport Failure", func(t *testing.T) {
			client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused"))}

			_, err := NewAPIService("http://example.com", client).Do(context.Background(), http.MethodGet, "/", nil)
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})

		t.Run("Body Read Failure", func(t *testing.T) {
			client := &http.Client{Transport: tu.NewMockRoundTripper(&http.Response{
				StatusCode: http.StatusOK,
				Body:       &tu.FCloser{},
				Header:     http.Header{},
			}, nil)}

			_, err := NewAPIService("http://example.com", client).Do(context.Background(), http.MethodGet, "/", nil)
			if err == nil || !strings.Contains(err.Error(), "failed to read response") {
				t.Errorf("expected read error, got %v", err)
			}
		})
	})

	t.Run("Health", func(t *testing.T) {
		t.Run("Healthy Server", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet || r.URL.Path != "/health" {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
			}))
			defer server.Close()

			if err := NewAPIService(server.URL, nil).Health(context.Background()); err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})

		t.Run("Unreachable Server", func(t *testing.T) {
			server := httptest.NewServer(http.NotFoundHandler())
			url := server.URL
			server.Close()

			if err := NewAPIService(url, nil).Health(context.Background()); !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})

		t.Run("Error Status", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			}))
			defer server.Close()

			if err := NewAPIService(server.URL, nil).Health(context.Background()); !errors.Is(err, shared.ErrStoreUnavailable) {
				t.Errorf("expected ErrStoreUnavailable, got %v", err)
			}
		})
	})
}

func TestAPIServiceSongs(t *testing.T) {
	ctx := context.Background()

	t.Run("ListSongs", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/users/songs" || r.URL.Query().Get("userId") != "3" {
				t.Errorf("unexpected request %s", r.URL)
			}
			json.NewEncoder(w).Encode([]models.Song{{ID: 1, Title: "A"}})
		}))
		defer server.Close()

		songs, err := NewAPIService(server.URL, nil).ListSongs(ctx, 3)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(songs) != 1 || songs[0].Title != "A" {
			t.Errorf("unexpected songs %+v", songs)
		}
	})

	t.Run("ListSongs null body yields empty slice", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("null"))
		}))
		defer server.Close()

		songs, err := NewAPIService(server.URL, nil).ListSongs(ctx, 3)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if songs == nil || len(songs) != 0 {
			t.Errorf("expected empty non-nil slice, got %#v", songs)
		}
	})

	t.Run("AddSong", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("expected POST, got %s", r.Method)
			}

			var req AddSongRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatalf("failed to decode request: %v", err)
			}
			if req.UserID != 1 || req.Song == nil || req.Song.Title != "A" {
				t.Errorf("unexpected request %+v", req)
			}

			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(req.Song.Song(55))
		}))
		defer server.Close()

		song, err := NewAPIService(server.URL, nil).AddSong(ctx, 1, models.SongInput{Title: "A"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if song.ID != 55 {
			t.Errorf("expected server id 55, got %d", song.ID)
		}
	})

	t.Run("UpdateSong and RemoveSong", func(t *testing.T) {
		var methods []string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			methods = append(methods, r.Method)
			switch r.Method {
			case http.MethodPut:
				var req UpdateSongRequest
				json.NewDecoder(r.Body).Decode(&req)
				json.NewEncoder(w).Encode(req.Song)
			case http.MethodDelete:
				var req RemoveSongRequest
				json.NewDecoder(r.Body).Decode(&req)
				if req.SongID != 9 {
					t.Errorf("expected songId 9, got %d", req.SongID)
				}
				json.NewEncoder(w).Encode(MessageResponse{Message: "Song deleted successfully"})
			}
		}))
		defer server.Close()

		api := NewAPIService(server.URL, nil)
		song, err := api.UpdateSong(ctx, 1, models.Song{ID: 9, Title: "B"})
		if err != nil || song.Title != "B" {
			t.Fatalf("unexpected update result %+v, %v", song, err)
		}
		if err := api.RemoveSong(ctx, 1, 9); err != nil {
			t.Fatalf("unexpected remove error: %v", err)
		}
		if strings.Join(methods, ",") != "PUT,DELETE" {
			t.Errorf("unexpected methods %v", methods)
		}
	})

	t.Run("validates before any request", func(t *testing.T) {
		client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("should not be called"))}
		api := NewAPIService("http://example.com", client)

		if _, err := api.ListSongs(ctx, 0); !errors.Is(err, shared.ErrInvalidRequest) {
			t.Errorf("expected ErrInvalidRequest, got %v", err)
		}
		if _, err := api.AddSong(ctx, 1, models.SongInput{}); !errors.Is(err, shared.ErrInvalidRequest) {
			t.Errorf("expected ErrInvalidRequest, got %v", err)
		}
		if _, err := api.UpdateSong(ctx, 1, models.Song{}); !errors.Is(err, shared.ErrInvalidRequest) {
			t.Errorf("expected ErrInvalidRequest, got %v", err)
		}
		if err := api.RemoveSong(ctx, 1, 0); !errors.Is(err, shared.ErrInvalidRequest) {
			t.Errorf("expected ErrInvalidRequest, got %v", err)
		}
	})
}

func TestAPIResponseErr(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"code wins over status", http.StatusNotFound, `{"message":"no song","code":"song_not_found"}`, shared.ErrSongNotFound},
		{"user not found code", http.StatusNotFound, `{"message":"no user","code":"user_not_found"}`, shared.ErrUserNotFound},
		{"duplicate song", http.StatusConflict, `{"message":"dup","code":"duplicate_song"}`, shared.ErrDuplicateSong},
		{"corrupt store", http.StatusInternalServerError, `{"message":"bad","code":"store_corrupt"}`, shared.ErrStoreCorrupt},
		{"status fallback 400", http.StatusBadRequest, `oops`, shared.ErrInvalidRequest},
		{"status fallback 429", http.StatusTooManyRequests, ``, shared.ErrRateLimited},
		{"status fallback 503", http.StatusServiceUnavailable, `{}`, shared.ErrStoreUnavailable},
		{"unknown status", http.StatusTeapot, `{}`, shared.ErrAPIRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &APIResponse{StatusCode: tt.status, Body: []byte(tt.body)}
			if err := resp.Err(); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	t.Run("success is nil", func(t *testing.T) {
		if err := (&APIResponse{StatusCode: http.StatusCreated}).Err(); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})
}
