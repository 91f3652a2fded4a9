// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/songbook/internal/models"
	"github.com/desertthunder/songbook/internal/shared"
)

// MockStore is an in-memory record store that counts calls and can be told to fail.
type MockStore struct {
	mu    sync.Mutex
	users []models.User
	Calls int
	Err   error
}

// NewMockStore returns a store seeded with deep copies of users.
func NewMockStore(users ...models.User) *MockStore {
	s := &MockStore{}
	for _, u := range users {
		s.users = append(s.users, u.Clone())
	}
	return s
}

func (s *MockStore) begin() error {
	s.Calls++
	return s.Err
}

func (s *MockStore) ReadAll(context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(); err != nil {
		return nil, err
	}

	users := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u.Clone())
	}
	return users, nil
}

func (s *MockStore) WriteAll(_ context.Context, users []models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(); err != nil {
		return err
	}

	s.users = s.users[:0]
	for _, u := range users {
		s.users = append(s.users, u.Clone())
	}
	return nil
}

func (s *MockStore) Get(_ context.Context, id int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(); err != nil {
		return nil, err
	}

	for _, u := range s.users {
		if u.ID == id {
			c := u.Clone()
			return &c, nil
		}
	}
	return nil, shared.ErrUserNotFound
}

func (s *MockStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(); err != nil {
		return err
	}

	for _, u := range s.users {
		if u.ID == user.ID {
			return shared.ErrDuplicateUser
		}
	}
	s.users = append(s.users, user.Clone())
	return nil
}

func (s *MockStore) Update(_ context.Context, id int64, fn func(*models.User) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(); err != nil {
		return err
	}

	for i := range s.users {
		if s.users[i].ID == id {
			u := s.users[i].Clone()
			if err := fn(&u); err != nil {
				return err
			}
			s.users[i] = u
			return nil
		}
	}
	return shared.ErrUserNotFound
}

func (s *MockStore) Close() error { return nil }

// CallCount returns the number of store calls made so far.
func (s *MockStore) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Calls
}

// MockSongCollection is a scriptable test double for [services.SongCollection].
// A nil function field makes the matching call fail with Err.
type MockSongCollection struct {
	ListFn   func(ctx context.Context, userID int64) ([]models.Song, error)
	AddFn    func(ctx context.Context, userID int64, in models.SongInput) (*models.Song, error)
	UpdateFn func(ctx context.Context, userID int64, song models.Song) (*models.Song, error)
	RemoveFn func(ctx context.Context, userID, songID int64) error
	Err      error
}

func (m *MockSongCollection) fail() error {
	if m.Err != nil {
		return m.Err
	}
	return shared.ErrNotImplemented
}

func (m *MockSongCollection) ListSongs(ctx context.Context, userID int64) ([]models.Song, error) {
	if m.ListFn == nil {
		return nil, m.fail()
	}
	return m.ListFn(ctx, userID)
}

func (m *MockSongCollection) AddSong(ctx context.Context, userID int64, in models.SongInput) (*models.Song, error) {
	if m.AddFn == nil {
		return nil, m.fail()
	}
	return m.AddFn(ctx, userID, in)
}

func (m *MockSongCollection) UpdateSong(ctx context.Context, userID int64, song models.Song) (*models.Song, error) {
	if m.UpdateFn == nil {
		return nil, m.fail()
	}
	return m.UpdateFn(ctx, userID, song)
}

func (m *MockSongCollection) RemoveSong(ctx context.Context, userID, songID int64) error {
	if m.RemoveFn == nil {
		return m.fail()
	}
	return m.RemoveFn(ctx, userID, songID)
}

// MockNotifier records success and error notifications.
type MockNotifier struct {
	mu        sync.Mutex
	Successes []string
	Errors    []string
}

func (n *MockNotifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Successes = append(n.Successes, msg)
}

func (n *MockNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Errors = append(n.Errors, msg)
}

// Last returns the most recent success and error messages, empty when none.
func (n *MockNotifier) Last() (success, failure string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.Successes) > 0 {
		success = n.Successes[len(n.Successes)-1]
	}
	if len(n.Errors) > 0 {
		failure = n.Errors[len(n.Errors)-1]
	}
	return success, failure
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if err == nil && !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}
