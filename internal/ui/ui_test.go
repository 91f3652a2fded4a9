package ui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/songbook/internal/client"
	"github.com/desertthunder/songbook/internal/models"
	"github.com/desertthunder/songbook/internal/shared"
	tu "github.com/desertthunder/songbook/internal/testing"
)

// fakeSongs is an in-memory collection that can be told to fail.
type fakeSongs struct {
	songs []models.Song
	fail  error
}

func (f *fakeSongs) collection() *tu.MockSongCollection {
	return &tu.MockSongCollection{
		ListFn: func(context.Context, int64) ([]models.Song, error) {
			if f.fail != nil {
				return nil, f.fail
			}
			return append([]models.Song{}, f.songs...), nil
		},
		AddFn: func(_ context.Context, _ int64, in models.SongInput) (*models.Song, error) {
			if f.fail != nil {
				return nil, f.fail
			}
			s := in.Song(in.ID)
			f.songs = append(f.songs, s)
			return &s, nil
		},
		UpdateFn: func(_ context.Context, _ int64, song models.Song) (*models.Song, error) {
			if f.fail != nil {
				return nil, f.fail
			}
			for i := range f.songs {
				if f.songs[i].ID == song.ID {
					f.songs[i] = song
					return &song, nil
				}
			}
			return nil, shared.ErrSongNotFound
		},
		RemoveFn: func(_ context.Context, _ int64, id int64) error {
			if f.fail != nil {
				return f.fail
			}
			kept := f.songs[:0]
			for _, s := range f.songs {
				if s.ID != id {
					kept = append(kept, s)
				}
			}
			f.songs = kept
			return nil
		},
	}
}

func newTestModel(t *testing.T, f *fakeSongs) *Model {
	t.Helper()

	notices := NewNotices()
	ctrl := client.NewController(f.collection(), 1, notices, nil)
	m := NewModel(context.Background(), ctrl, notices)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	run(t, m, m.Init())
	return m
}

// run executes cmd synchronously and feeds its message back into the model.
func run(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	m.Update(cmd())
}

func press(m *Model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		_, cmd = m.Update(msg)
	}
	return cmd
}

func TestModel(t *testing.T) {
	t.Run("loads songs on init", func(t *testing.T) {
		m := newTestModel(t, &fakeSongs{songs: []models.Song{{ID: 1, Title: "Blue Monday", Artist: "New Order"}}})

		if m.State() != SongListView {
			t.Fatalf("expected list view, got %v", m.State())
		}
		if !strings.Contains(m.View(), "Blue Monday") {
			t.Errorf("expected song title in view:\n%s", m.View())
		}
	})

	t.Run("fetch failure shows notice", func(t *testing.T) {
		m := newTestModel(t, &fakeSongs{fail: shared.ErrStoreUnavailable})

		view := m.View()
		if !strings.Contains(view, client.MsgFetchFailed) {
			t.Errorf("expected fetch failure notice in view:\n%s", view)
		}
		if !strings.Contains(view, "No favorite songs yet.") {
			t.Errorf("expected empty list in view:\n%s", view)
		}
	})

	t.Run("add song", func(t *testing.T) {
		f := &fakeSongs{}
		m := newTestModel(t, f)

		press(m, "a")
		if m.State() != AddFormView {
			t.Fatalf("expected add form, got %v", m.State())
		}

		press(m, "Ceremony", "tab", "Joy Division", "tab", "tab", "1981")
		run(t, m, press(m, "enter"))

		if m.State() != SongListView {
			t.Fatalf("expected list view after save, got %v", m.State())
		}
		if len(f.songs) != 1 || f.songs[0].Title != "Ceremony" || f.songs[0].Year != 1981 {
			t.Fatalf("unexpected stored songs %+v", f.songs)
		}
		if !strings.Contains(m.View(), client.MsgAdded) {
			t.Errorf("expected success notice in view")
		}
		if len(m.songList.Items()) != 1 {
			t.Errorf("expected list to show 1 item, got %d", len(m.songList.Items()))
		}
	})

	t.Run("add failure keeps form open", func(t *testing.T) {
		f := &fakeSongs{}
		m := newTestModel(t, f)
		f.fail = shared.ErrUserNotFound

		press(m, "a", "Ceremony")
		run(t, m, press(m, "enter"))

		if m.State() != AddFormView {
			t.Errorf("expected add form to stay open, got %v", m.State())
		}
		if !strings.Contains(m.View(), client.MsgAddFailed) {
			t.Errorf("expected failure notice in view")
		}
	})

	t.Run("invalid year is rejected locally", func(t *testing.T) {
		m := newTestModel(t, &fakeSongs{})

		press(m, "a", "Song", "tab", "tab", "tab", "19x")
		if cmd := press(m, "enter"); cmd != nil {
			t.Error("expected no command for an invalid form")
		}
		if !strings.Contains(m.View(), "year must be a number") {
			t.Errorf("expected validation error in view:\n%s", m.View())
		}
	})

	t.Run("cancel add", func(t *testing.T) {
		m := newTestModel(t, &fakeSongs{})

		press(m, "a", "esc")
		if m.State() != SongListView {
			t.Errorf("expected list view after cancel, got %v", m.State())
		}
	})

	t.Run("edit song", func(t *testing.T) {
		f := &fakeSongs{songs: []models.Song{{ID: 7, Title: "Old", Artist: "Someone"}}}
		m := newTestModel(t, f)

		press(m, "e")
		if m.State() != EditFormView {
			t.Fatalf("expected edit form, got %v", m.State())
		}
		if got := m.form.inputs[fieldTitle].Value(); got != "Old" {
			t.Errorf("expected prefilled title, got %q", got)
		}

		m.form.inputs[fieldTitle].SetValue("New")
		run(t, m, press(m, "enter"))

		if m.State() != SongListView {
			t.Fatalf("expected list view after save, got %v", m.State())
		}
		if f.songs[0] != (models.Song{ID: 7, Title: "New", Artist: "Someone"}) {
			t.Errorf("unexpected stored song %+v", f.songs[0])
		}
	})

	t.Run("cancel edit", func(t *testing.T) {
		f := &fakeSongs{songs: []models.Song{{ID: 7, Title: "Old"}}}
		m := newTestModel(t, f)

		press(m, "e", "esc")
		if m.State() != SongListView {
			t.Errorf("expected list view after cancel, got %v", m.State())
		}
		if len(m.songList.Items()) != 1 {
			t.Errorf("cancel must not touch the list")
		}
	})

	t.Run("delete with confirmation", func(t *testing.T) {
		f := &fakeSongs{songs: []models.Song{{ID: 7, Title: "Old"}, {ID: 8, Title: "Other"}}}
		m := newTestModel(t, f)

		press(m, "d")
		if m.State() != ConfirmDeleteView {
			t.Fatalf("expected confirm view, got %v", m.State())
		}

		press(m, "n")
		if m.State() != SongListView || len(f.songs) != 2 {
			t.Fatalf("declining must not delete")
		}

		press(m, "d")
		run(t, m, press(m, "y"))
		if len(f.songs) != 1 || f.songs[0].ID != 8 {
			t.Errorf("unexpected songs after delete %+v", f.songs)
		}
		if len(m.songList.Items()) != 1 {
			t.Errorf("expected list to show 1 item, got %d", len(m.songList.Items()))
		}
	})

	t.Run("quit", func(t *testing.T) {
		m := newTestModel(t, &fakeSongs{})
		if cmd := press(m, "q"); cmd == nil {
			t.Error("expected quit command")
		}
	})
}

func TestNotices(t *testing.T) {
	n := NewNotices()
	if text, _ := n.Latest(); text != "" {
		t.Errorf("expected no notice, got %q", text)
	}

	n.Error("bad")
	n.Success("good")
	text, isErr := n.Latest()
	if text != "good" || isErr {
		t.Errorf("expected latest success, got %q (err=%v)", text, isErr)
	}
}

func TestSongItem(t *testing.T) {
	tests := []struct {
		song        models.Song
		title, desc string
	}{
		{models.Song{ID: 1, Title: "A", Artist: "X", Album: "Y", Year: 2000}, "A", "X • Y • 2000"},
		{models.Song{ID: 2}, "Untitled #2", "id 2"},
	}

	for _, tt := range tests {
		item := songItem{song: tt.song}
		if item.Title() != tt.title || item.Description() != tt.desc {
			t.Errorf("got (%q, %q), want (%q, %q)", item.Title(), item.Description(), tt.title, tt.desc)
		}
	}
}
