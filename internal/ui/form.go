package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/songbook/internal/models"
)

const (
	fieldTitle = iota
	fieldArtist
	fieldAlbum
	fieldYear
	fieldCount
)

var fieldLabels = [fieldCount]string{"Title", "Artist", "Album", "Year"}

// songForm edits the descriptive fields of one song.
type songForm struct {
	inputs [fieldCount]textinput.Model
	focus  int
	songID int64 // zero when adding
	err    string
}

// newSongForm returns a form prefilled from song, or empty when song is nil.
func newSongForm(song *models.Song) songForm {
	var f songForm
	for i := range f.inputs {
		in := textinput.New()
		in.Placeholder = fieldLabels[i]
		in.CharLimit = 128
		f.inputs[i] = in
	}
	f.inputs[fieldYear].CharLimit = 4

	if song != nil {
		f.songID = song.ID
		f.inputs[fieldTitle].SetValue(song.Title)
		f.inputs[fieldArtist].SetValue(song.Artist)
		f.inputs[fieldAlbum].SetValue(song.Album)
		if song.Year != 0 {
			f.inputs[fieldYear].SetValue(strconv.Itoa(song.Year))
		}
	}

	f.inputs[fieldTitle].Focus()
	return f
}

// move shifts focus by delta, wrapping around.
func (f *songForm) move(delta int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + fieldCount) % fieldCount
	return f.inputs[f.focus].Focus()
}

func (f *songForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

// input returns the typed values. The year must be empty or a whole number.
func (f *songForm) input() (models.SongInput, error) {
	in := models.SongInput{
		Title:  strings.TrimSpace(f.inputs[fieldTitle].Value()),
		Artist: strings.TrimSpace(f.inputs[fieldArtist].Value()),
		Album:  strings.TrimSpace(f.inputs[fieldAlbum].Value()),
	}

	if raw := strings.TrimSpace(f.inputs[fieldYear].Value()); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil || year < 0 {
			return in, fmt.Errorf("year must be a number, got %q", raw)
		}
		in.Year = year
	}

	if in.Empty() {
		return in, fmt.Errorf("enter at least a title")
	}
	return in, nil
}

func (f songForm) view(title string) string {
	var b strings.Builder
	b.WriteString(styles.title.Render(title))
	b.WriteString("\n")

	for i, in := range f.inputs {
		b.WriteString(styles.label.Render(fieldLabels[i]))
		b.WriteString(in.View())
		b.WriteString("\n")
	}

	if f.err != "" {
		b.WriteString("\n")
		b.WriteString(styles.err.Render(f.err))
		b.WriteString("\n")
	}
	return b.String()
}
