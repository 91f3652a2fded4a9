package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"github.com/desertthunder/songbook/internal/models"
)

var _ list.Item = songItem{}

// songItem wraps [models.Song] to implement [list.Item].
type songItem struct {
	song models.Song
}

func (i songItem) FilterValue() string { return i.song.Title + " " + i.song.Artist }

func (i songItem) Title() string {
	if i.song.Title == "" {
		return fmt.Sprintf("Untitled #%d", i.song.ID)
	}
	return i.song.Title
}

func (i songItem) Description() string {
	parts := []string{}
	if i.song.Artist != "" {
		parts = append(parts, i.song.Artist)
	}
	if i.song.Album != "" {
		parts = append(parts, i.song.Album)
	}
	if i.song.Year != 0 {
		parts = append(parts, fmt.Sprint(i.song.Year))
	}
	if len(parts) == 0 {
		return fmt.Sprintf("id %d", i.song.ID)
	}
	return strings.Join(parts, " • ")
}

func songItems(songs []models.Song) []list.Item {
	items := make([]list.Item, len(songs))
	for i, s := range songs {
		items[i] = songItem{song: s}
	}
	return items
}
