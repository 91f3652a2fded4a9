// package models defines the data model for the songbook service
package models

import "strings"

// Song is a single favorite song. Identifiers are unique within a user's collection.
//
// Descriptive fields are opaque to the collection service and omitted from JSON when empty,
// so a full-overwrite update drops any field the caller did not resupply.
type Song struct {
	ID     int64  `json:"id"`
	Title  string `json:"title,omitempty"`
	Artist string `json:"artist,omitempty"`
	Album  string `json:"album,omitempty"`
	Year   int    `json:"year,omitempty"`
}

// SongInput is the payload for adding a song. ID is optional (zero means unassigned).
type SongInput struct {
	ID     int64  `json:"id,omitempty"`
	Title  string `json:"title,omitempty"`
	Artist string `json:"artist,omitempty"`
	Album  string `json:"album,omitempty"`
	Year   int    `json:"year,omitempty"`
}

// Empty reports whether the input carries no song data at all.
func (in SongInput) Empty() bool {
	return in.ID == 0 &&
		strings.TrimSpace(in.Title) == "" &&
		strings.TrimSpace(in.Artist) == "" &&
		strings.TrimSpace(in.Album) == "" &&
		in.Year == 0
}

// Song converts the input to a [Song] with the given identifier.
func (in SongInput) Song(id int64) Song {
	return Song{ID: id, Title: in.Title, Artist: in.Artist, Album: in.Album, Year: in.Year}
}

// Input converts the song back to a [SongInput], keeping its identifier.
func (s Song) Input() SongInput {
	return SongInput{ID: s.ID, Title: s.Title, Artist: s.Artist, Album: s.Album, Year: s.Year}
}

// User is a profile with an ordered collection of favorite songs.
type User struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email,omitempty"`
	Password      string `json:"password"`
	ProfileImage  string `json:"profileImage"`
	FavoriteSongs []Song `json:"favoriteSongs"`
}

// IndexOfSong returns the position of the first song with the given id, or -1.
func (u *User) IndexOfSong(id int64) int {
	for i, s := range u.FavoriteSongs {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// HasSong reports whether any song in the collection has the given id.
func (u *User) HasSong(id int64) bool {
	return u.IndexOfSong(id) >= 0
}

// Clone returns a deep copy of the user so callers can mutate it freely.
func (u User) Clone() User {
	songs := make([]Song, len(u.FavoriteSongs))
	copy(songs, u.FavoriteSongs)
	u.FavoriteSongs = songs
	return u
}

// Profile is the public view of a [User]; it never carries the credential hash.
type Profile struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email,omitempty"`
	ProfileImage  string `json:"profileImage"`
	FavoriteSongs []Song `json:"favoriteSongs"`
}

// Profile returns the public view of the user.
func (u User) Profile() Profile {
	c := u.Clone()
	return Profile{
		ID:            c.ID,
		Name:          c.Name,
		Email:         c.Email,
		ProfileImage:  c.ProfileImage,
		FavoriteSongs: c.FavoriteSongs,
	}
}
