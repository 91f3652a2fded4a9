// Package models defines the domain entities persisted by the songbook record store.
//
// There are two persistent entities:
//   - [User] : a profile with credentials and an ordered list of favorite songs
//   - [Song] : a favorite song, owned by exactly one user's collection
//
// Songs are embedded in their owning user; there is no separate song table in the
// JSON representation. [SongInput] is the payload accepted when adding a song, where
// the identifier is optional.
//
// [Profile] is the public view of a [User] with the credential hash stripped.
package models
