// Package services implements the favorite-song operations and the user collaborator around them.
//
// # Song Collection
//
// [SongCollection] is the four-operation surface (list, add, update, remove) shared by the
// server and the clients. It has two implementations:
//   - [SongService] : runs the operations against a [repositories.RecordStore]
//   - [APIService] : calls a remote songbook server over HTTP
//
// Both validate arguments before doing any I/O, so a missing user id fails the same way
// whether the collection is local or remote.
//
// # Song Identifiers
//
// A zero id on add asks [SongService] to pick an id that is free within the user's list.
// A caller-supplied id that is already present is rejected with [shared.ErrDuplicateSong].
//
// # Users
//
// [UserService] creates users with a random numeric id and a bcrypt password hash, and
// serves the password-free [models.Profile].
//
// # Error Handling
//
// Services use the sentinel errors from the shared package:
//   - [shared.ErrInvalidRequest] : missing or malformed arguments
//   - [shared.ErrUserNotFound], [shared.ErrSongNotFound] : unknown user or song
//   - [shared.ErrDuplicateSong] : caller-supplied song id already taken
//   - [shared.ErrStoreUnavailable], [shared.ErrStoreCorrupt] : storage failures
//   - [shared.ErrAPIRequest] : transport failures in [APIService]
//
// [APIService] maps the server's error code (or, failing that, the status code) back to
// the same sentinels.
package services
