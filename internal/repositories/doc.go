// Package repositories implements the record store that persists users and their favorite songs.
//
// Every backend satisfies [RecordStore]. Reads return complete snapshots and every mutation
// goes through [RecordStore.Update], which applies a caller function to one user atomically.
//
// Key Implementations:
//   - [JSONStore] : the whole collection as one JSON array in a flat file
//   - [SQLiteStore] : users and songs tables created by the embedded migrations
//   - [BoltStore] : one JSON-encoded user per key in a bbolt bucket
//
// [Open] selects a backend from [shared.StoreConfig].
package repositories
