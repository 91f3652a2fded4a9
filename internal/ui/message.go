package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
//
// Every kind carries the error returned by the controller call, nil on success.
// The controller has already applied any state change by the time the message arrives.
type Msg struct {
	kind MsgKind
	err  error
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgSongsLoaded MsgKind = iota
	MsgSongAdded
	MsgSongUpdated
	MsgSongRemoved
)

// songsLoadedMsg is the constructor for [MsgSongsLoaded]
func songsLoadedMsg(err error) Msg {
	return Msg{kind: MsgSongsLoaded, err: err}
}

// songChangedMsg is the constructor for [MsgSongAdded], [MsgSongUpdated] and [MsgSongRemoved]
func songChangedMsg(kind MsgKind, err error) Msg {
	return Msg{kind: kind, err: err}
}

// Kind returns the message kind.
func (m Msg) Kind() MsgKind { return m.kind }

// Err returns the error carried by the message.
func (m Msg) Err() error { return m.err }
