// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI is a thin view over a [client.Controller]:
//  1. [SongListView] : browse the user's favorite songs
//  2. [AddFormView] : shown while the controller's add form is visible
//  3. [EditFormView] : shown while the controller has a song in edit mode
//  4. [ConfirmDeleteView] : confirm before removing a song
//
// Controller calls run inside tea commands and report back with the [Msg] union; the model then
// re-reads the controller's song list. Success and failure notifications are collected by [Notices]
// and rendered under the current view.
//
// Keyboard navigation uses vim-style bindings (j/k, a, e, d, r, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
