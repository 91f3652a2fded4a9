package ui

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/songbook/internal/client"
	"github.com/desertthunder/songbook/internal/models"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	SongListView ViewState = iota
	AddFormView
	EditFormView
	ConfirmDeleteView
)

// Notices implements [client.Notifier] by keeping the latest message for rendering.
// Controller calls run inside tea commands, so access is guarded.
type Notices struct {
	mu    sync.Mutex
	text  string
	isErr bool
}

func NewNotices() *Notices { return &Notices{} }

func (n *Notices) Success(msg string) { n.set(msg, false) }
func (n *Notices) Error(msg string)   { n.set(msg, true) }

func (n *Notices) set(msg string, isErr bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.text, n.isErr = msg, isErr
}

// Latest returns the most recent message and whether it reports a failure.
func (n *Notices) Latest() (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.text, n.isErr
}

// Model represents the TUI application state.
//
// Which form is open comes from the controller (add form visible, song being edited),
// so the view always matches the controller's state machine.
type Model struct {
	ctx           context.Context
	ctrl          *client.Controller
	notices       *Notices
	songList      list.Model
	form          songForm
	pendingDelete *models.Song
	loading       bool
	width         int
	height        int
	help          help.Model
	keys          keyMap
}

var _ client.Notifier = (*Notices)(nil)

// NewModel creates a new TUI model over ctrl. notices must be the notifier ctrl was built with.
func NewModel(ctx context.Context, ctrl *client.Controller, notices *Notices) *Model {
	songList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	songList.Title = fmt.Sprintf("Favorite songs for user %d", ctrl.UserID())
	songList.SetShowHelp(false)
	songList.DisableQuitKeybindings()

	return &Model{
		ctx:      ctx,
		ctrl:     ctrl,
		notices:  notices,
		songList: songList,
		loading:  true,
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// Init loads the user's songs.
func (m *Model) Init() tea.Cmd {
	return m.mount()
}

// State reports the view currently shown.
func (m *Model) State() ViewState {
	switch {
	case m.ctrl.AddFormVisible():
		return AddFormView
	case m.ctrl.Editing() != nil:
		return EditFormView
	case m.pendingDelete != nil:
		return ConfirmDeleteView
	default:
		return SongListView
	}
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.songList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case Msg:
		return m.handleResult(msg)

	case tea.KeyMsg:
		switch m.State() {
		case AddFormView, EditFormView:
			return m.handleFormKeys(msg)
		case ConfirmDeleteView:
			return m.handleConfirmKeys(msg)
		default:
			return m.handleListKeys(msg)
		}
	}

	switch m.State() {
	case AddFormView, EditFormView:
		return m, m.form.update(msg)
	default:
		var cmd tea.Cmd
		m.songList, cmd = m.songList.Update(msg)
		return m, cmd
	}
}

// handleResult syncs the list with the controller once a request finishes.
func (m *Model) handleResult(msg Msg) (tea.Model, tea.Cmd) {
	if msg.kind == MsgSongsLoaded {
		m.loading = false
	}
	cmd := m.songList.SetItems(songItems(m.ctrl.Songs()))
	return m, cmd
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.songList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.songList, cmd = m.songList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.add):
		m.ctrl.ShowAddForm()
		m.form = newSongForm(nil)
		return m, nil
	case key.Matches(msg, m.keys.edit):
		if song, ok := m.selected(); ok && m.ctrl.BeginEdit(song.ID) {
			m.form = newSongForm(&song)
		}
		return m, nil
	case key.Matches(msg, m.keys.remove):
		if song, ok := m.selected(); ok {
			m.pendingDelete = &song
		}
		return m, nil
	case key.Matches(msg, m.keys.reload):
		m.loading = true
		return m, m.mount()
	}

	var cmd tea.Cmd
	m.songList, cmd = m.songList.Update(msg)
	return m, cmd
}

func (m *Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		if m.State() == AddFormView {
			m.ctrl.HideAddForm()
		} else {
			m.ctrl.CancelEdit()
		}
		m.form = songForm{}
		return m, nil
	case key.Matches(msg, m.keys.save):
		return m, m.submit()
	case key.Matches(msg, m.keys.next):
		return m, m.form.move(1)
	case key.Matches(msg, m.keys.prev):
		return m, m.form.move(-1)
	}

	return m, m.form.update(msg)
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.yes):
		id := m.pendingDelete.ID
		m.pendingDelete = nil
		return m, m.remove(id)
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.quit):
		m.pendingDelete = nil
	}
	return m, nil
}

// submit validates the form and returns the command that sends it, or nil when invalid.
func (m *Model) submit() tea.Cmd {
	in, err := m.form.input()
	if err != nil {
		m.form.err = err.Error()
		return nil
	}
	m.form.err = ""

	if m.State() == AddFormView {
		return m.add(in)
	}
	return m.replace(in.Song(m.form.songID))
}

func (m *Model) selected() (models.Song, bool) {
	item, ok := m.songList.SelectedItem().(songItem)
	if !ok {
		return models.Song{}, false
	}
	return item.song, true
}

func (m *Model) mount() tea.Cmd {
	return func() tea.Msg {
		return songsLoadedMsg(m.ctrl.Mount(m.ctx))
	}
}

func (m *Model) add(in models.SongInput) tea.Cmd {
	return func() tea.Msg {
		_, err := m.ctrl.RequestAdd(m.ctx, in)
		return songChangedMsg(MsgSongAdded, err)
	}
}

func (m *Model) replace(song models.Song) tea.Cmd {
	return func() tea.Msg {
		_, err := m.ctrl.RequestUpdate(m.ctx, song)
		return songChangedMsg(MsgSongUpdated, err)
	}
}

func (m *Model) remove(id int64) tea.Cmd {
	return func() tea.Msg {
		return songChangedMsg(MsgSongRemoved, m.ctrl.RequestRemove(m.ctx, id))
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	switch m.State() {
	case AddFormView:
		body = m.renderForm("Add a song")
	case EditFormView:
		body = m.renderForm("Edit song")
	case ConfirmDeleteView:
		body = m.renderConfirm()
	default:
		body = m.renderList()
	}

	if notice := m.renderNotice(); notice != "" {
		body = fmt.Sprintf("%s\n%s", body, notice)
	}
	return body
}

func (m *Model) renderNotice() string {
	text, isErr := m.notices.Latest()
	switch {
	case text == "":
		return ""
	case isErr:
		return styles.err.Render(text)
	default:
		return styles.ok.Render(text)
	}
}

func (m *Model) renderList() string {
	if m.loading {
		return styles.help.Render("Loading songs...")
	}

	helpKeys := []key.Binding{m.keys.add, m.keys.edit, m.keys.remove, m.keys.reload, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	if len(m.songList.Items()) == 0 {
		return fmt.Sprintf("%s\n\n%s\n\n%s", styles.title.Render(m.songList.Title), styles.help.Render("No favorite songs yet."), helpView)
	}
	return fmt.Sprintf("%s\n\n%s", m.songList.View(), helpView)
}

func (m *Model) renderForm(title string) string {
	helpKeys := []key.Binding{m.keys.next, m.keys.save, m.keys.back}
	return fmt.Sprintf("%s\n%s", m.form.view(title), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderConfirm() string {
	title := styles.warn.Render(fmt.Sprintf("Delete '%s'?", songItem{song: *m.pendingDelete}.Title()))
	helpKeys := []key.Binding{m.keys.yes, m.keys.no}
	return fmt.Sprintf("%s\n\n%s", title, m.help.ShortHelpView(helpKeys))
}
