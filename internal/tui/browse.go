// Package tui implements the interactive consumer: a Bubble Tea program
// that reads the shared store's snapshot on a tick and issues search, favorite
// and note mutations in response to user input. The update loop itself never
// performs network I/O; searches go through the pending-search slot and the
// favorites refresh runs as a command off the event loop.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/bookscout/internal/enrich"
	"github.com/lepinkainen/bookscout/internal/fetcher"
	"github.com/lepinkainen/bookscout/internal/store"
)

const (
	defaultListWidth  = 72
	defaultListHeight = 24
	snapshotInterval  = 100 * time.Millisecond
)

var runProgram = func(m tea.Model) (tea.Model, error) {
	return tea.NewProgram(m, tea.WithAltScreen()).Run()
}

type mode int

const (
	modeBrowse mode = iota
	modeNote
	modeFavorites
)

type tickMsg time.Time

type favoritesMsg []store.Book

// Model is the Bubble Tea model for the browse session.
type Model struct {
	store    *store.Store
	enricher *enrich.Enricher
	outcomes <-chan fetcher.Outcome

	input     textinput.Model
	results   list.Model
	favorites list.Model
	note      textarea.Model

	mode     mode
	kind     store.SearchKind
	page     int
	pageSize int

	noteKey   string
	noteTitle string

	status string
	width  int
	height int
}

// NewModel builds the browse model over the shared store.
func NewModel(st *store.Store, enricher *enrich.Enricher, outcomes <-chan fetcher.Outcome, pageSize int) *Model {
	input := textinput.New()
	input.Placeholder = "search the catalog..."
	input.Focus()
	input.CharLimit = 256

	delegate := newBookDelegate()

	results := list.New(nil, delegate, defaultListWidth, defaultListHeight)
	configureList(&results)

	favorites := list.New(nil, delegate, defaultListWidth, defaultListHeight)
	configureList(&favorites)

	note := textarea.New()
	note.Placeholder = "write a note..."
	note.CharLimit = 1024

	return &Model{
		store:     st,
		enricher:  enricher,
		outcomes:  outcomes,
		input:     input,
		results:   results,
		favorites: favorites,
		note:      note,
		kind:      store.SearchByTitle,
		page:      1,
		pageSize:  pageSize,
	}
}

func configureList(l *list.Model) {
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetShowPagination(false)
	l.DisableQuitKeybindings()
	l.Styles.NoItems = lipgloss.NewStyle()
}

// Init starts the snapshot tick.
func (m *Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(snapshotInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles input and the periodic snapshot refresh.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.drainOutcomes()
		m.refreshResults()
		return m, tick()

	case favoritesMsg:
		items := make([]list.Item, len(msg))
		for i, book := range msg {
			items[i] = bookItem{Book: book}
		}
		m.favorites.SetItems(items)
		m.status = fmt.Sprintf("%d favorites", len(msg))
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		width := clamp(defaultListWidth, msg.Width-4, 40)
		height := clamp(defaultListHeight, msg.Height-8, 5)
		m.results.SetSize(width, height)
		m.favorites.SetSize(width, height)
		m.note.SetWidth(clamp(60, msg.Width-4, 30))
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeNote:
			return m.updateNote(msg)
		case modeFavorites:
			return m.updateFavorites(msg)
		default:
			return m.updateBrowse(msg)
		}
	}

	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg)
	return m, cmd
}

func (m *Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit

	case "enter":
		query := m.input.Value()
		if query != "" {
			m.page = 1
			m.submitSearch(query)
		}
		return m, nil

	case "tab":
		if m.kind == store.SearchByTitle {
			m.kind = store.SearchByAuthor
		} else {
			m.kind = store.SearchByTitle
		}
		return m, nil

	case "right", "pgdown":
		if m.input.Value() != "" && m.store.Snapshot().Ready {
			m.page++
			m.submitSearch(m.input.Value())
		}
		return m, nil

	case "left", "pgup":
		if m.input.Value() != "" && m.page > 1 {
			m.page--
			m.submitSearch(m.input.Value())
		}
		return m, nil

	case "ctrl+f":
		if book, ok := m.selectedResult(); ok {
			m.store.ToggleFavorite(book.Key)
			m.refreshResults()
		}
		return m, nil

	case "ctrl+n":
		if book, ok := m.selectedResult(); ok {
			m.openNoteEditor(book)
		}
		return m, nil

	case "ctrl+v":
		m.mode = modeFavorites
		m.status = "loading favorites..."
		return m, m.loadFavoritesCmd()
	}

	// The text input owns plain keys; the list owns navigation.
	var inputCmd, listCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	m.results, listCmd = m.results.Update(msg)
	return m, tea.Batch(inputCmd, listCmd)
}

func (m *Model) updateFavorites(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc", "ctrl+v":
		m.mode = modeBrowse
		m.status = ""
		return m, nil

	case "ctrl+f", "delete":
		if item, ok := m.favorites.SelectedItem().(bookItem); ok {
			m.store.ToggleFavorite(item.Book.Key)
			m.favorites.RemoveItem(m.favorites.Index())
			m.refreshResults()
		}
		return m, nil

	case "ctrl+n":
		if item, ok := m.favorites.SelectedItem().(bookItem); ok {
			m.openNoteEditor(item.Book)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.favorites, cmd = m.favorites.Update(msg)
	return m, cmd
}

func (m *Model) updateNote(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeNoteEditor()
		return m, nil

	case "ctrl+s":
		m.store.SetNote(m.noteKey, store.Note{
			Text: m.note.Value(),
			Date: time.Now().Format(time.ANSIC),
		})
		m.closeNoteEditor()
		m.refreshResults()
		return m, nil

	case "ctrl+c":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.note, cmd = m.note.Update(msg)
	return m, cmd
}

// submitSearch hands the request to the fetch coordinator via the store's
// pending slot; the fetch itself happens off the UI loop.
func (m *Model) submitSearch(query string) {
	m.status = fmt.Sprintf("searching %s for %q (page %d)...", m.kind, query, m.page)
	m.store.SetPendingSearch(store.SearchRequest{
		Query: query,
		Kind:  m.kind,
		Limit: m.pageSize,
		Page:  m.page,
	})
}

func (m *Model) openNoteEditor(book store.Book) {
	m.noteKey = book.Key
	m.noteTitle = book.Title
	if note, ok := m.store.Note(book.Key); ok {
		m.note.SetValue(note.Text)
	} else {
		m.note.SetValue("")
	}
	m.note.Focus()
	m.input.Blur()
	m.mode = modeNote
}

func (m *Model) closeNoteEditor() {
	m.note.Blur()
	m.input.Focus()
	m.noteKey = ""
	m.noteTitle = ""
	if m.mode == modeNote {
		m.mode = modeBrowse
	}
}

func (m *Model) selectedResult() (store.Book, bool) {
	if item, ok := m.results.SelectedItem().(bookItem); ok {
		return item.Book, true
	}
	return store.Book{}, false
}

// loadFavoritesCmd runs the enrichment lookups off the event loop.
func (m *Model) loadFavoritesCmd() tea.Cmd {
	return func() tea.Msg {
		return favoritesMsg(m.enricher.FavoriteBooks(context.Background()))
	}
}

// drainOutcomes consumes any fetch completions without blocking.
func (m *Model) drainOutcomes() {
	for {
		select {
		case outcome := <-m.outcomes:
			if outcome.Err != nil {
				m.status = fmt.Sprintf("search failed: %v (showing previous results)", outcome.Err)
			} else {
				m.status = fmt.Sprintf("%d results for %q (page %d)",
					outcome.Count, outcome.Request.Query, outcome.Request.Page)
			}
		default:
			return
		}
	}
}

// refreshResults mirrors the store snapshot into the result list.
func (m *Model) refreshResults() {
	snapshot := m.store.Snapshot()
	if !snapshot.Ready {
		return
	}
	items := make([]list.Item, len(snapshot.Books))
	for i, book := range snapshot.Books {
		items[i] = bookItem{Book: book}
	}
	m.results.SetItems(items)
}

// View renders the active screen.
func (m *Model) View() string {
	switch m.mode {
	case modeNote:
		return m.noteView()
	case modeFavorites:
		return m.favoritesView()
	default:
		return m.browseView()
	}
}

func (m *Model) browseView() string {
	kindLabel := "title"
	if m.kind == store.SearchByAuthor {
		kindLabel = "author"
	}
	header := headerStyle.Render("bookscout") + "  " +
		kindBadgeStyle.Render("["+kindLabel+"]") + "  " +
		pageStyle.Render(fmt.Sprintf("page %d", m.page))

	help := helpStyle.Render("enter search | tab kind | ←/→ page | ctrl+f favorite | ctrl+n note | ctrl+v favorites | esc quit")
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.input.View(),
		m.results.View(),
		statusStyle.Render(m.status),
		help,
	)
}

func (m *Model) favoritesView() string {
	header := headerStyle.Render("favorites")
	help := helpStyle.Render("ctrl+f remove | ctrl+n note | esc back")
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.favorites.View(),
		statusStyle.Render(m.status),
		help,
	)
}

func (m *Model) noteView() string {
	header := headerStyle.Render("note: " + m.noteTitle)
	help := helpStyle.Render("ctrl+s save | esc cancel")
	return lipgloss.JoinVertical(lipgloss.Left, header, m.note.View(), help)
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")).
			MarginBottom(1)

	kindBadgeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("110"))

	pageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("247"))

	statusStyle = lipgloss.NewStyle().
			MarginTop(1).
			Foreground(lipgloss.Color("178"))

	helpStyle = lipgloss.NewStyle().
			MarginTop(1).
			Foreground(lipgloss.Color("244"))
)

// Run starts the interactive browse session and blocks until it exits.
func Run(st *store.Store, enricher *enrich.Enricher, outcomes <-chan fetcher.Outcome, pageSize int) error {
	m := NewModel(st, enricher, outcomes, pageSize)
	_, err := runProgram(m)
	return err
}
