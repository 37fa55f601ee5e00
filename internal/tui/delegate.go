package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/bookscout/internal/store"
)

type bookItem struct {
	store.Book
}

func (i bookItem) Title() string       { return i.Book.Title }
func (i bookItem) FilterValue() string { return i.Book.Title }
func (i bookItem) Description() string { return firstAuthor(i.Book) }

type itemStyles struct {
	normal     lipgloss.Style
	selected   lipgloss.Style
	titleStyle lipgloss.Style
	authorLine lipgloss.Style
	statsLine  lipgloss.Style
	noteStyle  lipgloss.Style
	favMarker  lipgloss.Style
}

func newItemStyles() itemStyles {
	asciiBorder := lipgloss.Border{
		Top:         "-",
		Bottom:      "-",
		Left:        "|",
		Right:       "|",
		TopLeft:     "+",
		TopRight:    "+",
		BottomLeft:  "+",
		BottomRight: "+",
	}

	container := lipgloss.NewStyle().
		Border(asciiBorder).
		BorderForeground(lipgloss.Color("62")).
		Padding(0, 1).
		Foreground(lipgloss.Color("252"))

	selected := container.Copy().
		BorderForeground(lipgloss.Color("214")).
		Foreground(lipgloss.Color("230")).
		Background(lipgloss.Color("237"))

	return itemStyles{
		normal:   container,
		selected: selected,
		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("254")),
		authorLine: lipgloss.NewStyle().
			Foreground(lipgloss.Color("110")),
		statsLine: lipgloss.NewStyle().
			Foreground(lipgloss.Color("247")).
			Faint(true),
		noteStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("178")),
		favMarker: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")),
	}
}

type bookDelegate struct {
	styles itemStyles
}

func newBookDelegate() bookDelegate {
	return bookDelegate{styles: newItemStyles()}
}

func (d bookDelegate) Height() int                         { return 5 }
func (d bookDelegate) Spacing() int                        { return 1 }
func (d bookDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d bookDelegate) Render(w io.Writer, m list.Model, idx int, item list.Item) {
	book, ok := item.(bookItem)
	if !ok {
		return
	}

	title := book.Book.Title
	if book.IsFavorite {
		title = d.styles.favMarker.Render("* ") + title
	}
	titleLine := d.styles.titleStyle.Render(title)

	authorLine := d.styles.authorLine.Render(formatAuthorYear(book.Book))
	statsLine := d.styles.statsLine.Render(truncate(formatStats(book.Book), m.Width()-4))

	noteLine := ""
	if book.Note != nil && book.Note.Text != "" {
		noteLine = d.styles.noteStyle.Render(truncate("note: "+book.Note.Text, m.Width()-4))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, titleLine, authorLine, statsLine, noteLine)

	container := d.styles.normal
	if idx == m.Index() {
		container = d.styles.selected
	}
	_, _ = fmt.Fprint(w, container.Render(content))
}

func firstAuthor(book store.Book) string {
	if len(book.AuthorNames) == 0 {
		return "Unknown author"
	}
	return book.AuthorNames[0]
}

// formatAuthorYear builds the "author (year)" line, omitting an unknown year.
func formatAuthorYear(book store.Book) string {
	author := firstAuthor(book)
	if book.FirstPublishYear > 0 {
		return fmt.Sprintf("%s (%d)", author, book.FirstPublishYear)
	}
	return author
}

// formatStats builds the metadata line with editions, languages, subjects
// and reader counters.
func formatStats(book store.Book) string {
	var parts []string

	if book.EditionCount > 0 {
		parts = append(parts, fmt.Sprintf("%d editions", book.EditionCount))
	}
	if book.Language != "" {
		parts = append(parts, book.Language)
	}
	if book.WantToRead > 0 || book.CurrentlyReading > 0 || book.AlreadyRead > 0 {
		parts = append(parts, fmt.Sprintf("want %d | reading %d | read %d",
			book.WantToRead, book.CurrentlyReading, book.AlreadyRead))
	}
	if book.Subject != "" {
		parts = append(parts, book.Subject)
	}

	if len(parts) == 0 {
		return "No metadata available"
	}
	return strings.Join(parts, " | ")
}

func truncate(value string, width int) string {
	value = strings.Join(strings.Fields(value), " ")
	if width <= 0 || len(value) <= width {
		return value
	}
	if width <= 3 {
		return value[:width]
	}
	return value[:width-3] + "..."
}

func clamp(defaultValue, available, minimum int) int {
	width := defaultValue
	if available > 0 && available < defaultValue {
		width = available
	}
	if width < minimum {
		width = minimum
	}
	return width
}
