package store

// SearchKind selects which Open Library query parameter a search uses.
type SearchKind string

const (
	// SearchByTitle searches by book title.
	SearchByTitle SearchKind = "title"
	// SearchByAuthor searches by author name.
	SearchByAuthor SearchKind = "author"
)

// SearchRequest describes one page of a catalog search. A request is
// immutable once submitted; submitting a new one supersedes any pending
// request that has not been picked up yet.
type SearchRequest struct {
	Query string
	Kind  SearchKind
	Limit int
	Page  int
}

// Note is a free-text annotation attached to a book, keyed by the book's
// catalog key.
type Note struct {
	Text string `json:"note"`
	Date string `json:"date"`
}

// Book is one catalog record. Key is the stable Open Library work key and
// the natural deduplication key; everything except Key and Title is
// optional and left at its zero value when the catalog omits it.
type Book struct {
	Key              string
	Title            string
	AuthorNames      []string
	FirstPublishYear int
	EditionCount     int
	CoverID          int
	Language         string
	Subject          string
	WantToRead       int
	CurrentlyReading int
	AlreadyRead      int
	IsFavorite       bool
	Note             *Note
}

// Snapshot is the current page of search results. It is replaced wholesale
// on every successful fetch; Ready reports whether any fetch has completed.
type Snapshot struct {
	Books []Book
	Ready bool
}
