// Package store holds the shared state read by the interactive consumer and
// written by the background fetch coordinator. Every exported operation is
// atomic with respect to concurrent callers; the consumer never observes a
// half-written snapshot or half-updated favorites set.
package store

import "sync"

// Store is the single source of truth for the current search results,
// the pending search slot, the favorites set and the notes map.
type Store struct {
	mu sync.Mutex

	pending    SearchRequest
	hasPending bool

	books []Book
	ready bool

	favorites []string // insertion order preserved for persistence
	notes     map[string]Note
}

// New creates a Store seeded with persisted favorites and notes.
// Duplicate favorite keys are dropped, first occurrence wins.
func New(favorites []string, notes map[string]Note) *Store {
	s := &Store{
		notes: make(map[string]Note, len(notes)),
	}
	seen := make(map[string]bool, len(favorites))
	for _, key := range favorites {
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		s.favorites = append(s.favorites, key)
	}
	for key, note := range notes {
		s.notes[key] = note
	}
	return s
}

// SetPendingSearch records the latest desired search, overwriting any
// previous pending request that has not been picked up yet.
func (s *Store) SetPendingSearch(req SearchRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = req
	s.hasPending = true
}

// TakePendingSearch atomically reads and clears the pending request.
func (s *Store) TakePendingSearch() (SearchRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasPending {
		return SearchRequest{}, false
	}
	req := s.pending
	s.pending = SearchRequest{}
	s.hasPending = false
	return req, true
}

// PublishResults replaces the current result page and marks it ready.
// Each incoming book's favorite flag and note are annotated from the
// current favorites/notes state before the swap, so a consumer never
// observes a record whose favorite or note state is stale.
func (s *Store) PublishResults(books []Book) {
	s.mu.Lock()
	defer s.mu.Unlock()

	annotated := make([]Book, len(books))
	for i, book := range books {
		book.IsFavorite = s.isFavoriteLocked(book.Key)
		if note, ok := s.notes[book.Key]; ok {
			n := note
			book.Note = &n
		} else {
			book.Note = nil
		}
		annotated[i] = book
	}
	s.books = annotated
	s.ready = true
}

// ToggleFavorite adds or removes the key from the favorites set, updates
// the matching snapshot record if present, and returns the new flag value.
func (s *Store) ToggleFavorite(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	nowFavorite := true
	if idx := s.favoriteIndexLocked(key); idx >= 0 {
		s.favorites = append(s.favorites[:idx], s.favorites[idx+1:]...)
		nowFavorite = false
	} else {
		s.favorites = append(s.favorites, key)
	}

	for i := range s.books {
		if s.books[i].Key == key {
			s.books[i].IsFavorite = nowFavorite
			break
		}
	}
	return nowFavorite
}

// IsFavorite reports whether the key is in the favorites set.
func (s *Store) IsFavorite(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isFavoriteLocked(key)
}

// SetNote updates or inserts the note for a key in both the durable notes
// map and the matching snapshot record, if present.
func (s *Store) SetNote(key string, note Note) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notes[key] = note
	for i := range s.books {
		if s.books[i].Key == key {
			n := note
			s.books[i].Note = &n
			break
		}
	}
}

// Note returns the stored note for a key, if any.
func (s *Store) Note(key string) (Note, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	note, ok := s.notes[key]
	return note, ok
}

// Snapshot returns a consistent deep copy of the current result page.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	books := make([]Book, len(s.books))
	for i, book := range s.books {
		books[i] = copyBook(book)
	}
	return Snapshot{Books: books, Ready: s.ready}
}

// Favorites returns the favorite keys in insertion order.
func (s *Store) Favorites() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.favorites))
	copy(out, s.favorites)
	return out
}

// Notes returns a copy of the notes map.
func (s *Store) Notes() map[string]Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]Note, len(s.notes))
	for key, note := range s.notes {
		out[key] = note
	}
	return out
}

func (s *Store) favoriteIndexLocked(key string) int {
	for i, fav := range s.favorites {
		if fav == key {
			return i
		}
	}
	return -1
}

func (s *Store) isFavoriteLocked(key string) bool {
	return s.favoriteIndexLocked(key) >= 0
}

func copyBook(book Book) Book {
	if book.AuthorNames != nil {
		authors := make([]string, len(book.AuthorNames))
		copy(authors, book.AuthorNames)
		book.AuthorNames = authors
	}
	if book.Note != nil {
		note := *book.Note
		book.Note = &note
	}
	return book
}
