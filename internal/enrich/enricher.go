// Package enrich resolves full detail for favorited books that are not
// present in the current search page. It is a read-side projection: results
// are returned for display and never written back into the store's
// primary snapshot.
package enrich

import (
	"context"
	"log/slog"

	"github.com/lepinkainen/bookscout/internal/cache"
	"github.com/lepinkainen/bookscout/internal/openlibrary"
	"github.com/lepinkainen/bookscout/internal/store"
)

// DetailFetcher is the catalog detail surface the enricher needs.
type DetailFetcher interface {
	WorkDetail(ctx context.Context, workKey string) (*openlibrary.Work, error)
	AuthorName(ctx context.Context, authorKey string) (string, error)
}

// Enricher assembles the favorites view from the current snapshot plus
// secondary work/author lookups for favorites missing from it.
type Enricher struct {
	store  *store.Store
	client DetailFetcher
}

// New creates an Enricher over the shared store and catalog client.
func New(st *store.Store, client DetailFetcher) *Enricher {
	return &Enricher{store: st, client: client}
}

// FavoriteBooks returns one Book per favorite, in favorites order.
// Favorites present in the current snapshot are taken from it; the rest are
// resolved through work detail lookups. Per-item failures are isolated: a
// failed work lookup skips that one favorite, a failed author lookup just
// yields fewer author names.
func (e *Enricher) FavoriteBooks(ctx context.Context) []store.Book {
	snapshot := e.store.Snapshot()
	present := make(map[string]store.Book, len(snapshot.Books))
	for _, book := range snapshot.Books {
		if book.IsFavorite {
			present[book.Key] = book
		}
	}

	var books []store.Book
	for _, key := range e.store.Favorites() {
		if book, ok := present[key]; ok {
			books = append(books, book)
			continue
		}

		book, err := e.resolve(ctx, key)
		if err != nil {
			slog.Warn("Failed to resolve favorite, skipping", "key", key, "error", err)
			continue
		}
		books = append(books, book)
	}
	return books
}

// resolve builds a Book for a favorite missing from the current snapshot.
func (e *Enricher) resolve(ctx context.Context, key string) (store.Book, error) {
	work, _, err := cache.GetOrFetch(cache.WorkCacheTable, key, func() (*openlibrary.Work, error) {
		return e.client.WorkDetail(ctx, key)
	})
	if err != nil {
		return store.Book{}, err
	}

	book := store.Book{
		Key:        key,
		Title:      work.Title,
		IsFavorite: true,
	}
	if note, ok := e.store.Note(key); ok {
		book.Note = &note
	}

	for _, authorKey := range work.AuthorKeys {
		name, _, err := cache.GetOrFetch(cache.AuthorCacheTable, authorKey, func() (string, error) {
			return e.client.AuthorName(ctx, authorKey)
		})
		if err != nil {
			slog.Warn("Failed to resolve author", "key", key, "author", authorKey, "error", err)
			continue
		}
		if name != "" {
			book.AuthorNames = append(book.AuthorNames, name)
		}
	}
	return book, nil
}
