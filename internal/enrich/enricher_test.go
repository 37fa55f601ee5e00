package enrich

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/bookscout/internal/openlibrary"
	"github.com/lepinkainen/bookscout/internal/store"
	"github.com/lepinkainen/bookscout/internal/testutil"
)

// fakeDetailFetcher serves canned work/author details and records lookups.
type fakeDetailFetcher struct {
	mu          sync.Mutex
	works       map[string]*openlibrary.Work
	workErrs    map[string]error
	authors     map[string]string
	authorErrs  map[string]error
	workLookups []string
}

func newFakeDetailFetcher() *fakeDetailFetcher {
	return &fakeDetailFetcher{
		works:      make(map[string]*openlibrary.Work),
		workErrs:   make(map[string]error),
		authors:    make(map[string]string),
		authorErrs: make(map[string]error),
	}
}

func (f *fakeDetailFetcher) WorkDetail(ctx context.Context, workKey string) (*openlibrary.Work, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.workLookups = append(f.workLookups, workKey)
	if err := f.workErrs[workKey]; err != nil {
		return nil, err
	}
	if work, ok := f.works[workKey]; ok {
		return work, nil
	}
	return nil, &openlibrary.NetworkError{Status: 404}
}

func (f *fakeDetailFetcher) AuthorName(ctx context.Context, authorKey string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.authorErrs[authorKey]; err != nil {
		return "", err
	}
	return f.authors[authorKey], nil
}

func TestFavoriteBooksLooksUpOnlyMissing(t *testing.T) {
	testutil.SetupTestCache(t)

	st := store.New([]string{"/works/OL1W", "/works/OL2W", "/works/OL3W"}, nil)
	st.PublishResults([]store.Book{{Key: "/works/OL1W", Title: "Present Book"}})

	client := newFakeDetailFetcher()
	client.works["/works/OL2W"] = &openlibrary.Work{Title: "Missing Two", AuthorKeys: []string{"/authors/OL1A"}}
	client.works["/works/OL3W"] = &openlibrary.Work{Title: "Missing Three"}
	client.authors["/authors/OL1A"] = "Author One"

	books := New(st, client).FavoriteBooks(context.Background())
	require.Len(t, books, 3)

	assert.Equal(t, "Present Book", books[0].Title)
	assert.Equal(t, "Missing Two", books[1].Title)
	assert.Equal(t, []string{"Author One"}, books[1].AuthorNames)
	assert.Equal(t, "Missing Three", books[2].Title)

	for _, book := range books {
		assert.True(t, book.IsFavorite)
	}

	// Exactly the two favorites missing from the snapshot were looked up.
	assert.ElementsMatch(t, []string{"/works/OL2W", "/works/OL3W"}, client.workLookups)
}

func TestFavoriteBooksIsolatesPerItemFailures(t *testing.T) {
	testutil.SetupTestCache(t)

	st := store.New([]string{"/works/OL1W", "/works/OL2W", "/works/OL3W"}, nil)
	st.PublishResults([]store.Book{{Key: "/works/OL1W", Title: "Present Book"}})

	client := newFakeDetailFetcher()
	client.workErrs["/works/OL2W"] = &openlibrary.NetworkError{Status: 502}
	client.works["/works/OL3W"] = &openlibrary.Work{Title: "Survivor"}

	books := New(st, client).FavoriteBooks(context.Background())
	require.Len(t, books, 2, "one failed lookup must not abort the rest")
	assert.Equal(t, "Present Book", books[0].Title)
	assert.Equal(t, "Survivor", books[1].Title)
}

func TestFavoriteBooksToleratesAuthorFailure(t *testing.T) {
	testutil.SetupTestCache(t)

	st := store.New([]string{"/works/OL1W"}, nil)

	client := newFakeDetailFetcher()
	client.works["/works/OL1W"] = &openlibrary.Work{
		Title:      "Two Authors",
		AuthorKeys: []string{"/authors/BAD", "/authors/GOOD"},
	}
	client.authorErrs["/authors/BAD"] = &openlibrary.NetworkError{Status: 500}
	client.authors["/authors/GOOD"] = "Good Author"

	books := New(st, client).FavoriteBooks(context.Background())
	require.Len(t, books, 1)
	assert.Equal(t, "Two Authors", books[0].Title)
	assert.Equal(t, []string{"Good Author"}, books[0].AuthorNames,
		"failed author lookup yields fewer names, not a failed item")
}

func TestFavoriteBooksAttachesNotes(t *testing.T) {
	testutil.SetupTestCache(t)

	st := store.New([]string{"/works/OL1W"}, map[string]store.Note{
		"/works/OL1W": {Text: "must reread", Date: "yesterday"},
	})

	client := newFakeDetailFetcher()
	client.works["/works/OL1W"] = &openlibrary.Work{Title: "Annotated"}

	books := New(st, client).FavoriteBooks(context.Background())
	require.Len(t, books, 1)
	require.NotNil(t, books[0].Note)
	assert.Equal(t, "must reread", books[0].Note.Text)
}

func TestFavoriteBooksUsesCacheOnSecondCall(t *testing.T) {
	testutil.SetupTestCache(t)

	st := store.New([]string{"/works/OL1W"}, nil)

	client := newFakeDetailFetcher()
	client.works["/works/OL1W"] = &openlibrary.Work{Title: "Cached Work"}

	enricher := New(st, client)
	first := enricher.FavoriteBooks(context.Background())
	second := enricher.FavoriteBooks(context.Background())

	require.Len(t, first, 1)
	require.Equal(t, first, second)
	assert.Len(t, client.workLookups, 1, "second view must be served from cache")
}
