package fetcher

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/bookscout/internal/openlibrary"
	"github.com/lepinkainen/bookscout/internal/store"
)

// fakeSearcher records requests and serves canned responses per query.
type fakeSearcher struct {
	mu       sync.Mutex
	requests []store.SearchRequest
	results  map[string][]store.Book
	errs     map[string]error
}

func newFakeSearcher() *fakeSearcher {
	return &fakeSearcher{
		results: make(map[string][]store.Book),
		errs:    make(map[string]error),
	}
}

func (f *fakeSearcher) Search(ctx context.Context, req store.SearchRequest) ([]store.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if err := f.errs[req.Query]; err != nil {
		return nil, err
	}
	return f.results[req.Query], nil
}

func (f *fakeSearcher) seen() []store.SearchRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]store.SearchRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

func runCoordinator(t *testing.T, st *store.Store, client Searcher) *Coordinator {
	t.Helper()
	coord := New(st, client, 5*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		coord.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return coord
}

func waitOutcome(t *testing.T, coord *Coordinator) Outcome {
	t.Helper()
	select {
	case outcome := <-coord.Outcomes():
		return outcome
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for fetch outcome")
		return Outcome{}
	}
}

func TestCoordinatorPublishesResults(t *testing.T) {
	st := store.New([]string{"/works/OL1W"}, map[string]store.Note{
		"/works/OL2W": {Text: "queued note"},
	})
	client := newFakeSearcher()
	client.results["dune"] = []store.Book{
		{Key: "/works/OL1W", Title: "Dune"},
		{Key: "/works/OL2W", Title: "Dune Messiah"},
	}

	coord := runCoordinator(t, st, client)
	st.SetPendingSearch(store.SearchRequest{Query: "dune", Kind: store.SearchByTitle, Limit: 10, Page: 1})

	outcome := waitOutcome(t, coord)
	require.NoError(t, outcome.Err)
	assert.Equal(t, 2, outcome.Count)

	snap := st.Snapshot()
	require.True(t, snap.Ready)
	require.Len(t, snap.Books, 2)
	// Publish annotates from current favorites/notes state.
	assert.True(t, snap.Books[0].IsFavorite)
	require.NotNil(t, snap.Books[1].Note)
	assert.Equal(t, "queued note", snap.Books[1].Note.Text)
}

func TestCoordinatorFailureLeavesSnapshotUntouched(t *testing.T) {
	st := store.New(nil, nil)
	client := newFakeSearcher()
	client.results["good"] = []store.Book{{Key: "/works/OL1W", Title: "Dune"}}
	client.errs["bad"] = &openlibrary.NetworkError{Status: 502}

	coord := runCoordinator(t, st, client)

	st.SetPendingSearch(store.SearchRequest{Query: "good", Kind: store.SearchByTitle})
	require.NoError(t, waitOutcome(t, coord).Err)
	before := st.Snapshot()

	st.SetPendingSearch(store.SearchRequest{Query: "bad", Kind: store.SearchByTitle})
	outcome := waitOutcome(t, coord)
	require.Error(t, outcome.Err)
	assert.True(t, openlibrary.IsNetworkError(outcome.Err))

	after := st.Snapshot()
	assert.Equal(t, before, after, "failed fetch must not clear existing results")
	assert.True(t, after.Ready)
}

func TestCoordinatorLastRequestWins(t *testing.T) {
	st := store.New(nil, nil)
	client := newFakeSearcher()
	client.results["second"] = []store.Book{{Key: "/works/OL2W", Title: "Second"}}

	// Both set before the coordinator starts polling: only the latest is fetched.
	st.SetPendingSearch(store.SearchRequest{Query: "first", Kind: store.SearchByTitle})
	st.SetPendingSearch(store.SearchRequest{Query: "second", Kind: store.SearchByTitle})

	coord := runCoordinator(t, st, client)
	outcome := waitOutcome(t, coord)
	require.NoError(t, outcome.Err)
	assert.Equal(t, "second", outcome.Request.Query)

	requests := client.seen()
	require.Len(t, requests, 1, "exactly one fetch for two submissions")
	assert.Equal(t, "second", requests[0].Query)
}

func TestCoordinatorStopsWithinInterval(t *testing.T) {
	st := store.New(nil, nil)
	coord := New(st, newFakeSearcher(), 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		coord.Run(ctx)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("coordinator did not stop after context cancellation")
	}
}
