// Package fetcher runs the background fetch loop. It is the only component
// that performs blocking network calls; the interactive consumer talks to it
// exclusively through the shared store and the outcome channel.
package fetcher

import (
	"context"
	"log/slog"
	"time"

	"github.com/lepinkainen/bookscout/internal/store"
)

// Searcher is the catalog search surface the coordinator needs.
type Searcher interface {
	Search(ctx context.Context, req store.SearchRequest) ([]store.Book, error)
}

// Outcome reports the completion or failure of one fetch. Err is nil on
// success; Count is the number of books published.
type Outcome struct {
	Request store.SearchRequest
	Count   int
	Err     error
}

// Coordinator polls the store for pending search requests, runs them
// through the catalog client one at a time, and publishes results back.
// A new request submitted while a fetch is in flight overwrites the pending
// slot and is picked up on the next poll (last-request-wins); the in-flight
// result is still published when it completes.
type Coordinator struct {
	store    *store.Store
	client   Searcher
	interval time.Duration
	outcomes chan Outcome
}

// New creates a Coordinator polling at the given interval.
func New(st *store.Store, client Searcher, interval time.Duration) *Coordinator {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	return &Coordinator{
		store:    st,
		client:   client,
		interval: interval,
		outcomes: make(chan Outcome, 8),
	}
}

// Outcomes returns the channel on which fetch completions and failures are
// reported. Sends never block the fetch loop; when nobody is listening the
// oldest outcome is dropped.
func (c *Coordinator) Outcomes() <-chan Outcome {
	return c.outcomes
}

// Run executes the poll loop until ctx is cancelled. Cancellation is
// observed at least once per poll interval, so termination latency is
// bounded by the interval.
func (c *Coordinator) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	slog.Debug("Fetch coordinator started", "interval", c.interval)
	for {
		select {
		case <-ctx.Done():
			slog.Debug("Fetch coordinator stopping")
			return
		case <-ticker.C:
			c.poll(ctx)
		}
	}
}

// poll takes at most one pending request and runs it to completion.
func (c *Coordinator) poll(ctx context.Context) {
	req, ok := c.store.TakePendingSearch()
	if !ok {
		return
	}

	books, err := c.client.Search(ctx, req)
	if err != nil {
		// A failed fetch never touches the previous snapshot.
		slog.Error("Search failed", "query", req.Query, "kind", req.Kind, "error", err)
		c.report(Outcome{Request: req, Err: err})
		return
	}

	c.store.PublishResults(books)
	slog.Debug("Search results published", "query", req.Query, "count", len(books))
	c.report(Outcome{Request: req, Count: len(books)})
}

func (c *Coordinator) report(outcome Outcome) {
	for {
		select {
		case c.outcomes <- outcome:
			return
		default:
		}
		// Channel full: drop the oldest so the newest outcome wins.
		select {
		case <-c.outcomes:
		default:
		}
	}
}
