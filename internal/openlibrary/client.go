// Package openlibrary implements the HTTP client for the Open Library
// catalog API: paginated search plus the work/author detail lookups used
// for favorites enrichment.
package openlibrary

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/lepinkainen/bookscout/internal/ratelimit"
	"github.com/lepinkainen/bookscout/internal/store"
)

const defaultBaseURL = "https://openlibrary.org"

// searchFields is the fixed field set requested from /search.json.
const searchFields = "key,title,author_name,first_publish_year,edition_count," +
	"cover_i,language,subject,want_to_read_count,currently_reading_count,already_read_count"

// Client talks to the Open Library API. All calls share a 10 second
// timeout and a 1 req/s rate limiter so a stalled remote never hangs the
// fetch worker indefinitely.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *ratelimit.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL. Used by tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient overrides the HTTP client. Used by tests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates an Open Library client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:     defaultBaseURL,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		rateLimiter: ratelimit.New("OpenLibrary", 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search runs one page of a catalog search and returns the decoded books.
// Docs missing a key or title are dropped rather than failing the batch;
// optional fields absent from a doc are left at their zero values.
func (c *Client) Search(ctx context.Context, req store.SearchRequest) ([]store.Book, error) {
	kindParam := "title"
	if req.Kind == store.SearchByAuthor {
		kindParam = "author"
	}

	path := fmt.Sprintf("/search.json?%s=%s&limit=%d&page=%d&fields=%s",
		kindParam, encodeQuery(req.Query), req.Limit, req.Page, searchFields)

	var result searchResponse
	if err := c.getJSON(ctx, path, &result); err != nil {
		return nil, err
	}

	books := make([]store.Book, 0, len(result.Docs))
	for _, doc := range result.Docs {
		if doc.Key == "" || doc.Title == "" {
			slog.Debug("Skipping malformed search doc", "key", doc.Key, "title", doc.Title)
			continue
		}
		books = append(books, store.Book{
			Key:              doc.Key,
			Title:            doc.Title,
			AuthorNames:      doc.AuthorName,
			FirstPublishYear: doc.FirstPublishYear,
			EditionCount:     doc.EditionCount,
			CoverID:          doc.CoverID,
			Language:         strings.Join(doc.Language, ", "),
			Subject:          strings.Join(doc.Subject, ", "),
			WantToRead:       doc.WantToReadCount,
			CurrentlyReading: doc.CurrentlyReadingCount,
			AlreadyRead:      doc.AlreadyReadCount,
		})
	}
	return books, nil
}

// WorkDetail fetches the detail record for a work key such as
// "/works/OL45883W". The leading "/works/" prefix is tolerated.
func (c *Client) WorkDetail(ctx context.Context, workKey string) (*Work, error) {
	workID := strings.TrimPrefix(workKey, "/works/")

	var result workResponse
	if err := c.getJSON(ctx, "/works/"+workID+".json", &result); err != nil {
		return nil, err
	}

	work := &Work{Title: result.Title}
	for _, author := range result.Authors {
		if author.Author.Key != "" {
			work.AuthorKeys = append(work.AuthorKeys, author.Author.Key)
		}
	}
	return work, nil
}

// AuthorName resolves an author key such as "/authors/OL26320A" to the
// author's display name. A missing name field yields an empty string.
func (c *Client) AuthorName(ctx context.Context, authorKey string) (string, error) {
	var result authorResponse
	if err := c.getJSON(ctx, authorKey+".json", &result); err != nil {
		return "", err
	}
	return result.Name, nil
}

// getJSON performs a rate-limited GET and decodes the body into out.
// Transport failures and non-2xx statuses become NetworkError; a body
// that fails to decode becomes DecodeError.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return &NetworkError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &NetworkError{Status: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &DecodeError{Err: err}
	}
	return nil
}
