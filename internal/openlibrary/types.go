package openlibrary

// searchResponse matches the /search.json response envelope.
type searchResponse struct {
	Docs []searchDoc `json:"docs"`
}

// searchDoc matches one element of the docs array. Everything except key
// and title is optional.
type searchDoc struct {
	Key                   string   `json:"key"`
	Title                 string   `json:"title"`
	AuthorName            []string `json:"author_name"`
	FirstPublishYear      int      `json:"first_publish_year"`
	EditionCount          int      `json:"edition_count"`
	CoverID               int      `json:"cover_i"`
	Language              []string `json:"language"`
	Subject               []string `json:"subject"`
	WantToReadCount       int      `json:"want_to_read_count"`
	CurrentlyReadingCount int      `json:"currently_reading_count"`
	AlreadyReadCount      int      `json:"already_read_count"`
}

// workResponse matches the /works/<id>.json response.
type workResponse struct {
	Title   string `json:"title"`
	Authors []struct {
		Author struct {
			Key string `json:"key"`
		} `json:"author"`
	} `json:"authors"`
}

// authorResponse matches the author detail response.
type authorResponse struct {
	Name string `json:"name"`
}

// Work is the resolved detail for a single work, used when a favorited
// book is not present in the current search page.
type Work struct {
	Title      string
	AuthorKeys []string
}
