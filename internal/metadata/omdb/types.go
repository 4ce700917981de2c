package omdb

import (
	"errors"
	"fmt"
)

// Metadata is the normalized result of a title lookup. Every field except
// Title may be absent.
type Metadata struct {
	Title     string
	Director  string
	Year      *int
	Plot      string
	PosterURL string
	Rating    *float64
}

var (
	// ErrNotConfigured means no API key is available; fetch-mode is off.
	ErrNotConfigured = errors.New("metadata lookup is not configured")

	// ErrNotFound means the upstream service reported no match.
	ErrNotFound = errors.New("no movie found for that title")
)

// UpstreamError covers timeouts, network failures, non-success HTTP status
// and malformed response bodies.
type UpstreamError struct {
	Detail string
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("movie database unavailable: %s: %v", e.Detail, e.Err)
	}
	return "movie database unavailable: " + e.Detail
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// searchResponse mirrors the upstream JSON body. Absent values arrive as
// the literal string "N/A" rather than null.
type searchResponse struct {
	Title    string `json:"Title"`
	Year     string `json:"Year"`
	Director string `json:"Director"`
	Plot     string `json:"Plot"`
	Poster   string `json:"Poster"`
	Rating   string `json:"imdbRating"`
	Response string `json:"Response"`
	Error    string `json:"Error"`
}
