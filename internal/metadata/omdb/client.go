package omdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
	"unicode"

	"golang.org/x/time/rate"
)

const (
	// Bounded wait per lookup. A slow upstream delays only the one request
	// that triggered it; there is no automatic retry.
	requestTimeout = 15 * time.Second

	rateLimit = 4
	rateBurst = 8

	yearMin = 1880
)

// Client performs title lookups against the OMDb API.
type Client struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
}

// NewClient creates a metadata client. An empty apiKey is allowed; every
// lookup then fails with ErrNotConfigured.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:     baseURL,
		apiKey:      apiKey,
		rateLimiter: rate.NewLimiter(rate.Limit(rateLimit), rateBurst),
		httpClient: &http.Client{
			Timeout: requestTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 5,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// FetchByTitle looks up a movie by exact title and returns its normalized
// metadata.
func (c *Client) FetchByTitle(ctx context.Context, title string) (*Metadata, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, &UpstreamError{Detail: "rate limiter", Err: err}
	}

	params := url.Values{}
	params.Set("apikey", c.apiKey)
	params.Set("t", title)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &UpstreamError{Detail: "build request", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Detail: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{Detail: fmt.Sprintf("unexpected status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &UpstreamError{Detail: "read response", Err: err}
	}

	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, &UpstreamError{Detail: "malformed response body", Err: err}
	}

	// OMDb signals "no match" in the body, not via HTTP status.
	if sr.Response != "True" {
		return nil, ErrNotFound
	}

	return &Metadata{
		Title:     sr.Title,
		Director:  cleanField(sr.Director),
		Year:      ParseYear(sr.Year),
		Plot:      cleanField(sr.Plot),
		PosterURL: cleanField(sr.Poster),
		Rating:    parseRating(sr.Rating),
	}, nil
}

// cleanField maps the upstream "not applicable" literal to empty.
func cleanField(s string) string {
	if s == "N/A" {
		return ""
	}
	return s
}

// ParseYear normalizes an upstream year value. Ranges like "2009–2011"
// collapse to the first year. Unparsable or implausible values become
// absent; normalization never fails.
func ParseYear(s string) *int {
	digits := leadingDigits(s)
	if digits == "" {
		return nil
	}
	y, err := strconv.Atoi(digits)
	if err != nil {
		return nil
	}
	if y < yearMin || y > time.Now().Year()+5 {
		return nil
	}
	return &y
}

func leadingDigits(s string) string {
	for i, r := range s {
		if !unicode.IsDigit(r) {
			return s[:i]
		}
	}
	return s
}

// parseRating treats "N/A" and anything outside [0, 10] as absent, never
// as zero.
func parseRating(s string) *float64 {
	if s == "" || s == "N/A" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || v > 10 {
		return nil
	}
	return &v
}
