// Package omdb is a small client for the OMDb movie database API.
package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/marco/popcorn/internal/movie"
	"github.com/marco/popcorn/internal/retry"
)

// DefaultBaseURL is the public OMDb endpoint.
const DefaultBaseURL = "https://www.omdbapi.com/"

const maxBodyBytes = 1 << 20

var (
	// ErrTransport is returned when OMDb answers with a non-OK status or an unreadable body.
	ErrTransport = errors.New("omdb request failed")
	// ErrNotFound is returned when a well-formed response has no movie payload.
	ErrNotFound = errors.New("movie not found")
)

// User-visible messages for the two surfaced error kinds.
const (
	MessageTransport = "Something went wrong"
	MessageNotFound  = "Movie not found"
)

// Client represents an OMDb API client
type Client struct {
	apiKey         string
	baseURL        string
	httpClient     *http.Client
	maxAttempts    int
	initialBackoff time.Duration
	retryLogFunc   retry.LogFunc
}

// Config holds configuration for the OMDb client
type Config struct {
	APIKey         string
	BaseURL        string
	Timeout        time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
	RetryLogFunc   retry.LogFunc
	HTTPClient     *http.Client
}

// NewClient creates a new OMDb API client
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		apiKey:         cfg.APIKey,
		baseURL:        cfg.BaseURL,
		httpClient:     httpClient,
		maxAttempts:    cfg.MaxAttempts,
		initialBackoff: cfg.InitialBackoff,
		retryLogFunc:   cfg.RetryLogFunc,
	}
}

// Search returns the movies whose title matches query.
func (c *Client) Search(ctx context.Context, query string) ([]movie.Summary, error) {
	params := url.Values{}
	params.Set("s", query)

	var resp searchResponse
	if err := c.getJSON(ctx, params, &resp); err != nil {
		return nil, err
	}

	if resp.Search == nil {
		if resp.Error != "" {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, resp.Error)
		}
		return nil, ErrNotFound
	}

	results := make([]movie.Summary, 0, len(resp.Search))
	for _, r := range resp.Search {
		results = append(results, movie.Summary{
			ID:        r.IMDbID,
			Title:     r.Title,
			Year:      r.Year,
			PosterURL: r.Poster,
		})
	}
	return results, nil
}

// Movie fetches the full record for one IMDb id.
func (c *Client) Movie(ctx context.Context, id string) (*movie.Detail, error) {
	params := url.Values{}
	params.Set("i", id)

	var resp movieResponse
	if err := c.getJSON(ctx, params, &resp); err != nil {
		return nil, err
	}

	if strings.EqualFold(resp.Response, "False") {
		if resp.Error != "" {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, resp.Error)
		}
		return nil, ErrNotFound
	}

	movieID := resp.IMDbID
	if movieID == "" {
		movieID = id
	}

	return &movie.Detail{
		ID:             movieID,
		Title:          resp.Title,
		Year:           resp.Year,
		PosterURL:      resp.Poster,
		RuntimeMinutes: ParseRuntime(resp.Runtime),
		IMDbRating:     ParseRating(resp.IMDbRating),
		Plot:           resp.Plot,
		Released:       resp.Released,
		Actors:         resp.Actors,
		Director:       resp.Director,
		Genre:          resp.Genre,
	}, nil
}

// getJSON performs a GET against the base URL with retry and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, params url.Values, out any) error {
	params.Set("apikey", c.apiKey)
	requestURL := c.baseURL + "?" + params.Encode()

	var body []byte
	err := retry.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
		if err != nil {
			return err
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return err
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return &retry.StatusError{StatusCode: resp.StatusCode, Body: truncate(string(data), 200)}
		}
		body = data
		return nil
	}, retry.Options{
		MaxAttempts:    c.maxAttempts,
		InitialBackoff: c.initialBackoff,
		OnRetry:        c.retryLogFunc,
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrTransport, err)
	}
	return nil
}

// IsCancelled reports whether err comes from a superseded or abandoned request.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled)
}

// UserMessage maps a fetch error to the message shown to the user.
// Cancellation is never shown, so it maps to "".
func UserMessage(err error) string {
	switch {
	case err == nil, IsCancelled(err):
		return ""
	case errors.Is(err, ErrNotFound):
		return MessageNotFound
	default:
		return MessageTransport
	}
}

// ParseRuntime takes the leading numeric token of a runtime such as "142 min".
func ParseRuntime(s string) int {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0
	}
	return n
}

// ParseRating parses OMDb's string rating, treating "N/A" and garbage as 0.
func ParseRating(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
