// Package search keeps the current search text and the results fetched for it.
//
// Every SetQuery supersedes the previous one: the in-flight request is
// cancelled and a generation counter guarantees that only the latest
// request can commit results or an error.
package search

import (
	"context"
	"log/slog"
	"sync"
	"unicode/utf8"

	"github.com/sourcegraph/conc"

	"github.com/marco/popcorn/internal/movie"
	"github.com/marco/popcorn/internal/omdb"
)

// DefaultMinLength is the shortest query that triggers a request.
const DefaultMinLength = 3

// Searcher fetches movie summaries for a query.
type Searcher interface {
	Search(ctx context.Context, query string) ([]movie.Summary, error)
}

// State is a snapshot of the query and its outcome.
type State struct {
	Query     string
	Results   []movie.Summary
	IsLoading bool
	Error     string
}

// Option configures a Query.
type Option func(*Query)

// WithMinLength sets the minimum query length in characters.
func WithMinLength(n int) Option {
	return func(q *Query) {
		if n > 0 {
			q.minLength = n
		}
	}
}

// WithOnChange registers a callback invoked after every state change.
// Callbacks are delivered in order and may call State, but must not call SetQuery.
func WithOnChange(fn func(State)) Option {
	return func(q *Query) {
		q.onChange = fn
	}
}

// Query holds the active search text and fetches results whenever it changes.
type Query struct {
	searcher  Searcher
	minLength int
	onChange  func(State)

	mu     sync.Mutex
	state  State
	gen    uint64
	cancel context.CancelFunc

	notifyMu sync.Mutex
	wg       conc.WaitGroup
}

// New creates a Query backed by s.
func New(s Searcher, opts ...Option) *Query {
	q := &Query{
		searcher:  s,
		minLength: DefaultMinLength,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// SetQuery replaces the active query. Short queries clear the results without
// any request; longer ones cancel the previous request and start a new one.
func (q *Query) SetQuery(text string) {
	q.mu.Lock()
	q.cancelLocked()
	q.gen++
	gen := q.gen
	q.state.Query = text

	if utf8.RuneCountInString(text) < q.minLength {
		q.state.Results = nil
		q.state.Error = ""
		q.state.IsLoading = false
		q.commitLocked()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	q.cancel = cancel
	q.state.IsLoading = true
	q.state.Error = ""
	q.commitLocked()

	q.wg.Go(func() {
		q.fetch(ctx, gen, text)
	})
}

// State returns a snapshot of the current state.
func (q *Query) State() State {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.snapshotLocked()
}

// Wait blocks until every started request has finished.
func (q *Query) Wait() {
	q.wg.Wait()
}

// Close cancels the in-flight request, publishes the settled state and waits
// for the request to return.
func (q *Query) Close() {
	q.mu.Lock()
	q.cancelLocked()
	q.gen++
	if !q.state.IsLoading {
		q.mu.Unlock()
		q.wg.Wait()
		return
	}
	q.state.IsLoading = false
	q.commitLocked()
	q.wg.Wait()
}

func (q *Query) fetch(ctx context.Context, gen uint64, text string) {
	results, err := q.searcher.Search(ctx, text)

	q.mu.Lock()
	if gen != q.gen || ctx.Err() != nil {
		q.mu.Unlock()
		slog.Debug("search result discarded", "query", text, "reason", "superseded")
		return
	}
	q.cancelLocked()

	switch {
	case omdb.IsCancelled(err):
		q.state.IsLoading = false
	case err != nil:
		slog.Debug("search failed", "query", text, "error", err)
		q.state.Results = nil
		q.state.Error = omdb.UserMessage(err)
		q.state.IsLoading = false
	default:
		q.state.Results = results
		q.state.Error = ""
		q.state.IsLoading = false
		slog.Debug("search completed", "query", text, "results", len(results))
	}
	q.commitLocked()
}

// commitLocked publishes the state to the change callback and releases q.mu.
// notifyMu is taken before q.mu is released so callbacks observe changes in order.
func (q *Query) commitLocked() {
	st := q.snapshotLocked()
	if q.onChange == nil {
		q.mu.Unlock()
		return
	}
	q.notifyMu.Lock()
	q.mu.Unlock()
	defer q.notifyMu.Unlock()
	q.onChange(st)
}

func (q *Query) cancelLocked() {
	if q.cancel != nil {
		q.cancel()
		q.cancel = nil
	}
}

func (q *Query) snapshotLocked() State {
	st := q.state
	if st.Results != nil {
		st.Results = append([]movie.Summary(nil), st.Results...)
	}
	return st
}
