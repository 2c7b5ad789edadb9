// Package detail loads the full record of the selected movie.
package detail

import (
	"context"
	"log/slog"
	"sync"

	"github.com/sourcegraph/conc"

	"github.com/marco/popcorn/internal/movie"
	"github.com/marco/popcorn/internal/omdb"
)

// Fetcher fetches the full record for one movie id.
type Fetcher interface {
	Movie(ctx context.Context, id string) (*movie.Detail, error)
}

// TitleDisplay is the host's title bar. SetTitle is called with the title of
// the loaded movie and ResetTitle when the detail is cleared. Both are called
// with the loader locked and must not call back into it.
type TitleDisplay interface {
	SetTitle(title string)
	ResetTitle()
}

// State is a snapshot of the loader.
type State struct {
	ID        string
	Detail    *movie.Detail
	IsLoading bool
	Error     string
}

// Loader fetches detail for the selected id, cancelling superseded fetches.
type Loader struct {
	fetcher Fetcher
	title   TitleDisplay

	mu     sync.Mutex
	state  State
	gen    uint64
	cancel context.CancelFunc
	wg     conc.WaitGroup
}

// New creates a Loader. title may be nil.
func New(f Fetcher, title TitleDisplay) *Loader {
	return &Loader{fetcher: f, title: title}
}

// Load switches the loader to id. An empty id clears the detail.
func (l *Loader) Load(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.cancelLocked()
	l.gen++
	gen := l.gen

	hadDetail := l.state.Detail != nil
	l.state = State{ID: id}
	if hadDetail && l.title != nil {
		l.title.ResetTitle()
	}

	if id == "" {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	l.state.IsLoading = true

	l.wg.Go(func() {
		l.fetch(ctx, gen, id)
	})
}

// State returns a snapshot of the current state.
func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	st := l.state
	if st.Detail != nil {
		d := *st.Detail
		st.Detail = &d
	}
	return st
}

// Wait blocks until every started fetch has finished.
func (l *Loader) Wait() {
	l.wg.Wait()
}

// Close clears the detail and waits for any in-flight fetch.
func (l *Loader) Close() {
	l.Load("")
	l.wg.Wait()
}

func (l *Loader) fetch(ctx context.Context, gen uint64, id string) {
	d, err := l.fetcher.Movie(ctx, id)

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen || ctx.Err() != nil {
		slog.Debug("movie detail discarded", "id", id, "reason", "superseded")
		return
	}
	l.cancelLocked()
	l.state.IsLoading = false

	switch {
	case omdb.IsCancelled(err):
	case err != nil:
		slog.Debug("movie detail failed", "id", id, "error", err)
		l.state.Error = omdb.UserMessage(err)
	case d == nil:
		l.state.Error = omdb.MessageNotFound
	default:
		l.state.Detail = d
		if l.title != nil {
			l.title.SetTitle(d.Title)
		}
	}
}

func (l *Loader) cancelLocked() {
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}
