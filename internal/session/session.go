// Package session wires search, selection, detail and the watched list into
// the flow a shell drives: type a query, open a result, rate it, add it.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/marco/popcorn/internal/detail"
	"github.com/marco/popcorn/internal/movie"
	"github.com/marco/popcorn/internal/search"
	"github.com/marco/popcorn/internal/selection"
	"github.com/marco/popcorn/internal/watched"
)

var (
	// ErrNothingSelected is returned when an action needs an open movie.
	ErrNothingSelected = errors.New("no movie is open")
	// ErrNotRated is returned when adding before a rating was chosen.
	ErrNotRated = errors.New("choose a rating before adding the movie")
	// ErrDetailNotLoaded is returned when the open movie's detail has not arrived.
	ErrDetailNotLoaded = errors.New("movie detail is not loaded yet")
	// ErrUnknownMovie is returned when selecting an id that was never shown.
	ErrUnknownMovie = errors.New("movie is not in the current results or the watched list")
)

// Session is the state behind one interactive user.
type Session struct {
	search  *search.Query
	sel     *selection.State
	detail  *detail.Loader
	watched *watched.Controller

	mu          sync.Mutex
	rating      int
	adjustments int
}

// New wires the components together. Selection changes drive the detail loader.
func New(q *search.Query, sel *selection.State, det *detail.Loader, w *watched.Controller) *Session {
	s := &Session{
		search:  q,
		sel:     sel,
		detail:  det,
		watched: w,
	}
	sel.OnChange(s.selectionChanged)
	return s
}

func (s *Session) selectionChanged(id string) {
	s.mu.Lock()
	s.rating = 0
	s.adjustments = 0
	s.mu.Unlock()

	s.detail.Load(id)
}

// SetQuery updates the search text.
func (s *Session) SetQuery(text string) {
	s.search.SetQuery(text)
}

// Search returns the search state.
func (s *Session) Search() search.State {
	return s.search.State()
}

// Detail returns the state of the open movie's detail.
func (s *Session) Detail() detail.State {
	return s.detail.State()
}

// Selected returns the open movie id.
func (s *Session) Selected() (string, bool) {
	return s.sel.Current()
}

// Select opens id, or closes it when it is already open. The id must appear in
// the current results or the watched list.
func (s *Session) Select(id string) (string, error) {
	if !s.known(id) {
		return "", fmt.Errorf("%w: %s", ErrUnknownMovie, id)
	}
	return s.sel.Select(id), nil
}

// Close closes the open movie.
func (s *Session) Close() {
	s.sel.Clear()
}

// Rate records the rating chosen for the open movie. Each change to a
// different value counts as one rating adjustment.
func (s *Session) Rate(n int) error {
	if !movie.ValidRating(n) {
		return movie.ErrInvalidRating
	}
	id, ok := s.sel.Current()
	if !ok {
		return ErrNothingSelected
	}
	if _, watchedAlready := s.watched.Find(id); watchedAlready {
		return fmt.Errorf("%w: %s", watched.ErrAlreadyWatched, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if n != s.rating {
		s.rating = n
		s.adjustments++
	}
	return nil
}

// Rating returns the pending rating and how many times it was changed.
func (s *Session) Rating() (rating, adjustments int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rating, s.adjustments
}

// AddSelected adds the open movie with the pending rating to the watched
// list and closes it.
func (s *Session) AddSelected(ctx context.Context) (movie.WatchedEntry, error) {
	id, ok := s.sel.Current()
	if !ok {
		return movie.WatchedEntry{}, ErrNothingSelected
	}

	st := s.detail.State()
	if st.Detail == nil || st.ID != id {
		return movie.WatchedEntry{}, ErrDetailNotLoaded
	}

	rating, adjustments := s.Rating()
	if rating == 0 {
		return movie.WatchedEntry{}, ErrNotRated
	}

	e := movie.NewWatchedEntry(*st.Detail, rating, adjustments)
	e.MovieID = id
	if err := s.watched.Add(ctx, e); err != nil {
		return movie.WatchedEntry{}, err
	}

	s.sel.Clear()
	return e, nil
}

// AlreadyWatched returns the watched entry for the open movie, if any.
func (s *Session) AlreadyWatched() (movie.WatchedEntry, bool) {
	id, ok := s.sel.Current()
	if !ok {
		return movie.WatchedEntry{}, false
	}
	return s.watched.Find(id)
}

// Remove deletes a movie from the watched list.
func (s *Session) Remove(ctx context.Context, movieID string) (bool, error) {
	return s.watched.Remove(ctx, movieID)
}

// Watched returns the watched list.
func (s *Session) Watched() []movie.WatchedEntry {
	return s.watched.Entries()
}

// Statistics summarizes the watched list.
func (s *Session) Statistics() movie.Statistics {
	return s.watched.Statistics()
}

// Wait blocks until outstanding search and detail fetches have settled.
func (s *Session) Wait() {
	s.search.Wait()
	s.detail.Wait()
}

// Shutdown cancels outstanding fetches and waits for them.
func (s *Session) Shutdown() {
	s.search.Close()
	s.detail.Close()
}

func (s *Session) known(id string) bool {
	if id == "" {
		return false
	}
	if current, ok := s.sel.Current(); ok && current == id {
		return true
	}
	for _, r := range s.search.State().Results {
		if r.ID == id {
			return true
		}
	}
	_, ok := s.watched.Find(id)
	return ok
}
