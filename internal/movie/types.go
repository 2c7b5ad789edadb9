// Package movie holds the records shared by search, detail and the watched list.
package movie

import "errors"

// Rating bounds accepted for a user's own score.
const (
	MinRating = 1
	MaxRating = 10
)

var (
	// ErrInvalidRating is returned when a user rating falls outside MinRating..MaxRating.
	ErrInvalidRating = errors.New("user rating must be between 1 and 10")
	// ErrMissingID is returned when a watched entry has no movie id.
	ErrMissingID = errors.New("movie id is required")
)

// Summary is one row of a search result.
type Summary struct {
	ID        string
	Title     string
	Year      string
	PosterURL string
}

// Detail is the full record for one movie
type Detail struct {
	ID             string
	Title          string
	Year           string
	PosterURL      string
	RuntimeMinutes int
	IMDbRating     float64
	Plot           string
	Released       string
	Actors         string
	Director       string
	Genre          string
}

// WatchedEntry is a user's record of having watched a movie.
// The JSON form is what the persisted list stores.
type WatchedEntry struct {
	MovieID           string  `json:"imdbId"`
	Title             string  `json:"title"`
	Year              string  `json:"year"`
	PosterURL         string  `json:"poster"`
	IMDbRating        float64 `json:"imdbRating"`
	RuntimeMinutes    int     `json:"runtime"`
	UserRating        int     `json:"userRating"`
	RatingAdjustments int     `json:"ratingAdjustments"`
}

// NewWatchedEntry builds an entry from a loaded detail and the user's rating.
func NewWatchedEntry(d Detail, rating, adjustments int) WatchedEntry {
	return WatchedEntry{
		MovieID:           d.ID,
		Title:             d.Title,
		Year:              d.Year,
		PosterURL:         d.PosterURL,
		IMDbRating:        d.IMDbRating,
		RuntimeMinutes:    d.RuntimeMinutes,
		UserRating:        rating,
		RatingAdjustments: adjustments,
	}
}

// Validate checks the fields every stored entry must satisfy.
func (e WatchedEntry) Validate() error {
	if e.MovieID == "" {
		return ErrMissingID
	}
	if !ValidRating(e.UserRating) {
		return ErrInvalidRating
	}
	return nil
}

// ValidRating reports whether r is an acceptable user rating.
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}
