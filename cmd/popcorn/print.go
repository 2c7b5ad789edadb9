package main

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/marco/popcorn/internal/detail"
	"github.com/marco/popcorn/internal/movie"
	"github.com/marco/popcorn/internal/search"
)

func printSearch(out io.Writer, st search.State, minLength int) {
	switch {
	case st.IsLoading:
		fmt.Fprintln(out, "Loading...")
	case st.Error != "":
		fmt.Fprintf(out, "⛔ %s\n", st.Error)
	case len(st.Results) == 0 && utf8.RuneCountInString(st.Query) < minLength:
		fmt.Fprintf(out, "Type at least %d characters to search\n", minLength)
	default:
		fmt.Fprintf(out, "Found %d results\n", len(st.Results))
		for i, r := range st.Results {
			fmt.Fprintf(out, "%3d. %s (%s) [%s]\n", i+1, r.Title, r.Year, r.ID)
		}
	}
}

func printDetailState(out io.Writer, st detail.State) {
	switch {
	case st.IsLoading:
		fmt.Fprintln(out, "Loading...")
	case st.Error != "":
		fmt.Fprintf(out, "⛔ %s\n", st.Error)
	case st.Detail != nil:
		printDetail(out, st.Detail)
	}
}

func printDetail(out io.Writer, d *movie.Detail) {
	fmt.Fprintf(out, "%s (%s)\n", d.Title, d.Year)
	if d.Released != "" {
		fmt.Fprintf(out, "  Released: %s", d.Released)
		if d.RuntimeMinutes > 0 {
			fmt.Fprintf(out, " · %d min", d.RuntimeMinutes)
		}
		fmt.Fprintln(out)
	}
	if d.Genre != "" {
		fmt.Fprintf(out, "  Genre: %s\n", d.Genre)
	}
	if d.IMDbRating > 0 {
		fmt.Fprintf(out, "  ⭐ %.1f IMDb rating\n", d.IMDbRating)
	}
	if d.Plot != "" {
		fmt.Fprintf(out, "  %s\n", d.Plot)
	}
	if d.Actors != "" {
		fmt.Fprintf(out, "  Starring %s\n", d.Actors)
	}
	if d.Director != "" {
		fmt.Fprintf(out, "  Directed by %s\n", d.Director)
	}
}

func printAlreadyWatched(out io.Writer, e movie.WatchedEntry) {
	fmt.Fprintf(out, "  You rated this movie %d ⭐\n", e.UserRating)
}

func printWatched(out io.Writer, entries []movie.WatchedEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(out, "No watched movies yet")
		return
	}
	for _, e := range entries {
		fmt.Fprintf(out, "%s (%s) [%s]  ⭐ %.1f  🌟 %d  ⏳ %d min\n",
			e.Title, e.Year, e.MovieID, e.IMDbRating, e.UserRating, e.RuntimeMinutes)
	}
}

func printStats(out io.Writer, stats movie.Statistics) {
	fmt.Fprintf(out, "#️⃣ %d movies  ⭐ %.2f  🌟 %.2f  ⏳ %.2f min\n",
		stats.Count, stats.AvgIMDbRating, stats.AvgUserRating, stats.AvgRuntime)
}
