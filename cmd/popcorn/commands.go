package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/marco/popcorn/internal/movie"
	"github.com/marco/popcorn/internal/omdb"
)

var errUsage = errors.New("usage")

// run dispatches one command.
func (a *app) run(ctx context.Context, command string, args []string, in io.Reader, out io.Writer) error {
	switch command {
	case "search":
		return a.runSearch(args, out)
	case "show":
		return a.runShow(ctx, args, out)
	case "add":
		return a.runAdd(ctx, args, out)
	case "remove", "rm":
		return a.runRemove(ctx, args, out)
	case "list":
		printWatched(out, a.watched.Entries())
		return nil
	case "stats":
		printStats(out, a.watched.Statistics())
		return nil
	case "refresh":
		return a.runRefresh(ctx, args, out)
	case "export":
		return a.runExport(args, out)
	case "shell":
		sh := newShell(ctx, a.session, out, a.cfg.Search.MinQueryLength)
		return sh.run(in)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
}

func (a *app) runSearch(args []string, out io.Writer) error {
	text := strings.Join(args, " ")
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: search needs a title", errUsage)
	}

	a.session.SetQuery(text)
	a.session.Wait()
	printSearch(out, a.session.Search(), a.cfg.Search.MinQueryLength)
	return nil
}

func (a *app) runShow(ctx context.Context, args []string, out io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: show needs one IMDb id", errUsage)
	}

	d, err := a.client.Movie(ctx, args[0])
	if err != nil {
		return fetchError(err)
	}

	printDetail(out, d)
	if e, ok := a.watched.Find(d.ID); ok {
		printAlreadyWatched(out, e)
	}
	return nil
}

func (a *app) runAdd(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	rating := fs.Int("rating", 0, "Your rating from 1 to 10")

	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if len(positional) != 1 {
		return fmt.Errorf("%w: add needs one IMDb id", errUsage)
	}
	if !movie.ValidRating(*rating) {
		return movie.ErrInvalidRating
	}

	d, err := a.client.Movie(ctx, positional[0])
	if err != nil {
		return fetchError(err)
	}

	e := movie.NewWatchedEntry(*d, *rating, 1)
	e.MovieID = positional[0]
	if err := a.watched.Add(ctx, e); err != nil {
		return err
	}

	fmt.Fprintf(out, "Added %s (%s), rated %d/10\n", e.Title, e.Year, e.UserRating)
	return nil
}

func (a *app) runRemove(ctx context.Context, args []string, out io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: remove needs one IMDb id", errUsage)
	}

	removed, err := a.watched.Remove(ctx, args[0])
	if err != nil {
		return err
	}
	if !removed {
		fmt.Fprintf(out, "%s is not in the watched list\n", args[0])
		return nil
	}
	fmt.Fprintf(out, "Removed %s\n", args[0])
	return nil
}

func (a *app) runExport(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	output := fs.String("o", "watched.md", "Output Markdown file")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	entries := a.watched.Entries()
	if err := a.report.WriteFile(*output, entries, a.watched.Statistics()); err != nil {
		return err
	}

	fmt.Fprintf(out, "Wrote %d movies to %s\n", len(entries), *output)
	return nil
}

// fetchError turns an OMDb failure into the message shown to the user.
func fetchError(err error) error {
	if omdb.IsCancelled(err) {
		return err
	}
	return errors.New(omdb.UserMessage(err))
}

// parseInterspersed parses flags that may appear before or after positional
// arguments and returns the positional ones.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		if fs.NArg() == 0 {
			return positional, nil
		}
		positional = append(positional, fs.Arg(0))
		args = fs.Args()[1:]
	}
}
