package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/marco/popcorn/internal/session"
)

const shellHelp = `Type a title to search. Commands:
  :open N | :open <id>   open result N or a movie id (again to close)
  :rate N                rate the open movie from 1 to 10
  :add                   add the open movie to the watched list
  :close                 close the open movie
  :rm <id>               remove a movie from the watched list
  :watched               print the watched list
  :stats                 print watched list averages
  :quit                  leave`

// shell is the interactive line mode.
type shell struct {
	ctx       context.Context
	session   *session.Session
	out       io.Writer
	minLength int
}

func newShell(ctx context.Context, s *session.Session, out io.Writer, minLength int) *shell {
	return &shell{ctx: ctx, session: s, out: out, minLength: minLength}
}

func (sh *shell) run(in io.Reader) error {
	fmt.Fprintln(sh.out, shellHelp)
	printStats(sh.out, sh.session.Statistics())

	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(in)
		defer func() {
			errc <- scanner.Err()
			close(lines)
		}()
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-sh.ctx.Done():
				return
			}
		}
	}()

	sh.prompt()
	for {
		select {
		case <-sh.ctx.Done():
			fmt.Fprintln(sh.out)
			return sh.ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return <-errc
			}
			quit, err := sh.handle(line)
			if err != nil {
				fmt.Fprintf(sh.out, "⛔ %v\n", err)
			}
			if quit {
				return nil
			}
			sh.prompt()
		}
	}
}

func (sh *shell) prompt() {
	fmt.Fprint(sh.out, "> ")
}

// handle runs one input line and reports whether the shell should exit.
func (sh *shell) handle(line string) (bool, error) {
	if !strings.HasPrefix(line, ":") {
		sh.session.SetQuery(line)
		sh.session.Wait()
		printSearch(sh.out, sh.session.Search(), sh.minLength)
		return false, nil
	}

	fields := strings.Fields(line)
	arg := ""
	if len(fields) > 1 {
		arg = fields[1]
	}

	switch fields[0] {
	case ":open", ":o":
		return false, sh.open(arg)
	case ":rate", ":r":
		n, err := strconv.Atoi(arg)
		if err != nil {
			return false, fmt.Errorf("rating must be a number from 1 to 10")
		}
		if err := sh.session.Rate(n); err != nil {
			return false, err
		}
		fmt.Fprintf(sh.out, "Rated %d/10\n", n)
	case ":add", ":a":
		e, err := sh.session.AddSelected(sh.ctx)
		if err != nil {
			return false, err
		}
		fmt.Fprintf(sh.out, "Added %s (%s)\n", e.Title, e.Year)
		printStats(sh.out, sh.session.Statistics())
	case ":close", ":c":
		sh.session.Close()
	case ":rm":
		if arg == "" {
			return false, errors.New("usage: :rm <id>")
		}
		removed, err := sh.session.Remove(sh.ctx, arg)
		if err != nil {
			return false, err
		}
		if removed {
			fmt.Fprintf(sh.out, "Removed %s\n", arg)
			printStats(sh.out, sh.session.Statistics())
		}
	case ":watched", ":w":
		printWatched(sh.out, sh.session.Watched())
	case ":stats", ":s":
		printStats(sh.out, sh.session.Statistics())
	case ":help", ":h":
		fmt.Fprintln(sh.out, shellHelp)
	case ":quit", ":q":
		return true, nil
	default:
		return false, fmt.Errorf("unknown command %s, try :help", fields[0])
	}
	return false, nil
}

func (sh *shell) open(arg string) error {
	if arg == "" {
		return errors.New("usage: :open N or :open <id>")
	}

	id := arg
	if n, err := strconv.Atoi(arg); err == nil {
		results := sh.session.Search().Results
		if n < 1 || n > len(results) {
			return fmt.Errorf("no result %d", n)
		}
		id = results[n-1].ID
	}

	current, err := sh.session.Select(id)
	if err != nil {
		return err
	}
	if current == "" {
		fmt.Fprintln(sh.out, "Closed")
		return nil
	}

	sh.session.Wait()
	printDetailState(sh.out, sh.session.Detail())
	if e, ok := sh.session.AlreadyWatched(); ok {
		printAlreadyWatched(sh.out, e)
	}
	return nil
}
