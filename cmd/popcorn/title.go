package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/marco/popcorn/internal/detail"
)

const defaultTitle = "usePopcorn"

// terminalTitle shows the open movie in the terminal window title.
type terminalTitle struct {
	w io.Writer
}

// newTerminalTitle returns nil when f is not a terminal.
func newTerminalTitle(f *os.File) detail.TitleDisplay {
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return nil
	}
	return &terminalTitle{w: f}
}

func (t *terminalTitle) SetTitle(title string) {
	fmt.Fprintf(t.w, "\x1b]0;Movie | %s\x07", stripControl(title))
}

func (t *terminalTitle) ResetTitle() {
	fmt.Fprintf(t.w, "\x1b]0;%s\x07", defaultTitle)
}

func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}
