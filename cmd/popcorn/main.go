package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/marco/popcorn/internal/config"
	"github.com/marco/popcorn/internal/logging"
)

var (
	configPath = flag.String("config", "~/.popcorn/config.yaml", "Path to configuration file")
	verbose    = flag.Bool("verbose", false, "Show detailed logging")
)

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage: popcorn [flags] <command> [args]\n\n")
	fmt.Fprintf(out, "Commands:\n")
	fmt.Fprintf(out, "  search <text>             search OMDb by title\n")
	fmt.Fprintf(out, "  show <imdbID>             show one movie\n")
	fmt.Fprintf(out, "  add <imdbID> -rating N    add a movie to the watched list\n")
	fmt.Fprintf(out, "  remove <imdbID>           remove a movie from the watched list\n")
	fmt.Fprintf(out, "  list                      print the watched list\n")
	fmt.Fprintf(out, "  stats                     print watched list averages\n")
	fmt.Fprintf(out, "  refresh [-workers N]      re-fetch OMDb data for watched movies\n")
	fmt.Fprintf(out, "  export -o <file.md>       write the watched list as Markdown\n")
	fmt.Fprintf(out, "  shell                     interactive mode (default)\n\n")
	fmt.Fprintf(out, "Flags:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *verbose {
		cfg.Log.Level = "debug"
	}

	logger, logCloser, err := logging.Setup(cfg.Log, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error setting up logging: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	slog.Debug("configuration loaded",
		"path", *configPath,
		"storage", cfg.Storage.Driver,
		"min_query_length", cfg.Search.MinQueryLength,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	args := flag.Args()
	command := "shell"
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}

	title := newTerminalTitle(os.Stdout)
	if command != "shell" {
		title = nil
	}

	a, err := newApp(ctx, cfg, title)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	err = a.run(ctx, command, args, os.Stdin, os.Stdout)
	a.Close()

	if errors.Is(err, errUsage) {
		flag.Usage()
		os.Exit(2)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
