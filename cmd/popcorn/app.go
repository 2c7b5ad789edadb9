package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/afero"

	"github.com/marco/popcorn/internal/config"
	"github.com/marco/popcorn/internal/detail"
	"github.com/marco/popcorn/internal/omdb"
	"github.com/marco/popcorn/internal/report"
	"github.com/marco/popcorn/internal/search"
	"github.com/marco/popcorn/internal/selection"
	"github.com/marco/popcorn/internal/session"
	"github.com/marco/popcorn/internal/store"
	"github.com/marco/popcorn/internal/watched"
)

// app holds the components every command works with.
type app struct {
	cfg     *config.Config
	client  *omdb.Client
	list    *store.List
	watched *watched.Controller
	session *session.Session
	report  *report.Writer
}

func newApp(ctx context.Context, cfg *config.Config, title detail.TitleDisplay) (*app, error) {
	client := omdb.NewClient(omdb.Config{
		APIKey:         cfg.OMDb.APIKey,
		BaseURL:        cfg.OMDb.BaseURL,
		Timeout:        time.Duration(cfg.OMDb.TimeoutSeconds) * time.Second,
		MaxAttempts:    cfg.OMDb.MaxAttempts,
		InitialBackoff: time.Duration(cfg.OMDb.InitialBackoffMs) * time.Millisecond,
		RetryLogFunc: func(attempt, maxAttempts int, backoff time.Duration, err error) {
			slog.Warn("omdb request failed, retrying",
				"attempt", attempt,
				"max_attempts", maxAttempts,
				"backoff", backoff,
				"error", err,
			)
		},
	})

	slot, err := store.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Driver, err)
	}
	list := store.NewList(slot)

	w, err := watched.New(ctx, list)
	if err != nil {
		list.Close()
		return nil, fmt.Errorf("failed to load watched list: %w", err)
	}

	query := search.New(client, search.WithMinLength(cfg.Search.MinQueryLength))
	sess := session.New(query, selection.New(), detail.New(client, title), w)

	return &app{
		cfg:     cfg,
		client:  client,
		list:    list,
		watched: w,
		session: sess,
		report:  report.NewWriter(afero.NewOsFs()),
	}, nil
}

// Close stops outstanding fetches and releases storage.
func (a *app) Close() {
	a.session.Shutdown()
	if err := a.list.Close(); err != nil {
		slog.Warn("failed to close storage", "error", err)
	}
}
