// Package store persists the watched list in a single named slot.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/afero"

	"github.com/marco/popcorn/internal/config"
)

// ErrSlotEmpty is returned by Get when nothing has been stored yet.
var ErrSlotEmpty = errors.New("slot is empty")

// Slot is a single named value in some durable backend.
type Slot interface {
	// Get returns the stored bytes, or ErrSlotEmpty if the slot was never written.
	Get(ctx context.Context) ([]byte, error)

	// Put overwrites the stored bytes.
	Put(ctx context.Context, data []byte) error

	// Close releases the backend.
	Close() error
}

// Open creates the slot selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StorageConfig) (Slot, error) {
	switch cfg.Driver {
	case config.DriverFile:
		return NewFileSlot(afero.NewOsFs(), cfg.Path), nil
	case config.DriverSQLite:
		return NewSQLiteSlot(ctx, cfg.Path, cfg.Key)
	case config.DriverRedis:
		return NewRedisSlot(ctx, cfg.Redis, cfg.Key)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
