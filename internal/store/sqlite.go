package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// goose keeps its filesystem and dialect in package globals.
var gooseMu sync.Mutex

// SQLiteSlot implements Slot as one row of a SQLite table.
type SQLiteSlot struct {
	db  *sql.DB
	key string
}

// NewSQLiteSlot opens (creating if needed) the database at dbPath and
// migrates it to the latest schema.
func NewSQLiteSlot(ctx context.Context, dbPath, key string) (*SQLiteSlot, error) {
	// Ensure parent directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows one writer; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteSlot{db: db, key: key}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Get returns the stored value for the slot key.
func (s *SQLiteSlot) Get(ctx context.Context) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT value_json FROM slots WHERE slot_key = ?",
		s.key,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read slot %q: %w", s.key, err)
	}
	return data, nil
}

// Put stores data under the slot key, replacing any previous value.
func (s *SQLiteSlot) Put(ctx context.Context, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO slots (slot_key, value_json, updated_at)
		 VALUES (?, ?, ?)`,
		s.key, data, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to write slot %q: %w", s.key, err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteSlot) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
