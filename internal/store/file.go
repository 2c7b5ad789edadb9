package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// FileSlot keeps the slot in a single file.
type FileSlot struct {
	fs   afero.Fs
	path string
}

// NewFileSlot creates a slot stored at path on fs.
func NewFileSlot(fs afero.Fs, path string) *FileSlot {
	return &FileSlot{fs: fs, path: path}
}

// Get reads the file.
func (s *FileSlot) Get(ctx context.Context) ([]byte, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	return data, nil
}

// Put replaces the file through a temporary file and a rename, so a crash
// mid-write leaves the previous value in place.
func (s *FileSlot) Put(ctx context.Context, data []byte) error {
	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		s.fs.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}
	return nil
}

// Close is a no-op for files.
func (s *FileSlot) Close() error {
	return nil
}
