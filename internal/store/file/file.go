package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gameshop/backend/internal/domain"
	"gameshop/backend/internal/store"
)

// Store persists the snapshot as a single flat JSON file, matching the
// data files the desktop variants write. Missing files yield a fresh
// snapshot; missing keys in older files are default-filled on load.
type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Load(_ context.Context) (*domain.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.NewSnapshot(), nil
		}
		return nil, fmt.Errorf("%w: read %s: %v", store.ErrPersistence, s.path, err)
	}
	return store.DecodeDocument(data)
}

func (s *Store) Save(_ context.Context, snap *domain.Snapshot) error {
	data, err := store.EncodeDocument(snap)
	if err != nil {
		return err
	}

	// Write via a temp file in the same directory so a crash mid-write
	// can't leave a truncated document behind.
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", store.ErrPersistence, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: write %s: %v", store.ErrPersistence, tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: close %s: %v", store.ErrPersistence, tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: rename to %s: %v", store.ErrPersistence, s.path, err)
	}
	return nil
}
