// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package snapshot

import (
	"os"
	"path/filepath"
	"time"

	"github.com/juju/errors"
)

// Store persists the snapshot file. Exactly one current snapshot and
// at most one backup exist at a time; saving always demotes the
// current snapshot to the backup path first. The backup is never
// restored automatically.
type Store struct {
	path string
}

// NewStore returns a Store for the given snapshot path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the current snapshot path.
func (s *Store) Path() string {
	return s.path
}

// BackupPath returns the path the previous snapshot is kept at.
func (s *Store) BackupPath() string {
	return s.path + ".backup"
}

// Exists reports whether a current snapshot is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Metadata describes the stored snapshot for status reporting.
type Metadata struct {
	Size     int64
	Modified time.Time
}

// Metadata returns the current snapshot's size and modification time,
// or a not-found error when no snapshot exists.
func (s *Store) Metadata() (Metadata, error) {
	info, err := os.Stat(s.path)
	if os.IsNotExist(err) {
		return Metadata{}, errors.NotFoundf("saved state at %q", s.path)
	}
	if err != nil {
		return Metadata{}, errors.Trace(err)
	}
	return Metadata{Size: info.Size(), Modified: info.ModTime()}, nil
}

// Save writes a new snapshot. An existing current snapshot is copied
// to the backup path first, overwriting any previous backup, so a
// reader can only ever observe a complete old or complete new file.
func (s *Store) Save(payload []byte) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Trace(err)
		}
	}
	if current, err := os.ReadFile(s.path); err == nil {
		if err := os.WriteFile(s.BackupPath(), current, 0644); err != nil {
			return errors.Annotate(err, "rotating previous snapshot")
		}
	} else if !os.IsNotExist(err) {
		return errors.Trace(err)
	}
	return errors.Trace(os.WriteFile(s.path, payload, 0644))
}

// Load returns the snapshot payload. A missing snapshot is reported
// with a not-found error; it is an expected state on first run, not a
// failure.
func (s *Store) Load() ([]byte, error) {
	payload, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, errors.NotFoundf("saved state at %q", s.path)
	}
	if err != nil {
		return nil, errors.Trace(err)
	}
	return payload, nil
}
