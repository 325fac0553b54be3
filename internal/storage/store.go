package storage

import (
	"context"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/aturpin0504/scancfg/internal/settings"
)

// ErrNotExists reports that the settings document has not been created yet.
var ErrNotExists = errors.New("settings document does not exist")

// Store reads and writes one settings document. Writes go through a
// temp-file rename so a crash mid-write never leaves a half-written
// document behind.
type Store struct {
	Path string
}

// NewStore returns a Store for the document at path.
func NewStore(path string) *Store {
	return &Store{Path: path}
}

// Exists reports whether the document is present on disk.
func (st *Store) Exists() bool {
	_, err := os.Stat(st.Path)
	return err == nil
}

// Load reads and assembles the document. A missing file is reported as
// ErrNotExists; parse and validation behavior is the assembler's.
func (st *Store) Load(ctx context.Context) (*settings.Settings, settings.LoadStats, error) {
	data, err := os.ReadFile(st.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, settings.LoadStats{}, errors.Errorf("%s: %w", st.Path, ErrNotExists)
		}
		return nil, settings.LoadStats{}, errors.Errorf("read settings document: %w", err)
	}

	s, stats, err := settings.Assemble(ctx, data)
	if err != nil {
		return nil, stats, errors.Errorf("%s: %w", st.Path, err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("path", st.Path).
		Str("stats", stats.Summary()).
		Msg("settings loaded")
	return s, stats, nil
}

// Save encodes and atomically replaces the document, creating the parent
// directory if needed.
func (st *Store) Save(ctx context.Context, s *settings.Settings) error {
	data, err := s.Encode()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(st.Path), 0o755); err != nil {
		return errors.Errorf("create settings directory: %w", err)
	}
	if err := renameio.WriteFile(st.Path, data, 0o644); err != nil {
		return errors.Errorf("write settings document: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", st.Path).Msg("settings written")
	return nil
}

// Update runs one read-modify-write cycle: load the document, apply fn to
// the in-memory value, and rewrite the whole document. If fn returns an
// error the document on disk is untouched. The updated value is returned
// for callers that record the change elsewhere.
func (st *Store) Update(ctx context.Context, fn func(*settings.Settings) error) (*settings.Settings, error) {
	s, _, err := st.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := fn(s); err != nil {
		return nil, err
	}
	if err := st.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}
