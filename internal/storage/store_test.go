package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aturpin0504/scancfg/internal/settings"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "settings.json"))
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := testStore(t)

	s := settings.Default()
	require.NoError(t, s.AddDirectory(`V:\apps\tools`, []string{"temp", "logs"}))
	require.NoError(t, s.AddMapping("V", `\\server\eng_apps`))
	require.NoError(t, s.SetVDrivePath(`\\server\vdrive`))

	require.NoError(t, st.Save(ctx, s))
	require.True(t, st.Exists())

	got, stats, err := st.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, s.StagingArea, got.StagingArea)
	require.Equal(t, s.VDrivePath, got.VDrivePath)
	require.Equal(t, s.DriveMappings, got.DriveMappings)
	require.Len(t, got.MonitoredDirectories, 1)
	require.Equal(t, []string{"temp", "logs"}, got.MonitoredDirectories[0].Exclusions)

	// Loading always recompiles.
	require.Len(t, got.MonitoredDirectories[0].Compiled, 2)
	require.Equal(t, 2, stats.CompiledPatterns)
}

func TestStoreLoadMissing(t *testing.T) {
	st := testStore(t)

	require.False(t, st.Exists())
	_, _, err := st.Load(context.Background())
	require.ErrorIs(t, err, ErrNotExists)
}

func TestStoreLoadMalformed(t *testing.T) {
	st := testStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(st.Path), 0o755))
	require.NoError(t, os.WriteFile(st.Path, []byte("{broken"), 0o644))

	_, _, err := st.Load(context.Background())
	var pe *settings.ParseError
	require.True(t, errors.As(err, &pe), "error = %v, want *settings.ParseError", err)
}

func TestStoreSaveCreatesParent(t *testing.T) {
	ctx := context.Background()
	st := NewStore(filepath.Join(t.TempDir(), "nested", "deeper", "settings.json"))

	require.NoError(t, st.Save(ctx, settings.Default()))
	require.True(t, st.Exists())
}

func TestStoreUpdate(t *testing.T) {
	ctx := context.Background()
	st := testStore(t)
	require.NoError(t, st.Save(ctx, settings.Default()))

	updated, err := st.Update(ctx, func(s *settings.Settings) error {
		return s.AddDirectory(`V:\apps`, nil)
	})
	require.NoError(t, err)
	require.Len(t, updated.MonitoredDirectories, 1)

	got, _, err := st.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.MonitoredDirectories, 1)
	require.Equal(t, `V:\apps`, got.MonitoredDirectories[0].Path)
}

func TestStoreUpdateFailureLeavesDocument(t *testing.T) {
	ctx := context.Background()
	st := testStore(t)

	s := settings.Default()
	require.NoError(t, s.AddDirectory(`V:\apps`, nil))
	require.NoError(t, st.Save(ctx, s))
	before, err := os.ReadFile(st.Path)
	require.NoError(t, err)

	_, err = st.Update(ctx, func(s *settings.Settings) error {
		return s.AddDirectory(`V:\apps`, nil) // duplicate
	})
	var dup *settings.DuplicatePathError
	require.True(t, errors.As(err, &dup), "error = %v, want *settings.DuplicatePathError", err)

	after, err := os.ReadFile(st.Path)
	require.NoError(t, err)
	require.Equal(t, before, after, "a failed update must not rewrite the document")
}

func TestStoreUpdateMissingDocument(t *testing.T) {
	st := testStore(t)
	_, err := st.Update(context.Background(), func(*settings.Settings) error { return nil })
	require.ErrorIs(t, err, ErrNotExists)
}

func TestPathDerivations(t *testing.T) {
	dataDir := t.TempDir()
	require.Equal(t, filepath.Join(dataDir, "history"), HistoryDir(dataDir))
	require.Equal(t, filepath.Join(dataDir, "journal.db"), JournalPath(dataDir))
	require.NoError(t, EnsureDataDir(filepath.Join(dataDir, "fresh")))

	require.Equal(t, "settings.json", filepath.Base(DefaultSettingsPath()))
	require.Equal(t, ".scancfg", filepath.Base(DefaultDataDir()))
}
