package gitver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHistoryRecordAndEntries(t *testing.T) {
	h, err := Open(t.TempDir())
	require.NoError(t, err)

	hash1, err := h.Record([]byte(`{"stagingArea": "C:\\StagingArea"}`), "init")
	require.NoError(t, err)
	require.NotEmpty(t, hash1)

	hash2, err := h.Record([]byte(`{"stagingArea": "D:\\Stage"}`), "set-staging D:\\Stage")
	require.NoError(t, err)
	require.NotEqual(t, hash1, hash2)

	entries, err := h.Entries(0)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first.
	require.Equal(t, hash2, entries[0].Hash)
	require.Equal(t, "set-staging D:\\Stage", entries[0].Message)
	require.Equal(t, hash1, entries[1].Hash)
	require.Equal(t, "init", entries[1].Message)
	require.False(t, entries[0].When.IsZero())
}

func TestHistoryEntriesLimit(t *testing.T) {
	h, err := Open(t.TempDir())
	require.NoError(t, err)

	for _, doc := range []string{`{"a":1}`, `{"a":2}`, `{"a":3}`} {
		_, err := h.Record([]byte(doc), "change")
		require.NoError(t, err)
	}

	entries, err := h.Entries(2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestHistoryNoChanges(t *testing.T) {
	h, err := Open(t.TempDir())
	require.NoError(t, err)

	doc := []byte(`{"stagingArea": "C:\\StagingArea"}`)
	_, err = h.Record(doc, "init")
	require.NoError(t, err)

	_, err = h.Record(doc, "repeat")
	require.ErrorIs(t, err, ErrNoChanges)

	entries, err := h.Entries(0)
	require.NoError(t, err)
	require.Len(t, entries, 1, "a no-change record must not add a revision")
}

func TestHistoryEmpty(t *testing.T) {
	h, err := Open(t.TempDir())
	require.NoError(t, err)

	entries, err := h.Entries(10)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestHistoryContent(t *testing.T) {
	h, err := Open(t.TempDir())
	require.NoError(t, err)

	doc1 := []byte(`{"stagingArea": "C:\\StagingArea"}`)
	doc2 := []byte(`{"stagingArea": "D:\\Stage"}`)

	hash1, err := h.Record(doc1, "init")
	require.NoError(t, err)
	hash2, err := h.Record(doc2, "set-staging")
	require.NoError(t, err)

	got1, err := h.Content(hash1)
	require.NoError(t, err)
	require.Equal(t, doc1, got1)

	got2, err := h.Content(hash2)
	require.NoError(t, err)
	require.Equal(t, doc2, got2)

	// Abbreviated hashes resolve too.
	gotShort, err := h.Content(hash1[:8])
	require.NoError(t, err)
	require.Equal(t, doc1, gotShort)
}

func TestHistoryContentUnknownRevision(t *testing.T) {
	h, err := Open(t.TempDir())
	require.NoError(t, err)

	_, err = h.Record([]byte(`{}`), "init")
	require.NoError(t, err)

	_, err = h.Content("deadbeefdeadbeefdeadbeefdeadbeefdeadbeef")
	require.Error(t, err)
}

func TestHistoryReopen(t *testing.T) {
	dir := t.TempDir()

	h, err := Open(dir)
	require.NoError(t, err)
	doc := []byte(`{"stagingArea": "C:\\StagingArea"}`)
	_, err = h.Record(doc, "init")
	require.NoError(t, err)

	h, err = Open(dir)
	require.NoError(t, err)

	entries, err := h.Entries(0)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	// The reopened history still detects unchanged content.
	_, err = h.Record(doc, "repeat")
	require.ErrorIs(t, err, ErrNoChanges)
}
