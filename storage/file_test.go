package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save(KeyDraft, []byte(`{"guest_count":2}`)))
	data, err := store.Load(KeyDraft)
	require.NoError(t, err)
	assert.JSONEq(t, `{"guest_count":2}`, string(data))
}

func TestFileStoreMissingKey(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStoreEmptyFileReadsAsMissing(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	// A zero-byte blob (e.g. interrupted legacy write) must fail safe.
	require.NoError(t, os.WriteFile(filepath.Join(dir, KeySession+".json"), nil, 0o600))
	_, err = store.Load(KeySession)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStoreOverwrite(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save(KeyPreferences, []byte(`{"theme":"dark"}`)))
	require.NoError(t, store.Save(KeyPreferences, []byte(`{"theme":"light"}`)))
	data, err := store.Load(KeyPreferences)
	require.NoError(t, err)
	assert.JSONEq(t, `{"theme":"light"}`, string(data))
}

func TestFileStoreDeleteIdempotent(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save(KeyDraft, []byte("x")))
	require.NoError(t, store.Delete(KeyDraft))
	require.NoError(t, store.Delete(KeyDraft))
	_, err = store.Load(KeyDraft)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStoreKeySanitization(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Save("../escape", []byte("x")))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "___escape.json", entries[0].Name())
}
