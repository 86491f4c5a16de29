package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newKV(t *testing.T) *FileKV {
	t.Helper()
	return NewFileKV(filepath.Join(t.TempDir(), "state.json"))
}

func TestFileKV_MissingFileReadsEmpty(t *testing.T) {
	kv := newKV(t)

	_, ok, err := kv.Get("access_token")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestFileKV_SetGetDelete(t *testing.T) {
	kv := newKV(t)

	require.NoError(t, kv.Set(map[string]string{"a": "1", "b": "2"}))

	v, ok, err := kv.Get("a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "1", v)

	m, err := kv.GetAll("a", "b", "missing")
	require.NoError(t, err)
	require.Equal(t, map[string]string{"a": "1", "b": "2"}, m)

	require.NoError(t, kv.Delete("a", "missing"))
	_, ok, err = kv.Get("a")
	require.NoError(t, err)
	require.False(t, ok)

	// Idempotent.
	require.NoError(t, kv.Delete("a"))
}

func TestFileKV_NoTempFileLeftBehind(t *testing.T) {
	dir := t.TempDir()
	kv := NewFileKV(filepath.Join(dir, "state.json"))

	require.NoError(t, kv.Set(map[string]string{"k": "v"}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "state.json", entries[0].Name())
}

func TestFileKV_CorruptFileSurfacesError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	kv := NewFileKV(path)
	_, _, err := kv.Get("k")
	require.Error(t, err)
}
