package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSetThenGet(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Set("token", "abc"))

	v, ok, err := s.Get("token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", v)
}

func TestGetUnknownKey(t *testing.T) {
	s := newTestStore(t)

	v, ok, err := s.Get("does-not-exist")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestSetOverwrites(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Set("app-theme-mode", "light"))
	require.NoError(t, s.Set("app-theme-mode", "dark"))

	v, _, err := s.Get("app-theme-mode")
	require.NoError(t, err)
	assert.Equal(t, "dark", v)
}

func TestDeleteIsIdempotent(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Set("token", "abc"))
	require.NoError(t, s.Delete("token"))
	require.NoError(t, s.Delete("token"))

	_, ok, err := s.Get("token")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "persist.db")

	s, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.Set("token", "keep-me"))
	require.NoError(t, s.Close())

	s2, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { s2.Close() })

	v, ok, err := s2.Get("token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "keep-me", v)
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()

	_, ok, _ := s.Get("token")
	assert.False(t, ok)

	require.NoError(t, s.Set("token", "xyz"))
	v, ok, _ := s.Get("token")
	assert.True(t, ok)
	assert.Equal(t, "xyz", v)

	require.NoError(t, s.Delete("token"))
	_, ok, _ = s.Get("token")
	assert.False(t, ok)
}
