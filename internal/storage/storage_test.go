package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutGet(t *testing.T) {
	s := newTestStorage(t)

	require.NoError(t, s.Put("conversation.v1", `{"messages": []}`))

	value, ok, err := s.Get("conversation.v1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"messages": []}`, value)
}

func TestPutReplaces(t *testing.T) {
	s := newTestStorage(t)

	require.NoError(t, s.Put("key", "first"))
	require.NoError(t, s.Put("key", "second"))

	value, ok, err := s.Get("key")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "second", value)
}

func TestGetMissingKey(t *testing.T) {
	s := newTestStorage(t)

	_, ok, err := s.Get("conversation.v2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDelete(t *testing.T) {
	s := newTestStorage(t)

	require.NoError(t, s.Put("key", "value"))
	require.NoError(t, s.Delete("key"))

	_, ok, err := s.Get("key")
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting again is a no-op.
	require.NoError(t, s.Delete("key"))
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	s, err := New(path)
	require.NoError(t, err)
	require.NoError(t, s.Put("key", "value"))
	require.NoError(t, s.Close())

	reopened, err := New(path)
	require.NoError(t, err)
	defer reopened.Close()

	value, ok, err := reopened.Get("key")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "value", value)
}
