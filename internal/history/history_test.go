package history

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHistory(t *testing.T) *History {
	t.Helper()
	return newWithPath(filepath.Join(t.TempDir(), historyFileName))
}

func TestNavigation(t *testing.T) {
	h := newTestHistory(t)
	h.Add("first")
	h.Add("second")

	entry, ok := h.Previous("draft")
	require.True(t, ok)
	assert.Equal(t, "second", entry)

	entry, ok = h.Previous("draft")
	require.True(t, ok)
	assert.Equal(t, "first", entry)

	// At the oldest entry Previous stays put.
	entry, ok = h.Previous("draft")
	assert.False(t, ok)
	assert.Equal(t, "first", entry)

	entry, ok = h.Next()
	require.True(t, ok)
	assert.Equal(t, "second", entry)

	// Walking past the newest entry restores the saved draft.
	entry, ok = h.Next()
	require.True(t, ok)
	assert.Equal(t, "draft", entry)

	_, ok = h.Next()
	assert.False(t, ok)
}

func TestAddSkipsDuplicatesAndBlanks(t *testing.T) {
	h := newTestHistory(t)
	h.Add("hello")
	h.Add("hello")
	h.Add("   ")
	h.Add("")

	assert.Equal(t, []string{"hello"}, h.entries)
}

func TestReset(t *testing.T) {
	h := newTestHistory(t)
	h.Add("entry")

	_, ok := h.Previous("draft")
	require.True(t, ok)
	h.Reset()

	// After a reset, navigation starts from the newest entry again.
	entry, ok := h.Previous("other")
	require.True(t, ok)
	assert.Equal(t, "entry", entry)
}

func TestPersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), historyFileName)

	h := newWithPath(path)
	h.Add("multi\nline entry")
	h.Add("simple")

	reloaded := newWithPath(path)
	assert.Equal(t, []string{"multi\nline entry", "simple"}, reloaded.entries)
}
