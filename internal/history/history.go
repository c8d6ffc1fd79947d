// Package history keeps the composer's input history across sessions so
// Alt+P/Alt+N recall earlier prompts.
package history

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	historyFileName = "chatterm_input_history"
	maxEntries      = 500
)

// History manages input history with persistence. Persistence failures are
// silent: losing history is never worth an error.
type History struct {
	mu      sync.Mutex
	entries []string
	index   int    // Current position, -1 means new input.
	current string // Input saved when navigation starts.
	path    string
}

// New creates a History and loads existing entries from disk.
func New() *History {
	return newWithPath(filepath.Join(os.TempDir(), historyFileName))
}

func newWithPath(path string) *History {
	h := &History{
		index: -1,
		path:  path,
	}
	h.load()
	return h
}

func (h *History) load() {
	h.mu.Lock()
	defer h.mu.Unlock()

	f, err := os.Open(h.path)
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := unescape(scanner.Text()); line != "" {
			h.entries = append(h.entries, line)
		}
	}
	h.entries = trimEntries(h.entries)
}

func (h *History) save() {
	h.mu.Lock()
	defer h.mu.Unlock()

	f, err := os.Create(h.path)
	if err != nil {
		return
	}
	defer f.Close()

	writer := bufio.NewWriter(f)
	for _, entry := range h.entries {
		writer.WriteString(escape(entry) + "\n")
	}
	writer.Flush()
}

// Add appends an entry and resets navigation.
func (h *History) Add(entry string) {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return
	}

	h.mu.Lock()
	h.index = -1
	h.current = ""
	// Skip duplicates of the most recent entry.
	if len(h.entries) > 0 && h.entries[len(h.entries)-1] == entry {
		h.mu.Unlock()
		return
	}
	h.entries = trimEntries(append(h.entries, entry))
	h.mu.Unlock()

	h.save()
}

// Previous steps back in history. currentInput is preserved so Next can
// restore it once navigation returns to the newest position.
func (h *History) Previous(currentInput string) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.entries) == 0 {
		return "", false
	}

	switch {
	case h.index == -1:
		h.current = currentInput
		h.index = len(h.entries) - 1
	case h.index > 0:
		h.index--
	default:
		// Already at the oldest entry.
		return h.entries[0], false
	}
	return h.entries[h.index], true
}

// Next steps forward in history, toward the present.
func (h *History) Next() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.index == -1 {
		return "", false
	}

	h.index++
	if h.index >= len(h.entries) {
		h.index = -1
		return h.current, true
	}
	return h.entries[h.index], true
}

// Reset clears the navigation position. Call when the input is edited.
func (h *History) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.index = -1
	h.current = ""
}

func trimEntries(entries []string) []string {
	if len(entries) > maxEntries {
		return entries[len(entries)-maxEntries:]
	}
	return entries
}

// Entries are stored one per line; newlines inside an entry are escaped.
func escape(entry string) string {
	entry = strings.ReplaceAll(entry, "\\", "\\\\")
	return strings.ReplaceAll(entry, "\n", "\\n")
}

func unescape(line string) string {
	line = strings.ReplaceAll(line, "\\n", "\n")
	return strings.ReplaceAll(line, "\\\\", "\\")
}
