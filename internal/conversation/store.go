package conversation

import (
	"sync"

	"dario.cat/mergo"
)

// Status of the conversation's single outstanding operation slot.
type Status string

const (
	// StatusIdle means the composer is accepting input.
	StatusIdle Status = "idle"
	// StatusStreaming means exactly one network round-trip is outstanding.
	StatusStreaming Status = "streaming"
	// StatusError means the last operation failed; input is unlocked again.
	StatusError Status = "error"
)

// Settings is the open configuration bag of a conversation.
type Settings struct {
	Model        string  `json:"model"`
	Temperature  float64 `json:"temperature"`
	SystemPrompt string  `json:"system_prompt"`
}

// State holds the full conversation state.
type State struct {
	Messages []*Message `json:"messages"`
	Status   Status     `json:"status"`
	Error    string     `json:"error,omitempty"`
	Settings Settings   `json:"settings"`
}

// Store is the single source of truth for the message log and operation
// status. All mutations go through one serialized path so concurrent UI
// events cannot interleave a partial update. Construct one per session with
// New; there is no package-level instance.
type Store struct {
	mu        sync.Mutex
	state     State
	persister Persister
}

// New instantiates a store, hydrating from the persister if it holds a
// structurally valid state. A nil persister yields a memory-only store.
func New(persister Persister) *Store {
	return &Store{
		state:     hydrate(persister),
		persister: persister,
	}
}

// mutate applies fn under the store lock, then persists the resulting state.
func (s *Store) mutate(fn func(state *State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
	s.persistLocked()
}

// AddMessage appends a message to the end of the log. The caller guarantees
// timestamp ordering; no dedup or reordering is performed.
func (s *Store) AddMessage(message *Message) {
	s.mutate(func(state *State) {
		state.Messages = append(state.Messages, message.clone())
	})
}

// PatchMessage shallow-merges the patch into the message with the given ID.
// Patching an unknown ID is a no-op, not an error.
func (s *Store) PatchMessage(id string, patch MessagePatch) {
	s.mutate(func(state *State) {
		for _, message := range state.Messages {
			if message.ID == id {
				message.apply(patch)
				return
			}
		}
	})
}

// ClearMessages empties the log. Status and settings are untouched.
func (s *Store) ClearMessages() {
	s.mutate(func(state *State) {
		state.Messages = nil
	})
}

// SetStatus replaces the status. A nil err clears any previous error text,
// so transitioning back to idle drops the stale error.
func (s *Store) SetStatus(status Status, err error) {
	s.mutate(func(state *State) {
		state.Status = status
		if err != nil {
			state.Error = err.Error()
		} else {
			state.Error = ""
		}
	})
}

// UpdateSettings shallow-merges the patch into the settings. Zero-valued
// fields of the patch leave the existing value in place.
func (s *Store) UpdateSettings(patch Settings) {
	s.mutate(func(state *State) {
		_ = mergo.Merge(&state.Settings, patch, mergo.WithOverride)
	})
}

// Status returns the current status and error text.
func (s *Store) Status() (Status, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Status, s.state.Error
}

// Snapshot returns a deep copy of the current state, safe to read while
// mutations continue.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.state
	state.Messages = make([]*Message, len(s.state.Messages))
	for i, message := range s.state.Messages {
		state.Messages[i] = message.clone()
	}
	return state
}
