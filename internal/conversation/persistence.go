package conversation

import (
	"encoding/json"
)

// stateKey is the versioned key under which the serialized state lives.
// Bumping the version orphans old data; hydration then falls back to
// defaults rather than migrating.
const stateKey = "conversation.v1"

// Persister stores the serialized conversation state under a key.
type Persister interface {
	Put(key, value string) error
	Get(key string) (value string, ok bool, err error)
}

var defaultSettings = Settings{
	Model:        "gpt-4o-mini",
	Temperature:  0,
	SystemPrompt: "You are a helpful AI assistant.",
}

func defaultState() State {
	return State{
		Status:   StatusIdle,
		Settings: defaultSettings,
	}
}

// persistLocked serializes the full state and writes it through the
// persister. Write failures are swallowed: the in-memory state remains
// authoritative for the session.
func (s *Store) persistLocked() {
	if s.persister == nil {
		return
	}
	bytes, err := json.Marshal(s.state)
	if err != nil {
		return
	}
	_ = s.persister.Put(stateKey, string(bytes))
}

// persistedState splits the payload into raw fields so each one can be
// reconciled independently: a malformed field degrades to its default
// without discarding the rest.
type persistedState struct {
	Messages json.RawMessage `json:"messages"`
	Status   json.RawMessage `json:"status"`
	Error    json.RawMessage `json:"error"`
	Settings json.RawMessage `json:"settings"`
}

// hydrate loads the persisted state, reconciling field-by-field against
// defaults. It never fails: corrupt or missing data yields defaults.
func hydrate(persister Persister) State {
	state := defaultState()
	if persister == nil {
		return state
	}
	raw, ok, err := persister.Get(stateKey)
	if err != nil || !ok {
		return state
	}

	var persisted persistedState
	if err := json.Unmarshal([]byte(raw), &persisted); err != nil {
		return state
	}

	var messages []*Message
	if err := json.Unmarshal(persisted.Messages, &messages); err == nil {
		for _, message := range messages {
			if message == nil || message.ID == "" {
				continue
			}
			state.Messages = append(state.Messages, message)
		}
	}

	var status Status
	if err := json.Unmarshal(persisted.Status, &status); err == nil {
		switch status {
		case StatusIdle, StatusError:
			state.Status = status
		case StatusStreaming:
			// A request cannot survive a restart; don't wedge the gate.
			state.Status = StatusIdle
		}
	}

	var errText string
	if err := json.Unmarshal(persisted.Error, &errText); err == nil {
		state.Error = errText
	}

	var settings Settings
	if err := json.Unmarshal(persisted.Settings, &settings); err == nil {
		if settings.Model == "" {
			settings.Model = defaultSettings.Model
		}
		if settings.SystemPrompt == "" {
			settings.SystemPrompt = defaultSettings.SystemPrompt
		}
		state.Settings = settings
	}

	return state
}
