package conversation

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryPersister is an in-memory Persister for tests.
type memoryPersister struct {
	values map[string]string
	fail   bool
}

func newMemoryPersister() *memoryPersister {
	return &memoryPersister{values: map[string]string{}}
}

func (p *memoryPersister) Put(key, value string) error {
	if p.fail {
		return errors.New("storage unavailable")
	}
	p.values[key] = value
	return nil
}

func (p *memoryPersister) Get(key string) (string, bool, error) {
	if p.fail {
		return "", false, errors.New("storage unavailable")
	}
	value, ok := p.values[key]
	return value, ok, nil
}

func stringPtr(s string) *string { return &s }

func TestAddMessagePreservesOrderAndIDs(t *testing.T) {
	store := New(nil)

	for i := 0; i < 10; i++ {
		store.AddMessage(NewMessage(RoleUser, fmt.Sprintf("message %d", i)))
	}

	state := store.Snapshot()
	require.Len(t, state.Messages, 10)
	seen := map[string]struct{}{}
	for i, message := range state.Messages {
		assert.Equal(t, fmt.Sprintf("message %d", i), message.Content)
		_, duplicate := seen[message.ID]
		assert.False(t, duplicate, "duplicate message ID %s", message.ID)
		seen[message.ID] = struct{}{}
	}
}

func TestPatchMessage(t *testing.T) {
	store := New(nil)
	placeholder := NewMessage(RoleAssistant, "")
	store.AddMessage(NewMessage(RoleUser, "hello"))
	store.AddMessage(placeholder)

	store.PatchMessage(placeholder.ID, MessagePatch{Content: stringPtr("hi there")})

	state := store.Snapshot()
	require.Len(t, state.Messages, 2)
	assert.Equal(t, "hello", state.Messages[0].Content)
	assert.Equal(t, placeholder.ID, state.Messages[1].ID)
	assert.Equal(t, "hi there", state.Messages[1].Content)
}

func TestPatchMessageUnknownIDIsNoOp(t *testing.T) {
	store := New(nil)
	store.AddMessage(NewMessage(RoleUser, "hello"))
	before := store.Snapshot()

	store.PatchMessage("no-such-id", MessagePatch{Content: stringPtr("changed")})

	assert.Equal(t, before, store.Snapshot())
}

func TestPatchMessageMetadata(t *testing.T) {
	store := New(nil)
	message := NewMessage(RoleAssistant, "done")
	store.AddMessage(message)

	store.PatchMessage(message.ID, MessagePatch{Metadata: map[string]any{"elapsed_ms": 120}})

	state := store.Snapshot()
	require.Len(t, state.Messages, 1)
	assert.Equal(t, 120, state.Messages[0].Metadata["elapsed_ms"])
}

func TestClearMessagesKeepsSettings(t *testing.T) {
	store := New(nil)
	store.AddMessage(NewMessage(RoleUser, "hello"))
	store.UpdateSettings(Settings{Model: "gpt-4o"})

	store.ClearMessages()

	state := store.Snapshot()
	assert.Empty(t, state.Messages)
	assert.Equal(t, "gpt-4o", state.Settings.Model)
}

func TestSetStatus(t *testing.T) {
	store := New(nil)

	store.SetStatus(StatusError, errors.New("connection refused"))
	status, errText := store.Status()
	assert.Equal(t, StatusError, status)
	assert.Equal(t, "connection refused", errText)

	// Returning to idle without an error clears the previous one.
	store.SetStatus(StatusIdle, nil)
	status, errText = store.Status()
	assert.Equal(t, StatusIdle, status)
	assert.Empty(t, errText)
}

func TestUpdateSettingsShallowMerge(t *testing.T) {
	store := New(nil)

	store.UpdateSettings(Settings{Model: "gpt-4o", Temperature: 0.7})
	store.UpdateSettings(Settings{SystemPrompt: "Be terse."})

	state := store.Snapshot()
	assert.Equal(t, "gpt-4o", state.Settings.Model)
	assert.Equal(t, 0.7, state.Settings.Temperature)
	assert.Equal(t, "Be terse.", state.Settings.SystemPrompt)
}

func TestPersistenceRoundTrip(t *testing.T) {
	persister := newMemoryPersister()

	store := New(persister)
	store.AddMessage(NewMessage(RoleUser, "hello"))
	store.AddMessage(NewMessage(RoleAssistant, "hi there"))
	store.UpdateSettings(Settings{Model: "gpt-4o", Temperature: 0.3})
	store.SetStatus(StatusError, errors.New("boom"))

	reloaded := New(persister)
	assert.Equal(t, store.Snapshot(), reloaded.Snapshot())
}

func TestHydrateStreamingStatusResetsToIdle(t *testing.T) {
	persister := newMemoryPersister()
	store := New(persister)
	store.AddMessage(NewMessage(RoleUser, "hello"))
	store.SetStatus(StatusStreaming, nil)

	reloaded := New(persister)
	status, _ := reloaded.Status()
	assert.Equal(t, StatusIdle, status)
}

func TestHydrateCorruptPayload(t *testing.T) {
	for name, payload := range map[string]string{
		"not json":             "{{{{",
		"messages not a list":  `{"messages": 42, "status": "idle"}`,
		"wrong types all over": `{"messages": "nope", "status": [], "settings": "hmm"}`,
		"empty object":         `{}`,
	} {
		t.Run(name, func(t *testing.T) {
			persister := newMemoryPersister()
			require.NoError(t, persister.Put(stateKey, payload))

			store := New(persister)
			state := store.Snapshot()
			assert.Empty(t, state.Messages)
			assert.Equal(t, StatusIdle, state.Status)
			assert.Equal(t, defaultSettings, state.Settings)
		})
	}
}

func TestHydratePartiallyValidPayload(t *testing.T) {
	persister := newMemoryPersister()
	payload := `{"messages": [{"id": "m1", "role": "user", "content": "hello"}, null, {"role": "assistant"}], "status": "bogus", "settings": {"model": "gpt-4o"}}`
	require.NoError(t, persister.Put(stateKey, payload))

	store := New(persister)
	state := store.Snapshot()
	// Entries without an ID are dropped; the valid one survives.
	require.Len(t, state.Messages, 1)
	assert.Equal(t, "m1", state.Messages[0].ID)
	// Unknown status degrades to idle.
	assert.Equal(t, StatusIdle, state.Status)
	// Missing settings fields fall back to defaults.
	assert.Equal(t, "gpt-4o", state.Settings.Model)
	assert.Equal(t, defaultSettings.SystemPrompt, state.Settings.SystemPrompt)
}

func TestPersistenceFailuresAreSwallowed(t *testing.T) {
	persister := newMemoryPersister()
	persister.fail = true

	store := New(persister)
	store.AddMessage(NewMessage(RoleUser, "hello"))

	// The in-memory state stays authoritative despite write failures.
	state := store.Snapshot()
	require.Len(t, state.Messages, 1)
	assert.Equal(t, "hello", state.Messages[0].Content)
}

func TestSnapshotIsACopy(t *testing.T) {
	store := New(nil)
	store.AddMessage(NewMessage(RoleUser, "hello"))

	state := store.Snapshot()
	state.Messages[0].Content = "mutated"

	assert.Equal(t, "hello", store.Snapshot().Messages[0].Content)
}
