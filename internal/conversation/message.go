package conversation

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies who authored a message.
type Role string

const (
	// RoleUser is a message typed by the user.
	RoleUser Role = "user"
	// RoleAssistant is a reply from the remote assistant.
	RoleAssistant Role = "assistant"
	// RoleSystem is an instruction message, not typed by the user.
	RoleSystem Role = "system"
	// RoleTool is the output of a tool invocation.
	RoleTool Role = "tool"
)

// Message is a single entry in the conversation log.
type Message struct {
	// ID uniquely identifies this message for the lifetime of the log.
	ID string `json:"id"`
	// Role determines the rendering lane and semantic meaning.
	Role Role `json:"role"`
	// Content may be empty transiently for an in-flight assistant placeholder.
	Content string `json:"content"`
	// CreatedAt is milliseconds since epoch.
	CreatedAt int64 `json:"created_at"`
	// Metadata is an open bag for future extension.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// NewMessage instantiates a message with a fresh ID and the current timestamp.
func NewMessage(role Role, content string) *Message {
	return &Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UnixMilli(),
	}
}

// MessagePatch holds the fields of a message that can be patched in place.
// Nil fields are left untouched.
type MessagePatch struct {
	Content  *string
	Metadata map[string]any
}

func (m *Message) apply(patch MessagePatch) {
	if patch.Content != nil {
		m.Content = *patch.Content
	}
	for key, value := range patch.Metadata {
		if m.Metadata == nil {
			m.Metadata = map[string]any{}
		}
		m.Metadata[key] = value
	}
}

func (m *Message) clone() *Message {
	message := *m
	if m.Metadata != nil {
		message.Metadata = make(map[string]any, len(m.Metadata))
		for key, value := range m.Metadata {
			message.Metadata[key] = value
		}
	}
	return &message
}
