// Package composer implements the submission state machine sitting between
// user input and the remote backend: validate, append the user message
// optimistically, gate to a single outstanding request, and fill the
// assistant placeholder with the reply or an apology.
package composer

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/lioran/chatterm/internal/conversation"
)

const (
	// emptyReplyText is shown when the backend answers successfully but
	// carries no usable reply text.
	emptyReplyText = "I'm sorry, I don't have a response for that."
	// failureReplyText is shown when the request fails outright. Kept
	// distinct from emptyReplyText so the two cases are tellable apart.
	failureReplyText = "I'm sorry, something went wrong while reaching the assistant. Please try again."
)

var (
	// ErrEmptyInput is returned when the trimmed input is empty. Callers
	// treat it as a silent no-op.
	ErrEmptyInput = errors.New("empty input")
	// ErrBusy is returned while a request is already outstanding. Callers
	// treat it as a silent no-op.
	ErrBusy = errors.New("a request is already in flight")
)

// ChatClient is the single network call the composer makes.
type ChatClient interface {
	Chat(ctx context.Context, input string) (string, error)
}

// Composer drives submissions against a conversation store.
type Composer struct {
	mu     sync.Mutex
	store  *conversation.Store
	client ChatClient

	// Injectable for tests.
	now   func() int64
	newID func() string
}

// New instantiates a composer.
func New(store *conversation.Store, client ChatClient) *Composer {
	return &Composer{
		store:  store,
		client: client,
		now:    func() int64 { return time.Now().UnixMilli() },
		newID:  uuid.NewString,
	}
}

// Submit runs one full submission round-trip: it appends the user message,
// flips the status gate, issues exactly one network call and patches the
// pre-created assistant placeholder with the outcome. It blocks until the
// call completes, so run it off the UI loop. A failed call is recorded in
// the store (apology message plus error status) and does not surface as a
// returned error; only gate rejections do.
func (c *Composer) Submit(ctx context.Context, input string) error {
	placeholderID, err := c.begin(input)
	if err != nil {
		return err
	}

	reply, err := c.client.Chat(ctx, strings.TrimSpace(input))
	c.finish(placeholderID, reply, err)
	return nil
}

// begin performs the synchronous admission section: validation, the
// optimistic user message, the status flip and the assistant placeholder.
// The mutex makes check-and-set of the gate atomic across callers.
func (c *Composer) begin(input string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", ErrEmptyInput
	}
	if status, _ := c.store.Status(); status == conversation.StatusStreaming {
		return "", ErrBusy
	}

	c.store.AddMessage(&conversation.Message{
		ID:        c.newID(),
		Role:      conversation.RoleUser,
		Content:   trimmed,
		CreatedAt: c.now(),
	})
	// Flipping the gate also clears any error left by a previous failure.
	c.store.SetStatus(conversation.StatusStreaming, nil)

	// Placeholder created empty and filled in place later, so its ID is
	// stable from creation and incremental delivery can patch it.
	placeholderID := c.newID()
	c.store.AddMessage(&conversation.Message{
		ID:        placeholderID,
		Role:      conversation.RoleAssistant,
		Content:   "",
		CreatedAt: c.now(),
	})
	return placeholderID, nil
}

// finish patches the placeholder and releases the gate.
func (c *Composer) finish(placeholderID, reply string, err error) {
	if err != nil {
		c.store.PatchMessage(placeholderID, conversation.MessagePatch{Content: ptr(failureReplyText)})
		// Error status sticks until the next submission, so the banner
		// stays visible after a failed send.
		c.store.SetStatus(conversation.StatusError, err)
		return
	}

	if reply == "" {
		reply = emptyReplyText
	}
	c.store.PatchMessage(placeholderID, conversation.MessagePatch{Content: &reply})
	c.store.SetStatus(conversation.StatusIdle, nil)
}

func ptr(s string) *string { return &s }
