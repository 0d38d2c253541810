// Package chat holds the state of a chat view: the conversation, the
// draft being typed, and whether a request is outstanding.
//
// A View is owned by a single goroutine (the UI loop). Submit performs the
// synchronous half of sending a message and Settle the half that runs once
// the request has finished, so the network call itself can happen anywhere.
package chat

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/diogo/chatview/internal/logging"
	"github.com/diogo/chatview/internal/models"
)

// Sender delivers one message to the chat endpoint and returns the reply.
type Sender interface {
	Send(ctx context.Context, text string) (string, error)
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(ctx context.Context, text string) (string, error)

// Send calls f
func (f SenderFunc) Send(ctx context.Context, text string) (string, error) {
	return f(ctx, text)
}

// View is the state behind the chat screen.
type View struct {
	conversation []models.Message
	draft        string
	pending      bool

	now    func() time.Time
	logger *slog.Logger
}

// Option configures a View
type Option func(*View)

// WithClock overrides the timestamp source
func WithClock(now func() time.Time) Option {
	return func(v *View) {
		v.now = now
	}
}

// WithLogger sets the logger that records request failures
func WithLogger(logger *slog.Logger) Option {
	return func(v *View) {
		v.logger = logger
	}
}

// New creates an empty, idle View
func New(opts ...Option) *View {
	v := &View{
		conversation: []models.Message{},
		now:          time.Now,
		logger:       logging.Discard(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// SetDraft replaces the unsent input
func (v *View) SetDraft(text string) {
	v.draft = text
}

// Draft returns the unsent input
func (v *View) Draft() string {
	return v.draft
}

// Pending reports whether a request is outstanding
func (v *View) Pending() bool {
	return v.pending
}

// CanSubmit reports whether Submit would accept the current draft
func (v *View) CanSubmit() bool {
	return !v.pending && strings.TrimSpace(v.draft) != ""
}

// Submit appends the trimmed draft as a user message, clears the draft and
// marks the view pending. The returned payload must be sent exactly once and
// its outcome passed to Settle. ok is false, and nothing changes, when the
// draft is blank or a request is already outstanding.
func (v *View) Submit() (payload string, ok bool) {
	if v.pending {
		v.logger.Debug("submit rejected", "reason", "pending")
		return "", false
	}

	payload = strings.TrimSpace(v.draft)
	if payload == "" {
		return "", false
	}

	v.conversation = append(v.conversation, models.NewUserMessage(payload, v.now()))
	v.draft = ""
	v.pending = true

	return payload, true
}

// Settle records the outcome of the outstanding request. A nil err appends
// reply as the agent message; any error appends FallbackReply instead. The
// pending flag is cleared last. Settle is ignored when nothing is pending.
func (v *View) Settle(reply string, err error) (models.Message, bool) {
	if !v.pending {
		v.logger.Warn("settle without pending request")
		return models.Message{}, false
	}

	text := reply
	if err != nil {
		v.logger.Error("chat request failed", "error", err)
		text = models.FallbackReply
	}

	msg := models.NewAgentMessage(text, v.now())
	v.conversation = append(v.conversation, msg)
	v.pending = false

	return msg, true
}

// Exchange runs a full submit cycle for text and blocks until it settles.
// ok is false when text was rejected and no request was made.
func (v *View) Exchange(ctx context.Context, sender Sender, text string) (models.Message, bool) {
	v.SetDraft(text)
	payload, ok := v.Submit()
	if !ok {
		return models.Message{}, false
	}

	reply, err := sender.Send(ctx, payload)
	return v.Settle(reply, err)
}

// Messages returns a copy of the conversation in order
func (v *View) Messages() []models.Message {
	out := make([]models.Message, len(v.conversation))
	copy(out, v.conversation)
	return out
}

// Len returns the number of messages
func (v *View) Len() int {
	return len(v.conversation)
}

// IsEmpty reports whether no message has been exchanged yet
func (v *View) IsEmpty() bool {
	return len(v.conversation) == 0
}

// Last returns the most recent message
func (v *View) Last() (models.Message, bool) {
	if len(v.conversation) == 0 {
		return models.Message{}, false
	}
	return v.conversation[len(v.conversation)-1], true
}

// LastFrom returns the most recent message from sender
func (v *View) LastFrom(sender models.Sender) (models.Message, bool) {
	for i := len(v.conversation) - 1; i >= 0; i-- {
		if v.conversation[i].Sender == sender {
			return v.conversation[i], true
		}
	}
	return models.Message{}, false
}
