package models

import (
	"fmt"
	"time"
)

// Sender identifies who authored a message.
type Sender string

const (
	SenderUser  Sender = "user"
	SenderAgent Sender = "agent"
)

// Label returns the display name for the sender
func (s Sender) Label() string {
	switch s {
	case SenderUser:
		return "You"
	case SenderAgent:
		return "Agent"
	default:
		return string(s)
	}
}

// Message is one entry of a conversation. It is never modified after creation.
type Message struct {
	Text   string    `json:"text"`
	Sender Sender    `json:"sender"`
	SentAt time.Time `json:"sent_at"`
}

// NewUserMessage creates a message authored by the user
func NewUserMessage(text string, at time.Time) Message {
	return Message{Text: text, Sender: SenderUser, SentAt: at}
}

// NewAgentMessage creates a message authored by the agent
func NewAgentMessage(text string, at time.Time) Message {
	return Message{Text: text, Sender: SenderAgent, SentAt: at}
}

// IsUser reports whether the user sent the message
func (m Message) IsUser() bool {
	return m.Sender == SenderUser
}

// TimeOfDay formats SentAt in local time with the given layout, time.Kitchen when empty.
func (m Message) TimeOfDay(layout string) string {
	if m.SentAt.IsZero() {
		return ""
	}
	if layout == "" {
		layout = time.Kitchen
	}
	return m.SentAt.Local().Format(layout)
}

func (m Message) String() string {
	return fmt.Sprintf("[%s] %s", m.Sender.Label(), m.Text)
}
