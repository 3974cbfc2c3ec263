// Package chat defines the minimal text message type used to invoke a model
// handle. It carries no session state; callers own the message slice.
package chat

import (
	"fmt"
	"strings"
)

// Role represents the sender of a message in a conversation.
type Role string

const (
	System    Role = "system"
	User      Role = "user"
	Assistant Role = "assistant"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case System, User, Assistant:
		return true
	}
	return false
}

// String returns the underlying string value of the role.
func (r Role) String() string {
	return string(r)
}

// Message is a single text message. It is a value type that copies cheaply.
type Message struct {
	Role    Role
	Content string
}

// NewText creates a message with the given role and text.
func NewText(r Role, text string) Message {
	return Message{Role: r, Content: text}
}

// Validate reports the first message in msgs whose role is not a known role.
func Validate(msgs []Message) error {
	for i, m := range msgs {
		if !m.Role.Valid() {
			return fmt.Errorf("chat: message %d: invalid role %q", i, m.Role)
		}
	}
	return nil
}

// SystemPrompt returns the content of the first system message in msgs, or an
// empty string if there is none.
func SystemPrompt(msgs []Message) string {
	for _, m := range msgs {
		if m.Role == System {
			return m.Content
		}
	}
	return ""
}

// Transcript renders msgs as "role: content" lines. Useful for logging.
func Transcript(msgs []Message) string {
	var b strings.Builder
	for i, m := range msgs {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(m.Role.String())
		b.WriteString(": ")
		b.WriteString(m.Content)
	}
	return b.String()
}
