// Package chat defines the message record persisted as chat history.
package chat

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidRole is returned by Validate for a message whose role is not one
// of the known roles.
var ErrInvalidRole = errors.New("invalid role")

// Role identifies the sender of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant, RoleTool:
		return true
	default:
		return false
	}
}

// Message is a single turn of a conversation.
//
// ID and Timestamp are optional on decode so histories written by older
// clients, which stored only role and content, still load.
type Message struct {
	ID        string    `json:"id,omitempty"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp,omitzero"`
}

// NewMessage creates a Message with a UUIDv7 identifier and the current UTC time.
//
// Example:
//
//	msg := chat.NewMessage(chat.RoleUser, "hi")
func NewMessage(role Role, content string) Message {
	return Message{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

// Validate checks the message shape.
func (m Message) Validate() error {
	if !m.Role.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidRole, m.Role)
	}
	return nil
}

// Validate checks every message in msgs and reports the first failure with
// its index.
func Validate(msgs []Message) error {
	for i, m := range msgs {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("message %d: %w", i, err)
		}
	}
	return nil
}
