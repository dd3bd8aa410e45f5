// Package models defines data structures for the Luna chat service.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single turn within a conversation.
// All fields are immutable once the message is stored.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage builds a message with a fresh identifier and the current time.
func NewMessage(role, content string) Message {
	return Message{
		ID:        uuid.New().String(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}
