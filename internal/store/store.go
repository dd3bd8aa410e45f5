// Package store provides conversation and resource storage for the Luna
// chat service.
package store

import (
	"context"
	"errors"

	"github.com/lunawell/luna/internal/models"
)

// Sentinel errors for storage operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")
)

// ConversationUpdate carries the fields merged into an existing
// conversation on update. Nil fields are left untouched; Messages
// replaces the sequence wholesale when non-nil.
type ConversationUpdate struct {
	Title    *string
	Topic    *string
	Messages []models.Message
}

// Store is the storage abstraction behind the chat orchestrator and the
// HTTP handlers. A durable implementation can be substituted without
// touching either.
type Store interface {
	GetConversation(ctx context.Context, id string) (*models.Conversation, error)
	ListConversations(ctx context.Context) ([]*models.Conversation, error)
	CreateConversation(ctx context.Context, title, topic string, messages []models.Message) (*models.Conversation, error)
	UpdateConversation(ctx context.Context, id string, update ConversationUpdate) (*models.Conversation, error)
	DeleteConversation(ctx context.Context, id string) (bool, error)
	DeleteAllConversations(ctx context.Context) error

	ListResources(ctx context.Context) ([]*models.Resource, error)
	ListResourcesByCategory(ctx context.Context, category string) ([]*models.Resource, error)
	CreateResource(ctx context.Context, resource models.Resource) (*models.Resource, error)
}
