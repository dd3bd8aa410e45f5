package store

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/lunawell/luna/internal/models"
)

// MemoryStore keeps all records in process memory. State is lost on
// restart.
//
// The mutex guards map integrity only. Two concurrent updates to the
// same conversation are not serialized against each other: the later
// write replaces the whole record (last-write-wins).
type MemoryStore struct {
	mu            sync.RWMutex
	conversations map[string]*models.Conversation
	resources     map[string]*models.Resource

	now func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		conversations: make(map[string]*models.Conversation),
		resources:     make(map[string]*models.Resource),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// GetConversation looks up a conversation by identifier.
// Returns ErrNotFound on a miss.
func (m *MemoryStore) GetConversation(_ context.Context, id string) (*models.Conversation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	conv, ok := m.conversations[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneConversation(conv), nil
}

// ListConversations returns all conversations ordered by UpdatedAt
// descending, ties broken by identifier for a deterministic order.
func (m *MemoryStore) ListConversations(_ context.Context) ([]*models.Conversation, error) {
	m.mu.RLock()
	convs := make([]*models.Conversation, 0, len(m.conversations))
	for _, c := range m.conversations {
		convs = append(convs, cloneConversation(c))
	}
	m.mu.RUnlock()

	slices.SortFunc(convs, func(a, b *models.Conversation) int {
		if !a.UpdatedAt.Equal(b.UpdatedAt) {
			return b.UpdatedAt.Compare(a.UpdatedAt)
		}
		return strings.Compare(a.ID, b.ID)
	})
	return convs, nil
}

// CreateConversation stores a new conversation with a fresh identifier.
func (m *MemoryStore) CreateConversation(_ context.Context, title, topic string, messages []models.Message) (*models.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	conv := &models.Conversation{
		ID:        uuid.New().String(),
		Title:     title,
		Topic:     topic,
		Messages:  slices.Clone(messages),
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.conversations[conv.ID] = conv
	return cloneConversation(conv), nil
}

// UpdateConversation merges the provided fields into an existing record,
// preserving its identifier and refreshing UpdatedAt.
// Returns ErrNotFound when the identifier is unknown.
func (m *MemoryStore) UpdateConversation(_ context.Context, id string, update ConversationUpdate) (*models.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.conversations[id]
	if !ok {
		return nil, ErrNotFound
	}

	if update.Title != nil {
		existing.Title = *update.Title
	}
	if update.Topic != nil {
		existing.Topic = *update.Topic
	}
	if update.Messages != nil {
		existing.Messages = slices.Clone(update.Messages)
	}
	existing.UpdatedAt = m.now()

	return cloneConversation(existing), nil
}

// DeleteConversation removes a conversation, reporting whether it existed.
func (m *MemoryStore) DeleteConversation(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.conversations[id]
	delete(m.conversations, id)
	return ok, nil
}

// DeleteAllConversations removes every conversation by listing current
// records and deleting them one by one. A conversation created
// concurrently after the listing step survives.
func (m *MemoryStore) DeleteAllConversations(ctx context.Context) error {
	convs, err := m.ListConversations(ctx)
	if err != nil {
		return err
	}
	for _, conv := range convs {
		if _, err := m.DeleteConversation(ctx, conv.ID); err != nil {
			return err
		}
	}
	return nil
}

// ListResources returns every seeded resource. Order is not significant.
func (m *MemoryStore) ListResources(_ context.Context) ([]*models.Resource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	resources := make([]*models.Resource, 0, len(m.resources))
	for _, r := range m.resources {
		clone := *r
		resources = append(resources, &clone)
	}
	return resources, nil
}

// ListResourcesByCategory filters resources by exact category match.
// An unknown category yields an empty slice.
func (m *MemoryStore) ListResourcesByCategory(ctx context.Context, category string) ([]*models.Resource, error) {
	resources, err := m.ListResources(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Filter(resources, func(r *models.Resource, _ int) bool {
		return r.Category == category
	}), nil
}

// CreateResource stores a resource with a fresh identifier.
func (m *MemoryStore) CreateResource(_ context.Context, resource models.Resource) (*models.Resource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	resource.ID = uuid.New().String()
	m.resources[resource.ID] = &resource
	clone := resource
	return &clone, nil
}

func cloneConversation(c *models.Conversation) *models.Conversation {
	clone := *c
	clone.Messages = slices.Clone(c.Messages)
	return &clone
}
