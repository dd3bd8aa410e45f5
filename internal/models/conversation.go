package models

import "time"

// Topic tags a conversation can carry.
const (
	TopicMentalHealth    = "mental-health"
	TopicRelationships   = "relationships"
	TopicMenstrualHealth = "menstrual-health"
	TopicGeneralWellness = "general-wellness"
)

// Conversation represents a topic-tagged chat transcript.
// Messages are kept in strict chronological append order.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Topic     string    `json:"topic"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
