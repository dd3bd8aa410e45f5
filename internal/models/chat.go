package models

// ChatRequest is the body of a chat turn request.
type ChatRequest struct {
	Message        string `json:"message" validate:"required,min=1"`
	Topic          string `json:"topic,omitempty"`
	ConversationID string `json:"conversationId,omitempty"`
}

// ResourceStub is a lightweight resource suggestion attached to an
// assistant reply.
type ResourceStub struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url,omitempty"`
}

// ChatResponse is the envelope returned for a completed chat turn.
type ChatResponse struct {
	Response       string         `json:"response"`
	ConversationID string         `json:"conversationId"`
	Resources      []ResourceStub `json:"resources,omitempty"`
}
