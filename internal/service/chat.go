// Package service contains the chat orchestration logic.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lunawell/luna/internal/gateway"
	"github.com/lunawell/luna/internal/metrics"
	"github.com/lunawell/luna/internal/models"
	"github.com/lunawell/luna/internal/store"
)

// Completer obtains one structured reply for a chat turn. It never
// returns an error: failures resolve to fallback replies.
type Completer interface {
	Complete(ctx context.Context, message, topic string, history []models.Message) gateway.Reply
}

// ChatService orchestrates a chat turn: resolve the conversation,
// invoke the completion gateway, persist both new messages, and build
// the response envelope.
type ChatService struct {
	store     store.Store
	completer Completer
	metrics   *metrics.Collector
	logger    *slog.Logger
}

// NewChatService creates the chat orchestrator.
func NewChatService(st store.Store, completer Completer, collector *metrics.Collector, logger *slog.Logger) *ChatService {
	if collector == nil {
		collector = metrics.NewCollector()
	}
	return &ChatService{
		store:     st,
		completer: completer,
		metrics:   collector,
		logger:    logger,
	}
}

// Chat executes one turn. An unknown conversation identifier is treated
// as "no prior conversation", not an error; per completed turn, exactly
// one user and one assistant message are appended.
func (s *ChatService) Chat(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	start := time.Now()
	defer func() {
		s.metrics.RecordTiming(metrics.OpChatTurn, time.Since(start))
	}()

	var conv *models.Conversation
	if req.ConversationID != "" {
		existing, err := s.store.GetConversation(ctx, req.ConversationID)
		switch {
		case err == nil:
			conv = existing
		case errors.Is(err, store.ErrNotFound):
			// Unknown identifier means start fresh.
		default:
			return nil, fmt.Errorf("resolve conversation: %w", err)
		}
	}

	topic := req.Topic
	var history []models.Message
	if conv != nil {
		history = conv.Messages
		if topic == "" {
			topic = conv.Topic
		}
	}

	reply := s.completer.Complete(ctx, req.Message, topic, history)
	if reply.Fallback {
		s.logger.Info("served fallback reply", "conversation_id", req.ConversationID)
	}

	userMsg := models.NewMessage(models.RoleUser, req.Message)
	assistantMsg := models.NewMessage(models.RoleAssistant, reply.Response)

	if conv != nil {
		msgs := append(append([]models.Message{}, conv.Messages...), userMsg, assistantMsg)
		title := conv.Title
		if title == "" {
			title = models.DeriveTitle(req.Message)
		}
		updated, err := s.store.UpdateConversation(ctx, conv.ID, store.ConversationUpdate{
			Title:    &title,
			Messages: msgs,
		})
		if err != nil {
			return nil, fmt.Errorf("update conversation: %w", err)
		}
		conv = updated
	} else {
		if topic == "" {
			topic = models.TopicGeneralWellness
		}
		created, err := s.store.CreateConversation(ctx, models.DeriveTitle(req.Message), topic,
			[]models.Message{userMsg, assistantMsg})
		if err != nil {
			return nil, fmt.Errorf("create conversation: %w", err)
		}
		conv = created
	}

	return &models.ChatResponse{
		Response:       reply.Response,
		ConversationID: conv.ID,
		Resources:      reply.Resources,
	}, nil
}
