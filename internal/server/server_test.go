package server_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lunawell/luna/internal/gateway"
	"github.com/lunawell/luna/internal/metrics"
	"github.com/lunawell/luna/internal/models"
	"github.com/lunawell/luna/internal/server"
	"github.com/lunawell/luna/internal/service"
	"github.com/lunawell/luna/internal/store"
)

type stubCompleter struct {
	reply gateway.Reply
}

func (s *stubCompleter) Complete(_ context.Context, _, _ string, _ []models.Message) gateway.Reply {
	return s.reply
}

func newTestHandler(t *testing.T) (http.Handler, store.Store) {
	t.Helper()

	st := store.NewMemoryStore()
	require.NoError(t, store.Seed(context.Background(), st, ""))

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	completer := &stubCompleter{reply: gateway.Reply{Response: "I'm here for you. 💜"}}
	collector := metrics.NewCollector()
	chat := service.NewChatService(st, completer, collector, logger)

	return server.New(st, chat, collector, logger).Handler(), st
}

func doJSON(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestChatCreatesConversation(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/chat", `{"message": "I feel really overwhelmed today and scared"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "I'm here for you. 💜", resp.Response)
	require.NotEmpty(t, resp.ConversationID)

	rec = doJSON(t, handler, http.MethodGet, "/api/conversations/"+resp.ConversationID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var conv models.Conversation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &conv))
	assert.Equal(t, "I feel really overwhelmed", conv.Title)
	require.Len(t, conv.Messages, 2)
	assert.Equal(t, models.RoleUser, conv.Messages[0].Role)
	assert.Equal(t, models.RoleAssistant, conv.Messages[1].Role)
}

func TestChatResumesConversation(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/chat", `{"message": "first message", "topic": "mental-health"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var first models.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))

	rec = doJSON(t, handler, http.MethodPost, "/api/chat",
		`{"message": "second message", "conversationId": "`+first.ConversationID+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var second models.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	assert.Equal(t, first.ConversationID, second.ConversationID)

	rec = doJSON(t, handler, http.MethodGet, "/api/conversations/"+first.ConversationID, "")
	var conv models.Conversation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &conv))
	assert.Len(t, conv.Messages, 4)
}

func TestChatValidation(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/chat", `{"message": ""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, handler, http.MethodPost, "/api/chat", `{"topic": "crisis"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, handler, http.MethodPost, "/api/chat", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListConversations(t *testing.T) {
	handler, _ := newTestHandler(t)

	for _, msg := range []string{"first", "second", "third"} {
		rec := doJSON(t, handler, http.MethodPost, "/api/chat", `{"message": "`+msg+`"}`)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doJSON(t, handler, http.MethodGet, "/api/conversations", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var convs []models.Conversation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &convs))
	require.Len(t, convs, 3)

	// Newest-updated first.
	for i := 1; i < len(convs); i++ {
		assert.False(t, convs[i-1].UpdatedAt.Before(convs[i].UpdatedAt))
	}
}

func TestGetConversationNotFound(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := doJSON(t, handler, http.MethodGet, "/api/conversations/unknown", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Conversation not found")
}

func TestDeleteConversation(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/chat", `{"message": "to be deleted"}`)
	var resp models.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	rec = doJSON(t, handler, http.MethodDelete, "/api/conversations/"+resp.ConversationID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success": true}`, rec.Body.String())

	rec = doJSON(t, handler, http.MethodDelete, "/api/conversations/"+resp.ConversationID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestClearConversations(t *testing.T) {
	handler, _ := newTestHandler(t)

	for range 3 {
		doJSON(t, handler, http.MethodPost, "/api/chat", `{"message": "hello"}`)
	}

	rec := doJSON(t, handler, http.MethodDelete, "/api/conversations", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success": true}`, rec.Body.String())

	rec = doJSON(t, handler, http.MethodGet, "/api/conversations", "")
	var convs []models.Conversation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &convs))
	assert.Empty(t, convs)
}

func TestListResources(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := doJSON(t, handler, http.MethodGet, "/api/resources", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var all []models.Resource
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	assert.Len(t, all, 8)

	rec = doJSON(t, handler, http.MethodGet, "/api/resources?category=crisis", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var crisis []models.Resource
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &crisis))
	require.Len(t, crisis, 2)
	for _, r := range crisis {
		assert.Equal(t, models.CategoryCrisis, r.Category)
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/resources?category=nonexistent", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var none []models.Resource
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &none))
	assert.Empty(t, none)
}

func TestCreateResource(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/resources",
		`{"title": "Local Helpline", "description": "Regional support", "category": "crisis", "content": "Call 112.", "icon": "phone"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Resource
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)

	rec = doJSON(t, handler, http.MethodPost, "/api/resources", `{"description": "no title"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatsEndpoint(t *testing.T) {
	handler, _ := newTestHandler(t)

	doJSON(t, handler, http.MethodPost, "/api/chat", `{"message": "hello"}`)

	rec := doJSON(t, handler, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "chat_turn")
}

func TestHealthz(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := doJSON(t, handler, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", strings.TrimSpace(rec.Body.String()))
}

func TestChatSocketStreamsReply(t *testing.T) {
	handler, _ := newTestHandler(t)
	ts := httptest.NewServer(handler)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil {
		defer resp.Body.Close()
	}
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(models.ChatRequest{Message: "hello there"}))

	var streamed strings.Builder
	for {
		var event struct {
			Type    string              `json:"type"`
			Content string              `json:"content"`
			Payload models.ChatResponse `json:"payload"`
		}
		require.NoError(t, conn.ReadJSON(&event))

		if event.Type == "token" {
			streamed.WriteString(event.Content)
			continue
		}
		require.Equal(t, "done", event.Type)
		assert.NotEmpty(t, event.Payload.ConversationID)
		assert.Equal(t, "I'm here for you. 💜", event.Payload.Response)
		break
	}
	assert.Equal(t, "I'm here for you. 💜", strings.TrimSpace(streamed.String()))
}

func TestChatSocketRejectsEmptyMessage(t *testing.T) {
	handler, _ := newTestHandler(t)
	ts := httptest.NewServer(handler)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil {
		defer resp.Body.Close()
	}
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(models.ChatRequest{Message: ""}))

	var event wsErrorEvent
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, "error", event.Type)
}

type wsErrorEvent struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}
