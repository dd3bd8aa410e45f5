package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"github.com/lunawell/luna/internal/models"
)

// fakeModel returns a canned reply or error and records the messages
// it was invoked with.
type fakeModel struct {
	reply string
	err   error

	gotMessages []llms.MessageContent
}

func (f *fakeModel) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	f.gotMessages = messages
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: f.reply}},
	}, nil
}

func (f *fakeModel) Call(_ context.Context, _ string, _ ...llms.CallOption) (string, error) {
	return f.reply, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestGateway(model llms.Model) *Gateway {
	return NewWithModel(model, "test-model", 5*time.Second, testLogger(), nil)
}

func TestCompleteParsesStructuredReply(t *testing.T) {
	model := &fakeModel{reply: `{"response": "That sounds really hard. 💙", "resources": [{"title": "Crisis Text Line", "description": "Text HOME to 741741", "url": "sms:741741"}]}`}
	g := newTestGateway(model)

	reply := g.Complete(context.Background(), "I feel anxious", models.TopicMentalHealth, nil)

	assert.False(t, reply.Fallback)
	assert.Equal(t, "That sounds really hard. 💙", reply.Response)
	require.Len(t, reply.Resources, 1)
	assert.Equal(t, "Crisis Text Line", reply.Resources[0].Title)
}

func TestCompleteStripsCodeFences(t *testing.T) {
	model := &fakeModel{reply: "```json\n{\"response\": \"hi there\"}\n```"}
	g := newTestGateway(model)

	reply := g.Complete(context.Background(), "hi", "", nil)

	assert.False(t, reply.Fallback)
	assert.Equal(t, "hi there", reply.Response)
	assert.Empty(t, reply.Resources)
}

func TestCompleteFallsBackOnMalformedReply(t *testing.T) {
	for name, raw := range map[string]string{
		"not json":         "sorry, I can't do JSON",
		"missing response": `{"resources": []}`,
		"empty response":   `{"response": ""}`,
	} {
		t.Run(name, func(t *testing.T) {
			g := newTestGateway(&fakeModel{reply: raw})

			reply := g.Complete(context.Background(), "hi", "", nil)

			assert.True(t, reply.Fallback)
			assert.Equal(t, fallbackUnparsed, reply.Response)
			assert.Empty(t, reply.Resources)
		})
	}
}

func TestCompleteFallsBackOnProviderError(t *testing.T) {
	g := newTestGateway(&fakeModel{err: errors.New("connection refused")})

	reply := g.Complete(context.Background(), "hi", "", nil)

	assert.True(t, reply.Fallback)
	assert.Equal(t, fallbackUnavailable, reply.Response)
	assert.Empty(t, reply.Resources)
}

func TestCompleteFallsBackWithoutModel(t *testing.T) {
	g := newTestGateway(nil)

	reply := g.Complete(context.Background(), "hi", "", nil)

	assert.True(t, reply.Fallback)
	assert.Equal(t, fallbackUnavailable, reply.Response)
}

func TestCompleteTrimsHistoryWindow(t *testing.T) {
	model := &fakeModel{reply: `{"response": "ok"}`}
	g := newTestGateway(model)

	history := make([]models.Message, 10)
	for i := range history {
		role := models.RoleUser
		if i%2 == 1 {
			role = models.RoleAssistant
		}
		history[i] = models.NewMessage(role, fmt.Sprintf("message %d", i))
	}

	g.Complete(context.Background(), "latest", models.TopicRelationships, history)

	// system + last 6 history entries + new user message
	require.Len(t, model.gotMessages, 8)

	first := model.gotMessages[1].Parts[0].(llms.TextContent)
	assert.Equal(t, "message 4", first.Text)

	last := model.gotMessages[7].Parts[0].(llms.TextContent)
	assert.Equal(t, "latest", last.Text)
	assert.Equal(t, llms.ChatMessageTypeHuman, model.gotMessages[7].Role)
}

func TestCompleteTagsHistoryRoles(t *testing.T) {
	model := &fakeModel{reply: `{"response": "ok"}`}
	g := newTestGateway(model)

	history := []models.Message{
		models.NewMessage(models.RoleUser, "hi"),
		models.NewMessage(models.RoleAssistant, "hello"),
	}
	g.Complete(context.Background(), "how are you", "", history)

	require.Len(t, model.gotMessages, 4)
	assert.Equal(t, llms.ChatMessageTypeSystem, model.gotMessages[0].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, model.gotMessages[1].Role)
	assert.Equal(t, llms.ChatMessageTypeAI, model.gotMessages[2].Role)
}

func TestSystemPromptTopic(t *testing.T) {
	withTopic := systemPrompt(models.TopicMenstrualHealth)
	assert.Contains(t, withTopic, "Current topic context: menstrual-health")

	withoutTopic := systemPrompt("")
	assert.Contains(t, withoutTopic, "Current topic context: general conversation")
}
