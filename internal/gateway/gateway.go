// Package gateway obtains structured replies from an external
// text-generation provider, isolating the rest of the service from the
// provider's API shape and failure modes.
package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/lunawell/luna/internal/config"
	"github.com/lunawell/luna/internal/metrics"
	"github.com/lunawell/luna/internal/models"
)

// historyWindow is the number of most-recent prior messages included
// when requesting a new reply. Older messages are silently dropped.
const historyWindow = 6

const (
	maxReplyTokens   = 500
	replyTemperature = 0.7
)

// Gateway turns a bounded conversation context into one structured
// reply. Complete never returns an error to its caller: every failure
// is absorbed into a fixed fallback reply.
type Gateway struct {
	llm       llms.Model
	modelName string
	timeout   time.Duration
	logger    *slog.Logger
	metrics   *metrics.Collector
}

// New creates a gateway for the configured provider. A missing or
// unusable credential degrades the gateway to fallback replies instead
// of failing startup.
func New(cfg config.Config, logger *slog.Logger, collector *metrics.Collector) *Gateway {
	model, err := newModel(cfg)
	if err != nil {
		logger.Warn("completion provider unavailable, serving fallback replies", "provider", cfg.LLMProvider, "error", err)
		model = nil
	}
	return NewWithModel(model, cfg.LLMModel, cfg.LLMTimeout, logger, collector)
}

// NewWithModel creates a gateway around an existing model. A nil model
// yields fallback replies for every request.
func NewWithModel(model llms.Model, modelName string, timeout time.Duration, logger *slog.Logger, collector *metrics.Collector) *Gateway {
	if collector == nil {
		collector = metrics.NewCollector()
	}
	return &Gateway{
		llm:       model,
		modelName: modelName,
		timeout:   timeout,
		logger:    logger,
		metrics:   collector,
	}
}

// newModel creates an LLM model based on configuration.
func newModel(cfg config.Config) (llms.Model, error) {
	switch cfg.LLMProvider {
	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OpenAI API key required")
		}
		model, err := openai.New(
			openai.WithToken(cfg.OpenAIAPIKey),
			openai.WithModel(cfg.LLMModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create openai model: %w", err)
		}
		return model, nil

	case config.ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("Anthropic API key required")
		}
		model, err := anthropic.New(
			anthropic.WithToken(cfg.AnthropicAPIKey),
			anthropic.WithModel(cfg.LLMModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create anthropic model: %w", err)
		}
		return model, nil

	case config.ProviderOllama:
		model, err := ollama.New(
			ollama.WithModel(cfg.LLMModel),
			ollama.WithServerURL(cfg.OllamaHost),
		)
		if err != nil {
			return nil, fmt.Errorf("create ollama model: %w", err)
		}
		return model, nil

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLMProvider)
	}
}

// Complete requests one structured reply for the new user message, the
// optional topic hint, and up to the last six prior messages of
// history. All provider failures, including timeouts and unusable
// replies, resolve to a fallback Reply.
func (g *Gateway) Complete(ctx context.Context, message, topic string, history []models.Message) Reply {
	if g.llm == nil {
		return unavailableFallback()
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	msgs := make([]llms.MessageContent, 0, historyWindow+2)
	msgs = append(msgs, llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt(topic)))
	for _, m := range trimHistory(history) {
		role := llms.ChatMessageTypeHuman
		if m.Role == models.RoleAssistant {
			role = llms.ChatMessageTypeAI
		}
		msgs = append(msgs, llms.TextParts(role, m.Content))
	}
	msgs = append(msgs, llms.TextParts(llms.ChatMessageTypeHuman, message))

	start := time.Now()
	resp, err := g.llm.GenerateContent(ctx, msgs,
		llms.WithJSONMode(),
		llms.WithMaxTokens(maxReplyTokens),
		llms.WithTemperature(replyTemperature),
	)
	elapsed := time.Since(start)

	if err != nil || resp == nil || len(resp.Choices) == 0 {
		g.metrics.RecordTiming(metrics.OpLLMGenerate, elapsed)
		g.logger.Warn("completion request failed", "model", g.modelName, "error", err)
		return unavailableFallback()
	}

	choice := resp.Choices[0]
	g.metrics.RecordLLMUsage(metrics.OpLLMGenerate, elapsed,
		tokenCount(choice.GenerationInfo, "PromptTokens"),
		tokenCount(choice.GenerationInfo, "CompletionTokens"),
	)

	reply, err := parseReply(choice.Content)
	if err != nil {
		g.logger.Warn("unusable completion reply", "model", g.modelName, "error", err)
		return parseFallback()
	}
	return reply
}

// trimHistory keeps the most recent historyWindow messages.
func trimHistory(history []models.Message) []models.Message {
	if len(history) <= historyWindow {
		return history
	}
	return history[len(history)-historyWindow:]
}

func tokenCount(info map[string]any, key string) int64 {
	if info == nil {
		return 0
	}
	switch v := info[key].(type) {
	case int:
		return int64(v)
	case int64:
		return v
	case float64:
		return int64(v)
	}
	return 0
}
