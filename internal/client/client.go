// Package client provides a REST client for the Luna server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/lunawell/luna/internal/models"
)

// Client talks to the Luna server's REST surface.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new client. If endpoint is empty, uses the
// LUNA_SERVER_URL env var or defaults to localhost:5000.
// Timeout can be configured via LUNA_CLIENT_TIMEOUT (default 2m to
// cover slow completion calls).
func New(endpoint string) *Client {
	if endpoint == "" {
		endpoint = os.Getenv("LUNA_SERVER_URL")
	}
	if endpoint == "" {
		endpoint = "http://localhost:5000"
	}

	timeout := 2 * time.Minute
	if t := os.Getenv("LUNA_CLIENT_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			timeout = d
		}
	}

	return &Client{
		baseURL: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Chat sends one chat turn and returns the response envelope.
func (c *Client) Chat(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	var resp models.ChatResponse
	if err := c.do(ctx, http.MethodPost, "/api/chat", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListConversations returns all conversations, newest-updated first.
func (c *Client) ListConversations(ctx context.Context) ([]models.Conversation, error) {
	var convs []models.Conversation
	if err := c.do(ctx, http.MethodGet, "/api/conversations", nil, &convs); err != nil {
		return nil, err
	}
	return convs, nil
}

// GetConversation fetches a single conversation by identifier.
func (c *Client) GetConversation(ctx context.Context, id string) (*models.Conversation, error) {
	var conv models.Conversation
	if err := c.do(ctx, http.MethodGet, "/api/conversations/"+url.PathEscape(id), nil, &conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

// DeleteConversation removes a single conversation.
func (c *Client) DeleteConversation(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/conversations/"+url.PathEscape(id), nil, nil)
}

// ClearConversations removes every conversation.
func (c *Client) ClearConversations(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/conversations", nil, nil)
}

// ListResources returns the resource catalog, optionally filtered by
// category.
func (c *Client) ListResources(ctx context.Context, category string) ([]models.Resource, error) {
	path := "/api/resources"
	if category != "" {
		path += "?category=" + url.QueryEscape(category)
	}
	var resources []models.Resource
	if err := c.do(ctx, http.MethodGet, path, nil, &resources); err != nil {
		return nil, err
	}
	return resources, nil
}

// Stats returns the server's runtime statistics as raw JSON.
func (c *Client) Stats(ctx context.Context) (json.RawMessage, error) {
	var stats json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/stats", nil, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// errorResponse is the server's error body shape.
type errorResponse struct {
	Message string `json:"message"`
}

// do executes one request and decodes the JSON response into result.
func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp errorResponse
		if json.Unmarshal(data, &errResp) == nil && errResp.Message != "" {
			return fmt.Errorf("server error: %s", errResp.Message)
		}
		return fmt.Errorf("server error: %s - %s", resp.Status, string(data))
	}

	if result != nil && len(data) > 0 {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}

	return nil
}
