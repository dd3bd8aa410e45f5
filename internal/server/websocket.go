package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v5"

	"github.com/lunawell/luna/internal/metrics"
	"github.com/lunawell/luna/internal/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

// wsEvent is one frame of the streamed chat reply.
type wsEvent struct {
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

// handleChatSocket serves chat turns over a websocket. Each inbound
// frame is a ChatRequest; the reply is streamed word by word as token
// events followed by a done event carrying the full response envelope.
func (s *Server) handleChatSocket(c *echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return fmt.Errorf("upgrade websocket: %w", err)
	}
	defer conn.Close()

	start := time.Now()
	defer func() {
		s.metrics.RecordTiming(metrics.OpWSSession, time.Since(start))
	}()

	ctx := c.Request().Context()
	for {
		var req models.ChatRequest
		if err := conn.ReadJSON(&req); err != nil {
			// Client disconnected or sent an unreadable frame.
			return nil
		}

		if err := s.validate.Struct(req); err != nil {
			if err := conn.WriteJSON(wsEvent{Type: "error", Content: "message required"}); err != nil {
				return nil
			}
			continue
		}

		resp, err := s.chat.Chat(ctx, req)
		if err != nil {
			s.logger.Error("chat turn failed", "error", err)
			if err := conn.WriteJSON(wsEvent{Type: "error", Content: "Failed to generate response"}); err != nil {
				return nil
			}
			continue
		}

		for _, word := range strings.Fields(resp.Response) {
			if err := conn.WriteJSON(wsEvent{Type: "token", Content: word + " "}); err != nil {
				return nil
			}
		}
		if err := conn.WriteJSON(wsEvent{Type: "done", Payload: resp}); err != nil {
			return nil
		}
	}
}
