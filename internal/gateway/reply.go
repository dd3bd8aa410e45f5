package gateway

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lunawell/luna/internal/models"
)

// Fixed fallback texts. The first substitutes an unusable provider
// reply, the second a transport-level failure.
const (
	fallbackUnparsed    = "I'm here to listen and support you. Could you tell me more about what's on your mind? 💜"
	fallbackUnavailable = "I'm having trouble responding right now, but I'm still here for you. Could you try sharing that with me again? 💙"
)

// Reply is the gateway output: the assistant text plus optional
// resource suggestions. Fallback marks locally generated replies.
type Reply struct {
	Response  string
	Resources []models.ResourceStub
	Fallback  bool
}

// parseReply validates the provider's structured JSON reply. The reply
// is untrusted input: a missing or empty response field is an error.
func parseReply(raw string) (Reply, error) {
	var parsed struct {
		Response  string                `json:"response"`
		Resources []models.ResourceStub `json:"resources"`
	}
	if err := json.Unmarshal([]byte(stripFences(raw)), &parsed); err != nil {
		return Reply{}, fmt.Errorf("unmarshal reply: %w", err)
	}
	if parsed.Response == "" {
		return Reply{}, fmt.Errorf("reply missing response field")
	}
	if parsed.Resources == nil {
		parsed.Resources = []models.ResourceStub{}
	}
	return Reply{Response: parsed.Response, Resources: parsed.Resources}, nil
}

// stripFences removes a surrounding markdown code fence, which some
// models emit even in JSON mode.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func parseFallback() Reply {
	return Reply{Response: fallbackUnparsed, Resources: []models.ResourceStub{}, Fallback: true}
}

func unavailableFallback() Reply {
	return Reply{Response: fallbackUnavailable, Resources: []models.ResourceStub{}, Fallback: true}
}
