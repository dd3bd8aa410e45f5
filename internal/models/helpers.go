package models

import "strings"

const (
	titleWordCount = 4
	titleMaxLen    = 30
)

// DeriveTitle builds a conversation title from the first user message:
// the first four whitespace-separated words joined with single spaces,
// truncated to 30 characters plus an ellipsis marker when longer.
func DeriveTitle(message string) string {
	words := strings.Fields(message)
	if len(words) > titleWordCount {
		words = words[:titleWordCount]
	}
	title := strings.Join(words, " ")
	if len(title) > titleMaxLen {
		return title[:titleMaxLen] + "..."
	}
	return title
}
