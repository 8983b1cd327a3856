// Package provider implements translation backends for the Coordinator.
package provider

import (
	"fmt"
	"strings"

	"github.com/lingofyra/transcache"
)

// Provider is the interface for translation backends.
// This is an alias to the main package interface for convenience.
type Provider = transcache.Provider

// Request is an alias to the main package type.
type Request = transcache.Request

// buildPrompt returns the system prompt shared by the LLM providers.
func buildPrompt(req Request) string {
	sourceName := transcache.GetLanguageName(req.SourceLang)
	targetName := transcache.GetLanguageName(req.TargetLang)

	return fmt.Sprintf(`# Role
You are an expert translator for a language-learning website. You translate from %s to %s.

# Task
Translate the text you are given into natural, idiomatic %s.

# Rules
- Reply with the translation only. No quotes, notes, or alternatives.
- Keep the meaning and register of the original. Learners read your output next to the source.
- A single word gets a single-word (or shortest natural) equivalent.
- Do NOT translate URLs, email addresses, or placeholders (e.g., {{name}}, {count}, %%s).
- Preserve leading and trailing whitespace and line breaks.`, sourceName, targetName, targetName)
}

// cleanReply strips wrapping a chat model sometimes adds around a bare translation.
func cleanReply(reply string) string {
	reply = strings.TrimSpace(reply)
	if strings.HasPrefix(reply, "```") {
		reply = strings.TrimPrefix(reply, "```")
		reply = strings.TrimSuffix(reply, "```")
		reply = strings.TrimSpace(reply)
	}
	if len(reply) >= 2 && reply[0] == '"' && reply[len(reply)-1] == '"' {
		reply = reply[1 : len(reply)-1]
	}
	return reply
}

func isRetryableError(err error) bool {
	// Check for common retryable conditions
	errStr := strings.ToLower(err.Error())
	retryablePatterns := []string{
		"rate limit",
		"timeout",
		"connection refused",
		"connection reset",
		"temporary",
		"unavailable",
		"503",
		"502",
		"500",
		"429",
	}

	for _, pattern := range retryablePatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}
