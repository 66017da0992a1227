package llm

import (
	"context"
	"encoding/json"
	"strings"
)

// Provider generates one completion per call. Implementations never retry;
// the game's fetch loop owns backoff so it can tell the player about it.
type Provider interface {
	// Generate sends req and returns the model output. When req.Schema is
	// set, Content is JSON already validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes a single-turn prompt.
type Request struct {
	System   string
	Messages []Message

	// Schema asks the provider for structured JSON output. Nil means free
	// text, returned as a JSON string.
	Schema *Schema

	MaxTokens   int
	Temperature float64
}

// Prompt returns a request with system instructions and one user message.
func Prompt(system, user string) Request {
	return Request{
		System:   system,
		Messages: []Message{{Role: RoleUser, Content: user}},
	}
}

// Message is one turn of the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema for structured output. Name is kebab-case
// (e.g. "word-problem") and doubles as the Anthropic tool name and the
// OpenAI schema name.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Response holds the model output.
type Response struct {
	Content json.RawMessage
	Usage   Usage
	Model   string

	// StopReason is normalized to "end", "max_tokens" or "error".
	StopReason string
}

// Text returns Content as plain text. Free-text responses arrive as a JSON
// string; anything else is returned verbatim.
func (r *Response) Text() string {
	var s string
	if err := json.Unmarshal(r.Content, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(string(r.Content))
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
