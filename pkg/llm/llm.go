package llm

import (
	"context"
	"errors"
)

// ErrNoAPIKey is returned by providers constructed without a credential.
var ErrNoAPIKey = errors.New("llm api key is empty")

// ChatModel is a minimal abstraction for chat-based LLMs used by the domain.
// An empty systemPrompt sends the user prompt as the only message.
type ChatModel interface {
	Ask(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	Model() string
}
