package domain

import "context"

// ChatMessage is one turn of a model conversation.
type ChatMessage struct {
	Role    string // "system" or "user"
	Content string
}

// ResponseFormat constrains the shape of a model completion.
type ResponseFormat string

const (
	FormatText ResponseFormat = "text"
	FormatJSON ResponseFormat = "json_object"
)

// CompletionOptions are per-call generation overrides; zero values fall back
// to the client's configured defaults.
type CompletionOptions struct {
	Temperature float64
	MaxTokens   int
}

// LLMClient is the capability interface for the optional model refinement
// hook. Implementations must be interchangeable: a deterministic mock and
// external providers selected by configuration. Calls may be slow; callers
// own the context deadline.
type LLMClient interface {
	ChatCompletion(ctx context.Context, messages []ChatMessage, format ResponseFormat, opts CompletionOptions) (string, error)
}
