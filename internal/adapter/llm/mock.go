package llm

import (
	"context"
	"sync"

	"sahtein/internal/domain"
)

// MockClient is a deterministic in-process client used in tests and when no
// provider is configured. Responses can be queued; once the queue drains it
// falls back to a fixed reply per format.
type MockClient struct {
	mu       sync.Mutex
	queue    []string
	calls    int
	failWith error
}

// NewMockClient returns a mock that replays the given responses in order.
func NewMockClient(responses ...string) *MockClient {
	return &MockClient{queue: responses}
}

// FailWith makes every subsequent call return err.
func (c *MockClient) FailWith(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failWith = err
}

// Calls reports how many completions were requested.
func (c *MockClient) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// ChatCompletion implements domain.LLMClient.
func (c *MockClient) ChatCompletion(ctx context.Context, _ []domain.ChatMessage, format domain.ResponseFormat, _ domain.CompletionOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.failWith != nil {
		return "", c.failWith
	}
	if len(c.queue) > 0 {
		next := c.queue[0]
		c.queue = c.queue[1:]
		return next, nil
	}
	if format == domain.FormatJSON {
		return "{}", nil
	}
	return "D'accord.", nil
}
