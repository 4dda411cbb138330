// Package llm wraps the chat-completion providers used for fact generation
// and translation.
package llm

import (
	"context"
	"fmt"
)

// Provider is the interface for chat-completion backends.
type Provider interface {
	// Name returns the provider name ("deepseek", "openai").
	Name() string

	// Complete issues one chat completion and returns the assistant's
	// message content verbatim.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// IsAvailable checks that the provider is configured and reachable.
	IsAvailable(ctx context.Context) bool
}

// CompletionRequest is a single system+user chat exchange.
type CompletionRequest struct {
	System string
	User   string

	// Model overrides the configured default when set.
	Model string

	MaxTokens   int
	Temperature float32

	// JSONObject asks the provider to constrain output to a JSON object.
	JSONObject bool
}

// CompletionResponse is the assistant's reply.
type CompletionResponse struct {
	Content    string
	Model      string
	TokensUsed int
}

// KeySource resolves the API key for a provider id. Keys live in the
// application's configuration store, not in this package.
type KeySource interface {
	Get(ctx context.Context, provider string) (string, error)
}

// TransportError is a failed or non-2xx HTTP exchange with the provider.
// These are transient from the retry loop's point of view.
type TransportError struct {
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("llm transport error (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("llm transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
