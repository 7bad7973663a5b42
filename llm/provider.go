// Package llm abstracts the chat-completion providers the analyzer can talk
// to. All analyses go through the Provider interface; the concrete providers
// share one OpenAI-compatible HTTP client.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// ErrUpstream marks any provider-side failure: network, auth, quota, or a
// malformed response. Callers treat it as a single error class and convert it
// to displayable data at the boundary; it never reaches the section parser.
var ErrUpstream = errors.New("llm: upstream request failed")

// Provider is the interface for LLM interactions.
type Provider interface {
	// Chat sends a chat completion request. One attempt only: retry and
	// backoff policy is deliberately left to callers.
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)

	// Embed generates embeddings for a batch of texts.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// ChatRequest is a chat completion request.
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	// ResponseFormat can be set to "json_object" for JSON mode.
	ResponseFormat string `json:"response_format,omitempty"`
}

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatResponse is the response from a chat completion.
type ChatResponse struct {
	Content          string `json:"content"`
	Model            string `json:"model"`
	FinishReason     string `json:"finish_reason"`
	PromptTokens     int    `json:"prompt_tokens"`
	CompletionTokens int    `json:"completion_tokens"`
	TotalTokens      int    `json:"total_tokens"`
}

// Config configures an LLM provider.
type Config struct {
	Provider string `json:"provider" yaml:"provider"` // openai, ollama, openrouter, custom
	Model    string `json:"model" yaml:"model"`
	BaseURL  string `json:"base_url" yaml:"base_url"`
	APIKey   string `json:"api_key" yaml:"api_key"`
}

// NewProvider creates an LLM provider from configuration. The API key is
// resolved at construction time (see ResolveAPIKey); the returned provider
// holds no global state and its lifetime is owned by the caller.
func NewProvider(cfg Config) (Provider, error) {
	cfg.APIKey = ResolveAPIKey(cfg)
	switch cfg.Provider {
	case "openai":
		return NewOpenAI(cfg), nil
	case "ollama":
		return NewOllama(cfg), nil
	case "openrouter":
		return NewOpenRouter(cfg), nil
	case "custom":
		return NewOpenAICompat(cfg), nil
	case "":
		return nil, fmt.Errorf("llm provider not specified")
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}
