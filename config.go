package paperlens

// Config holds all configuration for the PaperLens engine.
type Config struct {
	// Chat is the provider used for every LLM analysis.
	Chat LLMConfig `json:"chat" yaml:"chat"`

	// Embedding is optional. When set, papers are embedded on upload and
	// comparisons include similar-paper ranking over the session.
	Embedding LLMConfig `json:"embedding" yaml:"embedding"`

	// EmbeddingDim must match the embedding model's output size.
	EmbeddingDim int `json:"embedding_dim" yaml:"embedding_dim"`
}

// LLMConfig configures a single LLM provider endpoint.
type LLMConfig struct {
	Provider string `json:"provider" yaml:"provider"` // openai, ollama, openrouter, custom
	Model    string `json:"model" yaml:"model"`
	BaseURL  string `json:"base_url" yaml:"base_url"`
	APIKey   string `json:"api_key" yaml:"api_key"`
}

// DefaultConfig returns a Config targeting the OpenAI API. The key is
// resolved from the environment or config/api_keys.json at provider
// construction.
func DefaultConfig() Config {
	return Config{
		Chat: LLMConfig{
			Provider: "openai",
			Model:    "gpt-4o-mini",
		},
		EmbeddingDim: 1536,
	}
}
