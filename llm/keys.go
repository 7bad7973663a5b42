package llm

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// keyFile is the local fallback for API keys, relative to the working
// directory. It maps provider name to key, e.g. {"openai_api_key": "sk-..."}.
const keyFile = "config/api_keys.json"

// providerKeyEnv maps a provider to its conventional environment variable.
var providerKeyEnv = map[string]string{
	"openai":     "OPENAI_API_KEY",
	"openrouter": "OPENROUTER_API_KEY",
}

// providerKeyField maps a provider to its field in the local key file.
var providerKeyFields = map[string]string{
	"openai":     "openai_api_key",
	"openrouter": "openrouter_api_key",
}

// ResolveAPIKey resolves the key for cfg's provider with a fixed precedence:
// an explicitly configured key, then the provider's environment variable,
// then the local key file. Providers without keys (ollama, custom local
// endpoints) resolve to the empty string.
func ResolveAPIKey(cfg Config) string {
	if cfg.APIKey != "" {
		return cfg.APIKey
	}
	if env, ok := providerKeyEnv[cfg.Provider]; ok {
		if v := os.Getenv(env); v != "" {
			return v
		}
	}
	if field, ok := providerKeyFields[cfg.Provider]; ok {
		if v := readKeyFile(field); v != "" {
			return v
		}
	}
	return ""
}

func readKeyFile(field string) string {
	data, err := os.ReadFile(filepath.Clean(keyFile))
	if err != nil {
		return ""
	}
	var keys map[string]string
	if err := json.Unmarshal(data, &keys); err != nil {
		return ""
	}
	return keys[field]
}
