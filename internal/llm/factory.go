package llm

import (
	"fmt"
	"strings"
)

// NewProvider creates an LLM provider based on configuration. An empty
// provider name returns nil (generation disabled, file-mode tools can
// still run the verifier against supplied bodies).
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)

	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, anthropic, ollama)", config.Provider)
	}
}
