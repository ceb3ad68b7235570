// Package llm wraps the text-generation providers behind a single
// interface and centralises retry, rate limiting and prompt defaults.
package llm

import (
	"context"

	"github.com/wslanalytics/pressbox/internal/model"
)

// Provider defines the interface for text-generation backends.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// Generate produces article prose for the given request.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// IsAvailable checks if the provider is properly configured and
	// reachable.
	IsAvailable(ctx context.Context) bool
}

// GenerateRequest contains the input for one generation call.
type GenerateRequest struct {
	// System is the system prompt framing the assistant's role.
	System string

	// Prompt is the user prompt carrying the stat rows and instructions.
	Prompt string

	// Model overrides the configured model when non-empty.
	Model string

	// MaxTokens limits the response length; 0 means the configured value.
	MaxTokens int
}

// GenerateResponse contains the provider's output.
type GenerateResponse struct {
	// Text is the generated article body.
	Text string

	// Model is the model that produced the response.
	Model string

	// TokensUsed tracks token consumption where the provider reports it.
	TokensUsed int
}

// Config holds provider configuration.
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", "".
	Provider string

	// Model name (provider-specific).
	Model string

	// APIKey for OpenAI/Anthropic.
	APIKey string

	// BaseURL for custom endpoints (e.g. Ollama, proxied OpenAI).
	BaseURL string

	// Timeout for API requests, in seconds.
	Timeout int

	// MaxTokens for response generation.
	MaxTokens int

	// Temperature for sampling; article prose wants it low.
	Temperature float64

	// RatePerSec caps outgoing generation calls (shared by batch runs).
	RatePerSec float64
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider:    "openai",
		Model:       "gpt-4o-mini",
		Timeout:     30,
		MaxTokens:   1800,
		Temperature: 0.2,
		RatePerSec:  1,
	}
}

// ConfigFromModel converts the application-level LLM section into a
// provider config.
func ConfigFromModel(mc model.LLMConfig) Config {
	return Config{
		Provider:    mc.Provider,
		Model:       mc.Model,
		APIKey:      mc.APIKey,
		BaseURL:     mc.BaseURL,
		Timeout:     mc.Timeout,
		MaxTokens:   mc.MaxTokens,
		Temperature: mc.Temperature,
		RatePerSec:  mc.RatePerSec,
	}
}
