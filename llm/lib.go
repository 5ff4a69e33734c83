package llm

import (
	"fmt"

	"github.com/SchmitzHorst/ai-agent-service/logger"
)

const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"

	// DefaultModel is the fixed model identifier used for code generation.
	DefaultModel = "claude-sonnet-4-20250514"

	// DefaultMaxTokens caps the completion length of a single request.
	DefaultMaxTokens = 4096
)

type LlmConfig struct {
	Provider  string
	APIKey    string
	ModelName string
	MaxTokens int
	System    string
	BaseURL   string
	BatchID   string
	TellmURL  string
}

// NewClient creates an LLM client for the configured provider.
func NewClient(cfg *LlmConfig, l logger.Logger) (LlmClient, error) {
	if cfg.ModelName == "" {
		cfg.ModelName = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	switch cfg.Provider {
	case ProviderAnthropic, "":
		return NewAnthropicClient(cfg, l)
	case ProviderOpenAI:
		return NewOpenAIClient(cfg, l)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", cfg.Provider)
	}
}
