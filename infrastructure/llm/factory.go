// ABOUTME: Text generator factory selecting the configured model provider
// ABOUTME: Credentials are passed in at construction, never read at call time

package llm

import (
	"fmt"
	"strings"

	apperrors "market-radar/core/errors"
	"market-radar/core/interfaces"
)

// Provider names accepted by New
const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Default models per provider
const (
	DefaultGeminiModel    = "gemini-2.5-flash"
	DefaultOpenAIModel    = "gpt-4o-mini"
	DefaultAnthropicModel = "claude-haiku-4-5"
)

// maxOutputTokens bounds a single fragment; the report is a few thousand words at most
const maxOutputTokens = 8192

// Settings describes which provider to build
type Settings struct {
	Provider string
	Model    string
	APIKey   string

	// BaseURL overrides the provider endpoint; used by tests
	BaseURL string
}

// New builds the text generator for the configured provider
func New(s Settings) (interfaces.TextGenerator, error) {
	provider := strings.ToLower(strings.TrimSpace(s.Provider))
	if s.APIKey == "" {
		return nil, &apperrors.ValidationError{
			Field:   strings.ToUpper(provider) + "_API_KEY",
			Message: "credential is required",
		}
	}

	model := s.Model
	if model == "" {
		model = DefaultModel(provider)
	}

	switch provider {
	case ProviderGemini:
		return NewGeminiClient(s.APIKey, model, s.BaseURL)
	case ProviderOpenAI:
		return NewOpenAIClient(s.APIKey, model, s.BaseURL), nil
	case ProviderAnthropic:
		return NewAnthropicClient(s.APIKey, model, s.BaseURL), nil
	default:
		return nil, &apperrors.ValidationError{
			Field:   "SYNTHESIS_PROVIDER",
			Message: fmt.Sprintf("unknown provider %q", s.Provider),
		}
	}
}

// DefaultModel returns the model used when none is configured
func DefaultModel(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return DefaultOpenAIModel
	case ProviderAnthropic:
		return DefaultAnthropicModel
	default:
		return DefaultGeminiModel
	}
}
