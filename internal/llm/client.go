// Package llm abstracts over language model providers used by the
// analysis, building, and scoring stages.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/marcus/resume-pilot/internal/config"
)

// Client is an abstraction over LLM providers.
type Client interface {
	// GenerateJSON sends a system and user prompt and returns the raw JSON
	// text produced by the model, with any markdown fences stripped.
	GenerateJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	// Model returns the configured model name.
	Model() string
	// Close releases any resources held by the client.
	Close() error
}

// Error represents a failure talking to an LLM provider.
type Error struct {
	Provider string
	Message  string
	Cause    error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NewClient creates an LLM client for the configured provider.
func NewClient(ctx context.Context, cfg *config.Config, apiKey string) (Client, error) {
	switch cfg.Provider {
	case "gemini":
		return NewGeminiClient(ctx, cfg, apiKey)
	case "openai":
		return NewOpenAIClient(cfg, apiKey)
	default:
		return NewOpenAIClient(cfg, apiKey)
	}
}

// cleanJSONBlock removes markdown code block wrappers from JSON.
func cleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
