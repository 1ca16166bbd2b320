// Package llm wraps the hosted language models used for optional plan tips.
package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/remendec/Dozo-diet-planner-2.0/internal/config"
	"github.com/remendec/Dozo-diet-planner-2.0/internal/shared"
)

// ErrNotConfigured is returned when no provider API key is set.
var ErrNotConfigured = errors.New("no LLM provider configured")

// ContentResponse contains the generated text and metadata like token usage.
type ContentResponse struct {
	Content string
	Usage   shared.TokenUsage
}

// TextGenerator is an interface for generating text from a prompt.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (ContentResponse, error)
}

// Closer is an interface for closing resources.
type Closer interface {
	Close() error
}

// NewFromConfig picks Groq when GROQ_API_KEY is set and Gemini otherwise.
// It returns ErrNotConfigured when neither key is present.
func NewFromConfig(ctx context.Context, cfg *config.Config) (TextGenerator, error) {
	switch {
	case cfg.GroqAPIKey != "":
		return NewGroqClient(cfg.GroqAPIKey, DefaultGroqModel, 0.3), nil
	case cfg.GeminiAPIKey != "":
		client, err := NewGeminiClient(ctx, cfg.GeminiAPIKey, DefaultGeminiModel)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		return client, nil
	}
	return nil, ErrNotConfigured
}
