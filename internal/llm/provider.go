// Package llm talks to the language model that reads chat queries and, when
// the keyword rules cannot decide, judges a claim against a title's evidence.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/factchecker/cinecheck/internal/config"
)

// CompletionOptions tunes a single model call. A zero Model means the
// backend's configured model.
type CompletionOptions struct {
	MaxTokens   int
	Temperature float64
	Model       string
	// JSON asks the backend to constrain the reply to one JSON object.
	JSON bool
}

// ReadingOptions are used to read a chat query into an intent and a title.
// The reply is a small JSON object, so the budget is tight.
func ReadingOptions() CompletionOptions {
	return CompletionOptions{MaxTokens: 512, JSON: true}
}

// VerdictOptions are used when the claim oracle asks for a TRUE, FALSE or
// UNKNOWN verdict with a short explanation citing the evidence digest.
func VerdictOptions() CompletionOptions {
	return CompletionOptions{MaxTokens: 512, JSON: true}
}

// Provider is a model backend. Every call is deterministic (temperature 0
// unless overridden) so the same claim and evidence read the same way twice.
type Provider interface {
	// Complete sends a bare prompt with no instructions.
	Complete(ctx context.Context, prompt string, opts CompletionOptions) (string, error)

	// CompleteWithSystem sends the interpreter or oracle instructions as the
	// system message and the query or claim digest as the user message.
	CompleteWithSystem(ctx context.Context, system, user string, opts CompletionOptions) (string, error)

	// Name identifies the backend in oracle errors and logs.
	Name() string
}

// NewProvider returns the backend named by cfg.Provider: "openai" for the
// hosted chat API or "ollama" for a local model server.
func NewProvider(cfg *config.LLMConfig) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "openai":
		return NewOpenAIProvider(cfg)
	case "ollama":
		return NewOllamaProvider(cfg)
	default:
		return nil, fmt.Errorf("unsupported model backend %q (want openai or ollama)", cfg.Provider)
	}
}
