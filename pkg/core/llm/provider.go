// Package llm abstracts the language-model backend used for report
// narratives. The scoring pipeline works fully without one; a provider
// only adds prose on top of the computed figures.
package llm

import (
	"context"
)

// Provider is the interface for all LLM providers.
type Provider interface {
	GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error)
}
