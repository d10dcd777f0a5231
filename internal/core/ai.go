package core

import "context"

// LLMProvider is the external generative capability used both to classify
// the language of a sample and to translate text.
type LLMProvider interface {
	Generate(ctx context.Context, systemPrompt string, userPrompt string) (string, error)
}
