package pipeline

import "context"

// TextGenerator is the port to the language model. Implementations are
// expected to be safe for concurrent use; an empty response or a non-nil
// error both count as a generation failure for the components in this
// package, which recover with their own fallback values.
type TextGenerator interface {
	Generate(ctx context.Context, prompt, systemPrompt string, maxTokens int) (string, error)
}

// GeneratorFunc adapts a function to the TextGenerator interface.
type GeneratorFunc func(ctx context.Context, prompt, systemPrompt string, maxTokens int) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt, systemPrompt string, maxTokens int) (string, error) {
	return f(ctx, prompt, systemPrompt, maxTokens)
}
