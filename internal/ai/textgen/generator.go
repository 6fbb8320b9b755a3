package textgen

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// Generator produces chat completions through the OpenAI API.
type Generator struct {
	client *openai.Client
	model  openai.ChatModel
}

// NewGenerator creates a text generator with the given API key.
func NewGenerator(apiKey string) *Generator {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Generator{
		client: &client,
		model:  openai.ChatModelGPT4o,
	}
}

// NewGeneratorWithModel creates a text generator targeting a specific model.
func NewGeneratorWithModel(apiKey string, model openai.ChatModel) *Generator {
	g := NewGenerator(apiKey)
	g.model = model
	return g
}

// Generate sends a single-turn completion request and returns the raw
// assistant message. An empty systemPrompt omits the system message.
func (g *Generator) Generate(ctx context.Context, prompt, systemPrompt string, maxTokens int) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, openai.SystemMessage(systemPrompt))
	}
	messages = append(messages, openai.UserMessage(prompt))

	params := openai.ChatCompletionNewParams{
		Model:       g.model,
		Messages:    messages,
		Temperature: openai.Float(0.7),
	}
	if maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(maxTokens))
	}

	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
