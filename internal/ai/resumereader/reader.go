package resumereader

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared/constant"
)

// Reader transcribes resume page images into plain text using OpenAI Vision.
type Reader struct {
	client *openai.Client
}

// NewReader creates a new resume reader.
func NewReader(apiKey string) *Reader {
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
	)

	return &Reader{
		client: &client,
	}
}

const transcribeSystemPrompt = `You are a precise OCR engine for resumes. Transcribe ALL visible text from the resume images into plain text, preserving section headings and reading order. Return ONLY the transcribed text, no commentary.`

// ReadPages transcribes one or more resume page images into a single plain
// text document. Pages are sent together so the model keeps reading order
// across page boundaries.
func (r *Reader) ReadPages(ctx context.Context, pages [][]byte) (string, error) {
	if len(pages) == 0 {
		return "", errors.New("no pages provided")
	}

	contentParts := []openai.ChatCompletionContentPartUnionParam{
		{
			OfText: &openai.ChatCompletionContentPartTextParam{
				Type: constant.Text("text"),
				Text: "Transcribe this resume into plain text:",
			},
		},
	}

	for i, pageData := range pages {
		base64Image := base64.StdEncoding.EncodeToString(pageData)
		dataURL := fmt.Sprintf("data:image/jpeg;base64,%s", base64Image)

		contentParts = append(contentParts, openai.ChatCompletionContentPartUnionParam{
			OfImageURL: &openai.ChatCompletionContentPartImageParam{
				Type: constant.ImageURL("image_url"),
				ImageURL: openai.ChatCompletionContentPartImageImageURLParam{
					URL:    dataURL,
					Detail: "high", // High detail for better OCR
				},
			},
		})

		if i < len(pages)-1 {
			contentParts = append(contentParts, openai.ChatCompletionContentPartUnionParam{
				OfText: &openai.ChatCompletionContentPartTextParam{
					Type: constant.Text("text"),
					Text: fmt.Sprintf("--- Page %d ends, Page %d begins ---", i+1, i+2),
				},
			})
		}
	}

	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(transcribeSystemPrompt),
		{
			OfUser: &openai.ChatCompletionUserMessageParam{
				Content: openai.ChatCompletionUserMessageParamContentUnion{
					OfArrayOfContentParts: contentParts,
				},
			},
		},
	}

	completion, err := r.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages:    messages,
		Model:       "gpt-4o",
		Temperature: openai.Float(0.1),
		MaxTokens:   openai.Int(6000),
	})

	if err != nil {
		return "", fmt.Errorf("openai vision api error: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", errors.New("no response from openai")
	}

	text := strings.TrimSpace(completion.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("empty transcription")
	}

	return text, nil
}
