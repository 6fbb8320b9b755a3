package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticGenerator(response string, err error) GeneratorFunc {
	return func(ctx context.Context, prompt, systemPrompt string, maxTokens int) (string, error) {
		return response, err
	}
}

func TestExtractorDecodesJobAttributes(t *testing.T) {
	gen := staticGenerator(`{
		"required_skills": "Go, PostgreSQL",
		"required_experience": "5 years in backend development",
		"required_qualifications": "BSc Computer Science",
		"responsibilities": "design services, review code",
		"summary": "Senior backend role."
	}`, nil)

	rec, outcome := NewExtractor(gen).Extract(context.Background(), "some job text", SchemaJob)

	require.Equal(t, OutcomeDecoded, outcome)
	assert.Equal(t, "Go, PostgreSQL", rec["required_skills"])
	assert.Equal(t, "Senior backend role.", rec["summary"])
	assert.Len(t, rec, len(Fields(SchemaJob)))
}

func TestExtractorStripsCodeFence(t *testing.T) {
	gen := staticGenerator("```json\n{\"skills\": \"Go\", \"education\": \"\", \"experience\": \"\", \"certifications\": \"\"}\n```", nil)

	rec, outcome := NewExtractor(gen).Extract(context.Background(), "resume text", SchemaResume)

	require.Equal(t, OutcomeDecoded, outcome)
	assert.Equal(t, "Go", rec["skills"])
}

func TestExtractorIgnoresUnknownAndNonStringFields(t *testing.T) {
	gen := staticGenerator(`{"skills": "Go", "confidence": 0.9, "experience": 7}`, nil)

	rec, outcome := NewExtractor(gen).Extract(context.Background(), "resume text", SchemaResume)

	require.Equal(t, OutcomeDecoded, outcome)
	assert.Equal(t, "Go", rec["skills"])
	assert.Equal(t, "", rec["experience"])
	assert.NotContains(t, rec, "confidence")
	assert.Len(t, rec, len(Fields(SchemaResume)))
}

func TestExtractorMalformedOutputFallsBackToEmptyRecord(t *testing.T) {
	gen := staticGenerator("I could not produce JSON for this input.", nil)

	rec, outcome := NewExtractor(gen).Extract(context.Background(), "resume text", SchemaResume)

	require.Equal(t, OutcomeFallback, outcome)
	assert.Len(t, rec, len(Fields(SchemaResume)))
	for _, field := range Fields(SchemaResume) {
		assert.Equal(t, "", rec[field], "field %s", field)
	}
}

func TestExtractorGenerationErrorFallsBackToEmptyRecord(t *testing.T) {
	gen := staticGenerator("", errors.New("model unavailable"))

	rec, outcome := NewExtractor(gen).Extract(context.Background(), "job text", SchemaJob)

	require.Equal(t, OutcomeFallback, outcome)
	assert.Len(t, rec, len(Fields(SchemaJob)))
	for _, field := range Fields(SchemaJob) {
		assert.Equal(t, "", rec[field])
	}
}
