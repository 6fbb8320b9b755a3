package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Abraxas-365/sift/pkg/logx"
)

// Outcome tags how an extraction result was produced.
type Outcome string

const (
	OutcomeDecoded  Outcome = "decoded"
	OutcomeFallback Outcome = "fallback"
)

const jobSystemPrompt = `You are a job description analyzer. Extract the following information from the job description:
1. Required skills
2. Required experience (in years, if mentioned)
3. Required qualifications (degrees, certifications)
4. Key job responsibilities
5. A brief summary of the role (2-3 sentences)

Format your response as JSON with the following structure:
{
    "required_skills": "skill1, skill2, skill3, ...",
    "required_experience": "X years in...",
    "required_qualifications": "degree1, certification1, ...",
    "responsibilities": "responsibility1, responsibility2, ...",
    "summary": "Brief summary of the role"
}
Return ONLY the JSON, no explanatory text.`

const resumeSystemPrompt = `You are a resume analyzer. Extract the following information from the resume:
1. Education history (degrees, institutions, years)
2. Work experience (positions, companies, years, responsibilities)
3. Skills (technical skills, soft skills)
4. Certifications and qualifications

Format your response as JSON with the following structure:
{
    "education": "education details...",
    "experience": "experience details...",
    "skills": "skill1, skill2, skill3, ...",
    "certifications": "certification1, certification2, ..."
}
Return ONLY the JSON, no explanatory text.`

// Extractor turns free-form job or resume text into an AttributeRecord via
// the text generation port. It never fails: any generation or decode problem
// yields the all-empty record for the schema kind, tagged OutcomeFallback.
type Extractor struct {
	gen TextGenerator
}

// NewExtractor creates an extractor bound to a text generator.
func NewExtractor(gen TextGenerator) *Extractor {
	return &Extractor{gen: gen}
}

// Extract analyzes text according to the schema kind. The returned record
// always contains every recognized field for the kind. No retry is performed
// on generation failure.
func (e *Extractor) Extract(ctx context.Context, text string, kind SchemaKind) (AttributeRecord, Outcome) {
	var systemPrompt, noun string
	switch kind {
	case SchemaJob:
		systemPrompt, noun = jobSystemPrompt, "job description"
	default:
		systemPrompt, noun = resumeSystemPrompt, "resume"
	}

	prompt := fmt.Sprintf("Analyze this %s and extract key information:\n\n%s", noun, text)

	raw, err := e.gen.Generate(ctx, prompt, systemPrompt, 1000)
	if err != nil {
		logx.Warnf("attribute extraction generation failed (%s): %v", kind, err)
		return EmptyRecord(kind), OutcomeFallback
	}

	rec, ok := decodeRecord(raw, kind)
	if !ok {
		logx.Warnf("attribute extraction decode failed (%s), using empty record", kind)
		return EmptyRecord(kind), OutcomeFallback
	}
	return rec, OutcomeDecoded
}

// decodeRecord parses model output into a complete record. Unrecognized keys
// are dropped, missing or non-string values become "".
func decodeRecord(raw string, kind SchemaKind) (AttributeRecord, bool) {
	cleaned := stripCodeFence(raw)
	if cleaned == "" {
		return nil, false
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, false
	}

	rec := EmptyRecord(kind)
	for _, field := range Fields(kind) {
		if v, ok := parsed[field].(string); ok {
			rec[field] = v
		}
	}
	return rec, true
}

// stripCodeFence removes a surrounding markdown code fence, which chat models
// frequently wrap JSON in despite instructions.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
