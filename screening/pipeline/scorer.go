package pipeline

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"strings"

	"github.com/Abraxas-365/sift/pkg/logx"
)

const scoringSystemPrompt = `You are a recruiting expert. Calculate a match score (0-100) between a candidate and a job description.
Consider:
1. Skills match (50% weight)
2. Experience match (30% weight)
3. Education/qualifications match (20% weight)

Return only a numeric score between 0 and 100.`

var numberPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

// Tokens this short or in this set carry no matching signal.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "with": {},
	"by": {}, "of": {},
}

// Scorer computes a 0-100 compatibility score between candidate and job
// attribute records. The model path is tried first; a layered fallback chain
// guarantees a score even under total model unavailability:
//
//  1. first decimal number in the model response, clamped to [0,100]
//  2. keyword-overlap blend across skills/experience/education, clamped to [30,90]
//  3. presence heuristic with random jitter, clamped to [30,90]
//
// A generation error counts as an empty response, so it lands in tier 2 like
// any reply without a number. Tiers 1-2 are deterministic for identical
// inputs. Tier 3 runs only when neither record carries any attribute text,
// leaving the overlap tier nothing to measure.
type Scorer struct {
	gen TextGenerator
	rng *rand.Rand
}

// NewScorer creates a scorer. The rand source is explicit so tests can seed
// the tier-3 jitter.
func NewScorer(gen TextGenerator, rng *rand.Rand) *Scorer {
	return &Scorer{gen: gen, rng: rng}
}

// Score returns a match score in [0,100]. It never fails.
func (s *Scorer) Score(ctx context.Context, candidate, requirements AttributeRecord) float64 {
	prompt := fmt.Sprintf(`JOB REQUIREMENTS:
Skills: %s
Experience: %s
Qualifications: %s

CANDIDATE PROFILE:
Skills: %s
Experience: %s
Education: %s
Certifications: %s

Calculate match score (0-100):`,
		requirements["required_skills"],
		requirements["required_experience"],
		requirements["required_qualifications"],
		candidate["skills"],
		candidate["experience"],
		candidate["education"],
		candidate["certifications"],
	)

	raw, err := s.gen.Generate(ctx, prompt, scoringSystemPrompt, 1000)
	if err != nil {
		logx.Warnf("score generation failed, treating response as empty: %v", err)
		raw = ""
	}

	if match := numberPattern.FindString(raw); match != "" {
		if score, err := strconv.ParseFloat(match, 64); err == nil {
			return clamp(score, 0, 100)
		}
	}

	if !hasOverlapText(candidate, requirements) {
		logx.Debugf("no attribute text to overlap, using presence heuristic")
		return s.heuristicScore(candidate, requirements)
	}

	logx.Debugf("no numeric score in model response, using keyword overlap")
	return keywordOverlapScore(candidate, requirements)
}

// hasOverlapText reports whether either record carries any of the fields the
// keyword-overlap tier reads.
func hasOverlapText(candidate, requirements AttributeRecord) bool {
	for _, v := range []string{
		requirements["required_skills"],
		requirements["required_experience"],
		requirements["required_qualifications"],
		candidate["skills"],
		candidate["experience"],
		candidate["education"],
		candidate["certifications"],
	} {
		if v != "" {
			return true
		}
	}
	return false
}

// keywordOverlapScore blends per-dimension keyword match ratios with the
// 50/30/20 weights and scales to the 30-90 band.
func keywordOverlapScore(candidate, requirements AttributeRecord) float64 {
	skills := keywordMatch(requirements["required_skills"], candidate["skills"])
	experience := keywordMatch(requirements["required_experience"], candidate["experience"])
	education := keywordMatch(
		requirements["required_qualifications"],
		candidate["education"]+" "+candidate["certifications"],
	)

	weighted := skills*0.5 + experience*0.3 + education*0.2
	return clamp(weighted*100, 30, 90)
}

// keywordMatch computes the ratio of required tokens that appear as a
// substring of some candidate token. Empty inputs fall back to fixed
// baselines; the ratio is floored at 0.3.
func keywordMatch(required, provided string) float64 {
	if required == "" || provided == "" {
		return 0.3
	}

	requiredTokens := keywords(strings.ToLower(required))
	providedTokens := keywords(strings.ToLower(provided))

	if len(requiredTokens) == 0 {
		return 0.5
	}

	matches := 0
	for _, want := range requiredTokens {
		for _, have := range providedTokens {
			if strings.Contains(have, want) {
				matches++
				break
			}
		}
	}

	ratio := float64(matches) / float64(len(requiredTokens))
	if ratio < 0.3 {
		return 0.3
	}
	return ratio
}

// keywords tokenizes by whitespace and drops stop words and short tokens.
func keywords(text string) []string {
	var out []string
	for _, word := range strings.Fields(text) {
		if len(word) <= 2 {
			continue
		}
		if _, stop := stopWords[word]; stop {
			continue
		}
		out = append(out, word)
	}
	return out
}

// heuristicScore is the last-resort tier for attribute-less records: base 40
// plus presence bonuses and random jitter so simultaneous fallbacks don't all
// land on one value.
func (s *Scorer) heuristicScore(candidate, requirements AttributeRecord) float64 {
	score := 40.0
	if requirements["required_skills"] != "" && candidate["skills"] != "" {
		score += 20
	}
	if requirements["required_experience"] != "" && candidate["experience"] != "" {
		score += 15
	}
	if requirements["required_qualifications"] != "" && candidate["education"] != "" {
		score += 10
	}

	// Uniform integer jitter in [-5,15].
	score += float64(s.rng.Intn(21) - 5)

	return clamp(score, 30, 90)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
