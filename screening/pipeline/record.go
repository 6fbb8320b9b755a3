package pipeline

import "github.com/Abraxas-365/sift/pkg/kernel"

// SchemaKind selects which field set an extraction targets.
type SchemaKind string

const (
	SchemaJob    SchemaKind = "job"
	SchemaResume SchemaKind = "resume"
)

// Field names recognized per schema kind. Every extraction result carries
// exactly these keys; consumers can index without existence checks.
var (
	jobFields = []string{
		"required_skills",
		"required_experience",
		"required_qualifications",
		"responsibilities",
		"summary",
	}
	resumeFields = []string{
		"education",
		"experience",
		"skills",
		"certifications",
	}
)

// AttributeRecord maps recognized field names to free-text values extracted
// from a job description or a resume. Records are created complete (no
// missing keys) and are not mutated after creation.
type AttributeRecord map[string]string

// Fields returns the recognized field names for a schema kind.
func Fields(kind SchemaKind) []string {
	if kind == SchemaJob {
		return jobFields
	}
	return resumeFields
}

// EmptyRecord returns a record with every recognized field set to "".
func EmptyRecord(kind SchemaKind) AttributeRecord {
	fields := Fields(kind)
	rec := make(AttributeRecord, len(fields))
	for _, f := range fields {
		rec[f] = ""
	}
	return rec
}

// ScoredCandidate is a candidate flowing through the matching pipeline:
// extraction output enriched first with a score, then with the shortlist
// flag. The flag is set at most once per run and never unset.
type ScoredCandidate struct {
	ID            kernel.CandidateID `json:"id"`
	Name          string             `json:"name"`
	Email         string             `json:"email"`
	Attributes    AttributeRecord    `json:"attributes"`
	MatchScore    float64            `json:"match_score"`
	IsShortlisted bool               `json:"is_shortlisted"`
}
