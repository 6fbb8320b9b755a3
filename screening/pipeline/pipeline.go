package pipeline

import (
	"context"
	"math/rand"
	"time"

	"github.com/Abraxas-365/sift/pkg/kernel"
	"github.com/Abraxas-365/sift/pkg/logx"
)

// Config tunes the pipeline run.
type Config struct {
	// MaxShortlist caps how many candidates a run shortlists.
	MaxShortlist int
	// Threshold is the minimum score for the first shortlist pass.
	Threshold float64
	// CompanyName appears in invitation emails.
	CompanyName string
	// SlotsPerCandidate is how many interview slots each invitation offers.
	SlotsPerCandidate int
}

// DefaultConfig returns the standard pipeline tuning.
func DefaultConfig(companyName string) Config {
	return Config{
		MaxShortlist:      5,
		Threshold:         50.0,
		CompanyName:       companyName,
		SlotsPerCandidate: 3,
	}
}

// CandidateInput is a raw candidate entering a run.
type CandidateInput struct {
	ID         kernel.CandidateID
	Name       string
	Email      string
	ResumeText string
}

// InterviewProposal is the scheduling output for one shortlisted candidate.
type InterviewProposal struct {
	CandidateID    kernel.CandidateID `json:"candidate_id"`
	CandidateName  string             `json:"candidate_name"`
	CandidateEmail string             `json:"candidate_email"`
	Slots          []time.Time        `json:"slots"`
	Modality       string             `json:"modality"`
	Invitation     string             `json:"invitation"`
}

// Result holds everything a full run produces.
type Result struct {
	JobAttributes AttributeRecord     `json:"job_attributes"`
	Candidates    []*ScoredCandidate  `json:"candidates"`
	Shortlisted   []*ScoredCandidate  `json:"shortlisted"`
	Proposals     []InterviewProposal `json:"proposals"`
}

// Pipeline runs the full screening workflow: job attribute extraction,
// per-candidate scoring, shortlisting, and interview proposals. Every stage
// degrades instead of failing, so a run always produces a Result.
type Pipeline struct {
	extractor *Extractor
	scorer    *Scorer
	proposer  *Proposer
	cfg       Config
}

// New wires a pipeline over a single text generation port. One rand source
// is shared by the scorer jitter and the slot proposer.
func New(gen TextGenerator, rng *rand.Rand, cfg Config) *Pipeline {
	if cfg.MaxShortlist <= 0 {
		cfg.MaxShortlist = 5
	}
	if cfg.SlotsPerCandidate <= 0 {
		cfg.SlotsPerCandidate = 3
	}
	return &Pipeline{
		extractor: NewExtractor(gen),
		scorer:    NewScorer(gen, rng),
		proposer:  NewProposer(gen, rng),
		cfg:       cfg,
	}
}

// ExtractJob analyzes a job description.
func (p *Pipeline) ExtractJob(ctx context.Context, description string) (AttributeRecord, Outcome) {
	return p.extractor.Extract(ctx, description, SchemaJob)
}

// ExtractResume analyzes a resume.
func (p *Pipeline) ExtractResume(ctx context.Context, resumeText string) (AttributeRecord, Outcome) {
	return p.extractor.Extract(ctx, resumeText, SchemaResume)
}

// ScoreCandidate extracts resume attributes and scores them against the job
// requirements.
func (p *Pipeline) ScoreCandidate(ctx context.Context, in CandidateInput, jobAttrs AttributeRecord) *ScoredCandidate {
	attrs, _ := p.ExtractResume(ctx, in.ResumeText)
	score := p.scorer.Score(ctx, attrs, jobAttrs)
	return &ScoredCandidate{
		ID:         in.ID,
		Name:       in.Name,
		Email:      in.Email,
		Attributes: attrs,
		MatchScore: score,
	}
}

// ScoreAttributes scores already extracted resume attributes against the
// job requirements.
func (p *Pipeline) ScoreAttributes(ctx context.Context, attrs, jobAttrs AttributeRecord) float64 {
	return p.scorer.Score(ctx, attrs, jobAttrs)
}

// ShortlistCandidates applies the configured shortlist policy.
func (p *Pipeline) ShortlistCandidates(scored []*ScoredCandidate) []*ScoredCandidate {
	return Shortlist(scored, p.cfg.MaxShortlist, p.cfg.Threshold)
}

// ProposeInterviews builds an interview proposal per shortlisted candidate.
// A candidate whose invitation email cannot be generated still gets slots
// and a modality.
func (p *Pipeline) ProposeInterviews(ctx context.Context, shortlisted []*ScoredCandidate, jobTitle string) []InterviewProposal {
	proposals := make([]InterviewProposal, 0, len(shortlisted))
	for _, c := range shortlisted {
		slots := p.proposer.ProposeSlots(p.cfg.SlotsPerCandidate)
		proposals = append(proposals, InterviewProposal{
			CandidateID:    c.ID,
			CandidateName:  c.Name,
			CandidateEmail: c.Email,
			Slots:          slots,
			Modality:       p.proposer.PickModality(),
			Invitation:     p.proposer.ComposeInvitation(ctx, c, jobTitle, p.cfg.CompanyName, slots),
		})
	}
	return proposals
}

// Run executes the full workflow for one job and its candidates.
func (p *Pipeline) Run(ctx context.Context, jobTitle, jobDescription string, candidates []CandidateInput) *Result {
	logx.Infof("pipeline run: job %q, %d candidates", jobTitle, len(candidates))

	jobAttrs, _ := p.ExtractJob(ctx, jobDescription)

	scored := make([]*ScoredCandidate, 0, len(candidates))
	for _, in := range candidates {
		scored = append(scored, p.ScoreCandidate(ctx, in, jobAttrs))
	}

	shortlisted := Shortlist(scored, p.cfg.MaxShortlist, p.cfg.Threshold)
	proposals := p.ProposeInterviews(ctx, shortlisted, jobTitle)

	return &Result{
		JobAttributes: jobAttrs,
		Candidates:    scored,
		Shortlisted:   shortlisted,
		Proposals:     proposals,
	}
}
