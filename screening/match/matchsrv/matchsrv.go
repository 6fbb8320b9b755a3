package matchsrv

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Abraxas-365/sift/pkg/errx"
	"github.com/Abraxas-365/sift/pkg/kernel"
	"github.com/Abraxas-365/sift/pkg/logx"
	"github.com/Abraxas-365/sift/screening/candidate"
	"github.com/Abraxas-365/sift/screening/job"
	"github.com/Abraxas-365/sift/screening/match"
	"github.com/Abraxas-365/sift/screening/pipeline"
)

// MatchService runs the screening workflow across jobs and candidates
type MatchService struct {
	matchRepo     match.Repository
	jobRepo       job.Repository
	candidateRepo candidate.Repository
	queue         match.JobQueue
	pipe          *pipeline.Pipeline
}

// NewMatchService creates a new match service
func NewMatchService(
	matchRepo match.Repository,
	jobRepo job.Repository,
	candidateRepo candidate.Repository,
	queue match.JobQueue,
	pipe *pipeline.Pipeline,
) *MatchService {
	return &MatchService{
		matchRepo:     matchRepo,
		jobRepo:       jobRepo,
		candidateRepo: candidateRepo,
		queue:         queue,
		pipe:          pipe,
	}
}

// ============================================================================
// Matching
// ============================================================================

// MatchCandidate scores one candidate against one job. Matching is
// idempotent: an existing match for the pair is returned unchanged.
func (s *MatchService) MatchCandidate(ctx context.Context, jobID kernel.JobID, candidateID kernel.CandidateID) (*match.Match, error) {
	if existing, err := s.matchRepo.GetByJobAndCandidate(ctx, jobID, candidateID); err == nil {
		return existing, nil
	} else if !errx.IsType(err, errx.TypeNotFound) {
		return nil, err
	}

	posting, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	cand, err := s.candidateRepo.GetByID(ctx, candidateID)
	if err != nil {
		return nil, err
	}

	score := s.scoreCandidate(ctx, posting, cand)

	now := time.Now()
	m := &match.Match{
		ID:          kernel.NewMatchID(uuid.NewString()),
		JobID:       jobID,
		CandidateID: candidateID,
		MatchScore:  score,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.matchRepo.Create(ctx, m); err != nil {
		// Lost a race against a concurrent matching run for the same pair.
		if errx.IsType(err, errx.TypeConflict) {
			return s.matchRepo.GetByJobAndCandidate(ctx, jobID, candidateID)
		}
		return nil, err
	}

	logx.Infof("Matched candidate %s to job %s with score %.1f", candidateID, jobID, score)
	return m, nil
}

// MatchAllCandidates scores every stored candidate against a job. A failure
// on one candidate does not abort the run.
func (s *MatchService) MatchAllCandidates(ctx context.Context, jobID kernel.JobID) (*match.MatchAllResponse, error) {
	if _, err := s.jobRepo.GetByID(ctx, jobID); err != nil {
		return nil, err
	}

	resp := &match.MatchAllResponse{JobID: jobID}

	pagination := kernel.PaginationOptions{Page: 1, PageSize: 100}
	for {
		page, err := s.candidateRepo.List(ctx, pagination)
		if err != nil {
			return nil, err
		}

		for i := range page.Items {
			m, err := s.MatchCandidate(ctx, jobID, page.Items[i].ID)
			if err != nil {
				logx.Warnf("Failed to match candidate %s to job %s: %v", page.Items[i].ID, jobID, err)
				resp.Failed++
				continue
			}
			resp.Matched++
			resp.Matches = append(resp.Matches, *m)
		}

		if pagination.Page >= page.Page.Pages {
			break
		}
		pagination.Page++
	}

	return resp, nil
}

// MatchAllAsync queues a matching run over all candidates for a job.
func (s *MatchService) MatchAllAsync(ctx context.Context, jobID kernel.JobID) (*match.EnqueuedResponse, error) {
	if _, err := s.jobRepo.GetByID(ctx, jobID); err != nil {
		return nil, err
	}

	queueJob := &match.MatchingJob{
		ID:         uuid.NewString(),
		JobID:      jobID,
		EnqueuedAt: time.Now(),
	}

	if err := s.queue.Enqueue(ctx, queueJob); err != nil {
		return nil, match.ErrQueueFailed().
			WithDetail("job_id", string(jobID)).
			WithDetail("error", err.Error())
	}

	logx.Infof("Queued matching run %s for job %s", queueJob.ID, jobID)
	return &match.EnqueuedResponse{
		QueueJobID: queueJob.ID,
		JobID:      jobID,
		Status:     "queued",
	}, nil
}

// ProcessMatchingJob executes a dequeued matching run.
func (s *MatchService) ProcessMatchingJob(ctx context.Context, queueJob *match.MatchingJob) error {
	if queueJob.CandidateID.IsEmpty() {
		resp, err := s.MatchAllCandidates(ctx, queueJob.JobID)
		if err != nil {
			return err
		}
		logx.Infof("Matching run %s finished: %d matched, %d failed", queueJob.ID, resp.Matched, resp.Failed)
		return nil
	}

	_, err := s.MatchCandidate(ctx, queueJob.JobID, queueJob.CandidateID)
	return err
}

// ============================================================================
// Shortlisting and Scheduling
// ============================================================================

// ShortlistForJob recomputes the shortlist for a job from its stored
// matches and persists the new flags.
func (s *MatchService) ShortlistForJob(ctx context.Context, jobID kernel.JobID) ([]match.Match, error) {
	if _, err := s.jobRepo.GetByID(ctx, jobID); err != nil {
		return nil, err
	}

	matches, err := s.matchRepo.ListByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	matchByCandidate := make(map[kernel.CandidateID]kernel.MatchID, len(matches))
	scored := make([]*pipeline.ScoredCandidate, 0, len(matches))
	for i := range matches {
		matchByCandidate[matches[i].CandidateID] = matches[i].ID
		scored = append(scored, &pipeline.ScoredCandidate{
			ID:         matches[i].CandidateID,
			MatchScore: matches[i].MatchScore,
		})
	}

	shortlisted := s.pipe.ShortlistCandidates(scored)

	ids := make([]kernel.MatchID, 0, len(shortlisted))
	for _, c := range shortlisted {
		ids = append(ids, matchByCandidate[c.ID])
	}

	if err := s.matchRepo.SetShortlisted(ctx, jobID, ids); err != nil {
		return nil, err
	}

	logx.Infof("Shortlisted %d of %d candidates for job %s", len(ids), len(matches), jobID)
	return s.matchRepo.ListShortlistedByJob(ctx, jobID)
}

// ScheduleInterviews proposes interview slots for every shortlisted
// candidate without a scheduled interview and persists the first slot.
func (s *MatchService) ScheduleInterviews(ctx context.Context, jobID kernel.JobID) ([]match.InterviewProposalResponse, error) {
	posting, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	shortlisted, err := s.matchRepo.ListShortlistedByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if len(shortlisted) == 0 {
		return nil, match.ErrEmptyShortlist().WithDetail("job_id", string(jobID))
	}

	responses := make([]match.InterviewProposalResponse, 0, len(shortlisted))
	for i := range shortlisted {
		m := &shortlisted[i]
		if m.InterviewScheduled {
			continue
		}

		cand, err := s.candidateRepo.GetByID(ctx, m.CandidateID)
		if err != nil {
			logx.Warnf("Skipping interview for missing candidate %s: %v", m.CandidateID, err)
			continue
		}

		scored := &pipeline.ScoredCandidate{
			ID:            cand.ID,
			Name:          cand.Name,
			Email:         cand.Email,
			Attributes:    cand.Attributes(),
			MatchScore:    m.MatchScore,
			IsShortlisted: true,
		}

		proposals := s.pipe.ProposeInterviews(ctx, []*pipeline.ScoredCandidate{scored}, posting.Title.String())
		proposal := proposals[0]

		m.ScheduleInterview(proposal.Slots[0], proposal.Modality, proposal.Invitation)
		if err := s.matchRepo.Update(ctx, m.ID, m); err != nil {
			return nil, err
		}

		responses = append(responses, match.InterviewProposalResponse{
			CandidateID:    cand.ID,
			CandidateName:  cand.Name,
			CandidateEmail: cand.Email,
			InterviewDate:  proposal.Slots[0],
			ProposedSlots:  pipeline.FormatSlots(proposal.Slots),
			Format:         proposal.Modality,
			Invitation:     proposal.Invitation,
		})
	}

	logx.Infof("Scheduled %d interviews for job %s", len(responses), jobID)
	return responses, nil
}

// ============================================================================
// Queries
// ============================================================================

// GetJobWithCandidates returns a job posting with its scored candidates.
func (s *MatchService) GetJobWithCandidates(ctx context.Context, jobID kernel.JobID) (*match.JobWithCandidatesResponse, error) {
	posting, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	matches, err := s.matchRepo.ListByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	candidates := make([]match.JobCandidate, 0, len(matches))
	for i := range matches {
		m := &matches[i]
		entry := match.JobCandidate{
			CandidateID:        m.CandidateID,
			MatchScore:         m.MatchScore,
			IsShortlisted:      m.IsShortlisted,
			InterviewScheduled: m.InterviewScheduled,
			InterviewDate:      m.InterviewDate,
			InterviewFormat:    m.InterviewFormat,
		}

		cand, err := s.candidateRepo.GetByID(ctx, m.CandidateID)
		if err == nil {
			entry.Name = cand.Name
			entry.Email = cand.Email
			entry.Skills = cand.Skills
		}

		candidates = append(candidates, entry)
	}

	return &match.JobWithCandidatesResponse{
		Job: job.JobResponse{
			ID:                     posting.ID,
			Title:                  posting.Title,
			Company:                posting.Company,
			Description:            posting.Description,
			RequiredSkills:         posting.RequiredSkills,
			RequiredExperience:     posting.RequiredExperience,
			RequiredQualifications: posting.RequiredQualifications,
			Responsibilities:       posting.Responsibilities,
			Summary:                posting.Summary,
			CreatedAt:              posting.CreatedAt,
			UpdatedAt:              posting.UpdatedAt,
		},
		Candidates: candidates,
	}, nil
}

// GetMatchStats returns aggregate statistics for a job's matches.
func (s *MatchService) GetMatchStats(ctx context.Context, jobID kernel.JobID) (*match.MatchStats, error) {
	if _, err := s.jobRepo.GetByID(ctx, jobID); err != nil {
		return nil, err
	}
	return s.matchRepo.Stats(ctx, jobID)
}

// scoreCandidate scores a candidate against a job, reusing stored resume
// attributes when extraction already ran.
func (s *MatchService) scoreCandidate(ctx context.Context, posting *job.JobPosting, cand *candidate.Candidate) float64 {
	jobAttrs := posting.Requirements()
	if !posting.HasExtraction() {
		jobAttrs, _ = s.pipe.ExtractJob(ctx, posting.Description.String())
	}

	if cand.HasAttributes() {
		return s.pipe.ScoreAttributes(ctx, cand.Attributes(), jobAttrs)
	}

	scored := s.pipe.ScoreCandidate(ctx, pipeline.CandidateInput{
		ID:         cand.ID,
		Name:       cand.Name,
		Email:      cand.Email,
		ResumeText: cand.ResumeText.String(),
	}, jobAttrs)
	return scored.MatchScore
}
