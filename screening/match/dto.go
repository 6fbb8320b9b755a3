package match

import (
	"time"

	"github.com/Abraxas-365/sift/pkg/kernel"
	"github.com/Abraxas-365/sift/screening/job"
)

// MatchAllResponse - DTO for a synchronous match-all run
type MatchAllResponse struct {
	JobID   kernel.JobID `json:"job_id"`
	Matched int          `json:"matched"`
	Failed  int          `json:"failed"`
	Matches []Match      `json:"matches"`
}

// EnqueuedResponse - DTO returned when a matching run is queued
type EnqueuedResponse struct {
	QueueJobID string       `json:"queue_job_id"`
	JobID      kernel.JobID `json:"job_id"`
	Status     string       `json:"status"`
}

// JobCandidate - a candidate as seen from a job's match list
type JobCandidate struct {
	CandidateID        kernel.CandidateID `json:"candidate_id"`
	Name               string             `json:"name"`
	Email              string             `json:"email"`
	Skills             string             `json:"skills"`
	MatchScore         float64            `json:"match_score"`
	IsShortlisted      bool               `json:"is_shortlisted"`
	InterviewScheduled bool               `json:"interview_scheduled"`
	InterviewDate      *time.Time         `json:"interview_date,omitempty"`
	InterviewFormat    string             `json:"interview_format,omitempty"`
}

// JobWithCandidatesResponse - a job posting with its scored candidates
type JobWithCandidatesResponse struct {
	Job        job.JobResponse `json:"job"`
	Candidates []JobCandidate  `json:"candidates"`
}

// InterviewProposalResponse - scheduling outcome for one shortlisted candidate
type InterviewProposalResponse struct {
	CandidateID    kernel.CandidateID `json:"candidate_id"`
	CandidateName  string             `json:"candidate_name"`
	CandidateEmail string             `json:"candidate_email"`
	InterviewDate  time.Time          `json:"interview_date"`
	ProposedSlots  string             `json:"proposed_slots"`
	Format         string             `json:"format"`
	Invitation     string             `json:"invitation,omitempty"`
}

// MatchStats - aggregate match statistics for a job
type MatchStats struct {
	JobID               kernel.JobID `json:"job_id" db:"-"`
	TotalMatches        int          `json:"total_matches" db:"total_matches"`
	Shortlisted         int          `json:"shortlisted" db:"shortlisted"`
	InterviewsScheduled int          `json:"interviews_scheduled" db:"interviews_scheduled"`
	AverageScore        float64      `json:"average_score" db:"average_score"`
	HighestScore        float64      `json:"highest_score" db:"highest_score"`
}
