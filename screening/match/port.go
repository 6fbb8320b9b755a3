package match

import (
	"context"
	"time"

	"github.com/Abraxas-365/sift/pkg/kernel"
)

// Repository defines match persistence operations.
type Repository interface {
	Create(ctx context.Context, m *Match) error
	Update(ctx context.Context, id kernel.MatchID, m *Match) error
	GetByID(ctx context.Context, id kernel.MatchID) (*Match, error)
	GetByJobAndCandidate(ctx context.Context, jobID kernel.JobID, candidateID kernel.CandidateID) (*Match, error)
	Delete(ctx context.Context, id kernel.MatchID) error
	ListByJob(ctx context.Context, jobID kernel.JobID) ([]Match, error)
	ListShortlistedByJob(ctx context.Context, jobID kernel.JobID) ([]Match, error)

	// SetShortlisted replaces the shortlist for a job: every match for the
	// job is cleared, then the given matches are flagged.
	SetShortlisted(ctx context.Context, jobID kernel.JobID, ids []kernel.MatchID) error

	Stats(ctx context.Context, jobID kernel.JobID) (*MatchStats, error)
}

// MatchingJob is the queue payload for asynchronous matching runs.
type MatchingJob struct {
	ID          string             `json:"id"`
	JobID       kernel.JobID       `json:"job_id"`
	CandidateID kernel.CandidateID `json:"candidate_id,omitempty"` // empty means match all candidates
	EnqueuedAt  time.Time          `json:"enqueued_at"`
}

// JobQueue defines the async matching queue.
type JobQueue interface {
	Enqueue(ctx context.Context, job *MatchingJob) error
	EnqueueDelayed(ctx context.Context, job *MatchingJob, delay time.Duration) error
	Dequeue(ctx context.Context, timeout time.Duration) ([]byte, error)
	MoveDelayedToReady(ctx context.Context) (int, error)
	GetQueueSize(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}
