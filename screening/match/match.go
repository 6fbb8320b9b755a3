package match

import (
	"time"

	"github.com/Abraxas-365/sift/pkg/kernel"
)

// Match records how well a candidate fits a job posting, whether they made
// the shortlist, and any interview scheduled from it. One match exists per
// (job, candidate) pair.
type Match struct {
	ID                 kernel.MatchID     `db:"id" json:"id"`
	JobID              kernel.JobID       `db:"job_id" json:"job_id"`
	CandidateID        kernel.CandidateID `db:"candidate_id" json:"candidate_id"`
	MatchScore         float64            `db:"match_score" json:"match_score"`
	IsShortlisted      bool               `db:"is_shortlisted" json:"is_shortlisted"`
	InterviewScheduled bool               `db:"interview_scheduled" json:"interview_scheduled"`
	InterviewDate      *time.Time         `db:"interview_date" json:"interview_date,omitempty"`
	InterviewFormat    string             `db:"interview_format" json:"interview_format,omitempty"`
	InterviewEmail     string             `db:"interview_email" json:"interview_email,omitempty"`
	CreatedAt          time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time          `db:"updated_at" json:"updated_at"`
}

// ScheduleInterview records a confirmed interview slot on the match.
func (m *Match) ScheduleInterview(date time.Time, format, email string) {
	m.InterviewScheduled = true
	m.InterviewDate = &date
	m.InterviewFormat = format
	m.InterviewEmail = email
	m.UpdatedAt = time.Now()
}
