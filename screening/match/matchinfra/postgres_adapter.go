package matchinfra

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Abraxas-365/sift/pkg/kernel"
	"github.com/Abraxas-365/sift/screening/match"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresMatchRepository implements match.Repository using PostgreSQL
type PostgresMatchRepository struct {
	db *sqlx.DB
}

// NewPostgresMatchRepository creates a new PostgreSQL match repository
func NewPostgresMatchRepository(db *sqlx.DB) *PostgresMatchRepository {
	return &PostgresMatchRepository{
		db: db,
	}
}

// ============================================================================
// Database Model
// ============================================================================

type matchModel struct {
	ID                 string       `db:"id"`
	JobID              string       `db:"job_id"`
	CandidateID        string       `db:"candidate_id"`
	MatchScore         float64      `db:"match_score"`
	IsShortlisted      bool         `db:"is_shortlisted"`
	InterviewScheduled bool         `db:"interview_scheduled"`
	InterviewDate      sql.NullTime `db:"interview_date"`
	InterviewFormat    string       `db:"interview_format"`
	InterviewEmail     string       `db:"interview_email"`
	CreatedAt          time.Time    `db:"created_at"`
	UpdatedAt          time.Time    `db:"updated_at"`
}

func (m *matchModel) toEntity() *match.Match {
	entity := &match.Match{
		ID:                 kernel.MatchID(m.ID),
		JobID:              kernel.JobID(m.JobID),
		CandidateID:        kernel.CandidateID(m.CandidateID),
		MatchScore:         m.MatchScore,
		IsShortlisted:      m.IsShortlisted,
		InterviewScheduled: m.InterviewScheduled,
		InterviewFormat:    m.InterviewFormat,
		InterviewEmail:     m.InterviewEmail,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
	if m.InterviewDate.Valid {
		date := m.InterviewDate.Time
		entity.InterviewDate = &date
	}
	return entity
}

func fromEntity(e *match.Match) *matchModel {
	model := &matchModel{
		ID:                 string(e.ID),
		JobID:              string(e.JobID),
		CandidateID:        string(e.CandidateID),
		MatchScore:         e.MatchScore,
		IsShortlisted:      e.IsShortlisted,
		InterviewScheduled: e.InterviewScheduled,
		InterviewFormat:    e.InterviewFormat,
		InterviewEmail:     e.InterviewEmail,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}
	if e.InterviewDate != nil {
		model.InterviewDate = sql.NullTime{Time: *e.InterviewDate, Valid: true}
	}
	return model
}

const matchColumns = `
	id, job_id, candidate_id, match_score, is_shortlisted,
	interview_scheduled, interview_date, interview_format, interview_email,
	created_at, updated_at
`

// ============================================================================
// Repository Implementation
// ============================================================================

// Create creates a new match
func (r *PostgresMatchRepository) Create(ctx context.Context, m *match.Match) error {
	model := fromEntity(m)

	query := `
		INSERT INTO matches (
			id, job_id, candidate_id, match_score, is_shortlisted,
			interview_scheduled, interview_date, interview_format, interview_email,
			created_at, updated_at
		) VALUES (
			:id, :job_id, :candidate_id, :match_score, :is_shortlisted,
			:interview_scheduled, :interview_date, :interview_format, :interview_email,
			:created_at, :updated_at
		)
	`

	_, err := r.db.NamedExecContext(ctx, query, model)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" { // unique_violation
			return match.ErrMatchAlreadyExists().
				WithDetail("job_id", string(m.JobID)).
				WithDetail("candidate_id", string(m.CandidateID))
		}
		return fmt.Errorf("failed to create match: %w", err)
	}

	return nil
}

// Update updates an existing match
func (r *PostgresMatchRepository) Update(ctx context.Context, id kernel.MatchID, m *match.Match) error {
	model := fromEntity(m)
	model.ID = string(id)

	query := `
		UPDATE matches SET
			match_score = :match_score,
			is_shortlisted = :is_shortlisted,
			interview_scheduled = :interview_scheduled,
			interview_date = :interview_date,
			interview_format = :interview_format,
			interview_email = :interview_email,
			updated_at = :updated_at
		WHERE id = :id
	`

	result, err := r.db.NamedExecContext(ctx, query, model)
	if err != nil {
		return fmt.Errorf("failed to update match: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return match.ErrMatchNotFound()
	}

	return nil
}

// GetByID retrieves a match by ID
func (r *PostgresMatchRepository) GetByID(ctx context.Context, id kernel.MatchID) (*match.Match, error) {
	query := fmt.Sprintf(`SELECT %s FROM matches WHERE id = $1`, matchColumns)

	var model matchModel
	err := r.db.GetContext(ctx, &model, query, string(id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, match.ErrMatchNotFound()
		}
		return nil, fmt.Errorf("failed to get match by id: %w", err)
	}

	return model.toEntity(), nil
}

// GetByJobAndCandidate retrieves the match for a (job, candidate) pair
func (r *PostgresMatchRepository) GetByJobAndCandidate(ctx context.Context, jobID kernel.JobID, candidateID kernel.CandidateID) (*match.Match, error) {
	query := fmt.Sprintf(`SELECT %s FROM matches WHERE job_id = $1 AND candidate_id = $2`, matchColumns)

	var model matchModel
	err := r.db.GetContext(ctx, &model, query, string(jobID), string(candidateID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, match.ErrMatchNotFound().
				WithDetail("job_id", string(jobID)).
				WithDetail("candidate_id", string(candidateID))
		}
		return nil, fmt.Errorf("failed to get match by job and candidate: %w", err)
	}

	return model.toEntity(), nil
}

// Delete deletes a match by ID
func (r *PostgresMatchRepository) Delete(ctx context.Context, id kernel.MatchID) error {
	query := `DELETE FROM matches WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, string(id))
	if err != nil {
		return fmt.Errorf("failed to delete match: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return match.ErrMatchNotFound()
	}

	return nil
}

// ListByJob retrieves all matches for a job ordered by score descending
func (r *PostgresMatchRepository) ListByJob(ctx context.Context, jobID kernel.JobID) ([]match.Match, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM matches
		WHERE job_id = $1
		ORDER BY match_score DESC
	`, matchColumns)

	var models []matchModel
	err := r.db.SelectContext(ctx, &models, query, string(jobID))
	if err != nil {
		return nil, fmt.Errorf("failed to list matches by job: %w", err)
	}

	matches := make([]match.Match, 0, len(models))
	for _, model := range models {
		matches = append(matches, *model.toEntity())
	}

	return matches, nil
}

// ListShortlistedByJob retrieves the shortlisted matches for a job
func (r *PostgresMatchRepository) ListShortlistedByJob(ctx context.Context, jobID kernel.JobID) ([]match.Match, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM matches
		WHERE job_id = $1 AND is_shortlisted = true
		ORDER BY match_score DESC
	`, matchColumns)

	var models []matchModel
	err := r.db.SelectContext(ctx, &models, query, string(jobID))
	if err != nil {
		return nil, fmt.Errorf("failed to list shortlisted matches: %w", err)
	}

	matches := make([]match.Match, 0, len(models))
	for _, model := range models {
		matches = append(matches, *model.toEntity())
	}

	return matches, nil
}

// SetShortlisted replaces the shortlist for a job in one transaction
func (r *PostgresMatchRepository) SetShortlisted(ctx context.Context, jobID kernel.JobID, ids []kernel.MatchID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin shortlist transaction: %w", err)
	}
	defer tx.Rollback()

	clearQuery := `UPDATE matches SET is_shortlisted = false, updated_at = NOW() WHERE job_id = $1`
	if _, err := tx.ExecContext(ctx, clearQuery, string(jobID)); err != nil {
		return fmt.Errorf("failed to clear shortlist: %w", err)
	}

	if len(ids) > 0 {
		idStrings := make([]string, len(ids))
		for i, id := range ids {
			idStrings[i] = string(id)
		}

		setQuery := `UPDATE matches SET is_shortlisted = true, updated_at = NOW() WHERE id = ANY($1)`
		if _, err := tx.ExecContext(ctx, setQuery, pq.Array(idStrings)); err != nil {
			return fmt.Errorf("failed to set shortlist: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit shortlist transaction: %w", err)
	}

	return nil
}

// Stats returns aggregate match statistics for a job
func (r *PostgresMatchRepository) Stats(ctx context.Context, jobID kernel.JobID) (*match.MatchStats, error) {
	query := `
		SELECT
			COUNT(*) AS total_matches,
			COUNT(*) FILTER (WHERE is_shortlisted) AS shortlisted,
			COUNT(*) FILTER (WHERE interview_scheduled) AS interviews_scheduled,
			COALESCE(AVG(match_score), 0) AS average_score,
			COALESCE(MAX(match_score), 0) AS highest_score
		FROM matches
		WHERE job_id = $1
	`

	var stats match.MatchStats
	err := r.db.GetContext(ctx, &stats, query, string(jobID))
	if err != nil {
		return nil, fmt.Errorf("failed to get match stats: %w", err)
	}

	stats.JobID = jobID
	return &stats, nil
}
