package candidateinfra

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Abraxas-365/sift/pkg/kernel"
	"github.com/Abraxas-365/sift/screening/candidate"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

// PostgresCandidateRepository implements candidate.Repository using
// PostgreSQL with the pgvector extension.
type PostgresCandidateRepository struct {
	db *sqlx.DB
}

// NewPostgresCandidateRepository creates a new PostgreSQL candidate repository
func NewPostgresCandidateRepository(db *sqlx.DB) *PostgresCandidateRepository {
	return &PostgresCandidateRepository{
		db: db,
	}
}

// ============================================================================
// Database Model
// ============================================================================

type candidateModel struct {
	ID             string         `db:"id"`
	Name           string         `db:"name"`
	Email          string         `db:"email"`
	Education      string         `db:"education"`
	Experience     string         `db:"experience"`
	Skills         string         `db:"skills"`
	Certifications string         `db:"certifications"`
	ResumeText     string         `db:"resume_text"`
	ResumePath     string         `db:"resume_path"`
	Embedding      sql.NullString `db:"embedding"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

func (m *candidateModel) toEntity() *candidate.Candidate {
	return &candidate.Candidate{
		ID:             kernel.CandidateID(m.ID),
		Name:           m.Name,
		Email:          m.Email,
		Education:      m.Education,
		Experience:     m.Experience,
		Skills:         m.Skills,
		Certifications: m.Certifications,
		ResumeText:     kernel.ResumeText(m.ResumeText),
		ResumePath:     m.ResumePath,
		Embedding:      vectorTextToFloat32Slice(m.Embedding),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

const candidateColumns = `
	id, name, email, education, experience, skills, certifications,
	resume_text, resume_path, embedding::text, created_at, updated_at
`

// ============================================================================
// pgvector Conversion Helpers
// ============================================================================

// float32SliceToVectorOrNil converts an embedding to a pgvector value,
// keeping the column NULL when no embedding exists.
func float32SliceToVectorOrNil(slice []float32) interface{} {
	if len(slice) == 0 {
		return nil
	}
	return pgvector.NewVector(slice)
}

// vectorTextToFloat32Slice parses the ::text form of a vector column.
func vectorTextToFloat32Slice(s sql.NullString) []float32 {
	if !s.Valid || s.String == "" || s.String == "[]" {
		return nil
	}
	var vec pgvector.Vector
	if err := vec.Scan(s.String); err != nil {
		return nil
	}
	return vec.Slice()
}

// ============================================================================
// Repository Implementation
// ============================================================================

// Create creates a new candidate
func (r *PostgresCandidateRepository) Create(ctx context.Context, c *candidate.Candidate) error {
	query := `
		INSERT INTO candidates (
			id, name, email, education, experience, skills, certifications,
			resume_text, resume_path, embedding, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.ExecContext(ctx, query,
		string(c.ID), c.Name, c.Email,
		c.Education, c.Experience, c.Skills, c.Certifications,
		string(c.ResumeText), c.ResumePath,
		float32SliceToVectorOrNil(c.Embedding),
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" { // unique_violation
			return candidate.ErrCandidateAlreadyExists().WithDetail("email", c.Email)
		}
		return fmt.Errorf("failed to create candidate: %w", err)
	}

	return nil
}

// Update updates an existing candidate
func (r *PostgresCandidateRepository) Update(ctx context.Context, id kernel.CandidateID, c *candidate.Candidate) error {
	query := `
		UPDATE candidates SET
			name = $1,
			email = $2,
			education = $3,
			experience = $4,
			skills = $5,
			certifications = $6,
			resume_text = $7,
			resume_path = $8,
			embedding = COALESCE($9, embedding),
			updated_at = $10
		WHERE id = $11
	`

	result, err := r.db.ExecContext(ctx, query,
		c.Name, c.Email,
		c.Education, c.Experience, c.Skills, c.Certifications,
		string(c.ResumeText), c.ResumePath,
		float32SliceToVectorOrNil(c.Embedding),
		c.UpdatedAt, string(id),
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return candidate.ErrCandidateAlreadyExists().WithDetail("email", c.Email)
		}
		return fmt.Errorf("failed to update candidate: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return candidate.ErrCandidateNotFound()
	}

	return nil
}

// GetByID retrieves a candidate by ID
func (r *PostgresCandidateRepository) GetByID(ctx context.Context, id kernel.CandidateID) (*candidate.Candidate, error) {
	query := fmt.Sprintf(`SELECT %s FROM candidates WHERE id = $1`, candidateColumns)

	var model candidateModel
	err := r.db.GetContext(ctx, &model, query, string(id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, candidate.ErrCandidateNotFound()
		}
		return nil, fmt.Errorf("failed to get candidate by id: %w", err)
	}

	return model.toEntity(), nil
}

// GetByEmail retrieves a candidate by email
func (r *PostgresCandidateRepository) GetByEmail(ctx context.Context, email string) (*candidate.Candidate, error) {
	query := fmt.Sprintf(`SELECT %s FROM candidates WHERE email = $1`, candidateColumns)

	var model candidateModel
	err := r.db.GetContext(ctx, &model, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, candidate.ErrCandidateNotFound().WithDetail("email", email)
		}
		return nil, fmt.Errorf("failed to get candidate by email: %w", err)
	}

	return model.toEntity(), nil
}

// Delete deletes a candidate by ID
func (r *PostgresCandidateRepository) Delete(ctx context.Context, id kernel.CandidateID) error {
	query := `DELETE FROM candidates WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, string(id))
	if err != nil {
		return fmt.Errorf("failed to delete candidate: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return candidate.ErrCandidateNotFound()
	}

	return nil
}

// List retrieves all candidates with pagination
func (r *PostgresCandidateRepository) List(ctx context.Context, pagination kernel.PaginationOptions) (*kernel.Paginated[candidate.Candidate], error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM candidates`
	if err := r.db.GetContext(ctx, &total, countQuery); err != nil {
		return nil, fmt.Errorf("failed to count candidates: %w", err)
	}

	offset := (pagination.Page - 1) * pagination.PageSize
	totalPages := (total + pagination.PageSize - 1) / pagination.PageSize

	query := fmt.Sprintf(`
		SELECT %s FROM candidates
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, candidateColumns)

	var models []candidateModel
	err := r.db.SelectContext(ctx, &models, query, pagination.PageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}

	entities := make([]candidate.Candidate, 0, len(models))
	for _, model := range models {
		entities = append(entities, *model.toEntity())
	}

	return &kernel.Paginated[candidate.Candidate]{
		Items: entities,
		Page: kernel.Page{
			Number: pagination.Page,
			Size:   pagination.PageSize,
			Total:  total,
			Pages:  totalPages,
		},
		Empty: len(entities) == 0,
	}, nil
}

// Exists checks if a candidate exists by ID
func (r *PostgresCandidateRepository) Exists(ctx context.Context, id kernel.CandidateID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM candidates WHERE id = $1)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, string(id))
	if err != nil {
		return false, fmt.Errorf("failed to check candidate existence: %w", err)
	}

	return exists, nil
}

// SemanticSearch ranks candidates by cosine similarity to the query embedding
func (r *PostgresCandidateRepository) SemanticSearch(ctx context.Context, embedding kernel.CandidateEmbedding, limit int) ([]candidate.SearchHit, error) {
	if embedding.IsEmpty() {
		return nil, candidate.ErrInvalidCandidate().WithDetail("embedding", "query embedding is empty")
	}
	if limit <= 0 {
		limit = 10
	}

	query := fmt.Sprintf(`
		SELECT %s, 1 - (embedding <=> $1) AS similarity
		FROM candidates
		WHERE embedding IS NOT NULL
		ORDER BY embedding <=> $1
		LIMIT $2
	`, candidateColumns)

	type hitRow struct {
		candidateModel
		Similarity float64 `db:"similarity"`
	}

	var rows []hitRow
	err := r.db.SelectContext(ctx, &rows, query, pgvector.NewVector(embedding), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to run semantic search: %w", err)
	}

	hits := make([]candidate.SearchHit, 0, len(rows))
	for _, row := range rows {
		hits = append(hits, candidate.SearchHit{
			Candidate:  *row.candidateModel.toEntity(),
			Similarity: row.Similarity,
		})
	}

	return hits, nil
}
