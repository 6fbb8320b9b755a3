package jobinfra

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Abraxas-365/sift/pkg/kernel"
	"github.com/Abraxas-365/sift/screening/job"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresJobRepository implements job.Repository using PostgreSQL
type PostgresJobRepository struct {
	db *sqlx.DB
}

// NewPostgresJobRepository creates a new PostgreSQL job repository
func NewPostgresJobRepository(db *sqlx.DB) *PostgresJobRepository {
	return &PostgresJobRepository{
		db: db,
	}
}

// ============================================================================
// Database Model
// ============================================================================

type jobModel struct {
	ID                     string    `db:"id"`
	Title                  string    `db:"title"`
	Company                string    `db:"company"`
	Description            string    `db:"description"`
	RequiredSkills         string    `db:"required_skills"`
	RequiredExperience     string    `db:"required_experience"`
	RequiredQualifications string    `db:"required_qualifications"`
	Responsibilities       string    `db:"responsibilities"`
	Summary                string    `db:"summary"`
	CreatedAt              time.Time `db:"created_at"`
	UpdatedAt              time.Time `db:"updated_at"`
}

func (m *jobModel) toEntity() *job.JobPosting {
	return &job.JobPosting{
		ID:                     kernel.JobID(m.ID),
		Title:                  kernel.JobTitle(m.Title),
		Company:                kernel.CompanyName(m.Company),
		Description:            kernel.JobDescription(m.Description),
		RequiredSkills:         m.RequiredSkills,
		RequiredExperience:     m.RequiredExperience,
		RequiredQualifications: m.RequiredQualifications,
		Responsibilities:       m.Responsibilities,
		Summary:                m.Summary,
		CreatedAt:              m.CreatedAt,
		UpdatedAt:              m.UpdatedAt,
	}
}

func fromEntity(j *job.JobPosting) *jobModel {
	return &jobModel{
		ID:                     string(j.ID),
		Title:                  string(j.Title),
		Company:                string(j.Company),
		Description:            string(j.Description),
		RequiredSkills:         j.RequiredSkills,
		RequiredExperience:     j.RequiredExperience,
		RequiredQualifications: j.RequiredQualifications,
		Responsibilities:       j.Responsibilities,
		Summary:                j.Summary,
		CreatedAt:              j.CreatedAt,
		UpdatedAt:              j.UpdatedAt,
	}
}

const jobColumns = `
	id, title, company, description,
	required_skills, required_experience, required_qualifications,
	responsibilities, summary, created_at, updated_at
`

// ============================================================================
// Repository Implementation
// ============================================================================

// Create creates a new job posting
func (r *PostgresJobRepository) Create(ctx context.Context, posting *job.JobPosting) error {
	model := fromEntity(posting)

	query := `
		INSERT INTO job_postings (
			id, title, company, description,
			required_skills, required_experience, required_qualifications,
			responsibilities, summary, created_at, updated_at
		) VALUES (
			:id, :title, :company, :description,
			:required_skills, :required_experience, :required_qualifications,
			:responsibilities, :summary, :created_at, :updated_at
		)
	`

	_, err := r.db.NamedExecContext(ctx, query, model)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" { // unique_violation
			return job.ErrJobAlreadyExists()
		}
		return fmt.Errorf("failed to create job posting: %w", err)
	}

	return nil
}

// Update updates an existing job posting
func (r *PostgresJobRepository) Update(ctx context.Context, id kernel.JobID, posting *job.JobPosting) error {
	model := fromEntity(posting)
	model.ID = string(id)

	query := `
		UPDATE job_postings SET
			title = :title,
			company = :company,
			description = :description,
			required_skills = :required_skills,
			required_experience = :required_experience,
			required_qualifications = :required_qualifications,
			responsibilities = :responsibilities,
			summary = :summary,
			updated_at = :updated_at
		WHERE id = :id
	`

	result, err := r.db.NamedExecContext(ctx, query, model)
	if err != nil {
		return fmt.Errorf("failed to update job posting: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return job.ErrJobNotFound()
	}

	return nil
}

// GetByID retrieves a job posting by ID
func (r *PostgresJobRepository) GetByID(ctx context.Context, id kernel.JobID) (*job.JobPosting, error) {
	query := fmt.Sprintf(`SELECT %s FROM job_postings WHERE id = $1`, jobColumns)

	var model jobModel
	err := r.db.GetContext(ctx, &model, query, string(id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, job.ErrJobNotFound()
		}
		return nil, fmt.Errorf("failed to get job posting by id: %w", err)
	}

	return model.toEntity(), nil
}

// Delete deletes a job posting by ID
func (r *PostgresJobRepository) Delete(ctx context.Context, id kernel.JobID) error {
	query := `DELETE FROM job_postings WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, string(id))
	if err != nil {
		return fmt.Errorf("failed to delete job posting: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return job.ErrJobNotFound()
	}

	return nil
}

// List retrieves all job postings with pagination
func (r *PostgresJobRepository) List(ctx context.Context, pagination kernel.PaginationOptions) (*kernel.Paginated[job.JobPosting], error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM job_postings`
	if err := r.db.GetContext(ctx, &total, countQuery); err != nil {
		return nil, fmt.Errorf("failed to count job postings: %w", err)
	}

	offset := (pagination.Page - 1) * pagination.PageSize
	totalPages := (total + pagination.PageSize - 1) / pagination.PageSize

	query := fmt.Sprintf(`
		SELECT %s FROM job_postings
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, jobColumns)

	var models []jobModel
	err := r.db.SelectContext(ctx, &models, query, pagination.PageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list job postings: %w", err)
	}

	entities := make([]job.JobPosting, 0, len(models))
	for _, model := range models {
		entities = append(entities, *model.toEntity())
	}

	return &kernel.Paginated[job.JobPosting]{
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

// Exists checks if a job posting exists by ID
func (r *PostgresJobRepository) Exists(ctx context.Context, id kernel.JobID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM job_postings WHERE id = $1)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, string(id))
	if err != nil {
		return false, fmt.Errorf("failed to check job posting existence: %w", err)
	}

	return exists, nil
}

// Search searches job postings by title or description
func (r *PostgresJobRepository) Search(ctx context.Context, q string, pagination kernel.PaginationOptions) (*kernel.Paginated[job.JobPosting], error) {
	pattern := "%" + q + "%"

	var total int
	countQuery := `SELECT COUNT(*) FROM job_postings WHERE title ILIKE $1 OR description ILIKE $1`
	if err := r.db.GetContext(ctx, &total, countQuery, pattern); err != nil {
		return nil, fmt.Errorf("failed to count search results: %w", err)
	}

	offset := (pagination.Page - 1) * pagination.PageSize
	totalPages := (total + pagination.PageSize - 1) / pagination.PageSize

	query := fmt.Sprintf(`
		SELECT %s FROM job_postings
		WHERE title ILIKE $1 OR description ILIKE $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, jobColumns)

	var models []jobModel
	err := r.db.SelectContext(ctx, &models, query, pattern, pagination.PageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to search job postings: %w", err)
	}

	entities := make([]job.JobPosting, 0, len(models))
	for _, model := range models {
		entities = append(entities, *model.toEntity())
	}

	return &kernel.Paginated[job.JobPosting]{
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
