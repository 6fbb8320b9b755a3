package job

import (
	"context"

	"github.com/Abraxas-365/sift/pkg/kernel"
)

type Repository interface {
	// Create creates a new job posting
	Create(ctx context.Context, posting *JobPosting) error

	// Update updates an existing job posting
	Update(ctx context.Context, id kernel.JobID, posting *JobPosting) error

	// GetByID retrieves a job posting by ID
	GetByID(ctx context.Context, id kernel.JobID) (*JobPosting, error)

	// Delete deletes a job posting by ID
	Delete(ctx context.Context, id kernel.JobID) error

	// List retrieves all job postings with pagination
	List(ctx context.Context, pagination kernel.PaginationOptions) (*kernel.Paginated[JobPosting], error)

	// Exists checks if a job posting exists by ID
	Exists(ctx context.Context, id kernel.JobID) (bool, error)

	// Search searches job postings by title or description
	Search(ctx context.Context, query string, pagination kernel.PaginationOptions) (*kernel.Paginated[JobPosting], error)
}
