package job

import (
	"time"

	"github.com/Abraxas-365/sift/pkg/kernel"
)

// CreateJobRequest - DTO for creating a new job posting
type CreateJobRequest struct {
	Title       kernel.JobTitle       `json:"title" validate:"required"`
	Company     kernel.CompanyName    `json:"company"`
	Description kernel.JobDescription `json:"description" validate:"required"`
}

// UpdateJobRequest - DTO for updating an existing job posting
type UpdateJobRequest struct {
	Title       *kernel.JobTitle       `json:"title,omitempty"`
	Company     *kernel.CompanyName    `json:"company,omitempty"`
	Description *kernel.JobDescription `json:"description,omitempty"`
}

// Response type alias for paginated job postings
type PaginatedJobsResponse = kernel.Paginated[JobResponse]

// JobResponse - DTO for returning job posting data
type JobResponse struct {
	ID                     kernel.JobID          `json:"id"`
	Title                  kernel.JobTitle       `json:"title"`
	Company                kernel.CompanyName    `json:"company"`
	Description            kernel.JobDescription `json:"description"`
	RequiredSkills         string                `json:"required_skills"`
	RequiredExperience     string                `json:"required_experience"`
	RequiredQualifications string                `json:"required_qualifications"`
	Responsibilities       string                `json:"responsibilities"`
	Summary                string                `json:"summary"`
	CreatedAt              time.Time             `json:"created_at"`
	UpdatedAt              time.Time             `json:"updated_at"`
}
