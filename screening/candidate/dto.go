package candidate

import (
	"time"

	"github.com/Abraxas-365/sift/pkg/kernel"
)

// CreateCandidateRequest - DTO for creating a candidate
type CreateCandidateRequest struct {
	Name       string            `json:"name" validate:"required"`
	Email      string            `json:"email" validate:"required,email"`
	ResumeText kernel.ResumeText `json:"resume_text"`
}

// UpdateCandidateRequest - DTO for updating a candidate
type UpdateCandidateRequest struct {
	Name       *string            `json:"name,omitempty"`
	Email      *string            `json:"email,omitempty"`
	ResumeText *kernel.ResumeText `json:"resume_text,omitempty"`
}

// AttachResumeRequest - DTO for attaching an uploaded resume file
type AttachResumeRequest struct {
	FilePath string `json:"file_path" validate:"required"`
	FileType string `json:"file_type" validate:"required"` // pdf, jpg, jpeg, png
}

// SemanticSearchRequest - DTO for semantic candidate search
type SemanticSearchRequest struct {
	Query string `json:"query" validate:"required"`
	Limit int    `json:"limit,omitempty"`
}

// CandidateResponse - DTO returned by candidate endpoints
type CandidateResponse struct {
	ID             kernel.CandidateID `json:"id"`
	Name           string             `json:"name"`
	Email          string             `json:"email"`
	Education      string             `json:"education"`
	Experience     string             `json:"experience"`
	Skills         string             `json:"skills"`
	Certifications string             `json:"certifications"`
	ResumeText     kernel.ResumeText  `json:"resume_text"`
	ResumePath     string             `json:"resume_path,omitempty"`
	HasEmbedding   bool               `json:"has_embedding"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// SearchHitResponse - DTO for a semantic search result
type SearchHitResponse struct {
	Candidate  CandidateResponse `json:"candidate"`
	Similarity float64           `json:"similarity"`
}

// PaginatedCandidatesResponse - paginated candidate listing
type PaginatedCandidatesResponse = kernel.Paginated[CandidateResponse]
