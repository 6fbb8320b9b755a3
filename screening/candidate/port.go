package candidate

import (
	"context"

	"github.com/Abraxas-365/sift/pkg/kernel"
)

// SearchHit is a candidate returned by semantic search with its
// cosine similarity to the query embedding.
type SearchHit struct {
	Candidate  Candidate `json:"candidate"`
	Similarity float64   `json:"similarity"`
}

// Repository defines candidate persistence operations.
type Repository interface {
	Create(ctx context.Context, c *Candidate) error
	Update(ctx context.Context, id kernel.CandidateID, c *Candidate) error
	GetByID(ctx context.Context, id kernel.CandidateID) (*Candidate, error)
	GetByEmail(ctx context.Context, email string) (*Candidate, error)
	Delete(ctx context.Context, id kernel.CandidateID) error
	List(ctx context.Context, pagination kernel.PaginationOptions) (*kernel.Paginated[Candidate], error)
	Exists(ctx context.Context, id kernel.CandidateID) (bool, error)

	// SemanticSearch ranks candidates by cosine similarity of their
	// profile embedding to the query embedding. Candidates without an
	// embedding are excluded.
	SemanticSearch(ctx context.Context, embedding kernel.CandidateEmbedding, limit int) ([]SearchHit, error)
}
