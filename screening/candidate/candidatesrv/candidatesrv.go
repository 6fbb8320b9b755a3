package candidatesrv

import (
	"context"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Abraxas-365/sift/internal/pdf"
	"github.com/Abraxas-365/sift/pkg/errx"
	"github.com/Abraxas-365/sift/pkg/fsx"
	"github.com/Abraxas-365/sift/pkg/kernel"
	"github.com/Abraxas-365/sift/pkg/logx"
	"github.com/Abraxas-365/sift/screening/candidate"
	"github.com/Abraxas-365/sift/screening/pipeline"
)

// Embedder generates profile embeddings for semantic search.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// ResumeReader transcribes resume page images into plain text.
type ResumeReader interface {
	ReadPages(ctx context.Context, pages [][]byte) (string, error)
}

// CandidateService handles candidate business logic
type CandidateService struct {
	candidateRepo candidate.Repository
	pipe          *pipeline.Pipeline
	fileSystem    fsx.FileSystem
	resumeReader  ResumeReader
	embedder      Embedder
}

// NewCandidateService creates a new candidate service
func NewCandidateService(
	candidateRepo candidate.Repository,
	pipe *pipeline.Pipeline,
	fileSystem fsx.FileSystem,
	resumeReader ResumeReader,
	embedder Embedder,
) *CandidateService {
	return &CandidateService{
		candidateRepo: candidateRepo,
		pipe:          pipe,
		fileSystem:    fileSystem,
		resumeReader:  resumeReader,
		embedder:      embedder,
	}
}

// CreateCandidate creates a candidate and, when resume text is provided,
// extracts profile attributes and generates an embedding.
func (s *CandidateService) CreateCandidate(ctx context.Context, req candidate.CreateCandidateRequest) (*candidate.Candidate, error) {
	if req.Name == "" || req.Email == "" {
		return nil, candidate.ErrInvalidCandidate().
			WithDetail("name", req.Name).
			WithDetail("email", req.Email)
	}

	now := time.Now()
	c := &candidate.Candidate{
		ID:         kernel.NewCandidateID(uuid.NewString()),
		Name:       req.Name,
		Email:      req.Email,
		ResumeText: req.ResumeText,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if !req.ResumeText.IsEmpty() {
		s.enrichFromResume(ctx, c)
	}

	if err := s.candidateRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	logx.Infof("Created candidate %s (%s)", c.ID, c.Email)
	return c, nil
}

// GetCandidateByID retrieves a candidate by ID
func (s *CandidateService) GetCandidateByID(ctx context.Context, id kernel.CandidateID) (*candidate.Candidate, error) {
	return s.candidateRepo.GetByID(ctx, id)
}

// ListCandidates retrieves candidates with pagination
func (s *CandidateService) ListCandidates(ctx context.Context, pagination kernel.PaginationOptions) (*candidate.PaginatedCandidatesResponse, error) {
	page, err := s.candidateRepo.List(ctx, pagination.Normalize())
	if err != nil {
		return nil, err
	}

	items := make([]candidate.CandidateResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, toCandidateResponse(&page.Items[i]))
	}

	return &candidate.PaginatedCandidatesResponse{
		Items: items,
		Page:  page.Page,
		Empty: page.Empty,
	}, nil
}

// UpdateCandidate applies partial updates. A resume text change re-runs
// extraction and regenerates the embedding.
func (s *CandidateService) UpdateCandidate(ctx context.Context, id kernel.CandidateID, req candidate.UpdateCandidateRequest) (*candidate.Candidate, error) {
	c, err := s.candidateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	changed := false
	resumeChanged := false

	if req.Name != nil && *req.Name != c.Name {
		c.Name = *req.Name
		changed = true
	}
	if req.Email != nil && *req.Email != c.Email {
		c.Email = *req.Email
		changed = true
	}
	if req.ResumeText != nil && *req.ResumeText != c.ResumeText {
		c.ResumeText = *req.ResumeText
		changed = true
		resumeChanged = true
	}

	if !changed {
		return c, nil
	}

	if resumeChanged && !c.ResumeText.IsEmpty() {
		s.enrichFromResume(ctx, c)
	}

	c.UpdatedAt = time.Now()
	if err := s.candidateRepo.Update(ctx, id, c); err != nil {
		return nil, err
	}

	return c, nil
}

// DeleteCandidate deletes a candidate and any resume file stored for them.
func (s *CandidateService) DeleteCandidate(ctx context.Context, id kernel.CandidateID) error {
	c, err := s.candidateRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.candidateRepo.Delete(ctx, id); err != nil {
		return err
	}

	if c.ResumePath != "" {
		if err := s.fileSystem.DeleteFile(ctx, c.ResumePath); err != nil {
			logx.Warnf("Failed to delete resume file %s for candidate %s: %v", c.ResumePath, id, err)
		}
	}

	return nil
}

// AttachResume reads an uploaded resume file from storage, transcribes it,
// re-extracts profile attributes and regenerates the embedding.
func (s *CandidateService) AttachResume(ctx context.Context, id kernel.CandidateID, req candidate.AttachResumeRequest) (*candidate.Candidate, error) {
	c, err := s.candidateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fileData, err := s.fileSystem.ReadFile(ctx, req.FilePath)
	if err != nil {
		return nil, candidate.ErrFileReadFailed().
			WithDetail("file_path", req.FilePath).
			WithDetail("error", err.Error())
	}

	var pages [][]byte
	switch strings.ToLower(req.FileType) {
	case "pdf":
		pages, err = pdf.RenderPages(fileData)
		if err != nil {
			return nil, errx.Wrap(err, "failed to render resume PDF", errx.TypeInternal)
		}
	case "jpg", "jpeg", "png":
		page, convErr := pdf.EnsureJPEG(fileData)
		if convErr != nil {
			return nil, errx.Wrap(convErr, "failed to convert resume image", errx.TypeInternal)
		}
		pages = [][]byte{page}
	default:
		return nil, candidate.ErrInvalidFileFormat().
			WithDetail("file_type", req.FileType).
			WithDetail("supported", "pdf, jpg, jpeg, png")
	}

	text, err := s.resumeReader.ReadPages(ctx, pages)
	if err != nil {
		return nil, candidate.ErrResumeReadFailed().
			WithDetail("file_path", req.FilePath).
			WithDetail("error", err.Error())
	}

	c.ResumeText = kernel.ResumeText(text)
	c.ResumePath = req.FilePath
	s.enrichFromResume(ctx, c)
	c.UpdatedAt = time.Now()

	if err := s.candidateRepo.Update(ctx, id, c); err != nil {
		return nil, err
	}

	logx.Infof("Attached resume %s to candidate %s (%d pages)", req.FilePath, c.ID, len(pages))
	return c, nil
}

// UploadResume stores an uploaded resume file and runs the attach flow on
// the stored copy. The file type is taken from the filename extension.
func (s *CandidateService) UploadResume(ctx context.Context, id kernel.CandidateID, filename string, content io.Reader) (*candidate.Candidate, error) {
	fileType := strings.TrimPrefix(strings.ToLower(path.Ext(filename)), ".")
	switch fileType {
	case "pdf", "jpg", "jpeg", "png":
	default:
		return nil, candidate.ErrInvalidFileFormat().
			WithDetail("file_name", filename).
			WithDetail("supported", "pdf, jpg, jpeg, png")
	}

	exists, err := s.candidateRepo.Exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, candidate.ErrCandidateNotFound().WithDetail("id", id.String())
	}

	storedPath := s.fileSystem.Join("resumes", id.String(), filename)
	if err := s.fileSystem.WriteFileStream(ctx, storedPath, content); err != nil {
		return nil, candidate.ErrFileWriteFailed().
			WithDetail("file_path", storedPath).
			WithDetail("error", err.Error())
	}

	return s.AttachResume(ctx, id, candidate.AttachResumeRequest{
		FilePath: storedPath,
		FileType: fileType,
	})
}

// SemanticSearch embeds the query and ranks candidates by similarity.
func (s *CandidateService) SemanticSearch(ctx context.Context, req candidate.SemanticSearchRequest) ([]candidate.SearchHitResponse, error) {
	if req.Query == "" {
		return nil, candidate.ErrInvalidCandidate().WithDetail("query", "missing or empty")
	}

	embedding, err := s.embedder.GenerateEmbedding(ctx, req.Query)
	if err != nil {
		return nil, candidate.ErrEmbeddingFailed().WithDetail("error", err.Error())
	}

	hits, err := s.candidateRepo.SemanticSearch(ctx, embedding, req.Limit)
	if err != nil {
		return nil, err
	}

	results := make([]candidate.SearchHitResponse, 0, len(hits))
	for i := range hits {
		results = append(results, candidate.SearchHitResponse{
			Candidate:  toCandidateResponse(&hits[i].Candidate),
			Similarity: hits[i].Similarity,
		})
	}

	return results, nil
}

// enrichFromResume extracts attributes from the resume text and refreshes
// the profile embedding. Both steps are best effort: extraction falls back
// to an empty record, a failed embedding leaves the previous one in place.
func (s *CandidateService) enrichFromResume(ctx context.Context, c *candidate.Candidate) {
	rec, outcome := s.pipe.ExtractResume(ctx, c.ResumeText.String())
	c.ApplyExtraction(rec)
	if outcome == pipeline.OutcomeFallback {
		logx.Warnf("Resume extraction fell back to empty attributes for candidate %s", c.ID)
	}

	embedding, err := s.embedder.GenerateEmbedding(ctx, c.EmbeddingText())
	if err != nil {
		logx.Warnf("Failed to generate embedding for candidate %s: %v", c.ID, err)
		return
	}
	c.Embedding = embedding
}

func toCandidateResponse(c *candidate.Candidate) candidate.CandidateResponse {
	return candidate.CandidateResponse{
		ID:             c.ID,
		Name:           c.Name,
		Email:          c.Email,
		Education:      c.Education,
		Experience:     c.Experience,
		Skills:         c.Skills,
		Certifications: c.Certifications,
		ResumeText:     c.ResumeText,
		ResumePath:     c.ResumePath,
		HasEmbedding:   !c.Embedding.IsEmpty(),
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}
