package candidateapi

import (
	"github.com/Abraxas-365/sift/pkg/iam/auth"
	"github.com/Abraxas-365/sift/pkg/kernel"
	"github.com/Abraxas-365/sift/screening/candidate"
	"github.com/Abraxas-365/sift/screening/candidate/candidatesrv"
	"github.com/gofiber/fiber/v2"
)

// Handlers provides HTTP handlers for candidate operations
type Handlers struct {
	service *candidatesrv.CandidateService
}

// NewHandlers creates a new candidate handlers instance
func NewHandlers(service *candidatesrv.CandidateService) *Handlers {
	return &Handlers{
		service: service,
	}
}

// CreateCandidate creates a new candidate
// POST /api/candidates
func (h *Handlers) CreateCandidate(c *fiber.Ctx) error {
	var req candidate.CreateCandidateRequest
	if err := c.BodyParser(&req); err != nil {
		return candidate.ErrInvalidCandidate().WithDetail("parse_error", err.Error())
	}

	created, err := h.service.CreateCandidate(c.Context(), req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// GetCandidateByID retrieves a candidate by ID
// GET /api/candidates/:id
func (h *Handlers) GetCandidateByID(c *fiber.Ctx) error {
	candidateID := kernel.CandidateID(c.Params("id"))
	if candidateID.IsEmpty() {
		return candidate.ErrCandidateNotFound().WithDetail("id", "missing or empty")
	}

	resp, err := h.service.GetCandidateByID(c.Context(), candidateID)
	if err != nil {
		return err
	}

	return c.JSON(resp)
}

// ListCandidates retrieves all candidates with pagination
// GET /api/candidates
func (h *Handlers) ListCandidates(c *fiber.Ctx) error {
	pagination := kernel.PaginationOptions{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", 20),
	}.Normalize()

	candidates, err := h.service.ListCandidates(c.Context(), pagination)
	if err != nil {
		return err
	}

	return c.JSON(candidates)
}

// UpdateCandidate updates an existing candidate
// PUT /api/candidates/:id
func (h *Handlers) UpdateCandidate(c *fiber.Ctx) error {
	candidateID := kernel.CandidateID(c.Params("id"))
	if candidateID.IsEmpty() {
		return candidate.ErrCandidateNotFound().WithDetail("id", "missing or empty")
	}

	var req candidate.UpdateCandidateRequest
	if err := c.BodyParser(&req); err != nil {
		return candidate.ErrInvalidCandidate().WithDetail("parse_error", err.Error())
	}

	updated, err := h.service.UpdateCandidate(c.Context(), candidateID, req)
	if err != nil {
		return err
	}

	return c.JSON(updated)
}

// DeleteCandidate deletes a candidate
// DELETE /api/candidates/:id
func (h *Handlers) DeleteCandidate(c *fiber.Ctx) error {
	candidateID := kernel.CandidateID(c.Params("id"))
	if candidateID.IsEmpty() {
		return candidate.ErrCandidateNotFound().WithDetail("id", "missing or empty")
	}

	if err := h.service.DeleteCandidate(c.Context(), candidateID); err != nil {
		return err
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}

// AttachResume processes an uploaded resume file for a candidate
// POST /api/candidates/:id/resume
func (h *Handlers) AttachResume(c *fiber.Ctx) error {
	candidateID := kernel.CandidateID(c.Params("id"))
	if candidateID.IsEmpty() {
		return candidate.ErrCandidateNotFound().WithDetail("id", "missing or empty")
	}

	var req candidate.AttachResumeRequest
	if err := c.BodyParser(&req); err != nil {
		return candidate.ErrInvalidCandidate().WithDetail("parse_error", err.Error())
	}
	if req.FilePath == "" || req.FileType == "" {
		return candidate.ErrInvalidCandidate().
			WithDetail("file_path", req.FilePath).
			WithDetail("file_type", req.FileType)
	}

	updated, err := h.service.AttachResume(c.Context(), candidateID, req)
	if err != nil {
		return err
	}

	return c.JSON(updated)
}

// UploadResume accepts a multipart resume file, stores it, and processes it
// POST /api/candidates/:id/resume/upload
func (h *Handlers) UploadResume(c *fiber.Ctx) error {
	candidateID := kernel.CandidateID(c.Params("id"))
	if candidateID.IsEmpty() {
		return candidate.ErrCandidateNotFound().WithDetail("id", "missing or empty")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return candidate.ErrInvalidCandidate().WithDetail("file", "multipart file field is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return candidate.ErrFileReadFailed().
			WithDetail("file_name", fileHeader.Filename).
			WithDetail("error", err.Error())
	}
	defer file.Close()

	updated, err := h.service.UploadResume(c.Context(), candidateID, fileHeader.Filename, file)
	if err != nil {
		return err
	}

	return c.JSON(updated)
}

// SemanticSearch searches candidates by embedding similarity
// POST /api/candidates/search
func (h *Handlers) SemanticSearch(c *fiber.Ctx) error {
	var req candidate.SemanticSearchRequest
	if err := c.BodyParser(&req); err != nil {
		return candidate.ErrInvalidCandidate().WithDetail("parse_error", err.Error())
	}

	hits, err := h.service.SemanticSearch(c.Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(hits)
}

// RegisterRoutes registers all candidate routes
func RegisterRoutes(app *fiber.App, handlers *Handlers, authMiddleware *auth.Middleware) {
	api := app.Group("/api/candidates", authMiddleware.Authenticate())

	api.Get("/", handlers.ListCandidates)
	api.Post("/search", handlers.SemanticSearch)
	api.Get("/:id", handlers.GetCandidateByID)
	api.Post("/", handlers.CreateCandidate)
	api.Put("/:id", handlers.UpdateCandidate)
	api.Post("/:id/resume", handlers.AttachResume)
	api.Post("/:id/resume/upload", handlers.UploadResume)
	api.Delete("/:id", handlers.DeleteCandidate)
}
