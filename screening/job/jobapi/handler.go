package jobapi

import (
	"github.com/Abraxas-365/sift/pkg/iam/auth"
	"github.com/Abraxas-365/sift/pkg/kernel"
	"github.com/Abraxas-365/sift/screening/job"
	"github.com/Abraxas-365/sift/screening/job/jobsrv"
	"github.com/gofiber/fiber/v2"
)

// Handlers provides HTTP handlers for job posting operations
type Handlers struct {
	service *jobsrv.JobService
}

// NewHandlers creates a new job handlers instance
func NewHandlers(service *jobsrv.JobService) *Handlers {
	return &Handlers{
		service: service,
	}
}

// CreateJob creates a new job posting
// POST /api/jobs
func (h *Handlers) CreateJob(c *fiber.Ctx) error {
	var req job.CreateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return job.ErrInvalidJob().WithDetail("parse_error", err.Error())
	}

	posting, err := h.service.CreateJob(c.Context(), req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(posting)
}

// GetJobByID retrieves a job posting by ID
// GET /api/jobs/:id
func (h *Handlers) GetJobByID(c *fiber.Ctx) error {
	jobID := kernel.JobID(c.Params("id"))
	if jobID.IsEmpty() {
		return job.ErrJobNotFound().WithDetail("id", "missing or empty")
	}

	resp, err := h.service.GetJobByID(c.Context(), jobID)
	if err != nil {
		return err
	}

	return c.JSON(resp)
}

// ListJobs retrieves all job postings with pagination
// GET /api/jobs
func (h *Handlers) ListJobs(c *fiber.Ctx) error {
	jobs, err := h.service.ListJobs(c.Context(), ParsePaginationOptions(c))
	if err != nil {
		return err
	}

	return c.JSON(jobs)
}

// SearchJobs searches job postings by title or description
// GET /api/jobs/search?q=...
func (h *Handlers) SearchJobs(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return job.ErrInvalidJob().WithDetail("q", "missing or empty")
	}

	jobs, err := h.service.SearchJobs(c.Context(), query, ParsePaginationOptions(c))
	if err != nil {
		return err
	}

	return c.JSON(jobs)
}

// UpdateJob updates an existing job posting
// PUT /api/jobs/:id
func (h *Handlers) UpdateJob(c *fiber.Ctx) error {
	jobID := kernel.JobID(c.Params("id"))
	if jobID.IsEmpty() {
		return job.ErrJobNotFound().WithDetail("id", "missing or empty")
	}

	var req job.UpdateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return job.ErrInvalidJob().WithDetail("parse_error", err.Error())
	}

	posting, err := h.service.UpdateJob(c.Context(), jobID, req)
	if err != nil {
		return err
	}

	return c.JSON(posting)
}

// ReprocessJob re-runs attribute extraction over the stored description
// POST /api/jobs/:id/reprocess
func (h *Handlers) ReprocessJob(c *fiber.Ctx) error {
	jobID := kernel.JobID(c.Params("id"))
	if jobID.IsEmpty() {
		return job.ErrJobNotFound().WithDetail("id", "missing or empty")
	}

	posting, err := h.service.ReprocessJob(c.Context(), jobID)
	if err != nil {
		return err
	}

	return c.JSON(posting)
}

// DeleteJob deletes a job posting
// DELETE /api/jobs/:id
func (h *Handlers) DeleteJob(c *fiber.Ctx) error {
	jobID := kernel.JobID(c.Params("id"))
	if jobID.IsEmpty() {
		return job.ErrJobNotFound().WithDetail("id", "missing or empty")
	}

	if err := h.service.DeleteJob(c.Context(), jobID); err != nil {
		return err
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}

// ParsePaginationOptions extracts pagination options from query parameters
func ParsePaginationOptions(c *fiber.Ctx) kernel.PaginationOptions {
	return kernel.PaginationOptions{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", 20),
	}.Normalize()
}

// RegisterRoutes registers all job routes
func RegisterRoutes(app *fiber.App, handlers *Handlers, authMiddleware *auth.Middleware) {
	api := app.Group("/api/jobs", authMiddleware.Authenticate())

	api.Get("/", handlers.ListJobs)
	api.Get("/search", handlers.SearchJobs)
	api.Get("/:id", handlers.GetJobByID)
	api.Post("/", handlers.CreateJob)
	api.Put("/:id", handlers.UpdateJob)
	api.Post("/:id/reprocess", handlers.ReprocessJob)
	api.Delete("/:id", handlers.DeleteJob)
}
