package matchapi

import (
	"github.com/Abraxas-365/sift/pkg/iam/auth"
	"github.com/Abraxas-365/sift/pkg/kernel"
	"github.com/Abraxas-365/sift/screening/match"
	"github.com/Abraxas-365/sift/screening/match/matchsrv"
	"github.com/gofiber/fiber/v2"
)

// Handlers provides HTTP handlers for matching operations
type Handlers struct {
	service *matchsrv.MatchService
}

// NewHandlers creates a new match handlers instance
func NewHandlers(service *matchsrv.MatchService) *Handlers {
	return &Handlers{
		service: service,
	}
}

func jobIDParam(c *fiber.Ctx) (kernel.JobID, error) {
	jobID := kernel.JobID(c.Params("jobId"))
	if jobID.IsEmpty() {
		return "", match.ErrInvalidMatch().WithDetail("job_id", "missing or empty")
	}
	return jobID, nil
}

// MatchCandidate scores one candidate against one job
// POST /api/matching/jobs/:jobId/candidates/:candidateId
func (h *Handlers) MatchCandidate(c *fiber.Ctx) error {
	jobID, err := jobIDParam(c)
	if err != nil {
		return err
	}

	candidateID := kernel.CandidateID(c.Params("candidateId"))
	if candidateID.IsEmpty() {
		return match.ErrInvalidMatch().WithDetail("candidate_id", "missing or empty")
	}

	m, err := h.service.MatchCandidate(c.Context(), jobID, candidateID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(m)
}

// MatchAll scores every candidate against a job synchronously
// POST /api/matching/jobs/:jobId/run
func (h *Handlers) MatchAll(c *fiber.Ctx) error {
	jobID, err := jobIDParam(c)
	if err != nil {
		return err
	}

	resp, err := h.service.MatchAllCandidates(c.Context(), jobID)
	if err != nil {
		return err
	}

	return c.JSON(resp)
}

// MatchAllAsync queues a matching run for background processing
// POST /api/matching/jobs/:jobId/run-async
func (h *Handlers) MatchAllAsync(c *fiber.Ctx) error {
	jobID, err := jobIDParam(c)
	if err != nil {
		return err
	}

	resp, err := h.service.MatchAllAsync(c.Context(), jobID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusAccepted).JSON(resp)
}

// GetJobWithCandidates returns a job with its scored candidates
// GET /api/matching/jobs/:jobId/candidates
func (h *Handlers) GetJobWithCandidates(c *fiber.Ctx) error {
	jobID, err := jobIDParam(c)
	if err != nil {
		return err
	}

	resp, err := h.service.GetJobWithCandidates(c.Context(), jobID)
	if err != nil {
		return err
	}

	return c.JSON(resp)
}

// Shortlist recomputes the shortlist for a job
// POST /api/matching/jobs/:jobId/shortlist
func (h *Handlers) Shortlist(c *fiber.Ctx) error {
	jobID, err := jobIDParam(c)
	if err != nil {
		return err
	}

	shortlisted, err := h.service.ShortlistForJob(c.Context(), jobID)
	if err != nil {
		return err
	}

	return c.JSON(shortlisted)
}

// ScheduleInterviews proposes interview slots for the shortlist
// POST /api/matching/jobs/:jobId/interviews
func (h *Handlers) ScheduleInterviews(c *fiber.Ctx) error {
	jobID, err := jobIDParam(c)
	if err != nil {
		return err
	}

	proposals, err := h.service.ScheduleInterviews(c.Context(), jobID)
	if err != nil {
		return err
	}

	return c.JSON(proposals)
}

// GetStats returns aggregate match statistics for a job
// GET /api/matching/jobs/:jobId/stats
func (h *Handlers) GetStats(c *fiber.Ctx) error {
	jobID, err := jobIDParam(c)
	if err != nil {
		return err
	}

	stats, err := h.service.GetMatchStats(c.Context(), jobID)
	if err != nil {
		return err
	}

	return c.JSON(stats)
}

// RegisterRoutes registers all matching routes
func RegisterRoutes(app *fiber.App, handlers *Handlers, authMiddleware *auth.Middleware) {
	api := app.Group("/api/matching", authMiddleware.Authenticate())

	api.Post("/jobs/:jobId/candidates/:candidateId", handlers.MatchCandidate)
	api.Post("/jobs/:jobId/run", handlers.MatchAll)
	api.Post("/jobs/:jobId/run-async", handlers.MatchAllAsync)
	api.Get("/jobs/:jobId/candidates", handlers.GetJobWithCandidates)
	api.Post("/jobs/:jobId/shortlist", handlers.Shortlist)
	api.Post("/jobs/:jobId/interviews", handlers.ScheduleInterviews)
	api.Get("/jobs/:jobId/stats", handlers.GetStats)
}
