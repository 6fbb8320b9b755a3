package jobsrv

import (
	"context"
	"time"

	"github.com/Abraxas-365/sift/pkg/errx"
	"github.com/Abraxas-365/sift/pkg/kernel"
	"github.com/Abraxas-365/sift/pkg/logx"
	"github.com/Abraxas-365/sift/screening/job"
	"github.com/Abraxas-365/sift/screening/pipeline"
	"github.com/google/uuid"
)

// JobService provides business operations for job postings
type JobService struct {
	jobRepo job.Repository
	pipe    *pipeline.Pipeline
}

// NewJobService creates a new instance of the job service
func NewJobService(jobRepo job.Repository, pipe *pipeline.Pipeline) *JobService {
	return &JobService{
		jobRepo: jobRepo,
		pipe:    pipe,
	}
}

// CreateJob creates a new job posting. The description is run through
// attribute extraction before persisting; an extraction fallback still
// creates the posting with empty attribute fields.
func (s *JobService) CreateJob(ctx context.Context, req job.CreateJobRequest) (*job.JobPosting, error) {
	if req.Title.IsEmpty() || req.Description.IsEmpty() {
		return nil, job.ErrInvalidJob().WithDetail("reason", "title and description are required")
	}

	now := time.Now()
	posting := &job.JobPosting{
		ID:          kernel.NewJobID(uuid.NewString()),
		Title:       req.Title,
		Company:     req.Company,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	rec, outcome := s.pipe.ExtractJob(ctx, string(req.Description))
	if outcome == pipeline.OutcomeFallback {
		logx.Warnf("job extraction fell back to empty attributes: job %s", posting.ID)
	}
	posting.ApplyExtraction(rec)
	posting.UpdatedAt = now

	if err := s.jobRepo.Create(ctx, posting); err != nil {
		return nil, errx.Wrap(err, "failed to create job posting", errx.TypeInternal)
	}

	return posting, nil
}

// GetJobByID retrieves a job posting by ID
func (s *JobService) GetJobByID(ctx context.Context, jobID kernel.JobID) (*job.JobResponse, error) {
	posting, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	resp := toJobResponse(posting)
	return &resp, nil
}

// ListJobs retrieves all job postings with pagination
func (s *JobService) ListJobs(ctx context.Context, pagination kernel.PaginationOptions) (*job.PaginatedJobsResponse, error) {
	postings, err := s.jobRepo.List(ctx, pagination.Normalize())
	if err != nil {
		return nil, errx.Wrap(err, "failed to list job postings", errx.TypeInternal)
	}

	responses := make([]job.JobResponse, 0, len(postings.Items))
	for i := range postings.Items {
		responses = append(responses, toJobResponse(&postings.Items[i]))
	}

	return &kernel.Paginated[job.JobResponse]{
		Items: responses,
		Page:  postings.Page,
		Empty: postings.Empty,
	}, nil
}

// SearchJobs searches job postings by title or description
func (s *JobService) SearchJobs(ctx context.Context, query string, pagination kernel.PaginationOptions) (*job.PaginatedJobsResponse, error) {
	postings, err := s.jobRepo.Search(ctx, query, pagination.Normalize())
	if err != nil {
		return nil, errx.Wrap(err, "failed to search job postings", errx.TypeInternal)
	}

	responses := make([]job.JobResponse, 0, len(postings.Items))
	for i := range postings.Items {
		responses = append(responses, toJobResponse(&postings.Items[i]))
	}

	return &kernel.Paginated[job.JobResponse]{
		Items: responses,
		Page:  postings.Page,
		Empty: postings.Empty,
	}, nil
}

// UpdateJob updates an existing job posting. A changed description triggers
// re-extraction.
func (s *JobService) UpdateJob(ctx context.Context, jobID kernel.JobID, req job.UpdateJobRequest) (*job.JobPosting, error) {
	posting, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	updated := false
	reextract := false

	if req.Title != nil && *req.Title != posting.Title {
		posting.Title = *req.Title
		updated = true
	}
	if req.Company != nil && *req.Company != posting.Company {
		posting.Company = *req.Company
		updated = true
	}
	if req.Description != nil && *req.Description != posting.Description {
		posting.Description = *req.Description
		updated = true
		reextract = true
	}

	if !updated {
		return posting, nil
	}

	if reextract {
		rec, _ := s.pipe.ExtractJob(ctx, string(posting.Description))
		posting.ApplyExtraction(rec)
	}
	posting.UpdatedAt = time.Now()

	if err := s.jobRepo.Update(ctx, jobID, posting); err != nil {
		return nil, errx.Wrap(err, "failed to update job posting", errx.TypeInternal)
	}

	return posting, nil
}

// ReprocessJob re-runs attribute extraction over the stored description.
func (s *JobService) ReprocessJob(ctx context.Context, jobID kernel.JobID) (*job.JobPosting, error) {
	posting, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	rec, outcome := s.pipe.ExtractJob(ctx, string(posting.Description))
	if outcome == pipeline.OutcomeFallback {
		logx.Warnf("job reprocess extraction fell back: job %s", jobID)
	}
	posting.ApplyExtraction(rec)

	if err := s.jobRepo.Update(ctx, jobID, posting); err != nil {
		return nil, errx.Wrap(err, "failed to persist reprocessed job posting", errx.TypeInternal)
	}

	return posting, nil
}

// DeleteJob deletes a job posting
func (s *JobService) DeleteJob(ctx context.Context, jobID kernel.JobID) error {
	if err := s.jobRepo.Delete(ctx, jobID); err != nil {
		return err
	}
	return nil
}

func toJobResponse(j *job.JobPosting) job.JobResponse {
	return job.JobResponse{
		ID:                     j.ID,
		Title:                  j.Title,
		Company:                j.Company,
		Description:            j.Description,
		RequiredSkills:         j.RequiredSkills,
		RequiredExperience:     j.RequiredExperience,
		RequiredQualifications: j.RequiredQualifications,
		Responsibilities:       j.Responsibilities,
		Summary:                j.Summary,
		CreatedAt:              j.CreatedAt,
		UpdatedAt:              j.UpdatedAt,
	}
}
