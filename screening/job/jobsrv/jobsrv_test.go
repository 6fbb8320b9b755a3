package jobsrv

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/Abraxas-365/sift/pkg/errx"
	"github.com/Abraxas-365/sift/pkg/kernel"
	"github.com/Abraxas-365/sift/screening/job"
	"github.com/Abraxas-365/sift/screening/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubJobRepo struct {
	postings map[kernel.JobID]*job.JobPosting
	created  *job.JobPosting
	updated  *job.JobPosting
	getErr   error
}

func newStubJobRepo() *stubJobRepo {
	return &stubJobRepo{postings: make(map[kernel.JobID]*job.JobPosting)}
}

func (r *stubJobRepo) Create(ctx context.Context, p *job.JobPosting) error {
	r.created = p
	r.postings[p.ID] = p
	return nil
}

func (r *stubJobRepo) Update(ctx context.Context, id kernel.JobID, p *job.JobPosting) error {
	if _, ok := r.postings[id]; !ok {
		return job.ErrJobNotFound()
	}
	r.updated = p
	r.postings[id] = p
	return nil
}

func (r *stubJobRepo) GetByID(ctx context.Context, id kernel.JobID) (*job.JobPosting, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	p, ok := r.postings[id]
	if !ok {
		return nil, job.ErrJobNotFound()
	}
	return p, nil
}

func (r *stubJobRepo) Delete(ctx context.Context, id kernel.JobID) error {
	if _, ok := r.postings[id]; !ok {
		return job.ErrJobNotFound()
	}
	delete(r.postings, id)
	return nil
}

func (r *stubJobRepo) List(ctx context.Context, pagination kernel.PaginationOptions) (*kernel.Paginated[job.JobPosting], error) {
	items := make([]job.JobPosting, 0, len(r.postings))
	for _, p := range r.postings {
		items = append(items, *p)
	}
	return &kernel.Paginated[job.JobPosting]{Items: items, Empty: len(items) == 0}, nil
}

func (r *stubJobRepo) Exists(ctx context.Context, id kernel.JobID) (bool, error) {
	_, ok := r.postings[id]
	return ok, nil
}

func (r *stubJobRepo) Search(ctx context.Context, query string, pagination kernel.PaginationOptions) (*kernel.Paginated[job.JobPosting], error) {
	return r.List(ctx, pagination)
}

func newTestService(repo job.Repository, response string) *JobService {
	gen := pipeline.GeneratorFunc(func(ctx context.Context, prompt, systemPrompt string, maxTokens int) (string, error) {
		return response, nil
	})
	pipe := pipeline.New(gen, rand.New(rand.NewSource(7)), pipeline.DefaultConfig("Initech"))
	return NewJobService(repo, pipe)
}

func TestCreateJobExtractsAttributes(t *testing.T) {
	repo := newStubJobRepo()
	svc := newTestService(repo, `{
		"required_skills": "Go, SQL",
		"required_experience": "5 years",
		"required_qualifications": "BSc",
		"responsibilities": "build services",
		"summary": "Backend role."
	}`)

	posting, err := svc.CreateJob(context.Background(), job.CreateJobRequest{
		Title:       "Backend Engineer",
		Company:     "Initech",
		Description: "We need a Go engineer.",
	})

	require.NoError(t, err)
	assert.False(t, posting.ID.IsEmpty())
	assert.Equal(t, "Go, SQL", posting.RequiredSkills)
	assert.Equal(t, "Backend role.", posting.Summary)
	require.NotNil(t, repo.created)
	assert.Equal(t, posting.ID, repo.created.ID)
}

func TestCreateJobRejectsMissingFields(t *testing.T) {
	svc := newTestService(newStubJobRepo(), "{}")

	_, err := svc.CreateJob(context.Background(), job.CreateJobRequest{Title: "No description"})

	assert.Error(t, err)
}

func TestCreateJobSurvivesExtractionFallback(t *testing.T) {
	repo := newStubJobRepo()
	svc := newTestService(repo, "not json at all")

	posting, err := svc.CreateJob(context.Background(), job.CreateJobRequest{
		Title:       "Backend Engineer",
		Description: "We need a Go engineer.",
	})

	require.NoError(t, err)
	assert.Equal(t, "", posting.RequiredSkills)
	assert.Equal(t, "", posting.Summary)
	assert.False(t, posting.HasExtraction())
}

func TestUpdateJobReextractsOnDescriptionChange(t *testing.T) {
	repo := newStubJobRepo()
	svc := newTestService(repo, `{"required_skills": "Rust", "required_experience": "", "required_qualifications": "", "responsibilities": "", "summary": "Systems role."}`)

	existing := &job.JobPosting{
		ID:             kernel.JobID("j1"),
		Title:          "Backend Engineer",
		Description:    "old description",
		RequiredSkills: "Go",
	}
	repo.postings[existing.ID] = existing

	desc := kernel.JobDescription("new description")
	posting, err := svc.UpdateJob(context.Background(), existing.ID, job.UpdateJobRequest{Description: &desc})

	require.NoError(t, err)
	assert.Equal(t, "Rust", posting.RequiredSkills)
	assert.Equal(t, "Systems role.", posting.Summary)
	require.NotNil(t, repo.updated)
}

func TestUpdateJobNoChangesSkipsPersist(t *testing.T) {
	repo := newStubJobRepo()
	svc := newTestService(repo, "{}")

	existing := &job.JobPosting{ID: kernel.JobID("j1"), Title: "Backend Engineer"}
	repo.postings[existing.ID] = existing

	title := kernel.JobTitle("Backend Engineer")
	_, err := svc.UpdateJob(context.Background(), existing.ID, job.UpdateJobRequest{Title: &title})

	require.NoError(t, err)
	assert.Nil(t, repo.updated)
}

func TestReprocessJobRefreshesAttributes(t *testing.T) {
	repo := newStubJobRepo()
	svc := newTestService(repo, `{"required_skills": "Go, Kubernetes", "required_experience": "3 years", "required_qualifications": "", "responsibilities": "", "summary": "Platform role."}`)

	existing := &job.JobPosting{
		ID:          kernel.JobID("j1"),
		Title:       "Platform Engineer",
		Description: "Kubernetes platform work.",
	}
	repo.postings[existing.ID] = existing

	posting, err := svc.ReprocessJob(context.Background(), existing.ID)

	require.NoError(t, err)
	assert.Equal(t, "Go, Kubernetes", posting.RequiredSkills)
	require.NotNil(t, repo.updated)
}

func TestReprocessJobNotFound(t *testing.T) {
	svc := newTestService(newStubJobRepo(), "{}")

	_, err := svc.ReprocessJob(context.Background(), kernel.JobID("missing"))

	assert.Error(t, err)
}

func TestGetJobByIDNotFound(t *testing.T) {
	svc := newTestService(newStubJobRepo(), "{}")

	_, err := svc.GetJobByID(context.Background(), kernel.JobID("missing"))

	require.Error(t, err)
	assert.True(t, errx.IsType(err, errx.TypeNotFound))
}

func TestGetJobByIDPropagatesRepoFailure(t *testing.T) {
	repo := newStubJobRepo()
	repo.getErr = errx.Wrap(errors.New("connection refused"), "failed to get job posting", errx.TypeInternal)
	svc := newTestService(repo, "{}")

	_, err := svc.GetJobByID(context.Background(), kernel.JobID("j1"))

	require.Error(t, err)
	assert.True(t, errx.IsType(err, errx.TypeInternal))
	assert.False(t, errx.IsType(err, errx.TypeNotFound))
}

func TestUpdateJobPropagatesRepoFailure(t *testing.T) {
	repo := newStubJobRepo()
	repo.getErr = errx.Wrap(errors.New("connection refused"), "failed to get job posting", errx.TypeInternal)
	svc := newTestService(repo, "{}")

	title := kernel.JobTitle("Backend Engineer")
	_, err := svc.UpdateJob(context.Background(), kernel.JobID("j1"), job.UpdateJobRequest{Title: &title})

	require.Error(t, err)
	assert.True(t, errx.IsType(err, errx.TypeInternal))
	assert.False(t, errx.IsType(err, errx.TypeNotFound))
}

func TestReprocessJobPropagatesRepoFailure(t *testing.T) {
	repo := newStubJobRepo()
	repo.getErr = errx.Wrap(errors.New("connection refused"), "failed to get job posting", errx.TypeInternal)
	svc := newTestService(repo, "{}")

	_, err := svc.ReprocessJob(context.Background(), kernel.JobID("j1"))

	require.Error(t, err)
	assert.True(t, errx.IsType(err, errx.TypeInternal))
	assert.False(t, errx.IsType(err, errx.TypeNotFound))
}
