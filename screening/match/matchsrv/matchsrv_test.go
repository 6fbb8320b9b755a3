package matchsrv

import (
	"context"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/Abraxas-365/sift/pkg/errx"
	"github.com/Abraxas-365/sift/pkg/kernel"
	"github.com/Abraxas-365/sift/screening/candidate"
	"github.com/Abraxas-365/sift/screening/job"
	"github.com/Abraxas-365/sift/screening/match"
	"github.com/Abraxas-365/sift/screening/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Stubs
// ============================================================================

type pairKey struct {
	jobID       kernel.JobID
	candidateID kernel.CandidateID
}

type stubMatchRepo struct {
	matches     map[kernel.MatchID]*match.Match
	byPair      map[pairKey]*match.Match
	shortlisted []kernel.MatchID
	stats       *match.MatchStats
}

func newStubMatchRepo() *stubMatchRepo {
	return &stubMatchRepo{
		matches: make(map[kernel.MatchID]*match.Match),
		byPair:  make(map[pairKey]*match.Match),
	}
}

func (r *stubMatchRepo) add(m *match.Match) {
	r.matches[m.ID] = m
	r.byPair[pairKey{m.JobID, m.CandidateID}] = m
}

func (r *stubMatchRepo) Create(ctx context.Context, m *match.Match) error {
	if _, ok := r.byPair[pairKey{m.JobID, m.CandidateID}]; ok {
		return match.ErrMatchAlreadyExists()
	}
	r.add(m)
	return nil
}

func (r *stubMatchRepo) Update(ctx context.Context, id kernel.MatchID, m *match.Match) error {
	if _, ok := r.matches[id]; !ok {
		return match.ErrMatchNotFound()
	}
	r.add(m)
	return nil
}

func (r *stubMatchRepo) GetByID(ctx context.Context, id kernel.MatchID) (*match.Match, error) {
	m, ok := r.matches[id]
	if !ok {
		return nil, match.ErrMatchNotFound()
	}
	return m, nil
}

func (r *stubMatchRepo) GetByJobAndCandidate(ctx context.Context, jobID kernel.JobID, candidateID kernel.CandidateID) (*match.Match, error) {
	m, ok := r.byPair[pairKey{jobID, candidateID}]
	if !ok {
		return nil, match.ErrMatchNotFound()
	}
	return m, nil
}

func (r *stubMatchRepo) Delete(ctx context.Context, id kernel.MatchID) error {
	m, ok := r.matches[id]
	if !ok {
		return match.ErrMatchNotFound()
	}
	delete(r.matches, id)
	delete(r.byPair, pairKey{m.JobID, m.CandidateID})
	return nil
}

func (r *stubMatchRepo) ListByJob(ctx context.Context, jobID kernel.JobID) ([]match.Match, error) {
	var out []match.Match
	for _, m := range r.matches {
		if m.JobID == jobID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *stubMatchRepo) ListShortlistedByJob(ctx context.Context, jobID kernel.JobID) ([]match.Match, error) {
	var out []match.Match
	for _, m := range r.matches {
		if m.JobID == jobID && m.IsShortlisted {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *stubMatchRepo) SetShortlisted(ctx context.Context, jobID kernel.JobID, ids []kernel.MatchID) error {
	r.shortlisted = ids
	flagged := make(map[kernel.MatchID]bool, len(ids))
	for _, id := range ids {
		flagged[id] = true
	}
	for id, m := range r.matches {
		if m.JobID == jobID {
			m.IsShortlisted = flagged[id]
		}
	}
	return nil
}

func (r *stubMatchRepo) Stats(ctx context.Context, jobID kernel.JobID) (*match.MatchStats, error) {
	return r.stats, nil
}

type stubJobRepo struct {
	postings map[kernel.JobID]*job.JobPosting
}

func (r *stubJobRepo) Create(ctx context.Context, p *job.JobPosting) error { return nil }
func (r *stubJobRepo) Update(ctx context.Context, id kernel.JobID, p *job.JobPosting) error {
	return nil
}
func (r *stubJobRepo) GetByID(ctx context.Context, id kernel.JobID) (*job.JobPosting, error) {
	p, ok := r.postings[id]
	if !ok {
		return nil, job.ErrJobNotFound()
	}
	return p, nil
}
func (r *stubJobRepo) Delete(ctx context.Context, id kernel.JobID) error { return nil }
func (r *stubJobRepo) List(ctx context.Context, pagination kernel.PaginationOptions) (*kernel.Paginated[job.JobPosting], error) {
	return &kernel.Paginated[job.JobPosting]{}, nil
}
func (r *stubJobRepo) Exists(ctx context.Context, id kernel.JobID) (bool, error) {
	_, ok := r.postings[id]
	return ok, nil
}
func (r *stubJobRepo) Search(ctx context.Context, query string, pagination kernel.PaginationOptions) (*kernel.Paginated[job.JobPosting], error) {
	return &kernel.Paginated[job.JobPosting]{}, nil
}

type stubCandidateRepo struct {
	candidates map[kernel.CandidateID]*candidate.Candidate
}

func (r *stubCandidateRepo) Create(ctx context.Context, c *candidate.Candidate) error { return nil }
func (r *stubCandidateRepo) Update(ctx context.Context, id kernel.CandidateID, c *candidate.Candidate) error {
	return nil
}
func (r *stubCandidateRepo) GetByID(ctx context.Context, id kernel.CandidateID) (*candidate.Candidate, error) {
	c, ok := r.candidates[id]
	if !ok {
		return nil, candidate.ErrCandidateNotFound()
	}
	return c, nil
}
func (r *stubCandidateRepo) GetByEmail(ctx context.Context, email string) (*candidate.Candidate, error) {
	return nil, candidate.ErrCandidateNotFound()
}
func (r *stubCandidateRepo) Delete(ctx context.Context, id kernel.CandidateID) error { return nil }
func (r *stubCandidateRepo) List(ctx context.Context, pagination kernel.PaginationOptions) (*kernel.Paginated[candidate.Candidate], error) {
	items := make([]candidate.Candidate, 0, len(r.candidates))
	for _, c := range r.candidates {
		items = append(items, *c)
	}
	return &kernel.Paginated[candidate.Candidate]{
		Items: items,
		Page:  kernel.Page{Number: pagination.Page, Size: pagination.PageSize, Total: len(items), Pages: 1},
		Empty: len(items) == 0,
	}, nil
}
func (r *stubCandidateRepo) Exists(ctx context.Context, id kernel.CandidateID) (bool, error) {
	_, ok := r.candidates[id]
	return ok, nil
}
func (r *stubCandidateRepo) SemanticSearch(ctx context.Context, embedding kernel.CandidateEmbedding, limit int) ([]candidate.SearchHit, error) {
	return nil, nil
}

type stubQueue struct {
	enqueued []*match.MatchingJob
}

func (q *stubQueue) Enqueue(ctx context.Context, j *match.MatchingJob) error {
	q.enqueued = append(q.enqueued, j)
	return nil
}
func (q *stubQueue) EnqueueDelayed(ctx context.Context, j *match.MatchingJob, delay time.Duration) error {
	return nil
}
func (q *stubQueue) Dequeue(ctx context.Context, timeout time.Duration) ([]byte, error) {
	return nil, nil
}
func (q *stubQueue) MoveDelayedToReady(ctx context.Context) (int, error) { return 0, nil }
func (q *stubQueue) GetQueueSize(ctx context.Context) (int64, error)     { return 0, nil }
func (q *stubQueue) Ping(ctx context.Context) error                      { return nil }

// ============================================================================
// Fixtures
// ============================================================================

// scoringGenerator answers "85" to scoring prompts and canned JSON to
// extraction prompts.
func scoringGenerator(ctx context.Context, prompt, systemPrompt string, maxTokens int) (string, error) {
	switch {
	case strings.Contains(systemPrompt, "match score"):
		return "85", nil
	case strings.Contains(systemPrompt, "job description"):
		return `{"required_skills": "Go", "required_experience": "", "required_qualifications": "", "responsibilities": "", "summary": ""}`, nil
	case strings.Contains(systemPrompt, "resume"):
		return `{"education": "", "experience": "", "skills": "Go", "certifications": ""}`, nil
	default:
		return "Dear candidate, we would love to interview you.", nil
	}
}

func newFixture(maxShortlist int) (*MatchService, *stubMatchRepo, *stubJobRepo, *stubCandidateRepo, *stubQueue) {
	matchRepo := newStubMatchRepo()
	jobRepo := &stubJobRepo{postings: make(map[kernel.JobID]*job.JobPosting)}
	candidateRepo := &stubCandidateRepo{candidates: make(map[kernel.CandidateID]*candidate.Candidate)}
	queue := &stubQueue{}

	pipe := pipeline.New(pipeline.GeneratorFunc(scoringGenerator), rand.New(rand.NewSource(7)), pipeline.Config{
		MaxShortlist:      maxShortlist,
		Threshold:         50.0,
		CompanyName:       "Initech",
		SlotsPerCandidate: 3,
	})

	svc := NewMatchService(matchRepo, jobRepo, candidateRepo, queue, pipe)
	return svc, matchRepo, jobRepo, candidateRepo, queue
}

func seedJob(jobRepo *stubJobRepo) *job.JobPosting {
	posting := &job.JobPosting{
		ID:             kernel.JobID("j1"),
		Title:          "Backend Engineer",
		Description:    "Go services",
		RequiredSkills: "Go, SQL",
	}
	jobRepo.postings[posting.ID] = posting
	return posting
}

func seedCandidate(candidateRepo *stubCandidateRepo, id, name string) *candidate.Candidate {
	c := &candidate.Candidate{
		ID:     kernel.CandidateID(id),
		Name:   name,
		Email:  name + "@example.com",
		Skills: "Go, Postgres",
	}
	candidateRepo.candidates[c.ID] = c
	return c
}

// ============================================================================
// Tests
// ============================================================================

func TestMatchCandidateCreatesMatch(t *testing.T) {
	svc, matchRepo, jobRepo, candidateRepo, _ := newFixture(5)
	seedJob(jobRepo)
	seedCandidate(candidateRepo, "c1", "ada")

	m, err := svc.MatchCandidate(context.Background(), kernel.JobID("j1"), kernel.CandidateID("c1"))

	require.NoError(t, err)
	assert.False(t, m.ID.IsEmpty())
	assert.InDelta(t, 85.0, m.MatchScore, 1e-9)
	assert.Len(t, matchRepo.matches, 1)
}

func TestMatchCandidateIsIdempotent(t *testing.T) {
	svc, matchRepo, jobRepo, candidateRepo, _ := newFixture(5)
	seedJob(jobRepo)
	seedCandidate(candidateRepo, "c1", "ada")

	existing := &match.Match{
		ID:          kernel.MatchID("m1"),
		JobID:       kernel.JobID("j1"),
		CandidateID: kernel.CandidateID("c1"),
		MatchScore:  42.0,
	}
	matchRepo.add(existing)

	m, err := svc.MatchCandidate(context.Background(), kernel.JobID("j1"), kernel.CandidateID("c1"))

	require.NoError(t, err)
	assert.Equal(t, kernel.MatchID("m1"), m.ID)
	assert.InDelta(t, 42.0, m.MatchScore, 1e-9)
	assert.Len(t, matchRepo.matches, 1)
}

func TestMatchCandidateUnknownJob(t *testing.T) {
	svc, _, _, candidateRepo, _ := newFixture(5)
	seedCandidate(candidateRepo, "c1", "ada")

	_, err := svc.MatchCandidate(context.Background(), kernel.JobID("missing"), kernel.CandidateID("c1"))

	require.Error(t, err)
	assert.True(t, errx.IsType(err, errx.TypeNotFound))
}

func TestMatchAllCandidatesAbsorbsFailures(t *testing.T) {
	svc, matchRepo, jobRepo, candidateRepo, _ := newFixture(5)
	seedJob(jobRepo)
	seedCandidate(candidateRepo, "c1", "ada")
	seedCandidate(candidateRepo, "c2", "grace")

	resp, err := svc.MatchAllCandidates(context.Background(), kernel.JobID("j1"))

	require.NoError(t, err)
	assert.Equal(t, 2, resp.Matched)
	assert.Equal(t, 0, resp.Failed)
	assert.Len(t, matchRepo.matches, 2)
}

func TestMatchAllAsyncEnqueues(t *testing.T) {
	svc, _, jobRepo, _, queue := newFixture(5)
	seedJob(jobRepo)

	resp, err := svc.MatchAllAsync(context.Background(), kernel.JobID("j1"))

	require.NoError(t, err)
	assert.Equal(t, "queued", resp.Status)
	require.Len(t, queue.enqueued, 1)
	assert.Equal(t, kernel.JobID("j1"), queue.enqueued[0].JobID)
	assert.True(t, queue.enqueued[0].CandidateID.IsEmpty())
}

func TestShortlistForJobKeepsTopScorers(t *testing.T) {
	svc, matchRepo, jobRepo, _, _ := newFixture(2)
	seedJob(jobRepo)

	matchRepo.add(&match.Match{ID: "m1", JobID: "j1", CandidateID: "c1", MatchScore: 80})
	matchRepo.add(&match.Match{ID: "m2", JobID: "j1", CandidateID: "c2", MatchScore: 60})
	matchRepo.add(&match.Match{ID: "m3", JobID: "j1", CandidateID: "c3", MatchScore: 40})

	shortlisted, err := svc.ShortlistForJob(context.Background(), kernel.JobID("j1"))

	require.NoError(t, err)
	assert.Len(t, shortlisted, 2)
	assert.ElementsMatch(t, []kernel.MatchID{"m1", "m2"}, matchRepo.shortlisted)
	assert.False(t, matchRepo.matches["m3"].IsShortlisted)
}

func TestShortlistBackfillsBelowThreshold(t *testing.T) {
	svc, matchRepo, jobRepo, _, _ := newFixture(3)
	seedJob(jobRepo)

	matchRepo.add(&match.Match{ID: "m1", JobID: "j1", CandidateID: "c1", MatchScore: 80})
	matchRepo.add(&match.Match{ID: "m2", JobID: "j1", CandidateID: "c2", MatchScore: 45})
	matchRepo.add(&match.Match{ID: "m3", JobID: "j1", CandidateID: "c3", MatchScore: 30})

	shortlisted, err := svc.ShortlistForJob(context.Background(), kernel.JobID("j1"))

	require.NoError(t, err)
	assert.Len(t, shortlisted, 3)
	assert.ElementsMatch(t, []kernel.MatchID{"m1", "m2", "m3"}, matchRepo.shortlisted)
}

func TestScheduleInterviewsProposesSlots(t *testing.T) {
	svc, matchRepo, jobRepo, candidateRepo, _ := newFixture(5)
	seedJob(jobRepo)
	seedCandidate(candidateRepo, "c1", "ada")

	matchRepo.add(&match.Match{ID: "m1", JobID: "j1", CandidateID: "c1", MatchScore: 80, IsShortlisted: true})

	proposals, err := svc.ScheduleInterviews(context.Background(), kernel.JobID("j1"))

	require.NoError(t, err)
	require.Len(t, proposals, 1)
	assert.Equal(t, kernel.CandidateID("c1"), proposals[0].CandidateID)
	assert.True(t, proposals[0].InterviewDate.After(time.Now()))
	assert.Contains(t, pipeline.Modalities, proposals[0].Format)
	assert.NotEmpty(t, proposals[0].Invitation)
	assert.NotEmpty(t, proposals[0].ProposedSlots)

	updated := matchRepo.matches["m1"]
	assert.True(t, updated.InterviewScheduled)
	require.NotNil(t, updated.InterviewDate)
}

func TestScheduleInterviewsSkipsAlreadyScheduled(t *testing.T) {
	svc, matchRepo, jobRepo, candidateRepo, _ := newFixture(5)
	seedJob(jobRepo)
	seedCandidate(candidateRepo, "c1", "ada")

	date := time.Now().Add(48 * time.Hour)
	matchRepo.add(&match.Match{
		ID: "m1", JobID: "j1", CandidateID: "c1", MatchScore: 80,
		IsShortlisted: true, InterviewScheduled: true, InterviewDate: &date,
	})

	proposals, err := svc.ScheduleInterviews(context.Background(), kernel.JobID("j1"))

	require.NoError(t, err)
	assert.Empty(t, proposals)
}

func TestScheduleInterviewsEmptyShortlist(t *testing.T) {
	svc, _, jobRepo, _, _ := newFixture(5)
	seedJob(jobRepo)

	_, err := svc.ScheduleInterviews(context.Background(), kernel.JobID("j1"))

	require.Error(t, err)
	assert.True(t, errx.IsType(err, errx.TypeBusiness))
}

func TestGetJobWithCandidatesJoinsProfiles(t *testing.T) {
	svc, matchRepo, jobRepo, candidateRepo, _ := newFixture(5)
	seedJob(jobRepo)
	seedCandidate(candidateRepo, "c1", "ada")

	matchRepo.add(&match.Match{ID: "m1", JobID: "j1", CandidateID: "c1", MatchScore: 85})

	resp, err := svc.GetJobWithCandidates(context.Background(), kernel.JobID("j1"))

	require.NoError(t, err)
	assert.Equal(t, kernel.JobTitle("Backend Engineer"), resp.Job.Title)
	require.Len(t, resp.Candidates, 1)
	assert.Equal(t, "ada", resp.Candidates[0].Name)
	assert.InDelta(t, 85.0, resp.Candidates[0].MatchScore, 1e-9)
}

func TestProcessMatchingJobRunsMatchAll(t *testing.T) {
	svc, matchRepo, jobRepo, candidateRepo, _ := newFixture(5)
	seedJob(jobRepo)
	seedCandidate(candidateRepo, "c1", "ada")

	err := svc.ProcessMatchingJob(context.Background(), &match.MatchingJob{
		ID:    "run-1",
		JobID: kernel.JobID("j1"),
	})

	require.NoError(t, err)
	assert.Len(t, matchRepo.matches, 1)
}
