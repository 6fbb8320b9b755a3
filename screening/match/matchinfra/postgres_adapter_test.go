package matchinfra

import (
	"context"
	"testing"
	"time"

	"github.com/Abraxas-365/sift/pkg/errx"
	"github.com/Abraxas-365/sift/pkg/kernel"
	"github.com/Abraxas-365/sift/screening/match"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*PostgresMatchRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresMatchRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func sampleMatch() *match.Match {
	now := time.Now()
	return &match.Match{
		ID:          kernel.MatchID("m1"),
		JobID:       kernel.JobID("j1"),
		CandidateID: kernel.CandidateID("c1"),
		MatchScore:  72.5,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func matchColumnNames() []string {
	return []string{
		"id", "job_id", "candidate_id", "match_score", "is_shortlisted",
		"interview_scheduled", "interview_date", "interview_format",
		"interview_email", "created_at", "updated_at",
	}
}

func TestCreateInsertsMatch(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("INSERT INTO matches").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), sampleMatch())

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDuplicatePairMapsToAlreadyExists(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("INSERT INTO matches").
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), sampleMatch())

	require.Error(t, err)
	assert.True(t, errx.IsType(err, errx.TypeConflict))
}

func TestGetByJobAndCandidateNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM matches WHERE job_id").
		WithArgs("j1", "missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByJobAndCandidate(context.Background(), kernel.JobID("j1"), kernel.CandidateID("missing"))

	require.Error(t, err)
	assert.True(t, errx.IsType(err, errx.TypeNotFound))
}

func TestGetByIDParsesInterviewDate(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()
	interview := now.Add(72 * time.Hour)

	rows := sqlmock.NewRows(matchColumnNames()).
		AddRow("m1", "j1", "c1", 72.5, true, true, interview, "Video Call", "Dear Ada...", now, now)

	mock.ExpectQuery("SELECT (.+) FROM matches WHERE id").
		WithArgs("m1").
		WillReturnRows(rows)

	m, err := repo.GetByID(context.Background(), kernel.MatchID("m1"))

	require.NoError(t, err)
	assert.True(t, m.InterviewScheduled)
	require.NotNil(t, m.InterviewDate)
	assert.Equal(t, "Video Call", m.InterviewFormat)
}

func TestListByJobOrdersByScore(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	rows := sqlmock.NewRows(matchColumnNames()).
		AddRow("m1", "j1", "c1", 90.0, false, false, nil, "", "", now, now).
		AddRow("m2", "j1", "c2", 60.0, false, false, nil, "", "", now, now)

	mock.ExpectQuery("SELECT (.+) FROM matches(.+)ORDER BY match_score DESC").
		WithArgs("j1").
		WillReturnRows(rows)

	matches, err := repo.ListByJob(context.Background(), kernel.JobID("j1"))

	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Nil(t, matches[0].InterviewDate)
}

func TestSetShortlistedClearsThenFlags(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE matches SET is_shortlisted = false").
		WithArgs("j1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("UPDATE matches SET is_shortlisted = true").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	err := repo.SetShortlisted(context.Background(), kernel.JobID("j1"),
		[]kernel.MatchID{"m1", "m2"})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetShortlistedEmptyOnlyClears(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE matches SET is_shortlisted = false").
		WithArgs("j1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	err := repo.SetShortlisted(context.Background(), kernel.JobID("j1"), nil)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsAggregates(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := sqlmock.NewRows([]string{
		"total_matches", "shortlisted", "interviews_scheduled",
		"average_score", "highest_score",
	}).AddRow(10, 3, 2, 61.4, 92.0)

	mock.ExpectQuery("SELECT(.+)FROM matches(.+)WHERE job_id").
		WithArgs("j1").
		WillReturnRows(rows)

	stats, err := repo.Stats(context.Background(), kernel.JobID("j1"))

	require.NoError(t, err)
	assert.Equal(t, kernel.JobID("j1"), stats.JobID)
	assert.Equal(t, 10, stats.TotalMatches)
	assert.Equal(t, 3, stats.Shortlisted)
	assert.InDelta(t, 61.4, stats.AverageScore, 1e-9)
}
