package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justsurfingit/job-tracker/internal/apperrors"
	"github.com/justsurfingit/job-tracker/internal/models"
	"github.com/justsurfingit/job-tracker/internal/store/memstore"
)

var epoch = time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	store *memstore.Store
	jobs  *JobService
	tick  time.Time
}

func newFixture() *fixture {
	f := &fixture{store: memstore.New(), tick: epoch}
	clock := func() time.Time { return f.tick }
	f.store.SetClock(clock)
	f.jobs = NewJobService(f.store.Jobs(), nil)
	f.jobs.SetClock(clock)
	return f
}

func (f *fixture) create(t *testing.T, owner string, in JobInput) *models.Job {
	t.Helper()
	f.tick = f.tick.Add(time.Minute)
	j, err := f.jobs.CreateJob(context.Background(), owner, in)
	require.NoError(t, err)
	return j
}

func TestListJobs_PagingDefaults(t *testing.T) {
	f := newFixture()
	for i := 0; i < 7; i++ {
		f.create(t, "u1", JobInput{Title: fmt.Sprintf("Job %d", i), Company: "Acme"})
	}
	ctx := context.Background()

	page, err := f.jobs.ListJobs(ctx, ListJobsParams{OwnerID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Page)
	assert.Equal(t, int64(DefaultLimit), page.Limit)
	assert.Equal(t, int64(7), page.TotalMatching)
	assert.Equal(t, int64(1), page.PagesTotal)
	require.Len(t, page.Jobs, 7)
	assert.Equal(t, "Job 6", page.Jobs[0].Title, "newest first by default")

	page, err = f.jobs.ListJobs(ctx, ListJobsParams{OwnerID: "u1", Page: -3, Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Page)
	assert.Equal(t, int64(MaxLimit), page.Limit)

	page, err = f.jobs.ListJobs(ctx, ListJobsParams{OwnerID: "u1", Page: 3, Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.PagesTotal)
	require.Len(t, page.Jobs, 1)
	assert.Equal(t, "Job 0", page.Jobs[0].Title)

	page, err = f.jobs.ListJobs(ctx, ListJobsParams{OwnerID: "u1", Page: 9, Limit: 3})
	require.NoError(t, err)
	assert.Empty(t, page.Jobs)
	assert.Equal(t, int64(7), page.TotalMatching)
}

func TestListJobs_HugePage(t *testing.T) {
	f := newFixture()
	for i := 0; i < 3; i++ {
		f.create(t, "u1", JobInput{Title: fmt.Sprintf("Job %d", i), Company: "Acme"})
	}

	for _, tt := range []struct {
		page, limit int64
	}{
		{math.MaxInt64 / 50, 100},
		{math.MaxInt64, 1},
		{math.MaxInt64, 0},
	} {
		page, err := f.jobs.ListJobs(context.Background(), ListJobsParams{OwnerID: "u1", Page: tt.page, Limit: tt.limit})
		require.NoError(t, err)
		assert.Empty(t, page.Jobs, "page %d limit %d", tt.page, tt.limit)
		assert.Equal(t, int64(3), page.TotalMatching)
		assert.LessOrEqual(t, page.Page, math.MaxInt64/page.Limit)
	}
}

func TestListJobs_PagesPartitionTheResult(t *testing.T) {
	f := newFixture()
	for i := 0; i < 11; i++ {
		f.create(t, "u1", JobInput{Title: fmt.Sprintf("Job %02d", i), Company: "Acme"})
	}

	seen := map[string]bool{}
	for p := int64(1); p <= 4; p++ {
		page, err := f.jobs.ListJobs(context.Background(), ListJobsParams{OwnerID: "u1", Page: p, Limit: 3, SortBy: "title", SortOrder: "asc"})
		require.NoError(t, err)
		for _, j := range page.Jobs {
			assert.False(t, seen[j.ID], "job %s on two pages", j.ID)
			seen[j.ID] = true
		}
	}
	assert.Len(t, seen, 11)
}

func TestListJobs_FilterSearchSort(t *testing.T) {
	f := newFixture()
	f.create(t, "u1", JobInput{Title: "Backend Engineer", Company: "Acme", Location: "Berlin", Status: models.StatusOffer})
	f.create(t, "u1", JobInput{Title: "Frontend Engineer", Company: "Globex", Location: "Remote"})
	f.create(t, "u1", JobInput{Title: "SRE", Company: "Initech", Location: "berlin"})
	f.create(t, "u2", JobInput{Title: "Backend Engineer", Company: "Acme", Location: "Berlin"})
	ctx := context.Background()

	page, err := f.jobs.ListJobs(ctx, ListJobsParams{OwnerID: "u1", Search: "  BERLIN "})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.TotalMatching)

	page, err = f.jobs.ListJobs(ctx, ListJobsParams{OwnerID: "u1", Status: "offer"})
	require.NoError(t, err)
	require.Len(t, page.Jobs, 1)
	assert.Equal(t, "Acme", page.Jobs[0].Company)

	page, err = f.jobs.ListJobs(ctx, ListJobsParams{OwnerID: "u1", Status: "hired"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalMatching, "unknown status filter is ignored")

	page, err = f.jobs.ListJobs(ctx, ListJobsParams{OwnerID: "u1", SortBy: "company", SortOrder: "asc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme", "Globex", "Initech"}, companies(page.Jobs))

	page, err = f.jobs.ListJobs(ctx, ListJobsParams{OwnerID: "u1", SortBy: "company", SortOrder: "whatever"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme", "Globex", "Initech"}, companies(page.Jobs))

	page, err = f.jobs.ListJobs(ctx, ListJobsParams{OwnerID: "u1", SortBy: "$where"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Initech", "Globex", "Acme"}, companies(page.Jobs), "unknown sort falls back to createdAt desc")

	page, err = f.jobs.ListJobs(ctx, ListJobsParams{OwnerID: "u1", Search: ".*"})
	require.NoError(t, err)
	assert.Zero(t, page.TotalMatching, "search is literal")
}

func companies(jobs []*models.Job) []string {
	out := make([]string, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, j.Company)
	}
	return out
}

func TestListJobs_RequiresOwner(t *testing.T) {
	f := newFixture()
	_, err := f.jobs.ListJobs(context.Background(), ListJobsParams{})
	assert.Equal(t, apperrors.ErrTypeUnauthorized, apperrors.TypeOf(err))
}

func TestStats(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	stats, err := f.jobs.Stats(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.JobStats{}, stats)

	f.create(t, "u1", JobInput{Title: "a", Company: "A"})
	f.create(t, "u1", JobInput{Title: "b", Company: "B", Status: models.StatusOffer})
	f.create(t, "u1", JobInput{Title: "c", Company: "C", Status: models.StatusOffer})
	f.create(t, "u1", JobInput{Title: "d", Company: "D", Status: models.StatusRejected})
	f.create(t, "u2", JobInput{Title: "e", Company: "E", Status: models.StatusInterviewing})

	stats, err = f.jobs.Stats(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.JobStats{Total: 4, Applied: 1, Offers: 2, Rejected: 1}, stats)
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	job := f.create(t, "u1", JobInput{Title: "SRE", Company: "Acme", Notes: "keep me"})

	f.tick = f.tick.Add(time.Hour)
	updated, err := f.jobs.UpdateStatus(ctx, "u1", job.ID, "interviewing")
	require.NoError(t, err)
	assert.Equal(t, models.StatusInterviewing, updated.Status)
	assert.Equal(t, f.tick, updated.UpdatedAt)
	assert.Equal(t, job.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "keep me", updated.Notes)

	// any status may follow any other
	updated, err = f.jobs.UpdateStatus(ctx, "u1", strings.ToUpper(job.ID), "applied")
	require.NoError(t, err)
	assert.Equal(t, models.StatusApplied, updated.Status)
}

func TestUpdateStatus_SameStatus(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	job := f.create(t, "u1", JobInput{Title: "SRE", Company: "Acme", Location: "Berlin", Notes: "keep me"})

	f.tick = f.tick.Add(time.Hour)
	first, err := f.jobs.UpdateStatus(ctx, "u1", job.ID, "interviewing")
	require.NoError(t, err)

	f.tick = f.tick.Add(time.Hour)
	second, err := f.jobs.UpdateStatus(ctx, "u1", job.ID, "interviewing")
	require.NoError(t, err)
	assert.Equal(t, models.StatusInterviewing, second.Status)
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
	assert.Equal(t, f.tick, second.UpdatedAt)

	second.Status, second.UpdatedAt = first.Status, first.UpdatedAt
	assert.Equal(t, first, second, "only status and updatedAt may change")
	assert.Equal(t, job.CreatedAt, second.CreatedAt)
	assert.Equal(t, job.AppliedDate, second.AppliedDate)
}

func TestUpdateStatus_Errors(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	job := f.create(t, "u1", JobInput{Title: "SRE", Company: "Acme"})

	_, err := f.jobs.UpdateStatus(ctx, "u1", job.ID, "hired")
	assert.True(t, apperrors.IsInvalidInput(err))

	// status is checked before the id
	_, err = f.jobs.UpdateStatus(ctx, "u1", "bad", "hired")
	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "Valid status is required", de.Message)

	_, err = f.jobs.UpdateStatus(ctx, "u1", "bad", "offer")
	assert.True(t, apperrors.IsInvalidInput(err))

	_, err = f.jobs.UpdateStatus(ctx, "u1", models.NewID(), "offer")
	assert.True(t, apperrors.IsNotFound(err))

	_, err = f.jobs.UpdateStatus(ctx, "u2", job.ID, "offer")
	assert.True(t, apperrors.IsNotFound(err))

	got, err := f.jobs.GetJob(ctx, "u1", job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApplied, got.Status)
}

func TestDeleteJobs(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.create(t, "u1", JobInput{Title: "a", Company: "A"})
	b := f.create(t, "u1", JobInput{Title: "b", Company: "B"})
	c := f.create(t, "u2", JobInput{Title: "c", Company: "C"})

	n, err := f.jobs.DeleteJobs(ctx, "u1", []string{a.ID, c.ID, models.NewID()})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = f.jobs.GetJob(ctx, "u2", c.ID)
	assert.NoError(t, err, "other owners' jobs survive")
	_, err = f.jobs.GetJob(ctx, "u1", b.ID)
	assert.NoError(t, err)

	n, err = f.jobs.DeleteJobs(ctx, "u1", []string{a.ID})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDeleteJobs_Rejects(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.create(t, "u1", JobInput{Title: "a", Company: "A"})

	_, err := f.jobs.DeleteJobs(ctx, "u1", nil)
	assert.True(t, apperrors.IsInvalidInput(err))

	_, err = f.jobs.DeleteJobs(ctx, "u1", []string{a.ID, "nope", "123"})
	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, apperrors.ErrTypeInvalidInput, de.Type)
	assert.Equal(t, map[string]any{"invalidIds": []string{"nope", "123"}}, de.Details)

	_, err = f.jobs.GetJob(ctx, "u1", a.ID)
	assert.NoError(t, err, "nothing deleted when an id is malformed")
}

func TestCreateJob(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	job := f.create(t, "u1", JobInput{Title: "  SRE ", Company: " Acme", Salary: "  "})
	assert.Equal(t, "SRE", job.Title)
	assert.Equal(t, "Acme", job.Company)
	assert.Empty(t, job.Salary)
	assert.Equal(t, models.StatusApplied, job.Status)
	assert.Equal(t, f.tick, job.AppliedDate)
	assert.Equal(t, "u1", job.UserID)

	_, err := f.jobs.CreateJob(ctx, "u1", JobInput{Title: " ", Company: "Acme", JobURL: "nope"})
	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, apperrors.ErrTypeInvalidInput, de.Type)
	vs, ok := de.Details.([]models.Violation)
	require.True(t, ok)
	assert.Len(t, vs, 2)
}

func TestUpdateJob(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	applied := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	job := f.create(t, "u1", JobInput{Title: "SRE", Company: "Acme", Location: "Berlin", AppliedDate: &applied})

	updated, err := f.jobs.UpdateJob(ctx, "u1", job.ID, JobInput{Title: "Senior SRE", Company: "Acme", Status: models.StatusOffer})
	require.NoError(t, err)
	assert.Equal(t, "Senior SRE", updated.Title)
	assert.Empty(t, updated.Location)
	assert.Equal(t, applied, updated.AppliedDate)
	assert.Equal(t, "u1", updated.UserID)

	_, err = f.jobs.UpdateJob(ctx, "u2", job.ID, JobInput{Title: "x", Company: "y"})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUpdateJob_KeepsOmittedStatus(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	job := f.create(t, "u1", JobInput{Title: "SRE", Company: "Acme", Status: models.StatusOffer})

	updated, err := f.jobs.UpdateJob(ctx, "u1", job.ID, JobInput{Title: "Senior SRE", Company: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusOffer, updated.Status)
	assert.Equal(t, "Senior SRE", updated.Title)
	assert.Equal(t, job.AppliedDate, updated.AppliedDate)

	updated, err = f.jobs.UpdateJob(ctx, "u1", job.ID, JobInput{Title: "Senior SRE", Company: "Acme", Status: models.StatusRejected})
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, updated.Status)
}

func TestDeleteJob(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	job := f.create(t, "u1", JobInput{Title: "SRE", Company: "Acme"})

	assert.True(t, apperrors.IsNotFound(f.jobs.DeleteJob(ctx, "u2", job.ID)))
	require.NoError(t, f.jobs.DeleteJob(ctx, "u1", job.ID))
	assert.True(t, apperrors.IsNotFound(f.jobs.DeleteJob(ctx, "u1", job.ID)))
	assert.True(t, apperrors.IsInvalidInput(f.jobs.DeleteJob(ctx, "u1", "nope")))
}
