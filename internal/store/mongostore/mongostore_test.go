package mongostore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/justsurfingit/job-tracker/internal/apperrors"
	"github.com/justsurfingit/job-tracker/internal/models"
	"github.com/justsurfingit/job-tracker/internal/store"
)

const ns = "jobtracker.jobs"

func newMock(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func jobDoc(id primitive.ObjectID, owner, title string, status models.Status) bson.D {
	ts := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "userId", Value: owner},
		{Key: "title", Value: title},
		{Key: "company", Value: "Acme"},
		{Key: "status", Value: string(status)},
		{Key: "appliedDate", Value: ts},
		{Key: "createdAt", Value: ts},
		{Key: "updatedAt", Value: ts},
	}
}

func TestJobFilter(t *testing.T) {
	f := jobFilter(store.JobQuery{OwnerID: "u1"})
	assert.Equal(t, bson.M{"userId": "u1"}, f)

	f = jobFilter(store.JobQuery{OwnerID: "u1", Status: models.StatusOffer, Search: "c++ (remote)"})
	assert.Equal(t, "offer", f["status"])

	or, ok := f["$or"].(bson.A)
	require.True(t, ok)
	require.Len(t, or, 3)
	title := or[0].(bson.M)["title"].(primitive.Regex)
	assert.Equal(t, `c\+\+ \(remote\)`, title.Pattern)
	assert.Equal(t, "i", title.Options)
}

func TestJobRepository(t *testing.T) {
	mt := newMock(t)

	mt.Run("create assigns id and timestamps", func(mt *mtest.T) {
		s := New(mt.Coll.Database(), nil)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		job := &models.Job{UserID: "u1", Title: "SRE", Company: "Acme", Status: models.StatusApplied}
		require.NoError(t, s.Jobs().Create(context.Background(), job))
		assert.True(t, models.IsValidID(job.ID))
		assert.False(t, job.CreatedAt.IsZero())
		assert.Equal(t, job.CreatedAt, job.UpdatedAt)
	})

	mt.Run("find decodes a page", func(mt *mtest.T) {
		s := New(mt.Coll.Database(), nil)
		a, b := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			jobDoc(a, "u1", "SRE", models.StatusApplied),
			jobDoc(b, "u1", "Backend", models.StatusOffer),
		))

		jobs, err := s.Jobs().Find(context.Background(), store.JobQuery{OwnerID: "u1", Limit: 10, SortDesc: true})
		require.NoError(t, err)
		require.Len(t, jobs, 2)
		assert.Equal(t, a.Hex(), jobs[0].ID)
		assert.Equal(t, models.StatusOffer, jobs[1].Status)
	})

	mt.Run("count", func(mt *mtest.T) {
		s := New(mt.Coll.Database(), nil)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: int32(3)}}))

		n, err := s.Jobs().Count(context.Background(), store.JobQuery{OwnerID: "u1"})
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
	})

	mt.Run("count by status", func(mt *mtest.T) {
		s := New(mt.Coll.Database(), nil)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "applied"}, {Key: "count", Value: int32(4)}},
			bson.D{{Key: "_id", Value: "offer"}, {Key: "count", Value: int32(1)}},
		))

		counts, err := s.Jobs().CountByStatus(context.Background(), "u1")
		require.NoError(t, err)
		assert.Equal(t, map[models.Status]int64{models.StatusApplied: 4, models.StatusOffer: 1}, counts)
	})

	mt.Run("find by id missing", func(mt *mtest.T) {
		s := New(mt.Coll.Database(), nil)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := s.Jobs().FindByID(context.Background(), "u1", primitive.NewObjectID().Hex())
		assert.True(t, apperrors.IsNotFound(err))
	})

	mt.Run("find by malformed id", func(mt *mtest.T) {
		s := New(mt.Coll.Database(), nil)
		_, err := s.Jobs().FindByID(context.Background(), "u1", "nope")
		assert.True(t, apperrors.IsNotFound(err))
	})

	mt.Run("update status returns the new document", func(mt *mtest.T) {
		s := New(mt.Coll.Database(), nil)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "value", Value: jobDoc(id, "u1", "SRE", models.StatusInterviewing)},
		))

		job, err := s.Jobs().UpdateStatus(context.Background(), "u1", id.Hex(), models.StatusInterviewing, time.Now())
		require.NoError(t, err)
		assert.Equal(t, models.StatusInterviewing, job.Status)
		assert.Equal(t, id.Hex(), job.ID)
	})

	mt.Run("update status on foreign job", func(mt *mtest.T) {
		s := New(mt.Coll.Database(), nil)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, err := s.Jobs().UpdateStatus(context.Background(), "u2", primitive.NewObjectID().Hex(), models.StatusOffer, time.Now())
		assert.True(t, apperrors.IsNotFound(err))
	})

	mt.Run("delete missing", func(mt *mtest.T) {
		s := New(mt.Coll.Database(), nil)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		err := s.Jobs().Delete(context.Background(), "u1", primitive.NewObjectID().Hex())
		assert.True(t, apperrors.IsNotFound(err))
	})

	mt.Run("delete many", func(mt *mtest.T) {
		s := New(mt.Coll.Database(), nil)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 2}))

		ids := []string{primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex()}
		n, err := s.Jobs().DeleteMany(context.Background(), "u1", ids)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})

	mt.Run("delete many without valid ids skips the round trip", func(mt *mtest.T) {
		s := New(mt.Coll.Database(), nil)
		n, err := s.Jobs().DeleteMany(context.Background(), "u1", []string{"x"})
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	mt.Run("command errors are unavailable", func(mt *mtest.T) {
		s := New(mt.Coll.Database(), nil)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Message: "boom",
			Name:    "BadValue",
		}))

		_, err := s.Jobs().Count(context.Background(), store.JobQuery{OwnerID: "u1"})
		assert.Equal(t, apperrors.ErrTypeUnavailable, apperrors.TypeOf(err))
	})
}

func TestGoalRepository(t *testing.T) {
	mt := newMock(t)

	mt.Run("upsert", func(mt *mtest.T) {
		s := New(mt.Coll.Database(), nil)
		id := primitive.NewObjectID()
		ts := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "_id", Value: id},
			{Key: "userId", Value: "u1"},
			{Key: "target", Value: 25},
			{Key: "month", Value: 1},
			{Key: "year", Value: 2026},
			{Key: "createdAt", Value: ts},
			{Key: "updatedAt", Value: ts},
		}}))

		g, err := s.Goals().Upsert(context.Background(), &models.Goal{UserID: "u1", Target: 25, Month: 1, Year: 2026})
		require.NoError(t, err)
		assert.Equal(t, id.Hex(), g.ID)
		assert.Equal(t, 25, g.Target)
	})

	mt.Run("find missing", func(mt *mtest.T) {
		s := New(mt.Coll.Database(), nil)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "jobtracker.goals", mtest.FirstBatch))

		_, err := s.Goals().Find(context.Background(), "u1", 1, 2026)
		assert.True(t, apperrors.IsNotFound(err))
	})

	mt.Run("delete is idempotent", func(mt *mtest.T) {
		s := New(mt.Coll.Database(), nil)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		assert.NoError(t, s.Goals().Delete(context.Background(), "u1", 1, 2026))
	})
}

func TestScheduleRepository(t *testing.T) {
	mt := newMock(t)

	mt.Run("list", func(mt *mtest.T) {
		s := New(mt.Coll.Database(), nil)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "jobtracker.schedules", mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "userId", Value: "u1"},
				{Key: "title", Value: "Onsite"},
				{Key: "type", Value: "interview"},
				{Key: "date", Value: "2026-03-02"},
				{Key: "time", Value: "09:30"},
				{Key: "isCompleted", Value: false},
				{Key: "priority", Value: "high"},
			},
		))

		list, err := s.Schedules().List(context.Background(), "u1")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, models.ScheduleInterview, list[0].Type)
		assert.Nil(t, list[0].DueDate)
	})

	mt.Run("set completed on missing", func(mt *mtest.T) {
		s := New(mt.Coll.Database(), nil)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, err := s.Schedules().SetCompleted(context.Background(), "u1", primitive.NewObjectID().Hex(), true)
		assert.True(t, apperrors.IsNotFound(err))
	})
}
