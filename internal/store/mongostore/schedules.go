package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/justsurfingit/job-tracker/internal/apperrors"
	"github.com/justsurfingit/job-tracker/internal/models"
	"github.com/justsurfingit/job-tracker/internal/store"
)

type scheduleDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      string             `bson:"userId"`
	Title       string             `bson:"title"`
	Type        string             `bson:"type"`
	DueDate     *time.Time         `bson:"dueDate,omitempty"`
	Date        string             `bson:"date,omitempty"`
	Time        string             `bson:"time,omitempty"`
	Description string             `bson:"description,omitempty"`
	Location    string             `bson:"location,omitempty"`
	JobID       string             `bson:"jobId,omitempty"`
	Reminder    string             `bson:"reminder,omitempty"`
	IsCompleted bool               `bson:"isCompleted"`
	Priority    string             `bson:"priority"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

func (d *scheduleDocument) model() *models.Schedule {
	s := &models.Schedule{
		ID:          d.ID.Hex(),
		UserID:      d.UserID,
		Title:       d.Title,
		Type:        models.ScheduleType(d.Type),
		Date:        d.Date,
		Time:        d.Time,
		Description: d.Description,
		Location:    d.Location,
		JobID:       d.JobID,
		Reminder:    d.Reminder,
		IsCompleted: d.IsCompleted,
		Priority:    models.Priority(d.Priority),
		CreatedAt:   d.CreatedAt.UTC(),
	}
	if d.DueDate != nil {
		due := d.DueDate.UTC()
		s.DueDate = &due
	}
	return s
}

type ScheduleRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

var _ store.ScheduleRepository = (*ScheduleRepository)(nil)

func (r *ScheduleRepository) Create(ctx context.Context, s *models.Schedule) error {
	now := r.now()
	doc := scheduleDocument{
		ID:          primitive.NewObjectID(),
		UserID:      s.UserID,
		Title:       s.Title,
		Type:        string(s.Type),
		DueDate:     s.DueDate,
		Date:        s.Date,
		Time:        s.Time,
		Description: s.Description,
		Location:    s.Location,
		JobID:       s.JobID,
		Reminder:    s.Reminder,
		IsCompleted: s.IsCompleted,
		Priority:    string(s.Priority),
		CreatedAt:   now,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return translate(err, "schedule")
	}

	s.ID = doc.ID.Hex()
	s.CreatedAt = now
	return nil
}

func (r *ScheduleRepository) List(ctx context.Context, ownerID string) ([]*models.Schedule, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}})

	cursor, err := r.coll.Find(ctx, bson.M{"userId": ownerID}, opts)
	if err != nil {
		return nil, translate(err, "schedule")
	}
	defer cursor.Close(ctx)

	var docs []scheduleDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, translate(err, "schedule")
	}

	out := make([]*models.Schedule, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].model())
	}
	return out, nil
}

func (r *ScheduleRepository) SetCompleted(ctx context.Context, ownerID, id string, completed bool) (*models.Schedule, error) {
	filter, ok := ownedByID(ownerID, id)
	if !ok {
		return nil, apperrors.NotFound("schedule not found", nil)
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc scheduleDocument
	err := r.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": bson.M{"isCompleted": completed}}, opts).Decode(&doc)
	if err != nil {
		return nil, translate(err, "schedule")
	}
	return doc.model(), nil
}

func (r *ScheduleRepository) Delete(ctx context.Context, ownerID, id string) error {
	filter, ok := ownedByID(ownerID, id)
	if !ok {
		return apperrors.NotFound("schedule not found", nil)
	}

	res, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return translate(err, "schedule")
	}
	if res.DeletedCount == 0 {
		return apperrors.NotFound("schedule not found", nil)
	}
	return nil
}
