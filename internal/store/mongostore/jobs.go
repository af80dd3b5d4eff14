package mongostore

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/justsurfingit/job-tracker/internal/apperrors"
	"github.com/justsurfingit/job-tracker/internal/models"
	"github.com/justsurfingit/job-tracker/internal/store"
)

type jobDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      string             `bson:"userId"`
	Title       string             `bson:"title"`
	Company     string             `bson:"company"`
	Location    string             `bson:"location,omitempty"`
	Salary      string             `bson:"salary,omitempty"`
	Status      string             `bson:"status"`
	AppliedDate time.Time          `bson:"appliedDate"`
	Notes       string             `bson:"notes,omitempty"`
	JobURL      string             `bson:"jobUrl,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d *jobDocument) model() *models.Job {
	return &models.Job{
		ID:          d.ID.Hex(),
		UserID:      d.UserID,
		Title:       d.Title,
		Company:     d.Company,
		Location:    d.Location,
		Salary:      d.Salary,
		Status:      models.Status(d.Status),
		AppliedDate: d.AppliedDate.UTC(),
		Notes:       d.Notes,
		JobURL:      d.JobURL,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

type JobRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

var _ store.JobRepository = (*JobRepository)(nil)

// jobFilter builds the owner-scoped selector for q. The search term is
// quoted so it always matches literally.
func jobFilter(q store.JobQuery) bson.M {
	filter := bson.M{"userId": q.OwnerID}
	if q.Status != "" {
		filter["status"] = string(q.Status)
	}
	if q.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(q.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"company": pattern},
			bson.M{"location": pattern},
		}
	}
	return filter
}

func ownedByID(ownerID, id string) (bson.M, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, false
	}
	return bson.M{"_id": oid, "userId": ownerID}, true
}

func (r *JobRepository) Create(ctx context.Context, job *models.Job) error {
	now := r.now()
	doc := jobDocument{
		ID:          primitive.NewObjectID(),
		UserID:      job.UserID,
		Title:       job.Title,
		Company:     job.Company,
		Location:    job.Location,
		Salary:      job.Salary,
		Status:      string(job.Status),
		AppliedDate: job.AppliedDate.UTC(),
		Notes:       job.Notes,
		JobURL:      job.JobURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return translate(err, "job")
	}

	job.ID = doc.ID.Hex()
	job.CreatedAt = now
	job.UpdatedAt = now
	return nil
}

func (r *JobRepository) FindByID(ctx context.Context, ownerID, id string) (*models.Job, error) {
	filter, ok := ownedByID(ownerID, id)
	if !ok {
		return nil, apperrors.NotFound("job not found", nil)
	}

	var doc jobDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translate(err, "job")
	}
	return doc.model(), nil
}

func (r *JobRepository) Find(ctx context.Context, q store.JobQuery) ([]*models.Job, error) {
	dir := 1
	if q.SortDesc {
		dir = -1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: q.Sort().Field, Value: dir}, {Key: "_id", Value: dir}}).
		SetSkip(q.Skip)
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}

	cursor, err := r.coll.Find(ctx, jobFilter(q), opts)
	if err != nil {
		return nil, translate(err, "job")
	}
	defer cursor.Close(ctx)

	var docs []jobDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, translate(err, "job")
	}

	jobs := make([]*models.Job, 0, len(docs))
	for i := range docs {
		jobs = append(jobs, docs[i].model())
	}
	return jobs, nil
}

func (r *JobRepository) Count(ctx context.Context, q store.JobQuery) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, jobFilter(q))
	if err != nil {
		return 0, translate(err, "job")
	}
	return n, nil
}

func (r *JobRepository) CountByStatus(ctx context.Context, ownerID string) (map[models.Status]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "userId", Value: ownerID}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, translate(err, "job")
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, translate(err, "job")
	}

	counts := make(map[models.Status]int64, len(rows))
	for _, row := range rows {
		counts[models.Status(row.Status)] += row.Count
	}
	return counts, nil
}

func (r *JobRepository) Update(ctx context.Context, job *models.Job) (*models.Job, error) {
	filter, ok := ownedByID(job.UserID, job.ID)
	if !ok {
		return nil, apperrors.NotFound("job not found", nil)
	}

	set := bson.M{
		"title":       job.Title,
		"company":     job.Company,
		"status":      string(job.Status),
		"appliedDate": job.AppliedDate.UTC(),
		"updatedAt":   r.now(),
	}
	unset := bson.M{}
	optional := map[string]string{
		"location": job.Location,
		"salary":   job.Salary,
		"notes":    job.Notes,
		"jobUrl":   job.JobURL,
	}
	for field, value := range optional {
		if value == "" {
			unset[field] = ""
		} else {
			set[field] = value
		}
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	return r.findOneAndUpdate(ctx, filter, update)
}

func (r *JobRepository) UpdateStatus(ctx context.Context, ownerID, id string, status models.Status, at time.Time) (*models.Job, error) {
	filter, ok := ownedByID(ownerID, id)
	if !ok {
		return nil, apperrors.NotFound("job not found", nil)
	}
	update := bson.M{"$set": bson.M{
		"status":    string(status),
		"updatedAt": at.UTC().Truncate(time.Millisecond),
	}}
	return r.findOneAndUpdate(ctx, filter, update)
}

func (r *JobRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*models.Job, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc jobDocument
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		return nil, translate(err, "job")
	}
	return doc.model(), nil
}

func (r *JobRepository) Delete(ctx context.Context, ownerID, id string) error {
	filter, ok := ownedByID(ownerID, id)
	if !ok {
		return apperrors.NotFound("job not found", nil)
	}

	res, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return translate(err, "job")
	}
	if res.DeletedCount == 0 {
		return apperrors.NotFound("job not found", nil)
	}
	return nil
}

func (r *JobRepository) DeleteMany(ctx context.Context, ownerID string, ids []string) (int64, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return 0, nil
	}

	res, err := r.coll.DeleteMany(ctx, bson.M{
		"_id":    bson.M{"$in": oids},
		"userId": ownerID,
	})
	if err != nil {
		return 0, translate(err, "job")
	}
	return res.DeletedCount, nil
}
