package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/justsurfingit/job-tracker/internal/models"
	"github.com/justsurfingit/job-tracker/internal/store"
)

type goalDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"userId"`
	Target    int                `bson:"target"`
	Month     int                `bson:"month"`
	Year      int                `bson:"year"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d *goalDocument) model() *models.Goal {
	return &models.Goal{
		ID:        d.ID.Hex(),
		UserID:    d.UserID,
		Target:    d.Target,
		Month:     d.Month,
		Year:      d.Year,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

type GoalRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

var _ store.GoalRepository = (*GoalRepository)(nil)

func goalFilter(ownerID string, month, year int) bson.M {
	return bson.M{"userId": ownerID, "month": month, "year": year}
}

func (r *GoalRepository) Upsert(ctx context.Context, goal *models.Goal) (*models.Goal, error) {
	now := r.now()
	update := bson.M{
		"$set":         bson.M{"target": goal.Target, "updatedAt": now},
		"$setOnInsert": bson.M{"createdAt": now},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc goalDocument
	err := r.coll.FindOneAndUpdate(ctx, goalFilter(goal.UserID, goal.Month, goal.Year), update, opts).Decode(&doc)
	if err != nil {
		return nil, translate(err, "goal")
	}
	return doc.model(), nil
}

func (r *GoalRepository) Find(ctx context.Context, ownerID string, month, year int) (*models.Goal, error) {
	var doc goalDocument
	if err := r.coll.FindOne(ctx, goalFilter(ownerID, month, year)).Decode(&doc); err != nil {
		return nil, translate(err, "goal")
	}
	return doc.model(), nil
}

func (r *GoalRepository) Delete(ctx context.Context, ownerID string, month, year int) error {
	if _, err := r.coll.DeleteOne(ctx, goalFilter(ownerID, month, year)); err != nil {
		return translate(err, "goal")
	}
	return nil
}
