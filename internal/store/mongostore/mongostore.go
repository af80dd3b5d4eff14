// Package mongostore persists jobs, goals and schedules in MongoDB.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"github.com/justsurfingit/job-tracker/internal/apperrors"
	"github.com/justsurfingit/job-tracker/internal/logging"
	"github.com/justsurfingit/job-tracker/internal/store"
)

const (
	jobsCollection      = "jobs"
	goalsCollection     = "goals"
	schedulesCollection = "schedules"
)

type Options struct {
	URI         string
	Database    string
	Timeout     time.Duration
	MaxPoolSize uint64
}

type Store struct {
	client *mongo.Client
	db     *mongo.Database
	log    logging.Logger

	jobs      *JobRepository
	goals     *GoalRepository
	schedules *ScheduleRepository
}

var _ store.Store = (*Store)(nil)

// Open connects to the deployment, verifies it with a ping and makes sure
// the collection indexes exist.
func Open(ctx context.Context, opts Options, log logging.Logger) (*Store, error) {
	if log == nil {
		log = logging.Nop()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	clientOpts := options.Client().
		ApplyURI(opts.URI).
		SetServerSelectionTimeout(timeout).
		SetConnectTimeout(timeout).
		SetSocketTimeout(45 * time.Second).
		SetRetryWrites(true).
		SetWriteConcern(writeconcern.Majority())
	if opts.MaxPoolSize > 0 {
		clientOpts.SetMaxPoolSize(opts.MaxPoolSize)
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	s := newStore(client, client.Database(opts.Database), log)
	if err := s.EnsureIndexes(connectCtx); err != nil {
		log.Warn(ctx, "failed to create indexes", "error", err)
	}

	log.Info(ctx, "connected to MongoDB", "database", opts.Database)
	return s, nil
}

// New wraps an already connected database.
func New(db *mongo.Database, log logging.Logger) *Store {
	if log == nil {
		log = logging.Nop()
	}
	return newStore(db.Client(), db, log)
}

func newStore(client *mongo.Client, db *mongo.Database, log logging.Logger) *Store {
	clock := func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) }
	return &Store{
		client:    client,
		db:        db,
		log:       log,
		jobs:      &JobRepository{coll: db.Collection(jobsCollection), now: clock},
		goals:     &GoalRepository{coll: db.Collection(goalsCollection), now: clock},
		schedules: &ScheduleRepository{coll: db.Collection(schedulesCollection), now: clock},
	}
}

func (s *Store) Jobs() store.JobRepository           { return s.jobs }
func (s *Store) Goals() store.GoalRepository         { return s.goals }
func (s *Store) Schedules() store.ScheduleRepository { return s.schedules }

func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return apperrors.Unavailable("database unavailable", err)
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes the list, stats and goal queries rely on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	specs := map[string][]mongo.IndexModel{
		jobsCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "company", Value: 1}}},
		},
		goalsCollection: {
			{
				Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "month", Value: 1}, {Key: "year", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		schedulesCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: 1}, {Key: "time", Value: 1}}},
		},
	}

	var errs []error
	for name, idx := range specs {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, idx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// translate maps driver errors onto domain errors. what names the missing
// record, e.g. "job".
func translate(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperrors.NotFound(what+" not found", nil)
	}
	return apperrors.Unavailable("database unavailable", err)
}
