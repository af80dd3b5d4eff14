// Package gormstore persists jobs, goals and schedules in PostgreSQL
// through gorm.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/justsurfingit/job-tracker/internal/apperrors"
	"github.com/justsurfingit/job-tracker/internal/logging"
	"github.com/justsurfingit/job-tracker/internal/models"
	"github.com/justsurfingit/job-tracker/internal/store"
)

type Store struct {
	db  *gorm.DB
	log logging.Logger

	jobs      *JobRepository
	goals     *GoalRepository
	schedules *ScheduleRepository
}

var _ store.Store = (*Store)(nil)

// Config returns the gorm settings shared by Open and the tests.
func Config() *gorm.Config {
	return &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc:                func() time.Time { return time.Now().UTC() },
	}
}

// Open connects to PostgreSQL and migrates the schema.
func Open(ctx context.Context, dsn string, maxConns int, log logging.Logger) (*Store, error) {
	if log == nil {
		log = logging.Nop()
	}

	db, err := gorm.Open(postgres.Open(dsn), Config())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	if maxConns > 0 {
		sqlDB.SetMaxOpenConns(maxConns)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info(ctx, "running migrations")
	if err := db.WithContext(ctx).AutoMigrate(&models.Job{}, &models.Goal{}, &models.Schedule{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	log.Info(ctx, "database connection established")
	return New(db, log), nil
}

// New wraps an open gorm handle without migrating.
func New(db *gorm.DB, log logging.Logger) *Store {
	if log == nil {
		log = logging.Nop()
	}
	clock := func() time.Time { return time.Now().UTC() }
	return &Store{
		db:        db,
		log:       log,
		jobs:      &JobRepository{db: db, now: clock},
		goals:     &GoalRepository{db: db, now: clock},
		schedules: &ScheduleRepository{db: db, now: clock},
	}
}

func (s *Store) Jobs() store.JobRepository           { return s.jobs }
func (s *Store) Goals() store.GoalRepository         { return s.goals }
func (s *Store) Schedules() store.ScheduleRepository { return s.schedules }

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return apperrors.Unavailable("database unavailable", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return apperrors.Unavailable("database unavailable", err)
	}
	return nil
}

func (s *Store) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func translate(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(what+" not found", nil)
	}
	return apperrors.Unavailable("database unavailable", err)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns a literal search term into an ILIKE pattern.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
