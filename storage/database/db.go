package database

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/schoolhub/backend/core"
)

// Collections
const (
	UserCollection    = "users"
	TeacherCollection = "teachers"
	StudentCollection = "students"
	FeeCollection     = "fees"
	ClassCollection   = "classes"
)

// DB is the process-wide document store handle.
type DB struct {
	*mongo.Database
	client  *mongo.Client
	timeout time.Duration
}

var _ core.DB = (*DB)(nil)

// Open connects to the document store and waits until it answers.
func Open(ctx context.Context, conf *core.Config) (*DB, error) {
	opts := options.Client().
		ApplyURI(conf.Database.URI).
		SetConnectTimeout(conf.Database.Timeout).
		SetServerSelectionTimeout(conf.Database.Timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, errors.Wrap(err, "connecting to database")
	}

	db := &DB{
		Database: client.Database(conf.Database.Name),
		client:   client,
		timeout:  conf.Database.Timeout,
	}
	if err = ping(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return db, nil
}

// Timeout bounds a single store operation.
func (db *DB) Timeout() time.Duration {
	return db.timeout
}

func (db *DB) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, db.timeout)
	defer cancel()
	return db.client.Ping(ctx, readpref.Primary())
}

func (db *DB) Close(ctx context.Context) error {
	return db.client.Disconnect(ctx)
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(ctx context.Context, db *DB) error {
	var err error
	maxAttempts := 10
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err = db.Ping(ctx)
		if err == nil {
			break
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "DB ping cancelled")
		case <-time.After(time.Duration(attempts) * 100 * time.Millisecond):
		}
	}

	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}

// Migrate creates the indexes the repositories rely on.
func Migrate(ctx context.Context, db *DB) error {
	indexes := map[string][]mongo.IndexModel{
		UserCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		TeacherCollection: {
			{Keys: bson.D{{Key: "staffId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "user", Value: 1}}},
		},
		StudentCollection: {
			{Keys: bson.D{{Key: "user", Value: 1}}},
		},
		FeeCollection: {
			{Keys: bson.D{{Key: "student", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "dueDate", Value: -1}}},
		},
	}

	for coll, models := range indexes {
		ictx, cancel := context.WithTimeout(ctx, db.timeout)
		_, err := db.Collection(coll).Indexes().CreateMany(ictx, models)
		cancel()
		if err != nil {
			return errors.Wrapf(err, "creating %s indexes", coll)
		}
	}
	return nil
}
