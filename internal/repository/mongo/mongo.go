// Package mongo implements the repository interfaces against MongoDB.
//
// Collections: users, visits, user_logs. The users collection carries a
// unique index on email; duplicate registrations surface as a driver
// duplicate-key error which user.go translates to apperror.ErrConflict.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// DB wraps a connected client plus the three collection handles. It
// implements repository.UserRepository, repository.VisitRepository, and
// repository.UserEventRepository.
type DB struct {
	client *mongo.Client
	users  *mongo.Collection
	visits *mongo.Collection
	events *mongo.Collection
}

// New connects to MongoDB, verifies the connection with a ping, and
// ensures indexes. The caller decides what to do when this fails: main
// degrades to image-proxy-only mode rather than exiting.
func New(ctx context.Context, uri, dbName string) (*DB, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo: connecting: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: pinging %s: %w", uri, err)
	}

	database := client.Database(dbName)
	db := &DB{
		client: client,
		users:  database.Collection("users"),
		visits: database.Collection("visits"),
		events: database.Collection("user_logs"),
	}

	if err := db.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return db, nil
}

// Close disconnects the client, flushing any buffered writes.
func (db *DB) Close(ctx context.Context) error {
	return db.client.Disconnect(ctx)
}

// ensureIndexes creates the indexes the queries rely on. CreateOne is
// idempotent for an identical existing index, so this is safe on every
// startup.
func (db *DB) ensureIndexes(ctx context.Context) error {
	_, err := db.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("mongo: creating users email index: %w", err)
	}

	_, err = db.visits.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "timestamp", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("mongo: creating visits timestamp index: %w", err)
	}

	return nil
}
