package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/miguelgnzalez28/ultimate-kits/internal/model"
	"github.com/miguelgnzalez28/ultimate-kits/internal/repository"
)

var (
	_ repository.VisitRepository     = (*DB)(nil)
	_ repository.UserEventRepository = (*DB)(nil)
)

// Insert appends one visit record. Visits are immutable once written.
func (db *DB) Insert(ctx context.Context, visit *model.Visit) error {
	if _, err := db.visits.InsertOne(ctx, visit); err != nil {
		return fmt.Errorf("mongo: inserting visit: %w", err)
	}
	return nil
}

// Count returns the total number of recorded visits.
func (db *DB) Count(ctx context.Context) (int64, error) {
	n, err := db.visits.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("mongo: counting visits: %w", err)
	}
	return n, nil
}

// CountRegistered counts visits attributed to a user. Anonymous visits
// omit the user_id field entirely (bson omitempty), so the filter matches
// documents where the field exists and is non-empty.
func (db *DB) CountRegistered(ctx context.Context) (int64, error) {
	n, err := db.visits.CountDocuments(ctx, bson.M{
		"user_id": bson.M{"$exists": true, "$nin": bson.A{nil, ""}},
	})
	if err != nil {
		return 0, fmt.Errorf("mongo: counting registered visits: %w", err)
	}
	return n, nil
}

// ListRecent returns visits newest-first, capped at limit.
func (db *DB) ListRecent(ctx context.Context, limit int64) ([]model.Visit, error) {
	cursor, err := db.visits.Find(ctx, bson.M{},
		options.Find().
			SetSort(bson.D{{Key: "timestamp", Value: -1}}).
			SetLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("mongo: listing recent visits: %w", err)
	}

	var visits []model.Visit
	if err := cursor.All(ctx, &visits); err != nil {
		return nil, fmt.Errorf("mongo: decoding visits: %w", err)
	}
	return visits, nil
}

// Append writes one user event log entry.
func (db *DB) Append(ctx context.Context, event *model.UserEvent) error {
	if _, err := db.events.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("mongo: inserting user event: %w", err)
	}
	return nil
}
