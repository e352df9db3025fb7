package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/miguelgnzalez28/ultimate-kits/internal/apperror"
	"github.com/miguelgnzalez28/ultimate-kits/internal/model"
	"github.com/miguelgnzalez28/ultimate-kits/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// Create inserts a new user. The unique email index turns a duplicate
// registration into a duplicate-key error, surfaced as a Conflict. There
// is no read-before-write check; concurrent registrations would race it.
func (db *DB) Create(ctx context.Context, user *model.User) error {
	_, err := db.users.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperror.Conflict("Email already registered")
		}
		return fmt.Errorf("mongo: inserting user %s: %w", user.ID, err)
	}
	return nil
}

// GetByID retrieves a user by internal ID.
func (db *DB) GetByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	err := db.users.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("mongo: getting user %s: %w", id, err)
	}
	return &u, nil
}

// GetByEmail retrieves a user by email.
func (db *DB) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := db.users.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("user", email)
		}
		return nil, fmt.Errorf("mongo: getting user by email: %w", err)
	}
	return &u, nil
}

// RecordLogin applies the successful-login mutation in one update.
func (db *DB) RecordLogin(ctx context.Context, id string, login model.LoginInfo) error {
	res, err := db.users.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{
			"$set": bson.M{
				"last_login":            login.At,
				"last_login_ip":         login.IP,
				"last_login_user_agent": login.UserAgent,
			},
			"$inc": bson.M{"login_count": 1},
		},
	)
	if err != nil {
		return fmt.Errorf("mongo: recording login for user %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return apperror.NotFound("user", id)
	}
	return nil
}

// Count returns the total number of registered users.
func (db *DB) Count(ctx context.Context) (int64, error) {
	n, err := db.users.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("mongo: counting users: %w", err)
	}
	return n, nil
}

// List returns users newest-first, capped at limit.
func (db *DB) List(ctx context.Context, limit int64) ([]model.User, error) {
	cursor, err := db.users.Find(ctx, bson.M{},
		options.Find().
			SetSort(bson.D{{Key: "created_at", Value: -1}}).
			SetLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("mongo: listing users: %w", err)
	}

	var users []model.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("mongo: decoding users: %w", err)
	}
	return users, nil
}
