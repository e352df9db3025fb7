// Package repository declares the storage interfaces the services depend
// on. The mongo subpackage implements them against the document store;
// tests substitute in-memory fakes.
package repository

import (
	"context"

	"github.com/miguelgnzalez28/ultimate-kits/internal/model"
)

type UserRepository interface {
	// Create inserts a new user. Returns an error wrapping
	// apperror.ErrConflict when the email is already registered.
	Create(ctx context.Context, user *model.User) error
	// GetByID returns an error wrapping apperror.ErrNotFound when no user
	// has the given ID.
	GetByID(ctx context.Context, id string) (*model.User, error)
	// GetByEmail returns an error wrapping apperror.ErrNotFound when no
	// user has the given email.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// RecordLogin applies the successful-login mutation: last_login and
	// the client info fields are set, login_count is incremented.
	RecordLogin(ctx context.Context, id string, login model.LoginInfo) error
	Count(ctx context.Context) (int64, error)
	// List returns users sorted by creation time, newest first, capped at
	// limit. Password hashes are included in the model but stripped by the
	// PublicUser view before leaving the API.
	List(ctx context.Context, limit int64) ([]model.User, error)
}

type VisitRepository interface {
	Insert(ctx context.Context, visit *model.Visit) error
	Count(ctx context.Context) (int64, error)
	// CountRegistered counts visits attributed to a user.
	CountRegistered(ctx context.Context) (int64, error)
	// ListRecent returns visits sorted by timestamp, newest first, capped
	// at limit.
	ListRecent(ctx context.Context, limit int64) ([]model.Visit, error)
}

type UserEventRepository interface {
	Append(ctx context.Context, event *model.UserEvent) error
}
