// Package service holds the business logic between the HTTP handlers and
// the repositories.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/miguelgnzalez28/ultimate-kits/internal/apperror"
	"github.com/miguelgnzalez28/ultimate-kits/internal/auth"
	"github.com/miguelgnzalez28/ultimate-kits/internal/model"
	"github.com/miguelgnzalez28/ultimate-kits/internal/repository"
)

// ClientInfo carries request metadata recorded in user event log entries
// and on the user record itself.
type ClientInfo struct {
	IP        string
	UserAgent string
}

// AuthResult bundles the issued token with the public user view so the
// handler can respond in one step.
type AuthResult struct {
	Token string
	User  *model.PublicUser
}

// AuthService implements registration, login, and current-user lookup.
//
// All dependencies are injected: the signing key lives in the TokenService
// and the store handle in the repositories, never in package-level state.
type AuthService struct {
	users     repository.UserRepository
	events    repository.UserEventRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	events repository.UserEventRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		events:    events,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// Register creates a new account and issues its first session token.
//
// Duplicate emails surface as Conflict (via the store's unique index).
// The event log append is best-effort: a registration must not fail because
// its audit entry could not be written.
func (s *AuthService) Register(ctx context.Context, email, password, name string, isAdmin bool, client ClientInfo) (*AuthResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperror.ValidationFailed("email", "a valid email is required")
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:                    xid.New().String(),
		Email:                 email,
		PasswordHash:          hash,
		Name:                  name,
		IsAdmin:               isAdmin,
		CreatedAt:             now,
		RegistrationIP:        client.IP,
		RegistrationUserAgent: client.UserAgent,
		LoginCount:            0,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: registering %s: %w", email, err)
	}

	s.appendEvent(ctx, user.ID, model.EventRegistration, now, client)

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("email", user.Email),
	)

	token, err := s.tokens.Issue(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("service/auth: issuing token for %s: %w", user.ID, err)
	}

	return &AuthResult{Token: token, User: user.Public()}, nil
}

// Login verifies credentials and issues a session token.
//
// An unknown email and a wrong password return the same Unauthorized error
// so the endpoint cannot be used to enumerate accounts.
func (s *AuthService) Login(ctx context.Context, email, password string, client ClientInfo) (*AuthResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized("Invalid email or password")
		}
		return nil, fmt.Errorf("service/auth: looking up %s: %w", email, err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.Unauthorized("Invalid email or password")
	}

	now := time.Now().UTC()
	login := model.LoginInfo{At: now, IP: client.IP, UserAgent: client.UserAgent}
	if err := s.users.RecordLogin(ctx, user.ID, login); err != nil {
		return nil, fmt.Errorf("service/auth: recording login for %s: %w", user.ID, err)
	}
	user.LastLogin = &now
	user.LoginCount++

	s.appendEvent(ctx, user.ID, model.EventLogin, now, client)

	s.logger.Info("user logged in",
		slog.String("userID", user.ID),
		slog.Int64("loginCount", user.LoginCount),
	)

	token, err := s.tokens.Issue(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("service/auth: issuing token for %s: %w", user.ID, err)
	}

	return &AuthResult{Token: token, User: user.Public()}, nil
}

// CurrentUser resolves the subject of an already-verified token to the
// stored user. NotFound means the record was deleted after the token was
// issued.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*model.PublicUser, error) {
	if userID == "" {
		return nil, apperror.Unauthorized("missing subject")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: fetching user %s: %w", userID, err)
	}

	return user.Public(), nil
}

func (s *AuthService) appendEvent(ctx context.Context, userID, eventType string, at time.Time, client ClientInfo) {
	event := &model.UserEvent{
		ID:        xid.New().String(),
		UserID:    userID,
		EventType: eventType,
		Timestamp: at,
		IPAddress: client.IP,
		UserAgent: client.UserAgent,
	}
	if err := s.events.Append(ctx, event); err != nil {
		s.logger.Warn("user event log append failed",
			slog.String("userID", userID),
			slog.String("event", eventType),
			slog.String("error", err.Error()),
		)
	}
}
