package handler

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/miguelgnzalez28/ultimate-kits/internal/apperror"
	"github.com/miguelgnzalez28/ultimate-kits/internal/auth"
	"github.com/miguelgnzalez28/ultimate-kits/internal/model"
	"github.com/miguelgnzalez28/ultimate-kits/internal/service"
)

// Shared in-memory repositories for the handler tests. The handlers run on
// top of the real service layer; only the store is faked.

type memUserRepo struct {
	byID    map[string]*model.User
	byEmail map[string]*model.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{
		byID:    make(map[string]*model.User),
		byEmail: make(map[string]*model.User),
	}
}

func (m *memUserRepo) Create(ctx context.Context, user *model.User) error {
	if _, exists := m.byEmail[user.Email]; exists {
		return apperror.Conflict("Email already registered")
	}
	copied := *user
	m.byID[user.ID] = &copied
	m.byEmail[user.Email] = &copied
	return nil
}

func (m *memUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	copied := *u
	return &copied, nil
}

func (m *memUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, apperror.NotFound("user", email)
	}
	copied := *u
	return &copied, nil
}

func (m *memUserRepo) RecordLogin(ctx context.Context, id string, login model.LoginInfo) error {
	u, ok := m.byID[id]
	if !ok {
		return apperror.NotFound("user", id)
	}
	at := login.At
	u.LastLogin = &at
	u.LastLoginIP = login.IP
	u.LastLoginUserAgent = login.UserAgent
	u.LoginCount++
	return nil
}

func (m *memUserRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(m.byID)), nil
}

func (m *memUserRepo) List(ctx context.Context, limit int64) ([]model.User, error) {
	users := make([]model.User, 0, len(m.byID))
	for _, u := range m.byID {
		users = append(users, *u)
		if int64(len(users)) >= limit {
			break
		}
	}
	return users, nil
}

type memEventRepo struct {
	events []*model.UserEvent
}

func (m *memEventRepo) Append(ctx context.Context, event *model.UserEvent) error {
	m.events = append(m.events, event)
	return nil
}

type memVisitRepo struct {
	visits []model.Visit
}

func (m *memVisitRepo) Insert(ctx context.Context, visit *model.Visit) error {
	m.visits = append(m.visits, *visit)
	return nil
}

func (m *memVisitRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(m.visits)), nil
}

func (m *memVisitRepo) CountRegistered(ctx context.Context) (int64, error) {
	var n int64
	for _, v := range m.visits {
		if v.UserID != "" {
			n++
		}
	}
	return n, nil
}

func (m *memVisitRepo) ListRecent(ctx context.Context, limit int64) ([]model.Visit, error) {
	out := make([]model.Visit, 0, limit)
	for i := len(m.visits) - 1; i >= 0 && int64(len(out)) < limit; i-- {
		out = append(out, m.visits[i])
	}
	return out, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

const testSecret = "test-secret-at-least-16-chars!!"

func newTestAuthService(t *testing.T, users *memUserRepo, events *memEventRepo) (*service.AuthService, *auth.TokenService) {
	t.Helper()

	tokens, err := auth.NewTokenService(testSecret)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	passwords := auth.NewPasswordServiceForTest(4)
	return service.NewAuthService(users, events, tokens, passwords, testLogger()), tokens
}
