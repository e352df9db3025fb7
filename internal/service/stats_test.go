package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/miguelgnzalez28/ultimate-kits/internal/apperror"
	"github.com/miguelgnzalez28/ultimate-kits/internal/model"
)

// fakeVisitRepo is an in-memory VisitRepository.
type fakeVisitRepo struct {
	visits   []model.Visit
	failWith error
}

func (f *fakeVisitRepo) Insert(ctx context.Context, visit *model.Visit) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.visits = append(f.visits, *visit)
	return nil
}

func (f *fakeVisitRepo) Count(ctx context.Context) (int64, error) {
	if f.failWith != nil {
		return 0, f.failWith
	}
	return int64(len(f.visits)), nil
}

func (f *fakeVisitRepo) CountRegistered(ctx context.Context) (int64, error) {
	if f.failWith != nil {
		return 0, f.failWith
	}
	var n int64
	for _, v := range f.visits {
		if v.UserID != "" {
			n++
		}
	}
	return n, nil
}

func (f *fakeVisitRepo) ListRecent(ctx context.Context, limit int64) ([]model.Visit, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	// newest first
	out := make([]model.Visit, 0, limit)
	for i := len(f.visits) - 1; i >= 0 && int64(len(out)) < limit; i-- {
		out = append(out, f.visits[i])
	}
	return out, nil
}

func seedVisits(repo *fakeVisitRepo, anonymous, registered int) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < anonymous; i++ {
		repo.visits = append(repo.visits, model.Visit{
			ID:        "anon",
			SessionID: "s-anon",
			Page:      "/",
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		})
	}
	for i := 0; i < registered; i++ {
		repo.visits = append(repo.visits, model.Visit{
			ID:        "reg",
			SessionID: "s-reg",
			Page:      "/kits",
			Timestamp: base.Add(time.Duration(anonymous+i) * time.Minute),
			UserID:    "u1",
		})
	}
}

func TestStats_CountsAddUp(t *testing.T) {
	users := newFakeUserRepo()
	visits := &fakeVisitRepo{}
	seedVisits(visits, 7, 3)

	svc := NewStatsService(users, visits, quietLogger())

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}

	if stats.TotalVisits != 10 {
		t.Errorf("TotalVisits = %d, want 10", stats.TotalVisits)
	}
	if stats.RegisteredVisits != 3 {
		t.Errorf("RegisteredVisits = %d, want 3", stats.RegisteredVisits)
	}
	if stats.AnonymousVisits != 7 {
		t.Errorf("AnonymousVisits = %d, want 7", stats.AnonymousVisits)
	}
	if stats.RegisteredVisits+stats.AnonymousVisits != stats.TotalVisits {
		t.Errorf("registered (%d) + anonymous (%d) != total (%d)",
			stats.RegisteredVisits, stats.AnonymousVisits, stats.TotalVisits)
	}
}

func TestStats_UsersAreSanitised(t *testing.T) {
	users := newFakeUserRepo()
	users.Create(context.Background(), &model.User{
		ID:           "u1",
		Email:        "a@example.com",
		PasswordHash: "$2a$04$hash",
		CreatedAt:    time.Now(),
	})

	svc := NewStatsService(users, &fakeVisitRepo{}, quietLogger())

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalUsers != 1 || len(stats.Users) != 1 {
		t.Fatalf("TotalUsers = %d, len(Users) = %d", stats.TotalUsers, len(stats.Users))
	}
	if stats.Users[0].Email != "a@example.com" {
		t.Errorf("Users[0].Email = %q", stats.Users[0].Email)
	}
}

func TestStats_Empty(t *testing.T) {
	svc := NewStatsService(newFakeUserRepo(), &fakeVisitRepo{}, quietLogger())

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalVisits != 0 || stats.TotalUsers != 0 {
		t.Errorf("stats = %+v, want zeros", stats)
	}
	if stats.RecentVisits == nil {
		t.Error("RecentVisits is nil, want empty slice for JSON []")
	}
	if stats.Users == nil {
		t.Error("Users is nil, want empty slice for JSON []")
	}
}

func TestStats_RecentCappedAtFifty(t *testing.T) {
	visits := &fakeVisitRepo{}
	seedVisits(visits, 60, 0)

	svc := NewStatsService(newFakeUserRepo(), visits, quietLogger())

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if len(stats.RecentVisits) != 50 {
		t.Errorf("len(RecentVisits) = %d, want 50", len(stats.RecentVisits))
	}
}

func TestStats_StoreFailurePropagates(t *testing.T) {
	visits := &fakeVisitRepo{failWith: apperror.Unavailable("store is down")}
	svc := NewStatsService(newFakeUserRepo(), visits, quietLogger())

	_, err := svc.Stats(context.Background())
	if !errors.Is(err, apperror.ErrUnavailable) {
		t.Fatalf("Stats() error = %v, want ErrUnavailable", err)
	}
}
