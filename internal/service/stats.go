package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/miguelgnzalez28/ultimate-kits/internal/model"
	"github.com/miguelgnzalez28/ultimate-kits/internal/repository"
)

// Result caps for the admin dashboard lists.
const (
	maxUsersListed  = 1000
	maxRecentVisits = 50
)

// StatsService aggregates the admin dashboard numbers.
type StatsService struct {
	users  repository.UserRepository
	visits repository.VisitRepository
	logger *slog.Logger
}

func NewStatsService(users repository.UserRepository, visits repository.VisitRepository, logger *slog.Logger) *StatsService {
	return &StatsService{users: users, visits: visits, logger: logger}
}

// Stats collects the dashboard payload. Anonymous visits are derived as
// total minus registered, so registered + anonymous always equals total
// even while visits are being written concurrently.
func (s *StatsService) Stats(ctx context.Context) (*model.AdminStats, error) {
	totalVisits, err := s.visits.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/stats: counting visits: %w", err)
	}

	registered, err := s.visits.CountRegistered(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/stats: counting registered visits: %w", err)
	}

	totalUsers, err := s.users.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/stats: counting users: %w", err)
	}

	users, err := s.users.List(ctx, maxUsersListed)
	if err != nil {
		return nil, fmt.Errorf("service/stats: listing users: %w", err)
	}
	publicUsers := make([]model.PublicUser, 0, len(users))
	for i := range users {
		publicUsers = append(publicUsers, *users[i].Public())
	}

	recent, err := s.visits.ListRecent(ctx, maxRecentVisits)
	if err != nil {
		return nil, fmt.Errorf("service/stats: listing recent visits: %w", err)
	}
	if recent == nil {
		recent = []model.Visit{}
	}

	return &model.AdminStats{
		TotalVisits:      totalVisits,
		TotalUsers:       totalUsers,
		RegisteredVisits: registered,
		AnonymousVisits:  totalVisits - registered,
		Users:            publicUsers,
		RecentVisits:     recent,
	}, nil
}
