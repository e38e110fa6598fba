package services

import (
	"context"
	"fmt"
	"time"

	"github.com/isdelr/social-be/internal/database"
	"github.com/isdelr/social-be/internal/models"
)

// StatsServiceProvider defines the interface for stats services.
type StatsServiceProvider interface {
	Counts(ctx context.Context) (models.Stats, error)
}

// HealthServiceProvider defines the interface for database health checks.
type HealthServiceProvider interface {
	DatabaseTime(ctx context.Context) (any, error)
}

// StatsService reports row counts and database health.
type StatsService struct {
	db *database.DB
}

// NewStatsService creates a new StatsService.
func NewStatsService(db *database.DB) *StatsService {
	return &StatsService{db: db}
}

// Counts returns the number of rows in each content table.
func (s *StatsService) Counts(ctx context.Context) (models.Stats, error) {
	stats := models.Stats{CollectedAt: time.Now().UTC()}
	targets := []struct {
		table string
		dst   *int64
	}{
		{"users", &stats.Users},
		{"posts", &stats.Posts},
		{"comments", &stats.Comments},
		{"likes", &stats.Likes},
	}

	for _, t := range targets {
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+t.table).Scan(t.dst); err != nil {
			return models.Stats{}, fmt.Errorf("count %s: %w", t.table, err)
		}
	}
	return stats, nil
}

// DatabaseTime asks the database for its clock, proving it is reachable.
func (s *StatsService) DatabaseTime(ctx context.Context) (any, error) {
	return s.db.Now(ctx)
}
