package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/quickbite/backend/internal/models"
)

type Stats struct {
	db *sql.DB
}

func NewStats(db *sql.DB) *Stats {
	return &Stats{db: db}
}

// Admin aggregates the dashboard counters: customer, category, item, and
// order counts plus revenue summed over stored order snapshots.
func (s *Stats) Admin(ctx context.Context) (*models.AdminStats, error) {
	stats := &models.AdminStats{}

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE is_admin = FALSE`).Scan(&stats.TotalUsers)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM categories),
			(SELECT COUNT(*) FROM food_items)`).Scan(&stats.TotalCategories, &stats.TotalItems)
	if err != nil {
		return nil, fmt.Errorf("count catalog: %w", err)
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(subtotal - discount + delivery_charge + taxes), 0)
		FROM orders`).Scan(&stats.TotalOrders, &stats.Revenue)
	if err != nil {
		return nil, fmt.Errorf("aggregate orders: %w", err)
	}

	return stats, nil
}
