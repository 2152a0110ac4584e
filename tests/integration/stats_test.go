package integration

import (
	"context"
	"testing"

	"github.com/quickbite/backend/internal/models"
	"github.com/quickbite/backend/internal/orders"
	"github.com/quickbite/backend/internal/pricing"
	"github.com/quickbite/backend/internal/store"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func TestAdminStatsCounters(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	catalog := seedCatalog(t, db)
	orderStore := store.NewOrders(db)
	stats := store.NewStats(db)

	userID := createTestUser(t, db, "stats@example.com", "9000000020", false)
	createTestUser(t, db, "admin-stats@example.com", "9000000021", true)

	svc := orders.NewService(catalog, orderStore, nil, pricing.LenientSkip, zap.NewNop())
	_, err := svc.Submit(ctx, orders.SubmitRequest{
		UserID:         userID,
		Lines:          []models.OrderLine{{ItemCode: "PIZZA-01", Quantity: 2}},
		DeliveryCharge: decimal.NewFromInt(40),
		Taxes:          decimal.NewFromFloat(18.50),
	})
	if err != nil {
		t.Fatalf("Failed to submit order: %v", err)
	}

	got, err := stats.Admin(ctx)
	if err != nil {
		t.Fatalf("Failed to aggregate stats: %v", err)
	}

	// Admins are not customers.
	if got.TotalUsers != 1 {
		t.Errorf("Expected 1 customer, got %d", got.TotalUsers)
	}
	if got.TotalCategories != 1 {
		t.Errorf("Expected 1 category, got %d", got.TotalCategories)
	}
	if got.TotalItems != 2 {
		t.Errorf("Expected 2 food items, got %d", got.TotalItems)
	}
	if got.TotalOrders != 1 {
		t.Errorf("Expected 1 order, got %d", got.TotalOrders)
	}

	// 2 * 100 - 0 + 40 + 18.50
	if !got.Revenue.Equal(decimal.RequireFromString("258.50")) {
		t.Errorf("Expected revenue 258.50, got %s", got.Revenue)
	}
}
