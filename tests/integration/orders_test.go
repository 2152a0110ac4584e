package integration

import (
	"context"
	"database/sql"
	"testing"

	"github.com/quickbite/backend/internal/models"
	"github.com/quickbite/backend/internal/orders"
	"github.com/quickbite/backend/internal/pricing"
	"github.com/quickbite/backend/internal/store"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func seedCatalog(t *testing.T, db *sql.DB) *store.Catalog {
	t.Helper()
	catalog := store.NewCatalog(db)
	ctx := context.Background()

	category, err := catalog.CreateCategory(ctx, "Pizza", "")
	if err != nil {
		t.Fatalf("Failed to create category: %v", err)
	}

	items := []models.FoodItem{
		{ItemCode: "PIZZA-01", Name: "Margherita", Price: decimal.NewFromInt(100), CategoryID: category.ID},
		{ItemCode: "PIZZA-02", Name: "Pepperoni", Price: decimal.NewFromInt(150), CategoryID: category.ID},
	}
	for i := range items {
		if _, err := catalog.CreateFoodItem(ctx, &items[i]); err != nil {
			t.Fatalf("Failed to create food item %s: %v", items[i].ItemCode, err)
		}
	}
	return catalog
}

func TestOrderSubmitRepricesFromCatalog(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	catalog := seedCatalog(t, db)
	orderStore := store.NewOrders(db)
	userID := createTestUser(t, db, "order@example.com", "9000000010", false)

	svc := orders.NewService(catalog, orderStore, nil, pricing.LenientSkip, zap.NewNop())

	created, err := svc.Submit(ctx, orders.SubmitRequest{
		UserID: userID,
		Lines: []models.OrderLine{
			{ItemCode: "PIZZA-01", Quantity: 2},
			{ItemCode: "PIZZA-02", Quantity: 1},
		},
		Discount:       decimal.NewFromInt(30),
		DeliveryCharge: decimal.NewFromInt(40),
		Taxes:          decimal.NewFromFloat(29.79),
	})
	if err != nil {
		t.Fatalf("Failed to submit order: %v", err)
	}

	// 2*100 + 1*150, regardless of anything the client claimed.
	if !created.Subtotal.Equal(decimal.NewFromInt(350)) {
		t.Errorf("Expected subtotal 350, got %s", created.Subtotal)
	}
	if created.Status != models.OrderStatusPlaced {
		t.Errorf("Expected status %s, got %s", models.OrderStatusPlaced, created.Status)
	}
	if len(created.Items) != 2 {
		t.Errorf("Expected 2 order lines, got %d", len(created.Items))
	}

	fetched, err := orderStore.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("Failed to fetch order: %v", err)
	}
	if !fetched.Subtotal.Equal(created.Subtotal) {
		t.Errorf("Stored subtotal %s does not match %s", fetched.Subtotal, created.Subtotal)
	}
	if !fetched.Discount.Equal(decimal.NewFromInt(30)) {
		t.Errorf("Expected discount 30, got %s", fetched.Discount)
	}
}

func TestOrderSubmitSkipsUnknownCodesUnderLenientPolicy(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	catalog := seedCatalog(t, db)
	orderStore := store.NewOrders(db)
	userID := createTestUser(t, db, "lenient@example.com", "9000000011", false)

	svc := orders.NewService(catalog, orderStore, nil, pricing.LenientSkip, zap.NewNop())

	created, err := svc.Submit(ctx, orders.SubmitRequest{
		UserID: userID,
		Lines: []models.OrderLine{
			{ItemCode: "PIZZA-01", Quantity: 1},
			{ItemCode: "NO-SUCH-ITEM", Quantity: 3},
		},
	})
	if err != nil {
		t.Fatalf("Failed to submit order: %v", err)
	}

	if !created.Subtotal.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Expected subtotal 100, got %s", created.Subtotal)
	}
	if len(created.Items) != 1 {
		t.Errorf("Expected 1 order line after skip, got %d", len(created.Items))
	}
}

func TestOrderSubmitIdempotencyKeyCollapsesRetries(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	catalog := seedCatalog(t, db)
	orderStore := store.NewOrders(db)
	userID := createTestUser(t, db, "idem@example.com", "9000000012", false)

	svc := orders.NewService(catalog, orderStore, nil, pricing.LenientSkip, zap.NewNop())

	req := orders.SubmitRequest{
		UserID:         userID,
		Lines:          []models.OrderLine{{ItemCode: "PIZZA-01", Quantity: 1}},
		IdempotencyKey: "retry-key-1",
	}

	first, err := svc.Submit(ctx, req)
	if err != nil {
		t.Fatalf("Failed to submit order: %v", err)
	}
	second, err := svc.Submit(ctx, req)
	if err != nil {
		t.Fatalf("Failed to resubmit order: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("Expected retry to return order %d, got %d", first.ID, second.ID)
	}
	if first.OrderNumber != second.OrderNumber {
		t.Errorf("Expected same order number, got %s and %s", first.OrderNumber, second.OrderNumber)
	}

	page, err := orderStore.ListByUser(ctx, userID, 1, 10)
	if err != nil {
		t.Fatalf("Failed to list orders: %v", err)
	}
	if page.Total != 1 {
		t.Errorf("Expected 1 stored order, got %d", page.Total)
	}
}

func TestOrderSubmitWithoutKeyCreatesDuplicates(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	catalog := seedCatalog(t, db)
	orderStore := store.NewOrders(db)
	userID := createTestUser(t, db, "dup@example.com", "9000000013", false)

	svc := orders.NewService(catalog, orderStore, nil, pricing.LenientSkip, zap.NewNop())

	req := orders.SubmitRequest{
		UserID: userID,
		Lines:  []models.OrderLine{{ItemCode: "PIZZA-02", Quantity: 2}},
	}

	first, err := svc.Submit(ctx, req)
	if err != nil {
		t.Fatalf("Failed to submit first order: %v", err)
	}
	second, err := svc.Submit(ctx, req)
	if err != nil {
		t.Fatalf("Failed to submit second order: %v", err)
	}
	if first.ID == second.ID {
		t.Errorf("Expected distinct orders without an idempotency key, both got id %d", first.ID)
	}
}
