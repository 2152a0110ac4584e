package integration

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/quickbite/backend/internal/database"
	"github.com/quickbite/backend/internal/store"
)

func createTestUser(t *testing.T, db *sql.DB, email, mobile string, isAdmin bool) int64 {
	t.Helper()
	users := store.NewUsers(db)
	user, err := users.Create(context.Background(), "Test User", email, mobile, "hash", isAdmin)
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return user.ID
}

func TestOTPStoreLatestWinsByIssuanceOrder(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	otps := store.NewOtps(db)
	userID := createTestUser(t, db, "otp@example.com", "9000000001", false)

	// Second record expires before the first; issuance order must still win.
	first, err := otps.Create(ctx, userID, "111111", time.Now().Add(10*time.Minute))
	if err != nil {
		t.Fatalf("Failed to create first otp: %v", err)
	}
	second, err := otps.Create(ctx, userID, "222222", time.Now().Add(5*time.Minute))
	if err != nil {
		t.Fatalf("Failed to create second otp: %v", err)
	}

	latest, err := otps.Latest(ctx, userID)
	if err != nil {
		t.Fatalf("Failed to get latest otp: %v", err)
	}
	if latest.ID != second.ID {
		t.Errorf("Expected latest id %d, got %d", second.ID, latest.ID)
	}
	if latest.ID <= first.ID {
		t.Errorf("Expected issuance ids to be monotonic, got %d then %d", first.ID, latest.ID)
	}
}

func TestOTPStoreLatestNotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db, cleanup := setupTestDB(t)
	defer cleanup()

	otps := store.NewOtps(db)
	userID := createTestUser(t, db, "empty@example.com", "9000000002", false)

	_, err := otps.Latest(context.Background(), userID)
	if !errors.Is(err, database.ErrOTPNotFound) {
		t.Errorf("Expected ErrOTPNotFound, got %v", err)
	}
}

func TestOTPStoreMarkVerifiedIsSingleUse(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	otps := store.NewOtps(db)
	userID := createTestUser(t, db, "cas@example.com", "9000000003", false)

	rec, err := otps.Create(ctx, userID, "123456", time.Now().Add(5*time.Minute))
	if err != nil {
		t.Fatalf("Failed to create otp: %v", err)
	}

	if err := otps.MarkVerified(ctx, rec.ID); err != nil {
		t.Fatalf("First MarkVerified failed: %v", err)
	}
	if err := otps.MarkVerified(ctx, rec.ID); !errors.Is(err, database.ErrOTPAlreadyUsed) {
		t.Errorf("Expected ErrOTPAlreadyUsed, got %v", err)
	}
}

func TestOTPStoreMarkVerifiedConcurrent(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	otps := store.NewOtps(db)
	userID := createTestUser(t, db, "race@example.com", "9000000004", false)

	rec, err := otps.Create(ctx, userID, "123456", time.Now().Add(5*time.Minute))
	if err != nil {
		t.Fatalf("Failed to create otp: %v", err)
	}

	const attempts = 8
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- otps.MarkVerified(ctx, rec.ID)
		}()
	}
	wg.Wait()
	close(results)

	var successes, alreadyUsed int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, database.ErrOTPAlreadyUsed):
			alreadyUsed++
		default:
			t.Errorf("Unexpected error: %v", err)
		}
	}

	if successes != 1 {
		t.Errorf("Expected exactly 1 successful verification, got %d", successes)
	}
	if alreadyUsed != attempts-1 {
		t.Errorf("Expected %d already-used failures, got %d", attempts-1, alreadyUsed)
	}
}

func TestResetPasswordWithOTPConsumesOnce(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	otps := store.NewOtps(db)
	users := store.NewUsers(db)
	userID := createTestUser(t, db, "consume@example.com", "9000000005", false)

	rec, err := otps.Create(ctx, userID, "123456", time.Now().Add(5*time.Minute))
	if err != nil {
		t.Fatalf("Failed to create otp: %v", err)
	}

	// An unverified record never authorizes a reset, and the password hash
	// stays untouched.
	if err := users.ResetPasswordWithOTP(ctx, userID, "new-hash"); !errors.Is(err, database.ErrForbidden) {
		t.Errorf("Expected ErrForbidden before verification, got %v", err)
	}
	user, err := users.GetByID(ctx, userID)
	if err != nil {
		t.Fatalf("Failed to get user: %v", err)
	}
	if user.PasswordHash != "hash" {
		t.Errorf("Expected password hash unchanged, got %q", user.PasswordHash)
	}

	if err := otps.MarkVerified(ctx, rec.ID); err != nil {
		t.Fatalf("MarkVerified failed: %v", err)
	}

	if err := users.ResetPasswordWithOTP(ctx, userID, "new-hash"); err != nil {
		t.Errorf("ResetPasswordWithOTP failed: %v", err)
	}
	user, err = users.GetByID(ctx, userID)
	if err != nil {
		t.Fatalf("Failed to get user: %v", err)
	}
	if user.PasswordHash != "new-hash" {
		t.Errorf("Expected updated password hash, got %q", user.PasswordHash)
	}

	// The OTP is consumed with the reset; a replay is refused.
	if err := users.ResetPasswordWithOTP(ctx, userID, "other-hash"); !errors.Is(err, database.ErrForbidden) {
		t.Errorf("Expected ErrForbidden on replay, got %v", err)
	}
}
