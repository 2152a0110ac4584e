package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/quickbite/backend/internal/database"
	"github.com/quickbite/backend/internal/otp"
)

// Otps is the Postgres-backed otp.Store. The bigserial id doubles as the
// monotonic issuance sequence, so "latest" ordering never depends on
// computed expiry timestamps.
type Otps struct {
	db *sql.DB
}

func NewOtps(db *sql.DB) *Otps {
	return &Otps{db: db}
}

func (s *Otps) Create(ctx context.Context, userID int64, code string, expiresAt time.Time) (*otp.Record, error) {
	rec := &otp.Record{}

	query := `
		INSERT INTO otp_verifications (user_id, otp_code, expires_at, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, user_id, otp_code, expires_at, verified, consumed, created_at`

	err := s.db.QueryRowContext(ctx, query, userID, code, expiresAt).Scan(
		&rec.ID,
		&rec.UserID,
		&rec.Code,
		&rec.ExpiresAt,
		&rec.Verified,
		&rec.Consumed,
		&rec.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create otp: %w", err)
	}

	return rec, nil
}

func (s *Otps) Latest(ctx context.Context, userID int64) (*otp.Record, error) {
	rec := &otp.Record{}

	query := `
		SELECT id, user_id, otp_code, expires_at, verified, consumed, created_at
		FROM otp_verifications
		WHERE user_id = $1
		ORDER BY id DESC
		LIMIT 1`

	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&rec.ID,
		&rec.UserID,
		&rec.Code,
		&rec.ExpiresAt,
		&rec.Verified,
		&rec.Consumed,
		&rec.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrOTPNotFound
		}
		return nil, fmt.Errorf("get latest otp: %w", err)
	}

	return rec, nil
}

// MarkVerified is the compare-and-set that makes verification single-use:
// the update only lands while verified is still false, so of two racing
// correct submissions exactly one observes rows affected = 1.
func (s *Otps) MarkVerified(ctx context.Context, id int64) error {
	return database.WithRetry(ctx, s.db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE otp_verifications SET verified = TRUE WHERE id = $1 AND verified = FALSE`,
			id)
		if err != nil {
			return fmt.Errorf("mark otp verified: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("get rows affected: %w", err)
		}
		if rows == 0 {
			return database.ErrOTPAlreadyUsed
		}
		return nil
	})
}
