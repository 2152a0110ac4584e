package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/quickbite/backend/internal/database"
	"github.com/quickbite/backend/internal/models"
)

type Users struct {
	db *sql.DB
}

func NewUsers(db *sql.DB) *Users {
	return &Users{db: db}
}

func (s *Users) Create(ctx context.Context, name, email, mobile, passwordHash string, isAdmin bool) (*models.User, error) {
	user := &models.User{}

	query := `
		INSERT INTO users (name, email, mobile, password_hash, is_admin, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, name, email, mobile, password_hash, is_admin, created_at, updated_at`

	err := s.db.QueryRowContext(ctx, query, name, email, mobile, passwordHash, isAdmin).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Mobile,
		&user.PasswordHash,
		&user.IsAdmin,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err, "") {
			return nil, database.ErrConflict
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

func (s *Users) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return s.getOne(ctx, `WHERE id = $1`, id)
}

func (s *Users) GetByEmailOrMobile(ctx context.Context, emailOrMobile string) (*models.User, error) {
	// Accounts created via federated sign-in carry an empty mobile; the
	// guard keeps them unreachable through the mobile branch.
	return s.getOne(ctx, `WHERE email = $1 OR (mobile = $1 AND mobile <> '')`, emailOrMobile)
}

func (s *Users) getOne(ctx context.Context, where string, arg interface{}) (*models.User, error) {
	user := &models.User{}

	query := `
		SELECT id, name, email, mobile, password_hash, is_admin, created_at, updated_at
		FROM users ` + where

	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Mobile,
		&user.PasswordHash,
		&user.IsAdmin,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return user, nil
}

func (s *Users) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`,
		passwordHash, userID)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return database.ErrUserNotFound
	}
	return nil
}

// ResetPasswordWithOTP consumes the user's latest OTP record and writes the
// new password hash in one transaction. The consume only lands on a record
// that is verified, unconsumed, and inside its expiry window; anything else
// is ErrForbidden and the password stays untouched. Running both statements
// in one transaction means a failure cannot burn the OTP without rotating
// the password.
func (s *Users) ResetPasswordWithOTP(ctx context.Context, userID int64, passwordHash string) error {
	return database.WithTransaction(ctx, s.db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE otp_verifications
			SET consumed = TRUE
			WHERE id = (
				SELECT id FROM otp_verifications
				WHERE user_id = $1
				ORDER BY id DESC
				LIMIT 1
			)
			  AND verified = TRUE
			  AND consumed = FALSE
			  AND expires_at > NOW()`,
			userID)
		if err != nil {
			return fmt.Errorf("consume otp: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("get rows affected: %w", err)
		}
		if rows == 0 {
			return database.ErrForbidden
		}

		result, err = tx.ExecContext(ctx,
			`UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`,
			passwordHash, userID)
		if err != nil {
			return fmt.Errorf("update password: %w", err)
		}

		rows, err = result.RowsAffected()
		if err != nil {
			return fmt.Errorf("get rows affected: %w", err)
		}
		if rows == 0 {
			return database.ErrUserNotFound
		}
		return nil
	})
}

// ProfileUpdate carries optional field changes; nil fields are untouched.
type ProfileUpdate struct {
	Name         *string
	Email        *string
	Mobile       *string
	PasswordHash *string
}

func (s *Users) UpdateProfile(ctx context.Context, userID int64, upd ProfileUpdate) error {
	var sets []string
	var args []interface{}

	add := func(column string, value *string) {
		if value != nil {
			args = append(args, *value)
			sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
		}
	}
	add("name", upd.Name)
	add("email", upd.Email)
	add("mobile", upd.Mobile)
	add("password_hash", upd.PasswordHash)

	if len(sets) == 0 {
		return database.ErrValidation
	}

	args = append(args, userID)
	query := fmt.Sprintf(`UPDATE users SET %s, updated_at = NOW() WHERE id = $%d`,
		strings.Join(sets, ", "), len(args))

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		if database.IsUniqueViolation(err, "") {
			return database.ErrConflict
		}
		return fmt.Errorf("update profile: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return database.ErrUserNotFound
	}
	return nil
}
