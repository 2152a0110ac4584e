package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/quickbite/backend/internal/database"
	"github.com/quickbite/backend/internal/models"
)

type Addresses struct {
	db *sql.DB
}

func NewAddresses(db *sql.DB) *Addresses {
	return &Addresses{db: db}
}

func (s *Addresses) Create(ctx context.Context, a *models.Address) (*models.Address, error) {
	created := &models.Address{}

	query := `
		INSERT INTO addresses (user_id, house_block_no, area_road, city, district, state, country, pincode, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING id, user_id, house_block_no, area_road, city, district, state, country, pincode, created_at`

	err := s.db.QueryRowContext(ctx, query,
		a.UserID, a.HouseBlockNo, a.AreaRoad, a.City, a.District, a.State, a.Country, a.Pincode).Scan(
		&created.ID,
		&created.UserID,
		&created.HouseBlockNo,
		&created.AreaRoad,
		&created.City,
		&created.District,
		&created.State,
		&created.Country,
		&created.Pincode,
		&created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create address: %w", err)
	}

	return created, nil
}

func (s *Addresses) ListByUser(ctx context.Context, userID int64) ([]models.Address, error) {
	query := `
		SELECT id, user_id, house_block_no, area_road, city, district, state, country, pincode, created_at
		FROM addresses
		WHERE user_id = $1
		ORDER BY id DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	defer rows.Close()

	var addresses []models.Address
	for rows.Next() {
		var a models.Address
		err := rows.Scan(
			&a.ID,
			&a.UserID,
			&a.HouseBlockNo,
			&a.AreaRoad,
			&a.City,
			&a.District,
			&a.State,
			&a.Country,
			&a.Pincode,
			&a.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan address: %w", err)
		}
		addresses = append(addresses, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return addresses, nil
}

// Update rewrites an address, scoped to its owner; a mismatched user never
// sees another user's rows.
func (s *Addresses) Update(ctx context.Context, a *models.Address) error {
	query := `
		UPDATE addresses
		SET house_block_no = $1, area_road = $2, city = $3, district = $4,
		    state = $5, country = $6, pincode = $7
		WHERE id = $8 AND user_id = $9`

	result, err := s.db.ExecContext(ctx, query,
		a.HouseBlockNo, a.AreaRoad, a.City, a.District, a.State, a.Country, a.Pincode,
		a.ID, a.UserID)
	if err != nil {
		return fmt.Errorf("update address: %w", err)
	}

	return checkAffected(result, database.ErrAddressNotFound)
}

func (s *Addresses) Delete(ctx context.Context, id, userID int64) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM addresses WHERE id = $1 AND user_id = $2`,
		id, userID)
	if err != nil {
		return fmt.Errorf("delete address: %w", err)
	}

	return checkAffected(result, database.ErrAddressNotFound)
}

func checkAffected(result sql.Result, missing error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return missing
	}
	return nil
}
