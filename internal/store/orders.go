package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/quickbite/backend/internal/database"
	"github.com/quickbite/backend/internal/models"
)

type Orders struct {
	db *sql.DB
}

func NewOrders(db *sql.DB) *Orders {
	return &Orders{db: db}
}

// Create persists one immutable order snapshot. When the snapshot carries an
// idempotency key and another submission won the race for it, the stored
// order is returned instead of a duplicate.
func (s *Orders) Create(ctx context.Context, o *models.Order) (*models.Order, error) {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return nil, fmt.Errorf("marshal order items: %w", err)
	}

	key := sql.NullString{String: o.IdempotencyKey, Valid: o.IdempotencyKey != ""}
	created := &models.Order{}
	var rawItems []byte
	var storedKey sql.NullString

	query := `
		INSERT INTO orders (user_id, order_number, items, subtotal, discount, delivery_charge, taxes, status, idempotency_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING id, user_id, order_number, items, subtotal, discount, delivery_charge, taxes, status, idempotency_key, created_at`

	err = database.WithRetry(ctx, s.db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, query,
			o.UserID, o.OrderNumber, itemsJSON, o.Subtotal, o.Discount, o.DeliveryCharge, o.Taxes, o.Status, key).Scan(
			&created.ID,
			&created.UserID,
			&created.OrderNumber,
			&rawItems,
			&created.Subtotal,
			&created.Discount,
			&created.DeliveryCharge,
			&created.Taxes,
			&created.Status,
			&storedKey,
			&created.CreatedAt,
		)
	})
	if err != nil {
		if key.Valid && database.IsUniqueViolation(err, "orders_user_idempotency_key") {
			return s.FindByIdempotencyKey(ctx, o.UserID, o.IdempotencyKey)
		}
		return nil, fmt.Errorf("create order: %w", err)
	}

	if err := json.Unmarshal(rawItems, &created.Items); err != nil {
		return nil, fmt.Errorf("unmarshal order items: %w", err)
	}
	created.IdempotencyKey = storedKey.String

	return created, nil
}

func (s *Orders) FindByIdempotencyKey(ctx context.Context, userID int64, idempotencyKey string) (*models.Order, error) {
	return s.getOne(ctx,
		`WHERE user_id = $1 AND idempotency_key = $2`,
		userID, idempotencyKey)
}

func (s *Orders) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	return s.getOne(ctx, `WHERE id = $1`, id)
}

func (s *Orders) getOne(ctx context.Context, where string, args ...interface{}) (*models.Order, error) {
	order := &models.Order{}
	var rawItems []byte
	var storedKey sql.NullString

	query := `
		SELECT id, user_id, order_number, items, subtotal, discount, delivery_charge, taxes, status, idempotency_key, created_at
		FROM orders ` + where

	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&order.ID,
		&order.UserID,
		&order.OrderNumber,
		&rawItems,
		&order.Subtotal,
		&order.Discount,
		&order.DeliveryCharge,
		&order.Taxes,
		&order.Status,
		&storedKey,
		&order.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	if err := json.Unmarshal(rawItems, &order.Items); err != nil {
		return nil, fmt.Errorf("unmarshal order items: %w", err)
	}
	order.IdempotencyKey = storedKey.String

	return order, nil
}

func (s *Orders) ListByUser(ctx context.Context, userID int64, page, pageSize int) (*OffsetPage, error) {
	var total int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders WHERE user_id = $1`, userID).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}

	offset := (page - 1) * pageSize
	query := `
		SELECT id, user_id, order_number, items, subtotal, discount, delivery_charge, taxes, status, idempotency_key, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`

	rows, err := s.db.QueryContext(ctx, query, userID, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var order models.Order
		var rawItems []byte
		var storedKey sql.NullString
		err := rows.Scan(
			&order.ID,
			&order.UserID,
			&order.OrderNumber,
			&rawItems,
			&order.Subtotal,
			&order.Discount,
			&order.DeliveryCharge,
			&order.Taxes,
			&order.Status,
			&storedKey,
			&order.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		if err := json.Unmarshal(rawItems, &order.Items); err != nil {
			return nil, fmt.Errorf("unmarshal order items: %w", err)
		}
		order.IdempotencyKey = storedKey.String
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return &OffsetPage{
		Items:      orders,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}
