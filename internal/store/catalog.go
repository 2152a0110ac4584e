package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/quickbite/backend/internal/database"
	"github.com/quickbite/backend/internal/models"
	"github.com/shopspring/decimal"
)

type Catalog struct {
	db *sql.DB
}

func NewCatalog(db *sql.DB) *Catalog {
	return &Catalog{db: db}
}

func (s *Catalog) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, COALESCE(catimage_url, '') FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.ImageURL); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return categories, nil
}

func (s *Catalog) CreateCategory(ctx context.Context, name, imageURL string) (*models.Category, error) {
	c := &models.Category{}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO categories (name, catimage_url) VALUES ($1, $2)
		 RETURNING id, name, COALESCE(catimage_url, '')`,
		name, imageURL).Scan(&c.ID, &c.Name, &c.ImageURL)
	if err != nil {
		if database.IsUniqueViolation(err, "") {
			return nil, database.ErrConflict
		}
		return nil, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

func (s *Catalog) UpdateCategory(ctx context.Context, id int64, name, imageURL string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE categories SET name = $1, catimage_url = $2 WHERE id = $3`,
		name, imageURL, id)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return database.ErrCategoryNotFound
	}
	return nil
}

func (s *Catalog) DeleteCategory(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return database.ErrCategoryNotFound
	}
	return nil
}

func (s *Catalog) CreateFoodItem(ctx context.Context, item *models.FoodItem) (*models.FoodItem, error) {
	created := &models.FoodItem{}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO food_items (item_code, name, description, price, image_url, category_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, item_code, name, COALESCE(description, ''), price, COALESCE(image_url, ''), category_id`,
		item.ItemCode, item.Name, item.Description, item.Price, item.ImageURL, item.CategoryID).Scan(
		&created.ID,
		&created.ItemCode,
		&created.Name,
		&created.Description,
		&created.Price,
		&created.ImageURL,
		&created.CategoryID,
	)
	if err != nil {
		if database.IsUniqueViolation(err, "") {
			return nil, database.ErrConflict
		}
		return nil, fmt.Errorf("create food item: %w", err)
	}
	return created, nil
}

func (s *Catalog) ListFoodItems(ctx context.Context) ([]models.FoodItem, error) {
	query := `
		SELECT f.id, f.item_code, f.name, COALESCE(f.description, ''), f.price,
		       COALESCE(f.image_url, ''), f.category_id, c.name
		FROM food_items f
		JOIN categories c ON f.category_id = c.id
		ORDER BY f.id`

	return s.queryItems(ctx, query)
}

func (s *Catalog) ListFoodItemsByCategory(ctx context.Context, categoryID int64) ([]models.FoodItem, error) {
	query := `
		SELECT f.id, f.item_code, f.name, COALESCE(f.description, ''), f.price,
		       COALESCE(f.image_url, ''), f.category_id, c.name
		FROM food_items f
		JOIN categories c ON f.category_id = c.id
		WHERE f.category_id = $1
		ORDER BY f.id`

	return s.queryItems(ctx, query, categoryID)
}

func (s *Catalog) queryItems(ctx context.Context, query string, args ...interface{}) ([]models.FoodItem, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list food items: %w", err)
	}
	defer rows.Close()

	var items []models.FoodItem
	for rows.Next() {
		var item models.FoodItem
		err := rows.Scan(
			&item.ID,
			&item.ItemCode,
			&item.Name,
			&item.Description,
			&item.Price,
			&item.ImageURL,
			&item.CategoryID,
			&item.Category,
		)
		if err != nil {
			return nil, fmt.Errorf("scan food item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return items, nil
}

// PriceOf resolves the authoritative unit price for an item code.
func (s *Catalog) PriceOf(ctx context.Context, itemCode string) (decimal.Decimal, error) {
	var price decimal.Decimal
	err := s.db.QueryRowContext(ctx,
		`SELECT price FROM food_items WHERE item_code = $1`,
		itemCode).Scan(&price)
	if err != nil {
		if err == sql.ErrNoRows {
			return decimal.Decimal{}, database.ErrItemNotFound
		}
		return decimal.Decimal{}, fmt.Errorf("price of %s: %w", itemCode, err)
	}
	return price, nil
}

// PriceMap is an in-memory price snapshot satisfying pricing.Catalog.
type PriceMap map[string]decimal.Decimal

func (m PriceMap) PriceOf(itemCode string) (decimal.Decimal, bool) {
	p, ok := m[itemCode]
	return p, ok
}

// LoadPriceMap snapshots the whole catalog's prices for a pricing pass.
func (s *Catalog) LoadPriceMap(ctx context.Context) (PriceMap, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT item_code, price FROM food_items`)
	if err != nil {
		return nil, fmt.Errorf("load price map: %w", err)
	}
	defer rows.Close()

	prices := make(PriceMap)
	for rows.Next() {
		var code string
		var price decimal.Decimal
		if err := rows.Scan(&code, &price); err != nil {
			return nil, fmt.Errorf("scan price: %w", err)
		}
		prices[code] = price
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return prices, nil
}
