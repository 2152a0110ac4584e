package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Mobile       string    `json:"mobile"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Category struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"catimage_url,omitempty"`
}

type FoodItem struct {
	ID          int64           `json:"id"`
	ItemCode    string          `json:"item_code"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url,omitempty"`
	CategoryID  int64           `json:"category_id"`
	Category    string          `json:"category,omitempty"`
}

type Address struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	HouseBlockNo string    `json:"house_block_no"`
	AreaRoad     string    `json:"area_road"`
	City         string    `json:"city"`
	District     string    `json:"district"`
	State        string    `json:"state"`
	Country      string    `json:"country"`
	Pincode      string    `json:"pincode"`
	CreatedAt    time.Time `json:"created_at"`
}

// OrderLine is the per-item shape serialized into the order snapshot.
// Quantities and codes are recorded as submitted; prices are resolved
// server-side at submission time.
type OrderLine struct {
	ItemCode string `json:"item_code"`
	Quantity int    `json:"quantity"`
}

type Order struct {
	ID             int64           `json:"id"`
	UserID         int64           `json:"user_id"`
	OrderNumber    string          `json:"order_number"`
	Items          []OrderLine     `json:"items"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Discount       decimal.Decimal `json:"discount"`
	DeliveryCharge decimal.Decimal `json:"delivery_charge"`
	Taxes          decimal.Decimal `json:"taxes"`
	Status         string          `json:"status"`
	IdempotencyKey string          `json:"-"`
	CreatedAt      time.Time       `json:"created_at"`
}

const (
	OrderStatusPlaced    = "placed"
	OrderStatusPreparing = "preparing"
	OrderStatusOnTheWay  = "on_the_way"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

type AdminStats struct {
	TotalUsers      int64           `json:"total_users"`
	TotalCategories int64           `json:"total_categories"`
	TotalItems      int64           `json:"total_items"`
	TotalOrders     int64           `json:"total_orders"`
	Revenue         decimal.Decimal `json:"revenue"`
}
