// Package orders turns client-submitted cart lines into immutable order
// snapshots. The client never prices anything: every line is re-priced from
// the stored catalog before the snapshot is written.
package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/quickbite/backend/internal/database"
	"github.com/quickbite/backend/internal/models"
	"github.com/quickbite/backend/internal/pricing"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PriceLookup resolves authoritative unit prices. Returns
// database.ErrItemNotFound for unknown codes.
type PriceLookup interface {
	PriceOf(ctx context.Context, itemCode string) (decimal.Decimal, error)
}

type Store interface {
	Create(ctx context.Context, o *models.Order) (*models.Order, error)
	FindByIdempotencyKey(ctx context.Context, userID int64, idempotencyKey string) (*models.Order, error)
}

// Publisher announces persisted orders. Publishing is best effort; a broker
// outage never fails a submission.
type Publisher interface {
	PublishOrderCreated(ctx context.Context, o *models.Order) error
}

type SubmitRequest struct {
	UserID int64
	Lines  []models.OrderLine

	// Client-declared adjustments, persisted as sent. Only the subtotal is
	// recomputed server-side.
	Discount       decimal.Decimal
	DeliveryCharge decimal.Decimal
	Taxes          decimal.Decimal

	// IdempotencyKey, when set, collapses retried submissions onto the
	// first stored order. Empty means every call creates a new order.
	IdempotencyKey string
}

type Service struct {
	prices    PriceLookup
	store     Store
	publisher Publisher
	logger    *zap.Logger
	policy    pricing.Policy
}

func NewService(prices PriceLookup, store Store, publisher Publisher, policy pricing.Policy, logger *zap.Logger) *Service {
	return &Service{
		prices:    prices,
		store:     store,
		publisher: publisher,
		logger:    logger,
		policy:    policy,
	}
}

// Submit re-prices the submitted lines against the catalog and persists one
// order snapshot. Under the lenient policy, lines with unresolvable item
// codes are logged and skipped and the order proceeds with the remainder;
// under the strict policy any unresolved code fails the whole request.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*models.Order, error) {
	if len(req.Lines) == 0 {
		return nil, fmt.Errorf("no cart lines: %w", database.ErrValidation)
	}

	if req.IdempotencyKey != "" {
		existing, err := s.store.FindByIdempotencyKey(ctx, req.UserID, req.IdempotencyKey)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, database.ErrOrderNotFound) {
			return nil, err
		}
	}

	subtotal := decimal.Zero
	valid := make([]models.OrderLine, 0, len(req.Lines))
	for _, line := range req.Lines {
		price, err := s.prices.PriceOf(ctx, line.ItemCode)
		if err != nil {
			if errors.Is(err, database.ErrItemNotFound) && s.policy == pricing.LenientSkip {
				s.logger.Warn("skipping unresolvable cart line",
					zap.Int64("user_id", req.UserID),
					zap.String("item_code", line.ItemCode))
				continue
			}
			return nil, err
		}

		qty := line.Quantity
		if qty < 1 {
			qty = 1
		}
		subtotal = subtotal.Add(price.Mul(decimal.NewFromInt(int64(qty))))
		valid = append(valid, models.OrderLine{ItemCode: line.ItemCode, Quantity: qty})
	}

	order := &models.Order{
		UserID:         req.UserID,
		OrderNumber:    newOrderNumber(),
		Items:          valid,
		Subtotal:       subtotal,
		Discount:       req.Discount,
		DeliveryCharge: req.DeliveryCharge,
		Taxes:          req.Taxes,
		Status:         models.OrderStatusPlaced,
		IdempotencyKey: req.IdempotencyKey,
	}

	created, err := s.store.Create(ctx, order)
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		if err := s.publisher.PublishOrderCreated(ctx, created); err != nil {
			s.logger.Warn("publish order created failed",
				zap.String("order_number", created.OrderNumber),
				zap.Error(err))
		}
	}

	return created, nil
}

func newOrderNumber() string {
	return "ORD-" + uuid.NewString()
}
