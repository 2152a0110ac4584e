package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/quickbite/backend/internal/models"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
)

const OrderCreatedQueue = "order.created"

type OrderCreated struct {
	EventType   string             `json:"event_type"`
	OrderNumber string             `json:"order_number"`
	UserID      int64              `json:"user_id"`
	Items       []models.OrderLine `json:"items"`
	Subtotal    decimal.Decimal    `json:"subtotal"`
	Timestamp   time.Time          `json:"timestamp"`
}

type Publisher struct {
	ch *amqp.Channel
}

func NewPublisher(conn *amqp.Connection) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	// Declare the queue up front so publish never fails on missing infra.
	if _, err := ch.QueueDeclare(OrderCreatedQueue, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare %s: %w", OrderCreatedQueue, err)
	}

	return &Publisher{ch: ch}, nil
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}

func (p *Publisher) PublishOrderCreated(ctx context.Context, o *models.Order) error {
	ev := OrderCreated{
		EventType:   "OrderCreated",
		OrderNumber: o.OrderNumber,
		UserID:      o.UserID,
		Items:       o.Items,
		Subtotal:    o.Subtotal,
		Timestamp:   time.Now().UTC(),
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal OrderCreated: %w", err)
	}

	return p.ch.PublishWithContext(ctx, "", OrderCreatedQueue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}
