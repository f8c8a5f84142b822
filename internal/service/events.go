package service

import (
	"time"

	"github.com/google/uuid"
)

type OrderEventType string

const (
	OrderEventCreated   OrderEventType = "ORDER_CREATED"
	OrderEventApproved  OrderEventType = "ORDER_APPROVED"
	OrderEventRejected  OrderEventType = "ORDER_REJECTED"
	OrderEventCancelled OrderEventType = "ORDER_CANCELLED"
	OrderEventCompleted OrderEventType = "ORDER_COMPLETED"
	OrderEventPaid      OrderEventType = "ORDER_PAID"
)

type OrderItemEvent struct {
	BookID     string `json:"book_id"`
	ItemName   string `json:"item_name"`
	Quantity   int32  `json:"quantity"`
	PriceCents int64  `json:"price_cents"`
}

type OrderEvent struct {
	Type       OrderEventType   `json:"type"`
	OrderID    string           `json:"order_id"`
	UserID     uuid.UUID        `json:"user_id"`
	Items      []OrderItemEvent `json:"items,omitempty"`
	TotalCents int64            `json:"total_cents"`
	OccurredAt time.Time        `json:"occurred_at"`
}
