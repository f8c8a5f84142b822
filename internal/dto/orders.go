package dto

import (
	"time"

	"bookswap-api/internal/models"
)

type OrderItemRequest struct {
	BookID   string `json:"book_id" binding:"required"`
	Quantity int32  `json:"quantity" binding:"required,min=1"`
}

type CreateOrderRequest struct {
	CustomerName  string             `json:"customer_name"`
	CustomerEmail string             `json:"customer_email"`
	Items         []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

type EditOrderRequest struct {
	BookID   string `json:"book_id"`
	Quantity int32  `json:"quantity" binding:"required,min=1"`
}

type DisputeRequest struct {
	Message string `json:"message" binding:"required"`
}

type ResolveDisputeRequest struct {
	Resolution string `json:"resolution" binding:"required"`
}

type OrderItemResponse struct {
	BookID     string `json:"book_id"`
	ItemName   string `json:"item_name"`
	PriceCents int64  `json:"price_cents"`
	Quantity   int32  `json:"quantity"`
}

type OrderResponse struct {
	ID                string              `json:"id"`
	OrderID           string              `json:"order_id"`
	UserID            string              `json:"user_id"`
	CustomerName      string              `json:"customer_name,omitempty"`
	CustomerEmail     string              `json:"customer_email,omitempty"`
	Status            string              `json:"status"`
	PaymentStatus     string              `json:"payment_status"`
	TotalItems        int32               `json:"total_items"`
	TotalCents        int64               `json:"total_cents"`
	DisputeStatus     *string             `json:"dispute_status,omitempty"`
	DisputeMessage    *string             `json:"dispute_message,omitempty"`
	DisputeResolution *string             `json:"dispute_resolution,omitempty"`
	Items             []OrderItemResponse `json:"items"`
	CreatedAt         time.Time           `json:"created_at"`
}

func ToOrderResponse(o *models.Order) OrderResponse {
	resp := OrderResponse{
		ID:                o.ID.String(),
		OrderID:           o.OrderID,
		UserID:            o.UserID.String(),
		CustomerName:      o.CustomerName,
		CustomerEmail:     o.CustomerEmail,
		Status:            string(o.Status),
		PaymentStatus:     string(o.PaymentStatus),
		TotalItems:        o.TotalItems,
		TotalCents:        o.TotalCents,
		DisputeMessage:    o.DisputeMessage,
		DisputeResolution: o.DisputeResolution,
		Items:             make([]OrderItemResponse, 0, len(o.Items)),
		CreatedAt:         o.CreatedAt,
	}
	if o.DisputeStatus != nil {
		s := string(*o.DisputeStatus)
		resp.DisputeStatus = &s
	}
	for _, it := range o.Items {
		resp.Items = append(resp.Items, OrderItemResponse{
			BookID:     it.BookID,
			ItemName:   it.ItemName,
			PriceCents: it.PriceCents,
			Quantity:   it.Quantity,
		})
	}
	return resp
}

type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int64           `json:"total"`
}
