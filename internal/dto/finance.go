package dto

import (
	"time"

	"bookswap-api/internal/models"
)

type CreatePaymentRequest struct {
	UserID      string `json:"user_id" binding:"required,uuid"`
	BookID      string `json:"book_id" binding:"required"`
	AmountCents int64  `json:"amount_cents" binding:"required,min=1"`
}

type PaymentResponse struct {
	ID          string    `json:"id"`
	PaymentID   string    `json:"payment_id"`
	UserID      string    `json:"user_id"`
	BookID      string    `json:"book_id"`
	AmountCents int64     `json:"amount_cents"`
	Status      string    `json:"status"`
	PaymentDate time.Time `json:"payment_date"`
}

func ToPaymentResponse(p *models.Payment) PaymentResponse {
	return PaymentResponse{
		ID:          p.ID.String(),
		PaymentID:   p.PaymentID,
		UserID:      p.UserID.String(),
		BookID:      p.BookID,
		AmountCents: p.AmountCents,
		Status:      string(p.Status),
		PaymentDate: p.PaymentDate,
	}
}

type PaymentListResponse struct {
	Payments []PaymentResponse `json:"payments"`
	Total    int64             `json:"total"`
}

type CreateRefundRequest struct {
	PaymentID string `json:"payment_id" binding:"required,uuid"`
	GiverID   string `json:"giver_id" binding:"required,uuid"`
	Reason    string `json:"reason"`
}

type RefundResponse struct {
	ID        string    `json:"id"`
	RefundID  string    `json:"refund_id"`
	PaymentID string    `json:"payment_id"`
	BuyerID   string    `json:"buyer_id"`
	GiverID   string    `json:"giver_id"`
	Reason    string    `json:"reason,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func ToRefundResponse(r *models.Refund) RefundResponse {
	return RefundResponse{
		ID:        r.ID.String(),
		RefundID:  r.RefundID,
		PaymentID: r.PaymentID.String(),
		BuyerID:   r.BuyerID.String(),
		GiverID:   r.GiverID.String(),
		Reason:    r.Reason,
		Status:    string(r.Status),
		CreatedAt: r.CreatedAt,
	}
}

type RefundListResponse struct {
	Refunds []RefundResponse `json:"refunds"`
	Total   int64            `json:"total"`
}

type FineResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	BookID      string    `json:"book_id"`
	AmountCents int64     `json:"amount_cents"`
	OverdueDays int32     `json:"overdue_days"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func ToFineResponse(f *models.Fine) FineResponse {
	return FineResponse{
		ID:          f.ID.String(),
		UserID:      f.UserID.String(),
		BookID:      f.BookID,
		AmountCents: f.AmountCents,
		OverdueDays: f.OverdueDays,
		Status:      string(f.Status),
		CreatedAt:   f.CreatedAt,
	}
}

type FineListResponse struct {
	Fines []FineResponse `json:"fines"`
	Total int64          `json:"total"`
}

type WalletResponse struct {
	ID           string  `json:"id"`
	OwnerID      *string `json:"owner_id,omitempty"`
	Type         string  `json:"type"`
	BalanceCents int64   `json:"balance_cents"`
}

func ToWalletResponse(w *models.Wallet) WalletResponse {
	resp := WalletResponse{
		ID:           w.ID.String(),
		Type:         string(w.Type),
		BalanceCents: w.BalanceCents,
	}
	if w.OwnerID != nil {
		s := w.OwnerID.String()
		resp.OwnerID = &s
	}
	return resp
}
