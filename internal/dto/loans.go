package dto

import (
	"time"

	"bookswap-api/internal/models"
)

type BorrowRequest struct {
	BookID string `json:"book_id" binding:"required"`
}

type LoanResponse struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	BookID     string     `json:"book_id"`
	ItemName   string     `json:"item_name"`
	Status     string     `json:"status"`
	BorrowedAt time.Time  `json:"borrowed_at"`
	DueAt      time.Time  `json:"due_at"`
	ReturnedAt *time.Time `json:"returned_at,omitempty"`
}

func ToLoanResponse(l *models.Loan) LoanResponse {
	return LoanResponse{
		ID:         l.ID.String(),
		UserID:     l.UserID.String(),
		BookID:     l.BookID,
		ItemName:   l.ItemName,
		Status:     string(l.Status),
		BorrowedAt: l.BorrowedAt,
		DueAt:      l.DueAt,
		ReturnedAt: l.ReturnedAt,
	}
}

type LoanListResponse struct {
	Loans []LoanResponse `json:"loans"`
	Total int64          `json:"total"`
}

type NotificationResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

func ToNotificationResponse(n *models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID.String(),
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Total         int64                  `json:"total"`
}
