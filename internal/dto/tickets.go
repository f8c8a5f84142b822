package dto

import (
	"time"

	"bookswap-api/internal/models"
)

type CreateTicketRequest struct {
	StudentID   string `json:"student_id" binding:"required"`
	StudentName string `json:"student_name"`
	Email       string `json:"email"`
	Subject     string `json:"subject" binding:"required"`
	Description string `json:"description" binding:"required"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
}

type EditTicketRequest struct {
	Subject     *string `json:"subject"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Priority    *string `json:"priority"`
}

type TicketStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type AssignTicketRequest struct {
	AssignedTo string `json:"assigned_to" binding:"required"`
}

type ArchiveTicketRequest struct {
	Archived bool `json:"archived"`
}

type TicketResponseRequest struct {
	Author  string `json:"author" binding:"required"`
	Role    string `json:"role"`
	Message string `json:"message" binding:"required"`
}

type TicketResponseEntry struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Role      string    `json:"role,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type TicketResponse struct {
	ID          string                `json:"id"`
	StudentID   string                `json:"student_id"`
	StudentName string                `json:"student_name,omitempty"`
	Email       string                `json:"email,omitempty"`
	Subject     string                `json:"subject"`
	Description string                `json:"description"`
	Category    string                `json:"category,omitempty"`
	Priority    string                `json:"priority"`
	Status      string                `json:"status"`
	AssignedTo  *string               `json:"assigned_to,omitempty"`
	Archived    bool                  `json:"archived"`
	Responses   []TicketResponseEntry `json:"responses"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

func ToTicketResponse(t *models.Ticket) TicketResponse {
	resp := TicketResponse{
		ID:          t.ID.String(),
		StudentID:   t.StudentID,
		StudentName: t.StudentName,
		Email:       t.Email,
		Subject:     t.Subject,
		Description: t.Description,
		Category:    t.Category,
		Priority:    t.Priority,
		Status:      string(t.Status),
		AssignedTo:  t.AssignedTo,
		Archived:    t.Archived,
		Responses:   make([]TicketResponseEntry, 0, len(t.Responses)),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	for _, r := range t.Responses {
		resp.Responses = append(resp.Responses, TicketResponseEntry{
			ID:        r.ID.String(),
			Author:    r.Author,
			Role:      r.Role,
			Message:   r.Message,
			CreatedAt: r.CreatedAt,
		})
	}
	return resp
}

type TicketListResponse struct {
	Tickets []TicketResponse `json:"tickets"`
	Total   int64            `json:"total"`
}
