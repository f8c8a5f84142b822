package service

import (
	"context"
	"encoding/json"
	"time"

	"bookswap-api/internal/models"
	"bookswap-api/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	duplicateWindow      = time.Hour
	duplicatePrefixChars = 50

	statsCacheKey = "tickets:dashboard"
	statsCacheTTL = 30 * time.Second
)

// ticketTransitions lists the allowed status moves. Everything else is a 409.
var ticketTransitions = map[models.TicketStatus][]models.TicketStatus{
	models.TicketStatusOpen:       {models.TicketStatusInProgress, models.TicketStatusClosed},
	models.TicketStatusInProgress: {models.TicketStatusResolved},
	models.TicketStatusResolved:   {models.TicketStatusClosed},
}

func canTransition(from, to models.TicketStatus) bool {
	for _, t := range ticketTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// TicketService runs the helpdesk: ticket lifecycle, response threads and the
// dashboard counters the admin UI polls.
type TicketService struct {
	repo  *repository.Repository
	cache StatsCache
	log   *zap.Logger
	now   func() time.Time
}

func NewTicketService(repo *repository.Repository, cache StatsCache, log *zap.Logger) *TicketService {
	return &TicketService{repo: repo, cache: cache, log: log, now: time.Now}
}

type CreateTicketInput struct {
	StudentID   string
	StudentName string
	Email       string
	Subject     string
	Description string
	Category    string
	Priority    string
}

func descriptionPrefix(desc string) string {
	r := []rune(desc)
	if len(r) > duplicatePrefixChars {
		r = r[:duplicatePrefixChars]
	}
	return string(r)
}

func (s *TicketService) CreateTicket(ctx context.Context, in CreateTicketInput) (*models.Ticket, error) {
	if in.StudentID == "" || in.Subject == "" || in.Description == "" {
		return nil, ErrInvalidInput
	}

	since := s.now().Add(-duplicateWindow)
	dup, err := s.repo.Tickets.FindRecentSimilar(ctx, in.StudentID, descriptionPrefix(in.Description), since)
	if err != nil {
		return nil, err
	}
	if dup != nil {
		return nil, ErrDuplicateTicket
	}

	priority := in.Priority
	if priority == "" {
		priority = "Medium"
	}
	t := &models.Ticket{
		StudentID:   in.StudentID,
		StudentName: in.StudentName,
		Email:       in.Email,
		Subject:     in.Subject,
		Description: in.Description,
		Category:    in.Category,
		Priority:    priority,
		Status:      models.TicketStatusOpen,
	}
	if err := s.repo.Tickets.Create(ctx, t); err != nil {
		return nil, err
	}
	s.invalidateStats(ctx)
	s.log.Info("ticket created", zap.String("id", t.ID.String()), zap.String("student_id", t.StudentID))
	return t, nil
}

func (s *TicketService) GetTicket(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
	t, err := s.repo.Tickets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrTicketNotFound
	}
	return t, nil
}

func (s *TicketService) ListTickets(ctx context.Context, f repository.TicketListFilter) ([]*models.Ticket, int64, error) {
	return s.repo.Tickets.List(ctx, f)
}

type EditTicketInput struct {
	Subject     *string
	Description *string
	Category    *string
	Priority    *string
}

func (s *TicketService) EditTicket(ctx context.Context, id uuid.UUID, in EditTicketInput) (*models.Ticket, error) {
	t, err := s.GetTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Status != models.TicketStatusOpen {
		return nil, ErrTicketNotEditable
	}

	fields := map[string]any{}
	if in.Subject != nil {
		t.Subject = *in.Subject
		fields["subject"] = *in.Subject
	}
	if in.Description != nil {
		t.Description = *in.Description
		fields["description"] = *in.Description
	}
	if in.Category != nil {
		t.Category = *in.Category
		fields["category"] = *in.Category
	}
	if in.Priority != nil {
		t.Priority = *in.Priority
		fields["priority"] = *in.Priority
	}
	if len(fields) == 0 {
		return t, nil
	}
	if err := s.repo.Tickets.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}
	s.invalidateStats(ctx)
	return t, nil
}

func (s *TicketService) DeleteTicket(ctx context.Context, id uuid.UUID) error {
	t, err := s.GetTicket(ctx, id)
	if err != nil {
		return err
	}
	if t.Status != models.TicketStatusOpen && t.Status != models.TicketStatusClosed {
		return ErrTicketNotDeletable
	}
	ok, err := s.repo.Tickets.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrTicketNotFound
	}
	s.invalidateStats(ctx)
	return nil
}

func (s *TicketService) SetStatus(ctx context.Context, id uuid.UUID, to models.TicketStatus) (*models.Ticket, error) {
	t, err := s.GetTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canTransition(t.Status, to) {
		return nil, ErrTicketTransition
	}
	if err := s.repo.Tickets.UpdateFields(ctx, id, map[string]any{"status": to}); err != nil {
		return nil, err
	}
	t.Status = to
	s.invalidateStats(ctx)
	return t, nil
}

// Assign hands the ticket to a staff member and moves an open ticket to
// In Progress in the same update.
func (s *TicketService) Assign(ctx context.Context, id uuid.UUID, assignee string) (*models.Ticket, error) {
	if assignee == "" {
		return nil, ErrInvalidInput
	}
	t, err := s.GetTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{"assigned_to": assignee}
	if t.Status == models.TicketStatusOpen {
		fields["status"] = models.TicketStatusInProgress
		t.Status = models.TicketStatusInProgress
	}
	if err := s.repo.Tickets.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}
	t.AssignedTo = &assignee
	s.invalidateStats(ctx)
	return t, nil
}

func (s *TicketService) Archive(ctx context.Context, id uuid.UUID, archived bool) (*models.Ticket, error) {
	t, err := s.GetTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Tickets.UpdateFields(ctx, id, map[string]any{"archived": archived}); err != nil {
		return nil, err
	}
	t.Archived = archived
	return t, nil
}

type TicketResponseInput struct {
	Author  string
	Role    string
	Message string
}

func (s *TicketService) AddResponse(ctx context.Context, id uuid.UUID, in TicketResponseInput) (*models.TicketResponse, error) {
	if in.Message == "" {
		return nil, ErrInvalidInput
	}
	t, err := s.GetTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := &models.TicketResponse{
		TicketID: t.ID,
		Author:   in.Author,
		Role:     in.Role,
		Message:  in.Message,
	}
	if err := s.repo.Tickets.AddResponse(ctx, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Stats serves the dashboard payload, cached briefly because the UI polls it
// every 15 to 30 seconds.
func (s *TicketService) Stats(ctx context.Context) (*repository.TicketStats, error) {
	if s.cache != nil {
		if raw, err := s.cache.GetStats(ctx, statsCacheKey); err == nil && raw != nil {
			var cached repository.TicketStats
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	stats, err := s.repo.Tickets.Stats(ctx, dayStart)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(stats); err == nil {
			if err := s.cache.SetStats(ctx, statsCacheKey, raw, statsCacheTTL); err != nil {
				s.log.Warn("stats cache set failed", zap.Error(err))
			}
		}
	}
	return stats, nil
}

func (s *TicketService) invalidateStats(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateStats(ctx, statsCacheKey); err != nil {
		s.log.Warn("stats cache invalidate failed", zap.Error(err))
	}
}
