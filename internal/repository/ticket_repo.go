package repository

import (
	"context"
	"errors"
	"time"

	"bookswap-api/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TicketListFilter struct {
	Status    *models.TicketStatus
	StudentID *string
	Archived  *bool
	Limit     int
	Offset    int
}

// TicketStats feeds the helpdesk dashboard the admin UI polls.
type TicketStats struct {
	Total         int64 `json:"total"`
	Open          int64 `json:"open"`
	InProgress    int64 `json:"in_progress"`
	Resolved      int64 `json:"resolved"`
	Closed        int64 `json:"closed"`
	HighPriority  int64 `json:"high_priority"`
	ResolvedToday int64 `json:"resolved_today"`
}

type TicketRepo interface {
	Create(ctx context.Context, t *models.Ticket) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Ticket, error)
	List(ctx context.Context, f TicketListFilter) ([]*models.Ticket, int64, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	AddResponse(ctx context.Context, resp *models.TicketResponse) error

	// FindRecentSimilar backs the duplicate-submission guard: same student, a
	// description starting with the same prefix (case-insensitive), created
	// after `since`, still Open or In Progress.
	FindRecentSimilar(ctx context.Context, studentID, descriptionPrefix string, since time.Time) (*models.Ticket, error)

	Stats(ctx context.Context, dayStart time.Time) (*TicketStats, error)
}

type ticketRepo struct{ db *gorm.DB }

func NewTicketRepo(db *gorm.DB) TicketRepo { return &ticketRepo{db: db} }

func (r *ticketRepo) Create(ctx context.Context, t *models.Ticket) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *ticketRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
	var t models.Ticket
	err := r.db.WithContext(ctx).Preload("Responses").First(&t, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *ticketRepo) List(ctx context.Context, f TicketListFilter) ([]*models.Ticket, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Ticket{})

	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.StudentID != nil {
		q = q.Where("student_id = ?", *f.StudentID)
	}
	if f.Archived != nil {
		q = q.Where("archived = ?", *f.Archived)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	var list []*models.Ticket
	err := q.Order("created_at DESC").Limit(f.Limit).Offset(f.Offset).Preload("Responses").Find(&list).Error
	return list, total, err
}

func (r *ticketRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	return r.db.WithContext(ctx).Model(&models.Ticket{}).Where("id = ?", id).Updates(fields).Error
}

func (r *ticketRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tx := r.db.WithContext(ctx).Delete(&models.Ticket{}, "id = ?", id)
	return tx.RowsAffected > 0, tx.Error
}

func (r *ticketRepo) AddResponse(ctx context.Context, resp *models.TicketResponse) error {
	return r.db.WithContext(ctx).Create(resp).Error
}

func (r *ticketRepo) FindRecentSimilar(ctx context.Context, studentID, descriptionPrefix string, since time.Time) (*models.Ticket, error) {
	var t models.Ticket
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Where("description ILIKE ?", escapeLike(descriptionPrefix)+"%").
		Where("created_at >= ?", since).
		Where("status IN ?", []models.TicketStatus{models.TicketStatusOpen, models.TicketStatusInProgress}).
		Order("created_at DESC").
		First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *ticketRepo) Stats(ctx context.Context, dayStart time.Time) (*TicketStats, error) {
	stats := &TicketStats{}

	type row struct {
		Status models.TicketStatus
		Cnt    int64
	}
	var rows []row
	if err := r.db.WithContext(ctx).Model(&models.Ticket{}).
		Select("status, count(*) as cnt").Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, rw := range rows {
		stats.Total += rw.Cnt
		switch rw.Status {
		case models.TicketStatusOpen:
			stats.Open = rw.Cnt
		case models.TicketStatusInProgress:
			stats.InProgress = rw.Cnt
		case models.TicketStatusResolved:
			stats.Resolved = rw.Cnt
		case models.TicketStatusClosed:
			stats.Closed = rw.Cnt
		}
	}

	if err := r.db.WithContext(ctx).Model(&models.Ticket{}).
		Where("priority = ?", "High").Count(&stats.HighPriority).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&models.Ticket{}).
		Where("status = ? AND updated_at >= ?", models.TicketStatusResolved, dayStart).
		Count(&stats.ResolvedToday).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

// escapeLike neutralizes LIKE metacharacters in user text used as a pattern.
func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch r {
		case '%', '_', '\\':
			out = append(out, '\\', r)
		default:
			out = append(out, r)
		}
	}
	return string(out)
}
