package repository

import (
	"context"
	"errors"
	"time"

	"bookswap-api/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LoanRepo interface {
	Create(ctx context.Context, l *models.Loan) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Loan, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Loan, error)
	List(ctx context.Context, status *models.LoanStatus, limit, offset int) ([]models.Loan, int64, error)

	// MarkReturned flips an active loan to RETURNED; false when the loan was
	// already closed.
	MarkReturned(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	// MarkOverdueDue flags every borrowed loan past its due date.
	MarkOverdueDue(ctx context.Context, now time.Time) (int64, error)
}

type loanRepo struct{ db *gorm.DB }

func NewLoanRepo(db *gorm.DB) LoanRepo { return &loanRepo{db: db} }

func (r *loanRepo) Create(ctx context.Context, l *models.Loan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *loanRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Loan, error) {
	var l models.Loan
	err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *loanRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Loan, error) {
	var list []models.Loan
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("borrowed_at DESC").Find(&list).Error
	return list, err
}

func (r *loanRepo) List(ctx context.Context, status *models.LoanStatus, limit, offset int) ([]models.Loan, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Loan{})
	if status != nil {
		q = q.Where("status = ?", *status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var list []models.Loan
	err := q.Order("borrowed_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, total, err
}

func (r *loanRepo) MarkReturned(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&models.Loan{}).
		Where("id = ? AND status <> ?", id, models.LoanStatusReturned).
		Updates(map[string]any{
			"status":      models.LoanStatusReturned,
			"returned_at": at,
			"updated_at":  at,
		})
	return tx.RowsAffected > 0, tx.Error
}

func (r *loanRepo) MarkOverdueDue(ctx context.Context, now time.Time) (int64, error) {
	tx := r.db.WithContext(ctx).Model(&models.Loan{}).
		Where("status = ? AND due_at < ?", models.LoanStatusBorrowed, now).
		Update("status", models.LoanStatusOverdue)
	return tx.RowsAffected, tx.Error
}
