package service

import (
	"context"
	"fmt"
	"time"

	"bookswap-api/internal/models"
	"bookswap-api/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const loanPeriod = 14 * 24 * time.Hour

// LoanService tracks physical book loans. Borrowing moves stock out and
// returning moves it back, each inside one transaction.
type LoanService struct {
	repo *repository.Repository
	log  *zap.Logger
	now  func() time.Time
}

func NewLoanService(repo *repository.Repository, log *zap.Logger) *LoanService {
	return &LoanService{repo: repo, log: log, now: time.Now}
}

func (s *LoanService) Borrow(ctx context.Context, bookID string) (*models.Loan, error) {
	uid, _, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if bookID == "" {
		return nil, ErrInvalidInput
	}

	var loan *models.Loan
	err = s.repo.WithTx(func(tx *repository.Repository) error {
		b, err := resolveBook(ctx, tx, bookID)
		if err != nil {
			return err
		}
		if b == nil {
			return fmt.Errorf("%w: %s", ErrBookNotFound, bookID)
		}
		ok, err := tx.Books.AdjustQuantity(ctx, b.BookID, -1)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s", ErrOutOfStock, bookID)
		}
		if err := tx.Products.AdjustStockClamped(ctx, b.BookID, -1); err != nil {
			return err
		}

		now := s.now()
		loan = &models.Loan{
			UserID:     uid,
			BookID:     b.BookID,
			ItemName:   b.ItemName,
			Status:     models.LoanStatusBorrowed,
			BorrowedAt: now,
			DueAt:      now.Add(loanPeriod),
		}
		return tx.Loans.Create(ctx, loan)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("book borrowed", zap.String("book_id", loan.BookID), zap.String("user_id", uid.String()))
	return loan, nil
}

func (s *LoanService) Return(ctx context.Context, id uuid.UUID) (*models.Loan, error) {
	uid, role, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	loan, err := s.repo.Loans.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if loan == nil {
		return nil, ErrLoanNotFound
	}
	if !isStaff(role) && loan.UserID != uid {
		return nil, ErrForbidden
	}

	at := s.now()
	err = s.repo.WithTx(func(tx *repository.Repository) error {
		ok, err := tx.Loans.MarkReturned(ctx, id, at)
		if err != nil {
			return err
		}
		if !ok {
			return ErrLoanAlreadyReturned
		}
		if _, err := tx.Books.AdjustQuantity(ctx, loan.BookID, 1); err != nil {
			return err
		}
		_, err = tx.Products.AdjustStock(ctx, loan.BookID, 1)
		return err
	})
	if err != nil {
		return nil, err
	}
	loan.Status = models.LoanStatusReturned
	loan.ReturnedAt = &at
	return loan, nil
}

func (s *LoanService) ListLoans(ctx context.Context, status *models.LoanStatus, limit, offset int) ([]models.Loan, int64, error) {
	uid, role, err := requireAuth(ctx)
	if err != nil {
		return nil, 0, err
	}
	if !isStaff(role) {
		list, err := s.repo.Loans.ListByUser(ctx, uid)
		return list, int64(len(list)), err
	}
	return s.repo.Loans.List(ctx, status, limit, offset)
}

// SweepOverdue flags borrowed loans past their due date. Run from the loans
// listing so the status is current without a background job.
func (s *LoanService) SweepOverdue(ctx context.Context) (int64, error) {
	n, err := s.repo.Loans.MarkOverdueDue(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Info("loans marked overdue", zap.Int64("count", n))
	}
	return n, nil
}
