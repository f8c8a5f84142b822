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

// Fine schedule: payments fall due after the grace period, then accrue a flat
// daily rate.
const (
	fineGracePeriod    = 14 * 24 * time.Hour
	fineDailyRateCents = 100
	refundGiverShare   = 90
	refundSystemShare  = 10
	refundShareDivisor = 100
)

// FinanceService owns payments, refunds, fines and wallet settlement.
type FinanceService struct {
	repo *repository.Repository
	log  *zap.Logger
	now  func() time.Time
}

func NewFinanceService(repo *repository.Repository, log *zap.Logger) *FinanceService {
	return &FinanceService{repo: repo, log: log, now: time.Now}
}

type CreatePaymentInput struct {
	UserID      uuid.UUID
	BookID      string
	AmountCents int64
	PaymentDate *time.Time
}

func (s *FinanceService) CreatePayment(ctx context.Context, in CreatePaymentInput) (*models.Payment, error) {
	if in.AmountCents <= 0 {
		return nil, ErrInvalidAmount
	}
	if in.BookID == "" {
		return nil, ErrInvalidInput
	}

	var p *models.Payment
	err := s.repo.WithTx(func(tx *repository.Repository) error {
		seq, err := tx.Counters.Next(ctx, "PAY")
		if err != nil {
			return err
		}
		date := s.now()
		if in.PaymentDate != nil {
			date = *in.PaymentDate
		}
		p = &models.Payment{
			PaymentID:   fmt.Sprintf("PAY-%d", seq),
			UserID:      in.UserID,
			BookID:      in.BookID,
			AmountCents: in.AmountCents,
			Status:      models.FinanceStatusPending,
			PaymentDate: date,
		}
		return tx.Payments.Create(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *FinanceService) ListPayments(ctx context.Context, userID *uuid.UUID, limit, offset int) ([]*models.Payment, int64, error) {
	return s.repo.Payments.List(ctx, userID, limit, offset)
}

func (s *FinanceService) ApprovePayment(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	return s.setPaymentStatus(ctx, id, models.FinanceStatusApproved)
}

func (s *FinanceService) RejectPayment(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	return s.setPaymentStatus(ctx, id, models.FinanceStatusRejected)
}

func (s *FinanceService) setPaymentStatus(ctx context.Context, id uuid.UUID, to models.FinanceStatus) (*models.Payment, error) {
	p, err := s.repo.Payments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPaymentNotFound
	}
	ok, err := s.repo.Payments.UpdateStatusFrom(ctx, id, models.FinanceStatusPending, to)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAlreadyProcessed
	}
	p.Status = to
	return p, nil
}

type CreateRefundInput struct {
	PaymentID uuid.UUID
	GiverID   uuid.UUID
	Reason    string
}

func (s *FinanceService) CreateRefund(ctx context.Context, in CreateRefundInput) (*models.Refund, error) {
	p, err := s.repo.Payments.GetByID(ctx, in.PaymentID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPaymentNotFound
	}

	var rf *models.Refund
	err = s.repo.WithTx(func(tx *repository.Repository) error {
		seq, err := tx.Counters.Next(ctx, "REF")
		if err != nil {
			return err
		}
		rf = &models.Refund{
			RefundID:  fmt.Sprintf("REF-%d", seq),
			PaymentID: p.ID,
			BuyerID:   p.UserID,
			GiverID:   in.GiverID,
			Reason:    in.Reason,
			Status:    models.FinanceStatusPending,
		}
		return tx.Refunds.Create(ctx, rf)
	})
	if err != nil {
		return nil, err
	}
	return rf, nil
}

func (s *FinanceService) ListRefunds(ctx context.Context, limit, offset int) ([]*models.Refund, int64, error) {
	return s.repo.Refunds.List(ctx, limit, offset)
}

// ApproveRefund settles the refund across three wallets in one transaction:
// the buyer gets the full payment back, the giver is debited 90% and the
// system wallet 10%, both floored at zero.
func (s *FinanceService) ApproveRefund(ctx context.Context, id uuid.UUID) (*models.Refund, error) {
	rf, err := s.repo.Refunds.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rf == nil {
		return nil, ErrRefundNotFound
	}
	p, err := s.repo.Payments.GetByID(ctx, rf.PaymentID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPaymentNotFound
	}

	err = s.repo.WithTx(func(tx *repository.Repository) error {
		ok, err := tx.Refunds.UpdateStatusFrom(ctx, id, models.FinanceStatusPending, models.FinanceStatusApproved)
		if err != nil {
			return err
		}
		if !ok {
			return ErrAlreadyProcessed
		}

		buyer, err := tx.Wallets.GetOrCreateForUser(ctx, rf.BuyerID)
		if err != nil {
			return err
		}
		giver, err := tx.Wallets.GetOrCreateForUser(ctx, rf.GiverID)
		if err != nil {
			return err
		}
		system, err := tx.Wallets.GetOrCreateSystem(ctx)
		if err != nil {
			return err
		}

		amount := p.AmountCents
		if err := tx.Wallets.Credit(ctx, buyer.ID, amount); err != nil {
			return err
		}
		if err := tx.Wallets.DebitClamped(ctx, giver.ID, amount*refundGiverShare/refundShareDivisor); err != nil {
			return err
		}
		return tx.Wallets.DebitClamped(ctx, system.ID, amount*refundSystemShare/refundShareDivisor)
	})
	if err != nil {
		return nil, err
	}
	rf.Status = models.FinanceStatusApproved
	s.log.Info("refund approved", zap.String("refund_id", rf.RefundID), zap.Int64("amount_cents", p.AmountCents))
	return rf, nil
}

func (s *FinanceService) RejectRefund(ctx context.Context, id uuid.UUID) (*models.Refund, error) {
	rf, err := s.repo.Refunds.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rf == nil {
		return nil, ErrRefundNotFound
	}
	ok, err := s.repo.Refunds.UpdateStatusFrom(ctx, id, models.FinanceStatusPending, models.FinanceStatusRejected)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAlreadyProcessed
	}
	rf.Status = models.FinanceStatusRejected
	return rf, nil
}

// CalculateFines sweeps every payment and opens a fine for each one past the
// grace period. A pair (user, book) with any fine not yet PAID is skipped, so
// the sweep is idempotent; rejected fines keep blocking re-creation until the
// student settles.
func (s *FinanceService) CalculateFines(ctx context.Context) (int, error) {
	payments, err := s.repo.Payments.ListAll(ctx)
	if err != nil {
		return 0, err
	}

	now := s.now()
	created := 0
	for _, p := range payments {
		due := p.PaymentDate.Add(fineGracePeriod)
		if !now.After(due) {
			continue
		}
		overdueDays := int32((now.Sub(due) + 24*time.Hour - time.Nanosecond) / (24 * time.Hour))

		open, err := s.repo.Fines.ExistsOpenForUserBook(ctx, p.UserID, p.BookID)
		if err != nil {
			return created, err
		}
		if open {
			continue
		}

		f := &models.Fine{
			UserID:      p.UserID,
			BookID:      p.BookID,
			AmountCents: int64(overdueDays) * fineDailyRateCents,
			OverdueDays: overdueDays,
			Status:      models.FinanceStatusPending,
		}
		if err := s.repo.Fines.Create(ctx, f); err != nil {
			return created, err
		}
		created++
	}
	if created > 0 {
		s.log.Info("fines created", zap.Int("count", created))
	}
	return created, nil
}

// ListFines runs the sweep first so the listing always reflects current
// overdue state.
func (s *FinanceService) ListFines(ctx context.Context, userID *uuid.UUID, limit, offset int) ([]*models.Fine, int64, error) {
	if _, err := s.CalculateFines(ctx); err != nil {
		return nil, 0, err
	}
	return s.repo.Fines.List(ctx, userID, limit, offset)
}

// ApproveFine credits the fine amount to the system wallet. Only a PENDING
// fine can be approved; a repeat approval is a conflict.
func (s *FinanceService) ApproveFine(ctx context.Context, id uuid.UUID) (*models.Fine, error) {
	f, err := s.repo.Fines.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, ErrFineNotFound
	}

	err = s.repo.WithTx(func(tx *repository.Repository) error {
		ok, err := tx.Fines.UpdateStatusFrom(ctx, id, models.FinanceStatusPending, models.FinanceStatusApproved)
		if err != nil {
			return err
		}
		if !ok {
			return ErrAlreadyProcessed
		}
		system, err := tx.Wallets.GetOrCreateSystem(ctx)
		if err != nil {
			return err
		}
		return tx.Wallets.Credit(ctx, system.ID, f.AmountCents)
	})
	if err != nil {
		return nil, err
	}
	f.Status = models.FinanceStatusApproved
	return f, nil
}

func (s *FinanceService) RejectFine(ctx context.Context, id uuid.UUID) (*models.Fine, error) {
	f, err := s.repo.Fines.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, ErrFineNotFound
	}
	ok, err := s.repo.Fines.UpdateStatusFrom(ctx, id, models.FinanceStatusPending, models.FinanceStatusRejected)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAlreadyProcessed
	}
	f.Status = models.FinanceStatusRejected
	return f, nil
}

// PayFine marks an approved fine as settled by the student.
func (s *FinanceService) PayFine(ctx context.Context, id uuid.UUID) (*models.Fine, error) {
	f, err := s.repo.Fines.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, ErrFineNotFound
	}
	ok, err := s.repo.Fines.UpdateStatusFrom(ctx, id, models.FinanceStatusApproved, models.FinanceStatusPaid)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAlreadyProcessed
	}
	f.Status = models.FinanceStatusPaid
	return f, nil
}

func (s *FinanceService) ListWallets(ctx context.Context) ([]models.Wallet, error) {
	return s.repo.Wallets.List(ctx)
}

func (s *FinanceService) MyWallet(ctx context.Context) (*models.Wallet, error) {
	uid, _, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.Wallets.GetOrCreateForUser(ctx, uid)
}
