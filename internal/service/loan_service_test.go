package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"bookswap-api/internal/models"
	"bookswap-api/internal/repository"
	"bookswap-api/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type mockLoanRepo struct {
	create         func(ctx context.Context, l *models.Loan) error
	getByID        func(ctx context.Context, id uuid.UUID) (*models.Loan, error)
	listByUser     func(ctx context.Context, userID uuid.UUID) ([]models.Loan, error)
	list           func(ctx context.Context, status *models.LoanStatus, limit, offset int) ([]models.Loan, int64, error)
	markReturned   func(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	markOverdueDue func(ctx context.Context, now time.Time) (int64, error)
}

func (m *mockLoanRepo) Create(ctx context.Context, l *models.Loan) error {
	if m.create == nil {
		return nil
	}
	return m.create(ctx, l)
}
func (m *mockLoanRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Loan, error) {
	if m.getByID == nil {
		return nil, nil
	}
	return m.getByID(ctx, id)
}
func (m *mockLoanRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Loan, error) {
	if m.listByUser == nil {
		return nil, nil
	}
	return m.listByUser(ctx, userID)
}
func (m *mockLoanRepo) List(ctx context.Context, status *models.LoanStatus, limit, offset int) ([]models.Loan, int64, error) {
	if m.list == nil {
		return nil, 0, nil
	}
	return m.list(ctx, status, limit, offset)
}
func (m *mockLoanRepo) MarkReturned(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	if m.markReturned == nil {
		return true, nil
	}
	return m.markReturned(ctx, id, at)
}
func (m *mockLoanRepo) MarkOverdueDue(ctx context.Context, now time.Time) (int64, error) {
	if m.markOverdueDue == nil {
		return 0, nil
	}
	return m.markOverdueDue(ctx, now)
}

func TestBorrow(t *testing.T) {
	uid := uuid.New()
	book := &models.Book{BookID: "BK-1", ItemName: "Networks", Quantity: 1, PriceCents: 1200}

	var bookDelta int32
	var saved *models.Loan
	repo := &repository.Repository{
		Books: &mockBookRepo{
			getByBookID: func(_ context.Context, id string) (*models.Book, error) {
				if id == book.BookID {
					return book, nil
				}
				return nil, nil
			},
			adjustQuantity: func(_ context.Context, _ string, delta int32) (bool, error) {
				if book.Quantity+delta < 0 {
					return false, nil
				}
				book.Quantity += delta
				bookDelta += delta
				return true, nil
			},
		},
		Products: &mockProductRepo{},
		Loans:    &mockLoanRepo{create: func(_ context.Context, l *models.Loan) error { saved = l; return nil }},
	}
	svc := service.NewLoanService(repo, zap.NewNop())
	ctx := customerCtx(uid)

	loan, err := svc.Borrow(ctx, "BK-1")
	if err != nil {
		t.Fatalf("Borrow: %v", err)
	}
	if loan.Status != models.LoanStatusBorrowed || loan.UserID != uid {
		t.Fatalf("loan = %+v", loan)
	}
	wantDue := loan.BorrowedAt.Add(14 * 24 * time.Hour)
	if !loan.DueAt.Equal(wantDue) {
		t.Fatalf("due at = %s, want %s", loan.DueAt, wantDue)
	}
	if bookDelta != -1 || saved == nil {
		t.Fatalf("stock delta = %d, saved = %v", bookDelta, saved)
	}

	// The copy is out, a second borrow runs dry.
	if _, err := svc.Borrow(ctx, "BK-1"); !errors.Is(err, service.ErrOutOfStock) {
		t.Fatalf("second borrow: err = %v, want ErrOutOfStock", err)
	}
}

func TestReturnLoan(t *testing.T) {
	uid := uuid.New()
	loan := &models.Loan{ID: uuid.New(), UserID: uid, BookID: "BK-1", Status: models.LoanStatusBorrowed}

	var restored int32
	repo := &repository.Repository{
		Books: &mockBookRepo{
			adjustQuantity: func(_ context.Context, _ string, delta int32) (bool, error) {
				restored += delta
				return true, nil
			},
		},
		Products: &mockProductRepo{},
		Loans: &mockLoanRepo{
			getByID: func(_ context.Context, _ uuid.UUID) (*models.Loan, error) { return loan, nil },
			markReturned: func(_ context.Context, _ uuid.UUID, _ time.Time) (bool, error) {
				if loan.Status == models.LoanStatusReturned {
					return false, nil
				}
				loan.Status = models.LoanStatusReturned
				return true, nil
			},
		},
	}
	svc := service.NewLoanService(repo, zap.NewNop())

	// Strangers cannot return someone else's loan.
	if _, err := svc.Return(customerCtx(uuid.New()), loan.ID); !errors.Is(err, service.ErrForbidden) {
		t.Fatalf("stranger return: err = %v, want ErrForbidden", err)
	}

	got, err := svc.Return(customerCtx(uid), loan.ID)
	if err != nil {
		t.Fatalf("Return: %v", err)
	}
	if got.Status != models.LoanStatusReturned || got.ReturnedAt == nil {
		t.Fatalf("loan = %+v", got)
	}
	if restored != 1 {
		t.Fatalf("restored = %d, want 1", restored)
	}

	if _, err := svc.Return(adminCtx(uid), loan.ID); !errors.Is(err, service.ErrLoanAlreadyReturned) {
		t.Fatalf("double return: err = %v, want ErrLoanAlreadyReturned", err)
	}
	if restored != 1 {
		t.Fatalf("double return restored again: %d", restored)
	}
}

func TestListLoansScoping(t *testing.T) {
	uid := uuid.New()
	var listedUser uuid.UUID
	staffListed := false

	repo := &repository.Repository{
		Loans: &mockLoanRepo{
			listByUser: func(_ context.Context, u uuid.UUID) ([]models.Loan, error) {
				listedUser = u
				return []models.Loan{{UserID: u}}, nil
			},
			list: func(_ context.Context, _ *models.LoanStatus, _, _ int) ([]models.Loan, int64, error) {
				staffListed = true
				return nil, 0, nil
			},
		},
	}
	svc := service.NewLoanService(repo, zap.NewNop())

	list, total, err := svc.ListLoans(customerCtx(uid), nil, 20, 0)
	if err != nil {
		t.Fatalf("ListLoans: %v", err)
	}
	if listedUser != uid || total != 1 || len(list) != 1 {
		t.Fatalf("customer listing scoped to %s, total %d", listedUser, total)
	}

	if _, _, err := svc.ListLoans(adminCtx(uuid.New()), nil, 20, 0); err != nil {
		t.Fatalf("staff listing: %v", err)
	}
	if !staffListed {
		t.Fatal("staff listing must use the unscoped query")
	}
}
