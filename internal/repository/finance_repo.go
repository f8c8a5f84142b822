package repository

import (
	"context"
	"errors"

	"bookswap-api/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentRepo interface {
	Create(ctx context.Context, p *models.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	List(ctx context.Context, userID *uuid.UUID, limit, offset int) ([]*models.Payment, int64, error)
	ListAll(ctx context.Context) ([]*models.Payment, error)
	UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to models.FinanceStatus) (bool, error)
}

type paymentRepo struct{ db *gorm.DB }

func NewPaymentRepo(db *gorm.DB) PaymentRepo { return &paymentRepo{db: db} }

func (r *paymentRepo) Create(ctx context.Context, p *models.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *paymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	var p models.Payment
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepo) List(ctx context.Context, userID *uuid.UUID, limit, offset int) ([]*models.Payment, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Payment{})
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
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

	var list []*models.Payment
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, total, err
}

func (r *paymentRepo) ListAll(ctx context.Context) ([]*models.Payment, error) {
	var list []*models.Payment
	err := r.db.WithContext(ctx).Order("payment_date").Find(&list).Error
	return list, err
}

// UpdateStatusFrom performs the status transition only when the row is still
// in the expected state, so a second approval loses the race cleanly.
func (r *paymentRepo) UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to models.FinanceStatus) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return tx.RowsAffected > 0, tx.Error
}

type RefundRepo interface {
	Create(ctx context.Context, rf *models.Refund) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Refund, error)
	List(ctx context.Context, limit, offset int) ([]*models.Refund, int64, error)
	UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to models.FinanceStatus) (bool, error)
}

type refundRepo struct{ db *gorm.DB }

func NewRefundRepo(db *gorm.DB) RefundRepo { return &refundRepo{db: db} }

func (r *refundRepo) Create(ctx context.Context, rf *models.Refund) error {
	return r.db.WithContext(ctx).Create(rf).Error
}

func (r *refundRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Refund, error) {
	var rf models.Refund
	err := r.db.WithContext(ctx).First(&rf, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rf, nil
}

func (r *refundRepo) List(ctx context.Context, limit, offset int) ([]*models.Refund, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Refund{})

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

	var list []*models.Refund
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, total, err
}

func (r *refundRepo) UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to models.FinanceStatus) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&models.Refund{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return tx.RowsAffected > 0, tx.Error
}

type FineRepo interface {
	Create(ctx context.Context, f *models.Fine) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Fine, error)
	List(ctx context.Context, userID *uuid.UUID, limit, offset int) ([]*models.Fine, int64, error)
	// ExistsOpenForUserBook reports whether any fine for the pair has not yet
	// reached PAID. Rejected fines count too: they keep blocking re-creation.
	ExistsOpenForUserBook(ctx context.Context, userID uuid.UUID, bookID string) (bool, error)
	UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to models.FinanceStatus) (bool, error)
}

type fineRepo struct{ db *gorm.DB }

func NewFineRepo(db *gorm.DB) FineRepo { return &fineRepo{db: db} }

func (r *fineRepo) Create(ctx context.Context, f *models.Fine) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *fineRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Fine, error) {
	var f models.Fine
	err := r.db.WithContext(ctx).First(&f, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *fineRepo) List(ctx context.Context, userID *uuid.UUID, limit, offset int) ([]*models.Fine, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Fine{})
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var list []*models.Fine
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, total, err
}

func (r *fineRepo) ExistsOpenForUserBook(ctx context.Context, userID uuid.UUID, bookID string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&models.Fine{}).
		Where("user_id = ? AND book_id = ? AND status <> ?", userID, bookID, models.FinanceStatusPaid).
		Count(&cnt).Error
	return cnt > 0, err
}

func (r *fineRepo) UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to models.FinanceStatus) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&models.Fine{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return tx.RowsAffected > 0, tx.Error
}

type WalletRepo interface {
	// GetOrCreateForUser returns the user's wallet, creating the row lazily.
	GetOrCreateForUser(ctx context.Context, userID uuid.UUID) (*models.Wallet, error)
	// GetOrCreateSystem returns the singleton system wallet, creating it if
	// the seed row is missing.
	GetOrCreateSystem(ctx context.Context) (*models.Wallet, error)
	List(ctx context.Context) ([]models.Wallet, error)

	// Credit adds amount unconditionally.
	Credit(ctx context.Context, walletID uuid.UUID, amountCents int64) error
	// DebitClamped subtracts amount, flooring the balance at zero. A shortfall
	// is swallowed, not reported.
	DebitClamped(ctx context.Context, walletID uuid.UUID, amountCents int64) error
}

type walletRepo struct{ db *gorm.DB }

func NewWalletRepo(db *gorm.DB) WalletRepo { return &walletRepo{db: db} }

func (r *walletRepo) GetOrCreateForUser(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	var w models.Wallet
	err := r.db.WithContext(ctx).First(&w, "owner_id = ?", userID).Error
	if err == nil {
		return &w, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	w = models.Wallet{OwnerID: &userID, Type: models.WalletTypeUser}
	if err := r.db.WithContext(ctx).Create(&w).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *walletRepo) GetOrCreateSystem(ctx context.Context) (*models.Wallet, error) {
	var w models.Wallet
	err := r.db.WithContext(ctx).First(&w, "type = ?", models.WalletTypeSystem).Error
	if err == nil {
		return &w, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	w = models.Wallet{Type: models.WalletTypeSystem}
	if err := r.db.WithContext(ctx).Create(&w).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *walletRepo) List(ctx context.Context) ([]models.Wallet, error) {
	var list []models.Wallet
	err := r.db.WithContext(ctx).Order("created_at").Find(&list).Error
	return list, err
}

func (r *walletRepo) Credit(ctx context.Context, walletID uuid.UUID, amountCents int64) error {
	return r.db.WithContext(ctx).Exec(`
UPDATE wallets
SET balance_cents = balance_cents + @amt,
    updated_at = now()
WHERE id = @id
`, map[string]any{"id": walletID, "amt": amountCents}).Error
}

func (r *walletRepo) DebitClamped(ctx context.Context, walletID uuid.UUID, amountCents int64) error {
	return r.db.WithContext(ctx).Exec(`
UPDATE wallets
SET balance_cents = GREATEST(balance_cents - @amt, 0),
    updated_at = now()
WHERE id = @id
`, map[string]any{"id": walletID, "amt": amountCents}).Error
}
