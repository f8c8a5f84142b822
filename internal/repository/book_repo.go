package repository

import (
	"context"
	"errors"

	"bookswap-api/internal/models"

	"gorm.io/gorm"
)

type BookRepo interface {
	GetByBookID(ctx context.Context, bookID string) (*models.Book, error)
	List(ctx context.Context) ([]models.Book, error)
	Upsert(ctx context.Context, b *models.Book) error
	DeleteByBookID(ctx context.Context, bookID string) (bool, error)

	// AdjustQuantity applies delta with a zero floor; returns false without
	// changing the row when stock would go negative.
	AdjustQuantity(ctx context.Context, bookID string, delta int32) (bool, error)
}

type bookRepo struct{ db *gorm.DB }

func NewBookRepo(db *gorm.DB) BookRepo { return &bookRepo{db: db} }

func (r *bookRepo) GetByBookID(ctx context.Context, bookID string) (*models.Book, error) {
	var b models.Book
	err := r.db.WithContext(ctx).First(&b, "book_id = ?", bookID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookRepo) List(ctx context.Context) ([]models.Book, error) {
	var list []models.Book
	err := r.db.WithContext(ctx).Order("book_id").Find(&list).Error
	return list, err
}

func (r *bookRepo) Upsert(ctx context.Context, b *models.Book) error {
	return r.db.WithContext(ctx).Exec(`
INSERT INTO books (book_id, item_name, quantity, price_cents, updated_at)
VALUES (@bid, @name, @qty, @price, now())
ON CONFLICT (book_id) DO UPDATE SET
    item_name = EXCLUDED.item_name,
    quantity = EXCLUDED.quantity,
    price_cents = EXCLUDED.price_cents,
    updated_at = now()
`, map[string]any{
		"bid":   b.BookID,
		"name":  b.ItemName,
		"qty":   b.Quantity,
		"price": b.PriceCents,
	}).Error
}

func (r *bookRepo) DeleteByBookID(ctx context.Context, bookID string) (bool, error) {
	tx := r.db.WithContext(ctx).Delete(&models.Book{}, "book_id = ?", bookID)
	return tx.RowsAffected > 0, tx.Error
}

func (r *bookRepo) AdjustQuantity(ctx context.Context, bookID string, delta int32) (bool, error) {
	tx := r.db.WithContext(ctx).Exec(`
UPDATE books
SET quantity = quantity + @delta,
    updated_at = now()
WHERE book_id = @bid
  AND quantity + @delta >= 0
`, map[string]any{"bid": bookID, "delta": delta})
	return tx.RowsAffected > 0, tx.Error
}
