package repository

import (
	"context"
	"errors"

	"bookswap-api/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductListFilter struct {
	Category *string
	Query    string
	Limit    int
	Offset   int
}

type ProductRepo interface {
	Create(ctx context.Context, p *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetByCode(ctx context.Context, code string) (*models.Product, error)
	List(ctx context.Context, f ProductListFilter) ([]models.Product, int64, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	// AdjustStock applies delta to stock_current with a zero floor: the update
	// is skipped (false) when it would drive stock negative.
	AdjustStock(ctx context.Context, code string, delta int32) (bool, error)
	// AdjustStockClamped applies delta and clamps the result at zero instead
	// of skipping, mirroring the legacy order flow's product decrement.
	AdjustStockClamped(ctx context.Context, code string, delta int32) error
}

type productRepo struct{ db *gorm.DB }

func NewProductRepo(db *gorm.DB) ProductRepo { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *models.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) GetByCode(ctx context.Context, code string) (*models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).First(&p, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) List(ctx context.Context, f ProductListFilter) ([]models.Product, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{})

	if f.Category != nil {
		q = q.Where("category = ?", *f.Category)
	}
	if f.Query != "" {
		q = q.Where("name ILIKE ? OR code ILIKE ?", "%"+f.Query+"%", "%"+f.Query+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit <= 0 {
		f.Limit = 50
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	var list []models.Product
	err := q.Order("created_at DESC").Limit(f.Limit).Offset(f.Offset).Find(&list).Error
	return list, total, err
}

func (r *productRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	return r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(fields).Error
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tx := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	return tx.RowsAffected > 0, tx.Error
}

func (r *productRepo) AdjustStock(ctx context.Context, code string, delta int32) (bool, error) {
	tx := r.db.WithContext(ctx).Exec(`
UPDATE products
SET stock_current = stock_current + @delta,
    updated_at = now()
WHERE code = @code
  AND stock_current + @delta >= 0
`, map[string]any{"code": code, "delta": delta})
	return tx.RowsAffected > 0, tx.Error
}

func (r *productRepo) AdjustStockClamped(ctx context.Context, code string, delta int32) error {
	return r.db.WithContext(ctx).Exec(`
UPDATE products
SET stock_current = GREATEST(stock_current + @delta, 0),
    updated_at = now()
WHERE code = @code
`, map[string]any{"code": code, "delta": delta}).Error
}
