package repository

import (
	"context"
	"errors"

	"bookswap-api/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SupplierRepo interface {
	Create(ctx context.Context, s *models.Supplier) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
	GetByName(ctx context.Context, name string) (*models.Supplier, error)
	List(ctx context.Context) ([]models.Supplier, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type supplierRepo struct{ db *gorm.DB }

func NewSupplierRepo(db *gorm.DB) SupplierRepo { return &supplierRepo{db: db} }

func (r *supplierRepo) Create(ctx context.Context, s *models.Supplier) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *supplierRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	var s models.Supplier
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *supplierRepo) GetByName(ctx context.Context, name string) (*models.Supplier, error) {
	var s models.Supplier
	err := r.db.WithContext(ctx).First(&s, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *supplierRepo) List(ctx context.Context) ([]models.Supplier, error) {
	var list []models.Supplier
	err := r.db.WithContext(ctx).Order("name").Find(&list).Error
	return list, err
}

func (r *supplierRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	return r.db.WithContext(ctx).Model(&models.Supplier{}).Where("id = ?", id).Updates(fields).Error
}

func (r *supplierRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tx := r.db.WithContext(ctx).Delete(&models.Supplier{}, "id = ?", id)
	return tx.RowsAffected > 0, tx.Error
}
