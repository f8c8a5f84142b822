package service

import (
	"context"
	"strings"

	"bookswap-api/internal/models"
	"bookswap-api/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CatalogService owns products, their legacy inventory mirror and suppliers.
// Every product write updates the books row for the same code in the same
// transaction, so the order flow always sees current stock.
type CatalogService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCatalogService(repo *repository.Repository, log *zap.Logger) *CatalogService {
	return &CatalogService{repo: repo, log: log}
}

type CreateProductInput struct {
	Code         string
	Name         string
	Category     string
	PriceCents   int64
	StockCurrent int32
	StockTotal   int32
	Supplier     string
}

func mirrorOf(p *models.Product) *models.Book {
	return &models.Book{
		BookID:     p.Code,
		ItemName:   p.Name,
		Quantity:   p.StockCurrent,
		PriceCents: p.PriceCents,
	}
}

func (s *CatalogService) CreateProduct(ctx context.Context, in CreateProductInput) (*models.Product, error) {
	in.Code = strings.TrimSpace(in.Code)
	in.Name = strings.TrimSpace(in.Name)
	if in.Code == "" || in.Name == "" {
		return nil, ErrInvalidInput
	}
	if in.StockCurrent < 0 || in.StockTotal < 0 || in.PriceCents < 0 {
		return nil, ErrInvalidAmount
	}

	exists, err := s.repo.Products.GetByCode(ctx, in.Code)
	if err != nil {
		return nil, err
	}
	if exists != nil {
		return nil, ErrCodeAlreadyExists
	}

	p := &models.Product{
		Code:         in.Code,
		Name:         in.Name,
		Category:     in.Category,
		PriceCents:   in.PriceCents,
		StockCurrent: in.StockCurrent,
		StockTotal:   in.StockTotal,
		Supplier:     in.Supplier,
	}
	err = s.repo.WithTx(func(tx *repository.Repository) error {
		if err := tx.Products.Create(ctx, p); err != nil {
			return err
		}
		return tx.Books.Upsert(ctx, mirrorOf(p))
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("product created", zap.String("code", p.Code), zap.String("id", p.ID.String()))
	return p, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, err := s.repo.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	return p, nil
}

func (s *CatalogService) ListProducts(ctx context.Context, f repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.repo.Products.List(ctx, f)
}

type UpdateProductInput struct {
	Name         *string
	Category     *string
	PriceCents   *int64
	StockCurrent *int32
	StockTotal   *int32
	Supplier     *string
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, in UpdateProductInput) (*models.Product, error) {
	p, err := s.repo.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}

	fields := map[string]any{}
	if in.Name != nil {
		p.Name = *in.Name
		fields["name"] = *in.Name
	}
	if in.Category != nil {
		p.Category = *in.Category
		fields["category"] = *in.Category
	}
	if in.PriceCents != nil {
		if *in.PriceCents < 0 {
			return nil, ErrInvalidAmount
		}
		p.PriceCents = *in.PriceCents
		fields["price_cents"] = *in.PriceCents
	}
	if in.StockCurrent != nil {
		if *in.StockCurrent < 0 {
			return nil, ErrInvalidAmount
		}
		p.StockCurrent = *in.StockCurrent
		fields["stock_current"] = *in.StockCurrent
	}
	if in.StockTotal != nil {
		if *in.StockTotal < 0 {
			return nil, ErrInvalidAmount
		}
		p.StockTotal = *in.StockTotal
		fields["stock_total"] = *in.StockTotal
	}
	if in.Supplier != nil {
		p.Supplier = *in.Supplier
		fields["supplier"] = *in.Supplier
	}
	if len(fields) == 0 {
		return p, nil
	}

	err = s.repo.WithTx(func(tx *repository.Repository) error {
		if err := tx.Products.UpdateFields(ctx, id, fields); err != nil {
			return err
		}
		return tx.Books.Upsert(ctx, mirrorOf(p))
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.Products.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrProductNotFound
	}

	return s.repo.WithTx(func(tx *repository.Repository) error {
		ok, err := tx.Products.Delete(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return ErrProductNotFound
		}
		_, err = tx.Books.DeleteByBookID(ctx, p.Code)
		return err
	})
}

// SyncToInventory re-materializes a books row for every product. Used to heal
// the mirror after manual database edits.
func (s *CatalogService) SyncToInventory(ctx context.Context) (int, error) {
	list, _, err := s.repo.Products.List(ctx, repository.ProductListFilter{Limit: 10000})
	if err != nil {
		return 0, err
	}

	synced := 0
	err = s.repo.WithTx(func(tx *repository.Repository) error {
		for i := range list {
			if err := tx.Books.Upsert(ctx, mirrorOf(&list[i])); err != nil {
				return err
			}
			synced++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.log.Info("inventory mirror synced", zap.Int("products", synced))
	return synced, nil
}

func (s *CatalogService) ListBooks(ctx context.Context) ([]models.Book, error) {
	return s.repo.Books.List(ctx)
}

type SupplierInput struct {
	Name    string
	Contact string
	Email   string
	Phone   string
	Address string
}

func (s *CatalogService) CreateSupplier(ctx context.Context, in SupplierInput) (*models.Supplier, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, ErrInvalidInput
	}
	exists, err := s.repo.Suppliers.GetByName(ctx, in.Name)
	if err != nil {
		return nil, err
	}
	if exists != nil {
		return nil, ErrSupplierExists
	}

	sup := &models.Supplier{
		Name:    in.Name,
		Contact: in.Contact,
		Email:   in.Email,
		Phone:   in.Phone,
		Address: in.Address,
	}
	if err := s.repo.Suppliers.Create(ctx, sup); err != nil {
		return nil, err
	}
	return sup, nil
}

func (s *CatalogService) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	return s.repo.Suppliers.List(ctx)
}

func (s *CatalogService) GetSupplier(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	sup, err := s.repo.Suppliers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sup == nil {
		return nil, ErrSupplierNotFound
	}
	return sup, nil
}

func (s *CatalogService) UpdateSupplier(ctx context.Context, id uuid.UUID, in SupplierInput) (*models.Supplier, error) {
	sup, err := s.repo.Suppliers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sup == nil {
		return nil, ErrSupplierNotFound
	}

	fields := map[string]any{}
	if name := strings.TrimSpace(in.Name); name != "" && name != sup.Name {
		other, err := s.repo.Suppliers.GetByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, ErrSupplierExists
		}
		sup.Name = name
		fields["name"] = name
	}
	if in.Contact != "" {
		sup.Contact = in.Contact
		fields["contact"] = in.Contact
	}
	if in.Email != "" {
		sup.Email = in.Email
		fields["email"] = in.Email
	}
	if in.Phone != "" {
		sup.Phone = in.Phone
		fields["phone"] = in.Phone
	}
	if in.Address != "" {
		sup.Address = in.Address
		fields["address"] = in.Address
	}
	if len(fields) == 0 {
		return sup, nil
	}
	if err := s.repo.Suppliers.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}
	return sup, nil
}

func (s *CatalogService) DeleteSupplier(ctx context.Context, id uuid.UUID) error {
	ok, err := s.repo.Suppliers.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrSupplierNotFound
	}
	return nil
}
