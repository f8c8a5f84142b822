package service_test

import (
	"context"
	"errors"
	"testing"

	"bookswap-api/internal/models"
	"bookswap-api/internal/repository"
	"bookswap-api/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type mockSupplierRepo struct {
	create       func(ctx context.Context, s *models.Supplier) error
	getByID      func(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
	getByName    func(ctx context.Context, name string) (*models.Supplier, error)
	list         func(ctx context.Context) ([]models.Supplier, error)
	updateFields func(ctx context.Context, id uuid.UUID, fields map[string]any) error
	del          func(ctx context.Context, id uuid.UUID) (bool, error)
}

func (m *mockSupplierRepo) Create(ctx context.Context, s *models.Supplier) error {
	if m.create == nil {
		return nil
	}
	return m.create(ctx, s)
}
func (m *mockSupplierRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	if m.getByID == nil {
		return nil, nil
	}
	return m.getByID(ctx, id)
}
func (m *mockSupplierRepo) GetByName(ctx context.Context, name string) (*models.Supplier, error) {
	if m.getByName == nil {
		return nil, nil
	}
	return m.getByName(ctx, name)
}
func (m *mockSupplierRepo) List(ctx context.Context) ([]models.Supplier, error) {
	if m.list == nil {
		return nil, nil
	}
	return m.list(ctx)
}
func (m *mockSupplierRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if m.updateFields == nil {
		return nil
	}
	return m.updateFields(ctx, id, fields)
}
func (m *mockSupplierRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.del == nil {
		return true, nil
	}
	return m.del(ctx, id)
}

func TestCreateProductMirrorsBook(t *testing.T) {
	var mirrored *models.Book
	repo := &repository.Repository{
		Products: &mockProductRepo{},
		Books: &mockBookRepo{
			upsert: func(_ context.Context, b *models.Book) error { mirrored = b; return nil },
		},
	}
	svc := service.NewCatalogService(repo, zap.NewNop())

	p, err := svc.CreateProduct(context.Background(), service.CreateProductInput{
		Code:         "BK-1",
		Name:         "Algorithms",
		PriceCents:   1500,
		StockCurrent: 7,
		StockTotal:   10,
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if mirrored == nil {
		t.Fatal("books row was not upserted")
	}
	if mirrored.BookID != p.Code || mirrored.ItemName != p.Name {
		t.Fatalf("mirror = %+v", mirrored)
	}
	if mirrored.Quantity != 7 || mirrored.PriceCents != 1500 {
		t.Fatalf("mirror stock = %d / %d cents", mirrored.Quantity, mirrored.PriceCents)
	}
}

func TestCreateProductDuplicateCode(t *testing.T) {
	repo := &repository.Repository{
		Products: &mockProductRepo{
			getByCode: func(_ context.Context, code string) (*models.Product, error) {
				return &models.Product{Code: code}, nil
			},
		},
		Books: &mockBookRepo{},
	}
	svc := service.NewCatalogService(repo, zap.NewNop())

	_, err := svc.CreateProduct(context.Background(), service.CreateProductInput{Code: "BK-1", Name: "Algorithms"})
	if !errors.Is(err, service.ErrCodeAlreadyExists) {
		t.Fatalf("err = %v, want ErrCodeAlreadyExists", err)
	}
}

func TestCreateProductValidation(t *testing.T) {
	repo := &repository.Repository{Products: &mockProductRepo{}, Books: &mockBookRepo{}}
	svc := service.NewCatalogService(repo, zap.NewNop())
	ctx := context.Background()

	if _, err := svc.CreateProduct(ctx, service.CreateProductInput{Name: "no code"}); !errors.Is(err, service.ErrInvalidInput) {
		t.Fatalf("missing code: err = %v, want ErrInvalidInput", err)
	}
	if _, err := svc.CreateProduct(ctx, service.CreateProductInput{Code: "BK-1", Name: "n", StockCurrent: -1}); !errors.Is(err, service.ErrInvalidAmount) {
		t.Fatalf("negative stock: err = %v, want ErrInvalidAmount", err)
	}
}

func TestUpdateProductRefreshesMirror(t *testing.T) {
	product := &models.Product{ID: uuid.New(), Code: "BK-1", Name: "Algorithms", PriceCents: 1500, StockCurrent: 7}

	var mirrored *models.Book
	repo := &repository.Repository{
		Products: &mockProductRepo{
			getByID: func(_ context.Context, _ uuid.UUID) (*models.Product, error) { return product, nil },
		},
		Books: &mockBookRepo{
			upsert: func(_ context.Context, b *models.Book) error { mirrored = b; return nil },
		},
	}
	svc := service.NewCatalogService(repo, zap.NewNop())

	stock := int32(3)
	price := int64(1800)
	p, err := svc.UpdateProduct(context.Background(), product.ID, service.UpdateProductInput{
		StockCurrent: &stock,
		PriceCents:   &price,
	})
	if err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}
	if p.StockCurrent != 3 || p.PriceCents != 1800 {
		t.Fatalf("product = %+v", p)
	}
	if mirrored == nil || mirrored.Quantity != 3 || mirrored.PriceCents != 1800 {
		t.Fatalf("mirror = %+v", mirrored)
	}
}

func TestDeleteProductRemovesMirror(t *testing.T) {
	product := &models.Product{ID: uuid.New(), Code: "BK-1", Name: "Algorithms"}

	var deletedBookID string
	repo := &repository.Repository{
		Products: &mockProductRepo{
			getByID: func(_ context.Context, _ uuid.UUID) (*models.Product, error) { return product, nil },
			del:     func(_ context.Context, _ uuid.UUID) (bool, error) { return true, nil },
		},
		Books: &mockBookRepo{
			deleteByBookID: func(_ context.Context, id string) (bool, error) { deletedBookID = id; return true, nil },
		},
	}
	svc := service.NewCatalogService(repo, zap.NewNop())

	if err := svc.DeleteProduct(context.Background(), product.ID); err != nil {
		t.Fatalf("DeleteProduct: %v", err)
	}
	if deletedBookID != product.Code {
		t.Fatalf("deleted book id = %q, want %q", deletedBookID, product.Code)
	}
}

func TestSyncToInventory(t *testing.T) {
	products := []models.Product{
		{Code: "BK-1", Name: "Algorithms", StockCurrent: 5, PriceCents: 1500},
		{Code: "BK-2", Name: "Compilers", StockCurrent: 2, PriceCents: 2000},
	}

	upserts := map[string]int32{}
	repo := &repository.Repository{
		Products: &mockProductRepo{
			list: func(_ context.Context, _ repository.ProductListFilter) ([]models.Product, int64, error) {
				return products, int64(len(products)), nil
			},
		},
		Books: &mockBookRepo{
			upsert: func(_ context.Context, b *models.Book) error {
				upserts[b.BookID] = b.Quantity
				return nil
			},
		},
	}
	svc := service.NewCatalogService(repo, zap.NewNop())

	n, err := svc.SyncToInventory(context.Background())
	if err != nil {
		t.Fatalf("SyncToInventory: %v", err)
	}
	if n != 2 {
		t.Fatalf("synced = %d, want 2", n)
	}
	if upserts["BK-1"] != 5 || upserts["BK-2"] != 2 {
		t.Fatalf("upserts = %v", upserts)
	}
}

func TestCreateSupplierUniqueName(t *testing.T) {
	existing := &models.Supplier{ID: uuid.New(), Name: "Campus Books"}

	repo := &repository.Repository{
		Suppliers: &mockSupplierRepo{
			getByName: func(_ context.Context, name string) (*models.Supplier, error) {
				if name == existing.Name {
					return existing, nil
				}
				return nil, nil
			},
		},
	}
	svc := service.NewCatalogService(repo, zap.NewNop())

	if _, err := svc.CreateSupplier(context.Background(), service.SupplierInput{Name: "Campus Books"}); !errors.Is(err, service.ErrSupplierExists) {
		t.Fatalf("duplicate name: err = %v, want ErrSupplierExists", err)
	}
	sup, err := svc.CreateSupplier(context.Background(), service.SupplierInput{Name: "  City Press  ", Email: "sales@citypress.example"})
	if err != nil {
		t.Fatalf("CreateSupplier: %v", err)
	}
	if sup.Name != "City Press" {
		t.Fatalf("name = %q, want trimmed", sup.Name)
	}
}
