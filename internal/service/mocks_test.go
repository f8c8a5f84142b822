package service_test

import (
	"context"
	"time"

	"bookswap-api/internal/models"
	"bookswap-api/internal/repository"

	"github.com/google/uuid"
)

// Func-field mocks. A nil field means "not expected in this test"; calls on
// nil fields return zero values so unrelated paths stay quiet.

type mockBookRepo struct {
	getByBookID    func(ctx context.Context, bookID string) (*models.Book, error)
	list           func(ctx context.Context) ([]models.Book, error)
	upsert         func(ctx context.Context, b *models.Book) error
	deleteByBookID func(ctx context.Context, bookID string) (bool, error)
	adjustQuantity func(ctx context.Context, bookID string, delta int32) (bool, error)
}

func (m *mockBookRepo) GetByBookID(ctx context.Context, bookID string) (*models.Book, error) {
	if m.getByBookID == nil {
		return nil, nil
	}
	return m.getByBookID(ctx, bookID)
}
func (m *mockBookRepo) List(ctx context.Context) ([]models.Book, error) {
	if m.list == nil {
		return nil, nil
	}
	return m.list(ctx)
}
func (m *mockBookRepo) Upsert(ctx context.Context, b *models.Book) error {
	if m.upsert == nil {
		return nil
	}
	return m.upsert(ctx, b)
}
func (m *mockBookRepo) DeleteByBookID(ctx context.Context, bookID string) (bool, error) {
	if m.deleteByBookID == nil {
		return false, nil
	}
	return m.deleteByBookID(ctx, bookID)
}
func (m *mockBookRepo) AdjustQuantity(ctx context.Context, bookID string, delta int32) (bool, error) {
	if m.adjustQuantity == nil {
		return true, nil
	}
	return m.adjustQuantity(ctx, bookID, delta)
}

type mockProductRepo struct {
	create             func(ctx context.Context, p *models.Product) error
	getByID            func(ctx context.Context, id uuid.UUID) (*models.Product, error)
	getByCode          func(ctx context.Context, code string) (*models.Product, error)
	list               func(ctx context.Context, f repository.ProductListFilter) ([]models.Product, int64, error)
	updateFields       func(ctx context.Context, id uuid.UUID, fields map[string]any) error
	del                func(ctx context.Context, id uuid.UUID) (bool, error)
	adjustStock        func(ctx context.Context, code string, delta int32) (bool, error)
	adjustStockClamped func(ctx context.Context, code string, delta int32) error
}

func (m *mockProductRepo) Create(ctx context.Context, p *models.Product) error {
	if m.create == nil {
		return nil
	}
	return m.create(ctx, p)
}
func (m *mockProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if m.getByID == nil {
		return nil, nil
	}
	return m.getByID(ctx, id)
}
func (m *mockProductRepo) GetByCode(ctx context.Context, code string) (*models.Product, error) {
	if m.getByCode == nil {
		return nil, nil
	}
	return m.getByCode(ctx, code)
}
func (m *mockProductRepo) List(ctx context.Context, f repository.ProductListFilter) ([]models.Product, int64, error) {
	if m.list == nil {
		return nil, 0, nil
	}
	return m.list(ctx, f)
}
func (m *mockProductRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if m.updateFields == nil {
		return nil
	}
	return m.updateFields(ctx, id, fields)
}
func (m *mockProductRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.del == nil {
		return false, nil
	}
	return m.del(ctx, id)
}
func (m *mockProductRepo) AdjustStock(ctx context.Context, code string, delta int32) (bool, error) {
	if m.adjustStock == nil {
		return true, nil
	}
	return m.adjustStock(ctx, code, delta)
}
func (m *mockProductRepo) AdjustStockClamped(ctx context.Context, code string, delta int32) error {
	if m.adjustStockClamped == nil {
		return nil
	}
	return m.adjustStockClamped(ctx, code, delta)
}

type mockOrderRepo struct {
	create            func(ctx context.Context, o *models.Order) error
	getByID           func(ctx context.Context, id uuid.UUID) (*models.Order, error)
	getByOrderID      func(ctx context.Context, orderID string) (*models.Order, error)
	list              func(ctx context.Context, f repository.OrderListFilter) ([]*models.Order, int64, error)
	updateFields      func(ctx context.Context, id uuid.UUID, fields map[string]any) error
	del               func(ctx context.Context, id uuid.UUID) (bool, error)
	markStockRestored func(ctx context.Context, id uuid.UUID) (bool, error)
}

func (m *mockOrderRepo) Create(ctx context.Context, o *models.Order) error {
	if m.create == nil {
		return nil
	}
	return m.create(ctx, o)
}
func (m *mockOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if m.getByID == nil {
		return nil, nil
	}
	return m.getByID(ctx, id)
}
func (m *mockOrderRepo) GetByOrderID(ctx context.Context, orderID string) (*models.Order, error) {
	if m.getByOrderID == nil {
		return nil, nil
	}
	return m.getByOrderID(ctx, orderID)
}
func (m *mockOrderRepo) List(ctx context.Context, f repository.OrderListFilter) ([]*models.Order, int64, error) {
	if m.list == nil {
		return nil, 0, nil
	}
	return m.list(ctx, f)
}
func (m *mockOrderRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if m.updateFields == nil {
		return nil
	}
	return m.updateFields(ctx, id, fields)
}
func (m *mockOrderRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.del == nil {
		return true, nil
	}
	return m.del(ctx, id)
}
func (m *mockOrderRepo) MarkStockRestored(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.markStockRestored == nil {
		return true, nil
	}
	return m.markStockRestored(ctx, id)
}

type mockOrderItemRepo struct {
	bulkCreate      func(ctx context.Context, items []models.OrderItem) error
	replaceForOrder func(ctx context.Context, orderID uuid.UUID, items []models.OrderItem) error
}

func (m *mockOrderItemRepo) BulkCreate(ctx context.Context, items []models.OrderItem) error {
	if m.bulkCreate == nil {
		return nil
	}
	return m.bulkCreate(ctx, items)
}
func (m *mockOrderItemRepo) ReplaceForOrder(ctx context.Context, orderID uuid.UUID, items []models.OrderItem) error {
	if m.replaceForOrder == nil {
		return nil
	}
	return m.replaceForOrder(ctx, orderID, items)
}

type mockCounterRepo struct {
	next func(ctx context.Context, name string) (int64, error)
}

func (m *mockCounterRepo) Next(ctx context.Context, name string) (int64, error) {
	if m.next == nil {
		return 1, nil
	}
	return m.next(ctx, name)
}

type mockNotificationRepo struct {
	create      func(ctx context.Context, n *models.Notification) error
	list        func(ctx context.Context, f repository.NotificationListFilter) ([]models.Notification, int64, error)
	markRead    func(ctx context.Context, id uuid.UUID) (bool, error)
	markAllRead func(ctx context.Context, role models.Role, userID *uuid.UUID) (int64, error)
}

func (m *mockNotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	if m.create == nil {
		return nil
	}
	return m.create(ctx, n)
}
func (m *mockNotificationRepo) List(ctx context.Context, f repository.NotificationListFilter) ([]models.Notification, int64, error) {
	if m.list == nil {
		return nil, 0, nil
	}
	return m.list(ctx, f)
}
func (m *mockNotificationRepo) MarkRead(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.markRead == nil {
		return true, nil
	}
	return m.markRead(ctx, id)
}
func (m *mockNotificationRepo) MarkAllRead(ctx context.Context, role models.Role, userID *uuid.UUID) (int64, error) {
	if m.markAllRead == nil {
		return 0, nil
	}
	return m.markAllRead(ctx, role, userID)
}

type mockTicketRepo struct {
	create            func(ctx context.Context, t *models.Ticket) error
	getByID           func(ctx context.Context, id uuid.UUID) (*models.Ticket, error)
	list              func(ctx context.Context, f repository.TicketListFilter) ([]*models.Ticket, int64, error)
	updateFields      func(ctx context.Context, id uuid.UUID, fields map[string]any) error
	del               func(ctx context.Context, id uuid.UUID) (bool, error)
	addResponse       func(ctx context.Context, resp *models.TicketResponse) error
	findRecentSimilar func(ctx context.Context, studentID, descriptionPrefix string, since time.Time) (*models.Ticket, error)
	stats             func(ctx context.Context, dayStart time.Time) (*repository.TicketStats, error)
}

func (m *mockTicketRepo) Create(ctx context.Context, t *models.Ticket) error {
	if m.create == nil {
		return nil
	}
	return m.create(ctx, t)
}
func (m *mockTicketRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
	if m.getByID == nil {
		return nil, nil
	}
	return m.getByID(ctx, id)
}
func (m *mockTicketRepo) List(ctx context.Context, f repository.TicketListFilter) ([]*models.Ticket, int64, error) {
	if m.list == nil {
		return nil, 0, nil
	}
	return m.list(ctx, f)
}
func (m *mockTicketRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if m.updateFields == nil {
		return nil
	}
	return m.updateFields(ctx, id, fields)
}
func (m *mockTicketRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.del == nil {
		return true, nil
	}
	return m.del(ctx, id)
}
func (m *mockTicketRepo) AddResponse(ctx context.Context, resp *models.TicketResponse) error {
	if m.addResponse == nil {
		return nil
	}
	return m.addResponse(ctx, resp)
}
func (m *mockTicketRepo) FindRecentSimilar(ctx context.Context, studentID, descriptionPrefix string, since time.Time) (*models.Ticket, error) {
	if m.findRecentSimilar == nil {
		return nil, nil
	}
	return m.findRecentSimilar(ctx, studentID, descriptionPrefix, since)
}
func (m *mockTicketRepo) Stats(ctx context.Context, dayStart time.Time) (*repository.TicketStats, error) {
	if m.stats == nil {
		return &repository.TicketStats{}, nil
	}
	return m.stats(ctx, dayStart)
}

type mockPaymentRepo struct {
	create           func(ctx context.Context, p *models.Payment) error
	getByID          func(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	list             func(ctx context.Context, userID *uuid.UUID, limit, offset int) ([]*models.Payment, int64, error)
	listAll          func(ctx context.Context) ([]*models.Payment, error)
	updateStatusFrom func(ctx context.Context, id uuid.UUID, from, to models.FinanceStatus) (bool, error)
}

func (m *mockPaymentRepo) Create(ctx context.Context, p *models.Payment) error {
	if m.create == nil {
		return nil
	}
	return m.create(ctx, p)
}
func (m *mockPaymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	if m.getByID == nil {
		return nil, nil
	}
	return m.getByID(ctx, id)
}
func (m *mockPaymentRepo) List(ctx context.Context, userID *uuid.UUID, limit, offset int) ([]*models.Payment, int64, error) {
	if m.list == nil {
		return nil, 0, nil
	}
	return m.list(ctx, userID, limit, offset)
}
func (m *mockPaymentRepo) ListAll(ctx context.Context) ([]*models.Payment, error) {
	if m.listAll == nil {
		return nil, nil
	}
	return m.listAll(ctx)
}
func (m *mockPaymentRepo) UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to models.FinanceStatus) (bool, error) {
	if m.updateStatusFrom == nil {
		return true, nil
	}
	return m.updateStatusFrom(ctx, id, from, to)
}

type mockRefundRepo struct {
	create           func(ctx context.Context, rf *models.Refund) error
	getByID          func(ctx context.Context, id uuid.UUID) (*models.Refund, error)
	list             func(ctx context.Context, limit, offset int) ([]*models.Refund, int64, error)
	updateStatusFrom func(ctx context.Context, id uuid.UUID, from, to models.FinanceStatus) (bool, error)
}

func (m *mockRefundRepo) Create(ctx context.Context, rf *models.Refund) error {
	if m.create == nil {
		return nil
	}
	return m.create(ctx, rf)
}
func (m *mockRefundRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Refund, error) {
	if m.getByID == nil {
		return nil, nil
	}
	return m.getByID(ctx, id)
}
func (m *mockRefundRepo) List(ctx context.Context, limit, offset int) ([]*models.Refund, int64, error) {
	if m.list == nil {
		return nil, 0, nil
	}
	return m.list(ctx, limit, offset)
}
func (m *mockRefundRepo) UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to models.FinanceStatus) (bool, error) {
	if m.updateStatusFrom == nil {
		return true, nil
	}
	return m.updateStatusFrom(ctx, id, from, to)
}

type mockFineRepo struct {
	create                func(ctx context.Context, f *models.Fine) error
	getByID               func(ctx context.Context, id uuid.UUID) (*models.Fine, error)
	list                  func(ctx context.Context, userID *uuid.UUID, limit, offset int) ([]*models.Fine, int64, error)
	existsOpenForUserBook func(ctx context.Context, userID uuid.UUID, bookID string) (bool, error)
	updateStatusFrom      func(ctx context.Context, id uuid.UUID, from, to models.FinanceStatus) (bool, error)
}

func (m *mockFineRepo) Create(ctx context.Context, f *models.Fine) error {
	if m.create == nil {
		return nil
	}
	return m.create(ctx, f)
}
func (m *mockFineRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Fine, error) {
	if m.getByID == nil {
		return nil, nil
	}
	return m.getByID(ctx, id)
}
func (m *mockFineRepo) List(ctx context.Context, userID *uuid.UUID, limit, offset int) ([]*models.Fine, int64, error) {
	if m.list == nil {
		return nil, 0, nil
	}
	return m.list(ctx, userID, limit, offset)
}
func (m *mockFineRepo) ExistsOpenForUserBook(ctx context.Context, userID uuid.UUID, bookID string) (bool, error) {
	if m.existsOpenForUserBook == nil {
		return false, nil
	}
	return m.existsOpenForUserBook(ctx, userID, bookID)
}
func (m *mockFineRepo) UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to models.FinanceStatus) (bool, error) {
	if m.updateStatusFrom == nil {
		return true, nil
	}
	return m.updateStatusFrom(ctx, id, from, to)
}

type mockWalletRepo struct {
	getOrCreateForUser func(ctx context.Context, userID uuid.UUID) (*models.Wallet, error)
	getOrCreateSystem  func(ctx context.Context) (*models.Wallet, error)
	list               func(ctx context.Context) ([]models.Wallet, error)
	credit             func(ctx context.Context, walletID uuid.UUID, amountCents int64) error
	debitClamped       func(ctx context.Context, walletID uuid.UUID, amountCents int64) error
}

func (m *mockWalletRepo) GetOrCreateForUser(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	if m.getOrCreateForUser == nil {
		return &models.Wallet{ID: uuid.New(), OwnerID: &userID, Type: models.WalletTypeUser}, nil
	}
	return m.getOrCreateForUser(ctx, userID)
}
func (m *mockWalletRepo) GetOrCreateSystem(ctx context.Context) (*models.Wallet, error) {
	if m.getOrCreateSystem == nil {
		return &models.Wallet{ID: uuid.New(), Type: models.WalletTypeSystem}, nil
	}
	return m.getOrCreateSystem(ctx)
}
func (m *mockWalletRepo) List(ctx context.Context) ([]models.Wallet, error) {
	if m.list == nil {
		return nil, nil
	}
	return m.list(ctx)
}
func (m *mockWalletRepo) Credit(ctx context.Context, walletID uuid.UUID, amountCents int64) error {
	if m.credit == nil {
		return nil
	}
	return m.credit(ctx, walletID, amountCents)
}
func (m *mockWalletRepo) DebitClamped(ctx context.Context, walletID uuid.UUID, amountCents int64) error {
	if m.debitClamped == nil {
		return nil
	}
	return m.debitClamped(ctx, walletID, amountCents)
}

type mockUserRepo struct {
	create         func(ctx context.Context, u *models.User) error
	getByEmail     func(ctx context.Context, email string) (*models.User, error)
	getByID        func(ctx context.Context, id uuid.UUID) (*models.User, error)
	existsByEmail  func(ctx context.Context, email string) (bool, error)
	existsByUniID  func(ctx context.Context, uniID string) (bool, error)
	list           func(ctx context.Context, limit, offset int) ([]models.User, int64, error)
	updateFields   func(ctx context.Context, id uuid.UUID, fields map[string]any) error
	updatePassword func(ctx context.Context, id uuid.UUID, passwordHash string) error
}

func (m *mockUserRepo) Create(ctx context.Context, u *models.User) error {
	if m.create == nil {
		return nil
	}
	return m.create(ctx, u)
}
func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.getByEmail == nil {
		return nil, nil
	}
	return m.getByEmail(ctx, email)
}
func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if m.getByID == nil {
		return nil, nil
	}
	return m.getByID(ctx, id)
}
func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.existsByEmail == nil {
		return false, nil
	}
	return m.existsByEmail(ctx, email)
}
func (m *mockUserRepo) ExistsByUniID(ctx context.Context, uniID string) (bool, error) {
	if m.existsByUniID == nil {
		return false, nil
	}
	return m.existsByUniID(ctx, uniID)
}
func (m *mockUserRepo) List(ctx context.Context, limit, offset int) ([]models.User, int64, error) {
	if m.list == nil {
		return nil, 0, nil
	}
	return m.list(ctx, limit, offset)
}
func (m *mockUserRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if m.updateFields == nil {
		return nil
	}
	return m.updateFields(ctx, id, fields)
}
func (m *mockUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	if m.updatePassword == nil {
		return nil
	}
	return m.updatePassword(ctx, id, passwordHash)
}
