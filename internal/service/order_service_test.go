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

func customerCtx(uid uuid.UUID) context.Context {
	ctx := service.WithUserID(context.Background(), uid)
	return service.WithRole(ctx, models.RoleCustomer)
}

func adminCtx(uid uuid.UUID) context.Context {
	ctx := service.WithUserID(context.Background(), uid)
	return service.WithRole(ctx, models.RoleAdmin)
}

func TestCreateOrder(t *testing.T) {
	uid := uuid.New()
	book := &models.Book{BookID: "BK-1", ItemName: "Algorithms", Quantity: 5, PriceCents: 1500}

	var bookDelta, productDelta int32
	var created *models.Order

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
				bookDelta += delta
				return true, nil
			},
		},
		Products: &mockProductRepo{
			adjustStockClamped: func(_ context.Context, _ string, delta int32) error {
				productDelta += delta
				return nil
			},
		},
		Orders: &mockOrderRepo{
			create: func(_ context.Context, o *models.Order) error {
				created = o
				return nil
			},
		},
		OrderItems:    &mockOrderItemRepo{},
		Counters:      &mockCounterRepo{},
		Notifications: &mockNotificationRepo{},
	}
	svc := service.NewOrderService(repo, nil, zap.NewNop())

	o, err := svc.CreateOrder(customerCtx(uid), service.CreateOrderInput{
		CustomerName: "Dana",
		Items:        []service.OrderItemInput{{BookID: "BK-1", Quantity: 3}},
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if o.OrderID != "ORD-1" {
		t.Fatalf("order id = %q, want ORD-1", o.OrderID)
	}
	if o.TotalItems != 3 || o.TotalCents != 4500 {
		t.Fatalf("totals = %d items / %d cents, want 3 / 4500", o.TotalItems, o.TotalCents)
	}
	if bookDelta != -3 || productDelta != -3 {
		t.Fatalf("stock deltas book=%d product=%d, want -3 / -3", bookDelta, productDelta)
	}
	if created == nil || created.Status != models.OrderStatusPending || created.UserID != uid {
		t.Fatalf("persisted order = %+v", created)
	}
}

func TestCreateOrderOutOfStock(t *testing.T) {
	uid := uuid.New()
	orderCreated := false

	repo := &repository.Repository{
		Books: &mockBookRepo{
			getByBookID: func(_ context.Context, id string) (*models.Book, error) {
				return &models.Book{BookID: id, ItemName: "Compilers", Quantity: 1, PriceCents: 900}, nil
			},
			adjustQuantity: func(_ context.Context, _ string, _ int32) (bool, error) {
				return false, nil
			},
		},
		Products:      &mockProductRepo{},
		Orders:        &mockOrderRepo{create: func(_ context.Context, _ *models.Order) error { orderCreated = true; return nil }},
		Counters:      &mockCounterRepo{},
		Notifications: &mockNotificationRepo{},
	}
	svc := service.NewOrderService(repo, nil, zap.NewNop())

	_, err := svc.CreateOrder(customerCtx(uid), service.CreateOrderInput{
		Items: []service.OrderItemInput{{BookID: "BK-1", Quantity: 5}},
	})
	if !errors.Is(err, service.ErrOutOfStock) {
		t.Fatalf("err = %v, want ErrOutOfStock", err)
	}
	if orderCreated {
		t.Fatal("order row must not be created when stock is short")
	}
}

func TestCreateOrderUnknownBook(t *testing.T) {
	repo := &repository.Repository{
		Books:         &mockBookRepo{},
		Products:      &mockProductRepo{},
		Orders:        &mockOrderRepo{},
		Counters:      &mockCounterRepo{},
		Notifications: &mockNotificationRepo{},
	}
	svc := service.NewOrderService(repo, nil, zap.NewNop())

	_, err := svc.CreateOrder(customerCtx(uuid.New()), service.CreateOrderInput{
		Items: []service.OrderItemInput{{BookID: "missing", Quantity: 1}},
	})
	if !errors.Is(err, service.ErrBookNotFound) {
		t.Fatalf("err = %v, want ErrBookNotFound", err)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	repo := &repository.Repository{Notifications: &mockNotificationRepo{}}
	svc := service.NewOrderService(repo, nil, zap.NewNop())
	ctx := customerCtx(uuid.New())

	if _, err := svc.CreateOrder(ctx, service.CreateOrderInput{}); !errors.Is(err, service.ErrEmptyItems) {
		t.Fatalf("empty items: err = %v, want ErrEmptyItems", err)
	}
	in := service.CreateOrderInput{Items: []service.OrderItemInput{{BookID: "BK-1", Quantity: 0}}}
	if _, err := svc.CreateOrder(ctx, in); !errors.Is(err, service.ErrInvalidQuantity) {
		t.Fatalf("zero quantity: err = %v, want ErrInvalidQuantity", err)
	}
}

// Cancel must put stock back, and a later delete of the same order must not
// restore it again.
func TestCancelRestoresStockOnce(t *testing.T) {
	uid := uuid.New()
	order := &models.Order{
		ID:      uuid.New(),
		OrderID: "ORD-7",
		UserID:  uid,
		Status:  models.OrderStatusPending,
		Items:   []models.OrderItem{{BookID: "BK-1", ItemName: "Networks", PriceCents: 1200, Quantity: 2}},
	}

	var bookRestored, productRestored int32
	repo := &repository.Repository{
		Books: &mockBookRepo{
			adjustQuantity: func(_ context.Context, _ string, delta int32) (bool, error) {
				bookRestored += delta
				return true, nil
			},
		},
		Products: &mockProductRepo{
			adjustStock: func(_ context.Context, _ string, delta int32) (bool, error) {
				productRestored += delta
				return true, nil
			},
		},
		Orders: &mockOrderRepo{
			getByID: func(_ context.Context, _ uuid.UUID) (*models.Order, error) { return order, nil },
			markStockRestored: func(_ context.Context, _ uuid.UUID) (bool, error) {
				if order.StockRestored {
					return false, nil
				}
				order.StockRestored = true
				return true, nil
			},
			updateFields: func(_ context.Context, _ uuid.UUID, fields map[string]any) error {
				if st, ok := fields["status"]; ok {
					order.Status = st.(models.OrderStatus)
				}
				return nil
			},
		},
		Notifications: &mockNotificationRepo{},
	}
	svc := service.NewOrderService(repo, nil, zap.NewNop())
	ctx := customerCtx(uid)

	if _, err := svc.Cancel(ctx, order.ID.String()); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if bookRestored != 2 || productRestored != 2 {
		t.Fatalf("restored book=%d product=%d, want 2 / 2", bookRestored, productRestored)
	}

	if err := svc.DeleteOrder(ctx, order.ID.String()); err != nil {
		t.Fatalf("DeleteOrder: %v", err)
	}
	if bookRestored != 2 || productRestored != 2 {
		t.Fatalf("delete after cancel restored again: book=%d product=%d", bookRestored, productRestored)
	}
}

func TestDeleteCompletedOrderKeepsStock(t *testing.T) {
	uid := uuid.New()
	order := &models.Order{
		ID:      uuid.New(),
		OrderID: "ORD-8",
		UserID:  uid,
		Status:  models.OrderStatusCompleted,
		Items:   []models.OrderItem{{BookID: "BK-1", Quantity: 1}},
	}

	restoreCalled := false
	repo := &repository.Repository{
		Books: &mockBookRepo{
			adjustQuantity: func(_ context.Context, _ string, _ int32) (bool, error) {
				restoreCalled = true
				return true, nil
			},
		},
		Products: &mockProductRepo{},
		Orders: &mockOrderRepo{
			getByID: func(_ context.Context, _ uuid.UUID) (*models.Order, error) { return order, nil },
		},
		Notifications: &mockNotificationRepo{},
	}
	svc := service.NewOrderService(repo, nil, zap.NewNop())

	if err := svc.DeleteOrder(adminCtx(uid), order.ID.String()); err != nil {
		t.Fatalf("DeleteOrder: %v", err)
	}
	if restoreCalled {
		t.Fatal("completed order must not restore stock on delete")
	}
}

func TestTransitionRequiresPending(t *testing.T) {
	uid := uuid.New()
	order := &models.Order{ID: uuid.New(), OrderID: "ORD-9", UserID: uid, Status: models.OrderStatusApproved}

	repo := &repository.Repository{
		Orders: &mockOrderRepo{
			getByID: func(_ context.Context, _ uuid.UUID) (*models.Order, error) { return order, nil },
		},
		Notifications: &mockNotificationRepo{},
	}
	svc := service.NewOrderService(repo, nil, zap.NewNop())

	if _, err := svc.Approve(adminCtx(uid), order.ID.String()); !errors.Is(err, service.ErrOrderNotPending) {
		t.Fatalf("approve non-pending: err = %v, want ErrOrderNotPending", err)
	}
}

func TestCompleteRequiresApprovedAndPaid(t *testing.T) {
	uid := uuid.New()
	order := &models.Order{
		ID:            uuid.New(),
		OrderID:       "ORD-10",
		UserID:        uid,
		Status:        models.OrderStatusApproved,
		PaymentStatus: models.PaymentStateUnpaid,
	}

	repo := &repository.Repository{
		Orders: &mockOrderRepo{
			getByID: func(_ context.Context, _ uuid.UUID) (*models.Order, error) { return order, nil },
		},
		Notifications: &mockNotificationRepo{},
	}
	svc := service.NewOrderService(repo, nil, zap.NewNop())
	ctx := adminCtx(uid)

	if _, err := svc.Complete(ctx, order.ID.String()); !errors.Is(err, service.ErrOrderUnpaid) {
		t.Fatalf("complete unpaid: err = %v, want ErrOrderUnpaid", err)
	}

	order.PaymentStatus = models.PaymentStatePaid
	o, err := svc.Complete(ctx, order.ID.String())
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if o.Status != models.OrderStatusCompleted {
		t.Fatalf("status = %s, want Completed", o.Status)
	}
}

func TestGetOrderOwnership(t *testing.T) {
	owner := uuid.New()
	order := &models.Order{ID: uuid.New(), OrderID: "ORD-11", UserID: owner}

	repo := &repository.Repository{
		Orders: &mockOrderRepo{
			getByID:      func(_ context.Context, _ uuid.UUID) (*models.Order, error) { return order, nil },
			getByOrderID: func(_ context.Context, _ string) (*models.Order, error) { return order, nil },
		},
	}
	svc := service.NewOrderService(repo, nil, zap.NewNop())

	if _, err := svc.GetOrder(customerCtx(uuid.New()), order.ID.String()); !errors.Is(err, service.ErrForbidden) {
		t.Fatalf("stranger read: err = %v, want ErrForbidden", err)
	}
	if _, err := svc.GetOrder(customerCtx(owner), "ORD-11"); err != nil {
		t.Fatalf("owner read by legacy id: %v", err)
	}
	if _, err := svc.GetOrder(adminCtx(uuid.New()), order.ID.String()); err != nil {
		t.Fatalf("admin read: %v", err)
	}
}

func TestEditOrderSameBookDelta(t *testing.T) {
	uid := uuid.New()
	order := &models.Order{
		ID:      uuid.New(),
		OrderID: "ORD-12",
		UserID:  uid,
		Status:  models.OrderStatusPending,
		Items:   []models.OrderItem{{BookID: "BK-1", ItemName: "Databases", PriceCents: 2000, Quantity: 2}},
	}

	var bookDelta int32
	repo := &repository.Repository{
		Books: &mockBookRepo{
			adjustQuantity: func(_ context.Context, _ string, delta int32) (bool, error) {
				bookDelta += delta
				return true, nil
			},
		},
		Products:   &mockProductRepo{},
		OrderItems: &mockOrderItemRepo{},
		Orders: &mockOrderRepo{
			getByID: func(_ context.Context, _ uuid.UUID) (*models.Order, error) { return order, nil },
		},
		Notifications: &mockNotificationRepo{},
	}
	svc := service.NewOrderService(repo, nil, zap.NewNop())

	o, err := svc.EditOrder(customerCtx(uid), order.ID.String(), service.EditOrderInput{BookID: "BK-1", Quantity: 5})
	if err != nil {
		t.Fatalf("EditOrder: %v", err)
	}
	if bookDelta != -3 {
		t.Fatalf("book delta = %d, want -3 (2 -> 5)", bookDelta)
	}
	if o.TotalItems != 5 || o.TotalCents != 10000 {
		t.Fatalf("totals = %d / %d, want 5 / 10000", o.TotalItems, o.TotalCents)
	}
}

func TestEditOrderDifferentBook(t *testing.T) {
	uid := uuid.New()
	order := &models.Order{
		ID:      uuid.New(),
		OrderID: "ORD-13",
		UserID:  uid,
		Status:  models.OrderStatusPending,
		Items:   []models.OrderItem{{BookID: "BK-1", ItemName: "Databases", PriceCents: 2000, Quantity: 2}},
	}
	replacement := &models.Book{BookID: "BK-2", ItemName: "Operating Systems", Quantity: 10, PriceCents: 1800}

	deltas := map[string]int32{}
	repo := &repository.Repository{
		Books: &mockBookRepo{
			getByBookID: func(_ context.Context, id string) (*models.Book, error) {
				if id == replacement.BookID {
					return replacement, nil
				}
				return nil, nil
			},
			adjustQuantity: func(_ context.Context, id string, delta int32) (bool, error) {
				deltas[id] += delta
				return true, nil
			},
		},
		Products:   &mockProductRepo{},
		OrderItems: &mockOrderItemRepo{},
		Orders: &mockOrderRepo{
			getByID: func(_ context.Context, _ uuid.UUID) (*models.Order, error) { return order, nil },
		},
		Notifications: &mockNotificationRepo{},
	}
	svc := service.NewOrderService(repo, nil, zap.NewNop())

	o, err := svc.EditOrder(customerCtx(uid), order.ID.String(), service.EditOrderInput{BookID: "BK-2", Quantity: 3})
	if err != nil {
		t.Fatalf("EditOrder: %v", err)
	}
	if deltas["BK-1"] != 2 {
		t.Fatalf("old book restore = %d, want +2", deltas["BK-1"])
	}
	if deltas["BK-2"] != -3 {
		t.Fatalf("new book decrement = %d, want -3", deltas["BK-2"])
	}
	if o.Items[0].BookID != "BK-2" || o.TotalCents != 5400 {
		t.Fatalf("edited order = %+v", o.Items[0])
	}
}

func TestEditOrderRules(t *testing.T) {
	uid := uuid.New()
	multi := &models.Order{
		ID:     uuid.New(),
		UserID: uid,
		Status: models.OrderStatusPending,
		Items: []models.OrderItem{
			{BookID: "BK-1", Quantity: 1},
			{BookID: "BK-2", Quantity: 1},
		},
	}

	repo := &repository.Repository{
		Orders: &mockOrderRepo{
			getByID: func(_ context.Context, _ uuid.UUID) (*models.Order, error) { return multi, nil },
		},
		Notifications: &mockNotificationRepo{},
	}
	svc := service.NewOrderService(repo, nil, zap.NewNop())
	ctx := customerCtx(uid)

	if _, err := svc.EditOrder(ctx, multi.ID.String(), service.EditOrderInput{Quantity: 2}); !errors.Is(err, service.ErrOrderMultiItemEdit) {
		t.Fatalf("multi-item edit: err = %v, want ErrOrderMultiItemEdit", err)
	}

	multi.Items = multi.Items[:1]
	multi.Status = models.OrderStatusApproved
	if _, err := svc.EditOrder(ctx, multi.ID.String(), service.EditOrderInput{Quantity: 2}); !errors.Is(err, service.ErrOrderNotPending) {
		t.Fatalf("edit non-pending: err = %v, want ErrOrderNotPending", err)
	}
}

func TestDisputeLifecycle(t *testing.T) {
	uid := uuid.New()
	order := &models.Order{ID: uuid.New(), OrderID: "ORD-14", UserID: uid, Status: models.OrderStatusCompleted}

	repo := &repository.Repository{
		Orders: &mockOrderRepo{
			getByID: func(_ context.Context, _ uuid.UUID) (*models.Order, error) { return order, nil },
		},
		Notifications: &mockNotificationRepo{},
	}
	svc := service.NewOrderService(repo, nil, zap.NewNop())
	ctx := customerCtx(uid)

	if _, err := svc.ResolveDispute(adminCtx(uid), order.ID.String(), "n/a"); !errors.Is(err, service.ErrDisputeNotFound) {
		t.Fatalf("resolve without dispute: err = %v, want ErrDisputeNotFound", err)
	}

	o, err := svc.OpenDispute(ctx, order.ID.String(), "damaged cover")
	if err != nil {
		t.Fatalf("OpenDispute: %v", err)
	}
	if o.DisputeStatus == nil || *o.DisputeStatus != models.DisputeStatusOpen {
		t.Fatalf("dispute status = %v, want Open", o.DisputeStatus)
	}

	if _, err := svc.OpenDispute(ctx, order.ID.String(), "again"); !errors.Is(err, service.ErrDisputeExists) {
		t.Fatalf("second dispute: err = %v, want ErrDisputeExists", err)
	}

	o, err = svc.ResolveDispute(adminCtx(uid), order.ID.String(), "refund issued")
	if err != nil {
		t.Fatalf("ResolveDispute: %v", err)
	}
	if o.DisputeStatus == nil || *o.DisputeStatus != models.DisputeStatusResolved {
		t.Fatalf("dispute status = %v, want Resolved", o.DisputeStatus)
	}
}
