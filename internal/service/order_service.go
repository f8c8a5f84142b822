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

// OrderService implements the order lifecycle. Stock moves with the order
// inside one transaction: creation decrements, reject/cancel/delete restore,
// and the stock_restored guard keeps the restore from ever running twice.
type OrderService struct {
	repo *repository.Repository
	bus  EventBus
	log  *zap.Logger
	now  func() time.Time
}

func NewOrderService(repo *repository.Repository, bus EventBus, log *zap.Logger) *OrderService {
	return &OrderService{repo: repo, bus: bus, log: log, now: time.Now}
}

type OrderItemInput struct {
	BookID   string
	Quantity int32
}

type CreateOrderInput struct {
	CustomerName  string
	CustomerEmail string
	Items         []OrderItemInput
}

// resolveBook finds the legacy inventory row for a code, materializing it from
// the product when the mirror row is missing. Nil means the code is unknown on
// both sides.
func resolveBook(ctx context.Context, tx *repository.Repository, bookID string) (*models.Book, error) {
	b, err := tx.Books.GetByBookID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if b != nil {
		return b, nil
	}

	p, err := tx.Products.GetByCode(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}
	b = mirrorOf(p)
	if err := tx.Books.Upsert(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	uid, _, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if len(in.Items) == 0 {
		return nil, ErrEmptyItems
	}
	for _, it := range in.Items {
		if it.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
	}

	var order *models.Order
	err = s.repo.WithTx(func(tx *repository.Repository) error {
		items := make([]models.OrderItem, 0, len(in.Items))
		var totalItems int32
		var totalCents int64

		for _, it := range in.Items {
			b, err := resolveBook(ctx, tx, it.BookID)
			if err != nil {
				return err
			}
			if b == nil {
				return fmt.Errorf("%w: %s", ErrBookNotFound, it.BookID)
			}
			ok, err := tx.Books.AdjustQuantity(ctx, b.BookID, -it.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: %s", ErrOutOfStock, it.BookID)
			}
			if err := tx.Products.AdjustStockClamped(ctx, b.BookID, -it.Quantity); err != nil {
				return err
			}

			items = append(items, models.OrderItem{
				BookID:     b.BookID,
				ItemName:   b.ItemName,
				PriceCents: b.PriceCents,
				Quantity:   it.Quantity,
			})
			totalItems += it.Quantity
			totalCents += b.PriceCents * int64(it.Quantity)
		}

		seq, err := tx.Counters.Next(ctx, "ORD")
		if err != nil {
			return err
		}
		order = &models.Order{
			OrderID:       fmt.Sprintf("ORD-%d", seq),
			UserID:        uid,
			CustomerName:  in.CustomerName,
			CustomerEmail: in.CustomerEmail,
			Status:        models.OrderStatusPending,
			PaymentStatus: models.PaymentStateUnpaid,
			TotalItems:    totalItems,
			TotalCents:    totalCents,
			Items:         items,
		}
		return tx.Orders.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, models.RoleAdmin, nil, "order_created", "New order",
		fmt.Sprintf("Order %s placed (%d items)", order.OrderID, order.TotalItems))
	s.publish(ctx, OrderEventCreated, order)
	s.log.Info("order created", zap.String("order_id", order.OrderID), zap.String("user_id", uid.String()))
	return order, nil
}

// resolve accepts either the row uuid or the human ORD-n id.
func (s *OrderService) resolve(ctx context.Context, ref string) (*models.Order, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return s.repo.Orders.GetByID(ctx, id)
	}
	return s.repo.Orders.GetByOrderID(ctx, ref)
}

func (s *OrderService) GetOrder(ctx context.Context, ref string) (*models.Order, error) {
	uid, role, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	o, err := s.resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}
	if !isStaff(role) && o.UserID != uid {
		return nil, ErrForbidden
	}
	return o, nil
}

func (s *OrderService) ListOrders(ctx context.Context, f repository.OrderListFilter) ([]*models.Order, int64, error) {
	uid, role, err := requireAuth(ctx)
	if err != nil {
		return nil, 0, err
	}
	if !isStaff(role) {
		f.UserID = &uid
	}
	return s.repo.Orders.List(ctx, f)
}

func (s *OrderService) ListUserOrders(ctx context.Context, userID uuid.UUID) ([]*models.Order, int64, error) {
	uid, role, err := requireAuth(ctx)
	if err != nil {
		return nil, 0, err
	}
	if !isStaff(role) && uid != userID {
		return nil, 0, ErrForbidden
	}
	return s.repo.Orders.List(ctx, repository.OrderListFilter{UserID: &userID, Limit: 100})
}

// restoreStock puts the order's stock back into books and products. The
// stock_restored guard makes repeated calls no-ops.
func restoreStock(ctx context.Context, tx *repository.Repository, o *models.Order) error {
	ok, err := tx.Orders.MarkStockRestored(ctx, o.ID)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	for _, it := range o.Items {
		if _, err := tx.Books.AdjustQuantity(ctx, it.BookID, it.Quantity); err != nil {
			return err
		}
		if _, err := tx.Products.AdjustStock(ctx, it.BookID, it.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func (s *OrderService) Approve(ctx context.Context, ref string) (*models.Order, error) {
	o, err := s.transitionFromPending(ctx, ref, models.OrderStatusApproved, false)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, models.RoleCustomer, &o.UserID, "order_approved", "Order approved",
		fmt.Sprintf("Order %s was approved", o.OrderID))
	s.publish(ctx, OrderEventApproved, o)
	return o, nil
}

func (s *OrderService) Reject(ctx context.Context, ref string) (*models.Order, error) {
	o, err := s.transitionFromPending(ctx, ref, models.OrderStatusRejected, true)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, models.RoleCustomer, &o.UserID, "order_rejected", "Order rejected",
		fmt.Sprintf("Order %s was rejected", o.OrderID))
	s.publish(ctx, OrderEventRejected, o)
	return o, nil
}

func (s *OrderService) Cancel(ctx context.Context, ref string) (*models.Order, error) {
	o, err := s.transitionFromPending(ctx, ref, models.OrderStatusCancelled, true)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, models.RoleAdmin, nil, "order_cancelled", "Order cancelled",
		fmt.Sprintf("Order %s was cancelled", o.OrderID))
	s.publish(ctx, OrderEventCancelled, o)
	return o, nil
}

func (s *OrderService) transitionFromPending(ctx context.Context, ref string, to models.OrderStatus, restore bool) (*models.Order, error) {
	o, err := s.GetOrder(ctx, ref)
	if err != nil {
		return nil, err
	}
	if o.Status != models.OrderStatusPending {
		return nil, ErrOrderNotPending
	}

	err = s.repo.WithTx(func(tx *repository.Repository) error {
		if err := tx.Orders.UpdateFields(ctx, o.ID, map[string]any{"status": to}); err != nil {
			return err
		}
		if restore {
			return restoreStock(ctx, tx, o)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	o.Status = to
	return o, nil
}

func (s *OrderService) MarkPaid(ctx context.Context, ref string) (*models.Order, error) {
	o, err := s.GetOrder(ctx, ref)
	if err != nil {
		return nil, err
	}
	if o.Status != models.OrderStatusPending && o.Status != models.OrderStatusApproved {
		return nil, ErrOrderNotPending
	}
	if err := s.repo.Orders.UpdateFields(ctx, o.ID, map[string]any{"payment_status": models.PaymentStatePaid}); err != nil {
		return nil, err
	}
	o.PaymentStatus = models.PaymentStatePaid
	s.publish(ctx, OrderEventPaid, o)
	return o, nil
}

func (s *OrderService) Complete(ctx context.Context, ref string) (*models.Order, error) {
	o, err := s.GetOrder(ctx, ref)
	if err != nil {
		return nil, err
	}
	if o.Status != models.OrderStatusApproved {
		return nil, ErrOrderNotApproved
	}
	if o.PaymentStatus != models.PaymentStatePaid {
		return nil, ErrOrderUnpaid
	}
	if err := s.repo.Orders.UpdateFields(ctx, o.ID, map[string]any{"status": models.OrderStatusCompleted}); err != nil {
		return nil, err
	}
	o.Status = models.OrderStatusCompleted
	s.notify(ctx, models.RoleCustomer, &o.UserID, "order_completed", "Order completed",
		fmt.Sprintf("Order %s was completed", o.OrderID))
	s.publish(ctx, OrderEventCompleted, o)
	return o, nil
}

func (s *OrderService) DeleteOrder(ctx context.Context, ref string) error {
	o, err := s.GetOrder(ctx, ref)
	if err != nil {
		return err
	}

	return s.repo.WithTx(func(tx *repository.Repository) error {
		// Completed orders handed their items over; only undelivered stock is
		// put back.
		if o.Status != models.OrderStatusCompleted {
			if err := restoreStock(ctx, tx, o); err != nil {
				return err
			}
		}
		ok, err := tx.Orders.Delete(ctx, o.ID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrOrderNotFound
		}
		return nil
	})
}

type EditOrderInput struct {
	BookID   string
	Quantity int32
}

// EditOrder rewrites the single item of a pending order. Same book adjusts
// stock by the quantity delta; a different book restores the old item's stock
// and decrements the new one, all in one transaction.
func (s *OrderService) EditOrder(ctx context.Context, ref string, in EditOrderInput) (*models.Order, error) {
	if in.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	o, err := s.GetOrder(ctx, ref)
	if err != nil {
		return nil, err
	}
	if o.Status != models.OrderStatusPending {
		return nil, ErrOrderNotPending
	}
	if len(o.Items) != 1 {
		return nil, ErrOrderMultiItemEdit
	}
	old := o.Items[0]

	err = s.repo.WithTx(func(tx *repository.Repository) error {
		var item models.OrderItem

		if in.BookID == "" || in.BookID == old.BookID {
			delta := in.Quantity - old.Quantity
			if delta != 0 {
				ok, err := tx.Books.AdjustQuantity(ctx, old.BookID, -delta)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("%w: %s", ErrOutOfStock, old.BookID)
				}
				if delta > 0 {
					if err := tx.Products.AdjustStockClamped(ctx, old.BookID, -delta); err != nil {
						return err
					}
				} else if _, err := tx.Products.AdjustStock(ctx, old.BookID, -delta); err != nil {
					return err
				}
			}
			item = models.OrderItem{
				BookID:     old.BookID,
				ItemName:   old.ItemName,
				PriceCents: old.PriceCents,
				Quantity:   in.Quantity,
			}
		} else {
			if _, err := tx.Books.AdjustQuantity(ctx, old.BookID, old.Quantity); err != nil {
				return err
			}
			if _, err := tx.Products.AdjustStock(ctx, old.BookID, old.Quantity); err != nil {
				return err
			}

			b, err := resolveBook(ctx, tx, in.BookID)
			if err != nil {
				return err
			}
			if b == nil {
				return fmt.Errorf("%w: %s", ErrBookNotFound, in.BookID)
			}
			ok, err := tx.Books.AdjustQuantity(ctx, b.BookID, -in.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: %s", ErrOutOfStock, b.BookID)
			}
			if err := tx.Products.AdjustStockClamped(ctx, b.BookID, -in.Quantity); err != nil {
				return err
			}
			item = models.OrderItem{
				BookID:     b.BookID,
				ItemName:   b.ItemName,
				PriceCents: b.PriceCents,
				Quantity:   in.Quantity,
			}
		}

		if err := tx.OrderItems.ReplaceForOrder(ctx, o.ID, []models.OrderItem{item}); err != nil {
			return err
		}
		o.Items = []models.OrderItem{item}
		o.TotalItems = item.Quantity
		o.TotalCents = item.PriceCents * int64(item.Quantity)
		return tx.Orders.UpdateFields(ctx, o.ID, map[string]any{
			"total_items": o.TotalItems,
			"total_cents": o.TotalCents,
		})
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (s *OrderService) OpenDispute(ctx context.Context, ref, message string) (*models.Order, error) {
	o, err := s.GetOrder(ctx, ref)
	if err != nil {
		return nil, err
	}
	if o.DisputeStatus != nil && *o.DisputeStatus == models.DisputeStatusOpen {
		return nil, ErrDisputeExists
	}

	open := models.DisputeStatusOpen
	if err := s.repo.Orders.UpdateFields(ctx, o.ID, map[string]any{
		"dispute_status":     open,
		"dispute_message":    message,
		"dispute_resolution": nil,
	}); err != nil {
		return nil, err
	}
	o.DisputeStatus = &open
	o.DisputeMessage = &message
	o.DisputeResolution = nil
	s.notify(ctx, models.RoleAdmin, nil, "dispute_opened", "Dispute opened",
		fmt.Sprintf("Dispute opened on order %s", o.OrderID))
	return o, nil
}

func (s *OrderService) ResolveDispute(ctx context.Context, ref, resolution string) (*models.Order, error) {
	o, err := s.GetOrder(ctx, ref)
	if err != nil {
		return nil, err
	}
	if o.DisputeStatus == nil || *o.DisputeStatus != models.DisputeStatusOpen {
		return nil, ErrDisputeNotFound
	}

	resolved := models.DisputeStatusResolved
	if err := s.repo.Orders.UpdateFields(ctx, o.ID, map[string]any{
		"dispute_status":     resolved,
		"dispute_resolution": resolution,
	}); err != nil {
		return nil, err
	}
	o.DisputeStatus = &resolved
	o.DisputeResolution = &resolution
	s.notify(ctx, models.RoleCustomer, &o.UserID, "dispute_resolved", "Dispute resolved",
		fmt.Sprintf("Dispute on order %s was resolved", o.OrderID))
	return o, nil
}

// notify writes a notification row. Failures are logged and swallowed so a
// broken notification never fails the order operation.
func (s *OrderService) notify(ctx context.Context, role models.Role, userID *uuid.UUID, typ, title, msg string) {
	n := &models.Notification{
		RecipientRole: role,
		RecipientID:   userID,
		Type:          typ,
		Title:         title,
		Message:       msg,
	}
	if err := s.repo.Notifications.Create(ctx, n); err != nil {
		s.log.Warn("notification create failed", zap.String("type", typ), zap.Error(err))
	}
}

func (s *OrderService) publish(ctx context.Context, typ OrderEventType, o *models.Order) {
	if s.bus == nil {
		return
	}
	ev := OrderEvent{
		Type:       typ,
		OrderID:    o.OrderID,
		UserID:     o.UserID,
		TotalCents: o.TotalCents,
		OccurredAt: s.now(),
	}
	for _, it := range o.Items {
		ev.Items = append(ev.Items, OrderItemEvent{
			BookID:     it.BookID,
			ItemName:   it.ItemName,
			Quantity:   it.Quantity,
			PriceCents: it.PriceCents,
		})
	}
	if err := s.bus.PublishOrderEvent(ctx, ev); err != nil {
		s.log.Warn("order event publish failed", zap.String("order_id", o.OrderID), zap.Error(err))
	}
}
