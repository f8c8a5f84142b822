package handlers

import (
	"context"
	"net/http"

	"bookswap-api/internal/dto"
	"bookswap-api/internal/models"
	"bookswap-api/internal/repository"
	"bookswap-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type OrderHandler struct {
	orders *service.OrderService
	log    *zap.Logger
}

func NewOrderHandler(orders *service.OrderService, log *zap.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, log: log}
}

// Create godoc
// @Summary Place an order, decrementing stock transactionally
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param order body dto.CreateOrderRequest true "Order data"
// @Success 201 {object} dto.OrderResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Out of stock or bad quantity"
// @Failure 404 {object} dto.NotFoundErrorResponse "Unknown book"
// @Router /api/orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, h.log, err)
		return
	}
	in := service.CreateOrderInput{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, service.OrderItemInput{BookID: it.BookID, Quantity: it.Quantity})
	}
	o, err := h.orders.CreateOrder(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToOrderResponse(o))
}

// List godoc
// @Summary List orders (customers see only their own)
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter"
// @Success 200 {object} dto.OrderListResponse
// @Router /api/orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	limit, offset := pagination(c)
	f := repository.OrderListFilter{Limit: limit, Offset: offset}
	if st := c.Query("status"); st != "" {
		s := models.OrderStatus(st)
		f.Status = &s
	}
	list, total, err := h.orders.ListOrders(c.Request.Context(), f)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toOrderList(list, total))
}

// ListByUser godoc
// @Summary List a user's orders
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param userid path string true "User id"
// @Success 200 {object} dto.OrderListResponse
// @Router /api/orders/user/{userid} [get]
func (h *OrderHandler) ListByUser(c *gin.Context) {
	userID, ok := uuidParam(c, "userid")
	if !ok {
		return
	}
	list, total, err := h.orders.ListUserOrders(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toOrderList(list, total))
}

// Get godoc
// @Summary Get an order by uuid or ORD-n id
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order id"
// @Success 200 {object} dto.OrderResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /api/orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	o, err := h.orders.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToOrderResponse(o))
}

// Edit godoc
// @Summary Edit a pending single-item order
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order id"
// @Param edit body dto.EditOrderRequest true "New item/quantity"
// @Success 200 {object} dto.OrderResponse
// @Failure 409 {object} dto.ConflictErrorResponse
// @Router /api/orders/{id} [put]
func (h *OrderHandler) Edit(c *gin.Context) {
	var req dto.EditOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, h.log, err)
		return
	}
	o, err := h.orders.EditOrder(c.Request.Context(), c.Param("id"), service.EditOrderInput{
		BookID:   req.BookID,
		Quantity: req.Quantity,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToOrderResponse(o))
}

// Delete godoc
// @Summary Delete an order, restoring undelivered stock
// @Tags orders
// @Security BearerAuth
// @Param id path string true "Order id"
// @Success 204
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /api/orders/{id} [delete]
func (h *OrderHandler) Delete(c *gin.Context) {
	if err := h.orders.DeleteOrder(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Approve godoc
// @Summary Approve a pending order
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order id"
// @Success 200 {object} dto.OrderResponse
// @Failure 409 {object} dto.ConflictErrorResponse
// @Router /api/orders/{id}/approve [patch]
func (h *OrderHandler) Approve(c *gin.Context) {
	h.lifecycle(c, h.orders.Approve)
}

// Reject godoc
// @Summary Reject a pending order and restore its stock
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order id"
// @Success 200 {object} dto.OrderResponse
// @Failure 409 {object} dto.ConflictErrorResponse
// @Router /api/orders/{id}/reject [patch]
func (h *OrderHandler) Reject(c *gin.Context) {
	h.lifecycle(c, h.orders.Reject)
}

// Cancel godoc
// @Summary Cancel a pending order and restore its stock
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order id"
// @Success 200 {object} dto.OrderResponse
// @Failure 409 {object} dto.ConflictErrorResponse
// @Router /api/orders/{id}/cancel [patch]
func (h *OrderHandler) Cancel(c *gin.Context) {
	h.lifecycle(c, h.orders.Cancel)
}

// Complete godoc
// @Summary Complete an approved and paid order
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order id"
// @Success 200 {object} dto.OrderResponse
// @Failure 409 {object} dto.ConflictErrorResponse
// @Router /api/orders/{id}/complete [patch]
func (h *OrderHandler) Complete(c *gin.Context) {
	h.lifecycle(c, h.orders.Complete)
}

// MarkPaid godoc
// @Summary Mark an order as paid
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order id"
// @Success 200 {object} dto.OrderResponse
// @Failure 409 {object} dto.ConflictErrorResponse
// @Router /api/orders/{id}/paid [patch]
func (h *OrderHandler) MarkPaid(c *gin.Context) {
	h.lifecycle(c, h.orders.MarkPaid)
}

func (h *OrderHandler) lifecycle(c *gin.Context, fn func(ctx context.Context, ref string) (*models.Order, error)) {
	o, err := fn(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToOrderResponse(o))
}

// OpenDispute godoc
// @Summary Open a dispute on an order
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order id"
// @Param dispute body dto.DisputeRequest true "Dispute message"
// @Success 200 {object} dto.OrderResponse
// @Failure 409 {object} dto.ConflictErrorResponse
// @Router /api/orders/{id}/dispute [post]
func (h *OrderHandler) OpenDispute(c *gin.Context) {
	var req dto.DisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, h.log, err)
		return
	}
	o, err := h.orders.OpenDispute(c.Request.Context(), c.Param("id"), req.Message)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToOrderResponse(o))
}

// ResolveDispute godoc
// @Summary Resolve an open dispute
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order id"
// @Param resolve body dto.ResolveDisputeRequest true "Resolution message"
// @Success 200 {object} dto.OrderResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /api/orders/{id}/resolve-dispute [patch]
func (h *OrderHandler) ResolveDispute(c *gin.Context) {
	var req dto.ResolveDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, h.log, err)
		return
	}
	o, err := h.orders.ResolveDispute(c.Request.Context(), c.Param("id"), req.Resolution)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToOrderResponse(o))
}

func toOrderList(list []*models.Order, total int64) dto.OrderListResponse {
	resp := dto.OrderListResponse{Orders: make([]dto.OrderResponse, 0, len(list)), Total: total}
	for _, o := range list {
		resp.Orders = append(resp.Orders, dto.ToOrderResponse(o))
	}
	return resp
}
