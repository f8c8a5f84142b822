package handlers

import (
	"context"
	"net/http"

	"bookswap-api/internal/dto"
	"bookswap-api/internal/models"
	"bookswap-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type FinanceHandler struct {
	finance *service.FinanceService
	log     *zap.Logger
}

func NewFinanceHandler(finance *service.FinanceService, log *zap.Logger) *FinanceHandler {
	return &FinanceHandler{finance: finance, log: log}
}

// CreatePayment godoc
// @Summary Record a payment
// @Tags finance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payment body dto.CreatePaymentRequest true "Payment data"
// @Success 201 {object} dto.PaymentResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Router /api/payments [post]
func (h *FinanceHandler) CreatePayment(c *gin.Context) {
	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, h.log, err)
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid user_id", nil))
		return
	}
	p, err := h.finance.CreatePayment(c.Request.Context(), service.CreatePaymentInput{
		UserID:      userID,
		BookID:      req.BookID,
		AmountCents: req.AmountCents,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToPaymentResponse(p))
}

// ListPayments godoc
// @Summary List payments
// @Tags finance
// @Produce json
// @Security BearerAuth
// @Param user_id query string false "Filter by user"
// @Success 200 {object} dto.PaymentListResponse
// @Router /api/payments [get]
func (h *FinanceHandler) ListPayments(c *gin.Context) {
	limit, offset := pagination(c)
	var userID *uuid.UUID
	if q := c.Query("user_id"); q != "" {
		id, err := uuid.Parse(q)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid user_id", nil))
			return
		}
		userID = &id
	}
	list, total, err := h.finance.ListPayments(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	resp := dto.PaymentListResponse{Payments: make([]dto.PaymentResponse, 0, len(list)), Total: total}
	for _, p := range list {
		resp.Payments = append(resp.Payments, dto.ToPaymentResponse(p))
	}
	c.JSON(http.StatusOK, resp)
}

// ApprovePayment godoc
// @Summary Approve a pending payment
// @Tags finance
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment id"
// @Success 200 {object} dto.PaymentResponse
// @Failure 409 {object} dto.ConflictErrorResponse "Already processed"
// @Router /api/payments/{id}/approve [patch]
func (h *FinanceHandler) ApprovePayment(c *gin.Context) {
	h.paymentTransition(c, h.finance.ApprovePayment)
}

// RejectPayment godoc
// @Summary Reject a pending payment
// @Tags finance
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment id"
// @Success 200 {object} dto.PaymentResponse
// @Failure 409 {object} dto.ConflictErrorResponse "Already processed"
// @Router /api/payments/{id}/reject [patch]
func (h *FinanceHandler) RejectPayment(c *gin.Context) {
	h.paymentTransition(c, h.finance.RejectPayment)
}

func (h *FinanceHandler) paymentTransition(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) (*models.Payment, error)) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	p, err := fn(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToPaymentResponse(p))
}

// CreateRefund godoc
// @Summary Open a refund request against a payment
// @Tags finance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param refund body dto.CreateRefundRequest true "Refund data"
// @Success 201 {object} dto.RefundResponse
// @Failure 404 {object} dto.NotFoundErrorResponse "Payment not found"
// @Router /api/refunds [post]
func (h *FinanceHandler) CreateRefund(c *gin.Context) {
	var req dto.CreateRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, h.log, err)
		return
	}
	paymentID, err := uuid.Parse(req.PaymentID)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid payment_id", nil))
		return
	}
	giverID, err := uuid.Parse(req.GiverID)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid giver_id", nil))
		return
	}
	rf, err := h.finance.CreateRefund(c.Request.Context(), service.CreateRefundInput{
		PaymentID: paymentID,
		GiverID:   giverID,
		Reason:    req.Reason,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToRefundResponse(rf))
}

// ListRefunds godoc
// @Summary List refunds
// @Tags finance
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.RefundListResponse
// @Router /api/refunds [get]
func (h *FinanceHandler) ListRefunds(c *gin.Context) {
	limit, offset := pagination(c)
	list, total, err := h.finance.ListRefunds(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	resp := dto.RefundListResponse{Refunds: make([]dto.RefundResponse, 0, len(list)), Total: total}
	for _, r := range list {
		resp.Refunds = append(resp.Refunds, dto.ToRefundResponse(r))
	}
	c.JSON(http.StatusOK, resp)
}

// ApproveRefund godoc
// @Summary Approve a refund and settle the three wallets
// @Tags finance
// @Produce json
// @Security BearerAuth
// @Param id path string true "Refund id"
// @Success 200 {object} dto.RefundResponse
// @Failure 409 {object} dto.ConflictErrorResponse "Already processed"
// @Router /api/refunds/{id}/approve [patch]
func (h *FinanceHandler) ApproveRefund(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	rf, err := h.finance.ApproveRefund(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToRefundResponse(rf))
}

// RejectRefund godoc
// @Summary Reject a pending refund
// @Tags finance
// @Produce json
// @Security BearerAuth
// @Param id path string true "Refund id"
// @Success 200 {object} dto.RefundResponse
// @Failure 409 {object} dto.ConflictErrorResponse "Already processed"
// @Router /api/refunds/{id}/reject [patch]
func (h *FinanceHandler) RejectRefund(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	rf, err := h.finance.RejectRefund(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToRefundResponse(rf))
}

// ListFines godoc
// @Summary List fines after running the overdue sweep
// @Tags finance
// @Produce json
// @Security BearerAuth
// @Param user_id query string false "Filter by user"
// @Success 200 {object} dto.FineListResponse
// @Router /api/fines [get]
func (h *FinanceHandler) ListFines(c *gin.Context) {
	limit, offset := pagination(c)
	var userID *uuid.UUID
	if q := c.Query("user_id"); q != "" {
		id, err := uuid.Parse(q)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid user_id", nil))
			return
		}
		userID = &id
	}
	list, total, err := h.finance.ListFines(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	resp := dto.FineListResponse{Fines: make([]dto.FineResponse, 0, len(list)), Total: total}
	for _, f := range list {
		resp.Fines = append(resp.Fines, dto.ToFineResponse(f))
	}
	c.JSON(http.StatusOK, resp)
}

// ApproveFine godoc
// @Summary Approve a fine, crediting the system wallet
// @Tags finance
// @Produce json
// @Security BearerAuth
// @Param id path string true "Fine id"
// @Success 200 {object} dto.FineResponse
// @Failure 409 {object} dto.ConflictErrorResponse "Already processed"
// @Router /api/fines/{id}/approve [patch]
func (h *FinanceHandler) ApproveFine(c *gin.Context) {
	h.fineTransition(c, h.finance.ApproveFine)
}

// RejectFine godoc
// @Summary Reject a pending fine
// @Tags finance
// @Produce json
// @Security BearerAuth
// @Param id path string true "Fine id"
// @Success 200 {object} dto.FineResponse
// @Failure 409 {object} dto.ConflictErrorResponse "Already processed"
// @Router /api/fines/{id}/reject [patch]
func (h *FinanceHandler) RejectFine(c *gin.Context) {
	h.fineTransition(c, h.finance.RejectFine)
}

// PayFine godoc
// @Summary Settle an approved fine
// @Tags finance
// @Produce json
// @Security BearerAuth
// @Param id path string true "Fine id"
// @Success 200 {object} dto.FineResponse
// @Failure 409 {object} dto.ConflictErrorResponse "Not approved yet"
// @Router /api/fines/{id}/pay [patch]
func (h *FinanceHandler) PayFine(c *gin.Context) {
	h.fineTransition(c, h.finance.PayFine)
}

func (h *FinanceHandler) fineTransition(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) (*models.Fine, error)) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	f, err := fn(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToFineResponse(f))
}

// ListWallets godoc
// @Summary List all wallets
// @Tags finance
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.WalletResponse
// @Router /api/wallets [get]
func (h *FinanceHandler) ListWallets(c *gin.Context) {
	list, err := h.finance.ListWallets(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	resp := make([]dto.WalletResponse, 0, len(list))
	for i := range list {
		resp = append(resp, dto.ToWalletResponse(&list[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// MyWallet godoc
// @Summary Get the caller's wallet
// @Tags finance
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.WalletResponse
// @Router /api/wallets/me [get]
func (h *FinanceHandler) MyWallet(c *gin.Context) {
	w, err := h.finance.MyWallet(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToWalletResponse(w))
}
