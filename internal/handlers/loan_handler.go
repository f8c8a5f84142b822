package handlers

import (
	"net/http"

	"bookswap-api/internal/dto"
	"bookswap-api/internal/models"
	"bookswap-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type LoanHandler struct {
	loans *service.LoanService
	log   *zap.Logger
}

func NewLoanHandler(loans *service.LoanService, log *zap.Logger) *LoanHandler {
	return &LoanHandler{loans: loans, log: log}
}

// Borrow godoc
// @Summary Borrow a book, decrementing stock
// @Tags loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param borrow body dto.BorrowRequest true "Book to borrow"
// @Success 201 {object} dto.LoanResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Out of stock"
// @Failure 404 {object} dto.NotFoundErrorResponse "Unknown book"
// @Router /api/loans [post]
func (h *LoanHandler) Borrow(c *gin.Context) {
	var req dto.BorrowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, h.log, err)
		return
	}
	l, err := h.loans.Borrow(c.Request.Context(), req.BookID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToLoanResponse(l))
}

// List godoc
// @Summary List loans after the overdue sweep (customers see their own)
// @Tags loans
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter"
// @Success 200 {object} dto.LoanListResponse
// @Router /api/loans [get]
func (h *LoanHandler) List(c *gin.Context) {
	if _, err := h.loans.SweepOverdue(c.Request.Context()); err != nil {
		respondError(c, h.log, err)
		return
	}
	limit, offset := pagination(c)
	var status *models.LoanStatus
	if st := c.Query("status"); st != "" {
		s := models.LoanStatus(st)
		status = &s
	}
	list, total, err := h.loans.ListLoans(c.Request.Context(), status, limit, offset)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	resp := dto.LoanListResponse{Loans: make([]dto.LoanResponse, 0, len(list)), Total: total}
	for i := range list {
		resp.Loans = append(resp.Loans, dto.ToLoanResponse(&list[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// Return godoc
// @Summary Return a borrowed book, restoring stock
// @Tags loans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan id"
// @Success 200 {object} dto.LoanResponse
// @Failure 409 {object} dto.ConflictErrorResponse "Already returned"
// @Router /api/loans/{id}/return [patch]
func (h *LoanHandler) Return(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	l, err := h.loans.Return(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToLoanResponse(l))
}
