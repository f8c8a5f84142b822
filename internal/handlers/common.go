package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"bookswap-api/internal/dto"
	"bookswap-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// respondError translates a service sentinel error into the matching HTTP
// status with the BaseError envelope. Anything unrecognized is a 500.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrEmptyItems),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrOutOfStock),
		errors.Is(err, service.ErrDuplicateTicket):
		c.JSON(http.StatusBadRequest, dto.NewValidationError(err.Error(), nil))

	case errors.Is(err, service.ErrUnauthorized),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrResetCodeInvalid):
		c.JSON(http.StatusUnauthorized, dto.NewUnauthorizedError(err.Error()))

	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, dto.NewForbiddenError(err.Error()))

	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrBookNotFound),
		errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrTicketNotFound),
		errors.Is(err, service.ErrPaymentNotFound),
		errors.Is(err, service.ErrRefundNotFound),
		errors.Is(err, service.ErrFineNotFound),
		errors.Is(err, service.ErrLoanNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrSupplierNotFound),
		errors.Is(err, service.ErrNotificationNotFound),
		errors.Is(err, service.ErrDisputeNotFound):
		c.JSON(http.StatusNotFound, dto.NewNotFoundError(err.Error()))

	case errors.Is(err, service.ErrCodeAlreadyExists),
		errors.Is(err, service.ErrAlreadyExists),
		errors.Is(err, service.ErrSupplierExists),
		errors.Is(err, service.ErrAlreadyProcessed),
		errors.Is(err, service.ErrOrderNotPending),
		errors.Is(err, service.ErrOrderNotApproved),
		errors.Is(err, service.ErrOrderUnpaid),
		errors.Is(err, service.ErrOrderMultiItemEdit),
		errors.Is(err, service.ErrTicketNotEditable),
		errors.Is(err, service.ErrTicketNotDeletable),
		errors.Is(err, service.ErrTicketTransition),
		errors.Is(err, service.ErrDisputeExists),
		errors.Is(err, service.ErrLoanAlreadyReturned):
		c.JSON(http.StatusConflict, dto.NewConflictError(err.Error()))

	case errors.Is(err, service.ErrTooManyRequests):
		c.JSON(http.StatusTooManyRequests, dto.NewRateLimitedError(err.Error()))

	default:
		log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
	}
}

func bindError(c *gin.Context, log *zap.Logger, err error) {
	log.Warn("invalid request body", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", []dto.FieldError{}))
}

// uuidParam parses a :param path segment as uuid. Responds 400 itself and
// reports false when the value is malformed.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid "+name, nil))
		return uuid.Nil, false
	}
	return id, true
}

func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	return limit, offset
}
