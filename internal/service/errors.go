package service

import "errors"

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")

	ErrProductNotFound    = errors.New("product not found")
	ErrCodeAlreadyExists  = errors.New("product code already exists")
	ErrBookNotFound       = errors.New("book not found in inventory")
	ErrOutOfStock         = errors.New("not enough stock")
	ErrInvalidQuantity    = errors.New("quantity must be > 0")
	ErrEmptyItems         = errors.New("empty items")
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderNotPending    = errors.New("order is not pending")
	ErrOrderNotApproved   = errors.New("order is not approved")
	ErrOrderUnpaid        = errors.New("order is not paid")
	ErrOrderMultiItemEdit = errors.New("only single-item orders can be edited")
	ErrDisputeExists      = errors.New("dispute already opened for this order")
	ErrDisputeNotFound    = errors.New("no open dispute on this order")

	ErrTicketNotFound     = errors.New("ticket not found")
	ErrTicketNotEditable  = errors.New("ticket can only be edited while open")
	ErrTicketNotDeletable = errors.New("ticket can only be deleted when open or closed")
	ErrTicketTransition   = errors.New("invalid ticket status transition")
	ErrDuplicateTicket    = errors.New("a similar ticket was submitted recently")

	ErrPaymentNotFound     = errors.New("payment not found")
	ErrRefundNotFound      = errors.New("refund not found")
	ErrFineNotFound        = errors.New("fine not found")
	ErrAlreadyProcessed    = errors.New("already processed")
	ErrInvalidAmount       = errors.New("amount must be > 0")
	ErrLoanNotFound        = errors.New("loan not found")
	ErrLoanAlreadyReturned = errors.New("loan already returned")

	ErrUserNotFound       = errors.New("user not found")
	ErrAlreadyExists      = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTooManyRequests    = errors.New("too many requests")
	ErrResetCodeInvalid   = errors.New("reset code invalid or expired")

	ErrSupplierNotFound = errors.New("supplier not found")
	ErrSupplierExists   = errors.New("supplier already exists")

	ErrNotificationNotFound = errors.New("notification not found")
)
