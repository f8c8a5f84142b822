package repository

import "gorm.io/gorm"

type Repository struct {
	DB *gorm.DB

	Users          UserRepo
	PasswordResets PasswordResetRepo
	Products       ProductRepo
	Books          BookRepo
	Orders         OrderRepo
	OrderItems     OrderItemRepo
	Tickets        TicketRepo
	Payments       PaymentRepo
	Refunds        RefundRepo
	Fines          FineRepo
	Wallets        WalletRepo
	Notifications  NotificationRepo
	Suppliers      SupplierRepo
	Loans          LoanRepo
	Counters       CounterRepo
}

func buildRepository(db *gorm.DB) *Repository {
	return &Repository{
		DB:             db,
		Users:          NewUserRepo(db),
		PasswordResets: NewPasswordResetRepo(db),
		Products:       NewProductRepo(db),
		Books:          NewBookRepo(db),
		Orders:         NewOrderRepo(db),
		OrderItems:     NewOrderItemRepo(db),
		Tickets:        NewTicketRepo(db),
		Payments:       NewPaymentRepo(db),
		Refunds:        NewRefundRepo(db),
		Fines:          NewFineRepo(db),
		Wallets:        NewWalletRepo(db),
		Notifications:  NewNotificationRepo(db),
		Suppliers:      NewSupplierRepo(db),
		Loans:          NewLoanRepo(db),
		Counters:       NewCounterRepo(db),
	}
}

func New(db *gorm.DB) *Repository { return buildRepository(db) }

// WithTx runs fn against a repository bound to a single database transaction.
// Any error rolls the whole transaction back. A repository assembled without a
// database (stubbed entity repos) runs fn against itself.
func (r *Repository) WithTx(fn func(tx *Repository) error) error {
	if r.DB == nil {
		return fn(r)
	}
	return r.DB.Transaction(func(tx *gorm.DB) error {
		return fn(buildRepository(tx))
	})
}
