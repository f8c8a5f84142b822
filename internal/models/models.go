package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleCustomer  Role = "ROLE_CUSTOMER"
	RoleInventory Role = "ROLE_INVENTORY"
	RoleAdmin     Role = "ROLE_ADMIN"
)

type User struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name       string    `gorm:"type:text;not null"`
	Email      string    `gorm:"not null"` // uniqueness via functional index lower(email)
	UniID      string    `gorm:"column:uni_id;type:text;not null;uniqueIndex"`
	Password   string    `gorm:"not null"` // bcrypt hash
	Role       Role      `gorm:"type:text;not null;default:'ROLE_CUSTOMER';index"`
	Phone      string    `gorm:"type:text"`
	Department string    `gorm:"type:text"`
	CreatedAt  time.Time `gorm:"not null;default:now()"`
	UpdatedAt  time.Time `gorm:"not null;default:now()"`
}

func (User) TableName() string { return "users" }

type PasswordResetToken struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Email     string    `gorm:"not null"`
	CodeHash  string    `gorm:"not null;index"`
	ExpiresAt time.Time `gorm:"not null;index"`
	Consumed  bool      `gorm:"not null;default:false;index"`
	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (PasswordResetToken) TableName() string { return "password_reset_tokens" }

// Derived stock labels shown in the catalog UI.
const (
	ProductStatusAvailable  = "Available"
	ProductStatusLowStock   = "Low Stock"
	ProductStatusOutOfStock = "Out of Stock"
)

type Product struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Code         string    `gorm:"type:text;not null;uniqueIndex"`
	Name         string    `gorm:"type:text;not null"`
	Category     string    `gorm:"type:text;index"`
	PriceCents   int64     `gorm:"not null;default:0"`
	StockCurrent int32     `gorm:"not null;default:0"`
	StockTotal   int32     `gorm:"not null;default:0"`
	Supplier     string    `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null;default:now();index"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (Product) TableName() string { return "products" }

// Status derives the catalog label from current stock.
func (p *Product) Status() string {
	switch {
	case p.StockCurrent <= 0:
		return ProductStatusOutOfStock
	case p.StockCurrent <= 5:
		return ProductStatusLowStock
	default:
		return ProductStatusAvailable
	}
}

// Book is the legacy inventory row the order flow reads. book_id mirrors
// Product.Code; quantity mirrors Product.StockCurrent and is kept in sync in
// the same transaction as every product write.
type Book struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	BookID     string    `gorm:"column:book_id;type:text;not null;uniqueIndex"`
	ItemName   string    `gorm:"type:text;not null"`
	Quantity   int32     `gorm:"not null;default:0"`
	PriceCents int64     `gorm:"not null;default:0"`

	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (Book) TableName() string { return "books" }

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusApproved  OrderStatus = "Approved"
	OrderStatusRejected  OrderStatus = "Rejected"
	OrderStatusCancelled OrderStatus = "Cancelled"
	OrderStatusCompleted OrderStatus = "Completed"
)

type PaymentState string

const (
	PaymentStateUnpaid PaymentState = "Unpaid"
	PaymentStatePaid   PaymentState = "Paid"
)

type DisputeStatus string

const (
	DisputeStatusOpen     DisputeStatus = "Open"
	DisputeStatusResolved DisputeStatus = "Resolved"
)

type Order struct {
	ID            uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID       string       `gorm:"column:order_id;type:text;not null;uniqueIndex"`
	UserID        uuid.UUID    `gorm:"type:uuid;not null;index"`
	CustomerName  string       `gorm:"type:text"`
	CustomerEmail string       `gorm:"type:text"`
	Status        OrderStatus  `gorm:"type:text;not null;default:'Pending';index"`
	PaymentStatus PaymentState `gorm:"type:text;not null;default:'Unpaid'"`
	TotalItems    int32        `gorm:"not null;default:0"`
	TotalCents    int64        `gorm:"not null;default:0"`

	// StockRestored guards the restore path so cancel/reject/delete put stock
	// back exactly once.
	StockRestored bool `gorm:"not null;default:false"`

	DisputeStatus     *DisputeStatus `gorm:"type:text"`
	DisputeMessage    *string        `gorm:"type:text"`
	DisputeResolution *string        `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null;default:now();index"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (Order) TableName() string { return "orders" }

type OrderItem struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:ux_order_items_order_book"`
	BookID     string    `gorm:"column:book_id;type:text;not null;uniqueIndex:ux_order_items_order_book"`
	ItemName   string    `gorm:"type:text;not null"`
	PriceCents int64     `gorm:"not null"`
	Quantity   int32     `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (OrderItem) TableName() string { return "order_items" }

type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "Open"
	TicketStatusInProgress TicketStatus = "In Progress"
	TicketStatusResolved   TicketStatus = "Resolved"
	TicketStatusClosed     TicketStatus = "Closed"
)

type Ticket struct {
	ID          uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	StudentID   string       `gorm:"type:text;not null;index"`
	StudentName string       `gorm:"type:text"`
	Email       string       `gorm:"type:text"`
	Subject     string       `gorm:"type:text;not null"`
	Description string       `gorm:"type:text;not null"`
	Category    string       `gorm:"type:text;index"`
	Priority    string       `gorm:"type:text;default:'Medium'"`
	Status      TicketStatus `gorm:"type:text;not null;default:'Open';index"`
	AssignedTo  *string      `gorm:"type:text"`
	Archived    bool         `gorm:"not null;default:false;index"`

	CreatedAt time.Time `gorm:"not null;default:now();index"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Responses []TicketResponse `gorm:"foreignKey:TicketID;constraint:OnDelete:CASCADE"`
}

func (Ticket) TableName() string { return "tickets" }

type TicketResponse struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	TicketID uuid.UUID `gorm:"type:uuid;not null;index"`
	Author   string    `gorm:"type:text;not null"`
	Role     string    `gorm:"type:text"`
	Message  string    `gorm:"type:text;not null"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (TicketResponse) TableName() string { return "ticket_responses" }

// FinanceStatus is shared by payments, refunds and fines. Fines additionally
// reach PAID once settled by the student.
type FinanceStatus string

const (
	FinanceStatusPending  FinanceStatus = "PENDING"
	FinanceStatusApproved FinanceStatus = "APPROVED"
	FinanceStatusRejected FinanceStatus = "REJECTED"
	FinanceStatusPaid     FinanceStatus = "PAID"
)

type Payment struct {
	ID          uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	PaymentID   string        `gorm:"column:payment_id;type:text;not null;uniqueIndex"`
	UserID      uuid.UUID     `gorm:"type:uuid;not null;index"`
	BookID      string        `gorm:"column:book_id;type:text;not null;index"`
	AmountCents int64         `gorm:"not null"`
	Status      FinanceStatus `gorm:"type:text;not null;default:'PENDING';index"`
	PaymentDate time.Time     `gorm:"not null;default:now();index"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (Payment) TableName() string { return "payments" }

type Refund struct {
	ID        uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	RefundID  string        `gorm:"column:refund_id;type:text;not null;uniqueIndex"`
	PaymentID uuid.UUID     `gorm:"type:uuid;not null;index"`
	BuyerID   uuid.UUID     `gorm:"type:uuid;not null;index"`
	GiverID   uuid.UUID     `gorm:"type:uuid;not null;index"`
	Reason    string        `gorm:"type:text"`
	Status    FinanceStatus `gorm:"type:text;not null;default:'PENDING';index"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (Refund) TableName() string { return "refunds" }

type Fine struct {
	ID          uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID     `gorm:"type:uuid;not null;index:idx_fines_user_book"`
	BookID      string        `gorm:"column:book_id;type:text;not null;index:idx_fines_user_book"`
	AmountCents int64         `gorm:"not null"`
	OverdueDays int32         `gorm:"not null"`
	Status      FinanceStatus `gorm:"type:text;not null;default:'PENDING';index"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (Fine) TableName() string { return "fines" }

type WalletType string

const (
	WalletTypeUser   WalletType = "user"
	WalletTypeSystem WalletType = "system"
)

type Wallet struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID      *uuid.UUID `gorm:"type:uuid;uniqueIndex"` // nil for the system wallet
	Type         WalletType `gorm:"type:text;not null;index"`
	BalanceCents int64      `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (Wallet) TableName() string { return "wallets" }

type Notification struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	RecipientRole Role       `gorm:"type:text;not null;index"`
	RecipientID   *uuid.UUID `gorm:"type:uuid;index"` // nil = everyone with the role
	Type          string     `gorm:"type:text;not null"`
	Title         string     `gorm:"type:text;not null"`
	Message       string     `gorm:"type:text;not null"`
	Read          bool       `gorm:"not null;default:false;index"`

	CreatedAt time.Time `gorm:"not null;default:now();index"`
}

func (Notification) TableName() string { return "notifications" }

type Supplier struct {
	ID      uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name    string    `gorm:"type:text;not null;uniqueIndex"`
	Contact string    `gorm:"type:text"`
	Email   string    `gorm:"type:text"`
	Phone   string    `gorm:"type:text"`
	Address string    `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (Supplier) TableName() string { return "suppliers" }

type LoanStatus string

const (
	LoanStatusBorrowed LoanStatus = "BORROWED"
	LoanStatusReturned LoanStatus = "RETURNED"
	LoanStatusOverdue  LoanStatus = "OVERDUE"
)

type Loan struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	BookID     string     `gorm:"column:book_id;type:text;not null;index"`
	ItemName   string     `gorm:"type:text;not null"`
	Status     LoanStatus `gorm:"type:text;not null;default:'BORROWED';index"`
	BorrowedAt time.Time  `gorm:"not null;default:now()"`
	DueAt      time.Time  `gorm:"not null;index"`
	ReturnedAt *time.Time

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (Loan) TableName() string { return "loans" }

// Counter backs the human-readable ORD/PAY/REF sequences. Incremented with a
// single guarded statement so concurrent creations never share an id.
type Counter struct {
	Name  string `gorm:"type:text;primaryKey"`
	Value int64  `gorm:"not null;default:0"`
}

func (Counter) TableName() string { return "counters" }
