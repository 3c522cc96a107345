package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleCitizen   Role = "citizen"
	RoleCollector Role = "collector"
	RoleAdmin     Role = "admin"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"
)

type CollectionStatus string

const (
	CollectionStatusRequested  CollectionStatus = "requested"
	CollectionStatusInProgress CollectionStatus = "in_progress"
	CollectionStatusCompleted  CollectionStatus = "completed"
)

type ComplaintStatus string

const (
	ComplaintStatusOpen       ComplaintStatus = "open"
	ComplaintStatusInProgress ComplaintStatus = "in_progress"
	ComplaintStatusResolved   ComplaintStatus = "resolved"
)

type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

type User struct {
	ID       int64
	Username string
	Email    string
	Password string
	Role     Role
	IsActive bool
}

type Category struct {
	ID   int64
	Name string
}

type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Status      ProductStatus
	Features    []string
	Image       string
	CategoryID  int64
	Category    *Category
}

type Order struct {
	ID         int64
	UserID     int64
	ProductID  int64
	Quantity   int
	TotalPrice decimal.Decimal
	Status     OrderStatus
	CreatedAt  time.Time
	Product    *Product
}

type Payment struct {
	ID        int64
	UserID    int64
	OrderID   int64
	Amount    decimal.Decimal
	Status    PaymentStatus
	Reference string
	CreatedAt time.Time
}

type WasteCollection struct {
	ID          int64
	UserID      int64
	CollectorID *int64
	Location    string
	Status      CollectionStatus
	CreatedAt   time.Time
}

type Complaint struct {
	ID          int64
	UserID      int64
	Description string
	Status      ComplaintStatus
	CreatedAt   time.Time
}

type Location struct {
	ID      int64
	Name    string
	Address string
}

// CollectorRank is one row of the top-collectors report.
type CollectorRank struct {
	Name        string
	Collections int
	Rating      float64
	Earnings    string
}

// PaymentEvent is published to the broker after a webhook settles a payment.
type PaymentEvent struct {
	PaymentID int64  `json:"payment_id"`
	OrderID   int64  `json:"order_id"`
	Reference string `json:"reference"`
	Status    string `json:"status"`
}

// CollectionEvent is published when a collection reaches completed.
type CollectionEvent struct {
	CollectionID int64 `json:"collection_id"`
	CollectorID  int64 `json:"collector_id"`
}
