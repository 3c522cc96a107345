package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/citywaste/waste-flow-api/internal/model"
)

// --- Auth ---

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID       int64      `json:"id"`
	Username string     `json:"username"`
	Email    string     `json:"email"`
	Role     model.Role `json:"role"`
	IsActive bool       `json:"is_active"`
}

// AdminUserResponse adds the display fields the admin dashboard expects.
type AdminUserResponse struct {
	ID       int64      `json:"id"`
	Username string     `json:"username"`
	Email    string     `json:"email"`
	Role     model.Role `json:"role"`
	IsActive bool       `json:"is_active"`
	Status   string     `json:"status"`
	Verified bool       `json:"verified"`
}

type UpdateProfileRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

// --- Collectors (admin) ---

type CreateCollectorRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CollectorResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// --- Catalog ---

type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

type CategoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Product create/update arrive as multipart forms so an image file can ride
// along. Features is a comma-separated string exploded server-side.
type CreateProductForm struct {
	Name        string          `form:"name" binding:"required"`
	CategoryID  int64           `form:"category_id" binding:"required"`
	Price       decimal.Decimal `form:"price" binding:"required"`
	Stock       int             `form:"stock"`
	Description string          `form:"description"`
	Status      string          `form:"status"`
	Features    string          `form:"features"`
}

type UpdateProductForm struct {
	Name        *string          `form:"name"`
	CategoryID  *int64           `form:"category_id"`
	Price       *decimal.Decimal `form:"price"`
	Stock       *int             `form:"stock"`
	Description *string          `form:"description"`
	Status      *string          `form:"status"`
	Features    *string          `form:"features"`
}

type ProductResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Price       decimal.Decimal   `json:"price"`
	Stock       int               `json:"stock"`
	Status      string            `json:"status"`
	Features    []string          `json:"features"`
	Image       string            `json:"image,omitempty"`
	Category    *CategoryResponse `json:"category,omitempty"`
}

// --- Orders ---

type CreateOrderRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required,min=1"`
}

type OrderResponse struct {
	ID         int64             `json:"id"`
	ProductID  int64             `json:"product_id"`
	Quantity   int               `json:"quantity"`
	TotalPrice decimal.Decimal   `json:"total_price"`
	Status     model.OrderStatus `json:"status"`
	CreatedAt  time.Time         `json:"created_at"`
	Product    *ProductResponse  `json:"product,omitempty"`
}

// --- Payments ---

type PaymentRequest struct {
	OrderID   int64  `json:"order_id" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
	Operator  string `json:"operator"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

type PaymentResponse struct {
	ID         int64               `json:"id"`
	OrderID    int64               `json:"order_id"`
	Amount     decimal.Decimal     `json:"amount"`
	Operator   string              `json:"operator"`
	Status     model.PaymentStatus `json:"status"`
	PaymentRef string              `json:"payment_ref"`
	PaymentURL string              `json:"payment_url"`
	CreatedAt  time.Time           `json:"created_at"`
}

type WebhookPayload struct {
	PaymentRef string `json:"payment_ref"`
	Status     string `json:"status"`
}

// --- Waste collections ---

type CreateCollectionRequest struct {
	Location string `json:"location" binding:"required"`
}

type CollectionResponse struct {
	ID          int64                  `json:"id"`
	Location    string                 `json:"location"`
	Status      model.CollectionStatus `json:"status"`
	CollectorID *int64                 `json:"collector_id"`
	CreatedAt   time.Time              `json:"created_at"`
}

// --- Complaints ---

type CreateComplaintRequest struct {
	Description string `json:"description" binding:"required"`
}

type ComplaintResponse struct {
	ID          int64                 `json:"id"`
	Description string                `json:"description"`
	Status      model.ComplaintStatus `json:"status"`
	CreatedAt   time.Time             `json:"created_at"`
}

// --- Locations ---

type LocationRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address" binding:"required"`
}

type LocationResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

// --- Admin reports ---

type AdminStatsResponse struct {
	TotalUsers        int `json:"totalUsers"`
	ActiveCollectors  int `json:"activeCollectors"`
	TodayOrders       int `json:"todayOrders"`
	PendingComplaints int `json:"pendingComplaints"`
	MonthlyRevenue    int `json:"monthlyRevenue"`
	CompletionRate    int `json:"completionRate"`
}

type CollectorRankResponse struct {
	Name        string  `json:"name"`
	Collections int     `json:"collections"`
	Rating      float64 `json:"rating"`
	Earnings    string  `json:"earnings"`
}
