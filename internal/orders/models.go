package orders

import (
	"time"

	"github.com/GodwinCyber/alx-project-nexus/internal/apperr"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusCreated   Status = "created"
	StatusPending   Status = "pending"
	StatusCancelled Status = "cancelled"
	StatusDelivered Status = "delivered"
)

// ParseStatus accepts the enumerated statuses; an empty string means created.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case "":
		return StatusCreated, nil
	case StatusCreated, StatusPending, StatusCancelled, StatusDelivered:
		return st, nil
	}
	return "", apperr.Validation("invalid order status %q: must be one of created, pending, cancelled, delivered", s)
}

// Order represents an order entity in the database
type Order struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	Status    Status          `json:"status"`
	Total     decimal.Decimal `json:"total"` // sum of price * quantity captured at placement
	CreatedAt time.Time       `json:"created_at"`
	Items     []OrderItem     `json:"items,omitempty"`
}

// OrderItem is the snapshot of one cart line at placement time.
type OrderItem struct {
	ID        int64           `json:"id"`
	OrderID   int64           `json:"order_id"`
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"` // unit price
}

type Filter struct {
	Status        *Status
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

// cartLine is a cart item joined with its locked product row.
type cartLine struct {
	cartItemID  int64
	productID   int64
	quantity    int
	productName string
	price       decimal.Decimal
	stock       int
}
