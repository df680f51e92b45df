package payments

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusSuccessful Status = "successful"
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCancelled  Status = "cancelled"
)

type Payment struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"user_id"`
	OrderID       int64           `json:"order_id"`
	PaymentIntent string          `json:"stripe_payment_intent"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Status        Status          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

// NewPayment is the caller's request. UserID must name the caller.
type NewPayment struct {
	UserID   int64           `validate:"required,gt=0"`
	OrderID  int64           `validate:"required,gt=0"`
	Amount   decimal.Decimal `validate:"-"`
	Currency string          `validate:"omitempty,len=3,alpha"`
}

// Created is a recorded payment plus the secret the frontend needs to
// confirm it with the processor.
type Created struct {
	Payment      Payment
	ClientSecret string
}

type Filter struct {
	OrderID       *int64
	Status        *Status
	AmountGte     *decimal.Decimal
	AmountLte     *decimal.Decimal
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
