package kafka

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TopicOrderPlaced    = `orders.order-placed`
	TopicPaymentCreated = `payments.payment-created`
)

type OrderLine struct {
	ProductId int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type OrderPlacedEvent struct {
	OrderId   int64           `json:"order_id"`
	UserId    int64           `json:"user_id"`
	Status    string          `json:"status"`
	Total     decimal.Decimal `json:"total"`
	Lines     []OrderLine     `json:"lines"`
	CreatedAt time.Time       `json:"created_at"`
}

type PaymentCreatedEvent struct {
	PaymentId     int64           `json:"payment_id"`
	OrderId       int64           `json:"order_id"`
	UserId        int64           `json:"user_id"`
	PaymentIntent string          `json:"payment_intent"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	CreatedAt     time.Time       `json:"created_at"`
}
