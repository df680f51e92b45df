package cart

import "time"

type Cart struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type CartItem struct {
	ID        int64     `json:"id"`
	CartID    int64     `json:"cart_id"`
	ProductID int64     `json:"product_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ItemFilter narrows the items of the caller's cart. Nil fields are ignored.
type ItemFilter struct {
	ProductID   *int64
	MinQuantity *int
	MaxQuantity *int
}

type addItemRequest struct {
	ProductID int64 `validate:"gt=0"`
	Quantity  int   `validate:"min=1"`
}
