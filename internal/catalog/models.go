package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type SubCategory struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	CategoryID int64  `json:"category_id"`
}

type Product struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	CategoryID    int64           `json:"category_id"`
	SubCategoryID *int64          `json:"sub_category_id"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	AmountInStock int             `json:"amount_in_stock"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type ProductImage struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	Image     string `json:"image"` // path or URL, uploads are handled elsewhere
}

type NewCategory struct {
	Name string `validate:"required,max=50"`
}

type NewSubCategory struct {
	Name       string `validate:"max=50"`
	CategoryID int64  `validate:"required,gt=0"`
}

// SubCategoryUpdate carries only the fields being changed.
type SubCategoryUpdate struct {
	Name       *string
	CategoryID *int64
}

type NewProduct struct {
	Name          string          `validate:"required,max=20"`
	CategoryID    int64           `validate:"required,gt=0"`
	SubCategoryID *int64          `validate:"omitempty,gt=0"`
	Description   string          `validate:"max=5000"`
	Price         decimal.Decimal `validate:"-"`
	AmountInStock int             `validate:"min=0"`
}

// ProductUpdate carries only the fields being changed.
type ProductUpdate struct {
	Name          *string
	CategoryID    *int64
	SubCategoryID *int64
	Description   *string
	Price         *decimal.Decimal
	AmountInStock *int
}

type NewProductImage struct {
	ProductID int64  `validate:"required,gt=0"`
	Image     string `validate:"required,max=2048"`
}

type CategoryFilter struct {
	Name *string
}

type SubCategoryFilter struct {
	Name       *string
	CategoryID *int64
}

type ProductFilter struct {
	Name          *string
	CategoryID    *int64
	SubCategoryID *int64
	PriceGte      *decimal.Decimal
	PriceLte      *decimal.Decimal
	StockGte      *int
	StockLte      *int
	LowStock      *bool
}

type ImageFilter struct {
	ProductID *int64
}
