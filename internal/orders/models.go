package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineInput is one (product, quantity) request from the caller.
type LineInput struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
}

type Order struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"`
	Status     Status          `json:"status"`
	TotalPrice decimal.Decimal `json:"total_price"`
	CreatedAt  time.Time       `json:"created_at"`
	Lines      []OrderLine     `json:"lines"`
}

// OrderLine captures the unit price at placement time. It is never re-read
// from the product row afterwards.
type OrderLine struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"order_id"`
	ProductID string          `json:"product_id"`
	Price     decimal.Decimal `json:"price"`
	Qty       int             `json:"qty"`
}

// OrderView is the read-path shape: the order joined with its lines and each
// line's current product row for display.
type OrderView struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"`
	Status     Status          `json:"status"`
	TotalPrice decimal.Decimal `json:"total_price"`
	CreatedAt  time.Time       `json:"created_at"`
	Lines      []OrderLineView `json:"lines"`
}

type OrderLineView struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Price     decimal.Decimal `json:"price"` // captured at placement
	Qty       int             `json:"qty"`
	Product   ProductSnapshot `json:"product"`
}

// ProductSnapshot is the product row as it currently stands, not as priced
// when the order was placed.
type ProductSnapshot struct {
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}
