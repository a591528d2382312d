package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Engine places orders. One call is one transaction: every stock decrement
// and the order insert commit together or not at all. There is no
// compensation path; rollback is the store's atomicity.
type Engine struct {
	DB *pgxpool.Pool
}

// PlaceOrder converts requested lines into one committed order. Stock is
// read under FOR UPDATE row locks, acquired in ascending product-id order,
// and each line records the price seen under that lock.
func (e *Engine) PlaceOrder(ctx context.Context, userID string, lines []LineInput) (*Order, error) {
	if userID == "" {
		return nil, &ValidationError{Reason: "missing caller id"}
	}
	norm, err := normalize(lines)
	if err != nil {
		return nil, err
	}

	tx, err := e.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, classify(err)
	}
	defer tx.Rollback(ctx)

	order := &Order{
		ID:     uuid.NewString(),
		UserID: userID,
		Status: StatusPending,
		Lines:  make([]OrderLine, 0, len(norm)),
	}
	total := decimal.Zero

	for _, ln := range norm {
		var priceStr string
		var stock int
		err := tx.QueryRow(ctx,
			`SELECT price::text, stock FROM products WHERE id=$1 FOR UPDATE`,
			ln.ProductID).Scan(&priceStr, &stock)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{ProductID: ln.ProductID}
		}
		if err != nil {
			return nil, classify(err)
		}
		if stock < ln.Qty {
			return nil, &InsufficientStockError{
				ProductID: ln.ProductID,
				Available: stock,
				Requested: ln.Qty,
			}
		}

		if _, err := tx.Exec(ctx,
			`UPDATE products SET stock = stock - $2, updated_at = now() WHERE id=$1`,
			ln.ProductID, ln.Qty); err != nil {
			return nil, classify(err)
		}

		price, err := decimal.NewFromString(priceStr)
		if err != nil {
			return nil, classify(err)
		}
		order.Lines = append(order.Lines, OrderLine{
			ID:        uuid.NewString(),
			OrderID:   order.ID,
			ProductID: ln.ProductID,
			Price:     price,
			Qty:       ln.Qty,
		})
		total = total.Add(price.Mul(decimal.NewFromInt(int64(ln.Qty))))
	}

	order.TotalPrice = total
	order.CreatedAt = time.Now().UTC()

	if _, err := tx.Exec(ctx,
		`INSERT INTO orders(id, user_id, status, total_price, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		order.ID, order.UserID, string(order.Status), order.TotalPrice.StringFixed(2), order.CreatedAt); err != nil {
		return nil, classify(err)
	}
	for _, l := range order.Lines {
		if _, err := tx.Exec(ctx,
			`INSERT INTO order_lines(id, order_id, product_id, price, qty)
			 VALUES ($1, $2, $3, $4, $5)`,
			l.ID, l.OrderID, l.ProductID, l.Price.StringFixed(2), l.Qty); err != nil {
			return nil, classify(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, classify(err)
	}
	return order, nil
}
