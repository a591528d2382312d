package orders

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Repo struct{ DB *pgxpool.Pool }

// GetOrder joins the header, its lines, and each line's current product row.
// Plain reads: line prices are immutable once written, so no locking.
func (r *Repo) GetOrder(ctx context.Context, id string) (*OrderView, error) {
	v := &OrderView{ID: id}
	var status, totalStr string
	err := r.DB.QueryRow(ctx,
		`SELECT user_id, status, total_price::text, created_at FROM orders WHERE id=$1`,
		id).Scan(&v.UserID, &status, &totalStr, &v.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, classify(err)
	}
	v.Status = Status(status)
	if v.TotalPrice, err = decimal.NewFromString(totalStr); err != nil {
		return nil, classify(err)
	}

	rows, err := r.DB.Query(ctx, `
		SELECT ol.id, ol.product_id, ol.price::text, ol.qty,
		       p.title, p.price::text, p.stock
		FROM order_lines ol
		JOIN products p ON p.id = ol.product_id
		WHERE ol.order_id = $1
		ORDER BY ol.product_id`, id)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	for rows.Next() {
		var ln OrderLineView
		var lineStr, prodStr string
		if err := rows.Scan(&ln.ID, &ln.ProductID, &lineStr, &ln.Qty,
			&ln.Product.Title, &prodStr, &ln.Product.Stock); err != nil {
			return nil, classify(err)
		}
		if ln.Price, err = decimal.NewFromString(lineStr); err != nil {
			return nil, classify(err)
		}
		if ln.Product.Price, err = decimal.NewFromString(prodStr); err != nil {
			return nil, classify(err)
		}
		v.Lines = append(v.Lines, ln)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return v, nil
}
