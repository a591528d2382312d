package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/satriadh/go-shop-api/internal/orders"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// writePlacementError maps the placement taxonomy onto HTTP statuses.
// Contention gets 409 plus a retry hint; the whole call is safe to repeat
// because nothing was committed.
func writePlacementError(w http.ResponseWriter, err error) {
	var ve *orders.ValidationError
	if errors.As(err, &ve) {
		writeErr(w, http.StatusBadRequest, ve.Error())
		return
	}
	var nfe *orders.NotFoundError
	if errors.As(err, &nfe) {
		writeErr(w, http.StatusNotFound, nfe.Error())
		return
	}
	var ise *orders.InsufficientStockError
	if errors.As(err, &ise) {
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":      ise.Error(),
			"product_id": ise.ProductID,
			"available":  ise.Available,
			"requested":  ise.Requested,
		})
		return
	}
	if errors.Is(err, orders.ErrContention) {
		w.Header().Set("Retry-After", "1")
		writeErr(w, http.StatusConflict, "contention, retry the request")
		return
	}
	slog.Error("place order", "err", err)
	writeErr(w, http.StatusInternalServerError, "internal error")
}
