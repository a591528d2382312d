package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/satriadh/go-shop-api/internal/auth"
	kafkax "github.com/satriadh/go-shop-api/internal/kafka"
	"github.com/satriadh/go-shop-api/internal/orders"
	"github.com/satriadh/go-shop-api/internal/redisx"
)

type OrderPlacer interface {
	PlaceOrder(ctx context.Context, userID string, lines []orders.LineInput) (*orders.Order, error)
}

type OrderGetter interface {
	GetOrder(ctx context.Context, id string) (*orders.OrderView, error)
}

type EventPublisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

type OrdersHandler struct {
	Engine   OrderPlacer
	Repo     OrderGetter
	Producer EventPublisher // optional
	Redis    *redis.Client  // optional view cache
	Service  string
}

type createOrderReq struct {
	Items []orders.LineInput `json:"items"`
}

func (h *OrdersHandler) Register(r *chi.Mux, authed func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authed)
		r.Post("/orders", h.createOrder)
		r.Get("/orders/{id}", h.getOrder)
	})
}

func (h *OrdersHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFrom(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	var req createOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	order, err := h.Engine.PlaceOrder(ctx, id.ID, req.Items)
	if err != nil {
		writePlacementError(w, err)
		return
	}

	h.publishCreated(r, order)
	writeJSON(w, http.StatusCreated, order)
}

// publishCreated emits order.created after commit. Fire-and-forget: the
// order is already durable, event loss only delays the cache warmer.
func (h *OrdersHandler) publishCreated(r *http.Request, o *orders.Order) {
	if h.Producer == nil {
		return
	}
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventOrderCreated,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       r.Header.Get("X-Request-Id"),
		CorrelationID: o.ID,
	}
	ev.Payload = kafkax.MustMarshal(orders.NewOrderCreatedPayload(o))
	h.Producer.Publish(orders.PartitionKey(o.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventOrderCreated)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		writeErr(w, http.StatusBadRequest, "missing id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	key := fmt.Sprintf(redisx.KeyOrderView, orderID)
	if h.Redis != nil {
		if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
			writeJSON(w, http.StatusOK, json.RawMessage(s))
			return
		}
	}

	view, err := h.Repo.GetOrder(ctx, orderID)
	if errors.Is(err, orders.ErrOrderNotFound) {
		writeErr(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		writePlacementError(w, err)
		return
	}

	if h.Redis != nil {
		b, _ := json.Marshal(view)
		_ = h.Redis.Set(ctx, key, b, redisx.TTLOrderView).Err()
	}
	writeJSON(w, http.StatusOK, view)
}
