package projector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/satriadh/go-shop-api/internal/kafka"
	"github.com/satriadh/go-shop-api/internal/orders"
	"github.com/satriadh/go-shop-api/internal/redisx"
)

type OrderSource interface {
	GetOrder(ctx context.Context, id string) (*orders.OrderView, error)
}

type Cache interface {
	Exists(ctx context.Context, key string) (bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// Service warms the order view cache from order.created events so the first
// GET after placement is usually a cache hit. Placement correctness never
// depends on it; a lost event just means a read-through later.
type Service struct {
	Orders      OrderSource
	Cache       Cache
	ServiceName string
}

// HandleOrderCreated is mounted as the consumer handler.
func (s *Service) HandleOrderCreated(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != orders.EventOrderCreated {
		return nil
	}

	// dedup by event_id
	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
	if seen, _ := s.Cache.Exists(ctx, dkey); seen {
		return nil
	}
	_ = s.Cache.Set(ctx, dkey, "1", redisx.TTLDedup)

	p, err := kafkax.UnwrapPayload[orders.OrderCreatedPayload](env.Payload)
	if err != nil {
		return err
	}

	view, err := s.Orders.GetOrder(ctx, p.OrderID)
	if errors.Is(err, orders.ErrOrderNotFound) {
		slog.Warn("order.created for unknown order", "order_id", p.OrderID)
		return nil
	}
	if err != nil {
		return err
	}

	b, err := json.Marshal(view)
	if err != nil {
		return err
	}
	return s.Cache.Set(ctx, fmt.Sprintf(redisx.KeyOrderView, view.ID), string(b), redisx.TTLOrderView)
}
