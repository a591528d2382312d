package projector

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kafkax "github.com/satriadh/go-shop-api/internal/kafka"
	"github.com/satriadh/go-shop-api/internal/orders"
	"github.com/satriadh/go-shop-api/internal/redisx"
)

type memCache struct{ data map[string]string }

func newMemCache() *memCache { return &memCache{data: map[string]string{}} }

func (c *memCache) Exists(_ context.Context, key string) (bool, error) {
	_, ok := c.data[key]
	return ok, nil
}

func (c *memCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.data[key] = value
	return nil
}

type memSource struct {
	views map[string]*orders.OrderView
	calls int
}

func (s *memSource) GetOrder(_ context.Context, id string) (*orders.OrderView, error) {
	s.calls++
	v, ok := s.views[id]
	if !ok {
		return nil, orders.ErrOrderNotFound
	}
	return v, nil
}

func orderCreatedMessage(t *testing.T, eventID, orderID string) kafkago.Message {
	t.Helper()
	env := orders.Envelope{
		EventID:       eventID,
		EventType:     orders.EventOrderCreated,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      "test",
		CorrelationID: orderID,
		Payload:       kafkax.MustMarshal(orders.OrderCreatedPayload{OrderID: orderID}),
	}
	return kafkago.Message{Key: orders.PartitionKey(orderID), Value: kafkax.MustMarshal(env)}
}

func TestHandleOrderCreatedWarmsCache(t *testing.T) {
	cache := newMemCache()
	src := &memSource{views: map[string]*orders.OrderView{
		"o1": {ID: "o1", UserID: "u1", Status: orders.StatusPending},
	}}
	svc := &Service{Orders: src, Cache: cache, ServiceName: "projector"}

	err := svc.HandleOrderCreated(context.Background(), orderCreatedMessage(t, "e1", "o1"))
	require.NoError(t, err)

	raw, ok := cache.data[fmt.Sprintf(redisx.KeyOrderView, "o1")]
	require.True(t, ok)
	var view orders.OrderView
	require.NoError(t, json.Unmarshal([]byte(raw), &view))
	assert.Equal(t, "o1", view.ID)
}

func TestHandleOrderCreatedDedups(t *testing.T) {
	cache := newMemCache()
	src := &memSource{views: map[string]*orders.OrderView{"o1": {ID: "o1"}}}
	svc := &Service{Orders: src, Cache: cache, ServiceName: "projector"}

	msg := orderCreatedMessage(t, "e1", "o1")
	require.NoError(t, svc.HandleOrderCreated(context.Background(), msg))
	require.NoError(t, svc.HandleOrderCreated(context.Background(), msg))
	assert.Equal(t, 1, src.calls)
}

func TestHandleOrderCreatedIgnoresOtherEvents(t *testing.T) {
	svc := &Service{Orders: &memSource{}, Cache: newMemCache(), ServiceName: "projector"}
	env := orders.Envelope{EventID: "e2", EventType: "SomethingElse", Payload: json.RawMessage(`{}`)}
	err := svc.HandleOrderCreated(context.Background(), kafkago.Message{Value: kafkax.MustMarshal(env)})
	assert.NoError(t, err)
}

func TestHandleOrderCreatedUnknownOrder(t *testing.T) {
	svc := &Service{Orders: &memSource{}, Cache: newMemCache(), ServiceName: "projector"}
	// event for an order the database no longer has: swallow, commit offset
	err := svc.HandleOrderCreated(context.Background(), orderCreatedMessage(t, "e3", "gone"))
	assert.NoError(t, err)
}
