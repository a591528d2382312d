package orders

import (
	"encoding/json"
	"time"
)

const EventOrderCreated = "OrderCreated"

const TopicOrderCreated = "order.created"

// Partition key = order_id so every event for one order keeps its ordering.
func PartitionKey(orderID string) []byte { return []byte(orderID) }

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order_id
	Payload       json.RawMessage `json:"payload"`
}

type OrderCreatedPayload struct {
	OrderID    string      `json:"order_id"`
	UserID     string      `json:"user_id"`
	Status     Status      `json:"status"`
	TotalPrice string      `json:"total_price"`
	Lines      []LineEvent `json:"lines"`
}

type LineEvent struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
	Price     string `json:"price"`
}

// NewOrderCreatedPayload flattens a committed order for the wire.
func NewOrderCreatedPayload(o *Order) OrderCreatedPayload {
	p := OrderCreatedPayload{
		OrderID:    o.ID,
		UserID:     o.UserID,
		Status:     o.Status,
		TotalPrice: o.TotalPrice.StringFixed(2),
		Lines:      make([]LineEvent, 0, len(o.Lines)),
	}
	for _, l := range o.Lines {
		p.Lines = append(p.Lines, LineEvent{
			ProductID: l.ProductID,
			Qty:       l.Qty,
			Price:     l.Price.StringFixed(2),
		})
	}
	return p
}
