package orders

import (
	"encoding/json"
	"time"
)

const (
	EventOrderPlaced    = "OrderPlaced"
	EventOrderUpdated   = "OrderUpdated"
	EventCustomerNotify = "CustomerNotification"
)

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

// OrderChangedPayload carries the full record so subscribers reconcile
// their snapshot without re-fetching.
type OrderChangedPayload struct {
	Order Order `json:"order"`
}

// CustomerNotifyPayload is emitted when an order reaches a customer-facing
// terminal state. The notifier renders the text.
type CustomerNotifyPayload struct {
	OrderID string `json:"order_id"`
	Phone   string `json:"phone"`
	Status  Status `json:"status"`
	Items   []Item `json:"items"`
	Reason  string `json:"reason,omitempty"`
}
