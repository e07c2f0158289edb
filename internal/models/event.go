package models

import (
	"encoding/json"
	"time"
)

// ProcessedEvent is a row in the append-only idempotency ledger. The unique
// constraint on EventID is the duplicate-delivery signal.
type ProcessedEvent struct {
	EventID    string    `json:"event_id"`
	ReceivedAt time.Time `json:"received_at"`
}

// WebhookEnvelope is the outer shape of every gateway delivery. Payload
// sub-objects are event-dependent and decoded by the classifier.
type WebhookEnvelope struct {
	ID      string         `json:"id"`
	Event   string         `json:"event"`
	Payload WebhookPayload `json:"payload"`
}

type WebhookPayload struct {
	Payment *PaymentWrapper `json:"payment,omitempty"`
	Order   *OrderWrapper   `json:"order,omitempty"`
}

type PaymentWrapper struct {
	Entity PaymentEntity `json:"entity"`
}

type OrderWrapper struct {
	Entity OrderEntity `json:"entity"`
}

// PaymentEntity is the gateway's payment sub-object for payment-level events.
type PaymentEntity struct {
	ID       string `json:"id"`
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
	Captured bool   `json:"captured"`
}

// OrderEntity is the gateway's order sub-object for order-level events.
type OrderEntity struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func DecodeEnvelope(raw []byte) (WebhookEnvelope, error) {
	var env WebhookEnvelope
	err := json.Unmarshal(raw, &env)
	return env, err
}
