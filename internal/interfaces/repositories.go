package interfaces

import (
	"context"
	"time"

	"github.com/ayushiiaggarwall/skill-weave-engine-sub000/internal/gateway"
	"github.com/ayushiiaggarwall/skill-weave-engine-sub000/internal/models"
)

// LedgerOutcome is the result of recording an event id in the ledger.
type LedgerOutcome int

const (
	LedgerFirstTime LedgerOutcome = iota
	LedgerDuplicate
)

// EventLedger is the append-only idempotency store. A duplicate event id is
// the expected redelivery signal, not an error.
type EventLedger interface {
	Record(ctx context.Context, eventID string) (LedgerOutcome, error)
}

// OrderRepository defines the contract for order data access. MarkPaid and
// MarkFailed are conditional writes guarded by status = 'pending'; the bool
// reports whether a row was transitioned.
type OrderRepository interface {
	GetByGatewayOrderID(ctx context.Context, gatewayOrderID, gateway string) (*models.Order, error)
	MarkPaid(ctx context.Context, orderID, paymentID string, paidAt time.Time) (bool, error)
	MarkFailed(ctx context.Context, orderID string) (bool, error)
}

// GatewayClient is the outbound server-to-server confirmation API.
type GatewayClient interface {
	Configured() bool
	FetchPayment(ctx context.Context, paymentID string) (*gateway.Payment, error)
	FetchCapturedPayment(ctx context.Context, gatewayOrderID string) (*gateway.Payment, error)
}

// StatePublisher emits order state-change events for downstream consumers.
type StatePublisher interface {
	Publish(ctx context.Context, key string, value []byte) error
}

// AlertPublisher emits structured diagnostics for conditions that are
// acknowledged to the gateway but need out-of-band attention.
type AlertPublisher interface {
	Alert(ctx context.Context, kind string, fields map[string]interface{})
}
