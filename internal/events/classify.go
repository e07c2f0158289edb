package events

import (
	"github.com/ayushiiaggarwall/skill-weave-engine-sub000/internal/models"
)

// Kind is the set of webhook event classes the reconciler acts on. Every
// other gateway event type (refunds, disputes, authorizations) classifies as
// KindIgnored and is acknowledged without processing.
type Kind string

const (
	KindCaptured  Kind = "captured"
	KindOrderPaid Kind = "order_paid"
	KindFailed    Kind = "failed"
	KindIgnored   Kind = "ignored"
)

const (
	TypeCaptured  = "payment.captured"
	TypeOrderPaid = "order.paid"
	TypeFailed    = "payment.failed"
)

// Classified is the decoded form of a recognized event. Exactly one of
// Captured, OrderPaid, Failed is set, keyed by Kind.
type Classified struct {
	Kind      Kind
	Captured  *PaymentEvent
	OrderPaid *OrderEvent
	Failed    *PaymentEvent
}

// PaymentEvent carries the payment-level fields of captured/failed events.
type PaymentEvent struct {
	GatewayOrderID string
	PaymentID      string
	Amount         int64
	Currency       string
	Status         string
	CapturedFlag   bool
}

// OrderEvent carries the order-level fields of order.paid events. The
// payment id is not present on this event type and is resolved later via the
// gateway's captured-payment query.
type OrderEvent struct {
	GatewayOrderID string
	Amount         int64
	Currency       string
}

// Classify maps an envelope to a recognized event class. An envelope whose
// type is recognized but whose required sub-object is missing classifies as
// ignored rather than erroring; there is nothing safe to act on.
func Classify(env models.WebhookEnvelope) Classified {
	switch env.Event {
	case TypeCaptured, TypeFailed:
		if env.Payload.Payment == nil {
			return Classified{Kind: KindIgnored}
		}
		p := env.Payload.Payment.Entity
		ev := &PaymentEvent{
			GatewayOrderID: p.OrderID,
			PaymentID:      p.ID,
			Amount:         p.Amount,
			Currency:       p.Currency,
			Status:         p.Status,
			CapturedFlag:   p.Captured,
		}
		if env.Event == TypeCaptured {
			return Classified{Kind: KindCaptured, Captured: ev}
		}
		return Classified{Kind: KindFailed, Failed: ev}

	case TypeOrderPaid:
		if env.Payload.Order == nil {
			return Classified{Kind: KindIgnored}
		}
		o := env.Payload.Order.Entity
		return Classified{Kind: KindOrderPaid, OrderPaid: &OrderEvent{
			GatewayOrderID: o.ID,
			Amount:         o.Amount,
			Currency:       o.Currency,
		}}

	default:
		return Classified{Kind: KindIgnored}
	}
}
