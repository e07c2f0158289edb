package reconciler

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/ayushiiaggarwall/skill-weave-engine-sub000/internal/events"
	"github.com/ayushiiaggarwall/skill-weave-engine-sub000/internal/interfaces"
	"github.com/ayushiiaggarwall/skill-weave-engine-sub000/internal/metrics"
	"github.com/ayushiiaggarwall/skill-weave-engine-sub000/internal/models"
	"github.com/ayushiiaggarwall/skill-weave-engine-sub000/internal/telemetry"
)

// Processing outcomes. Every outcome after signature verification is
// acknowledged 200 to the gateway; the outcome string is the ack body's
// status field and the metrics label.
const (
	OutcomePaid                = "paid"
	OutcomeFailed              = "failed"
	OutcomeDuplicate           = "duplicate"
	OutcomeNoEventID           = "no_event_id"
	OutcomeIgnored             = "ignored"
	OutcomeOrderNotFound       = "order_not_found"
	OutcomeOrderNotPending     = "order_not_pending"
	OutcomeAlreadyResolved     = "already_resolved"
	OutcomeNotCaptured         = "payment_not_captured"
	OutcomeAmountMismatch      = "amount_mismatch"
	OutcomeCurrencyMismatch    = "currency_mismatch"
	OutcomeConfirmMismatch     = "confirm_mismatch"
	OutcomeConfirmInconclusive = "confirm_inconclusive"
	OutcomeUnconfirmed         = "unconfirmed"
)

type Result struct {
	Outcome      string
	Transitioned bool
}

// Reconciler drives a verified webhook delivery through dedup,
// classification, order matching, the consistency guard and the
// pending -> paid/failed state machine.
type Reconciler struct {
	ledger      interfaces.EventLedger
	orders      interfaces.OrderRepository
	gateway     interfaces.GatewayClient
	statePub    interfaces.StatePublisher
	alerts      interfaces.AlertPublisher
	gatewayName string
	now         func() time.Time
}

func New(
	ledger interfaces.EventLedger,
	orders interfaces.OrderRepository,
	gatewayClient interfaces.GatewayClient,
	statePub interfaces.StatePublisher,
	alerts interfaces.AlertPublisher,
	gatewayName string,
	now func() time.Time,
) *Reconciler {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Reconciler{
		ledger:      ledger,
		orders:      orders,
		gateway:     gatewayClient,
		statePub:    statePub,
		alerts:      alerts,
		gatewayName: gatewayName,
		now:         now,
	}
}

// Process handles a signature-verified envelope. It never returns an error:
// every condition past authentication maps to an acknowledged outcome, so
// the gateway is never given cause to retry a permanently-unprocessable
// event.
func (r *Reconciler) Process(ctx context.Context, env models.WebhookEnvelope) Result {
	result := r.process(ctx, env)
	metrics.WebhookEventsTotal.WithLabelValues(result.Outcome).Inc()
	return result
}

func (r *Reconciler) process(ctx context.Context, env models.WebhookEnvelope) Result {
	if env.ID == "" {
		telemetry.Logger.Warn("Webhook delivery without event id, acknowledging")
		return Result{Outcome: OutcomeNoEventID}
	}

	outcome, err := r.ledger.Record(ctx, env.ID)
	if err != nil {
		// Acknowledge anyway: retrying synchronously during a storage
		// outage would amplify load. The event is flagged for
		// out-of-band follow-up instead.
		telemetry.Logger.Error("Event ledger write failed, acknowledging unconfirmed",
			zap.String("event_id", env.ID),
			zap.Error(err),
		)
		metrics.UnconfirmedAcksTotal.Inc()
		r.alerts.Alert(ctx, "unconfirmed_ack", map[string]interface{}{
			"event_id": env.ID,
			"error":    err.Error(),
		})
		return Result{Outcome: OutcomeUnconfirmed}
	}
	if outcome == interfaces.LedgerDuplicate {
		telemetry.Logger.Info("Duplicate webhook delivery",
			zap.String("event_id", env.ID),
		)
		return Result{Outcome: OutcomeDuplicate}
	}

	classified := events.Classify(env)
	if classified.Kind == events.KindIgnored {
		telemetry.Logger.Info("Ignoring unrecognized event type",
			zap.String("event_id", env.ID),
			zap.String("event_type", env.Event),
		)
		return Result{Outcome: OutcomeIgnored}
	}

	switch classified.Kind {
	case events.KindCaptured:
		return r.handleCaptured(ctx, env.ID, classified.Captured)
	case events.KindOrderPaid:
		return r.handleOrderPaid(ctx, env.ID, classified.OrderPaid)
	default:
		return r.handleFailed(ctx, env.ID, classified.Failed)
	}
}

func (r *Reconciler) handleCaptured(ctx context.Context, eventID string, ev *events.PaymentEvent) Result {
	order, res := r.matchPendingOrder(ctx, eventID, ev.GatewayOrderID)
	if order == nil {
		return res
	}

	// The payment's own state must literally say captured; a valid
	// signature on an uncaptured payment is not a confirmation.
	if ev.Status != "captured" || !ev.CapturedFlag {
		return r.reject(ctx, eventID, order, OutcomeNotCaptured, map[string]interface{}{
			"payment_status": ev.Status,
			"captured_flag":  ev.CapturedFlag,
		})
	}

	if ok, violation := checkAmountCurrency(order, ev.Amount, ev.Currency); !ok {
		return r.reject(ctx, eventID, order, violation, map[string]interface{}{
			"webhook_amount":    ev.Amount,
			"expected_amount":   order.Amount,
			"webhook_currency":  ev.Currency,
			"expected_currency": order.Currency,
		})
	}

	switch r.confirmPayment(ctx, order, ev.PaymentID) {
	case confirmMismatch:
		return r.reject(ctx, eventID, order, OutcomeConfirmMismatch, map[string]interface{}{
			"payment_id": ev.PaymentID,
		})
	case confirmInconclusive:
		return r.reject(ctx, eventID, order, OutcomeConfirmInconclusive, map[string]interface{}{
			"payment_id": ev.PaymentID,
		})
	}

	return r.transitionPaid(ctx, eventID, order, ev.PaymentID)
}

func (r *Reconciler) handleOrderPaid(ctx context.Context, eventID string, ev *events.OrderEvent) Result {
	order, res := r.matchPendingOrder(ctx, eventID, ev.GatewayOrderID)
	if order == nil {
		return res
	}

	if ok, violation := checkAmountCurrency(order, ev.Amount, ev.Currency); !ok {
		return r.reject(ctx, eventID, order, violation, map[string]interface{}{
			"webhook_amount":  ev.Amount,
			"expected_amount": order.Amount,
		})
	}

	// order.paid does not name a payment. Best-effort: resolve the
	// captured payment for bookkeeping. The event is gateway-authoritative
	// for completion, so a failed lookup does not block the transition.
	// A successful lookup that contradicts the order does.
	paymentID := ""
	if r.gateway.Configured() {
		payment, err := r.gateway.FetchCapturedPayment(ctx, ev.GatewayOrderID)
		if err != nil {
			telemetry.Logger.Warn("Could not resolve captured payment for order",
				zap.String("event_id", eventID),
				zap.String("gateway_order_id", ev.GatewayOrderID),
				zap.Error(err),
			)
		} else if payment.Amount != order.Amount {
			return r.reject(ctx, eventID, order, OutcomeConfirmMismatch, map[string]interface{}{
				"payment_id":      payment.ID,
				"gateway_amount":  payment.Amount,
				"expected_amount": order.Amount,
			})
		} else {
			paymentID = payment.ID
		}
	}

	return r.transitionPaid(ctx, eventID, order, paymentID)
}

// handleFailed accepts the failure at face value once the signature has
// verified; it never goes through the amount/currency guard and never
// transitions to paid.
func (r *Reconciler) handleFailed(ctx context.Context, eventID string, ev *events.PaymentEvent) Result {
	order, res := r.matchPendingOrder(ctx, eventID, ev.GatewayOrderID)
	if order == nil {
		return res
	}

	transitioned, err := r.orders.MarkFailed(ctx, order.ID)
	if err != nil {
		return r.unconfirmed(ctx, eventID, order, err)
	}
	if !transitioned {
		return Result{Outcome: OutcomeAlreadyResolved}
	}

	r.publishStateChange(ctx, order, models.OrderFailed, "")
	metrics.OrderTransitionsTotal.WithLabelValues(string(models.OrderFailed)).Inc()
	telemetry.Logger.Info("Order marked failed",
		zap.String("event_id", eventID),
		zap.String("order_id", order.ID),
		zap.String("gateway_order_id", order.GatewayOrderID),
	)
	return Result{Outcome: OutcomeFailed, Transitioned: true}
}

// matchPendingOrder resolves the local order for a gateway order id. A
// missing or already-resolved order is a safe, acknowledged no-op; there is
// no license to synthesize one.
func (r *Reconciler) matchPendingOrder(ctx context.Context, eventID, gatewayOrderID string) (*models.Order, Result) {
	order, err := r.orders.GetByGatewayOrderID(ctx, gatewayOrderID, r.gatewayName)
	if err == models.ErrOrderNotFound {
		telemetry.Logger.Info("No local order for webhook, acknowledging",
			zap.String("event_id", eventID),
			zap.String("gateway_order_id", gatewayOrderID),
		)
		return nil, Result{Outcome: OutcomeOrderNotFound}
	}
	if err != nil {
		return nil, r.unconfirmed(ctx, eventID, nil, err)
	}

	if order.Status != models.OrderPending {
		telemetry.Logger.Info("Order already resolved, acknowledging",
			zap.String("event_id", eventID),
			zap.String("order_id", order.ID),
			zap.String("status", string(order.Status)),
		)
		return nil, Result{Outcome: OutcomeOrderNotPending}
	}

	return order, Result{}
}

func (r *Reconciler) transitionPaid(ctx context.Context, eventID string, order *models.Order, paymentID string) Result {
	paidAt := r.now()

	transitioned, err := r.orders.MarkPaid(ctx, order.ID, paymentID, paidAt)
	if err != nil {
		return r.unconfirmed(ctx, eventID, order, err)
	}
	if !transitioned {
		// Lost the race, or a concurrent delivery resolved the order
		// first. Identical to "already handled".
		telemetry.Logger.Info("Paid transition affected zero rows, acknowledging",
			zap.String("event_id", eventID),
			zap.String("order_id", order.ID),
		)
		return Result{Outcome: OutcomeAlreadyResolved}
	}

	r.publishStateChange(ctx, order, models.OrderPaid, paymentID)
	metrics.OrderTransitionsTotal.WithLabelValues(string(models.OrderPaid)).Inc()
	telemetry.Logger.Info("Order marked paid",
		zap.String("event_id", eventID),
		zap.String("order_id", order.ID),
		zap.String("gateway_order_id", order.GatewayOrderID),
		zap.String("payment_id", paymentID),
		zap.Int64("amount", order.Amount),
		zap.String("currency", order.Currency),
	)
	return Result{Outcome: OutcomePaid, Transitioned: true}
}

// reject acknowledges a delivery whose guard checks failed. Responding 4xx
// here would make the gateway retry forever on a condition that will never
// change, so the violation surfaces through logs, metrics and alerts only.
func (r *Reconciler) reject(ctx context.Context, eventID string, order *models.Order, violation string, fields map[string]interface{}) Result {
	telemetry.Logger.Error("Consistency guard blocked transition",
		zap.String("event_id", eventID),
		zap.String("order_id", order.ID),
		zap.String("violation", violation),
	)
	metrics.ConsistencyViolationsTotal.WithLabelValues(violation).Inc()

	alertFields := map[string]interface{}{
		"event_id": eventID,
		"order_id": order.ID,
	}
	for k, v := range fields {
		alertFields[k] = v
	}
	r.alerts.Alert(ctx, violation, alertFields)

	return Result{Outcome: violation}
}

func (r *Reconciler) unconfirmed(ctx context.Context, eventID string, order *models.Order, err error) Result {
	fields := []zap.Field{
		zap.String("event_id", eventID),
		zap.Error(err),
	}
	alertFields := map[string]interface{}{
		"event_id": eventID,
		"error":    err.Error(),
	}
	if order != nil {
		fields = append(fields, zap.String("order_id", order.ID))
		alertFields["order_id"] = order.ID
	}

	telemetry.Logger.Error("Storage failure, acknowledging unconfirmed", fields...)
	metrics.UnconfirmedAcksTotal.Inc()
	r.alerts.Alert(ctx, "unconfirmed_ack", alertFields)
	return Result{Outcome: OutcomeUnconfirmed}
}

func (r *Reconciler) publishStateChange(ctx context.Context, order *models.Order, to models.OrderStatus, paymentID string) {
	event := map[string]interface{}{
		"order_id":         order.ID,
		"gateway_order_id": order.GatewayOrderID,
		"gateway":          order.Gateway,
		"status":           to,
		"previous_status":  models.OrderPending,
		"payment_id":       paymentID,
		"amount":           order.Amount,
		"currency":         order.Currency,
		"timestamp":        r.now(),
	}
	eventJSON, _ := json.Marshal(event)

	if err := r.statePub.Publish(ctx, order.ID, eventJSON); err != nil {
		telemetry.Logger.Error("Failed to publish order state change",
			zap.String("order_id", order.ID),
			zap.Error(err),
		)
	}
}
