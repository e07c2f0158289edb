package reconciler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ayushiiaggarwall/skill-weave-engine-sub000/internal/metrics"
	"github.com/ayushiiaggarwall/skill-weave-engine-sub000/internal/models"
	"github.com/ayushiiaggarwall/skill-weave-engine-sub000/internal/telemetry"
)

// confirmOutcome distinguishes the results of the optional server-to-server
// confirmation. A mismatch means the gateway's record contradicts the
// webhook (fraud-review territory); inconclusive means the query itself
// failed (manual-reconciliation territory). Both abort the transition.
type confirmOutcome int

const (
	confirmSkipped confirmOutcome = iota
	confirmOK
	confirmMismatch
	confirmInconclusive
)

// checkAmountCurrency enforces exact minor-unit amount equality and, when
// the webhook reports a currency, exact currency equality. No tolerance.
func checkAmountCurrency(order *models.Order, amount int64, currency string) (ok bool, violation string) {
	if amount != order.Amount {
		return false, "amount_mismatch"
	}
	if currency != "" && currency != order.Currency {
		return false, "currency_mismatch"
	}
	return true, ""
}

// confirmPayment independently queries the gateway for the payment the
// webhook named and verifies status, order id and amount against the local
// order. Skipped when credentials are absent or no payment id was resolved.
func (r *Reconciler) confirmPayment(ctx context.Context, order *models.Order, paymentID string) confirmOutcome {
	if paymentID == "" || !r.gateway.Configured() {
		return confirmSkipped
	}

	start := time.Now()
	payment, err := r.gateway.FetchPayment(ctx, paymentID)
	metrics.GatewayConfirmDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		telemetry.Logger.Warn("Gateway confirmation inconclusive",
			zap.String("order_id", order.ID),
			zap.String("payment_id", paymentID),
			zap.Error(err),
		)
		return confirmInconclusive
	}

	if payment.Status != "captured" ||
		payment.OrderID != order.GatewayOrderID ||
		payment.Amount != order.Amount {
		telemetry.Logger.Error("Gateway record disagrees with webhook",
			zap.String("order_id", order.ID),
			zap.String("payment_id", paymentID),
			zap.String("gateway_status", payment.Status),
			zap.String("gateway_order_id", payment.OrderID),
			zap.Int64("gateway_amount", payment.Amount),
			zap.Int64("expected_amount", order.Amount),
		)
		return confirmMismatch
	}

	return confirmOK
}
