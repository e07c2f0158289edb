package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/ayushiiaggarwall/skill-weave-engine-sub000/internal/metrics"
	"github.com/ayushiiaggarwall/skill-weave-engine-sub000/internal/models"
	"github.com/ayushiiaggarwall/skill-weave-engine-sub000/internal/reconciler"
	"github.com/ayushiiaggarwall/skill-weave-engine-sub000/internal/signature"
	"github.com/ayushiiaggarwall/skill-weave-engine-sub000/internal/telemetry"
)

// SignatureHeader carries the gateway's HMAC over the raw request body.
const SignatureHeader = "X-Razorpay-Signature"

// Processor reconciles a verified webhook envelope.
type Processor interface {
	Process(ctx context.Context, env models.WebhookEnvelope) reconciler.Result
}

type WebhookHandler struct {
	secret    string
	processor Processor
}

func NewWebhookHandler(secret string, processor Processor) *WebhookHandler {
	return &WebhookHandler{secret: secret, processor: processor}
}

// HandleWebhook is the inbound webhook endpoint. Response contract: 500 on
// missing secret, 400 on a signature that does not verify, 200 with a small
// JSON ack for everything after that. The gateway must never be given
// cause to retry a permanently-unprocessable event.
func (h *WebhookHandler) HandleWebhook(c *gin.Context) {
	ctx := c.Request.Context()
	span := trace.SpanFromContext(ctx)
	deliveryID := uuid.New().String()

	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
		return
	}

	// The signature covers the raw bytes the gateway sent; verification
	// happens before any parsing.
	if err := signature.Verify(h.secret, body, c.GetHeader(SignatureHeader)); err != nil {
		if err == signature.ErrNoSecret {
			telemetry.Logger.Error("Webhook secret not configured, failing closed",
				zap.String("delivery_id", deliveryID),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "webhook secret not configured"})
			return
		}
		telemetry.Logger.Warn("Webhook signature verification failed",
			zap.String("delivery_id", deliveryID),
		)
		metrics.SignatureFailuresTotal.Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		return
	}

	env, err := models.DecodeEnvelope(body)
	if err != nil {
		// Authenticated but unparseable: acknowledge, a retry would
		// carry the same bytes.
		telemetry.Logger.Warn("Authenticated webhook body did not decode",
			zap.String("delivery_id", deliveryID),
			zap.Error(err),
		)
		c.JSON(http.StatusOK, gin.H{"status": reconciler.OutcomeIgnored})
		return
	}

	telemetry.Logger.Info("Webhook delivery received",
		zap.String("delivery_id", deliveryID),
		zap.String("event_id", env.ID),
		zap.String("event_type", env.Event),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
	)

	result := h.processor.Process(ctx, env)
	c.JSON(http.StatusOK, gin.H{"status": result.Outcome})
}
