package alerts

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/ayushiiaggarwall/skill-weave-engine-sub000/internal/telemetry"
)

const subject = "payments.reconciler.alerts"

// NATSPublisher emits structured diagnostics for acknowledged-but-suspicious
// deliveries (consistency violations, unconfirmed storage writes). These are
// acknowledged 200 to the gateway, so this channel is the only in-band way
// operations learns about them.
type NATSPublisher struct {
	nc *nats.Conn
}

func NewNATSPublisher(nc *nats.Conn) *NATSPublisher {
	return &NATSPublisher{nc: nc}
}

func (p *NATSPublisher) Alert(ctx context.Context, kind string, fields map[string]interface{}) {
	payload := map[string]interface{}{
		"kind":      kind,
		"timestamp": time.Now().UTC(),
	}
	for k, v := range fields {
		payload[k] = v
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}

	if err := p.nc.Publish(subject, data); err != nil {
		telemetry.Logger.Error("Failed to publish reconciler alert",
			zap.String("kind", kind),
			zap.Error(err),
		)
	}
}

// Noop discards alerts; used when NATS is not configured.
type Noop struct{}

func (Noop) Alert(ctx context.Context, kind string, fields map[string]interface{}) {}
