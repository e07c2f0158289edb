package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("GATEWAY_NAME", "")
	t.Setenv("GATEWAY_BASE_URL", "")
	t.Setenv("GATEWAY_CONFIRM_TIMEOUT", "")

	cfg := Load()

	if cfg.Port != "8085" {
		t.Fatalf("port=%s", cfg.Port)
	}
	if cfg.GatewayName != "razorpay" {
		t.Fatalf("gateway=%s", cfg.GatewayName)
	}
	if cfg.ConfirmTimeout != 5*time.Second {
		t.Fatalf("confirm timeout=%s", cfg.ConfirmTimeout)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("GATEWAY_CONFIRM_TIMEOUT", "2s")
	t.Setenv("WEBHOOK_SECRET", "s3cret")

	cfg := Load()

	if cfg.Port != "9000" {
		t.Fatalf("port=%s", cfg.Port)
	}
	if cfg.ConfirmTimeout != 2*time.Second {
		t.Fatalf("confirm timeout=%s", cfg.ConfirmTimeout)
	}
	if cfg.WebhookSecret != "s3cret" {
		t.Fatalf("secret=%s", cfg.WebhookSecret)
	}
}
