package config

import (
	"os"
	"time"
)

type Config struct {
	DatabaseURL  string
	RedisURL     string
	KafkaBrokers string
	NATSURL      string
	OTLPEndpoint string
	Port         string

	// Gateway identity and webhook authentication.
	GatewayName   string
	WebhookSecret string

	// Private API credentials for server-to-server confirmation. Optional:
	// when empty, the guard degrades to signature + amount/currency checks.
	GatewayBaseURL   string
	GatewayKeyID     string
	GatewayKeySecret string
	ConfirmTimeout   time.Duration
}

func Load() *Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8085"
	}

	gateway := os.Getenv("GATEWAY_NAME")
	if gateway == "" {
		gateway = "razorpay"
	}

	baseURL := os.Getenv("GATEWAY_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.razorpay.com"
	}

	confirmTimeout := 5 * time.Second
	if v := os.Getenv("GATEWAY_CONFIRM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			confirmTimeout = d
		}
	}

	return &Config{
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		KafkaBrokers:     os.Getenv("KAFKA_BROKERS"),
		NATSURL:          os.Getenv("NATS_URL"),
		OTLPEndpoint:     os.Getenv("OTLP_ENDPOINT"),
		Port:             port,
		GatewayName:      gateway,
		WebhookSecret:    os.Getenv("WEBHOOK_SECRET"),
		GatewayBaseURL:   baseURL,
		GatewayKeyID:     os.Getenv("GATEWAY_KEY_ID"),
		GatewayKeySecret: os.Getenv("GATEWAY_KEY_SECRET"),
		ConfirmTimeout:   confirmTimeout,
	}
}
