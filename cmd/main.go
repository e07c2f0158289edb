package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ayushiiaggarwall/skill-weave-engine-sub000/internal/alerts"
	"github.com/ayushiiaggarwall/skill-weave-engine-sub000/internal/api"
	"github.com/ayushiiaggarwall/skill-weave-engine-sub000/internal/config"
	"github.com/ayushiiaggarwall/skill-weave-engine-sub000/internal/events"
	"github.com/ayushiiaggarwall/skill-weave-engine-sub000/internal/gateway"
	"github.com/ayushiiaggarwall/skill-weave-engine-sub000/internal/handlers"
	"github.com/ayushiiaggarwall/skill-weave-engine-sub000/internal/interfaces"
	"github.com/ayushiiaggarwall/skill-weave-engine-sub000/internal/metrics"
	"github.com/ayushiiaggarwall/skill-weave-engine-sub000/internal/reconciler"
	"github.com/ayushiiaggarwall/skill-weave-engine-sub000/internal/repository"
	"github.com/ayushiiaggarwall/skill-weave-engine-sub000/internal/telemetry"
)

func main() {
	// Initialize telemetry
	if err := telemetry.InitTelemetry("webhook-reconciler"); err != nil {
		panic(fmt.Sprintf("Failed to initialize telemetry: %v", err))
	}
	defer telemetry.Shutdown(context.Background())

	telemetry.Logger.Info("Starting Webhook Reconciler")

	cfg := config.Load()
	if cfg.WebhookSecret == "" {
		// Still start; the handler fails closed with 500 per delivery so
		// misconfiguration is visible to monitoring rather than a crash loop.
		telemetry.Logger.Warn("WEBHOOK_SECRET is not set; all deliveries will be rejected")
	}

	metrics.Register()

	// Connect to PostgreSQL
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		telemetry.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Connect to Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisURL,
	})

	orderRepo := repository.NewOrderRepository(db)
	eventLedger := repository.NewEventLedger(db, redisClient)

	// Initialize database
	if err := orderRepo.InitDB(); err != nil {
		telemetry.Logger.Fatal("Failed to initialize orders table", zap.Error(err))
	}
	if err := eventLedger.InitDB(); err != nil {
		telemetry.Logger.Fatal("Failed to initialize webhook_events table", zap.Error(err))
	}

	// Connect to Kafka
	statePub := events.NewKafkaStatePublisher(cfg.KafkaBrokers)
	defer statePub.Close()

	// Connect to NATS for diagnostic alerts; optional
	var alertPub interfaces.AlertPublisher = alerts.Noop{}
	if cfg.NATSURL != "" {
		nc, err := nats.Connect(cfg.NATSURL)
		if err != nil {
			telemetry.Logger.Fatal("Failed to connect to NATS", zap.Error(err))
		}
		defer nc.Close()
		alertPub = alerts.NewNATSPublisher(nc)
	}

	gatewayClient := gateway.NewClient(cfg.GatewayBaseURL, cfg.GatewayKeyID,
		cfg.GatewayKeySecret, cfg.ConfirmTimeout)
	if !gatewayClient.Configured() {
		telemetry.Logger.Warn("Gateway API credentials not set; server-to-server confirmation disabled")
	}

	rec := reconciler.New(eventLedger, orderRepo, gatewayClient, statePub, alertPub,
		cfg.GatewayName, nil)

	webhookHandler := handlers.NewWebhookHandler(cfg.WebhookSecret, rec)
	orderHandler := handlers.NewOrderHandler(orderRepo)
	r := api.NewRouter(webhookHandler, orderHandler)

	// Setup HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// Start server in goroutine
	go func() {
		telemetry.Logger.Info("Webhook Reconciler starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			telemetry.Logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	telemetry.Logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		telemetry.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	telemetry.Logger.Info("Server exited")
}
