package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ayushiiaggarwall/skill-weave-engine-sub000/internal/handlers"
	"github.com/ayushiiaggarwall/skill-weave-engine-sub000/internal/telemetry"
)

func NewRouter(webhookHandler *handlers.WebhookHandler, orderHandler *handlers.OrderHandler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(telemetry.TracingMiddleware())

	// Non-POST requests to the webhook path are answered 405, never
	// processed.
	r.HandleMethodNotAllowed = true

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "webhook-reconciler"})
	})

	r.POST("/webhooks/razorpay", webhookHandler.HandleWebhook)
	r.GET("/orders/:id/state", orderHandler.GetOrderState)

	return r
}
