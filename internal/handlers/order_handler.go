package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ayushiiaggarwall/skill-weave-engine-sub000/internal/models"
)

// OrderGetter is the read-side contract for the reconciliation endpoint.
type OrderGetter interface {
	GetByID(ctx context.Context, id string) (*models.Order, error)
}

type OrderHandler struct {
	orders OrderGetter
}

func NewOrderHandler(orders OrderGetter) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// GetOrderState exposes an order's lifecycle state for reconciliation
// tooling. Read-only; the reconciler never serves end users directly.
func (h *OrderHandler) GetOrderState(c *gin.Context) {
	id := c.Param("id")

	order, err := h.orders.GetByID(c.Request.Context(), id)
	if err == models.ErrOrderNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}

	resp := gin.H{
		"order_id":         order.ID,
		"gateway_order_id": order.GatewayOrderID,
		"gateway":          order.Gateway,
		"status":           order.Status,
		"amount":           order.Amount,
		"currency":         order.Currency,
		"created_at":       order.CreatedAt,
		"updated_at":       order.UpdatedAt,
	}
	if order.PaymentID.Valid {
		resp["payment_id"] = order.PaymentID.String
	}
	if order.PaidAt.Valid {
		resp["paid_at"] = order.PaidAt.Time
	}

	c.JSON(http.StatusOK, resp)
}
