package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ayushiiaggarwall/skill-weave-engine-sub000/internal/models"
)

type fakeOrderGetter struct {
	orders map[string]*models.Order
}

func (f *fakeOrderGetter) GetByID(ctx context.Context, id string) (*models.Order, error) {
	if o, ok := f.orders[id]; ok {
		return o, nil
	}
	return nil, models.ErrOrderNotFound
}

func TestGetOrderState(t *testing.T) {
	paidAt := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	getter := &fakeOrderGetter{orders: map[string]*models.Order{
		"ord_1": {
			ID:             "ord_1",
			GatewayOrderID: "order_1",
			Amount:         14900,
			Currency:       "INR",
			Status:         models.OrderPaid,
			PaymentID:      sql.NullString{String: "pay_1", Valid: true},
			PaidAt:         sql.NullTime{Time: paidAt, Valid: true},
			Gateway:        "razorpay",
		},
	}}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/orders/:id/state", NewOrderHandler(getter).GetOrderState)

	req := httptest.NewRequest(http.MethodGet, "/orders/ord_1/state", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	for _, want := range []string{`"status":"paid"`, `"payment_id":"pay_1"`, `"amount":14900`} {
		if !strings.Contains(w.Body.String(), want) {
			t.Fatalf("body missing %s: %s", want, w.Body.String())
		}
	}
}

func TestGetOrderState_NotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/orders/:id/state", NewOrderHandler(&fakeOrderGetter{}).GetOrderState)

	req := httptest.NewRequest(http.MethodGet, "/orders/missing/state", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d", w.Code)
	}
}
