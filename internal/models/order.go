package models

import (
	"database/sql"
	"errors"
	"time"
)

type OrderStatus string

const (
	OrderPending OrderStatus = "pending"
	OrderPaid    OrderStatus = "paid"
	OrderFailed  OrderStatus = "failed"
)

// ErrOrderNotFound is returned when no local order matches a gateway order id.
var ErrOrderNotFound = errors.New("order not found")

// Order is created by the checkout service in state "pending" and mutated
// exactly once by the reconciler, to "paid" or "failed". Amounts are in the
// minor currency unit (paise for INR), never floating point.
type Order struct {
	ID             string         `json:"id"`
	GatewayOrderID string         `json:"gateway_order_id"`
	Amount         int64          `json:"amount"`
	Currency       string         `json:"currency"`
	Status         OrderStatus    `json:"status"`
	PaymentID      sql.NullString `json:"payment_id"`
	PaidAt         sql.NullTime   `json:"paid_at"`
	Gateway        string         `json:"gateway"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}
