package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/ayushiiaggarwall/skill-weave-engine-sub000/internal/models"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) InitDB() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS orders (
			id VARCHAR(255) PRIMARY KEY,
			gateway_order_id VARCHAR(255) NOT NULL,
			amount BIGINT NOT NULL,
			currency VARCHAR(3) NOT NULL,
			status VARCHAR(50) NOT NULL DEFAULT 'pending',
			payment_id VARCHAR(255),
			paid_at TIMESTAMP,
			gateway VARCHAR(50) NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_gateway_order_id ON orders(gateway_order_id, gateway)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status)`,
	}

	for _, query := range queries {
		if _, err := r.db.Exec(query); err != nil {
			return err
		}
	}

	return nil
}

// GetByGatewayOrderID looks up the local order for a gateway order id. The
// gateway filter is mandatory: identifiers must never match across gateways.
func (r *OrderRepository) GetByGatewayOrderID(ctx context.Context, gatewayOrderID, gateway string) (*models.Order, error) {
	var order models.Order
	err := r.db.QueryRowContext(ctx, `
		SELECT id, gateway_order_id, amount, currency, status, payment_id, paid_at, gateway, created_at, updated_at
		FROM orders WHERE gateway_order_id = $1 AND gateway = $2
	`, gatewayOrderID, gateway).Scan(&order.ID, &order.GatewayOrderID, &order.Amount,
		&order.Currency, &order.Status, &order.PaymentID, &order.PaidAt, &order.Gateway,
		&order.CreatedAt, &order.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, models.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetByID looks up an order by its local identifier.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := r.db.QueryRowContext(ctx, `
		SELECT id, gateway_order_id, amount, currency, status, payment_id, paid_at, gateway, created_at, updated_at
		FROM orders WHERE id = $1
	`, id).Scan(&order.ID, &order.GatewayOrderID, &order.Amount,
		&order.Currency, &order.Status, &order.PaymentID, &order.PaidAt, &order.Gateway,
		&order.CreatedAt, &order.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, models.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// MarkPaid performs the pending -> paid transition. The status = 'pending'
// guard is the sole concurrency mechanism: a lost race affects zero rows and
// reports transitioned = false.
func (r *OrderRepository) MarkPaid(ctx context.Context, orderID, paymentID string, paidAt time.Time) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = 'paid', payment_id = $1, paid_at = $2, updated_at = NOW()
		WHERE id = $3 AND status = 'pending'
	`, nullString(paymentID), paidAt, orderID)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

// MarkFailed performs the pending -> failed transition under the same guard.
func (r *OrderRepository) MarkFailed(ctx context.Context, orderID string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = 'failed', updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`, orderID)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
