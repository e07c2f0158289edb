package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Payment is the gateway's authoritative payment record, as returned by its
// private API. Amounts are in the minor currency unit.
type Payment struct {
	ID       string `json:"id"`
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
	Captured bool   `json:"captured"`
}

type paymentCollection struct {
	Count int       `json:"count"`
	Items []Payment `json:"items"`
}

// ErrNoCapturedPayment is returned when an order has no captured payment on
// the gateway side.
var ErrNoCapturedPayment = errors.New("no captured payment for order")

// Client talks to the gateway's private API using basic auth. A client
// without credentials is valid but reports Configured() == false, degrading
// the consistency guard to signature + amount/currency checks.
type Client struct {
	baseURL    string
	keyID      string
	keySecret  string
	httpClient *http.Client
}

func NewClient(baseURL, keyID, keySecret string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		keyID:      keyID,
		keySecret:  keySecret,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) Configured() bool {
	return c.keyID != "" && c.keySecret != ""
}

// FetchPayment returns the authoritative record for a payment id.
func (c *Client) FetchPayment(ctx context.Context, paymentID string) (*Payment, error) {
	var payment Payment
	path := fmt.Sprintf("/v1/payments/%s", url.PathEscape(paymentID))
	if err := c.get(ctx, path, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

// FetchCapturedPayment resolves the captured payment for a gateway order id.
// Used when the webhook event is order-level and names no payment.
func (c *Client) FetchCapturedPayment(ctx context.Context, gatewayOrderID string) (*Payment, error) {
	var coll paymentCollection
	path := fmt.Sprintf("/v1/orders/%s/payments", url.PathEscape(gatewayOrderID))
	if err := c.get(ctx, path, &coll); err != nil {
		return nil, err
	}

	for i := range coll.Items {
		if coll.Items[i].Status == "captured" {
			return &coll.Items[i], nil
		}
	}
	return nil, ErrNoCapturedPayment
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("gateway returned %d: %s", resp.StatusCode, body)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
