package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetchPayment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "key_id" || pass != "key_secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Path != "/v1/payments/pay_1" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"id":"pay_1","order_id":"order_1","amount":14900,"currency":"INR","status":"captured","captured":true}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key_id", "key_secret", 2*time.Second)

	p, err := c.FetchPayment(context.Background(), "pay_1")
	if err != nil {
		t.Fatalf("FetchPayment: %v", err)
	}
	if p.OrderID != "order_1" || p.Amount != 14900 || p.Status != "captured" || !p.Captured {
		t.Fatalf("unexpected payment: %+v", p)
	}
}

func TestFetchPayment_GatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key_id", "key_secret", 2*time.Second)

	if _, err := c.FetchPayment(context.Background(), "pay_1"); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}

func TestFetchCapturedPayment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/orders/order_1/payments" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"count":2,"items":[
			{"id":"pay_a","order_id":"order_1","amount":14900,"currency":"INR","status":"failed","captured":false},
			{"id":"pay_b","order_id":"order_1","amount":14900,"currency":"INR","status":"captured","captured":true}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key_id", "key_secret", 2*time.Second)

	p, err := c.FetchCapturedPayment(context.Background(), "order_1")
	if err != nil {
		t.Fatalf("FetchCapturedPayment: %v", err)
	}
	if p.ID != "pay_b" {
		t.Fatalf("expected the captured payment, got %+v", p)
	}
}

func TestFetchCapturedPayment_NoneCaptured(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"count":1,"items":[{"id":"pay_a","order_id":"order_1","amount":14900,"status":"failed","captured":false}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key_id", "key_secret", 2*time.Second)

	if _, err := c.FetchCapturedPayment(context.Background(), "order_1"); err != ErrNoCapturedPayment {
		t.Fatalf("expected ErrNoCapturedPayment, got %v", err)
	}
}

func TestConfigured(t *testing.T) {
	if NewClient("https://api.example.com", "", "", time.Second).Configured() {
		t.Fatal("client without credentials must not report configured")
	}
	if !NewClient("https://api.example.com", "k", "s", time.Second).Configured() {
		t.Fatal("client with credentials must report configured")
	}
}
