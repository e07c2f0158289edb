package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/ayushiiaggarwall/skill-weave-engine-sub000/internal/models"
	"github.com/ayushiiaggarwall/skill-weave-engine-sub000/internal/reconciler"
	"github.com/ayushiiaggarwall/skill-weave-engine-sub000/internal/signature"
)

type fakeProcessor struct {
	envelopes []models.WebhookEnvelope
	result    reconciler.Result
}

func (f *fakeProcessor) Process(ctx context.Context, env models.WebhookEnvelope) reconciler.Result {
	f.envelopes = append(f.envelopes, env)
	return f.result
}

func newTestRouter(secret string, p Processor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewWebhookHandler(secret, p)
	r.POST("/webhooks/razorpay", h.HandleWebhook)
	return r
}

func post(r *gin.Engine, body, sig string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/razorpay", strings.NewReader(body))
	if sig != "" {
		req.Header.Set(SignatureHeader, sig)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandleWebhook_ValidSignature(t *testing.T) {
	p := &fakeProcessor{result: reconciler.Result{Outcome: reconciler.OutcomePaid, Transitioned: true}}
	r := newTestRouter("dev-secret", p)

	body := `{"id":"evt_1","event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_1","order_id":"order_1","amount":14900,"currency":"INR","status":"captured","captured":true}}}}`
	w := post(r, body, signature.SignHex("dev-secret", []byte(body)))

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"status":"paid"`) {
		t.Fatalf("body=%s", w.Body.String())
	}
	if len(p.envelopes) != 1 || p.envelopes[0].ID != "evt_1" {
		t.Fatalf("envelopes=%+v", p.envelopes)
	}
}

func TestHandleWebhook_CorruptedSignatureThenValid(t *testing.T) {
	p := &fakeProcessor{result: reconciler.Result{Outcome: reconciler.OutcomePaid}}
	r := newTestRouter("dev-secret", p)

	body := `{"id":"evt_1","event":"payment.captured"}`

	w := post(r, body, "deadbeef")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if len(p.envelopes) != 0 {
		t.Fatalf("rejected delivery reached the reconciler")
	}

	// Nothing was recorded, so the same event id processes normally once
	// a correct signature arrives.
	w = post(r, body, signature.SignHex("dev-secret", []byte(body)))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if len(p.envelopes) != 1 {
		t.Fatalf("valid redelivery was not processed")
	}
}

func TestHandleWebhook_MissingSignature(t *testing.T) {
	p := &fakeProcessor{}
	r := newTestRouter("dev-secret", p)

	w := post(r, `{"id":"evt_1"}`, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
	if len(p.envelopes) != 0 {
		t.Fatalf("unsigned delivery reached the reconciler")
	}
}

func TestHandleWebhook_NoSecretFailsClosed(t *testing.T) {
	p := &fakeProcessor{}
	r := newTestRouter("", p)

	body := `{"id":"evt_1"}`
	w := post(r, body, signature.SignHex("", []byte(body)))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if len(p.envelopes) != 0 {
		t.Fatalf("delivery processed without a configured secret")
	}
}

func TestHandleWebhook_AuthenticUnparseableBodyAcknowledged(t *testing.T) {
	p := &fakeProcessor{}
	r := newTestRouter("dev-secret", p)

	body := `{not json`
	w := post(r, body, signature.SignHex("dev-secret", []byte(body)))

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if len(p.envelopes) != 0 {
		t.Fatalf("undecodable body reached the reconciler")
	}
}

func TestHandleWebhook_SignatureOverRawBytes(t *testing.T) {
	p := &fakeProcessor{result: reconciler.Result{Outcome: reconciler.OutcomeIgnored}}
	r := newTestRouter("dev-secret", p)

	// Same JSON value, different byte layout: only the exact raw body
	// verifies.
	sent := `{ "id" : "evt_1", "event" : "order.paid" }`
	reserialized := `{"id":"evt_1","event":"order.paid"}`

	w := post(r, sent, signature.SignHex("dev-secret", []byte(reserialized)))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("signature over re-serialized body verified: status=%d", w.Code)
	}

	w = post(r, sent, signature.SignHex("dev-secret", []byte(sent)))
	if w.Code != http.StatusOK {
		t.Fatalf("signature over raw body rejected: status=%d", w.Code)
	}
}
