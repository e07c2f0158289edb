package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

var (
	ErrNoSecret         = errors.New("webhook secret not configured")
	ErrInvalidSignature = errors.New("invalid signature")
)

// Verify authenticates a webhook delivery: HMAC-SHA256 over the raw,
// unmodified body under the shared secret, rendered as lowercase hex and
// compared constant-time against the header value. The body must be the
// exact bytes the gateway sent; re-serialized JSON will not verify.
func Verify(secret string, body []byte, header string) error {
	if secret == "" {
		return ErrNoSecret
	}

	provided, err := hex.DecodeString(strings.TrimSpace(header))
	if err != nil {
		return ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write(body)
	expected := mac.Sum(nil)

	if !hmac.Equal(provided, expected) {
		return ErrInvalidSignature
	}
	return nil
}

// SignHex computes the hex signature for a body; used by tests and tooling.
func SignHex(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
