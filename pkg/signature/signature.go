// Package signature implements shared-secret HMAC verification for webhook
// deliveries. Verification is enforced whenever a secret is configured; an
// empty secret disables the check entirely rather than degrading to a no-op
// that only pretends to verify.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

// Header carries the delivery signature: "sha256=<hex hmac of the body>".
const Header = "X-Webhook-Signature"

const scheme = "sha256="

var (
	ErrMissingSignature = errors.New("missing webhook signature")
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

// Sign computes the signature header value for a body.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return scheme + hex.EncodeToString(mac.Sum(nil))
}

// Verify checks a delivery signature against the body using a constant-time
// comparison. The "sha256=" prefix is optional on the inbound value.
func Verify(secret, header string, body []byte) error {
	header = strings.TrimSpace(header)
	if header == "" {
		return ErrMissingSignature
	}
	header = strings.TrimPrefix(header, scheme)

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(header))) {
		return ErrInvalidSignature
	}
	return nil
}
