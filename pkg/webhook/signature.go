package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// SignatureHeader carries the provider's HMAC signature of the request body.
const SignatureHeader = "X-Hub-Signature-256"

const signaturePrefix = "sha256="

// Sign computes the signature header value for a body: "sha256=" followed by
// the hex HMAC-SHA256 of the raw bytes.
func Sign(secret string, body []byte) (string, error) {
	if secret == "" {
		return "", ErrMissingSecret
	}
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(body)
	return signaturePrefix + hex.EncodeToString(h.Sum(nil)), nil
}

// VerifySignature checks the header against the raw body using a constant
// time comparison.
func VerifySignature(secret string, body []byte, header string) error {
	if secret == "" {
		return ErrMissingSecret
	}
	if header == "" {
		return ErrMissingSignature
	}
	if !strings.HasPrefix(header, signaturePrefix) {
		return fmt.Errorf("%w: unexpected scheme", ErrInvalidSignature)
	}

	expected, err := Sign(secret, body)
	if err != nil {
		return err
	}
	if !hmac.Equal([]byte(expected), []byte(header)) {
		return ErrInvalidSignature
	}
	return nil
}
