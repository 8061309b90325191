package webhook_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/webhook"
)

func TestSignatureRoundTrip(t *testing.T) {
	t.Parallel()

	body := []byte(`{"object":"whatsapp_business_account"}`)
	header, err := webhook.Sign("secret", body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(header, "sha256="))

	assert.NoError(t, webhook.VerifySignature("secret", body, header))
}

func TestSignatureTamperDetected(t *testing.T) {
	t.Parallel()

	body := []byte(`{"amount":10}`)
	header, err := webhook.Sign("secret", body)
	require.NoError(t, err)

	tampered := []byte(`{"amount":99}`)
	assert.ErrorIs(t, webhook.VerifySignature("secret", tampered, header), webhook.ErrInvalidSignature)

	assert.ErrorIs(t, webhook.VerifySignature("other-secret", body, header), webhook.ErrInvalidSignature)
}

func TestSignatureMalformedHeader(t *testing.T) {
	t.Parallel()

	body := []byte(`{}`)
	assert.ErrorIs(t, webhook.VerifySignature("secret", body, ""), webhook.ErrMissingSignature)
	assert.ErrorIs(t, webhook.VerifySignature("secret", body, "md5=abc"), webhook.ErrInvalidSignature)
	assert.ErrorIs(t, webhook.VerifySignature("", body, "sha256=abc"), webhook.ErrMissingSecret)
}
