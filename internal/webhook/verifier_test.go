package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestVerifier_ValidSignature(t *testing.T) {
	v := NewVerifier("test-channel-secret")
	body := []byte(`{"events":[{"type":"follow","source":{"userId":"U123"}}]}`)

	err := v.Verify(body, signBody("test-channel-secret", body))
	assert.NoError(t, err)
}

func TestVerifier_SignRoundTrip(t *testing.T) {
	v := NewVerifier("secret")
	body := []byte(`{"events":[]}`)

	assert.NoError(t, v.Verify(body, v.Sign(body)))
}

func TestVerifier_MissingSignature(t *testing.T) {
	v := NewVerifier("secret")

	err := v.Verify([]byte(`{}`), "")
	assert.ErrorIs(t, err, ErrMissingSignature)
}

func TestVerifier_WrongSecret(t *testing.T) {
	v := NewVerifier("secret")
	body := []byte(`{"events":[]}`)

	err := v.Verify(body, signBody("other-secret", body))
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifier_FlippedSignatureByte(t *testing.T) {
	v := NewVerifier("secret")
	body := []byte(`{"events":[{"type":"message"}]}`)
	valid := signBody("secret", body)

	// Any single-byte corruption must invalidate the signature.
	for i := range valid {
		corrupted := []byte(valid)
		corrupted[i] ^= 0x01
		err := v.Verify(body, string(corrupted))
		assert.ErrorIs(t, err, ErrInvalidSignature, "flipping byte %d should fail", i)
	}
}

func TestVerifier_ReserializedBodyFails(t *testing.T) {
	v := NewVerifier("secret")

	// Same JSON document, different serialization: key order and whitespace
	// differ, so the signature over one must not verify the other.
	original := []byte(`{"events":[{"type":"follow","source":{"userId":"U123"}}]}`)
	reserialized := []byte(`{"events": [{"source": {"userId": "U123"}, "type": "follow"}]}`)

	sig := signBody("secret", original)
	require.NoError(t, v.Verify(original, sig))
	assert.ErrorIs(t, v.Verify(reserialized, sig), ErrInvalidSignature)
}
