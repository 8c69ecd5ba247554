package services

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRSAPublicKey(t *testing.T) {
	n := base64.RawURLEncoding.EncodeToString([]byte{0xDE, 0xAD, 0xBE, 0xEF})
	e := base64.RawURLEncoding.EncodeToString([]byte{0x01, 0x00, 0x01})

	key, err := parseRSAPublicKey(n, e)
	require.NoError(t, err)
	assert.Equal(t, 65537, key.E)
	assert.Equal(t, "3735928559", key.N.String())
}

func TestParseRSAPublicKeyRejectsBadEncoding(t *testing.T) {
	if _, err := parseRSAPublicKey("not+base64url!", "AQAB"); err == nil {
		t.Error("expected error for malformed modulus")
	}
	if _, err := parseRSAPublicKey("AQAB", "///not-raw-url"); err == nil {
		t.Error("expected error for malformed exponent")
	}
}

func TestVerifyIDTokenRejectsGarbage(t *testing.T) {
	c := NewMicrosoftJWKSClient("common")
	_, err := c.VerifyIDToken("not.a.jwt", "client-123")
	assert.Error(t, err)
}
