package services

import (
	"testing"

	"github.com/sebridge/checkin/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityFromClaimsFallsThrough(t *testing.T) {
	ident, err := identityFromClaims(map[string]interface{}{
		"email": "a@x.com",
		"name":  "Alice",
	})
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", ident.Email)
	assert.Equal(t, "Alice", ident.Name)

	// Azure tenants that omit email fall back to preferred_username, then upn.
	ident, err = identityFromClaims(map[string]interface{}{
		"preferred_username": "b@x.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "b@x.com", ident.Email)

	ident, err = identityFromClaims(map[string]interface{}{
		"upn": "c@x.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "c@x.com", ident.Email)
}

func TestIdentityFromClaimsDerivesNameFromEmail(t *testing.T) {
	ident, err := identityFromClaims(map[string]interface{}{
		"email": "dana.jones@x.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "dana.jones", ident.Name)
}

func TestIdentityFromClaimsNoEmail(t *testing.T) {
	_, err := identityFromClaims(map[string]interface{}{"name": "Nobody"})
	assert.ErrorIs(t, err, ErrNoEmailClaim)

	// Non-string claim values are ignored rather than coerced.
	_, err = identityFromClaims(map[string]interface{}{"email": 42})
	assert.ErrorIs(t, err, ErrNoEmailClaim)
}

func TestOIDCClientEnabled(t *testing.T) {
	disabled := NewOIDCClient(&config.Config{})
	assert.False(t, disabled.Enabled())

	enabled := NewOIDCClient(&config.Config{
		OIDCTenant:   "common",
		OIDCClientID: "client-123",
	})
	assert.True(t, enabled.Enabled())

	u := enabled.AuthCodeURL("state-xyz")
	assert.Contains(t, u, "login.microsoftonline.com/common/oauth2/v2.0/authorize")
	assert.Contains(t, u, "state=state-xyz")
	assert.Contains(t, u, "client_id=client-123")
}
