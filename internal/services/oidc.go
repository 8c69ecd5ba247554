package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sebridge/checkin/internal/config"
	"golang.org/x/oauth2"
)

var (
	ErrSSONotConfigured = errors.New("SSO not configured")
	ErrNoEmailClaim     = errors.New("no email found in token claims")
)

// Identity is what the check-in flow needs from the identity provider.
type Identity struct {
	Email string
	Name  string
}

// OIDCClient drives the Azure AD authorization-code flow.
type OIDCClient struct {
	oauth    *oauth2.Config
	jwks     *MicrosoftJWKSClient
	clientID string
}

func NewOIDCClient(cfg *config.Config) *OIDCClient {
	base := "https://login.microsoftonline.com/" + cfg.OIDCTenant
	return &OIDCClient{
		oauth: &oauth2.Config{
			ClientID:     cfg.OIDCClientID,
			ClientSecret: cfg.OIDCClientSecret,
			RedirectURL:  cfg.OIDCRedirectURI,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  base + "/oauth2/v2.0/authorize",
				TokenURL: base + "/oauth2/v2.0/token",
			},
		},
		jwks:     NewMicrosoftJWKSClient(cfg.OIDCTenant),
		clientID: cfg.OIDCClientID,
	}
}

func (c *OIDCClient) Enabled() bool {
	return c.clientID != ""
}

// AuthCodeURL builds the provider redirect carrying the anti-CSRF state.
func (c *OIDCClient) AuthCodeURL(state string) string {
	return c.oauth.AuthCodeURL(state)
}

// Exchange trades the authorization code for a token set, verifies the
// id_token, and extracts the user identity. Azure tenants disagree on which
// claim carries the email, so the lookup falls through
// email -> preferred_username -> upn.
func (c *OIDCClient) Exchange(ctx context.Context, code string) (*Identity, error) {
	if !c.Enabled() {
		return nil, ErrSSONotConfigured
	}

	token, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("code exchange failed: %w", err)
	}

	raw, ok := token.Extra("id_token").(string)
	if !ok || raw == "" {
		return nil, errors.New("token response missing id_token")
	}

	claims, err := c.jwks.VerifyIDToken(raw, c.clientID)
	if err != nil {
		return nil, err
	}

	return identityFromClaims(claims)
}

func identityFromClaims(claims map[string]interface{}) (*Identity, error) {
	email := claimString(claims, "email")
	if email == "" {
		email = claimString(claims, "preferred_username")
	}
	if email == "" {
		email = claimString(claims, "upn")
	}
	if email == "" {
		return nil, ErrNoEmailClaim
	}

	name := claimString(claims, "name")
	if name == "" {
		name = strings.Split(email, "@")[0]
	}

	return &Identity{Email: email, Name: name}, nil
}

func claimString(claims map[string]interface{}, key string) string {
	s, _ := claims[key].(string)
	return s
}
