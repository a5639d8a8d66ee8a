package services

import (
	"net/url"
	"testing"

	"github.com/SamuelLeutner/student-declarations/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ssoConfig(domain string) *config.Config {
	return &config.Config{
		OAuthClientID:      "client-id",
		OAuthClientSecret:  "client-secret",
		OAuthRedirectURL:   "http://localhost:3000/api/v1/auth/callback",
		AllowedEmailDomain: domain,
	}
}

func TestGoogleSSOConfigured(t *testing.T) {
	assert.True(t, NewGoogleSSO(ssoConfig("")).Configured())

	cfg := ssoConfig("")
	cfg.OAuthClientSecret = ""
	assert.False(t, NewGoogleSSO(cfg).Configured())
	assert.False(t, NewGoogleSSO(&config.Config{}).Configured())
}

func TestGoogleSSOAuthCodeURL(t *testing.T) {
	sso := NewGoogleSSO(ssoConfig(" Escola.com "))

	raw := sso.AuthCodeURL("state-123")
	u, err := url.Parse(raw)
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "accounts.google.com", u.Host)
	assert.Equal(t, "state-123", q.Get("state"))
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "escola.com", q.Get("hd"))
	assert.Equal(t, "online", q.Get("access_type"))
	assert.Contains(t, q.Get("scope"), "userinfo.email")

	noDomain, err := url.Parse(NewGoogleSSO(ssoConfig("")).AuthCodeURL("s"))
	require.NoError(t, err)
	assert.Empty(t, noDomain.Query().Get("hd"))
}

func TestGoogleSSOCheckDomain(t *testing.T) {
	sso := NewGoogleSSO(ssoConfig("escola.com"))

	assert.NoError(t, sso.CheckDomain("secretaria@escola.com"))
	assert.NoError(t, sso.CheckDomain("Secretaria@ESCOLA.com"))
	assert.ErrorIs(t, sso.CheckDomain("intruso@gmail.com"), ErrDomainNotAllowed)
	assert.ErrorIs(t, sso.CheckDomain("secretaria@sub.escola.com"), ErrDomainNotAllowed)
	assert.ErrorIs(t, sso.CheckDomain("no-at-sign"), ErrDomainNotAllowed)

	open := NewGoogleSSO(ssoConfig(""))
	assert.NoError(t, open.CheckDomain("anyone@gmail.com"))
}

func TestNewOAuthState(t *testing.T) {
	a, err := NewOAuthState()
	require.NoError(t, err)
	b, err := NewOAuthState()
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}
