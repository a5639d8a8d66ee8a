package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRoundTrip(t *testing.T) {
	m, err := NewSessionManager("test-secret", time.Hour)
	require.NoError(t, err)

	token, err := m.Issue("  Secretaria@Escola.com ")
	require.NoError(t, err)

	email, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "secretaria@escola.com", email)
	assert.Equal(t, time.Hour, m.TTL())
}

func TestSessionTokensAreUnique(t *testing.T) {
	m, err := NewSessionManager("test-secret", time.Hour)
	require.NoError(t, err)

	a, err := m.Issue("a@escola.com")
	require.NoError(t, err)
	b, err := m.Issue("a@escola.com")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestSessionExpired(t *testing.T) {
	m, err := NewSessionManager("test-secret", time.Hour)
	require.NoError(t, err)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := m.Issue("a@escola.com")
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionRejectsForeignTokens(t *testing.T) {
	m, err := NewSessionManager("test-secret", time.Hour)
	require.NoError(t, err)
	other, err := NewSessionManager("other-secret", time.Hour)
	require.NoError(t, err)

	token, err := other.Issue("a@escola.com")
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidSession)

	_, err = m.Verify("")
	assert.ErrorIs(t, err, ErrInvalidSession)

	_, err = m.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionRejectsUnsignedAndEmptySubject(t *testing.T) {
	m, err := NewSessionManager("test-secret", time.Hour)
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.StandardClaims{Subject: "a@escola.com"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.Verify(unsigned)
	assert.ErrorIs(t, err, ErrInvalidSession)

	blank, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{ExpiresAt: time.Now().Add(time.Hour).Unix()}).
		SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = m.Verify(blank)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionGeneratedSecret(t *testing.T) {
	a, err := NewSessionManager("", time.Hour)
	require.NoError(t, err)
	b, err := NewSessionManager("", time.Hour)
	require.NoError(t, err)

	token, err := a.Issue("a@escola.com")
	require.NoError(t, err)

	_, err = a.Verify(token)
	assert.NoError(t, err)
	_, err = b.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}
